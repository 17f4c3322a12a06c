package transport

import (
	"context"
	"errors"
	"time"
)

// Defaults applied when OpenOptions leaves a field zero.
const (
	// DefaultTimeout bounds connection setup and each ReadLine.
	DefaultTimeout = 2 * time.Second

	// DefaultTerminator ends every line written to and read from an instrument.
	DefaultTerminator = '\n'
)

// Transport errors.
var (
	// ErrTimeout indicates no complete line arrived within the read timeout.
	ErrTimeout = errors.New("read timeout")

	// ErrClosed indicates use of a Conn after Close.
	ErrClosed = errors.New("connection closed")

	// ErrUnsupportedResource indicates no backend handles the identifier.
	ErrUnsupportedResource = errors.New("unsupported resource identifier")
)

// OpenOptions configures a Conn.
type OpenOptions struct {
	// Timeout bounds connection setup and is the default read timeout.
	// Default: DefaultTimeout.
	Timeout time.Duration

	// Terminator ends each line. Default: DefaultTerminator.
	Terminator byte
}

func (o OpenOptions) withDefaults() OpenOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Terminator == 0 {
		o.Terminator = DefaultTerminator
	}
	return o
}

// Enumerator lists resource identifiers currently visible to a backend.
type Enumerator interface {
	// Enumerate returns the identifiers in a stable, backend-defined order.
	Enumerate(ctx context.Context) ([]string, error)
}

// Transport enumerates and opens instrument resources.
type Transport interface {
	Enumerator

	// Open establishes a connection to one resource.
	Open(ctx context.Context, resource string, opts OpenOptions) (Conn, error)
}

// Backend is a Transport that serves one family of identifiers.
type Backend interface {
	Transport

	// Handles reports whether resource belongs to this backend.
	Handles(resource string) bool
}

// Conn is an open, line-framed instrument connection.
// A Conn is not safe for concurrent use.
type Conn interface {
	// WriteLine writes text followed by the terminator.
	WriteLine(text string) error

	// ReadLine reads one terminated line, without the terminator.
	// A non-positive timeout uses the timeout given at open.
	ReadLine(timeout time.Duration) (string, error)

	// Close releases the connection. Calling Close more than once is safe.
	Close() error
}

// Compile-time interface satisfaction checks.
var (
	_ Backend    = (*TCPSocket)(nil)
	_ Backend    = (*Serial)(nil)
	_ Backend    = (*USBTMC)(nil)
	_ Transport  = (*Registry)(nil)
	_ Enumerator = (*MDNSBrowser)(nil)
	_ Conn       = (*streamConn)(nil)
	_ Conn       = (*usbtmcConn)(nil)
)
