// Package fault defines the error taxonomy shared by every layer of psu-go.
//
// Each failure carries a Kind so callers can decide how to report it without
// string matching. Errors wrap their underlying cause, so transport
// diagnostics remain reachable through errors.Unwrap and errors.As.
//
//	if errors.Is(err, fault.ErrNotConnected) {
//	    // connect first
//	}
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is reported by KindOf for errors outside this taxonomy.
	KindUnknown Kind = iota
	// KindNoDeviceFound means device selection found no acceptable endpoint.
	KindNoDeviceFound
	// KindConnection means opening an endpoint failed.
	KindConnection
	// KindNotConnected means an operation was attempted without an open session.
	KindNotConnected
	// KindCommunication means a write, read or timeout failure on an open session.
	KindCommunication
	// KindMalformedResponse means the instrument reply could not be parsed.
	KindMalformedResponse
	// KindInvalidParameter means a caller-supplied value was rejected before any I/O.
	KindInvalidParameter
)

func (k Kind) String() string {
	switch k {
	case KindNoDeviceFound:
		return "NoDeviceFound"
	case KindConnection:
		return "ConnectionError"
	case KindNotConnected:
		return "NotConnected"
	case KindCommunication:
		return "CommunicationError"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindInvalidParameter:
		return "InvalidParameter"
	default:
		return "Unknown"
	}
}

// Error is a classified failure. Op names the operation that failed
// (for example "VOLT" or "open"), Err is the underlying cause if any.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same Kind. This lets the
// sentinel values below match any error of their kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrNoDeviceFound     = &Error{Kind: KindNoDeviceFound}
	ErrConnection        = &Error{Kind: KindConnection}
	ErrNotConnected      = &Error{Kind: KindNotConnected}
	ErrCommunication     = &Error{Kind: KindCommunication}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrInvalidParameter  = &Error{Kind: KindInvalidParameter}
)

// New returns a classified error with the given cause.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Connection wraps err as a failure to open an endpoint.
func Connection(op string, err error) error {
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

// Communication wraps err as an I/O failure on an open session.
func Communication(op string, err error) error {
	return &Error{Kind: KindCommunication, Op: op, Err: err}
}

// Malformed reports an unparseable instrument reply.
func Malformed(op, reply string, err error) error {
	return &Error{Kind: KindMalformedResponse, Op: op, Err: fmt.Errorf("reply %q: %w", reply, err)}
}

// InvalidParameter reports a rejected caller-supplied value.
func InvalidParameter(op string, format string, args ...any) error {
	return &Error{Kind: KindInvalidParameter, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotConnected reports an operation attempted without an open session.
func NotConnected(op string) error {
	return &Error{Kind: KindNotConnected, Op: op}
}

// KindOf returns the Kind of the outermost *Error in err's chain,
// or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
