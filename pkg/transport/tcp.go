package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// TCPSocket opens raw SCPI sockets (TCPIP[n]::host::port::SOCKET).
type TCPSocket struct {
	// Browser, if set, supplies identifiers for Enumerate.
	Browser Enumerator
}

// Enumerate returns the identifiers found by Browser, or nothing.
func (t *TCPSocket) Enumerate(ctx context.Context) ([]string, error) {
	if t.Browser == nil {
		return nil, nil
	}
	return t.Browser.Enumerate(ctx)
}

// Handles reports whether resource is a TCPIP SOCKET identifier.
func (t *TCPSocket) Handles(resource string) bool {
	_, err := ParseSocketResource(resource)
	return err == nil
}

// Open dials the socket named by resource.
func (t *TCPSocket) Open(ctx context.Context, resource string, opts OpenOptions) (Conn, error) {
	opts = opts.withDefaults()
	addr, err := ParseSocketResource(resource)
	if err != nil {
		return nil, err
	}

	// Apply timeout from options if context doesn't have one
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	return newStreamConn(&tcpPort{conn: conn}, opts), nil
}

// SocketResource formats a TCPIP SOCKET identifier.
func SocketResource(host string, port int) string {
	return fmt.Sprintf("TCPIP0::%s::%d::SOCKET", host, port)
}

// ParseSocketResource returns the host:port dial address of a
// TCPIP[n]::host::port::SOCKET identifier.
func ParseSocketResource(resource string) (string, error) {
	parts := strings.Split(resource, "::")
	if len(parts) != 4 ||
		!strings.HasPrefix(strings.ToUpper(parts[0]), "TCPIP") ||
		!strings.EqualFold(parts[3], "SOCKET") {
		return "", fmt.Errorf("%w: %q is not a TCPIP socket", ErrUnsupportedResource, resource)
	}
	host := strings.Trim(parts[1], "[]")
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrUnsupportedResource, resource)
	}
	port, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil || port == 0 {
		return "", fmt.Errorf("%w: %q has invalid port", ErrUnsupportedResource, resource)
	}
	return net.JoinHostPort(host, parts[2]), nil
}

type tcpPort struct {
	conn net.Conn
}

func (p *tcpPort) Write(b []byte) (int, error) { return p.conn.Write(b) }

func (p *tcpPort) Close() error { return p.conn.Close() }

func (p *tcpPort) readTimeout(b []byte, d time.Duration) (int, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		return 0, err
	}
	n, err := p.conn.Read(b)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return n, nil
	}
	return n, err
}
