package transport

import (
	"bytes"
	"io"
	"strings"
	"time"
)

// streamPort is a byte stream whose reads can be bounded in time.
// A read that times out returns (0, nil) or the bytes received so far.
type streamPort interface {
	io.WriteCloser
	readTimeout(p []byte, d time.Duration) (int, error)
}

// streamConn frames a byte stream into terminated lines.
type streamConn struct {
	port    streamPort
	term    byte
	timeout time.Duration
	pending []byte
	chunk   []byte
	closed  bool
}

func newStreamConn(port streamPort, opts OpenOptions) *streamConn {
	return &streamConn{
		port:    port,
		term:    opts.Terminator,
		timeout: opts.Timeout,
		chunk:   make([]byte, 512),
	}
}

// WriteLine writes text and the terminator, retrying short writes.
func (c *streamConn) WriteLine(text string) error {
	if c.closed {
		return ErrClosed
	}
	buf := append([]byte(text), c.term)
	for len(buf) > 0 {
		n, err := c.port.Write(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return nil
}

// ReadLine returns the next complete line. Bytes after the terminator are
// kept for the next call.
func (c *streamConn) ReadLine(timeout time.Duration) (string, error) {
	if c.closed {
		return "", ErrClosed
	}
	if timeout <= 0 {
		timeout = c.timeout
	}
	deadline := time.Now().Add(timeout)
	for {
		if line, ok := c.nextLine(); ok {
			return line, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", ErrTimeout
		}
		n, err := c.port.readTimeout(c.chunk, remaining)
		c.pending = append(c.pending, c.chunk[:n]...)
		if err != nil {
			if line, ok := c.nextLine(); ok {
				return line, nil
			}
			return "", err
		}
	}
}

func (c *streamConn) nextLine() (string, bool) {
	i := bytes.IndexByte(c.pending, c.term)
	if i < 0 {
		return "", false
	}
	line := string(c.pending[:i])
	c.pending = c.pending[i+1:]
	return strings.TrimRight(line, "\r"), true
}

// Close closes the underlying port once.
func (c *streamConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.pending = nil
	return c.port.Close()
}
