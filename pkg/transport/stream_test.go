package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkPort replays scripted read chunks; an exhausted script times out.
type chunkPort struct {
	chunks  [][]byte
	written bytes.Buffer
	readErr error
	closed  int
}

func (p *chunkPort) Write(b []byte) (int, error) { return p.written.Write(b) }

func (p *chunkPort) Close() error {
	p.closed++
	return nil
}

func (p *chunkPort) readTimeout(b []byte, d time.Duration) (int, error) {
	if len(p.chunks) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		time.Sleep(d)
		return 0, nil
	}
	n := copy(b, p.chunks[0])
	p.chunks = p.chunks[1:]
	return n, nil
}

func TestStreamConnReassemblesSplitLines(t *testing.T) {
	port := &chunkPort{chunks: [][]byte{[]byte("1.2"), []byte("34\r\n0.5"), []byte("00\n")}}
	conn := newStreamConn(port, OpenOptions{}.withDefaults())

	first, err := conn.ReadLine(time.Second)
	require.NoError(t, err)
	second, err := conn.ReadLine(time.Second)
	require.NoError(t, err)

	assert.Equal(t, "1.234", first)
	assert.Equal(t, "0.500", second)
}

func TestStreamConnCustomTerminator(t *testing.T) {
	port := &chunkPort{chunks: [][]byte{[]byte("OK\rNEXT\r")}}
	conn := newStreamConn(port, OpenOptions{Terminator: '\r'}.withDefaults())

	require.NoError(t, conn.WriteLine("SYST:REMOTE"))
	line, err := conn.ReadLine(time.Second)
	require.NoError(t, err)

	assert.Equal(t, "OK", line)
	assert.Equal(t, "SYST:REMOTE\r", port.written.String())
}

func TestStreamConnTimeoutKeepsPartialLine(t *testing.T) {
	port := &chunkPort{chunks: [][]byte{[]byte("12.")}}
	conn := newStreamConn(port, OpenOptions{}.withDefaults())

	_, err := conn.ReadLine(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	port.chunks = [][]byte{[]byte("5\n")}
	line, err := conn.ReadLine(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "12.5", line)
}

func TestStreamConnReadError(t *testing.T) {
	port := &chunkPort{readErr: io.EOF}
	conn := newStreamConn(port, OpenOptions{}.withDefaults())

	_, err := conn.ReadLine(time.Second)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestStreamConnCloseOnce(t *testing.T) {
	port := &chunkPort{}
	conn := newStreamConn(port, OpenOptions{}.withDefaults())

	assert.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
	assert.Equal(t, 1, port.closed)
}
