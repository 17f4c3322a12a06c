// Package session holds one open connection to an instrument and frames the
// line-oriented SCPI dialogue over it.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
	"github.com/psu-tools/psu-go/pkg/log"
	"github.com/psu-tools/psu-go/pkg/transport"
)

// Options configures a Session.
type Options struct {
	// Timeout bounds connection setup and each response read.
	// Default: transport.DefaultTimeout (2s).
	Timeout time.Duration

	// Terminator ends every line. Default: '\n'.
	Terminator byte

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger

	// ProtocolLogger receives the SCPI trace. Nil disables it.
	ProtocolLogger log.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = transport.DefaultTimeout
	}
	if o.Terminator == 0 {
		o.Terminator = transport.DefaultTerminator
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Session is an open connection to one endpoint. It exclusively owns its
// transport.Conn and is not safe for concurrent use.
type Session struct {
	conn     transport.Conn
	endpoint discovery.Endpoint
	opts     Options
	id       string
	open     bool
}

// Open connects to ep through t. Failure to open is a connection fault.
func Open(ctx context.Context, t transport.Transport, ep discovery.Endpoint, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	conn, err := t.Open(ctx, ep.Resource, transport.OpenOptions{
		Timeout:    opts.Timeout,
		Terminator: opts.Terminator,
	})
	if err != nil {
		opts.Logger.Debug("open failed", "resource", ep.Resource, "error", err)
		return nil, fault.Connection("open "+ep.Resource, err)
	}

	s := &Session{
		conn:     conn,
		endpoint: ep,
		opts:     opts,
		id:       uuid.New().String(),
		open:     true,
	}
	s.LogState(log.StateEntitySession, log.StateClosed, log.StateOpen)
	opts.Logger.Debug("session opened", "resource", ep.Resource, "session", s.id)
	return s, nil
}

// ID returns the session identifier used in trace events.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Endpoint returns the endpoint the session is bound to.
func (s *Session) Endpoint() discovery.Endpoint {
	if s == nil {
		return discovery.Endpoint{}
	}
	return s.endpoint
}

// IsOpen reports whether the session can carry commands.
func (s *Session) IsOpen() bool {
	return s != nil && s.open
}

// SendLine writes cmd followed by the terminator.
func (s *Session) SendLine(cmd string) error {
	if !s.IsOpen() {
		return fault.NotConnected(cmd)
	}

	s.logExchange(log.DirectionOut, log.CategoryCommand, cmd, nil)
	if err := s.conn.WriteLine(cmd); err != nil {
		return s.fail(cmd, err)
	}
	return nil
}

// QueryLine writes cmd and reads one response line within the session
// timeout. The terminator and surrounding whitespace are trimmed.
func (s *Session) QueryLine(cmd string) (string, error) {
	if err := s.SendLine(cmd); err != nil {
		return "", err
	}

	start := time.Now()
	line, err := s.conn.ReadLine(s.opts.Timeout)
	if err != nil {
		return "", s.fail(cmd, err)
	}
	latency := time.Since(start)

	reply := strings.TrimSpace(line)
	s.logExchange(log.DirectionIn, log.CategoryResponse, reply, &latency)
	return reply, nil
}

// Close releases the connection. It is safe to call on a closed or nil
// session.
func (s *Session) Close() error {
	if !s.IsOpen() {
		return nil
	}
	s.open = false

	err := s.conn.Close()
	s.LogState(log.StateEntitySession, log.StateOpen, log.StateClosed)
	s.opts.Logger.Debug("session closed", "resource", s.endpoint.Resource, "session", s.id)
	if err != nil && !errors.Is(err, transport.ErrClosed) {
		return fault.Communication("close", err)
	}
	return nil
}

// LogState records an instrument state change in the trace.
func (s *Session) LogState(entity log.StateEntity, from, to string) {
	if s == nil || s.opts.ProtocolLogger == nil {
		return
	}
	s.opts.ProtocolLogger.Log(s.event(log.DirectionOut, log.CategoryState, func(e *log.Event) {
		e.StateChange = &log.StateChangeEvent{Entity: entity, OldState: from, NewState: to}
	}))
}

// LogError records a failure that happened above the transport, such as an
// unparseable reply.
func (s *Session) LogError(cmd string, err error) {
	if s == nil || s.opts.ProtocolLogger == nil || err == nil {
		return
	}
	s.opts.ProtocolLogger.Log(s.event(log.DirectionIn, log.CategoryError, func(e *log.Event) {
		e.Error = &log.ErrorEventData{Kind: fault.KindOf(err).String(), Message: err.Error(), Context: cmd}
	}))
}

func (s *Session) fail(cmd string, err error) error {
	ferr := fault.Communication(cmd, err)
	s.LogError(cmd, ferr)
	s.opts.Logger.Debug("exchange failed", "command", cmd, "error", err)
	return ferr
}

func (s *Session) logExchange(dir log.Direction, cat log.Category, line string, latency *time.Duration) {
	if s.opts.ProtocolLogger == nil {
		return
	}
	s.opts.ProtocolLogger.Log(s.event(dir, cat, func(e *log.Event) {
		e.Exchange = &log.ExchangeEvent{
			Line:    line,
			Query:   cat == log.CategoryCommand && strings.HasSuffix(line, "?"),
			Latency: latency,
		}
	}))
}

func (s *Session) event(dir log.Direction, cat log.Category, fill func(*log.Event)) log.Event {
	e := log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Direction: dir,
		Category:  cat,
		Resource:  s.endpoint.Resource,
	}
	fill(&e)
	return e
}
