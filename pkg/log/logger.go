package log

// Logger is the sink of a session trace. A session calls Log synchronously
// for every command, response, state change and failure, so
// implementations must return quickly and tolerate concurrent calls.
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// MultiLogger fans a trace out to several sinks in registration order,
// typically the console SlogAdapter and a .plog FileLogger.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger builds a MultiLogger over the non-nil sinks.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiLogger) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*Recorder)(nil)
)
