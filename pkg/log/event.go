package log

import "time"

// Event represents one entry of an instrument session trace.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Resource is the endpoint identifier the session is bound to.
	Resource string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Exchange    *ExchangeEvent    `cbor:"10,keyasint,omitempty"` // Command or response line
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Session/instrument state
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"` // Failures on the session
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates a line read from the instrument.
	DirectionIn Direction = 0
	// DirectionOut indicates a line written to the instrument.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates a command line sent to the instrument.
	CategoryCommand Category = 0
	// CategoryResponse indicates a response line read from the instrument.
	CategoryResponse Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryResponse:
		return "RESPONSE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ExchangeEvent captures one line of the SCPI dialogue.
type ExchangeEvent struct {
	// Line is the text without its terminator.
	Line string `cbor:"1,keyasint"`

	// Query is set for commands that expect a response (ending in '?').
	Query bool `cbor:"2,keyasint,omitempty"`

	// Latency is the time between sending a query and reading its
	// response (responses only). Stored as nanoseconds.
	Latency *time.Duration `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures session lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntitySession indicates a session open/close.
	StateEntitySession StateEntity = 0
	// StateEntityOutput indicates the instrument output was switched.
	StateEntityOutput StateEntity = 1
	// StateEntityControl indicates a remote/local front panel lock change.
	StateEntityControl StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntitySession:
		return "SESSION"
	case StateEntityOutput:
		return "OUTPUT"
	case StateEntityControl:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}

// Session states used in StateChangeEvent.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
)

// ErrorEventData captures failures on a session.
type ErrorEventData struct {
	// Kind is the failure classification (for example "CommunicationError").
	Kind string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
