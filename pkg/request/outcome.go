package request

import "encoding/json"

// Error is the classified failure of a call.
type Error struct {
	// StatusCode is zero when no HTTP response was received.
	StatusCode int
	StatusText string
	Message    string
	// Network is set when the transport produced no HTTP response. Local
	// failures before sending, such as body encoding, leave it false.
	Network bool
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// None means no call has settled since the last reset.
	None OutcomeKind = iota
	Success
	Failure
	NetworkFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case NetworkFailure:
		return "network_failure"
	default:
		return "none"
	}
}

// Outcome is the tagged result of one settled call.
//
//	Success        StatusCode, Body
//	Failure        StatusCode, Message
//	NetworkFailure Message
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Body       json.RawMessage
	Message    string
}
