package dispatch

import (
	"net/http"
	"time"
)

// State is the terminal state of one dispatch.
type State int

const (
	StatePending State = iota
	StateRejected
	StateFailed
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	case StateSucceeded:
		return "succeeded"
	default:
		return "pending"
	}
}

// Outcome is the normalized result of one Dispatch call.
//
// A response with a 4xx or 5xx status is still StateSucceeded: the request
// reached the endpoint and the caller decides what the status means.
type Outcome struct {
	ID      string
	Format  string
	Pattern string
	State   State

	// StatusCode is zero when no response was received.
	StatusCode int
	Status     string
	Header     http.Header
	URL        string
	RawBody    string
	Truncated  bool

	// JSON holds the decoded body when IsJSON is set. Numbers are json.Number.
	JSON   any
	IsJSON bool

	Err *Error

	Started  time.Time
	Duration time.Duration
}

// HasStatus reports whether a response was received.
func (o Outcome) HasStatus() bool {
	return o.StatusCode != 0
}

// OK reports a received 2xx response.
func (o Outcome) OK() bool {
	return o.State == StateSucceeded && o.StatusCode >= 200 && o.StatusCode < 300
}

// ErrorMessage returns the error description, or "" when there is none.
func (o Outcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
