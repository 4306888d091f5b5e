package dispatch

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error matches exactly one of these with errors.Is.
var (
	// ErrRejected means the request failed validation and nothing was sent.
	ErrRejected = errors.New("request rejected")
	// ErrInconsistent means a validated pattern had no parameters.
	ErrInconsistent = errors.New("catalog inconsistency")
	// ErrEncode means the parameters could not be serialized.
	ErrEncode = errors.New("request encoding failed")
	// ErrTransport covers network, DNS and timeout failures.
	ErrTransport = errors.New("transport failure")
)

// Reason says which validation check rejected a request.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnloaded
	ReasonUnknownFormat
	ReasonUnsupportedFormat
	ReasonUnknownPattern
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnloaded:
		return "catalog_unloaded"
	case ReasonUnknownFormat:
		return "unknown_format"
	case ReasonUnsupportedFormat:
		return "unsupported_format"
	case ReasonUnknownPattern:
		return "unknown_pattern"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Error describes why a dispatch did not produce a response.
type Error struct {
	Kind    error
	Reason  Reason
	Value   string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrRejected:
		switch e.Reason {
		case ReasonUnloaded:
			return "request rejected: catalog not loaded"
		case ReasonUnknownFormat:
			return fmt.Sprintf("request rejected: format %q is not in the catalog", e.Value)
		case ReasonUnsupportedFormat:
			return fmt.Sprintf("request rejected: format %q has no transport", e.Value)
		case ReasonUnknownPattern:
			return fmt.Sprintf("request rejected: pattern %q is not in the catalog", e.Value)
		}
		return "request rejected"
	case e.Kind == ErrInconsistent:
		return fmt.Sprintf("catalog inconsistency: pattern %q has no parameters", e.Value)
	case e.Timeout:
		return fmt.Sprintf("%v: timeout: %v", e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return fmt.Sprint(e.Kind)
	}
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func rejected(reason Reason, value string) *Error {
	return &Error{Kind: ErrRejected, Reason: reason, Value: value}
}
