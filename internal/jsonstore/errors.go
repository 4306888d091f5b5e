package jsonstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every read failure: callers that only need
// "data or no data" check errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("json document not available")

// Kind classifies why a read produced no data.
type Kind int

const (
	KindMissing Kind = iota
	KindEmpty
	KindUnreadable
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindEmpty:
		return "empty"
	case KindUnreadable:
		return "unreadable"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ReadError reports a failed read.
type ReadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("read %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("read %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrNotFound }

// Stage names the step of Write that failed.
type Stage string

const (
	StageMkdir  Stage = "mkdir"
	StageEncode Stage = "encode"
	StageTemp   Stage = "temp"
	StageBackup Stage = "backup"
	StageRename Stage = "rename"
)

// WriteError reports a failed write. No partial file is left at Path.
type WriteError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// KindOf returns the read failure kind of err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var rerr *ReadError
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return 0, false
}
