package publish

import (
	"errors"
	"fmt"
)

// State is the progress of a sync run.
type State int

const (
	Idle State = iota
	ConfigLoaded
	EncodedPending
	Resolved
	Published
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ConfigLoaded:
		return "config-loaded"
	case EncodedPending:
		return "encoded"
	case Resolved:
		return "resolved"
	case Published:
		return "published"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state:%d", int(s))
	}
}

var (
	ErrConfig = errors.New("configuration error")
	ErrSource = errors.New("source read error")
)

// Error is the error returned by a failed sync run. State is the last state the run
// reached before failing.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sync failed after '%v' (%v)", e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
