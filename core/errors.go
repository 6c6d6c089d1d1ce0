package core

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound indicates an operation against an unknown session ID.
// This is the only error class surfaced to the transport layer as a
// client-visible failure; everything internal to agent reasoning recovers
// with best-effort defaults instead.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionEnded indicates input arrived after the interview reached its
// terminal state.
var ErrSessionEnded = errors.New("session ended")

// CommandError reports an unrecognized or malformed slash command. Callers
// render Usage to the user rather than treating it as a failure.
type CommandError struct {
	Command string
	Usage   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Command)
}

// StateTransitionError records an interviewer state machine step that could
// not determine a valid next state. The agent recovers by remaining in From;
// the error exists for logging only.
type StateTransitionError struct {
	From  InterviewState
	To    InterviewState
	Cause error
}

func (e *StateTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid state transition %s -> %s: %v", e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("invalid state transition %s -> %s", e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return e.Cause }
