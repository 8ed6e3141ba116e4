package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/ragso/pkg/domain"
)

var (
	// ErrNoActiveFlow is the cause when a selection arrives with no flow of
	// the matching kind.
	ErrNoActiveFlow = errors.New("no active flow")
	// ErrNotInCandidates is the cause when the id was not in the last list shown.
	ErrNotInCandidates = errors.New("id not among candidates")
	// ErrWrongState is the cause when the flow does not accept the event now.
	ErrWrongState = errors.New("flow does not accept this event in its current state")
	// ErrPromptNotFound is the cause when a confirm names an unknown or
	// non-prompt turn.
	ErrPromptNotFound = errors.New("confirmation prompt not found")
	// ErrStalePrompt is the cause when a confirm answers a prompt that no
	// longer belongs to the active flow.
	ErrStalePrompt = errors.New("confirmation prompt is no longer active")
)

// SelectionError reports a rejected selection or confirmation.
// It matches both domain.ErrInvalidSelection and its Cause under errors.Is.
type SelectionError struct {
	Kind  domain.EventKind
	ID    string
	Cause error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.ID, e.Cause)
}

func (e *SelectionError) Unwrap() []error {
	return []error{domain.ErrInvalidSelection, e.Cause}
}

func reject(ev domain.Event, cause error) error {
	return &SelectionError{Kind: ev.Kind, ID: ev.TargetID, Cause: cause}
}

// GatewayError wraps a failed catalog call. It matches
// domain.ErrGatewayUnavailable under errors.Is.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() []error {
	return []error{domain.ErrGatewayUnavailable, e.Err}
}
