package domain

import (
	"fmt"
	"slices"
	"time"
)

// SessionStatus guards the single in-flight trigger of a session.
type SessionStatus string

const (
	StatusIdle    SessionStatus = "idle"
	StatusPending SessionStatus = "pending" // a trigger is being processed
)

// Session is one conversation: an append-only turn log plus the single
// active flow slot.
type Session struct {
	ID        string           `json:"id"`
	Status    SessionStatus    `json:"status"`
	Turns     []Turn           `json:"turns"`
	Flow      *ActiveFlow      `json:"flow,omitempty"`
	Purchases []PurchaseRecord `json:"purchases,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Sealed is the encrypted session when it went through an encrypting
	// store. Only the envelope persisted by such a store carries it.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewSession creates an idle session with an empty log.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Status:    StatusIdle,
		Turns:     []Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn to the end of the log, assigning it the next
// sequential id. Turns are never reordered or removed.
func (s *Session) Append(t Turn) Turn {
	t.ID = fmt.Sprintf("t%d", len(s.Turns)+1)
	s.Turns = append(s.Turns, t)
	if t.CreatedAt.After(s.UpdatedAt) {
		s.UpdatedAt = t.CreatedAt
	}
	return t
}

// SetActiveFlow replaces the active flow. Passing nil clears it.
func (s *Session) SetActiveFlow(f *ActiveFlow) {
	s.Flow = f
}

// ActiveFlow returns the in-progress flow or nil.
func (s *Session) ActiveFlow() *ActiveFlow {
	return s.Flow
}

// FindTurn returns the turn with the given id.
func (s *Session) FindTurn(id string) (Turn, bool) {
	for _, t := range s.Turns {
		if t.ID == id {
			return t, true
		}
	}
	return Turn{}, false
}

// ResolvePrompt marks the confirmation prompt on turn id as answered.
// It returns false when the turn is not an open prompt, so resolving twice
// is a no-op.
func (s *Session) ResolvePrompt(id string) bool {
	for i := range s.Turns {
		t := &s.Turns[i]
		if t.ID != id {
			continue
		}
		if !t.IsOpenPrompt() {
			return false
		}
		p := *t.Payload.Prompt
		p.Resolved = true
		t.Payload.Prompt = &p
		return true
	}
	return false
}

// Clone returns a copy that shares no mutable state with s.
// Turn payload bodies are shared because turns are immutable; the prompt is
// copied on resolve instead of in place.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Turns = append(make([]Turn, 0, len(s.Turns)+4), s.Turns...)
	next.Purchases = slices.Clone(s.Purchases)
	next.Sealed = slices.Clone(s.Sealed)
	next.Flow = s.Flow.Clone()
	return &next
}
