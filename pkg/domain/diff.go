package domain

import "reflect"

// SessionDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Status *SessionStatus `json:"status,omitempty"`

	// Flow is set when the active flow changed. FlowCleared is true when the
	// new snapshot has no active flow while the old one had.
	Flow        *ActiveFlow `json:"flow,omitempty"`
	FlowCleared bool        `json:"flow_cleared,omitempty"`

	// Appended holds turns added after the old snapshot.
	Appended []Turn `json:"appended,omitempty"`

	// Resolved lists prompt turn ids that were answered in between.
	Resolved []string `json:"resolved,omitempty"`
}

// Diff calculates the difference between oldSess and newSess.
// If oldSess is nil, it returns a diff representing the entire newSess (initial load).
func Diff(oldSess, newSess *Session) *SessionDiff {
	if newSess == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSess.ID}

	if oldSess == nil || oldSess.Status != newSess.Status {
		status := newSess.Status
		diff.Status = &status
	}

	var oldFlow *ActiveFlow
	if oldSess != nil {
		oldFlow = oldSess.Flow
	}
	switch {
	case newSess.Flow == nil && oldFlow != nil:
		diff.FlowCleared = true
	case newSess.Flow != nil && !reflect.DeepEqual(oldFlow, newSess.Flow):
		diff.Flow = newSess.Flow
	}

	oldLen := 0
	if oldSess != nil {
		oldLen = len(oldSess.Turns)
		diff.Resolved = resolvedBetween(oldSess.Turns, newSess.Turns)
	}
	// Turns are append-only, so everything past the old length is new.
	if len(newSess.Turns) > oldLen {
		diff.Appended = append([]Turn(nil), newSess.Turns[oldLen:]...)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func resolvedBetween(old, new []Turn) []string {
	var ids []string
	for i := range old {
		if i >= len(new) {
			break
		}
		if old[i].IsOpenPrompt() && !new[i].IsOpenPrompt() {
			ids = append(ids, old[i].ID)
		}
	}
	return ids
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.Status == nil &&
		d.Flow == nil &&
		!d.FlowCleared &&
		len(d.Appended) == 0 &&
		len(d.Resolved) == 0
}
