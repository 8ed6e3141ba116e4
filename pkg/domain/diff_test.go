package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func promptTurn(resolved bool) Turn {
	return Turn{
		Role: RoleAssistant,
		Payload: Payload{
			Kind:   PayloadConfirmPrompt,
			Prompt: &ConfirmPrompt{Action: ConfirmSeat, SubjectID: "S233", Resolved: resolved},
		},
	}
}

func TestDiff(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	t.Run("Initial Load (Old is Nil)", func(t *testing.T) {
		s := NewSession("sess-1", now)
		s.Append(Turn{Role: RoleUser, Payload: TextPayload("hi")})

		diff := Diff(nil, s)
		if diff == nil {
			t.Fatal("Diff() = nil, want full diff")
		}
		if diff.Status == nil || *diff.Status != StatusIdle {
			t.Errorf("Diff().Status = %v, want idle", diff.Status)
		}
		if len(diff.Appended) != 1 {
			t.Errorf("Diff().Appended = %d turns, want 1", len(diff.Appended))
		}
	})

	t.Run("No Changes", func(t *testing.T) {
		s := NewSession("sess-1", now)
		if diff := Diff(s, s.Clone()); diff != nil {
			t.Errorf("Diff() = %+v, want nil", diff)
		}
	})

	t.Run("Turn Append And Flow Start", func(t *testing.T) {
		old := NewSession("sess-1", now)
		next := old.Clone()
		next.Append(Turn{Role: RoleAssistant, Payload: Payload{Kind: PayloadSeatCandidates, Seats: []Seat{{ID: "S1"}}}})
		next.SetActiveFlow(NewSeatFlow([]Seat{{ID: "S1"}}))

		diff := Diff(old, next)
		if diff == nil {
			t.Fatal("Diff() = nil")
		}
		if len(diff.Appended) != 1 || diff.Appended[0].ID != "t1" {
			t.Errorf("Diff().Appended = %+v", diff.Appended)
		}
		if diff.Flow == nil || diff.Flow.State() != StateCandidatesShown {
			t.Errorf("Diff().Flow = %+v", diff.Flow)
		}
	})

	t.Run("Flow Cleared", func(t *testing.T) {
		old := NewSession("sess-1", now)
		old.SetActiveFlow(NewSeatFlow(nil))
		next := old.Clone()
		next.SetActiveFlow(nil)

		diff := Diff(old, next)
		if diff == nil || !diff.FlowCleared {
			t.Errorf("Diff() = %+v, want FlowCleared", diff)
		}
	})

	t.Run("Prompt Resolved", func(t *testing.T) {
		old := NewSession("sess-1", now)
		p := old.Append(promptTurn(false))
		next := old.Clone()
		if !next.ResolvePrompt(p.ID) {
			t.Fatal("ResolvePrompt() = false")
		}

		diff := Diff(old, next)
		if diff == nil || len(diff.Resolved) != 1 || diff.Resolved[0] != p.ID {
			t.Errorf("Diff().Resolved = %+v", diff)
		}
		if !old.Turns[0].IsOpenPrompt() {
			t.Error("resolving on the clone must not touch the original")
		}
	})
}

func TestDiffJSONSerialization(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	old := NewSession("sess-1", now)
	next := old.Clone()
	next.Append(Turn{Role: RoleUser, Payload: TextPayload("hi")})

	bytes, err := json.Marshal(Diff(old, next))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(bytes), `"flow"`) {
		t.Errorf("JSON should not contain 'flow' when unchanged, got: %s", bytes)
	}
	if !strings.Contains(string(bytes), `"appended"`) {
		t.Errorf("JSON should contain appended turns, got: %s", bytes)
	}
}
