package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AppendPreservesOrder(t *testing.T) {
	s := NewSession("s", time.Now())
	for _, text := range []string{"a", "b", "c"} {
		s.Append(Turn{Role: RoleUser, Payload: TextPayload(text)})
	}

	require.Len(t, s.Turns, 3)
	assert.Equal(t, []string{"t1", "t2", "t3"}, []string{s.Turns[0].ID, s.Turns[1].ID, s.Turns[2].ID})
	assert.Equal(t, "c", s.Turns[2].Payload.Text)
}

func TestSession_ResolvePromptIsIdempotent(t *testing.T) {
	s := NewSession("s", time.Now())
	p := s.Append(promptTurn(false))
	text := s.Append(Turn{Role: RoleUser, Payload: TextPayload("x")})

	assert.True(t, s.ResolvePrompt(p.ID))
	assert.False(t, s.ResolvePrompt(p.ID), "second resolve is a no-op")
	assert.False(t, s.ResolvePrompt(text.ID), "plain text turns carry no prompt")
	assert.False(t, s.ResolvePrompt("missing"))
	assert.True(t, s.Turns[0].Payload.Prompt.Resolved)
}

func TestSession_CloneIsolatesFlow(t *testing.T) {
	s := NewSession("s", time.Now())
	s.SetActiveFlow(NewSeatFlow([]Seat{{ID: "S1"}, {ID: "S2"}}))

	c := s.Clone()
	c.Flow.Seat.State = StateConfirmPending
	c.Flow.Seat.Candidates[0].ID = "changed"
	c.Append(Turn{Role: RoleUser})

	assert.Equal(t, StateCandidatesShown, s.ActiveFlow().State())
	assert.Equal(t, "S1", s.Flow.Seat.Candidates[0].ID)
	assert.Empty(t, s.Turns)
}

func TestFlowState_IsTerminal(t *testing.T) {
	assert.True(t, StateBooked.IsTerminal())
	assert.True(t, StateHoldPlaced.IsTerminal())
	assert.True(t, StateCancelled.IsTerminal())
	assert.False(t, StateConfirmPending.IsTerminal())
	assert.Equal(t, StateAwaitingIntent, (*ActiveFlow)(nil).State())
}
