package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession(sessionID, now)
		sess.Append(domain.Turn{Role: domain.RoleUser, CreatedAt: now, Payload: domain.TextPayload("좌석 예약")})
		sess.Append(domain.Turn{
			Role:      domain.RoleAssistant,
			CreatedAt: now,
			Payload: domain.Payload{
				Kind:  domain.PayloadSeatCandidates,
				Seats: []domain.Seat{{ID: "S233", Name: "좌석 233", Location: "제1열람실-3"}},
			},
		})
		sess.SetActiveFlow(domain.NewSeatFlow([]domain.Seat{{ID: "S233", Name: "좌석 233", Location: "제1열람실-3"}}))

		require.NoError(t, store.Save(ctx, sess), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.ID, loaded.ID)
		require.Len(t, loaded.Turns, 2)
		assert.Equal(t, "t2", loaded.Turns[1].ID)
		assert.Equal(t, "S233", loaded.Turns[1].Payload.Seats[0].ID)
		assert.Equal(t, domain.StateCandidatesShown, loaded.ActiveFlow().State())
	})

	t.Run("Load Is Isolated From Caller", func(t *testing.T) {
		sess := domain.NewSession(sessionID, now)
		require.NoError(t, store.Save(ctx, sess))

		sess.Append(domain.Turn{Role: domain.RoleUser, Payload: domain.TextPayload("after save")})

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Turns, "mutations after Save must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, now)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, now))
		_ = store.Save(ctx, domain.NewSession(id2, now))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
