package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/ragso/pkg/adapters/redis"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunSessionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_RoundTripsFlowAndReceipt(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	end := now.Add(3 * time.Hour)

	sess := domain.NewSession("round-trip", now)
	sess.SetActiveFlow(domain.NewBookFlow(domain.SearchResult{
		Matches:                []domain.Biblio{{ID: "B1", Title: "혼자 공부하는 파이썬"}},
		UnavailableSuggestions: []domain.UnavailableSuggestion{{Biblio: domain.Biblio{ID: "B4"}, Message: "pitch"}},
	}))
	sess.Append(domain.Turn{Role: domain.RoleAssistant, CreatedAt: now, Payload: domain.Payload{
		Kind:    domain.PayloadReceipt,
		Receipt: &domain.Receipt{ID: "r1", Kind: domain.ReceiptSeat, ConfirmationNumber: "1234567", StartsAt: &now, EndsAt: &end},
	}})

	require.NoError(t, store.Save(ctx, sess))
	loaded, err := store.Load(ctx, "round-trip")
	require.NoError(t, err)

	assert.Equal(t, "B4", loaded.ActiveFlow().Book.UnavailableSuggestions[0].Biblio.ID)
	r := loaded.Turns[0].Payload.Receipt
	require.NotNil(t, r)
	assert.True(t, end.Equal(*r.EndsAt))
	assert.Equal(t, "1234567", r.ConfirmationNumber)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, time.Now())))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// The index is pruned against wall-clock time, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("my-session", time.Now())))

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-session")
	assert.NoError(t, store.Ping(ctx))
}
