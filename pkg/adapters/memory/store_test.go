package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/ragso/pkg/adapters/memory"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestPurchaseLog(t *testing.T) {
	var requester ports.PurchaseRequester = memory.NewPurchaseLog()
	log := requester.(*memory.PurchaseLog)

	require.NoError(t, log.RequestPurchase(context.Background(), domain.Biblio{ID: "B4"}))

	log.FailWith(errors.New("endpoint down"))
	assert.Error(t, log.RequestPurchase(context.Background(), domain.Biblio{ID: "B5"}))

	reqs := log.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "B4", reqs[0].ID)
	assert.Equal(t, "B5", reqs[1].ID, "failed requests are still recorded")
}
