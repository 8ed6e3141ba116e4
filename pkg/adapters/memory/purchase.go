package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/ragso/pkg/domain"
)

// PurchaseLog implements ports.PurchaseRequester by recording requests.
// It stands in for the external purchase endpoint in tests and the CLI.
type PurchaseLog struct {
	mu       sync.Mutex
	requests []domain.Biblio
	err      error
}

// NewPurchaseLog creates an empty log.
func NewPurchaseLog() *PurchaseLog {
	return &PurchaseLog{}
}

// FailWith makes every later request return err after being recorded.
func (l *PurchaseLog) FailWith(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// RequestPurchase records the biblio.
func (l *PurchaseLog) RequestPurchase(ctx context.Context, biblio domain.Biblio) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, biblio)
	return l.err
}

// Requests returns the recorded requests in arrival order.
func (l *PurchaseLog) Requests() []domain.Biblio {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.requests)
}
