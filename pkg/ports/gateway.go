package ports

import (
	"context"

	"github.com/aretw0/ragso/pkg/domain"
)

// CatalogGateway supplies the records the assistant talks about.
// The engine treats it as read-only and possibly remote: every call may fail
// and must honour ctx.
type CatalogGateway interface {
	// FindAvailableSeats returns every seat that can be reserved right now.
	FindAvailableSeats(ctx context.Context) ([]domain.Seat, error)

	// SearchBiblios returns ranked matches for a free-text query, plus
	// unavailable suggestions that can only be requested for purchase.
	SearchBiblios(ctx context.Context, query string) (domain.SearchResult, error)

	// ItemsOf returns all copies of a Biblio, available or not.
	ItemsOf(ctx context.Context, biblioID string) ([]domain.Item, error)

	// RelatedBiblios dereferences Biblio.RelatedBiblioIDs. Dangling ids are
	// dropped silently.
	RelatedBiblios(ctx context.Context, biblioID string) ([]domain.Biblio, error)
}

// PurchaseRequester hands a purchase request to an external endpoint.
// The engine does not act on the outcome; errors are only logged.
type PurchaseRequester interface {
	RequestPurchase(ctx context.Context, biblio domain.Biblio) error
}

// PurchaseRequesterFunc adapts a function to PurchaseRequester.
type PurchaseRequesterFunc func(ctx context.Context, biblio domain.Biblio) error

func (f PurchaseRequesterFunc) RequestPurchase(ctx context.Context, biblio domain.Biblio) error {
	return f(ctx, biblio)
}
