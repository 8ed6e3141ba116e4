package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/ragso/internal/classifier"
	"github.com/aretw0/ragso/pkg/domain"
)

// ErrNotFound is returned for an id that is not in the tables.
var ErrNotFound = errors.New("record not found")

// Gateway implements ports.CatalogGateway over Tables.
// Tables are read-only after construction, so it is safe for concurrent use.
type Gateway struct {
	tables  Tables
	biblios map[string]BiblioRecord
	items   map[string]domain.Item
}

// New indexes the tables.
func New(t Tables) *Gateway {
	g := &Gateway{
		tables:  t,
		biblios: make(map[string]BiblioRecord, len(t.Biblios)),
		items:   make(map[string]domain.Item, len(t.Items)),
	}
	for _, b := range t.Biblios {
		g.biblios[b.ID] = b
	}
	for _, it := range t.Items {
		g.items[it.ID] = it
	}
	return g
}

// NewDefault is New(Default()).
func NewDefault() *Gateway { return New(Default()) }

func (g *Gateway) FindAvailableSeats(ctx context.Context) ([]domain.Seat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var seats []domain.Seat
	for _, s := range g.tables.Seats {
		if s.Available {
			seats = append(seats, s.Seat)
		}
	}
	return seats, nil
}

// SearchBiblios matches the query against each record's keywords and title,
// in table order. Matching records without copies become purchase
// suggestions. A query that matches nothing lists every held title.
func (g *Gateway) SearchBiblios(ctx context.Context, query string) (domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, err
	}
	q := classifier.Normalize(query)

	var res domain.SearchResult
	for _, b := range g.tables.Biblios {
		if !b.matches(q) {
			continue
		}
		if len(b.ItemIDs) == 0 {
			res.UnavailableSuggestions = append(res.UnavailableSuggestions, b.suggestion())
			continue
		}
		res.Matches = append(res.Matches, b.Biblio)
	}
	if len(res.Matches) == 0 && len(res.UnavailableSuggestions) == 0 {
		for _, b := range g.tables.Biblios {
			if len(b.ItemIDs) > 0 {
				res.Matches = append(res.Matches, b.Biblio)
			}
		}
	}
	return res, nil
}

func (g *Gateway) ItemsOf(ctx context.Context, biblioID string) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := g.biblios[biblioID]
	if !ok {
		return nil, fmt.Errorf("biblio %q: %w", biblioID, ErrNotFound)
	}
	items := make([]domain.Item, 0, len(b.ItemIDs))
	for _, id := range b.ItemIDs {
		if it, ok := g.items[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (g *Gateway) RelatedBiblios(ctx context.Context, biblioID string) ([]domain.Biblio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := g.biblios[biblioID]
	if !ok {
		return nil, fmt.Errorf("biblio %q: %w", biblioID, ErrNotFound)
	}
	var related []domain.Biblio
	for _, id := range b.RelatedBiblioIDs {
		if r, ok := g.biblios[id]; ok {
			related = append(related, r.Biblio)
		}
	}
	return related, nil
}

func (b BiblioRecord) matches(q string) bool {
	if q == "" {
		return false
	}
	if strings.Contains(q, classifier.Normalize(b.Title)) {
		return true
	}
	for _, k := range b.Keywords {
		if k = classifier.Normalize(k); k != "" && strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func (b BiblioRecord) suggestion() domain.UnavailableSuggestion {
	msg := b.Pitch
	if msg == "" {
		msg = DefaultPurchasePitch
	}
	return domain.UnavailableSuggestion{Biblio: b.Biblio, Message: msg}
}
