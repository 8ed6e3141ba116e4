package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/ragso/internal/commit"
	"github.com/aretw0/ragso/internal/runtime"
	"github.com/aretw0/ragso/pkg/adapters/catalog"
	"github.com/aretw0/ragso/pkg/adapters/memory"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

// flakyGateway fails the named operations and delegates the rest.
type flakyGateway struct {
	ports.CatalogGateway
	fail map[string]error
}

func (g *flakyGateway) FindAvailableSeats(ctx context.Context) ([]domain.Seat, error) {
	if err := g.fail["find_available_seats"]; err != nil {
		return nil, err
	}
	return g.CatalogGateway.FindAvailableSeats(ctx)
}

func (g *flakyGateway) SearchBiblios(ctx context.Context, q string) (domain.SearchResult, error) {
	if err := g.fail["search_biblios"]; err != nil {
		return domain.SearchResult{}, err
	}
	return g.CatalogGateway.SearchBiblios(ctx, q)
}

func (g *flakyGateway) ItemsOf(ctx context.Context, id string) ([]domain.Item, error) {
	if err := g.fail["items_of"]; err != nil {
		return nil, err
	}
	return g.CatalogGateway.ItemsOf(ctx, id)
}

func (g *flakyGateway) RelatedBiblios(ctx context.Context, id string) ([]domain.Biblio, error) {
	if err := g.fail["related_biblios"]; err != nil {
		return nil, err
	}
	return g.CatalogGateway.RelatedBiblios(ctx, id)
}

var errBackend = errors.New("backend down")

type fixture struct {
	t         *testing.T
	engine    *runtime.Engine
	gateway   *flakyGateway
	purchases *memory.PurchaseLog
	sess      *domain.Session
}

func newFixture(t *testing.T, opts ...runtime.Option) *fixture {
	t.Helper()
	clock := ports.ClockFunc(func() time.Time { return testNow })
	gw := &flakyGateway{CatalogGateway: catalog.NewDefault(), fail: map[string]error{}}
	log := memory.NewPurchaseLog()
	base := []runtime.Option{
		runtime.WithClock(clock),
		runtime.WithCommitter(commit.New(commit.WithClock(clock))),
		runtime.WithPurchaseRequester(log),
	}
	return &fixture{
		t:         t,
		engine:    runtime.NewEngine(gw, append(base, opts...)...),
		gateway:   gw,
		purchases: log,
		sess:      domain.NewSession("sess-1", testNow),
	}
}

// apply runs ev, requires success, stores the new session and returns the
// appended turns.
func (f *fixture) apply(ev domain.Event) []domain.Turn {
	f.t.Helper()
	before := len(f.sess.Turns)
	next, err := f.engine.Apply(context.Background(), f.sess, ev)
	require.NoError(f.t, err, "Apply(%+v)", ev)
	f.sess = next
	return next.Turns[before:]
}

// applyErr runs ev, requires failure and that the session stayed untouched.
func (f *fixture) applyErr(ev domain.Event) error {
	f.t.Helper()
	snapshot := f.sess.Clone()
	next, err := f.engine.Apply(context.Background(), f.sess, ev)
	require.Error(f.t, err, "Apply(%+v)", ev)
	require.Nil(f.t, next)
	require.Equal(f.t, snapshot, f.sess)
	return err
}

func (f *fixture) lastPrompt() domain.Turn {
	f.t.Helper()
	for i := len(f.sess.Turns) - 1; i >= 0; i-- {
		if f.sess.Turns[i].Payload.Kind == domain.PayloadConfirmPrompt {
			return f.sess.Turns[i]
		}
	}
	f.t.Fatal("no confirmation prompt in session")
	return domain.Turn{}
}

func countReceipts(turns []domain.Turn) int {
	n := 0
	for _, t := range turns {
		if t.Payload.Kind == domain.PayloadReceipt {
			n++
		}
	}
	return n
}
