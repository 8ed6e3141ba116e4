package ragso_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/pkg/adapters/catalog"
	"github.com/aretw0/ragso/pkg/adapters/memory"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func newEngine(t *testing.T, gw ports.CatalogGateway, opts ...ragso.Option) *ragso.Engine {
	t.Helper()
	if gw == nil {
		gw = catalog.NewDefault()
	}
	base := []ragso.Option{ragso.WithClock(ports.ClockFunc(func() time.Time { return fixedNow }))}
	eng, err := ragso.New(gw, append(base, opts...)...)
	require.NoError(t, err)
	return eng
}

func TestNew_RequiresGateway(t *testing.T) {
	_, err := ragso.New(nil)
	assert.Error(t, err)
}

func TestConversation_SeatScenario(t *testing.T) {
	ctx := context.Background()
	conv, err := newEngine(t, nil).Start(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID())

	turns, err := conv.SubmitUtterance(ctx, "열람실 좌석을 예약하고 싶어요")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Len(t, turns[1].Payload.Seats, 4)

	turns, err = conv.SelectSeat(ctx, "S233")
	require.NoError(t, err)
	prompt := turns[len(turns)-1]
	assert.Equal(t, "제1열람실-3, 좌석 233", prompt.Payload.Prompt.Subject)

	turns, err = conv.Confirm(ctx, prompt.ID, true)
	require.NoError(t, err)
	receipt := turns[len(turns)-1].Payload.Receipt
	require.NotNil(t, receipt)
	assert.Equal(t, 3*time.Hour, receipt.EndsAt.Sub(*receipt.StartsAt))
	assert.Equal(t, domain.StateBooked, conv.ActiveFlow().State())

	again, err := conv.Confirm(ctx, prompt.ID, true)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, conv.Turns(), 6)
}

func TestConversation_BookScenario(t *testing.T) {
	ctx := context.Background()
	purchases := memory.NewPurchaseLog()
	conv, err := newEngine(t, nil, ragso.WithPurchaseRequester(purchases)).Start(ctx, "reader-1")
	require.NoError(t, err)

	turns, err := conv.SubmitUtterance(ctx, "recommend a programming book")
	require.NoError(t, err)
	cands := turns[1].Payload.Biblios
	require.Len(t, cands.Recommended, 2)
	require.Len(t, cands.UnavailableSuggestions, 1)

	flowBefore := conv.ActiveFlow()
	_, err = conv.RequestPurchase(ctx, cands.UnavailableSuggestions[0].Biblio.ID)
	require.NoError(t, err)
	assert.Equal(t, flowBefore, conv.ActiveFlow())
	assert.Len(t, purchases.Requests(), 1)

	_, err = conv.SelectBiblio(ctx, "B1")
	require.NoError(t, err)
	turns, err = conv.SelectItem(ctx, "I1")
	require.NoError(t, err)
	assert.Len(t, turns[1].Payload.Detail.Related, 2)

	turns, err = conv.RequestHold(ctx, "I1")
	require.NoError(t, err)
	turns, err = conv.Confirm(ctx, turns[1].ID, true)
	require.NoError(t, err)
	receipt := turns[1].Payload.Receipt
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), *receipt.PickupDeadline)
}

func TestConversation_InvalidSelectionLeavesSession(t *testing.T) {
	ctx := context.Background()
	conv, err := newEngine(t, nil).Start(ctx, "")
	require.NoError(t, err)
	_, err = conv.SubmitUtterance(ctx, "좌석")
	require.NoError(t, err)
	before := conv.Session()

	turns, err := conv.SelectSeat(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Nil(t, turns)
	assert.Equal(t, before, conv.Session())
	assert.False(t, conv.Pending())
}

func TestConversation_QuickReplyMatchesTypedText(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, nil)

	typed, _ := eng.Start(ctx, "a")
	tapped, _ := eng.Start(ctx, "b")
	phrase := eng.QuickReplies()[1]

	_, err := typed.SubmitUtterance(ctx, phrase)
	require.NoError(t, err)
	_, err = tapped.SelectQuickReplyAt(ctx, 2)
	require.NoError(t, err)

	opt := cmpopts.IgnoreFields(domain.Session{}, "ID")
	if diff := cmp.Diff(typed.Session(), tapped.Session(), opt); diff != "" {
		t.Errorf("quick reply diverged from typed text (-typed +tapped):\n%s", diff)
	}

	_, err = tapped.SelectQuickReplyAt(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

// gatedGateway blocks seat lookups until release is closed.
type gatedGateway struct {
	ports.CatalogGateway
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedGateway) FindAvailableSeats(ctx context.Context) ([]domain.Seat, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.CatalogGateway.FindAvailableSeats(ctx)
}

func TestConversation_PendingGate(t *testing.T) {
	ctx := context.Background()
	gw := &gatedGateway{CatalogGateway: catalog.NewDefault(), entered: make(chan struct{}), release: make(chan struct{})}
	conv, err := newEngine(t, gw).Start(ctx, "")
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		_, err := conv.SubmitUtterance(ctx, "좌석")
		done <- err
	}()
	<-gw.entered

	assert.True(t, conv.Pending())
	turns := conv.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RolePending, turns[0].Role)

	_, err = conv.SubmitUtterance(ctx, "책")
	assert.ErrorIs(t, err, domain.ErrTurnPending)

	close(gw.release)
	require.NoError(t, <-done)
	assert.False(t, conv.Pending())
	for _, turn := range conv.Turns() {
		assert.NotEqual(t, domain.RolePending, turn.Role)
	}
	assert.Len(t, conv.Turns(), 2)
}

func TestConversation_ThinkingDelayHonoursContext(t *testing.T) {
	conv, err := newEngine(t, nil, ragso.WithThinkingDelay(time.Hour)).Start(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = conv.SubmitUtterance(ctx, "좌석")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, conv.Pending())
	assert.Empty(t, conv.Turns())
}

func TestEngine_StartResumesFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	eng := newEngine(t, nil, ragso.WithStore(store))

	conv, err := eng.Start(ctx, "kept")
	require.NoError(t, err)
	_, err = conv.SubmitUtterance(ctx, "좌석")
	require.NoError(t, err)

	saved, err := store.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, saved.Status)
	assert.Len(t, saved.Turns, 2)

	resumed, err := eng.Start(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCandidatesShown, resumed.ActiveFlow().State())
	_, err = resumed.SelectSeat(ctx, "S102")
	assert.NoError(t, err)
}

func TestEngine_ApplyIsStateless(t *testing.T) {
	eng := newEngine(t, nil)
	sess := eng.NewSession("")
	assert.NotEmpty(t, sess.ID)

	next, err := eng.Apply(context.Background(), sess, domain.Utterance("책"))
	require.NoError(t, err)
	assert.Empty(t, sess.Turns)
	assert.Len(t, next.Turns, 2)
}

// flakyStore fails every Save once failSave is set.
type flakyStore struct {
	*memory.Store
	failSave bool
}

func (s *flakyStore) Save(ctx context.Context, sess *domain.Session) error {
	if s.failSave {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, sess)
}

func TestConversation_SaveFailureKeepsTurns(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.NewStore(), failSave: true}
	conv, err := newEngine(t, nil, ragso.WithStore(store)).Start(ctx, "s")
	require.NoError(t, err)

	turns, err := conv.SubmitUtterance(ctx, "좌석")
	require.ErrorIs(t, err, ragso.ErrNotPersisted)
	assert.Len(t, turns, 2)
	assert.Equal(t, domain.StateCandidatesShown, conv.ActiveFlow().State())
	assert.False(t, conv.Pending())

	store.failSave = false
	_, err = conv.SelectSeat(ctx, "S102")
	require.NoError(t, err)

	saved, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, saved.Turns, len(conv.Turns()), "the next save carries the earlier turns")
}
