package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/ragso/internal/runtime"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biblioIDs(bs []domain.Biblio) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestBookFlow_Hold(t *testing.T) {
	f := newFixture(t)

	turns := f.apply(domain.Utterance("recommend a programming book"))
	require.Len(t, turns, 2)
	cands := turns[1].Payload.Biblios
	require.NotNil(t, cands)
	assert.Equal(t, []string{"B1", "B2"}, biblioIDs(cands.Recommended))
	require.Len(t, cands.UnavailableSuggestions, 1)
	assert.Equal(t, "B4", cands.UnavailableSuggestions[0].Biblio.ID)
	assert.NotEmpty(t, cands.UnavailableSuggestions[0].Message)
	assert.Equal(t, domain.StateBiblioListShown, f.sess.ActiveFlow().State())

	turns = f.apply(domain.SelectBiblio("B1"))
	require.Len(t, turns, 2)
	assert.Equal(t, "'혼자 공부하는 파이썬' 선택", turns[0].Payload.Text)
	items := turns[1].Payload.Items
	require.NotNil(t, items)
	assert.Equal(t, "B1", items.Biblio.ID)
	require.Len(t, items.Items, 2)
	for _, it := range items.Items {
		assert.True(t, it.Available, "item %s listed while unavailable", it.ID)
	}
	assert.Equal(t, domain.StateItemListShown, f.sess.ActiveFlow().State())

	turns = f.apply(domain.SelectItem("I1"))
	require.Len(t, turns, 2)
	detail := turns[1].Payload.Detail
	require.NotNil(t, detail)
	assert.Equal(t, "I1", detail.Item.ID)
	assert.Equal(t, []string{"B2", "B3"}, biblioIDs(detail.Related))
	assert.Equal(t, domain.StateItemDetailShown, f.sess.ActiveFlow().State())

	turns = f.apply(domain.RequestHold("I1"))
	require.Len(t, turns, 2)
	prompt := turns[1]
	require.True(t, prompt.IsOpenPrompt())
	assert.Equal(t, domain.ConfirmHold, prompt.Payload.Prompt.Action)
	assert.Equal(t, "I1", prompt.Payload.Prompt.SubjectID)

	turns = f.apply(domain.Confirm(prompt.ID, true))
	require.Len(t, turns, 2)
	receipt := turns[1].Payload.Receipt
	require.NotNil(t, receipt)
	assert.Equal(t, domain.ReceiptHold, receipt.Kind)
	assert.Equal(t, "1층 북 사이렌오더 수령대", receipt.PickupLocation)
	assert.Equal(t, testNow.Add(7*24*time.Hour), *receipt.PickupDeadline)
	assert.Equal(t, domain.StateHoldPlaced, f.sess.ActiveFlow().State())

	err := f.applyErr(domain.SelectBiblio("B2"))
	assert.ErrorIs(t, err, runtime.ErrWrongState, "terminal flows accept no selection")
}

func TestBookFlow_EmptyItemList(t *testing.T) {
	f := newFixture(t)
	f.apply(domain.Utterance("clean code 책"))

	turns := f.apply(domain.SelectBiblio("B3"))
	require.Len(t, turns, 2)
	require.NotNil(t, turns[1].Payload.Items)
	assert.Empty(t, turns[1].Payload.Items.Items)
	assert.Equal(t, domain.StateItemListShown, f.sess.ActiveFlow().State())

	err := f.applyErr(domain.SelectItem("I5"))
	assert.ErrorIs(t, err, runtime.ErrNotInCandidates)
}

func TestBookFlow_Navigation(t *testing.T) {
	f := newFixture(t)
	f.apply(domain.Utterance("파이썬 책"))
	f.apply(domain.SelectBiblio("B1"))

	err := f.applyErr(domain.SelectItem("I2"))
	assert.ErrorIs(t, err, runtime.ErrNotInCandidates, "unavailable copies cannot be selected")

	err = f.applyErr(domain.RequestHold("I1"))
	assert.ErrorIs(t, err, runtime.ErrWrongState, "hold needs the detail view")

	f.apply(domain.SelectItem("I1"))
	f.apply(domain.SelectItem("I3"))
	assert.Equal(t, "I3", f.sess.ActiveFlow().Book.SelectedItem.ID)

	err = f.applyErr(domain.RequestHold("I1"))
	assert.ErrorIs(t, err, runtime.ErrNotInCandidates, "hold must name the detailed item")

	f.apply(domain.SelectBiblio("B2"))
	book := f.sess.ActiveFlow().Book
	assert.Equal(t, "B2", book.NarrowedBiblio.ID)
	assert.Nil(t, book.SelectedItem)
	assert.Equal(t, domain.StateItemListShown, book.State)

	err = f.applyErr(domain.SelectBiblio("B4"))
	assert.ErrorIs(t, err, runtime.ErrNotInCandidates, "suggestions are not matches")

	f.apply(domain.SelectItem("I4"))
	f.apply(domain.RequestHold("I4"))
	err = f.applyErr(domain.SelectItem("I4"))
	assert.ErrorIs(t, err, runtime.ErrWrongState)

	f.apply(domain.Confirm(f.lastPrompt().ID, false))
	assert.Equal(t, domain.StateCancelled, f.sess.ActiveFlow().State())
	assert.Zero(t, countReceipts(f.sess.Turns))
}

func TestBookFlow_PurchaseHandoff(t *testing.T) {
	f := newFixture(t)
	f.apply(domain.Utterance("프로그래밍 관련 책을 추천해주세요"))
	f.apply(domain.SelectBiblio("B1"))
	flowBefore := f.sess.ActiveFlow().Clone()

	turns := f.apply(domain.RequestPurchase("B4"))
	require.Len(t, turns, 2)
	handoff := turns[1]
	assert.Equal(t, domain.PayloadPurchaseHandoff, handoff.Payload.Kind)
	require.NotNil(t, handoff.Payload.Purchase)
	assert.Equal(t, "B4", handoff.Payload.Purchase.BiblioID)

	if diff := cmp.Diff(flowBefore, f.sess.ActiveFlow()); diff != "" {
		t.Errorf("purchase changed the active flow (-want +got):\n%s", diff)
	}
	require.Len(t, f.sess.Purchases, 1)
	assert.Equal(t, "파이썬 코딩의 기술", f.sess.Purchases[0].Title)
	require.Len(t, f.purchases.Requests(), 1)
	assert.Zero(t, countReceipts(f.sess.Turns))

	err := f.applyErr(domain.RequestPurchase("B1"))
	assert.ErrorIs(t, err, runtime.ErrNotInCandidates, "held titles cannot be requested")
}

func TestBookFlow_PurchaseFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.purchases.FailWith(errors.New("endpoint down"))
	f.apply(domain.Utterance("python"))

	turns := f.apply(domain.RequestPurchase("B4"))
	assert.Len(t, turns, 2)
	assert.Len(t, f.sess.Purchases, 1)
}

func TestBookFlow_RelatedFiltersGatewayExtras(t *testing.T) {
	f := newFixture(t)
	f.gateway.CatalogGateway = noisyRelated{f.gateway.CatalogGateway}
	f.apply(domain.Utterance("python"))
	f.apply(domain.SelectBiblio("B1"))

	turns := f.apply(domain.SelectItem("I1"))
	assert.Equal(t, []string{"B2", "B3"}, biblioIDs(turns[1].Payload.Detail.Related))
}

// noisyRelated returns blanks, self references and unrelated records on top
// of the real ones, in reverse order.
type noisyRelated struct{ ports.CatalogGateway }

func (n noisyRelated) RelatedBiblios(ctx context.Context, id string) ([]domain.Biblio, error) {
	got, err := n.CatalogGateway.RelatedBiblios(ctx, id)
	if err != nil {
		return nil, err
	}
	out := []domain.Biblio{{}, {ID: id}, {ID: "B4"}}
	for i := len(got) - 1; i >= 0; i-- {
		out = append(out, got[i])
	}
	return out, nil
}
