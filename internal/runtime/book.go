package runtime

import (
	"context"

	"github.com/aretw0/ragso/pkg/domain"
)

// acceptsBrowsing reports whether the book flow still shows clickable lists.
// Lists stay live while the user moves between tiers, but not while a
// confirmation is open or after the flow ended.
func acceptsBrowsing(s domain.FlowState) bool {
	switch s {
	case domain.StateBiblioListShown, domain.StateItemListShown, domain.StateItemDetailShown:
		return true
	}
	return false
}

func (e *Engine) bookFlow(sess *domain.Session, ev domain.Event) (*domain.BookFlow, error) {
	flow := sess.ActiveFlow()
	if flow == nil || flow.Book == nil {
		return nil, reject(ev, ErrNoActiveFlow)
	}
	return flow.Book, nil
}

// selectBiblio narrows to the available copies of one record.
func (e *Engine) selectBiblio(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	bf, err := e.bookFlow(sess, ev)
	if err != nil {
		return err
	}
	if !acceptsBrowsing(bf.State) {
		return reject(ev, ErrWrongState)
	}
	biblio, ok := findBiblio(bf.Candidates, ev.TargetID)
	if !ok {
		return reject(ev, ErrNotInCandidates)
	}

	lead := e.say(domain.RoleUser, msgBiblioSelected(biblio.Title))
	all, err := e.gateway.ItemsOf(ctx, biblio.ID)
	if err != nil {
		return e.gatewayFailed(ctx, sess, ev, "items_of", err, lead)
	}
	available := make([]domain.Item, 0, len(all))
	for _, it := range all {
		if it.Available {
			available = append(available, it)
		}
	}

	e.appendAll(sess, lead, e.turn(domain.RoleAssistant, domain.Payload{
		Kind:  domain.PayloadItemCandidates,
		Text:  msgItemList(biblio.Title, len(available)),
		Items: &domain.ItemCandidates{Biblio: biblio, Items: available},
	}))

	from := bf.State
	bf.NarrowedBiblio = &biblio
	bf.NarrowedItems = available
	bf.SelectedItem = nil
	bf.State = domain.StateItemListShown
	e.emitTransition(ctx, sess.ID, domain.FlowBook, from, bf.State, ev.Kind)
	return nil
}

// selectItem shows one copy with its related records.
func (e *Engine) selectItem(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	bf, err := e.bookFlow(sess, ev)
	if err != nil {
		return err
	}
	if bf.State != domain.StateItemListShown && bf.State != domain.StateItemDetailShown {
		return reject(ev, ErrWrongState)
	}
	item, ok := findItem(bf.NarrowedItems, ev.TargetID)
	if !ok {
		return reject(ev, ErrNotInCandidates)
	}

	lead := e.say(domain.RoleUser, msgItemSelected(item.Title, item.Location))
	related, err := e.gateway.RelatedBiblios(ctx, item.BiblioID)
	if err != nil {
		return e.gatewayFailed(ctx, sess, ev, "related_biblios", err, lead)
	}

	biblio := *bf.NarrowedBiblio
	e.appendAll(sess, lead, e.turn(domain.RoleAssistant, domain.Payload{
		Kind: domain.PayloadItemDetail,
		Text: msgItemDetail(item.Title),
		Detail: &domain.ItemDetail{
			Item:    item,
			Biblio:  biblio,
			Related: resolvedRelated(biblio, related),
		},
	}))

	from := bf.State
	bf.SelectedItem = &item
	bf.State = domain.StateItemDetailShown
	e.emitTransition(ctx, sess.ID, domain.FlowBook, from, bf.State, ev.Kind)
	return nil
}

// resolvedRelated keeps only records the owner actually references, in the
// owner's order, so a gateway returning extras or blanks cannot leak them.
func resolvedRelated(owner domain.Biblio, related []domain.Biblio) []domain.Biblio {
	byID := make(map[string]domain.Biblio, len(related))
	for _, r := range related {
		if r.ID != "" && r.ID != owner.ID {
			byID[r.ID] = r
		}
	}
	out := make([]domain.Biblio, 0, len(byID))
	for _, id := range owner.RelatedBiblioIDs {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			delete(byID, id)
		}
	}
	return out
}

// requestHold opens the confirmation prompt for the detailed item.
func (e *Engine) requestHold(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	bf, err := e.bookFlow(sess, ev)
	if err != nil {
		return err
	}
	if bf.State != domain.StateItemDetailShown || bf.SelectedItem == nil {
		return reject(ev, ErrWrongState)
	}
	if bf.SelectedItem.ID != ev.TargetID {
		return reject(ev, ErrNotInCandidates)
	}
	item := *bf.SelectedItem

	turns := e.appendAll(sess,
		e.say(domain.RoleUser, msgHoldRequest),
		e.turn(domain.RoleAssistant, domain.Payload{
			Kind: domain.PayloadConfirmPrompt,
			Text: msgHoldPrompt(item.Title),
			Prompt: &domain.ConfirmPrompt{
				Action:    domain.ConfirmHold,
				SubjectID: item.ID,
				Subject:   item.Title,
			},
		}),
	)

	bf.PromptTurnID = turns[1].ID
	bf.State = domain.StateConfirmPending
	e.emitTransition(ctx, sess.ID, domain.FlowBook, domain.StateItemDetailShown, domain.StateConfirmPending, ev.Kind)
	return nil
}

// requestPurchase hands an unheld title to the purchase endpoint. The flow is
// left as it was and no receipt is issued.
func (e *Engine) requestPurchase(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	bf, err := e.bookFlow(sess, ev)
	if err != nil {
		return err
	}
	var biblio *domain.Biblio
	for _, s := range bf.UnavailableSuggestions {
		if s.Biblio.ID == ev.TargetID {
			b := s.Biblio
			biblio = &b
			break
		}
	}
	if biblio == nil {
		return reject(ev, ErrNotInCandidates)
	}

	if e.purchaser != nil {
		if err := e.purchaser.RequestPurchase(ctx, *biblio); err != nil {
			e.logger.Warn("purchase hand-off failed", "session", sess.ID, "biblio", biblio.ID, "error", err)
		}
	} else {
		e.logger.Info("purchase requested with no endpoint configured", "session", sess.ID, "biblio", biblio.ID)
	}

	record := domain.PurchaseRecord{BiblioID: biblio.ID, Title: biblio.Title, RequestedAt: e.clock.Now()}
	sess.Purchases = append(sess.Purchases, record)
	e.appendAll(sess,
		e.say(domain.RoleUser, msgPurchaseRequested(biblio.Title)),
		e.turn(domain.RoleAssistant, domain.Payload{
			Kind:     domain.PayloadPurchaseHandoff,
			Text:     msgPurchaseHandoff(biblio.Title),
			Purchase: &record,
		}),
	)
	e.emitPurchase(ctx, sess.ID, biblio.ID)
	return nil
}

func findBiblio(biblios []domain.Biblio, id string) (domain.Biblio, bool) {
	for _, b := range biblios {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Biblio{}, false
}

func findItem(items []domain.Item, id string) (domain.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}
