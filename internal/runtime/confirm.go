package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/ragso/pkg/domain"
)

// confirm answers the open prompt of the active flow. It is the only path to
// the committer. Answering an already resolved prompt is a no-op.
func (e *Engine) confirm(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	t, ok := sess.FindTurn(ev.TargetID)
	if !ok || t.Payload.Kind != domain.PayloadConfirmPrompt || t.Payload.Prompt == nil {
		return reject(ev, ErrPromptNotFound)
	}
	if t.Payload.Prompt.Resolved {
		e.logger.Debug("duplicate confirm ignored", "session", sess.ID, "turn", t.ID)
		return nil
	}

	flow := sess.ActiveFlow()
	if flow == nil || flow.PromptTurnID() != t.ID || flow.State() != domain.StateConfirmPending {
		return reject(ev, ErrStalePrompt)
	}

	if !ev.Accepted {
		sess.ResolvePrompt(t.ID)
		e.appendAll(sess, e.say(domain.RoleUser, msgNo), e.say(domain.RoleAssistant, msgCancelled))
		e.setState(flow, domain.StateCancelled)
		e.emitTransition(ctx, sess.ID, flow.Kind, domain.StateConfirmPending, domain.StateCancelled, ev.Kind)
		return nil
	}

	prompt := t.Payload.Prompt
	var (
		kind  domain.ReceiptKind
		final domain.FlowState
	)
	switch prompt.Action {
	case domain.ConfirmSeat:
		kind, final = domain.ReceiptSeat, domain.StateBooked
	case domain.ConfirmHold:
		kind, final = domain.ReceiptHold, domain.StateHoldPlaced
	default:
		return fmt.Errorf("prompt %s has unknown action %q", t.ID, prompt.Action)
	}

	receipt, err := e.committer.Commit(kind, domain.Subject{ID: prompt.SubjectID, Description: prompt.Subject})
	if err != nil {
		return fmt.Errorf("commit %s: %w", kind, err)
	}

	sess.ResolvePrompt(t.ID)
	text := msgSeatBooked
	if kind == domain.ReceiptHold {
		text = msgHoldPlaced(receipt.PickupLocation)
	}
	e.appendAll(sess,
		e.say(domain.RoleUser, msgYes),
		e.turn(domain.RoleAssistant, domain.Payload{Kind: domain.PayloadReceipt, Text: text, Receipt: &receipt}),
	)
	e.setState(flow, final)
	e.emitTransition(ctx, sess.ID, flow.Kind, domain.StateConfirmPending, final, ev.Kind)
	e.emitCommit(ctx, sess.ID, receipt)
	return nil
}

func (e *Engine) setState(flow *domain.ActiveFlow, s domain.FlowState) {
	switch {
	case flow.Seat != nil:
		flow.Seat.State = s
	case flow.Book != nil:
		flow.Book.State = s
	}
}
