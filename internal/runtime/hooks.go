package runtime

import (
	"context"

	"github.com/aretw0/ragso/pkg/domain"
)

func (e *Engine) base(sessionID string, typ domain.HookType) domain.HookBase {
	return domain.HookBase{Timestamp: e.clock.Now(), Type: typ, SessionID: sessionID}
}

func (e *Engine) emitTransition(ctx context.Context, sessionID string, flow domain.FlowKind, from, to domain.FlowState, trigger domain.EventKind) {
	e.logger.Debug("flow transition", "session", sessionID, "flow", flow, "from", from, "to", to)
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		HookBase: e.base(sessionID, domain.HookTransition),
		Flow:     flow,
		From:     from,
		To:       to,
		Trigger:  trigger,
	})
}

func (e *Engine) emitCommit(ctx context.Context, sessionID string, r domain.Receipt) {
	e.logger.Info("transaction committed", "session", sessionID, "kind", r.Kind, "subject", r.Subject.ID, "number", r.ConfirmationNumber)
	if e.hooks.OnCommit == nil {
		return
	}
	e.hooks.OnCommit(ctx, &domain.CommitEvent{HookBase: e.base(sessionID, domain.HookCommit), Receipt: r})
}

func (e *Engine) emitGatewayError(ctx context.Context, sessionID, op string, err error) {
	if e.hooks.OnGatewayError == nil {
		return
	}
	e.hooks.OnGatewayError(ctx, &domain.GatewayErrorEvent{HookBase: e.base(sessionID, domain.HookGatewayError), Op: op, Err: err})
}

func (e *Engine) emitPurchase(ctx context.Context, sessionID, biblioID string) {
	if e.hooks.OnPurchase == nil {
		return
	}
	e.hooks.OnPurchase(ctx, &domain.PurchaseEvent{HookBase: e.base(sessionID, domain.HookPurchase), BiblioID: biblioID})
}
