package ragso

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/ragso/internal/quickreply"
	"github.com/aretw0/ragso/pkg/domain"
)

// Conversation is a single-session controller. It admits one trigger at a
// time: while a trigger is being processed the session is pending and any
// other trigger fails with domain.ErrTurnPending.
//
// Every trigger method returns the turns it appended. When the engine has a
// store and saving fails, the turns are returned together with an error
// wrapping ErrNotPersisted: the conversation has advanced and the trigger
// must not be sent again.
type Conversation struct {
	engine *Engine

	mu   sync.Mutex
	sess *domain.Session
}

// ErrNotPersisted reports that a trigger was applied but the session could
// not be saved.
var ErrNotPersisted = errors.New("session advanced but not persisted")

// ID returns the session id.
func (c *Conversation) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.ID
}

// SubmitUtterance sends free text.
func (c *Conversation) SubmitUtterance(ctx context.Context, text string) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.Utterance(text))
}

// SelectQuickReply sends a canned phrase. It behaves exactly like typing it.
func (c *Conversation) SelectQuickReply(ctx context.Context, phrase string) ([]domain.Turn, error) {
	return c.dispatch(ctx, quickreply.Event(phrase))
}

// SelectQuickReplyAt sends the quick reply at a 1-based position.
func (c *Conversation) SelectQuickReplyAt(ctx context.Context, n int) ([]domain.Turn, error) {
	phrase, err := c.engine.QuickReply(n)
	if err != nil {
		return nil, err
	}
	return c.SelectQuickReply(ctx, phrase)
}

func (c *Conversation) SelectSeat(ctx context.Context, seatID string) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.SelectSeat(seatID))
}

func (c *Conversation) SelectBiblio(ctx context.Context, biblioID string) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.SelectBiblio(biblioID))
}

func (c *Conversation) SelectItem(ctx context.Context, itemID string) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.SelectItem(itemID))
}

func (c *Conversation) RequestHold(ctx context.Context, itemID string) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.RequestHold(itemID))
}

// Confirm answers the prompt on turnID. Answering twice is a no-op.
func (c *Conversation) Confirm(ctx context.Context, turnID string, accepted bool) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.Confirm(turnID, accepted))
}

// RequestPurchase hands an unheld title off for purchase.
func (c *Conversation) RequestPurchase(ctx context.Context, biblioID string) ([]domain.Turn, error) {
	return c.dispatch(ctx, domain.RequestPurchase(biblioID))
}

// Dispatch sends an arbitrary event.
func (c *Conversation) Dispatch(ctx context.Context, ev domain.Event) ([]domain.Turn, error) {
	return c.dispatch(ctx, ev)
}

// Turns returns the log. While a trigger is pending a placeholder turn with
// RolePending is appended; it is never stored.
func (c *Conversation) Turns() []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := append([]domain.Turn(nil), c.sess.Turns...)
	if c.sess.Status == domain.StatusPending {
		turns = append(turns, domain.PendingTurn(c.engine.clock.Now()))
	}
	return turns
}

// ActiveFlow returns a copy of the in-progress flow or nil.
func (c *Conversation) ActiveFlow() *domain.ActiveFlow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.ActiveFlow().Clone()
}

// Session returns a snapshot of the whole session.
func (c *Conversation) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Clone()
}

// Pending reports whether a trigger is in flight.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Status == domain.StatusPending
}

func (c *Conversation) dispatch(ctx context.Context, ev domain.Event) ([]domain.Turn, error) {
	c.mu.Lock()
	if c.sess.Status == domain.StatusPending {
		c.mu.Unlock()
		return nil, domain.ErrTurnPending
	}
	c.sess.Status = domain.StatusPending
	current := c.sess
	c.mu.Unlock()

	next, err := c.step(ctx, current, ev)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.sess.Status = domain.StatusIdle
		return nil, err
	}
	next.Status = domain.StatusIdle
	c.sess = next
	appended := append([]domain.Turn(nil), next.Turns[len(current.Turns):]...)

	if store := c.engine.store; store != nil {
		if err := store.Save(ctx, next); err != nil {
			c.engine.logger.Error("failed to save session", "session", next.ID, "error", err)
			return appended, fmt.Errorf("%w: session %s: %w", ErrNotPersisted, next.ID, err)
		}
	}
	return appended, nil
}

// step runs outside the lock; current is not mutated by anyone while the
// session is pending.
func (c *Conversation) step(ctx context.Context, current *domain.Session, ev domain.Event) (*domain.Session, error) {
	if d := c.engine.thinkingDelay; d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
	return c.engine.runtime.Apply(ctx, current, ev)
}
