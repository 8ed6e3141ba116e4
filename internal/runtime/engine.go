// Package runtime implements the dialog controller: a reducer that applies
// one Event to a Session and returns the next Session.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/ragso/internal/classifier"
	"github.com/aretw0/ragso/internal/commit"
	"github.com/aretw0/ragso/internal/logging"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
)

// Committer issues receipts. *commit.Committer satisfies it.
type Committer interface {
	Commit(kind domain.ReceiptKind, subject domain.Subject) (domain.Receipt, error)
}

// Engine is the dialog state machine. It holds no session state of its own;
// the committer is the only stateful collaborator.
type Engine struct {
	gateway    ports.CatalogGateway
	classifier *classifier.Classifier
	committer  Committer
	purchaser  ports.PurchaseRequester
	clock      ports.Clock
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithCommitter replaces the default committer.
func WithCommitter(c Committer) Option {
	return func(e *Engine) { e.committer = c }
}

// WithPurchaseRequester sets where purchase requests are handed off.
func WithPurchaseRequester(p ports.PurchaseRequester) Option {
	return func(e *Engine) { e.purchaser = p }
}

// WithClock sets the time source for turns and the default committer.
func WithClock(c ports.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over the given catalog.
func NewEngine(gateway ports.CatalogGateway, opts ...Option) *Engine {
	e := &Engine{
		gateway:    gateway,
		classifier: classifier.Default(),
		clock:      ports.SystemClock,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.committer == nil {
		e.committer = commit.New(commit.WithClock(e.clock))
	}
	return e
}

// Apply processes one event. The input session is never mutated: on success
// the returned session is a modified copy, on error it is nil and the caller
// keeps the original.
//
// Selections that do not match the active flow fail with an error matching
// domain.ErrInvalidSelection. Catalog failures are not returned; they
// become an assistant message and clear the active flow.
func (e *Engine) Apply(ctx context.Context, sess *domain.Session, ev domain.Event) (*domain.Session, error) {
	if sess == nil {
		return nil, errors.New("nil session")
	}
	next := sess.Clone()

	var err error
	switch ev.Kind {
	case domain.EventUtterance:
		err = e.utterance(ctx, next, ev)
	case domain.EventSelectSeat:
		err = e.selectSeat(ctx, next, ev)
	case domain.EventSelectBiblio:
		err = e.selectBiblio(ctx, next, ev)
	case domain.EventSelectItem:
		err = e.selectItem(ctx, next, ev)
	case domain.EventRequestHold:
		err = e.requestHold(ctx, next, ev)
	case domain.EventRequestPurchase:
		err = e.requestPurchase(ctx, next, ev)
	case domain.EventConfirm:
		err = e.confirm(ctx, next, ev)
	default:
		err = fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (e *Engine) utterance(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	intent := e.classifier.Classify(ev.Text)
	e.logger.Debug("utterance classified", "session", sess.ID, "intent", intent)

	switch intent {
	case domain.IntentSeatBooking:
		seats, err := e.gateway.FindAvailableSeats(ctx)
		if err != nil {
			return e.gatewayFailed(ctx, sess, ev, "find_available_seats", err, e.say(domain.RoleUser, ev.Text))
		}
		e.appendAll(sess, e.say(domain.RoleUser, ev.Text), e.seatCandidates(seats))
		e.startFlow(ctx, sess, domain.NewSeatFlow(seats), ev.Kind)

	case domain.IntentBookLookup:
		res, err := e.gateway.SearchBiblios(ctx, ev.Text)
		if err != nil {
			return e.gatewayFailed(ctx, sess, ev, "search_biblios", err, e.say(domain.RoleUser, ev.Text))
		}
		e.appendAll(sess, e.say(domain.RoleUser, ev.Text), e.turn(domain.RoleAssistant, domain.Payload{
			Kind: domain.PayloadBiblioCandidates,
			Text: msgBookList,
			Biblios: &domain.BiblioCandidates{
				Recommended:            res.Matches,
				UnavailableSuggestions: res.UnavailableSuggestions,
			},
		}))
		e.startFlow(ctx, sess, domain.NewBookFlow(res), ev.Kind)

	default:
		e.appendAll(sess, e.say(domain.RoleUser, ev.Text), e.say(domain.RoleAssistant, msgHelp))
	}
	return nil
}

// startFlow replaces whatever flow was active.
func (e *Engine) startFlow(ctx context.Context, sess *domain.Session, flow *domain.ActiveFlow, trigger domain.EventKind) {
	if prev := sess.ActiveFlow(); prev != nil && !prev.State().IsTerminal() {
		e.logger.Debug("flow replaced", "session", sess.ID, "kind", prev.Kind, "state", prev.State())
	}
	sess.SetActiveFlow(flow)
	e.emitTransition(ctx, sess.ID, flow.Kind, domain.StateAwaitingIntent, flow.State(), trigger)
}

// gatewayFailed appends the retry message after lead and clears the flow.
// A cancelled context is returned as-is so nothing is appended.
func (e *Engine) gatewayFailed(ctx context.Context, sess *domain.Session, ev domain.Event, op string, cause error, lead ...domain.Turn) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	gerr := &GatewayError{Op: op, Err: cause}
	e.logger.Warn("catalog lookup failed", "session", sess.ID, "op", op, "error", cause)
	e.emitGatewayError(ctx, sess.ID, op, gerr)

	e.appendAll(sess, append(lead, e.say(domain.RoleAssistant, msgGatewayFailed))...)
	if prev := sess.ActiveFlow(); prev != nil {
		sess.SetActiveFlow(nil)
		e.emitTransition(ctx, sess.ID, prev.Kind, prev.State(), domain.StateAwaitingIntent, ev.Kind)
	}
	return nil
}

func (e *Engine) turn(role domain.Role, p domain.Payload) domain.Turn {
	return domain.Turn{Role: role, CreatedAt: e.clock.Now(), Payload: p}
}

func (e *Engine) say(role domain.Role, text string) domain.Turn {
	return e.turn(role, domain.TextPayload(text))
}

func (e *Engine) appendAll(sess *domain.Session, turns ...domain.Turn) []domain.Turn {
	out := make([]domain.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, sess.Append(t))
	}
	return out
}
