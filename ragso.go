package ragso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ragso/internal/classifier"
	"github.com/aretw0/ragso/internal/commit"
	"github.com/aretw0/ragso/internal/logging"
	"github.com/aretw0/ragso/internal/quickreply"
	"github.com/aretw0/ragso/internal/runtime"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the Ragso library.
// It wraps the internal dialog runtime and is safe for concurrent use; per
// conversation state lives in Session values or Conversation controllers.
type Engine struct {
	runtime *runtime.Engine
	gateway ports.CatalogGateway
	quick   *quickreply.Set

	seatTriggers  []string
	bookTriggers  []string
	clock         ports.Clock
	numbers       ports.NumberSource
	purchaser     ports.PurchaseRequester
	store         ports.SessionStore
	thinkingDelay time.Duration
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTriggers replaces the keyword sets used to classify utterances.
// A nil set keeps the built-in one.
func WithTriggers(seat, book []string) Option {
	return func(e *Engine) {
		e.seatTriggers, e.bookTriggers = seat, book
	}
}

// WithClock sets the time source for turns and receipts.
func WithClock(c ports.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithNumberSource sets the source of receipt confirmation numbers.
func WithNumberSource(n ports.NumberSource) Option {
	return func(e *Engine) {
		e.numbers = n
	}
}

// WithPurchaseRequester sets where purchase requests are handed off.
func WithPurchaseRequester(p ports.PurchaseRequester) Option {
	return func(e *Engine) {
		e.purchaser = p
	}
}

// WithStore makes conversations load from and save to store.
func WithStore(s ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithThinkingDelay makes conversations hold the pending state for d before
// answering, the way the chat UI shows a typing indicator.
func WithThinkingDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.thinkingDelay = d
	}
}

// WithQuickReplies replaces the canned quick-reply phrases.
func WithQuickReplies(phrases ...string) Option {
	return func(e *Engine) {
		e.quick = quickreply.New(phrases...)
	}
}

// New initializes a new Ragso Engine over a catalog gateway.
func New(gateway ports.CatalogGateway, opts ...Option) (*Engine, error) {
	if gateway == nil {
		return nil, errors.New("catalog gateway is required")
	}
	eng := &Engine{
		gateway: gateway,
		quick:   quickreply.New(),
		clock:   ports.SystemClock,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	commitOpts := []commit.Option{commit.WithClock(eng.clock)}
	if eng.numbers != nil {
		commitOpts = append(commitOpts, commit.WithNumberSource(eng.numbers))
	}

	runtimeOpts := []runtime.Option{
		runtime.WithClassifier(classifier.New(eng.seatTriggers, eng.bookTriggers)),
		runtime.WithCommitter(commit.New(commitOpts...)),
		runtime.WithClock(eng.clock),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.purchaser != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithPurchaseRequester(eng.purchaser))
	}
	eng.runtime = runtime.NewEngine(gateway, runtimeOpts...)

	return eng, nil
}

// NewSession creates an idle session. An empty id gets a random UUID.
func (e *Engine) NewSession(id string) *domain.Session {
	if id == "" {
		id = uuid.NewString()
	}
	return domain.NewSession(id, e.clock.Now())
}

// Apply runs one event against sess and returns the next session.
// sess is never modified. This is the stateless entry point used by hosts
// that manage sessions themselves.
func (e *Engine) Apply(ctx context.Context, sess *domain.Session, ev domain.Event) (*domain.Session, error) {
	return e.runtime.Apply(ctx, sess, ev)
}

// QuickReplies returns the canned phrases in display order.
func (e *Engine) QuickReplies() []string {
	return e.quick.List()
}

// QuickReply returns the phrase at a 1-based position.
func (e *Engine) QuickReply(n int) (string, error) {
	return e.quick.At(n)
}

// Start opens a conversation. With a store configured, an existing session
// under id is resumed; otherwise a new one is created.
func (e *Engine) Start(ctx context.Context, id string) (*Conversation, error) {
	if e.store != nil && id != "" {
		sess, err := e.store.Load(ctx, id)
		switch {
		case err == nil:
			sess.Status = domain.StatusIdle
			return e.Resume(sess), nil
		case !errors.Is(err, domain.ErrSessionNotFound):
			return nil, fmt.Errorf("failed to load session %s: %w", id, err)
		}
	}
	return e.Resume(e.NewSession(id)), nil
}

// Resume wraps an existing session in a Conversation.
func (e *Engine) Resume(sess *domain.Session) *Conversation {
	return &Conversation{engine: e, sess: sess.Clone()}
}
