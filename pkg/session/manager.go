package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/ragso/internal/logging"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring a single writer per session.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker     ports.DistributedLocker // Optional distributed locker
	lockTTL    time.Duration
	tryTimeout time.Duration
	clock      ports.Clock
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithTryTimeout bounds how long TryWithLock waits for the distributed lock.
func WithTryTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.tryTimeout = d
	}
}

// WithClock sets the time source for new sessions.
func WithClock(c ports.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		locks:      make(map[string]*lockEntry),
		lockTTL:    30 * time.Second,
		tryTimeout: 250 * time.Millisecond,
		clock:      ports.SystemClock,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		return err
	})
	return sess, err
}

// LoadOrStart tries to load a session. If not found, it initializes and
// persists a new idle one.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		sess = domain.NewSession(sessionID, m.clock.Now())
		if err := m.store.Save(ctx, sess); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return sess, err
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, sess *domain.Session) error {
	return m.WithLock(ctx, sess.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, sess)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// Advance loads a session, applies step to it and saves the result, all
// under TryWithLock. It returns both snapshots so callers can diff them.
// A session already being advanced yields domain.ErrTurnPending.
func (m *Manager) Advance(ctx context.Context, sessionID string, step func(context.Context, *domain.Session) (*domain.Session, error)) (before, after *domain.Session, err error) {
	err = m.TryWithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		before, err = m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		after, err = step(ctx, before)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, after)
	})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	return m.withDistributed(ctx, ctx, sessionID, fn)
}

// TryWithLock is WithLock that fails fast with domain.ErrTurnPending when
// another caller holds the session. The distributed lock is awaited for at
// most the try timeout.
func (m *Manager) TryWithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	if !entry.mu.TryLock() {
		m.release(sessionID)
		return domain.ErrTurnPending
	}
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, m.tryTimeout)
	defer cancel()
	err := m.withDistributed(ctx, lockCtx, sessionID, fn)
	var le *lockError
	if errors.As(err, &le) && errors.Is(le, context.DeadlineExceeded) && ctx.Err() == nil {
		return domain.ErrTurnPending
	}
	return err
}

// lockError marks a failure to acquire the distributed lock, as opposed to
// an error returned by the guarded function.
type lockError struct {
	err error
}

func (e *lockError) Error() string { return "failed to acquire distributed lock: " + e.err.Error() }
func (e *lockError) Unwrap() error { return e.err }

func (m *Manager) withDistributed(ctx, lockCtx context.Context, sessionID string, fn func(context.Context) error) error {
	if m.locker != nil {
		unlock, err := m.locker.Lock(lockCtx, sessionID, m.lockTTL)
		if err != nil {
			return &lockError{err: err}
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
