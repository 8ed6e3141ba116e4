// Package commit issues receipts for confirmed transactions.
package commit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/google/uuid"
)

const (
	// SeatDuration is how long a seat reservation lasts.
	SeatDuration = 3 * time.Hour
	// PickupWindow is how long a held copy waits at the pickup desk.
	PickupWindow = 7 * 24 * time.Hour
	// PickupLocation is where every hold is collected.
	PickupLocation = "1층 북 사이렌오더 수령대"

	minNumber = 1000000
	numRange  = 9000000
	maxDraws  = 32
)

// ErrNumbersExhausted is returned when no fresh confirmation number could be
// drawn within the retry budget.
var ErrNumbersExhausted = errors.New("confirmation numbers exhausted")

// UUIDSource draws 64-bit values from the first eight bytes of a random UUID.
type UUIDSource struct{}

func (UUIDSource) Uint64() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[:8])
}

// Committer turns a confirmed subject into a Receipt. It never touches a
// session. A confirmation number is not reissued by the same Committer while
// its receipt is still valid; expired numbers return to the pool.
type Committer struct {
	clock   ports.Clock
	numbers ports.NumberSource
	newID   func() string

	mu         sync.Mutex
	issued     map[int]time.Time // number -> receipt expiry
	nextExpiry time.Time
}

// Option configures a Committer.
type Option func(*Committer)

// WithClock sets the time source.
func WithClock(c ports.Clock) Option {
	return func(cm *Committer) { cm.clock = c }
}

// WithNumberSource sets the source of confirmation numbers.
func WithNumberSource(n ports.NumberSource) Option {
	return func(cm *Committer) { cm.numbers = n }
}

// WithIDFunc overrides receipt id generation.
func WithIDFunc(fn func() string) Option {
	return func(cm *Committer) { cm.newID = fn }
}

// New creates a Committer using the system clock and UUIDSource by default.
func New(opts ...Option) *Committer {
	c := &Committer{
		clock:   ports.SystemClock,
		numbers: UUIDSource{},
		newID:   uuid.NewString,
		issued:  make(map[int]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commit issues a receipt of the given kind for subject.
func (c *Committer) Commit(kind domain.ReceiptKind, subject domain.Subject) (domain.Receipt, error) {
	now := c.clock.Now()
	r := domain.Receipt{
		ID:       c.newID(),
		Kind:     kind,
		Subject:  subject,
		IssuedAt: now,
	}

	var expiry time.Time
	switch kind {
	case domain.ReceiptSeat:
		end := now.Add(SeatDuration)
		r.StartsAt = &now
		r.EndsAt = &end
		expiry = end
	case domain.ReceiptHold:
		deadline := now.Add(PickupWindow)
		r.PickupLocation = PickupLocation
		r.PickupDeadline = &deadline
		expiry = deadline
	default:
		return domain.Receipt{}, fmt.Errorf("unknown receipt kind %q", kind)
	}

	number, err := c.draw(now, expiry)
	if err != nil {
		return domain.Receipt{}, err
	}
	r.ConfirmationNumber = strconv.Itoa(number)
	return r, nil
}

// Outstanding returns how many issued numbers are still reserved.
func (c *Committer) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.clock.Now())
	return len(c.issued)
}

func (c *Committer) draw(now, expiry time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(now)
	for range maxDraws {
		n := minNumber + int(c.numbers.Uint64()%numRange)
		if _, seen := c.issued[n]; seen {
			continue
		}
		c.issued[n] = expiry
		if c.nextExpiry.IsZero() || expiry.Before(c.nextExpiry) {
			c.nextExpiry = expiry
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w after %d draws", ErrNumbersExhausted, maxDraws)
}

// prune drops numbers whose receipts have expired. It only sweeps once the
// earliest known expiry has passed. Callers hold c.mu.
func (c *Committer) prune(now time.Time) {
	if c.nextExpiry.IsZero() || now.Before(c.nextExpiry) {
		return
	}
	c.nextExpiry = time.Time{}
	for n, exp := range c.issued {
		if !now.Before(exp) {
			delete(c.issued, n)
			continue
		}
		if c.nextExpiry.IsZero() || exp.Before(c.nextExpiry) {
			c.nextExpiry = exp
		}
	}
}
