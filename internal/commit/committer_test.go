package commit

import (
	"testing"
	"time"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedNumbers struct {
	values []uint64
	i      int
}

func (f *fixedNumbers) Uint64() uint64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

var now = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func newTestCommitter(opts ...Option) *Committer {
	base := []Option{WithClock(ports.ClockFunc(func() time.Time { return now }))}
	return New(append(base, opts...)...)
}

func TestCommit_Seat(t *testing.T) {
	c := newTestCommitter()

	r, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S233", Description: "제1열람실-3, 좌석 233"})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, domain.ReceiptSeat, r.Kind)
	assert.Equal(t, "S233", r.Subject.ID)
	require.NotNil(t, r.StartsAt)
	require.NotNil(t, r.EndsAt)
	assert.Equal(t, now, *r.StartsAt)
	assert.Equal(t, 3*time.Hour, r.EndsAt.Sub(*r.StartsAt))
	assert.Nil(t, r.PickupDeadline)
}

func TestCommit_Hold(t *testing.T) {
	c := newTestCommitter()

	r, err := c.Commit(domain.ReceiptHold, domain.Subject{ID: "I1", Description: "혼자 공부하는 파이썬"})
	require.NoError(t, err)

	assert.Equal(t, PickupLocation, r.PickupLocation)
	require.NotNil(t, r.PickupDeadline)
	assert.Equal(t, now.Add(7*24*time.Hour), *r.PickupDeadline)
	assert.Nil(t, r.StartsAt)
}

func TestCommit_NumberFormat(t *testing.T) {
	c := newTestCommitter(WithNumberSource(&fixedNumbers{values: []uint64{0, 8999999, 18_000_000 + 42}}))

	var got []string
	for range 3 {
		r, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
		require.NoError(t, err)
		got = append(got, r.ConfirmationNumber)
	}
	assert.Equal(t, []string{"1000000", "9999999", "1000042"}, got)
}

func TestCommit_HundredDistinctNumbers(t *testing.T) {
	c := New()

	seen := make(map[string]bool)
	for range 100 {
		r, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
		require.NoError(t, err)
		require.Len(t, r.ConfirmationNumber, 7)
		assert.False(t, seen[r.ConfirmationNumber], "duplicate number %s", r.ConfirmationNumber)
		seen[r.ConfirmationNumber] = true
	}
	assert.Len(t, seen, 100)
}

func TestCommit_RedrawsOnCollision(t *testing.T) {
	c := newTestCommitter(WithNumberSource(&fixedNumbers{values: []uint64{5, 5, 5, 6}}))

	first, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
	require.NoError(t, err)
	second, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
	require.NoError(t, err)

	assert.Equal(t, "1000005", first.ConfirmationNumber)
	assert.Equal(t, "1000006", second.ConfirmationNumber)
}

func TestCommit_Exhausted(t *testing.T) {
	c := newTestCommitter(WithNumberSource(&fixedNumbers{values: []uint64{7}}))

	_, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
	require.NoError(t, err)

	_, err = c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
	assert.ErrorIs(t, err, ErrNumbersExhausted)
}

func TestCommit_UnknownKind(t *testing.T) {
	c := newTestCommitter(WithNumberSource(&fixedNumbers{values: []uint64{1}}))

	_, err := c.Commit("loan", domain.Subject{ID: "x"})
	require.Error(t, err)

	r, err := c.Commit(domain.ReceiptHold, domain.Subject{ID: "I1"})
	require.NoError(t, err, "a failed commit must not burn its number")
	assert.Equal(t, "1000001", r.ConfirmationNumber)
}

func TestCommit_ExpiredNumbersAreReleased(t *testing.T) {
	clock := now
	c := New(
		WithClock(ports.ClockFunc(func() time.Time { return clock })),
		WithNumberSource(&fixedNumbers{values: []uint64{3}}),
	)

	seat, err := c.Commit(domain.ReceiptSeat, domain.Subject{ID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Outstanding())

	clock = now.Add(SeatDuration - time.Minute)
	_, err = c.Commit(domain.ReceiptHold, domain.Subject{ID: "I1"})
	assert.ErrorIs(t, err, ErrNumbersExhausted, "number reserved while the seat receipt is valid")

	clock = now.Add(SeatDuration)
	assert.Equal(t, 0, c.Outstanding())

	hold, err := c.Commit(domain.ReceiptHold, domain.Subject{ID: "I1"})
	require.NoError(t, err)
	assert.Equal(t, seat.ConfirmationNumber, hold.ConfirmationNumber)
	assert.Equal(t, 1, c.Outstanding())

	clock = clock.Add(SeatDuration)
	assert.Equal(t, 1, c.Outstanding(), "hold receipts live for the pickup window")
}
