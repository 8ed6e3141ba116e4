package quickreply

import (
	"testing"

	"github.com/aretw0/ragso/internal/classifier"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsClassify(t *testing.T) {
	want := []domain.Intent{domain.IntentSeatBooking, domain.IntentBookLookup, domain.IntentBookLookup}
	for i, p := range New().List() {
		assert.Equal(t, want[i], classifier.Classify(p), p)
	}
}

func TestSet_At(t *testing.T) {
	s := New("a", "b")

	got, err := s.At(2)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	_, err = s.At(0)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	_, err = s.At(3)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestEvent_IsUtterance(t *testing.T) {
	assert.Equal(t, domain.Utterance("좌석"), Event("좌석"))
}

func TestSet_ListIsACopy(t *testing.T) {
	s := New()
	l := s.List()
	l[0] = "changed"
	assert.Equal(t, Defaults[0], s.List()[0])
}
