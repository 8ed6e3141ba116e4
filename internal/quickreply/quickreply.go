// Package quickreply holds the canned phrases offered as one-tap replies.
// A quick reply is dispatched exactly like typed text.
package quickreply

import (
	"fmt"
	"slices"

	"github.com/aretw0/ragso/pkg/domain"
)

// Defaults are the phrases shown under an empty conversation.
var Defaults = []string{
	"열람실 좌석을 예약하고 싶어요",
	"프로그래밍 관련 책을 추천해주세요",
	"파이썬 공부할 수 있는 책 있나요?",
}

// Set is an ordered list of quick replies.
type Set struct {
	phrases []string
}

// New builds a set. An empty list means Defaults.
func New(phrases ...string) *Set {
	if len(phrases) == 0 {
		phrases = Defaults
	}
	return &Set{phrases: slices.Clone(phrases)}
}

// List returns the phrases in display order.
func (s *Set) List() []string {
	return slices.Clone(s.phrases)
}

// At returns the phrase at a 1-based position, as numbered on screen.
func (s *Set) At(n int) (string, error) {
	if n < 1 || n > len(s.phrases) {
		return "", fmt.Errorf("quick reply %d out of range 1-%d: %w", n, len(s.phrases), domain.ErrInvalidSelection)
	}
	return s.phrases[n-1], nil
}

// Event turns a phrase into the utterance event free text would produce.
func Event(phrase string) domain.Event {
	return domain.Utterance(phrase)
}
