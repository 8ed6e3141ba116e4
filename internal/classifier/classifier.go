// Package classifier maps a free-text utterance to an Intent by keyword
// matching. Seat triggers are checked before book triggers.
package classifier

import (
	"strings"

	"github.com/aretw0/ragso/pkg/domain"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// DefaultSeatTriggers activate the seat flow.
var DefaultSeatTriggers = []string{
	"seat", "reservation", "reserve", "reading room", "reading-room",
	"좌석", "예약", "열람실",
}

// DefaultBookTriggers activate the book flow.
var DefaultBookTriggers = []string{
	"book", "recommend", "programming", "python", "coding",
	"책", "도서", "추천", "파이썬", "프로그래밍", "코딩",
}

// Classifier holds normalized trigger sets. The zero value classifies
// everything as unknown; use New or Default.
type Classifier struct {
	seat []string
	book []string
}

// New builds a Classifier. Empty trigger lists fall back to the defaults.
func New(seat, book []string) *Classifier {
	if len(seat) == 0 {
		seat = DefaultSeatTriggers
	}
	if len(book) == 0 {
		book = DefaultBookTriggers
	}
	return &Classifier{seat: normalizeAll(seat), book: normalizeAll(book)}
}

var std = New(nil, nil)

// Default returns the classifier with the built-in triggers.
func Default() *Classifier { return std }

// Classify is Default().Classify.
func Classify(utterance string) domain.Intent { return std.Classify(utterance) }

// Classify returns the intent of an utterance. It never fails: text with no
// trigger, including the empty string, is IntentUnknown.
func (c *Classifier) Classify(utterance string) domain.Intent {
	text := Normalize(utterance)
	if text == "" {
		return domain.IntentUnknown
	}
	if containsAny(text, c.seat) {
		return domain.IntentSeatBooking
	}
	if containsAny(text, c.book) {
		return domain.IntentBookLookup
	}
	return domain.IntentUnknown
}

// Normalize composes Hangul (NFC), folds full-width forms, lower-cases and
// trims the text.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	return strings.TrimSpace(strings.ToLower(s))
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if n := Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(text string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
