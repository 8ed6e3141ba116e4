package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxUtteranceLength caps an utterance in characters, not bytes,
	// so Hangul gets the same room as ASCII.
	DefaultMaxUtteranceLength = 1000
	// EnvMaxUtteranceLength overrides the cap.
	EnvMaxUtteranceLength = "RAGSO_MAX_UTTERANCE_LENGTH"
)

var (
	ErrUtteranceTooLong = errors.New("utterance exceeds maximum length")
	ErrInvalidUTF8      = errors.New("utterance contains invalid UTF-8 sequences")
)

// SanitizeUtterance prepares one line of chat for the classifier. Control
// characters are dropped, every whitespace run (newlines included) becomes a
// single space and the ends are trimmed. Over-long input is rejected, never
// truncated, since a cut keyword would change the intent.
func SanitizeUtterance(input string) (string, error) {
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	limit := maxUtteranceLength()
	if n := utf8.RuneCountInString(input); n > limit {
		return "", fmt.Errorf("%w: length=%d limit=%d", ErrUtteranceTooLong, n, limit)
	}

	var b strings.Builder
	b.Grow(len(input))
	space := false
	for _, r := range input {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsControl(r):
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func maxUtteranceLength() int {
	if val := os.Getenv(EnvMaxUtteranceLength); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxUtteranceLength
}
