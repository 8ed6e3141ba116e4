package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultPIIPatterns match mobile numbers, e-mail addresses and
// resident registration numbers.
var DefaultPIIPatterns = []string{
	`01[016789][- ]?\d{3,4}[- ]?\d{4}`,
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`\d{6}-?[1-4]\d{6}`,
}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of the patterns in
// user-typed turns before they reach the store. The caller's session is not
// modified.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pii pattern %d: %w", i, err)
		}
		patterns[i] = re
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sess *domain.Session) error {
	cloned := sess.Clone()
	for i, t := range cloned.Turns {
		if t.Role != domain.RoleUser || t.Payload.Kind != domain.PayloadText {
			continue
		}
		cloned.Turns[i].Payload.Text = m.mask(t.Payload.Text)
	}
	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
