// Package middleware wraps a SessionStore with storage-side policies such as
// encryption at rest and redaction of personal data in utterances.
package middleware

import "github.com/aretw0/ragso/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first one listed sees calls first.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
