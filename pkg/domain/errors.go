package domain

import "errors"

// ErrInvalidSelection is returned when a referenced id is not part of the
// last candidates shown, or the flow is not in a state that accepts it.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrTurnPending is returned when a trigger arrives while a previous one is
// still being processed for the same session.
var ErrTurnPending = errors.New("previous turn still pending")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrGatewayUnavailable wraps catalog lookup failures. The engine turns it
// into a retry message instead of returning it.
var ErrGatewayUnavailable = errors.New("catalog gateway unavailable")
