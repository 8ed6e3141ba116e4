package domain

import (
	"context"
	"time"
)

// EventKind names a trigger the engine reacts to.
type EventKind string

const (
	// EventUtterance covers typed text and quick replies alike.
	EventUtterance       EventKind = "utterance"
	EventSelectSeat      EventKind = "select_seat"
	EventSelectBiblio    EventKind = "select_biblio"
	EventSelectItem      EventKind = "select_item"
	EventRequestHold     EventKind = "request_hold"
	EventConfirm         EventKind = "confirm"
	EventRequestPurchase EventKind = "request_purchase"
)

// Event is one discrete dialog trigger. Only the fields relevant to Kind
// are read.
type Event struct {
	Kind     EventKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	TargetID string    `json:"target_id,omitempty"`
	Accepted bool      `json:"accepted,omitempty"`
}

func Utterance(text string) Event { return Event{Kind: EventUtterance, Text: text} }
func SelectSeat(id string) Event { return Event{Kind: EventSelectSeat, TargetID: id} }
func SelectBiblio(id string) Event { return Event{Kind: EventSelectBiblio, TargetID: id} }
func SelectItem(id string) Event { return Event{Kind: EventSelectItem, TargetID: id} }
func RequestHold(itemID string) Event { return Event{Kind: EventRequestHold, TargetID: itemID} }
func RequestPurchase(id string) Event { return Event{Kind: EventRequestPurchase, TargetID: id} }
func Confirm(turnID string, accepted bool) Event {
	return Event{Kind: EventConfirm, TargetID: turnID, Accepted: accepted}
}

// HookType defines the category of a lifecycle notification.
type HookType string

const (
	HookTransition   HookType = "transition"
	HookCommit       HookType = "commit"
	HookGatewayError HookType = "gateway_error"
	HookPurchase     HookType = "purchase"
)

// HookBase contains common fields for all lifecycle notifications.
type HookBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      HookType  `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent is emitted whenever a flow changes state.
type TransitionEvent struct {
	HookBase
	Flow    FlowKind  `json:"flow"`
	From    FlowState `json:"from"`
	To      FlowState `json:"to"`
	Trigger EventKind `json:"trigger"`
}

// CommitEvent is emitted after the committer produced a receipt.
type CommitEvent struct {
	HookBase
	Receipt Receipt `json:"receipt"`
}

// GatewayErrorEvent is emitted when a catalog lookup failed.
type GatewayErrorEvent struct {
	HookBase
	Op  string `json:"op"`
	Err error  `json:"-"`
}

// PurchaseEvent is emitted when a purchase request is handed off.
type PurchaseEvent struct {
	HookBase
	BiblioID string `json:"biblio_id"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition   func(context.Context, *TransitionEvent)
	OnCommit       func(context.Context, *CommitEvent)
	OnGatewayError func(context.Context, *GatewayErrorEvent)
	OnPurchase     func(context.Context, *PurchaseEvent)
}

// MergeHooks fans every callback out to all non-nil hooks in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnCommit: func(ctx context.Context, e *CommitEvent) {
			for _, h := range hooks {
				if h.OnCommit != nil {
					h.OnCommit(ctx, e)
				}
			}
		},
		OnGatewayError: func(ctx context.Context, e *GatewayErrorEvent) {
			for _, h := range hooks {
				if h.OnGatewayError != nil {
					h.OnGatewayError(ctx, e)
				}
			}
		},
		OnPurchase: func(ctx context.Context, e *PurchaseEvent) {
			for _, h := range hooks {
				if h.OnPurchase != nil {
					h.OnPurchase(ctx, e)
				}
			}
		},
	}
}
