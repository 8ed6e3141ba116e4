package http

import (
	"errors"
	"fmt"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// EventRequest is the body of POST /sessions/{id}/events:
//
//	{"type": "select_seat", "args": {"id": "S233"}}
//	{"type": "confirm", "args": {"turn_id": "t4", "accepted": true}}
//	{"type": "quick_reply", "args": {"index": 2}}
type EventRequest struct {
	Type string         `json:"type"`
	Args map[string]any `json:"args"`
}

// EventQuickReply resolves to an utterance server-side.
const EventQuickReply = "quick_reply"

type eventArgs struct {
	Text     string `mapstructure:"text"`
	ID       string `mapstructure:"id"`
	TurnID   string `mapstructure:"turn_id"`
	Accepted *bool  `mapstructure:"accepted"`
	Index    int    `mapstructure:"index"`
}

type quickReplies interface {
	QuickReply(n int) (string, error)
}

// ToDomain validates the generic args for the event type and builds the
// typed event.
func (req EventRequest) ToDomain(quick quickReplies) (domain.Event, error) {
	var args eventArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &args,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Event{}, err
	}
	if err := dec.Decode(req.Args); err != nil {
		return domain.Event{}, fmt.Errorf("args: %w", err)
	}

	requireID := func() error {
		if args.ID == "" {
			return errors.New("args.id is required")
		}
		return nil
	}

	switch domain.EventKind(req.Type) {
	case domain.EventUtterance:
		return domain.Utterance(args.Text), nil
	case domain.EventSelectSeat:
		return domain.SelectSeat(args.ID), requireID()
	case domain.EventSelectBiblio:
		return domain.SelectBiblio(args.ID), requireID()
	case domain.EventSelectItem:
		return domain.SelectItem(args.ID), requireID()
	case domain.EventRequestHold:
		return domain.RequestHold(args.ID), requireID()
	case domain.EventRequestPurchase:
		return domain.RequestPurchase(args.ID), requireID()
	case domain.EventConfirm:
		if args.TurnID == "" || args.Accepted == nil {
			return domain.Event{}, errors.New("args.turn_id and args.accepted are required")
		}
		return domain.Confirm(args.TurnID, *args.Accepted), nil
	}

	if req.Type == EventQuickReply {
		if args.Text != "" {
			return domain.Utterance(args.Text), nil
		}
		phrase, err := quick.QuickReply(args.Index)
		if err != nil {
			return domain.Event{}, err
		}
		return domain.Utterance(phrase), nil
	}
	return domain.Event{}, fmt.Errorf("unknown event type %q", req.Type)
}
