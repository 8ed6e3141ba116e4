package runtime

import (
	"context"

	"github.com/aretw0/ragso/pkg/domain"
)

func (e *Engine) seatCandidates(seats []domain.Seat) domain.Turn {
	text := msgSeatList
	if len(seats) == 0 {
		text = msgNoSeats
	}
	return e.turn(domain.RoleAssistant, domain.Payload{
		Kind:  domain.PayloadSeatCandidates,
		Text:  text,
		Seats: seats,
	})
}

// selectSeat moves CANDIDATES_SHOWN -> CONFIRM_PENDING.
func (e *Engine) selectSeat(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	flow := sess.ActiveFlow()
	if flow == nil || flow.Seat == nil {
		return reject(ev, ErrNoActiveFlow)
	}
	sf := flow.Seat
	if sf.State != domain.StateCandidatesShown {
		return reject(ev, ErrWrongState)
	}
	seat, ok := findSeat(sf.Candidates, ev.TargetID)
	if !ok {
		return reject(ev, ErrNotInCandidates)
	}

	turns := e.appendAll(sess,
		e.say(domain.RoleUser, msgSeatSelected(seat.Location, seat.Name)),
		e.turn(domain.RoleAssistant, domain.Payload{
			Kind: domain.PayloadConfirmPrompt,
			Text: msgSeatPrompt(seat.DisplayName()),
			Prompt: &domain.ConfirmPrompt{
				Action:    domain.ConfirmSeat,
				SubjectID: seat.ID,
				Subject:   seat.DisplayName(),
			},
		}),
	)

	sf.Selected = &seat
	sf.PromptTurnID = turns[1].ID
	sf.State = domain.StateConfirmPending
	e.emitTransition(ctx, sess.ID, domain.FlowSeat, domain.StateCandidatesShown, domain.StateConfirmPending, ev.Kind)
	return nil
}

func findSeat(seats []domain.Seat, id string) (domain.Seat, bool) {
	for _, s := range seats {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Seat{}, false
}
