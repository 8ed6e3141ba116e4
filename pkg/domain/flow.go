package domain

import "slices"

// FlowKind tags which task an ActiveFlow tracks.
type FlowKind string

const (
	FlowSeat FlowKind = "seat"
	FlowBook FlowKind = "book"
)

// FlowState is the position of a flow inside its state machine.
type FlowState string

const (
	StateAwaitingIntent FlowState = "awaiting_intent"

	// Seat flow.
	StateCandidatesShown FlowState = "candidates_shown"
	StateBooked          FlowState = "booked"

	// Book flow.
	StateBiblioListShown FlowState = "biblio_list_shown"
	StateItemListShown   FlowState = "item_list_shown"
	StateItemDetailShown FlowState = "item_detail_shown"
	StateHoldPlaced      FlowState = "hold_placed"

	// Shared.
	StateConfirmPending FlowState = "confirm_pending"
	StateCancelled      FlowState = "cancelled"
)

// IsTerminal reports whether no further selection is accepted in this state.
func (s FlowState) IsTerminal() bool {
	switch s {
	case StateBooked, StateHoldPlaced, StateCancelled:
		return true
	}
	return false
}

// SeatFlow is the in-progress seat reservation.
type SeatFlow struct {
	State        FlowState `json:"state"`
	Candidates   []Seat    `json:"candidates"`
	Selected     *Seat     `json:"selected,omitempty"`
	PromptTurnID string    `json:"prompt_turn_id,omitempty"`
}

// BookFlow is the in-progress three-tier book lookup.
type BookFlow struct {
	State                  FlowState               `json:"state"`
	Candidates             []Biblio                `json:"candidates"`
	UnavailableSuggestions []UnavailableSuggestion `json:"unavailable_suggestions,omitempty"`
	NarrowedBiblio         *Biblio                 `json:"narrowed_biblio,omitempty"`
	NarrowedItems          []Item                  `json:"narrowed_items,omitempty"`
	SelectedItem           *Item                   `json:"selected_item,omitempty"`
	PromptTurnID           string                  `json:"prompt_turn_id,omitempty"`
}

// ActiveFlow is a tagged variant holding exactly one of Seat or Book.
type ActiveFlow struct {
	Kind FlowKind  `json:"kind"`
	Seat *SeatFlow `json:"seat,omitempty"`
	Book *BookFlow `json:"book,omitempty"`
}

// NewSeatFlow starts a seat flow showing the given candidates.
func NewSeatFlow(candidates []Seat) *ActiveFlow {
	return &ActiveFlow{
		Kind: FlowSeat,
		Seat: &SeatFlow{State: StateCandidatesShown, Candidates: candidates},
	}
}

// NewBookFlow starts a book flow showing the given search result.
func NewBookFlow(res SearchResult) *ActiveFlow {
	return &ActiveFlow{
		Kind: FlowBook,
		Book: &BookFlow{
			State:                  StateBiblioListShown,
			Candidates:             res.Matches,
			UnavailableSuggestions: res.UnavailableSuggestions,
		},
	}
}

// State returns the current state of whichever flow is populated.
func (f *ActiveFlow) State() FlowState {
	if f == nil {
		return StateAwaitingIntent
	}
	switch {
	case f.Seat != nil:
		return f.Seat.State
	case f.Book != nil:
		return f.Book.State
	}
	return StateAwaitingIntent
}

// PromptTurnID returns the id of the confirmation prompt the flow waits on.
func (f *ActiveFlow) PromptTurnID() string {
	if f == nil {
		return ""
	}
	switch {
	case f.Seat != nil:
		return f.Seat.PromptTurnID
	case f.Book != nil:
		return f.Book.PromptTurnID
	}
	return ""
}

// Clone deep-copies the flow so a reducer can mutate it freely.
func (f *ActiveFlow) Clone() *ActiveFlow {
	if f == nil {
		return nil
	}
	next := &ActiveFlow{Kind: f.Kind}
	if f.Seat != nil {
		s := *f.Seat
		s.Candidates = slices.Clone(f.Seat.Candidates)
		if f.Seat.Selected != nil {
			sel := *f.Seat.Selected
			s.Selected = &sel
		}
		next.Seat = &s
	}
	if f.Book != nil {
		b := *f.Book
		b.Candidates = slices.Clone(f.Book.Candidates)
		b.UnavailableSuggestions = slices.Clone(f.Book.UnavailableSuggestions)
		b.NarrowedItems = slices.Clone(f.Book.NarrowedItems)
		if f.Book.NarrowedBiblio != nil {
			nb := *f.Book.NarrowedBiblio
			b.NarrowedBiblio = &nb
		}
		if f.Book.SelectedItem != nil {
			it := *f.Book.SelectedItem
			b.SelectedItem = &it
		}
		next.Book = &b
	}
	return next
}
