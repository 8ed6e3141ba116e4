package domain

import "time"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RolePending marks the transient "assistant is thinking" placeholder.
	// It is shown to hosts while a trigger is in flight and never stored.
	RolePending Role = "pending"
)

// PayloadKind tags which body of a Payload is populated.
type PayloadKind string

const (
	PayloadText             PayloadKind = "text"
	PayloadSeatCandidates   PayloadKind = "seat_candidates"
	PayloadBiblioCandidates PayloadKind = "biblio_candidates"
	PayloadItemCandidates   PayloadKind = "item_candidates"
	PayloadItemDetail       PayloadKind = "item_detail"
	PayloadConfirmPrompt    PayloadKind = "confirm_prompt"
	PayloadReceipt          PayloadKind = "receipt"
	PayloadPurchaseHandoff  PayloadKind = "purchase_handoff"
)

// Turn is one entry of the conversation log.
// Turns are immutable once appended; the only allowed change is resolving a
// confirmation prompt through Session.ResolvePrompt.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Payload   Payload   `json:"payload"`
}

// Payload is a tagged variant: Kind names the single populated body.
// Text accompanies every kind as the human-readable lead line.
type Payload struct {
	Kind PayloadKind `json:"kind"`
	Text string      `json:"text,omitempty"`

	Seats    []Seat            `json:"seats,omitempty"`
	Biblios  *BiblioCandidates `json:"biblios,omitempty"`
	Items    *ItemCandidates   `json:"items,omitempty"`
	Detail   *ItemDetail       `json:"detail,omitempty"`
	Prompt   *ConfirmPrompt    `json:"prompt,omitempty"`
	Receipt  *Receipt          `json:"receipt,omitempty"`
	Purchase *PurchaseRecord   `json:"purchase,omitempty"`
}

// BiblioCandidates carries the recommended records and the purchase pitches
// surfaced alongside them.
type BiblioCandidates struct {
	Recommended            []Biblio                `json:"recommended"`
	UnavailableSuggestions []UnavailableSuggestion `json:"unavailable_suggestions"`
}

// ItemCandidates is the available copies of one Biblio. Items may be empty.
type ItemCandidates struct {
	Biblio Biblio `json:"biblio"`
	Items  []Item `json:"items"`
}

// ItemDetail is a single copy with its Biblio and resolved related records.
type ItemDetail struct {
	Item    Item     `json:"item"`
	Biblio  Biblio   `json:"biblio"`
	Related []Biblio `json:"related"`
}

// ConfirmAction names what a confirmation prompt would commit.
type ConfirmAction string

const (
	ConfirmSeat ConfirmAction = "seat"
	ConfirmHold ConfirmAction = "hold"
)

// ConfirmPrompt asks the user for an explicit yes/no before a commit.
type ConfirmPrompt struct {
	Action    ConfirmAction `json:"action"`
	SubjectID string        `json:"subject_id"`
	Subject   string        `json:"subject"`
	Resolved  bool          `json:"resolved"`
}

// PurchaseRecord notes that a purchase request was handed off externally.
type PurchaseRecord struct {
	BiblioID    string    `json:"biblio_id"`
	Title       string    `json:"title"`
	RequestedAt time.Time `json:"requested_at"`
}

// TextPayload builds a plain text payload.
func TextPayload(text string) Payload {
	return Payload{Kind: PayloadText, Text: text}
}

// IsOpenPrompt reports whether the turn is a confirmation prompt still
// awaiting an answer.
func (t Turn) IsOpenPrompt() bool {
	return t.Payload.Kind == PayloadConfirmPrompt && t.Payload.Prompt != nil && !t.Payload.Prompt.Resolved
}

// PendingTurn is the placeholder hosts render while a trigger is in flight.
func PendingTurn(at time.Time) Turn {
	return Turn{ID: "pending", Role: RolePending, CreatedAt: at, Payload: TextPayload("")}
}
