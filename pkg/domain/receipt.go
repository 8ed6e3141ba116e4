package domain

import "time"

// ReceiptKind names the committed transaction.
type ReceiptKind string

const (
	ReceiptSeat ReceiptKind = "seat"
	ReceiptHold ReceiptKind = "hold"
)

// Subject is what a commit is about: a seat or an item copy.
type Subject struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Receipt is the immutable proof of a committed transaction.
// Seat receipts carry StartsAt/EndsAt; hold receipts carry the pickup fields.
type Receipt struct {
	ID                 string      `json:"id"`
	Kind               ReceiptKind `json:"kind"`
	ConfirmationNumber string      `json:"confirmation_number"`
	Subject            Subject     `json:"subject"`
	IssuedAt           time.Time   `json:"issued_at"`

	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`

	PickupLocation string     `json:"pickup_location,omitempty"`
	PickupDeadline *time.Time `json:"pickup_deadline,omitempty"`
}
