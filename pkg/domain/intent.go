package domain

// Intent is the task a user utterance asks for.
type Intent string

const (
	IntentUnknown     Intent = "unknown"
	IntentSeatBooking Intent = "seat_booking"
	IntentBookLookup  Intent = "book_lookup"
)

func (i Intent) String() string { return string(i) }
