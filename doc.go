/*
Package ragso is the dialog engine of a library assistant chatbot.

A user types (or taps) a request; the engine classifies it as a seat
reservation or a book lookup, walks the user through the candidates the
catalog returns (seat list, or biblio list, copies, copy detail), and only
after an explicit "yes" commits the transaction and returns a receipt.

# Architecture

The engine is hexagonal. The catalog is reached through ports.CatalogGateway,
purchase requests leave through ports.PurchaseRequester, and sessions can be
kept in any ports.SessionStore. The state machine itself is a reducer:

	next, err := engine.Apply(ctx, session, domain.SelectSeat("S233"))

Apply never modifies its input, so hosts decide where sessions live.

# Usage

For a single user, a Conversation keeps the session and enforces one
trigger at a time:

	eng, err := ragso.New(catalog.NewDefault())
	if err != nil {
		log.Fatal(err)
	}
	conv, _ := eng.Start(ctx, "")

	turns, _ := conv.SubmitUtterance(ctx, "열람실 좌석을 예약하고 싶어요")
	turns, _ = conv.SelectSeat(ctx, "S233")
	prompt := turns[len(turns)-1]
	turns, _ = conv.Confirm(ctx, prompt.ID, true) // receipt turn

Hosts serving many sessions combine Engine.Apply with a session.Manager.
*/
package ragso
