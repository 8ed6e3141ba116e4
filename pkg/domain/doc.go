/*
Package domain contains the core domain models of the Ragso dialog engine.

It defines the catalog records the assistant talks about, the conversation
log, the in-progress task state and the receipts produced by a confirmed
commit. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Seat, Biblio, Item: read-only catalog records supplied by a gateway.
  - Turn: one immutable entry of the conversation log with a tagged payload.
  - ActiveFlow: the single in-progress seat or book task of a session.
  - Session: the append-only turn log plus the active flow slot.
  - Receipt: the synthetic proof of a committed seat booking or hold.
  - Event: the discrete triggers the engine reacts to.
*/
package domain
