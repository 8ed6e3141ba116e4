/*
Package ports defines the driven ports (interfaces) of the Ragso dialog engine.

These interfaces decouple the dialog state machine from the catalog it
browses, the systems it hands requests to and the stores that keep
sessions, so the same engine runs over static tables in tests and over a
real catalog service in production.

# Key Interfaces

  - CatalogGateway: read-only seat inventory and bibliographic catalog.
  - PurchaseRequester: fire-and-forget hand-off for titles the library lacks.
  - SessionStore: persists and loads Sessions.
  - DistributedLocker: coordinates access to a session across replicas.
  - Clock, NumberSource: injected time and randomness for deterministic tests.
*/
package ports
