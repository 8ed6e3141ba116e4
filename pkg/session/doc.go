/*
Package session implements session management and persistence orchestration.

Hosts that serve many conversations (the HTTP adapter) go through a Manager:
it serialises access to each session in-process, optionally coordinates
replicas through a ports.DistributedLocker, and turns a second concurrent
trigger into domain.ErrTurnPending instead of queueing it.
*/
package session
