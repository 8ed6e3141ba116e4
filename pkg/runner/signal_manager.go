package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"
)

// raceWindow is how long CheckRace waits for an interrupt to catch up with an
// input error. Some terminals deliver EOF on stdin before SIGINT.
const raceWindow = 100 * time.Millisecond

// SignalManager turns the terminal interrupt key into a context the chat loop
// can select on. One Ctrl-C cancels the current context; Reset arms a fresh
// one so the next trigger can be interrupted too.
type SignalManager struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager starts listening for os.Interrupt.
func NewSignalManager() *SignalManager {
	sm := &SignalManager{}
	sm.Reset()
	return sm
}

// Context is cancelled by the next interrupt.
func (sm *SignalManager) Context() context.Context {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.ctx
}

// Reset drops the current listener and arms a new one.
func (sm *SignalManager) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), os.Interrupt)
}

// Stop releases the signal listener. The process default for SIGINT applies
// again afterwards.
func (sm *SignalManager) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.cancel != nil {
		sm.cancel()
	}
}

// CheckRace waits up to raceWindow for an interrupt that may trail an input
// error. It returns at once if the interrupt already arrived.
func (sm *SignalManager) CheckRace() {
	ctx := sm.Context()
	if ctx.Err() != nil {
		return
	}
	timer := time.NewTimer(raceWindow)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
