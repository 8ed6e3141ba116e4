//go:build unix

package runner

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalManager_InterruptCancelsAndRearms(t *testing.T) {
	sm := NewSignalManager()
	defer sm.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	select {
	case <-sm.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("interrupt not observed")
	}

	start := time.Now()
	sm.CheckRace()
	assert.Less(t, time.Since(start), raceWindow, "no wait once interrupted")

	sm.Reset()
	assert.NoError(t, sm.Context().Err())
}
