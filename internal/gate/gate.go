// Package gate provides the single-flight admission latch that allows at most
// one photo job per bot process. Excess jobs are dropped, never queued.
package gate

import "sync"

// Gate is a two-state latch (idle/busy). The zero value is idle and ready to
// use.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

// New returns an idle gate.
func New() *Gate {
	return &Gate{}
}

// TryAcquire moves the gate from idle to busy and reports success. While busy
// it returns false without altering state; the caller must drop the job.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release moves the gate back to idle. Releasing an idle gate is a no-op, so
// callers can defer Release on every exit path without tracking state.
func (g *Gate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
