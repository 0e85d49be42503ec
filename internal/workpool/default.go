package workpool

import (
	"log/slog"
	"sync"
)

var (
	defaultMu   sync.Mutex
	defaultPool *Pool
)

// Default returns the process-wide pool, creating it on first use.
func Default() *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultPool == nil {
		defaultPool = New(0, slog.Default())
	}
	return defaultPool
}

// Init creates the process-wide pool if it does not exist yet.
func Init() { Default() }

// Terminate closes the process-wide pool. It is idempotent; a later call to
// Default creates a fresh pool.
func Terminate() {
	defaultMu.Lock()
	p := defaultPool
	defaultPool = nil
	defaultMu.Unlock()

	if p != nil {
		p.Close(DefaultCloseTimeout)
	}
}
