package sobel

import (
	"runtime"
	"sync/atomic"
)

// DefaultThreads is the worker count at process start.
const DefaultThreads = 1

// ThreadConfig holds the requested number of filter workers. The zero value
// is not usable; create one with NewThreadConfig.
type ThreadConfig struct {
	n atomic.Int64
}

// NewThreadConfig returns a config initialised to DefaultThreads.
func NewThreadConfig() *ThreadConfig {
	tc := &ThreadConfig{}
	tc.n.Store(DefaultThreads)
	return tc
}

// Set records n as the requested worker count. Non-positive requests are
// ignored so the stored value always stays positive.
func (tc *ThreadConfig) Set(n int) {
	if n <= 0 {
		return
	}
	tc.n.Store(int64(n))
}

// Get returns the requested worker count.
func (tc *ThreadConfig) Get() int {
	return int(tc.n.Load())
}

var processThreads = NewThreadConfig()

// SetThreads updates the process-wide worker count used by Filter and
// FilterInto. It never fails; see ThreadConfig.Set for the guard.
func SetThreads(n int) {
	processThreads.Set(n)
}

// GetThreads returns the process-wide worker count.
func GetThreads() int {
	return processThreads.Get()
}

// MaxWorkers is the hardware-derived ceiling on workers per call.
func MaxWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// effectiveWorkers clamps requested to [1, MaxWorkers()] and to the number
// of rows available to split.
func effectiveWorkers(requested, rows int) int {
	workers := requested
	if ceiling := MaxWorkers(); workers > ceiling {
		workers = ceiling
	}
	if workers > rows {
		workers = rows
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
