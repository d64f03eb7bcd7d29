package sobel

// Options configures a single filter call.
type Options struct {
	// Workers overrides the process-wide ThreadConfig when positive
	Workers int

	// MaxPixels caps the output allocation; zero or less disables the cap
	MaxPixels int
}

// DefaultOptions reads the worker count from the process-wide ThreadConfig
// and caps allocations at DefaultMaxPixels.
func DefaultOptions() Options {
	return Options{
		Workers:   0,
		MaxPixels: DefaultMaxPixels,
	}
}

// WithWorkers returns options pinned to n workers
func (opts Options) WithWorkers(n int) Options {
	opts.Workers = n
	return opts
}

// WithMaxPixels returns options with a different allocation cap
func (opts Options) WithMaxPixels(n int) Options {
	opts.MaxPixels = n
	return opts
}

// WithThreadConfig returns options pinned to the current value of tc
func (opts Options) WithThreadConfig(tc *ThreadConfig) Options {
	opts.Workers = tc.Get()
	return opts
}

func (opts Options) requestedWorkers() int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return GetThreads()
}

// EffectiveWorkers reports how many goroutines a filter call over an image
// with the given number of rows would use.
func (opts Options) EffectiveWorkers(rows int) int {
	if rows < 3 {
		return 1
	}
	return effectiveWorkers(opts.requestedWorkers(), rows-2)
}
