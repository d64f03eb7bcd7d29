package capture

import "time"

// FPSCounter measures frame rate over windows of at least one second
type FPSCounter struct {
	now    func() time.Time
	start  time.Time
	frames int
}

// NewFPSCounter starts a counter at the current time
func NewFPSCounter() *FPSCounter {
	return newFPSCounter(time.Now)
}

func newFPSCounter(now func() time.Time) *FPSCounter {
	return &FPSCounter{now: now, start: now()}
}

// Tick records a frame. Once a second or more has elapsed since the window
// opened it returns the rate for that window and opens a new one.
func (f *FPSCounter) Tick() (float64, bool) {
	f.frames++
	current := f.now()
	elapsed := current.Sub(f.start)
	if elapsed < time.Second {
		return 0, false
	}

	fps := float64(f.frames) / elapsed.Seconds()
	f.frames = 0
	f.start = current
	return fps, true
}
