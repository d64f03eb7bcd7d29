package sobel

import (
	"sync"
	"testing"
)

func TestNewThreadConfig_Default(t *testing.T) {
	tc := NewThreadConfig()
	if got := tc.Get(); got != DefaultThreads {
		t.Errorf("Expected default of %d, got %d", DefaultThreads, got)
	}
}

func TestThreadConfig_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		calls    []int
		expected int
	}{
		{name: "Zero as very first call keeps default", calls: []int{0}, expected: 1},
		{name: "Negative as very first call keeps default", calls: []int{-3}, expected: 1},
		{name: "Zero after four keeps four", calls: []int{4, 0}, expected: 4},
		{name: "Negative after four keeps four", calls: []int{4, -1}, expected: 4},
		{name: "Positive values replace each other", calls: []int{4, 2, 7}, expected: 7},
		{name: "Repeated invalid values never reach zero", calls: []int{3, 0, 0, -5, 0}, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewThreadConfig()
			for _, n := range tt.calls {
				tc.Set(n)
			}
			if got := tc.Get(); got != tt.expected {
				t.Errorf("Expected %d threads after %v, got %d", tt.expected, tt.calls, got)
			}
		})
	}
}

func TestSetThreads_ProcessWide(t *testing.T) {
	defer SetThreads(GetThreads())

	SetThreads(4)
	SetThreads(0)
	if got := GetThreads(); got != 4 {
		t.Errorf("Expected 4 threads, got %d", got)
	}

	SetThreads(2)
	if got := GetThreads(); got != 2 {
		t.Errorf("Expected 2 threads, got %d", got)
	}
}

func TestThreadConfig_ConcurrentAccess(t *testing.T) {
	tc := NewThreadConfig()
	var wg sync.WaitGroup

	for i := 1; i <= 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			tc.Set(n)
		}(i)
		go func() {
			defer wg.Done()
			if got := tc.Get(); got < 1 || got > 8 {
				t.Errorf("Observed out of range value %d", got)
			}
		}()
	}
	wg.Wait()
}

func TestEffectiveWorkers(t *testing.T) {
	ceiling := MaxWorkers()

	tests := []struct {
		name      string
		requested int
		rows      int
		expected  int
	}{
		{name: "Non-positive request clamps to one", requested: 0, rows: 100, expected: 1},
		{name: "Single worker", requested: 1, rows: 100, expected: 1},
		{name: "Capped by rows", requested: ceiling + 10, rows: 1, expected: 1},
		{name: "Capped by hardware", requested: ceiling + 10, rows: ceiling + 100, expected: ceiling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveWorkers(tt.requested, tt.rows); got != tt.expected {
				t.Errorf("effectiveWorkers(%d, %d) = %d, want %d", tt.requested, tt.rows, got, tt.expected)
			}
		})
	}
}

func TestOptions_Chaining(t *testing.T) {
	tc := NewThreadConfig()
	tc.Set(6)

	opts := DefaultOptions().WithMaxPixels(100).WithThreadConfig(tc)
	if opts.Workers != 6 {
		t.Errorf("Expected 6 workers, got %d", opts.Workers)
	}
	if opts.MaxPixels != 100 {
		t.Errorf("Expected MaxPixels 100, got %d", opts.MaxPixels)
	}

	if got := DefaultOptions().WithWorkers(3).requestedWorkers(); got != 3 {
		t.Errorf("Expected explicit workers to win, got %d", got)
	}
}
