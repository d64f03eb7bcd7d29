package sobel

import (
	"sync/atomic"
	"testing"
)

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		workers    int
		expected   []rowRange
	}{
		{name: "Empty span", start: 1, end: 1, workers: 4, expected: nil},
		{name: "Single worker", start: 1, end: 5, workers: 1, expected: []rowRange{{1, 5}}},
		{name: "Even split", start: 0, end: 6, workers: 3, expected: []rowRange{{0, 2}, {2, 4}, {4, 6}}},
		{name: "Uneven split front-loads", start: 1, end: 8, workers: 3, expected: []rowRange{{1, 4}, {4, 6}, {6, 8}}},
		{name: "More workers than rows", start: 1, end: 3, workers: 8, expected: []rowRange{{1, 2}, {2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitRows(tt.start, tt.end, tt.workers)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d ranges, got %d (%v)", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Range %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestParallelRows_CoversEveryRowOnce(t *testing.T) {
	const start, end = 1, 101
	var hits [end]int32

	parallelRows(start, end, 7, func(s, e int) {
		for y := s; y < e; y++ {
			atomic.AddInt32(&hits[y], 1)
		}
	})

	for y := start; y < end; y++ {
		if hits[y] != 1 {
			t.Errorf("Row %d visited %d times", y, hits[y])
		}
	}
	if hits[0] != 0 {
		t.Error("Row outside the span was visited")
	}
}
