package sobel

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyInput indicates a nil buffer or one with no rows or columns
	ErrEmptyInput = errors.New("empty input buffer")

	// ErrMalformedBuffer indicates a buffer whose pixel slice does not match its dimensions
	ErrMalformedBuffer = errors.New("malformed buffer")

	// ErrAllocation indicates the output buffer could not be sized to match the input
	ErrAllocation = errors.New("output allocation failed")
)

// DefaultMaxPixels bounds a single allocation (256 Mpx, one byte each)
const DefaultMaxPixels = 1 << 28

// Buffer is a row-major grid of 8-bit intensity samples, one byte per pixel.
type Buffer struct {
	Rows int
	Cols int
	Pix  []uint8
}

// NewBuffer allocates a zero-filled buffer of the given dimensions.
func NewBuffer(rows, cols int) (*Buffer, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyInput, cols, rows)
	}
	pix, err := allocate(rows, cols, DefaultMaxPixels)
	if err != nil {
		return nil, err
	}
	return &Buffer{Rows: rows, Cols: cols, Pix: pix}, nil
}

// At returns the sample at row y, column x.
func (b *Buffer) At(y, x int) uint8 {
	return b.Pix[y*b.Cols+x]
}

// Set stores v at row y, column x.
func (b *Buffer) Set(y, x int, v uint8) {
	b.Pix[y*b.Cols+x] = v
}

// Row returns the samples of row y, sharing storage with the buffer.
func (b *Buffer) Row(y int) []uint8 {
	return b.Pix[y*b.Cols : (y+1)*b.Cols]
}

// SameSize reports whether b and other have identical dimensions.
func (b *Buffer) SameSize(other *Buffer) bool {
	return b != nil && other != nil && b.Rows == other.Rows && b.Cols == other.Cols
}

// Validate checks that the buffer is non-empty and internally consistent.
func (b *Buffer) Validate() error {
	if b == nil || b.Rows < 1 || b.Cols < 1 {
		return ErrEmptyInput
	}
	if b.Rows > math.MaxInt/b.Cols || len(b.Pix) != b.Rows*b.Cols {
		return fmt.Errorf("%w: %dx%d with %d samples", ErrMalformedBuffer, b.Cols, b.Rows, len(b.Pix))
	}
	return nil
}

// allocate returns a zeroed slice of rows*cols bytes. Runtime allocation
// panics are reported as ErrAllocation instead of crashing the caller.
func allocate(rows, cols, maxPixels int) (pix []uint8, err error) {
	if rows > math.MaxInt/cols {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrAllocation, cols, rows)
	}
	n := rows * cols
	if maxPixels > 0 && n > maxPixels {
		return nil, fmt.Errorf("%w: %d pixels exceeds limit of %d", ErrAllocation, n, maxPixels)
	}

	defer func() {
		if r := recover(); r != nil {
			pix = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	return make([]uint8, n), nil
}
