// Package sobel computes Sobel gradient-magnitude images from 8-bit
// single-channel intensity buffers.
package sobel

import (
	"fmt"
	"math"
	"unsafe"
)

// Gx and Gy are the horizontal and vertical Sobel kernels.
var (
	Gx = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	Gy = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Filter returns a new buffer holding the edge magnitude of input. Border
// pixels of the result are zero.
func Filter(input *Buffer) (*Buffer, error) {
	output := &Buffer{}
	if err := FilterWithOptions(input, output, DefaultOptions()); err != nil {
		return nil, err
	}
	return output, nil
}

// FilterInto writes the edge magnitude of input into output, resizing output
// when its dimensions differ. Border pixels keep their previous values.
// output may share storage with input; the result is the same as for
// separate buffers.
func FilterInto(input, output *Buffer) error {
	return FilterWithOptions(input, output, DefaultOptions())
}

// FilterWithOptions is FilterInto with explicit options.
func FilterWithOptions(input, output *Buffer, opts Options) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if output == nil {
		return fmt.Errorf("%w: nil output buffer", ErrAllocation)
	}
	if !input.SameSize(output) || len(output.Pix) != input.Rows*input.Cols {
		pix, err := allocate(input.Rows, input.Cols, opts.MaxPixels)
		if err != nil {
			return err
		}
		output.Rows, output.Cols, output.Pix = input.Rows, input.Cols, pix
	}

	if input.Rows < 3 || input.Cols < 3 {
		return nil
	}

	// An output sharing storage with input would overwrite rows that
	// neighbouring rows still read, so it gets a scratch buffer.
	dst := output
	if overlaps(input.Pix, output.Pix) {
		pix, err := allocate(input.Rows, input.Cols, opts.MaxPixels)
		if err != nil {
			return err
		}
		dst = &Buffer{Rows: input.Rows, Cols: input.Cols, Pix: pix}
	}

	workers := opts.EffectiveWorkers(input.Rows)
	parallelRows(1, input.Rows-1, workers, func(start, end int) {
		filterRows(input, dst, start, end)
	})

	if dst != output {
		cols := input.Cols
		for y := 1; y < input.Rows-1; y++ {
			copy(output.Row(y)[1:cols-1], dst.Row(y)[1:cols-1])
		}
	}
	return nil
}

// overlaps reports whether a and b share any backing bytes.
func overlaps(a, b []uint8) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return aStart < bStart+uintptr(len(b)) && bStart < aStart+uintptr(len(a))
}

// filterRows computes interior pixels for rows [start, end). It only reads
// input and only writes rows of output in its range.
func filterRows(input, output *Buffer, start, end int) {
	cols := input.Cols
	for y := start; y < end; y++ {
		above := input.Row(y - 1)
		row := input.Row(y)
		below := input.Row(y + 1)
		dst := output.Row(y)

		for x := 1; x < cols-1; x++ {
			sumX, sumY := 0, 0
			for kx := -1; kx <= 1; kx++ {
				a, m, b := int(above[x+kx]), int(row[x+kx]), int(below[x+kx])
				sumX += a*Gx[0][kx+1] + m*Gx[1][kx+1] + b*Gx[2][kx+1]
				sumY += a*Gy[0][kx+1] + m*Gy[1][kx+1] + b*Gy[2][kx+1]
			}
			dst[x] = magnitude(sumX, sumY)
		}
	}
}

// magnitude returns min(255, floor(sqrt(sx²+sy²))).
func magnitude(sx, sy int) uint8 {
	m := int(math.Sqrt(float64(sx*sx + sy*sy)))
	if m > 255 {
		return 255
	}
	return uint8(m)
}
