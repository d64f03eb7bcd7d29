package sobel

import "sync"

// rowRange is a half-open span [start, end) of rows owned by one worker.
type rowRange struct {
	start, end int
}

// splitRows divides [start, end) into at most workers contiguous,
// non-overlapping ranges whose sizes differ by at most one row.
func splitRows(start, end, workers int) []rowRange {
	total := end - start
	if total <= 0 {
		return nil
	}
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	ranges := make([]rowRange, 0, workers)
	base, extra := total/workers, total%workers
	y := start
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		ranges = append(ranges, rowRange{start: y, end: y + size})
		y += size
	}
	return ranges
}

// parallelRows runs fn over [start, end) split across workers goroutines and
// blocks until every range is done. A single range runs on the caller's
// goroutine.
func parallelRows(start, end, workers int, fn func(start, end int)) {
	ranges := splitRows(start, end, workers)
	if len(ranges) == 1 {
		fn(ranges[0].start, ranges[0].end)
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(r rowRange) {
			defer wg.Done()
			fn(r.start, r.end)
		}(r)
	}
	wg.Wait()
}
