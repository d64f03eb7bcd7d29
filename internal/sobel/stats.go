package sobel

import "gonum.org/v1/gonum/stat"

// EdgeStats summarises the interior pixels of an edge-magnitude buffer.
type EdgeStats struct {
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	Max            uint8   `json:"max"`
	EdgeRatio      float64 `json:"edge_ratio"`
	Threshold      uint8   `json:"threshold"`
	InteriorPixels int     `json:"interior_pixels"`
}

// levels[i] == i for every magnitude; ComputeStats weights it with a
// histogram of interior samples.
var levels = func() []float64 {
	l := make([]float64, 256)
	for i := range l {
		l[i] = float64(i)
	}
	return l
}()

// ComputeStats reports mean, standard deviation and maximum magnitude over
// the interior of buf, plus the fraction of interior pixels at or above
// threshold. Buffers without interior pixels yield zero stats.
func ComputeStats(buf *Buffer, threshold uint8) EdgeStats {
	result := EdgeStats{Threshold: threshold}
	if buf.Validate() != nil || buf.Rows < 3 || buf.Cols < 3 {
		return result
	}

	counts := make([]float64, len(levels))
	for y := 1; y < buf.Rows-1; y++ {
		for _, v := range buf.Row(y)[1 : buf.Cols-1] {
			counts[v]++
		}
	}

	interior := (buf.Rows - 2) * (buf.Cols - 2)
	edges := 0
	for v, n := range counts {
		if n == 0 {
			continue
		}
		result.Max = uint8(v)
		if v >= int(threshold) {
			edges += int(n)
		}
	}

	result.InteriorPixels = interior
	result.Mean, result.StdDev = stat.MeanStdDev(levels, counts)
	if interior < 2 {
		result.StdDev = 0
	}
	result.EdgeRatio = float64(edges) / float64(interior)
	return result
}
