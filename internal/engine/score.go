package engine

import (
	"math"
	"sort"

	"github.com/hallplan/hallplan/internal/model"
)

// Score weights. Count dominates: quality metrics only break ties between
// layouts of equal size.
const (
	countWeight       = 10000.0
	regularityWeight  = 500.0
	compactnessWeight = 500.0
)

// layoutScore ranks candidate layouts for selection.
func layoutScore(tables []model.Table) float64 {
	if len(tables) == 0 {
		return 0
	}
	return countWeight*float64(len(tables)) +
		regularityWeight*regularity(tables) +
		compactnessWeight*compactness(tables)
}

// regularity rewards row/column alignment: 1 − std/mean of the gaps between
// distinct sorted coordinates, averaged over both axes. Fewer than two
// distinct coordinates on an axis counts as perfectly aligned.
func regularity(tables []model.Table) float64 {
	if len(tables) < 2 {
		return 1
	}
	xs := make([]float64, len(tables))
	ys := make([]float64, len(tables))
	for i, t := range tables {
		xs[i] = t.X
		ys[i] = t.Y
	}
	return (axisRegularity(xs) + axisRegularity(ys)) / 2
}

func axisRegularity(coords []float64) float64 {
	distinct := distinctSorted(coords)
	if len(distinct) < 2 {
		return 1
	}
	gaps := make([]float64, len(distinct)-1)
	var mean float64
	for i := 1; i < len(distinct); i++ {
		gaps[i-1] = distinct[i] - distinct[i-1]
		mean += gaps[i-1]
	}
	mean /= float64(len(gaps))
	if mean <= 0 {
		return 1
	}
	var variance float64
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gaps))
	r := 1 - math.Sqrt(variance)/mean
	if r < 0 {
		return 0
	}
	return r
}

// distinctSorted sorts and merges coordinates within eps of each other.
func distinctSorted(coords []float64) []float64 {
	sorted := append([]float64(nil), coords...)
	sort.Float64s(sorted)
	out := sorted[:0]
	for _, c := range sorted {
		if len(out) == 0 || c-out[len(out)-1] > eps {
			out = append(out, c)
		}
	}
	return out
}

// compactness is the total table footprint over the layout bounding-box area.
func compactness(tables []model.Table) float64 {
	if len(tables) == 0 {
		return 0
	}
	bounds := boundsOf(tables)
	if bounds.Area() <= 0 {
		return 0
	}
	var footprint float64
	for _, t := range tables {
		footprint += t.Bounds().Area()
	}
	return footprint / bounds.Area()
}

// boundsOf returns the union bounding box of all table footprints.
func boundsOf(tables []model.Table) model.Rect {
	if len(tables) == 0 {
		return model.Rect{}
	}
	b := tables[0].Bounds()
	minX, minY := b.X, b.Y
	maxX, maxY := b.Right(), b.Bottom()
	for _, t := range tables[1:] {
		tb := t.Bounds()
		minX = math.Min(minX, tb.X)
		minY = math.Min(minY, tb.Y)
		maxX = math.Max(maxX, tb.Right())
		maxY = math.Max(maxY, tb.Bottom())
	}
	return model.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// computeStats summarizes a layout against its venue. Areas are reported in
// m², utilization as a percentage, clearance as the mean pairwise gap in mm.
func computeStats(tables []model.Table, boundary model.Boundary) model.Stats {
	stats := model.Stats{
		Count:     len(tables),
		TotalArea: boundary.Area() / 1e6,
	}
	var footprint float64
	for _, t := range tables {
		footprint += t.Bounds().Area()
	}
	stats.UsedArea = footprint / 1e6
	if stats.TotalArea > 0 {
		stats.SpaceUtilization = stats.UsedArea / stats.TotalArea * 100
	}

	if len(tables) >= 2 {
		var sum float64
		var pairs int
		for i := 0; i < len(tables); i++ {
			for j := i + 1; j < len(tables); j++ {
				sum += tables[i].Bounds().DistanceTo(tables[j].Bounds())
				pairs++
			}
		}
		stats.AverageClearance = sum / float64(pairs)
	}
	return stats
}
