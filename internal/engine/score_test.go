package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallplan/hallplan/internal/model"
)

func TestLayoutScore_CountDominates(t *testing.T) {
	ragged := []model.Table{
		model.NewTable(0, 0, 1000, 500, model.Rotation0),
		model.NewTable(1000, 3333, 1000, 500, model.Rotation0),
		model.NewTable(5000, 9000, 1000, 500, model.Rotation90),
	}
	aligned := []model.Table{
		model.NewTable(0, 0, 1000, 500, model.Rotation0),
		model.NewTable(3000, 0, 1000, 500, model.Rotation0),
	}

	// Quality bonuses cap at 1000, one extra table is worth 10000.
	assert.Greater(t, layoutScore(ragged), layoutScore(aligned))
}

func TestLayoutScore_EmptyLayout(t *testing.T) {
	assert.Zero(t, layoutScore(nil))
}

func TestRegularity_PerfectGrid(t *testing.T) {
	var tables []model.Table
	for _, x := range []float64{0, 3000, 6000} {
		for _, y := range []float64{0, 4000} {
			tables = append(tables, model.NewTable(x, y, 1000, 500, model.Rotation0))
		}
	}

	assert.InDelta(t, 1.0, regularity(tables), 1e-9)
}

func TestRegularity_IrregularColumns(t *testing.T) {
	// x gaps 1000 and 4000: mean 2500, std 1500 → 0.4 on x; single row → 1
	// on y; averaged 0.7.
	tables := []model.Table{
		model.NewTable(0, 0, 500, 500, model.Rotation0),
		model.NewTable(1000, 0, 500, 500, model.Rotation0),
		model.NewTable(5000, 0, 500, 500, model.Rotation0),
	}

	assert.InDelta(t, 0.7, regularity(tables), 1e-9)
}

func TestRegularity_SingleTable(t *testing.T) {
	tables := []model.Table{model.NewTable(4000, 4000, 1000, 500, model.Rotation0)}

	assert.InDelta(t, 1.0, regularity(tables), 1e-9)
}

func TestCompactness_TwoTablesWithGap(t *testing.T) {
	// Footprint 2×1m² inside a 1×3m bounding box.
	tables := []model.Table{
		model.NewTable(0, 0, 1000, 1000, model.Rotation0),
		model.NewTable(0, 2000, 1000, 1000, model.Rotation0),
	}

	assert.InDelta(t, 2.0/3.0, compactness(tables), 1e-9)
}

func TestDistinctSorted(t *testing.T) {
	got := distinctSorted([]float64{5, 7, 5.0004, 5})

	assert.Equal(t, []float64{5, 7}, got)
}

func TestBoundsOf_MixedRotations(t *testing.T) {
	tables := []model.Table{
		model.NewTable(1000, 2000, 2850, 1550, model.Rotation0),
		model.NewTable(5000, 500, 2850, 1550, model.Rotation90),
	}

	b := boundsOf(tables)

	assert.Equal(t, model.Rect{X: 1000, Y: 500, Width: 5550, Height: 2850}, b)
}

func TestComputeStats(t *testing.T) {
	boundary := model.NewRectBoundary(0, 0, 10000, 10000)
	tables := []model.Table{
		model.NewTable(0, 0, 1000, 1000, model.Rotation0),
		model.NewTable(2000, 0, 1000, 1000, model.Rotation0),
	}

	stats := computeStats(tables, boundary)

	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 100.0, stats.TotalArea, 1e-9)
	assert.InDelta(t, 2.0, stats.UsedArea, 1e-9)
	assert.InDelta(t, 2.0, stats.SpaceUtilization, 1e-9)
	assert.InDelta(t, 1000.0, stats.AverageClearance, 1e-9)
}

func TestComputeStats_SingleTable(t *testing.T) {
	boundary := model.NewRectBoundary(0, 0, 10000, 10000)
	tables := []model.Table{model.NewTable(1500, 1500, 2850, 1550, model.Rotation0)}

	stats := computeStats(tables, boundary)

	assert.Equal(t, 1, stats.Count)
	assert.InDelta(t, 4.4175, stats.UsedArea, 1e-9)
	assert.Zero(t, stats.AverageClearance)
}
