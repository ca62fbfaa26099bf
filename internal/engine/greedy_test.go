package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallplan/hallplan/internal/model"
)

func TestGreedyScore_CornerBeatsCenter(t *testing.T) {
	bbox := model.Rect{X: 0, Y: 0, Width: 10000, Height: 10000}

	corner := greedyScore(model.Rect{X: 1500, Y: 1500, Width: 2850, Height: 1550}, bbox)
	center := greedyScore(model.Rect{X: 3575, Y: 4225, Width: 2850, Height: 1550}, bbox)

	// Corner: 1500 from two walls → 10000−1500+5000.
	assert.InDelta(t, 13500.0, corner, eps)
	assert.Greater(t, corner, center)
}

func TestGreedyScore_WallHugWithoutCorner(t *testing.T) {
	bbox := model.Rect{X: 0, Y: 0, Width: 10000, Height: 10000}

	// 1500 off the left wall but 4000+ from top and bottom: no corner bonus.
	score := greedyScore(model.Rect{X: 1500, Y: 4225, Width: 2850, Height: 1550}, bbox)

	assert.InDelta(t, greedyBase-1500.0, score, eps)
}

func TestGreedySearch_FillsBilliardHall(t *testing.T) {
	req := testRequest(t, model.NewRectBoundary(0, 0, 10000, 15000), nil, billiardConfig())

	tables := greedySearch{}.generate(req)

	// Corner-first acceptance guarantees at least the four corners.
	assert.GreaterOrEqual(t, len(tables), 4)
	ok, violations := req.v.Validate(tables)
	assert.True(t, ok, "violations: %+v", violations)
}

func TestGreedySearch_Deterministic(t *testing.T) {
	boundary := model.NewRectBoundary(0, 0, 10000, 15000)
	obstacles := []model.Obstacle{{ID: "pillar", X: 3000, Y: 4000, Width: 1000, Height: 1000}}

	first := greedySearch{}.generate(testRequest(t, boundary, obstacles, billiardConfig()))
	second := greedySearch{}.generate(testRequest(t, boundary, obstacles, billiardConfig()))

	assert.Equal(t, placements(first), placements(second))
}

func TestGreedySearch_RespectsObstacles(t *testing.T) {
	obstacles := []model.Obstacle{{ID: "pillar", X: 4000, Y: 6000, Width: 1500, Height: 1500}}
	req := testRequest(t, model.NewRectBoundary(0, 0, 10000, 15000), obstacles, billiardConfig())

	tables := greedySearch{}.generate(req)

	require.NotEmpty(t, tables)
	for _, tab := range tables {
		d := tab.Bounds().DistanceTo(obstacles[0].Bounds())
		assert.GreaterOrEqual(t, d, 1500.0-eps, "table %s too close to pillar", tab.ID)
	}
	ok, violations := req.v.Validate(tables)
	assert.True(t, ok, "violations: %+v", violations)
}
