package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hallplan/hallplan/internal/model"
)

// StrategyReport holds one strategy's outcome for side-by-side comparison.
type StrategyReport struct {
	Strategy model.Strategy `json:"strategy"`
	Count    int            `json:"count"`
	Score    float64        `json:"score"`
	Stats    model.Stats    `json:"stats"`
	Elapsed  time.Duration  `json:"elapsed"`
	Warnings []string       `json:"warnings,omitempty"`
}

// CompareStrategies runs every placement strategy on the same venue and
// returns the reports in menu order, best marked by the highest score. Each
// strategy goes through the full pipeline, refinement included, so the
// numbers match what a forced single-strategy run would produce.
func (o *Optimizer) CompareStrategies(ctx context.Context, boundary model.Boundary, obstacles []model.Obstacle, cfg model.Config) ([]StrategyReport, error) {
	strategies := []model.Strategy{
		model.StrategyRegularGrid,
		model.StrategyObstacleAware,
		model.StrategyGreedy,
		model.StrategyFreeSpace,
		model.StrategyLargeVenue,
	}

	reports := make([]StrategyReport, 0, len(strategies))
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return reports, fmt.Errorf("compare strategies: %w", err)
		}
		forced := cfg
		forced.Strategy = s
		res, err := o.Optimize(ctx, boundary, obstacles, forced)
		if err != nil {
			return reports, fmt.Errorf("compare strategies: %s: %w", s, err)
		}
		reports = append(reports, StrategyReport{
			Strategy: s,
			Count:    res.Stats.Count,
			Score:    layoutScore(res.Tables),
			Stats:    res.Stats,
			Elapsed:  res.Elapsed,
			Warnings: res.Warnings,
		})
	}
	return reports, nil
}

// BestReport returns the index of the highest-scoring report, ties going to
// the earliest entry.
func BestReport(reports []StrategyReport) int {
	best, bestScore := 0, -1.0
	for i, r := range reports {
		if r.Score > bestScore {
			best, bestScore = i, r.Score
		}
	}
	return best
}
