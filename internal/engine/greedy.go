package engine

import (
	"math"
	"sort"

	"github.com/hallplan/hallplan/internal/model"
)

// Greedy candidate scoring: positions hugging a wall beat interior ones, and
// true corners get a flat bonus.
const (
	greedyBase  = 10000.0
	cornerBonus = 5000.0
	cornerRange = 2000.0 // within this of two perpendicular walls counts as a corner
)

// greedySearch enumerates grid-stepped candidates in both rotations and
// accepts them best-score-first, keeping only placements the layout survives.
type greedySearch struct{}

func (greedySearch) strategy() model.Strategy { return model.StrategyGreedy }

func (greedySearch) generate(req *request) []model.Table {
	u := req.usable
	cfg := req.cfg
	step := 2 * cfg.GridSize
	if step <= 0 {
		step = 200
	}

	type candidate struct {
		table model.Table
		score float64
		dead  bool
	}

	var cands []candidate
	for _, rot := range []model.Rotation{model.Rotation0, model.Rotation90} {
		proto := model.Table{Width: cfg.TableWidth, Height: cfg.TableHeight, Rotation: rot}
		w, h := proto.PlacedWidth(), proto.PlacedHeight()
		for y := u.Y; y+h <= u.Bottom()+eps; y += step {
			for x := u.X; x+w <= u.Right()+eps; x += step {
				b := model.Rect{X: x, Y: y, Width: w, Height: h}
				cands = append(cands, candidate{
					table: model.NewTable(x, y, cfg.TableWidth, cfg.TableHeight, rot),
					score: greedyScore(b, req.bbox),
				})
			}
		}
	}

	// Stable sort keeps enumeration order on ties, so runs are deterministic.
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	p := newPlacer(req.v)
	for i := range cands {
		if cands[i].dead {
			continue
		}
		t := cands[i].table
		if !p.canPlace(t) {
			continue
		}
		p.place(t)

		// Cull candidates that now definitely collide with the accepted
		// table; anything overlapping its clearance zone can never validate.
		zone := t.Bounds().Inflate(req.clr.Table)
		for j := i + 1; j < len(cands); j++ {
			if !cands[j].dead && cands[j].table.Bounds().Intersects(zone) {
				cands[j].dead = true
			}
		}
	}
	return p.layout()
}

func greedyScore(b model.Rect, bbox model.Rect) float64 {
	dLeft := b.X - bbox.X
	dRight := bbox.Right() - b.Right()
	dTop := b.Y - bbox.Y
	dBottom := bbox.Bottom() - b.Bottom()

	score := greedyBase - math.Min(math.Min(dLeft, dRight), math.Min(dTop, dBottom))
	if math.Min(dLeft, dRight) <= cornerRange && math.Min(dTop, dBottom) <= cornerRange {
		score += cornerBonus
	}
	return score
}
