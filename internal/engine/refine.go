package engine

import (
	"math"
	"math/rand"

	"github.com/hallplan/hallplan/internal/model"
)

// refineSteps are the gap-fill scan resolutions, coarse to fine. The coarse
// passes grab the obvious holes cheaply; the fine ones squeeze the remainder.
var refineSteps = []float64{200, 100, 50, 25}

// Local search tuning.
const (
	searchIterations = 15
	compressEvery    = 3 // compact toward the centroid every Nth iteration
	compressStep     = 50.0
	refillAttempts   = 5
	refillFraction   = 0.2
)

// probeSteps are the per-table nudge distances tried by the local search.
var probeSteps = []float64{50, 100, 200}

// exhaustiveRefine rescans the free space at progressively finer steps and
// appends every position that keeps the layout valid. Existing tables are
// never moved or removed, so the count can only grow.
func exhaustiveRefine(req *request, tables []model.Table) []model.Table {
	p := newPlacerWith(req.v, tables)
	u := req.usable
	for _, step := range refineSteps {
		for _, rot := range []model.Rotation{model.Rotation0, model.Rotation90} {
			proto := model.Table{Width: req.cfg.TableWidth, Height: req.cfg.TableHeight, Rotation: rot}
			w, h := proto.PlacedWidth(), proto.PlacedHeight()
			for y := u.Y; y+h <= u.Bottom()+eps; y += step {
				for x := u.X; x+w <= u.Right()+eps; x += step {
					cand := model.NewTable(x, y, req.cfg.TableWidth, req.cfg.TableHeight, rot)
					if p.canPlace(cand) {
						p.place(cand)
					}
				}
			}
		}
	}
	return p.layout()
}

// localSearch improves a layout by per-table nudges and rotation flips that
// keep it valid and raise its score, with periodic compression toward the
// centroid and a few remove-and-refill shakes at the end. The returned layout
// never scores below the input, so the table count never drops.
func localSearch(req *request, tables []model.Table) []model.Table {
	if len(tables) == 0 {
		return tables
	}
	rng := rand.New(rand.NewSource(int64(req.seed)))
	cur := append([]model.Table(nil), tables...)
	curScore := layoutScore(cur)

	for it := 0; it < searchIterations; it++ {
		for _, i := range rng.Perm(len(cur)) {
			if moved, sc, ok := bestProbe(req, cur, i, curScore); ok {
				cur[i] = moved
				curScore = sc
			}
		}
		if (it+1)%compressEvery == 0 {
			compress(req, cur)
			curScore = layoutScore(cur)
		}
	}

	cur = refillShake(req, rng, cur)
	balanceMargins(req, cur)
	return cur
}

// bestProbe tries translated and rotated variants of table i and returns the
// first one that validates and improves the layout score.
func bestProbe(req *request, cur []model.Table, i int, curScore float64) (model.Table, float64, bool) {
	for _, s := range probeSteps {
		for _, dx := range []float64{-s, 0, s} {
			for _, dy := range []float64{-s, 0, s} {
				if dx == 0 && dy == 0 {
					continue
				}
				cand := cur[i]
				cand.X += dx
				cand.Y += dy
				if sc, ok := tryMove(req, cur, i, cand, curScore); ok {
					return cand, sc, true
				}
			}
		}
	}

	flipped := cur[i]
	flipped.Rotation = flipped.Rotation.Flipped()
	if sc, ok := tryMove(req, cur, i, flipped, curScore); ok {
		return flipped, sc, true
	}
	return model.Table{}, 0, false
}

// tryMove validates cand as a replacement for cur[i] and scores the would-be
// layout, leaving cur untouched.
func tryMove(req *request, cur []model.Table, i int, cand model.Table, curScore float64) (float64, bool) {
	if !req.v.checkMove(cur, i, cand) {
		return 0, false
	}
	old := cur[i]
	cur[i] = cand
	sc := layoutScore(cur)
	cur[i] = old
	if sc > curScore+1e-9 {
		return sc, true
	}
	return 0, false
}

// compress nudges tables toward the layout centroid, innermost first, taking
// any combined, x-only, or y-only step that still validates. Tightening the
// cluster frees contiguous space at the edges for the next refill pass.
func compress(req *request, cur []model.Table) {
	var cx, cy float64
	idx := NewSpatialIndex(defaultCellSize)
	for i, t := range cur {
		c := t.Bounds().Center()
		cx += c.X
		cy += c.Y
		idx.Insert(i, t.Bounds())
	}
	centroid := model.Point2D{X: cx / float64(len(cur)), Y: cy / float64(len(cur))}

	for _, i := range idx.QueryNearest(centroid, len(cur)) {
		c := cur[i].Bounds().Center()
		var dx, dy float64
		if centroid.X-c.X > compressStep {
			dx = compressStep
		} else if c.X-centroid.X > compressStep {
			dx = -compressStep
		}
		if centroid.Y-c.Y > compressStep {
			dy = compressStep
		} else if c.Y-centroid.Y > compressStep {
			dy = -compressStep
		}
		if dx == 0 && dy == 0 {
			continue
		}
		for _, d := range [][2]float64{{dx, dy}, {dx, 0}, {0, dy}} {
			if d[0] == 0 && d[1] == 0 {
				continue
			}
			cand := cur[i]
			cand.X += d[0]
			cand.Y += d[1]
			if req.v.checkMove(cur, i, cand) {
				cur[i] = cand
				break
			}
		}
	}
}

// refillShake removes a random fifth of the layout and refills the freed
// space, keeping the result only when it scores better.
func refillShake(req *request, rng *rand.Rand, cur []model.Table) []model.Table {
	best := cur
	bestScore := layoutScore(best)
	for a := 0; a < refillAttempts; a++ {
		if len(best) == 0 {
			break
		}
		n := int(float64(len(best)) * refillFraction)
		if n < 1 {
			n = 1
		}
		drop := make(map[int]bool, n)
		for _, i := range rng.Perm(len(best))[:n] {
			drop[i] = true
		}
		kept := make([]model.Table, 0, len(best)-n)
		for i, t := range best {
			if !drop[i] {
				kept = append(kept, t)
			}
		}
		trial := exhaustiveRefine(req, kept)
		if sc := layoutScore(trial); sc > bestScore {
			best = trial
			bestScore = sc
		}
	}
	return best
}

// balanceMargins shifts the whole layout so the leftover margins even out,
// one axis at a time. Shifting everything together preserves every pairwise
// gap, so only the wall and obstacle clearances need revalidating; the first
// ratio of the ideal shift that validates wins.
func balanceMargins(req *request, cur []model.Table) {
	if len(cur) == 0 {
		return
	}
	ratios := []float64{1.0, 0.8, 0.6, 0.4, 0.2}

	b := boundsOf(cur)
	idealX := ((req.bbox.Right() - b.Right()) - (b.X - req.bbox.X)) / 2
	if math.Abs(idealX) > 1 {
		for _, r := range ratios {
			if shifted, ok := shiftAll(req, cur, idealX*r, 0); ok {
				copy(cur, shifted)
				break
			}
		}
	}

	b = boundsOf(cur)
	idealY := ((req.bbox.Bottom() - b.Bottom()) - (b.Y - req.bbox.Y)) / 2
	if math.Abs(idealY) > 1 {
		for _, r := range ratios {
			if shifted, ok := shiftAll(req, cur, 0, idealY*r); ok {
				copy(cur, shifted)
				break
			}
		}
	}
}

func shiftAll(req *request, tables []model.Table, dx, dy float64) ([]model.Table, bool) {
	shifted := make([]model.Table, len(tables))
	for i, t := range tables {
		t.X += dx
		t.Y += dy
		if !req.v.checkBounds(t.Bounds()) {
			return nil, false
		}
		shifted[i] = t
	}
	return shifted, true
}
