package engine

import (
	"math"
	"sort"

	"github.com/hallplan/hallplan/internal/model"
)

// maxFreeRects caps fragmentation: beyond this many free rectangles the
// smallest are discarded, which conservatively forgets space but never
// produces an invalid placement.
const maxFreeRects = 512

// freeSpace maintains the maximal free rectangles over the usable area,
// MaxRects style. One instance lives for one strategy run.
type freeSpace struct {
	rects []model.Rect
}

// usableRect deflates the boundary bounding box inward by the wall clearance.
// ok is false when nothing remains.
func usableRect(bbox model.Rect, wall float64) (model.Rect, bool) {
	u := bbox.Inflate(-wall)
	if u.Width <= eps || u.Height <= eps {
		return model.Rect{}, false
	}
	return u, true
}

// newFreeSpace seeds the partitioner with the usable area minus the
// clearance-inflated obstacles.
func newFreeSpace(usable model.Rect, obstacles []model.Obstacle, obstacleClearance float64) *freeSpace {
	f := &freeSpace{rects: []model.Rect{usable}}
	for _, ob := range obstacles {
		f.subtract(ob.Bounds().Inflate(obstacleClearance))
	}
	return f
}

// subtract removes r from every intersecting free rectangle, emitting up to
// four slivers per split (left, right, top, bottom). Degenerate slivers are
// dropped, contained ones pruned.
func (f *freeSpace) subtract(r model.Rect) {
	var next []model.Rect
	for _, free := range f.rects {
		if !free.Intersects(r) {
			next = append(next, free)
			continue
		}
		if r.X > free.X+eps {
			next = append(next, model.Rect{
				X: free.X, Y: free.Y,
				Width: r.X - free.X, Height: free.Height,
			})
		}
		if r.Right() < free.Right()-eps {
			next = append(next, model.Rect{
				X: r.Right(), Y: free.Y,
				Width: free.Right() - r.Right(), Height: free.Height,
			})
		}
		if r.Y > free.Y+eps {
			next = append(next, model.Rect{
				X: free.X, Y: free.Y,
				Width: free.Width, Height: r.Y - free.Y,
			})
		}
		if r.Bottom() < free.Bottom()-eps {
			next = append(next, model.Rect{
				X: free.X, Y: r.Bottom(),
				Width: free.Width, Height: free.Bottom() - r.Bottom(),
			})
		}
	}
	f.rects = pruneContained(next)
	if len(f.rects) > maxFreeRects {
		sort.Slice(f.rects, func(i, j int) bool {
			return f.rects[i].Area() > f.rects[j].Area()
		})
		f.rects = f.rects[:maxFreeRects]
	}
}

// pruneContained removes any rectangle fully contained within another.
// Exact duplicates keep their first occurrence.
func pruneContained(rects []model.Rect) []model.Rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]model.Rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if containsRect(a, b) {
				if j < i {
					contained = true
					break
				}
				continue
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect reports whether outer fully contains inner, with tolerance.
func containsRect(outer, inner model.Rect) bool {
	return outer.X <= inner.X+eps && outer.Y <= inner.Y+eps &&
		outer.Right() >= inner.Right()-eps &&
		outer.Bottom() >= inner.Bottom()-eps
}

// bestCandidate returns the best anchor for a w×h footprint over all free
// rectangles. Each rectangle contributes five anchors (four corners and the
// center); the score is the candidate's minimum distance to the edges of its
// containing free rectangle, so flush placements win. Ties go to the first
// candidate found.
func (f *freeSpace) bestCandidate(w, h float64) (model.Point2D, float64, bool) {
	var best model.Point2D
	bestScore := math.MaxFloat64
	found := false

	for _, fr := range f.rects {
		if w > fr.Width+eps || h > fr.Height+eps {
			continue
		}
		anchors := [5]model.Point2D{
			{X: fr.X, Y: fr.Y},
			{X: fr.Right() - w, Y: fr.Y},
			{X: fr.X, Y: fr.Bottom() - h},
			{X: fr.Right() - w, Y: fr.Bottom() - h},
			{X: fr.X + (fr.Width-w)/2, Y: fr.Y + (fr.Height-h)/2},
		}
		for _, a := range anchors {
			score := math.Min(
				math.Min(a.X-fr.X, a.Y-fr.Y),
				math.Min(fr.Right()-(a.X+w), fr.Bottom()-(a.Y+h)),
			)
			if score < bestScore {
				bestScore = score
				best = a
				found = true
			}
		}
	}
	return best, bestScore, found
}

// bestPlacement picks the better rotation for the configured table size.
// Ties favor 0°.
func (f *freeSpace) bestPlacement(cfg model.Config) (model.Point2D, model.Rotation, bool) {
	p0, s0, ok0 := f.bestCandidate(cfg.TableWidth, cfg.TableHeight)
	p90, s90, ok90 := f.bestCandidate(cfg.TableHeight, cfg.TableWidth)
	switch {
	case ok0 && ok90:
		if s90 < s0 {
			return p90, model.Rotation90, true
		}
		return p0, model.Rotation0, true
	case ok0:
		return p0, model.Rotation0, true
	case ok90:
		return p90, model.Rotation90, true
	default:
		return model.Point2D{}, model.Rotation0, false
	}
}

// freeSpaceFill places tables by repeatedly taking the partitioner's best
// candidate, the canonical MaxRects greedy fill.
type freeSpaceFill struct{}

func (freeSpaceFill) strategy() model.Strategy { return model.StrategyFreeSpace }

func (freeSpaceFill) generate(req *request) []model.Table {
	fs := newFreeSpace(req.usable, req.obstacles, req.clr.Obstacle)
	p := newPlacer(req.v)

	for {
		pos, rot, ok := fs.bestPlacement(req.cfg)
		if !ok {
			break
		}
		t := model.NewTable(pos.X, pos.Y, req.cfg.TableWidth, req.cfg.TableHeight, rot)
		if p.canPlace(t) {
			p.place(t)
			fs.subtract(t.Bounds().Inflate(req.clr.Table))
		} else {
			// The bounding-box free-space model can propose spots a
			// non-rectangular boundary rejects. Carve them out and move on.
			fs.subtract(t.Bounds())
		}
	}
	return p.layout()
}
