package engine

import (
	"math"
	"sort"

	"github.com/hallplan/hallplan/internal/model"
)

// obstacleAware sweeps rows from the top wall inset and fills the unblocked
// x intervals of each row, turning tables upright when an interval is too
// narrow for the flat orientation.
type obstacleAware struct{}

func (obstacleAware) strategy() model.Strategy { return model.StrategyObstacleAware }

func (obstacleAware) generate(req *request) []model.Table {
	u := req.usable
	cfg := req.cfg
	w, h := cfg.TableWidth, cfg.TableHeight
	altW := cfg.TableHeight // upright width
	gap := req.clr.Table
	step := cfg.GridSize

	inflated := make([]model.Rect, len(req.obstacles))
	for i, ob := range req.obstacles {
		inflated[i] = ob.Bounds().Inflate(req.clr.Obstacle)
	}

	p := newPlacer(req.v)
	for y := u.Y; y+math.Min(h, w) <= u.Bottom()+eps; {
		rowPlaced := false
		for _, iv := range unblockedIntervals(u.X, u.Right(), y, y+h, inflated) {
			rot := model.Rotation0
			tw := w
			if iv.hi-iv.lo+eps < w {
				if iv.hi-iv.lo+eps < altW {
					continue
				}
				rot, tw = model.Rotation90, altW
			}
			for x := iv.lo; x+tw <= iv.hi+eps; {
				cand := model.NewTable(x, y, cfg.TableWidth, cfg.TableHeight, rot)
				if p.canPlace(cand) {
					p.place(cand)
					x += tw + gap
					rowPlaced = true
				} else {
					x += step / 2
				}
			}
		}
		if rowPlaced {
			y += h + gap
		} else {
			y += step
		}
	}

	tables := p.layout()
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Y != tables[j].Y {
			return tables[i].Y < tables[j].Y
		}
		return tables[i].X < tables[j].X
	})
	return tables
}

type interval struct {
	lo, hi float64
}

// unblockedIntervals returns the maximal x ranges of [x0,x1] not covered by
// any inflated obstacle that overlaps the row band [y0,y1].
func unblockedIntervals(x0, x1, y0, y1 float64, obstacles []model.Rect) []interval {
	blocked := make([]interval, 0, len(obstacles))
	for _, ob := range obstacles {
		if ob.Y < y1 && ob.Bottom() > y0 {
			lo := math.Max(x0, ob.X)
			hi := math.Min(x1, ob.Right())
			if lo < hi {
				blocked = append(blocked, interval{lo, hi})
			}
		}
	}
	if len(blocked) == 0 {
		return []interval{{x0, x1}}
	}
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].lo < blocked[j].lo })

	var out []interval
	cur := x0
	for _, b := range blocked {
		if b.lo > cur {
			out = append(out, interval{cur, b.lo})
		}
		if b.hi > cur {
			cur = b.hi
		}
	}
	if cur < x1 {
		out = append(out, interval{cur, x1})
	}
	return out
}
