package engine

import (
	"math"

	"github.com/hallplan/hallplan/internal/model"
)

// regularGrid lays tables on a uniform grid anchored at the wall-inset
// corner. Both rotations and a two-band mixed split are tried; the highest
// count wins, ties favoring 0°.
type regularGrid struct{}

func (regularGrid) strategy() model.Strategy { return model.StrategyRegularGrid }

func (regularGrid) generate(req *request) []model.Table {
	best := gridFill(req, req.usable, model.Rotation0)
	for _, alt := range [][]model.Table{
		gridFill(req, req.usable, model.Rotation90),
		mixedBands(req),
	} {
		if len(alt) > len(best) {
			best = alt
		}
	}
	return best
}

// gridCapacity returns how many columns and rows of w×h cells, gap apart,
// fit inside area.
func gridCapacity(area model.Rect, w, h, gap float64) (cols, rows int) {
	if w <= 0 || h <= 0 || area.Width <= 0 || area.Height <= 0 {
		return 0, 0
	}
	cols = int(math.Floor((area.Width + gap + eps) / (w + gap)))
	rows = int(math.Floor((area.Height + gap + eps) / (h + gap)))
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

func gridFill(req *request, area model.Rect, rot model.Rotation) []model.Table {
	p := newPlacer(req.v)
	gridFillInto(p, req, area, rot)
	return p.layout()
}

// gridFillInto places a full grid of one rotation into area, skipping cells
// the validator rejects (obstacle in the way).
func gridFillInto(p *placer, req *request, area model.Rect, rot model.Rotation) {
	t := model.Table{Width: req.cfg.TableWidth, Height: req.cfg.TableHeight, Rotation: rot}
	w, h := t.PlacedWidth(), t.PlacedHeight()
	gap := req.clr.Table

	cols, rows := gridCapacity(area, w, h, gap)
	for row := 0; row < rows; row++ {
		y := area.Y + float64(row)*(h+gap)
		for col := 0; col < cols; col++ {
			x := area.X + float64(col)*(w+gap)
			cand := model.NewTable(x, y, req.cfg.TableWidth, req.cfg.TableHeight, rot)
			if p.canPlace(cand) {
				p.place(cand)
			}
		}
	}
}

// mixedBands splits the usable area at mid-height and fills the upper band at
// 0° and the lower at 90°. Helps when obstacles cluster in one half.
func mixedBands(req *request) []model.Table {
	u := req.usable
	gap := req.clr.Table
	bandH := u.Height/2 - gap/2
	if bandH <= eps {
		return nil
	}
	upper := model.Rect{X: u.X, Y: u.Y, Width: u.Width, Height: bandH}
	lower := model.Rect{X: u.X, Y: u.Y + u.Height/2 + gap/2, Width: u.Width, Height: bandH}

	p := newPlacer(req.v)
	gridFillInto(p, req, upper, model.Rotation0)
	gridFillInto(p, req, lower, model.Rotation90)
	return p.layout()
}
