package engine

import "github.com/hallplan/hallplan/internal/model"

// Area thresholds for the degraded large-venue mode, in mm².
const (
	largeVenueArea = 500e6  // past 500 m² only the straight grid runs
	hugeVenueArea  = 1000e6 // past this even the coarse gap pass is skipped
)

const coarseFillStep = 500.0

// largeVenueGrid lays a single centered grid in the better rotation. The grid
// geometry already guarantees wall and pairwise clearance on a rectangular
// venue, so each cell only needs a boundary and obstacle check; the O(n²)
// pairwise work that dominates big layouts never runs.
type largeVenueGrid struct{}

func (largeVenueGrid) strategy() model.Strategy { return model.StrategyLargeVenue }

func (largeVenueGrid) generate(req *request) []model.Table {
	u := req.usable
	cfg := req.cfg
	gap := req.clr.Table

	flat := model.Table{Width: cfg.TableWidth, Height: cfg.TableHeight, Rotation: model.Rotation0}
	turned := model.Table{Width: cfg.TableWidth, Height: cfg.TableHeight, Rotation: model.Rotation90}
	fCols, fRows := gridCapacity(u, flat.PlacedWidth(), flat.PlacedHeight(), gap)
	tCols, tRows := gridCapacity(u, turned.PlacedWidth(), turned.PlacedHeight(), gap)

	rot := model.Rotation0
	cols, rows := fCols, fRows
	if tCols*tRows > fCols*fRows {
		rot, cols, rows = model.Rotation90, tCols, tRows
	}
	if cols == 0 || rows == 0 {
		return nil
	}

	proto := model.Table{Width: cfg.TableWidth, Height: cfg.TableHeight, Rotation: rot}
	w, h := proto.PlacedWidth(), proto.PlacedHeight()

	// Center the grid; the margins stay at or above the wall clearance.
	gridW := float64(cols)*(w+gap) - gap
	gridH := float64(rows)*(h+gap) - gap
	x0 := u.X + (u.Width-gridW)/2
	y0 := u.Y + (u.Height-gridH)/2

	var tables []model.Table
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := x0 + float64(col)*(w+gap)
			y := y0 + float64(row)*(h+gap)
			if req.v.checkBounds(model.Rect{X: x, Y: y, Width: w, Height: h}) {
				tables = append(tables, model.NewTable(x, y, cfg.TableWidth, cfg.TableHeight, rot))
			}
		}
	}

	if req.boundary.Area() <= hugeVenueArea {
		tables = coarseFill(req, tables)
	}
	return tables
}

// coarseFill is a single wide-step gap pass with full validity checks, cheap
// enough to run on merely-large venues.
func coarseFill(req *request, tables []model.Table) []model.Table {
	p := newPlacerWith(req.v, tables)
	u := req.usable
	for _, rot := range []model.Rotation{model.Rotation0, model.Rotation90} {
		proto := model.Table{Width: req.cfg.TableWidth, Height: req.cfg.TableHeight, Rotation: rot}
		w, h := proto.PlacedWidth(), proto.PlacedHeight()
		for y := u.Y; y+h <= u.Bottom()+eps; y += coarseFillStep {
			for x := u.X; x+w <= u.Right()+eps; x += coarseFillStep {
				cand := model.NewTable(x, y, req.cfg.TableWidth, req.cfg.TableHeight, rot)
				if p.canPlace(cand) {
					p.place(cand)
				}
			}
		}
	}
	return p.layout()
}
