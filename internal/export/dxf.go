// Package export writes finished floor plans to interchange formats:
// DXF line geometry for CAD, XLSX placement schedules, and QR-coded
// installation labels.
package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/hallplan/hallplan/internal/model"
)

// Layer names used in exported drawings.
const (
	LayerBoundary  = "BOUNDARY"
	LayerObstacles = "OBSTACLES"
	LayerTables    = "TABLES"
)

// ExportDXF writes the venue outline, obstacles and placed tables as line
// geometry on separate layers. Obstacles and tables are drawn as closed
// polylines; the boundary as individual wall segments. Coordinates stay in
// the plan's millimeter frame.
func ExportDXF(path string, plan model.Plan) error {
	if len(plan.Boundary) < 3 {
		return fmt.Errorf("no venue boundary to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerBoundary, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to create boundary layer: %w", err)
	}
	n := len(plan.Boundary)
	for i := 0; i < n; i++ {
		a := plan.Boundary[i]
		b := plan.Boundary[(i+1)%n]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("failed to draw wall segment: %w", err)
		}
	}

	if _, err := d.AddLayer(LayerObstacles, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to create obstacle layer: %w", err)
	}
	for _, ob := range plan.Obstacles {
		if err := drawRect(d, ob.Bounds()); err != nil {
			return fmt.Errorf("failed to draw obstacle %q: %w", ob.Label, err)
		}
	}

	if plan.Result != nil && len(plan.Result.Tables) > 0 {
		if _, err := d.AddLayer(LayerTables, color.Cyan, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to create table layer: %w", err)
		}
		for _, tbl := range plan.Result.Tables {
			if err := drawRect(d, tbl.Bounds()); err != nil {
				return fmt.Errorf("failed to draw table %s: %w", tbl.ID, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRect adds an axis-aligned rectangle as a closed polyline on the
// drawing's current layer.
func drawRect(d *dxf.Drawing, r model.Rect) error {
	_, err := d.LwPolyline(true,
		[]float64{r.X, r.Y},
		[]float64{r.Right(), r.Y},
		[]float64{r.Right(), r.Bottom()},
		[]float64{r.X, r.Bottom()})
	return err
}
