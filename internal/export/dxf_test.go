package export

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hallplan/hallplan/internal/importer"
	"github.com/hallplan/hallplan/internal/model"
)

func TestExportDXF_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.dxf")

	plan := model.NewPlan()
	plan.Boundary = model.NewRectBoundary(0, 0, 10000, 15000)
	plan.Obstacles = []model.Obstacle{
		model.NewObstacle("Pillar", 5000, 8000, 1000, 1000),
	}
	plan.Result = &model.OptimizeResult{
		Tables: []model.Table{
			model.NewTable(1500, 1500, 2850, 1550, model.Rotation0),
			model.NewTable(1500, 4450, 2850, 1550, model.Rotation0),
		},
	}

	if err := ExportDXF(path, plan); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	// The importer reads back every closed shape: walls chain into the
	// boundary, obstacle and table rectangles come back as obstacles.
	imported := importer.ImportDXF(path)
	if len(imported.Errors) > 0 {
		t.Fatalf("re-import failed: %v", imported.Errors)
	}
	if math.Abs(imported.Boundary.Area()-150e6) > 1e-3 {
		t.Errorf("expected venue area 150e6, got %f", imported.Boundary.Area())
	}
	if len(imported.Obstacles) != 3 {
		t.Fatalf("expected 3 closed shapes inside the venue, got %d", len(imported.Obstacles))
	}
	// Largest shapes first: the two tables, then the pillar
	if imported.Obstacles[0].Width != 2850 || imported.Obstacles[0].Height != 1550 {
		t.Errorf("unexpected table footprint: %+v", imported.Obstacles[0])
	}
	if imported.Obstacles[2].Width != 1000 || imported.Obstacles[2].X != 5000 {
		t.Errorf("unexpected pillar bounds: %+v", imported.Obstacles[2])
	}
}

func TestExportDXF_BoundaryOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venue.dxf")

	plan := model.NewPlan()
	plan.Boundary = model.NewRectBoundary(0, 0, 8000, 8000)

	if err := ExportDXF(path, plan); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("DXF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("DXF file is empty")
	}

	imported := importer.ImportDXF(path)
	if len(imported.Errors) > 0 {
		t.Fatalf("re-import failed: %v", imported.Errors)
	}
	if len(imported.Obstacles) != 0 {
		t.Errorf("expected no obstacles, got %d", len(imported.Obstacles))
	}
}

func TestExportDXF_NoBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.dxf")

	err := ExportDXF(path, model.NewPlan())
	if err == nil {
		t.Fatal("expected error for plan without boundary, got nil")
	}
}
