package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hallplan/hallplan/internal/model"
)

func buildLabelsTestResult() model.OptimizeResult {
	return model.OptimizeResult{
		Tables: []model.Table{
			model.NewTable(1500, 1500, 2850, 1550, model.Rotation0),
			model.NewTable(5900, 1500, 2850, 1550, model.Rotation90),
			model.NewTable(1500, 4450, 2850, 1550, model.Rotation0),
		},
		Stats:    model.Stats{Count: 3},
		Strategy: model.StrategyRegularGrid,
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	result := buildLabelsTestResult()
	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	result := model.OptimizeResult{}
	err := ExportLabels(path, result)
	if err == nil {
		t.Fatal("expected error for result with no tables, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	result := buildLabelsTestResult()
	labels := CollectLabelInfos(result)

	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}

	// Numbering follows placement order
	for i, l := range labels {
		if l.Number != i+1 {
			t.Errorf("expected label number %d, got %d", i+1, l.Number)
		}
	}

	if labels[0].X != 1500 || labels[0].Y != 1500 {
		t.Errorf("wrong position: got (%.0f, %.0f), want (1500, 1500)", labels[0].X, labels[0].Y)
	}
	if labels[0].Width != 2850 || labels[0].Height != 1550 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 2850x1550", labels[0].Width, labels[0].Height)
	}
	if labels[0].Rotation != 0 {
		t.Errorf("expected first label unrotated, got %d", labels[0].Rotation)
	}
	if labels[1].Rotation != 90 {
		t.Errorf("expected second label rotated 90, got %d", labels[1].Rotation)
	}
	if labels[0].TableID == "" || labels[0].TableID == labels[1].TableID {
		t.Error("labels should carry distinct table ids")
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		TableID:  "a1b2c3d4",
		Number:   7,
		X:        5900,
		Y:        1500,
		Rotation: 90,
		Width:    2850,
		Height:   1550,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if decoded != info {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, info)
	}
}

func TestExportLabels_ManyTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	// 35 tables spill onto a second label page
	tables := make([]model.Table, 35)
	for i := range tables {
		tables[i] = model.NewTable(float64(1500+i*100), 1500, 2850, 1550, model.Rotation0)
	}

	result := model.OptimizeResult{
		Tables: tables,
		Stats:  model.Stats{Count: len(tables)},
	}

	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}
