package plan

import (
	"path/filepath"
	"testing"
)

func TestSave_RotatesBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hall.json")

	for _, name := range []string{"v1", "v2", "v3"} {
		if err := Save(path, buildTestPlan(name)); err != nil {
			t.Fatalf("Save %s error: %v", name, err)
		}
	}

	current, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if current.Name != "v3" {
		t.Errorf("expected current plan v3, got %q", current.Name)
	}

	backups := Backups(path)
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}

	prev, err := Load(backups[0])
	if err != nil {
		t.Fatalf("Load backup error: %v", err)
	}
	if prev.Name != "v2" {
		t.Errorf("expected newest backup v2, got %q", prev.Name)
	}
	oldest, err := Load(backups[1])
	if err != nil {
		t.Fatalf("Load backup error: %v", err)
	}
	if oldest.Name != "v1" {
		t.Errorf("expected oldest backup v1, got %q", oldest.Name)
	}
}

func TestSave_KeepsAtMostFiveBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hall.json")

	names := []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8"}
	for _, name := range names {
		if err := Save(path, buildTestPlan(name)); err != nil {
			t.Fatalf("Save %s error: %v", name, err)
		}
	}

	backups := Backups(path)
	if len(backups) != maxBackups {
		t.Fatalf("expected %d backups, got %d", maxBackups, len(backups))
	}

	oldest, err := Load(backups[len(backups)-1])
	if err != nil {
		t.Fatalf("Load backup error: %v", err)
	}
	if oldest.Name != "v3" {
		t.Errorf("expected oldest surviving backup v3, got %q", oldest.Name)
	}
}

func TestBackups_NoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "never-saved.json")

	if got := Backups(path); len(got) != 0 {
		t.Errorf("expected no backups, got %v", got)
	}
}
