// Package plan persists floor plan documents as JSON files with rotating
// backup copies.
package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hallplan/hallplan/internal/model"
)

// DefaultDir returns the default directory for plan documents,
// located at ~/.hallplan.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".hallplan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Save writes a plan document to a JSON file, rotating any existing copy
// into the backup chain first. The stored document records the write time
// as UpdatedAt. Missing parent directories are created.
func Save(path string, p model.Plan) error {
	p.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	if err := rotateBackups(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Load reads a plan document from a JSON file.
// If the file does not exist, it returns a fresh empty plan with no error.
func Load(path string) (model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPlan(), nil
		}
		return model.Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p model.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Plan{}, fmt.Errorf("failed to parse plan file: %w", err)
	}

	// Ensure Obstacles is never nil
	if p.Obstacles == nil {
		p.Obstacles = []model.Obstacle{}
	}
	p.Config.Normalize()
	return p, nil
}
