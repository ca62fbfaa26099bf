package plan

import (
	"fmt"
	"os"
)

// maxBackups bounds how many rotated copies of a plan file are kept.
const maxBackups = 5

// rotateBackups shifts existing backup copies of path one slot down and
// moves the current file into the first slot. The oldest copy falls off
// the end of the chain. A path with no current file is left untouched.
func rotateBackups(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat plan file: %w", err)
	}

	oldest := backupPath(path, maxBackups)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to drop oldest backup: %w", err)
	}
	for i := maxBackups - 1; i >= 1; i-- {
		src := backupPath(path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, backupPath(path, i+1)); err != nil {
			return fmt.Errorf("failed to rotate backup %d: %w", i, err)
		}
	}
	if err := os.Rename(path, backupPath(path, 1)); err != nil {
		return fmt.Errorf("failed to back up current plan: %w", err)
	}
	return nil
}

// Backups lists the existing backup copies of a plan file, newest first.
func Backups(path string) []string {
	var out []string
	for i := 1; i <= maxBackups; i++ {
		p := backupPath(path, i)
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func backupPath(path string, n int) string {
	return fmt.Sprintf("%s.bak%d", path, n)
}
