// Package storage writes finished reports to the filesystem.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// WriteReport writes content to path through a temporary file in the same
// directory and renames it into place, so readers see either the old file
// or the complete new one.
func WriteReport(path, content string) error {
	if path == "" {
		return fmt.Errorf("empty output path")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("failed to chmod report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

// SaveHTML writes the report and returns the path written, or "" when the
// write failed. The failure is logged, not returned.
func SaveHTML(path, content string, l *slog.Logger) string {
	if err := WriteReport(path, content); err != nil {
		if l != nil {
			l.Error("failed to save report", "file", path, "error", err)
		}
		return ""
	}
	if l != nil {
		l.Info("report saved", "file", path, "bytes", len(content))
	}
	return path
}
