// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup copies the file at path to a timestamped .bak sibling and returns
// the backup path. The copy is written atomically (temp file + rename) so a
// crashed run never leaves a half-written backup behind.
func Backup(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot back up %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot back up %s: is a directory", path)
	}

	backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	// Temp file lives next to the target so the final rename stays on one
	// filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dotkit-backup-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to copy %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup: %w", err)
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to set backup permissions: %w", err)
	}
	if err := os.Rename(tmpPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to rename backup: %w", err)
	}

	return backupPath, nil
}
