// SPDX-License-Identifier: Apache-2.0

package keybinds

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/hypr"
	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/pidfile"
	"github.com/devxalted/dotkit/internal/runner"
)

const (
	pidFileName   = "dotkit-keybinds.pid"
	sheetFileName = "dotkit-keybinds.txt"
)

// PIDFilePath returns the toggle PID file location.
func PIDFilePath() string {
	return filepath.Join(config.RuntimeDir(), pidFileName)
}

// Toggle shows the cheat-sheet overlay if it is not visible, and closes it
// if it is. The PID file is the sole source of truth; a stale file counts
// as "not visible". Returns true when the overlay was opened.
func Toggle(cfg config.Config) (opened bool, err error) {
	pidPath := PIDFilePath()

	pid, running, err := pidfile.Check(pidPath)
	if err != nil {
		return false, err
	}
	if running && len(cfg.Keybinds.Viewer) > 0 &&
		!pidfile.IsProcess(pid, filepath.Base(cfg.Keybinds.Viewer[0])) {
		// The PID was recycled by an unrelated process; treat as not shown.
		_ = pidfile.Remove(pidPath)
		running = false
	}

	if running {
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
			return false, fmt.Errorf("failed to close overlay (pid %d): %w", pid, err)
		}
		if err := pidfile.Remove(pidPath); err != nil {
			return false, err
		}
		logger.Info("closed keybinds overlay", "pid", pid)
		return false, nil
	}

	return true, open(cfg, pidPath)
}

// open renders the sheet, writes it to the runtime dir, and spawns the
// viewer detached.
func open(cfg config.Config, pidPath string) error {
	source, err := config.ResolvePath(cfg.Keybinds.Source)
	if err != nil {
		return err
	}

	binds, err := ParseFile(source)
	if err != nil {
		return err
	}
	if len(binds) == 0 {
		return fmt.Errorf("no keybindings found in %s", source)
	}

	sheetPath := filepath.Join(config.RuntimeDir(), sheetFileName)
	if err := os.WriteFile(sheetPath, []byte(FormatSheet(binds)), 0644); err != nil {
		return fmt.Errorf("failed to write cheat-sheet %s: %w", sheetPath, err)
	}

	viewer := cfg.Keybinds.Viewer
	args := append(append([]string{}, viewer[1:]...), sheetPath)

	pid, err := runner.StartDetached(os.DevNull, viewer[0], args...)
	if err != nil {
		return fmt.Errorf("failed to launch viewer: %w", err)
	}

	if err := pidfile.Write(pidPath, pid); err != nil {
		return err
	}

	// Ask the compositor to focus the overlay unless it already has focus.
	// Purely cosmetic; ignore failures (Hyprland absent, window not mapped
	// yet).
	viewerClass := filepath.Base(viewer[0])
	if w, err := hypr.GetActiveWindow(); err != nil || w.Class != viewerClass {
		if err := hypr.Dispatch("focuswindow class:" + viewerClass); err != nil {
			logger.Debug("could not focus overlay", "error", err)
		}
	}

	logger.Info("opened keybinds overlay", "pid", pid, "sheet", sheetPath)
	return nil
}
