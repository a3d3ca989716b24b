// SPDX-License-Identifier: Apache-2.0

// Package pidfile implements the single-writer PID files used to track
// background processes (keybind overlay viewer, cloudflared tunnels).
// A PID file is a presence check, not a contended lock: stale files left
// behind by dead processes are detected and removed on read.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// Write records pid at path.
func Write(path string, pid int) error {
	err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
	if err != nil {
		return fmt.Errorf("failed to write pid file %s: %w", path, err)
	}
	return nil
}

// Read returns the PID stored at path.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid file %s: %w", path, err)
	}
	return pid, nil
}

// Alive reports whether the process with the given PID exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}

// Comm returns the command name of a running process from /proc/<pid>/comm.
// The kernel truncates it to 15 characters.
func Comm(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", fmt.Errorf("failed to read command name of pid %d: %w", pid, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// IsProcess reports whether pid is alive and running the named command.
// PIDs get recycled; a bare liveness check is not enough before signaling a
// process recorded in a file.
func IsProcess(pid int, command string) bool {
	if !Alive(pid) {
		return false
	}
	comm, err := Comm(pid)
	if err != nil {
		return false
	}
	if len(command) > 15 {
		command = command[:15]
	}
	return comm == command
}

// Check reads the PID file at path and verifies the recorded process is
// still alive. A missing file yields (0, false, nil). A stale file (process
// gone or contents invalid) is removed and also yields (0, false, nil).
func Check(path string) (pid int, running bool, err error) {
	pid, readErr := Read(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return 0, false, nil
		}
		// Unparseable contents: treat as stale.
		_ = os.Remove(path)
		return 0, false, nil
	}

	if !Alive(pid) {
		_ = os.Remove(path)
		return 0, false, nil
	}

	return pid, true, nil
}

// Remove deletes the PID file at path, ignoring a missing file.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pid file %s: %w", path, err)
	}
	return nil
}
