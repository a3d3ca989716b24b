// SPDX-License-Identifier: Apache-2.0

// Package runner executes external system tools (git, wpctl, bluetoothctl,
// cloudflared, notify-send) on behalf of the dotkit surfaces. Every dotkit
// operation is a short, linear sequence of such calls; this package provides
// the capture, stream, and detach primitives they share.
package runner

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// CommandStep defines a named external command invocation.
type CommandStep struct {
	Name    string
	Command string
	Args    []string
}

// OutputLine is a chunk of process output tagged by its origin stream.
type OutputLine struct {
	Line    string
	IsError bool // True if the chunk came from stderr
}

// Result holds the captured output of a completed command.
type Result struct {
	Command string
	Stdout  string
	Stderr  string
}

// Capture runs a command to completion and captures stdout/stderr.
// The Result is returned even when the command fails so callers can
// inspect stderr.
func Capture(command string, args ...string) (Result, error) {
	cmd := exec.Command(command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Command: command + " " + strings.Join(args, " "),
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	if err != nil {
		return result, wrapExitError(result.Command, err)
	}
	return result, nil
}

// LookPath reports whether the named binary is available.
func LookPath(command string) error {
	_, err := exec.LookPath(command)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", command, err)
	}
	return nil
}

// StreamCommand executes a command step, streaming its output.
// If cliMode is true, output goes directly to os.Stdout/Stderr.
// If cliMode is false, output is sent chunk by chunk over outChan.
func StreamCommand(step CommandStep, cliMode bool) (<-chan OutputLine, <-chan error) {
	// Buffer channel slightly for TUI mode to prevent blocking on rapid output
	outChan := make(chan OutputLine, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		cmd := exec.Command(step.Command, step.Args...)
		cmdDesc := fmt.Sprintf("step '%s'", step.Name)
		runCommand(cmd, cmdDesc, cliMode, outChan, errChan)
	}()

	return outChan, errChan
}

// runCommand executes a command locally, streaming output per cliMode.
func runCommand(cmd *exec.Cmd, cmdDesc string, cliMode bool, outChan chan<- OutputLine, errChan chan<- error) {
	var cmdErr error
	if cliMode {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("failed to start %s: %w", cmdDesc, err)
			return
		}
		cmdErr = cmd.Wait()
	} else {
		stdoutPipe, err := cmd.StdoutPipe()
		if err != nil {
			errChan <- fmt.Errorf("failed to get stdout pipe for %s: %w", cmdDesc, err)
			return
		}
		stderrPipe, err := cmd.StderrPipe()
		if err != nil {
			errChan <- fmt.Errorf("failed to get stderr pipe for %s: %w", cmdDesc, err)
			return
		}

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("failed to start %s: %w", cmdDesc, err)
			return
		}

		outputDone := make(chan struct{}, 2) // Wait for both streamPipe goroutines
		go streamPipe(stdoutPipe, outChan, outputDone, false)
		go streamPipe(stderrPipe, outChan, outputDone, true)

		// Drain both pipes before Wait: Wait closes the pipes as soon as
		// the process exits, discarding anything not yet read.
		<-outputDone
		<-outputDone

		cmdErr = cmd.Wait()
	}

	if cmdErr != nil {
		errChan <- wrapExitError(cmdDesc, cmdErr)
	}
}

// StartDetached launches a command in its own session with stdout and stderr
// redirected to logPath. It returns the child PID without waiting; the
// process survives dotkit's exit.
func StartDetached(logPath string, command string, args ...string) (int, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.Command(command, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", command, err)
	}

	pid := cmd.Process.Pid

	// Reap the child when it exits so it does not linger as a zombie while
	// dotkit is still alive.
	go func() { _ = cmd.Wait() }()

	return pid, nil
}

func streamPipe(pipe io.Reader, outChan chan<- OutputLine, doneChan chan<- struct{}, isError bool) {
	defer func() { doneChan <- struct{}{} }()
	buf := make([]byte, 1024) // Read in chunks
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			outChan <- OutputLine{Line: string(buf[:n]), IsError: isError}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "Pipe read error (%v): %v\n", isError, err)
			}
			break
		}
	}
}

// wrapExitError annotates a command failure with its exit status when one
// can be extracted.
func wrapExitError(cmdDesc string, cmdErr error) error {
	exitCode := -1
	if exitError, ok := cmdErr.(*exec.ExitError); ok {
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			exitCode = status.ExitStatus()
		}
	}
	if exitCode != -1 {
		return fmt.Errorf("%s exited with status %d: %w", cmdDesc, exitCode, cmdErr)
	}
	return fmt.Errorf("%s failed: %w", cmdDesc, cmdErr)
}
