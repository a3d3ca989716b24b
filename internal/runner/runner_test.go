package runner

import (
	"fmt"
	"strings"
	"testing"
)

func TestCapture(t *testing.T) {
	res, err := Capture("sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if res.Stdout != "out\n" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

// A failing command still returns its captured output so callers can show
// the tool's own error message.
func TestCaptureFailureKeepsOutput(t *testing.T) {
	res, err := Capture("sh", "-c", "echo diagnostics >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for exit 3")
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Errorf("error %q should carry the exit status", err)
	}
	if res.Stderr != "diagnostics\n" {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

func TestCaptureMissingBinary(t *testing.T) {
	if _, err := Capture("definitely-not-a-real-binary"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestLookPath(t *testing.T) {
	if err := LookPath("sh"); err != nil {
		t.Errorf("LookPath(sh) failed: %v", err)
	}
	if err := LookPath("definitely-not-a-real-binary"); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestStreamCommandChannels(t *testing.T) {
	step := CommandStep{
		Name:    "demo",
		Command: "sh",
		Args:    []string{"-c", "echo hello; echo oops >&2"},
	}

	outChan, errChan := StreamCommand(step, false)

	var stdout, stderr strings.Builder
	for line := range outChan {
		if line.IsError {
			stderr.WriteString(line.Line)
		} else {
			stdout.WriteString(line.Line)
		}
	}
	if err := <-errChan; err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	if stdout.String() != "hello\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

// A command that exits the instant its output is written must still have
// every byte delivered; the pipes close on process exit, so draining has to
// finish before the exit status is collected.
func TestStreamCommandFastExitKeepsOutput(t *testing.T) {
	const want = 65536
	step := CommandStep{
		Name:    "burst",
		Command: "sh",
		Args:    []string{"-c", fmt.Sprintf("head -c %d /dev/zero | tr '\\0' 'a'", want)},
	}

	outChan, errChan := StreamCommand(step, false)

	total := 0
	for line := range outChan {
		if line.IsError {
			t.Errorf("unexpected stderr chunk: %q", line.Line)
			continue
		}
		total += len(line.Line)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if total != want {
		t.Errorf("received %d bytes, want %d", total, want)
	}
}

func TestStreamCommandFailure(t *testing.T) {
	step := CommandStep{Name: "fail", Command: "sh", Args: []string{"-c", "exit 7"}}

	outChan, errChan := StreamCommand(step, false)
	for range outChan {
	}
	err := <-errChan
	if err == nil {
		t.Fatal("expected error for exit 7")
	}
	if !strings.Contains(err.Error(), "status 7") {
		t.Errorf("error %q should carry the exit status", err)
	}
}
