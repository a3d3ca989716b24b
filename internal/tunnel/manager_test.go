package tunnel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/pidfile"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestNewManagerExplicitCert(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(config.Tunnel{ConfigDir: dir, Cert: "/etc/ssl/my.pem"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if m.Cert != "/etc/ssl/my.pem" {
		t.Errorf("cert = %q, want the explicit path", m.Cert)
	}
}

// A bare filename is looked up inside the cloudflared directory.
func TestNewManagerCertFilename(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(config.Tunnel{ConfigDir: dir, Cert: "work-cert.pem"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if want := filepath.Join(dir, "work-cert.pem"); m.Cert != want {
		t.Errorf("cert = %q, want %q", m.Cert, want)
	}
}

func TestNewManagerDefaultCert(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cert.pem"))

	m, err := NewManager(config.Tunnel{ConfigDir: dir})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if want := filepath.Join(dir, "cert.pem"); m.Cert != want {
		t.Errorf("cert = %q, want %q", m.Cert, want)
	}
}

func TestNewManagerGlobCert(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "personal-cert.pem"))

	m, err := NewManager(config.Tunnel{ConfigDir: dir})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if want := filepath.Join(dir, "personal-cert.pem"); m.Cert != want {
		t.Errorf("cert = %q, want %q", m.Cert, want)
	}
}

// No certificate at all is fine; cloudflared falls back to its own default.
func TestNewManagerNoCert(t *testing.T) {
	m, err := NewManager(config.Tunnel{ConfigDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if m.Cert != "" {
		t.Errorf("cert = %q, want empty", m.Cert)
	}
}

func TestNewManagerResolvesHome(t *testing.T) {
	t.Setenv("HOME", "/home/test")

	m, err := NewManager(config.Tunnel{ConfigDir: "~/.cloudflared"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if m.ConfigDir != "/home/test/.cloudflared" {
		t.Errorf("config dir = %q", m.ConfigDir)
	}
}

func TestManagerPaths(t *testing.T) {
	m := &Manager{ConfigDir: "/home/test/.cloudflared"}

	if got := m.ConfigFilePath("blog"); got != "/home/test/.cloudflared/blog.yml" {
		t.Errorf("ConfigFilePath = %q", got)
	}
	if !strings.HasSuffix(PIDFilePath("blog"), "dotkit-tunnel-blog.pid") {
		t.Errorf("PIDFilePath = %q", PIDFilePath("blog"))
	}
	if !strings.HasSuffix(LogFilePath("blog"), "dotkit-tunnel-blog.log") {
		t.Errorf("LogFilePath = %q", LogFilePath("blog"))
	}
}

// A PID file whose PID now belongs to an unrelated process must not make
// the tunnel look running; Stop would otherwise signal that process.
func TestIsRunningRejectsRecycledPID(t *testing.T) {
	name := fmt.Sprintf("recycled-%d", os.Getpid())
	pidPath := PIDFilePath(name)
	// The test binary is alive but is not cloudflared.
	if err := pidfile.Write(pidPath, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(pidPath) })

	m := &Manager{ConfigDir: t.TempDir()}
	if pid, running := m.IsRunning(name); running {
		t.Errorf("IsRunning = %d, true for a recycled pid", pid)
	}
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Error("recycled pid file should have been removed")
	}
}

func TestCertOrDefault(t *testing.T) {
	m := &Manager{ConfigDir: "/home/test/.cloudflared"}
	if got := m.certOrDefault(); got != "/home/test/.cloudflared/cert.pem" {
		t.Errorf("certOrDefault = %q", got)
	}

	m.Cert = "/etc/ssl/my.pem"
	if got := m.certOrDefault(); got != "/etc/ssl/my.pem" {
		t.Errorf("certOrDefault = %q", got)
	}
}
