// SPDX-License-Identifier: Apache-2.0

// Package tunnel manages cloudflared tunnels as background processes.
// Each running tunnel is tracked by a PID file and a log file in the
// runtime directory; cloudflared itself is the source of truth for which
// tunnels exist.
package tunnel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/pidfile"
	"github.com/devxalted/dotkit/internal/runner"
	"github.com/devxalted/dotkit/internal/util"
)

var (
	ErrAlreadyRunning = errors.New("tunnel is already running")
	ErrNotRunning     = errors.New("tunnel is not running")
	ErrNotFound       = errors.New("tunnel does not exist")
)

const (
	// startGrace is how long a freshly spawned cloudflared gets to crash
	// before we call the start successful.
	startGrace = 2 * time.Second

	// stopTimeout bounds the SIGTERM wait before escalating to SIGKILL.
	stopTimeout = 10 * time.Second
)

// Manager drives cloudflared and tracks tunnel processes.
type Manager struct {
	// ConfigDir holds cloudflared credentials and per-tunnel configs.
	ConfigDir string

	// Cert is the origin certificate passed to cloudflared, if any.
	Cert string
}

// Info is a tunnel as known to cloudflared, merged with local run state.
type Info struct {
	Name      string
	ID        string
	CreatedAt string
	Running   bool
	PID       int
}

// NewManager resolves the cloudflared directory and selects an origin
// certificate: the explicit cert if given, else cert.pem, else a single
// *-cert.pem. Multiple candidates pick the first and warn.
func NewManager(cfg config.Tunnel) (*Manager, error) {
	configDir, err := config.ResolvePath(cfg.ConfigDir)
	if err != nil {
		return nil, err
	}

	m := &Manager{ConfigDir: configDir}

	if cfg.Cert != "" {
		cert := cfg.Cert
		if !strings.Contains(cert, "/") {
			cert = filepath.Join(configDir, cert)
		}
		resolved, err := config.ResolvePath(cert)
		if err != nil {
			return nil, err
		}
		m.Cert = resolved
		return m, nil
	}

	defaultCert := filepath.Join(configDir, "cert.pem")
	if _, err := os.Stat(defaultCert); err == nil {
		m.Cert = defaultCert
		return m, nil
	}

	matches, err := filepath.Glob(filepath.Join(configDir, "*-cert.pem"))
	if err == nil && len(matches) > 0 {
		m.Cert = matches[0]
		if len(matches) > 1 {
			logger.Warn("multiple origin certificates found, using first",
				"cert", matches[0], "candidates", len(matches))
		}
	}

	return m, nil
}

// cloudflared runs a cloudflared tunnel subcommand, inserting the origin
// certificate flag when one is configured.
func (m *Manager) cloudflared(args ...string) (runner.Result, error) {
	full := []string{"tunnel"}
	if m.Cert != "" {
		full = append(full, "--origincert", m.Cert)
	}
	full = append(full, args...)
	return runner.Capture("cloudflared", full...)
}

// PIDFilePath returns the PID file for a tunnel.
func PIDFilePath(name string) string {
	return filepath.Join(config.RuntimeDir(), "dotkit-tunnel-"+name+".pid")
}

// LogFilePath returns the log file for a tunnel.
func LogFilePath(name string) string {
	return filepath.Join(config.RuntimeDir(), "dotkit-tunnel-"+name+".log")
}

// ConfigFilePath returns the per-tunnel cloudflared config file.
func (m *Manager) ConfigFilePath(name string) string {
	return filepath.Join(m.ConfigDir, name+".yml")
}

// List returns all tunnels known to cloudflared, annotated with local run
// state.
func (m *Manager) List() ([]Info, error) {
	res, err := m.cloudflared("list", "--output", "json")
	if err != nil {
		if res.Stderr != "" {
			return nil, fmt.Errorf("failed to list tunnels: %w: %s", err, strings.TrimSpace(res.Stderr))
		}
		return nil, fmt.Errorf("failed to list tunnels: %w", err)
	}

	var raw []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tunnel list: %w", err)
	}

	infos := make([]Info, 0, len(raw))
	for _, t := range raw {
		info := Info{Name: t.Name, ID: t.ID, CreatedAt: t.CreatedAt}
		info.PID, info.Running = m.IsRunning(t.Name)
		infos = append(infos, info)
	}
	return infos, nil
}

// Find returns the tunnel with the given name.
func (m *Manager) Find(name string) (Info, error) {
	infos, err := m.List()
	if err != nil {
		return Info{}, err
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("tunnel '%s': %w", name, ErrNotFound)
}

// IsRunning reports whether a tunnel process is alive, preferring the PID
// file and falling back to a pgrep scan for processes we did not start.
func (m *Manager) IsRunning(name string) (int, bool) {
	pidPath := PIDFilePath(name)
	pid, running, _ := pidfile.Check(pidPath)
	if running {
		if pidfile.IsProcess(pid, "cloudflared") {
			return pid, true
		}
		// The PID was recycled by an unrelated process; the tunnel is gone.
		_ = pidfile.Remove(pidPath)
	}

	// A tunnel started outside dotkit has no PID file.
	res, err := runner.Capture("pgrep", "-f", "cloudflared.*tunnel.*run.*"+name)
	if err == nil {
		fields := strings.Fields(res.Stdout)
		if len(fields) > 0 {
			if pid, err := strconv.Atoi(fields[0]); err == nil {
				return pid, true
			}
		}
	}

	return 0, false
}

// Start spawns a tunnel in the background. configFile overrides the
// per-tunnel default (<ConfigDir>/<name>.yml); when neither exists the
// tunnel runs on cloudflared's remotely-managed configuration.
func (m *Manager) Start(name, configFile string) (int, error) {
	if pid, running := m.IsRunning(name); running {
		return pid, fmt.Errorf("tunnel '%s' (pid %d): %w", name, pid, ErrAlreadyRunning)
	}

	if configFile == "" {
		candidate := m.ConfigFilePath(name)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		} else {
			logger.Warn("no config file for tunnel, using remote configuration",
				"tunnel", name, "expected", candidate)
		}
	}

	args := []string{"tunnel"}
	if m.Cert != "" {
		args = append(args, "--origincert", m.Cert)
	}
	if configFile != "" {
		args = append(args, "--config", configFile)
	}
	args = append(args, "run", name)

	logPath := LogFilePath(name)
	pid, err := runner.StartDetached(logPath, "cloudflared", args...)
	if err != nil {
		return 0, err
	}

	pidPath := PIDFilePath(name)
	if err := pidfile.Write(pidPath, pid); err != nil {
		return 0, err
	}

	// Give cloudflared a moment; a bad config kills it immediately.
	time.Sleep(startGrace)
	if !pidfile.Alive(pid) {
		_ = pidfile.Remove(pidPath)
		return 0, fmt.Errorf("tunnel '%s' exited immediately, check log %s", name, logPath)
	}

	logger.Info("started tunnel", "tunnel", name, "pid", pid,
		"command", util.JoinCommand("cloudflared", args...), "log", logPath)
	return pid, nil
}

// Stop terminates a running tunnel: SIGTERM, bounded wait, then SIGKILL.
func (m *Manager) Stop(name string) error {
	pid, running := m.IsRunning(name)
	if !running {
		return fmt.Errorf("tunnel '%s': %w", name, ErrNotRunning)
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("failed to signal tunnel '%s' (pid %d): %w", name, pid, err)
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if !pidfile.Alive(pid) {
			break
		}
		time.Sleep(time.Second)
	}
	if pidfile.Alive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
		time.Sleep(time.Second)
	}

	if err := pidfile.Remove(PIDFilePath(name)); err != nil {
		return err
	}

	logger.Info("stopped tunnel", "tunnel", name, "pid", pid)
	return nil
}

// Restart stops the tunnel if running, then starts it again.
func (m *Manager) Restart(name, configFile string) (int, error) {
	if _, running := m.IsRunning(name); running {
		if err := m.Stop(name); err != nil {
			return 0, err
		}
		time.Sleep(startGrace)
	}
	return m.Start(name, configFile)
}

// TailLogs returns the last n lines of a tunnel's log file.
func TailLogs(name string, n int) ([]string, error) {
	data, err := os.ReadFile(LogFilePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file for tunnel '%s'", name)
		}
		return nil, fmt.Errorf("failed to read tunnel log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// CreateResult describes the outcome of Create for CLI reporting.
type CreateResult struct {
	TunnelID   string
	ConfigPath string
	DNSRouted  bool
	DNSTarget  string
}

// Create provisions a new tunnel, writes its ingress config, and attempts
// to route DNS for the hostname. DNS routing failure is not fatal; the
// caller gets the CNAME target for manual setup.
func (m *Manager) Create(name, hostname string, port int) (CreateResult, error) {
	infos, err := m.List()
	if err != nil {
		return CreateResult{}, err
	}
	for _, info := range infos {
		if info.Name == name {
			return CreateResult{}, fmt.Errorf("tunnel '%s' already exists", name)
		}
	}

	if res, err := m.cloudflared("create", name); err != nil {
		return CreateResult{}, fmt.Errorf("failed to create tunnel '%s': %w: %s", name, err, strings.TrimSpace(res.Stderr))
	}

	created, err := m.Find(name)
	if err != nil {
		return CreateResult{}, fmt.Errorf("tunnel created but not listed: %w", err)
	}

	cfg := NewIngressConfig(name, created.ID, m.ConfigDir, m.certOrDefault(), hostname, port)
	configPath := m.ConfigFilePath(name)
	if err := SaveIngressConfig(configPath, cfg); err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{
		TunnelID:   created.ID,
		ConfigPath: configPath,
		DNSTarget:  created.ID + ".cfargotunnel.com",
	}

	if _, err := m.cloudflared("route", "dns", name, hostname); err != nil {
		logger.Warn("automatic DNS routing failed", "tunnel", name, "hostname", hostname, "error", err)
	} else {
		result.DNSRouted = true
	}

	return result, nil
}

// certOrDefault returns the configured cert path, or the conventional
// location for the ingress config when none was selected.
func (m *Manager) certOrDefault() string {
	if m.Cert != "" {
		return m.Cert
	}
	return filepath.Join(m.ConfigDir, "cert.pem")
}

// Update rewrites a tunnel's ingress config with a new port and/or
// hostname, re-routing DNS when the hostname changes.
func (m *Manager) Update(name, hostname string, port int) (IngressConfig, error) {
	if _, err := m.Find(name); err != nil {
		return IngressConfig{}, err
	}

	configPath := m.ConfigFilePath(name)
	cfg, err := LoadIngressConfig(configPath)
	if err != nil {
		return IngressConfig{}, err
	}

	if hostname != "" && hostname != cfg.Hostname() {
		if res, err := m.cloudflared("route", "dns", "--overwrite-dns", name, hostname); err != nil {
			logger.Warn("could not update DNS route", "tunnel", name,
				"hostname", hostname, "stderr", strings.TrimSpace(res.Stderr))
		}
		cfg.SetHostname(hostname)
	}
	if port > 0 {
		cfg.SetPort(port)
	}

	if err := SaveIngressConfig(configPath, cfg); err != nil {
		return IngressConfig{}, err
	}

	logger.Info("updated tunnel config", "tunnel", name, "hostname", cfg.Hostname(), "port", cfg.Port())
	return cfg, nil
}

// Delete removes a tunnel and its local files, stopping it first if
// needed.
func (m *Manager) Delete(name string) error {
	if _, err := m.Find(name); err != nil {
		return err
	}

	if _, running := m.IsRunning(name); running {
		if err := m.Stop(name); err != nil {
			return err
		}
	}

	if res, err := m.cloudflared("delete", "-f", name); err != nil {
		return fmt.Errorf("failed to delete tunnel '%s': %w: %s", name, err, strings.TrimSpace(res.Stderr))
	}

	for _, path := range []string{m.ConfigFilePath(name), LogFilePath(name), PIDFilePath(name)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("could not remove tunnel file", "path", path, "error", err)
		}
	}

	logger.Info("deleted tunnel", "tunnel", name)
	return nil
}
