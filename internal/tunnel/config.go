// SPDX-License-Identifier: Apache-2.0

package tunnel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IngressRule is one entry of a cloudflared ingress chain.
type IngressRule struct {
	Hostname string `yaml:"hostname,omitempty"`
	Service  string `yaml:"service"`
}

// IngressConfig is the per-tunnel cloudflared configuration file
// (~/.cloudflared/<name>.yml).
type IngressConfig struct {
	Tunnel          string        `yaml:"tunnel"`
	CredentialsFile string        `yaml:"credentials-file"`
	OriginCert      string        `yaml:"origincert,omitempty"`
	Ingress         []IngressRule `yaml:"ingress"`
}

// NewIngressConfig builds the standard single-hostname ingress chain:
// route the hostname to a local port, 404 everything else.
func NewIngressConfig(name, tunnelID, configDir, cert, hostname string, port int) IngressConfig {
	return IngressConfig{
		Tunnel:          name,
		CredentialsFile: filepath.Join(configDir, tunnelID+".json"),
		OriginCert:      cert,
		Ingress: []IngressRule{
			{Hostname: hostname, Service: fmt.Sprintf("http://localhost:%d", port)},
			{Service: "http_status:404"},
		},
	}
}

// Hostname returns the first routed hostname in the ingress chain.
func (c IngressConfig) Hostname() string {
	for _, rule := range c.Ingress {
		if rule.Hostname != "" {
			return rule.Hostname
		}
	}
	return ""
}

// Port extracts the local port from the first http://localhost service.
func (c IngressConfig) Port() int {
	for _, rule := range c.Ingress {
		if after, ok := strings.CutPrefix(rule.Service, "http://localhost:"); ok {
			if port, err := strconv.Atoi(after); err == nil {
				return port
			}
		}
	}
	return 0
}

// SetHostname replaces the routed hostname, preserving the rest of the chain.
func (c *IngressConfig) SetHostname(hostname string) {
	for i := range c.Ingress {
		if c.Ingress[i].Hostname != "" {
			c.Ingress[i].Hostname = hostname
			return
		}
	}
}

// SetPort replaces the local service port, preserving the rest of the chain.
func (c *IngressConfig) SetPort(port int) {
	for i := range c.Ingress {
		if strings.HasPrefix(c.Ingress[i].Service, "http://localhost:") {
			c.Ingress[i].Service = fmt.Sprintf("http://localhost:%d", port)
			return
		}
	}
}

// LoadIngressConfig reads a per-tunnel configuration file.
func LoadIngressConfig(path string) (IngressConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IngressConfig{}, fmt.Errorf("failed to read tunnel config %s: %w", path, err)
	}

	var cfg IngressConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return IngressConfig{}, fmt.Errorf("failed to parse tunnel config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveIngressConfig writes a per-tunnel configuration file.
func SaveIngressConfig(path string, cfg IngressConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal tunnel config: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write tunnel config %s: %w", path, err)
	}
	return nil
}
