// SPDX-License-Identifier: Apache-2.0

// Package config handles application configuration including reading and
// writing the config file, audio output profile definitions, and settings
// for the keybind cheat-sheet and tunnel manager.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AudioProfile maps a short profile name to an audio output device.
type AudioProfile struct {
	// Name is the unique identifier used on the command line (e.g. "airpods")
	Name string `yaml:"name"`

	// Bluetooth indicates the device must be connected via bluetoothctl first
	Bluetooth bool `yaml:"bluetooth,omitempty"`

	// MAC is the Bluetooth device address (required when Bluetooth is true)
	MAC string `yaml:"mac,omitempty"`

	// SinkMatch is a case-insensitive substring matched against wpctl sink names
	SinkMatch string `yaml:"sink_match"`

	// Description is shown in listings and notifications
	Description string `yaml:"description,omitempty"`
}

// Keybinds holds settings for the cheat-sheet renderer and overlay toggle.
type Keybinds struct {
	// Source is the Hyprland config file to parse for bind lines
	Source string `yaml:"source,omitempty"`

	// Viewer is the command used to display the cheat-sheet overlay.
	// The sheet file path is appended as the final argument.
	Viewer []string `yaml:"viewer,omitempty"`
}

// Tunnel holds defaults for the cloudflared tunnel manager.
type Tunnel struct {
	// ConfigDir is where cloudflared credentials and per-tunnel configs live
	ConfigDir string `yaml:"config_dir,omitempty"`

	// Cert is the origin certificate to pass to cloudflared (optional)
	Cert string `yaml:"cert,omitempty"`
}

// Config represents the top-level application configuration.
type Config struct {
	AudioProfiles []AudioProfile `yaml:"audio_profiles"`
	Keybinds      Keybinds       `yaml:"keybinds,omitempty"`
	Tunnel        Tunnel         `yaml:"tunnel,omitempty"`
}

// DefaultAudioProfiles are used when the config file defines none.
func DefaultAudioProfiles() []AudioProfile {
	return []AudioProfile{
		{Name: "astro", Bluetooth: false, SinkMatch: "Astro", Description: "Astro A50 base station"},
		{Name: "airpods", Bluetooth: true, MAC: "", SinkMatch: "AirPods", Description: "AirPods"},
		{Name: "hdmi", Bluetooth: false, SinkMatch: "HDMI", Description: "HDMI output"},
	}
}

func DefaultConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to determine user config directory")
	}
	return filepath.Join(xdg.ConfigHome, "dotkit", "config.yaml"), nil
}

// LoadConfig reads the config file, returning defaults when it does not exist.
func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return withDefaults(Config{}), nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return withDefaults(cfg), nil
}

// withDefaults fills in anything the config file left unset.
func withDefaults(cfg Config) Config {
	if len(cfg.AudioProfiles) == 0 {
		cfg.AudioProfiles = DefaultAudioProfiles()
	}
	if cfg.Keybinds.Source == "" {
		cfg.Keybinds.Source = "~/.config/hypr/hyprland.conf"
	}
	if len(cfg.Keybinds.Viewer) == 0 {
		cfg.Keybinds.Viewer = []string{
			"zenity", "--text-info",
			"--title", "Keybindings",
			"--width", "700", "--height", "900",
			"--font", "monospace 10",
			"--filename",
		}
	}
	if cfg.Tunnel.ConfigDir == "" {
		cfg.Tunnel.ConfigDir = "~/.cloudflared"
	}
	return cfg
}

// FindAudioProfile looks up a profile by name, case-insensitively.
func (c Config) FindAudioProfile(name string) (AudioProfile, bool) {
	for _, p := range c.AudioProfiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return AudioProfile{}, false
}

func EnsureConfigDir() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func SaveConfig(cfg Config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

// ResolvePath expands a leading "~/" against the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}

// RuntimeDir returns the directory for transient runtime files (PID files,
// tunnel logs). Falls back to the system temp dir when XDG_RUNTIME_DIR is
// unavailable.
func RuntimeDir() string {
	if xdg.RuntimeDir != "" {
		if _, err := os.Stat(xdg.RuntimeDir); err == nil {
			return xdg.RuntimeDir
		}
	}
	return os.TempDir()
}
