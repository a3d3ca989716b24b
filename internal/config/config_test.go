package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(Config{})

	if len(cfg.AudioProfiles) == 0 {
		t.Fatal("defaults should include audio profiles")
	}
	for _, name := range []string{"astro", "airpods", "hdmi"} {
		if _, ok := cfg.FindAudioProfile(name); !ok {
			t.Errorf("default profile %q missing", name)
		}
	}

	if cfg.Keybinds.Source == "" {
		t.Error("keybinds source default missing")
	}
	if len(cfg.Keybinds.Viewer) == 0 {
		t.Fatal("viewer default missing")
	}
	// The sheet path is appended after the viewer argv, so the default must
	// end in a flag that consumes it.
	if last := cfg.Keybinds.Viewer[len(cfg.Keybinds.Viewer)-1]; last != "--filename" {
		t.Errorf("viewer ends in %q, want --filename", last)
	}
	if cfg.Tunnel.ConfigDir == "" {
		t.Error("tunnel config dir default missing")
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	in := Config{
		AudioProfiles: []AudioProfile{{Name: "desk", SinkMatch: "Desk Speakers"}},
		Keybinds:      Keybinds{Source: "/etc/hypr/hyprland.conf", Viewer: []string{"cat"}},
		Tunnel:        Tunnel{ConfigDir: "/srv/cloudflared"},
	}

	cfg := withDefaults(in)
	if len(cfg.AudioProfiles) != 1 || cfg.AudioProfiles[0].Name != "desk" {
		t.Errorf("profiles = %+v, want the explicit one only", cfg.AudioProfiles)
	}
	if cfg.Keybinds.Source != "/etc/hypr/hyprland.conf" {
		t.Errorf("source = %q", cfg.Keybinds.Source)
	}
	if len(cfg.Keybinds.Viewer) != 1 || cfg.Keybinds.Viewer[0] != "cat" {
		t.Errorf("viewer = %v", cfg.Keybinds.Viewer)
	}
	if cfg.Tunnel.ConfigDir != "/srv/cloudflared" {
		t.Errorf("config dir = %q", cfg.Tunnel.ConfigDir)
	}
}

func TestFindAudioProfile(t *testing.T) {
	cfg := withDefaults(Config{})

	p, ok := cfg.FindAudioProfile("AirPods")
	if !ok || p.Name != "airpods" {
		t.Errorf("FindAudioProfile(AirPods) = %+v, %v", p, ok)
	}
	if !p.Bluetooth {
		t.Error("airpods profile should require bluetooth")
	}

	if _, ok := cfg.FindAudioProfile("speakers"); ok {
		t.Error("unknown profile should not match")
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("HOME", "/home/test")

	got, err := ResolvePath("~/.config/hypr/hyprland.conf")
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if want := filepath.Join("/home/test", ".config/hypr/hyprland.conf"); got != want {
		t.Errorf("ResolvePath = %q, want %q", got, want)
	}

	// Absolute and relative paths pass through untouched.
	for _, path := range []string{"/etc/hosts", "relative/path", "~user/x"} {
		got, err := ResolvePath(path)
		if err != nil || got != path {
			t.Errorf("ResolvePath(%q) = %q, %v", path, got, err)
		}
	}
}

func TestRuntimeDir(t *testing.T) {
	dir := RuntimeDir()
	if dir == "" {
		t.Fatal("RuntimeDir returned empty string")
	}
	if !strings.HasPrefix(dir, "/") {
		t.Errorf("RuntimeDir = %q, want an absolute path", dir)
	}
}
