package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlanDispatch(t *testing.T) {
	cases := []struct {
		path    string
		command string
		first   string
	}{
		{"site.tar.gz", "tar", "xzf"},
		{"site.tgz", "tar", "xzf"},
		{"site.tar.bz2", "tar", "xjf"},
		{"site.tar.xz", "tar", "xJf"},
		{"site.tar", "tar", "xf"},
		{"site.zip", "unzip", "site.zip"},
		{"notes.gz", "gunzip", "notes.gz"},
		{"notes.bz2", "bunzip2", "notes.bz2"},
		{"notes.xz", "unxz", "notes.xz"},
		{"disk.7z", "7z", "x"},
		{"disk.rar", "unrar", "x"},
		{"SITE.TAR.GZ", "tar", "xzf"},
	}

	for _, tc := range cases {
		plan, err := Plan(tc.path)
		if err != nil {
			t.Errorf("Plan(%s) failed: %v", tc.path, err)
			continue
		}
		if plan.Command != tc.command {
			t.Errorf("Plan(%s).Command = %q, want %q", tc.path, plan.Command, tc.command)
		}
		if len(plan.Args) == 0 || plan.Args[0] != tc.first {
			t.Errorf("Plan(%s).Args = %v, want first arg %q", tc.path, plan.Args, tc.first)
		}
	}
}

// .tar.gz must dispatch to tar, not gunzip, even though .gz also matches.
func TestPlanPrefersCompoundExtension(t *testing.T) {
	plan, err := Plan("backup.tar.gz")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Command != "tar" {
		t.Errorf("command = %q, want tar", plan.Command)
	}
}

func TestPlanUnknownExtension(t *testing.T) {
	_, err := Plan("document.pdf")
	if err == nil {
		t.Fatal("expected error for unknown extension")
	}
	if !strings.Contains(err.Error(), ".tar.gz") {
		t.Errorf("error %q should list supported extensions", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if err := Extract(filepath.Join(t.TempDir(), "nope.tar.gz")); err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprland.conf")
	content := []byte("bind = SUPER, Q, exec, kitty\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	backupPath, err := Backup(path)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	if !strings.HasPrefix(backupPath, path+".") || !strings.HasSuffix(backupPath, ".bak") {
		t.Errorf("backup path %q should be <path>.<timestamp>.bak", backupPath)
	}

	got, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("backup content = %q, want %q", got, content)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("backup mode = %v, want 0600", info.Mode().Perm())
	}

	// The original must be left in place.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("original missing after backup: %v", err)
	}
}

func TestBackupErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Backup(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Backup(dir); err == nil {
		t.Error("expected error for directory")
	}
}

func TestSupportedExtensionsSorted(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != len(extractors) {
		t.Fatalf("got %d extensions, want %d", len(exts), len(extractors))
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Errorf("extensions not sorted: %v", exts)
		}
	}
}
