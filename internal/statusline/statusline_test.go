package statusline

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Tests assert on content, not ANSI escapes.
	color.NoColor = true
}

func TestParseInput(t *testing.T) {
	payload := `{
		"model": {"display_name": "Foo"},
		"workspace": {"current_dir": "/srv/www"},
		"context": {"used_tokens": 500, "max_tokens": 1000}
	}`

	in, err := ParseInput(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseInput failed: %v", err)
	}
	if in.Model.DisplayName != "Foo" {
		t.Errorf("model = %q, want Foo", in.Model.DisplayName)
	}
	if in.Workspace.CurrentDir != "/srv/www" {
		t.Errorf("dir = %q, want /srv/www", in.Workspace.CurrentDir)
	}
	if in.Context.UsedTokens != 500 || in.Context.MaxTokens != 1000 {
		t.Errorf("context = %+v", in.Context)
	}
}

func TestParseInputRejectsGarbage(t *testing.T) {
	if _, err := ParseInput(strings.NewReader("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := ParseInput(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

// A payload with a model name and no git repo must render the model name
// and no branch segment.
func TestRenderWithoutGit(t *testing.T) {
	var in Input
	in.Model.DisplayName = "Foo"
	in.Workspace.CurrentDir = "/srv/www"

	line := Render(in, GitInfo{})
	if !strings.Contains(line, "Foo") {
		t.Errorf("line %q should contain model name", line)
	}
	if !strings.Contains(line, "/srv/www") {
		t.Errorf("line %q should contain directory", line)
	}
	if strings.Contains(line, "") {
		t.Errorf("line %q should not contain a branch glyph", line)
	}
}

func TestRenderGitSegment(t *testing.T) {
	var in Input
	in.Workspace.CurrentDir = "/srv/www"

	line := Render(in, GitInfo{IsRepo: true, Branch: "main", Dirty: true})
	if !strings.Contains(line, "main*") {
		t.Errorf("line %q should contain dirty branch marker", line)
	}

	line = Render(in, GitInfo{IsRepo: true, Branch: "main"})
	if strings.Contains(line, "main*") {
		t.Errorf("line %q should not mark a clean branch dirty", line)
	}
}

func TestRenderContextUsage(t *testing.T) {
	cases := []struct {
		used, max int
		want      string
	}{
		{used: 300, max: 1000, want: "30%"},
		{used: 700, max: 1000, want: "70%"},
		{used: 950, max: 1000, want: "95%"},
	}

	for _, tc := range cases {
		var in Input
		in.Context.UsedTokens = tc.used
		in.Context.MaxTokens = tc.max

		line := Render(in, GitInfo{})
		if !strings.Contains(line, tc.want) {
			t.Errorf("Render(%d/%d) = %q, want it to contain %q", tc.used, tc.max, line, tc.want)
		}
	}
}

// MaxTokens of zero means no usage data; the segment must be dropped
// rather than dividing by zero.
func TestRenderNoContextData(t *testing.T) {
	var in Input
	in.Workspace.CurrentDir = "/srv"
	line := Render(in, GitInfo{})
	if strings.Contains(line, "%") {
		t.Errorf("line %q should not contain a usage segment", line)
	}
}

func TestAbbreviateDir(t *testing.T) {
	t.Setenv("HOME", "/home/test")

	cases := map[string]string{
		"/home/test":          "~",
		"/home/test/src/dot":  "~/src/dot",
		"/home/testing/other": "/home/testing/other",
		"/etc":                "/etc",
		"":                    "",
	}
	for dir, want := range cases {
		if got := abbreviateDir(dir); got != want {
			t.Errorf("abbreviateDir(%q) = %q, want %q", dir, got, want)
		}
	}
}
