// SPDX-License-Identifier: Apache-2.0

// Package statusline renders the one-line ANSI prompt segment shown by the
// shell/editor status hook. Input arrives as a JSON payload on stdin
// (working directory, model name, context-window usage); git state is
// gathered by shelling out to git.
package statusline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Input is the JSON payload provided by the status hook. All fields are
// optional; absent segments are simply omitted from the rendered line.
type Input struct {
	Model struct {
		DisplayName string `json:"display_name"`
	} `json:"model"`
	Workspace struct {
		CurrentDir string `json:"current_dir"`
	} `json:"workspace"`
	Context struct {
		UsedTokens int `json:"used_tokens"`
		MaxTokens  int `json:"max_tokens"`
	} `json:"context"`
}

var (
	dirColor     = color.New(color.FgCyan, color.Bold)
	branchColor  = color.New(color.FgMagenta)
	modelColor   = color.New(color.FgBlue)
	sepColor     = color.New(color.Faint)
	usageOkColor = color.New(color.FgGreen)
	usageWarn    = color.New(color.FgYellow)
	usageHigh    = color.New(color.FgRed)
)

// ParseInput decodes the status hook payload from r.
func ParseInput(r io.Reader) (Input, error) {
	var in Input
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return Input{}, fmt.Errorf("failed to parse status input JSON: %w", err)
	}
	return in, nil
}

// Render produces the final status line. git may be the zero value when the
// directory is not inside a work tree.
func Render(in Input, git GitInfo) string {
	var segments []string

	if dir := abbreviateDir(in.Workspace.CurrentDir); dir != "" {
		segments = append(segments, dirColor.Sprint(dir))
	}

	if git.IsRepo {
		branch := git.Branch
		if git.Dirty {
			branch += "*"
		}
		segments = append(segments, branchColor.Sprintf(" %s", branch))
	}

	if in.Model.DisplayName != "" {
		segments = append(segments, modelColor.Sprint(in.Model.DisplayName))
	}

	if in.Context.MaxTokens > 0 {
		pct := 100 * in.Context.UsedTokens / in.Context.MaxTokens
		segments = append(segments, usageColor(pct).Sprintf("%d%%", pct))
	}

	return strings.Join(segments, sepColor.Sprint(" | "))
}

// usageColor picks the color for a context usage percentage.
func usageColor(pct int) *color.Color {
	switch {
	case pct < 60:
		return usageOkColor
	case pct < 85:
		return usageWarn
	default:
		return usageHigh
	}
}

// abbreviateDir replaces the home directory prefix with ~.
func abbreviateDir(dir string) string {
	if dir == "" {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dir
	}
	if dir == home {
		return "~"
	}
	if strings.HasPrefix(dir, home+"/") {
		return "~" + dir[len(home):]
	}
	return dir
}
