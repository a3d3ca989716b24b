// SPDX-License-Identifier: Apache-2.0

// Package keybinds renders a keybinding cheat-sheet from a Hyprland config
// and toggles it as a GUI overlay tracked by a PID file.
package keybinds

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Bind is one parsed keybinding line.
type Bind struct {
	Mods       string
	Key        string
	Dispatcher string
	Args       string
}

// Combo renders the modifier+key combination (e.g. "SUPER + Q").
func (b Bind) Combo() string {
	if b.Mods == "" {
		return b.Key
	}
	return b.Mods + " + " + b.Key
}

// Action renders what the binding does, in readable form.
func (b Bind) Action() string {
	action := prettyDispatcher(b.Dispatcher)
	if b.Args != "" {
		if action == "" {
			return b.Args
		}
		return action + " " + b.Args
	}
	return action
}

// ParseFile reads a Hyprland config and extracts its bind lines, resolving
// $variable definitions encountered along the way.
func ParseFile(path string) ([]Bind, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keybinds source %s: %w", path, err)
	}
	defer f.Close()

	var binds []Bind
	vars := map[string]string{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Variable definition: $mainMod = SUPER
		if strings.HasPrefix(line, "$") {
			if name, value, ok := strings.Cut(line, "="); ok {
				vars[strings.TrimSpace(name)] = strings.TrimSpace(value)
			}
			continue
		}

		if !isBindLine(line) {
			continue
		}

		_, rest, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if idx := strings.Index(rest, "#"); idx >= 0 {
			rest = rest[:idx]
		}

		bind, ok := parseBind(rest, vars)
		if !ok {
			continue
		}
		binds = append(binds, bind)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keybinds source %s: %w", path, err)
	}

	return binds, nil
}

// isBindLine matches bind and its flag variants (binde, bindm, bindl, ...).
func isBindLine(line string) bool {
	if !strings.HasPrefix(line, "bind") {
		return false
	}
	rest := line[len("bind"):]
	for i, r := range rest {
		if r == '=' || r == ' ' || r == '\t' {
			rest = rest[:i]
			break
		}
	}
	// Whatever is between "bind" and "=" must be flag characters only.
	return strings.Trim(rest, "elmnrstiop") == ""
}

// parseBind splits "MODS, KEY, dispatcher, args" after variable expansion.
func parseBind(spec string, vars map[string]string) (Bind, bool) {
	for name, value := range vars {
		spec = strings.ReplaceAll(spec, name, value)
	}

	parts := strings.SplitN(spec, ",", 4)
	if len(parts) < 3 {
		return Bind{}, false
	}

	bind := Bind{
		Mods:       normalizeMods(strings.TrimSpace(parts[0])),
		Key:        strings.ToUpper(strings.TrimSpace(parts[1])),
		Dispatcher: strings.TrimSpace(parts[2]),
	}
	if len(parts) == 4 {
		bind.Args = strings.TrimSpace(parts[3])
	}

	if bind.Key == "" || bind.Dispatcher == "" {
		return Bind{}, false
	}
	return bind, true
}

// normalizeMods uppercases modifiers and joins combinations with +.
func normalizeMods(mods string) string {
	if mods == "" {
		return ""
	}
	fields := strings.Fields(strings.ToUpper(mods))
	return strings.Join(fields, " + ")
}

// prettyDispatcher maps Hyprland dispatcher names to readable labels.
// Unknown dispatchers are passed through untouched.
func prettyDispatcher(dispatcher string) string {
	pretty := map[string]string{
		"exec":              "Run",
		"killactive":        "Close window",
		"togglefloating":    "Toggle floating",
		"fullscreen":        "Fullscreen",
		"workspace":         "Workspace",
		"movetoworkspace":   "Move to workspace",
		"movefocus":         "Focus",
		"movewindow":        "Move window",
		"resizewindow":      "Resize window",
		"togglespecialworkspace": "Toggle scratchpad",
		"exit":              "Exit session",
		"pseudo":            "Pseudo-tile",
		"togglesplit":       "Toggle split",
	}
	if label, ok := pretty[dispatcher]; ok {
		return label
	}
	return dispatcher
}

// FormatSheet renders the binds as an aligned two-column cheat-sheet.
func FormatSheet(binds []Bind) string {
	width := 0
	for _, b := range binds {
		if l := len(b.Combo()); l > width {
			width = l
		}
	}

	var sb strings.Builder
	for _, b := range binds {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, b.Combo(), b.Action())
	}
	return sb.String()
}
