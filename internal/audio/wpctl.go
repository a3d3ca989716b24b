// SPDX-License-Identifier: Apache-2.0

package audio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devxalted/dotkit/internal/runner"
)

// Sink is an audio output device as reported by wpctl status.
type Sink struct {
	ID      int
	Name    string
	Default bool
}

// ListSinks returns the sinks currently known to WirePlumber.
func ListSinks() ([]Sink, error) {
	res, err := runner.Capture("wpctl", "status")
	if err != nil {
		return nil, fmt.Errorf("failed to run wpctl status: %w", err)
	}
	return ParseSinks(res.Stdout), nil
}

// ParseSinks extracts the Sinks section from wpctl status output.
// The section looks like:
//
//	├─ Sinks:
//	│  *   43. Astro A50 Analog Stereo      [vol: 0.74]
//	│      55. AirPods Pro                  [vol: 1.00]
//	├─ Sources:
func ParseSinks(statusOutput string) []Sink {
	var sinks []Sink
	inSinks := false

	for _, line := range strings.Split(statusOutput, "\n") {
		trimmed := strings.TrimLeft(line, " │├└─")
		if strings.HasPrefix(trimmed, "Sinks:") {
			inSinks = true
			continue
		}
		if inSinks && strings.HasSuffix(strings.TrimSpace(trimmed), ":") {
			// Next section header (Sources:, Filters:, ...) ends the block.
			break
		}
		if !inSinks {
			continue
		}

		entry := strings.TrimSpace(trimmed)
		if entry == "" {
			continue
		}

		isDefault := false
		if strings.HasPrefix(entry, "*") {
			isDefault = true
			entry = strings.TrimSpace(strings.TrimPrefix(entry, "*"))
		}

		dot := strings.Index(entry, ".")
		if dot <= 0 {
			continue
		}
		id, err := strconv.Atoi(entry[:dot])
		if err != nil {
			continue
		}

		name := strings.TrimSpace(entry[dot+1:])
		// Strip the trailing volume annotation.
		if idx := strings.LastIndex(name, "["); idx > 0 {
			name = strings.TrimSpace(name[:idx])
		}

		sinks = append(sinks, Sink{ID: id, Name: name, Default: isDefault})
	}

	return sinks
}

// FindSink returns the first sink whose name contains match
// (case-insensitive).
func FindSink(sinks []Sink, match string) (Sink, bool) {
	needle := strings.ToLower(match)
	for _, s := range sinks {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			return s, true
		}
	}
	return Sink{}, false
}

// DefaultSink returns the sink currently marked as default.
func DefaultSink(sinks []Sink) (Sink, bool) {
	for _, s := range sinks {
		if s.Default {
			return s, true
		}
	}
	return Sink{}, false
}

// SetDefaultSink makes the given sink the system default output.
func SetDefaultSink(id int) error {
	_, err := runner.Capture("wpctl", "set-default", strconv.Itoa(id))
	if err != nil {
		return fmt.Errorf("failed to set default sink %d: %w", id, err)
	}
	return nil
}
