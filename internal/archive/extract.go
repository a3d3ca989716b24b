// SPDX-License-Identifier: Apache-2.0

// Package archive implements the extract and backup helpers behind the
// shell function library.
package archive

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/devxalted/dotkit/internal/runner"
)

// extractors maps archive extensions to the system tool that unpacks them.
// Longer extensions are matched first so .tar.gz wins over .gz.
var extractors = map[string]func(path string) runner.CommandStep{
	".tar.gz":  func(p string) runner.CommandStep { return step("tar", "xzf", p) },
	".tgz":     func(p string) runner.CommandStep { return step("tar", "xzf", p) },
	".tar.bz2": func(p string) runner.CommandStep { return step("tar", "xjf", p) },
	".tbz2":    func(p string) runner.CommandStep { return step("tar", "xjf", p) },
	".tar.xz":  func(p string) runner.CommandStep { return step("tar", "xJf", p) },
	".tar":     func(p string) runner.CommandStep { return step("tar", "xf", p) },
	".zip":     func(p string) runner.CommandStep { return step("unzip", p) },
	".gz":      func(p string) runner.CommandStep { return step("gunzip", p) },
	".bz2":     func(p string) runner.CommandStep { return step("bunzip2", p) },
	".xz":      func(p string) runner.CommandStep { return step("unxz", p) },
	".7z":      func(p string) runner.CommandStep { return step("7z", "x", p) },
	".rar":     func(p string) runner.CommandStep { return step("unrar", "x", p) },
}

func step(command string, args ...string) runner.CommandStep {
	return runner.CommandStep{Name: "extract", Command: command, Args: args}
}

// SupportedExtensions lists the recognised archive extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Plan resolves the command used to extract the archive at path.
func Plan(path string) (runner.CommandStep, error) {
	lower := strings.ToLower(path)

	// Longest match first so compound extensions beat their suffixes.
	best := ""
	for ext := range extractors {
		if strings.HasSuffix(lower, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		return runner.CommandStep{}, fmt.Errorf(
			"don't know how to extract %s (supported: %s)",
			path, strings.Join(SupportedExtensions(), " "))
	}

	return extractors[best](path), nil
}

// Extract unpacks the archive at path into the current directory,
// streaming tool output to the terminal.
func Extract(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot extract %s: %w", path, err)
	}

	plan, err := Plan(path)
	if err != nil {
		return err
	}
	if err := runner.LookPath(plan.Command); err != nil {
		return err
	}

	_, errChan := runner.StreamCommand(plan, true)
	if err := <-errChan; err != nil {
		return err
	}
	return nil
}
