// SPDX-License-Identifier: Apache-2.0

package statusline

import (
	"strings"

	"github.com/devxalted/dotkit/internal/runner"
)

// GitInfo describes the repository state of a directory.
type GitInfo struct {
	IsRepo bool
	Branch string
	Dirty  bool
}

// CollectGitInfo queries git for the branch and dirty state of dir.
// A directory outside any work tree (or a missing git binary) yields the
// zero value; the status line silently drops the segment.
func CollectGitInfo(dir string) GitInfo {
	if dir == "" {
		return GitInfo{}
	}
	if err := runner.LookPath("git"); err != nil {
		return GitInfo{}
	}

	res, err := runner.Capture("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return GitInfo{}
	}
	branch := strings.TrimSpace(res.Stdout)
	if branch == "" {
		return GitInfo{}
	}

	info := GitInfo{IsRepo: true, Branch: branch}

	res, err = runner.Capture("git", "-C", dir, "status", "--porcelain")
	if err == nil && strings.TrimSpace(res.Stdout) != "" {
		info.Dirty = true
	}

	return info
}
