// SPDX-License-Identifier: Apache-2.0

// Package notify emits desktop notifications via notify-send. Notifications
// are decorative: every failure path is a silent no-op.
package notify

import (
	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/runner"
)

// Send shows a desktop notification, best-effort.
func Send(summary, body string) {
	if err := runner.LookPath("notify-send"); err != nil {
		logger.Debug("notify-send unavailable, skipping notification")
		return
	}
	if _, err := runner.Capture("notify-send", summary, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}
