// SPDX-License-Identifier: Apache-2.0

package ui

import "github.com/devxalted/dotkit/internal/tunnel"

// tunnelsLoadedMsg carries the result of a tunnel list refresh.
type tunnelsLoadedMsg struct {
	tunnels []tunnel.Info
}

// actionDoneMsg signals that a start/stop/restart finished successfully.
type actionDoneMsg struct {
	summary string
}

// logsLoadedMsg carries a tail of a tunnel's log file.
type logsLoadedMsg struct {
	name  string
	lines []string
}

// errorMsg wraps any failure for display in the error view.
type errorMsg struct {
	err error
}
