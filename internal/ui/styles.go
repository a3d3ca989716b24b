// SPDX-License-Identifier: Apache-2.0

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	statusUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	identifierStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	footerKeyStyle = lipgloss.NewStyle().Inherit(footerStyle).Foreground(lipgloss.Color("39"))
)
