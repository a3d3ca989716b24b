// SPDX-License-Identifier: Apache-2.0

// Package cli defines the dotkit command-line surface. Each file registers
// one subcommand tree against the root command defined here.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/logger"
)

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	stepColor       = color.New(color.FgYellow)
	successColor    = color.New(color.FgGreen)
	statusUpColor   = color.New(color.FgGreen)
	statusDownColor = color.New(color.FgRed)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "dotkit",
	Short: "Dotfiles toolbox CLI",
	Long: `A command-line toolbox for a Hyprland desktop: prompt status line,
audio output switching, keybinding cheat-sheet overlay, Cloudflare tunnel
management, and shell helper functions.

Run without arguments to open the interactive tunnel dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.InitLogger(false)
		return config.EnsureConfigDir()
	},
	SilenceUsage: true,
}

// RunCLI executes the root command, exiting non-zero on failure.
func RunCLI() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
