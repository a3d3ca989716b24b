// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/keybinds"
	"github.com/devxalted/dotkit/internal/logger"
)

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Show or toggle the keybinding cheat-sheet",
	Long: `Parses bind lines from the Hyprland config and renders them as an
aligned cheat-sheet. 'toggle' shows the sheet in a GUI overlay and closes it
on the next invocation, tracked by a PID file, so it can be bound to a single
key.`,
}

var keybindsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cheat-sheet to stdout",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		source, err := config.ResolvePath(cfg.Keybinds.Source)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		binds, err := keybinds.ParseFile(source)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(keybinds.FormatSheet(binds))
	},
}

var keybindsToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the cheat-sheet overlay window",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		opened, err := keybinds.Toggle(cfg)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			logger.Error("keybinds toggle failed", "error", err)
			os.Exit(1)
		}

		if opened {
			successColor.Println("Keybinds overlay opened.")
		} else {
			successColor.Println("Keybinds overlay closed.")
		}
	},
}

func init() {
	keybindsCmd.AddCommand(keybindsShowCmd)
	keybindsCmd.AddCommand(keybindsToggleCmd)
	rootCmd.AddCommand(keybindsCmd)
}
