// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/logger"
)

// configCmd is the parent command for all configuration-related subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dotkit configuration",
	Long: `Provides subcommands to inspect and adjust the dotkit configuration:
audio profiles, keybind cheat-sheet settings, and tunnel defaults.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.DefaultConfigPath()
		if err != nil {
			logger.Errorf("Error determining config path: %v", err)
			os.Exit(1)
		}
		fmt.Println(path)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the effective configuration (defaults applied)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		data, err := yaml.Marshal(cfg)
		if err != nil {
			logger.Errorf("Error rendering configuration: %v", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	},
}

var configSetKeybindsSourceCmd = &cobra.Command{
	Use:   "set-keybinds-source <path>",
	Short: "Set the Hyprland config parsed for keybindings",
	Long: `Sets the file the cheat-sheet is generated from. Use an absolute path
or a path starting with '~/'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := args[0]
		if !strings.HasPrefix(source, "/") && !strings.HasPrefix(source, "~/") {
			logger.Error("Error: Path must be absolute or start with '~/'")
			os.Exit(1)
		}

		cfg := mustLoadConfig()
		cfg.Keybinds.Source = source

		if err := config.SaveConfig(cfg); err != nil {
			logger.Errorf("Error saving configuration: %v", err)
			os.Exit(1)
		}
		successColor.Printf("Keybinds source set to: %s\n", source)
	},
}

var configSetViewerCmd = &cobra.Command{
	Use:   "set-viewer <command> [args...]",
	Short: "Set the overlay viewer command for the cheat-sheet",
	Long: `Sets the command used to display the keybinding cheat-sheet overlay.
The sheet file path is appended as the final argument. Flags after the
command name belong to the viewer and are stored verbatim.

Example:
  dotkit config set-viewer zenity --text-info --filename`,
	// The argv almost always contains the viewer's own flags; take it raw.
	DisableFlagParsing: true,
	Args:               cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if args[0] == "-h" || args[0] == "--help" {
			_ = cmd.Help()
			return
		}
		if err := validateViewerArgs(args); err != nil {
			logger.Errorf("Error: %v", err)
			os.Exit(1)
		}

		cfg := mustLoadConfig()
		cfg.Keybinds.Viewer = args

		if err := config.SaveConfig(cfg); err != nil {
			logger.Errorf("Error saving configuration: %v", err)
			os.Exit(1)
		}
		successColor.Printf("Overlay viewer set to: %s\n", strings.Join(args, " "))
	},
}

// validateViewerArgs checks a raw viewer argv: the first token must be the
// viewer binary, not one of its flags.
func validateViewerArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("viewer command required")
	}
	if strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("first argument must be the viewer command, got flag '%s'", args[0])
	}
	return nil
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetKeybindsSourceCmd)
	configCmd.AddCommand(configSetViewerCmd)
	rootCmd.AddCommand(configCmd)
}
