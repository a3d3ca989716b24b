// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/audio"
	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/notify"
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Switch and inspect audio output devices",
	Long: `Manages the default PipeWire output sink. Profiles are defined in the
dotkit config file; Bluetooth profiles are connected via bluetoothctl before
the sink is activated.`,
}

var audioSwitchCmd = &cobra.Command{
	Use:               "switch <profile>",
	Short:             "Switch the default output to a configured profile",
	Example:           "  dotkit audio switch airpods\n  dotkit audio switch hdmi",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: audioProfileCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profile, ok := cfg.FindAudioProfile(args[0])
		if !ok {
			names := make([]string, 0, len(cfg.AudioProfiles))
			for _, p := range cfg.AudioProfiles {
				names = append(names, p.Name)
			}
			errorColor.Fprintf(os.Stderr, "Error: unknown audio profile '%s'\n", args[0])
			fmt.Fprintf(os.Stderr, "Usage: dotkit audio switch {%s}\n", strings.Join(names, "|"))
			os.Exit(1)
		}

		statusColor.Printf("Switching audio output to %s...\n", identifierColor.Sprint(profile.Name))

		sink, err := audio.Switch(profile)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			logger.Error("audio switch failed", "profile", profile.Name, "error", err)
			os.Exit(1)
		}

		description := profile.Description
		if description == "" {
			description = sink.Name
		}
		notify.Send("Audio output", "Switched to "+description)
		successColor.Printf("Default sink is now %s (id %d).\n", sink.Name, sink.ID)
	},
}

var audioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles and available sinks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		fmt.Println("Configured profiles:")
		for _, p := range cfg.AudioProfiles {
			kind := "pipewire"
			if p.Bluetooth {
				kind = "bluetooth " + p.MAC
			}
			fmt.Printf("  %-12s %s %s\n", identifierColor.Sprint(p.Name),
				p.Description, dimColor.Sprintf("(%s, match %q)", kind, p.SinkMatch))
		}

		sinks, err := audio.ListSinks()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "\nError listing sinks: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\nAvailable sinks:")
		for _, s := range sinks {
			marker := " "
			if s.Default {
				marker = successColor.Sprint("*")
			}
			fmt.Printf("  %s %3d. %s\n", marker, s.ID, s.Name)
		}
	},
}

var audioStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current default sink",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sinks, err := audio.ListSinks()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		sink, ok := audio.DefaultSink(sinks)
		if !ok {
			fmt.Println("No default sink set.")
			os.Exit(1)
		}
		fmt.Printf("Default sink: %s (id %d)\n", identifierColor.Sprint(sink.Name), sink.ID)
	},
}

func init() {
	audioCmd.AddCommand(audioSwitchCmd)
	audioCmd.AddCommand(audioListCmd)
	audioCmd.AddCommand(audioStatusCmd)
	rootCmd.AddCommand(audioCmd)
}

// mustLoadConfig loads the config or exits; shared by the command Run funcs.
func mustLoadConfig() config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
