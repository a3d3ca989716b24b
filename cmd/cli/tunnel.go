// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/tunnel"
)

var (
	tunnelCert        string
	tunnelConfigFile  string
	tunnelLogLines    int
	tunnelCreatePort  int
	tunnelCreateHost  string
	tunnelNoStart     bool
	tunnelUpdatePort  int
	tunnelUpdateHost  string
	tunnelDoRestart   bool
	tunnelForceDelete bool
)

var tunnelCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Manage Cloudflare tunnels as background processes",
	Long: `Manages cloudflared tunnels. Running tunnels are tracked by PID and log
files in the runtime directory; everything else is delegated to cloudflared.`,
}

var tunnelListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"status"},
	Short:   "List tunnels with their run state",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		manager := mustTunnelManager()

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Color("cyan")
		s.Suffix = " Querying cloudflared..."
		s.Start()
		infos, err := manager.List()
		s.Stop()

		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(infos) == 0 {
			fmt.Println("No tunnels found.")
			return
		}

		fmt.Printf("%-20s %-38s %-22s %s\n", "NAME", "ID", "CREATED", "STATUS")
		for _, info := range infos {
			status := statusDownColor.Sprint("stopped")
			if info.Running {
				status = statusUpColor.Sprintf("running (pid %d)", info.PID)
			}
			fmt.Printf("%-20s %-38s %-22s %s\n", info.Name, dimColor.Sprint(info.ID), info.CreatedAt, status)
		}
	},
}

var tunnelStartCmd = &cobra.Command{
	Use:               "start <name>",
	Short:             "Start a tunnel in the background",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: tunnelCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		manager := mustTunnelManager()

		pid, err := manager.Start(args[0], tunnelConfigFile)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			logger.Error("tunnel start failed", "tunnel", args[0], "error", err)
			os.Exit(1)
		}
		successColor.Printf("Started tunnel '%s' (pid %d).\n", args[0], pid)
		fmt.Printf("Log file: %s\n", tunnel.LogFilePath(args[0]))
	},
}

var tunnelStopCmd = &cobra.Command{
	Use:               "stop <name>",
	Short:             "Stop a running tunnel",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: tunnelCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		manager := mustTunnelManager()

		if err := manager.Stop(args[0]); err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Stopped tunnel '%s'.\n", args[0])
	},
}

var tunnelRestartCmd = &cobra.Command{
	Use:               "restart <name>",
	Short:             "Restart a tunnel",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: tunnelCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		manager := mustTunnelManager()

		statusColor.Printf("Restarting tunnel '%s'...\n", args[0])
		pid, err := manager.Restart(args[0], tunnelConfigFile)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Restarted tunnel '%s' (pid %d).\n", args[0], pid)
	},
}

var tunnelLogsCmd = &cobra.Command{
	Use:               "logs <name>",
	Short:             "Show the last lines of a tunnel's log",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: tunnelCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		lines, err := tunnel.TailLogs(args[0], tunnelLogLines)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	},
}

var tunnelCreateCmd = &cobra.Command{
	Use:     "create <name>",
	Short:   "Create a tunnel routing a hostname to a local port",
	Example: "  dotkit tunnel create blog -p 3000 -u blog.example.com",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if tunnelCreatePort <= 0 || tunnelCreateHost == "" {
			errorColor.Fprintln(os.Stderr, "Error: both --port and --url are required.")
			os.Exit(1)
		}

		manager := mustTunnelManager()

		statusColor.Printf("Creating tunnel '%s'...\n", name)
		result, err := manager.Create(name, tunnelCreateHost, tunnelCreatePort)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		successColor.Printf("Created tunnel '%s' (%s).\n", name, result.TunnelID)
		fmt.Printf("Config file: %s\n", result.ConfigPath)
		fmt.Printf("Public URL:  https://%s -> localhost:%d\n", tunnelCreateHost, tunnelCreatePort)

		if result.DNSRouted {
			successColor.Println("DNS route created.")
		} else {
			stepColor.Println("\nManual DNS setup required. Add this record in the Cloudflare dashboard:")
			fmt.Printf("  Type:   CNAME\n  Name:   %s\n  Target: %s\n  Proxy:  enabled\n",
				strings.SplitN(tunnelCreateHost, ".", 2)[0], result.DNSTarget)
		}

		if tunnelNoStart {
			fmt.Printf("\nTo start the tunnel, run: dotkit tunnel start %s\n", name)
			return
		}

		statusColor.Println("\nStarting tunnel...")
		pid, err := manager.Start(name, result.ConfigPath)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Tunnel created but failed to start: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Tunnel is active (pid %d).\n", pid)
	},
}

var tunnelUpdateCmd = &cobra.Command{
	Use:               "update <name>",
	Short:             "Update a tunnel's port and/or hostname",
	Example:           "  dotkit tunnel update blog -p 8080\n  dotkit tunnel update blog -u new.example.com --restart",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: tunnelCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if tunnelUpdatePort <= 0 && tunnelUpdateHost == "" {
			errorColor.Fprintln(os.Stderr, "Error: nothing to update. Use --port and/or --url.")
			os.Exit(1)
		}

		manager := mustTunnelManager()

		cfg, err := manager.Update(name, tunnelUpdateHost, tunnelUpdatePort)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		successColor.Printf("Updated tunnel '%s'.\n", name)
		fmt.Printf("Public URL: https://%s -> localhost:%d\n", cfg.Hostname(), cfg.Port())

		if !tunnelDoRestart {
			return
		}
		if _, running := manager.IsRunning(name); !running {
			return
		}
		statusColor.Println("Restarting tunnel to apply config...")
		pid, err := manager.Restart(name, "")
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Tunnel restarted (pid %d).\n", pid)
	},
}

var tunnelDeleteCmd = &cobra.Command{
	Use:               "delete <name>",
	Short:             "Delete a tunnel and its local files",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: tunnelCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		manager := mustTunnelManager()

		if !tunnelForceDelete {
			fmt.Printf("Delete tunnel '%s'? This cannot be undone. (y/N): ", name)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Deletion cancelled.")
				return
			}
		}

		if err := manager.Delete(name); err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Deleted tunnel '%s'.\n", name)
	},
}

// mustTunnelManager builds a tunnel manager from config plus the --cert
// override, exiting on failure.
func mustTunnelManager() *tunnel.Manager {
	cfg := mustLoadConfig()
	if tunnelCert != "" {
		cfg.Tunnel.Cert = tunnelCert
	}

	manager, err := tunnel.NewManager(cfg.Tunnel)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error initializing tunnel manager: %v\n", err)
		os.Exit(1)
	}
	return manager
}

func init() {
	tunnelCmd.PersistentFlags().StringVar(&tunnelCert, "cert", "", "origin certificate to use (filename under the cloudflared dir, or a path)")

	tunnelStartCmd.Flags().StringVarP(&tunnelConfigFile, "config", "c", "", "config file path (optional)")
	tunnelRestartCmd.Flags().StringVarP(&tunnelConfigFile, "config", "c", "", "config file path (optional)")
	tunnelLogsCmd.Flags().IntVarP(&tunnelLogLines, "lines", "n", 50, "number of lines to show")

	tunnelCreateCmd.Flags().IntVarP(&tunnelCreatePort, "port", "p", 0, "local port of the hosted application")
	tunnelCreateCmd.Flags().StringVarP(&tunnelCreateHost, "url", "u", "", "hostname to route (e.g. app.example.com)")
	tunnelCreateCmd.Flags().BoolVar(&tunnelNoStart, "no-start", false, "do not start the tunnel after creation")

	tunnelUpdateCmd.Flags().IntVarP(&tunnelUpdatePort, "port", "p", 0, "new local port")
	tunnelUpdateCmd.Flags().StringVarP(&tunnelUpdateHost, "url", "u", "", "new hostname")
	tunnelUpdateCmd.Flags().BoolVar(&tunnelDoRestart, "restart", false, "restart the tunnel after updating if running")

	tunnelDeleteCmd.Flags().BoolVarP(&tunnelForceDelete, "force", "f", false, "delete without confirmation")

	tunnelCmd.AddCommand(tunnelListCmd)
	tunnelCmd.AddCommand(tunnelStartCmd)
	tunnelCmd.AddCommand(tunnelStopCmd)
	tunnelCmd.AddCommand(tunnelRestartCmd)
	tunnelCmd.AddCommand(tunnelLogsCmd)
	tunnelCmd.AddCommand(tunnelCreateCmd)
	tunnelCmd.AddCommand(tunnelUpdateCmd)
	tunnelCmd.AddCommand(tunnelDeleteCmd)
	rootCmd.AddCommand(tunnelCmd)
}
