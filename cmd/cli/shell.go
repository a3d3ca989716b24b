// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/archive"
	"github.com/devxalted/dotkit/internal/util"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Shell integration helpers",
}

var shellInitCmd = &cobra.Command{
	Use:   "init <bash|zsh>",
	Short: "Print the shell function library for eval",
	Long: `Prints the dotkit shell function library (mkcd, up, gz, extract, fif,
gcl, backup, ducks). Add to your rc file:

  eval "$(dotkit shell init zsh)"`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh"},
	Run: func(cmd *cobra.Command, args []string) {
		shell := args[0]
		if shell != "bash" && shell != "zsh" {
			errorColor.Fprintf(os.Stderr, "Error: unsupported shell '%s' (bash or zsh)\n", shell)
			os.Exit(1)
		}

		// Functions call dotkit by absolute path so they keep working when
		// the binary is not on PATH in every context.
		self, err := os.Executable()
		if err != nil {
			self = "dotkit"
		}
		fmt.Print(functionLibrary(util.QuoteArgForShell(self)))
	},
}

// functionLibrary renders the POSIX-compatible function set. Pure shell
// one-liners are emitted verbatim; extract and backup delegate to dotkit.
func functionLibrary(dotkit string) string {
	return `# dotkit shell functions
mkcd() { mkdir -p -- "$1" && cd -- "$1"; }
up() {
  _n=${1:-1}
  while [ "$_n" -gt 0 ]; do cd ..; _n=$((_n - 1)); done
  unset _n
}
gz() { tar -czf "${1%/}.tar.gz" -- "$1"; }
extract() { ` + dotkit + ` extract "$@"; }
fif() { grep -rnI --color=auto -- "$1" .; }
gcl() { git clone -- "$1" && cd -- "$(basename -- "$1" .git)"; }
backup() { ` + dotkit + ` backup "$@"; }
ducks() { du -cks -- * 2>/dev/null | sort -rn | head -n 11; }
`
}

var extractCmd = &cobra.Command{
	Use:     "extract <archive>",
	Short:   "Extract an archive using the right system tool",
	Example: "  dotkit extract site-backup.tar.gz",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := archive.Extract(args[0]); err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var backupCmd = &cobra.Command{
	Use:     "backup <file>",
	Short:   "Create a timestamped .bak copy of a file",
	Example: "  dotkit backup ~/.config/hypr/hyprland.conf",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backupPath, err := archive.Backup(args[0])
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Backed up to %s\n", backupPath)
	},
}

func init() {
	shellCmd.AddCommand(shellInitCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(backupCmd)
}
