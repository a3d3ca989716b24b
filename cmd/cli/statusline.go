// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/statusline"
)

var statuslineCmd = &cobra.Command{
	Use:   "statusline",
	Short: "Render the prompt status line from a JSON payload on stdin",
	Long: `Reads a JSON payload from stdin (working directory, model name,
context-window usage), detects git branch and dirty state for the working
directory, and prints a single ANSI-colored status line.

Intended to be wired as a status hook, e.g.:
  dotkit statusline <<< '{"workspace":{"current_dir":"/home/me/src"}}'`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		in, err := statusline.ParseInput(os.Stdin)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			logger.Error("statusline input rejected", "error", err)
			os.Exit(1)
		}

		git := statusline.CollectGitInfo(in.Workspace.CurrentDir)
		fmt.Println(statusline.Render(in, git))
	},
}

func init() {
	rootCmd.AddCommand(statuslineCmd)
}
