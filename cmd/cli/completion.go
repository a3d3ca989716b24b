// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/tunnel"
)

// audioProfileCompletionFunc completes configured audio profile names.
func audioProfileCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	completions := make([]string, 0, len(cfg.AudioProfiles))
	for _, p := range cfg.AudioProfiles {
		entry := p.Name
		if p.Description != "" {
			entry += "\t" + p.Description
		}
		completions = append(completions, entry)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// tunnelCompletionFunc completes tunnel names known to cloudflared.
// Errors are swallowed: completion must never break the shell.
func tunnelCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	if tunnelCert != "" {
		cfg.Tunnel.Cert = tunnelCert
	}

	manager, err := tunnel.NewManager(cfg.Tunnel)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	infos, err := manager.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	completions := make([]string, 0, len(infos))
	for _, info := range infos {
		state := "stopped"
		if info.Running {
			state = "running"
		}
		completions = append(completions, info.Name+"\t"+state)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
