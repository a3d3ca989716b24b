// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/tunnel"
	"github.com/devxalted/dotkit/internal/ui"
)

// RunTUI initializes and runs the Bubble Tea tunnel dashboard.
func RunTUI() {
	logger.InitLogger(true)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	manager, err := tunnel.NewManager(cfg.Tunnel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing tunnel manager: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(ui.NewModel(manager))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
