// SPDX-License-Identifier: Apache-2.0

// Package ui implements the interactive tunnel dashboard shown when dotkit
// is launched without arguments.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devxalted/dotkit/internal/tunnel"
)

type state int

const (
	stateLoading state = iota
	stateList
	stateRunningAction
	stateLogs
	stateError
)

type model struct {
	manager *tunnel.Manager

	tunnels      []tunnel.Info
	cursor       int
	currentState state
	actionLabel  string
	logsTitle    string
	logsLines    []string
	err          error
	spin         spinner.Model
	width        int
	height       int
}

// NewModel builds the dashboard model around a tunnel manager.
func NewModel(manager *tunnel.Manager) tea.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{
		manager:      manager,
		currentState: stateLoading,
		spin:         s,
	}
}

// --- Commands ---

func loadTunnelsCmd(manager *tunnel.Manager) tea.Cmd {
	return func() tea.Msg {
		infos, err := manager.List()
		if err != nil {
			return errorMsg{err}
		}
		return tunnelsLoadedMsg{infos}
	}
}

func startTunnelCmd(manager *tunnel.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		pid, err := manager.Start(name, "")
		if err != nil {
			return errorMsg{fmt.Errorf("start %s: %w", name, err)}
		}
		return actionDoneMsg{fmt.Sprintf("started %s (pid %d)", name, pid)}
	}
}

func stopTunnelCmd(manager *tunnel.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		if err := manager.Stop(name); err != nil {
			return errorMsg{fmt.Errorf("stop %s: %w", name, err)}
		}
		return actionDoneMsg{fmt.Sprintf("stopped %s", name)}
	}
}

func restartTunnelCmd(manager *tunnel.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		pid, err := manager.Restart(name, "")
		if err != nil {
			return errorMsg{fmt.Errorf("restart %s: %w", name, err)}
		}
		return actionDoneMsg{fmt.Sprintf("restarted %s (pid %d)", name, pid)}
	}
}

func loadLogsCmd(name string) tea.Cmd {
	return func() tea.Msg {
		lines, err := tunnel.TailLogs(name, 30)
		if err != nil {
			return errorMsg{err}
		}
		return logsLoadedMsg{name: name, lines: lines}
	}
}

// --- Model implementation ---

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadTunnelsCmd(m.manager))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tunnelsLoadedMsg:
		m.tunnels = msg.tunnels
		m.currentState = stateList
		if m.cursor >= len(m.tunnels) {
			m.cursor = 0
		}

	case actionDoneMsg:
		m.actionLabel = msg.summary
		m.currentState = stateLoading
		return m, loadTunnelsCmd(m.manager)

	case logsLoadedMsg:
		m.logsTitle = msg.name
		m.logsLines = msg.lines
		m.currentState = stateLogs

	case errorMsg:
		m.err = msg.err
		m.currentState = stateError
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.currentState {
	case stateList:
		return m.handleListKey(msg)

	case stateLogs, stateError:
		switch {
		case msg.Type == tea.KeyEnter, msg.Type == tea.KeyEsc, msg.String() == "b":
			m.err = nil
			m.logsLines = nil
			m.currentState = stateLoading
			return m, loadTunnelsCmd(m.manager)
		case msg.String() == "q":
			return m, tea.Quit
		}

	default:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.tunnels)-1 {
			m.cursor++
		}

	case "s":
		if t, ok := m.selected(); ok && !t.Running {
			m.actionLabel = "starting " + t.Name
			m.currentState = stateRunningAction
			return m, startTunnelCmd(m.manager, t.Name)
		}

	case "x":
		if t, ok := m.selected(); ok && t.Running {
			m.actionLabel = "stopping " + t.Name
			m.currentState = stateRunningAction
			return m, stopTunnelCmd(m.manager, t.Name)
		}

	case "r":
		if t, ok := m.selected(); ok {
			m.actionLabel = "restarting " + t.Name
			m.currentState = stateRunningAction
			return m, restartTunnelCmd(m.manager, t.Name)
		}

	case "l":
		if t, ok := m.selected(); ok {
			return m, loadLogsCmd(t.Name)
		}

	case "R":
		m.currentState = stateLoading
		return m, loadTunnelsCmd(m.manager)
	}

	return m, nil
}

func (m model) selected() (tunnel.Info, bool) {
	if len(m.tunnels) == 0 || m.cursor >= len(m.tunnels) {
		return tunnel.Info{}, false
	}
	return m.tunnels[m.cursor], true
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("dotkit tunnels"))
	sb.WriteString("\n\n")

	switch m.currentState {
	case stateLoading:
		sb.WriteString(m.spin.View())
		sb.WriteString(" loading tunnels...")
		if m.actionLabel != "" {
			sb.WriteString(dimStyle.Render(" (" + m.actionLabel + ")"))
		}
		sb.WriteString("\n")

	case stateList:
		if len(m.tunnels) == 0 {
			sb.WriteString("No tunnels configured.\n")
		}
		for i, t := range m.tunnels {
			cursor := "  "
			if m.cursor == i {
				cursor = cursorStyle.Render("> ")
			}
			status := statusDownStyle.Render("stopped")
			if t.Running {
				status = statusUpStyle.Render(fmt.Sprintf("running pid %d", t.PID))
			}
			sb.WriteString(fmt.Sprintf("%s%-20s %s %s\n",
				cursor, t.Name, status, dimStyle.Render(t.ID)))
		}
		sb.WriteString("\n")
		sb.WriteString(footer([]string{"↑/k ↓/j", "navigate"}, []string{"s", "start"},
			[]string{"x", "stop"}, []string{"r", "restart"}, []string{"l", "logs"},
			[]string{"R", "refresh"}, []string{"q", "quit"}))

	case stateRunningAction:
		sb.WriteString(m.spin.View())
		sb.WriteString(" " + m.actionLabel + "...\n")

	case stateLogs:
		sb.WriteString(identifierStyle.Render("logs: "+m.logsTitle) + "\n\n")
		for _, line := range m.logsLines {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n" + footer([]string{"enter/esc/b", "back"}, []string{"q", "quit"}))

	case stateError:
		sb.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
		sb.WriteString("\n" + footer([]string{"enter/esc/b", "back"}, []string{"q", "quit"}))
	}

	return sb.String()
}

// footer renders the key legend line.
func footer(entries ...[]string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, footerKeyStyle.Render(e[0])+" "+footerStyle.Render(e[1]))
	}
	return dimStyle.Render(strings.Join(parts, " | "))
}
