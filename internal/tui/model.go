// Package tui renders live suite progress in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"votebench/internal/harness"
)

const tickInterval = 200 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")).MarginBottom(1)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	subtle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

// Model polls the suite on a tick and drains runner snapshots for the
// latency view. It quits itself once the suite reports done.
type Model struct {
	Suite    *harness.Suite
	Updates  chan harness.Snapshot
	Progress progress.Model

	last     harness.Snapshot
	quitting bool
	width    int
}

func NewModel(suite *harness.Suite, updates chan harness.Snapshot) Model {
	return Model{
		Suite:    suite,
		Updates:  updates,
		Progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.Progress.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		m.drainUpdates()

		p := m.Suite.Progress()
		if p.Done {
			m.quitting = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		if p.Current > 0 && !p.CoolingDown {
			pct := float64(m.last.Elapsed) / float64(p.Config.Duration())
			if pct > 1.0 {
				pct = 1.0
			}
			cmd = m.Progress.SetPercent(pct)
		}
		return m, tea.Batch(cmd, tickCmd())

	case progress.FrameMsg:
		progressModel, cmd := m.Progress.Update(msg)
		m.Progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m *Model) drainUpdates() {
	for {
		select {
		case s := <-m.Updates:
			m.last = s
		default:
			return
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("votebench"))
	s.WriteString("\n")

	p := m.Suite.Progress()
	if p.Total == 0 {
		s.WriteString(subtle.Render("starting..."))
		return s.String()
	}

	s.WriteString(fmt.Sprintf("experiment %d/%d: %s\n", p.Current, p.Total, p.Config))
	if p.CoolingDown {
		s.WriteString(subtle.Render("cooling down before the next configuration"))
		s.WriteString("\n\n")
	} else {
		s.WriteString(subtle.Render(fmt.Sprintf("elapsed %s of %s",
			m.last.Elapsed.Round(time.Second), p.Config.Duration())))
		s.WriteString("\n\n")
		s.WriteString(m.Progress.View())
		s.WriteString("\n\n")
	}

	snap := m.last.Live
	s.WriteString(fmt.Sprintf("queries: %d\n", snap.Queries))
	s.WriteString(fmt.Sprintf("votes:   %d ok / %d failed\n", snap.Votes, snap.VoteFails))
	if snap.Errors > 0 {
		s.WriteString(errStyle.Render(fmt.Sprintf("errors:  %d", snap.Errors)))
		s.WriteString("\n")
	}
	s.WriteString(fmt.Sprintf("latency: p50 %.1fms  p95 %.1fms  p99 %.1fms  max %.1fms\n",
		snap.P50Ms, snap.P95Ms, snap.P99Ms, snap.MaxMs))

	s.WriteString("\n")
	s.WriteString(subtle.Render("q to quit"))
	return s.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
