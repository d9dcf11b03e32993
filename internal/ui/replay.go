package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/swarmscope/swarmscope/internal/playback"
	"github.com/swarmscope/swarmscope/internal/sink"
)

// replayFrameMsg carries a pushed playback frame into the Bubble Tea loop.
type replayFrameMsg struct {
	frame sink.ReplayFrame
}

// replayModel is the replay-mode view: a position/status bar, the current
// event detail in a viewport, and the derived participant tally.
type replayModel struct {
	viewport viewport.Model
	title    string
	ready    bool

	ctrl  *playback.Controller
	frame sink.ReplayFrame
}

func newReplayModel(title string, ctrl *playback.Controller) *replayModel {
	return &replayModel{title: title, ctrl: ctrl}
}

// Init nudges the controller so the opening frame is pushed once the
// program is receiving messages.
func (m *replayModel) Init() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Reset()
		return nil
	}
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case replayFrameMsg:
		m.frame = msg.frame
		if m.ready {
			m.viewport.SetContent(m.renderDetail())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.frame.Playback.Playing {
				m.ctrl.Pause()
			} else {
				m.ctrl.Play()
			}
		case "right", "l", "n":
			m.ctrl.Advance()
		case "left", "h", "p":
			m.ctrl.Retreat()
		case "+", "=":
			m.ctrl.SetSpeed(m.frame.Playback.Speed * 2)
		case "-", "_":
			m.ctrl.SetSpeed(m.frame.Playback.Speed / 2)
		case "r":
			m.ctrl.Reset()
		}

	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.viewport.SetContent(m.renderDetail())
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)
	return m, tea.Batch(cmds...)
}

func (m *replayModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	title := titleStyle.Render(m.title)
	line := strings.Repeat("─", max(0, m.viewport.Width-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, dimStyle.Render(line))

	help := helpStyle.Render(" space: play/pause │ ←/→: step │ +/-: speed │ r: reset │ q: quit ")

	return header + "\n" + m.renderPosition() + "\n" + m.viewport.View() + "\n" + help
}

// renderPosition renders the position/status bar.
func (m *replayModel) renderPosition() string {
	pb := m.frame.Playback
	state := dimStyle.Render("⏸ paused")
	if pb.Playing {
		state = successStyle.Render("▶ playing")
	}
	if pb.State == playback.StateStopped {
		state = dimStyle.Render("■ stopped")
	}

	pos := "-"
	if pb.Position >= 0 {
		pos = fmt.Sprintf("%d/%d", pb.Position+1, pb.Length)
	}
	return fmt.Sprintf(" %s  %s %s  %s %s",
		state,
		labelStyle.Render("event:"), valueStyle.Render(pos),
		labelStyle.Render("speed:"), valueStyle.Render(fmt.Sprintf("%gx", pb.Speed)))
}

// renderDetail renders the current event and its derived tally.
func (m *replayModel) renderDetail() string {
	ev := m.frame.Event
	if ev == nil {
		return "\n  " + dimStyle.Render("No decision records loaded.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(" " + labelStyle.Render("Time:    ") + valueStyle.Render(ev.Timestamp.Format(time.RFC3339)) + "\n")
	b.WriteString(" " + labelStyle.Render("Type:    ") + consensusStyle.Render(ev.EventType) + "\n")
	b.WriteString(" " + labelStyle.Render("Status:  ") + statusStyle(ev.Status).Render(string(ev.Status)) + "\n")
	if ev.Message != "" {
		wrapped := wordwrap.String(ev.Message, max(20, m.viewport.Width-11))
		lines := strings.Split(wrapped, "\n")
		b.WriteString(" " + labelStyle.Render("Message: ") + valueStyle.Render(lines[0]) + "\n")
		for _, l := range lines[1:] {
			b.WriteString("          " + valueStyle.Render(l) + "\n")
		}
	}
	if len(ev.Links) > 0 {
		b.WriteString(" " + labelStyle.Render("Links:   ") + dimStyle.Render(strings.Join(ev.Links, " ")) + "\n")
	}

	b.WriteString("\n " + labelStyle.Render(fmt.Sprintf("Participants (%d)", len(m.frame.Participants))) + "\n")
	for _, ps := range m.frame.Participants {
		b.WriteString(fmt.Sprintf("   %s %s",
			agentStyle.Render(fmt.Sprintf("%-10s", ps.Agent)),
			decisionStyle(ps.Decision).Render(ps.Decision)))
		if ps.Reason != "" {
			b.WriteString("  " + dimStyle.Render(ps.Reason))
		}
		if !ps.VotedAt.IsZero() {
			b.WriteString("  " + dimStyle.Render(ps.VotedAt.Format("15:04:05")))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
