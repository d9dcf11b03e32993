package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swarmscope/swarmscope/internal/event"
	"github.com/swarmscope/swarmscope/internal/filter"
	"github.com/swarmscope/swarmscope/internal/sink"
)

// liveFrameMsg carries a pushed live frame into the Bubble Tea loop.
type liveFrameMsg struct {
	frame sink.LiveFrame
}

// tailModel is the live-mode view: a stats header, the agent list, and a
// scrollback viewport of classified lines.
type tailModel struct {
	viewport viewport.Model
	title    string
	ready    bool
	follow   bool

	frame       sink.LiveFrame
	errorsOnly  bool
	search      textinput.Model
	searching   bool
	searchTerm  string
	onPredicate func(filter.Predicate)
	basePred    filter.Predicate
}

func newTailModel(title string, basePred filter.Predicate, onPredicate func(filter.Predicate)) *tailModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = 120
	return &tailModel{
		title:       title,
		follow:      true,
		search:      search,
		basePred:    basePred,
		onPredicate: onPredicate,
	}
}

// pushPredicate layers the view toggles over the configured predicate and
// hands the result to the pipeline.
func (m *tailModel) pushPredicate() {
	if m.onPredicate == nil {
		return
	}
	pred := m.basePred
	if m.errorsOnly {
		pred.Level = event.LevelError
	}
	if m.searchTerm != "" {
		pred.FreeTextSubstring = m.searchTerm
	}
	m.onPredicate(pred)
}

func (m *tailModel) Init() tea.Cmd { return nil }

func (m *tailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case liveFrameMsg:
		m.frame = msg.frame
		if m.ready {
			m.viewport.SetContent(m.renderLines())
			if m.follow {
				m.viewport.GotoBottom()
			}
		}

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.search.Blur()
				m.searchTerm = strings.TrimSpace(m.search.Value())
				m.pushPredicate()
			case "esc":
				m.searching = false
				m.search.Blur()
				m.search.SetValue("")
				m.searchTerm = ""
				m.pushPredicate()
			default:
				var inCmd tea.Cmd
				m.search, inCmd = m.search.Update(msg)
				cmds = append(cmds, inCmd)
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g":
			m.follow = false
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case "e":
			// Toggle errors-only on top of the configured predicate.
			m.errorsOnly = !m.errorsOnly
			m.pushPredicate()
		case "/":
			m.searching = true
			m.search.SetValue(m.searchTerm)
			cmds = append(cmds, m.search.Focus())
		case "up", "down", "pgup", "pgdown":
			m.follow = false
		}

	case tea.WindowSizeMsg:
		headerHeight := 3
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.viewport.SetContent(m.renderLines())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
			m.viewport.SetContent(m.renderLines())
		}
		if m.follow {
			m.viewport.GotoBottom()
		}
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)
	return m, tea.Batch(cmds...)
}

func (m *tailModel) renderLines() string {
	var b strings.Builder
	for i := range m.frame.Recent {
		b.WriteString(renderRecord(&m.frame.Recent[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderRecord styles one classified record for the scrollback.
func renderRecord(rec *event.Record) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(rec.Timestamp.Format("15:04:05")))
	b.WriteString(" │ ")
	b.WriteString(levelStyle(rec.Level).Render(fmt.Sprintf("%-5s", rec.Level)))
	b.WriteString(" │ ")
	if rec.ParseErr {
		b.WriteString(warnStyle.Render("[unparsed] "))
	}
	b.WriteString(valueStyle.Render(rec.Message))
	if len(rec.AgentTags) > 0 {
		b.WriteString("  ")
		b.WriteString(agentStyle.Render("[" + strings.Join(rec.AgentTags, ", ") + "]"))
	}
	if rec.EventType != "" {
		b.WriteString("  ")
		b.WriteString(consensusStyle.Render("(" + rec.EventType + ")"))
	}
	return b.String()
}

func (m *tailModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	title := titleStyle.Render(m.title)
	line := strings.Repeat("─", max(0, m.viewport.Width-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, dimStyle.Render(line))

	statsLine := m.renderStats()
	agentsLine := m.renderAgents()

	followState := dimStyle.Render("follow off")
	if m.follow {
		followState = successStyle.Render("● follow")
	}
	filterState := ""
	if m.errorsOnly {
		filterState = errorStyle.Render(" errors-only ")
	}
	if m.searchTerm != "" {
		filterState += consensusStyle.Render(" /" + m.searchTerm + " ")
	}
	footer := followState + filterState +
		helpStyle.Render(" q: quit │ f: follow │ e: errors │ /: search │ g/G: top/bottom ")
	if m.searching {
		footer = m.search.View()
	}

	return header + "\n" + statsLine + "\n" + agentsLine + "\n" + m.viewport.View() + "\n" + footer
}

func (m *tailModel) renderStats() string {
	s := m.frame.Stats
	parts := []string{
		labelStyle.Render("total:") + " " + valueStyle.Render(fmt.Sprintf("%d", s.Total)),
		labelStyle.Render("errors:") + " " + errorStyle.Render(fmt.Sprintf("%d", s.ErrorCount)),
	}
	for _, cat := range []event.Category{event.CategoryConsensus, event.CategoryAgent, event.CategoryTask, event.CategoryArtifact} {
		if n := s.PerCategory[cat]; n > 0 {
			parts = append(parts, labelStyle.Render(string(cat)+":")+" "+valueStyle.Render(fmt.Sprintf("%d", n)))
		}
	}
	return " " + strings.Join(parts, "  ")
}

func (m *tailModel) renderAgents() string {
	if len(m.frame.Agents) == 0 {
		return " " + dimStyle.Render("no agents observed yet")
	}
	return " " + labelStyle.Render("agents:") + " " + agentStyle.Render(strings.Join(m.frame.Agents, " "))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
