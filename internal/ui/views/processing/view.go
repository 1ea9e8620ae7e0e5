package processing

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	researchdto "solve/internal/modules/research/dto"
	"solve/internal/ui/theme"
)

const previewLen = 160

// Model shows the live state of the tracked session: a spinner while polling,
// the summary tree, and a banner when the backend stops answering.
type Model struct {
	spinner   spinner.Model
	viewport  viewport.Model
	sessionID string
	update    researchdto.UpdateOutput
	hasUpdate bool
	polling   bool
	finished  bool
	width     int
	height    int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Track resets the view for a new session and restarts the spinner.
func (m *Model) Track(sessionID string) tea.Cmd {
	m.sessionID = sessionID
	m.update = researchdto.UpdateOutput{}
	m.hasUpdate = false
	m.polling = true
	m.finished = false
	m.viewport.SetContent(theme.Muted.Render("Waiting for the first snapshot…"))
	return m.spinner.Tick
}

func (m *Model) Apply(u researchdto.UpdateOutput) {
	if u.SessionID != m.sessionID {
		return
	}
	if u.Stalled {
		// stall updates carry the last good tree; keep rendering it
		m.update.Stalled = true
		m.update.Failures = u.Failures
		m.update.ReceivedAt = u.ReceivedAt
		if !m.hasUpdate {
			m.update.SessionID = u.SessionID
		}
	} else {
		m.update = u
		m.hasUpdate = true
	}
	if u.Terminal {
		m.finished = true
	}
	m.viewport.SetContent(m.renderTree())
}

// Stopped marks the end of polling, either because research finished or the
// tracking was replaced.
func (m *Model) Stopped() {
	m.polling = false
}

func (m Model) SessionID() string { return m.sessionID }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		if m.hasUpdate {
			m.viewport.SetContent(m.renderTree())
		}
	case spinner.TickMsg:
		if m.polling {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.sessionID == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No research running. Submit one from the Intake tab."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderHeader() string {
	var state string
	switch {
	case m.finished:
		state = theme.Done.Render("✓ research complete, opening report…")
	case m.polling:
		state = m.spinner.View() + " Processing"
		if m.hasUpdate {
			state += theme.Muted.Render(fmt.Sprintf("  %d of %d questions answered",
				len(m.update.Tree.SubQuestions)-m.update.Tree.Outstanding, len(m.update.Tree.SubQuestions)))
		}
	default:
		state = theme.Muted.Render("stopped")
	}
	line := theme.Title.Render("Session "+m.sessionID) + "  " + state
	if m.hasUpdate {
		line += theme.Muted.Render("  updated " + m.update.ReceivedAt.Local().Format(time.Kitchen))
	}
	if m.update.Stalled {
		line += "\n" + theme.Banner.Render(fmt.Sprintf("backend not responding (%d failed polls), still retrying", m.update.Failures))
	}
	return line + "\n"
}

func (m Model) renderTree() string {
	if !m.hasUpdate {
		return theme.Muted.Render("Waiting for the first snapshot…")
	}
	byID := make(map[string]researchdto.SummaryOutput, len(m.update.Summaries))
	for _, s := range m.update.Summaries {
		byID[s.ID] = s
	}
	labels := make(map[string]string, len(m.update.Graph.Nodes))
	for _, n := range m.update.Graph.Nodes {
		labels[n.ID] = n.Label
	}

	var sb strings.Builder
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		s, ok := byID[id]
		if !ok {
			return
		}
		indent := strings.Repeat("  ", depth)
		marker := theme.Pending.Render("○")
		if strings.TrimSpace(s.Content) != "" {
			marker = theme.Done.Render("●")
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", indent, marker, theme.Title.Render(labels[id])))
		if preview := preview(s.Content); preview != "" {
			sb.WriteString(indent + "  " + theme.Muted.Render(preview) + "\n")
		}
		for _, child := range s.Children {
			walk(child, depth+1)
		}
	}
	if len(m.update.Graph.Nodes) > 0 {
		walk(m.update.Graph.Nodes[0].ID, 0)
	}
	return sb.String()
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > previewLen {
		return string(r[:previewLen]) + "…"
	}
	return text
}
