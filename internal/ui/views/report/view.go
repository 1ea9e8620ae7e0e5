package report

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "solve/internal/modules/report/dto"
	"solve/internal/ui/components"
	"solve/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Load(ctx context.Context, sessionID string) (reportdto.ReportOutput, error)
	Markdown(report reportdto.ReportOutput, expansion *reportdto.Expansion) string
	Export(ctx context.Context, report reportdto.ReportOutput, dir string) (reportdto.ExportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Report reportdto.ReportOutput
	Err    error
}

type ExportedMsg struct {
	Out reportdto.ExportOutput
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      Port
	exportDir string
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  components.MarkdownRenderer
	report    reportdto.ReportOutput
	expansion reportdto.Expansion
	selected  int
	loaded    bool
	loading   bool
	notice    string
	width     int
	height    int
}

func New(port Port, exportDir string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:      port,
		exportDir: exportDir,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		renderer:  components.NewMarkdownRenderer("dark", 0),
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Show displays a report that arrived with navigation; nothing is fetched.
func (m *Model) Show(r reportdto.ReportOutput) {
	m.report = r
	m.expansion = reportdto.Expansion{}
	m.selected = 0
	m.loaded = true
	m.loading = false
	m.notice = ""
	m.refresh()
	m.viewport.GotoTop()
}

// Load fetches the report once, for when no navigation payload exists.
func (m *Model) Load(sessionID string) tea.Cmd {
	m.loading = true
	port := m.port
	return tea.Batch(func() tea.Msg {
		r, err := port.Load(context.Background(), sessionID)
		return LoadedMsg{Report: r, Err: err}
	}, m.spinner.Tick)
}

func (m Model) Loaded() bool { return m.loaded }

func (m Model) SessionID() string { return m.report.SessionID }

func (m *Model) ExpandAll() {
	for _, s := range m.report.Sections {
		if !m.expansion.IsExpanded(s.Question) {
			m.expansion = m.expansion.Toggle(s.Question)
		}
	}
	m.refresh()
}

func (m *Model) CollapseAll() {
	m.expansion = reportdto.Expansion{}
	m.refresh()
}

func (m Model) Export(dir string) tea.Cmd {
	if !m.loaded {
		return nil
	}
	if dir == "" {
		dir = m.exportDir
	}
	port, r := m.port, m.report
	return func() tea.Msg {
		out, err := port.Export(context.Background(), r, dir)
		return ExportedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 1)
		m.renderer.SetWidth(max(msg.Width-4, 20))
		if m.loaded {
			m.refresh()
		}

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.notice = "report: " + msg.Err.Error()
			return m, nil
		}
		m.Show(msg.Report)

	case ExportedMsg:
		if msg.Err != nil {
			m.notice = "export failed: " + msg.Err.Error()
		} else {
			m.notice = "exported to " + msg.Out.Path
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if !m.loaded {
			break
		}
		switch msg.String() {
		case "n", "]":
			m.selectSection(1)
			return m, nil
		case "p", "[":
			m.selectSection(-1)
			return m, nil
		case "enter", " ":
			if len(m.report.Sections) > 0 {
				m.expansion = m.expansion.Toggle(m.report.Sections[m.selected].Question)
				m.refresh()
			}
			return m, nil
		case "x":
			return m, m.Export("")
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading report…")
	}
	if !m.loaded {
		msg := "The report opens here when research completes."
		if m.notice != "" {
			msg = m.notice
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View(), m.renderFooter())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) selectSection(delta int) {
	n := len(m.report.Sections)
	if n == 0 {
		return
	}
	m.selected = (m.selected + delta + n) % n
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderer.Render(m.port.Markdown(m.report, &m.expansion)))
}

func (m Model) renderHeader() string {
	line := theme.Title.Render(m.report.Title)
	if n := len(m.report.Sections); n > 0 {
		s := m.report.Sections[m.selected]
		state := "collapsed"
		if m.expansion.IsExpanded(s.Question) {
			state = "expanded"
		}
		line += theme.Muted.Render(fmt.Sprintf("  section %d/%d: ", m.selected+1, n)) +
			theme.Hot.Render(s.Question) + theme.Muted.Render(" ("+state+")")
	}
	return line
}

func (m Model) renderFooter() string {
	left := theme.Muted.Render(fmt.Sprintf("%.0f%%  n/p: section  enter: expand/collapse  x: export", m.viewport.ScrollPercent()*100))
	if m.notice != "" {
		left += "  " + theme.Hot.Render(m.notice)
	}
	return left
}
