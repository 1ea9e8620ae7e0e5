package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	researchdto "solve/internal/modules/research/dto"
	"solve/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type GraphPort interface {
	Graph(ctx context.Context, sessionID string) (researchdto.GraphOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	SessionID string
	Graph     researchdto.GraphOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type nodeItem struct {
	node     researchdto.GraphNodeOutput
	children int
}

func (i nodeItem) Title() string {
	return strings.Repeat("  ", i.node.Depth) + icon(i.node.Kind) + " " + i.node.Label
}

func (i nodeItem) Description() string {
	desc := fmt.Sprintf("%s · depth %d", i.node.Kind, i.node.Depth)
	if i.children > 0 {
		desc += fmt.Sprintf(" · %d linked", i.children)
	}
	return strings.Repeat("  ", i.node.Depth) + desc
}

func (i nodeItem) FilterValue() string { return i.node.Label }

func icon(kind string) string {
	switch kind {
	case "root":
		return "◈"
	case "subquestion":
		return "◇"
	}
	return "○"
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      GraphPort
	list      list.Model
	detail    viewport.Model
	sessionID string
	graph     researchdto.GraphOutput
	err       error
	width     int
	height    int
}

func New(port GraphPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Research tree"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, list: l, detail: vp}
}

func (m Model) Init() tea.Cmd { return nil }

// SetGraph replaces the projection. The current selection is kept by index
// when the new graph is at least as large, which holds while research grows.
func (m *Model) SetGraph(sessionID string, g researchdto.GraphOutput) tea.Cmd {
	m.sessionID = sessionID
	m.graph = g
	m.err = nil

	outgoing := make(map[string]int, len(g.Links))
	for _, l := range g.Links {
		outgoing[l.Source]++
	}
	items := make([]list.Item, len(g.Nodes))
	for i, n := range g.Nodes {
		items[i] = nodeItem{node: n, children: outgoing[n.ID]}
	}
	cmd := m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Research tree · %d nodes · %d links", len(g.Nodes), len(g.Links))
	m.detail.SetContent(m.renderDetail())
	return cmd
}

// Refresh fetches a fresh projection for the session on demand.
func (m Model) Refresh(sessionID string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil || sessionID == "" {
			return LoadedMsg{SessionID: sessionID}
		}
		g, err := m.port.Graph(context.Background(), sessionID)
		return LoadedMsg{SessionID: sessionID, Graph: g, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.list.Title = "Research tree · " + msg.Err.Error()
			return m, nil
		}
		if msg.SessionID != "" {
			cmds = append(cmds, m.SetGraph(msg.SessionID, msg.Graph))
		}

	case tea.KeyMsg:
		if msg.String() == "r" && !m.Filtering() {
			return m, m.Refresh(m.sessionID)
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	m.detail.SetContent(m.renderDetail())

	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if len(m.graph.Nodes) == 0 {
		hint := "No tree yet. Submit a research job or press r to load the current session."
		if m.err != nil {
			hint = m.err.Error()
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(hint))
	}

	listW := m.width * 40 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 40 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(nodeItem)
	if !ok {
		return theme.Muted.Render("Select a node to see its answer")
	}
	n := item.node
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(n.Label) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s · %s · depth %d", n.ID, n.Kind, n.Depth)) + "\n\n")
	if strings.TrimSpace(n.Payload) == "" {
		sb.WriteString(theme.Pending.Render("No answer yet."))
	} else {
		sb.WriteString(n.Payload)
	}
	return sb.String()
}
