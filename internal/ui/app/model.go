package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	intakedto "solve/internal/modules/intake/dto"
	reportdto "solve/internal/modules/report/dto"
	researchdto "solve/internal/modules/research/dto"
	researchin "solve/internal/modules/research/port/in"
	sessiondto "solve/internal/modules/session/dto"
	apperrors "solve/internal/platform/errors"
	"solve/internal/ui/components"
	"solve/internal/ui/theme"
	graphview "solve/internal/ui/views/graph"
	intakeview "solve/internal/ui/views/intake"
	processingview "solve/internal/ui/views/processing"
	reportview "solve/internal/ui/views/report"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	New(ctx context.Context) (sessiondto.SessionOutput, error)
	Current(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type intakePort interface {
	Catalog() []string
	Prepare(ctx context.Context, input intakedto.SubmitInput) (intakedto.SubmitOutput, error)
	Dispatch(ctx context.Context, prepared intakedto.SubmitOutput) error
}

type researchPort interface {
	Watch(ctx context.Context, sessionID string) researchin.Tracking
	Graph(ctx context.Context, sessionID string) (researchdto.GraphOutput, error)
}

type reportPort interface {
	FromTree(tree researchdto.TreeOutput) reportdto.ReportOutput
	Load(ctx context.Context, sessionID string) (reportdto.ReportOutput, error)
	Markdown(report reportdto.ReportOutput, expansion *reportdto.Expansion) string
	Export(ctx context.Context, report reportdto.ReportOutput, dir string) (reportdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabIntake tabID = iota
	tabProcessing
	tabGraph
	tabReport
	tabCount
)

var tabLabels = [tabCount]string{
	"Intake", "Processing", "Graph", "Report",
}

// ─── async messages ───────────────────────────────────────────────────────────
// Tracking messages carry the generation they were issued for. A message from
// a tracking that has since been replaced or stopped is dropped.

type currentLoadedMsg struct {
	sessionID string
	err       error
}

type sessionCreatedMsg struct {
	out sessiondto.SessionOutput
	err error
}

type sessionClearedMsg struct{ err error }

type preparedMsg struct {
	out intakedto.SubmitOutput
	err error
}

type dispatchedMsg struct {
	gen int
	err error
}

type updateMsg struct {
	gen    int
	update researchdto.UpdateOutput
}

type updatesClosedMsg struct{ gen int }

type navigateMsg struct {
	gen  int
	tree researchdto.TreeOutput
	ok   bool
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Jump    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Toggle  key.Binding
	Export  key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next view")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump to view")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit research")),
		Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Export:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export report")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload graph")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Jump, k.Submit},
		{k.Toggle, k.Export, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the running
// tracking, the help overlay, and the command palette. Only one tracking is
// live at a time; replacing it stops the previous one first.
type Model struct {
	session  sessionPort
	intake   intakePort
	research researchPort
	report   reportPort

	intakeView     intakeview.Model
	processingView processingview.Model
	graphView      graphview.Model
	reportView     reportview.Model

	tracking       researchin.Tracking
	gen            int
	cancelDispatch context.CancelFunc

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	sessionID string
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	session sessionPort,
	intake intakePort,
	research researchPort,
	report reportPort,
	exportDir string,
) Model {
	var graphV graphview.Model
	if research != nil {
		graphV = graphview.New(graphPortBridge{p: research})
	} else {
		graphV = graphview.New(nil)
	}

	return Model{
		session:        session,
		intake:         intake,
		research:       research,
		report:         report,
		intakeView:     intakeview.New(intake.Catalog()),
		processingView: processingview.New(),
		graphView:      graphV,
		reportView:     reportview.New(reportPortBridge{p: report}, exportDir),
		activeTab:      tabIntake,
		keys:           defaultKeys(),
		help:           help.New(),
		palette:        components.NewPalette(),
		status:         "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.intakeView.Init(),
		m.loadCurrentCmd(),
	)
}

// Close stops any running tracking and pending analyze request. It is safe to
// call on a model that never started one.
func (m Model) Close() {
	if m.cancelDispatch != nil {
		m.cancelDispatch()
	}
	if m.tracking != nil {
		m.tracking.Stop()
	}
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case currentLoadedMsg:
		if msg.err != nil {
			m.status = "session lookup: " + msg.err.Error()
			return m, nil
		}
		if msg.sessionID == "" {
			return m, nil
		}
		m.status = "resumed session " + msg.sessionID
		m.activeTab = tabProcessing
		return m, m.startTracking(msg.sessionID)

	case sessionCreatedMsg:
		if msg.err != nil {
			m.status = "session: " + msg.err.Error()
			return m, nil
		}
		m.stopTracking()
		m.sessionID = msg.out.SessionID
		m.status = "new session " + msg.out.SessionID
		return m, nil

	case sessionClearedMsg:
		if msg.err != nil {
			m.status = "session clear: " + msg.err.Error()
			return m, nil
		}
		m.stopTracking()
		m.sessionID = ""
		m.status = "session cleared"
		return m, nil

	case intakeview.SubmitMsg:
		m.intakeView.SetBusy(true)
		m.status = "creating session…"
		return m, m.prepareCmd(msg.Input)

	case preparedMsg:
		m.intakeView.SetBusy(false)
		if msg.err != nil {
			m.intakeView.SetError(msg.err)
			if errors.Is(msg.err, apperrors.ErrInvalidInput) {
				m.status = "check the form"
			} else {
				m.status = "submit failed"
			}
			return m, nil
		}
		m.intakeView.SetError(nil)
		m.status = "research started for " + msg.out.CompanyName
		m.activeTab = tabProcessing
		track := m.startTracking(msg.out.SessionID)
		return m, tea.Batch(track, m.dispatchCmd(msg.out))

	case dispatchedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.status = "analyze request failed: " + msg.err.Error()
		}
		return m, nil

	case updateMsg:
		if msg.gen != m.gen || m.tracking == nil {
			return m, nil
		}
		m.processingView.Apply(msg.update)
		if !msg.update.Stalled {
			cmds = append(cmds, m.graphView.SetGraph(msg.update.SessionID, msg.update.Graph))
		}
		if msg.update.Stalled {
			m.status = "backend not responding"
		} else if msg.update.Terminal {
			m.status = "research complete"
		}
		cmds = append(cmds, waitUpdate(m.gen, m.tracking))
		return m, tea.Batch(cmds...)

	case updatesClosedMsg:
		if msg.gen == m.gen {
			m.processingView.Stopped()
		}
		return m, nil

	case navigateMsg:
		if msg.gen != m.gen || !msg.ok {
			return m, nil
		}
		m.reportView.Show(m.report.FromTree(msg.tree))
		m.activeTab = tabReport
		m.status = "report ready"
		return m, nil

	case graphview.LoadedMsg:
		var cmd tea.Cmd
		m.graphView, cmd = m.graphView.Update(msg)
		return m, cmd

	case reportview.LoadedMsg, reportview.ExportedMsg:
		var cmd tea.Cmd
		m.reportView, cmd = m.reportView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}

		// Yield to sub-views that are capturing free text.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "q":
			m.Close()
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabIntake:
		m.intakeView, tabCmd = m.intakeView.Update(msg)
	case tabProcessing:
		m.processingView, tabCmd = m.processingView.Update(msg)
	case tabGraph:
		m.graphView, tabCmd = m.graphView.Update(msg)
	case tabReport:
		m.reportView, tabCmd = m.reportView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabIntake:
		return m.intakeView.View()
	case tabProcessing:
		return m.processingView.View()
	case tabGraph:
		return m.graphView.View()
	case tabReport:
		return m.reportView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "solve  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessionID != "" {
		marker := "○ "
		if m.tracking != nil {
			marker = "● "
		}
		left = theme.Hot.Render(marker+m.sessionID) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:new":
		return m, m.newSessionCmd()

	case "session:resume":
		return m, m.loadCurrentCmd()

	case "session:clear":
		return m, m.clearSessionCmd()

	case "watch:stop":
		m.stopTracking()
		m.status = "polling stopped"
		return m, nil

	case "report:load":
		if m.sessionID == "" {
			m.status = "no session"
			return m, nil
		}
		m.activeTab = tabReport
		return m, m.reportView.Load(m.sessionID)

	case "report:export":
		if !m.reportView.Loaded() {
			m.status = "no report loaded"
			return m, nil
		}
		dir := ""
		if len(parts) >= 2 {
			dir = parts[1]
		}
		return m, m.reportView.Export(dir)

	case "report:expand-all":
		m.reportView.ExpandAll()
		m.activeTab = tabReport
		return m, nil

	case "report:collapse-all":
		m.reportView.CollapseAll()
		m.activeTab = tabReport
		return m, nil

	case "view:intake", "view:processing", "view:graph", "view:report":
		target := strings.TrimPrefix(parts[0], "view:")
		for i, label := range tabLabels {
			if strings.EqualFold(label, target) {
				m.activeTab = tabID(i)
			}
		}
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is taking free text, in
// which case global single-key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabIntake:
		return m.intakeView.Editing()
	case tabGraph:
		return m.graphView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.intakeView, _ = m.intakeView.Update(sz)
	m.processingView, _ = m.processingView.Update(sz)
	m.graphView, _ = m.graphView.Update(sz)
	m.reportView, _ = m.reportView.Update(sz)
}

// startTracking replaces the running tracking with one for sessionID.
func (m *Model) startTracking(sessionID string) tea.Cmd {
	m.stopTracking()
	m.gen++
	m.sessionID = sessionID
	m.tracking = m.research.Watch(context.Background(), sessionID)
	return tea.Batch(
		m.processingView.Track(sessionID),
		waitUpdate(m.gen, m.tracking),
		waitNavigate(m.gen, m.tracking),
	)
}

func (m *Model) stopTracking() {
	if m.cancelDispatch != nil {
		m.cancelDispatch()
		m.cancelDispatch = nil
	}
	if m.tracking == nil {
		return
	}
	m.tracking.Stop()
	m.tracking = nil
	m.processingView.Stopped()
	m.gen++
}

// ─── async commands ───────────────────────────────────────────────────────────

func waitUpdate(gen int, t researchin.Tracking) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-t.Updates()
		if !ok {
			return updatesClosedMsg{gen: gen}
		}
		return updateMsg{gen: gen, update: u}
	}
}

func waitNavigate(gen int, t researchin.Tracking) tea.Cmd {
	return func() tea.Msg {
		tree, ok := <-t.Navigate()
		return navigateMsg{gen: gen, tree: tree, ok: ok}
	}
}

func (m Model) loadCurrentCmd() tea.Cmd {
	return func() tea.Msg {
		id, err := m.session.Current(context.Background())
		return currentLoadedMsg{sessionID: id, err: err}
	}
}

func (m Model) newSessionCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.New(context.Background())
		return sessionCreatedMsg{out: out, err: err}
	}
}

func (m Model) clearSessionCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionClearedMsg{err: m.session.Clear(context.Background())}
	}
}

func (m Model) prepareCmd(input intakedto.SubmitInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.intake.Prepare(context.Background(), input)
		return preparedMsg{out: out, err: err}
	}
}

// dispatchCmd runs the analyze request alongside polling. The request is tied
// to the current generation and cancelled when the tracking is replaced.
func (m *Model) dispatchCmd(prepared intakedto.SubmitOutput) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelDispatch = cancel
	gen, intake := m.gen, m.intake
	return func() tea.Msg {
		return dispatchedMsg{gen: gen, err: intake.Dispatch(ctx, prepared)}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view.

type graphPortBridge struct{ p researchPort }

func (b graphPortBridge) Graph(ctx context.Context, sessionID string) (researchdto.GraphOutput, error) {
	return b.p.Graph(ctx, sessionID)
}

type reportPortBridge struct{ p reportPort }

func (b reportPortBridge) Load(ctx context.Context, sessionID string) (reportdto.ReportOutput, error) {
	return b.p.Load(ctx, sessionID)
}
func (b reportPortBridge) Markdown(r reportdto.ReportOutput, e *reportdto.Expansion) string {
	return b.p.Markdown(r, e)
}
func (b reportPortBridge) Export(ctx context.Context, r reportdto.ReportOutput, dir string) (reportdto.ExportOutput, error) {
	return b.p.Export(ctx, r, dir)
}
