package intake

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	intakedto "solve/internal/modules/intake/dto"
	"solve/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// SubmitMsg asks the app to start a new research job. The intake view never
// talks to the backend itself; the app owns sessions and polling.
type SubmitMsg struct {
	Input intakedto.SubmitInput
}

// ─── model ───────────────────────────────────────────────────────────────────

const (
	fieldCompany = iota
	fieldIndustry
	fieldPrompt
	textFieldCount
)

type Model struct {
	inputs  [textFieldCount]textinput.Model
	topics  []string
	checked map[int]bool
	prompts []string
	focus   int
	err     string
	busy    bool
	width   int
	height  int
}

func New(catalog []string) Model {
	var inputs [textFieldCount]textinput.Model
	placeholders := [textFieldCount]string{
		"Enter company name(s)",
		"Enter the industry",
		"Add a custom question (enter to add)",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Lavender)
		inputs[i] = ti
	}
	inputs[fieldCompany].Focus()

	return Model{
		inputs:  inputs,
		topics:  catalog,
		checked: map[int]bool{},
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Editing reports whether a text field has focus. The app yields single-key
// shortcuts while it does.
func (m Model) Editing() bool {
	return m.focus < textFieldCount
}

// SetBusy disables submission while a previous submit is being prepared.
func (m *Model) SetBusy(busy bool) { m.busy = busy }

func (m *Model) SetError(err error) {
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-8, 20)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			return m, m.moveFocus(-1)
		case "down":
			return m, m.moveFocus(1)
		case "ctrl+s":
			return m.submit()
		case "enter":
			switch {
			case m.focus == fieldPrompt:
				if p := strings.TrimSpace(m.inputs[fieldPrompt].Value()); p != "" {
					m.prompts = append(m.prompts, p)
					m.inputs[fieldPrompt].SetValue("")
				}
				return m, nil
			case m.focus < textFieldCount:
				return m, m.moveFocus(1)
			case m.focus == m.submitIndex():
				return m.submit()
			default:
				m.toggle(m.focus - textFieldCount)
				return m, nil
			}
		case " ":
			if !m.Editing() && m.focus != m.submitIndex() {
				m.toggle(m.focus - textFieldCount)
				return m, nil
			}
		case "backspace":
			if m.focus == fieldPrompt && m.inputs[fieldPrompt].Value() == "" && len(m.prompts) > 0 {
				m.prompts = m.prompts[:len(m.prompts)-1]
				return m, nil
			}
		}
	}

	if m.Editing() {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New research") + "\n\n")

	labels := [textFieldCount]string{"Company", "Industry", "Questions"}
	for i := range m.inputs {
		label := theme.Muted.Render(labels[i])
		if m.focus == i {
			label = theme.Hot.Render(labels[i])
		}
		sb.WriteString(label + "\n" + m.inputs[i].View() + "\n")
		if i == fieldPrompt {
			for _, p := range m.prompts {
				sb.WriteString(theme.Muted.Render("  • "+p) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(theme.Title.Render("Analysis topics") + "\n")
	for i, topic := range m.topics {
		box := "[ ]"
		if m.checked[i] {
			box = theme.Done.Render("[x]")
		}
		line := fmt.Sprintf(" %s %s", box, topic)
		if m.focus == textFieldCount+i {
			line = theme.Hot.Render("›") + line
		} else {
			line = " " + line
		}
		sb.WriteString(line + "\n")
	}

	button := "[ Submit ]"
	switch {
	case m.busy:
		button = theme.Muted.Render("[ Submitting… ]")
	case m.focus == m.submitIndex():
		button = theme.Hot.Render(button)
	}
	sb.WriteString("\n" + button + "\n")
	if m.err != "" {
		sb.WriteString("\n" + theme.Banner.Render(m.err) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("↑/↓: move  enter: next/toggle  space: toggle  ctrl+s: submit"))

	return lipgloss.NewStyle().Width(m.width).Padding(0, 2).Render(sb.String())
}

// Input is the form as currently filled in, including a half-typed question.
func (m Model) Input() intakedto.SubmitInput {
	in := intakedto.SubmitInput{
		CompanyName: m.inputs[fieldCompany].Value(),
		Industry:    m.inputs[fieldIndustry].Value(),
		Prompts:     append([]string(nil), m.prompts...),
	}
	if pending := strings.TrimSpace(m.inputs[fieldPrompt].Value()); pending != "" {
		in.Prompts = append(in.Prompts, pending)
	}
	for i, topic := range m.topics {
		if m.checked[i] {
			in.Topics = append(in.Topics, topic)
		}
	}
	return in
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) submitIndex() int {
	return textFieldCount + len(m.topics)
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	total := m.submitIndex() + 1
	if m.Editing() {
		m.inputs[m.focus].Blur()
	}
	m.focus = (m.focus + delta + total) % total
	if m.Editing() {
		return m.inputs[m.focus].Focus()
	}
	return nil
}

func (m *Model) toggle(idx int) {
	if idx < 0 || idx >= len(m.topics) {
		return
	}
	next := make(map[int]bool, len(m.checked)+1)
	for k, v := range m.checked {
		next[k] = v
	}
	next[idx] = !next[idx]
	m.checked = next
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	input := m.Input()
	m.err = ""
	return m, func() tea.Msg { return SubmitMsg{Input: input} }
}
