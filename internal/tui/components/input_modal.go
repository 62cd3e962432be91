package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/drivestorage/internal/tui/styles"
)

const nameModalWidth = 44

// InputModal prompts for an entry name (new folder, rename). Obviously bad
// names are caught here so they never reach the remote.
type InputModal struct {
	visible  bool
	title    string
	original string // name being replaced; submitting it unchanged is refused
	problem  string
	input    textinput.Model
}

// NewInputModal creates a hidden name prompt
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.Placeholder = "name"
	ti.CharLimit = 255
	ti.Width = nameModalWidth - 2
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return InputModal{input: ti}
}

// Show opens the prompt prefilled with initial. A non-empty initial is
// treated as the current name.
func (m *InputModal) Show(title, initial string) {
	m.visible = true
	m.title = title
	m.original = initial
	m.problem = ""
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *InputModal) Hide() {
	m.visible = false
	m.problem = ""
	m.input.Blur()
}

func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the entered name without surrounding whitespace
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update handles keys. The bool reports a submitted, acceptable name.
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, InputModalKeys.Submit):
			m.problem = nameProblem(m.Value(), m.original)
			return m, nil, m.problem == ""
		case key.Matches(keyMsg, InputModalKeys.Cancel):
			m.Hide()
			return m, nil, false
		}
	}

	m.problem = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

func nameProblem(name, original string) string {
	switch {
	case name == "":
		return "name cannot be empty"
	case strings.ContainsAny(name, `/\`):
		return "name cannot contain / or \\"
	case name == "." || name == "..":
		return "reserved name"
	case original != "" && name == original:
		return "name unchanged"
	}
	return ""
}

// Problem returns why the last submit was refused, or ""
func (m InputModal) Problem() string {
	return m.problem
}

func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	footer := styles.DimStyle.Render("enter confirm · esc cancel")
	if m.problem != "" {
		footer = styles.ErrorStyle.Render(m.problem)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		lipgloss.NewStyle().Width(nameModalWidth).Render(m.input.View()),
		"",
		footer,
	)
	return styles.ModalStyle.Render(body)
}
