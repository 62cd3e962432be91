package components

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/tui/styles"
)

// FolderPicker chooses the destination folder for a move
type FolderPicker struct {
	visible bool
	file    domain.File
	folders []domain.Folder
	shown   []domain.Folder
	filter  textinput.Model
	cursor  int
	width   int
}

// NewFolderPicker creates a new folder picker
func NewFolderPicker() FolderPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter folders..."
	ti.CharLimit = 100
	ti.Width = 30
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return FolderPicker{filter: ti}
}

// Show opens the picker for file, offering every folder except excludeUID
func (p *FolderPicker) Show(file domain.File, folders []domain.Folder, excludeUID string) {
	p.visible = true
	p.file = file
	p.folders = make([]domain.Folder, 0, len(folders))
	for _, f := range folders {
		if f.UID != excludeUID {
			p.folders = append(p.folders, f)
		}
	}
	p.filter.SetValue("")
	p.filter.Focus()
	p.applyFilter()
}

// Hide closes the picker
func (p *FolderPicker) Hide() {
	p.visible = false
	p.filter.Blur()
}

// IsVisible returns whether the picker is shown
func (p FolderPicker) IsVisible() bool {
	return p.visible
}

// File returns the file being moved
func (p FolderPicker) File() domain.File {
	return p.file
}

// Selected returns the highlighted folder
func (p FolderPicker) Selected() (domain.Folder, bool) {
	if p.cursor < 0 || p.cursor >= len(p.shown) {
		return domain.Folder{}, false
	}
	return p.shown[p.cursor], true
}

// SetWidth updates the available width
func (p *FolderPicker) SetWidth(width int) {
	p.width = width
}

// applyFilter ranks folders by fuzzy distance to the filter text.
// An empty filter keeps the library order.
func (p *FolderPicker) applyFilter() {
	query := strings.TrimSpace(p.filter.Value())
	p.cursor = 0
	if query == "" {
		p.shown = slices.Clone(p.folders)
		return
	}

	names := make([]string, len(p.folders))
	for i, f := range p.folders {
		names[i] = f.Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})

	p.shown = make([]domain.Folder, 0, len(ranks))
	for _, r := range ranks {
		p.shown = append(p.shown, p.folders[r.OriginalIndex])
	}
}

// Update handles input, returns (picker, cmd, chosen)
func (p FolderPicker) Update(msg tea.Msg) (FolderPicker, tea.Cmd, bool) {
	if !p.visible {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, FolderPickerKeys.Escape):
			p.Hide()
			return p, nil, false
		case key.Matches(keyMsg, FolderPickerKeys.Enter):
			_, ok := p.Selected()
			return p, nil, ok
		case key.Matches(keyMsg, FolderPickerKeys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, false
		case key.Matches(keyMsg, FolderPickerKeys.Down):
			if p.cursor < len(p.shown)-1 {
				p.cursor++
			}
			return p, nil, false
		}
	}

	prev := p.filter.Value()
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != prev {
		p.applyFilter()
	}
	return p, cmd, false
}

// View renders the picker
func (p FolderPicker) View() string {
	if !p.visible {
		return ""
	}

	modalWidth := 44
	if p.width > 0 && p.width < 64 {
		modalWidth = p.width - 10
	}
	const maxRows = 10

	var lines []string
	title := "Move " + styles.Truncate(p.file.Name, modalWidth-12)
	lines = append(lines, styles.ModalTitleStyle.Render(title))
	lines = append(lines, p.filter.View(), "")

	if len(p.shown) == 0 {
		lines = append(lines, styles.DimStyle.Render("No folders"))
	}

	start := 0
	if p.cursor >= maxRows {
		start = p.cursor - maxRows + 1
	}
	end := min(start+maxRows, len(p.shown))
	for i := start; i < end; i++ {
		line := styles.FolderGlyph + " " + p.shown[i].Name
		if i == p.cursor {
			line = styles.SelectedTextStyle.Render(styles.Pad(line, modalWidth-4))
		} else {
			line = styles.NormalTextStyle.Render(styles.Pad(line, modalWidth-4))
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", styles.DimStyle.Render("Enter: Move  Esc: Cancel"))

	return styles.ModalStyle.
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))
}
