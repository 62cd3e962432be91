package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/drivestorage/internal/library"
	"github.com/mmcdole/drivestorage/internal/tui/styles"
)

// SearchModal is the fuzzy search overlay over every known entry
type SearchModal struct {
	input     textinput.Model
	results   []library.Match
	folders   map[string]string // folder uid to name, for result locations
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewSearchModal creates a new search modal
func NewSearchModal() SearchModal {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchModal{
		input: ti,
	}
}

// Show makes the modal visible and focuses the input
func (o *SearchModal) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.prevQuery = ""
}

// Hide hides the modal
func (o *SearchModal) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the modal is visible
func (o SearchModal) IsVisible() bool {
	return o.visible
}

// SetResults replaces the result list. folders maps folder uids to names.
func (o *SearchModal) SetResults(results []library.Match, folders map[string]string) {
	o.results = results
	o.folders = folders
	o.cursor = 0
}

// SetSize updates the component dimensions
func (o *SearchModal) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width-10, 10)
}

// Query returns the current search query
func (o SearchModal) Query() string {
	return o.input.Value()
}

// QueryChanged reports whether the query changed since the last call
func (o *SearchModal) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// Selected returns the highlighted match
func (o SearchModal) Selected() (library.Match, bool) {
	if o.cursor < 0 || o.cursor >= len(o.results) {
		return library.Match{}, false
	}
	return o.results[o.cursor], true
}

// Update handles messages, returns (modal, cmd, selected)
func (o SearchModal) Update(msg tea.Msg) (SearchModal, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, SearchModalKeys.Escape):
			o.Hide()
			return o, nil, false

		case key.Matches(keyMsg, SearchModalKeys.Enter):
			return o, nil, len(o.results) > 0

		case key.Matches(keyMsg, SearchModalKeys.Down):
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, false

		case key.Matches(keyMsg, SearchModalKeys.Up):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		}
	}

	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

// View renders the modal centered in the available space
func (o SearchModal) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := min(max(o.width*2/3, 40), 80)
	const maxResults = 10

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	o.renderResults(&b, modalWidth, maxResults)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		o.width,
		o.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (o SearchModal) renderResults(b *strings.Builder, modalWidth, maxResults int) {
	if len(o.results) == 0 {
		if o.input.Value() != "" {
			b.WriteString(styles.DimStyle.Render("No matches found"))
		}
		return
	}

	start := 0
	if o.cursor >= maxResults {
		start = o.cursor - maxResults + 1
	}
	end := min(start+maxResults, len(o.results))

	for i := start; i < end; i++ {
		m := o.results[i]
		selected := i == o.cursor

		glyph := styles.FileGlyph
		if m.Entry.IsFolder() {
			glyph = styles.FolderGlyph
		}
		location := "./"
		if m.FolderUID != "" {
			location = "./" + o.folders[m.FolderUID]
		}

		name := styles.Truncate(m.Entry.GetName(), modalWidth-20)
		line := glyph + " " + highlightMatches(name, m.MatchedIndexes, selected)
		if selected {
			line = styles.SelectedTextStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString(" ")
		b.WriteString(styles.DimStyle.Render(location))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if len(o.results) > maxResults {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d matches", len(o.results))))
	}
}

// highlightMatches renders text with matched rune positions emphasized.
// Consecutive runes with the same match state are rendered as one batch.
func highlightMatches(text string, matchedIndexes []int, selected bool) string {
	normal, match := styles.NormalTextStyle, styles.MatchHighlightStyle
	if selected {
		normal, match = styles.SelectedTextStyle, styles.MatchHighlightSelectedStyle
	}
	if len(matchedIndexes) == 0 {
		return normal.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); {
		isMatch := matchSet[i]
		j := i
		for j < len(runes) && matchSet[j] == isMatch {
			j++
		}
		if isMatch {
			result.WriteString(match.Render(string(runes[i:j])))
		} else {
			result.WriteString(normal.Render(string(runes[i:j])))
		}
		i = j
	}
	return result.String()
}
