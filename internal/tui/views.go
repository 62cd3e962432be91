package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/trash"
	"github.com/mmcdole/drivestorage/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmTrash:
		return m.renderTrashConfirmation()
	case StateTrashBin:
		return m.renderTrashBin()
	}

	switch {
	case m.Search.IsVisible():
		return m.Search.View()
	case m.InputModal.IsVisible():
		return m.centered(m.InputModal.View())
	case m.FolderPicker.IsVisible():
		return m.centered(m.FolderPicker.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(m.Height-ChromeHeight),
		m.renderPageIndicator(),
		m.renderFooter(),
	)
}

func (m Model) centered(s string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, s)
}

// renderHeader shows the browsing path
func (m Model) renderHeader() string {
	path := styles.PathStyle.Render(m.Listing.Path)
	count := styles.DimStyle.Render(fmt.Sprintf(" %d on this page", len(m.Listing.CurrentList)))
	return path + count + "\n"
}

// renderList renders the current page, one entry per row
func (m Model) renderList(height int) string {
	if len(m.Listing.CurrentList) == 0 {
		empty := "This folder is empty"
		if m.Listing.DisplayFolder == nil {
			empty = "No files yet"
		}
		if m.Loading {
			empty = "Loading..."
		}
		return lipgloss.NewStyle().Height(max(height, 1)).Render(styles.DimStyle.Render("  " + empty))
	}

	rows := make([]string, 0, len(m.Listing.CurrentList))
	for i, e := range m.Listing.CurrentList {
		rows = append(rows, RenderEntryRow(e, i == m.Cursor, e.GetUID() == m.LastEdited, m.Width))
	}
	return lipgloss.NewStyle().Height(max(height, 1)).Render(strings.Join(rows, "\n"))
}

// RenderEntryRow renders a single listing row
func RenderEntryRow(e domain.Entry, selected, edited bool, width int) string {
	amber := styles.Amber
	dim := styles.DimGray

	var parts []styles.RowPart
	switch v := e.(type) {
	case domain.Folder:
		parts = []styles.RowPart{
			{Text: styles.FolderGlyph + " ", Foreground: &amber},
			{Text: styles.Truncate(v.Name+"/", width-24)},
			{Text: fmt.Sprintf("  %d items", len(v.FilesContained)), Foreground: &dim},
		}
	case domain.File:
		parts = []styles.RowPart{
			{Text: styles.FileGlyph + " "},
			{Text: styles.Truncate(v.Name, width-24)},
		}
		if v.Size > 0 {
			parts = append(parts, styles.RowPart{Text: "  " + styles.FormatSize(v.Size), Foreground: &dim})
		}
		if edited {
			green := styles.Green
			parts = append(parts, styles.RowPart{Text: "  edited", Foreground: &green})
		}
	}
	return styles.RenderListRow(parts, selected, width)
}

// renderPageIndicator shows "page i / n" in one-based form
func (m Model) renderPageIndicator() string {
	text := fmt.Sprintf("page %d / %d", m.Listing.CurrentPage+1, m.Listing.TotalPages)
	prev, next := "  ", "  "
	if m.Listing.CurrentPage > 0 {
		prev = "[ "
	}
	if m.Listing.CurrentPage < m.Listing.TotalPages-1 {
		next = " ]"
	}
	return styles.AccentStyle.Render(prev) + styles.SubtitleStyle.Render(text) + styles.AccentStyle.Render(next)
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.Loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading library...")
	case m.Pending > 0:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(fmt.Sprintf("%d pending", m.Pending))
	}

	right := m.Help.ShortHelpView(Keys.ShortHelp())

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true
	content := styles.ModalTitleStyle.Render("Keys") + "\n" +
		h.View(Keys) + "\n\n" +
		styles.DimStyle.Render("Press any key to return...")
	return m.centered(styles.ModalStyle.Render(content))
}

// renderTrashConfirmation asks before trashing the selected entry
func (m Model) renderTrashConfirmation() string {
	e, ok := m.findListed(m.targetUID)
	if !ok {
		return m.centered(styles.ModalStyle.Render("Nothing selected"))
	}
	what := "file"
	extra := ""
	if f, isFolder := e.(domain.Folder); isFolder {
		what = "folder"
		if n := len(f.FilesContained); n > 0 {
			extra = fmt.Sprintf("\n%d contained entries go with it.", n)
		}
	}
	content := styles.ModalTitleStyle.Render("Move to trash?") + "\n" +
		fmt.Sprintf("The %s %q leaves the library.%s", what, e.GetName(), extra) + "\n\n" +
		styles.AccentStyle.Render("[Y]") + " Yes      " + styles.AccentStyle.Render("[N]") + " No"
	return m.centered(styles.DangerModalStyle.Render(content))
}

// renderTrashBin lists trashed entries for this session, newest first
func (m Model) renderTrashBin() string {
	items, err := m.bin.Page(m.trashPage)
	var lines []string
	lines = append(lines, styles.ModalTitleStyle.Render(fmt.Sprintf("Trash (%d)", m.bin.Len())))
	if err != nil || len(items) == 0 {
		lines = append(lines, styles.DimStyle.Render("Nothing trashed this session"))
	}
	for _, it := range items {
		lines = append(lines, renderTrashItem(it, 48))
	}
	lines = append(lines, "",
		styles.DimStyle.Render(fmt.Sprintf("page %d / %d   [ ] page  esc close", m.trashPage+1, m.bin.TotalPages())))
	return m.centered(styles.ModalStyle.Render(strings.Join(lines, "\n")))
}

func renderTrashItem(it trash.Item, width int) string {
	glyph := styles.FileGlyph
	if it.Entry.IsFolder() {
		glyph = styles.FolderGlyph
	}
	when := it.TrashedAt.Format(time.Kitchen)
	name := styles.Pad(glyph+" "+it.Entry.GetName(), width-len(when)-1)
	return styles.NormalTextStyle.Render(name) + " " + styles.DimStyle.Render(when)
}

// RenderSpinner renders a spinner frame
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
