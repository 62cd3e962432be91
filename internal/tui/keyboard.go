package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/tui/components"
)

// handleKeyMsg routes a key press to the open modal or the browser
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if handled, model, cmd := m.routeToModal(msg); handled {
		return model, cmd
	}

	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmTrash:
		return m.handleConfirmTrash(msg)

	case StateTrashBin:
		return m.handleTrashBin(msg)
	}

	return m.handleBrowseKey(msg)
}

// routeToModal gives visible modals first claim on keys
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.InputModal.IsVisible() {
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			m.InputModal.Hide()
			return true, m, m.submitInput(m.InputModal.Value())
		}
		return true, m, cmd
	}

	if m.FolderPicker.IsVisible() {
		var chosen bool
		m.FolderPicker, cmd, chosen = m.FolderPicker.Update(msg)
		if chosen {
			m.FolderPicker.Hide()
			file := m.FolderPicker.File()
			dest, _ := m.FolderPicker.Selected()
			task := m.coord.MoveFile(context.Background(), file.UID, dest.UID)
			return true, m, m.track(opMove, file.Name+" to "+dest.Name, task)
		}
		return true, m, cmd
	}

	if m.Search.IsVisible() {
		var selected bool
		m.Search, cmd, selected = m.Search.Update(msg)
		if selected {
			match, _ := m.Search.Selected()
			m.Search.Hide()
			return true, m, RevealCmd(m.coord, match.Entry.GetUID())
		}
		if m.Search.QueryChanged() {
			m.Search.SetResults(m.queries.Search(m.Search.Query()), m.folderNames())
		}
		return true, m, cmd
	}

	return false, m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.Cursor < len(m.Listing.CurrentList)-1 {
			m.Cursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.Cursor = 0
		return m, nil

	case key.Matches(msg, Keys.End):
		m.Cursor = len(m.Listing.CurrentList) - 1
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.NextPage):
		m.Cursor = 0
		return m, NavigateCmd(m.coord.NextPage)

	case key.Matches(msg, Keys.PrevPage):
		m.Cursor = 0
		return m, NavigateCmd(m.coord.PrevPage)

	case key.Matches(msg, Keys.Back):
		if m.Listing.DisplayFolder == nil {
			return m, nil
		}
		m.Cursor = 0
		return m, NavigateCmd(m.coord.NavigateToRoot)

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()

	case key.Matches(msg, Keys.Open):
		if f, ok := m.selectedFile(); ok {
			return m, OpenFileCmd(m.launcher, m.coord, f)
		}
		return m, nil

	case key.Matches(msg, Keys.NewFolder):
		m.input = InputNewFolder
		m.InputModal.Show("New folder", "")
		return m, nil

	case key.Matches(msg, Keys.Rename):
		f, ok := m.selectedFile()
		if !ok {
			return m, m.setStatus("Only files can be renamed", true)
		}
		m.input = InputRename
		m.targetUID = f.UID
		m.InputModal.Show("Rename "+f.Name, f.Name)
		return m, nil

	case key.Matches(msg, Keys.Move):
		f, ok := m.selectedFile()
		if !ok {
			return m, m.setStatus("Only files can be moved", true)
		}
		exclude := ""
		if m.Listing.DisplayFolder != nil {
			exclude = m.Listing.DisplayFolder.UID
		}
		m.FolderPicker.Show(f, m.queries.Folders(), exclude)
		return m, nil

	case key.Matches(msg, Keys.Trash):
		if e, ok := m.Selected(); ok {
			m.targetUID = e.GetUID()
			m.State = StateConfirmTrash
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.Search.Show()
		return m, nil

	case key.Matches(msg, Keys.TrashView):
		m.trashPage = 0
		m.State = StateTrashBin
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, LoadCmd(m.coord)
	}

	return m, nil
}

// handleEnter opens a folder or launches a file
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	e, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if folder, ok := e.(domain.Folder); ok {
		m.Cursor = 0
		uid := folder.UID
		return m, NavigateCmd(func(ctx context.Context) error {
			return m.coord.NavigateToFolder(ctx, uid)
		})
	}
	return m, OpenFileCmd(m.launcher, m.coord, e.(domain.File))
}

func (m Model) handleConfirmTrash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.State = StateBrowsing
		e, ok := m.findListed(m.targetUID)
		if !ok {
			return m, nil
		}
		ctx := context.Background()
		if e.IsFolder() {
			return m, m.track(opTrash, e.GetName(), m.coord.TrashFolder(ctx, e.GetUID()))
		}
		return m, m.track(opTrash, e.GetName(), m.coord.TrashFile(ctx, e.GetUID()))

	case key.Matches(msg, Keys.Deny):
		m.State = StateBrowsing
	}
	return m, nil
}

func (m Model) handleTrashBin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, components.TrashViewKeys.NextPage):
		if m.trashPage < m.bin.TotalPages()-1 {
			m.trashPage++
		}
	case key.Matches(msg, components.TrashViewKeys.PrevPage):
		if m.trashPage > 0 {
			m.trashPage--
		}
	case key.Matches(msg, components.TrashViewKeys.Close):
		m.State = StateBrowsing
	}
	return m, nil
}

// submitInput acts on a confirmed InputModal value
func (m *Model) submitInput(value string) tea.Cmd {
	purpose := m.input
	m.input = InputNone
	ctx := context.Background()

	switch purpose {
	case InputNewFolder:
		return m.track(opCreate, value, m.coord.CreateFolder(ctx, value))
	case InputRename:
		return m.track(opRename, value, m.coord.RenameFile(ctx, m.targetUID, value))
	}
	return nil
}

func (m Model) selectedFile() (domain.File, bool) {
	e, ok := m.Selected()
	if !ok {
		return domain.File{}, false
	}
	f, ok := e.(domain.File)
	return f, ok
}

func (m Model) findListed(uid string) (domain.Entry, bool) {
	for _, e := range m.Listing.CurrentList {
		if e.GetUID() == uid {
			return e, true
		}
	}
	return nil, false
}

func (m Model) folderNames() map[string]string {
	folders := m.queries.Folders()
	names := make(map[string]string, len(folders))
	for _, f := range folders {
		names[f.UID] = f.Name
	}
	return names
}
