package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/drivestorage/internal/adapter"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/library"
	"github.com/mmcdole/drivestorage/internal/trash"
	"github.com/mmcdole/drivestorage/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmTrash
	StateTrashBin
)

// InputPurpose says what a submitted InputModal value is for
type InputPurpose int

const (
	InputNone InputPurpose = iota
	InputNewFolder
	InputRename
)

// Vertical chrome: path header, page indicator and footer
const ChromeHeight = 4

// Deps are the collaborators the browser drives
type Deps struct {
	Coordinator *library.Coordinator
	Queries     *library.Queries
	States      <-chan library.State // from Manager.Subscribe
	Errors      <-chan error         // fed by ChannelReporter
	Edits       <-chan domain.File   // fed by ChannelNotifier
	Trash       *trash.Bin
	Launcher    *adapter.Launcher
	Logger      *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Collaborators
	coord    *library.Coordinator
	queries  *library.Queries
	states   <-chan library.State
	errs     <-chan error
	edits    <-chan domain.File
	bin      *trash.Bin
	launcher *adapter.Launcher
	logger   *slog.Logger

	// UI Components
	InputModal   components.InputModal
	FolderPicker components.FolderPicker
	Search       components.SearchModal
	Help         help.Model

	// Browser
	Listing   library.View
	Cursor    int
	focusUID  string
	input     InputPurpose
	targetUID string // entry an open modal acts on
	trashPage int

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	Pending      int // mutations awaiting the remote
	SpinnerFrame int
	LastEdited   string
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		State:        StateBrowsing,
		coord:        deps.Coordinator,
		queries:      deps.Queries,
		states:       deps.States,
		errs:         deps.Errors,
		edits:        deps.Edits,
		bin:          deps.Trash,
		launcher:     deps.Launcher,
		logger:       logger,
		InputModal:   components.NewInputModal(),
		FolderPicker: components.NewFolderPicker(),
		Search:       components.NewSearchModal(),
		Help:         help.New(),
		Listing:      deps.Queries.View(),
		Loading:      true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadCmd(m.coord),
		WaitForStateCmd(m.states),
		WaitForErrorCmd(m.errs),
		WaitForEditCmd(m.edits),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Search.SetSize(msg.Width, msg.Height)
		m.FolderPicker.SetWidth(msg.Width)
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StateMsg:
		m.setView(library.ViewOf(msg.State))
		return m, WaitForStateCmd(m.states)

	case LoadedMsg:
		m.Loading = false
		if msg.Err == nil {
			m.setView(m.queries.View())
		}
		return m, nil

	case NavigatedMsg:
		if msg.Err != nil {
			// The reporter already put it on the status line
			m.logger.Debug("navigation failed", "error", msg.Err)
		}
		return m, nil

	case TaskDoneMsg:
		if m.Pending > 0 {
			m.Pending--
		}
		if msg.Err != nil {
			// Already surfaced through the reporter
			return m, nil
		}
		return m, m.setStatus(taskSuccessText(msg), false)

	case EditedMsg:
		m.LastEdited = msg.File.UID
		return m, WaitForEditCmd(m.edits)

	case OpenedMsg:
		return m, m.setStatus("Opened "+msg.File.Name, false)

	case FocusMsg:
		m.focusUID = msg.UID
		m.setView(m.queries.View())
		return m, nil

	case ReportedMsg:
		return m, tea.Batch(m.setStatus(msg.Err.Error(), true), WaitForErrorCmd(m.errs))

	case ErrMsg:
		m.logger.Debug("showing error", "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)
	}

	return m.routeToComponents(msg)
}

// routeToComponents forwards non-key messages such as cursor blinks
func (m Model) routeToComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	case m.FolderPicker.IsVisible():
		m.FolderPicker, cmd, _ = m.FolderPicker.Update(msg)
	case m.Search.IsVisible():
		m.Search, cmd, _ = m.Search.Update(msg)
	}
	return m, cmd
}

// setView installs a new projection and keeps the cursor on a listed entry
func (m *Model) setView(v library.View) {
	m.Listing = v
	if m.focusUID != "" {
		for i, e := range v.CurrentList {
			if e.GetUID() == m.focusUID {
				m.Cursor = i
				m.focusUID = ""
				break
			}
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Listing.CurrentList) {
		m.Cursor = len(m.Listing.CurrentList) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// Selected returns the entry under the cursor
func (m Model) Selected() (domain.Entry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Listing.CurrentList) {
		return nil, false
	}
	return m.Listing.CurrentList[m.Cursor], true
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	if isErr {
		return ClearStatusCmd(5 * time.Second)
	}
	return ClearStatusCmd(3 * time.Second)
}

// track counts an issued mutation until its task settles
func (m *Model) track(op, name string, task *library.Task) tea.Cmd {
	m.Pending++
	return AwaitTaskCmd(op, name, task)
}

func taskSuccessText(msg TaskDoneMsg) string {
	switch msg.Op {
	case opTrash:
		return "Trashed " + msg.Name
	case opCreate:
		return "Created " + msg.Name
	case opRename:
		return "Renamed to " + msg.Name
	case opMove:
		return "Moved " + msg.Name
	}
	return msg.Op + " done"
}

const (
	opTrash  = "trash"
	opCreate = "create folder"
	opRename = "rename"
	opMove   = "move"
)
