package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/drivestorage/internal/adapter"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/library"
)

// Command factories for async operations.
// Failures inside the library are delivered through the error reporter,
// so these commands do not turn them into ErrMsg a second time.

// LoadCmd fetches the remote catalogue
func LoadCmd(coord *library.Coordinator) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return LoadedMsg{Err: coord.Load(ctx)}
	}
}

// WaitForStateCmd reads the next state from the manager subscription
func WaitForStateCmd(states <-chan library.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return StateMsg{State: s}
	}
}

// WaitForErrorCmd reads the next reported error
func WaitForErrorCmd(errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return ReportedMsg{Err: err}
	}
}

// WaitForEditCmd reads the next edit notification
func WaitForEditCmd(edits <-chan domain.File) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-edits
		if !ok {
			return nil
		}
		return EditedMsg{File: f}
	}
}

// AwaitTaskCmd blocks until the task settles
func AwaitTaskCmd(op, name string, task *library.Task) tea.Cmd {
	return func() tea.Msg {
		return TaskDoneMsg{Op: op, Name: name, Err: task.Wait(context.Background())}
	}
}

// NavigateCmd runs a navigation step. The resulting state arrives through
// the subscription; failures are also delivered to the reporter.
func NavigateCmd(step func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return NavigatedMsg{Err: step(ctx)}
	}
}

// RevealCmd navigates to the page holding uid and asks for it to be selected
func RevealCmd(coord *library.Coordinator, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		folderUID, page, err := library.Locate(coord.State(), uid)
		if err != nil {
			return ErrMsg{Err: err, Context: "locating entry"}
		}
		if folderUID == "" {
			err = coord.NavigateToRoot(ctx)
		} else {
			err = coord.NavigateToFolder(ctx, folderUID)
		}
		if err != nil {
			return nil
		}
		if err := coord.SetPage(ctx, page); err != nil {
			return nil
		}
		return FocusMsg{UID: uid}
	}
}

// OpenFileCmd downloads a file and launches it in an external application
func OpenFileCmd(launcher *adapter.Launcher, coord *library.Coordinator, file domain.File) tea.Cmd {
	if launcher == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := launcher.Open(ctx, coord, file); err != nil {
			return ErrMsg{Err: err, Context: "opening " + file.Name}
		}
		return OpenedMsg{File: file}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
