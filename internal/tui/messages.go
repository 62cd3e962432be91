package tui

import (
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/library"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ReportedMsg carries a failure surfaced by the library's error reporter
type ReportedMsg struct {
	Err error
}

// StateMsg carries the newest library state from the manager subscription
type StateMsg struct {
	State library.State
}

// NavigatedMsg signals that a navigation step settled
type NavigatedMsg struct {
	Err error
}

// LoadedMsg signals that the initial catalogue load finished
type LoadedMsg struct {
	Err error
}

// TaskDoneMsg signals that a mutation settled, committed or rolled back
type TaskDoneMsg struct {
	Op   string
	Name string
	Err  error
}

// EditedMsg signals that a file was renamed or moved
type EditedMsg struct {
	File domain.File
}

// OpenedMsg signals that a file was handed to an external application
type OpenedMsg struct {
	File domain.File
}

// FocusMsg asks the browser to select the entry with UID once it is listed
type FocusMsg struct {
	UID string
}

// StatusMsg sets a temporary status line message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}

// TickMsg advances the spinner
type TickMsg struct{}
