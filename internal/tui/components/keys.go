package components

import "github.com/charmbracelet/bubbles/key"

// SearchModalKeyMap defines key bindings for the search modal
type SearchModalKeyMap struct {
	Escape key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// DefaultSearchModalKeyMap returns the default search modal key bindings
func DefaultSearchModalKeyMap() SearchModalKeyMap {
	return SearchModalKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go to"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next"),
		),
	}
}

// FolderPickerKeyMap defines key bindings for the move destination picker
type FolderPickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

// DefaultFolderPickerKeyMap returns the default folder picker key bindings
func DefaultFolderPickerKeyMap() FolderPickerKeyMap {
	return FolderPickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "move here"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// TrashViewKeyMap defines key bindings for the trash listing
type TrashViewKeyMap struct {
	NextPage key.Binding
	PrevPage key.Binding
	Close    key.Binding
}

// DefaultTrashViewKeyMap returns the default trash view key bindings
func DefaultTrashViewKeyMap() TrashViewKeyMap {
	return TrashViewKeyMap{
		NextPage: key.NewBinding(
			key.WithKeys("]", "l", "right"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "h", "left"),
			key.WithHelp("[", "previous page"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "t", "q"),
			key.WithHelp("esc", "close"),
		),
	}
}

// InputModalKeyMap defines key bindings for the name prompt
type InputModalKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

func DefaultInputModalKeyMap() InputModalKeyMap {
	return InputModalKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// Package-level key map instances
var (
	InputModalKeys   = DefaultInputModalKeyMap()
	SearchModalKeys  = DefaultSearchModalKeyMap()
	FolderPickerKeys = DefaultFolderPickerKeyMap()
	TrashViewKeys    = DefaultTrashViewKeyMap()
)
