package domain

// TrashSink takes ownership of entities that left the library through a trash operation
type TrashSink interface {
	AddFile(file File)
	AddFolder(folder Folder)
}

// EditingNotifier is told which file was just renamed or moved.
// Purely observational; it owns no library state.
type EditingNotifier interface {
	NotifyEdited(file File)
}

// ErrorReporter receives every failure surfaced by the library core.
// The presentation layer decides how to show it.
type ErrorReporter func(err error)

// NoOpTrash discards trashed entities (for testing/batch operations).
type NoOpTrash struct{}

func (NoOpTrash) AddFile(File)     {}
func (NoOpTrash) AddFolder(Folder) {}

// NoOpNotifier discards edit notifications.
type NoOpNotifier struct{}

func (NoOpNotifier) NotifyEdited(File) {}
