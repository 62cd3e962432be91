package library

import "github.com/mmcdole/drivestorage/internal/domain"

// Action is the base interface for all state transitions
type Action interface{}

// ===== LOAD ACTIONS =====

// LoadAction replaces the whole mirror in one step
type LoadAction struct {
	Files   []domain.File
	Folders []domain.Folder
}

type LoadFilesAction struct {
	Files []domain.File
}

type LoadFoldersAction struct {
	Folders []domain.Folder
}

// ===== ENTITY ACTIONS =====

type AddFilesAction struct {
	Files []domain.File
}

type AddFoldersAction struct {
	Folders []domain.Folder
}

type EditFileAction struct {
	File domain.File
}

type RemoveFileAction struct {
	UID string
}

type RemoveFolderAction struct {
	UID string
}

// RestoreFileAction undoes a RemoveFileAction (rollback)
type RestoreFileAction struct {
	File      domain.File
	Placement Placement
}

// RestoreFolderAction undoes a RemoveFolderAction (rollback)
type RestoreFolderAction struct {
	Folder    domain.Folder
	Placement Placement
}

type MoveFileAction struct {
	File    domain.File // Snapshot returned by the remote
	DestUID string
}

// ===== NAVIGATION ACTIONS =====

type NavigateToFolderAction struct {
	UID string
}

type NavigateToRootAction struct{}

type SetPageAction struct {
	Index int
}

type NextPageAction struct{}
type PrevPageAction struct{}
