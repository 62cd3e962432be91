// Package library owns the local mirror of the remote catalogue: the entity
// collections, the paginated and navigated view derived from them, and the
// optimistic mutation protocol that keeps that view consistent with the remote.
package library

import "github.com/mmcdole/drivestorage/internal/domain"

// DefaultPageSize is the number of entries shown per page when none is configured
const DefaultPageSize = 12

// State is an immutable snapshot of the library.
// Transitions never modify a State or any slice it references; they return a new one.
type State struct {
	Files   []domain.File   // Root-level files, uid unique
	Folders []domain.Folder // All known folders, uid unique

	// DisplayFolder is the folder being browsed, nil for the root listing
	DisplayFolder *domain.Folder

	CurrentPage int            // Zero-based page cursor
	TotalPages  int            // Derived, always >= 1
	CurrentList []domain.Entry // Derived, the entries on CurrentPage

	PageSize int // Entries per page, fixed for the lifetime of the state
}

// NewState returns an empty library with one empty page
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Files:       []domain.File{},
		Folders:     []domain.Folder{},
		CurrentList: []domain.Entry{},
		TotalPages:  1,
		PageSize:    pageSize,
	}
}

// InFolder reports whether a folder context is active
func (s State) InFolder() bool {
	return s.DisplayFolder != nil
}

// Path returns the browsing path shown to the user, "./" for root
func (s State) Path() string {
	if s.DisplayFolder == nil {
		return "./"
	}
	return "./" + s.DisplayFolder.Name + "/"
}
