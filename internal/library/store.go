package library

import (
	"slices"

	"github.com/mmcdole/drivestorage/internal/domain"
)

// Containment records where an entity sat inside a folder
type Containment struct {
	FolderUID string
	Index     int
}

// Placement is the pre-image of a removal: every position the entity held.
// Restoring a snapshot at its Placement yields collections equal to the pre-removal ones.
type Placement struct {
	Index      int // Position in the top-level collection, -1 when absent
	Containers []Containment
}

// === Lookups ===

// FindFile returns the file with uid from the root list or, failing that, from folder contents
func FindFile(s State, uid string) (domain.File, error) {
	for _, f := range s.Files {
		if f.UID == uid {
			return f, nil
		}
	}
	for _, folder := range s.Folders {
		for _, e := range folder.FilesContained {
			if f, ok := e.(domain.File); ok && f.UID == uid {
				return f, nil
			}
		}
	}
	return domain.File{}, domain.NotFound(domain.KindFile, uid)
}

// FindFolder returns the folder with uid
func FindFolder(s State, uid string) (domain.Folder, error) {
	for _, f := range s.Folders {
		if f.UID == uid {
			return f, nil
		}
	}
	return domain.Folder{}, domain.NotFound(domain.KindFolder, uid)
}

// === Insertion ===

// LoadFiles replaces the root files with a fresh remote listing
func LoadFiles(s State, files []domain.File) State {
	s.Files = nil
	return AddFiles(s, files)
}

// LoadFolders replaces the folders with a fresh remote listing.
// A display folder missing from the listing is dropped.
func LoadFolders(s State, folders []domain.Folder) State {
	s.Folders = nil
	s = AddFolders(s, folders)
	if s.DisplayFolder != nil && indexOfFolder(s.Folders, s.DisplayFolder.UID) < 0 {
		s.DisplayFolder = nil
	}
	return s
}

// AddFiles appends files. A file whose uid is already present replaces the
// stored snapshot in place, keeping uids unique.
func AddFiles(s State, files []domain.File) State {
	next := slices.Clone(s.Files)
	for _, f := range files {
		if i := indexOfFile(next, f.UID); i >= 0 {
			next[i] = f
			continue
		}
		next = append(next, f)
	}
	s.Files = next
	return s
}

// AddFolders appends folders with the same upsert rule as AddFiles
func AddFolders(s State, folders []domain.Folder) State {
	next := slices.Clone(s.Folders)
	for _, f := range folders {
		if i := indexOfFolder(next, f.UID); i >= 0 {
			next[i] = f
			continue
		}
		next = append(next, f)
	}
	s.Folders = next
	return refreshDisplayFolder(s)
}

// === Replacement ===

// EditFile replaces every stored snapshot of the file with the same uid.
// No-op when the file is unknown.
func EditFile(s State, file domain.File) State {
	if i := indexOfFile(s.Files, file.UID); i >= 0 {
		files := slices.Clone(s.Files)
		files[i] = file
		s.Files = files
	}
	s.Folders = mapFolders(s.Folders, func(folder domain.Folder) (domain.Folder, bool) {
		i := folder.IndexOf(file.UID)
		if i < 0 || folder.FilesContained[i].IsFolder() {
			return folder, false
		}
		contained := slices.Clone(folder.FilesContained)
		contained[i] = file
		folder.FilesContained = contained
		return folder, true
	})
	return refreshDisplayFolder(s)
}

// SetDisplayFolder replaces the folder context; nil selects the root listing
func SetDisplayFolder(s State, folder *domain.Folder) State {
	if folder != nil {
		snapshot := *folder
		folder = &snapshot
	}
	s.DisplayFolder = folder
	return s
}

// === Removal ===

// RemoveFile deletes the file from the root list and from every folder holding it
func RemoveFile(s State, uid string) (State, Placement) {
	placement := Placement{Index: indexOfFile(s.Files, uid)}
	if placement.Index >= 0 {
		s.Files = slices.Delete(slices.Clone(s.Files), placement.Index, placement.Index+1)
	}
	s, placement.Containers = removeContained(s, uid)
	return s, placement
}

// RemoveFolder deletes the folder from the folder list and from any parent folder
func RemoveFolder(s State, uid string) (State, Placement) {
	placement := Placement{Index: indexOfFolder(s.Folders, uid)}
	if placement.Index >= 0 {
		s.Folders = slices.Delete(slices.Clone(s.Folders), placement.Index, placement.Index+1)
	}
	s, placement.Containers = removeContained(s, uid)
	return s, placement
}

// RestoreFile puts a removed file back at the positions recorded in p
func RestoreFile(s State, file domain.File, p Placement) State {
	if p.Index >= 0 && indexOfFile(s.Files, file.UID) < 0 {
		at := min(p.Index, len(s.Files))
		s.Files = slices.Insert(slices.Clone(s.Files), at, file)
	}
	return restoreContained(s, file, p.Containers)
}

// RestoreFolder puts a removed folder back at the positions recorded in p
func RestoreFolder(s State, folder domain.Folder, p Placement) State {
	if p.Index >= 0 && indexOfFolder(s.Folders, folder.UID) < 0 {
		at := min(p.Index, len(s.Folders))
		s.Folders = slices.Insert(slices.Clone(s.Folders), at, folder)
	}
	return restoreContained(s, folder, p.Containers)
}

// MoveFile replaces the file snapshot, takes it out of the root list and every
// source folder, and appends it to the destination folder.
func MoveFile(s State, file domain.File, destUID string) State {
	s = EditFile(s, file)
	s, _ = RemoveFile(s, file.UID)
	s.Folders = mapFolders(s.Folders, func(folder domain.Folder) (domain.Folder, bool) {
		if folder.UID != destUID {
			return folder, false
		}
		contained := make([]domain.Entry, 0, len(folder.FilesContained)+1)
		contained = append(contained, folder.FilesContained...)
		folder.FilesContained = append(contained, file)
		return folder, true
	})
	return refreshDisplayFolder(s)
}

// --- Private helpers ---

func indexOfFile(files []domain.File, uid string) int {
	return slices.IndexFunc(files, func(f domain.File) bool { return f.UID == uid })
}

func indexOfFolder(folders []domain.Folder, uid string) int {
	return slices.IndexFunc(folders, func(f domain.Folder) bool { return f.UID == uid })
}

// mapFolders applies fn to every folder and clones the list only if something changed
func mapFolders(folders []domain.Folder, fn func(domain.Folder) (domain.Folder, bool)) []domain.Folder {
	var out []domain.Folder
	for i, folder := range folders {
		updated, changed := fn(folder)
		if !changed {
			continue
		}
		if out == nil {
			out = slices.Clone(folders)
		}
		out[i] = updated
	}
	if out == nil {
		return folders
	}
	return out
}

func removeContained(s State, uid string) (State, []Containment) {
	var containers []Containment
	s.Folders = mapFolders(s.Folders, func(folder domain.Folder) (domain.Folder, bool) {
		i := folder.IndexOf(uid)
		if i < 0 {
			return folder, false
		}
		containers = append(containers, Containment{FolderUID: folder.UID, Index: i})
		folder.FilesContained = slices.Delete(slices.Clone(folder.FilesContained), i, i+1)
		return folder, true
	})
	return refreshDisplayFolder(s), containers
}

func restoreContained(s State, e domain.Entry, containers []Containment) State {
	for _, c := range containers {
		s.Folders = mapFolders(s.Folders, func(folder domain.Folder) (domain.Folder, bool) {
			if folder.UID != c.FolderUID || folder.IndexOf(e.GetUID()) >= 0 {
				return folder, false
			}
			at := min(c.Index, len(folder.FilesContained))
			folder.FilesContained = slices.Insert(slices.Clone(folder.FilesContained), at, e)
			return folder, true
		})
	}
	return refreshDisplayFolder(s)
}

// refreshDisplayFolder points DisplayFolder at the newest snapshot of the same uid.
// A display folder that no longer exists is left as is.
func refreshDisplayFolder(s State) State {
	if s.DisplayFolder == nil {
		return s
	}
	if i := indexOfFolder(s.Folders, s.DisplayFolder.UID); i >= 0 {
		snapshot := s.Folders[i]
		s.DisplayFolder = &snapshot
	}
	return s
}
