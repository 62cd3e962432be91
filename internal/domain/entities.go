package domain

// EntryKind distinguishes the two variants of Entry
type EntryKind int

const (
	KindFile EntryKind = iota
	KindFolder
)

// String returns "file" or "folder"
func (k EntryKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Entry is a listing element: either a File or a Folder.
// The set of implementations is closed; match with a type switch.
type Entry interface {
	// GetUID returns the stable unique identifier
	GetUID() string

	// GetName returns the display name
	GetName() string

	// Kind returns KindFile or KindFolder
	Kind() EntryKind

	// IsFolder reports whether the entry can be navigated into
	IsFolder() bool

	entry()
}

// File is an immutable snapshot of a stored file
type File struct {
	UID  string
	Name string
	Size int64 // Byte size reported by the remote, 0 if unknown
}

func (f File) GetUID() string  { return f.UID }
func (f File) GetName() string { return f.Name }
func (f File) Kind() EntryKind { return KindFile }
func (f File) IsFolder() bool  { return false }
func (File) entry()            {}

// Folder is an immutable snapshot of a folder and the entries it holds.
// FilesContained is never modified in place; transitions build a new slice.
type Folder struct {
	UID            string
	Name           string
	FilesContained []Entry
}

func (f Folder) GetUID() string  { return f.UID }
func (f Folder) GetName() string { return f.Name }
func (f Folder) Kind() EntryKind { return KindFolder }
func (f Folder) IsFolder() bool  { return true }
func (Folder) entry()            {}

// Len returns the number of contained entries
func (f Folder) Len() int {
	return len(f.FilesContained)
}

// IndexOf returns the position of uid inside the folder, -1 if absent
func (f Folder) IndexOf(uid string) int {
	for i, e := range f.FilesContained {
		if e.GetUID() == uid {
			return i
		}
	}
	return -1
}

// FilesAsEntries converts files to a listing sequence
func FilesAsEntries(files []File) []Entry {
	entries := make([]Entry, len(files))
	for i, f := range files {
		entries[i] = f
	}
	return entries
}

// FoldersAsEntries converts folders to a listing sequence
func FoldersAsEntries(folders []Folder) []Entry {
	entries := make([]Entry, len(folders))
	for i, f := range folders {
		entries[i] = f
	}
	return entries
}
