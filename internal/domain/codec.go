package domain

import (
	"encoding/json"
	"fmt"
)

// entryWire is the wire shape shared by files and folders. The isFolder tag
// selects the variant on decode.
type entryWire struct {
	UID            string            `json:"uid"`
	Name           string            `json:"name"`
	IsFolder       bool              `json:"isFolder"`
	Size           int64             `json:"size,omitempty"`
	FilesContained []json.RawMessage `json:"filesContained,omitempty"`
}

// MarshalJSON encodes the file with isFolder=false
func (f File) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryWire{UID: f.UID, Name: f.Name, Size: f.Size})
}

// UnmarshalJSON decodes a file, rejecting folder payloads
func (f *File) UnmarshalJSON(data []byte) error {
	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.IsFolder {
		return fmt.Errorf("decode file %q: payload is a folder", w.UID)
	}
	*f = File{UID: w.UID, Name: w.Name, Size: w.Size}
	return nil
}

// MarshalJSON encodes the folder with isFolder=true and its contents tagged per element
func (f Folder) MarshalJSON() ([]byte, error) {
	type folderWire struct {
		UID            string  `json:"uid"`
		Name           string  `json:"name"`
		IsFolder       bool    `json:"isFolder"`
		FilesContained []Entry `json:"filesContained"`
	}
	contained := f.FilesContained
	if contained == nil {
		contained = []Entry{}
	}
	return json.Marshal(folderWire{UID: f.UID, Name: f.Name, IsFolder: true, FilesContained: contained})
}

// UnmarshalJSON decodes a folder and each contained entry by its isFolder tag
func (f *Folder) UnmarshalJSON(data []byte) error {
	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	contained := make([]Entry, 0, len(w.FilesContained))
	for _, raw := range w.FilesContained {
		e, err := UnmarshalEntry(raw)
		if err != nil {
			return fmt.Errorf("decode folder %q: %w", w.UID, err)
		}
		contained = append(contained, e)
	}
	*f = Folder{UID: w.UID, Name: w.Name, FilesContained: contained}
	return nil
}

// UnmarshalEntry decodes a single tagged entry into File or Folder
func UnmarshalEntry(data []byte) (Entry, error) {
	var probe struct {
		IsFolder bool `json:"isFolder"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.IsFolder {
		var folder Folder
		if err := json.Unmarshal(data, &folder); err != nil {
			return nil, err
		}
		return folder, nil
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file, nil
}
