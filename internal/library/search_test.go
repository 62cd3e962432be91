package library

import (
	"errors"
	"testing"

	"github.com/mmcdole/drivestorage/internal/domain"
)

func searchState(t *testing.T) State {
	inner := domain.File{UID: "in", Name: "Budget 2024.xlsx"}
	folders := []domain.Folder{
		{UID: "F", Name: "Finance", FilesContained: []domain.Entry{inner}},
	}
	files := []domain.File{
		{UID: "1", Name: "notes.txt"},
		{UID: "2", Name: "budget-draft.doc"},
		{UID: "3", Name: "photo.png"},
	}
	return loaded(t, 2, folders, files)
}

func TestSearchFindsRootAndNestedEntries(t *testing.T) {
	s := searchState(t)

	matches := Search(s, "budget")
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	byUID := make(map[string]Match)
	for _, m := range matches {
		byUID[m.Entry.GetUID()] = m
	}
	if m, ok := byUID["in"]; !ok || m.FolderUID != "F" {
		t.Errorf("nested match = %+v", m)
	}
	if m, ok := byUID["2"]; !ok || m.FolderUID != "" {
		t.Errorf("root match = %+v", m)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := searchState(t)
	if got := Search(s, "FINANCE"); len(got) != 1 || !got[0].Entry.IsFolder() {
		t.Errorf("matches = %+v, want Finance folder", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if got := Search(searchState(t), "  "); got != nil {
		t.Errorf("matches = %+v, want nil", got)
	}
}

func TestLocate(t *testing.T) {
	s := searchState(t)

	tests := []struct {
		uid        string
		wantFolder string
		wantPage   int
	}{
		{"F", "", 0},
		{"1", "", 0},
		{"2", "", 1},
		{"3", "", 1},
		{"in", "F", 0},
	}
	for _, tt := range tests {
		folder, page, err := Locate(s, tt.uid)
		if err != nil {
			t.Errorf("Locate(%s): %v", tt.uid, err)
			continue
		}
		if folder != tt.wantFolder || page != tt.wantPage {
			t.Errorf("Locate(%s) = (%q, %d), want (%q, %d)", tt.uid, folder, page, tt.wantFolder, tt.wantPage)
		}
	}

	if _, _, err := Locate(s, "nope"); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Errorf("error = %v, want ErrEntityNotFound", err)
	}
}
