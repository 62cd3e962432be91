package library

import (
	"strings"

	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Match is a search hit with match metadata for highlighting
type Match struct {
	Entry          domain.Entry
	FolderUID      string // Folder holding the entry, empty at the root
	MatchedIndexes []int  // Character positions that matched
	Score          int
}

type searchItem struct {
	entry     domain.Entry
	folderUID string
}

// searchIndex implements fuzzy.Source over lowercase names
type searchIndex struct {
	items []searchItem
	lower []string
}

func (idx *searchIndex) String(i int) string { return idx.lower[i] }
func (idx *searchIndex) Len() int            { return len(idx.items) }

// Search ranks every known entry by fuzzy name match, best first.
// Entries are indexed once each: root entries first, then folder contents.
func Search(s State, query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	idx := buildSearchIndex(s)
	if idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]Match, len(matches))
	for i, m := range matches {
		item := idx.items[m.Index]
		results[i] = Match{
			Entry:          item.entry,
			FolderUID:      item.folderUID,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Locate returns the folder context and page where uid is listed.
// Root entries report an empty folder uid.
func Locate(s State, uid string) (folderUID string, page int, err error) {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	root := s
	root.DisplayFolder = nil
	for i, e := range Source(root) {
		if e.GetUID() == uid {
			return "", i / size, nil
		}
	}
	for _, folder := range s.Folders {
		if i := folder.IndexOf(uid); i >= 0 {
			return folder.UID, i / size, nil
		}
	}
	return "", 0, domain.NotFound(domain.KindFile, uid)
}

func buildSearchIndex(s State) *searchIndex {
	idx := &searchIndex{}
	seen := make(map[string]bool)
	add := func(e domain.Entry, folderUID string) {
		if seen[e.GetUID()] {
			return
		}
		seen[e.GetUID()] = true
		idx.items = append(idx.items, searchItem{entry: e, folderUID: folderUID})
		idx.lower = append(idx.lower, strings.ToLower(e.GetName()))
	}

	for _, f := range s.Folders {
		add(f, "")
	}
	for _, f := range s.Files {
		add(f, "")
	}
	for _, folder := range s.Folders {
		for _, e := range folder.FilesContained {
			add(e, folder.UID)
		}
	}
	return idx
}
