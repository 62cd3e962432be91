package library

import "github.com/mmcdole/drivestorage/internal/domain"

// PageCount returns max(1, ceil(n/size)). An empty listing still has one, empty, page.
func PageCount(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns a copy of items[page*size : page*size+size], clamped to the slice bounds
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	start := page * size
	if page < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Source returns the sequence being paginated: the display folder's contents,
// or folders followed by files at the root.
func Source(s State) []domain.Entry {
	if s.DisplayFolder != nil {
		return s.DisplayFolder.FilesContained
	}
	source := make([]domain.Entry, 0, len(s.Folders)+len(s.Files))
	source = append(source, domain.FoldersAsEntries(s.Folders)...)
	return append(source, domain.FilesAsEntries(s.Files)...)
}

// RecomputeCurrentList derives CurrentList from the source and the page cursor
func RecomputeCurrentList(s State) State {
	s.CurrentList = Paginate(Source(s), s.CurrentPage, s.PageSize)
	return s
}

// RecomputeTotalPages derives TotalPages from the source length
func RecomputeTotalPages(s State) State {
	s.TotalPages = PageCount(len(Source(s)), s.PageSize)
	return s
}

// Recompute re-runs both derivations
func Recompute(s State) State {
	return RecomputeTotalPages(RecomputeCurrentList(s))
}
