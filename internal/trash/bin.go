// Package trash holds entities after a confirmed trash operation.
package trash

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/library"
)

// Item is a trashed entry and the moment it arrived
type Item struct {
	Entry     domain.Entry
	TrashedAt time.Time
}

// Bin is an in-memory, paginated trash. It implements domain.TrashSink and is
// safe for concurrent use.
type Bin struct {
	mu       sync.RWMutex
	items    []Item // newest first
	pageSize int
	now      func() time.Time
	logger   *slog.Logger
}

// NewBin creates an empty bin
func NewBin(pageSize int, logger *slog.Logger) *Bin {
	if pageSize <= 0 {
		pageSize = library.DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bin{pageSize: pageSize, now: time.Now, logger: logger}
}

func (b *Bin) AddFile(file domain.File) {
	b.add(file)
}

func (b *Bin) AddFolder(folder domain.Folder) {
	b.add(folder)
}

func (b *Bin) add(e domain.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A re-trashed uid moves to the front rather than appearing twice.
	b.items = slices.DeleteFunc(b.items, func(it Item) bool {
		return it.Entry.GetUID() == e.GetUID()
	})
	b.items = slices.Insert(b.items, 0, Item{Entry: e, TrashedAt: b.now()})
	b.logger.Debug("entry trashed", "uid", e.GetUID(), "kind", e.Kind(), "binSize", len(b.items))
}

// Len returns the number of trashed entries
func (b *Bin) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Entries returns every trashed entry, newest first
func (b *Bin) Entries() []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.items)
}

// TotalPages returns the page count, at least 1
func (b *Bin) TotalPages() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return library.PageCount(len(b.items), b.pageSize)
}

// Page returns the entries on page index
func (b *Bin) Page(index int) ([]Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := library.PageCount(len(b.items), b.pageSize)
	if index < 0 || index >= total {
		return nil, fmt.Errorf("%w: trash page %d of %d", domain.ErrPageOutOfRange, index, total)
	}
	return library.Paginate(b.items, index, b.pageSize), nil
}

// Contains reports whether uid is in the bin
func (b *Bin) Contains(uid string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.ContainsFunc(b.items, func(it Item) bool { return it.Entry.GetUID() == uid })
}
