package trash

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/drivestorage/internal/domain"
)

func TestBinNewestFirst(t *testing.T) {
	b := NewBin(2, nil)
	b.AddFile(domain.File{UID: "1"})
	b.AddFolder(domain.Folder{UID: "F"})
	b.AddFile(domain.File{UID: "2"})

	entries := b.Entries()
	want := []string{"2", "F", "1"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(entries), len(want))
	}
	for i, uid := range want {
		if entries[i].Entry.GetUID() != uid {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Entry.GetUID(), uid)
		}
	}
}

func TestBinPagination(t *testing.T) {
	b := NewBin(2, nil)
	if b.TotalPages() != 1 {
		t.Errorf("empty bin totalPages = %d, want 1", b.TotalPages())
	}
	if page, err := b.Page(0); err != nil || len(page) != 0 {
		t.Errorf("empty page 0 = %v, %v", page, err)
	}

	for _, uid := range []string{"1", "2", "3"} {
		b.AddFile(domain.File{UID: uid})
	}
	if b.TotalPages() != 2 {
		t.Errorf("totalPages = %d, want 2", b.TotalPages())
	}
	page, err := b.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	if len(page) != 1 || page[0].Entry.GetUID() != "1" {
		t.Errorf("page 1 = %+v, want oldest entry", page)
	}
	if _, err := b.Page(2); !errors.Is(err, domain.ErrPageOutOfRange) {
		t.Errorf("Page(2) error = %v, want ErrPageOutOfRange", err)
	}
}

func TestBinRetrashMovesToFront(t *testing.T) {
	b := NewBin(5, nil)
	b.AddFile(domain.File{UID: "1"})
	b.AddFile(domain.File{UID: "2"})
	b.AddFile(domain.File{UID: "1", Name: "again"})

	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if got := b.Entries()[0].Entry.GetName(); got != "again" {
		t.Errorf("front = %q, want again", got)
	}
}

func TestBinRecordsTrashTime(t *testing.T) {
	b := NewBin(5, nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	b.AddFile(domain.File{UID: "1"})
	if got := b.Entries()[0].TrashedAt; !got.Equal(fixed) {
		t.Errorf("trashedAt = %v, want %v", got, fixed)
	}
	if !b.Contains("1") || b.Contains("2") {
		t.Error("Contains mismatch")
	}
}

func TestBinConcurrentAdds(t *testing.T) {
	b := NewBin(5, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.AddFile(domain.File{UID: string(rune('a' + i%26)) + string(rune('0'+i/26))})
		}(i)
	}
	wg.Wait()
	if b.Len() != 50 {
		t.Errorf("len = %d, want 50", b.Len())
	}
}
