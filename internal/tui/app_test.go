package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/drivestorage/internal/adapter"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/drive"
	"github.com/mmcdole/drivestorage/internal/library"
	"github.com/mmcdole/drivestorage/internal/trash"
)

type harness struct {
	model   Model
	coord   *library.Coordinator
	manager *library.Manager
	bin     *trash.Bin
}

func newHarness(t *testing.T, pageSize, files int) *harness {
	t.Helper()
	ctx := context.Background()

	d, err := drive.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("drive.Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	uploads := make([]domain.Upload, files)
	for i := range uploads {
		uploads[i] = domain.Upload{Name: fmt.Sprintf("file-%02d.txt", i), Body: strings.NewReader("x")}
	}
	if files > 0 {
		if _, err := d.UploadFiles(ctx, uploads); err != nil {
			t.Fatalf("UploadFiles: %v", err)
		}
	}

	logger := adapter.NullLogger()
	manager := library.NewManager(pageSize, logger)
	t.Cleanup(manager.Close)

	errs := make(chan error, 8)
	edits := make(chan domain.File, 8)
	bin := trash.NewBin(10, logger)
	coord := library.NewCoordinator(manager, d,
		library.WithTrash(bin),
		library.WithReporter(ChannelReporter(errs)),
		library.WithNotifier(NewChannelNotifier(edits)),
		library.WithLogger(logger),
	)
	states, cancel := manager.Subscribe()
	t.Cleanup(cancel)

	m := NewModel(Deps{
		Coordinator: coord,
		Queries:     library.NewQueries(manager),
		States:      states,
		Errors:      errs,
		Edits:       edits,
		Trash:       bin,
		Launcher:    adapter.NewLauncher("", nil, t.TempDir(), logger),
		Logger:      logger,
	})

	h := &harness{model: m, coord: coord, manager: manager, bin: bin}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.run(LoadCmd(coord))
	return h
}

// send delivers msg to the model
func (h *harness) send(msg tea.Msg) tea.Cmd {
	model, cmd := h.model.Update(msg)
	h.model = model.(Model)
	return cmd
}

// run executes cmd and feeds its message back, then syncs the view with the manager
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		h.send(msg)
	}
	h.send(StateMsg{State: h.manager.State()})
}

func (h *harness) press(keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	return h.send(msg)
}

func TestLoadShowsFirstPage(t *testing.T) {
	h := newHarness(t, 3, 5)

	if h.model.Loading {
		t.Error("still loading after LoadedMsg")
	}
	if got := len(h.model.Listing.CurrentList); got != 3 {
		t.Fatalf("listed %d entries, want 3", got)
	}
	if h.model.Listing.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", h.model.Listing.TotalPages)
	}
	out := h.model.View()
	if !strings.Contains(out, "file-00.txt") || !strings.Contains(out, "page 1 / 2") {
		t.Errorf("view missing first entry or page indicator:\n%s", out)
	}
}

func TestPagingKeys(t *testing.T) {
	h := newHarness(t, 3, 5)

	h.run(h.press("]"))
	if h.model.Listing.CurrentPage != 1 {
		t.Fatalf("CurrentPage = %d, want 1", h.model.Listing.CurrentPage)
	}
	if got := len(h.model.Listing.CurrentList); got != 2 {
		t.Errorf("last page has %d entries, want 2", got)
	}

	// Paging past the end is rejected and reported
	h.run(h.press("]"))
	if h.model.Listing.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d after overflow, want 1", h.model.Listing.CurrentPage)
	}

	h.run(h.press("["))
	if h.model.Listing.CurrentPage != 0 {
		t.Errorf("CurrentPage = %d, want 0", h.model.Listing.CurrentPage)
	}
}

func TestCursorStaysInRange(t *testing.T) {
	h := newHarness(t, 3, 2)

	for range 5 {
		h.press("j")
	}
	if h.model.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", h.model.Cursor)
	}
	h.press("g")
	if h.model.Cursor != 0 {
		t.Errorf("Cursor = %d after g, want 0", h.model.Cursor)
	}
}

func TestTrashWithConfirmation(t *testing.T) {
	h := newHarness(t, 5, 3)

	h.press("d")
	if h.model.State != StateConfirmTrash {
		t.Fatalf("State = %v, want confirm", h.model.State)
	}
	cmd := h.press("y")
	if h.model.State != StateBrowsing {
		t.Errorf("State = %v after confirm", h.model.State)
	}
	if h.model.Pending != 1 {
		t.Errorf("Pending = %d, want 1", h.model.Pending)
	}
	h.run(cmd)

	if h.model.Pending != 0 {
		t.Errorf("Pending = %d after settle, want 0", h.model.Pending)
	}
	if len(h.model.Listing.CurrentList) != 2 {
		t.Errorf("listed %d entries after trash, want 2", len(h.model.Listing.CurrentList))
	}
	if h.bin.Len() != 1 {
		t.Errorf("bin has %d entries, want 1", h.bin.Len())
	}
	if !strings.HasPrefix(h.model.StatusMsg, "Trashed") {
		t.Errorf("status = %q", h.model.StatusMsg)
	}
}

func TestDenyTrashKeepsEntry(t *testing.T) {
	h := newHarness(t, 5, 1)

	h.press("d")
	if cmd := h.press("n"); cmd != nil {
		t.Error("deny issued a command")
	}
	if h.model.State != StateBrowsing || len(h.model.Listing.CurrentList) != 1 {
		t.Errorf("state %v with %d entries", h.model.State, len(h.model.Listing.CurrentList))
	}
}

func TestCreateFolderAndEnter(t *testing.T) {
	h := newHarness(t, 5, 1)

	h.press("n")
	if !h.model.InputModal.IsVisible() {
		t.Fatal("input modal not shown")
	}
	h.press("docs")
	h.run(h.press("enter"))

	list := h.model.Listing.CurrentList
	if len(list) != 2 || !list[0].IsFolder() || list[0].GetName() != "docs" {
		t.Fatalf("list = %v, want folder first", list)
	}

	h.run(h.press("enter"))
	if !strings.Contains(h.model.Listing.Path, "docs") {
		t.Errorf("Path = %q", h.model.Listing.Path)
	}

	h.run(h.press("h"))
	if h.model.Listing.DisplayFolder != nil {
		t.Error("back did not return to root")
	}
}

func TestSearchRevealsEntry(t *testing.T) {
	h := newHarness(t, 2, 5)

	h.press("/")
	if !h.model.Search.IsVisible() {
		t.Fatal("search not shown")
	}
	h.press("file-04")
	h.run(h.press("enter"))

	if h.model.Listing.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", h.model.Listing.CurrentPage)
	}
	e, ok := h.model.Selected()
	if !ok || e.GetName() != "file-04.txt" {
		t.Errorf("selected %v, want file-04.txt", e)
	}
}

func TestReportedErrorsReachStatusLine(t *testing.T) {
	h := newHarness(t, 5, 0)

	h.send(ReportedMsg{Err: errors.New("remote down")})
	if !h.model.StatusIsErr || h.model.StatusMsg != "remote down" {
		t.Errorf("status = %q (err=%v)", h.model.StatusMsg, h.model.StatusIsErr)
	}
}

func TestChannelReporterNeverBlocks(t *testing.T) {
	ch := make(chan error, 1)
	report := ChannelReporter(ch)
	report(errors.New("first"))
	report(errors.New("dropped"))

	if err := <-ch; err.Error() != "first" {
		t.Errorf("got %v", err)
	}
}

func TestNavigateCmdCarriesFailure(t *testing.T) {
	h := newHarness(t, 5, 2)

	msg := NavigateCmd(func(ctx context.Context) error {
		return h.coord.NavigateToFolder(ctx, "missing")
	})()
	nav, ok := msg.(NavigatedMsg)
	if !ok {
		t.Fatalf("msg = %T, want NavigatedMsg", msg)
	}
	if !errors.Is(nav.Err, domain.ErrEntityNotFound) {
		t.Errorf("err = %v, want ErrEntityNotFound", nav.Err)
	}

	h.send(nav)
	if h.model.Listing.Path != "./" {
		t.Errorf("path = %q, want root after failed navigation", h.model.Listing.Path)
	}
}
