package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/mmcdole/drivestorage/internal/domain"
)

var errBoom = errors.New("boom")

func mkFiles(uids ...string) []domain.File {
	files := make([]domain.File, len(uids))
	for i, uid := range uids {
		files[i] = domain.File{UID: uid, Name: "file-" + uid}
	}
	return files
}

func mkFolder(uid string, contained ...domain.Entry) domain.Folder {
	return domain.Folder{UID: uid, Name: "folder-" + uid, FilesContained: contained}
}

func uidsOf(entries []domain.Entry) []string {
	uids := make([]string, len(entries))
	for i, e := range entries {
		uids[i] = e.GetUID()
	}
	return uids
}

// loaded builds a settled state from folders and files
func loaded(t *testing.T, pageSize int, folders []domain.Folder, files []domain.File) State {
	t.Helper()
	s, err := Reduce(NewState(pageSize), LoadFoldersAction{Folders: folders})
	if err != nil {
		t.Fatalf("load folders: %v", err)
	}
	s, err = Reduce(s, LoadFilesAction{Files: files})
	if err != nil {
		t.Fatalf("load files: %v", err)
	}
	return s
}

// fakeRemote is an in-memory gateway. When gate is non-nil every mutating
// call blocks until a value is received from it.
type fakeRemote struct {
	mu      sync.Mutex
	gate    chan struct{}
	errs    map[string]error
	calls   []string
	files   []domain.File
	folders []domain.Folder
	nextID  int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{errs: make(map[string]error)}
}

func (f *fakeRemote) enter(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	gate := f.gate
	err := f.errs[op]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeRemote) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeRemote) newUID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("new-%d", f.nextID)
}

func (f *fakeRemote) ListFiles(context.Context) ([]domain.File, error) {
	if err := f.enter("list files"); err != nil {
		return nil, err
	}
	return f.files, nil
}

func (f *fakeRemote) ListFolders(context.Context) ([]domain.Folder, error) {
	if err := f.enter("list folders"); err != nil {
		return nil, err
	}
	return f.folders, nil
}

func (f *fakeRemote) UploadFiles(_ context.Context, uploads []domain.Upload) ([]domain.File, error) {
	if err := f.enter("upload files"); err != nil {
		return nil, err
	}
	files := make([]domain.File, len(uploads))
	for i, u := range uploads {
		files[i] = domain.File{UID: f.newUID(), Name: u.Name}
	}
	return files, nil
}

func (f *fakeRemote) UploadFolder(_ context.Context, name string, uploads []domain.Upload) (domain.Folder, error) {
	if err := f.enter("upload folder"); err != nil {
		return domain.Folder{}, err
	}
	folder := domain.Folder{UID: f.newUID(), Name: name}
	for _, u := range uploads {
		folder.FilesContained = append(folder.FilesContained, domain.File{UID: f.newUID(), Name: u.Name})
	}
	return folder, nil
}

func (f *fakeRemote) TrashFile(_ context.Context, uid string) (domain.File, error) {
	if err := f.enter("trash file"); err != nil {
		return domain.File{}, err
	}
	return domain.File{UID: uid, Name: "trashed-" + uid}, nil
}

func (f *fakeRemote) TrashFolder(_ context.Context, uid string) (domain.Folder, error) {
	if err := f.enter("trash folder"); err != nil {
		return domain.Folder{}, err
	}
	return domain.Folder{UID: uid, Name: "trashed-" + uid}, nil
}

func (f *fakeRemote) CreateFolder(_ context.Context, name string) (domain.Folder, error) {
	if err := f.enter("create folder"); err != nil {
		return domain.Folder{}, err
	}
	return domain.Folder{UID: f.newUID(), Name: name}, nil
}

func (f *fakeRemote) RenameFile(_ context.Context, uid, newName string) (domain.File, error) {
	if err := f.enter("rename file"); err != nil {
		return domain.File{}, err
	}
	return domain.File{UID: uid, Name: newName}, nil
}

func (f *fakeRemote) MoveFile(_ context.Context, uid, _ string) (domain.File, error) {
	if err := f.enter("move file"); err != nil {
		return domain.File{}, err
	}
	return domain.File{UID: uid, Name: "moved-" + uid}, nil
}

func (f *fakeRemote) DownloadFile(_ context.Context, uid string, w io.Writer) error {
	if err := f.enter("download file"); err != nil {
		return err
	}
	_, err := io.WriteString(w, "content-"+uid)
	return err
}

func (f *fakeRemote) DownloadFolder(context.Context, string, io.Writer) error {
	return f.enter("download folder")
}

// recordingTrash counts entities handed over by trash operations
type recordingTrash struct {
	mu      sync.Mutex
	files   []domain.File
	folders []domain.Folder
}

func (r *recordingTrash) AddFile(f domain.File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

func (r *recordingTrash) AddFolder(f domain.Folder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders = append(r.folders, f)
}

type recordingNotifier struct {
	mu     sync.Mutex
	edited []domain.File
}

func (r *recordingNotifier) NotifyEdited(f domain.File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edited = append(r.edited, f)
}

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) report(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}
