package drive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mmcdole/drivestorage/internal/domain"
)

func openTestDrive(t *testing.T) *Drive {
	t.Helper()
	d, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func upload(name, body string) domain.Upload {
	return domain.Upload{Name: name, Body: strings.NewReader(body)}
}

func TestUploadAndListInOrder(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()

	files, err := d.UploadFiles(ctx, []domain.Upload{upload("b.txt", "bb"), upload("a.txt", "a")})
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}
	if files[0].Size != 2 || files[1].Size != 1 {
		t.Errorf("sizes = %d, %d", files[0].Size, files[1].Size)
	}

	listed, err := d.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(listed) != 2 || listed[0].Name != "b.txt" || listed[1].Name != "a.txt" {
		t.Errorf("listed = %+v, want upload order", listed)
	}
}

func TestUploadFolderContents(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()

	folder, err := d.UploadFolder(ctx, "docs", []domain.Upload{upload("one", "1"), upload("two", "2")})
	if err != nil {
		t.Fatalf("UploadFolder: %v", err)
	}
	if folder.Len() != 2 {
		t.Fatalf("contents = %d, want 2", folder.Len())
	}

	root, _ := d.ListFiles(ctx)
	if len(root) != 0 {
		t.Errorf("folder files leaked into root listing: %+v", root)
	}
	folders, err := d.ListFolders(ctx)
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 1 || folders[0].Len() != 2 {
		t.Errorf("folders = %+v", folders)
	}
}

func TestUploadFolderWithBadFileLeavesNoFolder(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()

	_, err := d.UploadFolder(ctx, "docs", []domain.Upload{upload("ok", "1"), upload("a/b", "2")})
	if !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("error = %v, want ErrInvalidName", err)
	}
	if folders, _ := d.ListFolders(ctx); len(folders) != 0 {
		t.Errorf("folders = %+v, want none", folders)
	}
}

func TestTrashFileHidesIt(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()
	files, _ := d.UploadFiles(ctx, []domain.Upload{upload("a", "a"), upload("b", "b")})

	trashed, err := d.TrashFile(ctx, files[0].UID)
	if err != nil {
		t.Fatalf("TrashFile: %v", err)
	}
	if trashed.Name != "a" {
		t.Errorf("trashed = %+v", trashed)
	}

	listed, _ := d.ListFiles(ctx)
	if len(listed) != 1 || listed[0].UID != files[1].UID {
		t.Errorf("listed = %+v", listed)
	}
	if _, err := d.TrashFile(ctx, files[0].UID); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Errorf("second trash error = %v, want ErrEntityNotFound", err)
	}
}

func TestTrashFolderCascades(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()
	folder, _ := d.UploadFolder(ctx, "docs", []domain.Upload{upload("one", "1")})
	inner := folder.FilesContained[0].GetUID()

	trashed, err := d.TrashFolder(ctx, folder.UID)
	if err != nil {
		t.Fatalf("TrashFolder: %v", err)
	}
	if trashed.Len() != 1 {
		t.Errorf("trashed snapshot contents = %d, want 1", trashed.Len())
	}
	if folders, _ := d.ListFolders(ctx); len(folders) != 0 {
		t.Errorf("folders = %+v, want none", folders)
	}
	if err := d.DownloadFile(ctx, inner, io.Discard); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Errorf("download of cascaded file error = %v, want ErrEntityNotFound", err)
	}
}

func TestRenameAndMove(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()
	files, _ := d.UploadFiles(ctx, []domain.Upload{upload("a", "a")})
	folder, _ := d.CreateFolder(ctx, "dest")

	renamed, err := d.RenameFile(ctx, files[0].UID, " renamed.txt ")
	if err != nil {
		t.Fatalf("RenameFile: %v", err)
	}
	if renamed.Name != "renamed.txt" {
		t.Errorf("name = %q", renamed.Name)
	}
	if _, err := d.RenameFile(ctx, files[0].UID, ""); !errors.Is(err, domain.ErrInvalidName) {
		t.Errorf("empty rename error = %v, want ErrInvalidName", err)
	}

	if _, err := d.MoveFile(ctx, files[0].UID, "missing"); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Errorf("move to missing folder error = %v", err)
	}
	if _, err := d.MoveFile(ctx, files[0].UID, folder.UID); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}

	root, _ := d.ListFiles(ctx)
	folders, _ := d.ListFolders(ctx)
	if len(root) != 0 {
		t.Errorf("root = %+v, want empty", root)
	}
	if folders[0].IndexOf(files[0].UID) != 0 {
		t.Errorf("destination contents = %+v", folders[0].FilesContained)
	}
}

func TestDownloads(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()
	files, _ := d.UploadFiles(ctx, []domain.Upload{upload("a.txt", "hello")})
	folder, _ := d.UploadFolder(ctx, "docs", []domain.Upload{upload("x.txt", "xx"), upload("y.txt", "yy")})

	var buf bytes.Buffer
	if err := d.DownloadFile(ctx, files[0].UID, &buf); err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if buf.String() != "hello" {
		t.Errorf("content = %q", buf.String())
	}

	buf.Reset()
	if err := d.DownloadFolder(ctx, folder.UID, &buf); err != nil {
		t.Fatalf("DownloadFolder: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	if len(zr.File) != 2 || zr.File[0].Name != "x.txt" {
		t.Errorf("archive entries = %d", len(zr.File))
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	d, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	d.CreateFolder(ctx, "kept")
	d.Close()

	d, err = Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	folders, _ := d.ListFolders(ctx)
	if len(folders) != 1 || folders[0].Name != "kept" {
		t.Errorf("folders = %+v", folders)
	}
}

func TestCancelledContext(t *testing.T) {
	d := openTestDrive(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.ListFiles(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestUploadFolderFailureLeavesNoFolder(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()

	_, err := d.UploadFolder(ctx, "docs", []domain.Upload{
		upload("one", "1"),
		{Name: "two", Body: failingReader{}},
	})
	if err == nil {
		t.Fatal("UploadFolder succeeded with a failing body")
	}

	folders, err := d.ListFolders(ctx)
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("folders = %+v, want none after failed upload", folders)
	}
	files, err := d.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %+v, want none after failed upload", files)
	}
}

func TestUploadFolderInvalidFileNameLeavesNoFolder(t *testing.T) {
	d := openTestDrive(t)
	ctx := context.Background()

	_, err := d.UploadFolder(ctx, "docs", []domain.Upload{upload("", "1")})
	if !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("error = %v, want ErrInvalidName", err)
	}
	folders, _ := d.ListFolders(ctx)
	if len(folders) != 0 {
		t.Errorf("folders = %+v, want none", folders)
	}
}
