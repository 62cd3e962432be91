package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/drivestorage/internal/domain"
)

func TestOpenGatewayLocal(t *testing.T) {
	cfg := &RemoteConfig{Mode: RemoteLocal, DataDir: t.TempDir()}
	gw, closeFn, err := OpenGateway(cfg, NullLogger())
	if err != nil {
		t.Fatalf("OpenGateway: %v", err)
	}
	defer closeFn()

	if _, err := gw.CreateFolder(context.Background(), "docs"); err != nil {
		t.Errorf("CreateFolder: %v", err)
	}
}

func TestOpenGatewayUnknownMode(t *testing.T) {
	if _, _, err := OpenGateway(&RemoteConfig{Mode: "ftp"}, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLauncherFetch(t *testing.T) {
	cfg := &RemoteConfig{Mode: RemoteLocal, DataDir: t.TempDir()}
	gw, closeFn, err := OpenGateway(cfg, NullLogger())
	if err != nil {
		t.Fatalf("OpenGateway: %v", err)
	}
	defer closeFn()

	files, err := gw.UploadFiles(context.Background(), []domain.Upload{{Name: "a.txt", Body: strings.NewReader("hello")}})
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}

	l := NewLauncher("", nil, t.TempDir(), NullLogger())
	path, err := l.fetch(context.Background(), gw, files[0])
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if filepath.Base(path) != "a.txt" {
		t.Errorf("path = %s", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}
