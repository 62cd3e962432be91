package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/drivestorage/internal/drive"
)

func testRouter(t *testing.T, token string) http.Handler {
	t.Helper()
	d, err := drive.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("drive.Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewRouter(d, token, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateFolderAndList(t *testing.T) {
	router := testRouter(t, "")

	w := do(t, router, http.MethodPost, "/api/folders", `{"name":"docs"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created map[string]any
	json.Unmarshal(w.Body.Bytes(), &created)
	if created["isFolder"] != true || created["name"] != "docs" {
		t.Errorf("created = %v", created)
	}

	w = do(t, router, http.MethodGet, "/api/folders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var folders []map[string]any
	json.Unmarshal(w.Body.Bytes(), &folders)
	if len(folders) != 1 {
		t.Errorf("folders = %v", folders)
	}
}

func TestUploadRenameTrash(t *testing.T) {
	router := testRouter(t, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/files", nil, map[string]string{"a.txt": "hello"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	var files []struct {
		UID  string `json:"uid"`
		Size int64  `json:"size"`
	}
	json.Unmarshal(w.Body.Bytes(), &files)
	if len(files) != 1 || files[0].Size != 5 {
		t.Fatalf("files = %+v", files)
	}
	uid := files[0].UID

	w = do(t, router, http.MethodPatch, "/api/files/"+uid, `{"name":"b.txt"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "b.txt") {
		t.Errorf("rename status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/files/"+uid+"/content", "")
	if w.Code != http.StatusOK || w.Body.String() != "hello" {
		t.Errorf("content status = %d, body = %q", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/api/files/"+uid+"/trash", "")
	if w.Code != http.StatusOK {
		t.Errorf("trash status = %d", w.Code)
	}
	w = do(t, router, http.MethodPost, "/api/files/"+uid+"/trash", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second trash status = %d, want 404", w.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	router := testRouter(t, "")

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"missing file", http.MethodPatch, "/api/files/nope", `{"name":"x"}`, http.StatusNotFound},
		{"empty folder name", http.MethodPost, "/api/folders", `{"name":"  "}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/folders", `{`, http.StatusBadRequest},
		{"move without destination", http.MethodPost, "/api/files/x/move", `{}`, http.StatusBadRequest},
		{"missing archive", http.MethodGet, "/api/folders/nope/archive", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("body = %s, want error field", w.Body.String())
			}
		})
	}
}

func TestAuth(t *testing.T) {
	router := testRouter(t, "secret")

	if w := do(t, router, http.MethodGet, "/api/files", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("with token status = %d, want 200", w.Code)
	}

	if w := do(t, router, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 without auth", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t, "")
	do(t, router, http.MethodGet, "/api/files", "")

	w := do(t, router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "drive_http_requests_total") {
		t.Error("request counter missing from scrape")
	}
}
