package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mmcdole/drivestorage/internal/domain"
)

const maxUploadBytes = 256 << 20 // 256 MB

// Handler holds API route handlers.
type Handler struct {
	gateway domain.RemoteGateway
	logger  *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(gateway domain.RemoteGateway, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gateway: gateway, logger: logger}
}

type nameRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	FolderUID string `json:"folderUid"`
}

// ListFiles handles GET /api/files.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.gateway.ListFiles(r.Context())
	h.respond(w, "list files", files, err)
}

// ListFolders handles GET /api/folders.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.gateway.ListFolders(r.Context())
	h.respond(w, "list folders", folders, err)
}

// UploadFiles handles POST /api/files (multipart, field "files").
func (h *Handler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	uploads, closeAll, err := multipartUploads(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	defer closeAll()

	files, err := h.gateway.UploadFiles(r.Context(), uploads)
	h.respondStatus(w, "upload files", http.StatusCreated, files, err)
}

// UploadFolder handles POST /api/folders/upload (multipart, "name" and "files").
func (h *Handler) UploadFolder(w http.ResponseWriter, r *http.Request) {
	uploads, closeAll, err := multipartUploads(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	defer closeAll()

	folder, err := h.gateway.UploadFolder(r.Context(), r.FormValue("name"), uploads)
	h.respondStatus(w, "upload folder", http.StatusCreated, folder, err)
}

// CreateFolder handles POST /api/folders.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	folder, err := h.gateway.CreateFolder(r.Context(), req.Name)
	h.respondStatus(w, "create folder", http.StatusCreated, folder, err)
}

// TrashFile handles POST /api/files/{uid}/trash.
func (h *Handler) TrashFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.gateway.TrashFile(r.Context(), chi.URLParam(r, "uid"))
	h.respond(w, "trash file", file, err)
}

// TrashFolder handles POST /api/folders/{uid}/trash.
func (h *Handler) TrashFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.gateway.TrashFolder(r.Context(), chi.URLParam(r, "uid"))
	h.respond(w, "trash folder", folder, err)
}

// RenameFile handles PATCH /api/files/{uid}.
func (h *Handler) RenameFile(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	file, err := h.gateway.RenameFile(r.Context(), chi.URLParam(r, "uid"), req.Name)
	h.respond(w, "rename file", file, err)
}

// MoveFile handles POST /api/files/{uid}/move.
func (h *Handler) MoveFile(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil || req.FolderUID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("folderUid is required"))
		return
	}
	file, err := h.gateway.MoveFile(r.Context(), chi.URLParam(r, "uid"), req.FolderUID)
	h.respond(w, "move file", file, err)
}

// DownloadFile handles GET /api/files/{uid}/content.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	var buf bytes.Buffer
	err := h.gateway.DownloadFile(r.Context(), uid, &buf)
	recordOperation("download file", err)
	if err != nil {
		h.writeError(w, "download file", err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(buf.Bytes())
}

// DownloadFolder handles GET /api/folders/{uid}/archive.
func (h *Handler) DownloadFolder(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	var buf bytes.Buffer
	err := h.gateway.DownloadFolder(r.Context(), uid, &buf)
	recordOperation("download folder", err)
	if err != nil {
		h.writeError(w, "download folder", err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", uid+".zip"))
	w.Write(buf.Bytes())
}

// --- Private helpers ---

func (h *Handler) respond(w http.ResponseWriter, op string, v any, err error) {
	h.respondStatus(w, op, http.StatusOK, v, err)
}

func (h *Handler) respondStatus(w http.ResponseWriter, op string, status int, v any, err error) {
	recordOperation(op, err)
	if err != nil {
		h.writeError(w, op, err)
		return
	}
	writeJSON(w, status, v)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "op", op, "error", err)
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	h.logger.Debug("request rejected", "op", op, "error", err)
	writeJSON(w, status, errorBody(err.Error()))
}

// multipartUploads opens every part of the "files" field. The returned
// function closes them.
func multipartUploads(w http.ResponseWriter, r *http.Request) ([]domain.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	headers := r.MultipartForm.File["files"]
	uploads := make([]domain.Upload, 0, len(headers))
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
		r.MultipartForm.RemoveAll()
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open part %q: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		bytesUploaded.Add(float64(fh.Size))
		uploads = append(uploads, domain.Upload{Name: fh.Filename, Body: f})
	}
	return uploads, closeAll, nil
}
