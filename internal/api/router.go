package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mmcdole/drivestorage/internal/domain"
)

// NewRouter creates a chi router exposing gateway under /api.
// A non-empty token enforces Bearer auth on /api; /health and /metrics stay open.
func NewRouter(gateway domain.RemoteGateway, token string, logger *slog.Logger) chi.Router {
	h := NewHandler(gateway, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(token))

		// Files.
		r.Get("/files", h.ListFiles)
		r.Post("/files", h.UploadFiles)
		r.Patch("/files/{uid}", h.RenameFile)
		r.Post("/files/{uid}/trash", h.TrashFile)
		r.Post("/files/{uid}/move", h.MoveFile)
		r.Get("/files/{uid}/content", h.DownloadFile)

		// Folders.
		r.Get("/folders", h.ListFolders)
		r.Post("/folders", h.CreateFolder)
		r.Post("/folders/upload", h.UploadFolder)
		r.Post("/folders/{uid}/trash", h.TrashFolder)
		r.Get("/folders/{uid}/archive", h.DownloadFolder)
	})

	return r
}
