package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/futureed/archive/internal/blob"
	"github.com/futureed/archive/internal/catalog"
)

// BlobOpener reads stored uploads.
type BlobOpener interface {
	Open(ref string) (io.ReadCloser, error)
}

// UploadsHandler serves stored item images.
type UploadsHandler struct {
	Blobs BlobOpener
}

// Serve handles GET /uploads/{name}.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, err := h.Blobs.Open(chi.URLParam(r, "name"))
	if errors.Is(err, blob.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "not_found", "image not found")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("failed to stream image", "error", err, "request_id", requestID(r))
	}
}

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	Svc *catalog.Service
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Svc.Ping(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Backend is running!")
}
