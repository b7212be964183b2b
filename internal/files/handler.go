package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
)

// maxUploadSize caps a single attachment at 25 MiB.
const maxUploadSize = 25 << 20

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/files/{id}", h.Download)
	r.Delete("/files/{id}", h.Delete)
}

// MountQuotationRoutes registers the attachment routes scoped to a
// single quotation. The caller mounts them under the quotations
// subtree.
func (h *Handler) MountQuotationRoutes(r chi.Router) {
	r.Route("/{id}/files", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Upload)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(),
		chi.URLParam(r, "id"), r.URL.Query().Get("category"))
	if err != nil {
		h.respondError(w, "list files failed", err)
		return
	}
	if list == nil {
		list = []File{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart body or file too large")
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "file field is required")
		return
	}
	defer src.Close()

	f, err := h.service.Upload(r.Context(),
		chi.URLParam(r, "id"),
		r.FormValue("category"),
		header.Filename,
		header.Header.Get("Content-Type"),
		src)
	if err != nil {
		h.respondError(w, "upload file failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	f, rc, err := h.service.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "download file failed", err)
		return
	}
	defer rc.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", f.Size))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("stream file failed", "file_id", f.ID, "error", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete file failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "file deleted", "id": id})
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "file not found")
		return
	}
	if errors.Is(err, httpx.ErrValidation) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.logger.Error(msg, "error", err)
	httpx.RespondError(w, err)
}
