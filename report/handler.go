package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotedesk/quotedesk/internal/files"
	"github.com/quotedesk/quotedesk/internal/platform/httpx"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
)

// QuotationSource loads the quotation being rendered.
type QuotationSource interface {
	Get(ctx context.Context, id string) (*quotations.Quotation, error)
}

// DocumentOverride resolves an uploaded edited PDF that replaces the
// generated document.
type DocumentOverride interface {
	EditedPDF(ctx context.Context, quotationID string) (*files.File, io.ReadCloser, error)
}

// Handler serves document preview and PDF export.
type Handler struct {
	client    *Client
	source    QuotationSource
	overrides DocumentOverride
	logger    *slog.Logger
}

func NewHandler(client *Client, source QuotationSource, overrides DocumentOverride, logger *slog.Logger) *Handler {
	return &Handler{client: client, source: source, overrides: overrides, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
}

// MountQuotationRoutes registers the render routes scoped to a single
// quotation. The caller mounts them under the quotations subtree.
func (h *Handler) MountQuotationRoutes(r chi.Router) {
	r.Get("/{id}/document", h.document)
	r.Get("/{id}/pdf", h.pdf)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// document returns the print-ready HTML for on-screen preview.
func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	q, err := h.source.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(BuildQuotationHTML(q)))
}

// pdf exports the quotation as PDF. An uploaded edited PDF takes
// precedence over the generated document.
func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, err := h.source.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if f, rc, err := h.overrides.EditedPDF(r.Context(), id); err == nil {
		defer rc.Close()
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="`+f.Name+`"`)
		if _, err := io.Copy(w, rc); err != nil {
			h.logger.Error("stream edited pdf failed", "quotation_id", id, "error", err)
		}
		return
	} else if !errors.Is(err, files.ErrNotFound) {
		h.respondError(w, err)
		return
	}

	pdf, err := h.client.RenderHTML(r.Context(), BuildQuotationHTML(q))
	if err != nil {
		h.logger.Error("render quotation pdf failed", "quotation_id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+q.QuoteNo+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, quotations.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation not found")
		return
	}
	h.logger.Error("load quotation for document failed", "error", err)
	httpx.RespondError(w, err)
}
