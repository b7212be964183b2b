package quotations

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
	"github.com/quotedesk/quotedesk/internal/pricing"
)

// Archiver schedules a background PDF snapshot of a quotation. The
// archive run is best effort: a failed enqueue never fails the status
// change that triggered it.
type Archiver interface {
	EnqueuePDFArchive(ctx context.Context, quotationID string) error
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	archiver Archiver
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, archiver Archiver) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		archiver: archiver,
		validate: validator.New(),
	}
}

// MountRoutes registers the quotation routes relative to the mount
// point. Sibling modules add their quotation-scoped routes to the same
// subtree so every /quotations/{id} segment shares one parameter name.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/status", h.SetStatus)
	r.Post("/{id}/deliver", h.Deliver)
	r.Post("/{id}/revert-delivery", h.RevertDelivery)
	r.Post("/{id}/revise", h.Revise)
	r.Get("/{id}/revisions", h.Revisions)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Status:     q.Get("status"),
		Type:       q.Get("type"),
		CustomerID: q.Get("customer_id"),
	}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if v := q.Get(name); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
					name+" must be a date in YYYY-MM-DD form")
				return
			}
			*dst = &t
		}
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list quotations failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Quotation{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	q, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	q, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "update quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "quotation deleted", "id": id})
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	q, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "set quotation status failed", err)
		return
	}
	if q.Status == StatusAccepted && h.archiver != nil {
		if err := h.archiver.EnqueuePDFArchive(r.Context(), q.ID); err != nil {
			h.logger.Warn("enqueue pdf archive failed", "quotation_id", q.ID, "error", err)
		}
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Deliver(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "deliver quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) RevertDelivery(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.RevertDelivery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "revert delivery failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Revise(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Revise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "revise quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) Revisions(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get quotation failed", err)
		return
	}
	revisions, err := h.service.ListRevisions(r.Context(), q.RevisionGroupID)
	if err != nil {
		h.respondError(w, "list revisions failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, revisions)
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error) {
	var invalid *pricing.InvalidDiscountError
	var confirm *ConfirmationRequiredError
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation not found")
	case errors.As(err, &invalid):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Discount", invalid.Error())
	case errors.As(err, &confirm):
		httpx.JSON(w, http.StatusConflict, map[string]any{
			"title":             "Discount Confirmation Required",
			"status":            http.StatusConflict,
			"detail":            confirm.Error(),
			"needs_confirmation": true,
			"currency":          confirm.Check.Currency,
			"subtotal":          confirm.Check.Subtotal,
			"discount_amount":   confirm.Check.DiscountAmount,
			"grand_total":       confirm.Check.GrandTotal,
		})
	default:
		h.logger.Error(msg, "error", err)
		httpx.RespondError(w, err)
	}
}
