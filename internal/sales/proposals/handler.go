package proposals

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/proposals", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/submit", h.Submit)
		r.Put("/{id}/status", h.SetStatus)
		r.Post("/{id}/convert", h.Convert)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Error("list proposals failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Proposal{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get proposal failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProposalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create proposal failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProposalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "update proposal failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete proposal failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "proposal deleted", "id": id})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitProposalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	p, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "submit proposal failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetProposalStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "set proposal status failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Convert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "convert proposal failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error) {
	var invalid *pricing.InvalidDiscountError
	var confirm *quotations.ConfirmationRequiredError
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "proposal not found")
	case errors.As(err, &invalid):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Discount", invalid.Error())
	case errors.As(err, &confirm):
		httpx.JSON(w, http.StatusConflict, map[string]any{
			"title":              "Discount Confirmation Required",
			"status":             http.StatusConflict,
			"detail":             confirm.Error(),
			"needs_confirmation": true,
			"currency":           confirm.Check.Currency,
			"subtotal":           confirm.Check.Subtotal,
			"discount_amount":    confirm.Check.DiscountAmount,
			"grand_total":        confirm.Check.GrandTotal,
		})
	default:
		h.logger.Error(msg, "error", err)
		httpx.RespondError(w, err)
	}
}
