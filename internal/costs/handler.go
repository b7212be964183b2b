package costs

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
)

// reportPasswordHeader carries the shared cost-report password.
const reportPasswordHeader = "X-Report-Password"

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
	r.Route("/cost-categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
	r.Route("/costs", func(r chi.Router) {
		r.Put("/{id}", h.UpdateEntry)
		r.Delete("/{id}", h.DeleteEntry)
	})
	r.Get("/cost-report", h.Report)
}

// MountQuotationRoutes registers the costing routes scoped to a single
// quotation. The caller mounts them under the quotations subtree.
func (h *Handler) MountQuotationRoutes(r chi.Router) {
	r.Route("/{id}/costs", func(r chi.Router) {
		r.Get("/", h.ListEntries)
		r.Post("/", h.CreateEntry)
	})
	r.Get("/{id}/profit", h.Profit)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope != "" && scope != string(ScopeSales) && scope != string(ScopeService) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "scope must be sales or service")
		return
	}

	categories, err := h.service.ListCategories(r.Context(), scope)
	if err != nil {
		h.logger.Error("list cost categories failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if categories == nil {
		categories = []Category{}
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	c, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		h.respondError(w, "create cost category failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	c, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "update cost category failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.respondError(w, "delete cost category failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "cost category deleted", "id": id})
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "list cost entries failed", err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	e, err := h.service.CreateEntry(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "create cost entry failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	e, err := h.service.UpdateEntry(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "update cost entry failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		h.respondError(w, "delete cost entry failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "cost entry deleted", "id": id})
}

func (h *Handler) Profit(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AuthorizeReport(r.Header.Get(reportPasswordHeader)); err != nil {
		httpx.RespondError(w, err)
		return
	}

	profit, err := h.service.Profit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "compute profit failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, profit)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AuthorizeReport(r.Header.Get(reportPasswordHeader)); err != nil {
		httpx.RespondError(w, err)
		return
	}

	q := r.URL.Query()
	filter := ReportFilter{
		Type:       q.Get("type"),
		CategoryID: q.Get("category_id"),
	}
	if filter.Type != "" && filter.Type != "sales" && filter.Type != "service" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "type must be sales or service")
		return
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

	report, err := h.service.Report(r.Context(), filter)
	if err != nil {
		h.respondError(w, "cost report failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "cost category not found")
	case errors.Is(err, ErrEntryNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "cost entry not found")
	case errors.Is(err, ErrCategoryInUse):
		httpx.Problem(w, http.StatusConflict, "Conflict", "cost category still has entries")
	default:
		h.logger.Error(msg, "error", err)
		httpx.RespondError(w, err)
	}
}
