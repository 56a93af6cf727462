package masterdata

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-wms/meridian/internal/listview"
	"github.com/meridian-wms/meridian/internal/platform/httpx"
	"github.com/meridian-wms/meridian/internal/store"
)

// Handler manages master data endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	feed     *Feed
	pageSize int
}

// NewHandler builds Handler instance. feed may be nil when no feed URL is
// configured; pageSize is the per-page default for listings.
func NewHandler(logger *slog.Logger, service *Service, feed *Feed, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handler{logger: logger, service: service, feed: feed, pageSize: pageSize}
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/materials", func(r chi.Router) {
		r.Get("/", h.handleListMaterials)
		r.Post("/", h.handleCreateMaterial)
		r.Get("/{id}", h.handleGetMaterial)
		r.Put("/{id}", h.handleUpdateMaterial)
		r.Delete("/{id}", h.handleDeleteMaterial)
	})
	r.Route("/warehouses", func(r chi.Router) {
		r.Get("/", h.handleListWarehouses)
		r.Post("/", h.handleCreateWarehouse)
		r.Get("/{id}", h.handleGetWarehouse)
		r.Put("/{id}", h.handleUpdateWarehouse)
		r.Delete("/{id}", h.handleDeleteWarehouse)
		r.Post("/{id}/toggle", h.handleToggleWarehouse)
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.handleListSuppliers)
		r.Post("/", h.handleCreateSupplier)
		r.Post("/refresh", h.handleRefreshSuppliers)
		r.Get("/{id}", h.handleGetSupplier)
		r.Put("/{id}", h.handleUpdateSupplier)
		r.Delete("/{id}", h.handleDeleteSupplier)
		r.Post("/{id}/toggle", h.handleToggleSupplier)
	})
}

func (h *Handler) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := h.service.ListMaterials(r.Context(), listFiltersFromQuery(r, h.pageSize))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"materials": items, "pagination": pagination})
}

func (h *Handler) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	material, err := h.service.GetMaterial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, material)
}

func (h *Handler) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var material Material
	if err := httpx.DecodeJSON(r, &material); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}
	created, err := h.service.CreateMaterial(r.Context(), material)
	if err != nil {
		h.logger.Error("create material", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	var material Material
	if err := httpx.DecodeJSON(r, &material); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}
	updated, err := h.service.UpdateMaterial(r.Context(), chi.URLParam(r, "id"), material)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMaterial(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListWarehouses(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := h.service.ListWarehouses(r.Context(), listFiltersFromQuery(r, h.pageSize))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"warehouses": items, "pagination": pagination})
}

func (h *Handler) handleGetWarehouse(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.service.GetWarehouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, warehouse)
}

func (h *Handler) handleCreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var warehouse Warehouse
	if err := httpx.DecodeJSON(r, &warehouse); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}
	created, err := h.service.CreateWarehouse(r.Context(), warehouse)
	if err != nil {
		h.logger.Error("create warehouse", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	var warehouse Warehouse
	if err := httpx.DecodeJSON(r, &warehouse); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}
	updated, err := h.service.UpdateWarehouse(r.Context(), chi.URLParam(r, "id"), warehouse)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteWarehouse(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggleWarehouse(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.service.ToggleWarehouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, warehouse)
}

func (h *Handler) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := h.service.ListSuppliers(r.Context(), listFiltersFromQuery(r, h.pageSize))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"suppliers": items, "pagination": pagination})
}

func (h *Handler) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}
	created, err := h.service.CreateSupplier(r.Context(), supplier)
	if err != nil {
		h.logger.Error("create supplier", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}
	updated, err := h.service.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), supplier)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggleSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.ToggleSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) handleRefreshSuppliers(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Feed Disabled", "no supplier feed is configured")
		return
	}
	suppliers, err := h.feed.Refresh(r.Context())
	if err != nil {
		h.logger.Error("refresh supplier feed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var feedErr *FeedError
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, store.ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.As(err, &feedErr):
		httpx.Problem(w, http.StatusBadGateway, "Supplier Feed Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func listFiltersFromQuery(r *http.Request, defaultPerPage int) ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	dir := listview.SortAsc
	if r.URL.Query().Get("dir") == string(listview.SortDesc) {
		dir = listview.SortDesc
	}
	return ListFilters{
		Page:    page,
		PerPage: perPage,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: dir,
	}
}
