package purchase

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/listview"
	"github.com/meridian-wms/meridian/internal/platform/httpx"
	"github.com/meridian-wms/meridian/internal/store"
)

// Handler manages purchase order endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	pageSize int
}

// NewHandler builds Handler instance. pageSize is the per-page default for
// listings when the request names none.
func NewHandler(logger *slog.Logger, service *Service, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handler{logger: logger, service: service, pageSize: pageSize}
}

// MountRoutes registers purchase order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders", h.handleList)
	r.Post("/orders", h.handleCreate)
	r.Get("/orders/{number}", h.handleGet)
	r.Put("/orders/{number}", h.handleUpdate)
	r.Delete("/orders/{number}", h.handleDelete)
	r.Post("/orders/{number}/deliver", h.handleConfirmDelivery)
	r.Post("/orders/{number}/cancel", h.handleCancel)
}

type orderPayload struct {
	Number           string        `json:"number"`
	CreatedAt        string        `json:"created_at"`
	SupplierName     string        `json:"supplier_name"`
	SupplierAddress  string        `json:"supplier_address"`
	SupplierPhone    string        `json:"supplier_phone"`
	DeliveryDate     string        `json:"delivery_date"`
	DeliveryLocation string        `json:"delivery_location"`
	Lines            []linePayload `json:"lines"`
}

type linePayload struct {
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	Unit      string `json:"unit"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r, h.pageSize)
	items, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders":     items,
		"pagination": pagination,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create order", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	order, err := h.service.Update(r.Context(), chi.URLParam(r, "number"), input)
	if err != nil {
		h.logger.Error("update order", slog.Any("error", err), slog.String("number", chi.URLParam(r, "number")))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ConfirmDelivery(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeInput(r *http.Request) (OrderInput, error) {
	var payload orderPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		return OrderInput{}, fmt.Errorf("%w: %v", docform.ErrValidation, err)
	}
	createdAt, err := parseDate(payload.CreatedAt)
	if err != nil {
		return OrderInput{}, err
	}
	deliveryDate, err := parseDate(payload.DeliveryDate)
	if err != nil {
		return OrderInput{}, err
	}
	input := OrderInput{
		Number:           payload.Number,
		CreatedAt:        createdAt,
		SupplierName:     payload.SupplierName,
		SupplierAddress:  payload.SupplierAddress,
		SupplierPhone:    payload.SupplierPhone,
		DeliveryDate:     deliveryDate,
		DeliveryLocation: payload.DeliveryLocation,
	}
	for _, line := range payload.Lines {
		input.Lines = append(input.Lines, docform.LineInput{
			ItemCode:  line.ItemCode,
			ItemName:  line.ItemName,
			Unit:      line.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return input, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docform.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, store.ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrInvalidState):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
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

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", docform.ErrValidation, err)
	}
	return parsed, nil
}
