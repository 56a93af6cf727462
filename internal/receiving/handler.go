package receiving

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

// Handler manages goods receipt endpoints.
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

// MountRoutes registers receiving routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/receipts", h.handleList)
	r.Post("/receipts/by-order", h.handleCreateByOrder)
	r.Post("/receipts/free", h.handleCreateFree)
	r.Get("/receipts/{number}", h.handleGet)
	r.Put("/receipts/{number}", h.handleUpdateFree)
	r.Put("/receipts/{number}/received", h.handleSetReceived)
	r.Delete("/receipts/{number}", h.handleDelete)
	r.Post("/receipts/{number}/confirm", h.handleConfirm)
	r.Post("/receipts/{number}/revert", h.handleRevert)
}

type byOrderPayload struct {
	OrderNumber           string            `json:"order_number"`
	Number                string            `json:"number"`
	CreatedAt             string            `json:"created_at"`
	SupplierInvoiceNumber string            `json:"supplier_invoice_number"`
	DocumentNumber        string            `json:"document_number"`
	Received              []receivedPayload `json:"received"`
}

type receivedPayload struct {
	LineID   string `json:"line_id"`
	Quantity string `json:"quantity"`
}

type freePayload struct {
	Number                string        `json:"number"`
	CreatedAt             string        `json:"created_at"`
	SupplierName          string        `json:"supplier_name"`
	Warehouse             string        `json:"warehouse"`
	SupplierInvoiceNumber string        `json:"supplier_invoice_number"`
	DocumentNumber        string        `json:"document_number"`
	Lines                 []linePayload `json:"lines"`
}

type linePayload struct {
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	Unit      string `json:"unit"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// receiptView decorates a receipt with per-line variance classification for
// the reconciliation table.
type receiptView struct {
	GoodsReceipt
	VarianceKinds []VarianceKind `json:"variance_kinds"`
}

func viewOf(gr GoodsReceipt) receiptView {
	kinds := make([]VarianceKind, len(gr.Lines))
	for i, line := range gr.Lines {
		kinds[i] = ClassifyVariance(line)
	}
	return receiptView{GoodsReceipt: gr, VarianceKinds: kinds}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r, h.pageSize)
	items, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list receipts", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"receipts":   items,
		"pagination": pagination,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(receipt))
}

func (h *Handler) handleCreateByOrder(w http.ResponseWriter, r *http.Request) {
	var payload byOrderPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", docform.ErrValidation, err))
		return
	}
	createdAt, err := parseDate(payload.CreatedAt)
	if err != nil {
		h.respondError(w, err)
		return
	}
	input := ByOrderInput{
		OrderNumber:           payload.OrderNumber,
		Number:                payload.Number,
		CreatedAt:             createdAt,
		SupplierInvoiceNumber: payload.SupplierInvoiceNumber,
		DocumentNumber:        payload.DocumentNumber,
	}
	for _, entry := range payload.Received {
		input.Received = append(input.Received, ReceivedInput{LineID: entry.LineID, Quantity: entry.Quantity})
	}
	receipt, err := h.service.CreateFromOrder(r.Context(), input)
	if err != nil {
		h.logger.Error("create receipt by order", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(receipt))
}

func (h *Handler) handleCreateFree(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeFree(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	receipt, err := h.service.CreateFree(r.Context(), input)
	if err != nil {
		h.logger.Error("create free receipt", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(receipt))
}

func (h *Handler) handleUpdateFree(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeFree(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	receipt, err := h.service.UpdateFree(r.Context(), chi.URLParam(r, "number"), input)
	if err != nil {
		h.logger.Error("update receipt", slog.Any("error", err), slog.String("number", chi.URLParam(r, "number")))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(receipt))
}

func (h *Handler) handleSetReceived(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Received []receivedPayload `json:"received"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", docform.ErrValidation, err))
		return
	}
	received := make([]ReceivedInput, 0, len(payload.Received))
	for _, entry := range payload.Received {
		received = append(received, ReceivedInput{LineID: entry.LineID, Quantity: entry.Quantity})
	}
	receipt, err := h.service.SetReceived(r.Context(), chi.URLParam(r, "number"), received)
	if err != nil {
		h.logger.Error("set received quantities", slog.Any("error", err), slog.String("number", chi.URLParam(r, "number")))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(receipt))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Confirm(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRevert(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Revert(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeFree(r *http.Request) (FreeInput, error) {
	var payload freePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		return FreeInput{}, fmt.Errorf("%w: %v", docform.ErrValidation, err)
	}
	createdAt, err := parseDate(payload.CreatedAt)
	if err != nil {
		return FreeInput{}, err
	}
	input := FreeInput{
		Number:                payload.Number,
		CreatedAt:             createdAt,
		SupplierName:          payload.SupplierName,
		Warehouse:             payload.Warehouse,
		SupplierInvoiceNumber: payload.SupplierInvoiceNumber,
		DocumentNumber:        payload.DocumentNumber,
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
	case errors.Is(err, docform.ErrValidation), errors.Is(err, ErrUnknownLine):
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
