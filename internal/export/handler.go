package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/meridian-wms/meridian/internal/platform/httpx"
	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/receiving"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves spreadsheet downloads of the order and receipt lists.
type Handler struct {
	logger   *slog.Logger
	orders   *purchase.Service
	receipts *receiving.Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, orders *purchase.Service, receipts *receiving.Service) *Handler {
	return &Handler{logger: logger, orders: orders, receipts: receipts}
}

// MountRoutes registers export routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/export/orders", h.handleOrders)
	r.Get("/export/receipts", h.handleReceipts)
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, _, err := h.orders.List(r.Context(), purchase.ListFilters{Search: r.URL.Query().Get("search")})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	workbook, err := Orders(orders)
	if err != nil {
		h.logger.Error("export orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.send(w, workbook, fmt.Sprintf("don-dat-hang-%s.xlsx", time.Now().Format("2006-01-02")))
}

func (h *Handler) handleReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, _, err := h.receipts.List(r.Context(), receiving.ListFilters{Search: r.URL.Query().Get("search")})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	workbook, err := Receipts(receipts)
	if err != nil {
		h.logger.Error("export receipts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.send(w, workbook, fmt.Sprintf("phieu-nhap-kho-%s.xlsx", time.Now().Format("2006-01-02")))
}

func (h *Handler) send(w http.ResponseWriter, workbook *excelize.File, name string) {
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := workbook.WriteTo(w); err != nil {
		h.logger.Error("write workbook", slog.Any("error", err))
	}
}
