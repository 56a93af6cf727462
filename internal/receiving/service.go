package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/listview"
	"github.com/meridian-wms/meridian/internal/notify"
	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/store"
)

// OrderSource exposes the purchase order lookup receiving depends on.
type OrderSource interface {
	Get(ctx context.Context, number string) (purchase.PurchaseOrder, error)
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir listview.SortDir
}

// ByOrderInput creates a receipt reconciled against a purchase order.
type ByOrderInput struct {
	OrderNumber           string
	Number                string
	CreatedAt             time.Time
	SupplierInvoiceNumber string
	DocumentNumber        string
	Received              []ReceivedInput
}

// FreeInput creates or edits a free-form receipt.
type FreeInput struct {
	Number                string
	CreatedAt             time.Time
	SupplierName          string
	Warehouse             string
	SupplierInvoiceNumber string
	DocumentNumber        string
	Lines                 []docform.LineInput
}

// Service orchestrates goods receipts over an in-memory store.
type Service struct {
	receipts *store.Store[GoodsReceipt]
	orders   OrderSource
	notifier notify.Service
}

// NewService constructs the receiving service.
func NewService(orders OrderSource, notifier notify.Service) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		receipts: store.New(func(gr GoodsReceipt) string { return gr.Number }),
		orders:   orders,
		notifier: notifier,
	}
}

// List applies filter, sort and pagination to the receipt store.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]GoodsReceipt, listview.Pagination, error) {
	matched := listview.Filter(s.receipts.List(), filters.Search, GoodsReceipt.SearchFields)
	switch filters.SortBy {
	case "created_at":
		matched = listview.Sort(matched, func(a, b GoodsReceipt) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}, filters.SortDir)
	case "total_amount":
		matched = listview.Sort(matched, func(a, b GoodsReceipt) bool {
			return a.TotalAmount.LessThan(b.TotalAmount)
		}, filters.SortDir)
	}
	page := listview.Paginate(matched, filters.PerPage, filters.Page)
	return page, listview.NewPagination(filters.Page, filters.PerPage, len(matched)), nil
}

// Get returns the receipt with the given number.
func (s *Service) Get(ctx context.Context, number string) (GoodsReceipt, error) {
	return s.receipts.Find(number)
}

// CreateFromOrder stages one line per order line with the ordered quantity
// carried over, applies the entered received quantities, and commits the
// receipt pending confirmation. Over- and under-receipts are advisory and
// never block the save; the total bills for what actually arrived.
func (s *Service) CreateFromOrder(ctx context.Context, input ByOrderInput) (GoodsReceipt, error) {
	po, err := s.orders.Get(ctx, input.OrderNumber)
	if err != nil {
		return GoodsReceipt{}, err
	}
	header := ReceiptHeader{
		Number:                input.Number,
		CreatedAt:             input.CreatedAt,
		SourceOrderNumber:     po.Number,
		SupplierName:          po.SupplierName,
		Warehouse:             po.DeliveryLocation,
		SupplierInvoiceNumber: input.SupplierInvoiceNumber,
		DocumentNumber:        input.DocumentNumber,
	}
	if header.Number == "" {
		header.Number = fmt.Sprintf("PN-%d", time.Now().UnixMilli())
	}
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now()
	}

	session := docform.NewSession[ReceiptHeader](docform.QuantityReceived)
	session.StartCreate(header)
	session.SetLines(StageFromOrder(po))
	if err := applyReceived(session, input.Received); err != nil {
		return GoodsReceipt{}, err
	}

	var created GoodsReceipt
	err = session.Save(func(_ string, header ReceiptHeader, lines []docform.Line) error {
		created = GoodsReceipt{
			ReceiptHeader: header,
			Mode:          ModeByOrder,
			Status:        StatusPendingConfirmation,
			TotalAmount:   docform.SumReceived(lines),
			Lines:         lines,
		}
		return s.receipts.Insert(created, store.Append)
	})
	if err != nil {
		return GoodsReceipt{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được tạo thành công!")
	return created, nil
}

// CreateFree commits a free-form receipt: no order reference, every line's
// ordered quantity is zero and its variance void. Free receipts are
// prepended so the newest appears first.
func (s *Service) CreateFree(ctx context.Context, input FreeInput) (GoodsReceipt, error) {
	header, err := s.freeHeader(input)
	if err != nil {
		return GoodsReceipt{}, err
	}
	session := docform.NewSession[ReceiptHeader](docform.QuantityReceived)
	session.StartCreate(header)
	if err := stageLines(session, input.Lines); err != nil {
		return GoodsReceipt{}, err
	}
	var created GoodsReceipt
	err = session.Save(func(_ string, header ReceiptHeader, lines []docform.Line) error {
		created = GoodsReceipt{
			ReceiptHeader: header,
			Mode:          ModeFree,
			Status:        StatusPendingConfirmation,
			TotalAmount:   docform.SumReceived(lines),
			Lines:         lines,
		}
		return s.receipts.Insert(created, store.Prepend)
	})
	if err != nil {
		return GoodsReceipt{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được tạo!")
	return created, nil
}

// UpdateFree replaces a pending free-form receipt.
func (s *Service) UpdateFree(ctx context.Context, number string, input FreeInput) (GoodsReceipt, error) {
	existing, err := s.pending(number)
	if err != nil {
		return GoodsReceipt{}, err
	}
	header, err := s.freeHeader(input)
	if err != nil {
		return GoodsReceipt{}, err
	}
	session := docform.NewSession[ReceiptHeader](docform.QuantityReceived)
	session.StartEdit(number, header, nil)
	if err := stageLines(session, input.Lines); err != nil {
		return GoodsReceipt{}, err
	}
	var updated GoodsReceipt
	err = session.Save(func(editingID string, header ReceiptHeader, lines []docform.Line) error {
		updated = GoodsReceipt{
			ReceiptHeader: header,
			Mode:          existing.Mode,
			Status:        existing.Status,
			TotalAmount:   docform.SumReceived(lines),
			Lines:         lines,
		}
		return s.receipts.Replace(editingID, updated)
	})
	if err != nil {
		return GoodsReceipt{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được cập nhật!")
	return updated, nil
}

// SetReceived re-enters received quantities on a pending by-order receipt.
// Every write recomputes line variance and the receipt total.
func (s *Service) SetReceived(ctx context.Context, number string, received []ReceivedInput) (GoodsReceipt, error) {
	existing, err := s.pending(number)
	if err != nil {
		return GoodsReceipt{}, err
	}
	session := docform.NewSession[ReceiptHeader](docform.QuantityReceived)
	session.StartEdit(number, existing.ReceiptHeader, existing.Lines)
	if err := applyReceived(session, received); err != nil {
		return GoodsReceipt{}, err
	}
	var updated GoodsReceipt
	err = session.Save(func(editingID string, header ReceiptHeader, lines []docform.Line) error {
		updated = existing
		updated.ReceiptHeader = header
		updated.TotalAmount = docform.SumReceived(lines)
		updated.Lines = lines
		return s.receipts.Replace(editingID, updated)
	})
	if err != nil {
		return GoodsReceipt{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được cập nhật!")
	return updated, nil
}

// Delete removes a receipt still pending confirmation.
func (s *Service) Delete(ctx context.Context, number string) error {
	if _, err := s.pending(number); err != nil {
		return err
	}
	if err := s.receipts.Remove(number); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được xóa!")
	return nil
}

// Confirm marks a pending receipt as confirmed. Confirming never adjusts
// material on-hand quantities; stock levels are maintained independently in
// the material master.
func (s *Service) Confirm(ctx context.Context, number string) error {
	if err := s.transition(number, StatusConfirmed); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được xác nhận!")
	return nil
}

// Revert returns a confirmed receipt to pending, unlocking edit and delete.
func (s *Service) Revert(ctx context.Context, number string) error {
	if err := s.transition(number, StatusPendingConfirmation); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Phiếu nhập kho đã được hủy xác nhận!")
	return nil
}

func (s *Service) transition(number string, to Status) error {
	existing, err := s.receipts.Find(number)
	if err != nil {
		return err
	}
	if !CanTransition(existing.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, existing.Status, to)
	}
	existing.Status = to
	return s.receipts.Replace(number, existing)
}

func (s *Service) pending(number string) (GoodsReceipt, error) {
	existing, err := s.receipts.Find(number)
	if err != nil {
		return GoodsReceipt{}, err
	}
	if existing.Status != StatusPendingConfirmation {
		return GoodsReceipt{}, fmt.Errorf("%w: receipt %s is %s", ErrInvalidState, number, existing.Status)
	}
	return existing, nil
}

func (s *Service) freeHeader(input FreeInput) (ReceiptHeader, error) {
	if input.Warehouse == "" {
		return ReceiptHeader{}, fmt.Errorf("%w: warehouse is required", docform.ErrValidation)
	}
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return ReceiptHeader{
		Number:                input.Number,
		CreatedAt:             createdAt,
		SupplierName:          input.SupplierName,
		Warehouse:             input.Warehouse,
		SupplierInvoiceNumber: input.SupplierInvoiceNumber,
		DocumentNumber:        input.DocumentNumber,
	}, nil
}

func stageLines(session *docform.Session[ReceiptHeader], lines []docform.LineInput) error {
	for _, line := range lines {
		if _, err := session.AddLine(line); err != nil {
			return err
		}
	}
	return nil
}
