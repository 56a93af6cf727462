package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/listview"
	"github.com/meridian-wms/meridian/internal/notify"
	"github.com/meridian-wms/meridian/internal/store"
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir listview.SortDir
}

// OrderInput describes a new or edited purchase order.
type OrderInput struct {
	Number           string
	CreatedAt        time.Time
	SupplierName     string
	SupplierAddress  string
	SupplierPhone    string
	DeliveryDate     time.Time
	DeliveryLocation string
	Lines            []docform.LineInput
}

// Service orchestrates the purchase order workflow over an in-memory store.
type Service struct {
	orders   *store.Store[PurchaseOrder]
	notifier notify.Service
}

// NewService constructs the purchase service.
func NewService(notifier notify.Service) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		orders:   store.New(func(po PurchaseOrder) string { return po.Number }),
		notifier: notifier,
	}
}

// List applies filter, sort and pagination to the order store.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]PurchaseOrder, listview.Pagination, error) {
	matched := listview.Filter(s.orders.List(), filters.Search, PurchaseOrder.SearchFields)
	switch filters.SortBy {
	case "created_at":
		matched = listview.Sort(matched, func(a, b PurchaseOrder) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}, filters.SortDir)
	case "total_amount":
		matched = listview.Sort(matched, func(a, b PurchaseOrder) bool {
			return a.TotalAmount.LessThan(b.TotalAmount)
		}, filters.SortDir)
	}
	page := listview.Paginate(matched, filters.PerPage, filters.Page)
	return page, listview.NewPagination(filters.Page, filters.PerPage, len(matched)), nil
}

// Get returns the order with the given number.
func (s *Service) Get(ctx context.Context, number string) (PurchaseOrder, error) {
	return s.orders.Find(number)
}

// Create stages and commits a new purchase order. The order starts awaiting
// delivery and its total is computed from the ordered line values.
func (s *Service) Create(ctx context.Context, input OrderInput) (PurchaseOrder, error) {
	session := docform.NewSession[OrderHeader](docform.QuantityOrdered)
	session.StartCreate(headerFromInput(input))
	if err := stageLines(session, input.Lines); err != nil {
		return PurchaseOrder{}, err
	}
	var created PurchaseOrder
	err := session.Save(func(_ string, header OrderHeader, lines []docform.Line) error {
		created = PurchaseOrder{
			OrderHeader: header,
			Status:      StatusAwaitingDelivery,
			TotalAmount: docform.SumOrdered(lines),
			Lines:       lines,
		}
		return s.orders.Insert(created, store.Append)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Đơn đặt hàng đã được tạo thành công!")
	return created, nil
}

// Update replaces an order that is still awaiting delivery. The total is
// recomputed from the edited lines.
func (s *Service) Update(ctx context.Context, number string, input OrderInput) (PurchaseOrder, error) {
	existing, err := s.orders.Find(number)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if existing.Status != StatusAwaitingDelivery {
		return PurchaseOrder{}, fmt.Errorf("%w: order %s is %s", ErrInvalidState, number, existing.Status)
	}
	session := docform.NewSession[OrderHeader](docform.QuantityOrdered)
	session.StartEdit(number, headerFromInput(input), nil)
	if err := stageLines(session, input.Lines); err != nil {
		return PurchaseOrder{}, err
	}
	var updated PurchaseOrder
	err = session.Save(func(editingID string, header OrderHeader, lines []docform.Line) error {
		updated = PurchaseOrder{
			OrderHeader: header,
			Status:      existing.Status,
			TotalAmount: docform.SumOrdered(lines),
			Lines:       lines,
		}
		return s.orders.Replace(editingID, updated)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Đơn đặt hàng đã được cập nhật!")
	return updated, nil
}

// Delete removes an order that is still awaiting delivery.
func (s *Service) Delete(ctx context.Context, number string) error {
	existing, err := s.orders.Find(number)
	if err != nil {
		return err
	}
	if existing.Status != StatusAwaitingDelivery {
		return fmt.Errorf("%w: order %s is %s", ErrInvalidState, number, existing.Status)
	}
	if err := s.orders.Remove(number); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Đơn đặt hàng đã được xóa!")
	return nil
}

// ConfirmDelivery marks an awaiting order as delivered. One-way.
func (s *Service) ConfirmDelivery(ctx context.Context, number string) error {
	if err := s.transition(number, StatusDelivered); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Trạng thái đơn đặt hàng đã được cập nhật!")
	return nil
}

// Cancel moves an order to cancelled, before or after delivery.
func (s *Service) Cancel(ctx context.Context, number string) error {
	if err := s.transition(number, StatusCancelled); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Đơn đặt hàng đã được hủy!")
	return nil
}

func (s *Service) transition(number string, to Status) error {
	existing, err := s.orders.Find(number)
	if err != nil {
		return err
	}
	if !CanTransition(existing.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, existing.Status, to)
	}
	existing.Status = to
	return s.orders.Replace(number, existing)
}

func headerFromInput(input OrderInput) OrderHeader {
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return OrderHeader{
		Number:           input.Number,
		CreatedAt:        createdAt,
		SupplierName:     input.SupplierName,
		SupplierAddress:  input.SupplierAddress,
		SupplierPhone:    input.SupplierPhone,
		DeliveryDate:     input.DeliveryDate,
		DeliveryLocation: input.DeliveryLocation,
	}
}

func stageLines(session *docform.Session[OrderHeader], lines []docform.LineInput) error {
	for _, line := range lines {
		if _, err := session.AddLine(line); err != nil {
			return err
		}
	}
	return nil
}
