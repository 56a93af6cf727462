package purchase

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-wms/meridian/internal/docform"
)

// Purchase order lifecycle statuses.
type Status string

const (
	StatusAwaitingDelivery Status = "AWAITING_DELIVERY"
	StatusDelivered        Status = "DELIVERED"
	StatusCancelled        Status = "CANCELLED"
)

// transitions is the single source of truth for the order workflow.
// Delivery confirmation is one-way; cancellation is allowed both before and
// after delivery.
var transitions = map[Status][]Status{
	StatusAwaitingDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:        {StatusCancelled},
	StatusCancelled:        {},
}

// CanTransition reports whether the workflow allows moving from one status
// to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderHeader carries the editable header fields of a purchase order. The
// order number doubles as the record identity.
type OrderHeader struct {
	Number           string    `json:"number" validate:"required"`
	CreatedAt        time.Time `json:"created_at"`
	SupplierName     string    `json:"supplier_name" validate:"required"`
	SupplierAddress  string    `json:"supplier_address"`
	SupplierPhone    string    `json:"supplier_phone"`
	DeliveryDate     time.Time `json:"delivery_date"`
	DeliveryLocation string    `json:"delivery_location"`
}

// PurchaseOrder is a request to a supplier for specified goods, awaiting
// delivery. TotalAmount is always the sum of ordered line values; it is
// recomputed on every save and never edited independently.
type PurchaseOrder struct {
	OrderHeader
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []docform.Line  `json:"lines"`
}

// SearchFields lists the free-text searchable values of an order.
func (po PurchaseOrder) SearchFields() []string {
	return []string{po.Number, po.SupplierName}
}

var (
	// ErrInvalidState occurs when an action violates the status workflow.
	ErrInvalidState = errors.New("purchase: invalid state transition")
)
