package receiving

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-wms/meridian/internal/docform"
)

// Goods receipt lifecycle statuses.
type Status string

const (
	StatusPendingConfirmation Status = "PENDING_CONFIRMATION"
	StatusConfirmed           Status = "CONFIRMED"
)

// Mode distinguishes receipts reconciled against a purchase order from
// free-form ones.
type Mode string

const (
	ModeByOrder Mode = "BY_ORDER"
	ModeFree    Mode = "FREE"
)

// transitions is the single source of truth for the receipt workflow.
// Confirmation is reversible: an explicit revert returns the receipt to
// pending.
var transitions = map[Status][]Status{
	StatusPendingConfirmation: {StatusConfirmed},
	StatusConfirmed:           {StatusPendingConfirmation},
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

// ReceiptHeader carries the editable header fields of a goods receipt. The
// receipt number doubles as the record identity.
type ReceiptHeader struct {
	Number                string    `json:"number" validate:"required"`
	CreatedAt             time.Time `json:"created_at"`
	SourceOrderNumber     string    `json:"source_order_number"`
	SupplierName          string    `json:"supplier_name" validate:"required"`
	Warehouse             string    `json:"warehouse"`
	SupplierInvoiceNumber string    `json:"supplier_invoice_number"`
	DocumentNumber        string    `json:"document_number"`
}

// GoodsReceipt records goods actually received into a warehouse. Its total
// always bills for what arrived: the sum of received line values, never the
// ordered ones.
type GoodsReceipt struct {
	ReceiptHeader
	Mode        Mode            `json:"mode"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []docform.Line  `json:"lines"`
}

// SearchFields lists the free-text searchable values of a receipt.
func (gr GoodsReceipt) SearchFields() []string {
	return []string{gr.Number, gr.SupplierName, gr.SourceOrderNumber}
}

var (
	// ErrInvalidState occurs when an action violates the status workflow.
	ErrInvalidState = errors.New("receiving: invalid state transition")
	// ErrUnknownLine indicates a received quantity references no staged line.
	ErrUnknownLine = errors.New("receiving: unknown line")
)
