package docform

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Units enumerates the accepted units of measure.
var Units = []string{"kg", "g", "lít", "ml", "cái", "hộp", "thùng", "bao", "chai", "gói"}

// DefaultUnit is applied when a line input carries no unit.
const DefaultUnit = "kg"

// ValidUnit reports whether unit belongs to the accepted set.
func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

// Line is one material row of a document. HasOrderRef marks lines staged
// from a purchase order; only those carry a meaningful ordered quantity and
// variance. ReceivedQty stays zero until the operator records an actual
// quantity.
type Line struct {
	ID          string
	Seq         int
	ItemCode    string
	ItemName    string
	Unit        string
	HasOrderRef bool
	OrderedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	UnitPrice   decimal.Decimal
}

// OrderedTotal is the value of the line as ordered.
func (l Line) OrderedTotal() decimal.Decimal {
	return l.OrderedQty.Mul(l.UnitPrice)
}

// ReceivedTotal is the value of the line as actually received.
func (l Line) ReceivedTotal() decimal.Decimal {
	return l.ReceivedQty.Mul(l.UnitPrice)
}

// Variance is the signed received-minus-ordered difference. It is zero for
// lines without an order reference; there is nothing to reconcile against.
func (l Line) Variance() decimal.Decimal {
	if !l.HasOrderRef {
		return decimal.Zero
	}
	return l.ReceivedQty.Sub(l.OrderedQty)
}

type lineJSON struct {
	ID            string          `json:"id"`
	Seq           int             `json:"seq"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Unit          string          `json:"unit"`
	HasOrderRef   bool            `json:"has_order_ref"`
	OrderedQty    decimal.Decimal `json:"ordered_qty"`
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OrderedTotal  decimal.Decimal `json:"ordered_total"`
	ReceivedTotal decimal.Decimal `json:"received_total"`
	Variance      decimal.Decimal `json:"variance"`
}

// MarshalJSON includes the derived totals and variance so list and detail
// views never recompute them client-side.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		ID:            l.ID,
		Seq:           l.Seq,
		ItemCode:      l.ItemCode,
		ItemName:      l.ItemName,
		Unit:          l.Unit,
		HasOrderRef:   l.HasOrderRef,
		OrderedQty:    l.OrderedQty,
		ReceivedQty:   l.ReceivedQty,
		UnitPrice:     l.UnitPrice,
		OrderedTotal:  l.OrderedTotal(),
		ReceivedTotal: l.ReceivedTotal(),
		Variance:      l.Variance(),
	})
}

// UnmarshalJSON accepts the same shape MarshalJSON emits, ignoring the
// derived fields.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw lineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ID = raw.ID
	l.Seq = raw.Seq
	l.ItemCode = raw.ItemCode
	l.ItemName = raw.ItemName
	l.Unit = raw.Unit
	l.HasOrderRef = raw.HasOrderRef
	l.OrderedQty = raw.OrderedQty
	l.ReceivedQty = raw.ReceivedQty
	l.UnitPrice = raw.UnitPrice
	return nil
}

// SumOrdered totals ordered value over lines.
func SumOrdered(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.OrderedTotal())
	}
	return total
}

// SumReceived totals received value over lines.
func SumReceived(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.ReceivedTotal())
	}
	return total
}

// Renumber rewrites Seq as a dense 1..N range preserving order. It returns
// a new slice and leaves the input alone.
func Renumber(lines []Line) []Line {
	out := append([]Line(nil), lines...)
	for i := range out {
		out[i].Seq = i + 1
	}
	return out
}

// CloneLines deep-copies a line list so edit buffers never alias stored
// documents.
func CloneLines(lines []Line) []Line {
	return append([]Line(nil), lines...)
}

func newLineID() string {
	return uuid.NewString()
}

func parseQuantity(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be a number", ErrValidation, field)
	}
	if value.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	}
	return value, nil
}
