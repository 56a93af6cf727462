package receiving

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/purchase"
)

// VarianceKind classifies a line's received-vs-ordered difference.
type VarianceKind string

const (
	// VarianceExact marks a line received exactly as ordered.
	VarianceExact VarianceKind = "exact"
	// VarianceOver marks an over-receipt.
	VarianceOver VarianceKind = "over"
	// VarianceShort marks an under-receipt, the attention-worthy case.
	VarianceShort VarianceKind = "short"
)

// ClassifyVariance buckets a line by the sign of its variance. Variance is
// advisory: no kind ever blocks saving the receipt.
func ClassifyVariance(line docform.Line) VarianceKind {
	switch v := line.Variance(); {
	case v.IsPositive():
		return VarianceOver
	case v.IsNegative():
		return VarianceShort
	default:
		return VarianceExact
	}
}

// StageFromOrder copies the order's lines into receipt lines: the ordered
// quantity carries over, the received quantity starts at zero and waits for
// the operator.
func StageFromOrder(po purchase.PurchaseOrder) []docform.Line {
	lines := make([]docform.Line, 0, len(po.Lines))
	for _, src := range po.Lines {
		lines = append(lines, docform.Line{
			ID:          src.ID,
			Seq:         src.Seq,
			ItemCode:    src.ItemCode,
			ItemName:    src.ItemName,
			Unit:        src.Unit,
			HasOrderRef: true,
			OrderedQty:  src.OrderedQty,
			UnitPrice:   src.UnitPrice,
		})
	}
	return lines
}

// ReceivedInput records the actual quantity for one staged line.
type ReceivedInput struct {
	LineID   string
	Quantity string
}

// applyReceived writes the entered quantities into the staged lines of the
// session. Each write recomputes the line's derived variance; quantities
// must parse and be non-negative.
func applyReceived[H any](session *docform.Session[H], received []ReceivedInput) error {
	for _, entry := range received {
		qty, err := decimal.NewFromString(entry.Quantity)
		if err != nil {
			return fmt.Errorf("%w: received quantity must be a number", docform.ErrValidation)
		}
		if qty.IsNegative() {
			return fmt.Errorf("%w: received quantity must not be negative", docform.ErrValidation)
		}
		if !session.UpdateLine(entry.LineID, func(l *docform.Line) { l.ReceivedQty = qty }) {
			return fmt.Errorf("%w: %s", ErrUnknownLine, entry.LineID)
		}
	}
	return nil
}
