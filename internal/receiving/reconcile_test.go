package receiving

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/purchase"
)

func qty(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func TestStageFromOrderCarriesOrderedQuantities(t *testing.T) {
	po := purchase.PurchaseOrder{
		OrderHeader: purchase.OrderHeader{Number: "PO-001", SupplierName: "Công ty TNHH Bao Bì Xanh"},
		Lines: []docform.Line{
			{ID: "a", Seq: 1, ItemCode: "VT-01", ItemName: "Thùng carton", Unit: "cái", OrderedQty: qty("100"), UnitPrice: qty("50000")},
			{ID: "b", Seq: 2, ItemCode: "VT-02", ItemName: "Băng keo", Unit: "cái", OrderedQty: qty("50"), UnitPrice: qty("15000")},
		},
	}

	staged := StageFromOrder(po)
	require.Len(t, staged, 2)
	for i, line := range staged {
		require.Equal(t, po.Lines[i].ID, line.ID)
		require.Equal(t, po.Lines[i].Seq, line.Seq)
		require.True(t, line.HasOrderRef, "staged lines reconcile against the order")
		require.True(t, line.OrderedQty.Equal(po.Lines[i].OrderedQty))
		require.True(t, line.ReceivedQty.IsZero(), "received starts at zero")
	}
}

func TestClassifyVariance(t *testing.T) {
	cases := []struct {
		name      string
		ordered   string
		received  string
		fromOrder bool
		want      VarianceKind
	}{
		{"exact", "100", "100", true, VarianceExact},
		{"short", "100", "90", true, VarianceShort},
		{"over", "50", "60", true, VarianceOver},
		{"free line never varies", "0", "30", false, VarianceExact},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := docform.Line{HasOrderRef: tc.fromOrder, OrderedQty: qty(tc.ordered), ReceivedQty: qty(tc.received)}
			require.Equal(t, tc.want, ClassifyVariance(line))
		})
	}
}

func TestApplyReceivedRejectsBadQuantities(t *testing.T) {
	session := docform.NewSession[ReceiptHeader](docform.QuantityReceived)
	session.StartCreate(ReceiptHeader{Number: "PN-1", SupplierName: "NCC"})
	session.SetLines([]docform.Line{{ID: "a", Seq: 1, ItemCode: "VT-01", ItemName: "Thùng carton", Unit: "cái", OrderedQty: qty("10"), UnitPrice: qty("1000")}})

	err := applyReceived(session, []ReceivedInput{{LineID: "a", Quantity: "abc"}})
	require.ErrorIs(t, err, docform.ErrValidation)

	err = applyReceived(session, []ReceivedInput{{LineID: "a", Quantity: "-5"}})
	require.ErrorIs(t, err, docform.ErrValidation)

	err = applyReceived(session, []ReceivedInput{{LineID: "missing", Quantity: "5"}})
	require.ErrorIs(t, err, ErrUnknownLine)
}
