package receiving

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/store"
)

type stubOrders struct {
	orders map[string]purchase.PurchaseOrder
}

func (s stubOrders) Get(_ context.Context, number string) (purchase.PurchaseOrder, error) {
	po, ok := s.orders[number]
	if !ok {
		return purchase.PurchaseOrder{}, store.ErrNotFound
	}
	return po, nil
}

func fixtureOrder() purchase.PurchaseOrder {
	return purchase.PurchaseOrder{
		OrderHeader: purchase.OrderHeader{
			Number:           "PO-001",
			SupplierName:     "Công ty TNHH Bao Bì Xanh",
			DeliveryLocation: "Kho Bình Dương",
		},
		Status: purchase.StatusAwaitingDelivery,
		Lines: []docform.Line{
			{ID: "a", Seq: 1, ItemCode: "VT-01", ItemName: "Thùng carton", Unit: "cái", OrderedQty: qty("100"), UnitPrice: qty("50000")},
			{ID: "b", Seq: 2, ItemCode: "VT-02", ItemName: "Băng keo", Unit: "cái", OrderedQty: qty("50"), UnitPrice: qty("15000")},
		},
	}
}

func newTestService() *Service {
	return NewService(stubOrders{orders: map[string]purchase.PurchaseOrder{"PO-001": fixtureOrder()}}, nil)
}

func TestCreateFromOrderReconciles(t *testing.T) {
	svc := newTestService()

	receipt, err := svc.CreateFromOrder(context.Background(), ByOrderInput{
		OrderNumber: "PO-001",
		Number:      "PN-001",
		Received: []ReceivedInput{
			{LineID: "a", Quantity: "90"},
			{LineID: "b", Quantity: "60"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, ModeByOrder, receipt.Mode)
	require.Equal(t, StatusPendingConfirmation, receipt.Status)
	require.Equal(t, "PO-001", receipt.SourceOrderNumber)
	require.Equal(t, "Công ty TNHH Bao Bì Xanh", receipt.SupplierName)
	require.Equal(t, "Kho Bình Dương", receipt.Warehouse)

	require.Len(t, receipt.Lines, 2)
	require.True(t, receipt.Lines[0].Variance().Equal(qty("-10")))
	require.True(t, receipt.Lines[1].Variance().Equal(qty("10")))
	require.Equal(t, VarianceShort, ClassifyVariance(receipt.Lines[0]))
	require.Equal(t, VarianceOver, ClassifyVariance(receipt.Lines[1]))

	// 90*50000 + 60*15000, billed on what arrived.
	require.True(t, receipt.TotalAmount.Equal(qty("5400000")))
}

func TestCreateFromOrderDefaultsNumber(t *testing.T) {
	svc := newTestService()

	receipt, err := svc.CreateFromOrder(context.Background(), ByOrderInput{
		OrderNumber: "PO-001",
		Received:    []ReceivedInput{{LineID: "a", Quantity: "100"}},
	})
	require.NoError(t, err)
	require.Regexp(t, `^PN-\d+$`, receipt.Number)
	require.False(t, receipt.CreatedAt.IsZero())
}

func TestCreateFromOrderUnknownOrder(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateFromOrder(context.Background(), ByOrderInput{OrderNumber: "PO-404", Number: "PN-001"})
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Len(t, list(t, svc), 0)
}

func TestCreateFreePrepends(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateFree(context.Background(), freeInput("PN-001"))
	require.NoError(t, err)
	_, err = svc.CreateFree(context.Background(), freeInput("PN-002"))
	require.NoError(t, err)

	receipts := list(t, svc)
	require.Len(t, receipts, 2)
	require.Equal(t, "PN-002", receipts[0].Number, "newest free receipt first")
	require.Equal(t, "PN-001", receipts[1].Number)
	require.Equal(t, ModeFree, receipts[0].Mode)
	require.True(t, receipts[0].Lines[0].OrderedQty.IsZero())
}

func TestFreeReceiptLinesCarryNoVariance(t *testing.T) {
	svc := newTestService()

	receipt, err := svc.CreateFree(context.Background(), freeInput("PN-001"))
	require.NoError(t, err)

	require.Len(t, receipt.Lines, 1)
	line := receipt.Lines[0]
	require.False(t, line.HasOrderRef)
	require.True(t, line.ReceivedQty.Equal(qty("10")))
	require.True(t, line.Variance().IsZero(), "no order reference, nothing to reconcile")
	require.Equal(t, VarianceExact, ClassifyVariance(line))
}

func TestCreateFreeRequiresWarehouse(t *testing.T) {
	svc := newTestService()

	input := freeInput("PN-001")
	input.Warehouse = ""
	_, err := svc.CreateFree(context.Background(), input)
	require.ErrorIs(t, err, docform.ErrValidation)
	require.Len(t, list(t, svc), 0)
}

func TestCreateDuplicateNumberRejected(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateFree(context.Background(), freeInput("PN-001"))
	require.NoError(t, err)
	_, err = svc.CreateFree(context.Background(), freeInput("PN-001"))
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestSetReceivedRecomputesTotal(t *testing.T) {
	svc := newTestService()

	receipt, err := svc.CreateFromOrder(context.Background(), ByOrderInput{
		OrderNumber: "PO-001",
		Number:      "PN-001",
		Received:    []ReceivedInput{{LineID: "a", Quantity: "90"}, {LineID: "b", Quantity: "60"}},
	})
	require.NoError(t, err)

	updated, err := svc.SetReceived(context.Background(), receipt.Number, []ReceivedInput{
		{LineID: "a", Quantity: "100"},
		{LineID: "b", Quantity: "50"},
	})
	require.NoError(t, err)
	require.True(t, updated.TotalAmount.Equal(qty("5750000")))
	require.Equal(t, VarianceExact, ClassifyVariance(updated.Lines[0]))
	require.Equal(t, VarianceExact, ClassifyVariance(updated.Lines[1]))
}

func TestConfirmLocksEditDeleteUntilRevert(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	receipt, err := svc.CreateFree(ctx, freeInput("PN-001"))
	require.NoError(t, err)

	require.NoError(t, svc.Confirm(ctx, receipt.Number))
	got, err := svc.Get(ctx, receipt.Number)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, got.Status)

	// Confirming again is not a valid transition.
	require.ErrorIs(t, svc.Confirm(ctx, receipt.Number), ErrInvalidState)

	_, err = svc.UpdateFree(ctx, receipt.Number, freeInput("PN-001"))
	require.ErrorIs(t, err, ErrInvalidState)
	require.ErrorIs(t, svc.Delete(ctx, receipt.Number), ErrInvalidState)

	require.NoError(t, svc.Revert(ctx, receipt.Number))
	got, err = svc.Get(ctx, receipt.Number)
	require.NoError(t, err)
	require.Equal(t, StatusPendingConfirmation, got.Status)

	require.NoError(t, svc.Delete(ctx, receipt.Number))
	_, err = svc.Get(ctx, receipt.Number)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateFreeReplacesLines(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateFree(ctx, freeInput("PN-001"))
	require.NoError(t, err)

	input := freeInput("PN-001")
	input.Lines = []docform.LineInput{
		{ItemCode: "VT-09", ItemName: "Màng co", Unit: "kg", Quantity: "20", UnitPrice: "40000"},
	}
	updated, err := svc.UpdateFree(ctx, "PN-001", input)
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	require.Equal(t, 1, updated.Lines[0].Seq)
	require.True(t, updated.TotalAmount.Equal(qty("800000")))
}

func TestListSearchAndPaginate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, number := range []string{"PN-001", "PN-002", "PN-003"} {
		_, err := svc.CreateFree(ctx, freeInput(number))
		require.NoError(t, err)
	}

	items, pagination, err := svc.List(ctx, ListFilters{Page: 1, PerPage: 2, Search: "PN-"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 3, pagination.Total)
	require.Equal(t, 2, pagination.TotalPages)

	items, _, err = svc.List(ctx, ListFilters{Page: 1, PerPage: 10, Search: "PN-002"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "PN-002", items[0].Number)
}

func freeInput(number string) FreeInput {
	return FreeInput{
		Number:       number,
		CreatedAt:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		SupplierName: "Nhà cung cấp lẻ",
		Warehouse:    "Kho Quận 7",
		Lines: []docform.LineInput{
			{ItemCode: "VT-05", ItemName: "Pallet nhựa", Unit: "cái", Quantity: "10", UnitPrice: "120000"},
		},
	}
}

func list(t *testing.T, svc *Service) []GoodsReceipt {
	t.Helper()
	items, _, err := svc.List(context.Background(), ListFilters{Page: 1, PerPage: 50})
	require.NoError(t, err)
	return items
}
