package purchase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/listview"
	"github.com/meridian-wms/meridian/internal/store"
)

func sampleInput() OrderInput {
	return OrderInput{
		Number:           "PO-2026-001",
		SupplierName:     "Công ty ABC",
		SupplierAddress:  "123 Đường ABC, TP HCM",
		SupplierPhone:    "0901234567",
		DeliveryLocation: "Kho A",
		Lines: []docform.LineInput{
			{ItemCode: "H001", ItemName: "Bột mỳ", Unit: "kg", Quantity: "100", UnitPrice: "50000"},
			{ItemCode: "H002", ItemName: "Đường", Unit: "kg", Quantity: "50", UnitPrice: "15000"},
		},
	}
}

func TestCreateComputesTotalFromOrderedLines(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	po, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	require.Equal(t, StatusAwaitingDelivery, po.Status)
	require.True(t, po.TotalAmount.Equal(decimal.NewFromInt(5750000)), "got %s", po.TotalAmount)
	require.Len(t, po.Lines, 2)
	require.Equal(t, []int{1, 2}, []int{po.Lines[0].Seq, po.Lines[1].Seq})
}

func TestCreateRejectsMissingHeaderFields(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	input := sampleInput()
	input.SupplierName = ""
	_, err := svc.Create(ctx, input)
	require.ErrorIs(t, err, docform.ErrValidation)

	// nothing was stored
	_, _, listErr := svc.List(ctx, ListFilters{PerPage: 10, Page: 1})
	require.NoError(t, listErr)
	_, getErr := svc.Get(ctx, input.Number)
	require.ErrorIs(t, getErr, store.ErrNotFound)
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, sampleInput())
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUpdateOnlyWhileAwaitingDelivery(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	po, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	edited := sampleInput()
	edited.Lines = edited.Lines[:1]
	updated, err := svc.Update(ctx, po.Number, edited)
	require.NoError(t, err)
	require.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(5000000)))

	require.NoError(t, svc.ConfirmDelivery(ctx, po.Number))
	_, err = svc.Update(ctx, po.Number, edited)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteOnlyWhileAwaitingDelivery(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	po, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmDelivery(ctx, po.Number))
	require.ErrorIs(t, svc.Delete(ctx, po.Number), ErrInvalidState)
}

func TestDeliveryWorkflow(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	po, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmDelivery(ctx, po.Number))
	got, err := svc.Get(ctx, po.Number)
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, got.Status)

	// delivery confirmation is one-way
	require.ErrorIs(t, svc.ConfirmDelivery(ctx, po.Number), ErrInvalidState)

	// cancelled orders accept nothing further
	require.NoError(t, svc.Cancel(ctx, po.Number))
	require.ErrorIs(t, svc.Cancel(ctx, po.Number), ErrInvalidState)
	require.ErrorIs(t, svc.ConfirmDelivery(ctx, po.Number), ErrInvalidState)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	first := sampleInput()
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := sampleInput()
	second.Number = "PO-2026-002"
	second.SupplierName = "Công ty XYZ"
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	items, pagination, err := svc.List(ctx, ListFilters{Search: "xyz", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "PO-2026-002", items[0].Number)
	require.Equal(t, 1, pagination.Total)

	items, _, err = svc.List(ctx, ListFilters{Page: 2, PerPage: 1, SortBy: "total_amount", SortDir: listview.SortAsc})
	require.NoError(t, err)
	require.Len(t, items, 1)
}
