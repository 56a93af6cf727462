package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/receiving"
)

func TestOrdersWorkbook(t *testing.T) {
	orders := []purchase.PurchaseOrder{
		{
			OrderHeader: purchase.OrderHeader{
				Number:           "PO-001",
				CreatedAt:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
				SupplierName:     "Công ty TNHH Bao Bì Xanh",
				DeliveryLocation: "Kho Bình Dương",
			},
			Status:      purchase.StatusAwaitingDelivery,
			TotalAmount: decimal.RequireFromString("5750000"),
		},
	}

	f, err := Orders(orders)
	require.NoError(t, err)
	sheet := f.GetSheetName(0)

	got, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "PO-001", got)

	got, err = f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	require.Equal(t, "15/03/2024", got)

	got, err = f.GetCellValue(sheet, "F2")
	require.NoError(t, err)
	require.Equal(t, "5.750.000", got, "money cells grouped the Vietnamese way")
}

func TestReceiptsWorkbook(t *testing.T) {
	receipts := []receiving.GoodsReceipt{
		{
			ReceiptHeader: receiving.ReceiptHeader{
				Number:            "PN-001",
				CreatedAt:         time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
				SupplierName:      "Công ty TNHH Bao Bì Xanh",
				Warehouse:         "Kho Bình Dương",
				SourceOrderNumber: "PO-001",
			},
			Status:      receiving.StatusPendingConfirmation,
			TotalAmount: decimal.RequireFromString("5400000"),
		},
	}

	f, err := Receipts(receipts)
	require.NoError(t, err)
	sheet := f.GetSheetName(0)

	got, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Số phiếu", got)

	got, err = f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	require.Equal(t, "PO-001", got)

	got, err = f.GetCellValue(sheet, "G2")
	require.NoError(t, err)
	require.Equal(t, "5.400.000", got)
}
