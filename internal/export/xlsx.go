// Package export renders the order and receipt listings as XLSX workbooks,
// the download offered on the admin list pages.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/receiving"
)

const dateLayout = "02/01/2006"

// vi renders money cells with Vietnamese digit grouping.
var vi = message.NewPrinter(language.Vietnamese)

func money(v decimal.Decimal) string {
	return vi.Sprintf("%v", number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(0)))
}

// Orders builds a workbook listing purchase orders, one row per order.
func Orders(orders []purchase.PurchaseOrder) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Số đơn", "Ngày tạo", "Nhà cung cấp", "Địa điểm giao", "Trạng thái", "Tổng tiền"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	for i, order := range orders {
		row := []string{
			order.Number,
			order.CreatedAt.Format(dateLayout),
			order.SupplierName,
			order.DeliveryLocation,
			string(order.Status),
			money(order.TotalAmount),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Receipts builds a workbook listing goods receipts, one row per receipt.
func Receipts(receipts []receiving.GoodsReceipt) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Số phiếu", "Ngày tạo", "Nhà cung cấp", "Kho", "Số đơn gốc", "Trạng thái", "Tổng tiền"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	for i, receipt := range receipts {
		row := []string{
			receipt.Number,
			receipt.CreatedAt.Format(dateLayout),
			receipt.SupplierName,
			receipt.Warehouse,
			receipt.SourceOrderNumber,
			string(receipt.Status),
			money(receipt.TotalAmount),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("export: set cell: %w", err)
		}
	}
	return nil
}
