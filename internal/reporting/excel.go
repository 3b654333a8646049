package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/projexfx/signal-trader/internal/journal"
)

const ordersSheet = "Orders"

var orderHeaders = []string{
	"Placed At", "Symbol", "Order Type", "Volume",
	"Entry", "Stop Loss", "Take Profit", "Result Code", "Order ID",
}

// OrdersWorkbook renders the journalled order legs into an .xlsx workbook
// and returns the file contents, ready to be sent as a chat document.
func OrdersWorkbook(records []journal.OrderRecord) ([]byte, error) {
	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), ordersSheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range orderHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		fx.SetCellValue(ordersSheet, cell, header)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(orderHeaders), 1)
	fx.SetCellStyle(ordersSheet, "A1", endHeader, headerStyle)

	for i, record := range records {
		row := i + 2
		values := []any{
			record.PlacedAt.Format("2006-01-02 15:04:05"),
			record.Symbol,
			record.OrderType,
			record.Volume,
			record.Entry,
			record.StopLoss,
			record.TakeProfit,
			record.ResultCode,
			record.OrderID,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(ordersSheet, cell, value)
		}
	}

	fx.SetColWidth(ordersSheet, "A", "A", 20)
	fx.SetColWidth(ordersSheet, "B", "I", 14)

	buf, err := fx.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
