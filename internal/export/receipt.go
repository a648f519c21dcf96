// Package export writes booking receipts as Excel workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"resorthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ReceiptExporter renders a booking into an .xlsx receipt on disk.
type ReceiptExporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewReceiptExporter(dir string, logger *zerolog.Logger) *ReceiptExporter {
	return &ReceiptExporter{dir: dir, logger: logger}
}

// WriteReceipt writes a receipt workbook for the booking and returns the file path.
func (e *ReceiptExporter) WriteReceipt(booking models.Booking) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Receipt"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Dandeli Resort Hub - Booking %s", booking.BookingID))
	_ = f.MergeCell(sheetName, "A1", "E1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.SetCellValue(sheetName, "A2", "Guest")
	_ = f.SetCellValue(sheetName, "B2", booking.UserEmail)
	_ = f.SetCellValue(sheetName, "A3", "Booked at")
	_ = f.SetCellValue(sheetName, "B3", booking.BookedAt.Format("02.01.2006 15:04"))
	_ = f.SetCellValue(sheetName, "A4", "Payment method")
	_ = f.SetCellValue(sheetName, "B4", booking.PaymentMethod)
	_ = f.SetCellValue(sheetName, "A5", "Status")
	_ = f.SetCellValue(sheetName, "B5", booking.Status)

	headers := []string{"Item", "Type", "Price", "Quantity", "Line total"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 7)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 8
	for _, item := range booking.Items {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.Title)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(item.Type))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.Price)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), item.Quantity)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), item.LineTotal())
		row++
	}

	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), "Subtotal")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.Subtotal)
	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), "GST (18%)")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.Tax)
	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), "Total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.Total)

	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), totalStyle)

	_ = f.SetColWidth(sheetName, "A", "A", 30)
	_ = f.SetColWidth(sheetName, "B", "E", 15)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("receipt_%s.xlsx", booking.BookingID)
	filePath := filepath.Join(e.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("receipt file created")
	return filePath, nil
}
