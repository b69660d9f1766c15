// Package export builds XLSX reports of a chef's orders and bookings so the
// numbers can leave the dashboard and land in a spreadsheet.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"idish/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet   = "Orders"
	bookingsSheet = "Bookings"
)

type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// ChefActivity writes the chef's orders and bookings into a two-sheet XLSX
// file and returns its path.
func (e *Exporter) ChefActivity(orders []models.Order, bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeOrders(f, orders); err != nil {
		return "", err
	}
	if err := e.writeBookings(f, bookings); err != nil {
		return "", err
	}
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("chef_activity_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("orders", len(orders)).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func (e *Exporter) writeOrders(f *excelize.File, orders []models.Order) error {
	index, err := f.NewSheet(ordersSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Dish", "Quantity", "Total", "Delivery Address", "Status", "Created"}
	writeHeaderRow(f, ordersSheet, headers)

	for i, order := range orders {
		row := i + 2
		dishTitle := ""
		if order.Dish != nil {
			dishTitle = order.Dish.Title
		}
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("A%d", row), order.ID)
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("B%d", row), dishTitle)
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("C%d", row), order.Quantity)
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("D%d", row), order.TotalPrice)
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("E%d", row), order.DeliveryAddress)
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("F%d", row), string(order.Status))
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("G%d", row), order.CreatedAt.Format("02.01.2006 15:04"))

		if styleID, err := statusStyle(f, statusColorOrder(order.Status)); err == nil {
			cell := fmt.Sprintf("F%d", row)
			_ = f.SetCellStyle(ordersSheet, cell, cell, styleID)
		}
	}

	_ = f.SetColWidth(ordersSheet, "A", "A", 38)
	_ = f.SetColWidth(ordersSheet, "B", "B", 25)
	_ = f.SetColWidth(ordersSheet, "C", "D", 10)
	_ = f.SetColWidth(ordersSheet, "E", "E", 35)
	_ = f.SetColWidth(ordersSheet, "F", "G", 18)
	return nil
}

func (e *Exporter) writeBookings(f *excelize.File, bookings []models.Booking) error {
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"ID", "Hosting", "Date", "Time Slot", "Guests", "Total", "Status", "Created"}
	writeHeaderRow(f, bookingsSheet, headers)

	for i, booking := range bookings {
		row := i + 2
		hostingTitle := ""
		if booking.Hosting != nil {
			hostingTitle = booking.Hosting.Title
		}
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), hostingTitle)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), booking.Date)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), booking.TimeSlot)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), booking.NumberOfGuests)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), booking.TotalPrice)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), string(booking.Status))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))

		if styleID, err := statusStyle(f, statusColorBooking(booking.Status)); err == nil {
			cell := fmt.Sprintf("G%d", row)
			_ = f.SetCellStyle(bookingsSheet, cell, cell, styleID)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 38)
	_ = f.SetColWidth(bookingsSheet, "B", "B", 25)
	_ = f.SetColWidth(bookingsSheet, "C", "D", 12)
	_ = f.SetColWidth(bookingsSheet, "E", "F", 10)
	_ = f.SetColWidth(bookingsSheet, "G", "H", 18)
	return nil
}

func writeHeaderRow(f *excelize.File, sheetName string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func statusStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func statusColorOrder(status models.OrderStatus) string {
	switch status {
	case models.OrderDelivered:
		return "#C6EFCE"
	case models.OrderCancelled:
		return "#FFC7CE"
	default:
		return "#FFEB9C"
	}
}

func statusColorBooking(status models.BookingStatus) string {
	switch status {
	case models.BookingConfirmed, models.BookingCompleted:
		return "#C6EFCE"
	case models.BookingCancelled:
		return "#FFC7CE"
	default:
		return "#FFEB9C"
	}
}
