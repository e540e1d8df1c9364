package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pictiv/internal/database"
	"pictiv/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	SheetBookings  = "Bookings"
	SheetInquiries = "Inquiries"

	timeLayout = "2006-01-02 15:04:05"
)

var (
	bookingHeaders = []any{"ID", "Received At", "Full Name", "Phone", "Email", "Service", "Date", "Time", "Location", "Notes", "WhatsApp Contact"}
	inquiryHeaders = []any{"ID", "Received At", "Full Name", "Email", "Phone", "Subject", "Message"}
)

// Exporter writes every stored submission to an Excel workbook.
type Exporter struct {
	store  database.Store
	dir    string
	now    func() time.Time
	logger *zerolog.Logger
}

func NewExporter(store database.Store, dir string, logger *zerolog.Logger) *Exporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Exporter{store: store, dir: dir, now: time.Now, logger: logger}
}

// Export returns the path of the written workbook.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	var bookings []models.Booking
	if err := e.store.GetDocuments(ctx, models.CollectionBooking, &bookings); err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}
	var inquiries []models.Inquiry
	if err := e.store.GetDocuments(ctx, models.CollectionInquiry, &inquiries); err != nil {
		return "", fmt.Errorf("error getting inquiries: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return "", fmt.Errorf("error creating style: %w", err)
	}

	bookingRows := make([][]any, 0, len(bookings))
	for _, b := range bookings {
		bookingRows = append(bookingRows, []any{
			b.ID, formatTime(b.CreatedAt), b.FullName, b.Phone, deref(b.Email),
			b.ServiceKey, b.Date, b.Time, b.Location, deref(b.Notes), b.ContactViaWhatsapp,
		})
	}
	if err := writeSheet(f, SheetBookings, bookingHeaders, bookingRows, headerStyle); err != nil {
		return "", err
	}

	inquiryRows := make([][]any, 0, len(inquiries))
	for _, q := range inquiries {
		inquiryRows = append(inquiryRows, []any{
			q.ID, formatTime(q.CreatedAt), q.FullName, deref(q.Email), deref(q.Phone), q.Subject, q.Message,
		})
	}
	if err := writeSheet(f, SheetInquiries, inquiryHeaders, inquiryRows, headerStyle); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(SheetBookings); err == nil {
		f.SetActiveSheet(index)
	}

	fileName := fmt.Sprintf("pictiv_export_%s.xlsx", e.now().UTC().Format("20060102_150405"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().
		Str("file_path", filePath).
		Int("bookings", len(bookings)).
		Int("inquiries", len(inquiries)).
		Msg("Excel file created")
	return filePath, nil
}

func writeSheet(f *excelize.File, name string, headers []any, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("error creating sheet %s: %w", name, err)
	}

	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("error writing %s headers: %w", name, err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(name, "A1", lastHeader, headerStyle)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", name, i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(name, "A", lastCol, 20)
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
