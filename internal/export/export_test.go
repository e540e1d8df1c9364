package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pictiv/internal/database"
	"pictiv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := database.NewSQLiteStore(ctx, filepath.Join(dir, "studio.db"), nil)
	require.NoError(t, err)
	defer store.Close(ctx)

	created := time.Date(2024, 11, 1, 8, 30, 0, 0, time.UTC)
	bookingID, err := store.CreateDocument(ctx, models.CollectionBooking, models.Booking{
		BookingRequest: models.BookingRequest{
			FullName:           "Asha Patil",
			Email:              models.StringPtr("asha@example.com"),
			Phone:              "9876543210",
			ServiceKey:         "wedding_day",
			Date:               "2024-12-25",
			Time:               "10:00",
			Location:           "Nashik",
			ContactViaWhatsapp: true,
		},
		CreatedAt: created,
	})
	require.NoError(t, err)
	_, err = store.CreateDocument(ctx, models.CollectionInquiry, models.Inquiry{
		InquiryRequest: models.InquiryRequest{FullName: "Ravi", Subject: "Albums", Message: "Price?"},
		CreatedAt:      created,
	})
	require.NoError(t, err)

	exporter := NewExporter(store, filepath.Join(dir, "exports"), nil)
	exporter.now = func() time.Time { return created }

	path, err := exporter.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "pictiv_export_20241101_083000.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetBookings, SheetInquiries}, f.GetSheetList())

	rows, err := f.GetRows(SheetBookings)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Received At", rows[0][1])
	assert.Equal(t, bookingID, rows[1][0])
	assert.Equal(t, "2024-11-01 08:30:00", rows[1][1])
	assert.Equal(t, "asha@example.com", rows[1][4])
	assert.Equal(t, "wedding_day", rows[1][5])
	assert.Equal(t, "TRUE", rows[1][10])

	rows, err = f.GetRows(SheetInquiries)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Albums", rows[1][5])
}

func TestExport_EmptyStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := database.NewSQLiteStore(ctx, filepath.Join(dir, "studio.db"), nil)
	require.NoError(t, err)
	defer store.Close(ctx)

	path, err := NewExporter(store, dir, nil).Export(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetInquiries)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExport_Unavailable(t *testing.T) {
	_, err := NewExporter(database.Unavailable(nil), t.TempDir(), nil).Export(context.Background())
	assert.ErrorIs(t, err, database.ErrUnavailable)
}
