package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pictiv/internal/events"
	"pictiv/internal/google"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSheets struct {
	mu       sync.Mutex
	connErr  error
	appended []string
}

func (s *stubSheets) TestConnection(context.Context) error {
	return s.connErr
}

func (s *stubSheets) AppendRow(_ context.Context, sheet string, _ []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, sheet)
	return nil
}

func (s *stubSheets) sheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.appended...)
}

func TestStartSheetsMirror_SkipsUnreachableSpreadsheet(t *testing.T) {
	logger := zerolog.Nop()
	bus := events.NewEventBus()
	sheets := &stubSheets{connErr: errors.New("403 forbidden")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.False(t, startSheetsMirror(ctx, sheets, bus, nil, &logger))

	require.NoError(t, bus.PublishJSON(events.EventBookingReceived, events.SubmissionPayload{ID: "b-1"}))
	assert.Empty(t, sheets.sheets())
}

func TestStartSheetsMirror_AppendsSubmissions(t *testing.T) {
	logger := zerolog.Nop()
	bus := events.NewEventBus()
	sheets := &stubSheets{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, startSheetsMirror(ctx, sheets, bus, nil, &logger))

	require.NoError(t, bus.PublishJSON(events.EventInquiryReceived, events.SubmissionPayload{ID: "i-1"}))
	assert.Eventually(t, func() bool {
		got := sheets.sheets()
		return len(got) == 1 && got[0] == google.SheetInquiries
	}, 2*time.Second, 10*time.Millisecond)
}
