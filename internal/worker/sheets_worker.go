package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"pictiv/internal/domain"
	"pictiv/internal/events"
	"pictiv/internal/google"
	"pictiv/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	rowTimeLayout = "2006-01-02 15:04:05"
	deadLetterKey = "pictiv:sheets:deadletter"
)

var ErrQueueFull = errors.New("sheets queue is full")

// SheetTask is one row waiting to be appended to the mirror spreadsheet.
type SheetTask struct {
	Sheet        string `json:"sheet"`
	SubmissionID string `json:"submission_id"`
	Row          []any  `json:"row"`
	RetryCount   int    `json:"retry_count"`
	LastError    string `json:"last_error,omitempty"`
}

// SheetsWorker mirrors received submissions into Google Sheets. Failed
// appends are retried with backoff; exhausted tasks go to the Redis dead
// letter list when a client is configured.
type SheetsWorker struct {
	sheets      domain.SheetsAppender
	redis       *redis.Client
	retryPolicy RetryPolicy
	queue       chan SheetTask
	after       func(time.Duration) <-chan time.Time
	roll        func() float64
	logger      *zerolog.Logger
}

// NewSheetsWorker builds a worker. Unset retry fields take the
// MirrorRetryPolicy values.
func NewSheetsWorker(sheets domain.SheetsAppender, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &SheetsWorker{
		sheets:      sheets,
		redis:       redisClient,
		retryPolicy: retry.withDefaults(),
		queue:       make(chan SheetTask, 128),
		after:       time.After,
		roll:        rand.Float64,
		logger:      logger,
	}
}

// HandleEvent turns a submission event into a sheet row and queues it.
func (w *SheetsWorker) HandleEvent(event *events.Event) error {
	var payload events.SubmissionPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}

	switch event.Type {
	case events.EventBookingReceived:
		return w.Enqueue(SheetTask{Sheet: google.SheetBookings, SubmissionID: payload.ID, Row: BookingRow(payload)})
	case events.EventInquiryReceived:
		return w.Enqueue(SheetTask{Sheet: google.SheetInquiries, SubmissionID: payload.ID, Row: InquiryRow(payload)})
	default:
		return fmt.Errorf("unsupported event type: %s", event.Type)
	}
}

// Enqueue schedules a task without blocking the caller.
func (w *SheetsWorker) Enqueue(task SheetTask) error {
	select {
	case w.queue <- task:
		return nil
	default:
		metrics.IncSheetsRow(task.Sheet, "dropped")
		w.logger.Warn().Str("sheet", task.Sheet).Str("id", task.SubmissionID).Msg("sheets queue full, row dropped")
		return ErrQueueFull
	}
}

// Start launches main loop; stops when ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, &task)
		}
	}
}

func (w *SheetsWorker) processTask(ctx context.Context, task *SheetTask) {
	if err := w.sheets.AppendRow(ctx, task.Sheet, task.Row); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}
	metrics.IncSheetsRow(task.Sheet, "appended")
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *SheetTask, cause error) {
	attempt := task.RetryCount + 1
	task.RetryCount = attempt
	task.LastError = cause.Error()

	if w.retryPolicy.Exhausted(attempt) {
		metrics.IncSheetsRow(task.Sheet, "failed")
		w.logger.Error().Err(cause).Str("sheet", task.Sheet).Str("id", task.SubmissionID).Int("attempts", attempt).Msg("sheets append failed")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.spread(w.retryPolicy.NextDelay(attempt), w.roll())
	w.logger.Warn().Err(cause).Str("sheet", task.Sheet).Str("id", task.SubmissionID).Dur("retry_in", delay).Msg("sheets append failed, retrying")

	retry := *task
	go func() {
		if wait(ctx, delay, w.after) {
			_ = w.Enqueue(retry)
		}
	}()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task *SheetTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Str("id", task.SubmissionID).Msg("encode dead letter")
		return
	}
	if err := w.redis.LPush(ctx, deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Str("id", task.SubmissionID).Msg("dead letter push")
	}
}

// BookingRow is the Bookings sheet layout.
func BookingRow(p events.SubmissionPayload) []any {
	return []any{
		p.ID,
		p.ReceivedAt.Format(rowTimeLayout),
		p.FullName,
		p.Phone,
		p.Email,
		p.ServiceKey,
		p.Date,
		p.Time,
		p.Location,
		p.Notes,
	}
}

// InquiryRow is the Inquiries sheet layout.
func InquiryRow(p events.SubmissionPayload) []any {
	return []any{
		p.ID,
		p.ReceivedAt.Format(rowTimeLayout),
		p.FullName,
		p.Email,
		p.Phone,
		p.Subject,
		p.Message,
	}
}
