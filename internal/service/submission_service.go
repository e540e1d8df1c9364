package service

import (
	"context"
	"fmt"
	"time"

	"pictiv/internal/database"
	"pictiv/internal/domain"
	"pictiv/internal/events"
	"pictiv/internal/models"

	"github.com/rs/zerolog"
)

// SubmissionService stores booking and inquiry forms.
type SubmissionService struct {
	store          database.Store
	eventBus       domain.EventPublisher
	studioWhatsApp string
	now            func() time.Time
	logger         *zerolog.Logger
}

func NewSubmissionService(store database.Store, eventBus domain.EventPublisher, studioWhatsApp string, logger *zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		store:          store,
		eventBus:       eventBus,
		studioWhatsApp: studioWhatsApp,
		now:            time.Now,
		logger:         logger,
	}
}

// CreateBooking persists the booking and returns its receipt with the
// WhatsApp link. It fails with database.ErrUnavailable when there is no store.
func (s *SubmissionService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingReceipt, error) {
	if !database.IsAvailable(s.store) {
		return nil, database.ErrUnavailable
	}

	receivedAt := s.now().UTC()
	id, err := s.store.CreateDocument(ctx, models.CollectionBooking, models.Booking{
		BookingRequest: req,
		CreatedAt:      receivedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.publish(events.EventBookingReceived, events.SubmissionPayload{
		ID:         id,
		FullName:   req.FullName,
		Email:      deref(req.Email),
		Phone:      req.Phone,
		ServiceKey: req.ServiceKey,
		Date:       req.Date,
		Time:       req.Time,
		Location:   req.Location,
		Notes:      deref(req.Notes),
		ReceivedAt: receivedAt,
	})

	return &models.BookingReceipt{
		ID:       id,
		Status:   models.StatusReceived,
		WhatsApp: WhatsAppLink(s.studioWhatsApp, req),
	}, nil
}

// CreateInquiry persists a contact form submission.
func (s *SubmissionService) CreateInquiry(ctx context.Context, req models.InquiryRequest) (*models.InquiryReceipt, error) {
	if !database.IsAvailable(s.store) {
		return nil, database.ErrUnavailable
	}

	receivedAt := s.now().UTC()
	id, err := s.store.CreateDocument(ctx, models.CollectionInquiry, models.Inquiry{
		InquiryRequest: req,
		CreatedAt:      receivedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	s.publish(events.EventInquiryReceived, events.SubmissionPayload{
		ID:         id,
		FullName:   req.FullName,
		Email:      deref(req.Email),
		Phone:      deref(req.Phone),
		Subject:    req.Subject,
		Message:    req.Message,
		ReceivedAt: receivedAt,
	})

	return &models.InquiryReceipt{ID: id, Status: models.StatusReceived}, nil
}

func (s *SubmissionService) publish(eventType string, payload events.SubmissionPayload) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil && s.logger != nil {
		s.logger.Error().Err(err).Str("event", eventType).Str("id", payload.ID).Msg("publish event")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
