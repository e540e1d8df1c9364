package service

import (
	"context"

	"pictiv/internal/catalog"
	"pictiv/internal/database"
	"pictiv/internal/metrics"
	"pictiv/internal/models"

	"github.com/rs/zerolog"
)

// Listing is a catalog response. Fallback is set when Items come from the
// built-in catalog because the store could not be read.
type Listing[T any] struct {
	Items    []T    `json:"items"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

type CatalogService struct {
	store  database.Store
	logger *zerolog.Logger
}

func NewCatalogService(store database.Store, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// EnsureServicesSeeded fills an empty service collection with the built-in
// packages. It returns database.ErrUnavailable without touching anything
// when there is no store.
func (s *CatalogService) EnsureServicesSeeded(ctx context.Context) error {
	_, err := s.SeedServices(ctx, catalog.Services())
	return err
}

// EnsureAnnouncementsSeeded is EnsureServicesSeeded for announcements.
// Inactive built-in entries are stored too.
func (s *CatalogService) EnsureAnnouncementsSeeded(ctx context.Context) error {
	_, err := s.SeedAnnouncements(ctx, catalog.Announcements())
	return err
}

// SeedServices stores items when the service collection is empty and
// reports how many were inserted.
func (s *CatalogService) SeedServices(ctx context.Context, items []models.ServiceItem) (int, error) {
	docs := make([]any, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return s.seed(ctx, models.CollectionService, docs)
}

func (s *CatalogService) SeedAnnouncements(ctx context.Context, items []models.Announcement) (int, error) {
	docs := make([]any, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return s.seed(ctx, models.CollectionAnnouncement, docs)
}

func (s *CatalogService) seed(ctx context.Context, collection string, docs []any) (int, error) {
	if !database.IsAvailable(s.store) {
		return 0, database.ErrUnavailable
	}

	exists, err := s.store.HasDocuments(ctx, collection)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	for i, doc := range docs {
		if _, err := s.store.CreateDocument(ctx, collection, doc); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

// ListServices seeds the collection if needed and returns every stored
// service package. Read failures yield the built-in catalog instead.
func (s *CatalogService) ListServices(ctx context.Context) Listing[models.ServiceItem] {
	// seeding must never break a read
	_ = s.EnsureServicesSeeded(ctx)

	var items []models.ServiceItem
	if err := s.getDocuments(ctx, models.CollectionService, &items); err != nil {
		s.logFallback(models.CollectionService, err)
		return fallbackListing(catalog.Services(), err)
	}
	if items == nil {
		items = []models.ServiceItem{}
	}
	return Listing[models.ServiceItem]{Items: items}
}

// ListAnnouncements returns the active announcements only.
func (s *CatalogService) ListAnnouncements(ctx context.Context) Listing[models.Announcement] {
	_ = s.EnsureAnnouncementsSeeded(ctx)

	var stored []models.StoredAnnouncement
	if err := s.getDocuments(ctx, models.CollectionAnnouncement, &stored); err != nil {
		s.logFallback(models.CollectionAnnouncement, err)
		return fallbackListing(catalog.ActiveAnnouncements(), err)
	}

	items := make([]models.Announcement, 0, len(stored))
	for _, a := range stored {
		if a.IsActive() {
			items = append(items, a.Announcement())
		}
	}
	return Listing[models.Announcement]{Items: items}
}

func (s *CatalogService) getDocuments(ctx context.Context, collection string, out any) error {
	if s.store == nil {
		return database.ErrUnavailable
	}
	return s.store.GetDocuments(ctx, collection, out)
}

func (s *CatalogService) logFallback(collection string, err error) {
	metrics.IncCatalogFallback(collection)
	if s.logger != nil {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("serving built-in catalog")
	}
}

func fallbackListing[T any](items []T, err error) Listing[T] {
	return Listing[T]{
		Items:    items,
		Fallback: true,
		Error:    truncate(err.Error(), models.MaxFallbackErrorLen),
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
