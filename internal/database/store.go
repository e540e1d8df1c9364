package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pictiv/internal/config"

	"github.com/rs/zerolog"
)

var (
	// ErrUnavailable is returned by every operation of an unavailable store.
	ErrUnavailable = errors.New("database not available")

	// ErrNotConfigured means no DATABASE_URL was provided.
	ErrNotConfigured = errors.New("database url is not configured")

	// ErrUnsupportedURL means the DATABASE_URL scheme has no backend.
	ErrUnsupportedURL = errors.New("unsupported database url")
)

// Store is a schema-less document store. Records are written as structs
// and read back by decoding into a caller-provided slice pointer. The
// store-assigned id is only present in the decoded value when the target
// type has an "_id" field.
type Store interface {
	// Name is the database name, or "" when there is none.
	Name() string
	CreateDocument(ctx context.Context, collection string, doc any) (string, error)
	// GetDocuments decodes every record of the collection into out, which
	// must be a pointer to a slice. Order is defined by the backend.
	GetDocuments(ctx context.Context, collection string, out any) error
	// HasDocuments reports whether the collection holds at least one record.
	HasDocuments(ctx context.Context, collection string) (bool, error)
	ListCollections(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// Open connects to the backend selected by cfg.URL:
// mongodb:// and mongodb+srv:// use MongoDB, sqlite:// and file: use SQLite.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) (Store, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, ErrNotConfigured
	}

	timeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return NewMongoStore(ctx, url, cfg.DatabaseName(), logger)
	case strings.HasPrefix(url, "sqlite://"):
		return NewSQLiteStore(ctx, strings.TrimPrefix(url, "sqlite://"), logger)
	case strings.HasPrefix(url, "file:"):
		return NewSQLiteStore(ctx, strings.TrimPrefix(url, "file:"), logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, schemeOf(url))
	}
}

func schemeOf(url string) string {
	if i := strings.Index(url, ":"); i > 0 {
		return url[:i]
	}
	return "no scheme"
}

// unavailableStore stands in for a store that could not be opened.
type unavailableStore struct {
	reason error
}

// Unavailable returns the sentinel store used when no database could be
// opened. Every operation fails with an error wrapping ErrUnavailable.
func Unavailable(reason error) Store {
	return &unavailableStore{reason: reason}
}

// IsAvailable reports whether s is a usable store.
func IsAvailable(s Store) bool {
	if s == nil {
		return false
	}
	_, unavailable := s.(*unavailableStore)
	return !unavailable
}

// UnavailableReason returns why s is unavailable, or nil.
func UnavailableReason(s Store) error {
	if s == nil {
		return ErrUnavailable
	}
	if u, ok := s.(*unavailableStore); ok {
		return u.err()
	}
	return nil
}

func (u *unavailableStore) err() error {
	if u.reason == nil || errors.Is(u.reason, ErrUnavailable) {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.reason)
}

func (u *unavailableStore) Name() string { return "" }

func (u *unavailableStore) CreateDocument(context.Context, string, any) (string, error) {
	return "", u.err()
}

func (u *unavailableStore) GetDocuments(context.Context, string, any) error {
	return u.err()
}

func (u *unavailableStore) HasDocuments(context.Context, string) (bool, error) {
	return false, u.err()
}

func (u *unavailableStore) ListCollections(context.Context) ([]string, error) {
	return nil, u.err()
}

func (u *unavailableStore) Close(context.Context) error { return nil }
