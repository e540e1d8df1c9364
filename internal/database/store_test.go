package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pictiv/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("NotConfigured", func(t *testing.T) {
		_, err := Open(ctx, config.DatabaseConfig{}, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("UnsupportedScheme", func(t *testing.T) {
		_, err := Open(ctx, config.DatabaseConfig{URL: "postgres://localhost/db"}, nil)
		assert.ErrorIs(t, err, ErrUnsupportedURL)
		assert.Contains(t, err.Error(), "postgres")
	})

	t.Run("SQLiteURL", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.db")
		store, err := Open(ctx, config.DatabaseConfig{URL: "sqlite://" + path}, nil)
		require.NoError(t, err)
		defer store.Close(ctx)

		assert.True(t, IsAvailable(store))
		assert.Equal(t, "site", store.Name())
	})

	t.Run("FileURL", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.db")
		store, err := Open(ctx, config.DatabaseConfig{URL: "file:" + path}, nil)
		require.NoError(t, err)
		defer store.Close(ctx)

		assert.IsType(t, &SQLiteStore{}, store)
	})
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	reason := errors.New("connection refused")
	store := Unavailable(reason)

	assert.False(t, IsAvailable(store))
	assert.False(t, IsAvailable(nil))
	assert.Empty(t, store.Name())

	_, err := store.CreateDocument(ctx, "booking", struct{}{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	var out []struct{}
	assert.ErrorIs(t, store.GetDocuments(ctx, "service", &out), ErrUnavailable)

	has, err := store.HasDocuments(ctx, "service")
	assert.False(t, has)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.ListCollections(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.NoError(t, store.Close(ctx))
	assert.ErrorIs(t, UnavailableReason(store), ErrUnavailable)
}

func TestUnavailableStoreWithoutReason(t *testing.T) {
	store := Unavailable(nil)
	err := UnavailableReason(store)
	assert.Equal(t, ErrUnavailable, err)

	sqlite, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "x.db"), nil)
	require.NoError(t, err)
	defer sqlite.Close(context.Background())
	assert.NoError(t, UnavailableReason(sqlite))
}
