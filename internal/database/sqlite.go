package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLiteStore keeps documents as JSON rows in a single table.
type SQLiteStore struct {
	db     *sql.DB
	name   string
	logger zerolog.Logger
}

func NewSQLiteStore(ctx context.Context, path string, logger *zerolog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	inMemory := path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if inMemory {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{
		db:   db,
		name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	if logger != nil {
		store.logger = logger.With().Str("component", "sqlite-store").Logger()
	} else {
		store.logger = zerolog.Nop()
	}
	store.logger.Info().Str("path", path).Msg("sqlite document store ready")
	return store, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT UNIQUE NOT NULL,
            collection TEXT NOT NULL,
            data TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return s.name }

func (s *SQLiteStore) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, data, created_at) VALUES (?, ?, ?, ?)`,
		id, collection, string(data), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return id, nil
}

func (s *SQLiteStore) GetDocuments(ctx context.Context, collection string, out any) error {
	if err := checkSlicePtr(out); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT json_set(data, '$._id', id) FROM documents WHERE collection = ? ORDER BY seq`,
		collection,
	)
	if err != nil {
		return fmt.Errorf("query %s documents: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("scan %s document: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s documents: %w", collection, err)
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s documents: %w", collection, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return nil
}

func (s *SQLiteStore) HasDocuments(ctx context.Context, collection string) (bool, error) {
	var key sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT json_extract(data, '$.key') FROM documents WHERE collection = ? LIMIT 1`,
		collection,
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s documents: %w", collection, err)
	}
	return true, nil
}

func (s *SQLiteStore) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

func checkSlicePtr(out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("documents target must be a non-nil slice pointer, got %T", out)
	}
	return nil
}
