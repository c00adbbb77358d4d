package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tyamagishi/kaizen/internal/migration"
)

var migrations = []migration.Migration{
	{
		Version: 1,
		Name:    "create documents",
		SQL: `
			CREATE TABLE IF NOT EXISTS documents (
				user_id TEXT NOT NULL,
				collection TEXT NOT NULL,
				id TEXT NOT NULL,
				data TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (user_id, collection, id)
			)`,
	},
	{
		Version: 2,
		Name:    "index documents by collection",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_documents_user_collection
			ON documents (user_id, collection)`,
	},
}

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner := migration.NewRunner(db, migrations)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'kaizen init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return migration.NewRunner(db, migrations).ValidateVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, userID, collection, id string, data any) (Document, error) {
	body, err := marshalBody(collection, id, data)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (user_id, collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, collection, id)
		DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, collection, id, string(body), now, now,
	)
	if err != nil {
		return Document{}, fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}

	return s.Get(ctx, userID, collection, id)
}

func (s *SQLiteStore) Get(ctx context.Context, userID, collection, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT data, created_at, updated_at FROM documents
		WHERE user_id = ? AND collection = ? AND id = ?`,
		userID, collection, id,
	)
	return scanDocument(row.Scan, userID, collection, id)
}

func (s *SQLiteStore) List(ctx context.Context, userID, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE user_id = ? AND collection = ? ORDER BY id`,
		userID, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	return collectDocuments(rows, userID, collection)
}

func (s *SQLiteStore) Query(ctx context.Context, userID, collection, field, value string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE user_id = ? AND collection = ? AND json_extract(data, ?) = ?
		ORDER BY id`,
		userID, collection, "$."+field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}
	defer rows.Close()

	return collectDocuments(rows, userID, collection)
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, collection, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE user_id = ? AND collection = ? AND id = ?`,
		userID, collection, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func scanDocument(scan func(...any) error, userID, collection, id string) (Document, error) {
	var data, createdAt, updatedAt string
	if err := scan(&data, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}

	doc := Document{UserID: userID, Collection: collection, ID: id, Data: []byte(data)}
	var err error
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, fmt.Errorf("bad created_at on %s/%s: %w", collection, id, err)
	}
	if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Document{}, fmt.Errorf("bad updated_at on %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func collectDocuments(rows *sql.Rows, userID, collection string) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var id, data, createdAt, updatedAt string
		if err := rows.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		doc := Document{UserID: userID, Collection: collection, ID: id, Data: []byte(data)}
		var err error
		if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at on %s/%s: %w", collection, id, err)
		}
		if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("bad updated_at on %s/%s: %w", collection, id, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
