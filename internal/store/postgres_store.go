package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore backs the document boundary with a jsonb table.
// Timestamps are assigned by the database, so clock skew between
// clients never produces out-of-order updated_at values.
type PostgresStore struct {
	dsn string
	db  *sql.DB
}

func NewPostgresStore(dsn string) *PostgresStore {
	return &PostgresStore{dsn: dsn}
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			user_id TEXT NOT NULL,
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	return s.open()
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, userID, collection, id string, data any) (Document, error) {
	body, err := marshalBody(collection, id, data)
	if err != nil {
		return Document{}, err
	}

	doc := Document{UserID: userID, Collection: collection, ID: id, Data: body}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO documents (user_id, collection, id, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at`,
		userID, collection, id, string(body),
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, collection, id string) (Document, error) {
	doc := Document{UserID: userID, Collection: collection, ID: id}
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data, created_at, updated_at FROM documents
		WHERE user_id = $1 AND collection = $2 AND id = $3`,
		userID, collection, id,
	).Scan(&data, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	doc.Data = []byte(data)
	return doc, nil
}

func (s *PostgresStore) List(ctx context.Context, userID, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE user_id = $1 AND collection = $2 ORDER BY id`,
		userID, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	return s.collect(rows, userID, collection)
}

func (s *PostgresStore) Query(ctx context.Context, userID, collection, field, value string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE user_id = $1 AND collection = $2 AND data->>$3 = $4
		ORDER BY id`,
		userID, collection, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}
	defer rows.Close()

	return s.collect(rows, userID, collection)
}

func (s *PostgresStore) collect(rows *sql.Rows, userID, collection string) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		doc := Document{UserID: userID, Collection: collection}
		var data string
		if err := rows.Scan(&doc.ID, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.Data = []byte(data)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, userID, collection, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE user_id = $1 AND collection = $2 AND id = $3`,
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

func (s *PostgresStore) GetConfigPath() string {
	return s.dsn
}
