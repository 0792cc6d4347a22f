package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"billflow/internal/domain"
	"billflow/internal/port"
)

type documentStore struct {
	db *sqlx.DB
}

// NewDocumentStore creates a PostgreSQL-backed DocumentStore over the documents table.
func NewDocumentStore(db *sqlx.DB) port.DocumentStore {
	return &documentStore{db: db}
}

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data,
		"SELECT data FROM documents WHERE collection = $1 AND id = $2", collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentStore.Get: %w", err)
	}
	return json.RawMessage(data), nil
}

func (s *documentStore) GetAll(ctx context.Context, collection string) ([]port.Document, error) {
	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, data FROM documents WHERE collection = $1 ORDER BY id", collection)
	if err != nil {
		return nil, fmt.Errorf("documentStore.GetAll: %w", err)
	}
	docs := make([]port.Document, len(rows))
	for i, r := range rows {
		docs[i] = port.Document{ID: r.ID, Data: json.RawMessage(r.Data)}
	}
	return docs, nil
}

func (s *documentStore) Set(ctx context.Context, collection, id string, data json.RawMessage) error {
	query := `INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(data)); err != nil {
		return fmt.Errorf("documentStore.Set: %w", err)
	}
	return nil
}

func (s *documentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = $1 AND id = $2", collection, id)
	if err != nil {
		return fmt.Errorf("documentStore.Delete: %w", err)
	}
	return nil
}

func (s *documentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
