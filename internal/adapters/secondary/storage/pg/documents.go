package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/persistence"
	"github.com/jmoiron/sqlx/types"
)

const documentsTable = "documents"

// DocumentStore документы в JSONB-колонке таблицы documents
type DocumentStore struct {
	db persistence.Persistence
}

func NewDocumentStore(db persistence.Persistence) *DocumentStore {
	return &DocumentStore{db: db}
}

var _ persistence.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (persistence.Document, error) {
	var data types.JSONText
	query := fmt.Sprintf(`SELECT data FROM %s WHERE collection = $1 AND id = $2`, documentsTable)
	if err := s.db.Get(ctx, &data, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}

	doc := persistence.Document{}
	if err := data.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *DocumentStore) Put(ctx context.Context, collection, id string, doc persistence.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, documentsTable)
	if err := s.db.Exec(ctx, query, collection, id, types.JSONText(data)); err != nil {
		return fmt.Errorf("failed to put document %s/%s: %w", collection, id, err)
	}
	return nil
}

// PutMerge поля doc поверх существующих; created_at существующего документа сохраняется
func (s *DocumentStore) PutMerge(ctx context.Context, collection, id string, doc persistence.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET
			data = %[1]s.data || EXCLUDED.data
				|| jsonb_strip_nulls(jsonb_build_object('created_at', %[1]s.data->'created_at')),
			updated_at = NOW()
	`, documentsTable)
	if err := s.db.Exec(ctx, query, collection, id, types.JSONText(data)); err != nil {
		return fmt.Errorf("failed to merge document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete true, если документ существовал
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection = $1 AND id = $2`, documentsTable)
	affected, err := s.db.ExecWithResult(ctx, query, collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return affected > 0, nil
}
