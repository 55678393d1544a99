package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// DocumentStore persists collections as JSONB documents in a single
// Postgres table:
//
//	CREATE TABLE documents (
//	    id         TEXT PRIMARY KEY,
//	    collection TEXT NOT NULL,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type DocumentStore struct {
	db *sqlx.DB
}

// NewDocumentStore constructs a DocumentStore.
func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

type documentRow struct {
	ID      string `db:"id"`
	Payload []byte `db:"payload"`
}

// LoadCollection returns every document of the collection in insertion order.
func (s *DocumentStore) LoadCollection(ctx context.Context, name Collection) ([]RawRecord, error) {
	if !name.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown collection %q", name))
	}
	query := `SELECT id, payload FROM documents WHERE collection = $1 ORDER BY created_at, id`
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, string(name)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSync.Code, appErrors.ErrSync.Status,
			fmt.Sprintf("load collection %s", name))
	}
	records := make([]RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, RawRecord{ID: row.ID, Payload: json.RawMessage(row.Payload)})
	}
	return records, nil
}

// SaveRecord appends one record and returns its assigned id. The insert
// is a single statement, atomic per record.
func (s *DocumentStore) SaveRecord(ctx context.Context, name Collection, record interface{}) (string, error) {
	if !name.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown collection %q", name))
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("encode %s record", name))
	}
	id := uuid.NewString()
	query := `INSERT INTO documents (id, collection, payload, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, id, string(name), payload, time.Now().UTC()); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrSync.Code, appErrors.ErrSync.Status,
			fmt.Sprintf("save %s record", name))
	}
	return id, nil
}
