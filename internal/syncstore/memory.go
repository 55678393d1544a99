package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// MemoryAdapter is an in-process adapter used in tests and for running
// the service without a database. Documents live only as long as the
// process.
type MemoryAdapter struct {
	mu          sync.Mutex
	collections map[Collection][]RawRecord
}

// NewMemoryAdapter constructs an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{collections: make(map[Collection][]RawRecord)}
}

// LoadCollection returns the stored documents in insertion order.
func (a *MemoryAdapter) LoadCollection(ctx context.Context, name Collection) ([]RawRecord, error) {
	if !name.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown collection %q", name))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	records := make([]RawRecord, len(a.collections[name]))
	copy(records, a.collections[name])
	return records, nil
}

// SaveRecord appends the record and returns a generated id.
func (a *MemoryAdapter) SaveRecord(ctx context.Context, name Collection, record interface{}) (string, error) {
	if !name.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown collection %q", name))
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("encode %s record", name))
	}
	id := uuid.NewString()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.collections[name] = append(a.collections[name], RawRecord{ID: id, Payload: payload})
	return id, nil
}

// Seed inserts a document with a fixed id, bypassing id assignment.
// Test helper.
func (a *MemoryAdapter) Seed(name Collection, id string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.collections[name] = append(a.collections[name], RawRecord{ID: id, Payload: payload})
	return nil
}
