// Package syncstore is the persistence boundary between the in-memory
// roster and ledger and the remote document store. The core requires
// exactly two operations from an adapter, hydration of whole named
// collections and atomic single-record appends. Everything loaded from
// a collection passes through an explicit parse step before it reaches
// typed domain state, loosely shaped documents never cross this package.
package syncstore

import (
	"context"
	"encoding/json"
)

// Collection names a document collection understood by the sync boundary.
type Collection string

const (
	CollectionStudents   Collection = "students"
	CollectionClasses    Collection = "classes"
	CollectionAttendance Collection = "attendance"
	CollectionUsers      Collection = "users"
)

// Valid reports whether the collection is one the boundary serves.
func (c Collection) Valid() bool {
	switch c {
	case CollectionStudents, CollectionClasses, CollectionAttendance, CollectionUsers:
		return true
	default:
		return false
	}
}

// RawRecord is one untyped document as returned by the remote store.
type RawRecord struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// Adapter is the contract the core depends on. Implementations must
// make SaveRecord atomic for a single record, a failed save must not
// leave a partial document behind.
type Adapter interface {
	// LoadCollection returns every document in the named collection.
	LoadCollection(ctx context.Context, name Collection) ([]RawRecord, error)
	// SaveRecord appends one record to the named collection and returns
	// its assigned identifier.
	SaveRecord(ctx context.Context, name Collection, record interface{}) (string, error)
}
