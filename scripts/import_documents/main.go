// Command import_documents loads a JSON export of the roster, ledger
// and account collections into the documents table. Used to migrate an
// existing deployment's data onto a fresh database.
//
// The export file maps collection names to arrays of documents:
//
//	{
//	  "students":   [{"name": "Ada Lovelace", "studentId": "1001"}],
//	  "classes":    [{"name": "Math", "students": ["<doc id>"]}],
//	  "attendance": [{"classId": "<doc id>", "date": "2024-03-04", "records": {"<doc id>": true}}],
//	  "users":      [{"email": "t@school.io", "passwordHash": "...", "active": true}]
//	}
//
// Documents may carry an optional "id" field to keep cross-collection
// references intact; without one a fresh id is assigned. Every document
// is validated before anything is written, a malformed export imports
// nothing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/classtrack/classtrack-api/internal/syncstore"
)

// importOrder keeps referenced collections ahead of the collections
// that reference them.
var importOrder = []syncstore.Collection{
	syncstore.CollectionStudents,
	syncstore.CollectionClasses,
	syncstore.CollectionAttendance,
	syncstore.CollectionUsers,
}

func main() {
	var (
		dsn     string
		input   string
		dryRun  bool
		timeout time.Duration
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.StringVar(&input, "input", "export.json", "Path to the JSON export file")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the export without writing")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall import timeout")
	flag.Parse()

	export, err := loadExport(input)
	if err != nil {
		log.Fatalf("failed to load export: %v", err)
	}
	if err := validateExport(export); err != nil {
		log.Fatalf("invalid export: %v", err)
	}

	total := 0
	for _, name := range importOrder {
		total += len(export[name])
	}
	if dryRun {
		log.Printf("export is valid, %d documents across %d collections (dry run, nothing written)", total, len(export))
		return
	}
	if dsn == "" {
		log.Fatal("no -dsn flag and DATABASE_URL is unset")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	inserted, err := importExport(ctx, db, export)
	if err != nil {
		log.Fatalf("import failed, transaction rolled back: %v", err)
	}
	log.Printf("imported %d documents", inserted)
}

type exportedDocument struct {
	ID string `json:"id"`
	// Remaining fields are collection-specific; kept raw and validated
	// by the syncstore parsers.
	payload json.RawMessage
}

func (d *exportedDocument) UnmarshalJSON(data []byte) error {
	var idOnly struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &idOnly); err != nil {
		return err
	}
	d.ID = idOnly.ID
	d.payload = append(json.RawMessage(nil), data...)
	return nil
}

func loadExport(path string) (map[syncstore.Collection][]exportedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[syncstore.Collection][]exportedDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for name := range raw {
		if !name.Valid() {
			return nil, fmt.Errorf("unknown collection %q", name)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no collections in %s", path)
	}
	return raw, nil
}

func validateExport(export map[syncstore.Collection][]exportedDocument) error {
	for name, docs := range export {
		for i, doc := range docs {
			raw := syncstore.RawRecord{ID: doc.ID, Payload: doc.payload}
			var err error
			switch name {
			case syncstore.CollectionStudents:
				_, err = syncstore.ParseStudent(raw)
			case syncstore.CollectionClasses:
				_, err = syncstore.ParseClass(raw)
			case syncstore.CollectionAttendance:
				_, err = syncstore.ParseAttendance(raw)
			case syncstore.CollectionUsers:
				_, err = syncstore.ParseUser(raw)
			}
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", name, i, err)
			}
		}
	}
	return nil
}

func importExport(ctx context.Context, db *sqlx.DB, export map[syncstore.Collection][]exportedDocument) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const query = `INSERT INTO documents (id, collection, payload, created_at) VALUES ($1, $2, $3, $4)`
	now := time.Now().UTC()
	inserted := 0
	for _, name := range importOrder {
		for _, doc := range export[name] {
			id := doc.ID
			if id == "" {
				id = uuid.NewString()
			}
			// Insertion order inside a collection is preserved through
			// distinct created_at values.
			if _, err := tx.ExecContext(ctx, query, id, string(name), []byte(doc.payload), now); err != nil {
				return 0, fmt.Errorf("insert %s document %q: %w", name, id, err)
			}
			now = now.Add(time.Microsecond)
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
