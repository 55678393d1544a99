package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
	"github.com/classtrack/classtrack-api/internal/syncstore"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// classResolver is the slice of the roster the ledger needs.
type classResolver interface {
	ClassByID(id string) (models.Class, bool)
}

// Ledger owns the append-only attendance record collection.
type Ledger struct {
	adapter syncstore.Adapter
	roster  classResolver
	logger  *zap.Logger

	mu      sync.RWMutex
	records []models.AttendanceRecord
}

// NewLedger constructs an empty ledger backed by the adapter.
func NewLedger(adapter syncstore.Adapter, roster classResolver, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{adapter: adapter, roster: roster, logger: logger}
}

// Hydrate loads the attendance collection.
func (l *Ledger) Hydrate(ctx context.Context) error {
	raw, err := l.adapter.LoadCollection(ctx, syncstore.CollectionAttendance)
	if err != nil {
		return err
	}
	records := make([]models.AttendanceRecord, 0, len(raw))
	for _, doc := range raw {
		record, err := syncstore.ParseAttendance(doc)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()

	l.logger.Info("ledger hydrated", zap.Int("records", len(records)))
	return nil
}

// AppendRecord validates, persists and registers one attendance record.
// The class must exist and every presence key must be on its current
// roster (MembershipStrict); entries for unknown students are rejected
// rather than dropped. There is no uniqueness constraint on class and
// date, a second marking on the same day appends a second record.
func (l *Ledger) AppendRecord(ctx context.Context, classID, date string, presence map[string]bool) (models.AttendanceRecord, error) {
	class, ok := l.roster.ClassByID(classID)
	if !ok {
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrNotFound,
			fmt.Sprintf("class %q not found", classID))
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date))
	}
	if outsider := checkSubset(presence, class.StudentIDs); outsider != "" {
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("student %q is not on the roster of class %q", outsider, classID))
	}

	flags := make(map[string]bool, len(presence))
	for id, present := range presence {
		flags[id] = present
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	doc := syncstore.AttendanceDocument{ClassID: classID, Date: date, Records: flags}
	id, err := l.adapter.SaveRecord(ctx, syncstore.CollectionAttendance, doc)
	if err != nil {
		return models.AttendanceRecord{}, err
	}

	record := models.AttendanceRecord{ID: id, ClassID: classID, Date: date, Records: flags}
	l.records = append(l.records, record)
	return copyRecord(record), nil
}

// RecordsForClass returns every record for the class.
func (l *Ledger) RecordsForClass(classID string) []models.AttendanceRecord {
	return l.filter(func(r models.AttendanceRecord) bool { return r.ClassID == classID })
}

// RecordsOn returns every record for the calendar date.
func (l *Ledger) RecordsOn(date string) []models.AttendanceRecord {
	return l.filter(func(r models.AttendanceRecord) bool { return r.Date == date })
}

// RecordsForStudent returns the student's applicable records, the ones
// whose presence map contains the student id.
func (l *Ledger) RecordsForStudent(studentID string) []models.AttendanceRecord {
	return l.filter(func(r models.AttendanceRecord) bool {
		_, ok := r.Records[studentID]
		return ok
	})
}

// AllRecords returns every record. Used by the aggregation engine.
func (l *Ledger) AllRecords() []models.AttendanceRecord {
	return l.filter(func(models.AttendanceRecord) bool { return true })
}

func (l *Ledger) filter(keep func(models.AttendanceRecord) bool) []models.AttendanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.AttendanceRecord, 0, len(l.records))
	for _, record := range l.records {
		if keep(record) {
			out = append(out, copyRecord(record))
		}
	}
	return out
}

func copyRecord(record models.AttendanceRecord) models.AttendanceRecord {
	flags := make(map[string]bool, len(record.Records))
	for id, present := range record.Records {
		flags[id] = present
	}
	record.Records = flags
	return record
}
