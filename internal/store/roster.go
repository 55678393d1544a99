// Package store holds the in-memory roster and attendance collections.
// Collections are hydrated once from the sync adapter and written
// through it, a failed save never mutates memory. Writes are serialized
// with one mutex per collection; reads hand out copies so callers and
// the aggregation engine operate on stable snapshots without locks.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
	"github.com/classtrack/classtrack-api/internal/syncstore"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// Roster owns the student and class collections.
type Roster struct {
	adapter syncstore.Adapter
	logger  *zap.Logger

	studentsMu  sync.RWMutex
	students    []models.Student
	byStudentID map[string]struct{}

	classesMu sync.RWMutex
	classes   []models.Class
}

// NewRoster constructs an empty roster backed by the adapter.
func NewRoster(adapter syncstore.Adapter, logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roster{
		adapter:     adapter,
		logger:      logger,
		byStudentID: make(map[string]struct{}),
	}
}

// Hydrate loads the students and classes collections. Malformed
// documents fail hydration, the remote store is the source of truth and
// a partial roster would silently skew every summary derived from it.
func (r *Roster) Hydrate(ctx context.Context) error {
	rawStudents, err := r.adapter.LoadCollection(ctx, syncstore.CollectionStudents)
	if err != nil {
		return err
	}
	rawClasses, err := r.adapter.LoadCollection(ctx, syncstore.CollectionClasses)
	if err != nil {
		return err
	}

	students := make([]models.Student, 0, len(rawStudents))
	byStudentID := make(map[string]struct{}, len(rawStudents))
	for _, raw := range rawStudents {
		student, err := syncstore.ParseStudent(raw)
		if err != nil {
			return err
		}
		students = append(students, student)
		byStudentID[student.StudentID] = struct{}{}
	}

	classes := make([]models.Class, 0, len(rawClasses))
	for _, raw := range rawClasses {
		class, err := syncstore.ParseClass(raw)
		if err != nil {
			return err
		}
		classes = append(classes, class)
	}

	r.studentsMu.Lock()
	r.students = students
	r.byStudentID = byStudentID
	r.studentsMu.Unlock()

	r.classesMu.Lock()
	r.classes = classes
	r.classesMu.Unlock()

	r.logger.Info("roster hydrated",
		zap.Int("students", len(students)),
		zap.Int("classes", len(classes)))
	return nil
}

// AddStudent validates, persists and registers a new student. Name and
// student id are trimmed; both must be non-empty and the student id
// unique within the roster.
func (r *Roster) AddStudent(ctx context.Context, name, studentID string) (models.Student, error) {
	name = strings.TrimSpace(name)
	studentID = strings.TrimSpace(studentID)
	if name == "" {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "student name is required")
	}
	if studentID == "" {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	// The lock is held across the save so concurrent writes to the
	// student collection are serialized and the uniqueness check stays
	// valid until the new student is registered.
	r.studentsMu.Lock()
	defer r.studentsMu.Unlock()

	if _, exists := r.byStudentID[studentID]; exists {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("student id %q already exists", studentID))
	}

	doc := syncstore.StudentDocument{Name: name, StudentID: studentID}
	id, err := r.adapter.SaveRecord(ctx, syncstore.CollectionStudents, doc)
	if err != nil {
		return models.Student{}, err
	}

	student := models.Student{ID: id, Name: name, StudentID: studentID}
	r.students = append(r.students, student)
	r.byStudentID[studentID] = struct{}{}
	return student, nil
}

// CreateClass validates, persists and registers a new class. The member
// list must be non-empty; member ids are deduplicated but deliberately
// not resolved against the student collection (tolerant policy, forward
// references are permitted).
func (r *Roster) CreateClass(ctx context.Context, name string, studentIDs []string) (models.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Class{}, appErrors.Clone(appErrors.ErrValidation, "class name is required")
	}

	members := dedupe(studentIDs)
	if len(members) == 0 {
		return models.Class{}, appErrors.Clone(appErrors.ErrValidation, "a class requires at least one student")
	}

	r.classesMu.Lock()
	defer r.classesMu.Unlock()

	doc := syncstore.ClassDocument{Name: name, Students: members}
	id, err := r.adapter.SaveRecord(ctx, syncstore.CollectionClasses, doc)
	if err != nil {
		return models.Class{}, err
	}

	class := models.Class{ID: id, Name: name, StudentIDs: members}
	r.classes = append(r.classes, class)
	return copyClass(class), nil
}

// Students returns all students in insertion order.
func (r *Roster) Students() []models.Student {
	r.studentsMu.RLock()
	defer r.studentsMu.RUnlock()
	out := make([]models.Student, len(r.students))
	copy(out, r.students)
	return out
}

// Classes returns all classes in insertion order.
func (r *Roster) Classes() []models.Class {
	r.classesMu.RLock()
	defer r.classesMu.RUnlock()
	out := make([]models.Class, 0, len(r.classes))
	for _, class := range r.classes {
		out = append(out, copyClass(class))
	}
	return out
}

// ClassByID looks up a class by its opaque id.
func (r *Roster) ClassByID(id string) (models.Class, bool) {
	r.classesMu.RLock()
	defer r.classesMu.RUnlock()
	for _, class := range r.classes {
		if class.ID == id {
			return copyClass(class), true
		}
	}
	return models.Class{}, false
}

// ClassRoster resolves a class's members to students, in member order.
// Ids that no longer resolve are silently excluded (MembershipTolerant),
// a student removed after enrollment never fails a read.
func (r *Roster) ClassRoster(classID string) ([]models.Student, error) {
	class, ok := r.ClassByID(classID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %q not found", classID))
	}

	r.studentsMu.RLock()
	defer r.studentsMu.RUnlock()
	byID := make(map[string]models.Student, len(r.students))
	for _, student := range r.students {
		byID[student.ID] = student
	}

	roster := make([]models.Student, 0, len(class.StudentIDs))
	for _, id := range class.StudentIDs {
		if student, ok := byID[id]; ok {
			roster = append(roster, student)
		}
	}
	return roster, nil
}

func copyClass(class models.Class) models.Class {
	members := make([]string, len(class.StudentIDs))
	copy(members, class.StudentIDs)
	class.StudentIDs = members
	return class
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
