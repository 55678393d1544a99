package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-api/internal/syncstore"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// failingAdapter rejects every save while serving loads from the
// wrapped adapter. Used to prove memory is never mutated on a failed
// write.
type failingAdapter struct {
	*syncstore.MemoryAdapter
}

func (a *failingAdapter) SaveRecord(ctx context.Context, name syncstore.Collection, record interface{}) (string, error) {
	return "", appErrors.Clone(appErrors.ErrSync, "remote store unavailable")
}

func TestRosterHydrate(t *testing.T) {
	adapter := syncstore.NewMemoryAdapter()
	require.NoError(t, adapter.Seed(syncstore.CollectionStudents, "s1",
		syncstore.StudentDocument{Name: "Ada Lovelace", StudentID: "1001"}))
	require.NoError(t, adapter.Seed(syncstore.CollectionStudents, "s2",
		syncstore.StudentDocument{Name: "Alan Turing", StudentID: "1002"}))
	require.NoError(t, adapter.Seed(syncstore.CollectionClasses, "c1",
		syncstore.ClassDocument{Name: "Math", Students: []string{"s1", "s2"}}))

	roster := NewRoster(adapter, nil)
	require.NoError(t, roster.Hydrate(context.Background()))

	students := roster.Students()
	require.Len(t, students, 2)
	assert.Equal(t, "Ada Lovelace", students[0].Name)
	assert.Equal(t, "s1", students[0].ID)

	classes := roster.Classes()
	require.Len(t, classes, 1)
	assert.Equal(t, "Math", classes[0].Name)
	assert.Equal(t, []string{"s1", "s2"}, classes[0].StudentIDs)
}

func TestRosterHydrateMalformedDocument(t *testing.T) {
	adapter := syncstore.NewMemoryAdapter()
	require.NoError(t, adapter.Seed(syncstore.CollectionStudents, "s1", json.RawMessage(`42`)))

	roster := NewRoster(adapter, nil)
	err := roster.Hydrate(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRosterAddStudent(t *testing.T) {
	adapter := syncstore.NewMemoryAdapter()
	roster := NewRoster(adapter, nil)
	require.NoError(t, roster.Hydrate(context.Background()))

	student, err := roster.AddStudent(context.Background(), "  Ada Lovelace  ", " 1001 ")
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, "Ada Lovelace", student.Name)
	assert.Equal(t, "1001", student.StudentID)

	// Survives a rehydrate, the write went through the adapter.
	fresh := NewRoster(adapter, nil)
	require.NoError(t, fresh.Hydrate(context.Background()))
	require.Len(t, fresh.Students(), 1)
	assert.Equal(t, student, fresh.Students()[0])
}

func TestRosterAddStudentValidation(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	_, err := roster.AddStudent(context.Background(), "   ", "1001")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = roster.AddStudent(context.Background(), "Ada", "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = roster.AddStudent(context.Background(), "Ada", "1001")
	require.NoError(t, err)

	_, err = roster.AddStudent(context.Background(), "Another Ada", "1001")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Len(t, roster.Students(), 1)
}

func TestRosterAddStudentSaveFailureLeavesMemoryUntouched(t *testing.T) {
	roster := NewRoster(&failingAdapter{syncstore.NewMemoryAdapter()}, nil)

	_, err := roster.AddStudent(context.Background(), "Ada", "1001")
	assert.ErrorIs(t, err, appErrors.ErrSync)
	assert.Empty(t, roster.Students())
}

func TestRosterCreateClass(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	class, err := roster.CreateClass(context.Background(), "Math", []string{"s1", "s2", "s1", " "})
	require.NoError(t, err)
	assert.NotEmpty(t, class.ID)
	assert.Equal(t, []string{"s1", "s2"}, class.StudentIDs)

	got, ok := roster.ClassByID(class.ID)
	require.True(t, ok)
	assert.Equal(t, class, got)
}

func TestRosterCreateClassValidation(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	_, err := roster.CreateClass(context.Background(), "", []string{"s1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = roster.CreateClass(context.Background(), "Math", nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = roster.CreateClass(context.Background(), "Math", []string{"  ", ""})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, roster.Classes())
}

func TestRosterCreateClassAcceptsUnknownMembers(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	// Forward references are allowed, the class is created before the
	// students exist.
	class, err := roster.CreateClass(context.Background(), "Math", []string{"future-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"future-1"}, class.StudentIDs)
}

func TestRosterClassRosterExcludesDanglingMembers(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	ada, err := roster.AddStudent(context.Background(), "Ada", "1001")
	require.NoError(t, err)
	class, err := roster.CreateClass(context.Background(), "Math", []string{ada.ID, "gone"})
	require.NoError(t, err)

	members, err := roster.ClassRoster(class.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, ada, members[0])
}

func TestRosterClassRosterUnknownClass(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	_, err := roster.ClassRoster("nope")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestRosterReadsReturnCopies(t *testing.T) {
	roster := NewRoster(syncstore.NewMemoryAdapter(), nil)

	_, err := roster.CreateClass(context.Background(), "Math", []string{"s1"})
	require.NoError(t, err)

	classes := roster.Classes()
	classes[0].StudentIDs[0] = "mutated"

	assert.Equal(t, []string{"s1"}, roster.Classes()[0].StudentIDs)
}
