package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

type ledgerMock struct {
	records  []models.AttendanceRecord
	appended []models.AttendanceRecord
	err      error
}

func (m *ledgerMock) AppendRecord(ctx context.Context, classID, date string, presence map[string]bool) (models.AttendanceRecord, error) {
	if m.err != nil {
		return models.AttendanceRecord{}, m.err
	}
	record := models.AttendanceRecord{ID: "rec-1", ClassID: classID, Date: date, Records: presence}
	m.appended = append(m.appended, record)
	return record, nil
}

func (m *ledgerMock) RecordsForClass(classID string) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	for _, r := range m.records {
		if r.ClassID == classID {
			out = append(out, r)
		}
	}
	return out
}

func (m *ledgerMock) RecordsOn(date string) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	for _, r := range m.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

func (m *ledgerMock) RecordsForStudent(studentID string) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	for _, r := range m.records {
		if _, ok := r.Records[studentID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (m *ledgerMock) AllRecords() []models.AttendanceRecord {
	return m.records
}

type rosterMock struct {
	classes map[string]models.Class
	roster  map[string][]models.Student
}

func (m *rosterMock) ClassByID(id string) (models.Class, bool) {
	class, ok := m.classes[id]
	return class, ok
}

func (m *rosterMock) ClassRoster(classID string) ([]models.Student, error) {
	if _, ok := m.classes[classID]; !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return m.roster[classID], nil
}

func attendanceFixture() (*AttendanceService, *ledgerMock) {
	ledger := &ledgerMock{}
	roster := &rosterMock{
		classes: map[string]models.Class{
			"c1": {ID: "c1", Name: "Math", StudentIDs: []string{"id1", "id2"}},
		},
		roster: map[string][]models.Student{
			"c1": {
				{ID: "id1", Name: "A", StudentID: "1001"},
				{ID: "id2", Name: "B", StudentID: "1002"},
			},
		},
	}
	return NewAttendanceService(ledger, roster, validator.New(), zap.NewNop()), ledger
}

func TestAttendanceServiceMark(t *testing.T) {
	svc, ledger := attendanceFixture()

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		ClassID: "c1",
		Date:    "2024-03-04",
		Present: []string{"id1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", record.Date)
	assert.Equal(t, map[string]bool{"id1": true, "id2": false}, record.Records)
	assert.Len(t, ledger.appended, 1)
}

func TestAttendanceServiceMarkDefaultsToToday(t *testing.T) {
	svc, _ := attendanceFixture()
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC) }

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", record.Date)
}

func TestAttendanceServiceMarkIgnoresNonRosterIDs(t *testing.T) {
	svc, _ := attendanceFixture()

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		ClassID: "c1",
		Date:    "2024-03-04",
		Present: []string{"id1", "ghost"},
	})
	require.NoError(t, err)
	_, ok := record.Records["ghost"]
	assert.False(t, ok)
}

func TestAttendanceServiceMarkUnknownClass(t *testing.T) {
	svc, _ := attendanceFixture()

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{ClassID: "nope", Date: "2024-03-04"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAttendanceServiceMarkInvalidDate(t *testing.T) {
	svc, _ := attendanceFixture()

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{ClassID: "c1", Date: "04-03-2024"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAttendanceServiceList(t *testing.T) {
	svc, ledger := attendanceFixture()
	ledger.records = []models.AttendanceRecord{
		{ID: "r1", ClassID: "c1", Date: "2024-03-04", Records: map[string]bool{"id1": true}},
		{ID: "r2", ClassID: "c1", Date: "2024-03-05", Records: map[string]bool{"id1": false, "id2": true}},
	}

	records, err := svc.List(context.Background(), ListAttendanceRequest{ClassID: "c1"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = svc.List(context.Background(), ListAttendanceRequest{ClassID: "c1", Date: "2024-03-05"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r2", records[0].ID)

	records, err = svc.List(context.Background(), ListAttendanceRequest{StudentID: "id2"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r2", records[0].ID)

	_, err = svc.List(context.Background(), ListAttendanceRequest{ClassID: "missing"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
