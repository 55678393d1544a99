package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-api/internal/models"
)

func TestSummarizeTwoDayScenario(t *testing.T) {
	students := []models.Student{
		{ID: "id1", Name: "A", StudentID: "1001"},
		{ID: "id2", Name: "B", StudentID: "1002"},
	}
	records := []models.AttendanceRecord{
		{ID: "r1", ClassID: "c1", Date: "2024-03-04", Records: map[string]bool{"id1": true, "id2": false}},
		{ID: "r2", ClassID: "c1", Date: "2024-03-05", Records: map[string]bool{"id1": true, "id2": true}},
	}

	summaries := Summarize(students, records)
	require.Len(t, summaries, 2)

	assert.Equal(t, 2, summaries[0].TotalDays)
	assert.Equal(t, 2, summaries[0].PresentDays)
	assert.Equal(t, 100.00, summaries[0].Percentage)

	assert.Equal(t, 2, summaries[1].TotalDays)
	assert.Equal(t, 1, summaries[1].PresentDays)
	assert.Equal(t, 50.00, summaries[1].Percentage)
}

func TestSummarizeStudentWithoutRecords(t *testing.T) {
	students := []models.Student{{ID: "id4", Name: "D", StudentID: "1004"}}
	records := []models.AttendanceRecord{
		{ID: "r1", ClassID: "c1", Date: "2024-03-04", Records: map[string]bool{"id1": true}},
	}

	summaries := Summarize(students, records)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].TotalDays)
	assert.Equal(t, 0, summaries[0].PresentDays)
	assert.Equal(t, 0.0, summaries[0].Percentage)
}

func TestSummarizeCountsOnlyApplicableRecords(t *testing.T) {
	// id1 was enrolled for the first record only; the second record's
	// class never had id1 in its presence map, so it must not count.
	students := []models.Student{{ID: "id1", Name: "A", StudentID: "1001"}}
	records := []models.AttendanceRecord{
		{ID: "r1", ClassID: "c1", Date: "2024-03-04", Records: map[string]bool{"id1": false}},
		{ID: "r2", ClassID: "c2", Date: "2024-03-04", Records: map[string]bool{"id9": true}},
	}

	summaries := Summarize(students, records)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].TotalDays)
	assert.Equal(t, 0, summaries[0].PresentDays)
	assert.Equal(t, 0.0, summaries[0].Percentage)
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	students := []models.Student{{ID: "id1", Name: "A", StudentID: "1001"}}
	records := []models.AttendanceRecord{
		{ID: "r1", Date: "2024-03-04", Records: map[string]bool{"id1": true}},
		{ID: "r2", Date: "2024-03-05", Records: map[string]bool{"id1": false}},
		{ID: "r3", Date: "2024-03-06", Records: map[string]bool{"id1": false}},
	}

	summaries := Summarize(students, records)
	require.Len(t, summaries, 1)
	// 1/3 of 100 rounds to 33.33
	assert.Equal(t, 33.33, summaries[0].Percentage)

	records[1].Records["id1"] = true
	summaries = Summarize(students, records)
	// 2/3 of 100 rounds to 66.67
	assert.Equal(t, 66.67, summaries[0].Percentage)
}

func TestSummarizeDeterministic(t *testing.T) {
	students := []models.Student{
		{ID: "id1", Name: "A", StudentID: "1001"},
		{ID: "id2", Name: "B", StudentID: "1002"},
		{ID: "id3", Name: "C", StudentID: "1003"},
	}
	records := []models.AttendanceRecord{
		{ID: "r1", Date: "2024-03-04", Records: map[string]bool{"id1": true, "id2": false}},
		{ID: "r2", Date: "2024-03-05", Records: map[string]bool{"id1": false, "id3": true}},
		{ID: "r3", Date: "2024-03-06", Records: map[string]bool{"id2": true, "id3": true}},
	}

	first := Summarize(students, records)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Summarize(students, records))
	}
}

func TestSummarizeEmptyInputs(t *testing.T) {
	assert.Empty(t, Summarize(nil, nil))

	summaries := Summarize([]models.Student{{ID: "id1", Name: "A", StudentID: "1"}}, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0.0, summaries[0].Percentage)
}
