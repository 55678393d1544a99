package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-api/internal/models"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
	"github.com/classtrack/classtrack-api/pkg/storage"
)

type summaryFixtureRoster struct {
	students []models.Student
}

func (r *summaryFixtureRoster) Students() []models.Student { return r.students }

type summaryFixtureLedger struct {
	records []models.AttendanceRecord
}

func (l *summaryFixtureLedger) AllRecords() []models.AttendanceRecord { return l.records }

func newSummaryFixture() *SummaryService {
	roster := &summaryFixtureRoster{students: []models.Student{
		{ID: "s2", Name: "Grace Hopper", StudentID: "1003"},
		{ID: "s1", Name: "Ada Lovelace", StudentID: "1001"},
		{ID: "s3", Name: "Ada Lovelace", StudentID: "1002"},
	}}
	ledger := &summaryFixtureLedger{records: []models.AttendanceRecord{
		{ID: "a1", ClassID: "c1", Date: "2024-03-04", Records: map[string]bool{"s1": true, "s2": false}},
		{ID: "a2", ClassID: "c1", Date: "2024-03-05", Records: map[string]bool{"s1": false, "s2": true}},
	}}
	return NewSummaryService(roster, ledger, nil, nil)
}

func TestSummaryServiceOverallSortsByName(t *testing.T) {
	summaries := newSummaryFixture().Overall(context.Background())
	require.Len(t, summaries, 3)

	// Name ascending, ties broken by the external student id.
	assert.Equal(t, "1001", summaries[0].StudentID)
	assert.Equal(t, "1002", summaries[1].StudentID)
	assert.Equal(t, "Grace Hopper", summaries[2].Name)

	assert.Equal(t, 2, summaries[0].TotalDays)
	assert.Equal(t, 1, summaries[0].PresentDays)
	assert.InDelta(t, 50.0, summaries[0].Percentage, 0.0001)

	// No applicable records.
	assert.Equal(t, 0, summaries[1].TotalDays)
	assert.InDelta(t, 0.0, summaries[1].Percentage, 0.0001)
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(newSummaryFixture(), nil, nil, nil)

	result, err := svc.Render(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "attendance-summary.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Student,Student ID,Present Days,Total Days,Percentage", lines[0])
	assert.Equal(t, "Ada Lovelace,1001,1,2,50.00%", lines[1])
	assert.Equal(t, "Grace Hopper,1003,1,2,50.00%", lines[3])
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService(newSummaryFixture(), nil, nil, nil)

	result, err := svc.Render(context.Background(), ExportFormat("PDF"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceRenderUnknownFormat(t *testing.T) {
	svc := NewExportService(newSummaryFixture(), nil, nil, nil)

	_, err := svc.Render(context.Background(), ExportFormat("xlsx"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServicePublishAndFetch(t *testing.T) {
	store, err := storage.NewExportStore(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(newSummaryFixture(), store, storage.NewSigner("secret", time.Hour), nil)

	link, err := svc.Publish(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token)
	assert.True(t, strings.HasSuffix(link.Filename, ".csv"))
	assert.True(t, link.ExpiresAt.After(time.Now()))

	result, err := svc.Fetch(link.Token)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, string(result.Content), "Ada Lovelace,1001")

	_, err = svc.Fetch("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestExportServicePublishRequiresStore(t *testing.T) {
	svc := NewExportService(newSummaryFixture(), nil, nil, nil)

	_, err := svc.Publish(context.Background(), ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
