package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
)

type summaryRoster interface {
	Students() []models.Student
}

type summaryLedger interface {
	AllRecords() []models.AttendanceRecord
}

// SummaryService derives attendance summaries on demand. Nothing is
// cached or incrementally maintained, every call reflects the ledger at
// query time.
type SummaryService struct {
	roster  summaryRoster
	ledger  summaryLedger
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSummaryService constructs the summary service.
func NewSummaryService(roster summaryRoster, ledger summaryLedger, metrics *MetricsService, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{roster: roster, ledger: ledger, metrics: metrics, logger: logger}
}

// Overall returns one summary per student, sorted by student name for
// stable display (ties broken by external student id).
func (s *SummaryService) Overall(ctx context.Context) []models.AttendanceSummary {
	start := time.Now()
	summaries := Summarize(s.roster.Students(), s.ledger.AllRecords())
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].StudentID < summaries[j].StudentID
	})
	if s.metrics != nil {
		s.metrics.ObserveSummary(time.Since(start))
	}
	return summaries
}
