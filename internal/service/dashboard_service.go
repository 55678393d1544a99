package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
)

type dashboardRoster interface {
	Students() []models.Student
	Classes() []models.Class
}

type dashboardLedger interface {
	AllRecords() []models.AttendanceRecord
}

// DashboardService derives the collection-count overview.
type DashboardService struct {
	roster dashboardRoster
	ledger dashboardLedger
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(roster dashboardRoster, ledger dashboardLedger, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{roster: roster, ledger: ledger, logger: logger}
}

// Stats counts the students, classes and attendance records currently
// held, reflecting the collections at query time.
func (s *DashboardService) Stats(ctx context.Context) models.DashboardStats {
	return models.DashboardStats{
		TotalStudents:          len(s.roster.Students()),
		TotalClasses:           len(s.roster.Classes()),
		TotalAttendanceRecords: len(s.ledger.AllRecords()),
	}
}
