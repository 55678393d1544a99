package models

// DashboardStats is the derived collection-count overview shown on the
// dashboard. Computed fresh on every query, never persisted.
type DashboardStats struct {
	TotalStudents          int `json:"totalStudents"`
	TotalClasses           int `json:"totalClasses"`
	TotalAttendanceRecords int `json:"totalAttendanceRecords"`
}
