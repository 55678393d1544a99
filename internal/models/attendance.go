package models

// DateLayout is the calendar date format attendance records are keyed by.
// Records carry no time component.
const DateLayout = "2006-01-02"

// AttendanceRecord is one immutable per-session attendance document.
// The presence map covers exactly the students enrolled in the class at
// marking time. Records are append-only: marking the same class twice on
// one date produces two records.
type AttendanceRecord struct {
	ID      string          `json:"id"`
	ClassID string          `json:"classId"`
	Date    string          `json:"date"`
	Records map[string]bool `json:"records"`
}

// AttendanceSummary is the derived per-student statistic. It is computed
// fresh from the roster and ledger on every query and never persisted.
type AttendanceSummary struct {
	Student
	TotalDays   int     `json:"totalDays"`
	PresentDays int     `json:"presentDays"`
	Percentage  float64 `json:"percentage"`
}
