package service

import (
	"math"

	"github.com/classtrack/classtrack-api/internal/models"
)

// Summarize computes per-student attendance statistics from roster and
// ledger snapshots. It is pure: identical inputs always produce
// identical output, with no hidden state and no clock.
//
// A record counts toward a student only when the student's id is a key
// of its presence map, meaning the student was enrolled in the class at
// marking time. A student with no applicable records yields zero totals
// and a zero percentage, never a division error.
//
// Output order follows the input student order; callers needing a
// display order sort explicitly.
func Summarize(students []models.Student, records []models.AttendanceRecord) []models.AttendanceSummary {
	summaries := make([]models.AttendanceSummary, 0, len(students))
	for _, student := range students {
		var total, present int
		for _, record := range records {
			flag, ok := record.Records[student.ID]
			if !ok {
				continue
			}
			total++
			if flag {
				present++
			}
		}
		var percentage float64
		if total > 0 {
			percentage = roundPercentage(float64(present) / float64(total) * 100)
		}
		summaries = append(summaries, models.AttendanceSummary{
			Student:     student,
			TotalDays:   total,
			PresentDays: present,
			Percentage:  percentage,
		})
	}
	return summaries
}

// roundPercentage rounds half-up to two decimal places. Percentages are
// never negative so half away from zero is half-up here.
func roundPercentage(v float64) float64 {
	return math.Round(v*100) / 100
}
