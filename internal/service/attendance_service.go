package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

type attendanceLedger interface {
	AppendRecord(ctx context.Context, classID, date string, presence map[string]bool) (models.AttendanceRecord, error)
	RecordsForClass(classID string) []models.AttendanceRecord
	RecordsOn(date string) []models.AttendanceRecord
	RecordsForStudent(studentID string) []models.AttendanceRecord
	AllRecords() []models.AttendanceRecord
}

type attendanceRoster interface {
	ClassByID(id string) (models.Class, bool)
	ClassRoster(classID string) ([]models.Student, error)
}

// MarkAttendanceRequest is the payload for recording one session.
// Present lists the ids of students marked present; everyone else on
// the roster is recorded absent. Date defaults to today.
type MarkAttendanceRequest struct {
	ClassID string   `json:"classId" validate:"required"`
	Date    string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Present []string `json:"present"`
}

// ListAttendanceRequest filters ledger queries. All fields optional.
type ListAttendanceRequest struct {
	ClassID   string `json:"classId"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StudentID string `json:"studentId"`
}

// AttendanceService coordinates marking sessions and ledger queries.
type AttendanceService struct {
	ledger    attendanceLedger
	roster    attendanceRoster
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(ledger attendanceLedger, roster attendanceRoster, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{ledger: ledger, roster: roster, validator: validate, logger: logger, now: time.Now}
}

// Mark runs one marking session to completion: select the class,
// default everyone absent, flag the listed students present, save.
// Ids in Present that are not on the resolved roster are silently
// ignored, matching the opt-in marking UI.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.AttendanceRecord{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	class, ok := s.roster.ClassByID(req.ClassID)
	if !ok {
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	roster, err := s.roster.ClassRoster(req.ClassID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}

	session := NewMarkingSession()
	if err := session.SelectClass(class, roster); err != nil {
		return models.AttendanceRecord{}, err
	}
	for _, id := range req.Present {
		session.SetPresence(id, true)
	}

	date := req.Date
	if date == "" {
		date = s.now().UTC().Format(models.DateLayout)
	}

	record, err := session.Save(ctx, s.ledger, date)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	s.logger.Info("attendance recorded",
		zap.String("record_id", record.ID),
		zap.String("class_id", record.ClassID),
		zap.String("date", record.Date),
		zap.Int("students", len(record.Records)))
	return record, nil
}

// List queries the ledger, intersecting whichever filters are set.
func (s *AttendanceService) List(ctx context.Context, req ListAttendanceRequest) ([]models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance filter")
	}

	var records []models.AttendanceRecord
	switch {
	case req.ClassID != "":
		if _, ok := s.roster.ClassByID(req.ClassID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		records = s.ledger.RecordsForClass(req.ClassID)
	case req.StudentID != "":
		records = s.ledger.RecordsForStudent(req.StudentID)
	case req.Date != "":
		records = s.ledger.RecordsOn(req.Date)
	default:
		records = s.ledger.AllRecords()
	}

	out := records[:0]
	for _, record := range records {
		if req.Date != "" && record.Date != req.Date {
			continue
		}
		if req.StudentID != "" {
			if _, ok := record.Records[req.StudentID]; !ok {
				continue
			}
		}
		out = append(out, record)
	}
	return out, nil
}
