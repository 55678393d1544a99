package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack-api/internal/models"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

type rosterStore interface {
	AddStudent(ctx context.Context, name, studentID string) (models.Student, error)
	CreateClass(ctx context.Context, name string, studentIDs []string) (models.Class, error)
	Students() []models.Student
	Classes() []models.Class
	ClassRoster(classID string) ([]models.Student, error)
}

// CreateStudentRequest holds the payload for registering a student.
type CreateStudentRequest struct {
	Name      string `json:"name" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

// CreateClassRequest holds the payload for creating a class.
type CreateClassRequest struct {
	Name       string   `json:"name" validate:"required"`
	StudentIDs []string `json:"studentIds" validate:"required,min=1"`
}

// RosterService handles student and class use-cases.
type RosterService struct {
	store     rosterStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(store rosterStore, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: store, validator: validate, logger: logger}
}

// AddStudent registers a new student.
func (s *RosterService) AddStudent(ctx context.Context, req CreateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.store.AddStudent(ctx, req.Name, req.StudentID)
	if err != nil {
		return models.Student{}, err
	}
	s.logger.Info("student added", zap.String("id", student.ID), zap.String("student_id", student.StudentID))
	return student, nil
}

// CreateClass registers a new class with a fixed member set.
func (s *RosterService) CreateClass(ctx context.Context, req CreateClassRequest) (models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Class{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.store.CreateClass(ctx, req.Name, req.StudentIDs)
	if err != nil {
		return models.Class{}, err
	}
	s.logger.Info("class created", zap.String("id", class.ID), zap.Int("members", len(class.StudentIDs)))
	return class, nil
}

// ListStudents returns all students in insertion order.
func (s *RosterService) ListStudents(ctx context.Context) []models.Student {
	return s.store.Students()
}

// ListClasses returns all classes in insertion order.
func (s *RosterService) ListClasses(ctx context.Context) []models.Class {
	return s.store.Classes()
}

// ClassRoster returns the resolved roster of a class for the marking
// UI. Dangling member ids are excluded.
func (s *RosterService) ClassRoster(ctx context.Context, classID string) ([]models.Student, error) {
	return s.store.ClassRoster(classID)
}
