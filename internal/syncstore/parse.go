package syncstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/classtrack/classtrack-api/internal/models"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// Document shapes as stored remotely. The class document keeps the
// historical field name "students" for its member id list so existing
// collections round-trip unchanged.

// StudentDocument is the wire shape of a student.
type StudentDocument struct {
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
}

// ClassDocument is the wire shape of a class.
type ClassDocument struct {
	Name     string   `json:"name"`
	Students []string `json:"students"`
}

// AttendanceDocument is the wire shape of an attendance record.
type AttendanceDocument struct {
	ClassID string          `json:"classId"`
	Date    string          `json:"date"`
	Records map[string]bool `json:"records"`
}

// UserDocument is the wire shape of a teacher account.
type UserDocument struct {
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"passwordHash"`
	Active       bool   `json:"active"`
}

// ParseStudent validates and types one raw student document.
func ParseStudent(raw RawRecord) (models.Student, error) {
	var doc StudentDocument
	if err := decode(raw, CollectionStudents, &doc); err != nil {
		return models.Student{}, err
	}
	if strings.TrimSpace(doc.Name) == "" {
		return models.Student{}, malformed(CollectionStudents, raw.ID, "missing name")
	}
	if strings.TrimSpace(doc.StudentID) == "" {
		return models.Student{}, malformed(CollectionStudents, raw.ID, "missing studentId")
	}
	return models.Student{ID: raw.ID, Name: doc.Name, StudentID: doc.StudentID}, nil
}

// ParseClass validates and types one raw class document. Member ids are
// not resolved against the student collection here, dangling ids are
// tolerated on read paths.
func ParseClass(raw RawRecord) (models.Class, error) {
	var doc ClassDocument
	if err := decode(raw, CollectionClasses, &doc); err != nil {
		return models.Class{}, err
	}
	if strings.TrimSpace(doc.Name) == "" {
		return models.Class{}, malformed(CollectionClasses, raw.ID, "missing name")
	}
	return models.Class{ID: raw.ID, Name: doc.Name, StudentIDs: doc.Students}, nil
}

// ParseAttendance validates and types one raw attendance document.
func ParseAttendance(raw RawRecord) (models.AttendanceRecord, error) {
	var doc AttendanceDocument
	if err := decode(raw, CollectionAttendance, &doc); err != nil {
		return models.AttendanceRecord{}, err
	}
	if doc.ClassID == "" {
		return models.AttendanceRecord{}, malformed(CollectionAttendance, raw.ID, "missing classId")
	}
	if _, err := time.Parse(models.DateLayout, doc.Date); err != nil {
		return models.AttendanceRecord{}, malformed(CollectionAttendance, raw.ID, "invalid date")
	}
	if doc.Records == nil {
		doc.Records = map[string]bool{}
	}
	return models.AttendanceRecord{ID: raw.ID, ClassID: doc.ClassID, Date: doc.Date, Records: doc.Records}, nil
}

// ParseUser validates and types one raw user document.
func ParseUser(raw RawRecord) (models.User, error) {
	var doc UserDocument
	if err := decode(raw, CollectionUsers, &doc); err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(doc.Email) == "" {
		return models.User{}, malformed(CollectionUsers, raw.ID, "missing email")
	}
	if doc.PasswordHash == "" {
		return models.User{}, malformed(CollectionUsers, raw.ID, "missing password hash")
	}
	return models.User{
		ID:           raw.ID,
		Email:        doc.Email,
		FullName:     doc.FullName,
		PasswordHash: doc.PasswordHash,
		Active:       doc.Active,
	}, nil
}

// decode unmarshals a raw payload. Unknown fields are tolerated so
// documents written by older clients still load.
func decode(raw RawRecord, name Collection, dest interface{}) error {
	if len(raw.Payload) == 0 {
		return malformed(name, raw.ID, "empty payload")
	}
	if err := json.Unmarshal(raw.Payload, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("malformed %s document %q", name, raw.ID))
	}
	return nil
}

func malformed(name Collection, id, reason string) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("malformed %s document %q: %s", name, id, reason))
}
