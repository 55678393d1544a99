package service

import (
	"context"
	"fmt"

	"github.com/classtrack/classtrack-api/internal/models"
	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
)

// SessionState tracks the marking-session state machine:
// NoClassSelected -> ClassSelected -> Saved (terminal).
type SessionState int

const (
	SessionNoClassSelected SessionState = iota
	SessionClassSelected
	SessionSaved
)

// attendanceAppender is the slice of the ledger a session needs to save.
type attendanceAppender interface {
	AppendRecord(ctx context.Context, classID, date string, presence map[string]bool) (models.AttendanceRecord, error)
}

// MarkingSession is one in-progress act of recording presence for a
// class, prior to being saved as an immutable attendance record. It is
// an explicit object handed between the marking flow and the ledger,
// not ambient state.
type MarkingSession struct {
	state    SessionState
	class    models.Class
	roster   []models.Student
	presence map[string]bool
}

// NewMarkingSession starts a session with no class selected.
func NewMarkingSession() *MarkingSession {
	return &MarkingSession{state: SessionNoClassSelected}
}

// State returns the current session state.
func (s *MarkingSession) State() SessionState {
	return s.state
}

// SelectClass loads the class's resolved roster and defaults every
// member to absent. Marking is opt-in-present.
func (s *MarkingSession) SelectClass(class models.Class, roster []models.Student) error {
	if s.state == SessionSaved {
		return appErrors.Clone(appErrors.ErrValidation, "session already saved")
	}
	s.class = class
	s.roster = roster
	s.presence = make(map[string]bool, len(roster))
	for _, student := range roster {
		s.presence[student.ID] = false
	}
	s.state = SessionClassSelected
	return nil
}

// SetPresence records a presence flag for a roster member. Ids outside
// the session roster are silently ignored.
func (s *MarkingSession) SetPresence(studentID string, present bool) {
	if s.state != SessionClassSelected {
		return
	}
	if _, ok := s.presence[studentID]; !ok {
		return
	}
	s.presence[studentID] = present
}

// TogglePresence flips a roster member's presence flag. Toggling twice
// restores the original value.
func (s *MarkingSession) TogglePresence(studentID string) {
	if s.state != SessionClassSelected {
		return
	}
	if current, ok := s.presence[studentID]; ok {
		s.presence[studentID] = !current
	}
}

// Presence returns a copy of the session's presence map.
func (s *MarkingSession) Presence() map[string]bool {
	out := make(map[string]bool, len(s.presence))
	for id, present := range s.presence {
		out[id] = present
	}
	return out
}

// Save appends the accumulated presence map as one attendance record.
// All-or-nothing: on failure the session stays in ClassSelected so the
// caller can retry, on success the session is terminal.
func (s *MarkingSession) Save(ctx context.Context, ledger attendanceAppender, date string) (models.AttendanceRecord, error) {
	switch s.state {
	case SessionNoClassSelected:
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrValidation, "no class selected")
	case SessionSaved:
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("attendance for class %q already saved", s.class.ID))
	}

	record, err := ledger.AppendRecord(ctx, s.class.ID, date, s.Presence())
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	s.state = SessionSaved
	return record, nil
}
