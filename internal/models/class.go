package models

// Class represents a named group of students taught together.
// Membership is fixed at creation time; there is no add or remove
// member operation. Member ids may stop resolving to a stored student,
// read paths exclude such ids instead of failing.
type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	StudentIDs []string `json:"studentIds"`
}

// HasMember reports whether the given student id is enrolled in the class.
func (c Class) HasMember(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
