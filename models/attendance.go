package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// AttendanceRecord is one gym/swimming student's mark for one day.
// (student, session, day) is unique; re-marking the same day updates
// the existing row.
type AttendanceRecord struct {
	ID         int              `json:"id" db:"id"`
	StudentID  int              `json:"student_id" db:"student_id"`
	SessionID  int              `json:"session_id" db:"session_id"`
	AttendedOn time.Time        `json:"date" db:"attended_on"`
	Status     AttendanceStatus `json:"status" db:"status"`
	MarkedBy   int              `json:"marked_by" db:"marked_by"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`

	Student *GymSwimmingStudent `json:"student,omitempty" db:"-"`
	Marker  *User               `json:"marked_by_user,omitempty" db:"-"`
	Session *Session            `json:"session,omitempty" db:"-"`
}
