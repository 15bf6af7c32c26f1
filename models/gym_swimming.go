package models

import "time"

// Facility sports tracked through attendance rather than teams.
const (
	FacilityGym      = "Gym"
	FacilitySwimming = "Swimming"
)

// GymSwimmingStudent is an admin-enrolled gym or swimming student.
// URN is unique within each sport.
type GymSwimmingStudent struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Branch string `json:"branch" db:"branch"`
	URN    string `json:"urn" db:"urn"`
	CRN    string `json:"crn" db:"crn"`
	Year   int    `json:"year" db:"year"`
	Sport  string `json:"sport" db:"sport"`

	// Optional, filled in later.
	Email string `json:"email,omitempty" db:"email"`
	Phone string `json:"phone,omitempty" db:"phone"`

	SessionID int       `json:"session_id" db:"session_id"`
	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Session *Session `json:"session,omitempty" db:"-"`
	Creator *User    `json:"created_by_user,omitempty" db:"-"`
}
