package models

import (
	"database/sql/driver"
	"time"
)

// ApprovalStatus is the per-category review state of a profile section.
type ApprovalStatus string

const (
	StatusNone     ApprovalStatus = "none"
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
)

// PositionPending marks a sport whose final standing has not been
// assigned yet. The other values are "1st", "2nd", "3rd", "participated".
const PositionPending = "pending"

type NotificationType string

const (
	NotificationInfo      NotificationType = "info"
	NotificationApproval  NotificationType = "approval"
	NotificationRejection NotificationType = "rejection"
)

// ProfileStatus gates whether the two field groups are under review.
type ProfileStatus struct {
	Personal ApprovalStatus `json:"personal"`
	Sports   ApprovalStatus `json:"sports"`
}

func (s ProfileStatus) Value() (driver.Value, error) { return jsonValue(s) }
func (s *ProfileStatus) Scan(src interface{}) error  { return jsonScan(src, s) }

// SportDetail tracks the admin approval state of one declared sport.
type SportDetail struct {
	SportID string         `json:"sportId,omitempty"`
	Sport   string         `json:"sport"`
	Status  ApprovalStatus `json:"status"`
}

type SportDetailList []SportDetail

func (l SportDetailList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *SportDetailList) Scan(src interface{}) error  { return jsonScan(src, l) }

// SportPosition tracks the standing achieved in one declared sport.
type SportPosition struct {
	SportID  string `json:"sportId,omitempty"`
	Sport    string `json:"sport"`
	Position string `json:"position"`
}

type SportPositionList []SportPosition

func (l SportPositionList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *SportPositionList) Scan(src interface{}) error  { return jsonScan(src, l) }

type Notification struct {
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

type NotificationList []Notification

func (l NotificationList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *NotificationList) Scan(src interface{}) error  { return jsonScan(src, l) }

type StringList []string

func (l StringList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *StringList) Scan(src interface{}) error  { return jsonScan(src, l) }

// StudentProfile is one student's record within one session.
//
// Sports is the source of truth for which sports the student is in;
// SportsDetails and Positions are derived from it and kept aligned by
// the reconcile package before every persist: exactly one entry per
// unique sport key, same order, no duplicates, no orphans.
type StudentProfile struct {
	ID        int `json:"id" db:"id"`
	UserID    int `json:"user_id" db:"user_id"`
	SessionID int `json:"session_id" db:"session_id"`

	Name    string     `json:"name" db:"name"`
	URN     string     `json:"urn" db:"urn"`
	CRN     string     `json:"crn" db:"crn"`
	Branch  string     `json:"branch" db:"branch"`
	Year    *int       `json:"year" db:"year"`
	DOB     *time.Time `json:"dob" db:"dob"`
	Gender  string     `json:"gender" db:"gender"`
	Contact string     `json:"contact" db:"contact"`
	Address string     `json:"address" db:"address"`

	FatherName           string `json:"father_name" db:"father_name"`
	YearOfPassingMatric  *int   `json:"year_of_passing_matric" db:"year_of_passing_matric"`
	YearOfPassingPlusTwo *int   `json:"year_of_passing_plus_two" db:"year_of_passing_plus_two"`
	FirstAdmissionDate   string `json:"first_admission_date" db:"first_admission_date"` // YYYY-MM
	LastExamName         string `json:"last_exam_name" db:"last_exam_name"`
	LastExamYear         *int   `json:"last_exam_year" db:"last_exam_year"`
	YearsOfParticipation int    `json:"years_of_participation" db:"years_of_participation"`

	InterCollegeGraduateCourse int `json:"inter_college_graduate_course" db:"inter_college_graduate_course"`
	InterCollegePgCourse       int `json:"inter_college_pg_course" db:"inter_college_pg_course"`

	Photo          string `json:"photo" db:"photo"`
	SignaturePhoto string `json:"signature_photo" db:"signature_photo"`

	Sports        StringList        `json:"sports" db:"sports"`
	SportsDetails SportDetailList   `json:"sports_details" db:"sports_details"`
	Positions     SportPositionList `json:"positions" db:"positions"`

	Status        ProfileStatus    `json:"status" db:"status"`
	Notifications NotificationList `json:"notifications" db:"notifications"`

	LockedPersonal bool `json:"locked_personal" db:"locked_personal"`
	LockedSports   bool `json:"locked_sports" db:"locked_sports"`
	IsCloned       bool `json:"is_cloned" db:"is_cloned"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Session *Session `json:"session,omitempty" db:"-"`
	User    *User    `json:"user,omitempty" db:"-"`
}

// HasPendingSport reports whether any declared sport awaits review.
func (p *StudentProfile) HasPendingSport() bool {
	for _, d := range p.SportsDetails {
		if d.Status == StatusPending {
			return true
		}
	}
	return false
}
