package models

import (
	"database/sql/driver"
	"time"
)

type TeamStatus string

const (
	TeamPending  TeamStatus = "pending"
	TeamApproved TeamStatus = "approved"
	TeamRejected TeamStatus = "rejected"
)

// TeamMember is an embedded roster entry. Members have no account of
// their own; everything about them lives on the team row.
type TeamMember struct {
	Name     string `json:"name"`
	URN      string `json:"urn,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Year     *int   `json:"year,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Sport    string `json:"sport,omitempty"`
	Position string `json:"position,omitempty"`
}

type TeamMemberList []TeamMember

func (l TeamMemberList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *TeamMemberList) Scan(src interface{}) error  { return jsonScan(src, l) }

// Team is the captain-submitted roster for one session. One team per
// captain per session, enforced by a unique index.
type Team struct {
	ID          int    `json:"id" db:"id"`
	CaptainCode string `json:"captain_code" db:"captain_code"`
	SessionID   int    `json:"session_id" db:"session_id"`

	Members  TeamMemberList `json:"members" db:"members"`
	Position string         `json:"position" db:"position"`
	Status   TeamStatus     `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Session *Session `json:"session,omitempty" db:"-"`
}
