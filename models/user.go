package models

import (
	"time"

	"github.com/lib/pq"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleCaptain UserRole = "captain"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ValidRole reports whether r is one of the roles a user may hold.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleCaptain, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record. A user can hold several roles at once
// (a student who also captains a team); the active role lives in the
// signed token, not here.
type User struct {
	ID           int            `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Roles        pq.StringArray `json:"roles" db:"roles"`

	// Admin-assigned captain fields; empty for non-captains.
	CaptainCode     *string `json:"captain_code,omitempty" db:"captain_code"`
	Branch          string  `json:"branch,omitempty" db:"branch"`
	URN             string  `json:"urn,omitempty" db:"urn"`
	Year            *int    `json:"year,omitempty" db:"year"`
	Sport           string  `json:"sport,omitempty" db:"sport"`
	TeamMemberCount int     `json:"team_member_count,omitempty" db:"team_member_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if UserRole(r) == role {
			return true
		}
	}
	return false
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
