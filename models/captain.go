package models

import "time"

// Captain is the admin-created per-session record for a team lead.
// CaptainCode ("CAPT2025-381") links it to the owning User and to the
// team roster, which live in separate rows.
type Captain struct {
	ID          int    `json:"id" db:"id"`
	CaptainCode string `json:"captain_code" db:"captain_code"`
	UserID      int    `json:"user_id" db:"user_id"`
	SessionID   int    `json:"session_id" db:"session_id"`

	Name            string `json:"name" db:"name"`
	Branch          string `json:"branch" db:"branch"`
	URN             string `json:"urn" db:"urn"`
	Year            *int   `json:"year" db:"year"`
	Sport           string `json:"sport" db:"sport"`
	TeamMemberCount int    `json:"team_member_count" db:"team_member_count"`

	// Filled by the captain on first login; wiped on team rejection.
	Email string `json:"email" db:"email"`
	Phone string `json:"phone" db:"phone"`

	Position             string         `json:"position" db:"position"`
	TeamMembers          TeamMemberList `json:"team_members" db:"team_members"`
	CertificateAvailable bool           `json:"certificate_available" db:"certificate_available"`

	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Session *Session `json:"session,omitempty" db:"-"`
}
