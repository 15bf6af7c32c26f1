package models

import "time"

// Session is an academic term bucket ("Apr–Mar 2025"). Nearly all
// student, captain and team data is scoped to one. At most one session
// is active at a time.
type Session struct {
	ID        int       `json:"id" db:"id"`
	Label     string    `json:"session" db:"label"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
