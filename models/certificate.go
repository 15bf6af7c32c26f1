package models

import (
	"database/sql/driver"
	"time"
)

type RecipientType string

const (
	RecipientCaptain RecipientType = "captain"
	RecipientMember  RecipientType = "member"
)

type CertificateStatus string

const (
	CertificateIssued  CertificateStatus = "issued"
	CertificateSent    CertificateStatus = "sent"
	CertificateRevoked CertificateStatus = "revoked"
)

// CertificateMember is the embedded recipient info for member-type
// certificates; captains are referenced by id instead.
type CertificateMember struct {
	Name   string `json:"name"`
	URN    string `json:"urn"`
	Branch string `json:"branch,omitempty"`
	Year   *int   `json:"year,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

func (m CertificateMember) Value() (driver.Value, error) { return jsonValue(m) }
func (m *CertificateMember) Scan(src interface{}) error  { return jsonScan(src, m) }

// Certificate is a snapshot of sport and position at generation time.
// Issuance is idempotent per (recipientType, captainId, member urn,
// session, sport, position); the unique index is the backstop against
// duplicate generation.
type Certificate struct {
	ID            int                `json:"id" db:"id"`
	RecipientType RecipientType      `json:"recipient_type" db:"recipient_type"`
	CaptainID     int                `json:"captain_id" db:"captain_id"`
	MemberInfo    *CertificateMember `json:"member_info,omitempty" db:"member_info"`
	SessionID     int                `json:"session_id" db:"session_id"`
	Sport         string             `json:"sport" db:"sport"`
	Position      string             `json:"position" db:"position"`
	Status        CertificateStatus  `json:"status" db:"status"`
	IssuedAt      time.Time          `json:"issued_at" db:"issued_at"`

	Captain *Captain `json:"captain,omitempty" db:"-"`
	Session *Session `json:"session,omitempty" db:"-"`
}
