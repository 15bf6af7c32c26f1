package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidRole           = errors.New("invalid role")
	ErrRoleNotHeld           = errors.New("account does not hold the requested role")
	ErrNothingToClone        = errors.New("no earlier profile found to clone")
	ErrSectionLocked         = errors.New("section is locked while under review or after approval")
	ErrTeamRosterFull        = errors.New("team roster is already full")
	ErrTeamAlreadyReviewed   = errors.New("team has already been reviewed")
	ErrInvalidPosition       = errors.New("invalid position value")
	ErrPositionNotAssigned   = errors.New("position has not been assigned yet")
	ErrInvalidSessionDates   = errors.New("session end month must come after start month")
	ErrUnknownMonth          = errors.New("unknown month name")
	ErrInvalidAttendanceDate = errors.New("attendance date cannot be in the future")
	ErrUnknownFacilitySport  = errors.New("sport must be Gym or Swimming")

	// Conflict errors
	ErrEmailConflict       = errors.New("email address is already in use")
	ErrProfileConflict     = errors.New("profile already exists for this session")
	ErrTeamConflict        = errors.New("team already submitted for this session")
	ErrSessionConflict     = errors.New("session already exists")
	ErrCaptainCodeConflict = errors.New("captain code already exists for this session")
	ErrURNConflict         = errors.New("urn is already enrolled for this sport")

	// Authentication and authorization errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrProfileNotFound     = errors.New("student profile not found")
	ErrCaptainNotFound     = errors.New("captain not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrStudentNotFound     = errors.New("gym/swimming student not found")

	// Session deletion is blocked while profiles, captains or teams
	// still reference the session.
	ErrSessionInUse = errors.New("session still has dependent records")
)
