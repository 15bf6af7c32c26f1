package models

import "time"

type ActivityAction string

const (
	ActionCreateStudent             ActivityAction = "CREATE_STUDENT"
	ActionCreateCaptain             ActivityAction = "CREATE_CAPTAIN"
	ActionAssignPositionStudent     ActivityAction = "ASSIGN_POSITION_STUDENT"
	ActionAssignPositionCaptainTeam ActivityAction = "ASSIGN_POSITION_CAPTAIN_TEAM"
	ActionApproveCaptain            ActivityAction = "APPROVE_CAPTAIN"
	ActionApproveStudent            ActivityAction = "APPROVE_STUDENT"
	ActionMarkAttendanceGym         ActivityAction = "MARK_ATTENDANCE_GYM"
	ActionMarkAttendanceSwimming    ActivityAction = "MARK_ATTENDANCE_SWIMMING"
	ActionEditCaptain               ActivityAction = "EDIT_CAPTAIN"
	ActionDeleteCaptain             ActivityAction = "DELETE_CAPTAIN"
	ActionEditTeamMember            ActivityAction = "EDIT_TEAM_MEMBER"
	ActionDeleteTeamMember          ActivityAction = "DELETE_TEAM_MEMBER"
	ActionEditStudent               ActivityAction = "EDIT_STUDENT"
	ActionDeleteStudent             ActivityAction = "DELETE_STUDENT"
	ActionSendCertificate           ActivityAction = "SEND_CERTIFICATE"
	ActionSessionCreated            ActivityAction = "SESSION_CREATED"
	ActionSessionDeleted            ActivityAction = "SESSION_DELETED"
	ActionSessionActivated          ActivityAction = "SESSION_ACTIVATED"
	ActionOther                     ActivityAction = "OTHER"
)

// ValidActivityAction reports whether a is a known audit action.
func ValidActivityAction(a ActivityAction) bool {
	switch a {
	case ActionCreateStudent, ActionCreateCaptain, ActionAssignPositionStudent,
		ActionAssignPositionCaptainTeam, ActionApproveCaptain, ActionApproveStudent,
		ActionMarkAttendanceGym, ActionMarkAttendanceSwimming, ActionEditCaptain,
		ActionDeleteCaptain, ActionEditTeamMember, ActionDeleteTeamMember,
		ActionEditStudent, ActionDeleteStudent, ActionSendCertificate,
		ActionSessionCreated, ActionSessionDeleted, ActionSessionActivated,
		ActionOther:
		return true
	}
	return false
}

// Activity is one entry in the admin audit trail.
type Activity struct {
	ID          int            `json:"id" db:"id"`
	AdminID     int            `json:"admin_id" db:"admin_id"`
	Action      ActivityAction `json:"action" db:"action"`
	TargetModel string         `json:"target_model" db:"target_model"`
	TargetID    *int           `json:"target_id,omitempty" db:"target_id"`
	Description string         `json:"description" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`

	Admin *User `json:"admin,omitempty" db:"-"`
}
