package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/notify"
	"github.com/harjotgill/sports-office/reconcile"
	"github.com/harjotgill/sports-office/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Review categories accepted by approve/reject.
const (
	ReviewTypePersonal = "personal"
	ReviewTypeSports   = "sports"
)

type AdminService interface {
	// CreateUser dispatches on role: the User row is upserted by email
	// (role set union, optional password rehash) and the role-specific
	// record is created for the session.
	CreateUser(ctx context.Context, adminID int, input CreateUserInput) (*models.User, error)

	ApproveProfile(ctx context.Context, adminID, profileID int, reviewType string) (*models.StudentProfile, error)
	RejectProfile(ctx context.Context, adminID, profileID int, reviewType string) (*models.StudentProfile, error)
	ListPendingProfiles(ctx context.Context, sessionID int) ([]PendingProfile, error)
	AssignStudentPosition(ctx context.Context, adminID, profileID int, sport, position string) (*models.StudentProfile, error)

	ListStudents(ctx context.Context, sessionID int, filter repositories.ProfileFilter) ([]models.StudentProfile, error)
	GetStudent(ctx context.Context, profileID int) (*models.StudentProfile, error)
	UpdateStudent(ctx context.Context, adminID, profileID int, input ProfileInput) (*models.StudentProfile, error)
	DeleteStudent(ctx context.Context, adminID, profileID int) error
	StudentHistory(ctx context.Context, urn string) (*StudentHistory, error)

	ListCaptains(ctx context.Context, sessionID int) ([]models.Captain, error)
	UpdateCaptain(ctx context.Context, adminID, captainID int, input CaptainInput) (*models.Captain, error)
	DeleteCaptain(ctx context.Context, adminID, captainID int) error
}

type CreateUserInput struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`

	SessionID int `json:"session_id"`

	// Captain fields
	Sport           string `json:"sport"`
	Branch          string `json:"branch"`
	URN             string `json:"urn"`
	Year            *int   `json:"year"`
	TeamMemberCount int    `json:"team_member_count"`

	// Student fields
	CRN    string               `json:"crn"`
	Sports []reconcile.SportRef `json:"sports"`
}

type CaptainInput struct {
	Name            string `json:"name"`
	Branch          string `json:"branch"`
	URN             string `json:"urn"`
	Year            *int   `json:"year"`
	Sport           string `json:"sport"`
	TeamMemberCount int    `json:"team_member_count"`
}

type PendingProfile struct {
	Profile         models.StudentProfile `json:"profile"`
	PendingPersonal bool                  `json:"pending_personal"`
	PendingSports   bool                  `json:"pending_sports"`
}

type StudentHistory struct {
	Profiles []models.StudentProfile `json:"profiles"`
	Captains []models.Captain        `json:"captains"`
	Teams    []models.Team           `json:"teams"`
}

type adminService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	captainRepo repositories.CaptainRepository
	teamRepo    repositories.TeamRepository
	sessionRepo repositories.SessionRepository
	activity    ActivityService
	notifier    Notifier
}

func NewAdminService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	captainRepo repositories.CaptainRepository,
	teamRepo repositories.TeamRepository,
	sessionRepo repositories.SessionRepository,
	activity ActivityService,
	notifier Notifier,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		captainRepo: captainRepo,
		teamRepo:    teamRepo,
		sessionRepo: sessionRepo,
		activity:    activity,
		notifier:    notifier,
	}
}

func (s *adminService) CreateUser(ctx context.Context, adminID int, input CreateUserInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" || !models.ValidRole(input.Role) {
		return nil, ErrValidationFailed
	}

	sessionID := input.SessionID
	if input.Role == models.RoleCaptain || input.Role == models.RoleStudent {
		session, err := s.sessionRepo.GetActive(ctx)
		if err != nil && sessionID == 0 {
			if errors.Is(err, repositories.ErrNoActiveSession) {
				return nil, ErrNoActiveSession
			}
			return nil, err
		}
		if sessionID == 0 {
			sessionID = session.ID
		}
	}

	user, err := s.upsertUser(ctx, input)
	if err != nil {
		return nil, err
	}

	switch input.Role {
	case models.RoleCaptain:
		if err := s.createCaptainRecord(ctx, adminID, user, input, sessionID); err != nil {
			return nil, err
		}
	case models.RoleStudent:
		if err := s.upsertStudentProfile(ctx, adminID, user, input, sessionID); err != nil {
			return nil, err
		}
	}

	user.PasswordHash = ""
	return user, nil
}

// upsertUser creates the user or adds the role to an existing account
// with the same email.
func (s *adminService) upsertUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	email := normalizeEmail(input.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.HasRole(input.Role) {
			user.Roles = append(user.Roles, string(input.Role))
		}
		if input.Password != "" {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if hashErr != nil {
				return nil, fmt.Errorf("failed to hash password: %w", hashErr)
			}
			user.PasswordHash = string(hash)
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return user, nil

	case errors.Is(err, repositories.ErrUserNotFound):
		if input.Password == "" {
			return nil, ErrValidationFailed
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user = &models.User{
			Name:         input.Name,
			Email:        email,
			PasswordHash: string(hash),
			Roles:        []string{string(input.Role)},
			Branch:       input.Branch,
			URN:          input.URN,
			Year:         input.Year,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrUserEmailConflict) {
				return nil, ErrEmailConflict
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil

	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
}

func (s *adminService) createCaptainRecord(ctx context.Context, adminID int, user *models.User, input CreateUserInput, sessionID int) error {
	if input.Sport == "" || input.TeamMemberCount <= 0 {
		return ErrValidationFailed
	}

	captain := &models.Captain{
		UserID:          user.ID,
		SessionID:       sessionID,
		Name:            input.Name,
		Branch:          input.Branch,
		URN:             input.URN,
		Year:            input.Year,
		Sport:           input.Sport,
		TeamMemberCount: input.TeamMemberCount,
		Position:        models.PositionPending,
		TeamMembers:     models.TeamMemberList{},
		CreatedBy:       adminID,
	}

	// Retry on the rare code collision within a session.
	for attempt := 0; attempt < 5; attempt++ {
		captain.CaptainCode = generateCaptainCode(time.Now())
		err := s.captainRepo.Create(ctx, captain)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrCaptainCodeConflict) {
			if attempt == 4 {
				return ErrCaptainCodeConflict
			}
			continue
		}
		return fmt.Errorf("failed to create captain record: %w", err)
	}

	user.CaptainCode = &captain.CaptainCode
	user.Sport = captain.Sport
	user.TeamMemberCount = captain.TeamMemberCount
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store captain code on user: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionCreateCaptain, "Captain", &captain.ID,
		fmt.Sprintf("Created captain %s (%s) for %s", captain.Name, captain.CaptainCode, captain.Sport))
	return nil
}

func (s *adminService) upsertStudentProfile(ctx context.Context, adminID int, user *models.User, input CreateUserInput, sessionID int) error {
	profile, err := s.profileRepo.GetByUserAndSession(ctx, user.ID, sessionID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		profile = &models.StudentProfile{
			UserID:        user.ID,
			SessionID:     sessionID,
			Name:          input.Name,
			URN:           input.URN,
			CRN:           input.CRN,
			Branch:        input.Branch,
			Year:          input.Year,
			Sports:        models.StringList{},
			SportsDetails: models.SportDetailList{},
			Positions:     models.SportPositionList{},
			Status:        models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone},
			Notifications: models.NotificationList{},
		}
		profile.Sports, profile.SportsDetails, profile.Positions =
			reconcile.Apply(input.Sports, nil, nil)

		if createErr := s.profileRepo.Create(ctx, profile); createErr != nil {
			if errors.Is(createErr, repositories.ErrProfileExists) {
				return ErrProfileConflict
			}
			return fmt.Errorf("failed to create student profile: %w", createErr)
		}
		s.activity.Log(ctx, adminID, models.ActionCreateStudent, "StudentProfile", &profile.ID,
			fmt.Sprintf("Created student %s (%s)", profile.Name, profile.URN))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up student profile: %w", err)
	}

	// Existing profile: merge the declared sports, keep statuses.
	if input.URN != "" {
		profile.URN = input.URN
	}
	if input.CRN != "" {
		profile.CRN = input.CRN
	}
	if input.Branch != "" {
		profile.Branch = input.Branch
	}
	if input.Year != nil {
		profile.Year = input.Year
	}
	merged := append(reconcile.FromNames(profile.Sports), input.Sports...)
	profile.Sports, profile.SportsDetails, profile.Positions =
		reconcile.Apply(merged, profile.SportsDetails, profile.Positions)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	s.activity.Log(ctx, adminID, models.ActionEditStudent, "StudentProfile", &profile.ID,
		fmt.Sprintf("Updated student %s (%s)", profile.Name, profile.URN))
	return nil
}

func (s *adminService) ApproveProfile(ctx context.Context, adminID, profileID int, reviewType string) (*models.StudentProfile, error) {
	profile, err := s.GetStudent(ctx, profileID)
	if err != nil {
		return nil, err
	}

	// A decision on a category with nothing pending is a no-op; the
	// unchanged profile is returned rather than an error.
	switch reviewType {
	case ReviewTypePersonal:
		if profile.Status.Personal != models.StatusPending {
			return profile, nil
		}
		profile.Status.Personal = models.StatusApproved
	case ReviewTypeSports:
		if profile.Status.Sports != models.StatusPending {
			return profile, nil
		}
		profile.Status.Sports = models.StatusApproved
		for i := range profile.SportsDetails {
			if profile.SportsDetails[i].Status == models.StatusPending {
				profile.SportsDetails[i].Status = models.StatusApproved
			}
		}
	default:
		return nil, ErrValidationFailed
	}

	message := fmt.Sprintf("Your %s details have been approved.", reviewType)
	appendNotification(profile, models.NotificationApproval, message)

	reconcile.Sync(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to approve profile: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionApproveStudent, "StudentProfile", &profile.ID,
		fmt.Sprintf("Approved %s details of %s", reviewType, profile.Name))
	s.notifier.Publish(profile.UserID, notify.EventProfileApproved, map[string]interface{}{
		"profile_id": profile.ID,
		"type":       reviewType,
		"message":    message,
	})
	return profile, nil
}

// RejectProfile sends a pending category back to none. The personal
// lock is intentionally left in place; the sports lock opens so the
// student can revise and resubmit.
func (s *adminService) RejectProfile(ctx context.Context, adminID, profileID int, reviewType string) (*models.StudentProfile, error) {
	profile, err := s.GetStudent(ctx, profileID)
	if err != nil {
		return nil, err
	}

	switch reviewType {
	case ReviewTypePersonal:
		if profile.Status.Personal != models.StatusPending {
			return profile, nil
		}
		profile.Status.Personal = models.StatusNone
	case ReviewTypeSports:
		if profile.Status.Sports != models.StatusPending {
			return profile, nil
		}
		profile.Status.Sports = models.StatusNone
		for i := range profile.SportsDetails {
			if profile.SportsDetails[i].Status == models.StatusPending {
				profile.SportsDetails[i].Status = models.StatusNone
			}
		}
		profile.LockedSports = false
	default:
		return nil, ErrValidationFailed
	}

	message := fmt.Sprintf("Your %s details have been rejected. Please review and resubmit.", reviewType)
	appendNotification(profile, models.NotificationRejection, message)

	reconcile.Sync(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to reject profile: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionApproveStudent, "StudentProfile", &profile.ID,
		fmt.Sprintf("Rejected %s details of %s", reviewType, profile.Name))
	s.notifier.Publish(profile.UserID, notify.EventProfileRejected, map[string]interface{}{
		"profile_id": profile.ID,
		"type":       reviewType,
		"message":    message,
	})
	return profile, nil
}

func (s *adminService) ListPendingProfiles(ctx context.Context, sessionID int) ([]PendingProfile, error) {
	profiles, err := s.profileRepo.ListBySession(ctx, sessionID, repositories.ProfileFilter{PendingOnly: true})
	if err != nil {
		return nil, err
	}

	pending := make([]PendingProfile, 0, len(profiles))
	for _, p := range profiles {
		pending = append(pending, PendingProfile{
			Profile:         p,
			PendingPersonal: p.Status.Personal == models.StatusPending,
			PendingSports:   p.Status.Sports == models.StatusPending || p.HasPendingSport(),
		})
	}
	return pending, nil
}

func (s *adminService) AssignStudentPosition(ctx context.Context, adminID, profileID int, sport, position string) (*models.StudentProfile, error) {
	if !validAssignablePosition(position) {
		return nil, ErrInvalidPosition
	}

	profile, err := s.GetStudent(ctx, profileID)
	if err != nil {
		return nil, err
	}

	matched := false
	key := reconcile.DeriveKey(sport)
	for i := range profile.Positions {
		if profile.Positions[i].SportID == key ||
			strings.EqualFold(profile.Positions[i].Sport, sport) {
			profile.Positions[i].Position = position
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrNotFound
	}

	reconcile.Sync(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to assign position: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionAssignPositionStudent, "StudentProfile", &profile.ID,
		fmt.Sprintf("Assigned position %q in %s to %s", position, sport, profile.Name))
	return profile, nil
}

func (s *adminService) ListStudents(ctx context.Context, sessionID int, filter repositories.ProfileFilter) ([]models.StudentProfile, error) {
	return s.profileRepo.ListBySession(ctx, sessionID, filter)
}

func (s *adminService) GetStudent(ctx context.Context, profileID int) (*models.StudentProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateStudent is the admin edit path; it bypasses the student-facing
// section locks.
func (s *adminService) UpdateStudent(ctx context.Context, adminID, profileID int, input ProfileInput) (*models.StudentProfile, error) {
	profile, err := s.GetStudent(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := applyPersonal(profile, input); err != nil {
		return nil, err
	}
	if input.Sports != nil {
		profile.Sports, profile.SportsDetails, profile.Positions =
			reconcile.Apply(input.Sports, profile.SportsDetails, profile.Positions)
	} else {
		reconcile.Sync(profile)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionEditStudent, "StudentProfile", &profile.ID,
		fmt.Sprintf("Edited student %s (%s)", profile.Name, profile.URN))
	return profile, nil
}

func (s *adminService) DeleteStudent(ctx context.Context, adminID, profileID int) error {
	profile, err := s.GetStudent(ctx, profileID)
	if err != nil {
		return err
	}

	if err := s.profileRepo.Delete(ctx, profileID); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionDeleteStudent, "StudentProfile", &profileID,
		fmt.Sprintf("Deleted student %s (%s)", profile.Name, profile.URN))
	return nil
}

func (s *adminService) StudentHistory(ctx context.Context, urn string) (*StudentHistory, error) {
	if urn == "" {
		return nil, ErrValidationFailed
	}

	profiles, err := s.profileRepo.ListByURN(ctx, urn)
	if err != nil {
		return nil, err
	}
	captains, err := s.captainRepo.ListByURN(ctx, urn)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByMemberURN(ctx, urn)
	if err != nil {
		return nil, err
	}

	if len(profiles) == 0 && len(captains) == 0 && len(teams) == 0 {
		return nil, ErrNotFound
	}

	return &StudentHistory{
		Profiles: profiles,
		Captains: captains,
		Teams:    teams,
	}, nil
}

func (s *adminService) ListCaptains(ctx context.Context, sessionID int) ([]models.Captain, error) {
	return s.captainRepo.ListBySession(ctx, sessionID)
}

func (s *adminService) UpdateCaptain(ctx context.Context, adminID, captainID int, input CaptainInput) (*models.Captain, error) {
	captain, err := s.captainRepo.GetByID(ctx, captainID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return nil, ErrCaptainNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		captain.Name = input.Name
	}
	if input.Branch != "" {
		captain.Branch = input.Branch
	}
	if input.URN != "" {
		captain.URN = input.URN
	}
	if input.Year != nil {
		captain.Year = input.Year
	}
	if input.Sport != "" {
		captain.Sport = input.Sport
	}
	if input.TeamMemberCount > 0 {
		captain.TeamMemberCount = input.TeamMemberCount
	}

	if err := s.captainRepo.Update(ctx, captain); err != nil {
		return nil, fmt.Errorf("failed to update captain: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionEditCaptain, "Captain", &captain.ID,
		fmt.Sprintf("Edited captain %s (%s)", captain.Name, captain.CaptainCode))
	return captain, nil
}

// DeleteCaptain cascades: the session's team goes with the captain, and
// the captain role is detached from the owning user. The user row is
// removed outright when captain was its only role.
func (s *adminService) DeleteCaptain(ctx context.Context, adminID, captainID int) error {
	captain, err := s.captainRepo.GetByID(ctx, captainID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return ErrCaptainNotFound
		}
		return err
	}

	if err := s.teamRepo.DeleteByCaptainCode(ctx, captain.CaptainCode, captain.SessionID); err != nil {
		return fmt.Errorf("failed to delete captain's team: %w", err)
	}
	if err := s.captainRepo.Delete(ctx, captainID); err != nil {
		return fmt.Errorf("failed to delete captain: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, captain.UserID)
	if err == nil {
		remaining := make([]string, 0, len(user.Roles))
		for _, role := range user.Roles {
			if role != string(models.RoleCaptain) {
				remaining = append(remaining, role)
			}
		}
		if len(remaining) == 0 {
			if err := s.userRepo.Delete(ctx, user.ID); err != nil {
				return fmt.Errorf("failed to delete captain user: %w", err)
			}
		} else {
			user.Roles = remaining
			user.CaptainCode = nil
			if err := s.userRepo.Update(ctx, user); err != nil {
				return fmt.Errorf("failed to detach captain role: %w", err)
			}
		}
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	s.activity.Log(ctx, adminID, models.ActionDeleteCaptain, "Captain", &captainID,
		fmt.Sprintf("Deleted captain %s (%s)", captain.Name, captain.CaptainCode))
	return nil
}
