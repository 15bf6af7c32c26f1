package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/notify"
	"github.com/harjotgill/sports-office/repositories"
)

type TeamService interface {
	// Captain side
	GetMyCaptain(ctx context.Context, userID, sessionID int) (*models.Captain, error)
	CompleteCaptainProfile(ctx context.Context, userID, sessionID int, email, phone string) (*models.Captain, error)
	SubmitTeam(ctx context.Context, userID, sessionID int, members []models.TeamMember) (*models.Team, error)
	AddMember(ctx context.Context, userID, sessionID int, member models.TeamMember) (*models.Team, error)
	GetMyTeam(ctx context.Context, userID, sessionID int) (*models.Team, error)

	// Admin side
	ListTeams(ctx context.Context, sessionID int, pendingOnly bool) ([]models.Team, error)
	ApproveTeam(ctx context.Context, adminID, teamID int) (*models.Team, error)
	RejectTeam(ctx context.Context, adminID, teamID int) (*models.Team, error)
	AssignTeamPosition(ctx context.Context, adminID, teamID int, position string) (*models.Team, error)
	UpdateMember(ctx context.Context, adminID, teamID, index int, member models.TeamMember) (*models.Team, error)
	RemoveMember(ctx context.Context, adminID, teamID, index int) (*models.Team, error)
}

type teamService struct {
	teamRepo    repositories.TeamRepository
	captainRepo repositories.CaptainRepository
	activity    ActivityService
	notifier    Notifier
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	captainRepo repositories.CaptainRepository,
	activity ActivityService,
	notifier Notifier,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		captainRepo: captainRepo,
		activity:    activity,
		notifier:    notifier,
	}
}

func (s *teamService) GetMyCaptain(ctx context.Context, userID, sessionID int) (*models.Captain, error) {
	captain, err := s.captainRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return nil, ErrCaptainNotFound
		}
		return nil, err
	}
	return captain, nil
}

// CompleteCaptainProfile fills the contact fields the admin left blank.
// The admin-assigned fields (sport, urn, roster cap) stay read-only.
func (s *teamService) CompleteCaptainProfile(ctx context.Context, userID, sessionID int, email, phone string) (*models.Captain, error) {
	if phone == "" {
		return nil, ErrValidationFailed
	}

	captain, err := s.GetMyCaptain(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if email != "" {
		captain.Email = normalizeEmail(email)
	}
	captain.Phone = phone

	if err := s.captainRepo.Update(ctx, captain); err != nil {
		return nil, fmt.Errorf("failed to update captain profile: %w", err)
	}
	return captain, nil
}

func captainProfileComplete(c *models.Captain) bool {
	return c.Phone != ""
}

func (s *teamService) SubmitTeam(ctx context.Context, userID, sessionID int, members []models.TeamMember) (*models.Team, error) {
	captain, err := s.GetMyCaptain(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !captainProfileComplete(captain) {
		return nil, ErrForbiddenOperation
	}
	if len(members) > captain.TeamMemberCount {
		return nil, ErrTeamRosterFull
	}
	for i := range members {
		if members[i].Name == "" || members[i].Email == "" {
			return nil, ErrValidationFailed
		}
		if members[i].Sport == "" {
			members[i].Sport = captain.Sport
		}
	}

	team, err := s.teamRepo.GetByCaptainCode(ctx, captain.CaptainCode, sessionID)
	switch {
	case err == nil:
		team.Members = members
		team.Status = models.TeamPending
		if err := s.teamRepo.Update(ctx, team); err != nil {
			return nil, fmt.Errorf("failed to resubmit team: %w", err)
		}
	case errors.Is(err, repositories.ErrTeamNotFound):
		team = &models.Team{
			CaptainCode: captain.CaptainCode,
			SessionID:   sessionID,
			Members:     members,
			Position:    models.PositionPending,
			Status:      models.TeamPending,
		}
		if err := s.teamRepo.Create(ctx, team); err != nil {
			if errors.Is(err, repositories.ErrTeamExists) {
				return nil, ErrTeamConflict
			}
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
	default:
		return nil, err
	}

	captain.TeamMembers = members
	if err := s.captainRepo.Update(ctx, captain); err != nil {
		return nil, fmt.Errorf("failed to mirror roster onto captain: %w", err)
	}
	return team, nil
}

func (s *teamService) AddMember(ctx context.Context, userID, sessionID int, member models.TeamMember) (*models.Team, error) {
	if member.Name == "" || member.Email == "" {
		return nil, ErrValidationFailed
	}

	captain, err := s.GetMyCaptain(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !captainProfileComplete(captain) {
		return nil, ErrForbiddenOperation
	}

	team, err := s.teamRepo.GetByCaptainCode(ctx, captain.CaptainCode, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if len(team.Members) >= captain.TeamMemberCount {
		return nil, ErrTeamRosterFull
	}
	if member.Sport == "" {
		member.Sport = captain.Sport
	}

	team.Members = append(team.Members, member)
	team.Status = models.TeamPending
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	captain.TeamMembers = team.Members
	if err := s.captainRepo.Update(ctx, captain); err != nil {
		return nil, fmt.Errorf("failed to mirror roster onto captain: %w", err)
	}
	return team, nil
}

func (s *teamService) GetMyTeam(ctx context.Context, userID, sessionID int) (*models.Team, error) {
	captain, err := s.GetMyCaptain(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByCaptainCode(ctx, captain.CaptainCode, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, sessionID int, pendingOnly bool) ([]models.Team, error) {
	if pendingOnly {
		return s.teamRepo.ListPendingBySession(ctx, sessionID)
	}
	return s.teamRepo.ListBySession(ctx, sessionID)
}

func (s *teamService) ApproveTeam(ctx context.Context, adminID, teamID int) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.Status != models.TeamPending {
		return nil, ErrTeamAlreadyReviewed
	}

	team.Status = models.TeamApproved
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to approve team: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionApproveCaptain, "Team", &team.ID,
		fmt.Sprintf("Approved team %s", team.CaptainCode))
	s.notifyCaptain(ctx, team, notify.EventTeamApproved, "Your team has been approved.")
	return team, nil
}

// RejectTeam is destructive by design: the submitted roster is wiped on
// both the team row and the paired captain record, and the team must be
// resubmitted from scratch.
func (s *teamService) RejectTeam(ctx context.Context, adminID, teamID int) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.Status != models.TeamPending {
		return nil, ErrTeamAlreadyReviewed
	}

	s.notifyCaptain(ctx, team, notify.EventTeamRejected, "Your team has been rejected. Please resubmit your roster.")

	team.Members = models.TeamMemberList{}
	team.Position = models.PositionPending
	team.Status = models.TeamPending
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to reject team: %w", err)
	}

	captain, err := s.captainRepo.GetByCode(ctx, team.CaptainCode, team.SessionID)
	if err == nil {
		captain.Email = ""
		captain.Phone = ""
		captain.Position = models.PositionPending
		captain.TeamMembers = models.TeamMemberList{}
		captain.CertificateAvailable = false
		if err := s.captainRepo.Update(ctx, captain); err != nil {
			return nil, fmt.Errorf("failed to reset captain after rejection: %w", err)
		}
	} else if !errors.Is(err, repositories.ErrCaptainNotFound) {
		return nil, err
	}

	s.activity.Log(ctx, adminID, models.ActionApproveCaptain, "Team", &team.ID,
		fmt.Sprintf("Rejected team %s", team.CaptainCode))
	return team, nil
}

func (s *teamService) AssignTeamPosition(ctx context.Context, adminID, teamID int, position string) (*models.Team, error) {
	if !validAssignablePosition(position) {
		return nil, ErrInvalidPosition
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	team.Position = position
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to assign team position: %w", err)
	}

	captain, err := s.captainRepo.GetByCode(ctx, team.CaptainCode, team.SessionID)
	if err == nil {
		captain.Position = position
		if err := s.captainRepo.Update(ctx, captain); err != nil {
			return nil, fmt.Errorf("failed to mirror position onto captain: %w", err)
		}
	} else if !errors.Is(err, repositories.ErrCaptainNotFound) {
		return nil, err
	}

	s.activity.Log(ctx, adminID, models.ActionAssignPositionCaptainTeam, "Team", &team.ID,
		fmt.Sprintf("Assigned position %q to team %s", position, team.CaptainCode))
	return team, nil
}

func (s *teamService) UpdateMember(ctx context.Context, adminID, teamID, index int, member models.TeamMember) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(team.Members) {
		return nil, ErrValidationFailed
	}

	team.Members[index] = member
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}
	s.syncCaptainRoster(ctx, team)

	s.activity.Log(ctx, adminID, models.ActionEditTeamMember, "Team", &team.ID,
		fmt.Sprintf("Edited member %d of team %s", index, team.CaptainCode))
	return team, nil
}

func (s *teamService) RemoveMember(ctx context.Context, adminID, teamID, index int) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(team.Members) {
		return nil, ErrValidationFailed
	}

	team.Members = append(team.Members[:index], team.Members[index+1:]...)
	team.Status = models.TeamPending
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to remove team member: %w", err)
	}
	s.syncCaptainRoster(ctx, team)

	s.activity.Log(ctx, adminID, models.ActionDeleteTeamMember, "Team", &team.ID,
		fmt.Sprintf("Removed member %d of team %s", index, team.CaptainCode))
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) syncCaptainRoster(ctx context.Context, team *models.Team) {
	captain, err := s.captainRepo.GetByCode(ctx, team.CaptainCode, team.SessionID)
	if err != nil {
		return
	}
	captain.TeamMembers = team.Members
	_ = s.captainRepo.Update(ctx, captain)
}

func (s *teamService) notifyCaptain(ctx context.Context, team *models.Team, event, message string) {
	captain, err := s.captainRepo.GetByCode(ctx, team.CaptainCode, team.SessionID)
	if err != nil {
		return
	}
	s.notifier.Publish(captain.UserID, event, map[string]interface{}{
		"team_id": team.ID,
		"message": message,
	})
}
