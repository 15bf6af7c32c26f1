package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
)

type GymSwimmingService interface {
	Enroll(ctx context.Context, adminID int, input GymSwimmingInput) (*models.GymSwimmingStudent, error)
	GetByID(ctx context.Context, id int) (*models.GymSwimmingStudent, error)
	ListBySport(ctx context.Context, sport string, sessionID int) ([]models.GymSwimmingStudent, error)
	Update(ctx context.Context, id int, input GymSwimmingInput) (*models.GymSwimmingStudent, error)
	Delete(ctx context.Context, id int) error
}

type GymSwimmingInput struct {
	Name      string `json:"name"`
	Branch    string `json:"branch"`
	URN       string `json:"urn"`
	CRN       string `json:"crn"`
	Year      int    `json:"year"`
	Sport     string `json:"sport"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	SessionID int    `json:"session_id"`
}

type gymSwimmingService struct {
	gymRepo     repositories.GymSwimmingRepository
	sessionRepo repositories.SessionRepository
	activity    ActivityService
}

func NewGymSwimmingService(
	gymRepo repositories.GymSwimmingRepository,
	sessionRepo repositories.SessionRepository,
	activity ActivityService,
) GymSwimmingService {
	return &gymSwimmingService{
		gymRepo:     gymRepo,
		sessionRepo: sessionRepo,
		activity:    activity,
	}
}

func validFacilitySport(sport string) bool {
	return sport == models.FacilityGym || sport == models.FacilitySwimming
}

func (s *gymSwimmingService) Enroll(ctx context.Context, adminID int, input GymSwimmingInput) (*models.GymSwimmingStudent, error) {
	if input.Name == "" || input.URN == "" {
		return nil, ErrValidationFailed
	}
	if !validFacilitySport(input.Sport) {
		return nil, ErrUnknownFacilitySport
	}

	sessionID := input.SessionID
	if sessionID == 0 {
		active, err := s.sessionRepo.GetActive(ctx)
		if err != nil {
			if errors.Is(err, repositories.ErrNoActiveSession) {
				return nil, ErrNoActiveSession
			}
			return nil, err
		}
		sessionID = active.ID
	}

	student := &models.GymSwimmingStudent{
		Name:      input.Name,
		Branch:    input.Branch,
		URN:       input.URN,
		CRN:       input.CRN,
		Year:      input.Year,
		Sport:     input.Sport,
		Email:     input.Email,
		Phone:     input.Phone,
		SessionID: sessionID,
		CreatedBy: adminID,
	}

	if err := s.gymRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrGymSwimmingURNConflict) {
			return nil, ErrURNConflict
		}
		return nil, fmt.Errorf("failed to enroll student: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionCreateStudent, "GymSwimmingStudent", &student.ID,
		fmt.Sprintf("Enrolled %s (%s) for %s", student.Name, student.URN, student.Sport))

	return student, nil
}

func (s *gymSwimmingService) GetByID(ctx context.Context, id int) (*models.GymSwimmingStudent, error) {
	student, err := s.gymRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGymSwimmingNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *gymSwimmingService) ListBySport(ctx context.Context, sport string, sessionID int) ([]models.GymSwimmingStudent, error) {
	if !validFacilitySport(sport) {
		return nil, ErrUnknownFacilitySport
	}
	return s.gymRepo.ListBySport(ctx, sport, sessionID)
}

func (s *gymSwimmingService) Update(ctx context.Context, id int, input GymSwimmingInput) (*models.GymSwimmingStudent, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		student.Name = input.Name
	}
	if input.Branch != "" {
		student.Branch = input.Branch
	}
	if input.URN != "" {
		student.URN = input.URN
	}
	if input.CRN != "" {
		student.CRN = input.CRN
	}
	if input.Year != 0 {
		student.Year = input.Year
	}
	if input.Sport != "" {
		if !validFacilitySport(input.Sport) {
			return nil, ErrUnknownFacilitySport
		}
		student.Sport = input.Sport
	}
	if input.Email != "" {
		student.Email = input.Email
	}
	if input.Phone != "" {
		student.Phone = input.Phone
	}

	if err := s.gymRepo.Update(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrGymSwimmingURNConflict) {
			return nil, ErrURNConflict
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

func (s *gymSwimmingService) Delete(ctx context.Context, id int) error {
	err := s.gymRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGymSwimmingNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}
