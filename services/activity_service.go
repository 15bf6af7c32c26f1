package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
)

type ActivityService interface {
	// Log records an admin action. Best-effort: failures are logged and
	// swallowed so they never fail the request that triggered them.
	Log(ctx context.Context, adminID int, action models.ActivityAction, targetModel string, targetID *int, description string)
	// Record is the caller-initiated variant of Log: the input is
	// validated and persistence failures surface instead of being
	// swallowed.
	Record(ctx context.Context, adminID int, input RecordActivityInput) (*models.Activity, error)
	ListRecent(ctx context.Context, limit, offset int) ([]models.Activity, error)
	GetByID(ctx context.Context, id int) (*models.Activity, error)
}

type RecordActivityInput struct {
	Action      models.ActivityAction `json:"action"`
	TargetModel string                `json:"target_model"`
	TargetID    *int                  `json:"target_id"`
	Description string                `json:"description"`
}

type activityService struct {
	activityRepo repositories.ActivityRepository
	logger       *slog.Logger
}

func NewActivityService(activityRepo repositories.ActivityRepository, logger *slog.Logger) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *activityService) Log(ctx context.Context, adminID int, action models.ActivityAction, targetModel string, targetID *int, description string) {
	if !models.ValidActivityAction(action) {
		action = models.ActionOther
	}

	activity := &models.Activity{
		AdminID:     adminID,
		Action:      action,
		TargetModel: targetModel,
		TargetID:    targetID,
		Description: description,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Error("failed to record activity",
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}

func (s *activityService) Record(ctx context.Context, adminID int, input RecordActivityInput) (*models.Activity, error) {
	if !models.ValidActivityAction(input.Action) || input.TargetModel == "" || input.Description == "" {
		return nil, ErrValidationFailed
	}

	activity := &models.Activity{
		AdminID:     adminID,
		Action:      input.Action,
		TargetModel: input.TargetModel,
		TargetID:    input.TargetID,
		Description: input.Description,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	return activity, nil
}

func (s *activityService) ListRecent(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	return s.activityRepo.ListRecent(ctx, limit, offset)
}

func (s *activityService) GetByID(ctx context.Context, id int) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrActivityNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return activity, nil
}
