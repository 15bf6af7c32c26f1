package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
)

// monthTable maps accepted month spellings to their number. Short and
// long spellings are both accepted for the months that have them.
var monthTable = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

type SessionService interface {
	Create(ctx context.Context, input CreateSessionInput) (*models.Session, error)
	GetByID(ctx context.Context, id int) (*models.Session, error)
	GetActive(ctx context.Context) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	SetActive(ctx context.Context, id int) (*models.Session, error)
	Delete(ctx context.Context, id int) error
	// Resolve returns the session for an explicit id, or the active
	// session when id is zero.
	Resolve(ctx context.Context, id int) (*models.Session, error)
}

type CreateSessionInput struct {
	StartMonth string `json:"start_month"`
	EndMonth   string `json:"end_month"`
	Year       int    `json:"year"`
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
}

func NewSessionService(sessionRepo repositories.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

// Create builds a session from month names and a start year. The end
// month rolls into the next calendar year when it precedes the start
// month ("Apr–Mar 2025" runs April 2025 to March 2026). The new session
// becomes the active one.
func (s *sessionService) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	if input.Year < 1900 || input.Year > 9999 {
		return nil, ErrValidationFailed
	}

	startMonth, ok := monthTable[strings.ToLower(strings.TrimSpace(input.StartMonth))]
	if !ok {
		return nil, ErrUnknownMonth
	}
	endMonth, ok := monthTable[strings.ToLower(strings.TrimSpace(input.EndMonth))]
	if !ok {
		return nil, ErrUnknownMonth
	}

	endYear := input.Year
	if endMonth <= startMonth {
		endYear++
	}

	startDate := time.Date(input.Year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the following month is the last day of endMonth.
	endDate := time.Date(endYear, endMonth+1, 0, 0, 0, 0, 0, time.UTC)

	session := &models.Session{
		Label:     fmt.Sprintf("%s–%s %d", startMonth.String()[:3], endMonth.String()[:3], input.Year),
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, repositories.ErrSessionLabelConflict) {
			return nil, ErrSessionConflict
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Creation activates the new session and deactivates the rest.
	if err := s.sessionRepo.SetActive(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to activate new session: %w", err)
	}

	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id int) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetActive(ctx context.Context) (*models.Session, error) {
	session, err := s.sessionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveSession) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context) ([]models.Session, error) {
	return s.sessionRepo.List(ctx)
}

func (s *sessionService) SetActive(ctx context.Context, id int) (*models.Session, error) {
	if err := s.sessionRepo.SetActive(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to activate session: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *sessionService) Delete(ctx context.Context, id int) error {
	err := s.sessionRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		if errors.Is(err, repositories.ErrSessionInUse) {
			return ErrSessionInUse
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *sessionService) Resolve(ctx context.Context, id int) (*models.Session, error) {
	if id > 0 {
		return s.GetByID(ctx, id)
	}
	return s.GetActive(ctx)
}
