package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
)

type CertificateService interface {
	// GenerateForCaptain lazily materializes the certificate set for a
	// captain and session: one captain record plus one per roster
	// member, stamped with sport and position at generation time. A
	// second call returns the existing set unchanged.
	GenerateForCaptain(ctx context.Context, captainID, sessionID int) ([]models.Certificate, error)
	// ListEligible returns the session's captains whose position has
	// been assigned.
	ListEligible(ctx context.Context, sessionID int) ([]models.Captain, error)
	MarkSent(ctx context.Context, adminID, captainID int) (*models.Captain, error)
	// MyTeamCertificates is the captain-side view; not found until the
	// admin marks the certificates sent.
	MyTeamCertificates(ctx context.Context, userID, sessionID int) ([]models.Certificate, error)
}

type certificateService struct {
	certificateRepo repositories.CertificateRepository
	captainRepo     repositories.CaptainRepository
	activity        ActivityService
}

func NewCertificateService(
	certificateRepo repositories.CertificateRepository,
	captainRepo repositories.CaptainRepository,
	activity ActivityService,
) CertificateService {
	return &certificateService{
		certificateRepo: certificateRepo,
		captainRepo:     captainRepo,
		activity:        activity,
	}
}

func (s *certificateService) GenerateForCaptain(ctx context.Context, captainID, sessionID int) ([]models.Certificate, error) {
	existing, err := s.certificateRepo.ListByCaptainAndSession(ctx, captainID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	captain, err := s.captainRepo.GetByID(ctx, captainID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return nil, ErrCaptainNotFound
		}
		return nil, err
	}
	if captain.Position == "" || captain.Position == models.PositionPending {
		return nil, ErrPositionNotAssigned
	}

	certs := buildCertificates(captain, sessionID)
	for i := range certs {
		if err := s.certificateRepo.Create(ctx, &certs[i]); err != nil {
			// A concurrent generation won the insert race; its set is
			// the canonical one.
			if errors.Is(err, repositories.ErrCertificateExists) {
				return s.certificateRepo.ListByCaptainAndSession(ctx, captainID, sessionID)
			}
			return nil, fmt.Errorf("failed to issue certificate: %w", err)
		}
	}
	return certs, nil
}

// buildCertificates snapshots the captain and roster; later edits to
// either do not regenerate.
func buildCertificates(captain *models.Captain, sessionID int) []models.Certificate {
	certs := make([]models.Certificate, 0, 1+len(captain.TeamMembers))
	certs = append(certs, models.Certificate{
		RecipientType: models.RecipientCaptain,
		CaptainID:     captain.ID,
		SessionID:     sessionID,
		Sport:         captain.Sport,
		Position:      captain.Position,
		Status:        models.CertificateIssued,
	})

	for _, member := range captain.TeamMembers {
		position := member.Position
		if position == "" || position == models.PositionPending {
			position = captain.Position
		}
		certs = append(certs, models.Certificate{
			RecipientType: models.RecipientMember,
			CaptainID:     captain.ID,
			MemberInfo: &models.CertificateMember{
				Name:   member.Name,
				URN:    member.URN,
				Branch: member.Branch,
				Year:   member.Year,
				Email:  member.Email,
				Phone:  member.Phone,
			},
			SessionID: sessionID,
			Sport:     captain.Sport,
			Position:  position,
			Status:    models.CertificateIssued,
		})
	}
	return certs
}

func (s *certificateService) ListEligible(ctx context.Context, sessionID int) ([]models.Captain, error) {
	captains, err := s.captainRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Captain, 0, len(captains))
	for _, c := range captains {
		if c.Position != "" && c.Position != models.PositionPending {
			eligible = append(eligible, c)
		}
	}
	return eligible, nil
}

func (s *certificateService) MarkSent(ctx context.Context, adminID, captainID int) (*models.Captain, error) {
	captain, err := s.captainRepo.GetByID(ctx, captainID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return nil, ErrCaptainNotFound
		}
		return nil, err
	}

	// Generate before flipping the flag so the captain-side view has
	// something to show.
	certs, err := s.GenerateForCaptain(ctx, captain.ID, captain.SessionID)
	if err != nil {
		return nil, err
	}
	for i := range certs {
		if err := s.certificateRepo.UpdateStatus(ctx, certs[i].ID, models.CertificateSent); err != nil {
			return nil, fmt.Errorf("failed to update certificate status: %w", err)
		}
	}

	captain.CertificateAvailable = true
	if err := s.captainRepo.Update(ctx, captain); err != nil {
		return nil, fmt.Errorf("failed to mark certificates sent: %w", err)
	}

	s.activity.Log(ctx, adminID, models.ActionSendCertificate, "Captain", &captain.ID,
		fmt.Sprintf("Sent certificates for team %s", captain.CaptainCode))
	return captain, nil
}

func (s *certificateService) MyTeamCertificates(ctx context.Context, userID, sessionID int) ([]models.Certificate, error) {
	captain, err := s.captainRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return nil, ErrCaptainNotFound
		}
		return nil, err
	}
	if !captain.CertificateAvailable {
		return nil, ErrCertificateNotFound
	}
	return s.certificateRepo.ListByCaptainAndSession(ctx, captain.ID, sessionID)
}
