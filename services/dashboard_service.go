package services

import (
	"context"

	"github.com/harjotgill/sports-office/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	SessionID          int `json:"session_id"`
	Students           int `json:"students"`
	Captains           int `json:"captains"`
	PendingProfiles    int `json:"pending_profiles"`
	Teams              int `json:"teams"`
	IssuedCertificates int `json:"issued_certificates"`
}

type DashboardService interface {
	GetStats(ctx context.Context, sessionID int) (DashboardStats, error)
}

type dashboardService struct {
	profileRepo     repositories.ProfileRepository
	captainRepo     repositories.CaptainRepository
	teamRepo        repositories.TeamRepository
	certificateRepo repositories.CertificateRepository
}

func NewDashboardService(
	profileRepo repositories.ProfileRepository,
	captainRepo repositories.CaptainRepository,
	teamRepo repositories.TeamRepository,
	certificateRepo repositories.CertificateRepository,
) DashboardService {
	return &dashboardService{
		profileRepo:     profileRepo,
		captainRepo:     captainRepo,
		teamRepo:        teamRepo,
		certificateRepo: certificateRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, sessionID int) (DashboardStats, error) {
	stats := DashboardStats{SessionID: sessionID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Students, err = s.profileRepo.CountBySession(gctx, sessionID)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingProfiles, err = s.profileRepo.CountPendingBySession(gctx, sessionID)
		return err
	})
	g.Go(func() (err error) {
		stats.Captains, err = s.captainRepo.CountBySession(gctx, sessionID)
		return err
	})
	g.Go(func() (err error) {
		stats.Teams, err = s.teamRepo.CountBySession(gctx, sessionID)
		return err
	})
	g.Go(func() (err error) {
		stats.IssuedCertificates, err = s.certificateRepo.CountBySession(gctx, sessionID)
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
