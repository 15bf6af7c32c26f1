package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harjotgill/sports-office/config"
	"github.com/harjotgill/sports-office/db"
	"github.com/harjotgill/sports-office/handlers"
	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/notify"
	"github.com/harjotgill/sports-office/repositories"
	"github.com/harjotgill/sports-office/routes"
	"github.com/harjotgill/sports-office/services"
	"github.com/harjotgill/sports-office/storage"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := notify.NewHub(logger)
	go hub.Run()
	logger.Info("notification hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	sessionRepo := repositories.NewPostgresSessionRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	captainRepo := repositories.NewPostgresCaptainRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	certificateRepo := repositories.NewPostgresCertificateRepository(dbConn)
	gymRepo := repositories.NewPostgresGymSwimmingRepository(dbConn)
	attendanceRepo := repositories.NewPostgresAttendanceRepository(dbConn)
	activityRepo := repositories.NewPostgresActivityRepository(dbConn)
	logger.Info("repositories initialized")

	activityService := services.NewActivityService(activityRepo, logger)
	authService := services.NewAuthService(userRepo, logger)
	sessionService := services.NewSessionService(sessionRepo)
	profileService := services.NewProfileService(profileRepo, uploader)
	teamService := services.NewTeamService(teamRepo, captainRepo, activityService, hub)
	certificateService := services.NewCertificateService(certificateRepo, captainRepo, activityService)
	adminService := services.NewAdminService(userRepo, profileRepo, captainRepo, teamRepo, sessionRepo, activityService, hub)
	gymService := services.NewGymSwimmingService(gymRepo, sessionRepo, activityService)
	attendanceService := services.NewAttendanceService(attendanceRepo, gymRepo, sessionRepo, activityService)
	dashboardService := services.NewDashboardService(profileRepo, captainRepo, teamRepo, certificateRepo)
	logger.Info("services initialized")

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(bootstrapCtx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		cancelBootstrap()
		logger.Error("failed to bootstrap admin account", slog.Any("error", err))
		os.Exit(1)
	}
	cancelBootstrap()

	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Student:     handlers.NewStudentHandler(profileService, sessionService),
		Captain:     handlers.NewCaptainHandler(teamService, certificateService, sessionService),
		Admin:       handlers.NewAdminHandler(adminService, teamService, certificateService, sessionService),
		Session:     handlers.NewSessionHandler(sessionService, activityService),
		GymSwimming: handlers.NewGymSwimmingHandler(gymService, sessionService),
		Attendance:  handlers.NewAttendanceHandler(attendanceService),
		Activity:    handlers.NewActivityHandler(activityService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService, sessionService),
		WebSocket:   handlers.NewWebSocketHandler(hub),
	}
	logger.Info("HTTP handlers initialized")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.SetupRoutes(h, authenticator, cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
