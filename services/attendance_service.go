package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
)

type AttendanceService interface {
	// Mark writes the day's status for every student in the batch.
	// Re-marking a day replaces the earlier status.
	Mark(ctx context.Context, markerID int, input MarkAttendanceInput) ([]models.AttendanceRecord, error)
	GetByDate(ctx context.Context, sport string, sessionID int, date string) ([]models.AttendanceRecord, error)
	// GetByStudent returns the student's full record for the session
	// along with the number of days marked present.
	GetByStudent(ctx context.Context, studentID, sessionID int) (*StudentAttendance, error)
}

type StudentAttendance struct {
	Records     []models.AttendanceRecord `json:"records"`
	PresentDays int                       `json:"present_days"`
}

type MarkAttendanceInput struct {
	Sport     string                `json:"sport"`
	SessionID int                   `json:"session_id"`
	Date      string                `json:"date"` // YYYY-MM-DD, defaults to today
	Marks     []AttendanceMarkInput `json:"marks"`
}

type AttendanceMarkInput struct {
	StudentID int                     `json:"student_id"`
	Status    models.AttendanceStatus `json:"status"`
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	gymRepo        repositories.GymSwimmingRepository
	sessionRepo    repositories.SessionRepository
	activity       ActivityService
}

func NewAttendanceService(
	attendanceRepo repositories.AttendanceRepository,
	gymRepo repositories.GymSwimmingRepository,
	sessionRepo repositories.SessionRepository,
	activity ActivityService,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		gymRepo:        gymRepo,
		sessionRepo:    sessionRepo,
		activity:       activity,
	}
}

func (s *attendanceService) Mark(ctx context.Context, markerID int, input MarkAttendanceInput) ([]models.AttendanceRecord, error) {
	if !validFacilitySport(input.Sport) {
		return nil, ErrUnknownFacilitySport
	}
	if len(input.Marks) == 0 {
		return nil, ErrValidationFailed
	}

	day, err := resolveAttendanceDay(input.Date)
	if err != nil {
		return nil, err
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

	records := make([]models.AttendanceRecord, 0, len(input.Marks))
	for _, mark := range input.Marks {
		if mark.Status != models.AttendancePresent && mark.Status != models.AttendanceAbsent {
			return nil, ErrValidationFailed
		}
		student, err := s.gymRepo.GetByID(ctx, mark.StudentID)
		if err != nil {
			if errors.Is(err, repositories.ErrGymSwimmingNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		if student.Sport != input.Sport {
			return nil, ErrValidationFailed
		}

		record := models.AttendanceRecord{
			StudentID:  mark.StudentID,
			SessionID:  sessionID,
			AttendedOn: day,
			Status:     mark.Status,
			MarkedBy:   markerID,
		}
		if err := s.attendanceRepo.Upsert(ctx, &record); err != nil {
			return nil, fmt.Errorf("failed to mark attendance for student %d: %w", mark.StudentID, err)
		}
		records = append(records, record)
	}

	action := models.ActionMarkAttendanceGym
	if input.Sport == models.FacilitySwimming {
		action = models.ActionMarkAttendanceSwimming
	}
	s.activity.Log(ctx, markerID, action, "Attendance", nil,
		fmt.Sprintf("Marked %s attendance for %d students on %s", input.Sport, len(records), day.Format("2006-01-02")))

	return records, nil
}

func (s *attendanceService) GetByDate(ctx context.Context, sport string, sessionID int, date string) ([]models.AttendanceRecord, error) {
	if !validFacilitySport(sport) {
		return nil, ErrUnknownFacilitySport
	}
	day, err := resolveAttendanceDay(date)
	if err != nil {
		return nil, err
	}
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
	return s.attendanceRepo.ListByDate(ctx, sport, sessionID, day)
}

func (s *attendanceService) GetByStudent(ctx context.Context, studentID, sessionID int) (*StudentAttendance, error) {
	records, err := s.attendanceRepo.ListByStudent(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	present, err := s.attendanceRepo.CountPresentByStudent(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	return &StudentAttendance{Records: records, PresentDays: present}, nil
}

// resolveAttendanceDay parses the date (today when empty) and rejects
// future days.
func resolveAttendanceDay(date string) (time.Time, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date == "" {
		return today, nil
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, ErrValidationFailed
	}
	if day.After(today) {
		return time.Time{}, ErrInvalidAttendanceDate
	}
	return day, nil
}
