package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/reconcile"
	"github.com/harjotgill/sports-office/repositories"
	"github.com/harjotgill/sports-office/storage"
)

type ProfileService interface {
	// GetOrClone returns the student's profile for the session, cloning
	// the newest prior-session profile on first access. A student with
	// no profile in any session gets ErrNothingToClone.
	GetOrClone(ctx context.Context, userID, sessionID int) (*models.StudentProfile, error)
	Update(ctx context.Context, userID, sessionID int, input ProfileInput) (*models.StudentProfile, error)
	// Submit locks the provided sections and puts them under review.
	Submit(ctx context.Context, userID, sessionID int, input ProfileInput) (*models.StudentProfile, error)
	UploadPhoto(ctx context.Context, userID, sessionID int, kind, contentType string, file io.Reader) (*models.StudentProfile, error)
	MarkNotificationsRead(ctx context.Context, userID, sessionID int, indexes []int) (*models.StudentProfile, error)
	// MySessions lists the sessions where the student has a profile,
	// ensuring the active-session profile exists first via the clone
	// path.
	MySessions(ctx context.Context, userID int, activeSessionID int) ([]models.StudentProfile, error)
}

// ProfileInput carries a partial profile edit. Nil fields are left
// untouched; Sports nil means "not provided" while an empty slice
// clears the declared sports.
type ProfileInput struct {
	Name    *string `json:"name"`
	URN     *string `json:"urn"`
	CRN     *string `json:"crn"`
	Branch  *string `json:"branch"`
	Year    *int    `json:"year"`
	DOB     *string `json:"dob"` // YYYY-MM-DD
	Gender  *string `json:"gender"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`

	FatherName           *string `json:"father_name"`
	YearOfPassingMatric  *int    `json:"year_of_passing_matric"`
	YearOfPassingPlusTwo *int    `json:"year_of_passing_plus_two"`
	FirstAdmissionDate   *string `json:"first_admission_date"` // YYYY-MM
	LastExamName         *string `json:"last_exam_name"`
	LastExamYear         *int    `json:"last_exam_year"`

	InterCollegeGraduateCourse *int `json:"inter_college_graduate_course"`
	InterCollegePgCourse       *int `json:"inter_college_pg_course"`

	Sports []reconcile.SportRef `json:"sports"`
}

// Photo upload kinds.
const (
	PhotoKindProfile   = "photo"
	PhotoKindSignature = "signature"
)

type profileService struct {
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
}

func NewProfileService(profileRepo repositories.ProfileRepository, uploader storage.FileUploader) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

func (s *profileService) GetOrClone(ctx context.Context, userID, sessionID int) (*models.StudentProfile, error) {
	profile, err := s.profileRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	prior, err := s.profileRepo.GetLatestByUserBefore(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrNothingToClone
		}
		return nil, fmt.Errorf("failed to look up prior profile: %w", err)
	}

	clone := cloneForSession(prior, sessionID)
	reconcile.Sync(clone)

	if err := s.profileRepo.Create(ctx, clone); err != nil {
		// Another request cloned first; use its row.
		if errors.Is(err, repositories.ErrProfileExists) {
			return s.profileRepo.GetByUserAndSession(ctx, userID, sessionID)
		}
		return nil, fmt.Errorf("failed to create cloned profile: %w", err)
	}
	return clone, nil
}

// cloneForSession carries the durable fields into a fresh profile and
// resets everything scoped to a single session.
func cloneForSession(prior *models.StudentProfile, sessionID int) *models.StudentProfile {
	return &models.StudentProfile{
		UserID:    prior.UserID,
		SessionID: sessionID,

		Name:    prior.Name,
		URN:     prior.URN,
		CRN:     prior.CRN,
		Branch:  prior.Branch,
		DOB:     prior.DOB,
		Gender:  prior.Gender,
		Contact: prior.Contact,
		Address: prior.Address,

		FatherName:           prior.FatherName,
		YearOfPassingMatric:  prior.YearOfPassingMatric,
		YearOfPassingPlusTwo: prior.YearOfPassingPlusTwo,
		FirstAdmissionDate:   prior.FirstAdmissionDate,
		YearsOfParticipation: prior.YearsOfParticipation + 1,

		InterCollegeGraduateCourse: prior.InterCollegeGraduateCourse,
		InterCollegePgCourse:       prior.InterCollegePgCourse,

		Photo:          prior.Photo,
		SignaturePhoto: prior.SignaturePhoto,

		Sports:        models.StringList{},
		SportsDetails: models.SportDetailList{},
		Positions:     models.SportPositionList{},

		Status:        models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone},
		Notifications: models.NotificationList{},

		IsCloned: true,
	}
}

func (s *profileService) Update(ctx context.Context, userID, sessionID int, input ProfileInput) (*models.StudentProfile, error) {
	profile, err := s.GetOrClone(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if touchesPersonal(input) {
		if profile.LockedPersonal {
			return nil, ErrSectionLocked
		}
		if err := applyPersonal(profile, input); err != nil {
			return nil, err
		}
	}

	if input.Sports != nil {
		if profile.LockedSports {
			return nil, ErrSectionLocked
		}
		profile.Sports, profile.SportsDetails, profile.Positions =
			reconcile.Apply(input.Sports, profile.SportsDetails, profile.Positions)
	} else {
		reconcile.Sync(profile)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Submit(ctx context.Context, userID, sessionID int, input ProfileInput) (*models.StudentProfile, error) {
	profile, err := s.GetOrClone(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// Each section is locked and queued for review only when the
	// submission actually carries data for it.
	if touchesPersonal(input) {
		if profile.LockedPersonal {
			return nil, ErrSectionLocked
		}
		if err := applyPersonal(profile, input); err != nil {
			return nil, err
		}
		profile.LockedPersonal = true
		profile.Status.Personal = models.StatusPending
	}

	if len(input.Sports) > 0 {
		if profile.LockedSports {
			return nil, ErrSectionLocked
		}
		// Submission merges into the declared set rather than replacing
		// it; Apply de-dupes repeats.
		merged := append(reconcile.FromNames(profile.Sports), input.Sports...)
		profile.Sports, profile.SportsDetails, profile.Positions =
			reconcile.Apply(merged, profile.SportsDetails, profile.Positions)
		profile.LockedSports = true
		profile.Status.Sports = models.StatusPending
	} else {
		reconcile.Sync(profile)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to submit profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) UploadPhoto(ctx context.Context, userID, sessionID int, kind, contentType string, file io.Reader) (*models.StudentProfile, error) {
	var folder string
	switch kind {
	case PhotoKindProfile:
		folder = storage.FolderStudentPhotos
	case PhotoKindSignature:
		folder = storage.FolderStudentSignatures
	default:
		return nil, ErrValidationFailed
	}

	profile, err := s.GetOrClone(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if profile.LockedPersonal {
		return nil, ErrSectionLocked
	}

	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		return nil, ErrValidationFailed
	}

	key := storage.BuildKey(folder, userID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", kind, err)
	}

	if kind == PhotoKindProfile {
		profile.Photo = result.Location
	} else {
		profile.SignaturePhoto = result.Location
	}

	reconcile.Sync(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save uploaded %s: %w", kind, err)
	}
	return profile, nil
}

func (s *profileService) MarkNotificationsRead(ctx context.Context, userID, sessionID int, indexes []int) (*models.StudentProfile, error) {
	profile, err := s.profileRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	for _, i := range indexes {
		if i >= 0 && i < len(profile.Notifications) {
			profile.Notifications[i].Read = true
		}
	}

	reconcile.Sync(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return profile, nil
}

func (s *profileService) MySessions(ctx context.Context, userID int, activeSessionID int) ([]models.StudentProfile, error) {
	if activeSessionID > 0 {
		if _, err := s.GetOrClone(ctx, userID, activeSessionID); err != nil && !errors.Is(err, ErrNothingToClone) {
			return nil, err
		}
	}
	return s.profileRepo.ListByUser(ctx, userID)
}

func touchesPersonal(input ProfileInput) bool {
	return input.Name != nil || input.URN != nil || input.CRN != nil ||
		input.Branch != nil || input.Year != nil || input.DOB != nil ||
		input.Gender != nil || input.Contact != nil || input.Address != nil ||
		input.FatherName != nil || input.YearOfPassingMatric != nil ||
		input.YearOfPassingPlusTwo != nil || input.FirstAdmissionDate != nil ||
		input.LastExamName != nil || input.LastExamYear != nil ||
		input.InterCollegeGraduateCourse != nil || input.InterCollegePgCourse != nil
}

func applyPersonal(p *models.StudentProfile, input ProfileInput) error {
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.URN != nil {
		p.URN = *input.URN
	}
	if input.CRN != nil {
		p.CRN = *input.CRN
	}
	if input.Branch != nil {
		p.Branch = *input.Branch
	}
	if input.Year != nil {
		p.Year = input.Year
	}
	if input.DOB != nil {
		dob, err := time.Parse("2006-01-02", *input.DOB)
		if err != nil {
			return ErrValidationFailed
		}
		p.DOB = &dob
	}
	if input.Gender != nil {
		p.Gender = *input.Gender
	}
	if input.Contact != nil {
		p.Contact = *input.Contact
	}
	if input.Address != nil {
		p.Address = *input.Address
	}
	if input.FatherName != nil {
		p.FatherName = *input.FatherName
	}
	if input.YearOfPassingMatric != nil {
		p.YearOfPassingMatric = input.YearOfPassingMatric
	}
	if input.YearOfPassingPlusTwo != nil {
		p.YearOfPassingPlusTwo = input.YearOfPassingPlusTwo
	}
	if input.FirstAdmissionDate != nil {
		if _, err := time.Parse("2006-01", *input.FirstAdmissionDate); err != nil {
			return ErrValidationFailed
		}
		p.FirstAdmissionDate = *input.FirstAdmissionDate
	}
	if input.LastExamName != nil {
		p.LastExamName = *input.LastExamName
	}
	if input.LastExamYear != nil {
		p.LastExamYear = input.LastExamYear
	}
	if input.InterCollegeGraduateCourse != nil {
		p.InterCollegeGraduateCourse = *input.InterCollegeGraduateCourse
	}
	if input.InterCollegePgCourse != nil {
		p.InterCollegePgCourse = *input.InterCollegePgCourse
	}
	return nil
}
