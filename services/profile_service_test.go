package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/reconcile"
)

func seedProfile(t *testing.T, repo *fakeProfileRepo, p *models.StudentProfile) *models.StudentProfile {
	t.Helper()
	if p.Sports == nil {
		p.Sports = models.StringList{}
	}
	if p.SportsDetails == nil {
		p.SportsDetails = models.SportDetailList{}
	}
	if p.Positions == nil {
		p.Positions = models.SportPositionList{}
	}
	if p.Notifications == nil {
		p.Notifications = models.NotificationList{}
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestGetOrCloneWithoutHistory(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeUploader{})

	_, err := svc.GetOrClone(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNothingToClone)
}

func TestGetOrCloneCarriesDurableFields(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	year := 2
	seedProfile(t, repo, &models.StudentProfile{
		UserID:    7,
		SessionID: 1,
		Name:      "Simran Kaur",
		URN:       "2203456",
		CRN:       "2215678",
		Branch:    "CSE",
		Year:      &year,
		Contact:   "9876543210",

		FatherName:           "Harpal Singh",
		YearsOfParticipation: 1,
		Photo:                "https://cdn.example.com/student_photos/7.jpg",

		Sports:        models.StringList{"Basketball"},
		SportsDetails: models.SportDetailList{{SportID: "basketball", Sport: "Basketball", Status: models.StatusApproved}},
		Positions:     models.SportPositionList{{SportID: "basketball", Sport: "Basketball", Position: "1st"}},

		Status:         models.ProfileStatus{Personal: models.StatusApproved, Sports: models.StatusApproved},
		LockedPersonal: true,
		LockedSports:   true,
	})

	clone, err := svc.GetOrClone(context.Background(), 7, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, clone.SessionID)
	assert.True(t, clone.IsCloned)
	assert.Equal(t, "Simran Kaur", clone.Name)
	assert.Equal(t, "2203456", clone.URN)
	assert.Equal(t, "Harpal Singh", clone.FatherName)
	assert.Equal(t, "https://cdn.example.com/student_photos/7.jpg", clone.Photo)
	assert.Equal(t, 2, clone.YearsOfParticipation)

	// Session-scoped state starts over.
	assert.Empty(t, clone.Sports)
	assert.Empty(t, clone.SportsDetails)
	assert.Empty(t, clone.Positions)
	assert.Equal(t, models.StatusNone, clone.Status.Personal)
	assert.Equal(t, models.StatusNone, clone.Status.Sports)
	assert.False(t, clone.LockedPersonal)
	assert.False(t, clone.LockedSports)
	assert.Nil(t, clone.Year)
}

func TestGetOrCloneIsIdempotent(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1, Name: "Simran Kaur"})

	first, err := svc.GetOrClone(context.Background(), 7, 2)
	require.NoError(t, err)
	second, err := svc.GetOrClone(context.Background(), 7, 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	n, _ := repo.CountBySession(context.Background(), 2)
	assert.Equal(t, 1, n)
}

func TestGetOrCloneClonesNewestPriorSession(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1, YearsOfParticipation: 1})
	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 2, YearsOfParticipation: 2})

	clone, err := svc.GetOrClone(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, clone.YearsOfParticipation)
}

func TestUpdateRefusedWhenPersonalLocked(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1, LockedPersonal: true})

	name := "New Name"
	_, err := svc.Update(context.Background(), 7, 1, ProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrSectionLocked)
}

func TestUpdateRefusedWhenSportsLocked(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1, LockedSports: true})

	_, err := svc.Update(context.Background(), 7, 1, ProfileInput{
		Sports: []reconcile.SportRef{{Name: "Cricket"}},
	})
	assert.ErrorIs(t, err, ErrSectionLocked)
}

func TestUpdateAppliesSportsThroughReconcile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	updated, err := svc.Update(context.Background(), 7, 1, ProfileInput{
		Sports: []reconcile.SportRef{{Name: "Cricket"}, {Name: "cricket"}, {Name: "Hockey"}},
	})
	require.NoError(t, err)

	// Duplicates collapse; every declared sport gets a detail and a
	// pending position.
	assert.Equal(t, models.StringList{"Cricket", "Hockey"}, updated.Sports)
	require.Len(t, updated.SportsDetails, 2)
	require.Len(t, updated.Positions, 2)
	assert.Equal(t, models.PositionPending, updated.Positions[0].Position)
}

func TestUpdateInvalidDOB(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	dob := "31-01-2004"
	_, err := svc.Update(context.Background(), 7, 1, ProfileInput{DOB: &dob})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSubmitLocksSections(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1, Sports: models.StringList{"Cricket"}})

	name := "Simran Kaur"
	submitted, err := svc.Submit(context.Background(), 7, 1, ProfileInput{
		Name:   &name,
		Sports: []reconcile.SportRef{{Name: "Hockey"}},
	})
	require.NoError(t, err)

	assert.True(t, submitted.LockedPersonal)
	assert.True(t, submitted.LockedSports)
	assert.Equal(t, models.StatusPending, submitted.Status.Personal)
	assert.Equal(t, models.StatusPending, submitted.Status.Sports)
	// Submission merges into the declared set rather than replacing it.
	assert.Equal(t, models.StringList{"Cricket", "Hockey"}, submitted.Sports)
}

func TestSubmitWithoutSportsLeavesSportsOpen(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	name := "Simran Kaur"
	submitted, err := svc.Submit(context.Background(), 7, 1, ProfileInput{Name: &name})
	require.NoError(t, err)

	assert.True(t, submitted.LockedPersonal)
	assert.False(t, submitted.LockedSports)
	assert.Equal(t, models.StatusNone, submitted.Status.Sports)
}

func TestSubmitSportsOnlyLeavesPersonalOpen(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	submitted, err := svc.Submit(context.Background(), 7, 1, ProfileInput{
		Sports: []reconcile.SportRef{{Name: "Hockey"}},
	})
	require.NoError(t, err)

	// A sports-only submission must not queue the untouched personal
	// section for review.
	assert.False(t, submitted.LockedPersonal)
	assert.Equal(t, models.StatusNone, submitted.Status.Personal)
	assert.True(t, submitted.LockedSports)
	assert.Equal(t, models.StatusPending, submitted.Status.Sports)
}

func TestUploadPhotoRefusedWhenLocked(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1, LockedPersonal: true})

	_, err := svc.UploadPhoto(context.Background(), 7, 1, PhotoKindProfile, "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrSectionLocked)
}

func TestUploadPhotoStoresLocation(t *testing.T) {
	repo := newFakeProfileRepo()
	uploader := &fakeUploader{}
	svc := NewProfileService(repo, uploader)

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	updated, err := svc.UploadPhoto(context.Background(), 7, 1, PhotoKindSignature, "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)

	require.Len(t, uploader.uploads, 1)
	assert.True(t, strings.HasPrefix(uploader.uploads[0], "student_signatures/7_"))
	assert.Equal(t, "https://cdn.example.com/"+uploader.uploads[0], updated.SignaturePhoto)
	assert.Empty(t, updated.Photo)
}

func TestUploadPhotoUnknownKind(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	_, err := svc.UploadPhoto(context.Background(), 7, 1, "avatar", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestMarkNotificationsRead(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{
		UserID:    7,
		SessionID: 1,
		Notifications: models.NotificationList{
			{Type: models.NotificationApproval, Message: "first"},
			{Type: models.NotificationRejection, Message: "second"},
		},
	})

	updated, err := svc.MarkNotificationsRead(context.Background(), 7, 1, []int{1, 99, -1})
	require.NoError(t, err)

	assert.False(t, updated.Notifications[0].Read)
	assert.True(t, updated.Notifications[1].Read)
}

func TestMySessionsClonesActiveFirst(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeUploader{})

	seedProfile(t, repo, &models.StudentProfile{UserID: 7, SessionID: 1})

	profiles, err := svc.MySessions(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, 2, profiles[0].SessionID)
	assert.Equal(t, 1, profiles[1].SessionID)
}

func TestMySessionsWithoutAnyProfile(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeUploader{})

	profiles, err := svc.MySessions(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
