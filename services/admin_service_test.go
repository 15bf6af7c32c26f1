package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/reconcile"
)

type adminFixture struct {
	svc      AdminService
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	captains *fakeCaptainRepo
	teams    *fakeTeamRepo
	sessions *fakeSessionRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:    newFakeUserRepo(),
		profiles: newFakeProfileRepo(),
		captains: newFakeCaptainRepo(),
		teams:    newFakeTeamRepo(),
		sessions: newFakeSessionRepo(),
	}
	f.svc = NewAdminService(f.users, f.profiles, f.captains, f.teams, f.sessions, testActivityService(), NopNotifier())

	session := &models.Session{Label: "Apr–Mar 2025", IsActive: true}
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return f
}

func TestCreateUserCaptain(t *testing.T) {
	f := newAdminFixture(t)

	user, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:            "Gurleen Brar",
		Email:           "Gurleen@Example.com",
		Password:        "secret123",
		Role:            models.RoleCaptain,
		Sport:           "Volleyball",
		Branch:          "ME",
		URN:             "2201234",
		TeamMemberCount: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, "gurleen@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	require.NotNil(t, user.CaptainCode)
	assert.Regexp(t, regexp.MustCompile(`^CAPT\d{4}-\d{3}$`), *user.CaptainCode)

	captain, err := f.captains.GetByCode(context.Background(), *user.CaptainCode, 1)
	require.NoError(t, err)
	assert.Equal(t, models.PositionPending, captain.Position)
	assert.Equal(t, 8, captain.TeamMemberCount)
	assert.Equal(t, user.ID, captain.UserID)
}

func TestCreateUserCaptainRequiresSportAndRoster(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:     "Gurleen Brar",
		Email:    "gurleen@example.com",
		Password: "secret123",
		Role:     models.RoleCaptain,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateUserStudentAddsRoleToExistingAccount(t *testing.T) {
	f := newAdminFixture(t)

	first, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:            "Gurleen Brar",
		Email:           "gurleen@example.com",
		Password:        "secret123",
		Role:            models.RoleCaptain,
		Sport:           "Volleyball",
		TeamMemberCount: 8,
	})
	require.NoError(t, err)

	second, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:   "Gurleen Brar",
		Email:  "gurleen@example.com",
		Role:   models.RoleStudent,
		URN:    "2201234",
		Sports: []reconcile.SportRef{{Name: "Volleyball"}},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.HasRole(models.RoleCaptain))
	assert.True(t, second.HasRole(models.RoleStudent))

	profile, err := f.profiles.GetByUserAndSession(context.Background(), second.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"Volleyball"}, profile.Sports)
}

func TestCreateUserStudentMergesSportsIntoExistingProfile(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:     "Simran Kaur",
		Email:    "simran@example.com",
		Password: "secret123",
		Role:     models.RoleStudent,
		Sports:   []reconcile.SportRef{{Name: "Cricket"}},
	})
	require.NoError(t, err)

	user, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:   "Simran Kaur",
		Email:  "simran@example.com",
		Role:   models.RoleStudent,
		Sports: []reconcile.SportRef{{Name: "Hockey"}},
	})
	require.NoError(t, err)

	profile, err := f.profiles.GetByUserAndSession(context.Background(), user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"Cricket", "Hockey"}, profile.Sports)
}

func TestCreateUserWithoutActiveSession(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, f.sessions.Delete(context.Background(), 1))

	_, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:     "Simran Kaur",
		Email:    "simran@example.com",
		Password: "secret123",
		Role:     models.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func seedReviewProfile(t *testing.T, f *adminFixture, status models.ProfileStatus) *models.StudentProfile {
	t.Helper()
	p := &models.StudentProfile{
		UserID:    7,
		SessionID: 1,
		Name:      "Simran Kaur",
		URN:       "2203456",
		Sports:    models.StringList{"Cricket"},
		SportsDetails: models.SportDetailList{
			{SportID: "cricket", Sport: "Cricket", Status: models.StatusPending},
		},
		Positions: models.SportPositionList{
			{SportID: "cricket", Sport: "Cricket", Position: models.PositionPending},
		},
		Status:         status,
		Notifications:  models.NotificationList{},
		LockedPersonal: true,
		LockedSports:   true,
	}
	require.NoError(t, f.profiles.Create(context.Background(), p))
	return p
}

func TestApprovePersonal(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusPending, Sports: models.StatusNone})

	approved, err := f.svc.ApproveProfile(context.Background(), 1, p.ID, ReviewTypePersonal)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status.Personal)
	assert.True(t, approved.LockedPersonal)
	require.Len(t, approved.Notifications, 1)
	assert.Equal(t, models.NotificationApproval, approved.Notifications[0].Type)
}

func TestApproveSportsApprovesPendingDetails(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusPending})

	approved, err := f.svc.ApproveProfile(context.Background(), 1, p.ID, ReviewTypeSports)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status.Sports)
	assert.Equal(t, models.StatusApproved, approved.SportsDetails[0].Status)
}

func TestApproveWithoutPendingIsNoOp(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone})

	result, err := f.svc.ApproveProfile(context.Background(), 1, p.ID, ReviewTypePersonal)
	require.NoError(t, err)

	// Nothing pending: the unchanged profile comes back, no notification.
	assert.Equal(t, models.StatusNone, result.Status.Personal)
	assert.Empty(t, result.Notifications)
}

func TestRejectWithoutPendingIsNoOp(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusApproved})

	result, err := f.svc.RejectProfile(context.Background(), 1, p.ID, ReviewTypeSports)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, result.Status.Sports)
	assert.True(t, result.LockedSports)
	assert.Empty(t, result.Notifications)
}

func TestApproveUnknownReviewType(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusPending, Sports: models.StatusPending})

	_, err := f.svc.ApproveProfile(context.Background(), 1, p.ID, "everything")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRejectPersonalKeepsLock(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusPending, Sports: models.StatusNone})

	rejected, err := f.svc.RejectProfile(context.Background(), 1, p.ID, ReviewTypePersonal)
	require.NoError(t, err)

	assert.Equal(t, models.StatusNone, rejected.Status.Personal)
	// Personal stays locked after rejection; only the admin can amend it.
	assert.True(t, rejected.LockedPersonal)
	require.Len(t, rejected.Notifications, 1)
	assert.Equal(t, models.NotificationRejection, rejected.Notifications[0].Type)
}

func TestRejectSportsReopensSection(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusPending})

	rejected, err := f.svc.RejectProfile(context.Background(), 1, p.ID, ReviewTypeSports)
	require.NoError(t, err)

	assert.Equal(t, models.StatusNone, rejected.Status.Sports)
	assert.False(t, rejected.LockedSports)
	// The declared sports survive rejection, but every pending detail
	// drops back to none for resubmission.
	assert.Equal(t, models.StringList{"Cricket"}, rejected.Sports)
	assert.Equal(t, models.StatusNone, rejected.SportsDetails[0].Status)
}

func TestListPendingProfilesFlagsSections(t *testing.T) {
	f := newAdminFixture(t)
	seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusPending, Sports: models.StatusNone})

	pending, err := f.svc.ListPendingProfiles(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].PendingPersonal)
	// A pending sport detail counts even when the section status is not
	// pending.
	assert.True(t, pending[0].PendingSports)
}

func TestAssignStudentPosition(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone})

	updated, err := f.svc.AssignStudentPosition(context.Background(), 1, p.ID, "CRICKET", "1st")
	require.NoError(t, err)
	assert.Equal(t, "1st", updated.Positions[0].Position)
}

func TestAssignStudentPositionUnknownSport(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone})

	_, err := f.svc.AssignStudentPosition(context.Background(), 1, p.ID, "Chess", "1st")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignStudentPositionInvalidPosition(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone})

	_, err := f.svc.AssignStudentPosition(context.Background(), 1, p.ID, "Cricket", "winner")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestUpdateStudentBypassesLocks(t *testing.T) {
	f := newAdminFixture(t)
	p := seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusPending, Sports: models.StatusPending})

	name := "Corrected Name"
	updated, err := f.svc.UpdateStudent(context.Background(), 1, p.ID, ProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Corrected Name", updated.Name)
}

func TestStudentHistoryAggregates(t *testing.T) {
	f := newAdminFixture(t)
	seedReviewProfile(t, f, models.ProfileStatus{Personal: models.StatusNone, Sports: models.StatusNone})
	require.NoError(t, f.captains.Create(context.Background(), &models.Captain{
		CaptainCode: "CAPT2025-001", UserID: 7, SessionID: 1, URN: "2203456",
	}))
	require.NoError(t, f.teams.Create(context.Background(), &models.Team{
		CaptainCode: "CAPT2024-002", SessionID: 1,
		Members: models.TeamMemberList{{Name: "Simran Kaur", URN: "2203456", Email: "simran@example.com"}},
	}))

	history, err := f.svc.StudentHistory(context.Background(), "2203456")
	require.NoError(t, err)
	assert.Len(t, history.Profiles, 1)
	assert.Len(t, history.Captains, 1)
	assert.Len(t, history.Teams, 1)
}

func TestStudentHistoryUnknownURN(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.StudentHistory(context.Background(), "9999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCaptainCascades(t *testing.T) {
	f := newAdminFixture(t)

	user, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:            "Gurleen Brar",
		Email:           "gurleen@example.com",
		Password:        "secret123",
		Role:            models.RoleCaptain,
		Sport:           "Volleyball",
		TeamMemberCount: 8,
	})
	require.NoError(t, err)

	captain, err := f.captains.GetByCode(context.Background(), *user.CaptainCode, 1)
	require.NoError(t, err)
	require.NoError(t, f.teams.Create(context.Background(), &models.Team{
		CaptainCode: captain.CaptainCode, SessionID: 1, Status: models.TeamPending,
	}))

	require.NoError(t, f.svc.DeleteCaptain(context.Background(), 1, captain.ID))

	_, err = f.captains.GetByID(context.Background(), captain.ID)
	assert.Error(t, err)
	_, err = f.teams.GetByCaptainCode(context.Background(), captain.CaptainCode, 1)
	assert.Error(t, err)
	// Captain was the only role, so the account goes too.
	_, err = f.users.GetByID(context.Background(), user.ID)
	assert.Error(t, err)
}

func TestDeleteCaptainDetachesRoleFromMultiRoleUser(t *testing.T) {
	f := newAdminFixture(t)

	user, err := f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:            "Gurleen Brar",
		Email:           "gurleen@example.com",
		Password:        "secret123",
		Role:            models.RoleCaptain,
		Sport:           "Volleyball",
		TeamMemberCount: 8,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateUser(context.Background(), 1, CreateUserInput{
		Name:  "Gurleen Brar",
		Email: "gurleen@example.com",
		Role:  models.RoleStudent,
	})
	require.NoError(t, err)

	captain, err := f.captains.GetByCode(context.Background(), *user.CaptainCode, 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteCaptain(context.Background(), 1, captain.ID))

	remaining, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, remaining.HasRole(models.RoleCaptain))
	assert.True(t, remaining.HasRole(models.RoleStudent))
	assert.Nil(t, remaining.CaptainCode)
}
