package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harjotgill/sports-office/models"
)

func newGymFixture(t *testing.T) (GymSwimmingService, *fakeGymRepo) {
	t.Helper()
	gym := newFakeGymRepo()
	sessions := newFakeSessionRepo()
	require.NoError(t, sessions.Create(context.Background(), &models.Session{Label: "Apr–Mar 2025", IsActive: true}))
	return NewGymSwimmingService(gym, sessions, testActivityService()), gym
}

func TestEnrollDefaultsToActiveSession(t *testing.T) {
	svc, _ := newGymFixture(t)

	student, err := svc.Enroll(context.Background(), 1, GymSwimmingInput{
		Name: "Simran Kaur", URN: "2203456", Sport: models.FacilityGym,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, student.SessionID)
	assert.Equal(t, 1, student.CreatedBy)
}

func TestEnrollRejectsUnknownSport(t *testing.T) {
	svc, _ := newGymFixture(t)

	_, err := svc.Enroll(context.Background(), 1, GymSwimmingInput{
		Name: "Simran Kaur", URN: "2203456", Sport: "Cricket",
	})
	assert.ErrorIs(t, err, ErrUnknownFacilitySport)
}

func TestEnrollDuplicateURNWithinSport(t *testing.T) {
	svc, _ := newGymFixture(t)
	input := GymSwimmingInput{Name: "Simran Kaur", URN: "2203456", Sport: models.FacilityGym}

	_, err := svc.Enroll(context.Background(), 1, input)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), 1, input)
	assert.ErrorIs(t, err, ErrURNConflict)

	// The same urn may enroll in the other facility sport.
	input.Sport = models.FacilitySwimming
	_, err = svc.Enroll(context.Background(), 1, input)
	assert.NoError(t, err)
}

func TestUpdateMergesNonEmptyFields(t *testing.T) {
	svc, _ := newGymFixture(t)

	student, err := svc.Enroll(context.Background(), 1, GymSwimmingInput{
		Name: "Simran Kaur", URN: "2203456", Sport: models.FacilityGym, Branch: "CSE",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), student.ID, GymSwimmingInput{Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", updated.Phone)
	assert.Equal(t, "Simran Kaur", updated.Name)
	assert.Equal(t, "CSE", updated.Branch)
}

func TestDeleteUnknownStudent(t *testing.T) {
	svc, _ := newGymFixture(t)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
