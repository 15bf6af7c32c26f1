package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionBuildsLabelAndDates(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	session, err := svc.Create(context.Background(), CreateSessionInput{
		StartMonth: "April",
		EndMonth:   "March",
		Year:       2025,
	})
	require.NoError(t, err)

	assert.Equal(t, "Apr–Mar 2025", session.Label)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), session.StartDate)
	// End month precedes the start month, so it lands in the next year.
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), session.EndDate)
	assert.True(t, session.IsActive)
}

func TestCreateSessionSameYearRange(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	session, err := svc.Create(context.Background(), CreateSessionInput{
		StartMonth: "jan",
		EndMonth:   "Dec",
		Year:       2025,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jan–Dec 2025", session.Label)
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), session.EndDate)
}

func TestCreateSessionAcceptsSeptSpelling(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	session, err := svc.Create(context.Background(), CreateSessionInput{
		StartMonth: "Sept",
		EndMonth:   "August",
		Year:       2024,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sep–Aug 2024", session.Label)
}

func TestCreateSessionUnknownMonth(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	_, err := svc.Create(context.Background(), CreateSessionInput{
		StartMonth: "Aprul",
		EndMonth:   "March",
		Year:       2025,
	})
	assert.ErrorIs(t, err, ErrUnknownMonth)
}

func TestCreateSessionDuplicateLabel(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())
	input := CreateSessionInput{StartMonth: "April", EndMonth: "March", Year: 2025}

	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, ErrSessionConflict)
}

func TestCreateSessionDeactivatesPrevious(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo)

	first, err := svc.Create(context.Background(), CreateSessionInput{StartMonth: "April", EndMonth: "March", Year: 2024})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), CreateSessionInput{StartMonth: "April", EndMonth: "March", Year: 2025})
	require.NoError(t, err)

	active, err := svc.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	reloaded, err := svc.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestSetActiveSwitchesSessions(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	first, err := svc.Create(context.Background(), CreateSessionInput{StartMonth: "April", EndMonth: "March", Year: 2024})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateSessionInput{StartMonth: "April", EndMonth: "March", Year: 2025})
	require.NoError(t, err)

	activated, err := svc.SetActive(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	sessions, err := svc.List(context.Background())
	require.NoError(t, err)
	activeCount := 0
	for _, s := range sessions {
		if s.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestResolveFallsBackToActive(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	created, err := svc.Create(context.Background(), CreateSessionInput{StartMonth: "April", EndMonth: "March", Year: 2025})
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)

	explicit, err := svc.Resolve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, explicit.ID)
}

func TestResolveWithoutActiveSession(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	_, err := svc.Resolve(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
