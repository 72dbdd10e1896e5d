package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triance/backend/internal/testutil"
)

func TestUserService(t *testing.T) {
	store := testutil.Store(t)
	svc := NewUserService(store.Users, testutil.Logger(t))
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "ana", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = svc.CreateUser(ctx, "ana", "other@example.com")
	assert.ErrorIs(t, err, ErrConflict)

	for _, bad := range [][2]string{{"", "x@example.com"}, {"bo", ""}, {"bo", "not-an-email"}} {
		_, err = svc.CreateUser(ctx, bad[0], bad[1])
		assert.ErrorIs(t, err, ErrValidation, bad)
	}

	_, err = svc.CreateUser(ctx, "bo", "bo@example.com")
	require.NoError(t, err)

	got, err := svc.GetUserByUsername(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", got.Email)

	_, err = svc.GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "user 'ghost' not found", err.Error())

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana", users[0].Username)
}

func TestStatsSnapshot(t *testing.T) {
	f := newFixture(t)
	f.create(t, "ana", "", "Squat", "Row")

	snap, err := NewStatsService(f.store.Stats, testutil.Logger(t)).Snapshot(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, snap.Users)
	assert.EqualValues(t, 3, snap.Exercises)
	assert.EqualValues(t, 1, snap.Workouts)
	assert.EqualValues(t, 2, snap.LoggedExercises)
	assert.EqualValues(t, 2, snap.LoggedExerciseSets)
	assert.NotNil(t, snap.LatestUser)
}
