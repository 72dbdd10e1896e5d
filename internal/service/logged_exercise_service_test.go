package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triance/backend/internal/testutil"
)

func newLoggedExerciseService(t *testing.T, f *fixture) LoggedExerciseService {
	t.Helper()
	return NewLoggedExerciseService(f.store.LoggedExercises, f.store.Exercises, testutil.Logger(t))
}

func TestLogExerciseByNameAndID(t *testing.T) {
	f := newFixture(t)
	svc := newLoggedExerciseService(t, f)
	w := f.create(t, "ana", "", "Squat")

	byName, err := svc.LogExercise(f.ctx, w.ID, LogExerciseInput{Name: "Row", Sets: entry("Row", 2).Sets})
	require.NoError(t, err)
	require.NotNil(t, byName.Exercise)
	assert.Equal(t, "Row", byName.Exercise.Name)
	assert.Len(t, byName.Sets, 2)

	bench, err := f.store.Exercises.GetByName(f.ctx, "Bench Press")
	require.NoError(t, err)
	byID, err := svc.LogExercise(f.ctx, w.ID, LogExerciseInput{ExerciseID: &bench.ID, Sets: entry("", 1).Sets})
	require.NoError(t, err)
	assert.Equal(t, bench.ID, byID.ExerciseID)

	entries, err := svc.ListEntries(f.ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Squat", entries[0].Exercise.Name)
	assert.Equal(t, "Row", entries[1].Exercise.Name)
	assert.Equal(t, "Bench Press", entries[2].Exercise.Name)
}

func TestLogExerciseFailures(t *testing.T) {
	f := newFixture(t)
	svc := newLoggedExerciseService(t, f)
	w := f.create(t, "ana", "", "Squat")

	_, err := svc.LogExercise(f.ctx, w.ID, LogExerciseInput{Sets: entry("", 1).Sets})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.LogExercise(f.ctx, w.ID, LogExerciseInput{Name: "Row"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.LogExercise(f.ctx, w.ID, LogExerciseInput{Name: "Nonexistent", Sets: entry("", 1).Sets})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "exercise 'Nonexistent' not found", err.Error())

	_, err = svc.LogExercise(f.ctx, uuid.New(), LogExerciseInput{Name: "Row", Sets: entry("", 1).Sets})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "workout not found", err.Error())

	_, err = svc.ListEntries(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.EqualValues(t, 1, f.counts(t).LoggedExercises)
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t)
	svc := newLoggedExerciseService(t, f)
	w := f.create(t, "ana", "", "Squat", "Row")
	squat := w.LoggedExercises[0].ExerciseID

	deleted, err := svc.DeleteEntry(f.ctx, w.ID, squat)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteEntry(f.ctx, w.ID, squat)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteEntry(f.ctx, uuid.New(), squat)
	require.NoError(t, err)
	assert.False(t, deleted)

	entries, err := svc.ListEntries(f.ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Row", entries[0].Exercise.Name)
}
