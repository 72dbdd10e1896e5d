package testutil

import (
	"context"
	"testing"

	"triance/backend/internal/domain"
	"triance/backend/internal/repository"
)

func SeedUser(tb testing.TB, ctx context.Context, store repository.Store, username string) *domain.User {
	tb.Helper()
	u := &domain.User{
		Username: username,
		Email:    username + "@example.com",
	}
	if err := store.Users.Create(ctx, u); err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedExercise adds a catalog entry. category may be empty.
func SeedExercise(tb testing.TB, ctx context.Context, store repository.Store, name string, category domain.WorkoutType) *domain.Exercise {
	tb.Helper()
	ex := &domain.Exercise{
		Name:           name,
		PrimaryMuscles: []string{"chest"},
	}
	if category != "" {
		c := category
		ex.Category = &c
	}
	if err := store.Exercises.Create(ctx, ex); err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	return ex
}

// Sets builds n sets numbered from 1 with the given reps and weight.
func Sets(n, reps int, weight float64) []domain.LoggedExerciseSet {
	sets := make([]domain.LoggedExerciseSet, n)
	for i := range sets {
		sets[i] = domain.LoggedExerciseSet{SetNumber: i + 1, Reps: reps, Weight: weight}
	}
	return sets
}
