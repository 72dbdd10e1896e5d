package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

type statsRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatsRepository(db *gorm.DB, baseLog *logger.Logger) repository.StatsRepository {
	return &statsRepository{db: db, log: baseLog.With("repo", "StatsRepository")}
}

// Counts reads the row count of every table plus the most recently created user.
func (r *statsRepository) Counts(ctx context.Context) (*repository.TableCounts, error) {
	db := r.db.WithContext(ctx)
	counts := &repository.TableCounts{TakenAt: time.Now().UTC()}

	targets := []struct {
		model interface{}
		dest  *int64
	}{
		{&domain.User{}, &counts.Users},
		{&domain.Exercise{}, &counts.Exercises},
		{&domain.Workout{}, &counts.Workouts},
		{&domain.LoggedExercise{}, &counts.LoggedExercises},
		{&domain.LoggedExerciseSet{}, &counts.LoggedExerciseSets},
	}
	for _, t := range targets {
		if err := db.Model(t.model).Count(t.dest).Error; err != nil {
			return nil, err
		}
	}

	var latest domain.User
	err := db.Order("created_at DESC").Order("username ASC").Limit(1).Take(&latest).Error
	switch {
	case err == nil:
		counts.LatestUser = &latest
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}
	return counts, nil
}
