package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// loggedExerciseRepository implements repository.LoggedExerciseRepository on GORM.
type loggedExerciseRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoggedExerciseRepository(db *gorm.DB, baseLog *logger.Logger) repository.LoggedExerciseRepository {
	return &loggedExerciseRepository{db: db, log: baseLog.With("repo", "LoggedExerciseRepository")}
}

// Append adds the entry after the workout's existing entries and loads the
// referenced exercise onto it.
func (r *loggedExerciseRepository) Append(ctx context.Context, entry *domain.LoggedExercise) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureWorkout(tx, entry.WorkoutID); err != nil {
			return err
		}

		var next int
		if err := tx.Model(&domain.LoggedExercise{}).
			Where("workout_id = ?", entry.WorkoutID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}
		entry.Position = next

		if err := insertEntry(tx, entry); err != nil {
			return err
		}
		if err := tx.Model(&domain.Workout{}).
			Where("id = ?", entry.WorkoutID).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return err
		}

		return entryChildren(tx).Where("logged_exercises.id = ?", entry.ID).First(entry).Error
	})
	if err != nil {
		r.log.Warn("logged exercise append rolled back", "workout_id", entry.WorkoutID, "error", err)
	}
	return translateError(err)
}

func (r *loggedExerciseRepository) ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]domain.LoggedExercise, error) {
	db := r.db.WithContext(ctx)
	if err := ensureWorkout(db, workoutID); err != nil {
		return nil, translateError(err)
	}

	var entries []domain.LoggedExercise
	err := entryChildren(db).
		Where("logged_exercises.workout_id = ?", workoutID).
		Order("logged_exercises.position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *loggedExerciseRepository) DeleteByExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteEntriesCount(tx, "workout_id = ? AND exercise_id = ?", workoutID, exerciseID)
		if err != nil {
			return err
		}
		removed = n
		if n == 0 {
			return nil
		}
		return tx.Model(&domain.Workout{}).
			Where("id = ?", workoutID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return 0, translateError(err)
	}
	return removed, nil
}

func entryChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Exercise").
		Preload("Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("logged_exercise_sets.position ASC")
		})
}
