package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// workoutRepository implements repository.WorkoutRepository on GORM. Child
// rows are written and removed explicitly; nothing relies on ORM cascades.
type workoutRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutRepository(db *gorm.DB, baseLog *logger.Logger) repository.WorkoutRepository {
	return &workoutRepository{db: db, log: baseLog.With("repo", "WorkoutRepository")}
}

// Create inserts the workout, its logged exercises and their sets in one
// transaction.
func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}
	workout.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(workout).Error; err != nil {
			return err
		}
		for i := range workout.LoggedExercises {
			workout.LoggedExercises[i].WorkoutID = workout.ID
			workout.LoggedExercises[i].Position = i
			if err := insertEntry(tx, &workout.LoggedExercises[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Warn("workout create rolled back", "workout_id", workout.ID, "error", err)
	}
	return translateError(err)
}

func (r *workoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	var workout domain.Workout
	err := withChildren(r.db.WithContext(ctx)).
		Where("workouts.id = ?", id).
		First(&workout).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &workout, nil
}

func (r *workoutRepository) GetLatestByUsername(ctx context.Context, username string) (*domain.Workout, error) {
	var workout domain.Workout
	err := withChildren(ownedBy(r.db.WithContext(ctx), username)).
		Order("workouts.created_time DESC").
		First(&workout).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &workout, nil
}

func (r *workoutRepository) GetLatestByUsernameAndType(ctx context.Context, username string, workoutType domain.WorkoutType) (*domain.Workout, error) {
	var workout domain.Workout
	err := withChildren(ownedBy(r.db.WithContext(ctx), username)).
		Where("workouts.workout_type = ?", string(workoutType)).
		Order("workouts.created_time DESC").
		First(&workout).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &workout, nil
}

// ListByUsername returns the user's workouts, newest first.
func (r *workoutRepository) ListByUsername(ctx context.Context, username string) ([]domain.Workout, error) {
	var workouts []domain.Workout
	err := withChildren(ownedBy(r.db.WithContext(ctx), username)).
		Order("workouts.created_time DESC").
		Order("workouts.id ASC").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	var workouts []domain.Workout
	err := withChildren(r.db.WithContext(ctx)).
		Order("workouts.created_time ASC").
		Order("workouts.id ASC").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update persists the listed scalar fields and, when a replacement is given,
// swaps the whole child collection. Both happen in the same transaction.
func (r *workoutRepository) Update(ctx context.Context, update repository.WorkoutUpdate) error {
	workout := update.Workout
	workout.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureWorkout(tx, workout.ID); err != nil {
			return err
		}

		values := map[string]interface{}{"updated_at": workout.UpdatedAt}
		for _, field := range update.Fields {
			switch field {
			case repository.FieldNotes:
				values["notes"] = workout.Notes
			case repository.FieldCreatedTime:
				values["created_time"] = workout.CreatedTime
			case repository.FieldWorkoutType:
				values["workout_type"] = workout.WorkoutType
			}
		}
		if err := tx.Model(&domain.Workout{}).Where("id = ?", workout.ID).Updates(values).Error; err != nil {
			return err
		}

		if update.Replacement == nil {
			return nil
		}
		if err := deleteEntries(tx, "workout_id = ?", workout.ID); err != nil {
			return err
		}
		for i := range update.Replacement {
			update.Replacement[i].WorkoutID = workout.ID
			update.Replacement[i].Position = i
			if err := insertEntry(tx, &update.Replacement[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Warn("workout update rolled back", "workout_id", workout.ID, "error", err)
	}
	return translateError(err)
}

// Delete removes the workout and everything it owns.
func (r *workoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureWorkout(tx, id); err != nil {
			return err
		}
		if err := deleteEntries(tx, "workout_id = ?", id); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Workout{}).Error
	})
	return translateError(err)
}

// withChildren preloads logged exercises, their exercise and their sets, all
// in submission order.
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LoggedExercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("logged_exercises.position ASC")
		}).
		Preload("LoggedExercises.Exercise").
		Preload("LoggedExercises.Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("logged_exercise_sets.position ASC")
		})
}

func ownedBy(db *gorm.DB, username string) *gorm.DB {
	return db.
		Joins("JOIN users ON users.id = workouts.user_id").
		Where("users.username = ?", username)
}

func ensureWorkout(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&domain.Workout{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// insertEntry writes one logged exercise and its sets. entry.WorkoutID must
// already be set.
func insertEntry(tx *gorm.DB, entry *domain.LoggedExercise) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
		return err
	}
	if len(entry.Sets) == 0 {
		return nil
	}
	for i := range entry.Sets {
		if entry.Sets[i].ID == uuid.Nil {
			entry.Sets[i].ID = uuid.New()
		}
		entry.Sets[i].LoggedExerciseID = entry.ID
		entry.Sets[i].Position = i
	}
	return tx.Create(&entry.Sets).Error
}

// deleteEntries removes the logged exercises matching the condition together
// with their sets.
func deleteEntries(tx *gorm.DB, query string, args ...interface{}) error {
	_, err := deleteEntriesCount(tx, query, args...)
	return err
}

// deleteEntriesCount is deleteEntries reporting how many logged exercises
// were removed.
func deleteEntriesCount(tx *gorm.DB, query string, args ...interface{}) (int64, error) {
	var ids []uuid.UUID
	if err := tx.Model(&domain.LoggedExercise{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("logged_exercise_id IN ?", ids).Delete(&domain.LoggedExerciseSet{}).Error; err != nil {
		return 0, err
	}
	result := tx.Where("id IN ?", ids).Delete(&domain.LoggedExercise{})
	return result.RowsAffected, result.Error
}
