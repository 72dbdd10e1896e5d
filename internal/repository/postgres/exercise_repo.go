package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// exerciseRepository implements repository.ExerciseRepository on GORM.
type exerciseRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepository(db *gorm.DB, baseLog *logger.Logger) repository.ExerciseRepository {
	return &exerciseRepository{db: db, log: baseLog.With("repo", "ExerciseRepository")}
}

// Create inserts all exercises in one transaction. Any duplicate name aborts
// the whole batch with ErrConflict.
func (r *exerciseRepository) Create(ctx context.Context, exercises ...*domain.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, ex := range exercises {
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.CreatedAt = now
		ex.UpdatedAt = now
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&exercises).Error
	})
	return translateError(err)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ex).Error; err != nil {
		return nil, translateError(err)
	}
	return &ex, nil
}

// GetByName matches the name exactly.
func (r *exerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&ex).Error; err != nil {
		return nil, translateError(err)
	}
	return &ex, nil
}

func (r *exerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update overwrites the columns present in patch and returns the stored row.
func (r *exerciseRepository) Update(ctx context.Context, id uuid.UUID, patch repository.ExercisePatch) (*domain.Exercise, error) {
	var updated domain.Exercise
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return err
		}

		values := map[string]interface{}{"updated_at": time.Now().UTC()}
		if patch.Name != nil {
			values["name"] = *patch.Name
		}
		if patch.PrimaryMuscles != nil {
			values["primary_muscles"] = datatypes.JSONSlice[string](*patch.PrimaryMuscles)
		}
		if patch.SecondaryMuscles != nil {
			values["secondary_muscles"] = datatypes.JSONSlice[string](*patch.SecondaryMuscles)
		}
		if patch.Category != nil {
			values["category"] = *patch.Category
		}
		if patch.Description != nil {
			values["description"] = *patch.Description
		}

		if err := tx.Model(&domain.Exercise{}).Where("id = ?", id).Updates(values).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &updated, nil
}

// Delete removes an exercise. An exercise still referenced by a logged
// exercise is not deleted and yields ErrConflict.
func (r *exerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&domain.LoggedExercise{}).Where("exercise_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return repository.ErrConflict
		}

		result := tx.Where("id = ?", id).Delete(&domain.Exercise{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	return translateError(err)
}
