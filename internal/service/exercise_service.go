package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// UncategorizedGroup collects exercises without a category.
const UncategorizedGroup = "Uncategorized"

// ExerciseInput describes a catalog entry to create.
type ExerciseInput struct {
	Name             string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Category         *string
	Description      *string
}

// ExercisePatch carries only the fields the caller supplied.
type ExercisePatch struct {
	Name             domain.Optional[string]
	PrimaryMuscles   domain.Optional[[]string]
	SecondaryMuscles domain.Optional[[]string]
	Category         domain.Optional[*string]
	Description      domain.Optional[*string]
}

// CategoryGroup is one bucket of the categorized catalog view.
type CategoryGroup struct {
	Category  string
	Exercises []domain.Exercise
}

// ExerciseService is the exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	// CreateExercises inserts the whole batch or nothing.
	CreateExercises(ctx context.Context, in []ExerciseInput) ([]domain.Exercise, error)
	GetExerciseByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	// GetExerciseByName matches exactly and returns NotFound naming the exercise.
	GetExerciseByName(ctx context.Context, name string) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, patch ExercisePatch) (*domain.Exercise, error)
	// DeleteExercise reports false when the exercise does not exist.
	DeleteExercise(ctx context.Context, id uuid.UUID) (bool, error)
	Categories() []domain.WorkoutType
	CategorizedExercises(ctx context.Context) ([]CategoryGroup, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	log          *logger.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, baseLog *logger.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		log:          baseLog.With("service", "ExerciseService"),
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	exercise, err := buildExercise(in)
	if err != nil {
		return nil, err
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflict("exercise '%s' already exists", exercise.Name)
		}
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	s.log.Info("exercise created", "exercise_id", exercise.ID, "name", exercise.Name)
	return exercise, nil
}

func (s *exerciseService) CreateExercises(ctx context.Context, in []ExerciseInput) ([]domain.Exercise, error) {
	if len(in) == 0 {
		return nil, invalid("at least one exercise is required")
	}
	exercises := make([]*domain.Exercise, len(in))
	seen := make(map[string]bool, len(in))
	for i, item := range in {
		ex, err := buildExercise(item)
		if err != nil {
			return nil, err
		}
		if seen[ex.Name] {
			return nil, conflict("exercise '%s' appears more than once in the batch", ex.Name)
		}
		seen[ex.Name] = true
		exercises[i] = ex
	}

	if err := s.exerciseRepo.Create(ctx, exercises...); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflict("one or more exercises already exist")
		}
		return nil, fmt.Errorf("create exercises: %w", err)
	}

	out := make([]domain.Exercise, len(exercises))
	for i, ex := range exercises {
		out[i] = *ex
	}
	s.log.Info("exercise batch created", "count", len(out))
	return out, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "get exercise", "exercise not found", "")
	}
	return exercise, nil
}

func (s *exerciseService) GetExerciseByName(ctx context.Context, name string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fromRepo(err, "get exercise", fmt.Sprintf("exercise '%s' not found", name), "")
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, id uuid.UUID, patch ExercisePatch) (*domain.Exercise, error) {
	var p repository.ExercisePatch

	if name, ok := patch.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalid("exercise name cannot be empty")
		}
		p.Name = &name
	}
	if muscles, ok := patch.PrimaryMuscles.Get(); ok {
		p.PrimaryMuscles = &muscles
	}
	if muscles, ok := patch.SecondaryMuscles.Get(); ok {
		p.SecondaryMuscles = &muscles
	}
	if raw, ok := patch.Category.Get(); ok {
		category, err := parseOptionalType(raw, "category")
		if err != nil {
			return nil, err
		}
		p.Category = &category
	}
	if desc, ok := patch.Description.Get(); ok {
		p.Description = &desc
	}

	conflictDetail := "exercise name already exists"
	if p.Name != nil {
		conflictDetail = fmt.Sprintf("exercise '%s' already exists", *p.Name)
	}
	exercise, err := s.exerciseRepo.Update(ctx, id, p)
	if err != nil {
		return nil, fromRepo(err, "update exercise", "exercise not found", conflictDetail)
	}
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, id uuid.UUID) (bool, error) {
	err := s.exerciseRepo.Delete(ctx, id)
	switch {
	case err == nil:
		s.log.Info("exercise deleted", "exercise_id", id)
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	case errors.Is(err, repository.ErrConflict):
		return false, conflict("exercise is still referenced by logged exercises")
	}
	return false, fmt.Errorf("delete exercise: %w", err)
}

func (s *exerciseService) Categories() []domain.WorkoutType {
	return domain.WorkoutTypes()
}

// CategorizedExercises groups the catalog by category in tag order. Empty
// categories are omitted and uncategorized exercises come last.
func (s *exerciseService) CategorizedExercises(ctx context.Context) ([]CategoryGroup, error) {
	exercises, err := s.ListExercises(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]domain.Exercise)
	for _, ex := range exercises {
		key := UncategorizedGroup
		if ex.Category != nil {
			key = ex.Category.String()
		}
		buckets[key] = append(buckets[key], ex)
	}

	var groups []CategoryGroup
	for _, t := range domain.WorkoutTypes() {
		if list, ok := buckets[t.String()]; ok {
			groups = append(groups, CategoryGroup{Category: t.String(), Exercises: list})
		}
	}
	if list, ok := buckets[UncategorizedGroup]; ok {
		groups = append(groups, CategoryGroup{Category: UncategorizedGroup, Exercises: list})
	}
	return groups, nil
}

func buildExercise(in ExerciseInput) (*domain.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("exercise name is required")
	}
	category, err := parseOptionalType(in.Category, "category")
	if err != nil {
		return nil, err
	}
	primary := in.PrimaryMuscles
	if primary == nil {
		primary = []string{}
	}
	return &domain.Exercise{
		Name:             name,
		PrimaryMuscles:   primary,
		SecondaryMuscles: in.SecondaryMuscles,
		Category:         category,
		Description:      in.Description,
	}, nil
}

// parseOptionalType maps an optional free-text tag onto the closed set. Nil
// stays nil; anything unrecognized is a validation failure naming field.
func parseOptionalType(raw *string, field string) (*domain.WorkoutType, error) {
	if raw == nil {
		return nil, nil
	}
	t, ok := domain.ParseWorkoutType(*raw)
	if !ok {
		return nil, invalid("%s '%s' is not one of %s", field, *raw, joinTypes())
	}
	return &t, nil
}

func joinTypes() string {
	types := domain.WorkoutTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
