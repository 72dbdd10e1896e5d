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

// LogExerciseInput identifies the exercise by id or, when ExerciseID is nil,
// by exact name.
type LogExerciseInput struct {
	ExerciseID *uuid.UUID
	Name       string
	Sets       []SetInput
}

// LoggedExerciseService edits single entries of an existing workout.
type LoggedExerciseService interface {
	// LogExercise appends one entry after the workout's existing entries.
	LogExercise(ctx context.Context, workoutID uuid.UUID, in LogExerciseInput) (*domain.LoggedExercise, error)
	ListEntries(ctx context.Context, workoutID uuid.UUID) ([]domain.LoggedExercise, error)
	// DeleteEntry removes every entry of the workout that references the
	// exercise and reports false when there was none.
	DeleteEntry(ctx context.Context, workoutID, exerciseID uuid.UUID) (bool, error)
}

type loggedExerciseService struct {
	entryRepo    repository.LoggedExerciseRepository
	exerciseRepo repository.ExerciseRepository
	log          *logger.Logger
}

func NewLoggedExerciseService(
	entryRepo repository.LoggedExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	baseLog *logger.Logger,
) LoggedExerciseService {
	return &loggedExerciseService{
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
		log:          baseLog.With("service", "LoggedExerciseService"),
	}
}

func (s *loggedExerciseService) LogExercise(ctx context.Context, workoutID uuid.UUID, in LogExerciseInput) (*domain.LoggedExercise, error) {
	name := strings.TrimSpace(in.Name)
	if in.ExerciseID == nil && name == "" {
		return nil, invalid("exercise_id or name is required")
	}
	label := name
	if in.ExerciseID != nil {
		label = in.ExerciseID.String()
	}
	if err := validateSets(label, in.Sets); err != nil {
		return nil, err
	}

	var (
		exercise *domain.Exercise
		err      error
	)
	if in.ExerciseID != nil {
		exercise, err = s.exerciseRepo.GetByID(ctx, *in.ExerciseID)
	} else {
		exercise, err = s.exerciseRepo.GetByName(ctx, name)
	}
	if err != nil {
		return nil, fromRepo(err, "resolve exercise", fmt.Sprintf("exercise '%s' not found", label), "")
	}

	entry := &domain.LoggedExercise{
		WorkoutID:  workoutID,
		ExerciseID: exercise.ID,
		Sets:       toSets(in.Sets),
	}
	if err := s.entryRepo.Append(ctx, entry); err != nil {
		return nil, fromRepo(err, "log exercise", "workout not found", "")
	}
	s.log.Info("exercise logged", "workout_id", workoutID, "exercise", exercise.Name, "sets", len(entry.Sets))
	return entry, nil
}

func (s *loggedExerciseService) ListEntries(ctx context.Context, workoutID uuid.UUID) ([]domain.LoggedExercise, error) {
	entries, err := s.entryRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, fromRepo(err, "list entries", "workout not found", "")
	}
	if entries == nil {
		entries = []domain.LoggedExercise{}
	}
	return entries, nil
}

func (s *loggedExerciseService) DeleteEntry(ctx context.Context, workoutID, exerciseID uuid.UUID) (bool, error) {
	removed, err := s.entryRepo.DeleteByExercise(ctx, workoutID, exerciseID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	if removed > 0 {
		s.log.Info("logged exercise removed", "workout_id", workoutID, "exercise_id", exerciseID, "entries", removed)
	}
	return removed > 0, nil
}
