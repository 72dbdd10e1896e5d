package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// SetInput is one performed set as submitted.
type SetInput struct {
	SetNumber int
	Reps      int
	Weight    float64
}

// LoggedExerciseInput names a catalog exercise and the sets performed.
type LoggedExerciseInput struct {
	Name string
	Sets []SetInput
}

type CreateWorkoutInput struct {
	Username        string
	Notes           *string
	WorkoutType     *string
	LoggedExercises []LoggedExerciseInput
}

// WorkoutPatch carries only the fields the caller supplied. An explicit null
// for notes or workout_type clears the column.
type WorkoutPatch struct {
	Notes           domain.Optional[*string]
	CreatedTime     domain.Optional[*time.Time]
	WorkoutType     domain.Optional[*string]
	LoggedExercises domain.Optional[[]LoggedExerciseInput]
}

// WorkoutService manages the workout aggregate and answers queries over it.
// Read methods return nil without error when nothing matches.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, in CreateWorkoutInput) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id uuid.UUID, patch WorkoutPatch) (*domain.Workout, error)
	// DeleteWorkout reports false when the workout does not exist.
	DeleteWorkout(ctx context.Context, id uuid.UUID) (bool, error)

	GetWorkoutByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	GetLatestWorkout(ctx context.Context, username string) (*domain.Workout, error)
	ListWorkoutsByUsername(ctx context.Context, username string) ([]domain.Workout, error)
	// GetLatestWorkoutByType treats an unrecognized tag as no match.
	GetLatestWorkoutByType(ctx context.Context, username, rawType string) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
}

// WorkoutOption customizes a workout service.
type WorkoutOption func(*workoutService)

// WithClock replaces the source of created_time for new workouts.
func WithClock(now func() time.Time) WorkoutOption {
	return func(s *workoutService) { s.now = now }
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
	log          *logger.Logger
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	baseLog *logger.Logger,
	opts ...WorkoutOption,
) WorkoutService {
	s := &workoutService{
		workoutRepo:  workoutRepo,
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		now:          time.Now,
		log:          baseLog.With("service", "WorkoutService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateWorkout validates the payload, resolves the user and every exercise
// name, then persists the aggregate in one transaction.
func (s *workoutService) CreateWorkout(ctx context.Context, in CreateWorkoutInput) (*domain.Workout, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, invalid("username is required")
	}
	if len(in.LoggedExercises) == 0 {
		return nil, invalid("a workout needs at least one logged exercise")
	}
	if err := validateEntries(in.LoggedExercises); err != nil {
		return nil, err
	}
	workoutType, err := parseOptionalType(in.WorkoutType, "workout_type")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fromRepo(err, "resolve user", fmt.Sprintf("user '%s' not found", in.Username), "")
	}
	entries, err := s.resolveEntries(ctx, in.LoggedExercises)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		UserID:          user.ID,
		CreatedTime:     s.timestamp(),
		Notes:           in.Notes,
		WorkoutType:     workoutType,
		LoggedExercises: entries,
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, fromRepo(err, "create workout", "workout not found", "workout conflicts with existing data")
	}
	s.log.Info("workout created",
		"workout_id", workout.ID,
		"username", user.Username,
		"logged_exercises", len(entries),
		"sets", workout.SetCount(),
	)
	return s.reload(ctx, workout.ID)
}

// patchField applies one field of a patch to w and reports whether the field
// was present.
type patchField struct {
	name  repository.WorkoutField
	apply func(w *domain.Workout, p WorkoutPatch) (bool, error)
}

var workoutPatchFields = []patchField{
	{repository.FieldNotes, func(w *domain.Workout, p WorkoutPatch) (bool, error) {
		notes, ok := p.Notes.Get()
		if ok {
			w.Notes = notes
		}
		return ok, nil
	}},
	{repository.FieldCreatedTime, func(w *domain.Workout, p WorkoutPatch) (bool, error) {
		created, ok := p.CreatedTime.Get()
		if !ok {
			return false, nil
		}
		if created == nil || created.IsZero() {
			return false, invalid("created_time cannot be cleared")
		}
		w.CreatedTime = created.UTC()
		return true, nil
	}},
	{repository.FieldWorkoutType, func(w *domain.Workout, p WorkoutPatch) (bool, error) {
		raw, ok := p.WorkoutType.Get()
		if !ok {
			return false, nil
		}
		t, err := parseOptionalType(raw, "workout_type")
		if err != nil {
			return false, err
		}
		w.WorkoutType = t
		return true, nil
	}},
}

// UpdateWorkout applies the present fields of patch. A non-empty
// logged_exercises list replaces every existing entry in the same
// transaction as the scalar changes; its names are resolved first, so an
// unknown exercise leaves the workout untouched.
func (s *workoutService) UpdateWorkout(ctx context.Context, id uuid.UUID, patch WorkoutPatch) (*domain.Workout, error) {
	replacement, replace := patch.LoggedExercises.Get()
	replace = replace && len(replacement) > 0
	if replace {
		if err := validateEntries(replacement); err != nil {
			return nil, err
		}
	}

	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "load workout", "workout not found", "")
	}

	update := repository.WorkoutUpdate{Workout: workout}
	for _, f := range workoutPatchFields {
		applied, err := f.apply(workout, patch)
		if err != nil {
			return nil, err
		}
		if applied {
			update.Fields = append(update.Fields, f.name)
		}
	}

	if replace {
		entries, err := s.resolveEntries(ctx, replacement)
		if err != nil {
			return nil, err
		}
		update.Replacement = entries
	}

	if err := s.workoutRepo.Update(ctx, update); err != nil {
		return nil, fromRepo(err, "update workout", "workout not found", "workout conflicts with existing data")
	}
	s.log.Info("workout updated", "workout_id", id, "fields", update.Fields, "replaced_entries", replace)
	return s.reload(ctx, id)
}

func (s *workoutService) DeleteWorkout(ctx context.Context, id uuid.UUID) (bool, error) {
	err := s.workoutRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}
	s.log.Info("workout deleted", "workout_id", id)
	return true, nil
}

func (s *workoutService) GetWorkoutByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	return absentIfNotFound(s.workoutRepo.GetByID(ctx, id))
}

func (s *workoutService) GetLatestWorkout(ctx context.Context, username string) (*domain.Workout, error) {
	return absentIfNotFound(s.workoutRepo.GetLatestByUsername(ctx, username))
}

func (s *workoutService) ListWorkoutsByUsername(ctx context.Context, username string) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

func (s *workoutService) GetLatestWorkoutByType(ctx context.Context, username, rawType string) (*domain.Workout, error) {
	workoutType, ok := domain.ParseWorkoutType(rawType)
	if !ok {
		return nil, nil
	}
	return absentIfNotFound(s.workoutRepo.GetLatestByUsernameAndType(ctx, username, workoutType))
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

// resolveEntries looks every name up in the catalog and builds the children
// in input order. The first unknown name fails the whole call.
func (s *workoutService) resolveEntries(ctx context.Context, in []LoggedExerciseInput) ([]domain.LoggedExercise, error) {
	resolved := make(map[string]uuid.UUID, len(in))
	entries := make([]domain.LoggedExercise, len(in))
	for i, item := range in {
		id, ok := resolved[item.Name]
		if !ok {
			exercise, err := s.exerciseRepo.GetByName(ctx, item.Name)
			if err != nil {
				return nil, fromRepo(err, "resolve exercise", fmt.Sprintf("exercise '%s' not found", item.Name), "")
			}
			id = exercise.ID
			resolved[item.Name] = id
		}
		entries[i] = domain.LoggedExercise{ExerciseID: id, Sets: toSets(item.Sets)}
	}
	return entries, nil
}

func (s *workoutService) reload(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "reload workout", "workout not found", "")
	}
	return workout, nil
}

// timestamp is truncated to microseconds, the coarsest precision of the
// supported stores.
func (s *workoutService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func absentIfNotFound(w *domain.Workout, err error) (*domain.Workout, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load workout: %w", err)
	}
	return w, nil
}

func validateEntries(entries []LoggedExerciseInput) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return invalid("logged_exercises[%d]: exercise name is required", i)
		}
		if err := validateSets(e.Name, e.Sets); err != nil {
			return err
		}
	}
	return nil
}

func validateSets(label string, sets []SetInput) error {
	if len(sets) == 0 {
		return invalid("exercise '%s' needs at least one set", label)
	}
	for i, set := range sets {
		switch {
		case set.SetNumber <= 0:
			return invalid("exercise '%s' set %d: set_number must be positive", label, i+1)
		case set.Reps <= 0:
			return invalid("exercise '%s' set %d: reps must be positive", label, i+1)
		case set.Weight < 0:
			return invalid("exercise '%s' set %d: weight cannot be negative", label, i+1)
		}
	}
	return nil
}

func toSets(in []SetInput) []domain.LoggedExerciseSet {
	sets := make([]domain.LoggedExerciseSet, len(in))
	for i, s := range in {
		sets[i] = domain.LoggedExerciseSet{Position: i, SetNumber: s.SetNumber, Reps: s.Reps, Weight: s.Weight}
	}
	return sets
}
