package mongo

import (
	"time"

	"github.com/google/uuid"

	"triance/backend/internal/domain"
)

// Documents keep ids as canonical uuid strings so both backends hand out the
// same identifiers. A workout is stored as one document embedding its logged
// exercises and sets, which makes every aggregate write a single-document
// operation.

type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"created_at"`
}

type exerciseDoc struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	PrimaryMuscles   []string  `bson:"primary_muscles"`
	SecondaryMuscles []string  `bson:"secondary_muscles,omitempty"`
	Category         *string   `bson:"category"`
	Description      *string   `bson:"description"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

type workoutDoc struct {
	ID              string     `bson:"_id"`
	UserID          string     `bson:"user_id"`
	CreatedTime     time.Time  `bson:"created_time"`
	Notes           *string    `bson:"notes"`
	WorkoutType     *string    `bson:"workout_type"`
	UpdatedAt       time.Time  `bson:"updated_at"`
	LoggedExercises []entryDoc `bson:"logged_exercises"`
}

type entryDoc struct {
	ID         string   `bson:"id"`
	ExerciseID string   `bson:"exercise_id"`
	Sets       []setDoc `bson:"sets"`
}

type setDoc struct {
	ID        string  `bson:"id"`
	SetNumber int     `bson:"set_number"`
	Reps      int     `bson:"reps"`
	Weight    float64 `bson:"weight"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{ID: u.ID.String(), Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{ID: parseID(d.ID), Username: d.Username, Email: d.Email, CreatedAt: d.CreatedAt}
}

func toExerciseDoc(e *domain.Exercise) exerciseDoc {
	return exerciseDoc{
		ID:               e.ID.String(),
		Name:             e.Name,
		PrimaryMuscles:   []string(e.PrimaryMuscles),
		SecondaryMuscles: []string(e.SecondaryMuscles),
		Category:         typeToString(e.Category),
		Description:      e.Description,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (d exerciseDoc) toDomain() domain.Exercise {
	return domain.Exercise{
		ID:               parseID(d.ID),
		Name:             d.Name,
		PrimaryMuscles:   d.PrimaryMuscles,
		SecondaryMuscles: d.SecondaryMuscles,
		Category:         stringToType(d.Category),
		Description:      d.Description,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// toEntryDoc assigns any missing ids on the domain entry and its sets.
func toEntryDoc(le *domain.LoggedExercise) entryDoc {
	if le.ID == uuid.Nil {
		le.ID = uuid.New()
	}
	doc := entryDoc{ID: le.ID.String(), ExerciseID: le.ExerciseID.String(), Sets: make([]setDoc, len(le.Sets))}
	for i := range le.Sets {
		s := &le.Sets[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.LoggedExerciseID = le.ID
		s.Position = i
		doc.Sets[i] = setDoc{ID: s.ID.String(), SetNumber: s.SetNumber, Reps: s.Reps, Weight: s.Weight}
	}
	return doc
}

func toEntryDocs(workoutID uuid.UUID, entries []domain.LoggedExercise) []entryDoc {
	docs := make([]entryDoc, len(entries))
	for i := range entries {
		entries[i].WorkoutID = workoutID
		entries[i].Position = i
		docs[i] = toEntryDoc(&entries[i])
	}
	return docs
}

func (d entryDoc) toDomain(workoutID uuid.UUID, position int) domain.LoggedExercise {
	le := domain.LoggedExercise{
		ID:         parseID(d.ID),
		WorkoutID:  workoutID,
		ExerciseID: parseID(d.ExerciseID),
		Position:   position,
		Sets:       make([]domain.LoggedExerciseSet, len(d.Sets)),
	}
	for i, s := range d.Sets {
		le.Sets[i] = domain.LoggedExerciseSet{
			ID:               parseID(s.ID),
			LoggedExerciseID: le.ID,
			Position:         i,
			SetNumber:        s.SetNumber,
			Reps:             s.Reps,
			Weight:           s.Weight,
		}
	}
	return le
}

func (d workoutDoc) toDomain() domain.Workout {
	w := domain.Workout{
		ID:              parseID(d.ID),
		UserID:          parseID(d.UserID),
		CreatedTime:     d.CreatedTime,
		Notes:           d.Notes,
		WorkoutType:     stringToType(d.WorkoutType),
		UpdatedAt:       d.UpdatedAt,
		LoggedExercises: make([]domain.LoggedExercise, len(d.LoggedExercises)),
	}
	for i, e := range d.LoggedExercises {
		w.LoggedExercises[i] = e.toDomain(w.ID, i)
	}
	return w
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func typeToString(t *domain.WorkoutType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func stringToType(s *string) *domain.WorkoutType {
	if s == nil {
		return nil
	}
	t := domain.WorkoutType(*s)
	return &t
}
