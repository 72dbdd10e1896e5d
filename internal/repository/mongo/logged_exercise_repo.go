package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triance/backend/internal/domain"
	"triance/backend/internal/repository"
)

// mongoLoggedExerciseRepository edits the entry array embedded in a workout
// document.
type mongoLoggedExerciseRepository struct {
	collection *mongo.Collection
	exercises  *mongoExerciseRepository
}

func NewMongoLoggedExerciseRepository(db *mongo.Database) repository.LoggedExerciseRepository {
	return &mongoLoggedExerciseRepository{
		collection: db.Collection(workoutCollectionName),
		exercises:  &mongoExerciseRepository{collection: db.Collection(exerciseCollectionName)},
	}
}

// Append pushes the entry onto the end of the workout's array.
func (r *mongoLoggedExerciseRepository) Append(ctx context.Context, entry *domain.LoggedExercise) error {
	doc := toEntryDoc(entry)
	update := bson.M{
		"$push": bson.M{"logged_exercises": doc},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"logged_exercises": 1})

	var workout workoutDoc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": entry.WorkoutID.String()}, update, opts).Decode(&workout)
	if err != nil {
		return translateError(err)
	}
	entry.Position = len(workout.LoggedExercises) - 1

	catalog, err := r.exercises.byIDs(ctx, []string{doc.ExerciseID})
	if err != nil {
		return err
	}
	if ex, ok := catalog[doc.ExerciseID]; ok {
		entry.Exercise = &ex
	}
	return nil
}

func (r *mongoLoggedExerciseRepository) ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]domain.LoggedExercise, error) {
	var workout workoutDoc
	opts := options.FindOne().SetProjection(bson.M{"logged_exercises": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": workoutID.String()}, opts).Decode(&workout); err != nil {
		return nil, translateError(err)
	}

	var ids []string
	entries := make([]domain.LoggedExercise, len(workout.LoggedExercises))
	for i, e := range workout.LoggedExercises {
		entries[i] = e.toDomain(workoutID, i)
		ids = append(ids, e.ExerciseID)
	}
	catalog, err := r.exercises.byIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	attachExercises(entries, catalog)
	return entries, nil
}

// DeleteByExercise pulls every matching entry and counts them from the
// pre-image of the same update.
func (r *mongoLoggedExerciseRepository) DeleteByExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) (int64, error) {
	filter := bson.M{
		"_id":                          workoutID.String(),
		"logged_exercises.exercise_id": exerciseID.String(),
	}
	update := pullEntriesDoc(exerciseID, time.Now().UTC())
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"logged_exercises": 1})

	var before workoutDoc
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return countEntries(before.LoggedExercises, exerciseID), nil
}

// pullEntriesDoc removes every embedded entry logging exerciseID.
func pullEntriesDoc(exerciseID uuid.UUID, now time.Time) bson.M {
	return bson.M{
		"$pull": bson.M{"logged_exercises": bson.M{"exercise_id": exerciseID.String()}},
		"$set":  bson.M{"updated_at": now},
	}
}

func countEntries(entries []entryDoc, exerciseID uuid.UUID) int64 {
	var n int64
	for _, e := range entries {
		if e.ExerciseID == exerciseID.String() {
			n++
		}
	}
	return n
}
