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
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// mongoWorkoutRepository implements repository.WorkoutRepository. The whole
// aggregate lives in one document, so each write is atomic on its own.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
	exercises  *mongoExerciseRepository
	log        *logger.Logger
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database, baseLog *logger.Logger) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
		users:      db.Collection(userCollectionName),
		exercises:  &mongoExerciseRepository{collection: db.Collection(exerciseCollectionName)},
		log:        baseLog.With("repo", "MongoWorkoutRepository"),
	}
}

func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}
	workout.UpdatedAt = time.Now().UTC()

	doc := workoutDoc{
		ID:              workout.ID.String(),
		UserID:          workout.UserID.String(),
		CreatedTime:     workout.CreatedTime,
		Notes:           workout.Notes,
		WorkoutType:     typeToString(workout.WorkoutType),
		UpdatedAt:       workout.UpdatedAt,
		LoggedExercises: toEntryDocs(workout.ID, workout.LoggedExercises),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, nil)
}

func (r *mongoWorkoutRepository) GetLatestByUsername(ctx context.Context, username string) (*domain.Workout, error) {
	userID, err := r.userID(ctx, username)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"user_id": userID}, newestFirst())
}

func (r *mongoWorkoutRepository) GetLatestByUsernameAndType(ctx context.Context, username string, workoutType domain.WorkoutType) (*domain.Workout, error) {
	userID, err := r.userID(ctx, username)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"user_id": userID, "workout_type": string(workoutType)}, newestFirst())
}

func (r *mongoWorkoutRepository) ListByUsername(ctx context.Context, username string) ([]domain.Workout, error) {
	userID, err := r.userID(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return []domain.Workout{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user_id": userID}, newestFirst())
}

func (r *mongoWorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "created_time", Value: 1}, {Key: "_id", Value: 1}})
}

// Update sets the listed fields and, with a replacement, the whole embedded
// entry array in a single UpdateOne.
func (r *mongoWorkoutRepository) Update(ctx context.Context, update repository.WorkoutUpdate) error {
	workout := update.Workout
	workout.UpdatedAt = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID.String()}, bson.M{"$set": workoutSetDoc(update)})
	if err != nil {
		r.log.Warn("workout update failed", "workout_id", workout.ID, "error", err)
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// workoutSetDoc builds the $set body of Update: updated_at, the listed scalar
// fields, and the embedded entry array when a replacement is given.
func workoutSetDoc(update repository.WorkoutUpdate) bson.M {
	workout := update.Workout
	set := bson.M{"updated_at": workout.UpdatedAt}
	for _, field := range update.Fields {
		switch field {
		case repository.FieldNotes:
			set["notes"] = workout.Notes
		case repository.FieldCreatedTime:
			set["created_time"] = workout.CreatedTime
		case repository.FieldWorkoutType:
			set["workout_type"] = typeToString(workout.WorkoutType)
		}
	}
	if update.Replacement != nil {
		set["logged_exercises"] = toEntryDocs(workout.ID, update.Replacement)
	}
	return set
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) userID(ctx context.Context, username string) (string, error) {
	var doc userDoc
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	if err := r.users.FindOne(ctx, bson.M{"username": username}, opts).Decode(&doc); err != nil {
		return "", translateError(err)
	}
	return doc.ID, nil
}

func (r *mongoWorkoutRepository) findOne(ctx context.Context, filter bson.M, sort bson.D) (*domain.Workout, error) {
	opts := options.FindOne()
	if sort != nil {
		opts.SetSort(sort)
	}
	var doc workoutDoc
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	workouts, err := r.hydrate(ctx, []workoutDoc{doc})
	if err != nil {
		return nil, err
	}
	return &workouts[0], nil
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.hydrate(ctx, docs)
}

// hydrate converts documents and attaches the referenced catalog exercises.
func (r *mongoWorkoutRepository) hydrate(ctx context.Context, docs []workoutDoc) ([]domain.Workout, error) {
	seen := map[string]bool{}
	var ids []string
	for _, d := range docs {
		for _, e := range d.LoggedExercises {
			if !seen[e.ExerciseID] {
				seen[e.ExerciseID] = true
				ids = append(ids, e.ExerciseID)
			}
		}
	}
	catalog, err := r.exercises.byIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	workouts := make([]domain.Workout, len(docs))
	for i, d := range docs {
		workouts[i] = d.toDomain()
		attachExercises(workouts[i].LoggedExercises, catalog)
	}
	return workouts, nil
}

func attachExercises(entries []domain.LoggedExercise, catalog map[string]domain.Exercise) {
	for i := range entries {
		if ex, ok := catalog[entries[i].ExerciseID.String()]; ok {
			entries[i].Exercise = &ex
		}
	}
}

func newestFirst() bson.D {
	return bson.D{{Key: "created_time", Value: -1}, {Key: "_id", Value: 1}}
}
