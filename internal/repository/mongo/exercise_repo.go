package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
	workouts   *mongo.Collection
	log        *logger.Logger
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database, baseLog *logger.Logger) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
		workouts:   db.Collection(workoutCollectionName),
		log:        baseLog.With("repo", "MongoExerciseRepository"),
	}
}

// Create inserts the exercises. A batch of more than one runs inside a
// multi-document transaction, which requires a replica set.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercises ...*domain.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(exercises))
	for i, ex := range exercises {
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.CreatedAt = now
		ex.UpdatedAt = now
		docs[i] = toExerciseDoc(ex)
	}

	if len(docs) == 1 {
		_, err := r.collection.InsertOne(ctx, docs[0])
		return translateError(err)
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.collection.InsertMany(sc, docs)
	})
	if err != nil {
		r.log.Warn("exercise batch rolled back", "size", len(docs), "error", err)
	}
	return translateError(err)
}

func (r *mongoExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoExerciseRepository) findOne(ctx context.Context, filter bson.M) (*domain.Exercise, error) {
	var doc exerciseDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	ex := doc.toDomain()
	return &ex, nil
}

func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoExerciseRepository) find(ctx context.Context, filter bson.M) ([]domain.Exercise, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []exerciseDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	exercises := make([]domain.Exercise, len(docs))
	for i, d := range docs {
		exercises[i] = d.toDomain()
	}
	return exercises, nil
}

func (r *mongoExerciseRepository) Update(ctx context.Context, id uuid.UUID, patch repository.ExercisePatch) (*domain.Exercise, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.PrimaryMuscles != nil {
		set["primary_muscles"] = *patch.PrimaryMuscles
	}
	if patch.SecondaryMuscles != nil {
		set["secondary_muscles"] = *patch.SecondaryMuscles
	}
	if patch.Category != nil {
		set["category"] = typeToString(*patch.Category)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc exerciseDoc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	ex := doc.toDomain()
	return &ex, nil
}

// Delete refuses to remove an exercise that any workout still references.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := r.workouts.CountDocuments(ctx, bson.M{"logged_exercises.exercise_id": id.String()})
	if err != nil {
		return err
	}
	if refs > 0 {
		return repository.ErrConflict
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// byIDs loads the exercises referenced by ids, keyed by id.
func (r *mongoExerciseRepository) byIDs(ctx context.Context, ids []string) (map[string]domain.Exercise, error) {
	out := make(map[string]domain.Exercise, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	exercises, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, ex := range exercises {
		out[ex.ID.String()] = ex
	}
	return out, nil
}
