package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triance/backend/internal/repository"
)

type mongoStatsRepository struct {
	db *mongo.Database
}

func NewMongoStatsRepository(db *mongo.Database) repository.StatsRepository {
	return &mongoStatsRepository{db: db}
}

func (r *mongoStatsRepository) Counts(ctx context.Context) (*repository.TableCounts, error) {
	counts := &repository.TableCounts{TakenAt: time.Now().UTC()}

	var err error
	if counts.Users, err = r.db.Collection(userCollectionName).CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if counts.Exercises, err = r.db.Collection(exerciseCollectionName).CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	workouts := r.db.Collection(workoutCollectionName)
	if counts.Workouts, err = workouts.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$logged_exercises"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "entries", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "sets", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$logged_exercises.sets", bson.A{}}}}},
			}}}},
		}}},
	}
	cursor, err := workouts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Entries int64 `bson:"entries"`
		Sets    int64 `bson:"sets"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		counts.LoggedExercises = totals[0].Entries
		counts.LoggedExerciseSets = totals[0].Sets
	}

	var latest userDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "username", Value: 1}})
	err = r.db.Collection(userCollectionName).FindOne(ctx, bson.M{}, opts).Decode(&latest)
	switch {
	case err == nil:
		u := latest.toDomain()
		counts.LatestUser = &u
	case errors.Is(err, mongo.ErrNoDocuments):
	default:
		return nil, err
	}
	return counts, nil
}
