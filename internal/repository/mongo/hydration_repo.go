package mongo

import (
	"context"
	"errors"
	"time"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const hydrationCollectionName = "hydration_logs"

// mongoHydrationRepository implements repository.HydrationRepository
type mongoHydrationRepository struct {
	collection *mongo.Collection
}

// NewMongoHydrationRepository creates a new hydration log repository.
func NewMongoHydrationRepository(db *mongo.Database) repository.HydrationRepository {
	return &mongoHydrationRepository{
		collection: db.Collection(hydrationCollectionName),
	}
}

// Create inserts a hydration log entry.
func (r *mongoHydrationRepository) Create(ctx context.Context, hydrationLog *domain.HydrationLog) (primitive.ObjectID, error) {
	if hydrationLog.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("hydration log requires userId")
	}
	if hydrationLog.AmountMl <= 0 {
		return primitive.NilObjectID, errors.New("hydration amount must be positive")
	}
	hydrationLog.ID = primitive.NewObjectID()
	hydrationLog.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, hydrationLog)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted hydration log ID")
	}
	return insertedID, nil
}

// SumForDate aggregates the total ml logged by a user on a calendar day.
func (r *mongoHydrationRepository) SumForDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "date": date}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amountMl"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// EnsureHydrationIndexes creates necessary indexes. Call during startup.
func EnsureHydrationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
