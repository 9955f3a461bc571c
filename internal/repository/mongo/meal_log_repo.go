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

const mealLogCollectionName = "meal_logs"

// mongoMealLogRepository implements repository.MealLogRepository
type mongoMealLogRepository struct {
	collection *mongo.Collection
}

// NewMongoMealLogRepository creates a new meal log repository.
func NewMongoMealLogRepository(db *mongo.Database) repository.MealLogRepository {
	return &mongoMealLogRepository{
		collection: db.Collection(mealLogCollectionName),
	}
}

// Create inserts a meal log. Logs are append-only; there is no update path.
func (r *mongoMealLogRepository) Create(ctx context.Context, mealLog *domain.MealLog) (primitive.ObjectID, error) {
	if mealLog.UserID == primitive.NilObjectID || mealLog.PlanDayID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("meal log requires userId and planDayId")
	}
	mealLog.ID = primitive.NewObjectID()
	mealLog.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, mealLog)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal log ID")
	}
	return insertedID, nil
}

// GetByPlanDay retrieves all meal logs for a plan day in insertion order.
func (r *mongoMealLogRepository) GetByPlanDay(ctx context.Context, planDayID primitive.ObjectID) ([]domain.MealLog, error) {
	var logs []domain.MealLog
	filter := bson.M{"planDayId": planDayID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureMealLogIndexes creates necessary indexes. Call during startup.
func EnsureMealLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planDayId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
