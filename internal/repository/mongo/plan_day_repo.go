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

const planDayCollectionName = "plan_days"

// mongoPlanDayRepository implements repository.PlanDayRepository
type mongoPlanDayRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDayRepository creates a new plan day repository.
func NewMongoPlanDayRepository(db *mongo.Database) repository.PlanDayRepository {
	return &mongoPlanDayRepository{
		collection: db.Collection(planDayCollectionName),
	}
}

// Create inserts a nutrition plan day. The unique (userId, date) index makes
// concurrent lazy creation safe; losers get ErrConflict and re-read.
func (r *mongoPlanDayRepository) Create(ctx context.Context, day *domain.PlanDay) (primitive.ObjectID, error) {
	if day.UserID == primitive.NilObjectID || day.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan day requires userId and planId")
	}
	day.ID = primitive.NewObjectID()
	day.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, day)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan day ID")
	}
	return insertedID, nil
}

// GetByUserAndDate retrieves the plan day for a given calendar day.
func (r *mongoPlanDayRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.PlanDay, error) {
	var day domain.PlanDay
	filter := bson.M{"userId": userID, "date": date}
	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// EnsurePlanDayIndexes creates necessary indexes. Call during startup.
func EnsurePlanDayIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
