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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan record in GENERATED state.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.PlanRecord) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.RequestID == primitive.NilObjectID || plan.PlanType == "" {
		return primitive.NilObjectID, errors.New("plan requires userId, requestId, and planType")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan record by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanRecord, error) {
	var plan domain.PlanRecord
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByUser retrieves all plan records for a user, newest first.
func (r *mongoPlanRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanRecord, error) {
	var plans []domain.PlanRecord
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetActive retrieves the single active plan for a user and plan type.
func (r *mongoPlanRepository) GetActive(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType) (*domain.PlanRecord, error) {
	var plan domain.PlanRecord
	filter := bson.M{"userId": userID, "planType": planType, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// CountByUserAndType counts all plan records for (userId, planType). The plan
// service uses this immediately after insert to detect the user's first plan.
func (r *mongoPlanRepository) CountByUserAndType(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType) (int64, error) {
	filter := bson.M{"userId": userID, "planType": planType}
	return r.collection.CountDocuments(ctx, filter)
}

// DeactivateOthers archives every active plan of the given type for the user
// except excludeID, clearing the start date.
func (r *mongoPlanRepository) DeactivateOthers(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, excludeID primitive.ObjectID) error {
	filter := bson.M{
		"userId":   userID,
		"planType": planType,
		"isActive": true,
		"_id":      bson.M{"$ne": excludeID},
	}
	update := bson.M{
		"$set": bson.M{
			"isActive":  false,
			"status":    domain.PlanArchived,
			"updatedAt": time.Now().UTC(),
		},
		"$unset": bson.M{"planStartDate": ""},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// SetActive flags the plan active with the given start date. A duplicate-key
// error from the partial unique index means another plan won the race.
func (r *mongoPlanRepository) SetActive(ctx context.Context, planID primitive.ObjectID, startDate time.Time) error {
	filter := bson.M{"_id": planID}
	update := bson.M{
		"$set": bson.M{
			"isActive":      true,
			"status":        domain.PlanActive,
			"planStartDate": startDate,
			"updatedAt":     time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetArchiveObjectKey records the object-storage key holding the archived
// raw response.
func (r *mongoPlanRepository) SetArchiveObjectKey(ctx context.Context, planID primitive.ObjectID, objectKey string) error {
	filter := bson.M{"_id": planID}
	update := bson.M{
		"$set": bson.M{
			"archiveObjectKey": objectKey,
			"updatedAt":        time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planType", Value: 1}},
			Options: options.Index(),
		},
		{
			// Partial unique index backing the at-most-one-active invariant.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "planType", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
