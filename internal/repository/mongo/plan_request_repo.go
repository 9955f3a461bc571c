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

const planRequestCollectionName = "plan_requests"

// mongoPlanRequestRepository implements repository.PlanRequestRepository
type mongoPlanRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRequestRepository creates a new plan request repository.
func NewMongoPlanRequestRepository(db *mongo.Database) repository.PlanRequestRepository {
	return &mongoPlanRequestRepository{
		collection: db.Collection(planRequestCollectionName),
	}
}

// Create inserts an immutable generation-request record.
func (r *mongoPlanRequestRepository) Create(ctx context.Context, request *domain.PlanRequest) (primitive.ObjectID, error) {
	if request.UserID == primitive.NilObjectID || request.TemplateID == "" {
		return primitive.NilObjectID, errors.New("plan request requires userId and templateId")
	}
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted request ID")
	}
	return insertedID, nil
}

// GetByID retrieves a request record by its ID.
func (r *mongoPlanRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanRequest, error) {
	var request domain.PlanRequest
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// EnsurePlanRequestIndexes creates necessary indexes. Call during startup.
func EnsurePlanRequestIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
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
