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

const sessionLogCollectionName = "session_logs"

// mongoSessionLogRepository implements repository.SessionLogRepository
type mongoSessionLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionLogRepository creates a new session log repository.
func NewMongoSessionLogRepository(db *mongo.Database) repository.SessionLogRepository {
	return &mongoSessionLogRepository{
		collection: db.Collection(sessionLogCollectionName),
	}
}

// BulkCreate inserts the full materialized schedule in one call. Ordered
// inserts so a duplicate (planId, week, day) aborts the batch; inside the
// activation transaction that rolls the whole activation back.
func (r *mongoSessionLogRepository) BulkCreate(ctx context.Context, logs []domain.SessionLog) error {
	if len(logs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(logs))
	for i := range logs {
		logs[i].ID = primitive.NewObjectID()
		logs[i].CreatedAt = now
		logs[i].UpdatedAt = now
		docs = append(docs, logs[i])
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID retrieves a session log by its ID.
func (r *mongoSessionLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionLog, error) {
	var sessionLog domain.SessionLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sessionLog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sessionLog, nil
}

// GetByUserAndDate retrieves the session log scheduled for a given calendar
// day. Date must be midnight UTC, matching how materialization stores it.
func (r *mongoSessionLogRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.SessionLog, error) {
	var sessionLog domain.SessionLog
	filter := bson.M{"userId": userID, "workoutDate": date}
	err := r.collection.FindOne(ctx, filter).Decode(&sessionLog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sessionLog, nil
}

// GetByPlan retrieves all session logs for a plan ordered by date.
func (r *mongoSessionLogRepository) GetByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.SessionLog, error) {
	var logs []domain.SessionLog
	filter := bson.M{"planId": planID}
	findOptions := options.Find().SetSort(bson.D{{Key: "workoutDate", Value: 1}})

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

// UpdateCompletion persists the completion-tracking fields of a session log.
// Scheduling fields (plan, week, day, date, rest flag) are immutable after
// materialization and are deliberately not part of the update.
func (r *mongoSessionLogRepository) UpdateCompletion(ctx context.Context, sessionLog *domain.SessionLog) error {
	if sessionLog.ID == primitive.NilObjectID {
		return errors.New("session log ID is required for update")
	}

	filter := bson.M{"_id": sessionLog.ID}
	update := bson.M{
		"$set": bson.M{
			"warmupCompleted":      sessionLog.WarmupCompleted,
			"mainWorkoutCompleted": sessionLog.MainWorkoutCompleted,
			"cooldownCompleted":    sessionLog.CooldownCompleted,
			"workoutStatus":        sessionLog.WorkoutStatus,
			"completedAt":          sessionLog.CompletedAt,
			"difficultyRating":     sessionLog.DifficultyRating,
			"notes":                sessionLog.Notes,
			"updatedAt":            time.Now().UTC(),
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

// MarkMissedBefore flips every PENDING session dated strictly before cutoff
// to MISSED. Exposed for the external sweep job.
func (r *mongoSessionLogRepository) MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"workoutStatus": domain.WorkoutPending,
		"workoutDate":   bson.M{"$lt": cutoff},
	}
	update := bson.M{
		"$set": bson.M{
			"workoutStatus": domain.WorkoutMissed,
			"updatedAt":     time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureSessionLogIndexes creates necessary indexes. Call during startup.
func EnsureSessionLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Exactly one session log per (planId, weekNumber, dayNumber).
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "dayNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workoutDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "workoutStatus", Value: 1}, {Key: "workoutDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
