package repository

import (
	"context"
	"time"

	"pulsefit/coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner runs a function inside a single storage transaction. The plan
// activation path depends on this: deactivate-old, activate-new, and
// session-log materialization must commit or roll back as one unit.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// PlanRequestRepository stores immutable generation-request records.
type PlanRequestRepository interface {
	Create(ctx context.Context, request *domain.PlanRequest) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanRequest, error)
}

// PlanRepository defines the interface for interacting with plan records.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.PlanRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanRecord, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanRecord, error)
	GetActive(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType) (*domain.PlanRecord, error)
	CountByUserAndType(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType) (int64, error)

	// DeactivateOthers archives every active plan of the given type for the
	// user except excludeID, clearing its start date.
	DeactivateOthers(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, excludeID primitive.ObjectID) error

	// SetActive flags the plan active with the given start date. Returns
	// ErrConflict when the partial unique index rejects a second active plan.
	SetActive(ctx context.Context, planID primitive.ObjectID, startDate time.Time) error

	// SetArchiveObjectKey records where the raw response was archived.
	SetArchiveObjectKey(ctx context.Context, planID primitive.ObjectID, objectKey string) error
}

// SessionLogRepository defines the interface for materialized workout days.
type SessionLogRepository interface {
	BulkCreate(ctx context.Context, logs []domain.SessionLog) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionLog, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.SessionLog, error)
	GetByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.SessionLog, error)
	UpdateCompletion(ctx context.Context, sessionLog *domain.SessionLog) error

	// MarkMissedBefore flips past-due PENDING rows to MISSED. Contract for an
	// external sweep job; nothing in this service calls it on a schedule.
	MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PlanDayRepository defines the interface for lazily-created nutrition days.
type PlanDayRepository interface {
	Create(ctx context.Context, day *domain.PlanDay) (primitive.ObjectID, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.PlanDay, error)
}

// MealLogRepository defines the interface for additive meal logs.
type MealLogRepository interface {
	Create(ctx context.Context, mealLog *domain.MealLog) (primitive.ObjectID, error)
	GetByPlanDay(ctx context.Context, planDayID primitive.ObjectID) ([]domain.MealLog, error)
}

// HydrationRepository defines the interface for additive hydration logs.
type HydrationRepository interface {
	Create(ctx context.Context, hydrationLog *domain.HydrationLog) (primitive.ObjectID, error)
	SumForDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (int, error)
}
