package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus tracks the lifecycle of a plan record.
type PlanStatus string

const (
	PlanGenerated PlanStatus = "GENERATED" // Persisted, never activated (or deactivated later)
	PlanActive    PlanStatus = "ACTIVE"
	PlanArchived  PlanStatus = "ARCHIVED" // Deactivated in favor of a newer plan
)

// PlanRecord is a persisted, generated plan. At most one record per
// (userId, planType) has IsActive=true at any time; the plan repository
// enforces this with a partial unique index and the activation transaction.
type PlanRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	RequestID primitive.ObjectID `bson:"requestId" json:"requestId"` // The answer set that produced this plan
	PlanType  PlanType           `bson:"planType" json:"planType"`

	// Denormalized summary fields for list views, extracted from the plan
	// meta and from the questionnaire answers.
	Name            string `bson:"name" json:"name"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks   int    `bson:"durationWeeks" json:"durationWeeks"`
	Goal            string `bson:"goal,omitempty" json:"goal,omitempty"`
	Environment     string `bson:"environment,omitempty" json:"environment,omitempty"`
	WeeklyFrequency string `bson:"weeklyFrequency,omitempty" json:"weeklyFrequency,omitempty"`

	Status        PlanStatus `bson:"status" json:"status"`
	IsActive      bool       `bson:"isActive" json:"isActive"`
	PlanStartDate *time.Time `bson:"planStartDate,omitempty" json:"planStartDate,omitempty"` // Set only when activated
	SchemaVersion string     `bson:"schemaVersion" json:"schemaVersion"`

	// RawResponse is the verbatim collaborator output the parsed document was
	// validated from. Kept for support/debugging; also archived to object storage.
	RawResponse string `bson:"rawResponse" json:"-"`

	// ArchiveObjectKey points at the archived copy of RawResponse in object
	// storage. Empty when no archive is configured or the upload failed.
	ArchiveObjectKey string `bson:"archiveObjectKey,omitempty" json:"-"`

	// Exactly one of these is set, matching PlanType.
	WorkoutPlan   *WorkoutPlanDoc   `bson:"workoutPlan,omitempty" json:"workoutPlan,omitempty"`
	NutritionPlan *NutritionPlanDoc `bson:"nutritionPlan,omitempty" json:"nutritionPlan,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
