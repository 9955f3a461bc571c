package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus tracks the state of one scheduled workout day.
type WorkoutStatus string

const (
	WorkoutPending   WorkoutStatus = "PENDING"
	WorkoutCompleted WorkoutStatus = "COMPLETED"
	WorkoutSkipped   WorkoutStatus = "SKIPPED" // Seeded for rest days; never requires user action
	WorkoutMissed    WorkoutStatus = "MISSED"  // Derived by an external sweep over past PENDING rows
)

// SessionLog is one materialized workout day. Exactly one exists per
// (planId, weekNumber, dayNumber). WorkoutDate is computed at activation as
// planStartDate + (weekNumber-1)*7 + (dayNumber-1) days.
type SessionLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	WeekNumber  int                `bson:"weekNumber" json:"weekNumber"`
	DayNumber   int                `bson:"dayNumber" json:"dayNumber"`
	WorkoutDate time.Time          `bson:"workoutDate" json:"workoutDate"` // Date-only, midnight UTC
	IsRestDay   bool               `bson:"isRestDay" json:"isRestDay"`

	// Independent section completion flags; the day is COMPLETED only when
	// all three are true.
	WarmupCompleted      bool `bson:"warmupCompleted" json:"warmupCompleted"`
	MainWorkoutCompleted bool `bson:"mainWorkoutCompleted" json:"mainWorkoutCompleted"`
	CooldownCompleted    bool `bson:"cooldownCompleted" json:"cooldownCompleted"`

	WorkoutStatus    WorkoutStatus `bson:"workoutStatus" json:"workoutStatus"`
	CompletedAt      *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	DifficultyRating *int          `bson:"difficultyRating,omitempty" json:"difficultyRating,omitempty"`
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
