package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanDay is the nutrition counterpart of SessionLog, created lazily on the
// first dashboard read for a given calendar day rather than materialized at
// activation. Meal logs attach to it additively.
type PlanDay struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Date      time.Time          `bson:"date" json:"date"` // Date-only, midnight UTC
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// MealStatus tracks the state of one logged meal.
type MealStatus string

const (
	MealLogged        MealStatus = "COMPLETED"
	MealSkippedStatus MealStatus = "SKIPPED"
)

// MealLog is one logged meal. Logs accumulate additively: every completion
// inserts a new row, and daily progress sums only COMPLETED rows.
type MealLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanDayID primitive.ObjectID `bson:"planDayId" json:"planDayId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	MealType  MealType           `bson:"mealType" json:"mealType"`
	Status    MealStatus         `bson:"status" json:"status"`
	Macros    MacroSet           `bson:"macros" json:"macros"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
