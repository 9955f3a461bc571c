package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultHydrationTargetMl is used when the user has no explicit target.
const DefaultHydrationTargetMl = 2000

// HydrationLog is one logged water intake. Independent of any plan; daily
// progress is the sum of the day's entries against the target.
type HydrationLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Date      time.Time          `bson:"date" json:"date"` // Date-only, midnight UTC
	AmountMl  int                `bson:"amountMl" json:"amountMl"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
