package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered member of the app.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Profile fields collected during onboarding. Optional; plan generation
	// reads its inputs from the questionnaire answers, not from here.
	DateOfBirth *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	HeightCm    *float64   `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg    *float64   `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Onboarded   bool       `bson:"onboarded" json:"onboarded"`
}
