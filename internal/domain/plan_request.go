package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanRequest is the immutable record of one plan-generation request: the
// template it was made against, the sanitized answers, and the prompt built
// from them. Written once, never updated.
type PlanRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	TemplateID      string             `bson:"templateId" json:"templateId"`
	TemplateVersion string             `bson:"templateVersion" json:"templateVersion"`
	PlanType        PlanType           `bson:"planType" json:"planType"`
	Answers         Answers            `bson:"answers" json:"answers"`
	Prompt          string             `bson:"prompt" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
