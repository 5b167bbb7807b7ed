package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BraceletCode represents a pre-printed bracelet code handed out before the event.
// A code can be activated at most once; activation implies a non-nil ActivatedAt.
type BraceletCode struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	IsActivated bool               `bson:"isActivated" json:"is_activated"`
	ActivatedAt *time.Time         `bson:"activatedAt,omitempty" json:"activated_at,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
}
