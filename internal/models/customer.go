package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer represents a registered draw participant
type Customer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Phone           string             `bson:"phone" json:"phone"`
	BraceletCode    string             `bson:"braceletCode" json:"bracelet_code"`
	HasExistingCode bool               `bson:"hasExistingCode" json:"has_existing_code"`
	HasWon          bool               `bson:"hasWon" json:"has_won"`
	PrizeName       string             `bson:"prizeName,omitempty" json:"prize_name,omitempty"`
	WonAt           *time.Time         `bson:"wonAt,omitempty" json:"won_at,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updated_at"`
}

// RegistrationResult is returned to a participant after a successful registration
type RegistrationResult struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
