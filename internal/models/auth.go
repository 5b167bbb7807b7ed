package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MagicLinkRequest defines the structure for magic-link sign-in requests
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
	Next  string `json:"next"`
}

// LoginToken is a single-use emailed sign-in token. Only the bcrypt hash of
// the secret is stored; the plain secret travels in the emailed link.
type LoginToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email      string             `bson:"email" json:"email"`
	SecretHash string             `bson:"secretHash" json:"-"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expires_at"`
	UsedAt     *time.Time         `bson:"usedAt,omitempty" json:"used_at,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}

// Used reports whether the token has already been exchanged.
func (t *LoginToken) Used() bool {
	return t.UsedAt != nil
}

// Expired reports whether the token is past its TTL at the given instant.
func (t *LoginToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
