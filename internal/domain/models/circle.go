// internal/domain/models/circle.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Circle types. Flash circles are ephemeral and carry an expiry date;
// permanent circles live until their last member leaves.
const (
	CircleTypePermanent = "permanent"
	CircleTypeFlash     = "flash"
)

// Circle privacy settings.
const (
	CirclePrivacyPublic  = "public"
	CirclePrivacyPrivate = "private"
)

// Circle is a user-created group. Polls, events, and chat messages are
// stored in their own collections keyed by circle_id.
type Circle struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"name_ci"`
	Type    string             `bson:"type" json:"type"`
	Privacy string             `bson:"privacy" json:"privacy"`

	// ExpiryDate is set only on flash circles. A flash circle whose
	// expiry date has passed still exists until the cleanup job sweeps it.
	ExpiryDate *time.Time `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the circle is a flash circle past its expiry date.
func (c Circle) Expired(now time.Time) bool {
	return c.Type == CircleTypeFlash && c.ExpiryDate != nil && !c.ExpiryDate.After(now)
}
