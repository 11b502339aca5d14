package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/circlehq/circled/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCircle creates a permanent circle with the given name.
func (f *Fixtures) CreateCircle(ctx context.Context, name string) models.Circle {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Circle{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Type:      models.CircleTypePermanent,
		Privacy:   models.CirclePrivacyPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insertCircle(ctx, c)
	return c
}

// CreateFlashCircle creates a flash circle expiring at the given time.
func (f *Fixtures) CreateFlashCircle(ctx context.Context, name string, expiry time.Time) models.Circle {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Circle{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Type:       models.CircleTypeFlash,
		Privacy:    models.CirclePrivacyPrivate,
		ExpiryDate: &expiry,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insertCircle(ctx, c)
	return c
}

func (f *Fixtures) insertCircle(ctx context.Context, c models.Circle) {
	f.t.Helper()
	if _, err := f.db.Collection("circles").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test circle: %v", err)
	}
}

// CreatePoll creates a poll document in the given circle.
func (f *Fixtures) CreatePoll(ctx context.Context, circleID primitive.ObjectID, title string, activity, place *models.SubPoll) models.Poll {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Poll{
		ID:           primitive.NewObjectID(),
		CircleID:     circleID,
		Title:        title,
		ActivityPoll: activity,
		PlacePoll:    place,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("polls").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test poll: %v", err)
	}
	return p
}

// ActiveSubPoll builds an active sub-poll with the given deadline, option
// texts, and votes (voter ID -> option text).
func ActiveSubPoll(deadline time.Time, optionTexts []string, votes map[string]string) *models.SubPoll {
	opts := make([]models.PollOption, 0, len(optionTexts))
	for _, text := range optionTexts {
		opts = append(opts, models.PollOption{Text: text})
	}
	return &models.SubPoll{
		Status:   models.PollStatusActive,
		Deadline: &deadline,
		Options:  opts,
		Votes:    votes,
	}
}
