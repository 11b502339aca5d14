// internal/app/store/polls/store.go
package polls

import (
	"context"
	"time"

	"github.com/circlehq/circled/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store manages poll documents. Polls logically nest under circles; the
// collection is flat and keyed by circle_id, the same way group
// memberships hang off organizations.
type Store struct {
	c *mongo.Collection
}

// New creates a polls Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("polls")}
}

// GetByID fetches a single poll document.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Poll, error) {
	var p models.Poll
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Poll{}, err
	}
	return p, nil
}

// Create inserts a poll, filling in ID and timestamps.
func (s *Store) Create(ctx context.Context, p models.Poll) (models.Poll, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		return models.Poll{}, err
	}
	return p, nil
}

// ListByCircle returns every poll document in a circle.
func (s *Store) ListByCircle(ctx context.Context, circleID primitive.ObjectID) ([]models.Poll, error) {
	cur, err := s.c.Find(ctx, bson.M{"circle_id": circleID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Poll
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CloseSubPoll resolves one sub-poll in a single document update: status,
// winning_option, and the parent's denormalized winner field change
// together, so a reader never sees a closed sub-poll without its winner.
//
// The filter requires the sub-poll to still be active, which makes the
// close a no-op when a concurrent invocation already resolved it. Returns
// whether this call performed the close.
func (s *Store) CloseSubPoll(ctx context.Context, pollID primitive.ObjectID, kind models.PollKind, winner *string) (bool, error) {
	field := kind.Field()

	set := bson.M{
		field + ".status":         models.PollStatusClosed,
		field + ".winning_option": winner, // nil closes with no winner
		"updated_at":              time.Now().UTC(),
	}
	if winner != nil {
		set[kind.WinnerField()] = *winner
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":              pollID,
			field + ".status": models.PollStatusActive,
		},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// DeleteByCircle removes every poll in a circle. Returns the number of
// documents deleted. Used by manual cascading circle deletion.
func (s *Store) DeleteByCircle(ctx context.Context, circleID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"circle_id": circleID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
