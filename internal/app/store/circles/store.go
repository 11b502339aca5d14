// internal/app/store/circles/store.go
package circles

import (
	"context"
	"time"

	"github.com/circlehq/circled/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages circle documents.
type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

// New creates a circles Store.
func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("circles")}
}

// GetByID fetches a single circle.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Circle, error) {
	var c models.Circle
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Circle{}, err
	}
	return c, nil
}

// Create inserts a circle, filling in ID, folded name, and timestamps.
func (s *Store) Create(ctx context.Context, c models.Circle) (models.Circle, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	if c.Type == "" {
		c.Type = models.CircleTypePermanent
	}
	if c.Privacy == "" {
		c.Privacy = models.CirclePrivacyPrivate
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, c)
	if err != nil {
		return models.Circle{}, err
	}
	return c, nil
}

// ListIDs returns the IDs of every circle. The poll sweep walks all of
// them; flash and permanent circles are scanned identically.
func (s *Store) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// FindExpiredFlash returns flash circles whose expiry date is at or before
// the given instant.
func (s *Store) FindExpiredFlash(ctx context.Context, now time.Time) ([]models.Circle, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"type":        models.CircleTypeFlash,
		"expiry_date": bson.M{"$lte": now},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Circle
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a circle document. Returns the number of documents
// deleted (0 or 1). Nested polls are not touched; see DeleteWithPolls.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteWithPolls removes a circle and all of its poll documents. This is
// the cascading variant used for manual circle deletion; the scheduled
// flash cleanup keeps the shallow Delete.
func (s *Store) DeleteWithPolls(ctx context.Context, id primitive.ObjectID) (circles, polls int64, err error) {
	res, err := s.db.Collection("polls").DeleteMany(ctx, bson.M{"circle_id": id})
	if err != nil {
		return 0, 0, err
	}
	polls = res.DeletedCount

	del, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, polls, err
	}
	return del.DeletedCount, polls, nil
}
