// internal/app/store/jobruns/store.go
package jobruns

import (
	"context"

	"github.com/circlehq/circled/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists job-run records for operators. Records are best-effort:
// a failed insert never fails the job that produced it.
type Store struct {
	c *mongo.Collection
}

// New creates a jobruns Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("job_runs")}
}

// Record inserts a run record.
func (s *Store) Record(ctx context.Context, run models.JobRun) (models.JobRun, error) {
	run.ID = primitive.NewObjectID()
	_, err := s.c.InsertOne(ctx, run)
	if err != nil {
		return models.JobRun{}, err
	}
	return run, nil
}

// ListRecent returns the most recent runs, newest first. An empty job name
// matches all jobs.
func (s *Store) ListRecent(ctx context.Context, job string, limit int64) ([]models.JobRun, error) {
	filter := bson.M{}
	if job != "" {
		filter["job"] = job
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var runs []models.JobRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
