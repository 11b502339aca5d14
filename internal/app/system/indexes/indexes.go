// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureCircles(ctx, db); err != nil {
		problems = append(problems, "circles: "+err.Error())
	}
	if err := ensurePolls(ctx, db); err != nil {
		problems = append(problems, "polls: "+err.Error())
	}
	if err := ensureJobRuns(ctx, db); err != nil {
		problems = append(problems, "job_runs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCircles(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("circles").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Flash cleanup query: type == "flash" AND expiry_date <= now
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "expiry_date", Value: 1}},
			Options: options.Index().SetName("idx_circles_type_expiry"),
		},
		// Case-insensitive name lookup
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_circles_name_ci"),
		},
	})
	return err
}

func ensurePolls(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("polls").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Sweep enumeration per circle
		{
			Keys:    bson.D{{Key: "circle_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_polls_circle"),
		},
		// Due-poll lookups per sub-poll kind
		{
			Keys:    bson.D{{Key: "activity_poll.status", Value: 1}, {Key: "activity_poll.deadline", Value: 1}},
			Options: options.Index().SetName("idx_polls_activity_due"),
		},
		{
			Keys:    bson.D{{Key: "place_poll.status", Value: 1}, {Key: "place_poll.deadline", Value: 1}},
			Options: options.Index().SetName("idx_polls_place_due"),
		},
	})
	return err
}

func ensureJobRuns(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("job_runs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job", Value: 1}, {Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_job_runs_job_started"),
		},
	})
	return err
}
