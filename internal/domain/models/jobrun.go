// internal/domain/models/jobrun.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobRun records one execution of a scheduled job for operators.
// Counters mirror sweep.Report; Error is empty on success.
type JobRun struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	RunID string             `bson:"run_id" json:"run_id"`
	Job   string             `bson:"job" json:"job"`

	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
	DurationMS int64     `bson:"duration_ms" json:"duration_ms"`

	Circles  int `bson:"circles,omitempty" json:"circles,omitempty"`
	Polls    int `bson:"polls,omitempty" json:"polls,omitempty"`
	Resolved int `bson:"resolved,omitempty" json:"resolved,omitempty"`
	Skipped  int `bson:"skipped,omitempty" json:"skipped,omitempty"`
	Failed   int `bson:"failed,omitempty" json:"failed,omitempty"`
	Deleted  int `bson:"deleted,omitempty" json:"deleted,omitempty"`

	Error string `bson:"error,omitempty" json:"error,omitempty"`
}
