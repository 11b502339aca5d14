// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/circlehq/circled/internal/app/store/jobruns"
	"github.com/circlehq/circled/internal/app/sweep"
	"github.com/circlehq/circled/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job names double as the trigger endpoint identifiers.
const (
	JobPollSweep    = "poll-sweep"
	JobFlashCleanup = "flash-cleanup"
)

// PollSweepJob creates the job that resolves expired polls. It runs the
// scan unconditionally against the whole corpus each tick; eligibility is
// time-based, so a skipped tick loses nothing.
func PollSweepJob(s *sweep.Sweeper, runs *jobruns.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     JobPollSweep,
		Interval: interval,
		Run: func(ctx context.Context) error {
			runID := uuid.NewString()
			started := time.Now().UTC()

			rep, err := s.SweepExpiredPolls(ctx, started)
			finished := time.Now().UTC()

			record := models.JobRun{
				RunID:      runID,
				Job:        JobPollSweep,
				StartedAt:  started,
				FinishedAt: finished,
				DurationMS: finished.Sub(started).Milliseconds(),
				Circles:    rep.Circles,
				Polls:      rep.Polls,
				Resolved:   rep.Resolved,
				Skipped:    rep.Skipped + rep.Malformed,
				Failed:     rep.Failed,
			}
			if err != nil {
				record.Error = err.Error()
			}
			if _, rerr := runs.Record(ctx, record); rerr != nil {
				logger.Warn("poll sweep: recording run failed",
					zap.String("run_id", runID), zap.Error(rerr))
			}

			if err != nil {
				return err
			}
			if rep.Resolved > 0 || rep.Failed > 0 || rep.Malformed > 0 {
				logger.Info("poll sweep finished",
					append([]zap.Field{zap.String("run_id", runID)}, rep.Fields()...)...)
			}
			return nil
		},
	}
}

// FlashCleanupJob creates the job that deletes expired flash circles.
func FlashCleanupJob(s *sweep.Sweeper, runs *jobruns.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     JobFlashCleanup,
		Interval: interval,
		Run: func(ctx context.Context) error {
			runID := uuid.NewString()
			started := time.Now().UTC()

			rep, err := s.DeleteExpiredFlashCircles(ctx, started)
			finished := time.Now().UTC()

			record := models.JobRun{
				RunID:      runID,
				Job:        JobFlashCleanup,
				StartedAt:  started,
				FinishedAt: finished,
				DurationMS: finished.Sub(started).Milliseconds(),
				Circles:    rep.Matched,
				Deleted:    rep.Deleted,
				Failed:     rep.Failed,
			}
			if err != nil {
				record.Error = err.Error()
			}
			if _, rerr := runs.Record(ctx, record); rerr != nil {
				logger.Warn("flash cleanup: recording run failed",
					zap.String("run_id", runID), zap.Error(rerr))
			}

			if err != nil {
				return err
			}
			if rep.Matched > 0 {
				logger.Info("flash cleanup finished",
					append([]zap.Field{zap.String("run_id", runID)}, rep.Fields()...)...)
			}
			return nil
		},
	}
}
