// internal/app/sweep/sweeper.go
package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/circlehq/circled/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CircleRepository is the slice of the circles store the sweep needs.
type CircleRepository interface {
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
	FindExpiredFlash(ctx context.Context, now time.Time) ([]models.Circle, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// PollRepository is the slice of the polls store the sweep needs.
type PollRepository interface {
	ListByCircle(ctx context.Context, circleID primitive.ObjectID) ([]models.Poll, error)
	CloseSubPoll(ctx context.Context, pollID primitive.ObjectID, kind models.PollKind, winner *string) (bool, error)
}

// DefaultConcurrency bounds how many close writes are in flight at once.
const DefaultConcurrency = 16

// Sweeper runs the two scheduled jobs: resolving expired polls and deleting
// expired flash circles. It holds no state between runs; every invocation
// works from the store's current contents, so overlapping or missed runs
// are harmless.
type Sweeper struct {
	circles     CircleRepository
	polls       PollRepository
	rng         Rand
	log         *zap.Logger
	concurrency int
}

// New creates a Sweeper. A nil rng falls back to the process-wide PRNG.
func New(circles CircleRepository, polls PollRepository, rng Rand, logger *zap.Logger) *Sweeper {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Sweeper{
		circles:     circles,
		polls:       polls,
		rng:         rng,
		log:         logger,
		concurrency: DefaultConcurrency,
	}
}

// task is one eligible sub-poll queued for resolution.
type task struct {
	pollID primitive.ObjectID
	kind   models.PollKind
	winner *string
}

// SweepExpiredPolls scans every circle's polls and closes each sub-poll
// whose deadline has passed. Eligible sub-polls are collected first, then
// closed concurrently; an individual write failure is logged and counted,
// never fatal to the batch. Only a failure to enumerate circles aborts the
// run (the next scheduled run retries from scratch).
func (s *Sweeper) SweepExpiredPolls(ctx context.Context, now time.Time) (Report, error) {
	var rep Report

	circleIDs, err := s.circles.ListIDs(ctx)
	if err != nil {
		return rep, fmt.Errorf("list circles: %w", err)
	}
	rep.Circles = len(circleIDs)

	var tasks []task
	for _, circleID := range circleIDs {
		polls, err := s.polls.ListByCircle(ctx, circleID)
		if err != nil {
			// One unreadable circle must not stall the rest of the corpus.
			s.log.Error("sweep: list polls failed",
				zap.String("circle_id", circleID.Hex()),
				zap.Error(err))
			rep.Failed++
			continue
		}
		rep.Polls += len(polls)

		for i := range polls {
			poll := &polls[i]
			for _, kind := range models.Kinds() {
				sp := poll.Sub(kind)
				switch o := classify(sp, now); o {
				case outcomeEligible:
					tasks = append(tasks, task{
						pollID: poll.ID,
						kind:   kind,
						winner: s.pickWinner(sp),
					})
				case outcomeMalformed:
					rep.Malformed++
					s.log.Warn("sweep: skipping malformed sub-poll",
						zap.String("poll_id", poll.ID.Hex()),
						zap.String("kind", string(kind)),
						zap.String("status", sp.Status))
				default:
					rep.Skipped++
				}
			}
		}
	}

	s.apply(ctx, tasks, &rep)
	return rep, nil
}

// pickWinner tallies an eligible sub-poll. No options means no tally and a
// nil winner; the sub-poll still closes. With options but no votes, every
// option ties at zero and the random tie-break chooses among all of them.
func (s *Sweeper) pickWinner(sp *models.SubPoll) *string {
	if len(sp.Options) == 0 {
		return nil
	}
	counts := Tally(sp.Options, sp.Votes)
	return Winner(sp.Options, counts, s.rng)
}

// apply closes the collected sub-polls with bounded concurrency. Each close
// is a single document update, so interleaving across polls is safe.
func (s *Sweeper) apply(ctx context.Context, tasks []task, rep *Report) {
	if len(tasks) == 0 {
		return
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.concurrency)
	)
	for _, t := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(t task) {
			defer wg.Done()
			defer func() { <-sem }()

			closed, err := s.polls.CloseSubPoll(ctx, t.pollID, t.kind, t.winner)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				rep.Failed++
				s.log.Error("sweep: close sub-poll failed",
					zap.String("poll_id", t.pollID.Hex()),
					zap.String("kind", string(t.kind)),
					zap.Error(err))
			case !closed:
				// Another invocation got here first; counts as a skip.
				rep.Skipped++
			default:
				rep.Resolved++
			}
		}(t)
	}
	wg.Wait()
}

// DeleteExpiredFlashCircles removes every flash circle whose expiry date
// has passed. The delete is shallow: the circle's polls and chat are left
// behind (matching the manual-delete split in the client). Deletions are
// independent; one failure does not block the rest.
func (s *Sweeper) DeleteExpiredFlashCircles(ctx context.Context, now time.Time) (FlashReport, error) {
	var rep FlashReport

	expired, err := s.circles.FindExpiredFlash(ctx, now)
	if err != nil {
		return rep, fmt.Errorf("find expired flash circles: %w", err)
	}
	rep.Matched = len(expired)

	for _, c := range expired {
		n, err := s.circles.Delete(ctx, c.ID)
		if err != nil {
			rep.Failed++
			s.log.Error("flash cleanup: delete failed",
				zap.String("circle_id", c.ID.Hex()),
				zap.String("name", c.Name),
				zap.Error(err))
			continue
		}
		if n > 0 {
			rep.Deleted++
			s.log.Info("flash cleanup: deleted expired circle",
				zap.String("circle_id", c.ID.Hex()),
				zap.String("name", c.Name),
				zap.Timep("expiry_date", c.ExpiryDate))
		}
	}
	return rep, nil
}
