// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/circlehq/circled/internal/app/system/errorreport"
	"go.uber.org/zap"
)

// Job is one periodic unit of work. Run must be safe to invoke redundantly
// and concurrently with itself: every job here works from the store's
// current state, so an overlapping or missed tick cannot corrupt anything.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// ErrUnknownJob is returned by Trigger for a name no job was registered under.
var ErrUnknownJob = errors.New("unknown job")

// Runner drives a set of Jobs, one ticker goroutine per job. Errors are
// logged and reported, never propagated: a failed run simply waits for the
// next tick.
type Runner struct {
	jobs    []Job
	byName  map[string]Job
	log     *zap.Logger
	report  *errorreport.Reporter
	timeout time.Duration
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRunner creates a Runner. timeout bounds each run; it should be well
// under the shortest job interval so one run cannot pile onto the next.
func NewRunner(jobs []Job, logger *zap.Logger, reporter *errorreport.Reporter, timeout time.Duration) *Runner {
	byName := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}
	return &Runner{
		jobs:    jobs,
		byName:  byName,
		log:     logger,
		report:  reporter,
		timeout: timeout,
		stopCh:  make(chan struct{}),
	}
}

// Start launches the ticker loops.
func (r *Runner) Start() {
	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.loop(j)
		r.log.Info("job scheduled",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop signals all loops to stop and waits for in-flight runs to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("job runner stopped")
}

// Trigger runs the named job immediately, outside its schedule. Used by
// the ops endpoints so an external cron can drive the same entry points.
func (r *Runner) Trigger(ctx context.Context, name string) error {
	j, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return r.runOnce(ctx, j)
}

func (r *Runner) loop(j Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if err := r.runOnce(context.Background(), j); err != nil {
				r.log.Error("job run failed",
					zap.String("job", j.Name),
					zap.Error(err))
				r.report.Capture(err, map[string]string{"job": j.Name})
			}
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, j Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// A panicking job must not take down the service or its sibling jobs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", j.Name, p)
		}
	}()

	return j.Run(ctx)
}
