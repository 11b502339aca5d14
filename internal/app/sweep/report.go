// internal/app/sweep/report.go
package sweep

import "go.uber.org/zap"

// Report aggregates the per-entity outcomes of one poll sweep. Individual
// failures are counted here rather than aborting the batch; the sweep as a
// whole succeeds as long as the scan itself completed.
type Report struct {
	Circles   int // circles scanned
	Polls     int // poll documents scanned
	Resolved  int // sub-polls closed this run
	Skipped   int // sub-polls skipped (absent, pending, closed, not due)
	Malformed int // active sub-polls missing a deadline
	Failed    int // eligible sub-polls whose close write failed
}

// Fields renders the report as zap fields for job logging.
func (r Report) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("circles", r.Circles),
		zap.Int("polls", r.Polls),
		zap.Int("resolved", r.Resolved),
		zap.Int("skipped", r.Skipped),
		zap.Int("malformed", r.Malformed),
		zap.Int("failed", r.Failed),
	}
}

// FlashReport aggregates the outcomes of one flash-circle cleanup pass.
type FlashReport struct {
	Matched int // expired flash circles found
	Deleted int // circles actually removed
	Failed  int // deletions that errored
}

// Fields renders the report as zap fields for job logging.
func (r FlashReport) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("matched", r.Matched),
		zap.Int("deleted", r.Deleted),
		zap.Int("failed", r.Failed),
	}
}
