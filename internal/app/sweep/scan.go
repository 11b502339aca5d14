// internal/app/sweep/scan.go
package sweep

import (
	"time"

	"github.com/circlehq/circled/internal/domain/models"
)

// outcome classifies one sub-poll during a scan.
type outcome int

const (
	outcomeAbsent    outcome = iota // field not present on the document
	outcomePending                  // not yet opened for voting
	outcomeClosed                   // already resolved
	outcomeNotDue                   // active, deadline still in the future
	outcomeMalformed                // active but missing its deadline
	outcomeEligible                 // active and past deadline: resolve it
)

func (o outcome) String() string {
	switch o {
	case outcomeAbsent:
		return "absent"
	case outcomePending:
		return "pending"
	case outcomeClosed:
		return "closed"
	case outcomeNotDue:
		return "not_due"
	case outcomeMalformed:
		return "malformed"
	case outcomeEligible:
		return "eligible"
	}
	return "unknown"
}

// classify decides whether a sub-poll is due for resolution at the given
// instant. A deadline exactly at now counts as passed. An active sub-poll
// without a deadline is malformed and is skipped, never resolved.
func classify(sp *models.SubPoll, now time.Time) outcome {
	if sp == nil {
		return outcomeAbsent
	}
	switch sp.Status {
	case models.PollStatusPending:
		return outcomePending
	case models.PollStatusClosed:
		return outcomeClosed
	case models.PollStatusActive:
		if sp.Deadline == nil {
			return outcomeMalformed
		}
		if sp.Deadline.After(now) {
			return outcomeNotDue
		}
		return outcomeEligible
	}
	// Unknown status values are treated like malformed data: skip, do not fail.
	return outcomeMalformed
}
