// internal/app/sweep/tally.go
package sweep

import (
	"math/rand/v2"

	"github.com/circlehq/circled/internal/domain/models"
)

// Rand supplies the tie-break selection. Production uses the process-wide
// PRNG; tests inject a deterministic source so exact winners can be asserted.
type Rand interface {
	// IntN returns a uniform value in [0, n). n must be > 0.
	IntN(n int) int
}

// globalRand delegates to math/rand/v2's auto-seeded generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns the randomness source used outside of tests.
func DefaultRand() Rand { return globalRand{} }

// Tally counts votes per option. Every option starts at zero; a vote counts
// only if its value matches an option's text. Votes for options that no
// longer exist (stale after an edit) are ignored rather than rejected.
func Tally(options []models.PollOption, votes map[string]string) map[string]int {
	counts := make(map[string]int, len(options))
	for _, opt := range options {
		counts[opt.Text] = 0
	}
	for _, choice := range votes {
		if _, known := counts[choice]; known {
			counts[choice]++
		}
	}
	return counts
}

// Winner picks the winning option text from a tally. A single leader wins
// outright; tied leaders are decided uniformly at random, preserving the
// "random among ties" behavior users see today. The option list order does
// not bias the outcome. Returns nil when there are no options.
func Winner(options []models.PollOption, counts map[string]int, rng Rand) *string {
	if len(options) == 0 {
		return nil
	}

	maxVotes := -1
	for _, opt := range options {
		if counts[opt.Text] > maxVotes {
			maxVotes = counts[opt.Text]
		}
	}

	// Leaders keep original option order so a seeded Rand is reproducible.
	var leaders []string
	for _, opt := range options {
		if counts[opt.Text] == maxVotes {
			leaders = append(leaders, opt.Text)
		}
	}

	winner := leaders[0]
	if len(leaders) > 1 {
		winner = leaders[rng.IntN(len(leaders))]
	}
	return &winner
}
