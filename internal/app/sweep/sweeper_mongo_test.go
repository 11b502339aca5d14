package sweep_test

import (
	"testing"
	"time"

	"github.com/circlehq/circled/internal/app/store/circles"
	"github.com/circlehq/circled/internal/app/store/polls"
	"github.com/circlehq/circled/internal/app/sweep"
	"github.com/circlehq/circled/internal/domain/models"
	"github.com/circlehq/circled/internal/testutil"
	"go.uber.org/zap"
)

// headRand always picks the first tied option, so assertions stay exact.
type headRand struct{}

func (headRand) IntN(n int) int { return 0 }

func TestSweep_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	circleStore := circles.New(db)
	pollStore := polls.New(db)
	s := sweep.New(circleStore, pollStore, headRand{}, zap.NewNop())

	now := time.Now().UTC()
	c1 := fix.CreateCircle(ctx, "Trail Club")
	p1 := fix.CreatePoll(ctx, c1.ID, "This weekend",
		testutil.ActiveSubPoll(now.Add(-time.Hour), []string{"Hiking", "Movie"},
			map[string]string{"u1": "Hiking", "u2": "Hiking", "u3": "Movie"}),
		nil)

	rep, err := s.SweepExpiredPolls(ctx, now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if rep.Resolved != 1 {
		t.Fatalf("report: %+v", rep)
	}

	got, err := pollStore.GetByID(ctx, p1.ID)
	if err != nil {
		t.Fatalf("reload poll: %v", err)
	}
	if got.ActivityPoll.Status != models.PollStatusClosed {
		t.Errorf("status: got %q, want closed", got.ActivityPoll.Status)
	}
	if got.ActivityPoll.WinningOption == nil || *got.ActivityPoll.WinningOption != "Hiking" {
		t.Errorf("winning_option: got %v, want Hiking", got.ActivityPoll.WinningOption)
	}
	if got.WinningActivity != "Hiking" {
		t.Errorf("winning_activity: got %q, want Hiking", got.WinningActivity)
	}
	if got.WinningPlace != "" {
		t.Errorf("winning_place must stay empty, got %q", got.WinningPlace)
	}
}

func TestSweep_SecondRunIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pollStore := polls.New(db)
	s := sweep.New(circles.New(db), pollStore, headRand{}, zap.NewNop())

	now := time.Now().UTC()
	c := fix.CreateCircle(ctx, "Book Circle")
	p := fix.CreatePoll(ctx, c.ID, "Next read",
		testutil.ActiveSubPoll(now.Add(-time.Minute), []string{"Dune"}, nil),
		nil)

	if _, err := s.SweepExpiredPolls(ctx, now); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	first, err := pollStore.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload poll: %v", err)
	}

	// Simulates the next minute tick re-scanning the same corpus.
	rep, err := s.SweepExpiredPolls(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if rep.Resolved != 0 {
		t.Errorf("second sweep resolved %d sub-polls, want 0", rep.Resolved)
	}

	second, err := pollStore.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload poll: %v", err)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("second sweep touched an already-closed poll")
	}
}

func TestFlashCleanup_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	circleStore := circles.New(db)
	s := sweep.New(circleStore, polls.New(db), nil, zap.NewNop())

	now := time.Now().UTC()
	expired := fix.CreateFlashCircle(ctx, "pop-up", now.Add(-time.Hour))
	alive := fix.CreateFlashCircle(ctx, "next week", now.Add(time.Hour))
	permanent := fix.CreateCircle(ctx, "forever")

	rep, err := s.DeleteExpiredFlashCircles(ctx, now)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if rep.Matched != 1 || rep.Deleted != 1 {
		t.Errorf("report: %+v", rep)
	}

	if _, err := circleStore.GetByID(ctx, expired.ID); err == nil {
		t.Error("expired flash circle still exists")
	}
	if _, err := circleStore.GetByID(ctx, alive.ID); err != nil {
		t.Errorf("unexpired flash circle was deleted: %v", err)
	}
	if _, err := circleStore.GetByID(ctx, permanent.ID); err != nil {
		t.Errorf("permanent circle was deleted: %v", err)
	}
}
