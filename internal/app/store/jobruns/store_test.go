package jobruns_test

import (
	"testing"
	"time"

	"github.com/circlehq/circled/internal/app/store/jobruns"
	"github.com/circlehq/circled/internal/domain/models"
	"github.com/circlehq/circled/internal/testutil"
)

func TestStore_RecordAndListRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobruns.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, models.JobRun{
			RunID:     "run-" + string(rune('a'+i)),
			Job:       "poll-sweep",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Resolved:  i,
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if _, err := store.Record(ctx, models.JobRun{
		RunID:     "other",
		Job:       "flash-cleanup",
		StartedAt: base.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	runs, err := store.ListRecent(ctx, "poll-sweep", 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Errorf("order: got %s, %s", runs[0].RunID, runs[1].RunID)
	}

	all, err := store.ListRecent(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListRecent all failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all runs: got %d, want 4", len(all))
	}
}
