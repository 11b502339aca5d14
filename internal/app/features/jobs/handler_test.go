package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/circlehq/circled/internal/app/features/jobs"
	"github.com/circlehq/circled/internal/app/store/jobruns"
	"github.com/circlehq/circled/internal/app/system/tasks"
	"github.com/circlehq/circled/internal/domain/models"
	"github.com/circlehq/circled/internal/testutil"
	"go.uber.org/zap"
)

type fakeTriggerer struct {
	triggered []string
	err       error
}

func (f *fakeTriggerer) Trigger(ctx context.Context, name string) error {
	if f.err != nil {
		return f.err
	}
	f.triggered = append(f.triggered, name)
	return nil
}

func serve(h *jobs.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	jobs.Routes(h).ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestTrigger_RequiresToken(t *testing.T) {
	h := jobs.NewHandler(&fakeTriggerer{}, nil, "secret", zap.NewNop())

	rec := serve(h, httptest.NewRequest("POST", "/poll-sweep", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = serve(h, authed(httptest.NewRequest("POST", "/poll-sweep", nil), "wrong"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestTrigger_DisabledWithoutConfiguredToken(t *testing.T) {
	h := jobs.NewHandler(&fakeTriggerer{}, nil, "", zap.NewNop())

	rec := serve(h, authed(httptest.NewRequest("POST", "/poll-sweep", nil), ""))
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestTrigger_RunsNamedJob(t *testing.T) {
	ft := &fakeTriggerer{}
	h := jobs.NewHandler(ft, nil, "secret", zap.NewNop())

	rec := serve(h, authed(httptest.NewRequest("POST", "/flash-cleanup", nil), "secret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(ft.triggered) != 1 || ft.triggered[0] != tasks.JobFlashCleanup {
		t.Errorf("triggered: %v", ft.triggered)
	}
}

func TestTrigger_JobFailureIsInternalError(t *testing.T) {
	ft := &fakeTriggerer{err: errors.New("scan failed")}
	h := jobs.NewHandler(ft, nil, "secret", zap.NewNop())

	rec := serve(h, authed(httptest.NewRequest("POST", "/poll-sweep", nil), "secret"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestListRuns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	runs := jobruns.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := runs.Record(ctx, models.JobRun{RunID: "r1", Job: tasks.JobPollSweep}); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	h := jobs.NewHandler(&fakeTriggerer{}, runs, "secret", zap.NewNop())

	rec := serve(h, authed(httptest.NewRequest("GET", "/runs?job=poll-sweep", nil), "secret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}

	var got []models.JobRun
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(got) != 1 || got[0].RunID != "r1" {
		t.Errorf("runs: %+v", got)
	}
}
