// internal/app/features/jobs/handler.go
package jobs

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/circlehq/circled/internal/app/store/jobruns"
	"github.com/circlehq/circled/internal/app/system/tasks"
	"github.com/circlehq/circled/internal/app/system/timeouts"
	"github.com/circlehq/circled/internal/domain/models"
	"go.uber.org/zap"
)

// Triggerer runs a named job on demand. Satisfied by *tasks.Runner.
type Triggerer interface {
	Trigger(ctx context.Context, name string) error
}

// Handler serves the operational job endpoints. External schedulers (cron,
// an orchestrator timer) POST to the trigger routes; the ticker loops keep
// running either way, which is safe because every job is idempotent.
type Handler struct {
	Runner   Triggerer
	Runs     *jobruns.Store
	OpsToken string
	Log      *zap.Logger
}

// NewHandler constructs a jobs Handler.
func NewHandler(runner Triggerer, runs *jobruns.Store, opsToken string, logger *zap.Logger) *Handler {
	return &Handler{
		Runner:   runner,
		Runs:     runs,
		OpsToken: opsToken,
		Log:      logger,
	}
}

// RequireToken gates the job routes behind a bearer token. With no token
// configured the routes are closed entirely rather than left open.
func (h *Handler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.OpsToken == "" {
			writeError(w, http.StatusForbidden, "job endpoints disabled: no ops token configured")
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.OpsToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid ops token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TriggerPollSweep handles POST /jobs/poll-sweep.
func (h *Handler) TriggerPollSweep(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, tasks.JobPollSweep)
}

// TriggerFlashCleanup handles POST /jobs/flash-cleanup.
func (h *Handler) TriggerFlashCleanup(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, tasks.JobFlashCleanup)
}

func (h *Handler) trigger(w http.ResponseWriter, r *http.Request, name string) {
	err := h.Runner.Trigger(r.Context(), name)
	if errors.Is(err, tasks.ErrUnknownJob) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		// The trigger caller gets a summary; details are in logs/Sentry.
		h.Log.Error("manual job trigger failed",
			zap.String("job", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "job failed; see logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "job": name})
}

// ListRuns handles GET /jobs/runs?job=<name>&limit=<n>.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	runs, err := h.Runs.ListRecent(ctx, r.URL.Query().Get("job"), limit)
	if err != nil {
		h.Log.Error("list job runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if runs == nil {
		runs = []models.JobRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
