// internal/app/system/errorreport/errorreport.go
package errorreport

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Reporter forwards job failures to Sentry. With no DSN configured it is a
// no-op, so callers never need to nil-check.
type Reporter struct {
	enabled bool
	log     *zap.Logger
}

// Init sets up the Sentry client. An empty DSN disables reporting (the
// normal case for local development).
func Init(dsn, environment string, logger *zap.Logger) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{log: logger}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	logger.Info("sentry error reporting enabled", zap.String("environment", environment))
	return &Reporter{enabled: true, log: logger}, nil
}

// Capture reports an error with tags (job name, run ID, entity IDs).
func (r *Reporter) Capture(err error, tags map[string]string) {
	if r == nil || err == nil || !r.enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush drains queued events, typically during shutdown.
func (r *Reporter) Flush(timeout time.Duration) {
	if r == nil || !r.enabled {
		return
	}
	if !sentry.Flush(timeout) {
		r.log.Warn("sentry flush timed out", zap.Duration("timeout", timeout))
	}
}
