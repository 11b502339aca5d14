// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for circled.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, poll_sweep_interval, etc.
//   - Environment variables: CIRCLED_MONGO_URI, CIRCLED_POLL_SWEEP_INTERVAL, etc.
//   - Command-line flags: --mongo_uri, --poll_sweep_interval, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "circle", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Job scheduling
	{Name: "poll_sweep_interval", Default: "1m", Desc: "How often to resolve expired polls (e.g., 1m, 30s)"},
	{Name: "flash_cleanup_interval", Default: "24h", Desc: "How often to delete expired flash circles (e.g., 24h)"},
	{Name: "job_timeout", Default: "5m", Desc: "Per-run time budget for a scheduled job"},
	{Name: "jobs_auto_start", Default: true, Desc: "Run jobs on internal tickers; disable when an external scheduler drives /jobs"},

	// Ops endpoints
	{Name: "ops_token", Default: "", Desc: "Bearer token for the /jobs endpoints (empty disables them)"},

	// Error reporting
	{Name: "sentry_dsn", Default: "", Desc: "Sentry DSN for error reporting (empty disables)"},
	{Name: "sentry_environment", Default: "", Desc: "Sentry environment tag (e.g., prod, staging)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CIRCLED", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		PollSweepInterval:    appValues.Duration("poll_sweep_interval", time.Minute),
		FlashCleanupInterval: appValues.Duration("flash_cleanup_interval", 24*time.Hour),
		JobTimeout:           appValues.Duration("job_timeout", 5*time.Minute),
		JobsAutoStart:        appValues.Bool("jobs_auto_start"),

		OpsToken: appValues.String("ops_token"),

		SentryDSN:         appValues.String("sentry_dsn"),
		SentryEnvironment: appValues.String("sentry_environment"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.PollSweepInterval <= 0 {
		return fmt.Errorf("poll_sweep_interval must be positive, got %s", appCfg.PollSweepInterval)
	}
	if appCfg.FlashCleanupInterval <= 0 {
		return fmt.Errorf("flash_cleanup_interval must be positive, got %s", appCfg.FlashCleanupInterval)
	}
	if appCfg.JobTimeout <= 0 {
		return fmt.Errorf("job_timeout must be positive, got %s", appCfg.JobTimeout)
	}
	if appCfg.JobTimeout > appCfg.PollSweepInterval {
		// Not fatal: idempotence makes overlap safe, but it usually means
		// the interval or timeout is misconfigured.
		logger.Warn("job_timeout exceeds poll_sweep_interval; runs may overlap",
			zap.Duration("job_timeout", appCfg.JobTimeout),
			zap.Duration("poll_sweep_interval", appCfg.PollSweepInterval))
	}

	if appCfg.OpsToken == "" {
		logger.Warn("no ops_token configured; /jobs endpoints are disabled")
	}

	return nil
}
