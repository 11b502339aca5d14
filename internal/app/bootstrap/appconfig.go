// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (HTTP ports, TLS, logging level); everything
// specific to circled lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Job scheduling
	PollSweepInterval    time.Duration // how often expired polls are resolved
	FlashCleanupInterval time.Duration // how often expired flash circles are deleted
	JobTimeout           time.Duration // per-run budget; keep well under the sweep interval
	JobsAutoStart        bool          // start the ticker loops at boot (off when an external cron drives the triggers)

	// Ops endpoints
	OpsToken string // bearer token for the /jobs routes; empty closes them

	// Error reporting
	SentryDSN         string
	SentryEnvironment string
}
