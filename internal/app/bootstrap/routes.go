// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/circlehq/circled/internal/app/features/health"
	jobsfeature "github.com/circlehq/circled/internal/app/features/jobs"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// circled is a headless jobs service; its HTTP surface is operational only:
// a health check for load balancers and orchestrators, and token-gated
// trigger endpoints so an external cron can drive the two jobs.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Manual job triggers and run history
	jobsHandler := jobsfeature.NewHandler(svc.runner, svc.runs, appCfg.OpsToken, logger)
	r.Mount("/jobs", jobsfeature.Routes(jobsHandler))

	return r, nil
}
