// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/circlehq/circled/internal/app/store/circles"
	"github.com/circlehq/circled/internal/app/store/jobruns"
	"github.com/circlehq/circled/internal/app/store/polls"
	"github.com/circlehq/circled/internal/app/sweep"
	"github.com/circlehq/circled/internal/app/system/errorreport"
	"github.com/circlehq/circled/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// services holds what Startup builds and BuildHandler/Shutdown consume.
// WAFFLE's hook signatures carry only config and DBDeps between phases,
// so the wired services live here.
type services struct {
	runs     *jobruns.Store
	runner   *tasks.Runner
	reporter *errorreport.Reporter
}

var svc services

// Startup wires the stores, the sweep engine, and the job runner after DB
// connections and schema setup are complete, but before the HTTP handler
// is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	reporter, err := errorreport.Init(appCfg.SentryDSN, appCfg.SentryEnvironment, logger)
	if err != nil {
		return err
	}

	circleStore := circles.New(deps.MongoDatabase)
	pollStore := polls.New(deps.MongoDatabase)
	runStore := jobruns.New(deps.MongoDatabase)

	sweeper := sweep.New(circleStore, pollStore, sweep.DefaultRand(), logger)

	runner := tasks.NewRunner([]tasks.Job{
		tasks.PollSweepJob(sweeper, runStore, logger, appCfg.PollSweepInterval),
		tasks.FlashCleanupJob(sweeper, runStore, logger, appCfg.FlashCleanupInterval),
	}, logger, reporter, appCfg.JobTimeout)

	if appCfg.JobsAutoStart {
		runner.Start()
	} else {
		logger.Info("jobs_auto_start disabled; jobs run only via /jobs triggers")
	}

	svc = services{
		runs:     runStore,
		runner:   runner,
		reporter: reporter,
	}
	return nil
}
