// Package query serves the reduced entity graph over HTTP: entity lookups,
// cron-refreshed global stats, a live season websocket, and JWT-guarded
// admin routes.
package query

import (
	"context"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/app/query/controller"
	"github.com/beanstalk-farms/beanstalk-indexer/app/query/types"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/logging"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/notify"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Initialize initializes the query application over an existing store. The
// store must be the one the reduction writes; the query server takes no
// ownership of it.
func Initialize(ctx context.Context, cfg *config.Config, store *entities.Store, notifier *notify.Notifier) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr'
		panic(err)
	}

	app := &types.App{
		Config:   cfg,
		Store:    store,
		Notifier: notifier,
		Stats:    xsync.NewMap[string, *types.GlobalStats](),
		CronSpec: utils.Env("STATS_CRON", "*/15 * * * * *"),
		Logger:   logger,
	}

	if err := setupScheduler(ctx, app); err != nil {
		logger.Fatal("Unable to set up stats scheduler", zap.Error(err))
	}

	return app
}

// setupScheduler registers the stats-cache refresh and primes the cache once
// so the first /stats request never sees an empty map.
func setupScheduler(ctx context.Context, app *types.App) error {
	app.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	refresh := func() {
		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		controller.RefreshStats(rctx, app)
	}

	if _, err := app.Cron.AddFunc(app.CronSpec, refresh); err != nil {
		return err
	}

	refresh()
	app.Cron.Start()
	app.Logger.Info("stats scheduler started", zap.String("cronSpec", app.CronSpec))
	return nil
}
