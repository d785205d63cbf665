// Package indexer wires the reduction pipeline: an ordered canonical event
// feed is applied to the in-memory store through the handlers, with the
// ClickHouse mirror and Redis notifications attached when enabled.
package indexer

import (
	"context"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/db"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/handlers"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/logging"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/notify"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/rpc"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/yield"
	"go.uber.org/zap"
)

// App owns the reduction pipeline of one deployment.
type App struct {
	Config  *config.Config
	Store   *entities.Store
	Caller  chain.ViewCaller
	Yield   *yield.Engine
	Handler *handlers.Handler

	// Mirror and Notifier are nil when disabled; dispatch checks.
	Mirror   *db.Mirror
	Notifier *notify.Notifier

	// Events is the ordered canonical feed. The host delivers each event
	// exactly once, in chain order; the reduction applies no dedup of its own.
	Events chan any

	Logger *zap.Logger
}

// Initialize initializes the application.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr'
		panic(err)
	}

	cfg := config.FromEnv()
	store := entities.NewStore(&cfg.Protocol)

	var caller chain.ViewCaller
	if utils.Env("ETH_RPC_URL", "") != "" {
		rpcCaller, err := rpc.New(ctx, logger, &cfg.Protocol)
		if err != nil {
			logger.Fatal("Unable to establish rpc connection", zap.Error(err))
		}
		caller = rpcCaller
	} else {
		// No node configured: every view call reverts and handlers take their
		// documented fallbacks. Useful for offline replays and tests.
		logger.Warn("ETH_RPC_URL not set - view calls will report reverted")
		caller = chain.NewStubCaller()
	}

	engine := yield.NewEngine(store, caller, logger)

	var mirror *db.Mirror
	if cfg.MirrorEnabled {
		mirror, err = db.New(ctx, logger)
		if err != nil {
			logger.Warn("Failed to initialize ClickHouse mirror - analytics mirroring disabled",
				zap.Error(err))
			mirror = nil
		} else {
			logger.Info("ClickHouse mirror initialized")
		}
	}

	var notifier *notify.Notifier
	if cfg.NotifyEnabled {
		notifier, err = notify.New(ctx, logger)
		if err != nil {
			logger.Warn("Failed to initialize Redis client - notifications disabled",
				zap.Error(err))
			notifier = nil
		} else {
			logger.Info("Redis notifier initialized")
		}
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Caller:   caller,
		Yield:    engine,
		Handler:  handlers.New(store, caller, engine, logger),
		Mirror:   mirror,
		Notifier: notifier,
		Events:   make(chan any, 1024),
		Logger:   logger,
	}
}

// Start drains the event feed until the context is cancelled or the feed is
// closed. Events are applied strictly in arrival order.
func (a *App) Start(ctx context.Context) {
	a.Logger.Info("indexer started",
		zap.String("beanstalk", a.Config.Protocol.Beanstalk.Hex()),
		zap.String("version", a.Config.Version.String()),
	)

	for {
		select {
		case <-ctx.Done():
			a.Stop()
			return
		case ev, ok := <-a.Events:
			if !ok {
				a.Stop()
				return
			}
			a.Dispatch(ctx, ev)
		}
	}
}

// Stop releases the side-channel connections.
func (a *App) Stop() {
	if a.Notifier != nil {
		_ = a.Notifier.Close()
	}
	if a.Mirror != nil {
		_ = a.Mirror.Close()
	}
	if c, ok := a.Caller.(*rpc.Caller); ok {
		c.Close()
	}
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}
