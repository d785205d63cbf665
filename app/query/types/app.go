package types

import (
	"context"
	"net/http"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/notify"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// App is the query server's wiring. It reads the same in-memory store the
// reduction writes; the store's collections are concurrent-safe, so reads
// never block the event loop.
type App struct {
	Config *config.Config
	Store  *entities.Store

	// Notifier is nil when Redis is disabled; the season websocket reports
	// unavailable in that case.
	Notifier *notify.Notifier

	// Stats holds the cron-refreshed global stats under the "global" key.
	Stats *xsync.Map[string, *GlobalStats]

	Cron     *cron.Cron
	CronSpec string

	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests.
	Server *http.Server
}

// Start starts the application.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	_ = a.Server.Shutdown(shutdownCtx)
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}
