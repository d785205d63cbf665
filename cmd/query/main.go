// The query binary runs the reduction and the HTTP query server in one
// process: the server reads the same in-memory store the event loop writes,
// so there is no serialization boundary between them.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/beanstalk-farms/beanstalk-indexer/app/indexer"
	"github.com/beanstalk-farms/beanstalk-indexer/app/query"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	idx := indexer.Initialize(ctx)
	app := query.Initialize(ctx, idx.Config, idx.Store, idx.Notifier)

	serverErr := query.NewServer(app)
	if serverErr != nil {
		app.Logger.Fatal("Unable to initialize server", zap.Error(serverErr))
	}

	go idx.Start(ctx)
	app.Start(ctx)
}
