// Package handlers applies canonical events to the entity store. One method
// per event; each method performs the full mutation for that event including
// snapshot upkeep, so the dispatcher only has to deliver events in log order.
//
// Aggregate updates always run twice, protocol row first and then the
// account row, with the same deltas. Nothing here recurses.
package handlers

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/yield"
	"go.uber.org/zap"
)

// Handler owns event application for one deployment.
type Handler struct {
	store  *entities.Store
	caller chain.ViewCaller
	yield  *yield.Engine
	logger *zap.Logger
}

// New builds a handler over a store, a view-call boundary, and the yield
// engine triggered at season boundaries.
func New(store *entities.Store, caller chain.ViewCaller, engine *yield.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		caller: caller,
		yield:  engine,
		logger: logger.Named("handlers"),
	}
}

// stalkPerBean returns the raw stalk issued per raw bean (one whole stalk
// per whole bean, scaled across the decimal gap).
func (h *Handler) stalkPerBean() *big.Int {
	return new(big.Int).Exp(
		big.NewInt(10),
		big.NewInt(int64(h.store.Proto.StalkDecimals-h.store.Proto.BeanDecimals)),
		nil,
	)
}
