package indexer

import (
	"context"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/notify"
	"go.uber.org/zap"
)

// Dispatch applies one canonical event to the store. The type switch is the
// single routing point; every canonical shape maps to exactly one handler
// method. Unknown shapes are logged and skipped so a feed upgrade cannot
// wedge the reduction.
func (a *App) Dispatch(ctx context.Context, ev any) {
	switch e := ev.(type) {
	// Silo
	case *events.AddDeposit:
		a.Handler.AddDeposit(e)
	case *events.RemoveDeposit:
		a.Handler.RemoveDeposit(e)
	case *events.AddWithdrawal:
		a.Handler.AddWithdrawal(e)
	case *events.RemoveWithdrawal:
		a.Handler.RemoveWithdrawal(e)
	case *events.StalkBalanceChanged:
		a.Handler.StalkBalanceChanged(e)
	case *events.Plant:
		a.Handler.Plant(e)
	case *events.WhitelistToken:
		a.Handler.WhitelistToken(e)
	case *events.DewhitelistToken:
		a.Handler.DewhitelistToken(e)
	case *events.UpdatedStalkPerBdvPerSeason:
		a.Handler.UpdatedStalkPerBdvPerSeason(e)

	// Field
	case *events.Sow:
		a.Handler.Sow(e)
	case *events.Harvest:
		a.Handler.Harvest(e)
	case *events.PlotTransfer:
		a.Handler.PlotTransfer(e)
	case *events.TemperatureChange:
		a.Handler.TemperatureChange(e)
	case *events.SoilIssued:
		a.Handler.SoilIssued(e)
	case *events.MigratedPlot:
		a.Handler.MigratedPlot(e)

	// Marketplace
	case *events.PodListingCreated:
		a.Handler.PodListingCreated(e)
		a.sideMarketEvent(ctx, entities.MarketEventListingCreated, e.Block)
	case *events.PodListingCancelled:
		a.Handler.PodListingCancelled(e)
		a.sideMarketEvent(ctx, entities.MarketEventListingCancelled, e.Block)
	case *events.PodOrderCreated:
		a.Handler.PodOrderCreated(e)
		a.sideMarketEvent(ctx, entities.MarketEventOrderCreated, e.Block)
	case *events.PodOrderCancelled:
		a.Handler.PodOrderCancelled(e)
		a.sideMarketEvent(ctx, entities.MarketEventOrderCancelled, e.Block)
	case *events.MarketFill:
		if e.OrderID != nil {
			a.Handler.PodOrderFilled(e)
			a.sideMarketEvent(ctx, entities.MarketEventOrderFilled, e.Block)
		} else {
			a.Handler.PodListingFilled(e)
			a.sideMarketEvent(ctx, entities.MarketEventListingFilled, e.Block)
		}

	// Fertilizer
	case *events.FertilizerTransfer:
		a.Handler.FertilizerTransfer(e)
	case *events.Chop:
		a.Handler.Chop(e)

	// Season
	case *events.Sunrise:
		a.Handler.Sunrise(e)
	case *events.Reward:
		a.Handler.Reward(e)
	case *events.Incentivization:
		a.Handler.Incentivization(e)
		a.sideSeason(ctx, e.Block)

	// Gauge / germination
	case *events.BeanToMaxLpGpPerBdvRatioChange:
		a.Handler.BeanToMaxLpGpPerBdvRatioChange(e)
	case *events.GaugePointChange:
		a.Handler.GaugePointChange(e)
	case *events.UpdateAverageStalkPerBdvPerSeason:
		a.Handler.UpdateAverageStalkPerBdvPerSeason(e)
	case *events.FarmerGerminatingStalkBalanceChanged:
		a.Handler.FarmerGerminatingStalkBalanceChanged(e)
	case *events.TotalGerminatingBalanceChanged:
		a.Handler.TotalGerminatingBalanceChanged(e)
	case *events.TotalGerminatingStalkChanged:
		a.Handler.TotalGerminatingStalkChanged(e)
	case *events.TotalStalkChangedFromGermination:
		a.Handler.TotalStalkChangedFromGermination(e)
	case *events.UpdatedOptimalPercentDepositedBdvForToken:
		a.Handler.UpdatedOptimalPercentDepositedBdvForToken(e)

	default:
		a.Logger.Warn("unknown event shape skipped", zap.Any("event", ev))
	}
}

// sideMarketEvent forwards the raw marketplace row the handler just appended
// to the mirror and the notifier. The row id is deterministic from the log
// provenance, so it is re-derived here instead of being threaded back.
func (a *App) sideMarketEvent(ctx context.Context, typ entities.MarketEventType, block events.BlockContext) {
	if a.Mirror == nil && a.Notifier == nil {
		return
	}
	row := a.Store.MarketEvents.LoadID(entities.MarketEventID(typ, block.TxHash, block.LogIndex))
	if row == nil {
		// The handler rejected the event (stale fill, unknown listing); there
		// is nothing to forward.
		return
	}
	if a.Mirror != nil {
		a.Mirror.MirrorMarketEvent(ctx, row)
	}
	if a.Notifier != nil {
		a.Notifier.PublishMarketEvent(ctx, row)
	}
}

// sideSeason mirrors and announces the completed season record. Runs on
// Incentivization, the last event of a season-advance transaction, so the
// record already carries the reward mint and the refreshed harvestable index.
func (a *App) sideSeason(ctx context.Context, block events.BlockContext) {
	if a.Mirror == nil && a.Notifier == nil {
		return
	}
	season := a.Store.CurrentSeason()
	if a.Mirror != nil {
		a.Mirror.MirrorSeason(ctx, a.Store, season)
	}
	if a.Notifier != nil {
		rec := a.Store.LoadSeason(season)
		a.Notifier.PublishSeason(ctx, notify.SeasonUpdate{
			Season:           rec.Season,
			Block:            block.Number,
			Timestamp:        block.Timestamp,
			RewardBeans:      rec.RewardBeans.String(),
			HarvestableIndex: rec.HarvestableIndex.String(),
			Price:            rec.Price.String(),
		})
	}
}
