package controller

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/app/query/types"
)

const statsKey = "global"

func bigStr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// RefreshStats rebuilds the global stats snapshot from the store. Invoked by
// the cron schedule and by the admin refresh route.
func RefreshStats(_ context.Context, app *types.App) {
	proto := app.Store.Proto.Beanstalk
	season := app.Store.LoadSeason(app.Store.CurrentSeason())
	silo := app.Store.LoadSilo(proto)
	field := app.Store.LoadField(proto)
	market := app.Store.LoadPodMarketplace()

	app.Stats.Store(statsKey, &types.GlobalStats{
		Season:           season.Season,
		Price:            season.Price.InexactFloat64(),
		MarketCap:        season.MarketCap.InexactFloat64(),
		BeanSupply:       bigStr(season.Beans),
		RewardBeans:      bigStr(season.RewardBeans),
		HarvestableIndex: bigStr(season.HarvestableIndex),

		DepositedBDV:     bigStr(silo.DepositedBDV),
		Stalk:            bigStr(silo.Stalk),
		GerminatingStalk: bigStr(silo.GerminatingStalk),
		ActiveFarmers:    silo.ActiveFarmers,

		PodIndex:          bigStr(field.PodIndex),
		UnharvestablePods: bigStr(field.UnharvestablePods),
		HarvestablePods:   bigStr(field.HarvestablePods),
		HarvestedPods:     bigStr(field.HarvestedPods),
		Soil:              bigStr(field.Soil),
		Temperature:       field.Temperature.InexactFloat64(),
		PodRate:           field.PodRate.InexactFloat64(),

		ActiveListings:      len(market.ActiveListings),
		ActiveOrders:        len(market.ActiveOrders),
		AvailableListedPods: bigStr(market.AvailableListedPods),
		AvailableOrderBeans: bigStr(market.AvailableOrderBeans),
		PodVolume:           bigStr(market.PodVolume),
		BeanVolume:          bigStr(market.BeanVolume),

		RefreshedAt: time.Now().Unix(),
	})
}

// HandleStats serves the cached snapshot.
func (c *Controller) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats, ok := c.App.Stats.Load(statsKey)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "stats not ready")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleStatsRefresh forces a cache rebuild outside the cron schedule.
func (c *Controller) HandleStatsRefresh(w http.ResponseWriter, r *http.Request) {
	RefreshStats(r.Context(), c.App)
	stats, _ := c.App.Stats.Load(statsKey)
	writeJSON(w, http.StatusOK, stats)
}
