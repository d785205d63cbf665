package handlers

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/marketplace"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var replantPrice = decimal.RequireFromString("1.07")

// Sunrise advances the season counter and rolls the field, market, and silo
// aggregates into the new season's snapshot buckets.
func (h *Handler) Sunrise(ev *events.Sunrise) {
	s := h.store

	b := s.LoadBeanstalk()
	b.LastSeason = ev.Season
	s.SaveBeanstalk(b)

	season := s.LoadSeason(ev.Season)
	season.SunriseBlock = ev.Block.Number
	season.CreatedAt = ev.Block.Timestamp
	if ev.Season == s.Proto.MinEMASeason {
		// First post-replant season; the price oracle was seeded at the
		// replant exchange rate.
		season.Price = replantPrice
	}
	s.SaveSeason(season)

	field := s.LoadField(s.Proto.Beanstalk)
	field.Season = ev.Season
	if season.Beans.Sign() != 0 {
		field.PodRate = decimal.NewFromBigInt(field.UnharvestablePods, 0).
			Div(decimal.NewFromBigInt(season.Beans, 0))
	}
	snapshots.TakeFieldSnapshots(s, field, ev.Block.Timestamp, ev.Block.Number)
	s.SaveField(field)

	market := s.LoadPodMarketplace()
	market.Season = ev.Season
	snapshots.TakeMarketSnapshots(s, market, ev.Block.Timestamp)
	s.SavePodMarketplace(market)

	silo := s.LoadSilo(s.Proto.Beanstalk)
	snapshots.TakeSiloSnapshots(s, silo, ev.Block.Timestamp)
	s.SaveSilo(silo)
	for _, token := range silo.WhitelistedTokens {
		asset := s.LoadSiloAsset(s.Proto.Beanstalk, token)
		snapshots.TakeSiloAssetSnapshots(s, asset, ev.Block.Timestamp)
		s.SaveSiloAsset(asset)
	}

	h.logger.Info("sunrise", zap.Uint32("season", ev.Season), zap.Uint64("block", ev.Block.Number))
}

// Reward records the season's mint and credits the silo's share to the
// protocol aggregate as plantable stalk. Farmers claim their share later
// through Plant.
func (h *Handler) Reward(ev *events.Reward) {
	s := h.store

	season := s.LoadSeason(ev.Season)
	season.RewardBeans = bigdec.Add(bigdec.Add(ev.ToField, ev.ToSilo), ev.ToFert)
	s.SaveSeason(season)

	stalk := bigdec.Mul(ev.ToSilo, h.stalkPerBean())
	silo := s.LoadSilo(s.Proto.Beanstalk)
	silo.BeanMints = bigdec.Add(silo.BeanMints, ev.ToSilo)
	silo.Stalk = bigdec.Add(silo.Stalk, stalk)
	silo.PlantableStalk = bigdec.Add(silo.PlantableStalk, stalk)
	silo.DepositedBDV = bigdec.Add(silo.DepositedBDV, ev.ToSilo)
	snapshots.TakeSiloSnapshots(s, silo, ev.Block.Timestamp)
	s.SaveSilo(silo)

	asset := s.LoadSiloAsset(s.Proto.Beanstalk, s.Proto.Bean)
	asset.DepositedAmount = bigdec.Add(asset.DepositedAmount, ev.ToSilo)
	asset.DepositedBDV = bigdec.Add(asset.DepositedBDV, ev.ToSilo)
	snapshots.TakeSiloAssetSnapshots(s, asset, ev.Block.Timestamp)
	s.SaveSiloAsset(asset)
}

// Incentivization closes out the sunrise transaction: it records the caller
// reward, refreshes the market cap, and advances the harvestable cursor
// from the contract, expiring listings and sweeping plots behind it.
func (h *Handler) Incentivization(ev *events.Incentivization) {
	s := h.store

	season := s.LoadSeason(s.CurrentSeason())
	season.IncentiveBeans = bigdec.Copy(ev.Beans)
	season.MarketCap = season.Price.Mul(bigdec.ToDecimal(season.Beans, int32(s.Proto.BeanDecimals)))
	s.SaveSeason(season)

	cursor, reverted := h.caller.HarvestableIndex()
	if reverted {
		h.logger.Warn("harvestable index view reverted", zap.Uint32("season", season.Season))
		return
	}
	season.HarvestableIndex = bigdec.Copy(cursor)
	s.SaveSeason(season)

	marketplace.ExpireListings(s, cursor, ev.Block.Timestamp)
	h.UpdateHarvestablePlots(cursor, ev.Block.Timestamp, ev.Block.Number)
}
