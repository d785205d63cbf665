package handlers

import (
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/stretchr/testify/assert"
)

func TestSunriseAdvancesSeason(t *testing.T) {
	h, s, _ := newTestHandler()

	h.Sunrise(&events.Sunrise{Block: blk(100, 5000, 0), Season: s.Proto.MinEMASeason})

	assert.Equal(t, s.Proto.MinEMASeason, s.CurrentSeason())
	season := s.LoadSeason(s.Proto.MinEMASeason)
	assert.Equal(t, uint64(100), season.SunriseBlock)
	assert.Equal(t, uint64(5000), season.CreatedAt)
	// The first post-replant season is seeded at the replant exchange rate.
	assert.Equal(t, "1.07", season.Price.String())
	assert.Equal(t, s.Proto.MinEMASeason, s.LoadPodMarketplace().Season)
	assert.Equal(t, s.Proto.MinEMASeason, s.LoadField(s.Proto.Beanstalk).Season)
}

func TestRewardCreditsSiloShare(t *testing.T) {
	h, s, _ := newTestHandler()

	h.Reward(&events.Reward{
		Block: blk(10, 1000, 0), Season: 1,
		ToField: bigdec.BI(10), ToSilo: bigdec.BI(100), ToFert: bigdec.BI(5),
	})

	eqBig(t, 115, s.LoadSeason(1).RewardBeans)

	silo := s.LoadSilo(s.Proto.Beanstalk)
	eqBig(t, 100, silo.BeanMints)
	eqBig(t, 1_000_000, silo.Stalk)
	eqBig(t, 1_000_000, silo.PlantableStalk)
	eqBig(t, 100, silo.DepositedBDV)

	asset := s.LoadSiloAsset(s.Proto.Beanstalk, s.Proto.Bean)
	eqBig(t, 100, asset.DepositedAmount)
	eqBig(t, 100, asset.DepositedBDV)
}

func TestIncentivizationRevertLeavesCursor(t *testing.T) {
	h, s, _ := newTestHandler()

	h.Incentivization(&events.Incentivization{Block: blk(10, 1000, 0), Account: farmerA, Beans: bigdec.BI(7)})

	season := s.LoadSeason(1)
	eqBig(t, 7, season.IncentiveBeans)
	eqBig(t, 0, season.HarvestableIndex)
}

func TestIncentivizationAdvancesCursorAndSweepsPlots(t *testing.T) {
	h, s, caller := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{
		Block: blk(11, 1010, 0), Account: farmerA,
		Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000),
	})
	caller.Harvestable = bigdec.BI(600)

	h.Incentivization(&events.Incentivization{Block: blk(12, 1020, 0), Account: farmerB, Beans: bigdec.BI(7)})

	eqBig(t, 600, s.LoadSeason(1).HarvestableIndex)

	plot := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(0)})
	eqBig(t, 600, plot.HarvestablePods)

	field := s.LoadField(s.Proto.Beanstalk)
	eqBig(t, 600, field.HarvestablePods)
	eqBig(t, 400, field.UnharvestablePods)
}
