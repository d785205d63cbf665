package handlers

import (
	"math/big"
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSowCreatesPlotAndAdvancesTotals(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1500)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000)})

	proto := s.LoadField(s.Proto.Beanstalk)
	eqBig(t, 1000, proto.Soil)
	eqBig(t, 500, proto.SownBeans)
	eqBig(t, 1000, proto.UnharvestablePods)
	eqBig(t, 1000, proto.PodIndex)
	assert.Equal(t, int32(1), proto.NumberOfSowers)
	assert.Equal(t, int32(1), proto.NumberOfSows)
	require.Len(t, proto.PlotIndexes, 1)
	eqBig(t, 0, proto.PlotIndexes[0])

	account := s.LoadField(farmerA)
	eqBig(t, 1000, account.UnharvestablePods)
	assert.Equal(t, int32(1), account.NumberOfSows)
	assert.Equal(t, int32(0), account.NumberOfSowers)
	assert.Empty(t, account.PlotIndexes)

	plot := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(0)})
	assert.Equal(t, farmerA.Hex(), plot.Farmer)
	assert.Equal(t, entities.PlotSourceSow, plot.Source)
	eqBig(t, 1000, plot.Pods)
	// 500 beans for 1000 pods at 6 decimals of precision.
	eqBig(t, 500_000, plot.BeansPerPod)
	assert.True(t, plot.Temperature.Equal(decimal.NewFromInt(1)))

	assert.NotNil(t, s.Farmers.LoadID(farmerA.Hex()))
}

func TestSowSecondAccountSowDoesNotRecountSower(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(100), Pods: bigdec.BI(200)})
	h.Sow(&events.Sow{Block: blk(12, 1020, 1), Account: farmerA, Index: bigdec.BI(200), Beans: bigdec.BI(100), Pods: bigdec.BI(200)})

	proto := s.LoadField(s.Proto.Beanstalk)
	assert.Equal(t, int32(1), proto.NumberOfSowers)
	assert.Equal(t, int32(2), proto.NumberOfSows)
	eqBig(t, 400, proto.PodIndex)
}

func TestSowToZeroSoilStampsSoldOutBlock(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(100)})
	h.Sow(&events.Sow{Block: blk(14, 1040, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(100), Pods: bigdec.BI(200)})

	proto := s.LoadField(s.Proto.Beanstalk)
	assert.True(t, bigdec.IsZero(proto.Soil))

	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(proto.ID, 1))
	assert.True(t, hourly.SoilSoldOut)
	// The bucket was opened at block 10 by the soil issuance.
	eqBig(t, 4, hourly.BlocksToSoldOutSoil)
}

func TestHarvestFullPlot(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000)})

	season := s.LoadSeason(1)
	season.HarvestableIndex = bigdec.BI(1000)
	s.SaveSeason(season)
	h.UpdateHarvestablePlots(bigdec.BI(1000), 1020, 12)

	proto := s.LoadField(s.Proto.Beanstalk)
	eqBig(t, 0, proto.UnharvestablePods)
	eqBig(t, 1000, proto.HarvestablePods)

	h.Harvest(&events.Harvest{Block: blk(13, 1030, 0), Account: farmerA, Plots: []*big.Int{bigdec.BI(0)}, Beans: bigdec.BI(500)})

	plot := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(0)})
	assert.True(t, plot.FullyHarvested)
	eqBig(t, 1000, plot.HarvestedPods)

	proto = s.LoadField(s.Proto.Beanstalk)
	eqBig(t, 0, proto.HarvestablePods)
	eqBig(t, 1000, proto.HarvestedPods)
	assert.Empty(t, proto.PlotIndexes)

	eqBig(t, 1000, s.LoadField(farmerA).HarvestedPods)
}

func TestHarvestSplitsPartiallyHarvestablePlot(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000)})

	season := s.LoadSeason(1)
	season.HarvestableIndex = bigdec.BI(400)
	s.SaveSeason(season)
	h.UpdateHarvestablePlots(bigdec.BI(400), 1020, 12)

	h.Harvest(&events.Harvest{Block: blk(13, 1030, 0), Account: farmerA, Plots: []*big.Int{bigdec.BI(0)}, Beans: bigdec.BI(200)})

	harvested := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(0)})
	assert.True(t, harvested.FullyHarvested)
	eqBig(t, 400, harvested.Pods)

	remainder := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(400)})
	assert.Equal(t, entities.PlotSourceHarvest, remainder.Source)
	eqBig(t, 600, remainder.Pods)
	assert.Equal(t, farmerA.Hex(), remainder.Farmer)
	eqBig(t, 500_000, remainder.BeansPerPod)

	proto := s.LoadField(s.Proto.Beanstalk)
	eqBig(t, 400, proto.HarvestedPods)
	eqBig(t, 0, proto.HarvestablePods)
	eqBig(t, 600, proto.UnharvestablePods)
	require.Len(t, proto.PlotIndexes, 1)
	eqBig(t, 400, proto.PlotIndexes[0])
}

func TestPlotTransferWholePlot(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000)})

	h.PlotTransfer(&events.PlotTransfer{Block: blk(12, 1020, 0), From: farmerA, To: farmerB, Index: bigdec.BI(0), Pods: bigdec.BI(1000)})

	plot := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(0)})
	assert.Equal(t, farmerB.Hex(), plot.Farmer)
	eqBig(t, 1000, plot.Pods)

	eqBig(t, 0, s.LoadField(farmerA).UnharvestablePods)
	eqBig(t, 1000, s.LoadField(farmerB).UnharvestablePods)
	// Protocol totals are untouched by a transfer.
	eqBig(t, 1000, s.LoadField(s.Proto.Beanstalk).UnharvestablePods)
}

func TestPlotTransferMiddleSplitsIntoThree(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000)})

	h.PlotTransfer(&events.PlotTransfer{Block: blk(12, 1020, 0), From: farmerA, To: farmerB, Index: bigdec.BI(200), Pods: bigdec.BI(300)})

	prefix := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(0)})
	assert.Equal(t, farmerA.Hex(), prefix.Farmer)
	eqBig(t, 200, prefix.Pods)

	middle := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(200)})
	assert.Equal(t, farmerB.Hex(), middle.Farmer)
	eqBig(t, 300, middle.Pods)
	assert.Equal(t, entities.PlotSourceTransfer, middle.Source)

	suffix := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(500)})
	assert.Equal(t, farmerA.Hex(), suffix.Farmer)
	eqBig(t, 500, suffix.Pods)

	proto := s.LoadField(s.Proto.Beanstalk)
	require.Len(t, proto.PlotIndexes, 3)
	eqBig(t, 0, proto.PlotIndexes[0])
	eqBig(t, 200, proto.PlotIndexes[1])
	eqBig(t, 500, proto.PlotIndexes[2])

	eqBig(t, 700, s.LoadField(farmerA).UnharvestablePods)
	eqBig(t, 300, s.LoadField(farmerB).UnharvestablePods)
}

func TestPlotTransferOutsideTrackedPlotsIgnored(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(1000)})
	h.Sow(&events.Sow{Block: blk(11, 1010, 0), Account: farmerA, Index: bigdec.BI(0), Beans: bigdec.BI(500), Pods: bigdec.BI(1000)})
	before := s.Plots.Len()

	h.PlotTransfer(&events.PlotTransfer{Block: blk(12, 1020, 0), From: farmerA, To: farmerB, Index: bigdec.BI(5000), Pods: bigdec.BI(10)})

	assert.Equal(t, before, s.Plots.Len())
	eqBig(t, 1000, s.LoadField(farmerA).UnharvestablePods)
}

func TestMigratedPlotSweepsAlreadyHarvestablePods(t *testing.T) {
	h, s, _ := newTestHandler()

	season := s.LoadSeason(1)
	season.HarvestableIndex = bigdec.BI(2000)
	s.SaveSeason(season)

	h.MigratedPlot(&events.MigratedPlot{Block: blk(20, 2000, 0), Account: farmerA, Index: bigdec.BI(100), Pods: bigdec.BI(500)})

	plot := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.BI(100)})
	assert.Equal(t, entities.PlotSourceReseed, plot.Source)
	eqBig(t, 500, plot.HarvestablePods)

	proto := s.LoadField(s.Proto.Beanstalk)
	eqBig(t, 0, proto.UnharvestablePods)
	eqBig(t, 500, proto.HarvestablePods)

	account := s.LoadField(farmerA)
	eqBig(t, 0, account.UnharvestablePods)
	eqBig(t, 500, account.HarvestablePods)
}

func TestTemperatureChangeRederivesRateOfReturn(t *testing.T) {
	h, s, _ := newTestHandler()

	// Snapshot the field once so the case id has a bucket to land on.
	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(100)})

	season := s.LoadSeason(1)
	season.Price = decimal.NewFromInt(2)
	s.SaveSeason(season)

	h.TemperatureChange(&events.TemperatureChange{Block: blk(11, 1010, 0), Season: 1, CaseID: bigdec.BI(3), AbsChange: 99})

	field := s.LoadField(s.Proto.Beanstalk)
	assert.True(t, field.Temperature.Equal(decimal.NewFromInt(100)))
	// (1 + 100/100) / 2.
	assert.True(t, field.RealRateOfReturn.Equal(decimal.NewFromInt(1)))

	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, 1))
	eqBig(t, 3, hourly.CaseID)
}

func TestSoilIssuedReplacesRatherThanAccumulates(t *testing.T) {
	h, s, _ := newTestHandler()

	h.SoilIssued(&events.SoilIssued{Block: blk(10, 1000, 0), Season: 1, Soil: bigdec.BI(100)})
	h.SoilIssued(&events.SoilIssued{Block: blk(11, 1010, 0), Season: 1, Soil: bigdec.BI(40)})

	eqBig(t, 40, s.LoadField(s.Proto.Beanstalk).Soil)
}
