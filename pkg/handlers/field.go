package handlers

import (
	"math/big"
	"sort"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fieldDelta carries the per-event pod-accounting deltas applied to a Field
// row. Nil members mean zero.
type fieldDelta struct {
	Soil            *big.Int
	SownBeans       *big.Int
	SownPods        *big.Int
	TransferredPods *big.Int
	HarvestablePods *big.Int
	HarvestedPods   *big.Int
}

func nz(v *big.Int) *big.Int {
	if v == nil {
		return bigdec.Zero()
	}
	return v
}

// updateFieldTotals applies one delta set to a single Field row and
// snapshots it. The soil sold-out block is stamped the moment soil reaches
// zero through sowing.
func (h *Handler) updateFieldTotals(account common.Address, season uint32, d fieldDelta, timestamp, blockNumber uint64) {
	s := h.store
	field := s.LoadField(account)

	field.Season = season
	field.Soil = bigdec.Add(field.Soil, bigdec.Sub(nz(d.Soil), nz(d.SownBeans)))
	field.SownBeans = bigdec.Add(field.SownBeans, nz(d.SownBeans))
	field.UnharvestablePods = bigdec.Add(field.UnharvestablePods,
		bigdec.Add(bigdec.Sub(nz(d.SownPods), nz(d.HarvestablePods)), nz(d.TransferredPods)))
	field.HarvestablePods = bigdec.Add(field.HarvestablePods, bigdec.Sub(nz(d.HarvestablePods), nz(d.HarvestedPods)))
	field.HarvestedPods = bigdec.Add(field.HarvestedPods, nz(d.HarvestedPods))
	field.PodIndex = bigdec.Add(field.PodIndex, nz(d.SownPods))

	if (nz(d.Soil).Sign() != 0 || nz(d.SownBeans).Sign() != 0) && field.Soil.Sign() == 0 {
		snapshots.SetFieldHourlySoilSoldOut(s, blockNumber, field)
	}

	snapshots.TakeFieldSnapshots(s, field, timestamp, blockNumber)
	s.SaveField(field)
}

// dualFieldTotals applies the same deltas to the protocol row and then the
// account row.
func (h *Handler) dualFieldTotals(account common.Address, season uint32, d fieldDelta, timestamp, blockNumber uint64) {
	h.updateFieldTotals(h.store.Proto.Beanstalk, season, d, timestamp, blockNumber)
	if account != h.store.Proto.Beanstalk {
		h.updateFieldTotals(account, season, d, timestamp, blockNumber)
	}
}

func addPlotIndex(field *entities.Field, index *big.Int) {
	field.PlotIndexes = append(field.PlotIndexes, bigdec.Copy(index))
}

func removePlotIndex(field *entities.Field, index *big.Int) {
	for i, v := range field.PlotIndexes {
		if v.Cmp(index) == 0 {
			field.PlotIndexes = append(field.PlotIndexes[:i], field.PlotIndexes[i+1:]...)
			return
		}
	}
}

func sortPlotIndexes(field *entities.Field) {
	sort.Slice(field.PlotIndexes, func(i, j int) bool {
		return field.PlotIndexes[i].Cmp(field.PlotIndexes[j]) < 0
	})
}

// Sow mints a plot at the end of the pod line and advances the sown
// aggregates for the protocol and the sower.
func (h *Handler) Sow(ev *events.Sow) {
	s := h.store
	season := s.CurrentSeason()

	h.dualFieldTotals(ev.Account, season, fieldDelta{
		SownBeans: ev.Beans,
		SownPods:  ev.Pods,
	}, ev.Block.Timestamp, ev.Block.Number)

	protoField := s.LoadField(s.Proto.Beanstalk)

	s.LoadFarmer(ev.Account)
	plot := s.LoadPlot(ev.Index)
	plot.Farmer = ev.Account.Hex()
	plot.Season = protoField.Season
	plot.Source = entities.PlotSourceSow
	plot.SourceHash = ev.Block.TxHash.Hex()
	plot.Beans = bigdec.Copy(ev.Beans)
	plot.Pods = bigdec.Copy(ev.Pods)
	plot.SownPods = bigdec.Copy(ev.Pods)
	plot.BeansPerPod = bigdec.Div(bigdec.Mul(ev.Beans, bigdec.Pow10(6)), ev.Pods)
	plot.Temperature = protoField.Temperature
	plot.CreationHash = ev.Block.TxHash.Hex()
	plot.CreatedAt = ev.Block.Timestamp
	plot.UpdatedAt = ev.Block.Timestamp
	s.SavePlot(plot)

	addPlotIndex(protoField, ev.Index)
	sortPlotIndexes(protoField)
	s.SaveField(protoField)

	h.incrementSows(ev.Account, ev.Block.Timestamp, ev.Block.Number)
}

// incrementSows bumps the sow counters on both rows; an account's first sow
// also makes it a sower on the protocol row.
func (h *Handler) incrementSows(account common.Address, timestamp, blockNumber uint64) {
	s := h.store
	protoField := s.LoadField(s.Proto.Beanstalk)
	if account == s.Proto.Beanstalk {
		protoField.NumberOfSows++
		snapshots.TakeFieldSnapshots(s, protoField, timestamp, blockNumber)
		s.SaveField(protoField)
		return
	}

	accountField := s.LoadField(account)
	if accountField.NumberOfSows == 0 {
		protoField.NumberOfSowers++
	}
	protoField.NumberOfSows++
	accountField.NumberOfSows++

	snapshots.TakeFieldSnapshots(s, protoField, timestamp, blockNumber)
	s.SaveField(protoField)
	snapshots.TakeFieldSnapshots(s, accountField, timestamp, blockNumber)
	s.SaveField(accountField)
}

// Harvest consumes the harvestable prefix of each listed plot. A plot whose
// pods extend past the harvestable cursor is split: the prefix is fully
// harvested and the suffix becomes a new plot at the cursor.
func (h *Handler) Harvest(ev *events.Harvest) {
	s := h.store
	harvestableIndex := s.HarvestableIndex()
	season := s.CurrentSeason()
	protoField := s.LoadField(s.Proto.Beanstalk)

	for _, index := range ev.Plots {
		plot := s.Plots.MustLoad(entities.PlotKey{Index: index})
		harvestable := bigdec.Sub(harvestableIndex, plot.Index)

		if harvestable.Cmp(plot.Pods) >= 0 {
			harvested := bigdec.Copy(plot.Pods)
			plot.HarvestablePods = bigdec.Copy(plot.Pods)
			plot.HarvestedPods = harvested
			plot.FullyHarvested = true
			plot.UpdatedAt = ev.Block.Timestamp
			s.SavePlot(plot)

			removePlotIndex(protoField, plot.Index)
			h.dualFieldTotals(ev.Account, season, fieldDelta{HarvestedPods: harvested},
				ev.Block.Timestamp, ev.Block.Number)
			continue
		}

		remainderIndex := bigdec.Add(plot.Index, harvestable)
		remainder := s.LoadPlot(remainderIndex)
		remainder.Farmer = plot.Farmer
		remainder.Field = plot.Field
		remainder.Season = protoField.Season
		remainder.Source = entities.PlotSourceHarvest
		remainder.SourceHash = ev.Block.TxHash.Hex()
		remainder.Pods = bigdec.Sub(plot.Pods, harvestable)
		remainder.BeansPerPod = bigdec.Copy(plot.BeansPerPod)
		remainder.Temperature = plot.Temperature
		remainder.CreationHash = ev.Block.TxHash.Hex()
		remainder.CreatedAt = ev.Block.Timestamp
		remainder.UpdatedAt = ev.Block.Timestamp
		s.SavePlot(remainder)

		plot.Pods = bigdec.Copy(harvestable)
		plot.HarvestablePods = bigdec.Copy(harvestable)
		plot.HarvestedPods = bigdec.Copy(harvestable)
		plot.FullyHarvested = true
		plot.UpdatedAt = ev.Block.Timestamp
		s.SavePlot(plot)

		removePlotIndex(protoField, plot.Index)
		addPlotIndex(protoField, remainderIndex)
		h.dualFieldTotals(ev.Account, season, fieldDelta{HarvestedPods: harvestable},
			ev.Block.Timestamp, ev.Block.Number)
	}

	sortPlotIndexes(protoField)
	s.SaveField(protoField)
}

// PlotTransfer moves a pod range between farmers, splitting the enclosing
// plot when the range is a strict subrange.
func (h *Handler) PlotTransfer(ev *events.PlotTransfer) {
	s := h.store
	protoField := s.LoadField(s.Proto.Beanstalk)
	transferEnd := bigdec.Add(ev.Index, ev.Pods)

	var source *entities.Plot
	for _, idx := range protoField.PlotIndexes {
		p := s.Plots.MustLoad(entities.PlotKey{Index: idx})
		if ev.Index.Cmp(p.Index) >= 0 && transferEnd.Cmp(bigdec.Add(p.Index, p.Pods)) <= 0 {
			source = p
			break
		}
	}
	if source == nil {
		h.logger.Error("plot transfer outside any tracked plot",
			zap.String("index", ev.Index.String()),
			zap.String("tx", ev.Block.TxHash.Hex()),
		)
		return
	}

	s.LoadFarmer(ev.To)
	sourceEnd := bigdec.Add(source.Index, source.Pods)

	newPlot := func(index, pods *big.Int, farmer common.Address) *entities.Plot {
		p := s.LoadPlot(index)
		p.Farmer = farmer.Hex()
		p.Field = source.Field
		p.Season = protoField.Season
		p.Source = entities.PlotSourceTransfer
		p.SourceHash = ev.Block.TxHash.Hex()
		p.Pods = bigdec.Copy(pods)
		p.BeansPerPod = bigdec.Copy(source.BeansPerPod)
		p.Temperature = source.Temperature
		p.CreationHash = ev.Block.TxHash.Hex()
		p.CreatedAt = ev.Block.Timestamp
		p.UpdatedAt = ev.Block.Timestamp
		return p
	}

	switch {
	case ev.Index.Cmp(source.Index) == 0 && ev.Pods.Cmp(source.Pods) == 0:
		// Whole plot changes hands.
		source.Farmer = ev.To.Hex()
		source.UpdatedAt = ev.Block.Timestamp
		s.SavePlot(source)

	case ev.Index.Cmp(source.Index) == 0:
		// Transferred range starts the plot; the suffix stays with the
		// sender as a new plot.
		remainder := newPlot(transferEnd, bigdec.Sub(source.Pods, ev.Pods), ev.From)
		s.SavePlot(remainder)

		source.Farmer = ev.To.Hex()
		source.Pods = bigdec.Copy(ev.Pods)
		source.UpdatedAt = ev.Block.Timestamp
		s.SavePlot(source)

		addPlotIndex(protoField, transferEnd)

	case transferEnd.Cmp(sourceEnd) == 0:
		// Transferred range ends the plot.
		source.Pods = bigdec.Sub(source.Pods, ev.Pods)
		source.UpdatedAt = ev.Block.Timestamp
		s.SavePlot(source)

		to := newPlot(ev.Index, ev.Pods, ev.To)
		s.SavePlot(to)
		addPlotIndex(protoField, ev.Index)

	default:
		// Strict middle: the source keeps the prefix, the recipient gets the
		// range, and the sender keeps the suffix as a third plot.
		source.Pods = bigdec.Sub(ev.Index, source.Index)
		source.UpdatedAt = ev.Block.Timestamp
		s.SavePlot(source)

		to := newPlot(ev.Index, ev.Pods, ev.To)
		s.SavePlot(to)
		addPlotIndex(protoField, ev.Index)

		remainder := newPlot(transferEnd, bigdec.Sub(sourceEnd, transferEnd), ev.From)
		s.SavePlot(remainder)
		addPlotIndex(protoField, transferEnd)
	}

	sortPlotIndexes(protoField)
	s.SaveField(protoField)

	season := s.CurrentSeason()
	h.updateFieldTotals(ev.From, season, fieldDelta{TransferredPods: bigdec.Neg(ev.Pods)},
		ev.Block.Timestamp, ev.Block.Number)
	h.updateFieldTotals(ev.To, season, fieldDelta{TransferredPods: ev.Pods},
		ev.Block.Timestamp, ev.Block.Number)

	h.UpdateHarvestablePlots(s.HarvestableIndex(), ev.Block.Timestamp, ev.Block.Number)
}

// TemperatureChange adjusts the protocol temperature and rederives the real
// rate of return against the season price.
func (h *Handler) TemperatureChange(ev *events.TemperatureChange) {
	s := h.store
	field := s.LoadField(s.Proto.Beanstalk)
	field.Temperature = field.Temperature.Add(decimal.NewFromInt(int64(ev.AbsChange)))

	season := s.LoadSeason(ev.Season)
	if !season.Price.IsZero() {
		one := decimal.NewFromInt(1)
		field.RealRateOfReturn = one.Add(field.Temperature.Div(decimal.NewFromInt(100))).Div(season.Price)
	}

	if ev.CaseID != nil {
		snapshots.SetFieldHourlyCaseID(s, ev.CaseID, field)
	}
	snapshots.TakeFieldSnapshots(s, field, ev.Block.Timestamp, ev.Block.Number)
	s.SaveField(field)
}

// SoilIssued sets the season's soil outright; replant-era emissions replace
// rather than accumulate. Seasons past the EMA floor also trigger the yield
// recomputation, after the soil is recorded.
func (h *Handler) SoilIssued(ev *events.SoilIssued) {
	s := h.store
	field := s.LoadField(s.Proto.Beanstalk)
	field.Season = ev.Season
	field.Soil = bigdec.Copy(ev.Soil)
	snapshots.TakeFieldSnapshots(s, field, ev.Block.Timestamp, ev.Block.Number)
	s.SaveField(field)

	if ev.Season >= s.Proto.MinEMASeason {
		h.yield.UpdateSeasonYields(ev.Block.Timestamp)
	}
}

// MigratedPlot imports a plot from a prior deployment's ledger. The pods
// enter the aggregates as a transfer; the cursor pass afterwards classifies
// any already-harvestable prefix.
func (h *Handler) MigratedPlot(ev *events.MigratedPlot) {
	s := h.store
	protoField := s.LoadField(s.Proto.Beanstalk)

	s.LoadFarmer(ev.Account)
	plot := s.LoadPlot(ev.Index)
	plot.Farmer = ev.Account.Hex()
	plot.Season = protoField.Season
	plot.Source = entities.PlotSourceReseed
	plot.SourceHash = ev.Block.TxHash.Hex()
	plot.Pods = bigdec.Copy(ev.Pods)
	plot.CreationHash = ev.Block.TxHash.Hex()
	plot.CreatedAt = ev.Block.Timestamp
	plot.UpdatedAt = ev.Block.Timestamp
	s.SavePlot(plot)

	addPlotIndex(protoField, ev.Index)
	sortPlotIndexes(protoField)
	s.SaveField(protoField)

	h.dualFieldTotals(ev.Account, s.CurrentSeason(), fieldDelta{TransferredPods: ev.Pods},
		ev.Block.Timestamp, ev.Block.Number)

	h.UpdateHarvestablePlots(s.HarvestableIndex(), ev.Block.Timestamp, ev.Block.Number)
}

// UpdateHarvestablePlots sweeps the sorted plot index list up to the
// harvestable cursor and credits each plot's newly harvestable pods to its
// farmer and the protocol.
func (h *Handler) UpdateHarvestablePlots(harvestableIndex *big.Int, timestamp, blockNumber uint64) {
	s := h.store
	protoField := s.LoadField(s.Proto.Beanstalk)
	season := s.CurrentSeason()

	for _, index := range protoField.PlotIndexes {
		if index.Cmp(harvestableIndex) > 0 {
			break
		}
		plot := s.Plots.MustLoad(entities.PlotKey{Index: index})
		if plot.HarvestablePods.Cmp(plot.Pods) == 0 {
			continue
		}

		newHarvestable := bigdec.Sub(harvestableIndex, plot.Index)
		if newHarvestable.Cmp(plot.Pods) > 0 {
			newHarvestable = bigdec.Copy(plot.Pods)
		}
		delta := bigdec.Sub(newHarvestable, plot.HarvestablePods)
		if delta.Sign() <= 0 {
			continue
		}

		plot.HarvestablePods = newHarvestable
		s.SavePlot(plot)

		h.dualFieldTotals(common.HexToAddress(plot.Farmer), season,
			fieldDelta{HarvestablePods: delta}, timestamp, blockNumber)
	}
}
