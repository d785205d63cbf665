package handlers

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/germination"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
)

// BeanToMaxLpGpPerBdvRatioChange applies the gauge's seasonal ratio nudge.
// The first event initializes the ratio from nil.
func (h *Handler) BeanToMaxLpGpPerBdvRatioChange(ev *events.BeanToMaxLpGpPerBdvRatioChange) {
	s := h.store
	silo := s.LoadSilo(s.Proto.Beanstalk)
	if silo.BeanToMaxLpGpPerBdvRatio == nil {
		silo.BeanToMaxLpGpPerBdvRatio = bigdec.Copy(ev.AbsChange)
	} else {
		silo.BeanToMaxLpGpPerBdvRatio = bigdec.Add(silo.BeanToMaxLpGpPerBdvRatio, ev.AbsChange)
	}
	snapshots.TakeSiloSnapshots(s, silo, ev.Block.Timestamp)
	if ev.CaseID != nil {
		snapshots.SetSiloHourlyCaseID(s, ev.CaseID, silo)
	}
	s.SaveSilo(silo)
}

// GaugePointChange records a token's reallocated gauge points.
func (h *Handler) GaugePointChange(ev *events.GaugePointChange) {
	s := h.store
	setting := s.LoadWhitelistTokenSetting(ev.Token)
	setting.GaugePoints = bigdec.Copy(ev.GaugePoints)
	setting.UpdatedAt = ev.Block.Timestamp
	snapshots.TakeWhitelistTokenSettingSnapshots(s, setting, ev.Block.Timestamp)
	s.SaveWhitelistTokenSetting(setting)
}

// UpdateAverageStalkPerBdvPerSeason rescales the protocol's grown-stalk
// rate from the new average. Unripe deposits are excluded by the contract
// before it emits the average, so no correction is applied here.
func (h *Handler) UpdateAverageStalkPerBdvPerSeason(ev *events.UpdateAverageStalkPerBdvPerSeason) {
	s := h.store
	silo := s.LoadSilo(s.Proto.Beanstalk)
	silo.GrownStalkPerSeason = bigdec.Mul(silo.DepositedBDV, ev.NewStalkPerBdvPerSeason)
	snapshots.TakeSiloSnapshots(s, silo, ev.Block.Timestamp)
	s.SaveSilo(silo)
}

// FarmerGerminatingStalkBalanceChanged routes through the germination
// ledger, which owns the double-emission compensation.
func (h *Handler) FarmerGerminatingStalkBalanceChanged(ev *events.FarmerGerminatingStalkBalanceChanged) {
	germination.ApplyFarmerDelta(h.store, ev.Account, ev.Parity, ev.Delta,
		ev.Block.Number, ev.Block.LogIndex, ev.Block.Timestamp)
}

// TotalGerminatingBalanceChanged rewrites the token's buckets from the
// chain views; the event's own deltas only gate the no-op case.
func (h *Handler) TotalGerminatingBalanceChanged(ev *events.TotalGerminatingBalanceChanged) {
	if ev.DeltaAmount.Sign() == 0 && ev.DeltaBdv.Sign() == 0 {
		return
	}
	germination.RecomputeTokenLedger(h.store, h.caller, ev.Token)
}

// TotalGerminatingStalkChanged applies a protocol-level germinating-stalk
// delta to the season's bucket.
func (h *Handler) TotalGerminatingStalkChanged(ev *events.TotalGerminatingStalkChanged) {
	germination.ApplySystemStalkDelta(h.store, ev.GerminationSeason, ev.DeltaGerminatingStalk, ev.Block.Timestamp)
}

// TotalStalkChangedFromGermination credits matured germinating stalk to the
// protocol silo.
func (h *Handler) TotalStalkChangedFromGermination(ev *events.TotalStalkChangedFromGermination) {
	h.updateStalkBalances(h.store.Proto.Beanstalk, ev.DeltaStalk, ev.DeltaRoots, ev.Block.Timestamp)
}

// UpdatedOptimalPercentDepositedBdvForToken records a gauge target change.
func (h *Handler) UpdatedOptimalPercentDepositedBdvForToken(ev *events.UpdatedOptimalPercentDepositedBdvForToken) {
	s := h.store
	setting := s.LoadWhitelistTokenSetting(ev.Token)
	setting.OptimalPercentDepositedBdv = bigdec.Copy(ev.OptimalPercentDepositedBdv)
	setting.UpdatedAt = ev.Block.Timestamp
	snapshots.TakeWhitelistTokenSettingSnapshots(s, setting, ev.Block.Timestamp)
	s.SaveWhitelistTokenSetting(setting)
}
