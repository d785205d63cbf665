package handlers

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
	"github.com/ethereum/go-ethereum/common"
)

// bip24Tx emitted a StalkBalanceChanged with values already covered by the
// surrounding deposit events; applying it would double count.
var bip24Tx = common.HexToHash("0xa89638aeb0d6c4afb4f367ea7a806a4c8b3b2a6eeac773e8cc4eda10bfa804fc")

// AddDeposit applies one deposit addition: the deposit row grows and the
// silo and silo-asset aggregates gain the bdv, protocol row first.
func (h *Handler) AddDeposit(ev *events.AddDeposit) {
	s := h.store
	key := entities.DepositKey{Account: ev.Account, Token: ev.Token, Version: ev.Version, Index: ev.Index}
	dep := s.LoadSiloDeposit(key)
	dep.DepositedAmount = bigdec.Add(dep.DepositedAmount, ev.Amount)
	dep.DepositedBDV = bigdec.Add(dep.DepositedBDV, ev.Bdv)
	dep.Hashes = append(dep.Hashes, ev.Block.TxHash.Hex())
	if dep.CreatedAt == 0 {
		dep.CreatedAt = ev.Block.Timestamp
	}
	dep.UpdatedAt = ev.Block.Timestamp
	s.SaveSiloDeposit(dep)

	s.LoadFarmer(ev.Account)
	h.adjustDepositAggregates(ev.Account, ev.Token, ev.Amount, ev.Bdv, ev.Block.Timestamp)
}

// RemoveDeposit applies one deposit removal. Shapes that never emitted the
// removed bdv get it resolved pro rata from the stored deposit.
func (h *Handler) RemoveDeposit(ev *events.RemoveDeposit) {
	s := h.store
	key := entities.DepositKey{Account: ev.Account, Token: ev.Token, Version: ev.Version, Index: ev.Index}
	dep := s.LoadSiloDeposit(key)

	removedBdv := ev.Bdv
	if removedBdv == nil {
		if dep.DepositedAmount.Sign() == 0 {
			removedBdv = bigdec.Zero()
		} else {
			removedBdv = bigdec.Div(bigdec.Mul(ev.Amount, dep.DepositedBDV), dep.DepositedAmount)
		}
	}

	dep.DepositedAmount = bigdec.Sub(dep.DepositedAmount, ev.Amount)
	dep.DepositedBDV = bigdec.Sub(dep.DepositedBDV, removedBdv)
	dep.Hashes = append(dep.Hashes, ev.Block.TxHash.Hex())
	dep.UpdatedAt = ev.Block.Timestamp
	s.SaveSiloDeposit(dep)

	h.adjustDepositAggregates(ev.Account, ev.Token, bigdec.Neg(ev.Amount), bigdec.Neg(removedBdv), ev.Block.Timestamp)
}

// adjustDepositAggregates moves deposited amount and bdv through the silo
// and silo-asset aggregates, protocol row then account row.
func (h *Handler) adjustDepositAggregates(account, token common.Address, deltaAmount, deltaBdv *big.Int, timestamp uint64) {
	s := h.store
	for _, owner := range []common.Address{s.Proto.Beanstalk, account} {
		silo := s.LoadSilo(owner)
		silo.DepositedBDV = bigdec.Add(silo.DepositedBDV, deltaBdv)
		snapshots.TakeSiloSnapshots(s, silo, timestamp)
		s.SaveSilo(silo)

		asset := s.LoadSiloAsset(owner, token)
		asset.DepositedAmount = bigdec.Add(asset.DepositedAmount, deltaAmount)
		asset.DepositedBDV = bigdec.Add(asset.DepositedBDV, deltaBdv)
		snapshots.TakeSiloAssetSnapshots(s, asset, timestamp)
		s.SaveSiloAsset(asset)
	}
}

// AddWithdrawal opens (or grows) a withdraw row claimable next season and
// moves the amount into the withdrawn aggregates.
func (h *Handler) AddWithdrawal(ev *events.AddWithdrawal) {
	s := h.store
	key := entities.WithdrawKey{Account: ev.Account, Token: ev.Token, Season: ev.Season}
	w := s.LoadSiloWithdraw(key)
	w.Amount = bigdec.Add(w.Amount, ev.Amount)
	w.Hashes = append(w.Hashes, ev.Block.TxHash.Hex())
	if w.CreatedAt == 0 {
		w.CreatedAt = ev.Block.Timestamp
	}
	s.SaveSiloWithdraw(w)

	h.adjustWithdrawnAmount(ev.Account, ev.Token, ev.Amount, ev.Block.Timestamp)
}

// RemoveWithdrawal marks a withdraw claimed and releases the amount from
// the withdrawn aggregates.
func (h *Handler) RemoveWithdrawal(ev *events.RemoveWithdrawal) {
	s := h.store
	key := entities.WithdrawKey{Account: ev.Account, Token: ev.Token, Season: ev.Season}
	w := s.LoadSiloWithdraw(key)
	w.Claimed = true
	s.SaveSiloWithdraw(w)

	h.adjustWithdrawnAmount(ev.Account, ev.Token, bigdec.Neg(ev.Amount), ev.Block.Timestamp)
}

func (h *Handler) adjustWithdrawnAmount(account, token common.Address, delta *big.Int, timestamp uint64) {
	s := h.store
	for _, owner := range []common.Address{s.Proto.Beanstalk, account} {
		asset := s.LoadSiloAsset(owner, token)
		asset.WithdrawnAmount = bigdec.Add(asset.WithdrawnAmount, delta)
		snapshots.TakeSiloAssetSnapshots(s, asset, timestamp)
		s.SaveSiloAsset(asset)
	}
}

// StalkBalanceChanged applies a stalk/roots delta to the protocol and
// account silos and maintains the active-farmer count on the zero
// crossings.
func (h *Handler) StalkBalanceChanged(ev *events.StalkBalanceChanged) {
	if ev.Block.TxHash == bip24Tx {
		return
	}
	h.updateStalkBalances(ev.Account, ev.DeltaStalk, ev.DeltaRoots, ev.Block.Timestamp)
}

func (h *Handler) updateStalkBalances(account common.Address, deltaStalk, deltaRoots *big.Int, timestamp uint64) {
	s := h.store

	system := s.LoadSilo(s.Proto.Beanstalk)
	system.Stalk = bigdec.Add(system.Stalk, deltaStalk)
	system.Roots = bigdec.Add(system.Roots, deltaRoots)
	snapshots.TakeSiloSnapshots(s, system, timestamp)
	s.SaveSilo(system)

	if account == s.Proto.Beanstalk {
		return
	}

	silo := s.LoadSilo(account)
	wasActive := silo.Stalk.Sign() > 0
	silo.Stalk = bigdec.Add(silo.Stalk, deltaStalk)
	silo.Roots = bigdec.Add(silo.Roots, deltaRoots)
	snapshots.TakeSiloSnapshots(s, silo, timestamp)
	s.SaveSilo(silo)

	isActive := silo.Stalk.Sign() > 0
	if wasActive != isActive {
		delta := int32(1)
		if wasActive {
			delta = -1
		}
		b := s.LoadBeanstalk()
		if delta > 0 {
			b.ActiveFarmers++
		} else if b.ActiveFarmers > 0 {
			b.ActiveFarmers--
		}
		s.SaveBeanstalk(b)

		system.ActiveFarmers += delta
		s.SaveSilo(system)
	}
}

// Plant moves a farmer's earned beans out of the protocol aggregate; the
// follow-up AddDeposit event re-adds them under the farmer.
func (h *Handler) Plant(ev *events.Plant) {
	s := h.store
	stalk := bigdec.Mul(ev.Beans, h.stalkPerBean())

	system := s.LoadSilo(s.Proto.Beanstalk)
	system.Stalk = bigdec.Sub(system.Stalk, stalk)
	system.PlantableStalk = bigdec.Sub(system.PlantableStalk, stalk)
	system.DepositedBDV = bigdec.Sub(system.DepositedBDV, ev.Beans)
	snapshots.TakeSiloSnapshots(s, system, ev.Block.Timestamp)
	s.SaveSilo(system)

	asset := s.LoadSiloAsset(s.Proto.Beanstalk, s.Proto.Bean)
	asset.DepositedAmount = bigdec.Sub(asset.DepositedAmount, ev.Beans)
	asset.DepositedBDV = bigdec.Sub(asset.DepositedBDV, ev.Beans)
	snapshots.TakeSiloAssetSnapshots(s, asset, ev.Block.Timestamp)
	s.SaveSiloAsset(asset)
}

// WhitelistToken registers a token for silo rewards and writes its setting
// row. Gauge-era shapes also carry the gauge selectors and point seed.
func (h *Handler) WhitelistToken(ev *events.WhitelistToken) {
	s := h.store

	silo := s.LoadSilo(s.Proto.Beanstalk)
	entities.AddWhitelistedToken(silo, ev.Token)
	s.SaveSilo(silo)

	setting := s.LoadWhitelistTokenSetting(ev.Token)
	setting.Selector = ev.Selector
	setting.StalkEarnedPerSeason = bigdec.Copy(ev.StalkEarnedPerSeason)
	setting.StalkIssuedPerBdv = bigdec.Copy(ev.StalkIssuedPerBdv)
	if ev.GaugePoints != nil {
		setting.GaugePoints = bigdec.Copy(ev.GaugePoints)
	}
	if ev.OptimalPercentDepositedBdv != nil {
		setting.OptimalPercentDepositedBdv = bigdec.Copy(ev.OptimalPercentDepositedBdv)
	}
	if len(ev.GpSelector) > 0 {
		setting.GpSelector = ev.GpSelector
	}
	if len(ev.LwSelector) > 0 {
		setting.LwSelector = ev.LwSelector
	}
	setting.IsGaugeEnabled = ev.IsGaugeEnabled
	setting.UpdatedAt = ev.Block.Timestamp
	snapshots.TakeWhitelistTokenSettingSnapshots(s, setting, ev.Block.Timestamp)
	s.SaveWhitelistTokenSetting(setting)
}

// DewhitelistToken retires a token from silo rewards; its setting row and
// deposits survive.
func (h *Handler) DewhitelistToken(ev *events.DewhitelistToken) {
	s := h.store
	silo := s.LoadSilo(s.Proto.Beanstalk)
	entities.DewhitelistToken(silo, ev.Token)
	s.SaveSilo(silo)
}

// UpdatedStalkPerBdvPerSeason records a per-token seed rate change.
func (h *Handler) UpdatedStalkPerBdvPerSeason(ev *events.UpdatedStalkPerBdvPerSeason) {
	s := h.store
	setting := s.LoadWhitelistTokenSetting(ev.Token)
	setting.MilestoneSeason = ev.Season
	setting.StalkEarnedPerSeason = bigdec.Copy(ev.StalkEarnedPerSeason)
	setting.UpdatedAt = ev.Block.Timestamp
	snapshots.TakeWhitelistTokenSettingSnapshots(s, setting, ev.Block.Timestamp)
	s.SaveWhitelistTokenSetting(setting)
}
