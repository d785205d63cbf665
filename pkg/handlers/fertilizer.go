package handlers

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// replantHumidity is the 500% humidity of every fertilizer minted before
// the replant block, and the fallback when the humidity view reverts.
var replantHumidity = decimal.NewFromInt(500)

// FertilizerTransfer applies one ERC-1155 movement. Mints come from the
// zero address; anything else shifts balances between holders, deleting
// emptied rows.
func (h *Handler) FertilizerTransfer(ev *events.FertilizerTransfer) {
	s := h.store
	if !s.Proto.HasFertilizer() {
		return
	}

	zero := common.Address{}
	switch {
	case ev.From == zero:
		h.fertilizerMint(ev)
	case ev.To == zero:
		h.fertilizerBurn(ev)
	default:
		from := s.LoadFertilizerBalance(ev.ID, ev.From)
		from.Amount = bigdec.Sub(from.Amount, ev.Amount)
		s.SaveFertilizerBalance(from)

		s.LoadFarmer(ev.To)
		to := s.LoadFertilizerBalance(ev.ID, ev.To)
		to.Amount = bigdec.Add(to.Amount, ev.Amount)
		s.SaveFertilizerBalance(to)
	}
}

func (h *Handler) fertilizerMint(ev *events.FertilizerTransfer) {
	s := h.store

	fert := s.LoadFertilizer(s.Proto.Fertilizer)
	fert.Supply = bigdec.Add(fert.Supply, ev.Amount)
	s.SaveFertilizer(fert)

	humidity := h.mintHumidity(ev.Block.Number)
	season := s.CurrentSeason()
	startBpf := startBpfFor(ev.ID, humidity)
	if ev.Block.Number < s.Proto.ReplantBlock {
		season = s.Proto.ReplantSeason
		startBpf = bigdec.Zero()
	}

	ft := s.LoadFertilizerToken(ev.ID, humidity, season, startBpf)
	ft.Supply = bigdec.Add(ft.Supply, ev.Amount)
	s.SaveFertilizerToken(ft)

	s.LoadFarmer(ev.To)
	bal := s.LoadFertilizerBalance(ev.ID, ev.To)
	bal.Amount = bigdec.Add(bal.Amount, ev.Amount)
	s.SaveFertilizerBalance(bal)
}

func (h *Handler) fertilizerBurn(ev *events.FertilizerTransfer) {
	s := h.store

	fert := s.LoadFertilizer(s.Proto.Fertilizer)
	fert.Supply = bigdec.Sub(fert.Supply, ev.Amount)
	s.SaveFertilizer(fert)

	ft := s.LoadFertilizerToken(ev.ID, replantHumidity, s.CurrentSeason(), bigdec.Zero())
	ft.Supply = bigdec.Sub(ft.Supply, ev.Amount)
	s.SaveFertilizerToken(ft)

	bal := s.LoadFertilizerBalance(ev.ID, ev.From)
	bal.Amount = bigdec.Sub(bal.Amount, ev.Amount)
	s.SaveFertilizerBalance(bal)
}

// mintHumidity resolves the humidity (in percent) stamped on a newly seen
// fertilizer id. Mints before the replant block predate the view function.
func (h *Handler) mintHumidity(blockNumber uint64) decimal.Decimal {
	if blockNumber < h.store.Proto.ReplantBlock {
		return replantHumidity
	}
	v, reverted := h.caller.CurrentHumidity()
	if reverted {
		return replantHumidity
	}
	// The view reports per-mille.
	return decimal.NewFromBigInt(v, 0).Div(decimal.NewFromInt(10))
}

// startBpfFor derives the BPF at mint from the id, which encodes the BPF at
// which the token finishes paying out 1 + humidity beans per fertilizer.
func startBpfFor(id *big.Int, humidityPercent decimal.Decimal) *big.Int {
	payout := humidityPercent.Add(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(1_000_000)).
		Div(decimal.NewFromInt(100))
	start := bigdec.Sub(id, payout.BigInt())
	if start.Sign() < 0 {
		return bigdec.Zero()
	}
	return start
}

// Chop converts unripe tokens into their underlying at the current penalty
// and folds the exchange into the unripe statistics.
func (h *Handler) Chop(ev *events.Chop) {
	s := h.store
	ut := s.LoadUnripeToken(ev.Token)
	if ut.UnderlyingToken == (common.Address{}) && ev.Token == s.Proto.UnripeBean {
		ut.UnderlyingToken = s.Proto.Bean
	}

	choppedBdv := ev.Amount
	if bdv, reverted := h.caller.BdvOf(ev.Token, ev.Amount); !reverted {
		choppedBdv = bdv
	}
	receivedBdv := ev.Underlying
	if ut.UnderlyingToken != (common.Address{}) {
		if bdv, reverted := h.caller.BdvOf(ut.UnderlyingToken, ev.Underlying); !reverted {
			receivedBdv = bdv
		}
	}

	ut.TotalChoppedAmount = bigdec.Add(ut.TotalChoppedAmount, ev.Amount)
	ut.TotalChoppedBdv = bigdec.Add(ut.TotalChoppedBdv, choppedBdv)
	ut.TotalChoppedBdvReceived = bigdec.Add(ut.TotalChoppedBdvReceived, receivedBdv)

	if ev.Amount.Sign() > 0 {
		one := bigdec.Pow10(s.Proto.BeanDecimals)
		ut.ChoppableAmountOne = bigdec.Div(bigdec.Mul(ev.Underlying, one), ev.Amount)
		ut.ChoppableBdvOne = bigdec.Div(bigdec.Mul(receivedBdv, one), ev.Amount)
		ut.ChopRate = decimal.NewFromBigInt(ev.Underlying, 0).Div(decimal.NewFromBigInt(ev.Amount, 0))
	}

	snapshots.TakeUnripeTokenSnapshots(s, ut, ev.Block.Timestamp)
	s.SaveUnripeToken(ut)
}
