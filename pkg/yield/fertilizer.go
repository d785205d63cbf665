package yield

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/shopspring/decimal"
)

var (
	thousand     = decimal.NewFromInt(1000)
	fiveHundred  = decimal.NewFromInt(500)
	flatHumidity = decimal.RequireFromString("0.2")
	yearSeasons  = decimal.NewFromInt(oneYearSeasons)
)

// updateFertAPY recomputes the closed-form fertilizer APY for one window.
// Deployments without a fertilizer contract skip it entirely.
func (e *Engine) updateFertAPY(window uint32, timestamp uint64) {
	s := e.store
	if !s.Proto.HasFertilizer() {
		return
	}

	t := s.CurrentSeason()
	y := s.LoadSiloYield(t, window)
	fy := s.LoadFertilizerYield(t, window)
	fert := s.LoadFertilizer(s.Proto.Fertilizer)

	if t < s.Proto.HumidityStepSeason {
		v, reverted := e.caller.CurrentHumidity()
		if reverted {
			fy.Humidity = fiveHundred.Div(thousand)
		} else {
			fy.Humidity = decimal.NewFromBigInt(v, 0).Div(thousand)
		}
	} else {
		// Humidity has been a constant 0.2 since the step season; skipping
		// the contract round-trip is a large win across a backfill.
		fy.Humidity = flatHumidity
	}

	fy.OutstandingFert = bigdec.Copy(fert.Supply)
	fy.BeansPerSeasonEMA = y.BeansPerSeasonEMA

	if fert.Supply.Sign() == 0 {
		fy.DeltaBpf = decimal.Zero
	} else {
		fy.DeltaBpf = fy.BeansPerSeasonEMA.Div(decimal.NewFromBigInt(fert.Supply, 0))
	}

	if fy.DeltaBpf.IsZero() {
		fy.SimpleAPY = decimal.Zero
	} else {
		one := decimal.NewFromInt(1)
		fy.SimpleAPY = fy.Humidity.Div(one.Add(fy.Humidity).Div(fy.DeltaBpf).Div(yearSeasons))
	}

	fy.CreatedAt = timestamp
	e.store.SaveFertilizerYield(fy)
}
