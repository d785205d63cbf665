package yield

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/shopspring/decimal"
)

const (
	// oneYearSeasons is the simulation horizon: one hourly season for a year.
	oneYearSeasons = 8760

	// catchUpSeasons is the target number of seasons for a fresh deposit's
	// grown stalk to catch up to the silo average.
	catchUpSeasons = 4320.0
)

// Sentinel token classes for CalculateGaugeVAPYs. Non-negative values index
// into the gauge LP arrays.
const (
	TokenBean     = -1
	TokenNonGauge = -2
)

// updateTokenVAPYs recomputes every whitelisted token's (beanAPY, stalkAPY)
// pair for one window. Which calculator runs depends on whether any token
// carries a gauge-point selector yet.
func (e *Engine) updateTokenVAPYs(window uint32, timestamp uint64) {
	s := e.store
	t := s.CurrentSeason()
	silo := s.LoadSilo(s.Proto.Beanstalk)
	y := s.LoadSiloYield(t, window)
	earnedBeans := y.BeansPerSeasonEMA.InexactFloat64()

	settings := make([]*entities.WhitelistTokenSetting, 0, len(y.WhitelistedTokens))
	gaugeLive := false
	for _, token := range y.WhitelistedTokens {
		setting := s.LoadWhitelistTokenSetting(token)
		settings = append(settings, setting)
		if setting.GpSelector != nil {
			gaugeLive = true
		}
	}

	beanDecimals := int32(s.Proto.BeanDecimals)
	stalkDecimals := int32(s.Proto.StalkDecimals)

	var apys [][2]float64
	if !gaugeLive {
		beanSetting := s.LoadWhitelistTokenSetting(s.LoadBeanstalk().Token)
		seedsPerBeanBdv := bigdec.ToDecimal(beanSetting.StalkEarnedPerSeason, beanDecimals).InexactFloat64()
		totalSeeds := bigdec.ToDecimal(silo.Seeds, beanDecimals).InexactFloat64()
		totalStalk := bigdec.ToDecimal(silo.Stalk, stalkDecimals).InexactFloat64()
		for _, setting := range settings {
			seedsPerBdv := bigdec.ToDecimal(setting.StalkEarnedPerSeason, beanDecimals).InexactFloat64()
			apys = append(apys, preGaugeAPY(earnedBeans, seedsPerBdv, seedsPerBeanBdv, totalStalk, totalSeeds))
		}
	} else {
		apys = CalculateGaugeVAPYs(e.buildGaugeInputs(silo, y, settings), earnedBeans, catchUpSeasons)
	}

	for i, setting := range settings {
		ty := s.LoadTokenYield(setting.Token, t, window)
		ty.BeanAPY = decimal.NewFromFloat(apys[i][0])
		ty.StalkAPY = decimal.NewFromFloat(apys[i][1])
		ty.CreatedAt = timestamp
		s.SaveTokenYield(ty)
	}
}

// GaugeInputs is the full simulation state snapshot taken from the store.
// Germinating pairs are ordered [even, odd]. Tokens entries are either an
// index into the gauge LP arrays, TokenBean, or TokenNonGauge; StaticSeeds
// is aligned with Tokens and consulted only for TokenNonGauge entries.
type GaugeInputs struct {
	Tokens []int

	GaugeLpPoints            []float64
	GaugeLpDepositedBdv      []float64
	GaugeLpOptimalPercentBdv []float64
	GaugeLpGerminatingBdv    [][2]float64

	NonGaugeDepositedBdv   float64
	NonGaugeGerminatingBdv [2]float64

	DepositedBeanBdv   float64
	GerminatingBeanBdv [2]float64

	InitialR  float64
	SiloStalk float64
	Season    uint32

	StaticSeeds []float64
}

func (e *Engine) buildGaugeInputs(
	silo *entities.Silo,
	y *entities.SiloYield,
	settings []*entities.WhitelistTokenSetting,
) *GaugeInputs {
	s := e.store
	beanDecimals := int32(s.Proto.BeanDecimals)
	beanToken := s.LoadBeanstalk().Token

	if silo.BeanToMaxLpGpPerBdvRatio == nil {
		panic("yield: gauge live but bean-to-max-lp ratio never set")
	}

	in := &GaugeInputs{
		InitialR:  bigdec.ToDecimal(silo.BeanToMaxLpGpPerBdvRatio, 20).InexactFloat64(),
		SiloStalk: bigdec.ToDecimal(silo.Stalk, int32(s.Proto.StalkDecimals)).InexactFloat64(),
		Season:    s.CurrentSeason(),
	}

	// Whitelisted assets consumed here; whatever is left afterwards must
	// have been dewhitelisted and counts as non-gauge bdv.
	consumed := map[string]bool{}

	for _, setting := range settings {
		asset := s.LoadSiloAsset(s.Proto.Beanstalk, setting.Token)
		consumed[asset.ID] = true
		depositedBdv := bigdec.ToDecimal(asset.DepositedBDV, beanDecimals).InexactFloat64()

		raw := s.GerminatingBdvs(setting.Token)
		germinating := [2]float64{
			bigdec.ToDecimal(raw[0], beanDecimals).InexactFloat64(),
			bigdec.ToDecimal(raw[1], beanDecimals).InexactFloat64(),
		}

		switch {
		case setting.GpSelector != nil:
			if setting.GaugePoints == nil || setting.OptimalPercentDepositedBdv == nil {
				panic("yield: gauge token missing gauge points or optimal percent")
			}
			in.Tokens = append(in.Tokens, len(in.GaugeLpPoints))
			in.GaugeLpPoints = append(in.GaugeLpPoints, bigdec.ToDecimal(setting.GaugePoints, 18).InexactFloat64())
			in.GaugeLpOptimalPercentBdv = append(in.GaugeLpOptimalPercentBdv, bigdec.ToDecimal(setting.OptimalPercentDepositedBdv, beanDecimals).InexactFloat64())
			in.GaugeLpDepositedBdv = append(in.GaugeLpDepositedBdv, depositedBdv)
			in.GaugeLpGerminatingBdv = append(in.GaugeLpGerminatingBdv, germinating)
			in.StaticSeeds = append(in.StaticSeeds, 0)
		case setting.Token == beanToken:
			in.Tokens = append(in.Tokens, TokenBean)
			in.DepositedBeanBdv = depositedBdv
			in.GerminatingBeanBdv = germinating
			in.StaticSeeds = append(in.StaticSeeds, 0)
		default:
			in.Tokens = append(in.Tokens, TokenNonGauge)
			in.NonGaugeDepositedBdv += depositedBdv
			in.NonGaugeGerminatingBdv[0] += germinating[0]
			in.NonGaugeGerminatingBdv[1] += germinating[1]
			in.StaticSeeds = append(in.StaticSeeds, bigdec.ToDecimal(setting.StalkEarnedPerSeason, beanDecimals).InexactFloat64())
		}
	}

	for _, token := range silo.DewhitelistedTokens {
		asset := s.LoadSiloAsset(s.Proto.Beanstalk, token)
		if consumed[asset.ID] {
			continue
		}
		in.NonGaugeDepositedBdv += bigdec.ToDecimal(asset.DepositedBDV, beanDecimals).InexactFloat64()
	}

	return in
}

// CalculateGaugeVAPYs runs the deterministic one-year forward simulation of
// gauge-weighted stake accrual. One simulated user per Tokens entry deposits
// one bdv of that asset at season zero; the returned pairs are their
// fractional (beanAPY, stalkAPY) growth over the simulated year.
//
// Germinating bdv matures into the live totals during the first two
// simulated seasons. The parity index is fixed by the real season at entry:
// an even season matures the odd bucket's counterpart first.
func CalculateGaugeVAPYs(in *GaugeInputs, earnedBeans, catchUp float64) [][2]float64 {
	sumLpBdv := bigdec.SumF64(in.GaugeLpDepositedBdv)
	currentPercentLpBdv := make([]float64, len(in.GaugeLpDepositedBdv))
	for i, bdv := range in.GaugeLpDepositedBdv {
		currentPercentLpBdv[i] = bdv / sumLpBdv
	}

	gaugeLpPoints := append([]float64{}, in.GaugeLpPoints...)
	gaugeLpDepositedBdv := append([]float64{}, in.GaugeLpDepositedBdv...)
	lpGpPerBdv := make([]float64, len(gaugeLpPoints))
	for i := range gaugeLpPoints {
		lpGpPerBdv[i] = gaugeLpPoints[i] / gaugeLpDepositedBdv[i]
	}

	r := in.InitialR
	beanBdv := in.DepositedBeanBdv
	totalStalk := in.SiloStalk
	gaugeBdv := beanBdv + bigdec.SumF64(gaugeLpDepositedBdv)
	nonGaugeBdv := in.NonGaugeDepositedBdv
	totalBdv := gaugeBdv + nonGaugeBdv
	largestLpGpPerBdv := bigdec.MaxF64(lpGpPerBdv)

	startingGrownStalk := totalStalk/totalBdv - 1
	n := len(in.Tokens)
	userBeans := make([]float64, n)
	userLp := make([]float64, n)
	userStalk := make([]float64, n)
	initialStalk := make([]float64, n)
	for i, tok := range in.Tokens {
		if tok == TokenBean {
			userBeans[i] = 1
		} else {
			userLp[i] = 1
		}
		userStalk[i] = 1 + startingGrownStalk
		initialStalk[i] = userStalk[i]
	}

	germIndex := 0
	if in.Season%2 == 0 {
		germIndex = 1
	}

	for i := 0; i < oneYearSeasons; i++ {
		r = clampR(r + deltaRFromState(earnedBeans))
		rScaled := 0.5 + 0.5*r

		// Germinating bdv joins the live totals in the first two seasons.
		if i < 2 {
			beanBdv += in.GerminatingBeanBdv[germIndex]
			for j := range gaugeLpDepositedBdv {
				gaugeLpDepositedBdv[j] += in.GaugeLpGerminatingBdv[j][germIndex]
			}
			gaugeBdv = beanBdv + bigdec.SumF64(gaugeLpDepositedBdv)
			nonGaugeBdv += in.NonGaugeGerminatingBdv[germIndex]
			totalBdv = gaugeBdv + nonGaugeBdv
		}

		if len(gaugeLpPoints) > 1 {
			for j := range gaugeLpDepositedBdv {
				gaugeLpPoints[j] = updateGaugePoints(gaugeLpPoints[j], currentPercentLpBdv[j], in.GaugeLpOptimalPercentBdv[j])
				lpGpPerBdv[j] = gaugeLpPoints[j] / gaugeLpDepositedBdv[j]
			}
			largestLpGpPerBdv = bigdec.MaxF64(lpGpPerBdv)
		}

		beanGpPerBdv := largestLpGpPerBdv * rScaled
		gpTotal := bigdec.SumF64(gaugeLpPoints) + beanGpPerBdv*beanBdv
		avgGsPerBdv := totalStalk/totalBdv - 1
		gs := avgGsPerBdv / catchUp * gaugeBdv
		beanSeeds := gs / gpTotal * beanGpPerBdv

		totalStalk += gs + earnedBeans
		gaugeBdv += earnedBeans
		totalBdv += earnedBeans
		beanBdv += earnedBeans

		for j, tok := range in.Tokens {
			var lpSeeds float64
			if tok != TokenBean {
				if tok < 0 {
					lpSeeds = in.StaticSeeds[j]
				} else {
					lpSeeds = gs / gpTotal * lpGpPerBdv[tok]
				}
			}

			userBeanShare := earnedBeans * userStalk[j] / totalStalk
			userStalk[j] += userBeanShare + userBeans[j]*beanSeeds + userLp[j]*lpSeeds
			userBeans[j] += userBeanShare
		}
	}

	out := make([][2]float64, n)
	for i := range in.Tokens {
		out[i] = [2]float64{
			userBeans[i] + userLp[i] - 1,
			(userStalk[i] - initialStalk[i]) / initialStalk[i],
		}
	}
	return out
}

func clampR(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// deltaRFromState nudges the ratio toward LP when beans are minting and
// toward Bean when they are not. A finer model would consider debt level and
// mint frequency; this matches the behavior the protocol has shown so far.
func deltaRFromState(earnedBeans float64) float64 {
	if earnedBeans == 0 {
		return 0.01
	}
	return -0.01
}

// updateGaugePoints is deliberately an identity. The contract routes
// reallocation through a per-token selector whose only deployed
// implementation holds points constant; simulating anything else would
// diverge from chain behavior.
func updateGaugePoints(gaugePoints, currentPercent, optimalPercent float64) float64 {
	return gaugePoints
}
