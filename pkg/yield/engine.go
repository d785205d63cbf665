// Package yield computes the per-season reward EMAs and the simulated vAPYs.
//
// Every season, three rolling windows (24, 168, 720 seasons) are recomputed
// independently: the window EMA first, then the per-token vAPY simulation,
// then the closed-form fertilizer APY. The windows share no mutable state
// and run on a small worker pool; each record is deterministic given the
// store contents, so parallelism never changes an output.
package yield

import (
	"github.com/alitto/pond/v2"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var windows = []uint32{entities.Window24H, entities.Window7D, entities.Window30D}

// Engine owns the yield recomputation for one deployment.
type Engine struct {
	store  *entities.Store
	caller chain.ViewCaller
	logger *zap.Logger
	pool   pond.Pool
}

// NewEngine builds a yield engine over a store and a view-call boundary.
func NewEngine(store *entities.Store, caller chain.ViewCaller, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		caller: caller,
		logger: logger.Named("yield"),
		pool:   pond.NewPool(len(windows)),
	}
}

// UpdateSeasonYields recomputes all three windows for the current season.
// Called once per sunrise after the season's reward mint has been recorded.
func (e *Engine) UpdateSeasonYields(timestamp uint64) {
	group := e.pool.NewGroup()
	for _, window := range windows {
		group.Submit(func() {
			e.updateWindow(window, timestamp)
		})
	}
	if err := group.Wait(); err != nil {
		e.logger.Error("window recomputation failed",
			zap.Uint32("season", e.store.CurrentSeason()),
			zap.Error(err),
		)
	}
}

func (e *Engine) updateWindow(window uint32, timestamp uint64) {
	e.updateWindowEMA(window, timestamp)
	// Seasons at or below the cache floor were backfilled offline; only the
	// EMA record's token list is maintained for them.
	if e.store.CurrentSeason() > e.store.Proto.YieldCacheSeason {
		e.updateTokenVAPYs(window, timestamp)
	}
	e.updateFertAPY(window, timestamp)
}

// updateWindowEMA recomputes one window's reward-mint EMA. While fewer than
// `window` seasons of data exist the smoothing factor changes every season,
// so the EMA is rebuilt from the earliest usable season instead of being
// advanced incrementally.
func (e *Engine) updateWindowEMA(window uint32, timestamp uint64) {
	minStart := e.store.Proto.MinEMASeason
	t := e.store.CurrentSeason()
	silo := e.store.LoadSilo(e.store.Proto.Beanstalk)
	y := e.store.LoadSiloYield(t, window)

	if t <= e.store.Proto.YieldCacheSeason {
		y.WhitelistedTokens = append([]common.Address{}, silo.WhitelistedTokens...)
		e.store.SaveSiloYield(y)
		return
	}

	u := t - (minStart - 1)
	if u > window {
		u = window
	}
	y.U = u
	y.WhitelistedTokens = append([]common.Address{}, silo.WhitelistedTokens...)
	y.Beta = decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(u) + 1))

	from := minStart
	if u >= window {
		from = t - window + 1
	}
	ema := decimal.Zero
	for i := from; i <= t; i++ {
		mint := bigdec.ToDecimal(e.store.RewardMinted(i), int32(e.store.Proto.BeanDecimals))
		ema = mint.Sub(ema).Mul(y.Beta).Add(ema)
	}

	y.BeansPerSeasonEMA = ema
	y.CreatedAt = timestamp
	e.store.SaveSiloYield(y)
}
