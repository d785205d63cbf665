package entities

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// EMA window sizes in seasons. Every yield record belongs to one window.
const (
	Window24H uint32 = 24
	Window7D  uint32 = 168
	Window30D uint32 = 720
)

// SiloYield is the per-(season, window) EMA state. Recomputed, never
// accumulated: the simulator overwrites every derived field each run.
type SiloYield struct {
	ID     string
	Season uint32
	Window uint32

	Beta              decimal.Decimal
	U                 uint32
	BeansPerSeasonEMA decimal.Decimal
	WhitelistedTokens []common.Address
	CreatedAt         uint64
}

// TokenYield is one whitelisted token's simulated vAPY for a
// (season, window) pair.
type TokenYield struct {
	ID        string
	Token     common.Address
	Season    uint32
	SiloYield string

	BeanAPY   decimal.Decimal
	StalkAPY  decimal.Decimal
	CreatedAt uint64
}

// FertilizerYield is the closed-form fertilizer APY for a (season, window)
// pair.
type FertilizerYield struct {
	ID     string
	Season uint32
	Window uint32

	Humidity          decimal.Decimal
	OutstandingFert   *big.Int
	BeansPerSeasonEMA decimal.Decimal
	DeltaBpf          decimal.Decimal
	SimpleAPY         decimal.Decimal
	CreatedAt         uint64
}

// LoadSiloYield returns the EMA state for (season, window), creating a zeroed
// record on first touch.
func (s *Store) LoadSiloYield(season, window uint32) *SiloYield {
	key := YieldKey{Season: season, Window: window}
	y := s.SiloYields.Load(key)
	if y == nil {
		y = &SiloYield{
			ID:                key.String(),
			Season:            season,
			Window:            window,
			Beta:              decimal.Zero,
			BeansPerSeasonEMA: decimal.Zero,
			WhitelistedTokens: []common.Address{},
		}
		s.SiloYields.Save(key, y)
	}
	return y
}

// SaveSiloYield persists a recomputed record.
func (s *Store) SaveSiloYield(y *SiloYield) {
	s.SiloYields.SaveID(y.ID, y)
}

// LoadTokenYield returns the per-token yield record for (token, season,
// window), creating a zeroed record linked to its SiloYield on first touch.
func (s *Store) LoadTokenYield(token common.Address, season, window uint32) *TokenYield {
	key := TokenYieldKey{Token: token, Season: season, Window: window}
	y := s.TokenYields.Load(key)
	if y == nil {
		y = &TokenYield{
			ID:        key.String(),
			Token:     token,
			Season:    season,
			SiloYield: YieldKey{Season: season, Window: window}.String(),
			BeanAPY:   decimal.Zero,
			StalkAPY:  decimal.Zero,
		}
		s.TokenYields.Save(key, y)
	}
	return y
}

// SaveTokenYield persists a recomputed record.
func (s *Store) SaveTokenYield(y *TokenYield) {
	s.TokenYields.SaveID(y.ID, y)
}

// LoadFertilizerYield returns the fertilizer APY record for (season, window),
// creating a zeroed record on first touch.
func (s *Store) LoadFertilizerYield(season, window uint32) *FertilizerYield {
	key := YieldKey{Season: season, Window: window}
	y := s.FertilizerYields.Load(key)
	if y == nil {
		y = &FertilizerYield{
			ID:                key.String(),
			Season:            season,
			Window:            window,
			Humidity:          decimal.Zero,
			OutstandingFert:   bigdec.Zero(),
			BeansPerSeasonEMA: decimal.Zero,
			DeltaBpf:          decimal.Zero,
			SimpleAPY:         decimal.Zero,
		}
		s.FertilizerYields.Save(key, y)
	}
	return y
}

// SaveFertilizerYield persists a recomputed record.
func (s *Store) SaveFertilizerYield(y *FertilizerYield) {
	s.FertilizerYields.SaveID(y.ID, y)
}
