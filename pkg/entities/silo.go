package entities

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Silo aggregates stake accounting for one account, or for the whole
// protocol when keyed by the Beanstalk address. The protocol row's additive
// fields equal the sum of all per-account rows at any settled block, subject
// to germination lag.
type Silo struct {
	ID     string
	Farmer string // empty on the protocol-aggregate row

	WhitelistedTokens   []common.Address
	DewhitelistedTokens []common.Address

	DepositedBDV        *big.Int
	Stalk               *big.Int
	PlantableStalk      *big.Int
	Seeds               *big.Int
	GrownStalkPerSeason *big.Int
	Roots               *big.Int
	GerminatingStalk    *big.Int
	BeanMints           *big.Int
	ActiveFarmers       int32

	// BeanToMaxLpGpPerBdvRatio is nil until the seed gauge first sets it.
	BeanToMaxLpGpPerBdvRatio *big.Int

	LastHourlySnapshotSeason uint32
	LastDailySnapshotDay     int64
}

// SiloDeposit is one deposit position. It is deleted outright when its
// amount reaches zero; a zero-amount row never survives.
type SiloDeposit struct {
	ID      string
	Farmer  string
	Token   common.Address
	Version DepositVersion
	Season  uint32
	Stem    *big.Int // nil for season-keyed deposits

	DepositedAmount *big.Int
	DepositedBDV    *big.Int
	Hashes          []string
	CreatedAt       uint64
	UpdatedAt       uint64
}

// SiloWithdraw is a legacy withdrawal awaiting its claimable season.
type SiloWithdraw struct {
	ID              string
	Farmer          string
	Token           common.Address
	WithdrawSeason  uint32
	ClaimableSeason uint32
	Claimed         bool
	Amount          *big.Int
	Hashes          []string
	CreatedAt       uint64
}

// SiloAsset tracks one (account, token) balance aggregate.
type SiloAsset struct {
	ID    string
	Silo  string
	Token common.Address

	DepositedBDV    *big.Int
	DepositedAmount *big.Int
	WithdrawnAmount *big.Int
	FarmAmount      *big.Int

	LastHourlySnapshotSeason uint32
	LastDailySnapshotDay     int64
}

// WhitelistTokenSetting is the per-token reward configuration mutated by
// whitelist / gauge governance events.
type WhitelistTokenSetting struct {
	ID    string
	Token common.Address

	Selector             []byte
	StalkEarnedPerSeason *big.Int
	StalkIssuedPerBdv    *big.Int
	MilestoneSeason      uint32

	// Gauge parameters; nil until the seed gauge whitelists the token.
	GpSelector                 []byte
	LwSelector                 []byte
	GaugePoints                *big.Int
	OptimalPercentDepositedBdv *big.Int

	IsGaugeEnabled bool
	UpdatedAt      uint64

	LastHourlySnapshotSeason uint32
	LastDailySnapshotDay     int64
}

// UnripeToken tracks chop statistics for one unripe asset. The *One fields
// describe a single whole token (10^decimals) at current recapitalization.
type UnripeToken struct {
	ID              string
	Token           common.Address
	UnderlyingToken common.Address

	TotalUnderlying     *big.Int
	AmountUnderlyingOne *big.Int
	BdvUnderlyingOne    *big.Int
	ChoppableAmountOne  *big.Int
	ChoppableBdvOne     *big.Int
	ChopRate            decimal.Decimal
	RecapPercent        decimal.Decimal

	TotalChoppedAmount      *big.Int
	TotalChoppedBdv         *big.Int
	TotalChoppedBdvReceived *big.Int

	LastHourlySnapshotSeason uint32
	LastDailySnapshotDay     int64
}

// LoadSilo returns the Silo for an account, creating a zeroed row on first
// touch. Creating a per-account row does not touch the protocol aggregate;
// callers that need both must load the aggregate first.
func (s *Store) LoadSilo(account common.Address) *Silo {
	key := SiloKey{Account: account}
	silo := s.Silos.Load(key)
	if silo == nil {
		silo = &Silo{
			ID:                  key.String(),
			WhitelistedTokens:   []common.Address{},
			DewhitelistedTokens: []common.Address{},
			DepositedBDV:        bigdec.Zero(),
			Stalk:               bigdec.Zero(),
			PlantableStalk:      bigdec.Zero(),
			Seeds:               bigdec.Zero(),
			GrownStalkPerSeason: bigdec.Zero(),
			Roots:               bigdec.Zero(),
			GerminatingStalk:    bigdec.Zero(),
			BeanMints:           bigdec.Zero(),
		}
		if account != s.Proto.Beanstalk {
			silo.Farmer = hexAddr(account)
		}
		s.Silos.Save(key, silo)
	}
	return silo
}

// SaveSilo persists a mutated Silo.
func (s *Store) SaveSilo(silo *Silo) {
	s.Silos.SaveID(silo.ID, silo)
}

// LoadSiloDeposit returns the deposit for a composite key, creating a zeroed
// row on first touch. V3 deposits record the season they were created in.
func (s *Store) LoadSiloDeposit(key DepositKey) *SiloDeposit {
	dep := s.SiloDeposits.Load(key)
	if dep == nil {
		dep = &SiloDeposit{
			ID:              key.String(),
			Farmer:          hexAddr(key.Account),
			Token:           key.Token,
			Version:         key.Version,
			DepositedAmount: bigdec.Zero(),
			DepositedBDV:    bigdec.Zero(),
			Hashes:          []string{},
		}
		if key.Version == DepositV3 {
			dep.Stem = bigdec.Copy(key.Index)
			dep.Season = s.CurrentSeason()
		} else {
			dep.Season = uint32(key.Index.Uint64())
		}
		s.SiloDeposits.Save(key, dep)
	}
	return dep
}

// SaveSiloDeposit persists a deposit, or deletes it when its amount has been
// fully removed. Amounts below zero indicate an upstream accounting error
// and are also removed.
func (s *Store) SaveSiloDeposit(dep *SiloDeposit) {
	if dep.DepositedAmount.Sign() <= 0 {
		s.SiloDeposits.DeleteID(dep.ID)
		return
	}
	s.SiloDeposits.SaveID(dep.ID, dep)
}

// LoadSiloWithdraw returns the withdraw row for a composite key, creating a
// zeroed row claimable next season on first touch.
func (s *Store) LoadSiloWithdraw(key WithdrawKey) *SiloWithdraw {
	w := s.SiloWithdraws.Load(key)
	if w == nil {
		w = &SiloWithdraw{
			ID:              key.String(),
			Farmer:          hexAddr(key.Account),
			Token:           key.Token,
			WithdrawSeason:  key.Season,
			ClaimableSeason: key.Season + 1,
			Amount:          bigdec.Zero(),
			Hashes:          []string{},
		}
		s.SiloWithdraws.Save(key, w)
	}
	return w
}

// SaveSiloWithdraw persists a mutated withdraw row.
func (s *Store) SaveSiloWithdraw(w *SiloWithdraw) {
	s.SiloWithdraws.SaveID(w.ID, w)
}

// LoadSiloAsset returns the per-(account, token) aggregate, creating a
// zeroed row on first touch.
func (s *Store) LoadSiloAsset(account, token common.Address) *SiloAsset {
	key := SiloAssetKey{Account: account, Token: token}
	asset := s.SiloAssets.Load(key)
	if asset == nil {
		asset = &SiloAsset{
			ID:              key.String(),
			Silo:            hexAddr(account),
			Token:           token,
			DepositedBDV:    bigdec.Zero(),
			DepositedAmount: bigdec.Zero(),
			WithdrawnAmount: bigdec.Zero(),
			FarmAmount:      bigdec.Zero(),
		}
		s.SiloAssets.Save(key, asset)
	}
	return asset
}

// SaveSiloAsset persists a mutated SiloAsset.
func (s *Store) SaveSiloAsset(asset *SiloAsset) {
	s.SiloAssets.SaveID(asset.ID, asset)
}

// LoadWhitelistTokenSetting returns the reward configuration for a token.
// The unripe assets receive their replant-era seeds and stalk at creation
// because the corresponding whitelist events predate the event stream.
func (s *Store) LoadWhitelistTokenSetting(token common.Address) *WhitelistTokenSetting {
	key := TokenKey{Token: token}
	setting := s.WhitelistSettings.Load(key)
	if setting == nil {
		setting = &WhitelistTokenSetting{
			ID:                   key.String(),
			Token:                token,
			Selector:             []byte{},
			StalkEarnedPerSeason: bigdec.Zero(),
			StalkIssuedPerBdv:    bigdec.Zero(),
		}
		switch token {
		case s.Proto.UnripeBean:
			setting.StalkIssuedPerBdv = bigdec.FromString("10000000000")
			setting.StalkEarnedPerSeason = bigdec.BI(2_000_000)
		case s.Proto.UnripeLP:
			setting.StalkIssuedPerBdv = bigdec.FromString("10000000000")
			setting.StalkEarnedPerSeason = bigdec.BI(4_000_000)
		}
		s.WhitelistSettings.Save(key, setting)
	}
	return setting
}

// SaveWhitelistTokenSetting persists a mutated setting.
func (s *Store) SaveWhitelistTokenSetting(setting *WhitelistTokenSetting) {
	s.WhitelistSettings.SaveID(setting.ID, setting)
}

// LoadUnripeToken returns the chop-statistics row for an unripe asset.
func (s *Store) LoadUnripeToken(token common.Address) *UnripeToken {
	key := TokenKey{Token: token}
	ut := s.UnripeTokens.Load(key)
	if ut == nil {
		ut = &UnripeToken{
			ID:                      key.String(),
			Token:                   token,
			TotalUnderlying:         bigdec.Zero(),
			AmountUnderlyingOne:     bigdec.Zero(),
			BdvUnderlyingOne:        bigdec.Zero(),
			ChoppableAmountOne:      bigdec.Zero(),
			ChoppableBdvOne:         bigdec.Zero(),
			ChopRate:                decimal.Zero,
			RecapPercent:            decimal.Zero,
			TotalChoppedAmount:      bigdec.Zero(),
			TotalChoppedBdv:         bigdec.Zero(),
			TotalChoppedBdvReceived: bigdec.Zero(),
		}
		s.UnripeTokens.Save(key, ut)
	}
	return ut
}

// SaveUnripeToken persists a mutated UnripeToken.
func (s *Store) SaveUnripeToken(ut *UnripeToken) {
	s.UnripeTokens.SaveID(ut.ID, ut)
}

// AddWhitelistedToken appends a token to a silo's ordered whitelist set.
func AddWhitelistedToken(silo *Silo, token common.Address) {
	for _, t := range silo.WhitelistedTokens {
		if t == token {
			return
		}
	}
	silo.WhitelistedTokens = append(silo.WhitelistedTokens, token)
}

// DewhitelistToken moves a token from the whitelist set to the dewhitelisted
// set, preserving order.
func DewhitelistToken(silo *Silo, token common.Address) {
	for i, t := range silo.WhitelistedTokens {
		if t == token {
			silo.WhitelistedTokens = append(silo.WhitelistedTokens[:i], silo.WhitelistedTokens[i+1:]...)
			silo.DewhitelistedTokens = append(silo.DewhitelistedTokens, token)
			return
		}
	}
}
