package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Snapshot rows capture a parent entity's absolute values alongside a delta
// per tracked attribute. Deltas accumulate additively within one bucket; the
// engine in pkg/snapshots owns all the bucketing and delta arithmetic, these
// are plain rows.

// FieldHourlySnapshot is one (field, season) bucket.
type FieldHourlySnapshot struct {
	ID     string
	Field  string
	Season uint32

	Temperature      decimal.Decimal
	RealRateOfReturn decimal.Decimal
	NumberOfSowers   int32
	NumberOfSows     int32
	SownBeans        *big.Int

	UnharvestablePods *big.Int
	HarvestablePods   *big.Int
	HarvestedPods     *big.Int

	Soil     *big.Int
	PodIndex *big.Int
	PodRate  decimal.Decimal

	DeltaTemperature      decimal.Decimal
	DeltaRealRateOfReturn decimal.Decimal
	DeltaNumberOfSowers   int32
	DeltaNumberOfSows     int32
	DeltaSownBeans        *big.Int

	DeltaUnharvestablePods *big.Int
	DeltaHarvestablePods   *big.Int
	DeltaHarvestedPods     *big.Int

	DeltaSoil     *big.Int
	DeltaPodIndex *big.Int
	DeltaPodRate  decimal.Decimal

	// Set once per bucket and carried through same-bucket updates.
	IssuedSoil      *big.Int
	DeltaIssuedSoil *big.Int
	SeasonBlock     uint64

	// Set after the fact; nil / false until their setters run.
	CaseID              *big.Int
	SoilSoldOut         bool
	BlocksToSoldOutSoil *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// FieldDailySnapshot is one (field, day) bucket.
type FieldDailySnapshot struct {
	ID     string
	Field  string
	Season uint32
	Day    int64

	Temperature      decimal.Decimal
	RealRateOfReturn decimal.Decimal
	NumberOfSowers   int32
	NumberOfSows     int32
	SownBeans        *big.Int

	UnharvestablePods *big.Int
	HarvestablePods   *big.Int
	HarvestedPods     *big.Int

	Soil     *big.Int
	PodIndex *big.Int
	PodRate  decimal.Decimal

	DeltaTemperature      decimal.Decimal
	DeltaRealRateOfReturn decimal.Decimal
	DeltaNumberOfSowers   int32
	DeltaNumberOfSows     int32
	DeltaSownBeans        *big.Int

	DeltaUnharvestablePods *big.Int
	DeltaHarvestablePods   *big.Int
	DeltaHarvestedPods     *big.Int

	DeltaSoil     *big.Int
	DeltaPodIndex *big.Int
	DeltaPodRate  decimal.Decimal

	IssuedSoil      *big.Int
	DeltaIssuedSoil *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// SiloHourlySnapshot is one (silo, season) bucket.
type SiloHourlySnapshot struct {
	ID     string
	Silo   string
	Season uint32

	DepositedBDV        *big.Int
	Stalk               *big.Int
	PlantableStalk      *big.Int
	Seeds               *big.Int
	GrownStalkPerSeason *big.Int
	Roots               *big.Int
	GerminatingStalk    *big.Int
	BeanMints           *big.Int
	ActiveFarmers       int32

	BeanToMaxLpGpPerBdvRatio *big.Int

	DeltaDepositedBDV     *big.Int
	DeltaStalk            *big.Int
	DeltaPlantableStalk   *big.Int
	DeltaSeeds            *big.Int
	DeltaRoots            *big.Int
	DeltaGerminatingStalk *big.Int
	DeltaBeanMints        *big.Int
	DeltaActiveFarmers    int32

	// Set after the fact; nil until SetSiloHourlyCaseID runs.
	CaseID *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// SiloDailySnapshot is one (silo, day) bucket.
type SiloDailySnapshot struct {
	ID     string
	Silo   string
	Season uint32
	Day    int64

	DepositedBDV        *big.Int
	Stalk               *big.Int
	PlantableStalk      *big.Int
	Seeds               *big.Int
	GrownStalkPerSeason *big.Int
	Roots               *big.Int
	GerminatingStalk    *big.Int
	BeanMints           *big.Int
	ActiveFarmers       int32

	BeanToMaxLpGpPerBdvRatio *big.Int

	DeltaDepositedBDV     *big.Int
	DeltaStalk            *big.Int
	DeltaPlantableStalk   *big.Int
	DeltaSeeds            *big.Int
	DeltaRoots            *big.Int
	DeltaGerminatingStalk *big.Int
	DeltaBeanMints        *big.Int
	DeltaActiveFarmers    int32

	CreatedAt uint64
	UpdatedAt uint64
}

// SiloAssetHourlySnapshot is one (silo asset, season) bucket.
type SiloAssetHourlySnapshot struct {
	ID        string
	SiloAsset string
	Season    uint32

	DepositedBDV    *big.Int
	DepositedAmount *big.Int
	WithdrawnAmount *big.Int
	FarmAmount      *big.Int

	DeltaDepositedBDV    *big.Int
	DeltaDepositedAmount *big.Int
	DeltaWithdrawnAmount *big.Int
	DeltaFarmAmount      *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// SiloAssetDailySnapshot is one (silo asset, day) bucket.
type SiloAssetDailySnapshot struct {
	ID        string
	SiloAsset string
	Season    uint32
	Day       int64

	DepositedBDV    *big.Int
	DepositedAmount *big.Int
	WithdrawnAmount *big.Int
	FarmAmount      *big.Int

	DeltaDepositedBDV    *big.Int
	DeltaDepositedAmount *big.Int
	DeltaWithdrawnAmount *big.Int
	DeltaFarmAmount      *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// MarketHourlySnapshot is one (marketplace, season) bucket.
type MarketHourlySnapshot struct {
	ID             string
	PodMarketplace string
	Season         uint32

	ListedPods          *big.Int
	AvailableListedPods *big.Int
	FilledListedPods    *big.Int
	ExpiredListedPods   *big.Int
	CancelledListedPods *big.Int

	OrderBeans          *big.Int
	AvailableOrderBeans *big.Int
	FilledOrderedPods   *big.Int
	FilledOrderBeans    *big.Int
	CancelledOrderBeans *big.Int

	PodVolume  *big.Int
	BeanVolume *big.Int

	DeltaListedPods          *big.Int
	DeltaAvailableListedPods *big.Int
	DeltaFilledListedPods    *big.Int
	DeltaExpiredListedPods   *big.Int
	DeltaCancelledListedPods *big.Int

	DeltaOrderBeans          *big.Int
	DeltaAvailableOrderBeans *big.Int
	DeltaFilledOrderedPods   *big.Int
	DeltaFilledOrderBeans    *big.Int
	DeltaCancelledOrderBeans *big.Int

	DeltaPodVolume  *big.Int
	DeltaBeanVolume *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// MarketDailySnapshot is one (marketplace, day) bucket.
type MarketDailySnapshot struct {
	ID             string
	PodMarketplace string
	Season         uint32
	Day            int64

	ListedPods          *big.Int
	AvailableListedPods *big.Int
	FilledListedPods    *big.Int
	ExpiredListedPods   *big.Int
	CancelledListedPods *big.Int

	OrderBeans          *big.Int
	AvailableOrderBeans *big.Int
	FilledOrderedPods   *big.Int
	FilledOrderBeans    *big.Int
	CancelledOrderBeans *big.Int

	PodVolume  *big.Int
	BeanVolume *big.Int

	DeltaListedPods          *big.Int
	DeltaAvailableListedPods *big.Int
	DeltaFilledListedPods    *big.Int
	DeltaExpiredListedPods   *big.Int
	DeltaCancelledListedPods *big.Int

	DeltaOrderBeans          *big.Int
	DeltaAvailableOrderBeans *big.Int
	DeltaFilledOrderedPods   *big.Int
	DeltaFilledOrderBeans    *big.Int
	DeltaCancelledOrderBeans *big.Int

	DeltaPodVolume  *big.Int
	DeltaBeanVolume *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// UnripeTokenHourlySnapshot is one (unripe token, season) bucket.
type UnripeTokenHourlySnapshot struct {
	ID          string
	UnripeToken string
	Season      uint32

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

	DeltaUnderlyingToken bool

	DeltaTotalUnderlying     *big.Int
	DeltaAmountUnderlyingOne *big.Int
	DeltaBdvUnderlyingOne    *big.Int
	DeltaChoppableAmountOne  *big.Int
	DeltaChoppableBdvOne     *big.Int
	DeltaChopRate            decimal.Decimal
	DeltaRecapPercent        decimal.Decimal

	DeltaTotalChoppedAmount      *big.Int
	DeltaTotalChoppedBdv         *big.Int
	DeltaTotalChoppedBdvReceived *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// UnripeTokenDailySnapshot is one (unripe token, day) bucket.
type UnripeTokenDailySnapshot struct {
	ID          string
	UnripeToken string
	Season      uint32
	Day         int64

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

	DeltaUnderlyingToken bool

	DeltaTotalUnderlying     *big.Int
	DeltaAmountUnderlyingOne *big.Int
	DeltaBdvUnderlyingOne    *big.Int
	DeltaChoppableAmountOne  *big.Int
	DeltaChoppableBdvOne     *big.Int
	DeltaChopRate            decimal.Decimal
	DeltaRecapPercent        decimal.Decimal

	DeltaTotalChoppedAmount      *big.Int
	DeltaTotalChoppedBdv         *big.Int
	DeltaTotalChoppedBdvReceived *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// WhitelistTokenHourlySnapshot is one (token setting, season) bucket.
type WhitelistTokenHourlySnapshot struct {
	ID     string
	Token  string
	Season uint32

	Selector             []byte
	StalkEarnedPerSeason *big.Int
	StalkIssuedPerBdv    *big.Int
	MilestoneSeason      uint32
	IsGaugeEnabled       bool

	// nil until the seed gauge whitelists the token, mirroring the parent.
	GaugePoints                *big.Int
	OptimalPercentDepositedBdv *big.Int

	DeltaStalkEarnedPerSeason *big.Int
	DeltaStalkIssuedPerBdv    *big.Int
	DeltaMilestoneSeason      int32
	DeltaIsGaugeEnabled       bool

	DeltaGaugePoints                *big.Int
	DeltaOptimalPercentDepositedBdv *big.Int

	// Set after the fact via SetWhitelistTokenBdv; nil until then.
	Bdv      *big.Int
	DeltaBdv *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}

// WhitelistTokenDailySnapshot is one (token setting, day) bucket.
type WhitelistTokenDailySnapshot struct {
	ID     string
	Token  string
	Season uint32
	Day    int64

	Selector             []byte
	StalkEarnedPerSeason *big.Int
	StalkIssuedPerBdv    *big.Int
	MilestoneSeason      uint32
	IsGaugeEnabled       bool

	GaugePoints                *big.Int
	OptimalPercentDepositedBdv *big.Int

	DeltaStalkEarnedPerSeason *big.Int
	DeltaStalkIssuedPerBdv    *big.Int
	DeltaMilestoneSeason      int32
	DeltaIsGaugeEnabled       bool

	DeltaGaugePoints                *big.Int
	DeltaOptimalPercentDepositedBdv *big.Int

	Bdv      *big.Int
	DeltaBdv *big.Int

	CreatedAt uint64
	UpdatedAt uint64
}
