// Package events defines the canonical event shapes the reduction consumes.
// Upstream contract versions emit differently shaped logs for the same
// operation; the adapters in versions.go translate each historical shape
// into exactly one canonical struct per operation, defaulting fields the
// older shapes never carried.
package events

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/ethereum/go-ethereum/common"
)

// BlockContext carries the provenance of one log: ordering, dedup-key
// construction, and the emitting contract.
type BlockContext struct {
	Number    uint64
	Timestamp uint64
	TxHash    common.Hash
	LogIndex  uint32
	Address   common.Address
}

// ---- Silo ----

type AddDeposit struct {
	Block   BlockContext
	Account common.Address
	Token   common.Address
	Version entities.DepositVersion
	Index   *big.Int // season or stem
	Amount  *big.Int
	Bdv     *big.Int
}

type RemoveDeposit struct {
	Block   BlockContext
	Account common.Address
	Token   common.Address
	Version entities.DepositVersion
	Index   *big.Int
	Amount  *big.Int
	Bdv     *big.Int // nil in pre-v3 shapes; resolved pro rata from the stored deposit
}

type AddWithdrawal struct {
	Block   BlockContext
	Account common.Address
	Token   common.Address
	Season  uint32
	Amount  *big.Int
}

type RemoveWithdrawal struct {
	Block   BlockContext
	Account common.Address
	Token   common.Address
	Season  uint32
	Amount  *big.Int
}

type StalkBalanceChanged struct {
	Block      BlockContext
	Account    common.Address
	DeltaStalk *big.Int
	DeltaRoots *big.Int
}

type Plant struct {
	Block   BlockContext
	Account common.Address
	Beans   *big.Int
}

type WhitelistToken struct {
	Block                BlockContext
	Token                common.Address
	Selector             []byte
	StalkEarnedPerSeason *big.Int
	StalkIssuedPerBdv    *big.Int
	// Gauge shape only.
	GaugePoints                *big.Int
	OptimalPercentDepositedBdv *big.Int
	GpSelector                 []byte
	LwSelector                 []byte
	IsGaugeEnabled             bool
}

type DewhitelistToken struct {
	Block BlockContext
	Token common.Address
}

type UpdatedStalkPerBdvPerSeason struct {
	Block                BlockContext
	Token                common.Address
	StalkEarnedPerSeason *big.Int
	Season               uint32
}

// ---- Field ----

type Sow struct {
	Block   BlockContext
	Account common.Address
	Index   *big.Int
	Beans   *big.Int
	Pods    *big.Int
}

type Harvest struct {
	Block   BlockContext
	Account common.Address
	Plots   []*big.Int
	Beans   *big.Int
}

type PlotTransfer struct {
	Block BlockContext
	From  common.Address
	To    common.Address
	Index *big.Int
	Pods  *big.Int
}

type TemperatureChange struct {
	Block     BlockContext
	Season    uint32
	CaseID    *big.Int
	AbsChange int32
}

type SoilIssued struct {
	Block  BlockContext
	Season uint32
	Soil   *big.Int
}

// MigratedPlot is a reseed import of an existing plot. Fully harvestable
// plots arrive with their index below the current harvestable cursor.
type MigratedPlot struct {
	Block   BlockContext
	Account common.Address
	Index   *big.Int
	Pods    *big.Int
}

// ---- Marketplace ----

type PodListingCreated struct {
	Block               BlockContext
	Account             common.Address
	Index               *big.Int
	Start               *big.Int
	Amount              *big.Int
	PricePerPod         int32
	MaxHarvestableIndex *big.Int
	Mode                int32
	// v2+; zero / nil in v1 shapes.
	MinFillAmount   *big.Int
	PricingFunction []byte
	PricingType     int32
}

type PodListingCancelled struct {
	Block   BlockContext
	Account common.Address
	Index   *big.Int
}

type PodOrderCreated struct {
	Block          BlockContext
	Account        common.Address
	OrderID        common.Hash
	BeanAmount     *big.Int
	PricePerPod    int32
	MaxPlaceInLine *big.Int
	// v2+; zero / nil in v1 shapes.
	MinFillAmount   *big.Int
	PricingFunction []byte
	PricingType     int32
}

type PodOrderCancelled struct {
	Block   BlockContext
	Account common.Address
	OrderID common.Hash
}

// MarketFill is shared by listing and order fills; OrderID is set only for
// order fills.
type MarketFill struct {
	Block       BlockContext
	From        common.Address
	To          common.Address
	OrderID     *common.Hash
	Index       *big.Int
	Start       *big.Int
	Amount      *big.Int
	CostInBeans *big.Int // computed by the v1 adapter from pricePerPod
}

// ---- Fertilizer ----

type FertilizerTransfer struct {
	Block  BlockContext
	From   common.Address
	To     common.Address
	ID     *big.Int
	Amount *big.Int
}

type Chop struct {
	Block      BlockContext
	Account    common.Address
	Token      common.Address
	Amount     *big.Int
	Underlying *big.Int
}

// ---- Season ----

type Sunrise struct {
	Block  BlockContext
	Season uint32
}

type Reward struct {
	Block   BlockContext
	Season  uint32
	ToField *big.Int
	ToSilo  *big.Int
	ToFert  *big.Int
}

type Incentivization struct {
	Block   BlockContext
	Account common.Address
	Beans   *big.Int
}

// ---- Gauge / germination ----

type BeanToMaxLpGpPerBdvRatioChange struct {
	Block     BlockContext
	Season    uint32
	CaseID    *big.Int
	AbsChange *big.Int
}

type GaugePointChange struct {
	Block       BlockContext
	Season      uint32
	Token       common.Address
	GaugePoints *big.Int
}

type UpdateAverageStalkPerBdvPerSeason struct {
	Block                   BlockContext
	NewStalkPerBdvPerSeason *big.Int
}

type FarmerGerminatingStalkBalanceChanged struct {
	Block   BlockContext
	Account common.Address
	Delta   *big.Int
	Parity  entities.GerminationParity
}

type TotalGerminatingBalanceChanged struct {
	Block             BlockContext
	GerminationSeason uint32
	Token             common.Address
	DeltaAmount       *big.Int
	DeltaBdv          *big.Int
}

type TotalGerminatingStalkChanged struct {
	Block                 BlockContext
	GerminationSeason     uint32
	DeltaGerminatingStalk *big.Int
}

type TotalStalkChangedFromGermination struct {
	Block      BlockContext
	DeltaStalk *big.Int
	DeltaRoots *big.Int
}

type UpdatedOptimalPercentDepositedBdvForToken struct {
	Block                      BlockContext
	Token                      common.Address
	OptimalPercentDepositedBdv *big.Int
}
