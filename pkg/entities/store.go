package entities

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/store"
)

// Store is the entity registry: one typed collection per entity type, plus
// the protocol constants needed to zero-initialize records. All load-or-create
// accessors live on this type; a newly created record is persisted before it
// is returned, never handed out partially initialized.
type Store struct {
	Proto *config.Protocol

	Beanstalks *store.Collection[Beanstalk]
	Seasons    *store.Collection[Season]

	Silos             *store.Collection[Silo]
	Farmers           *store.Collection[Farmer]
	SiloDeposits      *store.Collection[SiloDeposit]
	SiloWithdraws     *store.Collection[SiloWithdraw]
	SiloAssets        *store.Collection[SiloAsset]
	WhitelistSettings *store.Collection[WhitelistTokenSetting]
	UnripeTokens      *store.Collection[UnripeToken]

	Fields *store.Collection[Field]
	Plots  *store.Collection[Plot]

	Marketplaces *store.Collection[PodMarketplace]
	PodListings  *store.Collection[PodListing]
	PodOrders    *store.Collection[PodOrder]
	PodFills     *store.Collection[PodFill]

	Fertilizers        *store.Collection[Fertilizer]
	FertilizerTokens   *store.Collection[FertilizerToken]
	FertilizerBalances *store.Collection[FertilizerBalance]

	Germinating     *store.Collection[Germinating]
	PrevGerminating *store.Collection[PrevFarmerGerminatingEvent]

	SiloYields       *store.Collection[SiloYield]
	TokenYields      *store.Collection[TokenYield]
	FertilizerYields *store.Collection[FertilizerYield]

	SiloHourly      *store.Collection[SiloHourlySnapshot]
	SiloDaily       *store.Collection[SiloDailySnapshot]
	SiloAssetHourly *store.Collection[SiloAssetHourlySnapshot]
	SiloAssetDaily  *store.Collection[SiloAssetDailySnapshot]
	FieldHourly     *store.Collection[FieldHourlySnapshot]
	FieldDaily      *store.Collection[FieldDailySnapshot]
	MarketHourly    *store.Collection[MarketHourlySnapshot]
	MarketDaily     *store.Collection[MarketDailySnapshot]
	UnripeHourly    *store.Collection[UnripeTokenHourlySnapshot]
	UnripeDaily     *store.Collection[UnripeTokenDailySnapshot]
	WhitelistHourly *store.Collection[WhitelistTokenHourlySnapshot]
	WhitelistDaily  *store.Collection[WhitelistTokenDailySnapshot]

	MarketEvents *store.Collection[MarketEvent]
}

// NewStore builds an empty registry for one protocol deployment.
func NewStore(proto *config.Protocol) *Store {
	return &Store{
		Proto: proto,

		Beanstalks: store.NewCollection[Beanstalk](),
		Seasons:    store.NewCollection[Season](),

		Silos:             store.NewCollection[Silo](),
		Farmers:           store.NewCollection[Farmer](),
		SiloDeposits:      store.NewCollection[SiloDeposit](),
		SiloWithdraws:     store.NewCollection[SiloWithdraw](),
		SiloAssets:        store.NewCollection[SiloAsset](),
		WhitelistSettings: store.NewCollection[WhitelistTokenSetting](),
		UnripeTokens:      store.NewCollection[UnripeToken](),

		Fields: store.NewCollection[Field](),
		Plots:  store.NewCollection[Plot](),

		Marketplaces: store.NewCollection[PodMarketplace](),
		PodListings:  store.NewCollection[PodListing](),
		PodOrders:    store.NewCollection[PodOrder](),
		PodFills:     store.NewCollection[PodFill](),

		Fertilizers:        store.NewCollection[Fertilizer](),
		FertilizerTokens:   store.NewCollection[FertilizerToken](),
		FertilizerBalances: store.NewCollection[FertilizerBalance](),

		Germinating:     store.NewCollection[Germinating](),
		PrevGerminating: store.NewCollection[PrevFarmerGerminatingEvent](),

		SiloYields:       store.NewCollection[SiloYield](),
		TokenYields:      store.NewCollection[TokenYield](),
		FertilizerYields: store.NewCollection[FertilizerYield](),

		SiloHourly:      store.NewCollection[SiloHourlySnapshot](),
		SiloDaily:       store.NewCollection[SiloDailySnapshot](),
		SiloAssetHourly: store.NewCollection[SiloAssetHourlySnapshot](),
		SiloAssetDaily:  store.NewCollection[SiloAssetDailySnapshot](),
		FieldHourly:     store.NewCollection[FieldHourlySnapshot](),
		FieldDaily:      store.NewCollection[FieldDailySnapshot](),
		MarketHourly:    store.NewCollection[MarketHourlySnapshot](),
		MarketDaily:     store.NewCollection[MarketDailySnapshot](),
		UnripeHourly:    store.NewCollection[UnripeTokenHourlySnapshot](),
		UnripeDaily:     store.NewCollection[UnripeTokenDailySnapshot](),
		WhitelistHourly: store.NewCollection[WhitelistTokenHourlySnapshot](),
		WhitelistDaily:  store.NewCollection[WhitelistTokenDailySnapshot](),

		MarketEvents: store.NewCollection[MarketEvent](),
	}
}
