// Package models defines the ClickHouse row shapes of the analytics mirror.
// Amounts are mirrored as decimal strings to keep them exact; ratio values
// are mirrored as Float64 since the dashboards only chart them.
package models

// SeasonRow is one season record.
type SeasonRow struct {
	Season           uint32  `ch:"season" json:"season"`
	SunriseBlock     uint64  `ch:"sunrise_block" json:"sunriseBlock"`
	CreatedAt        uint64  `ch:"created_at" json:"createdAt"`
	Price            float64 `ch:"price" json:"price"`
	Beans            string  `ch:"beans" json:"beans"`
	RewardBeans      string  `ch:"reward_beans" json:"rewardBeans"`
	IncentiveBeans   string  `ch:"incentive_beans" json:"incentiveBeans"`
	HarvestableIndex string  `ch:"harvestable_index" json:"harvestableIndex"`
	MarketCap        float64 `ch:"market_cap" json:"marketCap"`
}

// FieldHourlyRow is one field snapshot bucket.
type FieldHourlyRow struct {
	Field             string  `ch:"field" json:"field"`
	Season            uint32  `ch:"season" json:"season"`
	Temperature       float64 `ch:"temperature" json:"temperature"`
	RealRateOfReturn  float64 `ch:"real_rate_of_return" json:"realRateOfReturn"`
	NumberOfSowers    int32   `ch:"number_of_sowers" json:"numberOfSowers"`
	NumberOfSows      int32   `ch:"number_of_sows" json:"numberOfSows"`
	SownBeans         string  `ch:"sown_beans" json:"sownBeans"`
	UnharvestablePods string  `ch:"unharvestable_pods" json:"unharvestablePods"`
	HarvestablePods   string  `ch:"harvestable_pods" json:"harvestablePods"`
	HarvestedPods     string  `ch:"harvested_pods" json:"harvestedPods"`
	Soil              string  `ch:"soil" json:"soil"`
	PodIndex          string  `ch:"pod_index" json:"podIndex"`
	PodRate           float64 `ch:"pod_rate" json:"podRate"`
	DeltaSownBeans    string  `ch:"delta_sown_beans" json:"deltaSownBeans"`
	DeltaHarvested    string  `ch:"delta_harvested_pods" json:"deltaHarvestedPods"`
	SoilSoldOut       bool    `ch:"soil_sold_out" json:"soilSoldOut"`
	SeasonBlock       uint64  `ch:"season_block" json:"seasonBlock"`
	UpdatedAt         uint64  `ch:"updated_at" json:"updatedAt"`
}

// SiloHourlyRow is one silo snapshot bucket.
type SiloHourlyRow struct {
	Silo              string `ch:"silo" json:"silo"`
	Season            uint32 `ch:"season" json:"season"`
	DepositedBDV      string `ch:"deposited_bdv" json:"depositedBdv"`
	Stalk             string `ch:"stalk" json:"stalk"`
	PlantableStalk    string `ch:"plantable_stalk" json:"plantableStalk"`
	Roots             string `ch:"roots" json:"roots"`
	GerminatingStalk  string `ch:"germinating_stalk" json:"germinatingStalk"`
	BeanMints         string `ch:"bean_mints" json:"beanMints"`
	ActiveFarmers     int32  `ch:"active_farmers" json:"activeFarmers"`
	DeltaDepositedBDV string `ch:"delta_deposited_bdv" json:"deltaDepositedBdv"`
	DeltaStalk        string `ch:"delta_stalk" json:"deltaStalk"`
	UpdatedAt         uint64 `ch:"updated_at" json:"updatedAt"`
}

// MarketHourlyRow is one marketplace snapshot bucket.
type MarketHourlyRow struct {
	Season              uint32 `ch:"season" json:"season"`
	ListedPods          string `ch:"listed_pods" json:"listedPods"`
	AvailableListedPods string `ch:"available_listed_pods" json:"availableListedPods"`
	FilledListedPods    string `ch:"filled_listed_pods" json:"filledListedPods"`
	ExpiredListedPods   string `ch:"expired_listed_pods" json:"expiredListedPods"`
	CancelledListedPods string `ch:"cancelled_listed_pods" json:"cancelledListedPods"`
	OrderBeans          string `ch:"order_beans" json:"orderBeans"`
	AvailableOrderBeans string `ch:"available_order_beans" json:"availableOrderBeans"`
	FilledOrderedPods   string `ch:"filled_ordered_pods" json:"filledOrderedPods"`
	FilledOrderBeans    string `ch:"filled_order_beans" json:"filledOrderBeans"`
	CancelledOrderBeans string `ch:"cancelled_order_beans" json:"cancelledOrderBeans"`
	PodVolume           string `ch:"pod_volume" json:"podVolume"`
	BeanVolume          string `ch:"bean_volume" json:"beanVolume"`
	DeltaPodVolume      string `ch:"delta_pod_volume" json:"deltaPodVolume"`
	DeltaBeanVolume     string `ch:"delta_bean_volume" json:"deltaBeanVolume"`
	UpdatedAt           uint64 `ch:"updated_at" json:"updatedAt"`
}

// MarketEventRow is one append-only raw marketplace event.
type MarketEventRow struct {
	ID          string `ch:"id" json:"id"`
	Type        string `ch:"type" json:"type"`
	HistoryID   string `ch:"history_id" json:"historyId"`
	Hash        string `ch:"hash" json:"hash"`
	LogIndex    uint32 `ch:"log_index" json:"logIndex"`
	BlockNumber uint64 `ch:"block_number" json:"blockNumber"`
	Account     string `ch:"account" json:"account"`
	Index       string `ch:"index" json:"index"`
	Amount      string `ch:"amount" json:"amount"`
	PlaceInLine string `ch:"place_in_line" json:"placeInLine"`
	CostInBeans string `ch:"cost_in_beans" json:"costInBeans"`
	CreatedAt   uint64 `ch:"created_at" json:"createdAt"`
}

// TokenYieldRow is one per-token vAPY record.
type TokenYieldRow struct {
	Token     string  `ch:"token" json:"token"`
	Season    uint32  `ch:"season" json:"season"`
	Window    uint32  `ch:"window" json:"window"`
	BeanAPY   float64 `ch:"bean_apy" json:"beanApy"`
	StalkAPY  float64 `ch:"stalk_apy" json:"stalkApy"`
	CreatedAt uint64  `ch:"created_at" json:"createdAt"`
}

// FertilizerYieldRow is one fertilizer APY record.
type FertilizerYieldRow struct {
	Season          uint32  `ch:"season" json:"season"`
	Window          uint32  `ch:"window" json:"window"`
	Humidity        float64 `ch:"humidity" json:"humidity"`
	OutstandingFert string  `ch:"outstanding_fert" json:"outstandingFert"`
	SimpleAPY       float64 `ch:"simple_apy" json:"simpleApy"`
	CreatedAt       uint64  `ch:"created_at" json:"createdAt"`
}
