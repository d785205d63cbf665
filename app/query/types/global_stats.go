package types

// GlobalStats is the cron-refreshed protocol overview served by /stats. All
// token amounts are decimal strings of raw units.
type GlobalStats struct {
	Season           uint32  `json:"season"`
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"marketCap"`
	BeanSupply       string  `json:"beanSupply"`
	RewardBeans      string  `json:"rewardBeans"`
	HarvestableIndex string  `json:"harvestableIndex"`

	DepositedBDV     string `json:"depositedBdv"`
	Stalk            string `json:"stalk"`
	GerminatingStalk string `json:"germinatingStalk"`
	ActiveFarmers    int32  `json:"activeFarmers"`

	PodIndex          string  `json:"podIndex"`
	UnharvestablePods string  `json:"unharvestablePods"`
	HarvestablePods   string  `json:"harvestablePods"`
	HarvestedPods     string  `json:"harvestedPods"`
	Soil              string  `json:"soil"`
	Temperature       float64 `json:"temperature"`
	PodRate           float64 `json:"podRate"`

	ActiveListings      int     `json:"activeListings"`
	ActiveOrders        int     `json:"activeOrders"`
	AvailableListedPods string  `json:"availableListedPods"`
	AvailableOrderBeans string  `json:"availableOrderBeans"`
	PodVolume           string  `json:"podVolume"`
	BeanVolume          string  `json:"beanVolume"`

	RefreshedAt int64 `json:"refreshedAt"`
}
