package controller

import (
	"net/http"
	"strconv"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/gorilla/mux"
)

type seasonResponse struct {
	Season           uint32  `json:"season"`
	SunriseBlock     uint64  `json:"sunriseBlock"`
	CreatedAt        uint64  `json:"createdAt"`
	Price            float64 `json:"price"`
	Beans            string  `json:"beans"`
	MarketCap        float64 `json:"marketCap"`
	RewardBeans      string  `json:"rewardBeans"`
	IncentiveBeans   string  `json:"incentiveBeans"`
	HarvestableIndex string  `json:"harvestableIndex"`
}

func toSeasonResponse(rec *entities.Season) seasonResponse {
	return seasonResponse{
		Season:           rec.Season,
		SunriseBlock:     rec.SunriseBlock,
		CreatedAt:        rec.CreatedAt,
		Price:            rec.Price.InexactFloat64(),
		Beans:            bigStr(rec.Beans),
		MarketCap:        rec.MarketCap.InexactFloat64(),
		RewardBeans:      bigStr(rec.RewardBeans),
		IncentiveBeans:   bigStr(rec.IncentiveBeans),
		HarvestableIndex: bigStr(rec.HarvestableIndex),
	}
}

// SeasonLatest returns the current season record.
func (c *Controller) SeasonLatest(w http.ResponseWriter, _ *http.Request) {
	rec := c.App.Store.LoadSeason(c.App.Store.CurrentSeason())
	writeJSON(w, http.StatusOK, toSeasonResponse(rec))
}

// SeasonByNumber returns one historical season record.
func (c *Controller) SeasonByNumber(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseUint(mux.Vars(r)["season"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid season number")
		return
	}
	season := uint32(n)
	if season == 0 || season > c.App.Store.CurrentSeason() {
		writeError(w, http.StatusNotFound, "season not recorded")
		return
	}
	writeJSON(w, http.StatusOK, toSeasonResponse(c.App.Store.LoadSeason(season)))
}
