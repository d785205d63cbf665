package controller

import (
	"net/http"
	"strconv"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/gorilla/mux"
)

type tokenYieldResponse struct {
	Token    string  `json:"token"`
	BeanAPY  float64 `json:"beanApy"`
	StalkAPY float64 `json:"stalkApy"`
}

type yieldResponse struct {
	Season            uint32               `json:"season"`
	Window            uint32               `json:"window"`
	BeansPerSeasonEMA string               `json:"beansPerSeasonEma"`
	Tokens            []tokenYieldResponse `json:"tokens"`
	FertilizerAPY     *float64             `json:"fertilizerApy,omitempty"`
}

// YieldsBySeason returns one season's simulated vAPYs. The window defaults to
// 720 seasons and is selectable with ?window=24|168|720.
func (c *Controller) YieldsBySeason(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseUint(mux.Vars(r)["season"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid season number")
		return
	}
	season := uint32(n)

	window := entities.Window30D
	switch r.URL.Query().Get("window") {
	case "", "720":
	case "24":
		window = entities.Window24H
	case "168":
		window = entities.Window7D
	default:
		writeError(w, http.StatusBadRequest, "window must be 24, 168 or 720")
		return
	}

	ema := c.App.Store.SiloYields.Load(entities.YieldKey{Season: season, Window: window})
	if ema == nil {
		writeError(w, http.StatusNotFound, "no yield record for season")
		return
	}

	resp := yieldResponse{
		Season:            season,
		Window:            window,
		BeansPerSeasonEMA: ema.BeansPerSeasonEMA.String(),
		Tokens:            make([]tokenYieldResponse, 0, len(ema.WhitelistedTokens)),
	}

	for _, token := range ema.WhitelistedTokens {
		ty := c.App.Store.TokenYields.Load(entities.TokenYieldKey{Token: token, Season: season, Window: window})
		if ty == nil {
			continue
		}
		resp.Tokens = append(resp.Tokens, tokenYieldResponse{
			Token:    token.Hex(),
			BeanAPY:  ty.BeanAPY.InexactFloat64(),
			StalkAPY: ty.StalkAPY.InexactFloat64(),
		})
	}

	if fy := c.App.Store.FertilizerYields.Load(entities.YieldKey{Season: season, Window: window}); fy != nil {
		apy := fy.SimpleAPY.InexactFloat64()
		resp.FertilizerAPY = &apy
	}

	writeJSON(w, http.StatusOK, resp)
}
