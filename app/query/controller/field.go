package controller

import (
	"net/http"
	"sort"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

type fieldResponse struct {
	Farmer            string  `json:"farmer,omitempty"`
	Season            uint32  `json:"season"`
	Temperature       float64 `json:"temperature"`
	RealRateOfReturn  float64 `json:"realRateOfReturn"`
	NumberOfSowers    int32   `json:"numberOfSowers"`
	NumberOfSows      int32   `json:"numberOfSows"`
	SownBeans         string  `json:"sownBeans"`
	UnharvestablePods string  `json:"unharvestablePods"`
	HarvestablePods   string  `json:"harvestablePods"`
	HarvestedPods     string  `json:"harvestedPods"`
	Soil              string  `json:"soil"`
	PodIndex          string  `json:"podIndex"`
	PodRate           float64 `json:"podRate"`
}

func toFieldResponse(field *entities.Field) fieldResponse {
	return fieldResponse{
		Farmer:            field.Farmer,
		Season:            field.Season,
		Temperature:       field.Temperature.InexactFloat64(),
		RealRateOfReturn:  field.RealRateOfReturn.InexactFloat64(),
		NumberOfSowers:    field.NumberOfSowers,
		NumberOfSows:      field.NumberOfSows,
		SownBeans:         bigStr(field.SownBeans),
		UnharvestablePods: bigStr(field.UnharvestablePods),
		HarvestablePods:   bigStr(field.HarvestablePods),
		HarvestedPods:     bigStr(field.HarvestedPods),
		Soil:              bigStr(field.Soil),
		PodIndex:          bigStr(field.PodIndex),
		PodRate:           field.PodRate.InexactFloat64(),
	}
}

// ProtocolField returns the protocol-aggregate field row.
func (c *Controller) ProtocolField(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toFieldResponse(c.App.Store.LoadField(c.App.Store.Proto.Beanstalk)))
}

// FieldByAccount returns one farmer's field row.
func (c *Controller) FieldByAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := parseAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toFieldResponse(c.App.Store.LoadField(account)))
}

type plotResponse struct {
	Index           string  `json:"index"`
	Pods            string  `json:"pods"`
	BeansPerPod     string  `json:"beansPerPod"`
	Temperature     float64 `json:"temperature"`
	Source          string  `json:"source"`
	Season          uint32  `json:"season"`
	HarvestablePods string  `json:"harvestablePods"`
	HarvestedPods   string  `json:"harvestedPods"`
	FullyHarvested  bool    `json:"fullyHarvested"`
	Listing         string  `json:"listing,omitempty"`
}

// PlotsByAccount lists a farmer's plots ordered by pod-line index.
func (c *Controller) PlotsByAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := parseAccount(w, r)
	if !ok {
		return
	}
	farmer := account.Hex()

	out := make([]plotResponse, 0)
	c.App.Store.Plots.Range(func(_ string, plot *entities.Plot) bool {
		if plot.Farmer != farmer {
			return true
		}
		out = append(out, plotResponse{
			Index:           bigStr(plot.Index),
			Pods:            bigStr(plot.Pods),
			BeansPerPod:     bigStr(plot.BeansPerPod),
			Temperature:     plot.Temperature.InexactFloat64(),
			Source:          string(plot.Source),
			Season:          plot.Season,
			HarvestablePods: bigStr(plot.HarvestablePods),
			HarvestedPods:   bigStr(plot.HarvestedPods),
			FullyHarvested:  plot.FullyHarvested,
			Listing:         plot.Listing,
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		// Indexes are decimal strings of the same magnitude class; compare by
		// length first to get numeric order.
		if len(out[i].Index) != len(out[j].Index) {
			return len(out[i].Index) < len(out[j].Index)
		}
		return out[i].Index < out[j].Index
	})

	writeJSON(w, http.StatusOK, out)
}
