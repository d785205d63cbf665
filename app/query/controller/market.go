package controller

import (
	"net/http"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

type marketResponse struct {
	Season uint32 `json:"season"`

	ListedPods          string `json:"listedPods"`
	AvailableListedPods string `json:"availableListedPods"`
	FilledListedPods    string `json:"filledListedPods"`
	ExpiredListedPods   string `json:"expiredListedPods"`
	CancelledListedPods string `json:"cancelledListedPods"`

	OrderBeans          string `json:"orderBeans"`
	AvailableOrderBeans string `json:"availableOrderBeans"`
	FilledOrderedPods   string `json:"filledOrderedPods"`
	FilledOrderBeans    string `json:"filledOrderBeans"`
	CancelledOrderBeans string `json:"cancelledOrderBeans"`

	PodVolume  string `json:"podVolume"`
	BeanVolume string `json:"beanVolume"`

	ActiveListings int `json:"activeListings"`
	ActiveOrders   int `json:"activeOrders"`
}

// MarketOverview returns the order-book aggregates.
func (c *Controller) MarketOverview(w http.ResponseWriter, _ *http.Request) {
	m := c.App.Store.LoadPodMarketplace()
	writeJSON(w, http.StatusOK, marketResponse{
		Season:              m.Season,
		ListedPods:          bigStr(m.ListedPods),
		AvailableListedPods: bigStr(m.AvailableListedPods),
		FilledListedPods:    bigStr(m.FilledListedPods),
		ExpiredListedPods:   bigStr(m.ExpiredListedPods),
		CancelledListedPods: bigStr(m.CancelledListedPods),
		OrderBeans:          bigStr(m.OrderBeans),
		AvailableOrderBeans: bigStr(m.AvailableOrderBeans),
		FilledOrderedPods:   bigStr(m.FilledOrderedPods),
		FilledOrderBeans:    bigStr(m.FilledOrderBeans),
		CancelledOrderBeans: bigStr(m.CancelledOrderBeans),
		PodVolume:           bigStr(m.PodVolume),
		BeanVolume:          bigStr(m.BeanVolume),
		ActiveListings:      len(m.ActiveListings),
		ActiveOrders:        len(m.ActiveOrders),
	})
}

type listingResponse struct {
	Farmer              string `json:"farmer"`
	Index               string `json:"index"`
	Start               string `json:"start"`
	RemainingAmount     string `json:"remainingAmount"`
	PricePerPod         int32  `json:"pricePerPod"`
	MaxHarvestableIndex string `json:"maxHarvestableIndex"`
	MinFillAmount       string `json:"minFillAmount"`
	Status              string `json:"status"`
	CreatedAt           uint64 `json:"createdAt"`
}

// ActiveListings returns the live order-book listings in index order.
func (c *Controller) ActiveListings(w http.ResponseWriter, _ *http.Request) {
	m := c.App.Store.LoadPodMarketplace()

	out := make([]listingResponse, 0, len(m.ActiveListings))
	for _, entry := range m.ActiveListings {
		l := c.App.Store.PodListings.Load(entities.ListingKey{Account: entry.Farmer, Index: entry.Index})
		if l == nil || l.Status != entities.StatusActive {
			continue
		}
		out = append(out, listingResponse{
			Farmer:              l.Farmer.Hex(),
			Index:               bigStr(l.Index),
			Start:               bigStr(l.Start),
			RemainingAmount:     bigStr(l.RemainingAmount),
			PricePerPod:         l.PricePerPod,
			MaxHarvestableIndex: bigStr(l.MaxHarvestableIndex),
			MinFillAmount:       bigStr(l.MinFillAmount),
			Status:              l.Status,
			CreatedAt:           l.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

type orderResponse struct {
	OrderID          string `json:"orderId"`
	Farmer           string `json:"farmer"`
	BeanAmount       string `json:"beanAmount"`
	BeanAmountFilled string `json:"beanAmountFilled"`
	PodAmountFilled  string `json:"podAmountFilled"`
	PricePerPod      int32  `json:"pricePerPod"`
	MaxPlaceInLine   string `json:"maxPlaceInLine"`
	MinFillAmount    string `json:"minFillAmount"`
	Status           string `json:"status"`
	CreatedAt        uint64 `json:"createdAt"`
}

// ActiveOrders returns the live order-book orders.
func (c *Controller) ActiveOrders(w http.ResponseWriter, _ *http.Request) {
	m := c.App.Store.LoadPodMarketplace()

	out := make([]orderResponse, 0, len(m.ActiveOrders))
	for _, entry := range m.ActiveOrders {
		o := c.App.Store.PodOrders.LoadID(entry.OrderID)
		if o == nil || o.Status != entities.StatusActive {
			continue
		}
		out = append(out, orderResponse{
			OrderID:          o.ID,
			Farmer:           o.Farmer.Hex(),
			BeanAmount:       bigStr(o.BeanAmount),
			BeanAmountFilled: bigStr(o.BeanAmountFilled),
			PodAmountFilled:  bigStr(o.PodAmountFilled),
			PricePerPod:      o.PricePerPod,
			MaxPlaceInLine:   bigStr(o.MaxPlaceInLine),
			MinFillAmount:    bigStr(o.MinFillAmount),
			Status:           o.Status,
			CreatedAt:        o.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
