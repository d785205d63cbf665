package handlers

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/marketplace"
)

// The marketplace package owns the order-book state machine; these methods
// exist so the dispatcher sees one receiver for every event.

func (h *Handler) PodListingCreated(ev *events.PodListingCreated) {
	marketplace.ListingCreated(h.store, ev)
}

func (h *Handler) PodListingFilled(ev *events.MarketFill) {
	marketplace.ListingFilled(h.store, ev)
}

func (h *Handler) PodListingCancelled(ev *events.PodListingCancelled) {
	marketplace.ListingCancelled(h.store, ev)
}

func (h *Handler) PodOrderCreated(ev *events.PodOrderCreated) {
	marketplace.OrderCreated(h.store, ev)
}

func (h *Handler) PodOrderFilled(ev *events.MarketFill) {
	marketplace.OrderFilled(h.store, ev)
}

func (h *Handler) PodOrderCancelled(ev *events.PodOrderCancelled) {
	marketplace.OrderCancelled(h.store, ev)
}
