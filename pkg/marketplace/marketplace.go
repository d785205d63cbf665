// Package marketplace implements the pod order book: listings over plot
// sub-ranges, bean-denominated orders, fills, cancellations, and
// harvest-driven expiry.
//
// Marketplace aggregates are maintained transactionally on the singleton
// alongside every mutation and are never re-derived from child rows. Every
// mutation also appends one immutable raw event row pinned to the exact
// listing/order incarnation it touched via HistoryID.
package marketplace

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
	"github.com/ethereum/go-ethereum/common"
)

// historyID pins a row to one incarnation of a listing or order. Re-listing
// the same plot produces a new history id even though the canonical row id is
// reused.
func historyID(id string, timestamp uint64, logIndex uint32) string {
	return id + "-" + strconv.FormatUint(timestamp, 10) + "-" + strconv.FormatUint(uint64(logIndex), 10)
}

// placeInLine positions a plot range relative to the harvestable cursor at
// event time.
func placeInLine(s *entities.Store, index, start *big.Int) *big.Int {
	return bigdec.Sub(bigdec.Add(index, start), s.HarvestableIndex())
}

func mustListing(s *entities.Store, account common.Address, index *big.Int) *entities.PodListing {
	l := s.PodListings.Load(entities.ListingKey{Account: account, Index: index})
	if l == nil {
		panic(fmt.Sprintf("marketplace: no listing for %s at index %s", account.Hex(), index))
	}
	return l
}

func mustOrder(s *entities.Store, id common.Hash) *entities.PodOrder {
	o := s.PodOrders.Load(entities.OrderKey{ID: id})
	if o == nil {
		panic(fmt.Sprintf("marketplace: no order %s", id.Hex()))
	}
	return o
}

// updateListingBalances folds one listing-side mutation into the aggregates.
// filledBeans rides along with filledPods so volume stays consistent.
func updateListingBalances(
	s *entities.Store,
	market *entities.PodMarketplace,
	newPods, cancelledPods, filledPods, filledBeans *big.Int,
	timestamp uint64,
) {
	netAvailable := bigdec.Sub(bigdec.Sub(newPods, cancelledPods), filledPods)

	market.ListedPods = bigdec.Add(market.ListedPods, newPods)
	market.AvailableListedPods = bigdec.Add(market.AvailableListedPods, netAvailable)
	market.CancelledListedPods = bigdec.Add(market.CancelledListedPods, cancelledPods)
	market.FilledListedPods = bigdec.Add(market.FilledListedPods, filledPods)
	market.PodVolume = bigdec.Add(market.PodVolume, filledPods)
	market.BeanVolume = bigdec.Add(market.BeanVolume, filledBeans)

	snapshots.TakeMarketSnapshots(s, market, timestamp)
	s.SavePodMarketplace(market)
}

// updateOrderBalances folds one order-side mutation into the aggregates.
func updateOrderBalances(
	s *entities.Store,
	market *entities.PodMarketplace,
	newBeans, cancelledBeans, filledPods, filledBeans *big.Int,
	timestamp uint64,
) {
	netAvailable := bigdec.Sub(bigdec.Sub(newBeans, cancelledBeans), filledBeans)

	market.OrderBeans = bigdec.Add(market.OrderBeans, newBeans)
	market.AvailableOrderBeans = bigdec.Add(market.AvailableOrderBeans, netAvailable)
	market.CancelledOrderBeans = bigdec.Add(market.CancelledOrderBeans, cancelledBeans)
	market.FilledOrderedPods = bigdec.Add(market.FilledOrderedPods, filledPods)
	market.FilledOrderBeans = bigdec.Add(market.FilledOrderBeans, filledBeans)
	market.PodVolume = bigdec.Add(market.PodVolume, filledPods)
	market.BeanVolume = bigdec.Add(market.BeanVolume, filledBeans)

	snapshots.TakeMarketSnapshots(s, market, timestamp)
	s.SavePodMarketplace(market)
}

func addActiveListing(market *entities.PodMarketplace, farmer common.Address, index, maxHarvestableIndex *big.Int) {
	market.ActiveListings = append(market.ActiveListings, entities.ActiveListing{
		Farmer:              farmer,
		Index:               bigdec.Copy(index),
		MaxHarvestableIndex: bigdec.Copy(maxHarvestableIndex),
	})
}

func removeActiveListing(market *entities.PodMarketplace, farmer common.Address, index *big.Int) {
	kept := market.ActiveListings[:0]
	for _, al := range market.ActiveListings {
		if al.Farmer == farmer && al.Index.Cmp(index) == 0 {
			continue
		}
		kept = append(kept, al)
	}
	market.ActiveListings = kept
}

func addActiveOrder(market *entities.PodMarketplace, orderID string, maxPlaceInLine *big.Int) {
	market.ActiveOrders = append(market.ActiveOrders, entities.ActiveOrder{
		OrderID:        orderID,
		MaxPlaceInLine: bigdec.Copy(maxPlaceInLine),
	})
}

func removeActiveOrder(market *entities.PodMarketplace, orderID string) {
	kept := market.ActiveOrders[:0]
	for _, ao := range market.ActiveOrders {
		if ao.OrderID == orderID {
			continue
		}
		kept = append(kept, ao)
	}
	market.ActiveOrders = kept
}

// setBeansPerPodAfterFill stamps market provenance onto the plot range a fill
// consumed. When the fill takes a prefix of a larger plot, the untouched
// remainder keeps the original provenance before the consumed range is
// overwritten.
func setBeansPerPodAfterFill(
	s *entities.Store,
	index, start, length, costInBeans *big.Int,
	txHash common.Hash,
) {
	fillPlot := s.Plots.MustLoad(entities.PlotKey{Index: bigdec.Add(index, start)})

	if start.Sign() == 0 && length.Cmp(fillPlot.Pods) < 0 {
		remainder := s.LoadPlot(bigdec.Add(index, length))
		remainder.SourceHash = fillPlot.SourceHash
		remainder.BeansPerPod = bigdec.Copy(fillPlot.BeansPerPod)
		remainder.Source = fillPlot.Source
		s.SavePlot(remainder)
	}

	fillPlot.BeansPerPod = bigdec.Div(bigdec.Mul(costInBeans, bigdec.Pow10(6)), length)
	fillPlot.Source = entities.PlotSourceMarket
	fillPlot.SourceHash = txHash.Hex()
	s.SavePlot(fillPlot)
}

// ExpireListings expires every active listing whose max harvestable index has
// fallen behind the pod line. Expired entries are collected first and the
// active index rebuilt afterwards, so the scan never mutates the slice it is
// walking.
func ExpireListings(s *entities.Store, harvestableIndex *big.Int, timestamp uint64) {
	market := s.LoadPodMarketplace()

	var expired []entities.ActiveListing
	for _, al := range market.ActiveListings {
		if harvestableIndex.Cmp(al.MaxHarvestableIndex) > 0 {
			expired = append(expired, al)
		}
	}
	if len(expired) == 0 {
		return
	}

	for _, al := range expired {
		listing := mustListing(s, al.Farmer, al.Index)
		listing.Status = entities.StatusExpired
		listing.UpdatedAt = timestamp
		s.SavePodListing(listing)

		market.ExpiredListedPods = bigdec.Add(market.ExpiredListedPods, listing.RemainingAmount)
		market.AvailableListedPods = bigdec.Sub(market.AvailableListedPods, listing.RemainingAmount)
		removeActiveListing(market, al.Farmer, al.Index)
	}

	snapshots.TakeMarketSnapshots(s, market, timestamp)
	s.SavePodMarketplace(market)
}
