package marketplace

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sellerA = common.HexToAddress("0x00000000000000000000000000000000000000Aa")
	buyerB  = common.HexToAddress("0x00000000000000000000000000000000000000Bb")
)

func newTestStore() *entities.Store {
	proto := config.EthMainnet()
	return entities.NewStore(&proto)
}

// seedPlot creates the plot a listing or fill will reference; events against
// untracked plots are dropped or panic by design.
func seedPlot(s *entities.Store, farmer common.Address, index, pods int64) {
	plot := s.LoadPlot(bigdec.BI(index))
	plot.Farmer = farmer.Hex()
	plot.Pods = bigdec.BI(pods)
	s.SavePlot(plot)
}

func blk(number, timestamp uint64, logIndex uint32) events.BlockContext {
	return events.BlockContext{
		Number:    number,
		Timestamp: timestamp,
		TxHash:    common.Hash{byte(number), byte(logIndex)},
		LogIndex:  logIndex,
	}
}

// eqBig compares a big integer by value; a computed zero and a literal zero
// are not reflect-equal.
func eqBig(t *testing.T, expected int64, actual *big.Int) {
	t.Helper()
	require.NotNil(t, actual)
	require.Equal(t, strconv.FormatInt(expected, 10), actual.String())
}

func listPlot(s *entities.Store, account common.Address, b events.BlockContext, index, amount, maxHarvestable int64) {
	ListingCreated(s, &events.PodListingCreated{
		Block: b, Account: account,
		Index: bigdec.BI(index), Start: bigdec.BI(0), Amount: bigdec.BI(amount),
		PricePerPod:         250_000,
		MaxHarvestableIndex: bigdec.BI(maxHarvestable),
		MinFillAmount:       bigdec.BI(1),
	})
}

func TestListingCreatedRegistersActiveListing(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 500)

	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 10_000)

	listing := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(100)})
	require.NotNil(t, listing)
	assert.Equal(t, entities.StatusActive, listing.Status)
	eqBig(t, 500, listing.RemainingAmount)
	eqBig(t, 500, listing.OriginalAmount)

	market := s.LoadPodMarketplace()
	eqBig(t, 500, market.ListedPods)
	eqBig(t, 500, market.AvailableListedPods)
	require.Len(t, market.ActiveListings, 1)
	assert.Equal(t, sellerA, market.ActiveListings[0].Farmer)

	assert.Equal(t, listing.ID, s.LoadPlot(bigdec.BI(100)).Listing)
	assert.Equal(t, 1, s.MarketEvents.Len())
}

func TestListingCreatedUnknownPlotDropped(t *testing.T) {
	s := newTestStore()

	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 10_000)

	assert.Equal(t, 0, s.PodListings.Len())
	assert.Equal(t, 0, s.MarketEvents.Len())
	assert.Empty(t, s.LoadPodMarketplace().ActiveListings)
}

func TestListingFilledPartialThenComplete(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 500)
	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 10_000)

	ListingFilled(s, &events.MarketFill{
		Block: blk(11, 1010, 1), From: sellerA, To: buyerB,
		Index: bigdec.BI(100), Start: bigdec.BI(0),
		Amount: bigdec.BI(200), CostInBeans: bigdec.BI(50),
	})

	original := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(100)})
	require.NotNil(t, original)
	assert.Equal(t, entities.StatusFilledPartial, original.Status)
	eqBig(t, 300, original.RemainingAmount)
	eqBig(t, 200, original.Filled)

	remainder := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(300)})
	require.NotNil(t, remainder)
	assert.Equal(t, entities.StatusActive, remainder.Status)
	eqBig(t, 300, remainder.RemainingAmount)
	eqBig(t, 200, remainder.Filled)

	fillPlot := s.LoadPlot(bigdec.BI(100))
	eqBig(t, 250_000, fillPlot.BeansPerPod)
	assert.Equal(t, entities.PlotSourceMarket, fillPlot.Source)

	ListingFilled(s, &events.MarketFill{
		Block: blk(12, 1020, 2), From: sellerA, To: buyerB,
		Index: bigdec.BI(300), Start: bigdec.BI(0),
		Amount: bigdec.BI(300), CostInBeans: bigdec.BI(75),
	})

	remainder = s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(300)})
	assert.Equal(t, entities.StatusFilled, remainder.Status)

	market := s.LoadPodMarketplace()
	assert.Empty(t, market.ActiveListings)
	eqBig(t, 500, market.FilledListedPods)
	eqBig(t, 0, market.AvailableListedPods)
	eqBig(t, 500, market.PodVolume)
	eqBig(t, 125, market.BeanVolume)
	assert.Equal(t, 2, s.PodFills.Len())
}

func TestListingCancelledPartialStatus(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 500)
	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 10_000)

	ListingFilled(s, &events.MarketFill{
		Block: blk(11, 1010, 1), From: sellerA, To: buyerB,
		Index: bigdec.BI(100), Start: bigdec.BI(0),
		Amount: bigdec.BI(200), CostInBeans: bigdec.BI(50),
	})
	ListingCancelled(s, &events.PodListingCancelled{
		Block: blk(12, 1020, 0), Account: sellerA, Index: bigdec.BI(300),
	})

	remainder := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(300)})
	require.NotNil(t, remainder)
	assert.Equal(t, entities.StatusCancelledPartial, remainder.Status)

	market := s.LoadPodMarketplace()
	assert.Empty(t, market.ActiveListings)
	eqBig(t, 300, market.CancelledListedPods)
	eqBig(t, 0, market.AvailableListedPods)
}

func TestListingCancelledNonActiveIsNoop(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 500)
	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 10_000)

	ListingCancelled(s, &events.PodListingCancelled{
		Block: blk(11, 1010, 0), Account: sellerA, Index: bigdec.BI(100),
	})
	// Second cancel hits a CANCELLED row and must change nothing.
	ListingCancelled(s, &events.PodListingCancelled{
		Block: blk(12, 1020, 0), Account: sellerA, Index: bigdec.BI(100),
	})

	listing := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(100)})
	assert.Equal(t, entities.StatusCancelled, listing.Status)
	eqBig(t, 500, s.LoadPodMarketplace().CancelledListedPods)
}

func TestListingReListArchivesPreviousIncarnation(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 500)
	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 10_000)
	listPlot(s, sellerA, blk(20, 2000, 1), 100, 400, 12_000)

	canonical := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(100)})
	require.NotNil(t, canonical)
	eqBig(t, 400, canonical.Amount)
	eqBig(t, 0, canonical.Filled)
	assert.Equal(t, entities.StatusActive, canonical.Status)

	archived := s.PodListings.LoadID(canonical.ID + "-0")
	require.NotNil(t, archived)
	eqBig(t, 500, archived.Amount)
}

func TestOrderFilledCompletesOnExactBeanEquality(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 1000)
	orderID := common.HexToHash("0x01")

	OrderCreated(s, &events.PodOrderCreated{
		Block: blk(10, 1000, 0), Account: buyerB, OrderID: orderID,
		BeanAmount: bigdec.BI(100), PricePerPod: 250_000,
		MaxPlaceInLine: bigdec.BI(1_000_000), MinFillAmount: bigdec.BI(1),
	})

	OrderFilled(s, &events.MarketFill{
		Block: blk(11, 1010, 1), From: sellerA, To: buyerB, OrderID: &orderID,
		Index: bigdec.BI(100), Start: bigdec.BI(0),
		Amount: bigdec.BI(240), CostInBeans: bigdec.BI(60),
	})

	order := s.PodOrders.Load(entities.OrderKey{ID: orderID})
	require.NotNil(t, order)
	assert.Equal(t, entities.StatusActive, order.Status)
	eqBig(t, 60, order.BeanAmountFilled)

	OrderFilled(s, &events.MarketFill{
		Block: blk(12, 1020, 2), From: sellerA, To: buyerB, OrderID: &orderID,
		Index: bigdec.BI(340), Start: bigdec.BI(0),
		Amount: bigdec.BI(160), CostInBeans: bigdec.BI(40),
	})

	order = s.PodOrders.Load(entities.OrderKey{ID: orderID})
	assert.Equal(t, entities.StatusFilled, order.Status)
	eqBig(t, 400, order.PodAmountFilled)
	assert.Len(t, order.Fills, 2)

	market := s.LoadPodMarketplace()
	assert.Empty(t, market.ActiveOrders)
	eqBig(t, 100, market.OrderBeans)
	eqBig(t, 0, market.AvailableOrderBeans)
	eqBig(t, 400, market.FilledOrderedPods)
	eqBig(t, 100, market.FilledOrderBeans)
}

func TestOrderCancelledRefundsUnspentBeans(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 1000)
	orderID := common.HexToHash("0x02")

	OrderCreated(s, &events.PodOrderCreated{
		Block: blk(10, 1000, 0), Account: buyerB, OrderID: orderID,
		BeanAmount: bigdec.BI(100), PricePerPod: 250_000,
		MaxPlaceInLine: bigdec.BI(1_000_000), MinFillAmount: bigdec.BI(1),
	})
	OrderFilled(s, &events.MarketFill{
		Block: blk(11, 1010, 1), From: sellerA, To: buyerB, OrderID: &orderID,
		Index: bigdec.BI(100), Start: bigdec.BI(0),
		Amount: bigdec.BI(160), CostInBeans: bigdec.BI(40),
	})
	OrderCancelled(s, &events.PodOrderCancelled{
		Block: blk(12, 1020, 0), Account: buyerB, OrderID: orderID,
	})

	order := s.PodOrders.Load(entities.OrderKey{ID: orderID})
	assert.Equal(t, entities.StatusCancelledPartial, order.Status)

	market := s.LoadPodMarketplace()
	assert.Empty(t, market.ActiveOrders)
	eqBig(t, 60, market.CancelledOrderBeans)
	eqBig(t, 0, market.AvailableOrderBeans)
}

func TestExpireListingsBehindPodLine(t *testing.T) {
	s := newTestStore()
	seedPlot(s, sellerA, 100, 500)
	seedPlot(s, sellerA, 2000, 300)
	seedPlot(s, buyerB, 3000, 200)
	listPlot(s, sellerA, blk(10, 1000, 0), 100, 500, 500)
	listPlot(s, sellerA, blk(10, 1000, 1), 2000, 300, 600)
	listPlot(s, buyerB, blk(10, 1000, 2), 3000, 200, 5000)

	ExpireListings(s, bigdec.BI(700), 2000)

	first := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(100)})
	second := s.PodListings.Load(entities.ListingKey{Account: sellerA, Index: bigdec.BI(2000)})
	third := s.PodListings.Load(entities.ListingKey{Account: buyerB, Index: bigdec.BI(3000)})
	assert.Equal(t, entities.StatusExpired, first.Status)
	assert.Equal(t, entities.StatusExpired, second.Status)
	assert.Equal(t, entities.StatusActive, third.Status)

	market := s.LoadPodMarketplace()
	require.Len(t, market.ActiveListings, 1)
	eqBig(t, 3000, market.ActiveListings[0].Index)
	eqBig(t, 800, market.ExpiredListedPods)
	eqBig(t, 200, market.AvailableListedPods)
}
