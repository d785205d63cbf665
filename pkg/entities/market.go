package entities

import (
	"math/big"
	"strconv"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
)

const marketplaceID = "0"

// Listing and order statuses. All non-ACTIVE states are terminal.
const (
	StatusActive           = "ACTIVE"
	StatusFilled           = "FILLED"
	StatusFilledPartial    = "FILLED_PARTIAL"
	StatusCancelled        = "CANCELLED"
	StatusCancelledPartial = "CANCELLED_PARTIAL"
	StatusExpired          = "EXPIRED"
)

// ActiveListing is one entry of the marketplace's active-listing index.
type ActiveListing struct {
	Farmer              common.Address
	Index               *big.Int
	MaxHarvestableIndex *big.Int
}

// ActiveOrder is one entry of the marketplace's active-order index.
type ActiveOrder struct {
	OrderID        string
	MaxPlaceInLine *big.Int
}

// PodMarketplace is the singleton order book over plot ranges. Aggregates
// are updated transactionally alongside every mutation and never re-derived
// from children.
type PodMarketplace struct {
	ID     string
	Season uint32

	ActiveListings []ActiveListing
	ActiveOrders   []ActiveOrder

	ListedPods          *big.Int
	AvailableListedPods *big.Int
	FilledListedPods    *big.Int
	ExpiredListedPods   *big.Int
	CancelledListedPods *big.Int

	OrderBeans          *big.Int
	AvailableOrderBeans *big.Int
	FilledOrderedPods   *big.Int
	FilledOrderBeans    *big.Int
	CancelledOrderBeans *big.Int

	PodVolume  *big.Int
	BeanVolume *big.Int

	LastHourlySnapshotSeason uint32
	LastDailySnapshotDay     int64
}

// PodListing sells a sub-range of a plot. The canonical row lives under
// ListingKey; superseded rows are archived under "<id>-N".
type PodListing struct {
	ID        string
	HistoryID string
	Plot      string
	Farmer    common.Address

	Index *big.Int
	Start *big.Int
	Mode  int32

	MaxHarvestableIndex *big.Int
	MinFillAmount       *big.Int

	PricingType     int32
	PricePerPod     int32
	PricingFunction []byte

	OriginalIndex  *big.Int
	OriginalAmount *big.Int

	Amount          *big.Int
	Filled          *big.Int
	RemainingAmount *big.Int
	FilledAmount    *big.Int

	Fill   string
	Status string

	CreationHash string
	CreatedAt    uint64
	UpdatedAt    uint64
}

// PodOrder commits beans against pods up to a max place in line.
type PodOrder struct {
	ID        string
	HistoryID string
	Farmer    common.Address

	BeanAmount       *big.Int
	BeanAmountFilled *big.Int
	PodAmountFilled  *big.Int

	MinFillAmount  *big.Int
	MaxPlaceInLine *big.Int

	PricingType     int32
	PricePerPod     int32
	PricingFunction []byte

	Fills  []string
	Status string

	CreationHash string
	CreatedAt    uint64
	UpdatedAt    uint64
}

// PodFill cross-links a listing and/or order with one executed trade.
type PodFill struct {
	ID          string
	Listing     string
	Order       string
	FromFarmer  string
	ToFarmer    string
	Amount      *big.Int
	PlaceInLine *big.Int
	Index       *big.Int
	Start       *big.Int
	CostInBeans *big.Int
	CreatedAt   uint64
}

// LoadPodMarketplace returns the marketplace singleton, creating it at the
// current season on first touch.
func (s *Store) LoadPodMarketplace() *PodMarketplace {
	m := s.Marketplaces.LoadID(marketplaceID)
	if m == nil {
		m = &PodMarketplace{
			ID:                  marketplaceID,
			Season:              s.CurrentSeason(),
			ActiveListings:      []ActiveListing{},
			ActiveOrders:        []ActiveOrder{},
			ListedPods:          bigdec.Zero(),
			AvailableListedPods: bigdec.Zero(),
			FilledListedPods:    bigdec.Zero(),
			ExpiredListedPods:   bigdec.Zero(),
			CancelledListedPods: bigdec.Zero(),
			OrderBeans:          bigdec.Zero(),
			AvailableOrderBeans: bigdec.Zero(),
			FilledOrderedPods:   bigdec.Zero(),
			FilledOrderBeans:    bigdec.Zero(),
			CancelledOrderBeans: bigdec.Zero(),
			PodVolume:           bigdec.Zero(),
			BeanVolume:          bigdec.Zero(),
		}
		s.Marketplaces.SaveID(marketplaceID, m)
	}
	return m
}

// SavePodMarketplace persists the mutated singleton.
func (s *Store) SavePodMarketplace(m *PodMarketplace) {
	s.Marketplaces.SaveID(m.ID, m)
}

// LoadPodListing returns the canonical listing row for (account, index),
// creating a zeroed ACTIVE row on first touch.
func (s *Store) LoadPodListing(account common.Address, index *big.Int) *PodListing {
	key := ListingKey{Account: account, Index: index}
	l := s.PodListings.Load(key)
	if l == nil {
		l = &PodListing{
			ID:                  key.String(),
			Plot:                index.String(),
			Farmer:              account,
			Index:               bigdec.Copy(index),
			Start:               bigdec.Zero(),
			MaxHarvestableIndex: bigdec.Zero(),
			MinFillAmount:       bigdec.Zero(),
			OriginalIndex:       bigdec.Copy(index),
			OriginalAmount:      bigdec.Zero(),
			Amount:              bigdec.Zero(),
			Filled:              bigdec.Zero(),
			RemainingAmount:     bigdec.Zero(),
			FilledAmount:        bigdec.Zero(),
			Status:              StatusActive,
		}
		s.PodListings.Save(key, l)
	}
	return l
}

// SavePodListing persists a mutated listing.
func (s *Store) SavePodListing(l *PodListing) {
	s.PodListings.SaveID(l.ID, l)
}

// ArchivePodListing copies a superseded listing row under the first free
// "<id>-N" id so re-listing a plot does not erase history.
func (s *Store) ArchivePodListing(l *PodListing) {
	for i := 0; ; i++ {
		id := l.ID + "-" + strconv.Itoa(i)
		if s.PodListings.LoadID(id) != nil {
			continue
		}
		archived := *l
		archived.ID = id
		s.PodListings.SaveID(id, &archived)
		return
	}
}

// LoadPodOrder returns the canonical order row, creating a zeroed row with
// an empty status on first touch. An empty status marks a row that has never
// seen its creation event.
func (s *Store) LoadPodOrder(id common.Hash) *PodOrder {
	key := OrderKey{ID: id}
	o := s.PodOrders.Load(key)
	if o == nil {
		o = &PodOrder{
			ID:               key.String(),
			BeanAmount:       bigdec.Zero(),
			BeanAmountFilled: bigdec.Zero(),
			PodAmountFilled:  bigdec.Zero(),
			MinFillAmount:    bigdec.Zero(),
			MaxPlaceInLine:   bigdec.Zero(),
			Fills:            []string{},
		}
		s.PodOrders.Save(key, o)
	}
	return o
}

// SavePodOrder persists a mutated order.
func (s *Store) SavePodOrder(o *PodOrder) {
	s.PodOrders.SaveID(o.ID, o)
}

// ArchivePodOrder copies a superseded order row under the first free
// "<id>-N" id.
func (s *Store) ArchivePodOrder(o *PodOrder) {
	for i := 0; ; i++ {
		id := o.ID + "-" + strconv.Itoa(i)
		if s.PodOrders.LoadID(id) != nil {
			continue
		}
		archived := *o
		archived.ID = id
		s.PodOrders.SaveID(id, &archived)
		return
	}
}

// LoadPodFill returns the fill row for (protocol, index, tx), creating a
// zeroed row on first touch. Listing and order fill handlers for the same
// trade share one row.
func (s *Store) LoadPodFill(protocol common.Address, index *big.Int, txHash common.Hash) *PodFill {
	key := FillKey{Protocol: protocol, Index: index, TxHash: txHash}
	f := s.PodFills.Load(key)
	if f == nil {
		f = &PodFill{
			ID:          key.String(),
			Amount:      bigdec.Zero(),
			PlaceInLine: bigdec.Zero(),
			Index:       bigdec.Zero(),
			Start:       bigdec.Zero(),
			CostInBeans: bigdec.Zero(),
		}
		s.PodFills.Save(key, f)
	}
	return f
}

// SavePodFill persists a mutated fill.
func (s *Store) SavePodFill(f *PodFill) {
	s.PodFills.SaveID(f.ID, f)
}
