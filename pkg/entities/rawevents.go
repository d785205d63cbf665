package entities

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// MarketEventType names the marketplace mutation a raw row records.
type MarketEventType string

const (
	MarketEventListingCreated   MarketEventType = "podListingCreated"
	MarketEventListingFilled    MarketEventType = "podListingFilled"
	MarketEventListingCancelled MarketEventType = "podListingCancelled"
	MarketEventOrderCreated     MarketEventType = "podOrderCreated"
	MarketEventOrderFilled      MarketEventType = "podOrderFilled"
	MarketEventOrderCancelled   MarketEventType = "podOrderCancelled"
)

// MarketEvent is one append-only raw marketplace row. It is never mutated
// after creation; fields not applicable to the event type stay zero/nil.
// HistoryID pins the row to the exact listing/order incarnation it touched.
type MarketEvent struct {
	ID        string
	Type      MarketEventType
	HistoryID string

	Hash        common.Hash
	LogIndex    uint32
	BlockNumber uint64
	Protocol    common.Address
	Account     common.Address

	Index       *big.Int
	Start       *big.Int
	Amount      *big.Int
	PlaceInLine *big.Int

	PricePerPod         int32
	PricingType         int32
	PricingFunction     []byte
	MaxHarvestableIndex *big.Int
	MaxPlaceInLine      *big.Int
	MinFillAmount       *big.Int
	Mode                int32

	OrderID     string
	ToFarmer    common.Address
	CostInBeans *big.Int

	CreatedAt uint64
}

// MarketEventID builds the canonical raw-row id for (type, tx, log index).
func MarketEventID(typ MarketEventType, txHash common.Hash, logIndex uint32) string {
	return string(typ) + "-" + txHash.Hex() + "-" + strconv.FormatUint(uint64(logIndex), 10)
}

// SaveMarketEvent appends a raw row.
func (s *Store) SaveMarketEvent(e *MarketEvent) {
	s.MarketEvents.SaveID(e.ID, e)
}
