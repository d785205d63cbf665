package marketplace

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
)

// ListingCreated opens (or re-opens) a listing over a plot sub-range. Events
// referencing a plot the reduction never saw are dropped: the upstream
// contract briefly allowed listing during migration windows where the plot
// creation event was not emitted.
func ListingCreated(s *entities.Store, ev *events.PodListingCreated) {
	if !s.HasPlot(ev.Index) {
		return
	}
	plot := s.LoadPlot(ev.Index)

	listing := s.LoadPodListing(ev.Account, ev.Index)
	if listing.CreatedAt != 0 {
		// Same plot listed again: the previous incarnation is archived and
		// the canonical row reset before reuse.
		s.ArchivePodListing(listing)
		listing.Fill = ""
		listing.Filled = bigdec.Zero()
		listing.FilledAmount = bigdec.Zero()
	}

	listing.HistoryID = historyID(listing.ID, ev.Block.Timestamp, ev.Block.LogIndex)
	listing.Plot = plot.ID
	listing.Start = bigdec.Copy(ev.Start)
	listing.Mode = ev.Mode
	listing.MinFillAmount = bigdec.Copy(ev.MinFillAmount)
	listing.MaxHarvestableIndex = bigdec.Copy(ev.MaxHarvestableIndex)
	listing.PricingType = ev.PricingType
	listing.PricePerPod = ev.PricePerPod
	listing.PricingFunction = ev.PricingFunction
	listing.OriginalIndex = bigdec.Copy(ev.Index)
	listing.OriginalAmount = bigdec.Copy(ev.Amount)
	listing.Amount = bigdec.Copy(ev.Amount)
	listing.RemainingAmount = bigdec.Copy(ev.Amount)
	listing.Status = entities.StatusActive
	listing.CreationHash = ev.Block.TxHash.Hex()
	listing.CreatedAt = ev.Block.Timestamp
	listing.UpdatedAt = ev.Block.Timestamp
	s.SavePodListing(listing)

	plot.Listing = listing.ID
	s.SavePlot(plot)

	market := s.LoadPodMarketplace()
	addActiveListing(market, ev.Account, ev.Index, ev.MaxHarvestableIndex)
	updateListingBalances(s, market, ev.Amount, bigdec.Zero(), bigdec.Zero(), bigdec.Zero(), ev.Block.Timestamp)

	s.SaveMarketEvent(&entities.MarketEvent{
		ID:                  entities.MarketEventID(entities.MarketEventListingCreated, ev.Block.TxHash, ev.Block.LogIndex),
		Type:                entities.MarketEventListingCreated,
		HistoryID:           listing.HistoryID,
		Hash:                ev.Block.TxHash,
		LogIndex:            ev.Block.LogIndex,
		BlockNumber:         ev.Block.Number,
		Protocol:            ev.Block.Address,
		Account:             ev.Account,
		Index:               bigdec.Copy(ev.Index),
		Start:               bigdec.Copy(ev.Start),
		Amount:              bigdec.Copy(ev.Amount),
		PlaceInLine:         placeInLine(s, ev.Index, ev.Start),
		PricePerPod:         ev.PricePerPod,
		PricingType:         ev.PricingType,
		PricingFunction:     ev.PricingFunction,
		MaxHarvestableIndex: bigdec.Copy(ev.MaxHarvestableIndex),
		MinFillAmount:       bigdec.Copy(ev.MinFillAmount),
		Mode:                ev.Mode,
		CreatedAt:           ev.Block.Timestamp,
	})
}

// ListingFilled executes a trade against an active listing. A partial fill
// closes the current row as FILLED_PARTIAL and synthesizes a fresh ACTIVE
// listing for the untouched tail, carried at index + amount + start with a
// zero start offset and inherited pricing and fill history.
func ListingFilled(s *entities.Store, ev *events.MarketFill) {
	listing := mustListing(s, ev.From, ev.Index)

	market := s.LoadPodMarketplace()
	updateListingBalances(s, market, bigdec.Zero(), bigdec.Zero(), ev.Amount, ev.CostInBeans, ev.Block.Timestamp)

	listing.FilledAmount = bigdec.Copy(ev.Amount)
	listing.RemainingAmount = bigdec.Sub(listing.RemainingAmount, ev.Amount)
	listing.Filled = bigdec.Add(listing.Filled, ev.Amount)
	listing.UpdatedAt = ev.Block.Timestamp

	// The raw row must reference the incarnation that was filled, not the
	// remainder listing created below.
	filledHistoryID := listing.HistoryID

	if listing.RemainingAmount.Sign() == 0 {
		listing.Status = entities.StatusFilled
		removeActiveListing(market, ev.From, ev.Index)
	} else {
		listing.Status = entities.StatusFilledPartial

		remainderIndex := bigdec.Add(bigdec.Add(ev.Index, ev.Amount), ev.Start)
		remainder := s.LoadPodListing(ev.From, remainderIndex)
		remainder.HistoryID = historyID(remainder.ID, ev.Block.Timestamp, ev.Block.LogIndex)
		remainder.Plot = remainderIndex.String()
		remainder.Start = bigdec.Zero()
		remainder.Mode = listing.Mode
		remainder.MinFillAmount = bigdec.Copy(listing.MinFillAmount)
		remainder.MaxHarvestableIndex = bigdec.Copy(listing.MaxHarvestableIndex)
		remainder.PricingType = listing.PricingType
		remainder.PricePerPod = listing.PricePerPod
		remainder.PricingFunction = listing.PricingFunction
		remainder.OriginalIndex = bigdec.Copy(listing.OriginalIndex)
		remainder.OriginalAmount = bigdec.Copy(listing.OriginalAmount)
		remainder.Filled = bigdec.Copy(listing.Filled)
		remainder.Amount = bigdec.Copy(listing.RemainingAmount)
		remainder.RemainingAmount = bigdec.Copy(listing.RemainingAmount)
		remainder.Status = entities.StatusActive
		remainder.CreationHash = ev.Block.TxHash.Hex()
		remainder.CreatedAt = listing.CreatedAt
		remainder.UpdatedAt = ev.Block.Timestamp
		s.SavePodListing(remainder)

		removeActiveListing(market, ev.From, ev.Index)
		addActiveListing(market, ev.From, remainderIndex, listing.MaxHarvestableIndex)
	}
	s.SavePodMarketplace(market)

	fill := s.LoadPodFill(ev.Block.Address, ev.Index, ev.Block.TxHash)
	fill.Listing = filledHistoryID
	fill.FromFarmer = ev.From.Hex()
	fill.ToFarmer = ev.To.Hex()
	fill.Amount = bigdec.Copy(ev.Amount)
	fill.PlaceInLine = placeInLine(s, ev.Index, ev.Start)
	fill.Index = bigdec.Copy(ev.Index)
	fill.Start = bigdec.Copy(ev.Start)
	fill.CostInBeans = bigdec.Copy(ev.CostInBeans)
	fill.CreatedAt = ev.Block.Timestamp
	s.SavePodFill(fill)

	listing.Fill = fill.ID
	s.SavePodListing(listing)

	setBeansPerPodAfterFill(s, ev.Index, ev.Start, ev.Amount, ev.CostInBeans, ev.Block.TxHash)

	s.SaveMarketEvent(&entities.MarketEvent{
		ID:          entities.MarketEventID(entities.MarketEventListingFilled, ev.Block.TxHash, ev.Block.LogIndex),
		Type:        entities.MarketEventListingFilled,
		HistoryID:   filledHistoryID,
		Hash:        ev.Block.TxHash,
		LogIndex:    ev.Block.LogIndex,
		BlockNumber: ev.Block.Number,
		Protocol:    ev.Block.Address,
		Account:     ev.From,
		ToFarmer:    ev.To,
		Index:       bigdec.Copy(ev.Index),
		Start:       bigdec.Copy(ev.Start),
		Amount:      bigdec.Copy(ev.Amount),
		PlaceInLine: placeInLine(s, ev.Index, ev.Start),
		CostInBeans: bigdec.Copy(ev.CostInBeans),
		CreatedAt:   ev.Block.Timestamp,
	})
}

// ListingCancelled withdraws an active listing. Cancelling a row that is not
// ACTIVE (already filled, expired, or never seen) is a no-op.
func ListingCancelled(s *entities.Store, ev *events.PodListingCancelled) {
	listing := s.PodListings.Load(entities.ListingKey{Account: ev.Account, Index: ev.Index})
	if listing == nil || listing.Status != entities.StatusActive {
		return
	}

	market := s.LoadPodMarketplace()
	updateListingBalances(s, market, bigdec.Zero(), listing.RemainingAmount, bigdec.Zero(), bigdec.Zero(), ev.Block.Timestamp)

	if listing.Filled.Sign() == 0 {
		listing.Status = entities.StatusCancelled
	} else {
		listing.Status = entities.StatusCancelledPartial
	}
	listing.UpdatedAt = ev.Block.Timestamp
	s.SavePodListing(listing)

	removeActiveListing(market, ev.Account, ev.Index)
	s.SavePodMarketplace(market)

	s.SaveMarketEvent(&entities.MarketEvent{
		ID:          entities.MarketEventID(entities.MarketEventListingCancelled, ev.Block.TxHash, ev.Block.LogIndex),
		Type:        entities.MarketEventListingCancelled,
		HistoryID:   listing.HistoryID,
		Hash:        ev.Block.TxHash,
		LogIndex:    ev.Block.LogIndex,
		BlockNumber: ev.Block.Number,
		Protocol:    ev.Block.Address,
		Account:     ev.Account,
		Index:       bigdec.Copy(ev.Index),
		Start:       bigdec.Copy(listing.Start),
		Amount:      bigdec.Copy(listing.RemainingAmount),
		PlaceInLine: placeInLine(s, ev.Index, listing.Start),
		CreatedAt:   ev.Block.Timestamp,
	})
}
