package marketplace

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
)

// OrderCreated opens (or re-opens) a bean-denominated order. An order id can
// be reused after cancellation; the previous incarnation is archived and the
// canonical row reset.
func OrderCreated(s *entities.Store, ev *events.PodOrderCreated) {
	order := s.LoadPodOrder(ev.OrderID)
	if order.Status != "" {
		s.ArchivePodOrder(order)
		order.Fills = []string{}
		order.PodAmountFilled = bigdec.Zero()
		order.BeanAmountFilled = bigdec.Zero()
	}

	order.HistoryID = historyID(order.ID, ev.Block.Timestamp, ev.Block.LogIndex)
	order.Farmer = ev.Account
	order.BeanAmount = bigdec.Copy(ev.BeanAmount)
	order.MinFillAmount = bigdec.Copy(ev.MinFillAmount)
	order.MaxPlaceInLine = bigdec.Copy(ev.MaxPlaceInLine)
	order.PricingType = ev.PricingType
	order.PricePerPod = ev.PricePerPod
	order.PricingFunction = ev.PricingFunction
	order.Status = entities.StatusActive
	order.CreationHash = ev.Block.TxHash.Hex()
	order.CreatedAt = ev.Block.Timestamp
	order.UpdatedAt = ev.Block.Timestamp
	s.SavePodOrder(order)

	market := s.LoadPodMarketplace()
	addActiveOrder(market, order.ID, ev.MaxPlaceInLine)
	updateOrderBalances(s, market, ev.BeanAmount, bigdec.Zero(), bigdec.Zero(), bigdec.Zero(), ev.Block.Timestamp)

	s.SaveMarketEvent(&entities.MarketEvent{
		ID:              entities.MarketEventID(entities.MarketEventOrderCreated, ev.Block.TxHash, ev.Block.LogIndex),
		Type:            entities.MarketEventOrderCreated,
		HistoryID:       order.HistoryID,
		Hash:            ev.Block.TxHash,
		LogIndex:        ev.Block.LogIndex,
		BlockNumber:     ev.Block.Number,
		Protocol:        ev.Block.Address,
		Account:         ev.Account,
		OrderID:         order.ID,
		Amount:          bigdec.Copy(ev.BeanAmount),
		PricePerPod:     ev.PricePerPod,
		PricingType:     ev.PricingType,
		PricingFunction: ev.PricingFunction,
		MaxPlaceInLine:  bigdec.Copy(ev.MaxPlaceInLine),
		MinFillAmount:   bigdec.Copy(ev.MinFillAmount),
		CreatedAt:       ev.Block.Timestamp,
	})
}

// OrderFilled executes a trade against an order: the seller (From) delivers
// pods to the orderer (To). The order completes exactly when its committed
// beans are fully spent.
func OrderFilled(s *entities.Store, ev *events.MarketFill) {
	order := mustOrder(s, *ev.OrderID)

	order.UpdatedAt = ev.Block.Timestamp
	order.BeanAmountFilled = bigdec.Add(order.BeanAmountFilled, ev.CostInBeans)
	order.PodAmountFilled = bigdec.Add(order.PodAmountFilled, ev.Amount)
	if order.BeanAmount.Cmp(order.BeanAmountFilled) == 0 {
		order.Status = entities.StatusFilled
	} else {
		order.Status = entities.StatusActive
	}

	fill := s.LoadPodFill(ev.Block.Address, ev.Index, ev.Block.TxHash)
	fill.Order = order.HistoryID
	fill.FromFarmer = ev.From.Hex()
	fill.ToFarmer = ev.To.Hex()
	fill.Amount = bigdec.Copy(ev.Amount)
	fill.PlaceInLine = placeInLine(s, ev.Index, ev.Start)
	fill.Index = bigdec.Copy(ev.Index)
	fill.Start = bigdec.Copy(ev.Start)
	fill.CostInBeans = bigdec.Copy(ev.CostInBeans)
	fill.CreatedAt = ev.Block.Timestamp
	s.SavePodFill(fill)

	order.Fills = append(order.Fills, fill.ID)
	s.SavePodOrder(order)

	setBeansPerPodAfterFill(s, ev.Index, ev.Start, ev.Amount, ev.CostInBeans, ev.Block.TxHash)

	market := s.LoadPodMarketplace()
	if order.Status == entities.StatusFilled {
		removeActiveOrder(market, order.ID)
	}
	updateOrderBalances(s, market, bigdec.Zero(), bigdec.Zero(), ev.Amount, ev.CostInBeans, ev.Block.Timestamp)

	s.SaveMarketEvent(&entities.MarketEvent{
		ID:          entities.MarketEventID(entities.MarketEventOrderFilled, ev.Block.TxHash, ev.Block.LogIndex),
		Type:        entities.MarketEventOrderFilled,
		HistoryID:   order.HistoryID,
		Hash:        ev.Block.TxHash,
		LogIndex:    ev.Block.LogIndex,
		BlockNumber: ev.Block.Number,
		Protocol:    ev.Block.Address,
		Account:     ev.From,
		ToFarmer:    ev.To,
		OrderID:     order.ID,
		Index:       bigdec.Copy(ev.Index),
		Start:       bigdec.Copy(ev.Start),
		Amount:      bigdec.Copy(ev.Amount),
		PlaceInLine: placeInLine(s, ev.Index, ev.Start),
		CostInBeans: bigdec.Copy(ev.CostInBeans),
		CreatedAt:   ev.Block.Timestamp,
	})
}

// OrderCancelled withdraws an active order, refunding its unspent beans from
// the available pool. Cancelling a non-ACTIVE order is a no-op.
func OrderCancelled(s *entities.Store, ev *events.PodOrderCancelled) {
	order := s.PodOrders.Load(entities.OrderKey{ID: ev.OrderID})
	if order == nil || order.Status != entities.StatusActive {
		return
	}

	if order.PodAmountFilled.Sign() == 0 {
		order.Status = entities.StatusCancelled
	} else {
		order.Status = entities.StatusCancelledPartial
	}
	order.UpdatedAt = ev.Block.Timestamp
	s.SavePodOrder(order)

	market := s.LoadPodMarketplace()
	removeActiveOrder(market, order.ID)
	unspent := bigdec.Sub(order.BeanAmount, order.BeanAmountFilled)
	updateOrderBalances(s, market, bigdec.Zero(), unspent, bigdec.Zero(), bigdec.Zero(), ev.Block.Timestamp)

	s.SaveMarketEvent(&entities.MarketEvent{
		ID:          entities.MarketEventID(entities.MarketEventOrderCancelled, ev.Block.TxHash, ev.Block.LogIndex),
		Type:        entities.MarketEventOrderCancelled,
		HistoryID:   order.HistoryID,
		Hash:        ev.Block.TxHash,
		LogIndex:    ev.Block.LogIndex,
		BlockNumber: ev.Block.Number,
		Protocol:    ev.Block.Address,
		Account:     ev.Account,
		OrderID:     order.ID,
		CreatedAt:   ev.Block.Timestamp,
	})
}
