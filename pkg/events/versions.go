package events

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
)

// The earliest marketplace shapes price everything through a fixed
// six-decimal pricePerPod and never carry a minimum fill, a pricing
// function, or a bean cost. The adapters below compute or default those
// fields so downstream handlers only ever see the canonical shapes.

// beansForPods converts a pod amount to beans at a fixed six-decimal
// pricePerPod.
func beansForPods(pods *big.Int, pricePerPod int32) *big.Int {
	cost := bigdec.Mul(pods, big.NewInt(int64(pricePerPod)))
	return bigdec.Div(cost, bigdec.Pow10(6))
}

// PodListingCreatedV1 adapts the original listing shape, which used a
// toWallet boolean instead of a destination mode.
func PodListingCreatedV1(
	block BlockContext,
	account common.Address,
	index, start, amount *big.Int,
	pricePerPod int32,
	maxHarvestableIndex *big.Int,
	toWallet bool,
) *PodListingCreated {
	mode := int32(1)
	if toWallet {
		mode = 0
	}
	return &PodListingCreated{
		Block:               block,
		Account:             account,
		Index:               index,
		Start:               start,
		Amount:              amount,
		PricePerPod:         pricePerPod,
		MaxHarvestableIndex: maxHarvestableIndex,
		Mode:                mode,
		MinFillAmount:       bigdec.Zero(),
	}
}

// PodListingCreatedV1_1 adapts the intermediate shape that introduced the
// destination mode but not yet dynamic pricing.
func PodListingCreatedV1_1(
	block BlockContext,
	account common.Address,
	index, start, amount *big.Int,
	pricePerPod int32,
	maxHarvestableIndex *big.Int,
	mode int32,
) *PodListingCreated {
	return &PodListingCreated{
		Block:               block,
		Account:             account,
		Index:               index,
		Start:               start,
		Amount:              amount,
		PricePerPod:         pricePerPod,
		MaxHarvestableIndex: maxHarvestableIndex,
		Mode:                mode,
		MinFillAmount:       bigdec.Zero(),
	}
}

// PodListingFilledV1 adapts a fill without an emitted bean cost; the cost is
// recomputed from the listing's fixed pricePerPod.
func PodListingFilledV1(
	block BlockContext,
	from, to common.Address,
	index, start, amount *big.Int,
	pricePerPod int32,
) *MarketFill {
	return &MarketFill{
		Block:       block,
		From:        from,
		To:          to,
		Index:       index,
		Start:       start,
		Amount:      amount,
		CostInBeans: beansForPods(amount, pricePerPod),
	}
}

// PodListingFilledV2 adapts the shape that emits the bean cost directly.
func PodListingFilledV2(
	block BlockContext,
	from, to common.Address,
	index, start, amount, costInBeans *big.Int,
) *MarketFill {
	return &MarketFill{
		Block:       block,
		From:        from,
		To:          to,
		Index:       index,
		Start:       start,
		Amount:      amount,
		CostInBeans: costInBeans,
	}
}

// PodOrderCreatedV1 adapts the original order shape, which committed a pod
// amount rather than beans.
func PodOrderCreatedV1(
	block BlockContext,
	account common.Address,
	orderID common.Hash,
	podAmount *big.Int,
	pricePerPod int32,
	maxPlaceInLine *big.Int,
) *PodOrderCreated {
	return &PodOrderCreated{
		Block:          block,
		Account:        account,
		OrderID:        orderID,
		BeanAmount:     beansForPods(podAmount, pricePerPod),
		PricePerPod:    pricePerPod,
		MaxPlaceInLine: maxPlaceInLine,
		MinFillAmount:  bigdec.Zero(),
	}
}

// PodOrderFilledV1 adapts an order fill without an emitted bean cost.
func PodOrderFilledV1(
	block BlockContext,
	from, to common.Address,
	orderID common.Hash,
	index, start, amount *big.Int,
	pricePerPod int32,
) *MarketFill {
	id := orderID
	return &MarketFill{
		Block:       block,
		From:        from,
		To:          to,
		OrderID:     &id,
		Index:       index,
		Start:       start,
		Amount:      amount,
		CostInBeans: beansForPods(amount, pricePerPod),
	}
}

// PodOrderFilledV2 adapts the shape that emits the bean cost directly.
func PodOrderFilledV2(
	block BlockContext,
	from, to common.Address,
	orderID common.Hash,
	index, start, amount, costInBeans *big.Int,
) *MarketFill {
	id := orderID
	return &MarketFill{
		Block:       block,
		From:        from,
		To:          to,
		OrderID:     &id,
		Index:       index,
		Start:       start,
		Amount:      amount,
		CostInBeans: costInBeans,
	}
}
