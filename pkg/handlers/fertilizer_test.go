package handlers

import (
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFertilizerMintBeforeReplantBlock(t *testing.T) {
	h, s, _ := newTestHandler()

	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(14_000_000, 1000, 0),
		From:  common.Address{}, To: farmerA,
		ID: bigdec.BI(6_000_000), Amount: bigdec.BI(1500),
	})

	ft := s.FertilizerTokens.Load(entities.FertilizerTokenKey{ID: bigdec.BI(6_000_000)})
	require.NotNil(t, ft)
	assert.Equal(t, "500", ft.Humidity.String())
	assert.Equal(t, s.Proto.ReplantSeason, ft.Season)
	eqBig(t, 0, ft.StartBpf)
	eqBig(t, 6_000_000, ft.EndBpf)
	eqBig(t, 1500, ft.Supply)

	eqBig(t, 1500, s.LoadFertilizer(s.Proto.Fertilizer).Supply)
	bal := s.FertilizerBalances.Load(entities.FertilizerBalanceKey{ID: bigdec.BI(6_000_000), Account: farmerA})
	require.NotNil(t, bal)
	eqBig(t, 1500, bal.Amount)
}

func TestFertilizerMintAfterReplantUsesHumidityView(t *testing.T) {
	h, s, caller := newTestHandler()
	caller.Humidity = bigdec.BI(2500) // per-mille

	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(15_000_000, 1000, 0),
		From:  common.Address{}, To: farmerA,
		ID: bigdec.BI(10_000_000), Amount: bigdec.BI(200),
	})

	ft := s.FertilizerTokens.Load(entities.FertilizerTokenKey{ID: bigdec.BI(10_000_000)})
	require.NotNil(t, ft)
	assert.Equal(t, "250", ft.Humidity.String())
	assert.Equal(t, uint32(1), ft.Season)
	// 10e6 less the (100 + 250)% payout of 3.5e6.
	eqBig(t, 6_500_000, ft.StartBpf)
}

func TestFertilizerMintHumidityRevertFallsBack(t *testing.T) {
	h, s, _ := newTestHandler()

	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(15_000_000, 1000, 0),
		From:  common.Address{}, To: farmerA,
		ID: bigdec.BI(10_000_000), Amount: bigdec.BI(200),
	})

	ft := s.FertilizerTokens.Load(entities.FertilizerTokenKey{ID: bigdec.BI(10_000_000)})
	require.NotNil(t, ft)
	assert.Equal(t, "500", ft.Humidity.String())
	eqBig(t, 4_000_000, ft.StartBpf)
}

func TestFertilizerTransferMovesBalance(t *testing.T) {
	h, s, _ := newTestHandler()
	id := bigdec.BI(6_000_000)

	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(14_000_000, 1000, 0),
		From:  common.Address{}, To: farmerA,
		ID: id, Amount: bigdec.BI(1500),
	})
	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(14_000_010, 1010, 0),
		From:  farmerA, To: farmerB,
		ID: id, Amount: bigdec.BI(1500),
	})

	assert.Nil(t, s.FertilizerBalances.Load(entities.FertilizerBalanceKey{ID: id, Account: farmerA}))
	to := s.FertilizerBalances.Load(entities.FertilizerBalanceKey{ID: id, Account: farmerB})
	require.NotNil(t, to)
	eqBig(t, 1500, to.Amount)
	// Supply is untouched by holder-to-holder transfers.
	eqBig(t, 1500, s.LoadFertilizer(s.Proto.Fertilizer).Supply)
}

func TestFertilizerBurnShrinksSupply(t *testing.T) {
	h, s, _ := newTestHandler()
	id := bigdec.BI(6_000_000)

	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(14_000_000, 1000, 0),
		From:  common.Address{}, To: farmerA,
		ID: id, Amount: bigdec.BI(1500),
	})
	h.FertilizerTransfer(&events.FertilizerTransfer{
		Block: blk(14_000_010, 1010, 0),
		From:  farmerA, To: common.Address{},
		ID: id, Amount: bigdec.BI(500),
	})

	eqBig(t, 1000, s.LoadFertilizer(s.Proto.Fertilizer).Supply)
	ft := s.FertilizerTokens.Load(entities.FertilizerTokenKey{ID: id})
	require.NotNil(t, ft)
	eqBig(t, 1000, ft.Supply)
	bal := s.FertilizerBalances.Load(entities.FertilizerBalanceKey{ID: id, Account: farmerA})
	require.NotNil(t, bal)
	eqBig(t, 1000, bal.Amount)
}

func TestChopUpdatesUnripeStats(t *testing.T) {
	h, s, _ := newTestHandler()

	h.Chop(&events.Chop{
		Block: blk(10, 1000, 0), Account: farmerA,
		Token: s.Proto.UnripeBean, Amount: bigdec.BI(1000), Underlying: bigdec.BI(200),
	})

	ut := s.UnripeTokens.Load(entities.TokenKey{Token: s.Proto.UnripeBean})
	require.NotNil(t, ut)
	assert.Equal(t, s.Proto.Bean, ut.UnderlyingToken)
	eqBig(t, 1000, ut.TotalChoppedAmount)
	// No bdv view fixtures: the event amounts stand in for bdv.
	eqBig(t, 1000, ut.TotalChoppedBdv)
	eqBig(t, 200, ut.TotalChoppedBdvReceived)
	eqBig(t, 200_000, ut.ChoppableAmountOne)
	eqBig(t, 200_000, ut.ChoppableBdvOne)
	assert.Equal(t, "0.2", ut.ChopRate.String())
}
