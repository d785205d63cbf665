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

func TestAddDepositGrowsRowAndAggregates(t *testing.T) {
	h, s, _ := newTestHandler()
	key := entities.DepositKey{Account: farmerA, Token: s.Proto.Bean, Version: entities.DepositSeason, Index: bigdec.BI(100)}

	h.AddDeposit(&events.AddDeposit{
		Block: blk(10, 1000, 0), Account: farmerA, Token: s.Proto.Bean,
		Version: entities.DepositSeason, Index: bigdec.BI(100),
		Amount: bigdec.BI(1000), Bdv: bigdec.BI(500),
	})

	dep := s.SiloDeposits.Load(key)
	require.NotNil(t, dep)
	eqBig(t, 1000, dep.DepositedAmount)
	eqBig(t, 500, dep.DepositedBDV)
	assert.Equal(t, uint32(100), dep.Season)
	assert.Len(t, dep.Hashes, 1)
	assert.Equal(t, uint64(1000), dep.CreatedAt)

	eqBig(t, 500, s.LoadSilo(s.Proto.Beanstalk).DepositedBDV)
	eqBig(t, 500, s.LoadSilo(farmerA).DepositedBDV)
	eqBig(t, 1000, s.LoadSiloAsset(s.Proto.Beanstalk, s.Proto.Bean).DepositedAmount)
	eqBig(t, 1000, s.LoadSiloAsset(farmerA, s.Proto.Bean).DepositedAmount)
}

func TestRemoveDepositResolvesBdvProRata(t *testing.T) {
	h, s, _ := newTestHandler()
	key := entities.DepositKey{Account: farmerA, Token: s.Proto.Bean, Version: entities.DepositSeason, Index: bigdec.BI(100)}

	h.AddDeposit(&events.AddDeposit{
		Block: blk(10, 1000, 0), Account: farmerA, Token: s.Proto.Bean,
		Version: entities.DepositSeason, Index: bigdec.BI(100),
		Amount: bigdec.BI(1000), Bdv: bigdec.BI(500),
	})
	// Pre-v3 shape: no bdv on the event.
	h.RemoveDeposit(&events.RemoveDeposit{
		Block: blk(11, 1010, 0), Account: farmerA, Token: s.Proto.Bean,
		Version: entities.DepositSeason, Index: bigdec.BI(100),
		Amount: bigdec.BI(400),
	})

	dep := s.SiloDeposits.Load(key)
	require.NotNil(t, dep)
	eqBig(t, 600, dep.DepositedAmount)
	eqBig(t, 300, dep.DepositedBDV)
	eqBig(t, 300, s.LoadSilo(farmerA).DepositedBDV)
	eqBig(t, 300, s.LoadSilo(s.Proto.Beanstalk).DepositedBDV)
}

func TestRemoveDepositDeletesRowAtZero(t *testing.T) {
	h, s, _ := newTestHandler()
	key := entities.DepositKey{Account: farmerA, Token: s.Proto.Bean, Version: entities.DepositSeason, Index: bigdec.BI(100)}

	h.AddDeposit(&events.AddDeposit{
		Block: blk(10, 1000, 0), Account: farmerA, Token: s.Proto.Bean,
		Version: entities.DepositSeason, Index: bigdec.BI(100),
		Amount: bigdec.BI(1000), Bdv: bigdec.BI(500),
	})
	h.RemoveDeposit(&events.RemoveDeposit{
		Block: blk(11, 1010, 0), Account: farmerA, Token: s.Proto.Bean,
		Version: entities.DepositSeason, Index: bigdec.BI(100),
		Amount: bigdec.BI(1000),
	})

	assert.Nil(t, s.SiloDeposits.Load(key))
	eqBig(t, 0, s.LoadSilo(farmerA).DepositedBDV)
	eqBig(t, 0, s.LoadSiloAsset(farmerA, s.Proto.Bean).DepositedAmount)
}

func TestWithdrawalLifecycle(t *testing.T) {
	h, s, _ := newTestHandler()

	h.AddWithdrawal(&events.AddWithdrawal{
		Block: blk(10, 1000, 0), Account: farmerA, Token: s.Proto.Bean,
		Season: 50, Amount: bigdec.BI(700),
	})

	w := s.SiloWithdraws.Load(entities.WithdrawKey{Account: farmerA, Token: s.Proto.Bean, Season: 50})
	require.NotNil(t, w)
	eqBig(t, 700, w.Amount)
	assert.Equal(t, uint32(51), w.ClaimableSeason)
	assert.False(t, w.Claimed)
	eqBig(t, 700, s.LoadSiloAsset(s.Proto.Beanstalk, s.Proto.Bean).WithdrawnAmount)

	h.RemoveWithdrawal(&events.RemoveWithdrawal{
		Block: blk(12, 1020, 0), Account: farmerA, Token: s.Proto.Bean,
		Season: 50, Amount: bigdec.BI(700),
	})

	w = s.SiloWithdraws.Load(entities.WithdrawKey{Account: farmerA, Token: s.Proto.Bean, Season: 50})
	require.NotNil(t, w)
	assert.True(t, w.Claimed)
	eqBig(t, 0, s.LoadSiloAsset(farmerA, s.Proto.Bean).WithdrawnAmount)
}

func TestStalkBalanceTracksActiveFarmersOnZeroCrossings(t *testing.T) {
	h, s, _ := newTestHandler()

	h.StalkBalanceChanged(&events.StalkBalanceChanged{
		Block: blk(10, 1000, 0), Account: farmerA,
		DeltaStalk: bigdec.BI(100), DeltaRoots: bigdec.BI(1),
	})

	assert.Equal(t, uint32(1), s.LoadBeanstalk().ActiveFarmers)
	eqBig(t, 100, s.LoadSilo(s.Proto.Beanstalk).Stalk)
	eqBig(t, 100, s.LoadSilo(farmerA).Stalk)
	assert.Equal(t, int32(1), s.LoadSilo(s.Proto.Beanstalk).ActiveFarmers)

	// Still positive: no crossing.
	h.StalkBalanceChanged(&events.StalkBalanceChanged{
		Block: blk(11, 1010, 0), Account: farmerA,
		DeltaStalk: bigdec.BI(50), DeltaRoots: bigdec.BI(1),
	})
	assert.Equal(t, uint32(1), s.LoadBeanstalk().ActiveFarmers)

	// Back to zero: crossing down.
	h.StalkBalanceChanged(&events.StalkBalanceChanged{
		Block: blk(12, 1020, 0), Account: farmerA,
		DeltaStalk: bigdec.BI(-150), DeltaRoots: bigdec.BI(-2),
	})
	assert.Equal(t, uint32(0), s.LoadBeanstalk().ActiveFarmers)
	assert.Equal(t, int32(0), s.LoadSilo(s.Proto.Beanstalk).ActiveFarmers)
	eqBig(t, 0, s.LoadSilo(s.Proto.Beanstalk).Stalk)
}

func TestStalkBalanceSkipsDoubleCountedTx(t *testing.T) {
	h, s, _ := newTestHandler()

	ev := &events.StalkBalanceChanged{
		Block: blk(10, 1000, 0), Account: farmerA,
		DeltaStalk: bigdec.BI(100), DeltaRoots: bigdec.BI(1),
	}
	ev.Block.TxHash = bip24Tx
	h.StalkBalanceChanged(ev)

	eqBig(t, 0, s.LoadSilo(s.Proto.Beanstalk).Stalk)
	assert.Equal(t, uint32(0), s.LoadBeanstalk().ActiveFarmers)
}

func TestPlantConsumesRewardedBeans(t *testing.T) {
	h, s, _ := newTestHandler()

	h.Reward(&events.Reward{
		Block: blk(10, 1000, 0), Season: 1,
		ToField: bigdec.BI(0), ToSilo: bigdec.BI(100), ToFert: bigdec.BI(0),
	})
	h.Plant(&events.Plant{Block: blk(11, 1010, 0), Account: farmerA, Beans: bigdec.BI(100)})

	system := s.LoadSilo(s.Proto.Beanstalk)
	eqBig(t, 0, system.Stalk)
	eqBig(t, 0, system.PlantableStalk)
	eqBig(t, 0, system.DepositedBDV)

	asset := s.LoadSiloAsset(s.Proto.Beanstalk, s.Proto.Bean)
	eqBig(t, 0, asset.DepositedAmount)
	eqBig(t, 0, asset.DepositedBDV)
}

func TestWhitelistAndDewhitelistToken(t *testing.T) {
	h, s, _ := newTestHandler()
	token := common.HexToAddress("0x00000000000000000000000000000000000000Cc")

	h.WhitelistToken(&events.WhitelistToken{
		Block: blk(10, 1000, 0), Token: token,
		Selector:             []byte{0xab, 0xcd, 0xef, 0x01},
		StalkEarnedPerSeason: bigdec.BI(3_000_000),
		StalkIssuedPerBdv:    bigdec.FromString("10000000000"),
	})

	silo := s.LoadSilo(s.Proto.Beanstalk)
	require.Len(t, silo.WhitelistedTokens, 1)
	assert.Equal(t, token, silo.WhitelistedTokens[0])

	setting := s.WhitelistSettings.Load(entities.TokenKey{Token: token})
	require.NotNil(t, setting)
	eqBig(t, 3_000_000, setting.StalkEarnedPerSeason)
	assert.False(t, setting.IsGaugeEnabled)

	h.DewhitelistToken(&events.DewhitelistToken{Block: blk(11, 1010, 0), Token: token})

	silo = s.LoadSilo(s.Proto.Beanstalk)
	assert.Empty(t, silo.WhitelistedTokens)
	require.Len(t, silo.DewhitelistedTokens, 1)
	assert.Equal(t, token, silo.DewhitelistedTokens[0])
}
