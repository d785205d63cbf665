package germination

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var farmer = common.HexToAddress("0x00000000000000000000000000000000000000Aa")

func newTestStore() *entities.Store {
	proto := config.EthMainnet()
	return entities.NewStore(&proto)
}

// eqBig compares a big integer by value; a computed zero and a literal zero
// are not reflect-equal.
func eqBig(t *testing.T, expected int64, actual *big.Int) {
	t.Helper()
	require.NotNil(t, actual)
	require.Equal(t, strconv.FormatInt(expected, 10), actual.String())
}

func advanceSeason(s *entities.Store, season uint32) {
	b := s.LoadBeanstalk()
	b.LastSeason = season
	s.SaveBeanstalk(b)
}

func TestApplyFarmerDeltaOpensBucket(t *testing.T) {
	s := newTestStore()

	// Season 1 is odd; a matching parity lands in the current season.
	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(200), 10, 5, 1000)

	g := s.GetGerminating(farmer, entities.ParityOdd)
	require.NotNil(t, g)
	assert.Equal(t, uint32(1), g.Season)
	eqBig(t, 200, g.Stalk)
	eqBig(t, 200, s.LoadSilo(farmer).GerminatingStalk)
}

func TestApplyFarmerDeltaParityMismatchUsesPriorSeason(t *testing.T) {
	s := newTestStore()

	// An even-parity addition during odd season 1 began germinating in
	// season 0.
	ApplyFarmerDelta(s, farmer, entities.ParityEven, bigdec.BI(200), 10, 5, 1000)

	g := s.GetGerminating(farmer, entities.ParityEven)
	require.NotNil(t, g)
	assert.Equal(t, uint32(0), g.Season)
	eqBig(t, 200, g.Stalk)
}

func TestDoubleEmittedRemovalCompensated(t *testing.T) {
	s := newTestStore()
	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(200), 9, 0, 900)

	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(-100), 10, 5, 1000)
	// Same block, adjacent log index: the duplicate must apply nothing.
	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(-100), 10, 6, 1000)

	g := s.GetGerminating(farmer, entities.ParityOdd)
	require.NotNil(t, g)
	eqBig(t, 100, g.Stalk)
	eqBig(t, 100, s.LoadSilo(farmer).GerminatingStalk)

	// The record keeps the raw delta so a third adjacent removal would be
	// compensated against -100, not 0.
	prev := s.LoadPrevFarmerGerminatingEvent(farmer)
	require.NotNil(t, prev)
	eqBig(t, -100, prev.Delta)
	assert.Equal(t, uint32(6), prev.LogIndex)
}

func TestNonAdjacentRemovalsBothApply(t *testing.T) {
	s := newTestStore()
	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(200), 9, 0, 900)

	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(-100), 10, 5, 1000)
	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(-100), 10, 8, 1000)

	assert.Nil(t, s.GetGerminating(farmer, entities.ParityOdd))
	eqBig(t, 0, s.LoadSilo(farmer).GerminatingStalk)
}

func TestCompletedGerminationDebitsSystemSilo(t *testing.T) {
	s := newTestStore()
	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(100), 9, 0, 900)
	advanceSeason(s, 3)

	ApplyFarmerDelta(s, farmer, entities.ParityOdd, bigdec.BI(-100), 20, 0, 2000)

	assert.Nil(t, s.GetGerminating(farmer, entities.ParityOdd))
	eqBig(t, -100, s.LoadSilo(s.Proto.Beanstalk).Stalk)
	eqBig(t, 0, s.LoadSilo(farmer).GerminatingStalk)
}

func TestRecomputeTokenLedgerFromViews(t *testing.T) {
	s := newTestStore()
	caller := chain.NewStubCaller()
	token := s.Proto.Bean

	// Odd parity has no fixture and reverts; only the even bucket is
	// rewritten.
	caller.SetGerminating(token, entities.ParityEven, bigdec.BI(5000), bigdec.BI(4000))
	RecomputeTokenLedger(s, caller, token)

	g := s.GetGerminating(token, entities.ParityEven)
	require.NotNil(t, g)
	assert.Equal(t, uint32(0), g.Season)
	eqBig(t, 5000, g.TokenAmount)
	eqBig(t, 4000, g.Bdv)
	assert.Nil(t, s.GetGerminating(token, entities.ParityOdd))

	// A zero amount discards the bucket.
	caller.SetGerminating(token, entities.ParityEven, bigdec.BI(0), bigdec.BI(0))
	RecomputeTokenLedger(s, caller, token)
	assert.Nil(t, s.GetGerminating(token, entities.ParityEven))
}

func TestApplySystemStalkDeltaKeepsZeroBucket(t *testing.T) {
	s := newTestStore()

	ApplySystemStalkDelta(s, 1, bigdec.BI(500), 1000)
	ApplySystemStalkDelta(s, 1, bigdec.BI(-500), 1010)

	g := s.GetGerminating(s.Proto.Beanstalk, entities.SeasonParity(1))
	require.NotNil(t, g)
	eqBig(t, 0, g.Stalk)
	eqBig(t, 0, s.LoadSilo(s.Proto.Beanstalk).GerminatingStalk)
}
