package handlers

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/events"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/yield"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	farmerA = common.HexToAddress("0x00000000000000000000000000000000000000Aa")
	farmerB = common.HexToAddress("0x00000000000000000000000000000000000000Bb")
)

// newTestHandler builds a handler over a fresh mainnet-shaped store and an
// empty stub caller (every view call reverts until a fixture is set).
func newTestHandler() (*Handler, *entities.Store, *chain.StubCaller) {
	proto := config.EthMainnet()
	s := entities.NewStore(&proto)
	caller := chain.NewStubCaller()
	engine := yield.NewEngine(s, caller, zap.NewNop())
	return New(s, caller, engine, zap.NewNop()), s, caller
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
