// Package rpc implements chain.ViewCaller over Ethereum JSON-RPC. Calls are
// packed by hand from the view signatures; a node-side revert is surfaced as
// the reverted flag, never as an error, so handlers can take their documented
// fallbacks.
package rpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/retry"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const callTimeout = 15 * time.Second

// View signatures on the Beanstalk diamond and on ERC-20 tokens.
var (
	selCurrentHumidity   = selector("getCurrentHumidity()")
	selBdv               = selector("bdv(address,uint256)")
	selEvenGerminating   = selector("getEvenGerminating(address)")
	selOddGerminating    = selector("getOddGerminating(address)")
	selHarvestableIndex  = selector("harvestableIndex()")
	selTotalSupply       = selector("totalSupply()")
)

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

// Caller resolves view calls against a live node.
type Caller struct {
	client *rpc.Client
	proto  *config.Protocol
	logger *zap.Logger
}

// New dials the node at ETH_RPC_URL and verifies it answers eth_chainId.
func New(ctx context.Context, logger *zap.Logger, proto *config.Protocol) (*Caller, error) {
	url := utils.Env("ETH_RPC_URL", "http://localhost:8545")

	var client *rpc.Client
	err := retry.WithBackoff(ctx, retry.DefaultConfig(), logger, "rpc_connection", func() error {
		c, err := rpc.DialContext(ctx, url)
		if err != nil {
			return fmt.Errorf("dial %s: %w", url, err)
		}
		var chainID hexutil.Big
		if err := c.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
			c.Close()
			return fmt.Errorf("eth_chainId: %w", err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("connected to ethereum node", zap.String("url", url))
	return &Caller{client: client, proto: proto, logger: logger.Named("rpc")}, nil
}

// Close releases the underlying connection.
func (c *Caller) Close() {
	c.client.Close()
}

// call issues eth_call against the latest block and decodes the result into
// 32-byte words. The boolean reports a revert.
func (c *Caller) call(to common.Address, data []byte, words int) ([]*big.Int, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	args := map[string]interface{}{
		"to":   to.Hex(),
		"data": hexutil.Encode(data),
	}

	var raw hexutil.Bytes
	if err := c.client.CallContext(ctx, &raw, "eth_call", args, "latest"); err != nil {
		if isRevert(err) {
			return nil, true
		}
		c.logger.Warn("eth_call failed",
			zap.String("to", to.Hex()),
			zap.Error(err),
		)
		return nil, true
	}
	if len(raw) < words*32 {
		return nil, true
	}

	out := make([]*big.Int, words)
	for i := 0; i < words; i++ {
		out[i] = new(big.Int).SetBytes(raw[i*32 : (i+1)*32])
	}
	return out, false
}

func isRevert(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "revert") || strings.Contains(msg, "invalid opcode")
}

func packAddress(sel []byte, addr common.Address) []byte {
	data := make([]byte, 0, 36)
	data = append(data, sel...)
	return append(data, common.LeftPadBytes(addr.Bytes(), 32)...)
}

func (c *Caller) CurrentHumidity() (*big.Int, bool) {
	out, reverted := c.call(c.proto.Beanstalk, selCurrentHumidity, 1)
	if reverted {
		return nil, true
	}
	return out[0], false
}

func (c *Caller) BdvOf(token common.Address, amount *big.Int) (*big.Int, bool) {
	data := packAddress(selBdv, token)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	out, reverted := c.call(c.proto.Beanstalk, data, 1)
	if reverted {
		return nil, true
	}
	return out[0], false
}

func (c *Caller) GerminatingForToken(token common.Address, parity entities.GerminationParity) (*big.Int, *big.Int, bool) {
	sel := selOddGerminating
	if parity == entities.ParityEven {
		sel = selEvenGerminating
	}
	out, reverted := c.call(c.proto.Beanstalk, packAddress(sel, token), 2)
	if reverted {
		return nil, nil, true
	}
	return out[0], out[1], false
}

func (c *Caller) Erc20TotalSupply(token common.Address) (*big.Int, bool) {
	out, reverted := c.call(token, selTotalSupply, 1)
	if reverted {
		return nil, true
	}
	return out[0], false
}

func (c *Caller) HarvestableIndex() (*big.Int, bool) {
	out, reverted := c.call(c.proto.Beanstalk, selHarvestableIndex, 1)
	if reverted {
		return nil, true
	}
	return out[0], false
}

var _ chain.ViewCaller = (*Caller)(nil)
