// Package chain models the read-only view calls the reduction makes against
// live contract state. Every call can report a reverted result, which callers
// branch on with a documented fallback; a revert is never an error.
package chain

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/ethereum/go-ethereum/common"
)

// ViewCaller is the boundary to live contract state. The second-to-last
// return carries the value; the boolean reports whether the call reverted
// (true means no value is available).
type ViewCaller interface {
	// CurrentHumidity reads the fertilizer humidity in thousandths.
	CurrentHumidity() (*big.Int, bool)

	// BdvOf values a token amount in bean-denominated value.
	BdvOf(token common.Address, amount *big.Int) (*big.Int, bool)

	// GerminatingForToken reads a token's germinating (amount, bdv) for one
	// parity bucket.
	GerminatingForToken(token common.Address, parity entities.GerminationParity) (amount, bdv *big.Int, reverted bool)

	// Erc20TotalSupply reads a token's total supply.
	Erc20TotalSupply(token common.Address) (*big.Int, bool)

	// HarvestableIndex reads the field's harvestable pod cursor.
	HarvestableIndex() (*big.Int, bool)
}

// StubCaller is a fixture-backed ViewCaller. Calls for unset keys revert,
// matching how a not-yet-deployed view function behaves on chain.
type StubCaller struct {
	Humidity    *big.Int
	Harvestable *big.Int
	Bdvs        map[common.Address]*big.Int // bdv per one whole token amount unit
	Germinating map[string][2]*big.Int      // keyed by GerminatingKey string: [amount, bdv]
	Supplies    map[common.Address]*big.Int
}

// NewStubCaller returns an empty stub; every call reverts until fixtures are
// set.
func NewStubCaller() *StubCaller {
	return &StubCaller{
		Bdvs:        map[common.Address]*big.Int{},
		Germinating: map[string][2]*big.Int{},
		Supplies:    map[common.Address]*big.Int{},
	}
}

func (c *StubCaller) CurrentHumidity() (*big.Int, bool) {
	if c.Humidity == nil {
		return nil, true
	}
	return new(big.Int).Set(c.Humidity), false
}

func (c *StubCaller) BdvOf(token common.Address, amount *big.Int) (*big.Int, bool) {
	per, ok := c.Bdvs[token]
	if !ok {
		return nil, true
	}
	return new(big.Int).Mul(per, amount), false
}

func (c *StubCaller) GerminatingForToken(token common.Address, parity entities.GerminationParity) (*big.Int, *big.Int, bool) {
	key := entities.GerminatingKey{Address: token, Parity: parity}.String()
	v, ok := c.Germinating[key]
	if !ok {
		return nil, nil, true
	}
	return new(big.Int).Set(v[0]), new(big.Int).Set(v[1]), false
}

func (c *StubCaller) SetGerminating(token common.Address, parity entities.GerminationParity, amount, bdv *big.Int) {
	key := entities.GerminatingKey{Address: token, Parity: parity}.String()
	c.Germinating[key] = [2]*big.Int{new(big.Int).Set(amount), new(big.Int).Set(bdv)}
}

func (c *StubCaller) Erc20TotalSupply(token common.Address) (*big.Int, bool) {
	v, ok := c.Supplies[token]
	if !ok {
		return nil, true
	}
	return new(big.Int).Set(v), false
}

func (c *StubCaller) HarvestableIndex() (*big.Int, bool) {
	if c.Harvestable == nil {
		return nil, true
	}
	return new(big.Int).Set(c.Harvestable), false
}

var _ ViewCaller = (*StubCaller)(nil)
