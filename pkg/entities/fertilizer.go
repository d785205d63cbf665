package entities

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Fertilizer is the ERC-1155 contract aggregate: total outstanding supply.
type Fertilizer struct {
	ID     string
	Supply *big.Int
}

// FertilizerToken is one fertilizer id. The id encodes the BPF (beans per
// fertilizer) at which the token finishes paying out.
type FertilizerToken struct {
	ID       string
	TokenID  *big.Int
	Supply   *big.Int
	Humidity decimal.Decimal
	Season   uint32
	StartBpf *big.Int
	EndBpf   *big.Int
}

// FertilizerBalance is one account's holding of one fertilizer id.
type FertilizerBalance struct {
	ID      string
	TokenID *big.Int
	Farmer  string
	Amount  *big.Int
}

// LoadFertilizer returns the contract aggregate, creating it on first touch.
func (s *Store) LoadFertilizer(contract common.Address) *Fertilizer {
	id := hexAddr(contract)
	f := s.Fertilizers.LoadID(id)
	if f == nil {
		f = &Fertilizer{ID: id, Supply: bigdec.Zero()}
		s.Fertilizers.SaveID(id, f)
	}
	return f
}

// SaveFertilizer persists the mutated aggregate.
func (s *Store) SaveFertilizer(f *Fertilizer) {
	s.Fertilizers.SaveID(f.ID, f)
}

// LoadFertilizerToken returns the row for one fertilizer id, stamping
// humidity, season, and start BPF at creation. These are immutable per id.
func (s *Store) LoadFertilizerToken(id *big.Int, humidity decimal.Decimal, season uint32, startBpf *big.Int) *FertilizerToken {
	key := FertilizerTokenKey{ID: id}
	ft := s.FertilizerTokens.Load(key)
	if ft == nil {
		ft = &FertilizerToken{
			ID:       key.String(),
			TokenID:  bigdec.Copy(id),
			Supply:   bigdec.Zero(),
			Humidity: humidity,
			Season:   season,
			StartBpf: bigdec.Copy(startBpf),
			EndBpf:   bigdec.Copy(id),
		}
		s.FertilizerTokens.Save(key, ft)
	}
	return ft
}

// SaveFertilizerToken persists a mutated row.
func (s *Store) SaveFertilizerToken(ft *FertilizerToken) {
	s.FertilizerTokens.SaveID(ft.ID, ft)
}

// LoadFertilizerBalance returns one account's balance row for a fertilizer
// id, creating a zeroed row on first touch.
func (s *Store) LoadFertilizerBalance(id *big.Int, account common.Address) *FertilizerBalance {
	key := FertilizerBalanceKey{ID: id, Account: account}
	b := s.FertilizerBalances.Load(key)
	if b == nil {
		b = &FertilizerBalance{
			ID:      key.String(),
			TokenID: bigdec.Copy(id),
			Farmer:  hexAddr(account),
			Amount:  bigdec.Zero(),
		}
		s.FertilizerBalances.Save(key, b)
	}
	return b
}

// SaveFertilizerBalance persists a balance, deleting it when emptied.
func (s *Store) SaveFertilizerBalance(b *FertilizerBalance) {
	if b.Amount.Sign() <= 0 {
		s.FertilizerBalances.DeleteID(b.ID)
		return
	}
	s.FertilizerBalances.SaveID(b.ID, b)
}
