package entities

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
)

// Germinating is one two-season maturation bucket. The address is a farmer,
// a whitelisted token, or the protocol address depending on the ledger.
type Germinating struct {
	ID      string
	Address common.Address
	Parity  GerminationParity
	Season  uint32

	Stalk       *big.Int
	TokenAmount *big.Int
	Bdv         *big.Int
}

// PrevFarmerGerminatingEvent remembers the previous germinating-stalk
// removal processed for an account. Used to compensate the upstream
// double-emission when odd and even buckets complete in the same block at
// adjacent log indices.
type PrevFarmerGerminatingEvent struct {
	ID          string
	Account     common.Address
	BlockNumber uint64
	LogIndex    uint32
	Delta       *big.Int
}

// LoadOrCreateGerminating returns the bucket for (address, parity-of-season),
// stamping the season on creation.
func (s *Store) LoadOrCreateGerminating(address common.Address, season uint32) *Germinating {
	key := GerminatingKey{Address: address, Parity: SeasonParity(season)}
	g := s.Germinating.Load(key)
	if g == nil {
		g = &Germinating{
			ID:          key.String(),
			Address:     address,
			Parity:      SeasonParity(season),
			Season:      season,
			Stalk:       bigdec.Zero(),
			TokenAmount: bigdec.Zero(),
			Bdv:         bigdec.Zero(),
		}
		s.Germinating.Save(key, g)
	}
	return g
}

// LoadGerminating returns the bucket for (address, parity) and panics when
// absent: removal events can only follow an addition.
func (s *Store) LoadGerminating(address common.Address, parity GerminationParity) *Germinating {
	return s.Germinating.MustLoad(GerminatingKey{Address: address, Parity: parity})
}

// GetGerminating returns the bucket for (address, parity), or nil.
func (s *Store) GetGerminating(address common.Address, parity GerminationParity) *Germinating {
	return s.Germinating.Load(GerminatingKey{Address: address, Parity: parity})
}

// SaveGerminating persists a mutated bucket.
func (s *Store) SaveGerminating(g *Germinating) {
	s.Germinating.SaveID(g.ID, g)
}

// DeleteGerminating removes an emptied bucket.
func (s *Store) DeleteGerminating(g *Germinating) {
	s.Germinating.DeleteID(g.ID)
}

// GerminatingBdvs returns the [even, odd] germinating BDV for a token,
// zeroes for absent buckets. Consumed by the yield engine.
func (s *Store) GerminatingBdvs(token common.Address) [2]*big.Int {
	out := [2]*big.Int{bigdec.Zero(), bigdec.Zero()}
	if g := s.GetGerminating(token, ParityEven); g != nil {
		out[0] = bigdec.Copy(g.Bdv)
	}
	if g := s.GetGerminating(token, ParityOdd); g != nil {
		out[1] = bigdec.Copy(g.Bdv)
	}
	return out
}

// LoadPrevFarmerGerminatingEvent returns the compensation-tracking record
// for an account, or nil when no removal has been processed yet.
func (s *Store) LoadPrevFarmerGerminatingEvent(account common.Address) *PrevFarmerGerminatingEvent {
	return s.PrevGerminating.LoadID(hexAddr(account))
}

// SavePrevFarmerGerminatingEvent rewrites the compensation-tracking record.
// This happens unconditionally after every removal, including the one that
// consumed the previous record.
func (s *Store) SavePrevFarmerGerminatingEvent(account common.Address, blockNumber uint64, logIndex uint32, delta *big.Int) {
	id := hexAddr(account)
	s.PrevGerminating.SaveID(id, &PrevFarmerGerminatingEvent{
		ID:          id,
		Account:     account,
		BlockNumber: blockNumber,
		LogIndex:    logIndex,
		Delta:       bigdec.Copy(delta),
	})
}
