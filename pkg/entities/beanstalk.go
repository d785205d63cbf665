package entities

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const beanstalkID = "beanstalk"

// Beanstalk is the protocol singleton: the externally-advanced season
// counter and the global pod-line cursor.
type Beanstalk struct {
	ID            string
	Token         common.Address
	LastSeason    uint32
	ActiveFarmers uint32
}

// Season is one season record. Reward mints are read back by the EMA windows.
type Season struct {
	Season           uint32
	SunriseBlock     uint64
	CreatedAt        uint64
	Price            decimal.Decimal
	Beans            *big.Int
	MarketCap        decimal.Decimal
	DeltaBeans       *big.Int
	RewardBeans      *big.Int
	IncentiveBeans   *big.Int
	HarvestableIndex *big.Int
}

// Farmer marks an address as having interacted with the protocol.
type Farmer struct {
	ID string
}

// LoadBeanstalk returns the protocol singleton, creating it at season 1 on
// first touch.
func (s *Store) LoadBeanstalk() *Beanstalk {
	b := s.Beanstalks.LoadID(beanstalkID)
	if b == nil {
		b = &Beanstalk{
			ID:         beanstalkID,
			Token:      s.Proto.Bean,
			LastSeason: 1,
		}
		s.Beanstalks.SaveID(beanstalkID, b)
	}
	return b
}

// SaveBeanstalk persists the mutated singleton.
func (s *Store) SaveBeanstalk(b *Beanstalk) {
	s.Beanstalks.SaveID(b.ID, b)
}

// CurrentSeason returns the externally-tracked season counter.
func (s *Store) CurrentSeason() uint32 {
	return s.LoadBeanstalk().LastSeason
}

// LoadSeason returns the record for one season, creating a zeroed record
// carrying forward the prior harvestable index when absent.
func (s *Store) LoadSeason(season uint32) *Season {
	key := SeasonKey{Season: season}
	rec := s.Seasons.Load(key)
	if rec == nil {
		rec = &Season{
			Season:           season,
			Price:            decimal.Zero,
			Beans:            bigdec.Zero(),
			MarketCap:        decimal.Zero,
			DeltaBeans:       bigdec.Zero(),
			RewardBeans:      bigdec.Zero(),
			IncentiveBeans:   bigdec.Zero(),
			HarvestableIndex: bigdec.Zero(),
		}
		if prior := s.Seasons.Load(SeasonKey{Season: season - 1}); prior != nil {
			rec.Beans = bigdec.Copy(prior.Beans)
			rec.HarvestableIndex = bigdec.Copy(prior.HarvestableIndex)
		}
		s.Seasons.Save(key, rec)
	}
	return rec
}

// SaveSeason persists a mutated season record.
func (s *Store) SaveSeason(rec *Season) {
	s.Seasons.Save(SeasonKey{Season: rec.Season}, rec)
}

// RewardMinted returns the reward mint of a season, zero when the season has
// no record.
func (s *Store) RewardMinted(season uint32) *big.Int {
	rec := s.Seasons.Load(SeasonKey{Season: season})
	if rec == nil {
		return bigdec.Zero()
	}
	return rec.RewardBeans
}

// HarvestableIndex returns the current harvestable-index cursor.
func (s *Store) HarvestableIndex() *big.Int {
	return s.LoadSeason(s.CurrentSeason()).HarvestableIndex
}

// LoadFarmer registers an account as a farmer.
func (s *Store) LoadFarmer(account common.Address) *Farmer {
	id := hexAddr(account)
	f := s.Farmers.LoadID(id)
	if f == nil {
		f = &Farmer{ID: id}
		s.Farmers.SaveID(id, f)
	}
	return f
}

var _ store.Key = SeasonKey{}
