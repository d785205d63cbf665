// Package germination maintains the two-season maturation buckets for
// farmer, token, and protocol-level germinating stake.
//
// The upstream contract double-emits the farmer removal event when an odd
// and an even bucket complete in the same block at adjacent log indices.
// Removals therefore run through a per-account compensation record: when the
// previous removal for the account sits in the same block at logIndex-1, the
// prior raw delta is subtracted from the incoming one before it is applied
// anywhere. The record is rewritten after every removal, including the one
// that consumed it.
package germination

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/snapshots"
	"github.com/ethereum/go-ethereum/common"
)

// ApplyFarmerDelta processes one farmer germinating-stalk change. Positive
// deltas open or grow a bucket; negative deltas shrink one and delete it at
// exactly zero. Returns without effect on a zero delta.
func ApplyFarmerDelta(
	s *entities.Store,
	account common.Address,
	eventParity entities.GerminationParity,
	delta *big.Int,
	blockNumber uint64,
	logIndex uint32,
	timestamp uint64,
) {
	if delta.Sign() == 0 {
		return
	}

	currentSeason := s.CurrentSeason()
	applied := bigdec.Copy(delta)

	if delta.Sign() > 0 {
		// Conversions can begin germinating in the prior season. When the
		// event's parity disagrees with the season's natural parity, the
		// bucket belongs to the season before.
		season := currentSeason
		if entities.SeasonParity(currentSeason) != eventParity {
			season = currentSeason - 1
		}
		g := s.LoadOrCreateGerminating(account, season)
		g.Stalk = bigdec.Add(g.Stalk, applied)
		s.SaveGerminating(g)
	} else {
		if prev := s.LoadPrevFarmerGerminatingEvent(account); prev != nil &&
			prev.BlockNumber == blockNumber && prev.LogIndex+1 == logIndex {
			applied = bigdec.Sub(delta, prev.Delta)
		}

		// A removal can only follow an addition; a missing bucket is fatal.
		g := s.LoadGerminating(account, eventParity)
		g.Stalk = bigdec.Add(g.Stalk, applied)
		if bigdec.IsZero(g.Stalk) {
			s.DeleteGerminating(g)
		} else {
			s.SaveGerminating(g)
		}

		if currentSeason >= g.Season+2 {
			// Germination finished: the stalk was already credited to the
			// system silo at sunrise, so the removal must debit it back.
			system := s.LoadSilo(s.Proto.Beanstalk)
			system.Stalk = bigdec.Add(system.Stalk, applied)
			snapshots.TakeSiloSnapshots(s, system, timestamp)
			s.SaveSilo(system)
		}

		// Rewritten with the raw delta, not the compensated one.
		s.SavePrevFarmerGerminatingEvent(account, blockNumber, logIndex, delta)
	}

	farmerSilo := s.LoadSilo(account)
	farmerSilo.GerminatingStalk = bigdec.Add(farmerSilo.GerminatingStalk, applied)
	snapshots.TakeSiloSnapshots(s, farmerSilo, timestamp)
	s.SaveSilo(farmerSilo)
}

// RecomputeTokenLedger rewrites a token's even and odd buckets from the
// authoritative chain views. The upstream event's season tag is unreliable,
// so the per-token ledger is never updated incrementally. A reverted view
// leaves that parity untouched; a zero amount discards the bucket.
func RecomputeTokenLedger(s *entities.Store, caller chain.ViewCaller, token common.Address) {
	currentSeason := s.CurrentSeason()
	for _, parity := range []entities.GerminationParity{entities.ParityEven, entities.ParityOdd} {
		amount, bdv, reverted := caller.GerminatingForToken(token, parity)
		if reverted {
			continue
		}
		if amount.Sign() == 0 {
			if g := s.GetGerminating(token, parity); g != nil {
				s.DeleteGerminating(g)
			}
			continue
		}
		season := currentSeason
		if entities.SeasonParity(currentSeason) != parity {
			season = currentSeason - 1
		}
		g := s.LoadOrCreateGerminating(token, season)
		g.TokenAmount = bigdec.Copy(amount)
		g.Bdv = bigdec.Copy(bdv)
		s.SaveGerminating(g)
	}
}

// ApplySystemStalkDelta processes a protocol-level germinating-stalk change.
// The bucket is kept at zero rather than deleted; the protocol bucket churns
// every season and recreation would thrash the store.
func ApplySystemStalkDelta(s *entities.Store, germinationSeason uint32, delta *big.Int, timestamp uint64) {
	if delta.Sign() == 0 {
		return
	}

	g := s.LoadOrCreateGerminating(s.Proto.Beanstalk, germinationSeason)
	g.Season = germinationSeason
	g.Stalk = bigdec.Add(g.Stalk, delta)
	s.SaveGerminating(g)

	silo := s.LoadSilo(s.Proto.Beanstalk)
	silo.GerminatingStalk = bigdec.Add(silo.GerminatingStalk, delta)
	snapshots.TakeSiloSnapshots(s, silo, timestamp)
	s.SaveSilo(silo)
}
