package entities

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Field aggregates pod accounting for one account, or for the whole
// protocol when keyed by the Beanstalk address. The sum of harvestable and
// unharvestable pods tracks total issued minus harvested, bounded by the
// monotonic harvestable-index cursor.
type Field struct {
	ID     string
	Farmer string // empty on the protocol-aggregate row

	Season           uint32
	Temperature      decimal.Decimal
	RealRateOfReturn decimal.Decimal

	NumberOfSowers int32
	NumberOfSows   int32
	SownBeans      *big.Int

	UnharvestablePods *big.Int
	HarvestablePods   *big.Int
	HarvestedPods     *big.Int

	Soil     *big.Int
	PodIndex *big.Int
	PodRate  decimal.Decimal

	// PlotIndexes is maintained sorted ascending; only the protocol row
	// tracks it.
	PlotIndexes []*big.Int

	LastHourlySnapshotSeason uint32
	LastDailySnapshotDay     int64
}

// PlotSource records how a plot came to exist.
type PlotSource string

const (
	PlotSourceSow      PlotSource = "SOW"
	PlotSourceHarvest  PlotSource = "HARVEST"
	PlotSourceTransfer PlotSource = "TRANSFER"
	PlotSourceMarket   PlotSource = "MARKET"
	PlotSourceReseed   PlotSource = "RESEED_MIGRATED"
)

// Plot is a contiguous range of pods at an index in the pod line.
type Plot struct {
	ID     string
	Field  string
	Farmer string

	Index      *big.Int
	Season     uint32
	Source     PlotSource
	SourceHash string

	Beans       *big.Int
	Pods        *big.Int
	SownPods    *big.Int
	BeansPerPod *big.Int

	Temperature     decimal.Decimal
	HarvestablePods *big.Int
	HarvestedPods   *big.Int
	FullyHarvested  bool

	Listing string // canonical listing id, empty when not listed

	CreationHash string
	CreatedAt    uint64
	UpdatedAt    uint64
}

// LoadField returns the Field for an account, creating a zeroed row on first
// touch.
func (s *Store) LoadField(account common.Address) *Field {
	key := SiloKey{Account: account}
	field := s.Fields.Load(key)
	if field == nil {
		field = &Field{
			ID:                key.String(),
			Season:            s.CurrentSeason(),
			Temperature:       decimal.NewFromInt(1),
			RealRateOfReturn:  decimal.Zero,
			SownBeans:         bigdec.Zero(),
			UnharvestablePods: bigdec.Zero(),
			HarvestablePods:   bigdec.Zero(),
			HarvestedPods:     bigdec.Zero(),
			Soil:              bigdec.Zero(),
			PodIndex:          bigdec.Zero(),
			PodRate:           decimal.Zero,
			PlotIndexes:       []*big.Int{},
		}
		if account != s.Proto.Beanstalk {
			field.Farmer = hexAddr(account)
		}
		s.Fields.Save(key, field)
	}
	return field
}

// SaveField persists a mutated Field.
func (s *Store) SaveField(field *Field) {
	s.Fields.SaveID(field.ID, field)
}

// LoadPlot returns the plot at an index, creating a zeroed row owned by the
// protocol field on first touch.
func (s *Store) LoadPlot(index *big.Int) *Plot {
	key := PlotKey{Index: index}
	plot := s.Plots.Load(key)
	if plot == nil {
		plot = &Plot{
			ID:              key.String(),
			Field:           hexAddr(s.Proto.Beanstalk),
			Index:           bigdec.Copy(index),
			Beans:           bigdec.Zero(),
			Pods:            bigdec.Zero(),
			SownPods:        bigdec.Zero(),
			BeansPerPod:     bigdec.Zero(),
			Temperature:     decimal.Zero,
			HarvestablePods: bigdec.Zero(),
			HarvestedPods:   bigdec.Zero(),
		}
		s.Plots.Save(key, plot)
	}
	return plot
}

// HasPlot reports whether a plot exists without creating it.
func (s *Store) HasPlot(index *big.Int) bool {
	return s.Plots.Has(PlotKey{Index: index})
}

// SavePlot persists a mutated Plot.
func (s *Store) SavePlot(plot *Plot) {
	s.Plots.SaveID(plot.ID, plot)
}

// DeletePlot removes a fully consumed plot.
func (s *Store) DeletePlot(plot *Plot) {
	s.Plots.DeleteID(plot.ID)
}
