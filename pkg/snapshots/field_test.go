package snapshots

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *entities.Store {
	proto := config.EthMainnet()
	return entities.NewStore(&proto)
}

func advanceSeason(s *entities.Store, season uint32) {
	b := s.LoadBeanstalk()
	b.LastSeason = season
	s.SaveBeanstalk(b)
}

// eqBig compares a big integer by value; a computed zero and a literal zero
// are not reflect-equal.
func eqBig(t *testing.T, expected int64, actual *big.Int) {
	t.Helper()
	require.NotNil(t, actual)
	require.Equal(t, strconv.FormatInt(expected, 10), actual.String())
}

func TestFieldSnapshotFirstEverDeltaEqualsValue(t *testing.T) {
	s := newTestStore()
	field := s.LoadField(s.Proto.Beanstalk)
	field.Soil = bigdec.BI(100)

	TakeFieldSnapshots(s, field, 1000, 5)

	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, 1))
	eqBig(t, 100, hourly.Soil)
	eqBig(t, 100, hourly.DeltaSoil)
	eqBig(t, 100, hourly.IssuedSoil)
	eqBig(t, 100, hourly.DeltaIssuedSoil)
	assert.Equal(t, uint64(5), hourly.SeasonBlock)
	assert.Equal(t, uint64(1000), hourly.CreatedAt)
	assert.Equal(t, uint32(1), field.LastHourlySnapshotSeason)
}

func TestFieldSnapshotDeltaAccumulatesWithinBucket(t *testing.T) {
	s := newTestStore()
	field := s.LoadField(s.Proto.Beanstalk)
	field.Soil = bigdec.BI(100)
	TakeFieldSnapshots(s, field, 1000, 5)

	field.Soil = bigdec.BI(150)
	field.SownBeans = bigdec.BI(20)
	TakeFieldSnapshots(s, field, 2000, 6)

	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, 1))
	eqBig(t, 150, hourly.Soil)
	eqBig(t, 150, hourly.DeltaSoil)
	eqBig(t, 20, hourly.DeltaSownBeans)
	// Set once per bucket and carried on subsequent takes.
	eqBig(t, 100, hourly.IssuedSoil)
	assert.Equal(t, uint64(5), hourly.SeasonBlock)
	assert.Equal(t, uint64(1000), hourly.CreatedAt)
	assert.Equal(t, uint64(2000), hourly.UpdatedAt)
}

func TestFieldSnapshotNewBucketDeltaFromPrevious(t *testing.T) {
	s := newTestStore()
	field := s.LoadField(s.Proto.Beanstalk)
	field.Soil = bigdec.BI(100)
	TakeFieldSnapshots(s, field, 90_000, 5)

	advanceSeason(s, 2)
	field.Soil = bigdec.BI(90)
	TakeFieldSnapshots(s, field, 180_000, 9)

	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, 2))
	eqBig(t, 90, hourly.Soil)
	eqBig(t, -10, hourly.DeltaSoil)
	eqBig(t, 90, hourly.IssuedSoil)
	eqBig(t, -10, hourly.DeltaIssuedSoil)
	assert.Equal(t, uint64(9), hourly.SeasonBlock)
	assert.Equal(t, uint64(180_000), hourly.CreatedAt)

	daily := s.FieldDaily.MustLoadID(entities.DailyID(field.ID, entities.Day(180_000)))
	eqBig(t, -10, daily.DeltaSoil)
	eqBig(t, 90, daily.IssuedSoil)
	assert.Equal(t, int64(2), daily.Day)
	assert.Equal(t, int64(2), field.LastDailySnapshotDay)
}

func TestSetFieldHourlySoilSoldOutAndCarry(t *testing.T) {
	s := newTestStore()
	field := s.LoadField(s.Proto.Beanstalk)
	field.Soil = bigdec.BI(100)
	TakeFieldSnapshots(s, field, 1000, 5)

	SetFieldHourlySoilSoldOut(s, 12, field)
	SetFieldHourlyCaseID(s, bigdec.BI(3), field)

	field.Soil = bigdec.BI(0)
	TakeFieldSnapshots(s, field, 2000, 8)

	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, 1))
	assert.True(t, hourly.SoilSoldOut)
	eqBig(t, 7, hourly.BlocksToSoldOutSoil)
	eqBig(t, 3, hourly.CaseID)
}

func TestSetFieldHourlyStampsRequireSnapshot(t *testing.T) {
	s := newTestStore()
	field := s.LoadField(s.Proto.Beanstalk)

	require.Panics(t, func() { SetFieldHourlySoilSoldOut(s, 12, field) })
	require.Panics(t, func() { SetFieldHourlyCaseID(s, bigdec.BI(3), field) })
}
