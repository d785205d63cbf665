package yield

import (
	"testing"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/chain"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/config"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine() (*Engine, *entities.Store, *chain.StubCaller) {
	proto := config.EthMainnet()
	s := entities.NewStore(&proto)
	caller := chain.NewStubCaller()
	return NewEngine(s, caller, zap.NewNop()), s, caller
}

func advanceSeason(s *entities.Store, season uint32) {
	b := s.LoadBeanstalk()
	b.LastSeason = season
	s.SaveBeanstalk(b)
}

func setRewardBeans(s *entities.Store, season uint32, beans int64) {
	row := s.LoadSeason(season)
	row.RewardBeans = bigdec.BI(beans)
	s.SaveSeason(row)
}

func TestWindowEMASingleMint(t *testing.T) {
	e, s, _ := newTestEngine()
	advanceSeason(s, 20002)
	setRewardBeans(s, 20002, 10_000_000) // 10 beans

	e.updateWindowEMA(entities.Window24H, 5000)

	y := s.LoadSiloYield(20002, entities.Window24H)
	assert.Equal(t, uint32(24), y.U)
	assert.Equal(t, "0.08", y.Beta.String())
	assert.Equal(t, "0.8", y.BeansPerSeasonEMA.String())
	assert.Equal(t, uint64(5000), y.CreatedAt)
}

func TestWindowEMACacheFloorMaintainsTokenListOnly(t *testing.T) {
	e, s, _ := newTestEngine()
	advanceSeason(s, 6080)
	silo := s.LoadSilo(s.Proto.Beanstalk)
	entities.AddWhitelistedToken(silo, s.Proto.Bean)
	s.SaveSilo(silo)

	e.updateWindowEMA(entities.Window24H, 5000)

	y := s.LoadSiloYield(6080, entities.Window24H)
	require.Len(t, y.WhitelistedTokens, 1)
	assert.Equal(t, s.Proto.Bean, y.WhitelistedTokens[0])
	assert.True(t, y.Beta.IsZero())
	assert.True(t, y.BeansPerSeasonEMA.IsZero())
	assert.Equal(t, uint32(0), y.U)
}

func TestUpdateSeasonYieldsComputesAllWindows(t *testing.T) {
	e, s, _ := newTestEngine()
	advanceSeason(s, 20002)

	e.UpdateSeasonYields(5000)

	assert.Equal(t, 3, s.SiloYields.Len())
	assert.Equal(t, 3, s.FertilizerYields.Len())

	fy := s.LoadFertilizerYield(20002, entities.Window24H)
	assert.Equal(t, "0.2", fy.Humidity.String())
	assert.True(t, fy.DeltaBpf.IsZero())
	assert.True(t, fy.SimpleAPY.IsZero())
}

func TestFertilizerAPYUsesHumidityViewBelowStepSeason(t *testing.T) {
	e, s, caller := newTestEngine()
	advanceSeason(s, 6080)
	caller.Humidity = bigdec.BI(250) // thousandths

	fert := s.LoadFertilizer(s.Proto.Fertilizer)
	fert.Supply = bigdec.BI(1_000_000)
	s.SaveFertilizer(fert)

	y := s.LoadSiloYield(6080, entities.Window24H)
	y.BeansPerSeasonEMA = decimal.NewFromInt(100)
	s.SaveSiloYield(y)

	e.updateFertAPY(entities.Window24H, 5000)

	fy := s.LoadFertilizerYield(6080, entities.Window24H)
	assert.Equal(t, "0.25", fy.Humidity.String())
	assert.Equal(t, "0.0001", fy.DeltaBpf.String())
	// 0.25 / ((1 + 0.25) / 0.0001 / 8760)
	assert.InDelta(t, 0.1752, fy.SimpleAPY.InexactFloat64(), 1e-6)
}

func TestFertilizerAPYRevertFallsBackToReplantHumidity(t *testing.T) {
	e, s, _ := newTestEngine()
	advanceSeason(s, 6080)

	e.updateFertAPY(entities.Window24H, 5000)

	fy := s.LoadFertilizerYield(6080, entities.Window24H)
	assert.Equal(t, "0.5", fy.Humidity.String())
	assert.True(t, fy.SimpleAPY.IsZero())
}
