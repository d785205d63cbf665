package snapshots

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

// TakeWhitelistTokenSettingSnapshots rolls a token's reward configuration
// into its hourly and daily buckets. Gauge fields stay nil until the seed
// gauge enables the token, so their deltas are computed only when present.
func TakeWhitelistTokenSettingSnapshots(s *entities.Store, setting *entities.WhitelistTokenSetting, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)

	hourlyID := entities.HourlyID(setting.ID, season)
	dailyID := entities.DailyID(setting.ID, day)

	baseHourly := s.WhitelistHourly.LoadID(hourlyID)
	if baseHourly == nil && setting.LastHourlySnapshotSeason != 0 {
		baseHourly = s.WhitelistHourly.LoadID(entities.HourlyID(setting.ID, setting.LastHourlySnapshotSeason))
	}
	baseDaily := s.WhitelistDaily.LoadID(dailyID)
	if baseDaily == nil && setting.LastDailySnapshotDay != 0 {
		baseDaily = s.WhitelistDaily.LoadID(entities.DailyID(setting.ID, setting.LastDailySnapshotDay))
	}

	hourly := &entities.WhitelistTokenHourlySnapshot{
		ID:                   hourlyID,
		Token:                setting.ID,
		Season:               season,
		Selector:             setting.Selector,
		StalkEarnedPerSeason: bigdec.Copy(setting.StalkEarnedPerSeason),
		StalkIssuedPerBdv:    bigdec.Copy(setting.StalkIssuedPerBdv),
		MilestoneSeason:      setting.MilestoneSeason,
		IsGaugeEnabled:       setting.IsGaugeEnabled,
	}
	if setting.GaugePoints != nil {
		hourly.GaugePoints = bigdec.Copy(setting.GaugePoints)
	}
	if setting.OptimalPercentDepositedBdv != nil {
		hourly.OptimalPercentDepositedBdv = bigdec.Copy(setting.OptimalPercentDepositedBdv)
	}

	if baseHourly != nil {
		hourly.DeltaStalkEarnedPerSeason = bigdec.Sub(hourly.StalkEarnedPerSeason, baseHourly.StalkEarnedPerSeason)
		hourly.DeltaStalkIssuedPerBdv = bigdec.Sub(hourly.StalkIssuedPerBdv, baseHourly.StalkIssuedPerBdv)
		hourly.DeltaMilestoneSeason = int32(hourly.MilestoneSeason) - int32(baseHourly.MilestoneSeason)
		hourly.DeltaIsGaugeEnabled = hourly.IsGaugeEnabled != baseHourly.IsGaugeEnabled
		hourly.DeltaGaugePoints = nullableDelta(hourly.GaugePoints, baseHourly.GaugePoints)
		hourly.DeltaOptimalPercentDepositedBdv = nullableDelta(hourly.OptimalPercentDepositedBdv, baseHourly.OptimalPercentDepositedBdv)
		if hourly.ID == baseHourly.ID {
			hourly.DeltaStalkEarnedPerSeason = bigdec.Add(hourly.DeltaStalkEarnedPerSeason, baseHourly.DeltaStalkEarnedPerSeason)
			hourly.DeltaStalkIssuedPerBdv = bigdec.Add(hourly.DeltaStalkIssuedPerBdv, baseHourly.DeltaStalkIssuedPerBdv)
			hourly.DeltaMilestoneSeason += baseHourly.DeltaMilestoneSeason
			hourly.DeltaIsGaugeEnabled = hourly.DeltaIsGaugeEnabled != baseHourly.DeltaIsGaugeEnabled
			hourly.DeltaGaugePoints = nullableAdd(hourly.DeltaGaugePoints, baseHourly.DeltaGaugePoints)
			hourly.DeltaOptimalPercentDepositedBdv = nullableAdd(hourly.DeltaOptimalPercentDepositedBdv, baseHourly.DeltaOptimalPercentDepositedBdv)
			// Carry over fields set once per bucket.
			hourly.Bdv = baseHourly.Bdv
			hourly.DeltaBdv = baseHourly.DeltaBdv
			hourly.CreatedAt = baseHourly.CreatedAt
		} else {
			hourly.CreatedAt = timestamp
		}
	} else {
		hourly.DeltaStalkEarnedPerSeason = bigdec.Copy(hourly.StalkEarnedPerSeason)
		hourly.DeltaStalkIssuedPerBdv = bigdec.Copy(hourly.StalkIssuedPerBdv)
		hourly.DeltaMilestoneSeason = int32(hourly.MilestoneSeason)
		hourly.DeltaIsGaugeEnabled = hourly.IsGaugeEnabled
		hourly.DeltaGaugePoints = nullableDelta(hourly.GaugePoints, nil)
		hourly.DeltaOptimalPercentDepositedBdv = nullableDelta(hourly.OptimalPercentDepositedBdv, nil)
		hourly.CreatedAt = timestamp
	}
	hourly.UpdatedAt = timestamp
	s.WhitelistHourly.SaveID(hourlyID, hourly)

	daily := &entities.WhitelistTokenDailySnapshot{
		ID:                   dailyID,
		Token:                setting.ID,
		Season:               season,
		Day:                  day,
		Selector:             setting.Selector,
		StalkEarnedPerSeason: bigdec.Copy(setting.StalkEarnedPerSeason),
		StalkIssuedPerBdv:    bigdec.Copy(setting.StalkIssuedPerBdv),
		MilestoneSeason:      setting.MilestoneSeason,
		IsGaugeEnabled:       setting.IsGaugeEnabled,
	}
	if setting.GaugePoints != nil {
		daily.GaugePoints = bigdec.Copy(setting.GaugePoints)
	}
	if setting.OptimalPercentDepositedBdv != nil {
		daily.OptimalPercentDepositedBdv = bigdec.Copy(setting.OptimalPercentDepositedBdv)
	}

	if baseDaily != nil {
		daily.DeltaStalkEarnedPerSeason = bigdec.Sub(daily.StalkEarnedPerSeason, baseDaily.StalkEarnedPerSeason)
		daily.DeltaStalkIssuedPerBdv = bigdec.Sub(daily.StalkIssuedPerBdv, baseDaily.StalkIssuedPerBdv)
		daily.DeltaMilestoneSeason = int32(daily.MilestoneSeason) - int32(baseDaily.MilestoneSeason)
		daily.DeltaIsGaugeEnabled = daily.IsGaugeEnabled != baseDaily.IsGaugeEnabled
		daily.DeltaGaugePoints = nullableDelta(daily.GaugePoints, baseDaily.GaugePoints)
		daily.DeltaOptimalPercentDepositedBdv = nullableDelta(daily.OptimalPercentDepositedBdv, baseDaily.OptimalPercentDepositedBdv)
		if daily.ID == baseDaily.ID {
			daily.DeltaStalkEarnedPerSeason = bigdec.Add(daily.DeltaStalkEarnedPerSeason, baseDaily.DeltaStalkEarnedPerSeason)
			daily.DeltaStalkIssuedPerBdv = bigdec.Add(daily.DeltaStalkIssuedPerBdv, baseDaily.DeltaStalkIssuedPerBdv)
			daily.DeltaMilestoneSeason += baseDaily.DeltaMilestoneSeason
			daily.DeltaIsGaugeEnabled = daily.DeltaIsGaugeEnabled != baseDaily.DeltaIsGaugeEnabled
			daily.DeltaGaugePoints = nullableAdd(daily.DeltaGaugePoints, baseDaily.DeltaGaugePoints)
			daily.DeltaOptimalPercentDepositedBdv = nullableAdd(daily.DeltaOptimalPercentDepositedBdv, baseDaily.DeltaOptimalPercentDepositedBdv)
			daily.Bdv = baseDaily.Bdv
			daily.DeltaBdv = baseDaily.DeltaBdv
			daily.CreatedAt = baseDaily.CreatedAt
		} else {
			daily.CreatedAt = timestamp
		}
	} else {
		daily.DeltaStalkEarnedPerSeason = bigdec.Copy(daily.StalkEarnedPerSeason)
		daily.DeltaStalkIssuedPerBdv = bigdec.Copy(daily.StalkIssuedPerBdv)
		daily.DeltaMilestoneSeason = int32(daily.MilestoneSeason)
		daily.DeltaIsGaugeEnabled = daily.IsGaugeEnabled
		daily.DeltaGaugePoints = nullableDelta(daily.GaugePoints, nil)
		daily.DeltaOptimalPercentDepositedBdv = nullableDelta(daily.OptimalPercentDepositedBdv, nil)
		daily.CreatedAt = timestamp
	}
	daily.UpdatedAt = timestamp
	s.WhitelistDaily.SaveID(dailyID, daily)

	setting.LastHourlySnapshotSeason = season
	setting.LastDailySnapshotDay = day
}

// ClearWhitelistTokenSettingDeltas zeroes every delta on the current hourly
// and daily buckets.
func ClearWhitelistTokenSettingDeltas(s *entities.Store, setting *entities.WhitelistTokenSetting, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)
	if hourly := s.WhitelistHourly.LoadID(entities.HourlyID(setting.ID, season)); hourly != nil {
		hourly.DeltaStalkEarnedPerSeason = bigdec.Zero()
		hourly.DeltaStalkIssuedPerBdv = bigdec.Zero()
		hourly.DeltaMilestoneSeason = 0
		hourly.DeltaIsGaugeEnabled = false
		hourly.DeltaGaugePoints = bigdec.Zero()
		if hourly.DeltaOptimalPercentDepositedBdv != nil {
			hourly.DeltaOptimalPercentDepositedBdv = bigdec.Zero()
		}
		s.WhitelistHourly.SaveID(hourly.ID, hourly)
	}
	if daily := s.WhitelistDaily.LoadID(entities.DailyID(setting.ID, day)); daily != nil {
		daily.DeltaStalkEarnedPerSeason = bigdec.Zero()
		daily.DeltaStalkIssuedPerBdv = bigdec.Zero()
		daily.DeltaMilestoneSeason = 0
		daily.DeltaIsGaugeEnabled = false
		daily.DeltaGaugePoints = bigdec.Zero()
		if daily.DeltaOptimalPercentDepositedBdv != nil {
			daily.DeltaOptimalPercentDepositedBdv = bigdec.Zero()
		}
		s.WhitelistDaily.SaveID(daily.ID, daily)
	}
}

// SetWhitelistTokenBdv stamps the token's total deposited BDV on the current
// hourly and daily buckets. The value comes from a chain view call made after
// the season's snapshots were taken, so its delta is computed against the
// previous season's bucket rather than by the regular take path. Panics when
// the buckets were never taken.
func SetWhitelistTokenBdv(s *entities.Store, bdv *big.Int, setting *entities.WhitelistTokenSetting) {
	hourly := s.WhitelistHourly.MustLoadID(entities.HourlyID(setting.ID, setting.LastHourlySnapshotSeason))
	daily := s.WhitelistDaily.MustLoadID(entities.DailyID(setting.ID, setting.LastDailySnapshotDay))

	hourly.Bdv = bigdec.Copy(bdv)
	daily.Bdv = bigdec.Copy(bdv)

	prevHourly := s.WhitelistHourly.LoadID(entities.HourlyID(setting.ID, setting.LastHourlySnapshotSeason-1))
	prevDaily := s.WhitelistDaily.LoadID(entities.DailyID(setting.ID, setting.LastDailySnapshotDay-1))

	if prevHourly != nil && prevHourly.Bdv != nil {
		hourly.DeltaBdv = bigdec.Sub(hourly.Bdv, prevHourly.Bdv)
	} else {
		hourly.DeltaBdv = bigdec.Copy(hourly.Bdv)
	}
	if prevDaily != nil && prevDaily.Bdv != nil {
		daily.DeltaBdv = bigdec.Sub(daily.Bdv, prevDaily.Bdv)
	} else {
		daily.DeltaBdv = bigdec.Copy(daily.Bdv)
	}

	s.WhitelistHourly.SaveID(hourly.ID, hourly)
	s.WhitelistDaily.SaveID(daily.ID, daily)
}

// nullableDelta computes value - base for fields that may be unset. A nil
// value yields a nil delta; a nil base treats the value as the full delta.
func nullableDelta(value, base *big.Int) *big.Int {
	if value == nil {
		return nil
	}
	if base == nil {
		return bigdec.Copy(value)
	}
	return bigdec.Sub(value, base)
}

// nullableAdd accumulates two nullable deltas; either side nil leaves the
// fresh delta as-is.
func nullableAdd(delta, accumulated *big.Int) *big.Int {
	if delta == nil || accumulated == nil {
		return delta
	}
	return bigdec.Add(delta, accumulated)
}
