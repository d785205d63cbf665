package snapshots

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

// TakeMarketSnapshots rolls the marketplace aggregates into their hourly and
// daily buckets.
func TakeMarketSnapshots(s *entities.Store, market *entities.PodMarketplace, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)

	hourlyID := entities.HourlyID(market.ID, season)
	dailyID := entities.DailyID(market.ID, day)

	baseHourly := s.MarketHourly.LoadID(hourlyID)
	if baseHourly == nil && market.LastHourlySnapshotSeason != 0 {
		baseHourly = s.MarketHourly.LoadID(entities.HourlyID(market.ID, market.LastHourlySnapshotSeason))
	}
	baseDaily := s.MarketDaily.LoadID(dailyID)
	if baseDaily == nil && market.LastDailySnapshotDay != 0 {
		baseDaily = s.MarketDaily.LoadID(entities.DailyID(market.ID, market.LastDailySnapshotDay))
	}

	hourly := &entities.MarketHourlySnapshot{
		ID:                  hourlyID,
		PodMarketplace:      market.ID,
		Season:              season,
		ListedPods:          bigdec.Copy(market.ListedPods),
		AvailableListedPods: bigdec.Copy(market.AvailableListedPods),
		FilledListedPods:    bigdec.Copy(market.FilledListedPods),
		ExpiredListedPods:   bigdec.Copy(market.ExpiredListedPods),
		CancelledListedPods: bigdec.Copy(market.CancelledListedPods),
		OrderBeans:          bigdec.Copy(market.OrderBeans),
		AvailableOrderBeans: bigdec.Copy(market.AvailableOrderBeans),
		FilledOrderedPods:   bigdec.Copy(market.FilledOrderedPods),
		FilledOrderBeans:    bigdec.Copy(market.FilledOrderBeans),
		CancelledOrderBeans: bigdec.Copy(market.CancelledOrderBeans),
		PodVolume:           bigdec.Copy(market.PodVolume),
		BeanVolume:          bigdec.Copy(market.BeanVolume),
	}
	if baseHourly != nil {
		hourly.DeltaListedPods = bigdec.Sub(hourly.ListedPods, baseHourly.ListedPods)
		hourly.DeltaAvailableListedPods = bigdec.Sub(hourly.AvailableListedPods, baseHourly.AvailableListedPods)
		hourly.DeltaFilledListedPods = bigdec.Sub(hourly.FilledListedPods, baseHourly.FilledListedPods)
		hourly.DeltaExpiredListedPods = bigdec.Sub(hourly.ExpiredListedPods, baseHourly.ExpiredListedPods)
		hourly.DeltaCancelledListedPods = bigdec.Sub(hourly.CancelledListedPods, baseHourly.CancelledListedPods)
		hourly.DeltaOrderBeans = bigdec.Sub(hourly.OrderBeans, baseHourly.OrderBeans)
		hourly.DeltaAvailableOrderBeans = bigdec.Sub(hourly.AvailableOrderBeans, baseHourly.AvailableOrderBeans)
		hourly.DeltaFilledOrderedPods = bigdec.Sub(hourly.FilledOrderedPods, baseHourly.FilledOrderedPods)
		hourly.DeltaFilledOrderBeans = bigdec.Sub(hourly.FilledOrderBeans, baseHourly.FilledOrderBeans)
		hourly.DeltaCancelledOrderBeans = bigdec.Sub(hourly.CancelledOrderBeans, baseHourly.CancelledOrderBeans)
		hourly.DeltaPodVolume = bigdec.Sub(hourly.PodVolume, baseHourly.PodVolume)
		hourly.DeltaBeanVolume = bigdec.Sub(hourly.BeanVolume, baseHourly.BeanVolume)
		if hourly.ID == baseHourly.ID {
			hourly.DeltaListedPods = bigdec.Add(hourly.DeltaListedPods, baseHourly.DeltaListedPods)
			hourly.DeltaAvailableListedPods = bigdec.Add(hourly.DeltaAvailableListedPods, baseHourly.DeltaAvailableListedPods)
			hourly.DeltaFilledListedPods = bigdec.Add(hourly.DeltaFilledListedPods, baseHourly.DeltaFilledListedPods)
			hourly.DeltaExpiredListedPods = bigdec.Add(hourly.DeltaExpiredListedPods, baseHourly.DeltaExpiredListedPods)
			hourly.DeltaCancelledListedPods = bigdec.Add(hourly.DeltaCancelledListedPods, baseHourly.DeltaCancelledListedPods)
			hourly.DeltaOrderBeans = bigdec.Add(hourly.DeltaOrderBeans, baseHourly.DeltaOrderBeans)
			hourly.DeltaAvailableOrderBeans = bigdec.Add(hourly.DeltaAvailableOrderBeans, baseHourly.DeltaAvailableOrderBeans)
			hourly.DeltaFilledOrderedPods = bigdec.Add(hourly.DeltaFilledOrderedPods, baseHourly.DeltaFilledOrderedPods)
			hourly.DeltaFilledOrderBeans = bigdec.Add(hourly.DeltaFilledOrderBeans, baseHourly.DeltaFilledOrderBeans)
			hourly.DeltaCancelledOrderBeans = bigdec.Add(hourly.DeltaCancelledOrderBeans, baseHourly.DeltaCancelledOrderBeans)
			hourly.DeltaPodVolume = bigdec.Add(hourly.DeltaPodVolume, baseHourly.DeltaPodVolume)
			hourly.DeltaBeanVolume = bigdec.Add(hourly.DeltaBeanVolume, baseHourly.DeltaBeanVolume)
			hourly.CreatedAt = baseHourly.CreatedAt
		} else {
			hourly.CreatedAt = timestamp
		}
	} else {
		hourly.DeltaListedPods = bigdec.Copy(hourly.ListedPods)
		hourly.DeltaAvailableListedPods = bigdec.Copy(hourly.AvailableListedPods)
		hourly.DeltaFilledListedPods = bigdec.Copy(hourly.FilledListedPods)
		hourly.DeltaExpiredListedPods = bigdec.Copy(hourly.ExpiredListedPods)
		hourly.DeltaCancelledListedPods = bigdec.Copy(hourly.CancelledListedPods)
		hourly.DeltaOrderBeans = bigdec.Copy(hourly.OrderBeans)
		hourly.DeltaAvailableOrderBeans = bigdec.Copy(hourly.AvailableOrderBeans)
		hourly.DeltaFilledOrderedPods = bigdec.Copy(hourly.FilledOrderedPods)
		hourly.DeltaFilledOrderBeans = bigdec.Copy(hourly.FilledOrderBeans)
		hourly.DeltaCancelledOrderBeans = bigdec.Copy(hourly.CancelledOrderBeans)
		hourly.DeltaPodVolume = bigdec.Copy(hourly.PodVolume)
		hourly.DeltaBeanVolume = bigdec.Copy(hourly.BeanVolume)
		hourly.CreatedAt = timestamp
	}
	hourly.UpdatedAt = timestamp
	s.MarketHourly.SaveID(hourlyID, hourly)

	daily := &entities.MarketDailySnapshot{
		ID:                  dailyID,
		PodMarketplace:      market.ID,
		Season:              season,
		Day:                 day,
		ListedPods:          bigdec.Copy(market.ListedPods),
		AvailableListedPods: bigdec.Copy(market.AvailableListedPods),
		FilledListedPods:    bigdec.Copy(market.FilledListedPods),
		ExpiredListedPods:   bigdec.Copy(market.ExpiredListedPods),
		CancelledListedPods: bigdec.Copy(market.CancelledListedPods),
		OrderBeans:          bigdec.Copy(market.OrderBeans),
		AvailableOrderBeans: bigdec.Copy(market.AvailableOrderBeans),
		FilledOrderedPods:   bigdec.Copy(market.FilledOrderedPods),
		FilledOrderBeans:    bigdec.Copy(market.FilledOrderBeans),
		CancelledOrderBeans: bigdec.Copy(market.CancelledOrderBeans),
		PodVolume:           bigdec.Copy(market.PodVolume),
		BeanVolume:          bigdec.Copy(market.BeanVolume),
	}
	if baseDaily != nil {
		daily.DeltaListedPods = bigdec.Sub(daily.ListedPods, baseDaily.ListedPods)
		daily.DeltaAvailableListedPods = bigdec.Sub(daily.AvailableListedPods, baseDaily.AvailableListedPods)
		daily.DeltaFilledListedPods = bigdec.Sub(daily.FilledListedPods, baseDaily.FilledListedPods)
		daily.DeltaExpiredListedPods = bigdec.Sub(daily.ExpiredListedPods, baseDaily.ExpiredListedPods)
		daily.DeltaCancelledListedPods = bigdec.Sub(daily.CancelledListedPods, baseDaily.CancelledListedPods)
		daily.DeltaOrderBeans = bigdec.Sub(daily.OrderBeans, baseDaily.OrderBeans)
		daily.DeltaAvailableOrderBeans = bigdec.Sub(daily.AvailableOrderBeans, baseDaily.AvailableOrderBeans)
		daily.DeltaFilledOrderedPods = bigdec.Sub(daily.FilledOrderedPods, baseDaily.FilledOrderedPods)
		daily.DeltaFilledOrderBeans = bigdec.Sub(daily.FilledOrderBeans, baseDaily.FilledOrderBeans)
		daily.DeltaCancelledOrderBeans = bigdec.Sub(daily.CancelledOrderBeans, baseDaily.CancelledOrderBeans)
		daily.DeltaPodVolume = bigdec.Sub(daily.PodVolume, baseDaily.PodVolume)
		daily.DeltaBeanVolume = bigdec.Sub(daily.BeanVolume, baseDaily.BeanVolume)
		if daily.ID == baseDaily.ID {
			daily.DeltaListedPods = bigdec.Add(daily.DeltaListedPods, baseDaily.DeltaListedPods)
			daily.DeltaAvailableListedPods = bigdec.Add(daily.DeltaAvailableListedPods, baseDaily.DeltaAvailableListedPods)
			daily.DeltaFilledListedPods = bigdec.Add(daily.DeltaFilledListedPods, baseDaily.DeltaFilledListedPods)
			daily.DeltaExpiredListedPods = bigdec.Add(daily.DeltaExpiredListedPods, baseDaily.DeltaExpiredListedPods)
			daily.DeltaCancelledListedPods = bigdec.Add(daily.DeltaCancelledListedPods, baseDaily.DeltaCancelledListedPods)
			daily.DeltaOrderBeans = bigdec.Add(daily.DeltaOrderBeans, baseDaily.DeltaOrderBeans)
			daily.DeltaAvailableOrderBeans = bigdec.Add(daily.DeltaAvailableOrderBeans, baseDaily.DeltaAvailableOrderBeans)
			daily.DeltaFilledOrderedPods = bigdec.Add(daily.DeltaFilledOrderedPods, baseDaily.DeltaFilledOrderedPods)
			daily.DeltaFilledOrderBeans = bigdec.Add(daily.DeltaFilledOrderBeans, baseDaily.DeltaFilledOrderBeans)
			daily.DeltaCancelledOrderBeans = bigdec.Add(daily.DeltaCancelledOrderBeans, baseDaily.DeltaCancelledOrderBeans)
			daily.DeltaPodVolume = bigdec.Add(daily.DeltaPodVolume, baseDaily.DeltaPodVolume)
			daily.DeltaBeanVolume = bigdec.Add(daily.DeltaBeanVolume, baseDaily.DeltaBeanVolume)
			daily.CreatedAt = baseDaily.CreatedAt
		} else {
			daily.CreatedAt = timestamp
		}
	} else {
		daily.DeltaListedPods = bigdec.Copy(daily.ListedPods)
		daily.DeltaAvailableListedPods = bigdec.Copy(daily.AvailableListedPods)
		daily.DeltaFilledListedPods = bigdec.Copy(daily.FilledListedPods)
		daily.DeltaExpiredListedPods = bigdec.Copy(daily.ExpiredListedPods)
		daily.DeltaCancelledListedPods = bigdec.Copy(daily.CancelledListedPods)
		daily.DeltaOrderBeans = bigdec.Copy(daily.OrderBeans)
		daily.DeltaAvailableOrderBeans = bigdec.Copy(daily.AvailableOrderBeans)
		daily.DeltaFilledOrderedPods = bigdec.Copy(daily.FilledOrderedPods)
		daily.DeltaFilledOrderBeans = bigdec.Copy(daily.FilledOrderBeans)
		daily.DeltaCancelledOrderBeans = bigdec.Copy(daily.CancelledOrderBeans)
		daily.DeltaPodVolume = bigdec.Copy(daily.PodVolume)
		daily.DeltaBeanVolume = bigdec.Copy(daily.BeanVolume)
		daily.CreatedAt = timestamp
	}
	daily.UpdatedAt = timestamp
	s.MarketDaily.SaveID(dailyID, daily)

	market.LastHourlySnapshotSeason = season
	market.LastDailySnapshotDay = day
}

// ClearMarketDeltas zeroes every delta on the current hourly and daily
// buckets. Used after synthetic migration writes so the bucket does not
// present the import as organic volume.
func ClearMarketDeltas(s *entities.Store, market *entities.PodMarketplace, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)
	if hourly := s.MarketHourly.LoadID(entities.HourlyID(market.ID, season)); hourly != nil {
		hourly.DeltaListedPods = bigdec.Zero()
		hourly.DeltaAvailableListedPods = bigdec.Zero()
		hourly.DeltaFilledListedPods = bigdec.Zero()
		hourly.DeltaExpiredListedPods = bigdec.Zero()
		hourly.DeltaCancelledListedPods = bigdec.Zero()
		hourly.DeltaOrderBeans = bigdec.Zero()
		hourly.DeltaAvailableOrderBeans = bigdec.Zero()
		hourly.DeltaFilledOrderedPods = bigdec.Zero()
		hourly.DeltaFilledOrderBeans = bigdec.Zero()
		hourly.DeltaCancelledOrderBeans = bigdec.Zero()
		hourly.DeltaPodVolume = bigdec.Zero()
		hourly.DeltaBeanVolume = bigdec.Zero()
		s.MarketHourly.SaveID(hourly.ID, hourly)
	}
	if daily := s.MarketDaily.LoadID(entities.DailyID(market.ID, day)); daily != nil {
		daily.DeltaListedPods = bigdec.Zero()
		daily.DeltaAvailableListedPods = bigdec.Zero()
		daily.DeltaFilledListedPods = bigdec.Zero()
		daily.DeltaExpiredListedPods = bigdec.Zero()
		daily.DeltaCancelledListedPods = bigdec.Zero()
		daily.DeltaOrderBeans = bigdec.Zero()
		daily.DeltaAvailableOrderBeans = bigdec.Zero()
		daily.DeltaFilledOrderedPods = bigdec.Zero()
		daily.DeltaFilledOrderBeans = bigdec.Zero()
		daily.DeltaCancelledOrderBeans = bigdec.Zero()
		daily.DeltaPodVolume = bigdec.Zero()
		daily.DeltaBeanVolume = bigdec.Zero()
		s.MarketDaily.SaveID(daily.ID, daily)
	}
}
