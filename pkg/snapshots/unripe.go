package snapshots

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/shopspring/decimal"
)

// TakeUnripeTokenSnapshots rolls an unripe token's chop statistics into its
// hourly and daily buckets. The underlying-token delta is a changed flag
// rather than a difference.
func TakeUnripeTokenSnapshots(s *entities.Store, ut *entities.UnripeToken, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)

	hourlyID := entities.HourlyID(ut.ID, season)
	dailyID := entities.DailyID(ut.ID, day)

	baseHourly := s.UnripeHourly.LoadID(hourlyID)
	if baseHourly == nil && ut.LastHourlySnapshotSeason != 0 {
		baseHourly = s.UnripeHourly.LoadID(entities.HourlyID(ut.ID, ut.LastHourlySnapshotSeason))
	}
	baseDaily := s.UnripeDaily.LoadID(dailyID)
	if baseDaily == nil && ut.LastDailySnapshotDay != 0 {
		baseDaily = s.UnripeDaily.LoadID(entities.DailyID(ut.ID, ut.LastDailySnapshotDay))
	}

	hourly := &entities.UnripeTokenHourlySnapshot{
		ID:                      hourlyID,
		UnripeToken:             ut.ID,
		Season:                  season,
		UnderlyingToken:         ut.UnderlyingToken,
		TotalUnderlying:         bigdec.Copy(ut.TotalUnderlying),
		AmountUnderlyingOne:     bigdec.Copy(ut.AmountUnderlyingOne),
		BdvUnderlyingOne:        bigdec.Copy(ut.BdvUnderlyingOne),
		ChoppableAmountOne:      bigdec.Copy(ut.ChoppableAmountOne),
		ChoppableBdvOne:         bigdec.Copy(ut.ChoppableBdvOne),
		ChopRate:                ut.ChopRate,
		RecapPercent:            ut.RecapPercent,
		TotalChoppedAmount:      bigdec.Copy(ut.TotalChoppedAmount),
		TotalChoppedBdv:         bigdec.Copy(ut.TotalChoppedBdv),
		TotalChoppedBdvReceived: bigdec.Copy(ut.TotalChoppedBdvReceived),
	}
	if baseHourly != nil {
		hourly.DeltaUnderlyingToken = hourly.UnderlyingToken != baseHourly.UnderlyingToken
		hourly.DeltaTotalUnderlying = bigdec.Sub(hourly.TotalUnderlying, baseHourly.TotalUnderlying)
		hourly.DeltaAmountUnderlyingOne = bigdec.Sub(hourly.AmountUnderlyingOne, baseHourly.AmountUnderlyingOne)
		hourly.DeltaBdvUnderlyingOne = bigdec.Sub(hourly.BdvUnderlyingOne, baseHourly.BdvUnderlyingOne)
		hourly.DeltaChoppableAmountOne = bigdec.Sub(hourly.ChoppableAmountOne, baseHourly.ChoppableAmountOne)
		hourly.DeltaChoppableBdvOne = bigdec.Sub(hourly.ChoppableBdvOne, baseHourly.ChoppableBdvOne)
		hourly.DeltaChopRate = hourly.ChopRate.Sub(baseHourly.ChopRate)
		hourly.DeltaRecapPercent = hourly.RecapPercent.Sub(baseHourly.RecapPercent)
		hourly.DeltaTotalChoppedAmount = bigdec.Sub(hourly.TotalChoppedAmount, baseHourly.TotalChoppedAmount)
		hourly.DeltaTotalChoppedBdv = bigdec.Sub(hourly.TotalChoppedBdv, baseHourly.TotalChoppedBdv)
		hourly.DeltaTotalChoppedBdvReceived = bigdec.Sub(hourly.TotalChoppedBdvReceived, baseHourly.TotalChoppedBdvReceived)
		if hourly.ID == baseHourly.ID {
			hourly.DeltaUnderlyingToken = hourly.DeltaUnderlyingToken || baseHourly.DeltaUnderlyingToken
			hourly.DeltaTotalUnderlying = bigdec.Add(hourly.DeltaTotalUnderlying, baseHourly.DeltaTotalUnderlying)
			hourly.DeltaAmountUnderlyingOne = bigdec.Add(hourly.DeltaAmountUnderlyingOne, baseHourly.DeltaAmountUnderlyingOne)
			hourly.DeltaBdvUnderlyingOne = bigdec.Add(hourly.DeltaBdvUnderlyingOne, baseHourly.DeltaBdvUnderlyingOne)
			hourly.DeltaChoppableAmountOne = bigdec.Add(hourly.DeltaChoppableAmountOne, baseHourly.DeltaChoppableAmountOne)
			hourly.DeltaChoppableBdvOne = bigdec.Add(hourly.DeltaChoppableBdvOne, baseHourly.DeltaChoppableBdvOne)
			hourly.DeltaChopRate = hourly.DeltaChopRate.Add(baseHourly.DeltaChopRate)
			hourly.DeltaRecapPercent = hourly.DeltaRecapPercent.Add(baseHourly.DeltaRecapPercent)
			hourly.DeltaTotalChoppedAmount = bigdec.Add(hourly.DeltaTotalChoppedAmount, baseHourly.DeltaTotalChoppedAmount)
			hourly.DeltaTotalChoppedBdv = bigdec.Add(hourly.DeltaTotalChoppedBdv, baseHourly.DeltaTotalChoppedBdv)
			hourly.DeltaTotalChoppedBdvReceived = bigdec.Add(hourly.DeltaTotalChoppedBdvReceived, baseHourly.DeltaTotalChoppedBdvReceived)
			hourly.CreatedAt = baseHourly.CreatedAt
		} else {
			hourly.CreatedAt = timestamp
		}
	} else {
		hourly.DeltaTotalUnderlying = bigdec.Copy(hourly.TotalUnderlying)
		hourly.DeltaAmountUnderlyingOne = bigdec.Copy(hourly.AmountUnderlyingOne)
		hourly.DeltaBdvUnderlyingOne = bigdec.Copy(hourly.BdvUnderlyingOne)
		hourly.DeltaChoppableAmountOne = bigdec.Copy(hourly.ChoppableAmountOne)
		hourly.DeltaChoppableBdvOne = bigdec.Copy(hourly.ChoppableBdvOne)
		hourly.DeltaChopRate = hourly.ChopRate
		hourly.DeltaRecapPercent = hourly.RecapPercent
		hourly.DeltaTotalChoppedAmount = bigdec.Copy(hourly.TotalChoppedAmount)
		hourly.DeltaTotalChoppedBdv = bigdec.Copy(hourly.TotalChoppedBdv)
		hourly.DeltaTotalChoppedBdvReceived = bigdec.Copy(hourly.TotalChoppedBdvReceived)
		hourly.CreatedAt = timestamp
	}
	hourly.UpdatedAt = timestamp
	s.UnripeHourly.SaveID(hourlyID, hourly)

	daily := &entities.UnripeTokenDailySnapshot{
		ID:                      dailyID,
		UnripeToken:             ut.ID,
		Season:                  season,
		Day:                     day,
		UnderlyingToken:         ut.UnderlyingToken,
		TotalUnderlying:         bigdec.Copy(ut.TotalUnderlying),
		AmountUnderlyingOne:     bigdec.Copy(ut.AmountUnderlyingOne),
		BdvUnderlyingOne:        bigdec.Copy(ut.BdvUnderlyingOne),
		ChoppableAmountOne:      bigdec.Copy(ut.ChoppableAmountOne),
		ChoppableBdvOne:         bigdec.Copy(ut.ChoppableBdvOne),
		ChopRate:                ut.ChopRate,
		RecapPercent:            ut.RecapPercent,
		TotalChoppedAmount:      bigdec.Copy(ut.TotalChoppedAmount),
		TotalChoppedBdv:         bigdec.Copy(ut.TotalChoppedBdv),
		TotalChoppedBdvReceived: bigdec.Copy(ut.TotalChoppedBdvReceived),
	}
	if baseDaily != nil {
		daily.DeltaUnderlyingToken = daily.UnderlyingToken != baseDaily.UnderlyingToken
		daily.DeltaTotalUnderlying = bigdec.Sub(daily.TotalUnderlying, baseDaily.TotalUnderlying)
		daily.DeltaAmountUnderlyingOne = bigdec.Sub(daily.AmountUnderlyingOne, baseDaily.AmountUnderlyingOne)
		daily.DeltaBdvUnderlyingOne = bigdec.Sub(daily.BdvUnderlyingOne, baseDaily.BdvUnderlyingOne)
		daily.DeltaChoppableAmountOne = bigdec.Sub(daily.ChoppableAmountOne, baseDaily.ChoppableAmountOne)
		daily.DeltaChoppableBdvOne = bigdec.Sub(daily.ChoppableBdvOne, baseDaily.ChoppableBdvOne)
		daily.DeltaChopRate = daily.ChopRate.Sub(baseDaily.ChopRate)
		daily.DeltaRecapPercent = daily.RecapPercent.Sub(baseDaily.RecapPercent)
		daily.DeltaTotalChoppedAmount = bigdec.Sub(daily.TotalChoppedAmount, baseDaily.TotalChoppedAmount)
		daily.DeltaTotalChoppedBdv = bigdec.Sub(daily.TotalChoppedBdv, baseDaily.TotalChoppedBdv)
		daily.DeltaTotalChoppedBdvReceived = bigdec.Sub(daily.TotalChoppedBdvReceived, baseDaily.TotalChoppedBdvReceived)
		if daily.ID == baseDaily.ID {
			daily.DeltaUnderlyingToken = daily.DeltaUnderlyingToken || baseDaily.DeltaUnderlyingToken
			daily.DeltaTotalUnderlying = bigdec.Add(daily.DeltaTotalUnderlying, baseDaily.DeltaTotalUnderlying)
			daily.DeltaAmountUnderlyingOne = bigdec.Add(daily.DeltaAmountUnderlyingOne, baseDaily.DeltaAmountUnderlyingOne)
			daily.DeltaBdvUnderlyingOne = bigdec.Add(daily.DeltaBdvUnderlyingOne, baseDaily.DeltaBdvUnderlyingOne)
			daily.DeltaChoppableAmountOne = bigdec.Add(daily.DeltaChoppableAmountOne, baseDaily.DeltaChoppableAmountOne)
			daily.DeltaChoppableBdvOne = bigdec.Add(daily.DeltaChoppableBdvOne, baseDaily.DeltaChoppableBdvOne)
			daily.DeltaChopRate = daily.DeltaChopRate.Add(baseDaily.DeltaChopRate)
			daily.DeltaRecapPercent = daily.DeltaRecapPercent.Add(baseDaily.DeltaRecapPercent)
			daily.DeltaTotalChoppedAmount = bigdec.Add(daily.DeltaTotalChoppedAmount, baseDaily.DeltaTotalChoppedAmount)
			daily.DeltaTotalChoppedBdv = bigdec.Add(daily.DeltaTotalChoppedBdv, baseDaily.DeltaTotalChoppedBdv)
			daily.DeltaTotalChoppedBdvReceived = bigdec.Add(daily.DeltaTotalChoppedBdvReceived, baseDaily.DeltaTotalChoppedBdvReceived)
			daily.CreatedAt = baseDaily.CreatedAt
		} else {
			daily.CreatedAt = timestamp
		}
	} else {
		daily.DeltaTotalUnderlying = bigdec.Copy(daily.TotalUnderlying)
		daily.DeltaAmountUnderlyingOne = bigdec.Copy(daily.AmountUnderlyingOne)
		daily.DeltaBdvUnderlyingOne = bigdec.Copy(daily.BdvUnderlyingOne)
		daily.DeltaChoppableAmountOne = bigdec.Copy(daily.ChoppableAmountOne)
		daily.DeltaChoppableBdvOne = bigdec.Copy(daily.ChoppableBdvOne)
		daily.DeltaChopRate = daily.ChopRate
		daily.DeltaRecapPercent = daily.RecapPercent
		daily.DeltaTotalChoppedAmount = bigdec.Copy(daily.TotalChoppedAmount)
		daily.DeltaTotalChoppedBdv = bigdec.Copy(daily.TotalChoppedBdv)
		daily.DeltaTotalChoppedBdvReceived = bigdec.Copy(daily.TotalChoppedBdvReceived)
		daily.CreatedAt = timestamp
	}
	daily.UpdatedAt = timestamp
	s.UnripeDaily.SaveID(dailyID, daily)

	ut.LastHourlySnapshotSeason = season
	ut.LastDailySnapshotDay = day
}

// ClearUnripeTokenDeltas zeroes every delta on the current hourly and daily
// buckets.
func ClearUnripeTokenDeltas(s *entities.Store, ut *entities.UnripeToken, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)
	if hourly := s.UnripeHourly.LoadID(entities.HourlyID(ut.ID, season)); hourly != nil {
		hourly.DeltaUnderlyingToken = false
		hourly.DeltaTotalUnderlying = bigdec.Zero()
		hourly.DeltaAmountUnderlyingOne = bigdec.Zero()
		hourly.DeltaBdvUnderlyingOne = bigdec.Zero()
		hourly.DeltaChoppableAmountOne = bigdec.Zero()
		hourly.DeltaChoppableBdvOne = bigdec.Zero()
		hourly.DeltaChopRate = decimal.Zero
		hourly.DeltaRecapPercent = decimal.Zero
		hourly.DeltaTotalChoppedAmount = bigdec.Zero()
		hourly.DeltaTotalChoppedBdv = bigdec.Zero()
		hourly.DeltaTotalChoppedBdvReceived = bigdec.Zero()
		s.UnripeHourly.SaveID(hourly.ID, hourly)
	}
	if daily := s.UnripeDaily.LoadID(entities.DailyID(ut.ID, day)); daily != nil {
		daily.DeltaUnderlyingToken = false
		daily.DeltaTotalUnderlying = bigdec.Zero()
		daily.DeltaAmountUnderlyingOne = bigdec.Zero()
		daily.DeltaBdvUnderlyingOne = bigdec.Zero()
		daily.DeltaChoppableAmountOne = bigdec.Zero()
		daily.DeltaChoppableBdvOne = bigdec.Zero()
		daily.DeltaChopRate = decimal.Zero
		daily.DeltaRecapPercent = decimal.Zero
		daily.DeltaTotalChoppedAmount = bigdec.Zero()
		daily.DeltaTotalChoppedBdv = bigdec.Zero()
		daily.DeltaTotalChoppedBdvReceived = bigdec.Zero()
		s.UnripeDaily.SaveID(daily.ID, daily)
	}
}
