// Package snapshots maintains hourly and daily rollups for every mutable
// aggregate entity. Each take copies the parent's current absolute values
// into the bucket row and re-derives the bucket's running deltas.
//
// Three cases per take: first-ever (delta = value), new-bucket (delta =
// value - previous bucket's value), and same-bucket (the fresh delta is
// added onto the bucket's accumulated delta). Rows are always rebuilt from
// scratch so a same-bucket base is never mutated through aliasing.
//
// Hourly and daily paths are written out twice on purpose; the two row
// types share no interface and keeping them flat makes the carry-over
// fields visible.
package snapshots

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

// TakeFieldSnapshots rolls the field's current state into its hourly and
// daily buckets. The caller saves the parent entity.
func TakeFieldSnapshots(s *entities.Store, field *entities.Field, timestamp, blockNumber uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)

	hourlyID := entities.HourlyID(field.ID, season)
	dailyID := entities.DailyID(field.ID, day)

	baseHourly := s.FieldHourly.LoadID(hourlyID)
	if baseHourly == nil && field.LastHourlySnapshotSeason != 0 {
		baseHourly = s.FieldHourly.LoadID(entities.HourlyID(field.ID, field.LastHourlySnapshotSeason))
	}
	baseDaily := s.FieldDaily.LoadID(dailyID)
	if baseDaily == nil && field.LastDailySnapshotDay != 0 {
		baseDaily = s.FieldDaily.LoadID(entities.DailyID(field.ID, field.LastDailySnapshotDay))
	}

	hourly := &entities.FieldHourlySnapshot{
		ID:                hourlyID,
		Field:             field.ID,
		Season:            season,
		Temperature:       field.Temperature,
		RealRateOfReturn:  field.RealRateOfReturn,
		NumberOfSowers:    field.NumberOfSowers,
		NumberOfSows:      field.NumberOfSows,
		SownBeans:         bigdec.Copy(field.SownBeans),
		UnharvestablePods: bigdec.Copy(field.UnharvestablePods),
		HarvestablePods:   bigdec.Copy(field.HarvestablePods),
		HarvestedPods:     bigdec.Copy(field.HarvestedPods),
		Soil:              bigdec.Copy(field.Soil),
		PodIndex:          bigdec.Copy(field.PodIndex),
		PodRate:           field.PodRate,
	}

	if baseHourly != nil {
		hourly.DeltaTemperature = hourly.Temperature.Sub(baseHourly.Temperature)
		hourly.DeltaRealRateOfReturn = hourly.RealRateOfReturn.Sub(baseHourly.RealRateOfReturn)
		hourly.DeltaNumberOfSowers = hourly.NumberOfSowers - baseHourly.NumberOfSowers
		hourly.DeltaNumberOfSows = hourly.NumberOfSows - baseHourly.NumberOfSows
		hourly.DeltaSownBeans = bigdec.Sub(hourly.SownBeans, baseHourly.SownBeans)
		hourly.DeltaUnharvestablePods = bigdec.Sub(hourly.UnharvestablePods, baseHourly.UnharvestablePods)
		hourly.DeltaHarvestablePods = bigdec.Sub(hourly.HarvestablePods, baseHourly.HarvestablePods)
		hourly.DeltaHarvestedPods = bigdec.Sub(hourly.HarvestedPods, baseHourly.HarvestedPods)
		hourly.DeltaSoil = bigdec.Sub(hourly.Soil, baseHourly.Soil)
		hourly.DeltaPodIndex = bigdec.Sub(hourly.PodIndex, baseHourly.PodIndex)
		hourly.DeltaPodRate = hourly.PodRate.Sub(baseHourly.PodRate)

		if hourly.ID == baseHourly.ID {
			hourly.DeltaTemperature = hourly.DeltaTemperature.Add(baseHourly.DeltaTemperature)
			hourly.DeltaRealRateOfReturn = hourly.DeltaRealRateOfReturn.Add(baseHourly.DeltaRealRateOfReturn)
			hourly.DeltaNumberOfSowers += baseHourly.DeltaNumberOfSowers
			hourly.DeltaNumberOfSows += baseHourly.DeltaNumberOfSows
			hourly.DeltaSownBeans = bigdec.Add(hourly.DeltaSownBeans, baseHourly.DeltaSownBeans)
			hourly.DeltaUnharvestablePods = bigdec.Add(hourly.DeltaUnharvestablePods, baseHourly.DeltaUnharvestablePods)
			hourly.DeltaHarvestablePods = bigdec.Add(hourly.DeltaHarvestablePods, baseHourly.DeltaHarvestablePods)
			hourly.DeltaHarvestedPods = bigdec.Add(hourly.DeltaHarvestedPods, baseHourly.DeltaHarvestedPods)
			hourly.DeltaSoil = bigdec.Add(hourly.DeltaSoil, baseHourly.DeltaSoil)
			hourly.DeltaPodIndex = bigdec.Add(hourly.DeltaPodIndex, baseHourly.DeltaPodIndex)
			hourly.DeltaPodRate = hourly.DeltaPodRate.Add(baseHourly.DeltaPodRate)
			// Carry over fields set once per bucket.
			hourly.IssuedSoil = baseHourly.IssuedSoil
			hourly.DeltaIssuedSoil = baseHourly.DeltaIssuedSoil
			hourly.SeasonBlock = baseHourly.SeasonBlock
			hourly.CaseID = baseHourly.CaseID
			hourly.SoilSoldOut = baseHourly.SoilSoldOut
			hourly.BlocksToSoldOutSoil = baseHourly.BlocksToSoldOutSoil
			hourly.CreatedAt = baseHourly.CreatedAt
		} else {
			hourly.IssuedSoil = bigdec.Copy(field.Soil)
			hourly.DeltaIssuedSoil = bigdec.Sub(field.Soil, baseHourly.IssuedSoil)
			hourly.SeasonBlock = blockNumber
			hourly.CreatedAt = timestamp
		}
	} else {
		hourly.DeltaTemperature = hourly.Temperature
		hourly.DeltaRealRateOfReturn = hourly.RealRateOfReturn
		hourly.DeltaNumberOfSowers = hourly.NumberOfSowers
		hourly.DeltaNumberOfSows = hourly.NumberOfSows
		hourly.DeltaSownBeans = bigdec.Copy(hourly.SownBeans)
		hourly.DeltaUnharvestablePods = bigdec.Copy(hourly.UnharvestablePods)
		hourly.DeltaHarvestablePods = bigdec.Copy(hourly.HarvestablePods)
		hourly.DeltaHarvestedPods = bigdec.Copy(hourly.HarvestedPods)
		hourly.DeltaSoil = bigdec.Copy(hourly.Soil)
		hourly.DeltaPodIndex = bigdec.Copy(hourly.PodIndex)
		hourly.DeltaPodRate = hourly.PodRate

		hourly.IssuedSoil = bigdec.Copy(field.Soil)
		hourly.DeltaIssuedSoil = bigdec.Copy(field.Soil)
		hourly.SeasonBlock = blockNumber
		hourly.CreatedAt = timestamp
	}
	hourly.UpdatedAt = timestamp
	s.FieldHourly.SaveID(hourlyID, hourly)

	daily := &entities.FieldDailySnapshot{
		ID:                dailyID,
		Field:             field.ID,
		Season:            season,
		Day:               day,
		Temperature:       field.Temperature,
		RealRateOfReturn:  field.RealRateOfReturn,
		NumberOfSowers:    field.NumberOfSowers,
		NumberOfSows:      field.NumberOfSows,
		SownBeans:         bigdec.Copy(field.SownBeans),
		UnharvestablePods: bigdec.Copy(field.UnharvestablePods),
		HarvestablePods:   bigdec.Copy(field.HarvestablePods),
		HarvestedPods:     bigdec.Copy(field.HarvestedPods),
		Soil:              bigdec.Copy(field.Soil),
		PodIndex:          bigdec.Copy(field.PodIndex),
		PodRate:           field.PodRate,
	}

	if baseDaily != nil {
		daily.DeltaTemperature = daily.Temperature.Sub(baseDaily.Temperature)
		daily.DeltaRealRateOfReturn = daily.RealRateOfReturn.Sub(baseDaily.RealRateOfReturn)
		daily.DeltaNumberOfSowers = daily.NumberOfSowers - baseDaily.NumberOfSowers
		daily.DeltaNumberOfSows = daily.NumberOfSows - baseDaily.NumberOfSows
		daily.DeltaSownBeans = bigdec.Sub(daily.SownBeans, baseDaily.SownBeans)
		daily.DeltaUnharvestablePods = bigdec.Sub(daily.UnharvestablePods, baseDaily.UnharvestablePods)
		daily.DeltaHarvestablePods = bigdec.Sub(daily.HarvestablePods, baseDaily.HarvestablePods)
		daily.DeltaHarvestedPods = bigdec.Sub(daily.HarvestedPods, baseDaily.HarvestedPods)
		daily.DeltaSoil = bigdec.Sub(daily.Soil, baseDaily.Soil)
		daily.DeltaPodIndex = bigdec.Sub(daily.PodIndex, baseDaily.PodIndex)
		daily.DeltaPodRate = daily.PodRate.Sub(baseDaily.PodRate)

		if daily.ID == baseDaily.ID {
			daily.DeltaTemperature = daily.DeltaTemperature.Add(baseDaily.DeltaTemperature)
			daily.DeltaRealRateOfReturn = daily.DeltaRealRateOfReturn.Add(baseDaily.DeltaRealRateOfReturn)
			daily.DeltaNumberOfSowers += baseDaily.DeltaNumberOfSowers
			daily.DeltaNumberOfSows += baseDaily.DeltaNumberOfSows
			daily.DeltaSownBeans = bigdec.Add(daily.DeltaSownBeans, baseDaily.DeltaSownBeans)
			daily.DeltaUnharvestablePods = bigdec.Add(daily.DeltaUnharvestablePods, baseDaily.DeltaUnharvestablePods)
			daily.DeltaHarvestablePods = bigdec.Add(daily.DeltaHarvestablePods, baseDaily.DeltaHarvestablePods)
			daily.DeltaHarvestedPods = bigdec.Add(daily.DeltaHarvestedPods, baseDaily.DeltaHarvestedPods)
			daily.DeltaSoil = bigdec.Add(daily.DeltaSoil, baseDaily.DeltaSoil)
			daily.DeltaPodIndex = bigdec.Add(daily.DeltaPodIndex, baseDaily.DeltaPodIndex)
			daily.DeltaPodRate = daily.DeltaPodRate.Add(baseDaily.DeltaPodRate)
			daily.IssuedSoil = baseDaily.IssuedSoil
			daily.DeltaIssuedSoil = baseDaily.DeltaIssuedSoil
			daily.CreatedAt = baseDaily.CreatedAt
		} else {
			daily.IssuedSoil = bigdec.Copy(field.Soil)
			daily.DeltaIssuedSoil = bigdec.Sub(field.Soil, baseDaily.IssuedSoil)
			daily.CreatedAt = timestamp
		}
	} else {
		daily.DeltaTemperature = daily.Temperature
		daily.DeltaRealRateOfReturn = daily.RealRateOfReturn
		daily.DeltaNumberOfSowers = daily.NumberOfSowers
		daily.DeltaNumberOfSows = daily.NumberOfSows
		daily.DeltaSownBeans = bigdec.Copy(daily.SownBeans)
		daily.DeltaUnharvestablePods = bigdec.Copy(daily.UnharvestablePods)
		daily.DeltaHarvestablePods = bigdec.Copy(daily.HarvestablePods)
		daily.DeltaHarvestedPods = bigdec.Copy(daily.HarvestedPods)
		daily.DeltaSoil = bigdec.Copy(daily.Soil)
		daily.DeltaPodIndex = bigdec.Copy(daily.PodIndex)
		daily.DeltaPodRate = daily.PodRate

		daily.IssuedSoil = bigdec.Copy(field.Soil)
		daily.DeltaIssuedSoil = bigdec.Copy(field.Soil)
		daily.CreatedAt = timestamp
	}
	daily.UpdatedAt = timestamp
	s.FieldDaily.SaveID(dailyID, daily)

	field.LastHourlySnapshotSeason = season
	field.LastDailySnapshotDay = day
}

// SetFieldHourlyCaseID stamps the weather case id on the current hourly
// bucket. Panics when the bucket was never taken; a case id without a
// preceding snapshot is a sequencing bug upstream.
func SetFieldHourlyCaseID(s *entities.Store, caseID *big.Int, field *entities.Field) {
	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, field.LastHourlySnapshotSeason))
	hourly.CaseID = bigdec.Copy(caseID)
	s.FieldHourly.SaveID(hourly.ID, hourly)
}

// SetFieldHourlySoilSoldOut marks the current hourly bucket's soil as sold
// out and records how many blocks into the season that happened. Panics when
// the bucket was never taken.
func SetFieldHourlySoilSoldOut(s *entities.Store, soldOutBlock uint64, field *entities.Field) {
	hourly := s.FieldHourly.MustLoadID(entities.HourlyID(field.ID, field.LastHourlySnapshotSeason))
	hourly.BlocksToSoldOutSoil = bigdec.BI(int64(soldOutBlock - hourly.SeasonBlock))
	hourly.SoilSoldOut = true
	s.FieldHourly.SaveID(hourly.ID, hourly)
}
