package snapshots

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

// TakeSiloAssetSnapshots rolls a (silo, token) asset aggregate into its
// hourly and daily buckets.
func TakeSiloAssetSnapshots(s *entities.Store, asset *entities.SiloAsset, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)

	hourlyID := entities.HourlyID(asset.ID, season)
	dailyID := entities.DailyID(asset.ID, day)

	baseHourly := s.SiloAssetHourly.LoadID(hourlyID)
	if baseHourly == nil && asset.LastHourlySnapshotSeason != 0 {
		baseHourly = s.SiloAssetHourly.LoadID(entities.HourlyID(asset.ID, asset.LastHourlySnapshotSeason))
	}
	baseDaily := s.SiloAssetDaily.LoadID(dailyID)
	if baseDaily == nil && asset.LastDailySnapshotDay != 0 {
		baseDaily = s.SiloAssetDaily.LoadID(entities.DailyID(asset.ID, asset.LastDailySnapshotDay))
	}

	hourly := &entities.SiloAssetHourlySnapshot{
		ID:              hourlyID,
		SiloAsset:       asset.ID,
		Season:          season,
		DepositedBDV:    bigdec.Copy(asset.DepositedBDV),
		DepositedAmount: bigdec.Copy(asset.DepositedAmount),
		WithdrawnAmount: bigdec.Copy(asset.WithdrawnAmount),
		FarmAmount:      bigdec.Copy(asset.FarmAmount),
	}
	if baseHourly != nil {
		hourly.DeltaDepositedBDV = bigdec.Sub(hourly.DepositedBDV, baseHourly.DepositedBDV)
		hourly.DeltaDepositedAmount = bigdec.Sub(hourly.DepositedAmount, baseHourly.DepositedAmount)
		hourly.DeltaWithdrawnAmount = bigdec.Sub(hourly.WithdrawnAmount, baseHourly.WithdrawnAmount)
		hourly.DeltaFarmAmount = bigdec.Sub(hourly.FarmAmount, baseHourly.FarmAmount)
		if hourly.ID == baseHourly.ID {
			hourly.DeltaDepositedBDV = bigdec.Add(hourly.DeltaDepositedBDV, baseHourly.DeltaDepositedBDV)
			hourly.DeltaDepositedAmount = bigdec.Add(hourly.DeltaDepositedAmount, baseHourly.DeltaDepositedAmount)
			hourly.DeltaWithdrawnAmount = bigdec.Add(hourly.DeltaWithdrawnAmount, baseHourly.DeltaWithdrawnAmount)
			hourly.DeltaFarmAmount = bigdec.Add(hourly.DeltaFarmAmount, baseHourly.DeltaFarmAmount)
			hourly.CreatedAt = baseHourly.CreatedAt
		} else {
			hourly.CreatedAt = timestamp
		}
	} else {
		hourly.DeltaDepositedBDV = bigdec.Copy(hourly.DepositedBDV)
		hourly.DeltaDepositedAmount = bigdec.Copy(hourly.DepositedAmount)
		hourly.DeltaWithdrawnAmount = bigdec.Copy(hourly.WithdrawnAmount)
		hourly.DeltaFarmAmount = bigdec.Copy(hourly.FarmAmount)
		hourly.CreatedAt = timestamp
	}
	hourly.UpdatedAt = timestamp
	s.SiloAssetHourly.SaveID(hourlyID, hourly)

	daily := &entities.SiloAssetDailySnapshot{
		ID:              dailyID,
		SiloAsset:       asset.ID,
		Season:          season,
		Day:             day,
		DepositedBDV:    bigdec.Copy(asset.DepositedBDV),
		DepositedAmount: bigdec.Copy(asset.DepositedAmount),
		WithdrawnAmount: bigdec.Copy(asset.WithdrawnAmount),
		FarmAmount:      bigdec.Copy(asset.FarmAmount),
	}
	if baseDaily != nil {
		daily.DeltaDepositedBDV = bigdec.Sub(daily.DepositedBDV, baseDaily.DepositedBDV)
		daily.DeltaDepositedAmount = bigdec.Sub(daily.DepositedAmount, baseDaily.DepositedAmount)
		daily.DeltaWithdrawnAmount = bigdec.Sub(daily.WithdrawnAmount, baseDaily.WithdrawnAmount)
		daily.DeltaFarmAmount = bigdec.Sub(daily.FarmAmount, baseDaily.FarmAmount)
		if daily.ID == baseDaily.ID {
			daily.DeltaDepositedBDV = bigdec.Add(daily.DeltaDepositedBDV, baseDaily.DeltaDepositedBDV)
			daily.DeltaDepositedAmount = bigdec.Add(daily.DeltaDepositedAmount, baseDaily.DeltaDepositedAmount)
			daily.DeltaWithdrawnAmount = bigdec.Add(daily.DeltaWithdrawnAmount, baseDaily.DeltaWithdrawnAmount)
			daily.DeltaFarmAmount = bigdec.Add(daily.DeltaFarmAmount, baseDaily.DeltaFarmAmount)
			daily.CreatedAt = baseDaily.CreatedAt
		} else {
			daily.CreatedAt = timestamp
		}
	} else {
		daily.DeltaDepositedBDV = bigdec.Copy(daily.DepositedBDV)
		daily.DeltaDepositedAmount = bigdec.Copy(daily.DepositedAmount)
		daily.DeltaWithdrawnAmount = bigdec.Copy(daily.WithdrawnAmount)
		daily.DeltaFarmAmount = bigdec.Copy(daily.FarmAmount)
		daily.CreatedAt = timestamp
	}
	daily.UpdatedAt = timestamp
	s.SiloAssetDaily.SaveID(dailyID, daily)

	asset.LastHourlySnapshotSeason = season
	asset.LastDailySnapshotDay = day
}
