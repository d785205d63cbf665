package snapshots

import (
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/bigdec"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
)

// TakeSiloSnapshots rolls the silo's current state into its hourly and daily
// buckets. The bean-to-max-LP ratio is copied absolute but carries no delta.
func TakeSiloSnapshots(s *entities.Store, silo *entities.Silo, timestamp uint64) {
	season := s.CurrentSeason()
	day := entities.Day(timestamp)

	hourlyID := entities.HourlyID(silo.ID, season)
	dailyID := entities.DailyID(silo.ID, day)

	baseHourly := s.SiloHourly.LoadID(hourlyID)
	if baseHourly == nil && silo.LastHourlySnapshotSeason != 0 {
		baseHourly = s.SiloHourly.LoadID(entities.HourlyID(silo.ID, silo.LastHourlySnapshotSeason))
	}
	baseDaily := s.SiloDaily.LoadID(dailyID)
	if baseDaily == nil && silo.LastDailySnapshotDay != 0 {
		baseDaily = s.SiloDaily.LoadID(entities.DailyID(silo.ID, silo.LastDailySnapshotDay))
	}

	hourly := &entities.SiloHourlySnapshot{
		ID:                  hourlyID,
		Silo:                silo.ID,
		Season:              season,
		DepositedBDV:        bigdec.Copy(silo.DepositedBDV),
		Stalk:               bigdec.Copy(silo.Stalk),
		PlantableStalk:      bigdec.Copy(silo.PlantableStalk),
		Seeds:               bigdec.Copy(silo.Seeds),
		GrownStalkPerSeason: bigdec.Copy(silo.GrownStalkPerSeason),
		Roots:               bigdec.Copy(silo.Roots),
		GerminatingStalk:    bigdec.Copy(silo.GerminatingStalk),
		BeanMints:           bigdec.Copy(silo.BeanMints),
		ActiveFarmers:       silo.ActiveFarmers,
	}
	if silo.BeanToMaxLpGpPerBdvRatio != nil {
		hourly.BeanToMaxLpGpPerBdvRatio = bigdec.Copy(silo.BeanToMaxLpGpPerBdvRatio)
	}

	if baseHourly != nil {
		hourly.DeltaDepositedBDV = bigdec.Sub(hourly.DepositedBDV, baseHourly.DepositedBDV)
		hourly.DeltaStalk = bigdec.Sub(hourly.Stalk, baseHourly.Stalk)
		hourly.DeltaPlantableStalk = bigdec.Sub(hourly.PlantableStalk, baseHourly.PlantableStalk)
		hourly.DeltaSeeds = bigdec.Sub(hourly.Seeds, baseHourly.Seeds)
		hourly.DeltaRoots = bigdec.Sub(hourly.Roots, baseHourly.Roots)
		hourly.DeltaGerminatingStalk = bigdec.Sub(hourly.GerminatingStalk, baseHourly.GerminatingStalk)
		hourly.DeltaBeanMints = bigdec.Sub(hourly.BeanMints, baseHourly.BeanMints)
		hourly.DeltaActiveFarmers = hourly.ActiveFarmers - baseHourly.ActiveFarmers
		if hourly.ID == baseHourly.ID {
			hourly.DeltaDepositedBDV = bigdec.Add(hourly.DeltaDepositedBDV, baseHourly.DeltaDepositedBDV)
			hourly.DeltaStalk = bigdec.Add(hourly.DeltaStalk, baseHourly.DeltaStalk)
			hourly.DeltaPlantableStalk = bigdec.Add(hourly.DeltaPlantableStalk, baseHourly.DeltaPlantableStalk)
			hourly.DeltaSeeds = bigdec.Add(hourly.DeltaSeeds, baseHourly.DeltaSeeds)
			hourly.DeltaRoots = bigdec.Add(hourly.DeltaRoots, baseHourly.DeltaRoots)
			hourly.DeltaGerminatingStalk = bigdec.Add(hourly.DeltaGerminatingStalk, baseHourly.DeltaGerminatingStalk)
			hourly.DeltaBeanMints = bigdec.Add(hourly.DeltaBeanMints, baseHourly.DeltaBeanMints)
			hourly.DeltaActiveFarmers += baseHourly.DeltaActiveFarmers
			// Carry over fields set once per bucket.
			hourly.CaseID = baseHourly.CaseID
			hourly.CreatedAt = baseHourly.CreatedAt
		} else {
			hourly.CreatedAt = timestamp
		}
	} else {
		hourly.DeltaDepositedBDV = bigdec.Copy(hourly.DepositedBDV)
		hourly.DeltaStalk = bigdec.Copy(hourly.Stalk)
		hourly.DeltaPlantableStalk = bigdec.Copy(hourly.PlantableStalk)
		hourly.DeltaSeeds = bigdec.Copy(hourly.Seeds)
		hourly.DeltaRoots = bigdec.Copy(hourly.Roots)
		hourly.DeltaGerminatingStalk = bigdec.Copy(hourly.GerminatingStalk)
		hourly.DeltaBeanMints = bigdec.Copy(hourly.BeanMints)
		hourly.DeltaActiveFarmers = hourly.ActiveFarmers
		hourly.CreatedAt = timestamp
	}
	hourly.UpdatedAt = timestamp
	s.SiloHourly.SaveID(hourlyID, hourly)

	daily := &entities.SiloDailySnapshot{
		ID:                  dailyID,
		Silo:                silo.ID,
		Season:              season,
		Day:                 day,
		DepositedBDV:        bigdec.Copy(silo.DepositedBDV),
		Stalk:               bigdec.Copy(silo.Stalk),
		PlantableStalk:      bigdec.Copy(silo.PlantableStalk),
		Seeds:               bigdec.Copy(silo.Seeds),
		GrownStalkPerSeason: bigdec.Copy(silo.GrownStalkPerSeason),
		Roots:               bigdec.Copy(silo.Roots),
		GerminatingStalk:    bigdec.Copy(silo.GerminatingStalk),
		BeanMints:           bigdec.Copy(silo.BeanMints),
		ActiveFarmers:       silo.ActiveFarmers,
	}
	if silo.BeanToMaxLpGpPerBdvRatio != nil {
		daily.BeanToMaxLpGpPerBdvRatio = bigdec.Copy(silo.BeanToMaxLpGpPerBdvRatio)
	}

	if baseDaily != nil {
		daily.DeltaDepositedBDV = bigdec.Sub(daily.DepositedBDV, baseDaily.DepositedBDV)
		daily.DeltaStalk = bigdec.Sub(daily.Stalk, baseDaily.Stalk)
		daily.DeltaPlantableStalk = bigdec.Sub(daily.PlantableStalk, baseDaily.PlantableStalk)
		daily.DeltaSeeds = bigdec.Sub(daily.Seeds, baseDaily.Seeds)
		daily.DeltaRoots = bigdec.Sub(daily.Roots, baseDaily.Roots)
		daily.DeltaGerminatingStalk = bigdec.Sub(daily.GerminatingStalk, baseDaily.GerminatingStalk)
		daily.DeltaBeanMints = bigdec.Sub(daily.BeanMints, baseDaily.BeanMints)
		daily.DeltaActiveFarmers = daily.ActiveFarmers - baseDaily.ActiveFarmers
		if daily.ID == baseDaily.ID {
			daily.DeltaDepositedBDV = bigdec.Add(daily.DeltaDepositedBDV, baseDaily.DeltaDepositedBDV)
			daily.DeltaStalk = bigdec.Add(daily.DeltaStalk, baseDaily.DeltaStalk)
			daily.DeltaPlantableStalk = bigdec.Add(daily.DeltaPlantableStalk, baseDaily.DeltaPlantableStalk)
			daily.DeltaSeeds = bigdec.Add(daily.DeltaSeeds, baseDaily.DeltaSeeds)
			daily.DeltaRoots = bigdec.Add(daily.DeltaRoots, baseDaily.DeltaRoots)
			daily.DeltaGerminatingStalk = bigdec.Add(daily.DeltaGerminatingStalk, baseDaily.DeltaGerminatingStalk)
			daily.DeltaBeanMints = bigdec.Add(daily.DeltaBeanMints, baseDaily.DeltaBeanMints)
			daily.DeltaActiveFarmers += baseDaily.DeltaActiveFarmers
			daily.CreatedAt = baseDaily.CreatedAt
		} else {
			daily.CreatedAt = timestamp
		}
	} else {
		daily.DeltaDepositedBDV = bigdec.Copy(daily.DepositedBDV)
		daily.DeltaStalk = bigdec.Copy(daily.Stalk)
		daily.DeltaPlantableStalk = bigdec.Copy(daily.PlantableStalk)
		daily.DeltaSeeds = bigdec.Copy(daily.Seeds)
		daily.DeltaRoots = bigdec.Copy(daily.Roots)
		daily.DeltaGerminatingStalk = bigdec.Copy(daily.GerminatingStalk)
		daily.DeltaBeanMints = bigdec.Copy(daily.BeanMints)
		daily.DeltaActiveFarmers = daily.ActiveFarmers
		daily.CreatedAt = timestamp
	}
	daily.UpdatedAt = timestamp
	s.SiloDaily.SaveID(dailyID, daily)

	silo.LastHourlySnapshotSeason = season
	silo.LastDailySnapshotDay = day
}

// SetSiloHourlyCaseID stamps the weather case id on the current hourly
// bucket. Panics when the bucket was never taken.
func SetSiloHourlyCaseID(s *entities.Store, caseID *big.Int, silo *entities.Silo) {
	hourly := s.SiloHourly.MustLoadID(entities.HourlyID(silo.ID, silo.LastHourlySnapshotSeason))
	hourly.CaseID = bigdec.Copy(caseID)
	s.SiloHourly.SaveID(hourly.ID, hourly)
}
