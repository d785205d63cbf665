// Package db mirrors reduced entities into ClickHouse for analytics. The
// mirror is write-only and best-effort from the reduction's point of view:
// the in-memory store is authoritative and the mirror can be rebuilt by
// replaying the event stream.
package db

import (
	"context"
	"fmt"
	"math/big"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/db/clickhouse"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/db/models"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mirror owns the analytics sink for one deployment.
type Mirror struct {
	ch     clickhouse.Client
	logger *zap.Logger
}

// New connects the mirror and ensures all tables exist.
func New(ctx context.Context, logger *zap.Logger) (*Mirror, error) {
	dbName := utils.Env("CLICKHOUSE_DB", "beanstalk")
	client, err := clickhouse.New(ctx, logger, dbName)
	if err != nil {
		return nil, fmt.Errorf("connect mirror: %w", err)
	}

	m := &Mirror{ch: client, logger: logger.Named("mirror")}
	if err := m.initTables(ctx); err != nil {
		return nil, fmt.Errorf("init mirror tables: %w", err)
	}
	return m, nil
}

// Close releases the sink connection.
func (m *Mirror) Close() error {
	return m.ch.Close()
}

// tableDDL holds one CREATE TABLE per mirrored row type. ReplacingMergeTree
// on updated_at lets same-bucket snapshot updates overwrite cleanly.
var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS %[1]s.seasons (
		season UInt32,
		sunrise_block UInt64,
		created_at UInt64,
		price Float64,
		beans String,
		reward_beans String,
		incentive_beans String,
		harvestable_index String,
		market_cap Float64
	) ENGINE = ReplacingMergeTree(created_at) ORDER BY season`,

	`CREATE TABLE IF NOT EXISTS %[1]s.field_hourly (
		field String,
		season UInt32,
		temperature Float64,
		real_rate_of_return Float64,
		number_of_sowers Int32,
		number_of_sows Int32,
		sown_beans String,
		unharvestable_pods String,
		harvestable_pods String,
		harvested_pods String,
		soil String,
		pod_index String,
		pod_rate Float64,
		delta_sown_beans String,
		delta_harvested_pods String,
		soil_sold_out Bool,
		season_block UInt64,
		updated_at UInt64
	) ENGINE = ReplacingMergeTree(updated_at) ORDER BY (field, season)`,

	`CREATE TABLE IF NOT EXISTS %[1]s.silo_hourly (
		silo String,
		season UInt32,
		deposited_bdv String,
		stalk String,
		plantable_stalk String,
		roots String,
		germinating_stalk String,
		bean_mints String,
		active_farmers Int32,
		delta_deposited_bdv String,
		delta_stalk String,
		updated_at UInt64
	) ENGINE = ReplacingMergeTree(updated_at) ORDER BY (silo, season)`,

	`CREATE TABLE IF NOT EXISTS %[1]s.market_hourly (
		season UInt32,
		listed_pods String,
		available_listed_pods String,
		filled_listed_pods String,
		expired_listed_pods String,
		cancelled_listed_pods String,
		order_beans String,
		available_order_beans String,
		filled_ordered_pods String,
		filled_order_beans String,
		cancelled_order_beans String,
		pod_volume String,
		bean_volume String,
		delta_pod_volume String,
		delta_bean_volume String,
		updated_at UInt64
	) ENGINE = ReplacingMergeTree(updated_at) ORDER BY season`,

	`CREATE TABLE IF NOT EXISTS %[1]s.market_events (
		id String,
		type String,
		history_id String,
		hash String,
		log_index UInt32,
		block_number UInt64,
		account String,
		index String,
		amount String,
		place_in_line String,
		cost_in_beans String,
		created_at UInt64
	) ENGINE = ReplacingMergeTree(created_at) ORDER BY id`,

	`CREATE TABLE IF NOT EXISTS %[1]s.token_yields (
		token String,
		season UInt32,
		window UInt32,
		bean_apy Float64,
		stalk_apy Float64,
		created_at UInt64
	) ENGINE = ReplacingMergeTree(created_at) ORDER BY (token, season, window)`,

	`CREATE TABLE IF NOT EXISTS %[1]s.fertilizer_yields (
		season UInt32,
		window UInt32,
		humidity Float64,
		outstanding_fert String,
		simple_apy Float64,
		created_at UInt64
	) ENGINE = ReplacingMergeTree(created_at) ORDER BY (season, window)`,
}

func (m *Mirror) initTables(ctx context.Context) error {
	for _, ddl := range tableDDL {
		if err := m.ch.Exec(ctx, fmt.Sprintf(ddl, m.ch.Database)); err != nil {
			return err
		}
	}
	return nil
}

func bs(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func f64(v decimal.Decimal) float64 {
	f, _ := v.Float64()
	return f
}

// MirrorSeason writes the season record and the protocol-level hourly
// buckets of one just-closed season. Called once per sunrise; failures are
// logged and skipped, since the mirror can always be rebuilt.
func (m *Mirror) MirrorSeason(ctx context.Context, s *entities.Store, season uint32) {
	rec := s.LoadSeason(season)
	row := models.SeasonRow{
		Season:           rec.Season,
		SunriseBlock:     rec.SunriseBlock,
		CreatedAt:        rec.CreatedAt,
		Price:            f64(rec.Price),
		Beans:            bs(rec.Beans),
		RewardBeans:      bs(rec.RewardBeans),
		IncentiveBeans:   bs(rec.IncentiveBeans),
		HarvestableIndex: bs(rec.HarvestableIndex),
		MarketCap:        f64(rec.MarketCap),
	}
	if err := m.ch.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s.seasons VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", m.ch.Database),
		row.Season, row.SunriseBlock, row.CreatedAt, row.Price, row.Beans,
		row.RewardBeans, row.IncentiveBeans, row.HarvestableIndex, row.MarketCap,
	); err != nil {
		m.logger.Warn("mirror season insert failed", zap.Uint32("season", season), zap.Error(err))
	}

	m.mirrorFieldHourly(ctx, s, season)
	m.mirrorSiloHourly(ctx, s, season)
	m.mirrorMarketHourly(ctx, s, season)
	m.mirrorYields(ctx, s, season)
}

func (m *Mirror) mirrorFieldHourly(ctx context.Context, s *entities.Store, season uint32) {
	batch, err := m.ch.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.field_hourly", m.ch.Database))
	if err != nil {
		m.logger.Warn("mirror field batch failed", zap.Error(err))
		return
	}
	s.FieldHourly.Range(func(id string, snap *entities.FieldHourlySnapshot) bool {
		if snap.Season != season {
			return true
		}
		err = batch.AppendStruct(&models.FieldHourlyRow{
			Field:             snap.Field,
			Season:            snap.Season,
			Temperature:       f64(snap.Temperature),
			RealRateOfReturn:  f64(snap.RealRateOfReturn),
			NumberOfSowers:    snap.NumberOfSowers,
			NumberOfSows:      snap.NumberOfSows,
			SownBeans:         bs(snap.SownBeans),
			UnharvestablePods: bs(snap.UnharvestablePods),
			HarvestablePods:   bs(snap.HarvestablePods),
			HarvestedPods:     bs(snap.HarvestedPods),
			Soil:              bs(snap.Soil),
			PodIndex:          bs(snap.PodIndex),
			PodRate:           f64(snap.PodRate),
			DeltaSownBeans:    bs(snap.DeltaSownBeans),
			DeltaHarvested:    bs(snap.DeltaHarvestedPods),
			SoilSoldOut:       snap.SoilSoldOut,
			SeasonBlock:       snap.SeasonBlock,
			UpdatedAt:         snap.UpdatedAt,
		})
		return err == nil
	})
	if err != nil {
		m.logger.Warn("mirror field append failed", zap.Error(err))
		return
	}
	if err := batch.Send(); err != nil {
		m.logger.Warn("mirror field send failed", zap.Error(err))
	}
}

func (m *Mirror) mirrorSiloHourly(ctx context.Context, s *entities.Store, season uint32) {
	batch, err := m.ch.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.silo_hourly", m.ch.Database))
	if err != nil {
		m.logger.Warn("mirror silo batch failed", zap.Error(err))
		return
	}
	s.SiloHourly.Range(func(id string, snap *entities.SiloHourlySnapshot) bool {
		if snap.Season != season {
			return true
		}
		err = batch.AppendStruct(&models.SiloHourlyRow{
			Silo:              snap.Silo,
			Season:            snap.Season,
			DepositedBDV:      bs(snap.DepositedBDV),
			Stalk:             bs(snap.Stalk),
			PlantableStalk:    bs(snap.PlantableStalk),
			Roots:             bs(snap.Roots),
			GerminatingStalk:  bs(snap.GerminatingStalk),
			BeanMints:         bs(snap.BeanMints),
			ActiveFarmers:     snap.ActiveFarmers,
			DeltaDepositedBDV: bs(snap.DeltaDepositedBDV),
			DeltaStalk:        bs(snap.DeltaStalk),
			UpdatedAt:         snap.UpdatedAt,
		})
		return err == nil
	})
	if err != nil {
		m.logger.Warn("mirror silo append failed", zap.Error(err))
		return
	}
	if err := batch.Send(); err != nil {
		m.logger.Warn("mirror silo send failed", zap.Error(err))
	}
}

func (m *Mirror) mirrorMarketHourly(ctx context.Context, s *entities.Store, season uint32) {
	s.MarketHourly.Range(func(id string, snap *entities.MarketHourlySnapshot) bool {
		if snap.Season != season {
			return true
		}
		if err := m.ch.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s.market_hourly VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", m.ch.Database),
			snap.Season, bs(snap.ListedPods), bs(snap.AvailableListedPods),
			bs(snap.FilledListedPods), bs(snap.ExpiredListedPods), bs(snap.CancelledListedPods),
			bs(snap.OrderBeans), bs(snap.AvailableOrderBeans), bs(snap.FilledOrderedPods),
			bs(snap.FilledOrderBeans), bs(snap.CancelledOrderBeans),
			bs(snap.PodVolume), bs(snap.BeanVolume),
			bs(snap.DeltaPodVolume), bs(snap.DeltaBeanVolume), snap.UpdatedAt,
		); err != nil {
			m.logger.Warn("mirror market insert failed", zap.Error(err))
		}
		return true
	})
}

func (m *Mirror) mirrorYields(ctx context.Context, s *entities.Store, season uint32) {
	silo := s.LoadSilo(s.Proto.Beanstalk)
	for _, window := range []uint32{entities.Window24H, entities.Window7D, entities.Window30D} {
		for _, token := range silo.WhitelistedTokens {
			y := s.LoadTokenYield(token, season, window)
			if err := m.ch.Exec(ctx,
				fmt.Sprintf("INSERT INTO %s.token_yields VALUES (?, ?, ?, ?, ?, ?)", m.ch.Database),
				token.Hex(), y.Season, window, f64(y.BeanAPY), f64(y.StalkAPY), y.CreatedAt,
			); err != nil {
				m.logger.Warn("mirror token yield insert failed", zap.Error(err))
			}
		}

		fy := s.LoadFertilizerYield(season, window)
		if err := m.ch.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s.fertilizer_yields VALUES (?, ?, ?, ?, ?, ?)", m.ch.Database),
			fy.Season, fy.Window, f64(fy.Humidity), bs(fy.OutstandingFert), f64(fy.SimpleAPY), fy.CreatedAt,
		); err != nil {
			m.logger.Warn("mirror fertilizer yield insert failed", zap.Error(err))
		}
	}
}

// MirrorMarketEvent appends one raw marketplace row.
func (m *Mirror) MirrorMarketEvent(ctx context.Context, e *entities.MarketEvent) {
	if err := m.ch.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s.market_events VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", m.ch.Database),
		e.ID, string(e.Type), e.HistoryID, e.Hash.Hex(), e.LogIndex, e.BlockNumber,
		e.Account.Hex(), bs(e.Index), bs(e.Amount), bs(e.PlaceInLine), bs(e.CostInBeans), e.CreatedAt,
	); err != nil {
		m.logger.Warn("mirror market event insert failed", zap.String("id", e.ID), zap.Error(err))
	}
}
