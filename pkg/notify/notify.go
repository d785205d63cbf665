// Package notify publishes reduction milestones to Redis so downstream
// consumers (bots, dashboards) can react without polling. Publishing is
// best-effort: a dead Redis never stalls the reduction.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ChannelSeasons = "beanstalk:seasons"
	ChannelMarket  = "beanstalk:market"

	// seasonStream keeps a capped replay buffer of season advances.
	seasonStream        = "beanstalk:seasons:stream"
	defaultStreamMaxLen = 10000
)

// Notifier wraps the Redis client used for pub/sub and the season stream.
type Notifier struct {
	client       *redis.Client
	logger       *zap.Logger
	streamMaxLen int64
}

// New connects to Redis using REDIS_HOST / REDIS_PORT / REDIS_PASSWORD /
// REDIS_DB and verifies the connection with a ping.
func New(ctx context.Context, logger *zap.Logger) (*Notifier, error) {
	addr := fmt.Sprintf("%s:%s",
		utils.Env("REDIS_HOST", "localhost"),
		utils.Env("REDIS_PORT", "6379"),
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.Env("REDIS_PASSWORD", ""),
		DB:       utils.EnvInt("REDIS_DB", 0),

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logger.Info("connected to redis", zap.String("addr", addr))
	return &Notifier{
		client:       rdb,
		logger:       logger.Named("notify"),
		streamMaxLen: int64(utils.EnvInt("REDIS_STREAM_MAXLEN", defaultStreamMaxLen)),
	}, nil
}

// Close releases the Redis connection.
func (n *Notifier) Close() error {
	return n.client.Close()
}

// Health pings Redis.
func (n *Notifier) Health(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// Subscribe returns a pub/sub handle on the given channels. The caller owns
// closing it.
func (n *Notifier) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return n.client.Subscribe(ctx, channels...)
}

// SeasonUpdate is the payload published on every sunrise.
type SeasonUpdate struct {
	Season           uint32 `json:"season"`
	Block            uint64 `json:"block"`
	Timestamp        uint64 `json:"timestamp"`
	RewardBeans      string `json:"rewardBeans"`
	HarvestableIndex string `json:"harvestableIndex"`
	Price            string `json:"price"`
}

// MarketUpdate is the payload published for every raw marketplace row.
type MarketUpdate struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Account     string `json:"account"`
	Index       string `json:"index"`
	Amount      string `json:"amount"`
	PlaceInLine string `json:"placeInLine"`
	CostInBeans string `json:"costInBeans"`
	BlockNumber uint64 `json:"blockNumber"`
}

// PublishSeason announces a season advance on the pub/sub channel and
// appends it to the capped replay stream.
func (n *Notifier) PublishSeason(ctx context.Context, update SeasonUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		n.logger.Warn("marshal season update", zap.Error(err))
		return
	}
	n.publish(ctx, ChannelSeasons, payload)

	args := &redis.XAddArgs{
		Stream: seasonStream,
		Values: map[string]interface{}{"payload": string(payload)},
	}
	if n.streamMaxLen > 0 {
		args.MaxLen = n.streamMaxLen
		args.Approx = true
	}
	if err := n.client.XAdd(ctx, args).Err(); err != nil {
		n.logger.Warn("append season stream", zap.Error(err))
	}
}

// PublishMarketEvent announces one marketplace mutation.
func (n *Notifier) PublishMarketEvent(ctx context.Context, e *entities.MarketEvent) {
	update := MarketUpdate{
		ID:          e.ID,
		Type:        string(e.Type),
		Account:     e.Account.Hex(),
		BlockNumber: e.BlockNumber,
	}
	if e.Index != nil {
		update.Index = e.Index.String()
	}
	if e.Amount != nil {
		update.Amount = e.Amount.String()
	}
	if e.PlaceInLine != nil {
		update.PlaceInLine = e.PlaceInLine.String()
	}
	if e.CostInBeans != nil {
		update.CostInBeans = e.CostInBeans.String()
	}

	payload, err := json.Marshal(update)
	if err != nil {
		n.logger.Warn("marshal market update", zap.Error(err))
		return
	}
	n.publish(ctx, ChannelMarket, payload)
}

func (n *Notifier) publish(ctx context.Context, channel string, payload []byte) {
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn("publish failed", zap.String("channel", channel), zap.Error(err))
	}
}
