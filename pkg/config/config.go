// Package config resolves deployment parameters once at process start. The
// resulting value is threaded explicitly through every component; there is
// no lazily-initialized global.
package config

import (
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/ethereum/go-ethereum/common"
)

// ProtocolVersion identifies which generation of event shapes a deployment
// emits. Later versions are supersets of earlier ones; the event adapters
// default the missing fields.
type ProtocolVersion int

const (
	PreReplant ProtocolVersion = iota
	Replanted
	SiloV3
	SeedGauge
	Reseed
)

func (v ProtocolVersion) String() string {
	switch v {
	case PreReplant:
		return "pre-replant"
	case Replanted:
		return "replanted"
	case SiloV3:
		return "silo-v3"
	case SeedGauge:
		return "seed-gauge"
	case Reseed:
		return "reseed"
	}
	return "unknown"
}

// Protocol carries the chain-deployment constants of one Beanstalk instance.
type Protocol struct {
	// Beanstalk is the diamond address. The protocol-aggregate Silo and
	// Field rows are keyed by this address.
	Beanstalk common.Address
	// Bean is the protocol token.
	Bean common.Address
	// UnripeBean / UnripeLP are the post-exploit recapitalization tokens.
	UnripeBean common.Address
	UnripeLP   common.Address
	// Fertilizer is the ERC-1155 recapitalization token, zero when the
	// deployment has none (no fertilizer APY is computed in that case).
	Fertilizer common.Address

	BeanDecimals  uint
	StalkDecimals uint

	// MinEMASeason is the first season with reward-mint data usable by the
	// EMA windows (the replant season on mainnet).
	MinEMASeason uint32
	// ReplantSeason is the season assigned to fertilizer minted before the
	// replant block.
	ReplantSeason uint32
	// ReplantBlock gates the fixed 500 humidity for early fertilizer mints.
	ReplantBlock uint64
	// HumidityStepSeason is the season after which humidity is a constant
	// 0.2 and the contract round-trip is skipped.
	HumidityStepSeason uint32
	// YieldCacheSeason: seasons at or below this were backfilled from a
	// cache and the vAPY engine does not recompute them.
	YieldCacheSeason uint32
}

// Config is the full runtime configuration of an indexer process.
type Config struct {
	Protocol Protocol
	Version  ProtocolVersion

	// MirrorEnabled controls the ClickHouse analytics mirror.
	MirrorEnabled bool
	// NotifyEnabled controls Redis season/market notifications.
	NotifyEnabled bool
}

// EthMainnet returns the constants of the original Ethereum deployment.
func EthMainnet() Protocol {
	return Protocol{
		Beanstalk:          common.HexToAddress("0xC1E088fC1323b20BCBee9bd1B9fC9546db5624C5"),
		Bean:               common.HexToAddress("0xBEA0000029AD1c77D3d5D23Ba2D8893dB9d1Efab"),
		UnripeBean:         common.HexToAddress("0x1BEA0050E63e05FBb5D8BA2f10cf5800B6224449"),
		UnripeLP:           common.HexToAddress("0x1BEA3CcD22F4EBd3d37d731BA31Eeca95713716D"),
		Fertilizer:         common.HexToAddress("0x402c84De2Ce49aF88f5e2eF3710ff89bFED36cB6"),
		BeanDecimals:       6,
		StalkDecimals:      10,
		MinEMASeason:       6075,
		ReplantSeason:      6074,
		ReplantBlock:       14602790,
		HumidityStepSeason: 6534,
		YieldCacheSeason:   20_000,
	}
}

// FromEnv resolves the runtime configuration from environment variables.
func FromEnv() *Config {
	proto := EthMainnet()
	if addr := utils.Env("BEANSTALK_ADDR", ""); addr != "" {
		proto.Beanstalk = common.HexToAddress(addr)
	}
	if addr := utils.Env("BEAN_ADDR", ""); addr != "" {
		proto.Bean = common.HexToAddress(addr)
	}

	version := Reseed
	switch utils.Env("PROTOCOL_VERSION", "reseed") {
	case "pre-replant":
		version = PreReplant
	case "replanted":
		version = Replanted
	case "silo-v3":
		version = SiloV3
	case "seed-gauge":
		version = SeedGauge
	}

	return &Config{
		Protocol:      proto,
		Version:       version,
		MirrorEnabled: utils.EnvBool("MIRROR_ENABLED", false),
		NotifyEnabled: utils.EnvBool("NOTIFY_ENABLED", false),
	}
}

// HasFertilizer reports whether this deployment tracks fertilizer.
func (p *Protocol) HasFertilizer() bool {
	return p.Fertilizer != (common.Address{})
}
