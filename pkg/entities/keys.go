package entities

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Composite keys are structs with a canonical serialization instead of ad hoc
// string concatenation. Addresses render as fixed-length checksummed hex and
// numeric parts as base-10, so no component can collide with a delimiter.

// SiloKey identifies a per-account Silo (or the protocol aggregate when the
// account is the Beanstalk address).
type SiloKey struct {
	Account common.Address
}

func (k SiloKey) String() string {
	return hexAddr(k.Account)
}

// DepositVersion distinguishes the season-keyed legacy deposits from the
// stem-keyed v3 deposits.
type DepositVersion string

const (
	DepositSeason DepositVersion = "season"
	DepositV3     DepositVersion = "v3"
)

// DepositKey identifies a SiloDeposit by (account, token, versioning scheme,
// season-or-stem).
type DepositKey struct {
	Account common.Address
	Token   common.Address
	Version DepositVersion
	Index   *big.Int // season number or stem
}

func (k DepositKey) String() string {
	return hexAddr(k.Account) + "-" + hexAddr(k.Token) + "-" + string(k.Version) + "-" + k.Index.String()
}

// WithdrawKey identifies a SiloWithdraw by (account, token, season).
type WithdrawKey struct {
	Account common.Address
	Token   common.Address
	Season  uint32
}

func (k WithdrawKey) String() string {
	return hexAddr(k.Account) + "-" + hexAddr(k.Token) + "-" + strconv.FormatUint(uint64(k.Season), 10)
}

// SiloAssetKey identifies a SiloAsset by (account, token).
type SiloAssetKey struct {
	Account common.Address
	Token   common.Address
}

func (k SiloAssetKey) String() string {
	return hexAddr(k.Account) + "-" + hexAddr(k.Token)
}

// TokenKey identifies token-scoped settings (whitelist, unripe).
type TokenKey struct {
	Token common.Address
}

func (k TokenKey) String() string {
	return hexAddr(k.Token)
}

// PlotKey identifies a Plot by its index into the pod line.
type PlotKey struct {
	Index *big.Int
}

func (k PlotKey) String() string {
	return k.Index.String()
}

// ListingKey identifies the canonical PodListing row for (account, index).
// Superseded listings are archived under synthesized "<key>-N" ids.
type ListingKey struct {
	Account common.Address
	Index   *big.Int
}

func (k ListingKey) String() string {
	return hexAddr(k.Account) + "-" + k.Index.String()
}

// OrderKey identifies the canonical PodOrder row.
type OrderKey struct {
	ID common.Hash
}

func (k OrderKey) String() string {
	return k.ID.Hex()
}

// FillKey identifies a PodFill by (protocol, plot index, tx hash).
type FillKey struct {
	Protocol common.Address
	Index    *big.Int
	TxHash   common.Hash
}

func (k FillKey) String() string {
	return hexAddr(k.Protocol) + "-" + k.Index.String() + "-" + k.TxHash.Hex()
}

// FertilizerTokenKey identifies one fertilizer id (the end BPF).
type FertilizerTokenKey struct {
	ID *big.Int
}

func (k FertilizerTokenKey) String() string {
	return k.ID.String()
}

// FertilizerBalanceKey identifies one account's balance of one fertilizer id.
type FertilizerBalanceKey struct {
	ID      *big.Int
	Account common.Address
}

func (k FertilizerBalanceKey) String() string {
	return k.ID.String() + "-" + hexAddr(k.Account)
}

// GerminationParity is the two-phase maturation bucket. Seasons alternate
// between the two; a deposit germinates for the remainder of its starting
// season plus one full season.
type GerminationParity uint8

const (
	ParityOdd GerminationParity = iota
	ParityEven
)

func (p GerminationParity) String() string {
	if p == ParityEven {
		return "EVEN"
	}
	return "ODD"
}

// SeasonParity returns the natural parity bucket of a season number.
func SeasonParity(season uint32) GerminationParity {
	if season%2 == 0 {
		return ParityEven
	}
	return ParityOdd
}

// GerminatingKey identifies a germinating bucket by (address, parity).
// The address is a farmer account, a whitelisted token, or the protocol
// address depending on which ledger the bucket belongs to.
type GerminatingKey struct {
	Address common.Address
	Parity  GerminationParity
}

func (k GerminatingKey) String() string {
	return hexAddr(k.Address) + "-" + k.Parity.String()
}

// SeasonKey identifies one Season record.
type SeasonKey struct {
	Season uint32
}

func (k SeasonKey) String() string {
	return strconv.FormatUint(uint64(k.Season), 10)
}

// YieldKey identifies a (season, rolling window) yield record.
type YieldKey struct {
	Season uint32
	Window uint32
}

func (k YieldKey) String() string {
	return strconv.FormatUint(uint64(k.Season), 10) + "-" + strconv.FormatUint(uint64(k.Window), 10)
}

// TokenYieldKey identifies a per-token (season, window) yield record.
type TokenYieldKey struct {
	Token  common.Address
	Season uint32
	Window uint32
}

func (k TokenYieldKey) String() string {
	return hexAddr(k.Token) + "-" + strconv.FormatUint(uint64(k.Season), 10) + "-" + strconv.FormatUint(uint64(k.Window), 10)
}

// HourlyID returns the canonical id of an hourly snapshot bucket.
func HourlyID(parent string, season uint32) string {
	return parent + "-" + strconv.FormatUint(uint64(season), 10)
}

// DailyID returns the canonical id of a daily snapshot bucket.
func DailyID(parent string, day int64) string {
	return parent + "-" + strconv.FormatInt(day, 10)
}

// Day buckets a unix timestamp into a day number.
func Day(timestamp uint64) int64 {
	return int64(timestamp / 86400)
}

func hexAddr(a common.Address) string {
	return a.Hex()
}

var _ fmt.Stringer = SiloKey{}
