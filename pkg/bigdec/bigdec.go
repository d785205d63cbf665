// Package bigdec holds the numeric conventions used across the indexer.
//
// On-chain amounts (token balances, stalk, pods) are arbitrary-precision
// integers and always handled as *big.Int, never mutated in place once
// assigned to an entity field. Ratios (prices, percentages, APYs) are
// decimal.Decimal values produced by scaling an amount down by a power of
// ten.
package bigdec

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Zero returns a fresh zero-valued big integer. Entity initializers must not
// share a single zero instance because big.Int arithmetic mutates receivers.
func Zero() *big.Int {
	return new(big.Int)
}

// BI converts an int64 to a big integer.
func BI(v int64) *big.Int {
	return big.NewInt(v)
}

// FromString parses a base-10 big integer and panics on malformed input.
// Inputs come from trusted event payloads, so a parse failure is a
// programming error.
func FromString(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bigdec: malformed integer " + s)
	}
	return v
}

// Pow10 returns 10^n.
func Pow10(n uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// Add returns a+b without mutating either operand.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Sub returns a-b without mutating either operand.
func Sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

// Neg returns -a without mutating the operand.
func Neg(a *big.Int) *big.Int {
	return new(big.Int).Neg(a)
}

// Mul returns a*b without mutating either operand.
func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

// Div returns a/b, truncated toward zero. Panics on zero divisor, which the
// data model guarantees cannot happen on valid input.
func Div(a, b *big.Int) *big.Int {
	return new(big.Int).Quo(a, b)
}

// Copy returns an independent copy of a.
func Copy(a *big.Int) *big.Int {
	return new(big.Int).Set(a)
}

// IsZero reports whether a == 0.
func IsZero(a *big.Int) bool {
	return a.Sign() == 0
}

// ToDecimal scales an integer amount down by 10^decimals into a ratio value.
func ToDecimal(v *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(v, -decimals)
}

// ZeroBD returns the zero ratio value.
func ZeroBD() decimal.Decimal {
	return decimal.Zero
}

// SumBD adds up a slice of ratio values.
func SumBD(vals []decimal.Decimal) decimal.Decimal {
	out := decimal.Zero
	for _, v := range vals {
		out = out.Add(v)
	}
	return out
}

// SumF64 adds up a slice of float64s.
func SumF64(vals []float64) float64 {
	var out float64
	for _, v := range vals {
		out += v
	}
	return out
}

// MaxF64 returns the largest element. Panics on an empty slice; callers
// guarantee at least one entry.
func MaxF64(vals []float64) float64 {
	if len(vals) == 0 {
		panic("bigdec: MaxF64 on empty slice")
	}
	out := vals[0]
	for _, v := range vals[1:] {
		if v > out {
			out = v
		}
	}
	return out
}
