package bigdec

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticDoesNotMutateOperands(t *testing.T) {
	a := BI(7)
	b := BI(3)

	assert.Equal(t, "10", Add(a, b).String())
	assert.Equal(t, "4", Sub(a, b).String())
	assert.Equal(t, "21", Mul(a, b).String())
	assert.Equal(t, "-7", Neg(a).String())

	assert.Equal(t, "7", a.String())
	assert.Equal(t, "3", b.String())
}

func TestCopyIsIndependent(t *testing.T) {
	a := BI(7)
	c := Copy(a)
	c.Add(c, BI(1))

	assert.Equal(t, "7", a.String())
	assert.Equal(t, "8", c.String())
}

func TestDivTruncatesTowardZero(t *testing.T) {
	assert.Equal(t, "3", Div(BI(7), BI(2)).String())
	assert.Equal(t, "-3", Div(BI(-7), BI(2)).String())
	assert.Equal(t, "0", Div(BI(1), BI(2)).String())
}

func TestDivByZeroPanics(t *testing.T) {
	require.Panics(t, func() { Div(BI(1), Zero()) })
}

func TestFromString(t *testing.T) {
	v := FromString("340282366920938463463374607431768211456") // 2^128
	assert.Equal(t, "340282366920938463463374607431768211456", v.String())
	require.Panics(t, func() { FromString("not a number") })
}

func TestPow10(t *testing.T) {
	assert.Equal(t, "1", Pow10(0).String())
	assert.Equal(t, "1000000", Pow10(6).String())
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(Zero()))
	assert.True(t, IsZero(Sub(BI(5), BI(5))))
	assert.False(t, IsZero(BI(1)))
}

func TestToDecimalScalesByTokenDecimals(t *testing.T) {
	assert.Equal(t, "1.5", ToDecimal(BI(1_500_000), 6).String())
	assert.Equal(t, "-0.000001", ToDecimal(BI(-1), 6).String())
	assert.Equal(t, "25", ToDecimal(BI(25), 0).String())
}

func TestSumBD(t *testing.T) {
	sum := SumBD([]decimal.Decimal{
		decimal.RequireFromString("1.5"),
		decimal.RequireFromString("2.25"),
		decimal.RequireFromString("-0.75"),
	})
	assert.Equal(t, "3", sum.String())
	assert.True(t, SumBD(nil).IsZero())
}

func TestSumF64AndMaxF64(t *testing.T) {
	assert.InDelta(t, 6.0, SumF64([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, SumF64(nil))
	assert.Equal(t, 3.0, MaxF64([]float64{1, 3, 2}))
	assert.Equal(t, -1.0, MaxF64([]float64{-5, -1, -2}))
	require.Panics(t, func() { MaxF64(nil) })
}
