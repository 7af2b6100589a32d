package model

import (
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHalfUpStrict(t *testing.T) {
	// 201/2 = 100.5 -> 100
	assert.Equal(t, int64(100), RoundHalfUpStrict(sdkmath.NewInt(201), sdkmath.NewInt(2)).Int64())
	// 100500001/1000000 = 100.500001 -> 101
	assert.Equal(t, int64(101), RoundHalfUpStrict(sdkmath.NewInt(100_500_001), sdkmath.NewInt(1_000_000)).Int64())
	assert.Equal(t, int64(3), RoundHalfUpStrict(sdkmath.NewInt(9), sdkmath.NewInt(3)).Int64())
	assert.True(t, RoundHalfUpStrict(sdkmath.NewInt(9), sdkmath.ZeroInt()).IsZero())
}

func TestScaleByDecimals(t *testing.T) {
	n, ok := ScaleByDecimals(sdkmath.NewInt(42), 9)
	require.True(t, ok)
	assert.Equal(t, int64(42_000_000_000), n.Int64())

	_, ok = ScaleByDecimals(sdkmath.NewIntFromUint64(1<<62), 80)
	assert.False(t, ok)

	_, ok = ScaleByDecimals(sdkmath.ZeroInt(), 255)
	assert.True(t, ok)
}

func TestSlippageFromPercent(t *testing.T) {
	for _, p := range []float64{0, 0.5, 5, 50, 100} {
		f, err := SlippageFromPercent(p)
		require.NoError(t, err)
		assert.InDelta(t, p/100, f, 1e-12)
		assert.NoError(t, ValidateSlippage(f))
	}

	for _, p := range []float64{-1, 100.01, 150} {
		_, err := SlippageFromPercent(p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}
}

func TestValidateSlippageRejectsOutOfRange(t *testing.T) {
	assert.ErrorIs(t, ValidateSlippage(-0.01), ErrInvalidInput)
	assert.ErrorIs(t, ValidateSlippage(1.01), ErrInvalidInput)
	assert.NoError(t, ValidateSlippage(1))
}

func TestProgressPercent(t *testing.T) {
	assert.True(t, ProgressPercent(750_000, 1_000_000).Equal(decimal.NewFromInt(75)))
	assert.True(t, ProgressPercent(2, 3).Equal(decimal.RequireFromString("66.67")))
	assert.True(t, ProgressPercent(5, 0).IsZero())
	assert.True(t, ProgressPercent(10, 5).Equal(decimal.NewFromInt(100)))
}

func TestMinAmountOut(t *testing.T) {
	got, err := MinAmountOut(1000, 0.05)
	require.NoError(t, err)
	assert.Equal(t, uint64(950), got)

	got, err = MinAmountOut(999, 0.5)
	require.NoError(t, err)
	assert.Equal(t, uint64(499), got)

	got, err = MinAmountOut(1000, 1)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = MinAmountOut(1000, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToSmallestUnits(t *testing.T) {
	got, err := ToSmallestUnits(decimal.RequireFromString("0.1234567899"), 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(123_456_789), got)

	_, err = ToSmallestUnits(decimal.NewFromInt(-1), 6)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConstantProductOut(t *testing.T) {
	u := sdkmath.NewIntFromUint64
	assert.Equal(t, uint64(90), ConstantProductOut(u(10), u(100), u(1000)).Uint64()) // 1000*10/110 = 90.9
	assert.True(t, ConstantProductOut(u(0), u(0), u(1000)).IsZero())
}
