// =============================
// File: internal/dex/model/math.go
// =============================
package model

import (
	"math"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	lamportExp = int32(-9)
)

// RoundHalfUpStrict возвращает num/den, округлённое вниз, с прибавлением
// единицы только если остаток строго больше половины делителя.
// Ровно половина округляется вниз. При den == 0 возвращает 0.
func RoundHalfUpStrict(num, den sdkmath.Int) sdkmath.Int {
	if den.IsZero() {
		return sdkmath.ZeroInt()
	}
	q := num.Quo(den)
	r := num.Mod(den)
	if r.MulRaw(2).GT(den) {
		q = q.AddRaw(1)
	}
	return q
}

// ScaleByDecimals возвращает amount * 10^decimals. false - если результат
// не помещается в 256 бит sdkmath.Int (decimals у минта может быть любым u8).
func ScaleByDecimals(amount sdkmath.Int, decimals uint8) (sdkmath.Int, bool) {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	n := new(big.Int).Mul(amount.BigInt(), exp)
	if n.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, false
	}
	return sdkmath.NewIntFromBigInt(n), true
}

// LamportsToSOL переводит лампорты в SOL без потери точности.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(sdkmath.NewIntFromUint64(lamports).BigInt(), lamportExp)
}

// ToSmallestUnits переводит количество в целых единицах в наименьшие
// (с округлением вниз). Отрицательные и переполняющие uint64 значения - ошибка.
func ToSmallestUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, Errorf(KindInvalidInput, "convert amount", "amount must not be negative: %s", amount)
	}
	raw := amount.Shift(int32(decimals)).Floor()
	bi := raw.BigInt()
	if !bi.IsUint64() {
		return 0, Errorf(KindInvalidInput, "convert amount", "amount %s overflows u64", amount)
	}
	return bi.Uint64(), nil
}

// ProgressPercent возвращает clamp(part/whole, 0, 1) * 100, округлённое до
// двух знаков (half away from zero). whole должен быть больше нуля.
func ProgressPercent(part, whole uint64) decimal.Decimal {
	if whole == 0 || part == 0 {
		return decimal.Zero
	}
	if part >= whole {
		return hundred
	}
	p := decimal.NewFromBigInt(sdkmath.NewIntFromUint64(part).BigInt(), 0)
	w := decimal.NewFromBigInt(sdkmath.NewIntFromUint64(whole).BigInt(), 0)
	return p.Mul(hundred).DivRound(w, 2)
}

// ValidateSlippage проверяет, что доля проскальзывания лежит в [0, 1].
func ValidateSlippage(slippage float64) error {
	if math.IsNaN(slippage) || slippage < 0 || slippage > 1 {
		return Errorf(KindInvalidInput, "validate slippage", "slippage must be within [0, 1], got %v", slippage)
	}
	return nil
}

// SlippageFromPercent переводит проценты (0-100) в долю (0-1).
func SlippageFromPercent(percent float64) (float64, error) {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return 0, Errorf(KindInvalidInput, "slippage percent", "slippage percent must be within [0, 100], got %v", percent)
	}
	return percent / 100, nil
}

// MinAmountOut = floor(expected * (1 - slippage)).
func MinAmountOut(expected uint64, slippage float64) (uint64, error) {
	if err := ValidateSlippage(slippage); err != nil {
		return 0, err
	}
	e := decimal.NewFromBigInt(sdkmath.NewIntFromUint64(expected).BigInt(), 0)
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(slippage))
	return e.Mul(keep).Floor().BigInt().Uint64(), nil
}

// ConstantProductOut - выход свапа x*y=k без комиссий: reserveOut*in/(reserveIn+in).
func ConstantProductOut(amountIn, reserveIn, reserveOut sdkmath.Int) sdkmath.Int {
	denom := reserveIn.Add(amountIn)
	if denom.IsZero() {
		return sdkmath.ZeroInt()
	}
	return reserveOut.Mul(amountIn).Quo(denom)
}
