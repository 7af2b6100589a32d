// =============================
// File: internal/dex/heaven/price.go
// =============================
package heaven

import (
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Quote derives the spot price of one whole token in lamports and the
// bonding curve progress from a pool snapshot.
//
// price = tokenB * 10^decimals / tokenA, rounded half-up-strict
// progress = clamp((initialA - A) / initialA, 0, 1) * 100
func Quote(r *PoolReserves, decimals uint8) (*model.PriceQuote, error) {
	q := &model.PriceQuote{
		Protocol: model.ProtocolHeaven,
		Decimals: decimals,
	}

	if r.TokenAReserve > 0 {
		num, ok := model.ScaleByDecimals(sdkmath.NewIntFromUint64(r.TokenBReserve), decimals)
		if !ok {
			return nil, model.Errorf(model.KindQuoteUnavailable, "heaven quote", "price overflows at %d decimals", decimals)
		}
		lamports := model.RoundHalfUpStrict(num, sdkmath.NewIntFromUint64(r.TokenAReserve))
		if !lamports.IsUint64() {
			return nil, model.Errorf(model.KindQuoteUnavailable, "heaven quote", "price overflows u64 lamports")
		}
		q.PriceLamports = lamports.Uint64()
	}
	q.Price = model.LamportsToSOL(q.PriceLamports)
	q.BondingCurvePercent = decimal.NewNullDecimal(BondingCurvePercent(r))
	return q, nil
}

// BondingCurvePercent returns how much of the initial token reserve has been
// bought out of the pool, as a percentage with two decimals.
func BondingCurvePercent(r *PoolReserves) decimal.Decimal {
	if r.InitialTokenAReserve == 0 || r.TokenAReserve >= r.InitialTokenAReserve {
		return decimal.Zero
	}
	return model.ProgressPercent(r.InitialTokenAReserve-r.TokenAReserve, r.InitialTokenAReserve)
}

// ExpectedOut estimates the swap output against the snapshot with x*y=k.
// Buy spends lamports for tokens, sell spends raw token units for lamports.
func ExpectedOut(r *PoolReserves, direction model.Direction, amountIn uint64) (uint64, error) {
	in := sdkmath.NewIntFromUint64(amountIn)
	a := sdkmath.NewIntFromUint64(r.TokenAReserve)
	b := sdkmath.NewIntFromUint64(r.TokenBReserve)
	switch direction {
	case model.Buy:
		return model.ConstantProductOut(in, b, a).Uint64(), nil
	case model.Sell:
		return model.ConstantProductOut(in, a, b).Uint64(), nil
	}
	return 0, model.Errorf(model.KindInvalidInput, "heaven expected out", "%w: %s", model.ErrUnsupportedDirection, direction)
}
