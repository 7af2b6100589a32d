// =============================
// File: internal/dex/boop/price.go
// =============================
package boop

import (
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

const basisPointsDenominator = 10_000

// Quote derives the spot price of one whole token in lamports and the
// graduation progress from a curve snapshot.
//
// price = (virtualSol + sol) * 10^decimals / tokenReserve, rounded half-up-strict
// progress = clamp(sol / graduationTarget, 0, 1) * 100, unknown when the target is zero
func Quote(r *CurveReserves, decimals uint8) (*model.PriceQuote, error) {
	q := &model.PriceQuote{
		Protocol: model.ProtocolBoop,
		Decimals: decimals,
	}

	if r.TokenReserve > 0 {
		num, ok := model.ScaleByDecimals(r.EffectiveSolReserve(), decimals)
		if !ok {
			return nil, model.Errorf(model.KindQuoteUnavailable, "boop quote", "price overflows at %d decimals", decimals)
		}
		lamports := model.RoundHalfUpStrict(num, sdkmath.NewIntFromUint64(r.TokenReserve))
		if !lamports.IsUint64() {
			return nil, model.Errorf(model.KindQuoteUnavailable, "boop quote", "price overflows u64 lamports")
		}
		q.PriceLamports = lamports.Uint64()
	}
	q.Price = model.LamportsToSOL(q.PriceLamports)

	if r.GraduationTarget > 0 {
		q.BondingCurvePercent = decimal.NewNullDecimal(model.ProgressPercent(r.SolReserve, r.GraduationTarget))
	}
	return q, nil
}

// ExpectedOut estimates the swap output against the curve snapshot using the
// effective SOL reserve and the real token reserve. The swap fee is taken
// from the SOL side in both directions; a sell never pays out more than
// the real SOL reserve.
func ExpectedOut(r *CurveReserves, direction model.Direction, amountIn uint64) (uint64, error) {
	in := sdkmath.NewIntFromUint64(amountIn)
	sol := r.EffectiveSolReserve()
	tokens := sdkmath.NewIntFromUint64(r.TokenReserve)

	switch direction {
	case model.Buy:
		net := in.Sub(swapFee(in, r.SwapFeeBasisPoints))
		return model.ConstantProductOut(net, sol, tokens).Uint64(), nil
	case model.Sell:
		gross := model.ConstantProductOut(in, tokens, sol)
		out := gross.Sub(swapFee(gross, r.SwapFeeBasisPoints))
		if reserve := sdkmath.NewIntFromUint64(r.SolReserve); out.GT(reserve) {
			out = reserve
		}
		return out.Uint64(), nil
	}
	return 0, model.Errorf(model.KindInvalidInput, "boop expected out", "%w: %s", model.ErrUnsupportedDirection, direction)
}

func swapFee(amount sdkmath.Int, bps uint16) sdkmath.Int {
	if bps > basisPointsDenominator {
		bps = basisPointsDenominator
	}
	return amount.MulRaw(int64(bps)).QuoRaw(basisPointsDenominator)
}
