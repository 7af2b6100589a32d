// =============================
// File: internal/dex/boop/state.go
// =============================
package boop

import (
	sdkmath "cosmossdk.io/math"
	bin "github.com/gagliardetto/binary"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

const (
	discriminatorSize = 8
	// creator and mint public keys
	identitySize = 32 + 32

	// BondingCurveSize is the minimum length of a decodable curve account.
	BondingCurveSize = discriminatorSize + identitySize + 8*6 + 1 + 2
)

// CurveReserves is the numeric state of a boop.fun bonding curve.
type CurveReserves struct {
	VirtualSolReserve   uint64
	VirtualTokenReserve uint64
	GraduationTarget    uint64
	SolReserve          uint64
	TokenReserve        uint64
	DampingTerm         uint8
	SwapFeeBasisPoints  uint16
}

func (*CurveReserves) Protocol() model.Protocol { return model.ProtocolBoop }

// EffectiveSolReserve is the SOL side used for pricing: virtual plus real.
func (r *CurveReserves) EffectiveSolReserve() sdkmath.Int {
	return sdkmath.NewIntFromUint64(r.VirtualSolReserve).Add(sdkmath.NewIntFromUint64(r.SolReserve))
}

// DecodeBondingCurve decodes raw bonding curve account data.
func DecodeBondingCurve(data []byte) (curve *CurveReserves, err error) {
	if len(data) < BondingCurveSize {
		return nil, model.Errorf(model.KindDecode, "decode boop curve",
			"account is %d bytes, need at least %d", len(data), BondingCurveSize)
	}

	defer func() {
		if r := recover(); r != nil {
			curve = nil
			err = model.Errorf(model.KindDecode, "decode boop curve", "panic while decoding: %v", r)
		}
	}()

	dec := bin.NewBinDecoder(data)
	if err := dec.SkipBytes(discriminatorSize + identitySize); err != nil {
		return nil, decodeErr("header", err)
	}

	var out CurveReserves
	for _, f := range []struct {
		name string
		dst  *uint64
	}{
		{"virtual_sol_reserve", &out.VirtualSolReserve},
		{"virtual_token_reserve", &out.VirtualTokenReserve},
		{"graduation_target", &out.GraduationTarget},
	} {
		if *f.dst, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, decodeErr(f.name, err)
		}
	}

	// graduation fee is not needed for pricing
	if err := dec.SkipBytes(8); err != nil {
		return nil, decodeErr("graduation_fee", err)
	}

	if out.SolReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, decodeErr("sol_reserve", err)
	}
	if out.TokenReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, decodeErr("token_reserve", err)
	}
	if out.DampingTerm, err = dec.ReadUint8(); err != nil {
		return nil, decodeErr("damping_term", err)
	}
	if out.SwapFeeBasisPoints, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, decodeErr("swap_fee_basis_points", err)
	}
	return &out, nil
}

func decodeErr(field string, err error) error {
	return model.Errorf(model.KindDecode, "decode boop curve", "field %s: %w", field, err)
}
