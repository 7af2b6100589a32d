// =============================
// File: internal/dex/heaven/state.go
// =============================
package heaven

import (
	bin "github.com/gagliardetto/binary"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

const (
	// discriminator(8) + fixed pool header(88) + pool parameters(360)
	poolHeaderSize = 8 + 88 + 360

	// PoolStateSize is the minimum length of a pool account we can decode:
	// the header plus the reserve block.
	PoolStateSize = poolHeaderSize + 8 + 8 + 32 + 8 + 8
)

// PoolReserves is the reserve block of a Heaven pool account.
// Token A is the traded token, token B is wrapped SOL.
type PoolReserves struct {
	TokenAReserve        uint64
	TokenBReserve        uint64
	InitialTokenAReserve uint64
	InitialTokenBReserve uint64
}

func (*PoolReserves) Protocol() model.Protocol { return model.ProtocolHeaven }

// DecodePoolState extracts the reserve block from raw pool account data.
// The layout is fixed; data shorter than PoolStateSize is rejected.
func DecodePoolState(data []byte) (reserves *PoolReserves, err error) {
	if len(data) < PoolStateSize {
		return nil, model.Errorf(model.KindDecode, "decode heaven pool",
			"account is %d bytes, need at least %d", len(data), PoolStateSize)
	}

	defer func() {
		if r := recover(); r != nil {
			reserves = nil
			err = model.Errorf(model.KindDecode, "decode heaven pool", "panic while decoding: %v", r)
		}
	}()

	dec := bin.NewBinDecoder(data)
	if err := dec.SkipBytes(poolHeaderSize); err != nil {
		return nil, decodeErr("header", err)
	}

	var out PoolReserves
	if out.TokenAReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, decodeErr("token_a_reserve", err)
	}
	if out.TokenBReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, decodeErr("token_b_reserve", err)
	}
	// 32 bytes between the live and initial reserves are not used here
	if err := dec.SkipBytes(32); err != nil {
		return nil, decodeErr("padding", err)
	}
	if out.InitialTokenAReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, decodeErr("initial_token_a_reserve", err)
	}
	if out.InitialTokenBReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, decodeErr("initial_token_b_reserve", err)
	}
	return &out, nil
}

func decodeErr(field string, err error) error {
	return model.Errorf(model.KindDecode, "decode heaven pool", "field %s: %w", field, err)
}
