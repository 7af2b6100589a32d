// =============================
// File: internal/dex/heaven/adapter.go
// =============================
package heaven

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Adapter binds the Heaven codecs to the common dex.Adapter contract.
type Adapter struct {
	programID solana.PublicKey
	logger    *zap.Logger
}

// NewAdapter creates a Heaven adapter. A zero programID selects the mainnet program.
func NewAdapter(programID solana.PublicKey, logger *zap.Logger) *Adapter {
	if programID.IsZero() {
		programID = ProgramID
	}
	return &Adapter{
		programID: programID,
		logger:    logger.Named("heaven"),
	}
}

func (a *Adapter) Protocol() model.Protocol { return model.ProtocolHeaven }

// ResolvePool returns the override when present, otherwise the derived pool PDA.
func (a *Adapter) ResolvePool(_ context.Context, mint solana.PublicKey, override *solana.PublicKey) (solana.PublicKey, error) {
	if override != nil && !override.IsZero() {
		return *override, nil
	}
	return DerivePoolAddress(a.programID, mint)
}

func (a *Adapter) DecodeReserves(data []byte) (model.ReserveSnapshot, error) {
	return DecodePoolState(data)
}

func (a *Adapter) Quote(snapshot model.ReserveSnapshot, decimals uint8) (*model.PriceQuote, error) {
	r, err := reservesOf(snapshot)
	if err != nil {
		return nil, err
	}
	return Quote(r, decimals)
}

// BuildInstructions builds the market instructions for one swap. The minimum
// output is derived from the snapshot and the slippage tolerance.
func (a *Adapter) BuildInstructions(direction model.Direction, params model.BuildParams) ([]solana.Instruction, error) {
	if err := model.ValidateSlippage(params.Slippage); err != nil {
		return nil, err
	}
	r, err := reservesOf(params.Reserves)
	if err != nil {
		return nil, err
	}

	expected, err := ExpectedOut(r, direction, params.Amount)
	if err != nil {
		return nil, err
	}
	minOut, err := model.MinAmountOut(expected, params.Slippage)
	if err != nil {
		return nil, err
	}

	cfg := GetDefaultConfig()
	cfg.ProgramID = a.programID
	pool := params.Pool
	if err := cfg.SetupForToken(params.Mint, &pool, a.logger); err != nil {
		return nil, err
	}

	a.logger.Debug("Building heaven swap",
		zap.Stringer("direction", direction),
		zap.String("pool", cfg.Pool.String()),
		zap.Uint64("amount_in", params.Amount),
		zap.Uint64("expected_out", expected),
		zap.Uint64("min_out", minOut))

	if direction == model.Buy {
		return BuildBuyInstructions(cfg, params.Wallet, params.Amount, minOut)
	}
	return BuildSellInstructions(cfg, params.Wallet, params.Amount, minOut)
}

func reservesOf(snapshot model.ReserveSnapshot) (*PoolReserves, error) {
	r, ok := snapshot.(*PoolReserves)
	if !ok || r == nil {
		return nil, model.Errorf(model.KindInvalidInput, "heaven", "expected heaven pool reserves, got %T", snapshot)
	}
	return r, nil
}
