// =============================
// File: internal/dex/boop/adapter.go
// =============================
package boop

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Adapter binds the boop.fun codecs to the common dex.Adapter contract.
type Adapter struct {
	programID solana.PublicKey
	registry  Registry
	logger    *zap.Logger
}

// NewAdapter creates a boop adapter. registry may be nil.
func NewAdapter(programID solana.PublicKey, registry Registry, logger *zap.Logger) *Adapter {
	if programID.IsZero() {
		programID = ProgramID
	}
	return &Adapter{
		programID: programID,
		registry:  registry,
		logger:    logger.Named("boop"),
	}
}

func (a *Adapter) Protocol() model.Protocol { return model.ProtocolBoop }

// ResolvePool returns the override when present, otherwise the derived curve PDA.
func (a *Adapter) ResolvePool(_ context.Context, mint solana.PublicKey, override *solana.PublicKey) (solana.PublicKey, error) {
	if override != nil && !override.IsZero() {
		return *override, nil
	}
	return DeriveBondingCurveAddress(a.programID, mint)
}

// FallbackPool asks the off-chain registry for a curve address. ok is false
// when no registry is configured.
func (a *Adapter) FallbackPool(ctx context.Context, mint solana.PublicKey) (pool solana.PublicKey, ok bool, err error) {
	if a.registry == nil {
		return solana.PublicKey{}, false, nil
	}
	pool, err = a.registry.LookupPool(ctx, mint)
	if err != nil {
		return solana.PublicKey{}, true, err
	}
	a.logger.Info("Bonding curve resolved through registry",
		zap.String("mint", mint.String()),
		zap.String("bonding_curve", pool.String()))
	return pool, true, nil
}

func (a *Adapter) DecodeReserves(data []byte) (model.ReserveSnapshot, error) {
	return DecodeBondingCurve(data)
}

func (a *Adapter) Quote(snapshot model.ReserveSnapshot, decimals uint8) (*model.PriceQuote, error) {
	r, err := reservesOf(snapshot)
	if err != nil {
		return nil, err
	}
	return Quote(r, decimals)
}

// BuildInstructions builds buy_token or sell_token with a minimum output
// derived from the snapshot and the slippage tolerance.
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
	curve := params.Pool
	if err := cfg.SetupForToken(params.Mint, &curve, a.logger); err != nil {
		return nil, err
	}

	a.logger.Debug("Building boop swap",
		zap.Stringer("direction", direction),
		zap.String("bonding_curve", cfg.BondingCurve.String()),
		zap.Uint64("amount_in", params.Amount),
		zap.Uint64("expected_out", expected),
		zap.Uint64("min_out", minOut),
		zap.Uint16("fee_bps", r.SwapFeeBasisPoints))

	if direction == model.Buy {
		return BuildBuyInstructions(cfg, params.Wallet, params.Amount, minOut)
	}
	return BuildSellInstructions(cfg, params.Wallet, params.Amount, minOut)
}

func reservesOf(snapshot model.ReserveSnapshot) (*CurveReserves, error) {
	r, ok := snapshot.(*CurveReserves)
	if !ok || r == nil {
		return nil, model.Errorf(model.KindInvalidInput, "boop", "expected boop curve reserves, got %T", snapshot)
	}
	return r, nil
}
