// =============================
// File: internal/dex/boop/config.go
// =============================
package boop

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Program ID of the boop.fun bonding curve program
var ProgramID = solana.MustPublicKeyFromBase58("boop8hVGQGqehUK2iVEMEnMrL5RbjywRzHKBmBE7ry4")

// PDA seeds
const (
	BondingCurveSeed         = "bonding_curve"
	BondingCurveVaultSeed    = "bonding_curve_vault"
	BondingCurveSolVaultSeed = "bonding_curve_sol_vault"
	TradingFeesVaultSeed     = "trading_fees_vault"
	ConfigSeed               = "config"
	VaultAuthoritySeed       = "vault_authority"
)

// Config holds the addresses needed to trade one token on boop.fun
type Config struct {
	ProgramID solana.PublicKey

	// Protocol addresses
	Global         solana.PublicKey
	VaultAuthority solana.PublicKey

	// Token specific addresses
	Mint                 solana.PublicKey
	BondingCurve         solana.PublicKey
	BondingCurveVault    solana.PublicKey
	BondingCurveSolVault solana.PublicKey
	TradingFeesVault     solana.PublicKey
}

// GetDefaultConfig creates a default configuration for boop.fun
func GetDefaultConfig() *Config {
	return &Config{ProgramID: ProgramID}
}

// DeriveBondingCurveAddress derives the bonding curve PDA of a token mint.
func DeriveBondingCurveAddress(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	curve, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(BondingCurveSeed), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindInvalidInput, "derive bonding curve", "failed to derive boop curve for %s: %w", mint, err)
	}
	return curve, nil
}

// SetupForToken configures the Config instance for a specific token.
// An explicit curve address takes precedence over derivation.
func (cfg *Config) SetupForToken(mint solana.PublicKey, curve *solana.PublicKey, logger *zap.Logger) error {
	if mint.IsZero() {
		return model.Errorf(model.KindInvalidInput, "setup boop", "token mint address is required")
	}
	cfg.Mint = mint
	if cfg.ProgramID.IsZero() {
		cfg.ProgramID = ProgramID
	}

	var err error
	if curve != nil && !curve.IsZero() {
		cfg.BondingCurve = *curve
	} else if cfg.BondingCurve, err = DeriveBondingCurveAddress(cfg.ProgramID, mint); err != nil {
		return err
	}

	derive := func(dst *solana.PublicKey, seeds ...[]byte) error {
		addr, _, err := solana.FindProgramAddress(seeds, cfg.ProgramID)
		if err != nil {
			return fmt.Errorf("failed to derive %q: %w", seeds[0], err)
		}
		*dst = addr
		return nil
	}

	for _, step := range []struct {
		dst   *solana.PublicKey
		seeds [][]byte
	}{
		{&cfg.Global, [][]byte{[]byte(ConfigSeed)}},
		{&cfg.VaultAuthority, [][]byte{[]byte(VaultAuthoritySeed)}},
		{&cfg.BondingCurveVault, [][]byte{[]byte(BondingCurveVaultSeed), mint.Bytes()}},
		{&cfg.BondingCurveSolVault, [][]byte{[]byte(BondingCurveSolVaultSeed), mint.Bytes()}},
		{&cfg.TradingFeesVault, [][]byte{[]byte(TradingFeesVaultSeed), mint.Bytes()}},
	} {
		if err := derive(step.dst, step.seeds...); err != nil {
			return err
		}
	}

	logger.Debug("Boop configuration prepared",
		zap.String("mint", mint.String()),
		zap.String("bonding_curve", cfg.BondingCurve.String()))
	return nil
}
