// =============================
// File: internal/dex/heaven/config.go
// =============================
package heaven

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Known Heaven protocol addresses
var (
	// Program ID of the Heaven AMM
	ProgramID = solana.MustPublicKeyFromBase58("HEAVENoP2qxoeuF8Dj2oT1GHEnu49U5mJYkdeC8BAX2o")

	// Every Heaven pool quotes its token against wrapped SOL
	QuoteMint = solana.SolMint
)

// PDA seeds
const (
	PoolStateSeed      = "liquidity_pool_state"
	ProtocolConfigSeed = "protocol_config"
)

// Config holds the addresses needed to trade one token on Heaven
type Config struct {
	ProgramID solana.PublicKey
	QuoteMint solana.PublicKey

	// Token specific addresses
	Mint           solana.PublicKey
	Pool           solana.PublicKey
	TokenVault     solana.PublicKey
	QuoteVault     solana.PublicKey
	ProtocolConfig solana.PublicKey
}

// GetDefaultConfig creates a default configuration for Heaven
func GetDefaultConfig() *Config {
	return &Config{
		ProgramID: ProgramID,
		QuoteMint: QuoteMint,
	}
}

// DerivePoolAddress derives the pool state PDA for a token mint.
func DerivePoolAddress(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	pool, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(PoolStateSeed), mint.Bytes(), QuoteMint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindInvalidInput, "derive pool", "failed to derive heaven pool for %s: %w", mint, err)
	}
	return pool, nil
}

// SetupForToken configures the Config instance for a specific token.
// An explicit pool address takes precedence over derivation.
func (cfg *Config) SetupForToken(mint solana.PublicKey, pool *solana.PublicKey, logger *zap.Logger) error {
	if mint.IsZero() {
		return model.Errorf(model.KindInvalidInput, "setup heaven", "token mint address is required")
	}
	cfg.Mint = mint

	if cfg.ProgramID.IsZero() {
		cfg.ProgramID = ProgramID
	}
	if cfg.QuoteMint.IsZero() {
		cfg.QuoteMint = QuoteMint
	}

	var err error
	if pool != nil && !pool.IsZero() {
		cfg.Pool = *pool
	} else if cfg.Pool, err = DerivePoolAddress(cfg.ProgramID, mint); err != nil {
		return err
	}

	cfg.ProtocolConfig, _, err = solana.FindProgramAddress(
		[][]byte{[]byte(ProtocolConfigSeed)},
		cfg.ProgramID,
	)
	if err != nil {
		return fmt.Errorf("failed to derive protocol config: %w", err)
	}

	// Pool vaults are plain associated token accounts owned by the pool PDA
	if cfg.TokenVault, _, err = solana.FindAssociatedTokenAddress(cfg.Pool, mint); err != nil {
		return fmt.Errorf("failed to derive token vault: %w", err)
	}
	if cfg.QuoteVault, _, err = solana.FindAssociatedTokenAddress(cfg.Pool, cfg.QuoteMint); err != nil {
		return fmt.Errorf("failed to derive quote vault: %w", err)
	}

	logger.Debug("Heaven configuration prepared",
		zap.String("mint", mint.String()),
		zap.String("pool", cfg.Pool.String()),
		zap.Bool("pool_override", pool != nil && !pool.IsZero()))
	return nil
}
