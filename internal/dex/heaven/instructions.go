// =============================
// File: internal/dex/heaven/instructions.go
// =============================
package heaven

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	binutil "github.com/rovshanmuradov/solana-swapkit/internal/utils/binary"
	"github.com/rovshanmuradov/solana-swapkit/internal/wallet"
)

// Instruction names as declared by the program
const (
	buyMethod  = "buy"
	sellMethod = "sell"
)

// BuildBuyInstructions returns the full market sequence for spending
// amountIn lamports on the pool token:
// token ATA, WSOL ATA, wrap SOL, swap, unwrap remaining WSOL.
func BuildBuyInstructions(cfg *Config, user solana.PublicKey, amountIn, minOut uint64) ([]solana.Instruction, error) {
	createToken, userToken, err := wallet.CreateATAIdempotentInstruction(user, user, cfg.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare token account: %w", err)
	}
	createQuote, userQuote, err := wallet.CreateATAIdempotentInstruction(user, user, cfg.QuoteMint)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare wsol account: %w", err)
	}

	return []solana.Instruction{
		createToken,
		createQuote,
		system.NewTransferInstruction(amountIn, user, userQuote).Build(),
		token.NewSyncNativeInstruction(userQuote).Build(),
		buildSwapInstruction(buyMethod, cfg, user, userToken, userQuote, amountIn, minOut),
		token.NewCloseAccountInstruction(userQuote, user, user, []solana.PublicKey{}).Build(),
	}, nil
}

// BuildSellInstructions returns the market sequence for selling amountIn raw
// token units: WSOL ATA, swap, unwrap received WSOL.
func BuildSellInstructions(cfg *Config, user solana.PublicKey, amountIn, minOut uint64) ([]solana.Instruction, error) {
	userToken, _, err := solana.FindAssociatedTokenAddress(user, cfg.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token account: %w", err)
	}
	createQuote, userQuote, err := wallet.CreateATAIdempotentInstruction(user, user, cfg.QuoteMint)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare wsol account: %w", err)
	}

	return []solana.Instruction{
		createQuote,
		buildSwapInstruction(sellMethod, cfg, user, userToken, userQuote, amountIn, minOut),
		token.NewCloseAccountInstruction(userQuote, user, user, []solana.PublicKey{}).Build(),
	}, nil
}

func buildSwapInstruction(
	method string,
	cfg *Config,
	user, userToken, userQuote solana.PublicKey,
	amountIn, minOut uint64,
) solana.Instruction {
	data := binutil.NewInstructionData(method).U64(amountIn).U64(minOut).Bytes()

	// Account list must be in the exact order expected by the program
	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(cfg.Pool, true, false),
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(cfg.Mint, false, false),
		solana.NewAccountMeta(cfg.QuoteMint, false, false),
		solana.NewAccountMeta(userToken, true, false),
		solana.NewAccountMeta(userQuote, true, false),
		solana.NewAccountMeta(cfg.TokenVault, true, false),
		solana.NewAccountMeta(cfg.QuoteVault, true, false),
		solana.NewAccountMeta(cfg.ProtocolConfig, false, false),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
	}

	return solana.NewInstruction(cfg.ProgramID, accounts, data)
}
