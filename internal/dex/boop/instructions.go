// =============================
// File: internal/dex/boop/instructions.go
// =============================
package boop

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	binutil "github.com/rovshanmuradov/solana-swapkit/internal/utils/binary"
	"github.com/rovshanmuradov/solana-swapkit/internal/wallet"
)

// Instruction names as declared by the program
const (
	buyTokenMethod  = "buy_token"
	sellTokenMethod = "sell_token"
)

// BuildBuyInstructions returns the recipient token account creation followed
// by buy_token(buy_amount, amount_out_min). The curve takes native SOL.
func BuildBuyInstructions(cfg *Config, buyer solana.PublicKey, buyAmount, amountOutMin uint64) ([]solana.Instruction, error) {
	createATA, recipient, err := wallet.CreateATAIdempotentInstruction(buyer, buyer, cfg.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare token account: %w", err)
	}

	data := binutil.NewInstructionData(buyTokenMethod).U64(buyAmount).U64(amountOutMin).Bytes()

	// Account list must be in the exact order expected by the program
	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(cfg.Mint, false, false),
		solana.NewAccountMeta(cfg.BondingCurve, true, false),
		solana.NewAccountMeta(cfg.TradingFeesVault, true, false),
		solana.NewAccountMeta(cfg.BondingCurveVault, true, false),
		solana.NewAccountMeta(cfg.BondingCurveSolVault, true, false),
		solana.NewAccountMeta(recipient, true, false),
		solana.NewAccountMeta(buyer, true, true),
		solana.NewAccountMeta(cfg.Global, false, false),
		solana.NewAccountMeta(cfg.VaultAuthority, false, false),
		solana.NewAccountMeta(solana.SolMint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
	}

	return []solana.Instruction{
		createATA,
		solana.NewInstruction(cfg.ProgramID, accounts, data),
	}, nil
}

// BuildSellInstructions returns sell_token(sell_amount, amount_out_min).
// Proceeds are paid to the seller in native SOL.
func BuildSellInstructions(cfg *Config, seller solana.PublicKey, sellAmount, amountOutMin uint64) ([]solana.Instruction, error) {
	sellerATA, _, err := solana.FindAssociatedTokenAddress(seller, cfg.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token account: %w", err)
	}

	data := binutil.NewInstructionData(sellTokenMethod).U64(sellAmount).U64(amountOutMin).Bytes()

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(cfg.Mint, false, false),
		solana.NewAccountMeta(cfg.BondingCurve, true, false),
		solana.NewAccountMeta(cfg.TradingFeesVault, true, false),
		solana.NewAccountMeta(cfg.BondingCurveVault, true, false),
		solana.NewAccountMeta(cfg.BondingCurveSolVault, true, false),
		solana.NewAccountMeta(sellerATA, true, false),
		solana.NewAccountMeta(seller, true, true),
		solana.NewAccountMeta(seller, true, false),
		solana.NewAccountMeta(cfg.Global, false, false),
		solana.NewAccountMeta(cfg.VaultAuthority, false, false),
		solana.NewAccountMeta(solana.SolMint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
	}

	return []solana.Instruction{
		solana.NewInstruction(cfg.ProgramID, accounts, data),
	}, nil
}
