// internal/transaction/transaction.go
package transaction

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// MarketBuilder строит рыночные инструкции одного протокола (dex.Adapter).
type MarketBuilder interface {
	BuildInstructions(direction model.Direction, params model.BuildParams) ([]solana.Instruction, error)
}

// Request - вход сборщика транзакции.
type Request struct {
	Direction model.Direction
	Params    model.BuildParams
	// PriorityFee в SOL; ноль означает, что compute budget не запрашивается.
	PriorityFee decimal.Decimal
	// Extra добавляются в конец без изменений.
	Extra []solana.Instruction
}

// Plan - упорядоченный набор инструкций с плательщиком комиссии.
// Не подписан и не содержит blockhash.
type Plan struct {
	Instructions       []solana.Instruction
	FeePayer           solana.PublicKey
	Pool               solana.PublicKey
	ComputeUnitLimit   uint32
	MicroLamportsPerCU uint64
}

// Assemble собирает план: [SetComputeUnitLimit, SetComputeUnitPrice] при
// запрошенном priority fee, затем рыночные инструкции, затем Extra.
func Assemble(builder MarketBuilder, req Request) (*Plan, error) {
	if err := model.ValidateSlippage(req.Params.Slippage); err != nil {
		return nil, err
	}
	if req.PriorityFee.IsNegative() {
		return nil, model.Errorf(model.KindInvalidInput, "assemble", "priority fee must not be negative: %s", req.PriorityFee)
	}
	if req.Params.Wallet.IsZero() {
		return nil, model.Errorf(model.KindInvalidInput, "assemble", "wallet is required")
	}

	market, err := builder.BuildInstructions(req.Direction, req.Params)
	if err != nil {
		return nil, err
	}

	micro := MicroLamportsPerComputeUnit(req.PriorityFee)
	budget := BudgetInstructions(micro)

	ixs := make([]solana.Instruction, 0, len(budget)+len(market)+len(req.Extra))
	ixs = append(ixs, budget...)
	ixs = append(ixs, market...)
	ixs = append(ixs, req.Extra...)

	plan := &Plan{
		Instructions:       ixs,
		FeePayer:           req.Params.Wallet,
		Pool:               req.Params.Pool,
		MicroLamportsPerCU: micro,
	}
	if micro > 0 {
		plan.ComputeUnitLimit = ComputeUnitLimit
	}
	return plan, nil
}

// Transaction создаёт неподписанную транзакцию плана с заданным blockhash.
func (p *Plan) Transaction(blockhash solana.Hash) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(p.Instructions, blockhash, solana.TransactionPayer(p.FeePayer))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}
