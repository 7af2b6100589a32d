// internal/transaction/fee_manager.go
package transaction

import (
	sdkmath "cosmossdk.io/math"
	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// ComputeUnitLimit - бюджет вычислительных единиц, запрашиваемый вместе с priority fee.
const ComputeUnitLimit uint32 = 300_000

// microLamportsPerLamport переводит лампорты в микролампорты.
const microLamportsPerLamport = 1_000_000

// MicroLamportsPerComputeUnit рассчитывает цену вычислительной единицы:
// max(1, floor(priorityFee * 1e9 / ComputeUnitLimit)), если priority fee
// запрошен (больше нуля), иначе 0.
func MicroLamportsPerComputeUnit(priorityFeeSOL decimal.Decimal) uint64 {
	if !priorityFeeSOL.IsPositive() {
		return 0
	}
	price := priorityFeeSOL.
		Mul(decimal.NewFromInt(int64(model.LamportsPerSOL))).
		Div(decimal.NewFromInt(int64(ComputeUnitLimit))).
		Floor()
	if price.LessThan(decimal.NewFromInt(1)) {
		return 1
	}
	return price.BigInt().Uint64()
}

// BudgetInstructions возвращает SetComputeUnitLimit и SetComputeUnitPrice
// в этом порядке, либо nil, если priority fee не запрошен.
func BudgetInstructions(microLamports uint64) []solana.Instruction {
	if microLamports == 0 {
		return nil
	}
	return []solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(ComputeUnitLimit).Build(),
		computebudget.NewSetComputeUnitPriceInstruction(microLamports).Build(),
	}
}

// EstimateFee складывает базовую комиссию сети и стоимость приоритета.
// Стоимость приоритета считается только если симуляция вернула число
// потреблённых единиц и цена единицы больше нуля.
func EstimateFee(baseFeeLamports uint64, unitsConsumed *uint64, priorityFeeSOL decimal.Decimal) model.FeeEstimate {
	micro := MicroLamportsPerComputeUnit(priorityFeeSOL)

	var priority uint64
	if unitsConsumed != nil && micro > 0 {
		cost := sdkmath.NewIntFromUint64(*unitsConsumed).
			Mul(sdkmath.NewIntFromUint64(micro)).
			QuoRaw(microLamportsPerLamport)
		priority = cost.Uint64()
	}

	est := model.FeeEstimate{
		BaseFeeLamports:             baseFeeLamports,
		PriorityFeeLamports:         priority,
		TotalLamports:               baseFeeLamports + priority,
		MicroLamportsPerComputeUnit: micro,
	}
	if unitsConsumed != nil {
		est.ComputeUnitsConsumed = pointer.ToUint64(*unitsConsumed)
	}
	return est
}
