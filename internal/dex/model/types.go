// =============================
// File: internal/dex/model/types.go
// =============================
package model

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// DefaultTokenDecimals используется, если точность минта прочитать не удалось.
const DefaultTokenDecimals uint8 = 9

// LamportsPerSOL - масштаб между SOL и наименьшей единицей (lamport).
const (
	LamportsPerSOL uint64 = 1_000_000_000
	NativeDecimals uint8  = 9
)

// ReserveSnapshot - декодированное состояние пула одного протокола.
// Реализуется heaven.PoolReserves и boop.CurveReserves.
type ReserveSnapshot interface {
	Protocol() Protocol
}

// PriceQuote содержит цену токена и прогресс кривой бондинга.
type PriceQuote struct {
	Protocol Protocol         `json:"protocol"`
	Mint     solana.PublicKey `json:"mint"`
	Pool     solana.PublicKey `json:"pool"`
	Decimals uint8            `json:"decimals"`

	// PriceLamports - лампорты за один целый токен, округлённые
	// по правилу round-half-up-strict.
	PriceLamports uint64 `json:"price_lamports"`
	// Price - та же цена в SOL.
	Price decimal.Decimal `json:"price"`

	// BondingCurvePercent в диапазоне [0, 100]; Valid=false - прогресс неизвестен.
	BondingCurvePercent decimal.NullDecimal `json:"bonding_curve_percent"`
}

// FeeEstimate - оценка комиссии транзакции в лампортах.
type FeeEstimate struct {
	BaseFeeLamports             uint64  `json:"base_fee_lamports"`
	PriorityFeeLamports         uint64  `json:"priority_fee_lamports"`
	TotalLamports               uint64  `json:"total_lamports"`
	ComputeUnitsConsumed        *uint64 `json:"compute_units_consumed,omitempty"`
	MicroLamportsPerComputeUnit uint64  `json:"micro_lamports_per_compute_unit"`
}

// Total возвращает итоговую комиссию в SOL.
func (f FeeEstimate) Total() decimal.Decimal {
	return LamportsToSOL(f.TotalLamports)
}

// BuildParams - входные данные для построения рыночных инструкций.
// Amount указывается в наименьших единицах: лампорты для покупки,
// сырые единицы токена для продажи.
type BuildParams struct {
	Mint     solana.PublicKey
	Wallet   solana.PublicKey
	Pool     solana.PublicKey
	Amount   uint64
	Slippage float64
	Reserves ReserveSnapshot
}
