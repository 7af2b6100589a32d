// =============================
// File: internal/dex/dex.go
// =============================
package dex

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Adapter - общий контракт протокольного адаптера: разрешение адреса пула,
// декодирование состояния, котировка и построение рыночных инструкций.
type Adapter interface {
	Protocol() model.Protocol
	// ResolvePool возвращает override, если он задан, иначе выводит PDA пула.
	ResolvePool(ctx context.Context, mint solana.PublicKey, override *solana.PublicKey) (solana.PublicKey, error)
	DecodeReserves(data []byte) (model.ReserveSnapshot, error)
	Quote(snapshot model.ReserveSnapshot, decimals uint8) (*model.PriceQuote, error)
	BuildInstructions(direction model.Direction, params model.BuildParams) ([]solana.Instruction, error)
}

// PoolFallback реализуется адаптерами, которые умеют искать пул вне блокчейна,
// если выведенный аккаунт отсутствует.
type PoolFallback interface {
	FallbackPool(ctx context.Context, mint solana.PublicKey) (solana.PublicKey, bool, error)
}
