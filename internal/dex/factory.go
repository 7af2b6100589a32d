// =============================
// File: internal/dex/factory.go
// =============================
package dex

import (
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/boop"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex/heaven"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// Options задаёт адреса программ и внешние зависимости адаптеров.
// Нулевые program ID означают mainnet-адреса по умолчанию.
type Options struct {
	HeavenProgramID solana.PublicKey
	BoopProgramID   solana.PublicKey
	BoopRegistry    boop.Registry
}

// Set хранит по одному адаптеру на каждый поддерживаемый протокол.
type Set struct {
	heaven *heaven.Adapter
	boop   *boop.Adapter
}

// NewSet создаёт адаптеры всех протоколов.
func NewSet(opts Options, logger *zap.Logger) *Set {
	return &Set{
		heaven: heaven.NewAdapter(opts.HeavenProgramID, logger),
		boop:   boop.NewAdapter(opts.BoopProgramID, opts.BoopRegistry, logger),
	}
}

// ForProtocol - единственная точка диспетчеризации по протоколу.
func (s *Set) ForProtocol(p model.Protocol) (Adapter, error) {
	switch p {
	case model.ProtocolHeaven:
		return s.heaven, nil
	case model.ProtocolBoop:
		return s.boop, nil
	default:
		return nil, model.Errorf(model.KindInvalidInput, "select adapter", "%w: %s", model.ErrUnsupportedProtocol, p)
	}
}
