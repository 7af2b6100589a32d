// internal/blockchain/types.go
package blockchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrAccountNotFound возвращается, если аккаунт отсутствует в блокчейне.
var ErrAccountNotFound = errors.New("account not found")

// SimulationResult представляет результат симуляции транзакции.
// UnitsConsumed равен nil, если узел не сообщил потребление.
type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed *uint64
}

// SendError - ошибка отправки или подтверждения транзакции с логами программы,
// если сеть их вернула.
type SendError struct {
	Err  error
	Logs []string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send transaction: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Client определяет интерфейс доступа к блокчейну, необходимый адаптерам протоколов.
type Client interface {
	// Получить сырые данные аккаунта; ErrAccountNotFound, если аккаунта нет.
	GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
	// Получить последний blockhash.
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
	// Получить базовую комиссию за сообщение в лампортах.
	GetFeeForMessage(ctx context.Context, message *solana.Message) (uint64, error)
	// Симулировать транзакцию (подпись не требуется).
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error)
	// Отправить подписанную транзакцию.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	// Ожидание подтверждения транзакции.
	WaitForConfirmation(ctx context.Context, signature solana.Signature) error
}
