// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rovshanmuradov/solana-swapkit/internal/blockchain"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/metrics"
)

var errNotConfirmed = errors.New("transaction not confirmed yet")

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc      *rpc.Client
	limiter  *rate.Limiter
	analyzer *ErrorAnalyzer
	logger   *zap.Logger
	opts     ClientOptions
}

// ClientOptions содержит параметры RPC-клиента.
type ClientOptions struct {
	Commitment rpc.CommitmentType
	// RateLimit - максимум запросов в секунду, 0 - без ограничения.
	RateLimit       float64
	ConfirmInterval time.Duration
	ConfirmTimeout  time.Duration
	// Metrics необязателен
	Metrics *metrics.Collector
}

// DefaultClientOptions возвращает настройки по умолчанию.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Commitment:      rpc.CommitmentConfirmed,
		ConfirmInterval: 500 * time.Millisecond,
		ConfirmTimeout:  60 * time.Second,
	}
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, logger *zap.Logger, opts ...ClientOptions) *Client {
	options := DefaultClientOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.Commitment == "" {
		options.Commitment = rpc.CommitmentConfirmed
	}
	if options.ConfirmInterval <= 0 {
		options.ConfirmInterval = 500 * time.Millisecond
	}
	if options.ConfirmTimeout <= 0 {
		options.ConfirmTimeout = 60 * time.Second
	}

	var limiter *rate.Limiter
	if options.RateLimit > 0 {
		burst := int(options.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(options.RateLimit), burst)
	}

	logger = logger.Named("solbc-client")
	return &Client{
		rpc:      rpc.New(rpcURL),
		limiter:  limiter,
		analyzer: NewErrorAnalyzer(logger),
		logger:   logger,
		opts:     options,
	}
}

// wait блокируется до получения разрешения от лимитера запросов.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// GetAccount возвращает сырые данные аккаунта.
func (c *Client) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: c.opts.Commitment,
		Encoding:   solana.EncodingBase64,
	})
	c.opts.Metrics.RecordRPC("getAccountInfo", time.Since(start), err)
	if errors.Is(err, rpc.ErrNotFound) || (err == nil && (result == nil || result.Value == nil)) {
		return nil, fmt.Errorf("%w: %s", blockchain.ErrAccountNotFound, address)
	}
	if err != nil {
		c.logger.Debug("GetAccount error",
			zap.String("address", address.String()),
			zap.Error(err))
		return nil, err
	}
	return result.Value.Data.GetBinary(), nil
}

// GetRecentBlockhash получает последний blockhash.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	if err := c.wait(ctx); err != nil {
		return solana.Hash{}, err
	}
	start := time.Now()
	result, err := c.rpc.GetLatestBlockhash(ctx, c.opts.Commitment)
	c.opts.Metrics.RecordRPC("getLatestBlockhash", time.Since(start), err)
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// GetFeeForMessage возвращает базовую комиссию сети за сообщение.
func (c *Client) GetFeeForMessage(ctx context.Context, message *solana.Message) (uint64, error) {
	raw, err := message.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("failed to serialize message: %w", err)
	}
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	start := time.Now()
	result, err := c.rpc.GetFeeForMessage(ctx, base64.StdEncoding.EncodeToString(raw), c.opts.Commitment)
	c.opts.Metrics.RecordRPC("getFeeForMessage", time.Since(start), err)
	if err != nil {
		c.logger.Error("GetFeeForMessage error", zap.Error(err))
		return 0, err
	}
	if result == nil || result.Value == nil {
		return 0, fmt.Errorf("fee for message unavailable: blockhash may have expired")
	}
	return *result.Value, nil
}

// SimulateTransaction симулирует транзакцию без проверки подписей.
// Blockhash заменяется узлом на актуальный.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	sim := *tx
	if len(sim.Signatures) == 0 {
		sim.Signatures = make([]solana.Signature, sim.Message.Header.NumRequiredSignatures)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := c.rpc.SimulateTransactionWithOpts(ctx, &sim, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             c.opts.Commitment,
		ReplaceRecentBlockhash: true,
	})
	c.opts.Metrics.RecordRPC("simulateTransaction", time.Since(start), err)
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, err
	}
	return &blockchain.SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: result.Value.UnitsConsumed,
	}, nil
}

// SendTransaction отправляет подписанную транзакцию. Логи программы из ответа
// предварительной симуляции прикладываются к ошибке.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := c.wait(ctx); err != nil {
		return solana.Signature{}, err
	}
	start := time.Now()
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.opts.Commitment,
	})
	c.opts.Metrics.RecordRPC("sendTransaction", time.Since(start), err)
	if err != nil {
		analysis := c.analyzer.AnalyzeRPCError(err)
		c.logger.Error("SendTransaction error",
			zap.String("type", analysis.Type),
			zap.Strings("logs", analysis.Logs),
			zap.Error(err))
		return solana.Signature{}, &blockchain.SendError{Err: err, Logs: analysis.Logs}
	}
	return sig, nil
}

// WaitForConfirmation опрашивает статус подписи до подтверждения,
// ошибки транзакции или истечения ConfirmTimeout.
func (c *Client) WaitForConfirmation(ctx context.Context, signature solana.Signature) error {
	operation := func() (struct{}, error) {
		if err := c.wait(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		start := time.Now()
		statuses, err := c.rpc.GetSignatureStatuses(ctx, false, signature)
		c.opts.Metrics.RecordRPC("getSignatureStatuses", time.Since(start), err)
		if err != nil {
			c.logger.Warn("Error getting signature statuses", zap.Error(err))
			return struct{}{}, err
		}
		if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
			return struct{}{}, errNotConfirmed
		}
		status := statuses.Value[0]
		if status.Err != nil {
			return struct{}{}, backoff.Permanent(&blockchain.SendError{
				Err: fmt.Errorf("transaction %s failed: %v", signature, status.Err),
			})
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return struct{}{}, nil
		}
		return struct{}{}, errNotConfirmed
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.opts.ConfirmInterval)),
		backoff.WithMaxElapsedTime(c.opts.ConfirmTimeout),
	)
	if err != nil {
		var sendErr *blockchain.SendError
		if errors.As(err, &sendErr) {
			return sendErr
		}
		return &blockchain.SendError{Err: fmt.Errorf("confirmation of %s: %w", signature, err)}
	}
	c.logger.Debug("Transaction confirmed", zap.String("signature", signature.String()))
	return nil
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
