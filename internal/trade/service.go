// internal/trade/service.go
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-swapkit/internal/blockchain"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
	"github.com/rovshanmuradov/solana-swapkit/internal/transaction"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/logger"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/metrics"
)

// Signer подписывает транзакцию ключом кошелька (wallet.Wallet).
type Signer interface {
	SignTransaction(tx *solana.Transaction) error
}

// Service выполняет конвейер: разрешение пула -> чтение и декодирование ->
// расчёт -> сборка -> симуляция/оценка -> отправка. Состояние между
// вызовами не хранится.
type Service struct {
	client   blockchain.Client
	adapters *dex.Set
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// ServiceConfig configuration for Service
type ServiceConfig struct {
	Client   blockchain.Client
	Adapters *dex.Set
	Logger   *zap.Logger
	// Metrics необязателен
	Metrics *metrics.Collector
}

// NewService создаёт сервис торговли.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client:   cfg.Client,
		adapters: cfg.Adapters,
		logger:   cfg.Logger.Named("trade"),
		metrics:  cfg.Metrics,
	}
}

// QuoteRequest - запрос котировки. Pool необязателен и заменяет выведенный адрес.
type QuoteRequest struct {
	Protocol model.Protocol `json:"protocol"`
	Mint     string         `json:"mint"`
	Pool     string         `json:"pool,omitempty"`
}

// TradeRequest описывает один свап. Amount указывается в целых единицах:
// SOL для покупки, токены для продажи.
type TradeRequest struct {
	Protocol        model.Protocol   `json:"protocol"`
	Direction       model.Direction  `json:"direction"`
	Mint            string           `json:"mint"`
	Pool            string           `json:"pool,omitempty"`
	Wallet          solana.PublicKey `json:"wallet"`
	Amount          decimal.Decimal  `json:"amount"`
	SlippagePercent float64          `json:"slippage_percent"`
	// PriorityFee в SOL; ноль - без compute budget инструкций.
	PriorityFee decimal.Decimal `json:"priority_fee"`

	Extra []solana.Instruction `json:"-"`

	// WithQuote и WithEstimate добавляют к Execute котировку и оценку комиссии.
	// Их ошибки не прерывают сделку.
	WithQuote    bool `json:"with_quote,omitempty"`
	WithEstimate bool `json:"with_estimate,omitempty"`
}

// ExecutionResult - итог Execute.
type ExecutionResult struct {
	Signature solana.Signature
	Plan      *transaction.Plan
	Quote     *model.PriceQuote
	QuoteErr  error
	Fee       *model.FeeEstimate
	FeeErr    error
}

// poolState - результат стадии чтения для одного запроса.
type poolState struct {
	adapter  dex.Adapter
	mint     solana.PublicKey
	pool     solana.PublicKey
	reserves model.ReserveSnapshot
	decimals uint8
}

// Quote возвращает цену токена и прогресс кривой бондинга.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (_ *model.PriceQuote, err error) {
	defer s.observe("quote", req.Protocol, time.Now(), &err)
	log := logger.Operation(s.logger, "quote")

	state, err := s.load(ctx, log, req.Protocol, req.Mint, req.Pool)
	if err != nil {
		switch model.KindOf(err) {
		case model.KindAccountNotFound, model.KindDecode:
			err = model.Wrap(model.KindQuoteUnavailable, "quote", err)
		}
		log.Warn("Quote unavailable", zap.Error(err))
		return nil, err
	}

	q, err := state.adapter.Quote(state.reserves, state.decimals)
	if err != nil {
		return nil, err
	}
	q.Mint = state.mint
	q.Pool = state.pool

	log.Info("Quote computed",
		zap.Stringer("protocol", q.Protocol),
		zap.String("mint", q.Mint.String()),
		zap.String("pool", q.Pool.String()),
		zap.String("price_sol", q.Price.String()),
		zap.Uint64("price_lamports", q.PriceLamports),
		zap.Bool("progress_known", q.BondingCurvePercent.Valid))
	return q, nil
}

// Plan собирает неподписанный план транзакции.
func (s *Service) Plan(ctx context.Context, req TradeRequest) (_ *transaction.Plan, err error) {
	defer s.observe("plan", req.Protocol, time.Now(), &err)
	return s.plan(ctx, logger.Operation(s.logger, "plan"), req)
}

// Estimate собирает план и оценивает его комиссию через симуляцию.
func (s *Service) Estimate(ctx context.Context, req TradeRequest) (_ *model.FeeEstimate, err error) {
	defer s.observe("estimate", req.Protocol, time.Now(), &err)
	log := logger.Operation(s.logger, "estimate")

	plan, err := s.plan(ctx, log, req)
	if err != nil {
		return nil, err
	}
	tx, err := s.transactionFor(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.estimate(ctx, log, tx, req.PriorityFee)
}

// Execute собирает, подписывает, отправляет транзакцию и ждёт подтверждения.
func (s *Service) Execute(ctx context.Context, req TradeRequest, signer Signer) (_ *ExecutionResult, err error) {
	defer s.observe("execute", req.Protocol, time.Now(), &err)
	log := logger.Operation(s.logger, "execute").With(
		zap.Stringer("protocol", req.Protocol),
		zap.Stringer("direction", req.Direction),
		zap.String("mint", req.Mint))

	res := &ExecutionResult{}
	if req.WithQuote {
		res.Quote, res.QuoteErr = s.Quote(ctx, QuoteRequest{Protocol: req.Protocol, Mint: req.Mint, Pool: req.Pool})
		if res.QuoteErr != nil {
			log.Warn("Quote failed, continuing with trade", zap.Error(res.QuoteErr))
		}
	}

	plan, err := s.plan(ctx, log, req)
	if err != nil {
		return res, err
	}
	res.Plan = plan

	tx, err := s.transactionFor(ctx, plan)
	if err != nil {
		return res, err
	}

	if req.WithEstimate {
		res.Fee, res.FeeErr = s.estimate(ctx, log, tx, req.PriorityFee)
		if res.FeeErr != nil {
			log.Warn("Fee estimate failed, continuing with trade", zap.Error(res.FeeErr))
		}
	}

	if err := signer.SignTransaction(tx); err != nil {
		return res, model.Errorf(model.KindInvalidInput, "sign", "failed to sign transaction: %w", err)
	}

	sig, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		return res, sendFailure("send", err)
	}
	res.Signature = sig
	log.Info("Transaction sent", zap.String("signature", sig.String()))

	if err := s.client.WaitForConfirmation(ctx, sig); err != nil {
		return res, sendFailure("confirm", err)
	}
	log.Info("Transaction confirmed", zap.String("signature", sig.String()))
	return res, nil
}

// observe записывает метрику операции; статус - вид ошибки или "success".
func (s *Service) observe(operation string, protocol model.Protocol, start time.Time, errp *error) {
	status := "success"
	if *errp != nil {
		status = model.KindOf(*errp).String()
	}
	s.metrics.RecordOperation(operation, protocol.String(), status, time.Since(start))
}

func (s *Service) plan(ctx context.Context, log *zap.Logger, req TradeRequest) (*transaction.Plan, error) {
	if req.Direction != model.Buy && req.Direction != model.Sell {
		return nil, model.Errorf(model.KindInvalidInput, "plan", "%w: %s", model.ErrUnsupportedDirection, req.Direction)
	}
	slippage, err := model.SlippageFromPercent(req.SlippagePercent)
	if err != nil {
		return nil, err
	}
	if req.Wallet.IsZero() {
		return nil, model.Errorf(model.KindInvalidInput, "plan", "wallet is required")
	}
	if !req.Amount.IsPositive() {
		return nil, model.Errorf(model.KindInvalidInput, "plan", "amount must be positive, got %s", req.Amount)
	}

	state, err := s.load(ctx, log, req.Protocol, req.Mint, req.Pool)
	if err != nil {
		return nil, err
	}

	decimals := state.decimals
	if req.Direction == model.Buy {
		decimals = model.NativeDecimals
	}
	amount, err := model.ToSmallestUnits(req.Amount, decimals)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, model.Errorf(model.KindInvalidInput, "plan", "amount %s is below the smallest unit", req.Amount)
	}

	plan, err := transaction.Assemble(state.adapter, transaction.Request{
		Direction: req.Direction,
		Params: model.BuildParams{
			Mint:     state.mint,
			Wallet:   req.Wallet,
			Pool:     state.pool,
			Amount:   amount,
			Slippage: slippage,
			Reserves: state.reserves,
		},
		PriorityFee: req.PriorityFee,
		Extra:       req.Extra,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("Plan assembled",
		zap.Int("instructions", len(plan.Instructions)),
		zap.Uint64("amount", amount),
		zap.Float64("slippage", slippage),
		zap.Uint64("micro_lamports_per_cu", plan.MicroLamportsPerCU))
	return plan, nil
}

func (s *Service) transactionFor(ctx context.Context, plan *transaction.Plan) (*solana.Transaction, error) {
	blockhash, err := s.client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, model.Wrap(model.KindLedger, "get blockhash", err)
	}
	tx, err := plan.Transaction(blockhash)
	if err != nil {
		return nil, model.Wrap(model.KindInvalidInput, "build transaction", err)
	}
	return tx, nil
}

func (s *Service) estimate(ctx context.Context, log *zap.Logger, tx *solana.Transaction, priorityFee decimal.Decimal) (*model.FeeEstimate, error) {
	baseFee, err := s.client.GetFeeForMessage(ctx, &tx.Message)
	if err != nil {
		return nil, model.Wrap(model.KindLedger, "get fee for message", err)
	}

	sim, err := s.client.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, model.Wrap(model.KindLedger, "simulate", err)
	}
	if sim.Err != nil {
		log.Warn("Simulation reported an error",
			zap.Any("error", sim.Err),
			zap.Strings("logs", sim.Logs))
		return nil, &model.Error{
			Kind: model.KindLedger,
			Op:   "simulate",
			Err:  fmt.Errorf("simulation failed: %v", sim.Err),
			Logs: sim.Logs,
		}
	}

	est := transaction.EstimateFee(baseFee, sim.UnitsConsumed, priorityFee)
	log.Info("Fee estimated",
		zap.Uint64("base_fee", est.BaseFeeLamports),
		zap.Uint64("priority_fee", est.PriorityFeeLamports),
		zap.Uint64("total", est.TotalLamports))
	return &est, nil
}

// load разрешает адрес пула и параллельно читает аккаунт пула и минт.
func (s *Service) load(ctx context.Context, log *zap.Logger, protocol model.Protocol, mintStr, poolStr string) (*poolState, error) {
	adapter, err := s.adapters.ForProtocol(protocol)
	if err != nil {
		return nil, err
	}
	mint, err := parseKey("mint", mintStr)
	if err != nil {
		return nil, err
	}
	var override *solana.PublicKey
	if strings.TrimSpace(poolStr) != "" {
		p, err := parseKey("pool", poolStr)
		if err != nil {
			return nil, err
		}
		override = &p
	}

	pool, err := adapter.ResolvePool(ctx, mint, override)
	if err != nil {
		return nil, err
	}

	var (
		data     []byte
		decimals uint8
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, pool, err = s.fetchPool(gctx, adapter, mint, pool, override == nil)
		return err
	})
	g.Go(func() error {
		decimals = s.mintDecimals(gctx, log, mint)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reserves, err := adapter.DecodeReserves(data)
	if err != nil {
		return nil, err
	}

	log.Debug("Pool state loaded",
		zap.Stringer("protocol", protocol),
		zap.String("pool", pool.String()),
		zap.Uint8("decimals", decimals))
	return &poolState{
		adapter:  adapter,
		mint:     mint,
		pool:     pool,
		reserves: reserves,
		decimals: decimals,
	}, nil
}

// fetchPool читает аккаунт пула. Если выведенный аккаунт отсутствует,
// адаптер с PoolFallback получает шанс назвать другой адрес.
func (s *Service) fetchPool(ctx context.Context, adapter dex.Adapter, mint, pool solana.PublicKey, allowFallback bool) ([]byte, solana.PublicKey, error) {
	data, err := s.client.GetAccount(ctx, pool)
	if errors.Is(err, blockchain.ErrAccountNotFound) && allowFallback {
		if fb, ok := adapter.(dex.PoolFallback); ok {
			alt, found, ferr := fb.FallbackPool(ctx, mint)
			if ferr != nil {
				return nil, pool, ferr
			}
			if found {
				pool = alt
				data, err = s.client.GetAccount(ctx, alt)
			}
		}
	}
	if err != nil {
		return nil, pool, ledgerError("fetch pool", pool, err)
	}
	return data, pool, nil
}

// mintDecimals читает точность токена; при любой ошибке возвращает 9.
func (s *Service) mintDecimals(ctx context.Context, log *zap.Logger, mint solana.PublicKey) uint8 {
	data, err := s.client.GetAccount(ctx, mint)
	if err != nil {
		log.Warn("Mint account unavailable, using default decimals",
			zap.String("mint", mint.String()),
			zap.Uint8("decimals", model.DefaultTokenDecimals),
			zap.Error(err))
		return model.DefaultTokenDecimals
	}

	var m token.Mint
	if err := bin.NewBinDecoder(data).Decode(&m); err != nil {
		log.Warn("Mint account undecodable, using default decimals",
			zap.String("mint", mint.String()),
			zap.Error(err))
		return model.DefaultTokenDecimals
	}
	return m.Decimals
}

func parseKey(field, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(value))
	if err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindInvalidInput, "parse "+field, "invalid %s address %q: %w", field, value, err)
	}
	return key, nil
}

func ledgerError(op string, address solana.PublicKey, err error) error {
	var typed *model.Error
	switch {
	case errors.As(err, &typed):
		return err
	case errors.Is(err, blockchain.ErrAccountNotFound):
		return model.Errorf(model.KindAccountNotFound, op, "%w: %s", model.ErrPoolNotFound, address)
	default:
		return model.Wrap(model.KindLedger, op, err)
	}
}

func sendFailure(op string, err error) error {
	e := &model.Error{Kind: model.KindSendFailure, Op: op, Err: err}
	var sendErr *blockchain.SendError
	if errors.As(err, &sendErr) {
		e.Logs = sendErr.Logs
	}
	return e
}
