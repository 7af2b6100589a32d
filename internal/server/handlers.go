package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
	"github.com/rovshanmuradov/solana-swapkit/internal/trade"
	"github.com/rovshanmuradov/solana-swapkit/internal/transaction"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/metrics"
)

// Trader is the part of trade.Service exposed over HTTP
type Trader interface {
	Quote(ctx context.Context, req trade.QuoteRequest) (*model.PriceQuote, error)
	Plan(ctx context.Context, req trade.TradeRequest) (*transaction.Plan, error)
	Estimate(ctx context.Context, req trade.TradeRequest) (*model.FeeEstimate, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Trader                 Trader
	DefaultSlippagePercent float64
	DefaultPriorityFee     decimal.Decimal
	Timeout                time.Duration      // per-request deadline, 30s when zero
	Metrics                *metrics.Collector // served at /metrics when set
}

func (h *Handlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := h.Timeout
	if d <= 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Quote handles GET /v1/quote?protocol=&mint=&pool=
func (h *Handlers) Quote(c echo.Context) error {
	protocol, err := model.ParseProtocol(c.QueryParam("protocol"))
	if err != nil {
		return renderError(c, err)
	}

	ctx, cancel := h.withTimeout(c.Request().Context())
	defer cancel()

	q, err := h.Trader.Quote(ctx, trade.QuoteRequest{
		Protocol: protocol,
		Mint:     strings.TrimSpace(c.QueryParam("mint")),
		Pool:     strings.TrimSpace(c.QueryParam("pool")),
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// Plan handles POST /v1/plan
func (h *Handlers) Plan(c echo.Context) error {
	req, err := h.bindTrade(c)
	if err != nil {
		return renderError(c, err)
	}

	ctx, cancel := h.withTimeout(c.Request().Context())
	defer cancel()

	plan, err := h.Trader.Plan(ctx, req)
	if err != nil {
		return renderError(c, err)
	}
	resp, err := NewPlanResponse(plan)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Estimate handles POST /v1/estimate
func (h *Handlers) Estimate(c echo.Context) error {
	req, err := h.bindTrade(c)
	if err != nil {
		return renderError(c, err)
	}

	ctx, cancel := h.withTimeout(c.Request().Context())
	defer cancel()

	est, err := h.Trader.Estimate(ctx, req)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, EstimateResponse{FeeEstimate: *est, TotalSOL: est.Total()})
}

func (h *Handlers) bindTrade(c echo.Context) (trade.TradeRequest, error) {
	var body TradeBody
	if err := c.Bind(&body); err != nil {
		return trade.TradeRequest{}, model.Errorf(model.KindInvalidInput, "bind", "invalid json body: %v", err)
	}

	protocol, err := model.ParseProtocol(body.Protocol)
	if err != nil {
		return trade.TradeRequest{}, err
	}
	direction, err := model.ParseDirection(body.Direction)
	if err != nil {
		return trade.TradeRequest{}, err
	}
	wallet, err := solana.PublicKeyFromBase58(strings.TrimSpace(body.Wallet))
	if err != nil {
		return trade.TradeRequest{}, model.Errorf(model.KindInvalidInput, "bind", "invalid wallet %q: %w", body.Wallet, err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(body.Amount))
	if err != nil {
		return trade.TradeRequest{}, model.Errorf(model.KindInvalidInput, "bind", "invalid amount %q: %w", body.Amount, err)
	}

	slippage := h.DefaultSlippagePercent
	if body.SlippagePercent != nil {
		slippage = *body.SlippagePercent
	}
	priorityFee := h.DefaultPriorityFee
	if s := strings.TrimSpace(body.PriorityFee); s != "" {
		if priorityFee, err = decimal.NewFromString(s); err != nil {
			return trade.TradeRequest{}, model.Errorf(model.KindInvalidInput, "bind", "invalid priority_fee %q: %w", s, err)
		}
	}

	return trade.TradeRequest{
		Protocol:        protocol,
		Direction:       direction,
		Mint:            body.Mint,
		Pool:            body.Pool,
		Wallet:          wallet,
		Amount:          amount,
		SlippagePercent: slippage,
		PriorityFee:     priorityFee,
	}, nil
}

// NewPlanResponse renders a plan with base64 instruction data.
func NewPlanResponse(plan *transaction.Plan) (*PlanResponse, error) {
	resp := &PlanResponse{
		FeePayer:           plan.FeePayer.String(),
		Pool:               plan.Pool.String(),
		ComputeUnitLimit:   plan.ComputeUnitLimit,
		MicroLamportsPerCU: plan.MicroLamportsPerCU,
		Instructions:       make([]InstructionResponse, 0, len(plan.Instructions)),
	}
	for _, ix := range plan.Instructions {
		data, err := ix.Data()
		if err != nil {
			return nil, model.Errorf(model.KindInvalidInput, "encode plan", "instruction data: %w", err)
		}
		accounts := make([]AccountMetaResponse, 0, len(ix.Accounts()))
		for _, meta := range ix.Accounts() {
			accounts = append(accounts, AccountMetaResponse{
				Pubkey:     meta.PublicKey.String(),
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
			})
		}
		resp.Instructions = append(resp.Instructions, InstructionResponse{
			ProgramID: ix.ProgramID().String(),
			Accounts:  accounts,
			Data:      base64.StdEncoding.EncodeToString(data),
		})
	}
	return resp, nil
}
