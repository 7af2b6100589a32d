package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
	"github.com/rovshanmuradov/solana-swapkit/internal/trade"
	"github.com/rovshanmuradov/solana-swapkit/internal/transaction"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/metrics"
)

type stubTrader struct {
	quote    *model.PriceQuote
	plan     *transaction.Plan
	estimate *model.FeeEstimate
	err      error

	lastTrade trade.TradeRequest
	lastQuote trade.QuoteRequest
}

func (s *stubTrader) Quote(_ context.Context, req trade.QuoteRequest) (*model.PriceQuote, error) {
	s.lastQuote = req
	return s.quote, s.err
}

func (s *stubTrader) Plan(_ context.Context, req trade.TradeRequest) (*transaction.Plan, error) {
	s.lastTrade = req
	return s.plan, s.err
}

func (s *stubTrader) Estimate(_ context.Context, req trade.TradeRequest) (*model.FeeEstimate, error) {
	s.lastTrade = req
	return s.estimate, s.err
}

func newTestServer(t *testing.T, trader Trader) *Server {
	t.Helper()
	return NewServer(ServerDeps{
		Handlers: &Handlers{
			Trader:                 trader,
			DefaultSlippagePercent: 5,
			DefaultPriorityFee:     decimal.RequireFromString("0.001"),
		},
		Config: ServerConfig{Addr: ":0"},
		Logger: zaptest.NewLogger(t),
	})
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

const tradeBody = `{
	"protocol": "heaven",
	"direction": "buy",
	"mint": "So11111111111111111111111111111111111111112",
	"wallet": "11111111111111111111111111111111",
	"amount": "0.25"
}`

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(t, &stubTrader{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestQuote(t *testing.T) {
	trader := &stubTrader{quote: &model.PriceQuote{
		Protocol:      model.ProtocolBoop,
		PriceLamports: 30_000,
		Price:         model.LamportsToSOL(30_000),
	}}
	rec, body := do(t, newTestServer(t, trader), http.MethodGet, "/v1/quote?protocol=boop&mint=abc&pool=def", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(30_000), body["price_lamports"])
	assert.Equal(t, model.ProtocolBoop, trader.lastQuote.Protocol)
	assert.Equal(t, "abc", trader.lastQuote.Mint)
	assert.Equal(t, "def", trader.lastQuote.Pool)
}

func TestQuoteUnknownProtocol(t *testing.T) {
	rec, body := do(t, newTestServer(t, &stubTrader{}), http.MethodGet, "/v1/quote?protocol=uniswap&mint=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", body["kind"])
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", model.Errorf(model.KindInvalidInput, "plan", "bad"), http.StatusBadRequest},
		{"pool missing", model.Errorf(model.KindAccountNotFound, "fetch pool", "%w", model.ErrPoolNotFound), http.StatusNotFound},
		{"decode", model.Wrap(model.KindDecode, "decode", errors.New("short")), http.StatusUnprocessableEntity},
		{"quote unavailable", model.Wrap(model.KindQuoteUnavailable, "quote", errors.New("x")), http.StatusUnprocessableEntity},
		{"ledger", model.Wrap(model.KindLedger, "simulate", errors.New("timeout")), http.StatusBadGateway},
		{"send", model.Wrap(model.KindSendFailure, "send", errors.New("rejected")), http.StatusBadGateway},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))

			rec, _ := do(t, newTestServer(t, &stubTrader{err: tt.err}), http.MethodPost, "/v1/estimate", tradeBody)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPlan(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	ix := system.NewTransferInstruction(42, from, to).Build()
	trader := &stubTrader{plan: &transaction.Plan{
		Instructions: []solana.Instruction{ix},
		FeePayer:     from,
		Pool:         to,
	}}

	rec, body := do(t, newTestServer(t, trader), http.MethodPost, "/v1/plan", tradeBody)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, from.String(), body["fee_payer"])
	instructions := body["instructions"].([]any)
	require.Len(t, instructions, 1)
	first := instructions[0].(map[string]any)
	assert.Equal(t, solana.SystemProgramID.String(), first["program_id"])
	assert.Len(t, first["accounts"], 2)

	wantData, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(wantData), first["data"])

	assert.Equal(t, model.Buy, trader.lastTrade.Direction)
	assert.Equal(t, 5.0, trader.lastTrade.SlippagePercent)
	assert.Equal(t, "0.001", trader.lastTrade.PriorityFee.String())
	assert.Equal(t, "0.25", trader.lastTrade.Amount.String())
}

func TestPlanOverridesDefaults(t *testing.T) {
	trader := &stubTrader{plan: &transaction.Plan{}}
	body := `{"protocol":"b","direction":"sell","mint":"m","wallet":"11111111111111111111111111111111",
		"amount":"10","slippage_percent":0,"priority_fee":"0"}`

	rec, _ := do(t, newTestServer(t, trader), http.MethodPost, "/v1/plan", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ProtocolBoop, trader.lastTrade.Protocol)
	assert.Equal(t, 0.0, trader.lastTrade.SlippagePercent)
	assert.True(t, trader.lastTrade.PriorityFee.IsZero())
}

func TestPlanRejectsBadBody(t *testing.T) {
	s := newTestServer(t, &stubTrader{plan: &transaction.Plan{}})
	for name, body := range map[string]string{
		"json":      `{"protocol":`,
		"direction": strings.Replace(tradeBody, `"buy"`, `"hold"`, 1),
		"wallet":    strings.Replace(tradeBody, `"11111111111111111111111111111111"`, `"nope"`, 1),
		"amount":    strings.Replace(tradeBody, `"0.25"`, `"lots"`, 1),
	} {
		t.Run(name, func(t *testing.T) {
			rec, out := do(t, s, http.MethodPost, "/v1/plan", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_input", out["kind"])
		})
	}
}

func TestEstimate(t *testing.T) {
	trader := &stubTrader{estimate: &model.FeeEstimate{
		BaseFeeLamports:     5_000,
		PriorityFeeLamports: 1,
		TotalLamports:       5_001,
	}}
	rec, body := do(t, newTestServer(t, trader), http.MethodPost, "/v1/estimate", tradeBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5_001), body["total_lamports"])
	assert.Equal(t, "0.000005001", body["total_sol"])
}

func TestSendFailureLogsRendered(t *testing.T) {
	err := &model.Error{Kind: model.KindSendFailure, Op: "send", Err: errors.New("rejected"), Logs: []string{"Program log: x"}}
	rec, body := do(t, newTestServer(t, &stubTrader{err: err}), http.MethodPost, "/v1/plan", tradeBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, []any{"Program log: x"}, body["logs"])
}

func TestUnknownRoute(t *testing.T) {
	rec, body := do(t, newTestServer(t, &stubTrader{}), http.MethodGet, "/v2/none", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RecordOperation("quote", "heaven", "success", 0)
	s := NewServer(ServerDeps{
		Handlers: &Handlers{Trader: &stubTrader{}, Metrics: collector},
		Logger:   zaptest.NewLogger(t),
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swapkit_operations_total")
}
