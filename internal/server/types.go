package server

import (
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Code  int      `json:"code"`
	Logs  []string `json:"logs,omitempty"` // program logs of a failed send
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// TradeBody is the JSON body of /v1/plan and /v1/estimate.
// Amount is in whole units: SOL for buy, tokens for sell.
type TradeBody struct {
	Protocol        string   `json:"protocol"`
	Direction       string   `json:"direction"`
	Mint            string   `json:"mint"`
	Pool            string   `json:"pool,omitempty"`
	Wallet          string   `json:"wallet"`
	Amount          string   `json:"amount"`
	SlippagePercent *float64 `json:"slippage_percent,omitempty"`
	PriorityFee     string   `json:"priority_fee,omitempty"`
}

// AccountMetaResponse is one account of a planned instruction
type AccountMetaResponse struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// InstructionResponse is a planned instruction with base64 data
type InstructionResponse struct {
	ProgramID string                `json:"program_id"`
	Accounts  []AccountMetaResponse `json:"accounts"`
	Data      string                `json:"data"`
}

// PlanResponse is the unsigned transaction plan
type PlanResponse struct {
	FeePayer           string                `json:"fee_payer"`
	Pool               string                `json:"pool"`
	ComputeUnitLimit   uint32                `json:"compute_unit_limit,omitempty"`
	MicroLamportsPerCU uint64                `json:"micro_lamports_per_cu,omitempty"`
	Instructions       []InstructionResponse `json:"instructions"`
}

// EstimateResponse is a fee estimate with SOL total
type EstimateResponse struct {
	model.FeeEstimate
	TotalSOL decimal.Decimal `json:"total_sol"`
}
