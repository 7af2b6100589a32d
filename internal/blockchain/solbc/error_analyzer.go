package solbc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// AnchorError represents an error from Anchor framework
type AnchorError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// Analysis is the structured view of a failed RPC call
type Analysis struct {
	Type             string                 `json:"type"`
	Code             int                    `json:"code,omitempty"`
	Message          string                 `json:"message"`
	SimulationFailed bool                   `json:"simulation_failed,omitempty"`
	Logs             []string               `json:"logs,omitempty"`
	Anchor           *AnchorError           `json:"anchor_error,omitempty"`
	InstructionError map[string]interface{} `json:"instruction_error,omitempty"`
}

// ErrorAnalyzer provides methods to analyze Solana transaction errors
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// AnalyzeRPCError extracts the message, program logs and Anchor error (if any)
// from an RPC error. Non-RPC errors are reported as generic.
func (ea *ErrorAnalyzer) AnalyzeRPCError(err error) Analysis {
	if err == nil {
		return Analysis{Type: "none"}
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return Analysis{Type: "generic_error", Message: err.Error()}
	}

	result := Analysis{
		Type:             "rpc_error",
		Code:             rpcErr.Code,
		Message:          rpcErr.Message,
		SimulationFailed: strings.Contains(rpcErr.Message, "Transaction simulation failed"),
	}

	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return result
	}

	if logs, ok := dataMap["logs"].([]interface{}); ok {
		for _, entry := range logs {
			logStr, ok := entry.(string)
			if !ok {
				continue
			}
			result.Logs = append(result.Logs, logStr)
			if strings.Contains(logStr, "AnchorError occurred") {
				anchorErr := parseAnchorErrorLog(logStr)
				result.Anchor = &anchorErr
				ea.logger.Warn("Anchor error detected",
					zap.Int("code", anchorErr.Code),
					zap.String("name", anchorErr.Name),
					zap.String("message", anchorErr.Msg))
			}
		}
	}

	if instrErr, ok := dataMap["err"].(map[string]interface{}); ok {
		result.InstructionError = instrErr
	}
	return result
}

// parseAnchorErrorLog parses an Anchor error log string
// Example: "Program log: AnchorError occurred. Error Code: InstructionFallbackNotFound. Error Number: 101. Error Message: Fallback functions are not supported."
func parseAnchorErrorLog(logStr string) AnchorError {
	result := AnchorError{}

	if parts := strings.SplitN(logStr, "Error Number:", 2); len(parts) == 2 {
		numParts := strings.Split(parts[1], ".")
		_, _ = fmt.Sscanf(strings.TrimSpace(numParts[0]), "%d", &result.Code)
	}

	if parts := strings.SplitN(logStr, "Error Code:", 2); len(parts) == 2 {
		result.Name = strings.TrimSpace(strings.Split(parts[1], ".")[0])
	}

	if parts := strings.SplitN(logStr, "Error Message:", 2); len(parts) == 2 {
		result.Msg = strings.TrimSuffix(strings.TrimSpace(parts[1]), ".")
	}

	return result
}
