// =============================
// File: internal/dex/boop/registry.go
// =============================
package boop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

const defaultRegistryTimeout = 5 * time.Second

// Registry looks up a bonding curve address off-chain when the derived
// account is not present on the ledger.
type Registry interface {
	LookupPool(ctx context.Context, mint solana.PublicKey) (solana.PublicKey, error)
}

// HTTPRegistry queries GET <baseURL>/<mint> and expects
// {"bonding_curve": "<base58>"} in response.
type HTTPRegistry struct {
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

type registryResponse struct {
	BondingCurve string `json:"bonding_curve"`
}

// NewHTTPRegistry creates a registry client. A nil httpClient selects a
// client with a short timeout.
func NewHTTPRegistry(baseURL string, httpClient *http.Client, logger *zap.Logger) *HTTPRegistry {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRegistryTimeout}
	}
	return &HTTPRegistry{
		client:  httpClient,
		logger:  logger.Named("boop-registry"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// LookupPool returns the bonding curve address registered for mint.
// A 404 response maps to a pool-not-found error.
func (r *HTTPRegistry) LookupPool(ctx context.Context, mint solana.PublicKey) (solana.PublicKey, error) {
	url := fmt.Sprintf("%s/%s", r.baseURL, mint.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindLedger, "registry lookup", "create request: %w", err)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindLedger, "registry lookup", "execute request: %w", err)
	}
	defer resp.Body.Close()

	r.logger.Debug("registry request completed",
		zap.Duration("duration", time.Since(start)),
		zap.String("mint", mint.String()),
		zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return solana.PublicKey{}, model.Errorf(model.KindAccountNotFound, "registry lookup", "%w: no curve registered for %s", model.ErrPoolNotFound, mint)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return solana.PublicKey{}, model.Errorf(model.KindLedger, "registry lookup", "unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var out registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindDecode, "registry lookup", "decode response: %w", err)
	}

	curve, err := solana.PublicKeyFromBase58(out.BondingCurve)
	if err != nil {
		return solana.PublicKey{}, model.Errorf(model.KindDecode, "registry lookup", "invalid bonding curve %q: %w", out.BondingCurve, err)
	}
	return curve, nil
}
