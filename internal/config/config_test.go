package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, DefaultCommitment, cfg.Commitment)
	assert.Equal(t, DefaultConfirmTimeout, cfg.ConfirmTimeout)
	assert.Equal(t, DefaultSlippagePercent, cfg.DefaultSlippagePercent)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.True(t, cfg.PriorityFee().IsZero())

	heavenID, boopID, err := cfg.ProgramIDs()
	require.NoError(t, err)
	assert.True(t, heavenID.IsZero())
	assert.True(t, boopID.IsZero())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rpc_url": "https://rpc.example.org",
		"confirm_timeout": "30s",
		"default_priority_fee": "0.0005",
		"heaven_program_id": "HEAVENoP2qxoeuF8Dj2oT1GHEnu49U5mJYkdeC8BAX2o"
	}`), 0o600))
	t.Setenv("SWAPKIT_LISTEN_ADDR", ":9090")
	t.Setenv("SWAPKIT_DEFAULT_SLIPPAGE_PERCENT", "2.5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.org", cfg.RPCURL)
	assert.Equal(t, 30*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, "0.0005", cfg.PriorityFee().String())
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 2.5, cfg.DefaultSlippagePercent)

	heavenID, _, err := cfg.ProgramIDs()
	require.NoError(t, err)
	assert.Equal(t, "HEAVENoP2qxoeuF8Dj2oT1GHEnu49U5mJYkdeC8BAX2o", heavenID.String())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"rpc scheme", map[string]string{"SWAPKIT_RPC_URL": "ftp://rpc.example.org"}},
		{"commitment", map[string]string{"SWAPKIT_COMMITMENT": "eventually"}},
		{"slippage", map[string]string{"SWAPKIT_DEFAULT_SLIPPAGE_PERCENT": "150"}},
		{"priority fee", map[string]string{"SWAPKIT_DEFAULT_PRIORITY_FEE": "-1"}},
		{"rate limit", map[string]string{"SWAPKIT_RPC_RATE_LIMIT": "-3"}},
		{"program id", map[string]string{"SWAPKIT_BOOP_PROGRAM_ID": "not-a-key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
