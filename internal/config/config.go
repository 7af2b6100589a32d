// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения (SWAPKIT_RPC_URL и т.д.).
const EnvPrefix = "SWAPKIT"

type Config struct {
	RPCURL                 string        `mapstructure:"rpc_url"`
	Commitment             string        `mapstructure:"commitment"`
	RPCRateLimit           float64       `mapstructure:"rpc_rate_limit"`
	ConfirmTimeout         time.Duration `mapstructure:"confirm_timeout"`
	DefaultSlippagePercent float64       `mapstructure:"default_slippage_percent"`
	DefaultPriorityFee     string        `mapstructure:"default_priority_fee"`
	ListenAddr             string        `mapstructure:"listen_addr"`
	HeavenProgramID        string        `mapstructure:"heaven_program_id"`
	BoopProgramID          string        `mapstructure:"boop_program_id"`
	BoopRegistryURL        string        `mapstructure:"boop_registry_url"`
	PrivateKey             string        `mapstructure:"private_key"`
	DebugLogging           bool          `mapstructure:"debug_logging"`
	LogFile                string        `mapstructure:"log_file"`
}

const (
	DefaultRPCURL          = "https://api.mainnet-beta.solana.com"
	DefaultCommitment      = "confirmed"
	DefaultConfirmTimeout  = 60 * time.Second
	DefaultSlippagePercent = 5.0
	DefaultListenAddr      = ":8080"
)

// LoadConfig читает конфигурацию. Файл необязателен: при пустом path
// используются значения по умолчанию и переменные окружения.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_url":                  DefaultRPCURL,
		"commitment":               DefaultCommitment,
		"rpc_rate_limit":           0,
		"confirm_timeout":          DefaultConfirmTimeout,
		"default_slippage_percent": DefaultSlippagePercent,
		"default_priority_fee":     "0",
		"listen_addr":              DefaultListenAddr,
		"heaven_program_id":        "",
		"boop_program_id":          "",
		"boop_registry_url":        "",
		"private_key":              "",
		"debug_logging":            false,
		"log_file":                 "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, validateConfig(&cfg)
}

// PriorityFee возвращает приоритетную комиссию по умолчанию в SOL.
func (c *Config) PriorityFee() decimal.Decimal {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.DefaultPriorityFee))
	if err != nil {
		return decimal.Zero
	}
	return fee
}

// RPCCommitment возвращает уровень подтверждения для RPC-клиента.
func (c *Config) RPCCommitment() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// ProgramIDs возвращает переопределённые адреса программ.
// Нулевой ключ означает адрес mainnet по умолчанию.
func (c *Config) ProgramIDs() (heavenID, boopID solana.PublicKey, err error) {
	if heavenID, err = optionalKey("heaven_program_id", c.HeavenProgramID); err != nil {
		return
	}
	boopID, err = optionalKey("boop_program_id", c.BoopProgramID)
	return
}

func optionalKey(name, value string) (solana.PublicKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return solana.PublicKey{}, nil
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return key, nil
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is empty")
	}
	if err := validateURLWithCache(cfg.RPCURL, "http"); err != nil {
		return fmt.Errorf("invalid rpc_url: %w", err)
	}
	if cfg.BoopRegistryURL != "" {
		if err := validateURLWithCache(cfg.BoopRegistryURL, "http"); err != nil {
			return fmt.Errorf("invalid boop_registry_url: %w", err)
		}
	}
	switch rpc.CommitmentType(cfg.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	if _, _, err := cfg.ProgramIDs(); err != nil {
		return err
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.RPCRateLimit < 0 {
		return errors.New("invalid rpc_rate_limit")
	}
	if cfg.ConfirmTimeout <= 0 {
		return errors.New("invalid confirm_timeout")
	}
	if cfg.DefaultSlippagePercent < 0 || cfg.DefaultSlippagePercent > 100 {
		return errors.New("default_slippage_percent must be within [0, 100]")
	}
	fee, err := decimal.NewFromString(strings.TrimSpace(cfg.DefaultPriorityFee))
	if err != nil {
		return fmt.Errorf("invalid default_priority_fee: %w", err)
	}
	if fee.IsNegative() {
		return errors.New("default_priority_fee must not be negative")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
