// ====================================
// File: cmd/swapkit/main.go
// ====================================
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-swapkit/internal/config"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex/boop"
	"github.com/rovshanmuradov/solana-swapkit/internal/trade"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/logger"
	"github.com/rovshanmuradov/solana-swapkit/internal/utils/metrics"
)

// app - собранные зависимости одной команды.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Collector
	service *trade.Service
}

var cfgFile string

func main() {
	// .env необязателен
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swapkit",
		Short:         "Quotes and swaps on Heaven and Boop.fun pools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (json/yaml)")

	root.AddCommand(
		newQuoteCmd(),
		newEstimateCmd(),
		newSwapCmd("buy"),
		newSwapCmd("sell"),
		newServeCmd(),
	)
	return root
}

// setup загружает конфигурацию и связывает клиент, адаптеры и сервис.
func setup() (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Development = cfg.DebugLogging
	logCfg.LogFile = cfg.LogFile
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	heavenID, boopID, err := cfg.ProgramIDs()
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()

	opts := solbc.DefaultClientOptions()
	opts.Commitment = cfg.RPCCommitment()
	opts.RateLimit = cfg.RPCRateLimit
	opts.ConfirmTimeout = cfg.ConfirmTimeout
	opts.Metrics = collector
	client := solbc.NewClient(cfg.RPCURL, log.Logger, opts)

	dexOpts := dex.Options{HeavenProgramID: heavenID, BoopProgramID: boopID}
	if cfg.BoopRegistryURL != "" {
		dexOpts.BoopRegistry = boop.NewHTTPRegistry(cfg.BoopRegistryURL, nil, log.Logger)
	}

	log.Debug("Configuration loaded",
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("commitment", cfg.Commitment),
		zap.Bool("boop_registry", dexOpts.BoopRegistry != nil))

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: collector,
		service: trade.NewService(trade.ServiceConfig{
			Client:   client,
			Adapters: dex.NewSet(dexOpts, log.Logger),
			Logger:   log.Logger,
			Metrics:  collector,
		}),
	}, nil
}
