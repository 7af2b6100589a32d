package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
	"github.com/rovshanmuradov/solana-swapkit/internal/server"
	"github.com/rovshanmuradov/solana-swapkit/internal/trade"
	"github.com/rovshanmuradov/solana-swapkit/internal/wallet"
)

// marketFlags - флаги выбора рынка, общие для всех торговых команд.
type marketFlags struct {
	protocol string
	mint     string
	pool     string
}

func (f *marketFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.protocol, "protocol", "", "protocol: heaven or boop")
	cmd.Flags().StringVar(&f.mint, "mint", "", "token mint address")
	cmd.Flags().StringVar(&f.pool, "pool", "", "pool address override")
	_ = cmd.MarkFlagRequired("protocol")
	_ = cmd.MarkFlagRequired("mint")
}

// tradeFlags - параметры сделки.
type tradeFlags struct {
	marketFlags
	amount      string
	slippage    float64
	priorityFee string
	keypair     string
	wallet      string
	dryRun      bool
}

func (f *tradeFlags) register(cmd *cobra.Command, withSend bool) {
	f.marketFlags.register(cmd)
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount in whole units: SOL for buy, tokens for sell")
	cmd.Flags().Float64Var(&f.slippage, "slippage", 0, "slippage percent 0-100 (default from config)")
	cmd.Flags().StringVar(&f.priorityFee, "priority-fee", "", "priority fee in SOL (default from config)")
	cmd.Flags().StringVar(&f.keypair, "keypair", "", "base58 private key or keypair json file (default from config)")
	_ = cmd.MarkFlagRequired("amount")
	if withSend {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the plan without sending")
	} else {
		cmd.Flags().StringVar(&f.wallet, "wallet", "", "wallet public key, used when no keypair is given")
	}
}

func (f *tradeFlags) request(cmd *cobra.Command, a *app, direction model.Direction) (trade.TradeRequest, *wallet.Wallet, error) {
	protocol, err := model.ParseProtocol(f.protocol)
	if err != nil {
		return trade.TradeRequest{}, nil, err
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return trade.TradeRequest{}, nil, fmt.Errorf("invalid --amount %q: %w", f.amount, err)
	}

	slippage := a.cfg.DefaultSlippagePercent
	if cmd.Flags().Changed("slippage") {
		slippage = f.slippage
	}
	if _, err := model.SlippageFromPercent(slippage); err != nil {
		return trade.TradeRequest{}, nil, err
	}
	priorityFee := a.cfg.PriorityFee()
	if f.priorityFee != "" {
		if priorityFee, err = decimal.NewFromString(f.priorityFee); err != nil {
			return trade.TradeRequest{}, nil, fmt.Errorf("invalid --priority-fee %q: %w", f.priorityFee, err)
		}
	}

	req := trade.TradeRequest{
		Protocol:        protocol,
		Direction:       direction,
		Mint:            f.mint,
		Pool:            f.pool,
		Amount:          amount,
		SlippagePercent: slippage,
		PriorityFee:     priorityFee,
	}

	key := f.keypair
	if key == "" {
		key = a.cfg.PrivateKey
	}
	if key == "" {
		if f.wallet == "" {
			return req, nil, errors.New("a wallet is required: pass --keypair or set private_key")
		}
		if req.Wallet, err = solana.PublicKeyFromBase58(f.wallet); err != nil {
			return req, nil, fmt.Errorf("invalid --wallet: %w", err)
		}
		return req, nil, nil
	}
	w, err := wallet.Load(key)
	if err != nil {
		return req, nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	req.Wallet = w.PublicKey
	return req, w, nil
}

func newQuoteCmd() *cobra.Command {
	var flags marketFlags
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print token price and bonding curve progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			protocol, err := model.ParseProtocol(flags.protocol)
			if err != nil {
				return err
			}
			q, err := a.service.Quote(cmd.Context(), trade.QuoteRequest{
				Protocol: protocol,
				Mint:     flags.mint,
				Pool:     flags.pool,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), q)
		},
	}
	flags.register(cmd)
	return cmd
}

func newEstimateCmd() *cobra.Command {
	var (
		flags     tradeFlags
		direction string
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the fee of a swap via simulation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			dir, err := model.ParseDirection(direction)
			if err != nil {
				return err
			}
			req, _, err := flags.request(cmd, a, dir)
			if err != nil {
				return err
			}
			est, err := a.service.Estimate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), server.EstimateResponse{FeeEstimate: *est, TotalSOL: est.Total()})
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&direction, "direction", "buy", "buy or sell")
	return cmd
}

func newSwapCmd(name string) *cobra.Command {
	direction, _ := model.ParseDirection(name)
	var flags tradeFlags
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Send a market %s transaction", name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			req, signer, err := flags.request(cmd, a, direction)
			if err != nil {
				return err
			}

			if flags.dryRun {
				plan, err := a.service.Plan(cmd.Context(), req)
				if err != nil {
					return err
				}
				resp, err := server.NewPlanResponse(plan)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			}

			if signer == nil {
				return errors.New("sending requires a private key")
			}
			req.WithQuote = true
			req.WithEstimate = true
			res, err := a.service.Execute(cmd.Context(), req, signer)
			if err != nil {
				if logs := model.LogsOf(err); len(logs) > 0 {
					a.log.Error("Program logs", zap.Strings("logs", logs))
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), executionOutput(res))
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			log := a.log.WithOperation("serve")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(server.ServerDeps{
				Handlers: &server.Handlers{
					Trader:                 a.service,
					DefaultSlippagePercent: a.cfg.DefaultSlippagePercent,
					DefaultPriorityFee:     a.cfg.PriorityFee(),
					Metrics:                a.metrics,
				},
				Config: server.ServerConfig{Addr: a.cfg.ListenAddr},
				Logger: log,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				log.Info("Shutting down HTTP server")
				return srv.Shutdown(context.Background())
			}
		},
	}
}

type executionView struct {
	Signature string             `json:"signature"`
	Quote     *model.PriceQuote  `json:"quote,omitempty"`
	QuoteErr  string             `json:"quote_error,omitempty"`
	Fee       *model.FeeEstimate `json:"fee,omitempty"`
	FeeErr    string             `json:"fee_error,omitempty"`
}

func executionOutput(res *trade.ExecutionResult) executionView {
	v := executionView{
		Signature: res.Signature.String(),
		Quote:     res.Quote,
		Fee:       res.Fee,
	}
	if res.QuoteErr != nil {
		v.QuoteErr = res.QuoteErr.Error()
	}
	if res.FeeErr != nil {
		v.FeeErr = res.FeeErr.Error()
	}
	return v
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
