package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-swapkit/internal/config"
	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
	"github.com/rovshanmuradov/solana-swapkit/internal/trade"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"quote", "estimate", "buy", "sell", "serve"}, names)
}

func TestRequiredFlags(t *testing.T) {
	for _, args := range [][]string{
		{"quote", "--protocol", "heaven"},
		{"buy", "--protocol", "boop", "--mint", "So11111111111111111111111111111111111111112"},
	} {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)
		err := root.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required flag")
	}
}

func TestExecutionOutput(t *testing.T) {
	sig := solana.Signature{1, 2, 3}
	v := executionOutput(&trade.ExecutionResult{
		Signature: sig,
		QuoteErr:  model.Wrap(model.KindLedger, "fetch pool", errors.New("timeout")),
		Fee:       &model.FeeEstimate{TotalLamports: 5_000},
	})
	assert.Equal(t, sig.String(), v.Signature)
	assert.Contains(t, v.QuoteErr, "timeout")
	assert.Empty(t, v.FeeErr)
	assert.Equal(t, uint64(5_000), v.Fee.TotalLamports)
}

func TestTradeFlagsSlippage(t *testing.T) {
	a := &app{cfg: &config.Config{DefaultSlippagePercent: 5}}
	base := []string{
		"--protocol", "heaven",
		"--mint", "So11111111111111111111111111111111111111112",
		"--amount", "1",
		"--wallet", solana.NewWallet().PublicKey().String(),
	}
	parse := func(extra ...string) (*cobra.Command, *tradeFlags) {
		var f tradeFlags
		cmd := &cobra.Command{Use: "estimate"}
		f.register(cmd, false)
		require.NoError(t, cmd.ParseFlags(append(append([]string{}, base...), extra...)))
		return cmd, &f
	}

	for _, tc := range []struct {
		args []string
		want float64
	}{
		{nil, 5},
		{[]string{"--slippage=0"}, 0},
		{[]string{"--slippage=12.5"}, 12.5},
		{[]string{"--slippage=100"}, 100},
	} {
		cmd, f := parse(tc.args...)
		req, signer, err := f.request(cmd, a, model.Buy)
		require.NoError(t, err, tc.args)
		assert.Nil(t, signer)
		assert.Equal(t, tc.want, req.SlippagePercent, tc.args)
	}

	for _, arg := range []string{"--slippage=-5", "--slippage=100.5"} {
		cmd, f := parse(arg)
		_, _, err := f.request(cmd, a, model.Buy)
		assert.ErrorIs(t, err, model.ErrInvalidInput, arg)
	}
}
