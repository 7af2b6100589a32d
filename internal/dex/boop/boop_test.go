package boop

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
	binutil "github.com/rovshanmuradov/solana-swapkit/internal/utils/binary"
)

func curveAccount(r CurveReserves, graduationFee uint64) []byte {
	data := make([]byte, BondingCurveSize)
	for i := 0; i < 72; i++ {
		data[i] = byte(i)
	}
	binary.LittleEndian.PutUint64(data[72:], r.VirtualSolReserve)
	binary.LittleEndian.PutUint64(data[80:], r.VirtualTokenReserve)
	binary.LittleEndian.PutUint64(data[88:], r.GraduationTarget)
	binary.LittleEndian.PutUint64(data[96:], graduationFee)
	binary.LittleEndian.PutUint64(data[104:], r.SolReserve)
	binary.LittleEndian.PutUint64(data[112:], r.TokenReserve)
	data[120] = r.DampingTerm
	binary.LittleEndian.PutUint16(data[121:], r.SwapFeeBasisPoints)
	return data
}

func TestDecodeBondingCurve(t *testing.T) {
	want := CurveReserves{
		VirtualSolReserve:   30_000_000_000,
		VirtualTokenReserve: 1_073_000_000_000_000,
		GraduationTarget:    85_000_000_000,
		SolReserve:          12_500_000_000,
		TokenReserve:        800_000_000_000_000,
		DampingTerm:         7,
		SwapFeeBasisPoints:  100,
	}
	got, err := DecodeBondingCurve(curveAccount(want, 999))
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestDecodeBondingCurveRejectsShortData(t *testing.T) {
	for _, size := range []int{0, 72, BondingCurveSize - 1} {
		got, err := DecodeBondingCurve(make([]byte, size))
		assert.Nil(t, got)
		assert.ErrorIs(t, err, model.ErrDecode, "size %d", size)
	}
}

func TestQuote(t *testing.T) {
	r := &CurveReserves{
		VirtualSolReserve: 30_000_000_000,
		TokenReserve:      1_000_000_000_000,
	}
	q, err := Quote(r, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000), q.PriceLamports)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("0.00003")), "price %s", q.Price)
	// graduation target of zero leaves progress unknown
	assert.False(t, q.BondingCurvePercent.Valid)

	r.SolReserve = 42_500_000_000
	r.GraduationTarget = 85_000_000_000
	q, err = Quote(r, 6)
	require.NoError(t, err)
	require.True(t, q.BondingCurvePercent.Valid)
	assert.True(t, q.BondingCurvePercent.Decimal.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, uint64(72_500), q.PriceLamports)

	r.SolReserve = 90_000_000_000
	q, err = Quote(r, 6)
	require.NoError(t, err)
	assert.True(t, q.BondingCurvePercent.Decimal.Equal(decimal.NewFromInt(100)))
}

func TestQuoteWithoutTokenReserve(t *testing.T) {
	q, err := Quote(&CurveReserves{VirtualSolReserve: 1}, 9)
	require.NoError(t, err)
	assert.Zero(t, q.PriceLamports)
	assert.True(t, q.Price.IsZero())
}

func TestQuoteHugeDecimals(t *testing.T) {
	r := &CurveReserves{VirtualSolReserve: 30_000_000_000, SolReserve: 1 << 62, TokenReserve: 1}
	assert.NotPanics(t, func() {
		_, err := Quote(r, 255)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrQuoteUnavailable)
	})
}

func TestExpectedOut(t *testing.T) {
	r := &CurveReserves{
		VirtualSolReserve:  30_000_000_000,
		TokenReserve:       1_000_000_000_000,
		SwapFeeBasisPoints: 100,
	}
	out, err := ExpectedOut(r, model.Buy, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(31_945_788_964), out)

	r.SolReserve = 5_000_000_000
	out, err = ExpectedOut(r, model.Sell, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(34_615_384), out)

	// payout is capped by the real SOL reserve
	r.SolReserve = 1_000
	out, err = ExpectedOut(r, model.Sell, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), out)

	_, err = ExpectedOut(r, model.DirectionUnknown, 1)
	assert.ErrorIs(t, err, model.ErrUnsupportedDirection)
}

func TestDeriveBondingCurveAddress(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	got, err := DeriveBondingCurveAddress(ProgramID, mint)
	require.NoError(t, err)

	want, _, err := solana.FindProgramAddress([][]byte{[]byte("bonding_curve"), mint.Bytes()}, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAdapterBuild(t *testing.T) {
	a := NewAdapter(solana.PublicKey{}, nil, zaptest.NewLogger(t))
	mint := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	curve, err := a.ResolvePool(context.Background(), mint, nil)
	require.NoError(t, err)

	reserves := &CurveReserves{
		VirtualSolReserve: 30_000_000_000,
		SolReserve:        5_000_000_000,
		TokenReserve:      1_000_000_000_000,
	}

	buy, err := a.BuildInstructions(model.Buy, model.BuildParams{
		Mint: mint, Wallet: user, Pool: curve, Amount: 1_000_000, Slippage: 0.05, Reserves: reserves,
	})
	require.NoError(t, err)
	require.Len(t, buy, 2)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, buy[0].ProgramID())
	assert.Equal(t, ProgramID, buy[1].ProgramID())

	data, err := buy[1].Data()
	require.NoError(t, err)
	disc := binutil.AnchorDiscriminator("buy_token")
	assert.Equal(t, disc[:], data[:8])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, curve, buy[1].Accounts()[1].PublicKey)

	sell, err := a.BuildInstructions(model.Sell, model.BuildParams{
		Mint: mint, Wallet: user, Pool: curve, Amount: 1_000, Slippage: 1, Reserves: reserves,
	})
	require.NoError(t, err)
	require.Len(t, sell, 1)
	data, err = sell[0].Data()
	require.NoError(t, err)
	disc = binutil.AnchorDiscriminator("sell_token")
	assert.Equal(t, disc[:], data[:8])
	// full slippage tolerance means no minimum
	assert.Zero(t, binary.LittleEndian.Uint64(data[16:24]))
}

func TestAdapterRejectsForeignSnapshot(t *testing.T) {
	a := NewAdapter(ProgramID, nil, zaptest.NewLogger(t))
	_, err := a.Quote(nil, 6)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestHTTPRegistry(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	curve := solana.NewWallet().PublicKey()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/curves/" + mint.String():
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bonding_curve":"` + curve.String() + `"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	reg := NewHTTPRegistry(srv.URL+"/curves/", srv.Client(), zaptest.NewLogger(t))

	got, err := reg.LookupPool(context.Background(), mint)
	require.NoError(t, err)
	assert.Equal(t, curve, got)

	_, err = reg.LookupPool(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	assert.ErrorIs(t, err, model.ErrPoolNotFound)
}

func TestAdapterFallbackPool(t *testing.T) {
	a := NewAdapter(ProgramID, nil, zaptest.NewLogger(t))
	_, ok, err := a.FallbackPool(context.Background(), solana.NewWallet().PublicKey())
	assert.False(t, ok)
	assert.NoError(t, err)
}
