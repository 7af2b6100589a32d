package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindMatching(t *testing.T) {
	inner := Errorf(KindAccountNotFound, "fetch pool", "%w: %s", ErrPoolNotFound, "abc")
	quoteErr := Wrap(KindQuoteUnavailable, "quote", inner)

	assert.ErrorIs(t, quoteErr, ErrQuoteUnavailable)
	assert.ErrorIs(t, quoteErr, ErrAccountNotFound)
	assert.ErrorIs(t, quoteErr, ErrPoolNotFound)
	assert.NotErrorIs(t, quoteErr, ErrDecode)
	assert.Equal(t, KindQuoteUnavailable, KindOf(quoteErr))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Nil(t, Wrap(KindLedger, "noop", nil))
}

func TestLogsOf(t *testing.T) {
	send := &Error{Kind: KindSendFailure, Op: "send", Err: errors.New("boom"), Logs: []string{"Program log: fail"}}
	wrapped := fmt.Errorf("execute: %w", send)

	assert.Equal(t, []string{"Program log: fail"}, LogsOf(wrapped))
	assert.Nil(t, LogsOf(errors.New("no logs")))
}

func TestParseProtocolAndDirection(t *testing.T) {
	p, err := ParseProtocol("A")
	assert.NoError(t, err)
	assert.Equal(t, ProtocolHeaven, p)

	p, err = ParseProtocol("boop")
	assert.NoError(t, err)
	assert.Equal(t, ProtocolBoop, p)

	_, err = ParseProtocol("raydium")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)

	d, err := ParseDirection("Sell")
	assert.NoError(t, err)
	assert.Equal(t, Sell, d)

	_, err = ParseDirection("swap")
	assert.ErrorIs(t, err, ErrUnsupportedDirection)
}
