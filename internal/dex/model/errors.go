// =============================
// File: internal/dex/model/errors.go
// =============================
package model

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибки слоя адаптации протоколов.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindAccountNotFound
	KindDecode
	KindQuoteUnavailable
	KindLedger
	KindSendFailure
)

// Sentinel-ошибки для errors.Is. Каждой Kind соответствует своя.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAccountNotFound  = errors.New("account not found")
	ErrDecode           = errors.New("account decode failed")
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrLedger           = errors.New("ledger request failed")
	ErrSendFailure      = errors.New("transaction send failed")

	// Уточняющие ошибки, оборачиваются в *Error соответствующей Kind.
	ErrPoolNotFound         = errors.New("pool not found")
	ErrUnsupportedProtocol  = errors.New("unsupported protocol")
	ErrUnsupportedDirection = errors.New("unsupported swap direction")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAccountNotFound:
		return "account_not_found"
	case KindDecode:
		return "decode_error"
	case KindQuoteUnavailable:
		return "quote_unavailable"
	case KindLedger:
		return "ledger_error"
	case KindSendFailure:
		return "send_failure"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindAccountNotFound:
		return ErrAccountNotFound
	case KindDecode:
		return ErrDecode
	case KindQuoteUnavailable:
		return ErrQuoteUnavailable
	case KindLedger:
		return ErrLedger
	case KindSendFailure:
		return ErrSendFailure
	default:
		return nil
	}
}

// Error - типизированная ошибка стадии конвейера (resolve, decode, quote, ...).
// Logs заполняется для KindSendFailure и неудачной симуляции (KindLedger),
// если сеть вернула логи программы.
type Error struct {
	Kind Kind
	Op   string
	Err  error
	Logs []string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать с sentinel-ошибкой Kind: errors.Is(err, ErrDecode).
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Wrap оборачивает err в *Error заданной Kind. nil остаётся nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf создаёт *Error с сообщением в стиле fmt.Errorf (поддерживает %w).
func Errorf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf возвращает Kind самой внешней *Error в цепочке.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// LogsOf возвращает логи программы, приложенные к ошибке отправки.
func LogsOf(err error) []string {
	var e *Error
	for errors.As(err, &e) {
		if len(e.Logs) > 0 {
			return e.Logs
		}
		err = e.Err
	}
	return nil
}
