// =============================
// File: internal/dex/model/protocol.go
// =============================
package model

import (
	"fmt"
	"strings"
)

// Protocol перечисляет поддерживаемые AMM-протоколы. Набор закрыт:
// добавление нового протокола требует новой ветки в dex.Set.ForProtocol.
type Protocol uint8

const (
	ProtocolUnknown Protocol = iota
	ProtocolHeaven
	ProtocolBoop
)

// Protocols возвращает все поддерживаемые протоколы.
func Protocols() []Protocol {
	return []Protocol{ProtocolHeaven, ProtocolBoop}
}

func (p Protocol) String() string {
	switch p {
	case ProtocolHeaven:
		return "heaven"
	case ProtocolBoop:
		return "boop"
	default:
		return fmt.Sprintf("protocol(%d)", uint8(p))
	}
}

// Valid сообщает, является ли значение одним из поддерживаемых протоколов.
func (p Protocol) Valid() bool {
	return p == ProtocolHeaven || p == ProtocolBoop
}

// ParseProtocol разбирает имя протокола. Помимо канонических имён
// принимаются короткие псевдонимы "a" и "b".
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heaven", "a":
		return ProtocolHeaven, nil
	case "boop", "boop.fun", "b":
		return ProtocolBoop, nil
	}
	return ProtocolUnknown, Errorf(KindInvalidInput, "parse protocol", "%w: %q", ErrUnsupportedProtocol, s)
}

func (p Protocol) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, p)
	}
	return []byte(p.String()), nil
}

func (p *Protocol) UnmarshalText(text []byte) error {
	parsed, err := ParseProtocol(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Direction задаёт направление свапа относительно нативной валюты.
type Direction uint8

const (
	DirectionUnknown Direction = iota
	// Buy: SOL -> токен
	Buy
	// Sell: токен -> SOL
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection разбирает направление свапа.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return DirectionUnknown, Errorf(KindInvalidInput, "parse direction", "%w: %q", ErrUnsupportedDirection, s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if d != Buy && d != Sell {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDirection, d)
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
