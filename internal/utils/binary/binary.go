// internal/utils/binary/binary.go
package binary

import (
	"crypto/sha256"
	"encoding/binary"
)

// AnchorDiscriminator возвращает 8-байтный дискриминатор инструкции Anchor:
// первые 8 байт sha256("global:<name>").
func AnchorDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// InstructionData собирает данные инструкции: дискриминатор и аргументы
// в порядке добавления, little-endian.
type InstructionData struct {
	buf []byte
}

// NewInstructionData начинает данные инструкции с дискриминатора метода.
func NewInstructionData(method string) *InstructionData {
	d := AnchorDiscriminator(method)
	buf := make([]byte, 0, 8+16)
	buf = append(buf, d[:]...)
	return &InstructionData{buf: buf}
}

// U64 добавляет uint64 в little-endian.
func (d *InstructionData) U64(v uint64) *InstructionData {
	d.buf = binary.LittleEndian.AppendUint64(d.buf, v)
	return d
}

// Bytes возвращает собранные данные.
func (d *InstructionData) Bytes() []byte {
	return d.buf
}
