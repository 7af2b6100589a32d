package binary

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnchorDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("global:buy"))
	d := AnchorDiscriminator("buy")
	assert.Equal(t, sum[:8], d[:])
	assert.NotEqual(t, AnchorDiscriminator("buy"), AnchorDiscriminator("sell"))
}

func TestInstructionDataLayout(t *testing.T) {
	data := NewInstructionData("sell_token").U64(1_000).U64(42).Bytes()

	assert.Len(t, data, 24)
	d := AnchorDiscriminator("sell_token")
	assert.Equal(t, d[:], data[:8])
	assert.Equal(t, uint64(1_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[16:24]))
}
