package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitWriterPacking(t *testing.T) {
	w := NewBitWriter(0, 0)
	require.NoError(t, w.WriteBits(0b101, 3))
	require.NoError(t, w.WriteBits(0b00110, 5))
	require.NoError(t, w.WriteBits(0xABC, 12))
	assert.Equal(t, []byte{0xA6, 0xAB}, w.Bytes())
	require.NoError(t, w.Fill())
	assert.Equal(t, []byte{0xA6, 0xAB, 0xCF}, w.Bytes())
	require.NoError(t, w.Fill(), "fill on a byte boundary is a no-op")
	assert.Equal(t, 3, w.Len())

	assert.Error(t, w.WriteBits(0, 17))
}

func TestBitWriterStuffing(t *testing.T) {
	w := NewBitWriter(0, 0)
	require.NoError(t, w.WriteBits(0xFF, 8))
	require.NoError(t, w.WriteBits(0x7F, 7))
	require.NoError(t, w.Fill())
	assert.Equal(t, []byte{0xFF, 0x00, 0xFF, 0x00}, w.Bytes())
}

func TestBitWriterRestartCycle(t *testing.T) {
	w := NewBitWriter(0, 0)
	for i := 0; i < 9; i++ {
		require.NoError(t, w.WriteBits(0, 2))
		require.NoError(t, w.WriteRestart())
	}
	b := w.Bytes()
	require.Len(t, b, 27)
	for i := 0; i < 9; i++ {
		assert.Equal(t, byte(0x3F), b[3*i], "padding after two zero bits")
		assert.Equal(t, byte(0xFF), b[3*i+1])
		assert.Equal(t, byte(0xD0+i%8), b[3*i+2])
	}
}

func TestBitWriterLimit(t *testing.T) {
	w := NewBitWriter(0, 2)
	require.NoError(t, w.WriteBits(0x1234, 16))
	assert.ErrorIs(t, w.WriteBits(0x56, 8), ErrOutOfMemory)

	w = NewBitWriter(0, 2)
	require.NoError(t, w.WriteBits(0x12, 8))
	assert.ErrorIs(t, w.WriteBits(0xFF, 8), ErrOutOfMemory, "stuffing counts against the limit")
}

func TestBitReader(t *testing.T) {
	r := NewBitReader([]byte{0xA6, 0xFF, 0x00, 0xCF})
	v, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b101), v)
	v, err = r.ReadBits(13)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b00110_11111111), v)
	bit, err := r.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, 1, bit)
	assert.Equal(t, 4, r.Offset())

	r.Align()
	_, err = r.ReadBit()
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestBitReaderMarker(t *testing.T) {
	r := NewBitReader([]byte{0x12, 0xFF, 0xD9})
	_, err := r.ReadBits(8)
	require.NoError(t, err)
	_, err = r.ReadBit()
	assert.ErrorIs(t, err, ErrUnexpectedMarker)
}

func TestBitReaderRestart(t *testing.T) {
	data := []byte{0x3F, 0xFF, 0xD3, 0x80}
	r := NewBitReader(data)
	_, err := r.ReadBits(2)
	require.NoError(t, err)
	require.NoError(t, r.ReadRestart(3))
	bit, err := r.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, 1, bit)

	r = NewBitReader(data)
	_, err = r.ReadBits(2)
	require.NoError(t, err)
	assert.ErrorIs(t, r.ReadRestart(4), ErrRestartMarker)

	r = NewBitReader([]byte{0x3F})
	_, err = r.ReadBits(2)
	require.NoError(t, err)
	assert.ErrorIs(t, r.ReadRestart(0), ErrRestartMarker)
}
