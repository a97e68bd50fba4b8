package baseline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryMagnitudeExtend(t *testing.T) {
	cases := []struct {
		v     int32
		size  int
		extra uint16
	}{
		{0, 0, 0},
		{1, 1, 1},
		{-1, 1, 0},
		{2, 2, 2},
		{-3, 2, 0},
		{-2, 2, 1},
		{255, 8, 255},
		{-255, 8, 0},
		{1024, 11, 1024},
		{-2047, 11, 0},
	}
	for _, c := range cases {
		size := category(c.v)
		assert.Equal(t, c.size, size, "category(%d)", c.v)
		assert.Equal(t, c.extra, magnitude(c.v, size), "magnitude(%d)", c.v)
		assert.Equal(t, c.v, extend(uint32(c.extra), size), "extend(%d)", c.v)
	}
}

func TestEncodeBlockSymbols(t *testing.T) {
	var zz [blockSize]int32
	var pred int32
	syms := encodeBlock(&zz, &pred, nil)
	assert.Equal(t, []symbol{{value: 0}, {value: symbolEOB}}, syms, "empty block is DC 0 and EOB")

	zz[0] = 5
	zz[1] = -1
	zz[20] = 3
	pred = 2
	syms = encodeBlock(&zz, &pred, nil)
	assert.Equal(t, int32(5), pred)
	assert.Equal(t, []symbol{
		{value: 2, extra: 3},    // dc diff 3
		{value: 0x01, extra: 0}, // run 0, -1
		{value: 0xF0},           // 16 zeros
		{value: 0x22, extra: 3}, // run 2, 3
		{value: symbolEOB},
	}, syms)

	n, err := blockSymbols(append(syms, symbol{value: 7}))
	require.NoError(t, err)
	assert.Equal(t, len(syms), n)
}

func TestEncodeBlockLastCoefficient(t *testing.T) {
	var zz [blockSize]int32
	var pred int32
	zz[63] = -4
	syms := encodeBlock(&zz, &pred, nil)
	assert.Equal(t, []symbol{
		{value: 0},
		{value: 0xF0}, {value: 0xF0}, {value: 0xF0},
		{value: 0xE3, extra: 3},
	}, syms, "no EOB after coefficient 63")

	n, err := blockSymbols(syms)
	require.NoError(t, err)
	assert.Equal(t, len(syms), n)

	_, err = blockSymbols(syms[:3])
	assert.ErrorIs(t, err, ErrCorruptBlock)
}

func buildTables(t *testing.T, syms []symbol) (dc, ac *HuffmanTable) {
	t.Helper()
	dcFreq := make([]int, 16)
	acFreq := make([]int, maxSymbols)
	require.NotEmpty(t, syms)
	for len(syms) > 0 {
		n, err := blockSymbols(syms)
		require.NoError(t, err)
		dcFreq[syms[0].value]++
		for _, s := range syms[1:n] {
			acFreq[s.value]++
		}
		syms = syms[n:]
	}
	dd, err := BuildDescriptor(dcFreq)
	require.NoError(t, err)
	ad, err := BuildDescriptor(acFreq)
	require.NoError(t, err)
	dc, err = NewHuffmanTable(dd)
	require.NoError(t, err)
	ac, err = NewHuffmanTable(ad)
	require.NoError(t, err)
	return dc, ac
}

func TestBlockRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	blocks := make([][blockSize]int32, 40)
	for i := range blocks {
		blocks[i][0] = int32(rng.Intn(2047)) - 1023
		for k := 1; k < blockSize; k++ {
			if rng.Intn(4) == 0 {
				blocks[i][k] = int32(rng.Intn(511)) - 255
			}
		}
	}
	blocks[7] = [blockSize]int32{}
	blocks[8][63] = 9

	var pred int32
	var syms []symbol
	for i := range blocks {
		syms = encodeBlock(&blocks[i], &pred, syms)
	}
	dc, ac := buildTables(t, syms)

	w := NewBitWriter(0, 0)
	rest := syms
	for range blocks {
		n, err := blockSymbols(rest)
		require.NoError(t, err)
		require.NoError(t, writeBlock(w, rest[:n], dc, ac))
		rest = rest[n:]
	}
	require.NoError(t, w.Fill())

	r := NewBitReader(w.Bytes())
	pred = 0
	for i := range blocks {
		var zz [blockSize]int32
		require.NoError(t, decodeBlock(r, dc, ac, &pred, &zz))
		assert.Equal(t, blocks[i], zz, "block %d", i)
	}
}

func TestDecodeBlockOverrun(t *testing.T) {
	// run 3, then four runs of 15 push the coefficient index past 63
	syms := []symbol{{value: 0}, {value: 0x31, extra: 1},
		{value: 0xF1, extra: 1}, {value: 0xF1, extra: 1}, {value: 0xF1, extra: 1}, {value: 0xF1, extra: 1}}
	dcFreq := make([]int, 16)
	dcFreq[0] = 1
	acFreq := make([]int, maxSymbols)
	acFreq[0x31], acFreq[0xF1] = 1, 4
	dd, err := BuildDescriptor(dcFreq)
	require.NoError(t, err)
	ad, err := BuildDescriptor(acFreq)
	require.NoError(t, err)
	dc, err := NewHuffmanTable(dd)
	require.NoError(t, err)
	ac, err := NewHuffmanTable(ad)
	require.NoError(t, err)

	w := NewBitWriter(0, 0)
	require.NoError(t, writeBlock(w, syms, dc, ac))
	require.NoError(t, w.Fill())

	var pred int32
	var zz [blockSize]int32
	err = decodeBlock(NewBitReader(w.Bytes()), dc, ac, &pred, &zz)
	assert.ErrorIs(t, err, ErrCorruptBlock)
}

func TestDecodeBlockZeroRun(t *testing.T) {
	dcFreq := make([]int, 16)
	dcFreq[0] = 1
	acFreq := make([]int, maxSymbols)
	acFreq[0xF1], acFreq[0xE1], acFreq[0xF0] = 3, 1, 1
	dd, err := BuildDescriptor(dcFreq)
	require.NoError(t, err)
	ad, err := BuildDescriptor(acFreq)
	require.NoError(t, err)
	dc, err := NewHuffmanTable(dd)
	require.NoError(t, err)
	ac, err := NewHuffmanTable(ad)
	require.NoError(t, err)

	decode := func(syms []symbol) ([blockSize]int32, error) {
		w := NewBitWriter(0, 0)
		require.NoError(t, writeBlock(w, syms, dc, ac))
		require.NoError(t, w.Fill())
		var pred int32
		var zz [blockSize]int32
		err := decodeBlock(NewBitReader(w.Bytes()), dc, ac, &pred, &zz)
		return zz, err
	}

	// a zero run ending exactly on coefficient 63 closes the block
	zz, err := decode([]symbol{{value: 0},
		{value: 0xF1, extra: 1}, {value: 0xF1, extra: 1}, {value: 0xE1, extra: 1}, {value: 0xF0}})
	require.NoError(t, err)
	assert.Equal(t, int32(1), zz[16])
	assert.Equal(t, int32(1), zz[32])
	assert.Equal(t, int32(1), zz[47])

	// one starting at 49 runs off the end
	_, err = decode([]symbol{{value: 0},
		{value: 0xF1, extra: 1}, {value: 0xF1, extra: 1}, {value: 0xF1, extra: 1}, {value: 0xF0}})
	assert.ErrorIs(t, err, ErrCorruptBlock)
}
