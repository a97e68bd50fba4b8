package baseline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRightShift(t *testing.T) {
	assert.Equal(t, int32(2), rightShift(5, 1))
	assert.Equal(t, int32(-3), rightShift(-5, 1))
	assert.Equal(t, int32(-1), rightShift(-1, 4))
	assert.Equal(t, int32(3), descale(5, 1))
	assert.Equal(t, int32(-2), descale(-5, 1))
	assert.Equal(t, int32(-1), descale(-6, 2))

	// -40/32 is -1.25
	assert.Equal(t, int32(-1), descaleOutput(-40, 2))
	assert.Equal(t, int32(1), descaleOutput(40, 2))
	assert.Equal(t, int32(2), descaleOutput(48, 2))
}

func TestFDCTConstantBlock(t *testing.T) {
	for _, v := range []int32{-128, -37, 0, 1, 100, 127} {
		var block [blockSize]int32
		for i := range block {
			block[i] = v
		}
		FDCT(&block)
		assert.Equal(t, 8*v, block[0], "dc for %d", v)
		for i := 1; i < blockSize; i++ {
			require.Zero(t, block[i], "ac %d for %d", i, v)
		}
	}
}

func TestIDCTConstantBlock(t *testing.T) {
	for _, v := range []int32{-128, -5, 0, 64, 127} {
		var block [blockSize]int32
		block[0] = 8 * v
		out := make([]byte, 8*10)
		IDCT(&block, out, 10)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				require.Equal(t, byte(v+128), out[y*10+x], "(%d,%d) for %d", x, y, v)
			}
			assert.Zero(t, out[y*10+8], "stride padding untouched")
		}
	}
}

func TestIDCTClips(t *testing.T) {
	var block [blockSize]int32
	block[0] = 8 * 1000
	out := make([]byte, blockSize)
	IDCT(&block, out, 8)
	for _, b := range out {
		assert.Equal(t, byte(255), b)
	}
	block = [blockSize]int32{}
	block[0] = -8 * 1000
	IDCT(&block, out, 8)
	for _, b := range out {
		assert.Equal(t, byte(0), b)
	}
}

func TestDCTNearIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var sumErr, maxErr int32
	const blocks = 1000
	for n := 0; n < blocks; n++ {
		var orig, block [blockSize]int32
		for i := range orig {
			orig[i] = int32(rng.Intn(256)) - 128
		}
		block = orig
		FDCT(&block)
		out := make([]byte, blockSize)
		IDCT(&block, out, 8)
		for i := range orig {
			d := int32(out[i]) - (orig[i] + 128)
			if d < 0 {
				d = -d
			}
			sumErr += d
			maxErr = max(maxErr, d)
		}
	}
	assert.LessOrEqual(t, maxErr, int32(2))
	assert.Less(t, float64(sumErr)/float64(blocks*blockSize), 0.3)
}

func TestDCTUnbiased(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const blocks = 1000
	var corner, all int
	for n := 0; n < blocks; n++ {
		var orig, block [blockSize]int32
		for i := range orig {
			orig[i] = int32(rng.Intn(192)) - 96
		}
		block = orig
		FDCT(&block)
		out := make([]byte, blockSize)
		IDCT(&block, out, 8)
		corner += int(out[0]) - int(orig[0]+128)
		for i := range orig {
			all += int(out[i]) - int(orig[i]+128)
		}
	}
	// truncating the coefficients would pull the top-left sample down by
	// several levels
	assert.InDelta(t, 0, float64(corner)/blocks, 0.15)
	assert.InDelta(t, 0, float64(all)/(blocks*blockSize), 0.05)
}
