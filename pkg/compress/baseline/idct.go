package baseline

// Chen-Wang IDCT constants: 4096*sqrt(2)*cos(k*pi/16), 12-bit precision for
// IEEE 1180 compliance.
const (
	w1 = 5681
	w2 = 5352
	w3 = 4816
	w5 = 3218
	w6 = 2217
	w7 = 1130
)

const (
	clipMin = -512
	clipMax = 512
)

// clipTable maps a column output in [clipMin, clipMax) to a sample: the value
// plus the 128 level shift, saturated to [0, 255].
var clipTable [clipMax - clipMin]byte

func init() {
	for i := clipMin; i < clipMax; i++ {
		v := i + 128
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		clipTable[i-clipMin] = byte(v)
	}
}

func clip(x int32) byte {
	if x < clipMin {
		x = clipMin
	} else if x >= clipMax {
		x = clipMax - 1
	}
	return clipTable[x-clipMin]
}

// IDCT performs the inverse DCT of a dequantized block in natural order and
// writes the 8x8 level-shifted, clamped samples to dst starting at offset 0
// with the given row stride. The block is used as scratch space.
func IDCT(block *[blockSize]int32, dst []byte, stride int) {
	for row := 0; row < 8; row++ {
		idctRow(block[row*8 : row*8+8 : row*8+8])
	}
	for col := 0; col < 8; col++ {
		idctCol(block, col, dst[col:], stride)
	}
}

func idctRow(s []int32) {
	if s[0] == 0 && s[1] == 0 && s[2] == 0 && s[3] == 0 &&
		s[4] == 0 && s[5] == 0 && s[6] == 0 && s[7] == 0 {
		return
	}

	// first stage
	x0 := s[0]
	x1 := s[4]
	x2 := s[6]
	x3 := s[2]
	x4 := s[1]
	x5 := s[7]
	x6 := s[5]
	x7 := s[3]
	x8 := w7 * (x4 + x5)
	x4 = x8 + (w1-w7)*x4
	x5 = x8 - (w1+w7)*x5
	x8 = w3 * (x6 + x7)
	x6 = x8 - (w3-w5)*x6
	x7 = x8 - (w3+w5)*x7

	// second stage, +16 rounds the final shift
	x8 = (x0+x1)<<12 + 16
	x0 = (x0-x1)<<12 + 16
	x1 = w6 * (x3 + x2)
	x2 = x1 - (w2+w6)*x2
	x3 = x1 + (w2-w6)*x3
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	// third stage
	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2
	x2 = rightShift(181*(x4+x5)+128, 8)
	x4 = rightShift(181*(x4-x5)+128, 8)

	// fourth stage
	s[0] = rightShift(x7+x1, 5)
	s[1] = rightShift(x3+x2, 5)
	s[2] = rightShift(x0+x4, 5)
	s[3] = rightShift(x8+x6, 5)
	s[4] = rightShift(x8-x6, 5)
	s[5] = rightShift(x0-x4, 5)
	s[6] = rightShift(x3-x2, 5)
	s[7] = rightShift(x7-x1, 5)
}

func idctCol(b *[blockSize]int32, col int, out []byte, stride int) {
	// first stage
	x0 := b[col]
	x1 := b[col+32]
	x2 := b[col+48]
	x3 := b[col+16]
	x4 := b[col+8]
	x5 := b[col+56]
	x6 := b[col+40]
	x7 := b[col+24]
	x8 := w7*(x4+x5) + 2048
	x4 = rightShift(x8+(w1-w7)*x4, 12)
	x5 = rightShift(x8-(w1+w7)*x5, 12)
	x8 = w3*(x6+x7) + 2048
	x6 = rightShift(x8-(w3-w5)*x6, 12)
	x7 = rightShift(x8-(w3+w5)*x7, 12)

	// second stage
	x8 = x0 + x1
	x0 -= x1
	x1 = w6*(x3+x2) + 2048
	x2 = rightShift(x1-(w2+w6)*x2, 12)
	x3 = rightShift(x1+(w2-w6)*x3, 12)
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	// third stage
	x7 = x8 + x3 + 512
	x8 += -x3 + 512
	x3 = x0 + x2 + 512
	x0 += -x2 + 512
	x2 = rightShift(181*(x4+x5)+128, 8)
	x4 = rightShift(181*(x4-x5)+128, 8)

	// fourth stage
	out[0] = clip(rightShift(x7+x1, 10))
	out[stride] = clip(rightShift(x3+x2, 10))
	out[2*stride] = clip(rightShift(x0+x4, 10))
	out[3*stride] = clip(rightShift(x8+x6, 10))
	out[4*stride] = clip(rightShift(x8-x6, 10))
	out[5*stride] = clip(rightShift(x0-x4, 10))
	out[6*stride] = clip(rightShift(x3-x2, 10))
	out[7*stride] = clip(rightShift(x7-x1, 10))
}
