package baseline

import "fmt"

// quantBits is the fixed-point precision of the quantizer reciprocals.
const quantBits = 16

// Base quantization tables from T.81 Annex K.1, natural order.
var (
	LuminanceQuant = [blockSize]uint16{
		16, 11, 10, 16, 24, 40, 51, 61,
		12, 12, 14, 19, 26, 58, 60, 55,
		14, 13, 16, 24, 40, 57, 69, 56,
		14, 17, 22, 29, 51, 87, 80, 62,
		18, 22, 37, 56, 68, 109, 103, 77,
		24, 35, 55, 64, 81, 104, 113, 92,
		49, 64, 78, 87, 103, 121, 120, 101,
		72, 92, 95, 98, 112, 100, 103, 99,
	}
	ChrominanceQuant = [blockSize]uint16{
		17, 18, 24, 47, 99, 99, 99, 99,
		18, 21, 26, 66, 99, 99, 99, 99,
		24, 26, 56, 99, 99, 99, 99, 99,
		47, 66, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	}
)

// QuantTable holds 8-bit quantizer divisors in natural order.
type QuantTable struct {
	Divisors [blockSize]uint16
	recip    [blockSize]uint32
}

// QualityScale converts a quality factor (1-100) to the IJG percentage scale.
func QualityScale(quality int) int {
	if quality < 50 {
		return 5000 / quality
	}
	return 200 - 2*quality
}

// NewQuantTable scales a base table by quality.
func NewQuantTable(base *[blockSize]uint16, quality int) (*QuantTable, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}
	scale := QualityScale(quality)
	var div [blockSize]uint16
	for i, b := range base {
		q := (scale*int(b) + 50) / 100
		if q < 1 {
			q = 1
		} else if q > 255 {
			q = 255
		}
		div[i] = uint16(q)
	}
	return newQuantTable(div), nil
}

// QuantTableFromZigzag builds a table from DQT wire order (zigzag).
func QuantTableFromZigzag(wire *[blockSize]uint16) (*QuantTable, error) {
	var div [blockSize]uint16
	for k, q := range wire {
		if q == 0 {
			return nil, fmt.Errorf("%w: zero quantizer at %d", ErrMissingTable, k)
		}
		div[unzigzag[k]] = q
	}
	return newQuantTable(div), nil
}

func newQuantTable(div [blockSize]uint16) *QuantTable {
	t := &QuantTable{Divisors: div}
	for i, q := range div {
		t.recip[i] = (1<<quantBits + uint32(q)/2) / uint32(q)
	}
	return t
}

// ZigzagOrder returns the divisors in DQT wire order.
func (t *QuantTable) ZigzagOrder() [blockSize]uint16 {
	var out [blockSize]uint16
	for i, q := range t.Divisors {
		out[zigzag[i]] = q
	}
	return out
}

// Quantize divides each coefficient by its divisor in place, rounding to the
// nearest integer with halves away from zero.
func (t *QuantTable) Quantize(block *[blockSize]int32) {
	for i, v := range block {
		neg := v < 0
		if neg {
			v = -v
		}
		q := int32((uint64(v)*uint64(t.recip[i]) + 1<<(quantBits-1)) >> quantBits)
		if neg {
			q = -q
		}
		block[i] = q
	}
}

// Dequantize multiplies each coefficient by its divisor in place.
func (t *QuantTable) Dequantize(block *[blockSize]int32) {
	for i := range block {
		block[i] *= int32(t.Divisors[i])
	}
}
