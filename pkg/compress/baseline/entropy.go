package baseline

import (
	"fmt"
	"math/bits"
)

const (
	symbolEOB = 0x00 // end of block
	symbolZRL = 0xF0 // sixteen zero coefficients
)

// symbol is one run-length coded coefficient: the Huffman symbol
// (run<<4 | category for AC, category for DC) and the category's extra bits.
type symbol struct {
	value byte
	extra uint16
}

func (s symbol) category() int {
	return int(s.value & 0x0F)
}

func (s symbol) run() int {
	return int(s.value >> 4)
}

// category returns the number of bits needed for |v|.
func category(v int32) int {
	if v < 0 {
		v = -v
	}
	return bits.Len32(uint32(v))
}

// magnitude encodes v in its category's extra bits: negative values are
// stored as v-1 in ones' complement form.
func magnitude(v int32, size int) uint16 {
	if v < 0 {
		v += 1<<size - 1
	}
	return uint16(v)
}

// extend sign-extends size extra bits back to a coefficient value.
func extend(v uint32, size int) int32 {
	if size == 0 {
		return 0
	}
	if v < 1<<(size-1) {
		return int32(v) + (-1 << size) + 1
	}
	return int32(v)
}

// encodeBlock appends the symbols of a quantized block in zigzag order to out
// and updates the DC predictor. The DC symbol is always first; an EOB ends
// the block unless coefficient 63 is nonzero.
func encodeBlock(zz *[blockSize]int32, pred *int32, out []symbol) []symbol {
	diff := zz[0] - *pred
	*pred = zz[0]
	size := category(diff)
	out = append(out, symbol{value: byte(size), extra: magnitude(diff, size)})

	run := 0
	for k := 1; k < blockSize; k++ {
		v := zz[k]
		if v == 0 {
			run++
			continue
		}
		for run > 15 {
			out = append(out, symbol{value: symbolZRL})
			run -= 16
		}
		size := category(v)
		out = append(out, symbol{value: byte(run<<4 | size), extra: magnitude(v, size)})
		run = 0
	}
	if run > 0 {
		out = append(out, symbol{value: symbolEOB})
	}
	return out
}

// blockSymbols returns how many leading entries of syms belong to the first
// block.
func blockSymbols(syms []symbol) (int, error) {
	if len(syms) == 0 {
		return 0, fmt.Errorf("%w: symbol stream exhausted", ErrCorruptBlock)
	}
	n, k := 1, 1
	for k < blockSize {
		if n >= len(syms) {
			return 0, fmt.Errorf("%w: symbol stream exhausted", ErrCorruptBlock)
		}
		s := syms[n]
		n++
		if s.value == symbolEOB {
			break
		}
		k += s.run() + 1
	}
	return n, nil
}

// writeBlock emits one block's symbols; syms[0] is the DC symbol.
func writeBlock(w *BitWriter, syms []symbol, dc, ac *HuffmanTable) error {
	for i, s := range syms {
		t := ac
		if i == 0 {
			t = dc
		}
		if err := t.encode(w, s.value); err != nil {
			return err
		}
		if size := s.category(); size > 0 {
			if err := w.WriteBits(uint32(s.extra), size); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeBlock reads one block into zz (zigzag order, quantized values) and
// updates the DC predictor.
func decodeBlock(r *BitReader, dc, ac *HuffmanTable, pred *int32, zz *[blockSize]int32) error {
	*zz = [blockSize]int32{}

	s, err := dc.decode(r)
	if err != nil {
		return err
	}
	size := int(s)
	if size > 11 {
		return fmt.Errorf("%w: DC category %d", ErrCorruptBlock, size)
	}
	v, err := r.ReadBits(size)
	if err != nil {
		return err
	}
	*pred += extend(v, size)
	zz[0] = *pred

	for k := 1; k < blockSize; {
		s, err := ac.decode(r)
		if err != nil {
			return err
		}
		run, size := int(s>>4), int(s&0x0F)
		if size == 0 {
			if run != 15 {
				return nil // EOB
			}
			k += 16
			if k > blockSize {
				return fmt.Errorf("%w: zero run past coefficient %d", ErrCorruptBlock, blockSize-1)
			}
			continue
		}
		k += run
		if k >= blockSize {
			return fmt.Errorf("%w: coefficient index %d", ErrCorruptBlock, k)
		}
		v, err := r.ReadBits(size)
		if err != nil {
			return err
		}
		zz[k] = extend(v, size)
		k++
	}
	return nil
}
