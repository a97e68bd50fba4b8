package baseline

import (
	"fmt"
	"math"
)

const (
	maxCodeLength = 16  // longest code JPEG allows
	maxCodeBuild  = 32  // longest code the merge phase may produce
	maxSymbols    = 256 // symbol space of an AC table
)

// Descriptor is the DHT wire form of a Huffman table: Counts[i] codes of
// length i+1, and the symbols in order of increasing code.
type Descriptor struct {
	Counts  [maxCodeLength]uint8
	Symbols []byte
}

// NumCodes returns the total number of codes.
func (d *Descriptor) NumCodes() int {
	n := 0
	for _, c := range d.Counts {
		n += int(c)
	}
	return n
}

// BuildDescriptor generates an optimal length-limited Huffman code for the
// symbol frequencies in freq (index = symbol) following T.81 Annex K.2.
// A reserved guard symbol keeps any real code from being all 1-bits.
func BuildDescriptor(freq []int) (*Descriptor, error) {
	if len(freq) > maxSymbols {
		return nil, fmt.Errorf("%w: %d symbols", ErrInvalidHuffmanTable, len(freq))
	}
	n := len(freq) + 1
	f := make([]int, n)
	copy(f, freq)
	f[n-1] = 1 // guard

	codeSize := make([]int, n)
	others := make([]int, n)
	for i := range others {
		others[i] = -1
	}

	for {
		// c1 and c2 are the two smallest nonzero frequencies; among equals
		// the larger symbol wins.
		c1, c2 := -1, -1
		v := math.MaxInt
		for i, fi := range f {
			if fi > 0 && fi <= v {
				v, c1 = fi, i
			}
		}
		v = math.MaxInt
		for i, fi := range f {
			if fi > 0 && fi <= v && i != c1 {
				v, c2 = fi, i
			}
		}
		if c2 < 0 {
			break
		}

		f[c1] += f[c2]
		f[c2] = 0

		codeSize[c1]++
		for others[c1] >= 0 {
			c1 = others[c1]
			codeSize[c1]++
		}
		others[c1] = c2
		codeSize[c2]++
		for others[c2] >= 0 {
			c2 = others[c2]
			codeSize[c2]++
		}
	}

	var bits [maxCodeBuild + 1]int
	for _, size := range codeSize {
		if size > 0 {
			if size > maxCodeBuild {
				return nil, fmt.Errorf("%w: code size %d", ErrInvalidHuffmanTable, size)
			}
			bits[size]++
		}
	}

	// Move codes longer than 16 bits up the tree: a pair at length i becomes
	// one code at i-1 while a shorter code at j splits into two at j+1.
	for i := maxCodeBuild; i > maxCodeLength; i-- {
		for bits[i] > 0 {
			j := i - 2
			for bits[j] == 0 {
				j--
			}
			bits[i] -= 2
			bits[i-1]++
			bits[j+1] += 2
			bits[j]--
		}
	}

	// drop the guard's code, which is one of the longest
	i := maxCodeLength
	for i > 0 && bits[i] == 0 {
		i--
	}
	if i > 0 {
		bits[i]--
	}

	d := &Descriptor{}
	for l := 1; l <= maxCodeLength; l++ {
		d.Counts[l-1] = uint8(bits[l])
	}
	for size := 1; size <= maxCodeBuild; size++ {
		for sym := 0; sym < n-1; sym++ {
			if codeSize[sym] == size {
				d.Symbols = append(d.Symbols, byte(sym))
			}
		}
	}
	return d, nil
}

// HuffmanTable is the expanded form of a Descriptor used for coding.
type HuffmanTable struct {
	// code and size per symbol; size 0 means the symbol has no code
	code [maxSymbols]uint16
	size [maxSymbols]uint8

	// decoding, per code length l-1: smallest and largest code of that
	// length (-1 if none) and the Symbols index of the smallest
	minCode  [maxCodeLength]int32
	maxCode  [maxCodeLength]int32
	valIndex [maxCodeLength]int32
	values   []byte
}

// NewHuffmanTable assigns canonical codes to the descriptor's symbols.
func NewHuffmanTable(d *Descriptor) (*HuffmanTable, error) {
	total := d.NumCodes()
	if total > maxSymbols || total != len(d.Symbols) {
		return nil, fmt.Errorf("%w: %d codes for %d symbols", ErrInvalidHuffmanTable, total, len(d.Symbols))
	}
	t := &HuffmanTable{values: append([]byte(nil), d.Symbols...)}
	var code, k int32
	for l := 0; l < maxCodeLength; l++ {
		n := int32(d.Counts[l])
		if n == 0 {
			t.minCode[l], t.maxCode[l], t.valIndex[l] = -1, -1, -1
		} else {
			t.minCode[l], t.maxCode[l], t.valIndex[l] = code, code+n-1, k
			for j := int32(0); j < n; j++ {
				sym := d.Symbols[k+j]
				if t.size[sym] != 0 {
					return nil, fmt.Errorf("%w: symbol 0x%02X repeated", ErrInvalidHuffmanTable, sym)
				}
				t.code[sym] = uint16(code + j)
				t.size[sym] = uint8(l + 1)
			}
			code += n
			k += n
		}
		// codes of length l+1 must fit in l+1 bits
		if code > 1<<(l+1) {
			return nil, fmt.Errorf("%w: too many codes of length %d", ErrInvalidHuffmanTable, l+1)
		}
		code <<= 1
	}
	return t, nil
}

// Code returns the code and its length for sym; length 0 means none.
func (t *HuffmanTable) Code(sym byte) (code uint16, length int) {
	return t.code[sym], int(t.size[sym])
}

// encode writes the code for sym.
func (t *HuffmanTable) encode(w *BitWriter, sym byte) error {
	if t.size[sym] == 0 {
		return fmt.Errorf("%w: 0x%02X", ErrMissingCode, sym)
	}
	return w.WriteBits(uint32(t.code[sym]), int(t.size[sym]))
}

// decode reads one symbol, matching codes one length at a time.
func (t *HuffmanTable) decode(r *BitReader) (byte, error) {
	var code int32
	for l := 0; l < maxCodeLength; l++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | int32(bit)
		if t.maxCode[l] >= 0 && code <= t.maxCode[l] {
			return t.values[t.valIndex[l]+code-t.minCode[l]], nil
		}
	}
	return 0, fmt.Errorf("%w: no code matches 0b%016b", ErrCorruptBlock, code)
}
