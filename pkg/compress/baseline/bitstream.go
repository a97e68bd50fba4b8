package baseline

import "fmt"

// BitWriter packs bits MSB-first into a growable buffer with JPEG byte
// stuffing: every 0xFF data byte is followed by 0x00.
type BitWriter struct {
	buf     []byte
	cur     byte // byte being filled
	free    int  // bits still free in cur (1-8)
	restart int  // next RSTn index, 0-7
	limit   int  // maximum buffer size in bytes, 0 for none
}

// NewBitWriter creates a writer. A positive limit bounds the buffer size;
// exceeding it yields ErrOutOfMemory.
func NewBitWriter(sizeHint, limit int) *BitWriter {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &BitWriter{buf: make([]byte, 0, sizeHint), free: 8, limit: limit}
}

// WriteBits writes the low n bits of v, n in [0,16].
func (b *BitWriter) WriteBits(v uint32, n int) error {
	if n < 0 || n > 16 {
		return fmt.Errorf("baseline: bit count %d out of range", n)
	}
	for n > 0 {
		take := min(b.free, n)
		n -= take
		chunk := byte(v>>uint(n)) & byte(1<<take-1)
		b.cur |= chunk << uint(b.free-take)
		b.free -= take
		if b.free == 0 {
			if err := b.emit(b.cur); err != nil {
				return err
			}
			b.cur, b.free = 0, 8
		}
	}
	return nil
}

func (b *BitWriter) emit(c byte) error {
	need := 1
	if c == 0xFF {
		need = 2
	}
	if err := b.reserve(need); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	if c == 0xFF {
		b.buf = append(b.buf, 0x00)
	}
	return nil
}

func (b *BitWriter) reserve(n int) error {
	if b.limit > 0 && len(b.buf)+n > b.limit {
		return fmt.Errorf("%w: scan exceeds %d bytes", ErrOutOfMemory, b.limit)
	}
	return nil
}

// Fill pads a partially written byte with 1-bits and flushes it.
func (b *BitWriter) Fill() error {
	if b.free == 8 {
		return nil
	}
	return b.WriteBits(1<<b.free-1, b.free)
}

// WriteRestart fills the current byte and appends the next RSTn marker.
func (b *BitWriter) WriteRestart() error {
	if err := b.Fill(); err != nil {
		return err
	}
	if err := b.reserve(2); err != nil {
		return err
	}
	b.buf = append(b.buf, 0xFF, byte(MarkerRST0&0xFF)|byte(b.restart))
	b.restart = (b.restart + 1) & 7
	return nil
}

// Bytes returns the bytes written so far, excluding a partial byte.
func (b *BitWriter) Bytes() []byte {
	return b.buf
}

// Len returns the number of complete bytes written.
func (b *BitWriter) Len() int {
	return len(b.buf)
}

// BitReader reads bits MSB-first from entropy-coded data, removing stuffed
// zero bytes. Any other byte following 0xFF is a marker and ends the data.
type BitReader struct {
	data []byte
	pos  int  // next unread byte
	cur  byte // byte being consumed
	left int  // unread bits in cur
}

// NewBitReader reads from data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

func (b *BitReader) load() error {
	if b.pos >= len(b.data) {
		return ErrUnexpectedEOF
	}
	c := b.data[b.pos]
	if c == 0xFF {
		if b.pos+1 < len(b.data) && b.data[b.pos+1] != 0x00 {
			return fmt.Errorf("%w: 0xFF%02X at offset %d", ErrUnexpectedMarker, b.data[b.pos+1], b.pos)
		}
		// a trailing 0xFF without its stuffed zero is still data
		b.pos++
	}
	b.pos++
	b.cur, b.left = c, 8
	return nil
}

// ReadBit reads a single bit.
func (b *BitReader) ReadBit() (int, error) {
	if b.left == 0 {
		if err := b.load(); err != nil {
			return 0, err
		}
	}
	b.left--
	return int(b.cur>>uint(b.left)) & 1, nil
}

// ReadBits reads n bits, n in [0,16].
func (b *BitReader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 16 {
		return 0, fmt.Errorf("baseline: bit count %d out of range", n)
	}
	var v uint32
	for n > 0 {
		if b.left == 0 {
			if err := b.load(); err != nil {
				return 0, err
			}
		}
		take := min(b.left, n)
		b.left -= take
		n -= take
		v = v<<uint(take) | uint32(b.cur>>uint(b.left))&(1<<take-1)
	}
	return v, nil
}

// Align discards the unread bits of the current byte.
func (b *BitReader) Align() {
	b.left = 0
}

// ReadRestart aligns to a byte boundary and consumes the RSTn marker whose
// index must equal expected.
func (b *BitReader) ReadRestart(expected int) error {
	b.Align()
	if b.pos+1 >= len(b.data) {
		return fmt.Errorf("%w: want RST%d, found end of data", ErrRestartMarker, expected)
	}
	c0, c1 := b.data[b.pos], b.data[b.pos+1]
	if c0 != 0xFF || c1&0xF8 != 0xD0 || int(c1&7) != expected {
		return fmt.Errorf("%w: want RST%d, found 0x%02X%02X at offset %d", ErrRestartMarker, expected, c0, c1, b.pos)
	}
	b.pos += 2
	return nil
}

// Offset returns the index of the next unread byte.
func (b *BitReader) Offset() int {
	return b.pos
}
