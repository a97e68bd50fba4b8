package baseline

import (
	"fmt"
	"log/slog"
)

// Input is one component plane to encode together with its sampling factors.
type Input struct {
	Plane
	H, V int
}

// EncodeSession compresses a set of component planes into one baseline scan.
// The first component uses table slot 0 (luminance), all others slot 1.
type EncodeSession struct {
	s     *session
	opts  Options
	quant [maxTables]*QuantTable
}

// NewEncodeSession copies the planes into MCU-padded, level-shifted buffers.
// Padding replicates the last column and row of each plane.
func NewEncodeSession(width, height int, inputs []Input, opts *Options) (*EncodeSession, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	frame := Frame{Width: width, Height: height}
	for i, in := range inputs {
		slot := min(i, 1)
		frame.Components = append(frame.Components, ComponentHeader{
			ID: byte(i + 1), H: in.H, V: in.V,
			Quant: slot, DCTable: slot, ACTable: slot,
		})
	}
	s, err := newSession(frame, opts.RestartInterval)
	if err != nil {
		return nil, err
	}
	e := &EncodeSession{s: s, opts: *opts}
	if e.quant[0], err = NewQuantTable(&LuminanceQuant, opts.Quality); err != nil {
		return nil, err
	}
	if e.quant[1], err = NewQuantTable(&ChrominanceQuant, opts.Quality); err != nil {
		return nil, err
	}

	for i, c := range s.comps {
		p := inputs[i].Plane
		if p.Width <= 0 || p.Height <= 0 || len(p.Pix) < (p.Height-1)*p.Stride+p.Width {
			return nil, fmt.Errorf("%w: plane %d is %dx%d stride %d with %d bytes",
				ErrInvalidDimensions, i, p.Width, p.Height, p.Stride, len(p.Pix))
		}
		c.samples = make([]int32, c.stride*c.rows)
		for y := 0; y < c.rows; y++ {
			src := p.Pix[min(y, p.Height-1)*p.Stride:]
			dst := c.samples[y*c.stride : (y+1)*c.stride]
			for x := range dst {
				dst[x] = int32(src[min(x, p.Width-1)]) - 128
			}
		}
	}
	return e, nil
}

// Encode runs both passes: gather symbols and statistics, build optimal
// Huffman tables, then emit the entropy-coded segment.
func (e *EncodeSession) Encode() (*Scan, error) {
	s := e.s
	log := s.logger()
	log.Debug("encode session started",
		slog.Int("width", s.frame.Width), slog.Int("height", s.frame.Height),
		slog.Int("components", len(s.comps)), slog.Int("mcus", s.mcusX*s.mcusY),
		slog.Int("quality", e.opts.Quality))

	var dcFreq [maxTables][16]int
	var acFreq [maxTables][maxSymbols]int
	for _, c := range s.comps {
		c.symbols = c.symbols[:0]
	}

	err := s.forEachMCU(func(c *component, mx, my, sx, sy int) error {
		o := c.origin(mx, my, sx, sy)
		for y := 0; y < 8; y++ {
			copy(s.block[y*8:y*8+8], c.samples[o+y*c.stride:])
		}
		FDCT(&s.block)
		e.quant[c.Quant].Quantize(&s.block)
		ToZigzag(&s.zz, &s.block)

		start := len(c.symbols)
		c.symbols = encodeBlock(&s.zz, &c.pred, c.symbols)
		dcFreq[c.DCTable][c.symbols[start].value]++
		for _, sym := range c.symbols[start+1:] {
			acFreq[c.ACTable][sym.value]++
		}
		return nil
	}, func(int) error { return nil })
	if err != nil {
		return nil, err
	}

	scan := &Scan{Frame: s.frame, RestartInterval: s.restartInterval}
	slots := 1
	if len(s.comps) > 1 {
		slots = 2
	}
	for i := 0; i < slots; i++ {
		scan.Tables.Quant[i] = e.quant[i]
		if scan.Tables.DC[i], err = BuildDescriptor(dcFreq[i][:]); err != nil {
			return nil, fmt.Errorf("DC table %d: %w", i, err)
		}
		if scan.Tables.AC[i], err = BuildDescriptor(acFreq[i][:]); err != nil {
			return nil, fmt.Errorf("AC table %d: %w", i, err)
		}
		if s.dc[i], err = NewHuffmanTable(scan.Tables.DC[i]); err != nil {
			return nil, fmt.Errorf("DC table %d: %w", i, err)
		}
		if s.ac[i], err = NewHuffmanTable(scan.Tables.AC[i]); err != nil {
			return nil, fmt.Errorf("AC table %d: %w", i, err)
		}
		log.Debug("huffman tables built", slog.Int("slot", i),
			slog.Int("dc_codes", scan.Tables.DC[i].NumCodes()),
			slog.Int("ac_codes", scan.Tables.AC[i].NumCodes()))
	}

	var symbolCount int
	for _, c := range s.comps {
		c.cursor = 0
		symbolCount += len(c.symbols)
	}
	w := NewBitWriter(symbolCount, e.opts.MaxScanBytes)
	restarts := 0
	err = s.forEachMCU(func(c *component, mx, my, sx, sy int) error {
		n, err := blockSymbols(c.symbols[c.cursor:])
		if err != nil {
			return err
		}
		if err := writeBlock(w, c.symbols[c.cursor:c.cursor+n], s.dc[c.DCTable], s.ac[c.ACTable]); err != nil {
			return err
		}
		c.cursor += n
		return nil
	}, func(int) error {
		restarts++
		return w.WriteRestart()
	})
	if err != nil {
		return nil, err
	}
	if err := w.Fill(); err != nil {
		return nil, err
	}

	scan.Data = w.Bytes()
	log.Debug("encode session finished",
		slog.Int("symbols", symbolCount), slog.Int("bytes", len(scan.Data)),
		slog.Int("restarts", restarts))
	return scan, nil
}
