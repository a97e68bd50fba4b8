package baseline

import (
	"fmt"
	"log/slog"
)

// DecodeSession reconstructs component planes from one baseline scan.
type DecodeSession struct {
	s *session
}

// NewDecodeSession prepares a decode of frame using tables already parsed
// from the stream.
func NewDecodeSession(frame Frame, tables *Tables, restartInterval int) (*DecodeSession, error) {
	s, err := newSession(frame, restartInterval)
	if err != nil {
		return nil, err
	}
	for _, c := range s.comps {
		if c.Quant < 0 || c.Quant >= len(tables.Quant) || tables.Quant[c.Quant] == nil {
			return nil, fmt.Errorf("%w: quantization table %d for component %d", ErrMissingTable, c.Quant, c.ID)
		}
		s.quant[c.Quant] = tables.Quant[c.Quant]
		if c.DCTable < 0 || c.DCTable >= maxTables || tables.DC[c.DCTable] == nil {
			return nil, fmt.Errorf("%w: DC table %d for component %d", ErrMissingTable, c.DCTable, c.ID)
		}
		if c.ACTable < 0 || c.ACTable >= maxTables || tables.AC[c.ACTable] == nil {
			return nil, fmt.Errorf("%w: AC table %d for component %d", ErrMissingTable, c.ACTable, c.ID)
		}
		if s.dc[c.DCTable] == nil {
			if s.dc[c.DCTable], err = NewHuffmanTable(tables.DC[c.DCTable]); err != nil {
				return nil, fmt.Errorf("DC table %d: %w", c.DCTable, err)
			}
		}
		if s.ac[c.ACTable] == nil {
			if s.ac[c.ACTable], err = NewHuffmanTable(tables.AC[c.ACTable]); err != nil {
				return nil, fmt.Errorf("AC table %d: %w", c.ACTable, err)
			}
		}
		c.pix = make([]byte, c.stride*c.rows)
	}
	return &DecodeSession{s: s}, nil
}

// Decode reads the entropy-coded segment (RSTn markers included) and returns
// one plane per component. Plane strides are padded to whole MCUs.
func (d *DecodeSession) Decode(data []byte) ([]Plane, error) {
	s := d.s
	log := s.logger()
	log.Debug("decode session started",
		slog.Int("width", s.frame.Width), slog.Int("height", s.frame.Height),
		slog.Int("components", len(s.comps)), slog.Int("bytes", len(data)))

	r := NewBitReader(data)
	restarts := 0
	err := s.forEachMCU(func(c *component, mx, my, sx, sy int) error {
		if err := decodeBlock(r, s.dc[c.DCTable], s.ac[c.ACTable], &c.pred, &s.zz); err != nil {
			return err
		}
		FromZigzag(&s.block, &s.zz)
		s.quant[c.Quant].Dequantize(&s.block)
		IDCT(&s.block, c.pix[c.origin(mx, my, sx, sy):], c.stride)
		return nil
	}, func(n int) error {
		restarts++
		return r.ReadRestart(n)
	})
	if err != nil {
		return nil, err
	}

	planes := make([]Plane, len(s.comps))
	for i, c := range s.comps {
		planes[i] = Plane{Width: c.width, Height: c.height, Stride: c.stride, Pix: c.pix}
	}
	log.Debug("decode session finished", slog.Int("restarts", restarts), slog.Int("consumed", r.Offset()))
	return planes, nil
}
