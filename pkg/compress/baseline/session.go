package baseline

import (
	"fmt"
	"log/slog"

	"github.com/jpfielding/jpegb.go/pkg/util"
)

// Plane is one component's samples, row-major with the given stride.
type Plane struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// ComponentHeader describes a component as it appears in SOF0 and SOS.
type ComponentHeader struct {
	ID      byte
	H, V    int // sampling factors
	Quant   int // quantization table index
	DCTable int // DC Huffman table index
	ACTable int // AC Huffman table index
}

// Frame holds the image geometry of a scan.
type Frame struct {
	Width      int
	Height     int
	Components []ComponentHeader
}

// Tables holds the quantization and Huffman tables a scan refers to.
type Tables struct {
	Quant [4]*QuantTable
	DC    [maxTables]*Descriptor
	AC    [maxTables]*Descriptor
}

// Scan is the result of an encode session.
type Scan struct {
	Frame           Frame
	Tables          Tables
	RestartInterval int
	Data            []byte // entropy-coded segment including RSTn markers
}

// component is the per-plane state owned by a session.
type component struct {
	ComponentHeader
	width, height int // nominal sample dimensions
	stride, rows  int // padded to whole MCUs
	samples       []int32
	pix           []byte
	pred          int32
	symbols       []symbol
	cursor        int
}

// session is a single encode or decode pass. It owns every buffer it uses.
type session struct {
	id              string
	frame           Frame
	comps           []*component
	maxH, maxV      int
	mcusX, mcusY    int
	restartInterval int
	quant           [4]*QuantTable
	dc, ac          [maxTables]*HuffmanTable
	block, zz       [blockSize]int32
}

func validSampling(f int) bool {
	return f == 1 || f == 2 || f == 4
}

func newSession(frame Frame, restartInterval int) (*session, error) {
	if frame.Width <= 0 || frame.Height <= 0 || frame.Width > 0xFFFF || frame.Height > 0xFFFF {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, frame.Width, frame.Height)
	}
	if n := len(frame.Components); n == 0 || n > maxComponents {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedComponents, n)
	}
	if restartInterval < 0 || restartInterval > 0xFFFF {
		return nil, fmt.Errorf("baseline: restart interval %d out of range", restartInterval)
	}
	s := &session{
		id:              util.NewSessionID(),
		frame:           frame,
		restartInterval: restartInterval,
	}
	for _, c := range frame.Components {
		if !validSampling(c.H) || !validSampling(c.V) {
			return nil, fmt.Errorf("%w: component %d is %dx%d", ErrInvalidSampling, c.ID, c.H, c.V)
		}
	}
	// A single-component scan is non-interleaved: each MCU is one data unit
	// in raster order whatever sampling factors the frame declares.
	layout := frame.Components
	if len(layout) == 1 {
		c := layout[0]
		c.H, c.V = 1, 1
		layout = []ComponentHeader{c}
	}
	for _, c := range layout {
		s.maxH = max(s.maxH, c.H)
		s.maxV = max(s.maxV, c.V)
	}
	s.mcusX = (frame.Width + 8*s.maxH - 1) / (8 * s.maxH)
	s.mcusY = (frame.Height + 8*s.maxV - 1) / (8 * s.maxV)
	for _, c := range layout {
		s.comps = append(s.comps, &component{
			ComponentHeader: c,
			width:           (frame.Width*c.H + s.maxH - 1) / s.maxH,
			height:          (frame.Height*c.V + s.maxV - 1) / s.maxV,
			stride:          s.mcusX * c.H * 8,
			rows:            s.mcusY * c.V * 8,
		})
	}
	return s, nil
}

// origin returns the buffer offset of data unit (sx, sy) of the MCU at
// (mx, my).
func (c *component) origin(mx, my, sx, sy int) int {
	return (my*c.V*8+sy*8)*c.stride + mx*c.H*8 + sx*8
}

func (s *session) resetPredictors() {
	for _, c := range s.comps {
		c.pred = 0
	}
}

// forEachMCU visits MCUs in raster order. Between intervals it resets the DC
// predictors and calls restart with the RSTn index; no restart follows the
// last MCU.
func (s *session) forEachMCU(unit func(c *component, mx, my, sx, sy int) error, restart func(n int) error) error {
	s.resetPredictors()
	total := s.mcusX * s.mcusY
	countdown := s.restartInterval
	next := 0
	for i := 0; i < total; i++ {
		mx, my := i%s.mcusX, i/s.mcusX
		for _, c := range s.comps {
			for sy := 0; sy < c.V; sy++ {
				for sx := 0; sx < c.H; sx++ {
					if err := unit(c, mx, my, sx, sy); err != nil {
						return fmt.Errorf("mcu (%d,%d) component %d: %w", mx, my, c.ID, err)
					}
				}
			}
		}
		if s.restartInterval == 0 || i == total-1 {
			continue
		}
		countdown--
		if countdown == 0 {
			if err := restart(next); err != nil {
				return err
			}
			next = (next + 1) & 7
			countdown = s.restartInterval
			s.resetPredictors()
		}
	}
	return nil
}

func (s *session) logger() *slog.Logger {
	return slog.Default().With(slog.String("session", s.id))
}
