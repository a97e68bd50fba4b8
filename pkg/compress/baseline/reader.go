package baseline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
)

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", Decode, DecodeConfig)
}

// Header is everything parsed from a baseline JPEG besides the pixels.
type Header struct {
	JFIFVersion     [2]byte // zero when there is no JFIF APP0
	Frame           Frame
	Tables          Tables
	RestartInterval int
	ScanOffset      int    // offset of the entropy-coded segment in the stream
	Data            []byte // entropy-coded segment, RSTn markers included
}

// Restarts counts the RSTn markers in the scan data.
func (h *Header) Restarts() int {
	n := 0
	for i := 0; i+1 < len(h.Data); i++ {
		if h.Data[i] == 0xFF && h.Data[i+1]&0xF8 == 0xD0 {
			n++
		}
	}
	return n
}

// Decode reads a baseline JPEG from r. Grey images decode to *image.Gray,
// three-component images to *image.RGBA with bicubic chroma upsampling.
func Decode(r io.Reader) (image.Image, error) {
	return DecodeFiltered(r, FilterBicubic)
}

// DecodeFiltered is Decode with a choice of chroma upsampling kernel.
func DecodeFiltered(r io.Reader, f Filter) (image.Image, error) {
	h, err := Inspect(r)
	if err != nil {
		return nil, err
	}
	planes, err := DecodePlanes(h)
	if err != nil {
		return nil, err
	}
	return imageFromPlanes(&h.Frame, planes, f), nil
}

// DecodePlanes decodes the scan of a parsed header into component planes.
func DecodePlanes(h *Header) ([]Plane, error) {
	if h.Data == nil {
		return nil, fmt.Errorf("%w: no scan", ErrMissingSOF)
	}
	sess, err := NewDecodeSession(h.Frame, &h.Tables, h.RestartInterval)
	if err != nil {
		return nil, err
	}
	return sess.Decode(h.Data)
}

// DecodeConfig returns the dimensions and colour model without decoding the
// scan.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	p := &parser{data: data, stopAtFrame: true}
	h, err := p.parse()
	if err != nil {
		return image.Config{}, err
	}
	cfg := image.Config{Width: h.Frame.Width, Height: h.Frame.Height, ColorModel: color.RGBAModel}
	if len(h.Frame.Components) == 1 {
		cfg.ColorModel = color.GrayModel
	}
	return cfg, nil
}

// Inspect parses every marker segment of a baseline JPEG and locates the
// scan data without decoding it.
func Inspect(r io.Reader) (*Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{data: data}
	return p.parse()
}

type parser struct {
	data        []byte
	pos         int
	stopAtFrame bool
	hasFrame    bool
	h           Header
}

func (p *parser) parse() (*Header, error) {
	if len(p.data) < 2 || binary.BigEndian.Uint16(p.data) != MarkerSOI {
		return nil, ErrNoJPEG
	}
	p.pos = 2
	for {
		marker, err := p.nextMarker()
		if err != nil {
			return nil, err
		}
		switch {
		case marker == MarkerEOI:
			if !p.hasFrame {
				return nil, fmt.Errorf("%w: EOI before frame", ErrMissingSOF)
			}
			return &p.h, nil
		case marker >= MarkerRST0 && marker <= MarkerRST0+7:
			continue // stray restart marker, no payload
		case isNonBaselineSOF(marker):
			return nil, fmt.Errorf("%w: marker 0x%04X", ErrNotBaseline, marker)
		}

		payload, err := p.segment(marker)
		if err != nil {
			return nil, err
		}
		switch marker {
		case MarkerAPP0:
			err = p.readAPP0(payload)
		case MarkerDQT:
			err = p.readDQT(payload)
		case MarkerSOF0:
			err = p.readSOF0(payload)
			if err == nil && p.stopAtFrame {
				return &p.h, nil
			}
		case MarkerDHT:
			err = p.readDHT(payload)
		case MarkerDRI:
			err = p.readDRI(payload)
		case MarkerSOS:
			err = p.readSOS(payload)
		default:
			slog.Debug("skipping segment", slog.String("marker", fmt.Sprintf("0x%04X", marker)), slog.Int("bytes", len(payload)))
		}
		if err != nil {
			return nil, err
		}
	}
}

// nextMarker reads a marker, skipping 0xFF fill bytes.
func (p *parser) nextMarker() (int, error) {
	if p.pos >= len(p.data) {
		return 0, fmt.Errorf("%w: missing EOI", ErrUnexpectedEOF)
	}
	if p.data[p.pos] != 0xFF {
		return 0, fmt.Errorf("%w: expected marker at offset %d, found 0x%02X", ErrUnexpectedMarker, p.pos, p.data[p.pos])
	}
	for p.pos < len(p.data) && p.data[p.pos] == 0xFF {
		p.pos++
	}
	if p.pos >= len(p.data) {
		return 0, fmt.Errorf("%w: missing EOI", ErrUnexpectedEOF)
	}
	marker := 0xFF00 | int(p.data[p.pos])
	p.pos++
	return marker, nil
}

// segment returns the payload of the current marker segment.
func (p *parser) segment(marker int) ([]byte, error) {
	if p.pos+2 > len(p.data) {
		return nil, fmt.Errorf("%w: truncated marker 0x%04X", ErrUnexpectedEOF, marker)
	}
	n := int(binary.BigEndian.Uint16(p.data[p.pos:]))
	if n < 2 || p.pos+n > len(p.data) {
		return nil, fmt.Errorf("%w: marker 0x%04X declares %d bytes", ErrSegmentLength, marker, n)
	}
	payload := p.data[p.pos+2 : p.pos+n]
	p.pos += n
	return payload, nil
}

func (p *parser) readAPP0(b []byte) error {
	switch {
	case bytes.HasPrefix(b, []byte("JFIF\x00")):
		if len(b) < 14 {
			return fmt.Errorf("%w: APP0 is %d bytes", ErrSegmentLength, len(b))
		}
		if b[5] != 1 {
			return fmt.Errorf("%w: major version %d", ErrInvalidJFIF, b[5])
		}
		p.h.JFIFVersion = [2]byte{b[5], b[6]}
	case bytes.HasPrefix(b, []byte("JFXX\x00")):
		// extension thumbnails are ignored
	default:
		return fmt.Errorf("%w: unknown APP0 identifier", ErrInvalidJFIF)
	}
	return nil
}

func (p *parser) readDQT(b []byte) error {
	for len(b) > 0 {
		pq, tq := b[0]>>4, int(b[0]&0x0F)
		if pq != 0 {
			return Err16BitQuant
		}
		if tq >= len(p.h.Tables.Quant) {
			return fmt.Errorf("%w: quantization table index %d", ErrMissingTable, tq)
		}
		if len(b) < 1+blockSize {
			return fmt.Errorf("%w: DQT table %d truncated", ErrSegmentLength, tq)
		}
		var wire [blockSize]uint16
		for k := range wire {
			wire[k] = uint16(b[1+k])
		}
		t, err := QuantTableFromZigzag(&wire)
		if err != nil {
			return err
		}
		p.h.Tables.Quant[tq] = t
		b = b[1+blockSize:]
	}
	return nil
}

func (p *parser) readSOF0(b []byte) error {
	if len(b) < 6 {
		return fmt.Errorf("%w: SOF0 is %d bytes", ErrSegmentLength, len(b))
	}
	if b[0] != 8 {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedPrecision, b[0])
	}
	n := int(b[5])
	if n != 1 && n != 3 {
		return fmt.Errorf("%w: %d", ErrUnsupportedComponents, n)
	}
	if len(b) != 6+3*n {
		return fmt.Errorf("%w: SOF0 is %d bytes for %d components", ErrSegmentLength, len(b), n)
	}
	f := Frame{
		Height: int(binary.BigEndian.Uint16(b[1:])),
		Width:  int(binary.BigEndian.Uint16(b[3:])),
	}
	if f.Width == 0 || f.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, f.Width, f.Height)
	}
	for i := 0; i < n; i++ {
		c := b[6+3*i:]
		f.Components = append(f.Components, ComponentHeader{
			ID:    c[0],
			H:     int(c[1] >> 4),
			V:     int(c[1] & 0x0F),
			Quant: int(c[2]),
		})
	}
	p.h.Frame = f
	p.hasFrame = true
	return nil
}

func (p *parser) readDHT(b []byte) error {
	for len(b) > 0 {
		if len(b) < 17 {
			return fmt.Errorf("%w: DHT truncated", ErrSegmentLength)
		}
		tc, th := int(b[0]>>4), int(b[0]&0x0F)
		if tc > 1 || th >= maxTables {
			return fmt.Errorf("%w: class %d index %d", ErrInvalidHuffmanTable, tc, th)
		}
		d := &Descriptor{}
		copy(d.Counts[:], b[1:17])
		n := d.NumCodes()
		if len(b) < 17+n {
			return fmt.Errorf("%w: DHT declares %d symbols", ErrSegmentLength, n)
		}
		d.Symbols = append([]byte(nil), b[17:17+n]...)
		if tc == 0 {
			p.h.Tables.DC[th] = d
		} else {
			p.h.Tables.AC[th] = d
		}
		b = b[17+n:]
	}
	return nil
}

func (p *parser) readDRI(b []byte) error {
	if len(b) != 2 {
		return fmt.Errorf("%w: DRI is %d bytes", ErrSegmentLength, len(b)+2)
	}
	p.h.RestartInterval = int(binary.BigEndian.Uint16(b))
	return nil
}

func (p *parser) readSOS(b []byte) error {
	if !p.hasFrame {
		return ErrMissingSOF
	}
	if p.h.Data != nil {
		return fmt.Errorf("%w: multiple scans", ErrNotBaseline)
	}
	if len(b) < 1 || len(b) != 4+2*int(b[0]) {
		return fmt.Errorf("%w: SOS is %d bytes", ErrSegmentLength, len(b)+2)
	}
	n := int(b[0])
	if ss, se, a := b[1+2*n], b[2+2*n], b[3+2*n]; ss != 0 || se != 63 || a != 0 {
		return fmt.Errorf("%w: spectral selection %d-%d approximation 0x%02X", ErrNotBaseline, ss, se, a)
	}
	if n != len(p.h.Frame.Components) {
		return fmt.Errorf("%w: scan has %d of %d components", ErrUnsupportedComponents, n, len(p.h.Frame.Components))
	}
	for i := 0; i < n; i++ {
		id, sel := b[1+2*i], b[2+2*i]
		found := false
		for j := range p.h.Frame.Components {
			c := &p.h.Frame.Components[j]
			if c.ID == id {
				c.DCTable, c.ACTable = int(sel>>4), int(sel&0x0F)
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: scan refers to unknown component %d", ErrUnsupportedComponents, id)
		}
	}

	// the entropy-coded segment runs up to the first marker that is neither
	// a stuffed zero nor RSTn
	start := p.pos
	end := start
	for ; end+1 < len(p.data); end++ {
		if p.data[end] != 0xFF {
			continue
		}
		next := p.data[end+1]
		if next != 0x00 && next&0xF8 != 0xD0 {
			break
		}
		end++ // skip the second byte of a stuffed zero or RSTn
	}
	if end+1 >= len(p.data) {
		end = len(p.data)
	}
	p.h.ScanOffset = start
	p.h.Data = p.data[start:end]
	p.pos = end
	return nil
}
