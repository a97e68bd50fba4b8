package baseline

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"
)

// Encode writes img to w as a baseline JFIF JPEG. *image.Gray produces a
// single-component image; everything else is converted to YCbCr.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	sess, err := NewEncodeSession(b.Dx(), b.Dy(), planesFromImage(img, opts), opts)
	if err != nil {
		return err
	}
	scan, err := sess.Encode()
	if err != nil {
		return err
	}
	return WriteScan(w, scan)
}

// WriteScan wraps an encoded scan in the JFIF container: SOI, APP0, DQT,
// SOF0, DHT, DRI (when restarts are used), SOS, the scan data and EOI.
func WriteScan(w io.Writer, scan *Scan) error {
	bw := bufio.NewWriter(w)
	e := &segmentWriter{w: bw}

	e.marker(MarkerSOI)
	e.writeAPP0()
	e.writeDQT(scan)
	e.writeSOF0(&scan.Frame)
	e.writeDHT(scan)
	if scan.RestartInterval > 0 {
		e.segment(MarkerDRI, []byte{byte(scan.RestartInterval >> 8), byte(scan.RestartInterval)})
	}
	e.writeSOS(&scan.Frame)
	e.write(scan.Data)
	e.marker(MarkerEOI)

	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// segmentWriter writes marker segments, keeping the first error.
type segmentWriter struct {
	w   io.Writer
	err error
}

func (e *segmentWriter) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *segmentWriter) marker(marker int) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.BigEndian, uint16(marker))
}

// segment writes marker, the big-endian length (payload + 2) and payload.
func (e *segmentWriter) segment(marker int, payload []byte) {
	if len(payload)+2 > 0xFFFF {
		if e.err == nil {
			e.err = fmt.Errorf("%w: marker 0x%04X payload %d bytes", ErrSegmentLength, marker, len(payload))
		}
		return
	}
	e.marker(marker)
	if e.err == nil {
		e.err = binary.Write(e.w, binary.BigEndian, uint16(len(payload)+2))
	}
	e.write(payload)
}

func (e *segmentWriter) writeAPP0() {
	e.segment(MarkerAPP0, []byte{
		0x4A, 0x46, 0x49, 0x46, 0x00, // "JFIF\0"
		0x01, 0x01, // Version 1.1
		0x00,       // Units: no units
		0x00, 0x01, // X density = 1
		0x00, 0x01, // Y density = 1
		0x00, 0x00, // No thumbnail
	})
}

func (e *segmentWriter) writeDQT(scan *Scan) {
	var data []byte
	for i, t := range scan.Tables.Quant {
		if t == nil {
			continue
		}
		data = append(data, byte(i)) // Pq=0 (8-bit), Tq=i
		for _, q := range t.ZigzagOrder() {
			data = append(data, byte(q))
		}
	}
	e.segment(MarkerDQT, data)
}

func (e *segmentWriter) writeSOF0(f *Frame) {
	data := []byte{
		8, // precision
		byte(f.Height >> 8), byte(f.Height),
		byte(f.Width >> 8), byte(f.Width),
		byte(len(f.Components)),
	}
	for _, c := range f.Components {
		data = append(data, c.ID, byte(c.H<<4|c.V), byte(c.Quant))
	}
	e.segment(MarkerSOF0, data)
}

func (e *segmentWriter) writeDHT(scan *Scan) {
	var data []byte
	for class, set := range [2][maxTables]*Descriptor{scan.Tables.DC, scan.Tables.AC} {
		for id, d := range set {
			if d == nil {
				continue
			}
			data = append(data, byte(class<<4|id))
			data = append(data, d.Counts[:]...)
			data = append(data, d.Symbols...)
		}
	}
	e.segment(MarkerDHT, data)
}

func (e *segmentWriter) writeSOS(f *Frame) {
	data := []byte{byte(len(f.Components))}
	for _, c := range f.Components {
		data = append(data, c.ID, byte(c.DCTable<<4|c.ACTable))
	}
	data = append(data,
		0,  // Ss
		63, // Se
		0,  // Ah, Al
	)
	e.segment(MarkerSOS, data)
}
