package baseline

import "errors"

// Structural errors found while parsing or decoding a stream.
var (
	ErrNoJPEG                = errors.New("baseline: missing SOI marker")
	ErrInvalidJFIF           = errors.New("baseline: invalid JFIF header")
	ErrUnsupportedPrecision  = errors.New("baseline: unsupported sample precision")
	ErrUnsupportedComponents = errors.New("baseline: unsupported number of components")
	ErrSegmentLength         = errors.New("baseline: invalid segment length")
	Err16BitQuant            = errors.New("baseline: 16-bit quantization tables not supported")
	ErrNotBaseline           = errors.New("baseline: progressive or extended frames not supported")
	ErrRestartMarker         = errors.New("baseline: restart marker mismatch")
	ErrMissingSOF            = errors.New("baseline: scan before frame header")
	ErrMissingTable          = errors.New("baseline: missing quantization or Huffman table")
	ErrInvalidHuffmanTable   = errors.New("baseline: invalid Huffman table")
	ErrUnexpectedMarker      = errors.New("baseline: marker inside entropy-coded data")
	ErrCorruptBlock          = errors.New("baseline: corrupt block data")
	ErrUnexpectedEOF         = errors.New("baseline: unexpected end of data")
)

// ErrOutOfMemory is returned when a growable buffer would exceed its limit.
var ErrOutOfMemory = errors.New("baseline: buffer limit exceeded")

// Encoder consistency and input errors.
var (
	ErrMissingCode       = errors.New("baseline: symbol has no Huffman code")
	ErrInvalidSampling   = errors.New("baseline: invalid sampling factor")
	ErrInvalidQuality    = errors.New("baseline: quality must be within 1-100")
	ErrInvalidDimensions = errors.New("baseline: invalid image dimensions")
)
