// Package baseline implements a pure Go baseline JPEG (ITU-T T.81 SOF0) codec:
// 8-bit samples, Huffman entropy coding, a single interleaved scan and
// optional restart intervals. Huffman tables are generated per image from the
// symbol statistics (T.81 Annex K.2).
package baseline

// JPEG markers
const (
	MarkerSOI  = 0xFFD8 // Start of Image
	MarkerEOI  = 0xFFD9 // End of Image
	MarkerSOF0 = 0xFFC0 // Baseline DCT
	MarkerDHT  = 0xFFC4 // Define Huffman Table
	MarkerSOS  = 0xFFDA // Start of Scan
	MarkerDQT  = 0xFFDB // Define Quantization Table
	MarkerDRI  = 0xFFDD // Define Restart Interval
	MarkerAPP0 = 0xFFE0 // JFIF APP0
	MarkerCOM  = 0xFFFE // Comment
	MarkerRST0 = 0xFFD0 // Restart 0, RST1..RST7 follow
)

// isNonBaselineSOF reports whether marker is a frame header this package
// refuses: extended, progressive, lossless, hierarchical or arithmetic.
func isNonBaselineSOF(marker int) bool {
	switch marker {
	case 0xFFC1, 0xFFC2, 0xFFC3,
		0xFFC5, 0xFFC6, 0xFFC7,
		0xFFC9, 0xFFCA, 0xFFCB,
		0xFFCD, 0xFFCE, 0xFFCF:
		return true
	}
	return false
}

const (
	blockSize = 64 // coefficients per data unit

	maxComponents = 4
	maxTables     = 2 // baseline allows two DC and two AC tables
)
