package baseline

import "fmt"

// zigzag maps a natural (row-major) coefficient index to its position in the
// zigzag scan.
var zigzag = [blockSize]uint8{
	0, 1, 5, 6, 14, 15, 27, 28,
	2, 4, 7, 13, 16, 26, 29, 42,
	3, 8, 12, 17, 25, 30, 41, 43,
	9, 11, 18, 24, 31, 40, 44, 53,
	10, 19, 23, 32, 39, 45, 52, 54,
	20, 22, 33, 38, 46, 51, 55, 60,
	21, 34, 37, 47, 50, 56, 59, 61,
	35, 36, 48, 49, 57, 58, 62, 63,
}

// unzigzag maps a zigzag scan position to its natural index. It is derived
// from zigzag so the two are inverse permutations by construction.
var unzigzag [blockSize]uint8

func init() {
	var seen [blockSize]bool
	for natural, scan := range zigzag {
		if seen[scan] {
			panic(fmt.Sprintf("baseline: zigzag position %d used twice", scan))
		}
		seen[scan] = true
		unzigzag[scan] = uint8(natural)
	}
}

// ToZigzag reorders a natural-order block into scan order.
func ToZigzag(dst, src *[blockSize]int32) {
	for i, v := range src {
		dst[zigzag[i]] = v
	}
}

// FromZigzag reorders a scan-order block into natural order.
func FromZigzag(dst, src *[blockSize]int32) {
	for k, v := range src {
		dst[unzigzag[k]] = v
	}
}
