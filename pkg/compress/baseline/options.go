package baseline

import (
	"fmt"

	"github.com/nfnt/resize"
)

// Subsampling selects the chroma sampling of colour images.
type Subsampling int

const (
	Subsample444 Subsampling = iota // no chroma subsampling
	Subsample422                    // chroma halved horizontally
	Subsample420                    // chroma halved in both directions
)

// String returns the conventional J:a:b name.
func (s Subsampling) String() string {
	switch s {
	case Subsample444:
		return "4:4:4"
	case Subsample422:
		return "4:2:2"
	case Subsample420:
		return "4:2:0"
	default:
		return "Unknown"
	}
}

// ParseSubsampling accepts "444", "4:4:4" and the like.
func ParseSubsampling(v string) (Subsampling, error) {
	switch v {
	case "444", "4:4:4":
		return Subsample444, nil
	case "422", "4:2:2":
		return Subsample422, nil
	case "420", "4:2:0":
		return Subsample420, nil
	}
	return 0, fmt.Errorf("%w: unknown subsampling %q", ErrInvalidSampling, v)
}

// lumaFactors returns the luma H and V factors; chroma is always 1x1.
func (s Subsampling) lumaFactors() (int, int) {
	switch s {
	case Subsample422:
		return 2, 1
	case Subsample420:
		return 2, 2
	default:
		return 1, 1
	}
}

// Filter selects the kernel used to scale chroma planes.
type Filter int

const (
	FilterBicubic  Filter = iota // cubic hermite spline
	FilterBilinear               // triangle
	FilterLanczos                // Lanczos3
	FilterNearest                // sample replication
)

// String returns the name ParseFilter accepts.
func (f Filter) String() string {
	switch f {
	case FilterBicubic:
		return "bicubic"
	case FilterBilinear:
		return "bilinear"
	case FilterLanczos:
		return "lanczos"
	case FilterNearest:
		return "nearest"
	default:
		return "Unknown"
	}
}

// ParseFilter accepts the names returned by Filter.String.
func ParseFilter(v string) (Filter, error) {
	for _, f := range []Filter{FilterBicubic, FilterBilinear, FilterLanczos, FilterNearest} {
		if v == f.String() {
			return f, nil
		}
	}
	return 0, fmt.Errorf("baseline: unknown resampling filter %q", v)
}

func (f Filter) interpolation() resize.InterpolationFunction {
	switch f {
	case FilterBilinear:
		return resize.Bilinear
	case FilterLanczos:
		return resize.Lanczos3
	case FilterNearest:
		return resize.NearestNeighbor
	default:
		return resize.Bicubic
	}
}

// Options configures baseline encoding
type Options struct {
	Quality         int         // 1-100 (default: 75)
	Subsampling     Subsampling // chroma subsampling for colour images (default: 4:2:0)
	RestartInterval int         // MCUs between restart markers, 0 for none
	MaxScanBytes    int         // upper bound on the entropy-coded segment, 0 for none
	Filter          Filter      // chroma downsampling kernel (default: bicubic)
}

// DefaultOptions returns default encoding options
func DefaultOptions() *Options {
	return &Options{
		Quality:     75,
		Subsampling: Subsample420,
	}
}
