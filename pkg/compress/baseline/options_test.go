package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubsampling(t *testing.T) {
	for _, s := range []Subsampling{Subsample444, Subsample422, Subsample420} {
		got, err := ParseSubsampling(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseSubsampling("420")
	require.NoError(t, err)
	assert.Equal(t, Subsample420, got)

	_, err = ParseSubsampling("411")
	assert.ErrorIs(t, err, ErrInvalidSampling)
}

func TestParseFilter(t *testing.T) {
	for _, f := range []Filter{FilterBicubic, FilterBilinear, FilterLanczos, FilterNearest} {
		got, err := ParseFilter(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFilter("Unknown")
	assert.Error(t, err)
	assert.Equal(t, FilterBicubic, DefaultOptions().Filter)
}
