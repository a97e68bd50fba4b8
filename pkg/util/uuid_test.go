package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMd5ThenHex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Md5ThenHex(nil))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", Md5ThenHex([]byte("abc")))
}

func TestHashUUID(t *testing.T) {
	type table struct {
		Counts  []int
		Symbols []byte
	}
	a := HashUUID(table{Counts: []int{0, 1, 5}, Symbols: []byte{1, 2}})
	b := HashUUID(table{Counts: []int{0, 1, 5}, Symbols: []byte{1, 2}})
	c := HashUUID(table{Counts: []int{0, 2, 4}, Symbols: []byte{1, 2}})

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	assert.Empty(t, HashUUID(func() {}), "unmarshalable values hash to nothing")
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.NotEqual(t, a, b)
	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}
