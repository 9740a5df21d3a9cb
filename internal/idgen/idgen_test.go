package idgen

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNew_ProducesV4(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	a, err := g.NewID()
	require.NoError(t, err)
	b, err := g.NewID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, uuid.Version(4), a.Version())
}

func TestNewFromReader_Deterministic(t *testing.T) {
	g, err := NewFromReader(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	require.NoError(t, err)

	id, err := g.NewID()
	require.NoError(t, err)
	assert.Equal(t, "abababab-abab-4bab-abab-abababababab", id.String())
}

func TestNewFromReader_BrokenSourceIsFatal(t *testing.T) {
	g, err := NewFromReader(failingReader{})
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrUnavailable)
}
