package cpu

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20"
)

func TestChaChaReaderIsDeterministicPerSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x5a}, chacha20.KeySize+chacha20.NonceSize)

	a, err := newChaChaReader(bytes.NewReader(seed))
	require.NoError(t, err)
	b, err := newChaChaReader(bytes.NewReader(seed))
	require.NoError(t, err)

	outA := make([]byte, 100)
	outB := make([]byte, 100)
	_, err = io.ReadFull(a, outA)
	require.NoError(t, err)
	_, err = io.ReadFull(b, outB)
	require.NoError(t, err)
	require.Equal(t, outA, outB)
	require.NotEqual(t, make([]byte, 100), outA)

	// a reader never repeats its own stream
	next := make([]byte, 100)
	_, err = io.ReadFull(a, next)
	require.NoError(t, err)
	require.NotEqual(t, outA, next)
}

func TestChaChaReaderRekeys(t *testing.T) {
	seedLen := chacha20.KeySize + chacha20.NonceSize
	source := bytes.NewReader(append(bytes.Repeat([]byte{1}, seedLen), bytes.Repeat([]byte{2}, seedLen)...))

	r, err := newChaChaReader(source)
	require.NoError(t, err)
	r.limit = 64

	buf := make([]byte, 64)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, seedLen, source.Len())

	_, err = r.Read(buf)
	require.NoError(t, err)
	require.Zero(t, source.Len())

	// source exhausted, the next rekey fails
	_, err = r.Read(buf)
	require.Error(t, err)
}

func TestChaChaReaderNeedsFullSeed(t *testing.T) {
	_, err := newChaChaReader(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
}
