package keypair

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromScalarRFC8032(t *testing.T) {
	// RFC 8032 section 7.1, test 1
	secret, err := hex.DecodeString("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	require.NoError(t, err)

	kp, err := FromScalarSlice(secret)
	require.NoError(t, err)
	require.Equal(t, "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a", kp.PublicHex())
	require.Equal(t, hex.EncodeToString(secret), kp.SecretHex())
}

func TestFromScalarIsDeterministic(t *testing.T) {
	var scalar [Size]byte
	scalar[0] = 0x42

	require.Equal(t, FromScalar(scalar), FromScalar(scalar))

	scalar[31] = 0x01
	other := FromScalar(scalar)
	scalar[31] = 0x00
	require.NotEqual(t, FromScalar(scalar).Public, other.Public)
}

func TestFromScalarSliceRejectsLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		_, err := FromScalarSlice(make([]byte, n))
		require.ErrorIs(t, err, ErrKeyDecode)
	}
}

func TestGenerate(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x07}, Size)
	kp, err := Generate(bytes.NewReader(entropy))
	require.NoError(t, err)
	require.Equal(t, entropy, kp.Secret[:])

	_, err = Generate(bytes.NewReader(entropy[:10]))
	require.Error(t, err)
}

func TestPrivateKeySigns(t *testing.T) {
	kp := FromScalar([Size]byte{1, 2, 3})
	message := []byte("beauty")

	signature := ed25519.Sign(kp.PrivateKey(), message)
	require.True(t, ed25519.Verify(kp.Public[:], message, signature))
}

func TestParse(t *testing.T) {
	kp := FromScalar([Size]byte{9})
	other := FromScalar([Size]byte{10})

	parsed, err := Parse(kp.PublicHex(), kp.SecretHex())
	require.NoError(t, err)
	require.Equal(t, kp, parsed)

	_, err = Parse(other.PublicHex(), kp.SecretHex())
	require.ErrorIs(t, err, ErrKeyMismatch)

	_, err = Parse(kp.PublicHex()[2:], kp.SecretHex())
	require.ErrorIs(t, err, ErrKeyDecode)

	_, err = Parse(kp.PublicHex(), strings.Repeat("zz", Size))
	require.ErrorIs(t, err, ErrKeyDecode)
}
