// Package keypair turns 32 bytes of entropy into an Ed25519 signing keypair.
//
// The 32 bytes are used as an Ed25519 seed: the public key is derived from
// it, and the seed itself is kept as the secret. A secp256k1 private key from
// the hdkey package can be fed in directly.
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

// Size of both halves of a keypair.
const Size = ed25519.SeedSize

var (
	ErrKeyDecode   = errors.New("malformed key material")
	ErrKeyMismatch = errors.New("public key does not match secret")
)

// Keypair is an Ed25519 public key and the 32-byte seed it was derived from.
type Keypair struct {
	Public [Size]byte
	Secret [Size]byte
}

// FromScalar expands scalar into a keypair. Any 32-byte value is accepted.
func FromScalar(scalar [Size]byte) Keypair {
	privateKey := ed25519.NewKeyFromSeed(scalar[:])

	kp := Keypair{Secret: scalar}
	copy(kp.Public[:], privateKey.Public().(ed25519.PublicKey))
	return kp
}

// FromScalarSlice is FromScalar for slices. The input must be exactly 32 bytes.
func FromScalarSlice(scalar []byte) (Keypair, error) {
	if len(scalar) != Size {
		return Keypair{}, errors.Wrapf(ErrKeyDecode, "scalar must be %d bytes but got %d", Size, len(scalar))
	}

	var fixed [Size]byte
	copy(fixed[:], scalar)
	return FromScalar(fixed), nil
}

// Generate reads 32 bytes from r and expands them.
func Generate(r io.Reader) (Keypair, error) {
	var scalar [Size]byte
	if _, err := io.ReadFull(r, scalar[:]); err != nil {
		return Keypair{}, errors.Wrap(err, "reading entropy")
	}
	return FromScalar(scalar), nil
}

// Parse decodes a hex encoded keypair and checks that both halves belong
// together.
func Parse(publicHex, secretHex string) (Keypair, error) {
	public, err := decodeHex32(publicHex)
	if err != nil {
		return Keypair{}, errors.Wrap(err, "public key")
	}
	secret, err := decodeHex32(secretHex)
	if err != nil {
		return Keypair{}, errors.Wrap(err, "secret")
	}

	kp := FromScalar(secret)
	if !bytes.Equal(kp.Public[:], public[:]) {
		return Keypair{}, ErrKeyMismatch
	}
	return kp, nil
}

func (kp Keypair) PublicHex() string {
	return hex.EncodeToString(kp.Public[:])
}

func (kp Keypair) SecretHex() string {
	return hex.EncodeToString(kp.Secret[:])
}

// PrivateKey re-expands the 64-byte signing key.
func (kp Keypair) PrivateKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(kp.Secret[:])
}

func decodeHex32(s string) ([Size]byte, error) {
	var decoded [Size]byte
	if len(s) != hex.EncodedLen(Size) {
		return decoded, errors.Wrapf(ErrKeyDecode, "expected %d hex characters but got %d", hex.EncodedLen(Size), len(s))
	}
	if _, err := hex.Decode(decoded[:], []byte(s)); err != nil {
		return decoded, errors.Wrapf(ErrKeyDecode, "%s", err)
	}
	return decoded, nil
}
