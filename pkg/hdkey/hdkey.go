// Package hdkey implements BIP32 hierarchical deterministic private keys on
// secp256k1: master key generation from a seed or a mnemonic phrase, hardened
// and non-hardened child derivation, path derivation and the 82-byte xprv
// serialization.
package hdkey

import (
	"crypto/sha512"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrKeyDecode is returned for malformed or wrong-length key material.
	ErrKeyDecode = errors.New("malformed key material")

	// ErrChecksumMismatch is returned when a serialized key fails its checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidChildKey is returned when a derivation step produces a scalar
	// outside [1, n-1]. Callers may skip the index and move on.
	ErrInvalidChildKey = errors.New("derived key is not a valid scalar")

	// ErrPathSyntax is returned for malformed derivation path strings.
	ErrPathSyntax = errors.New("malformed derivation path")

	// ErrCurveOperation is returned when a key is not usable as a secp256k1
	// private scalar.
	ErrCurveOperation = errors.New("invalid secp256k1 scalar")

	// ErrIndexOutOfRange is returned for child indexes >= 2^31.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrDepthExceeded is returned when deriving below depth 255.
	ErrDepthExceeded = errors.New("maximum derivation depth reached")
)

const (
	// MinSeedLen and MaxSeedLen bound the seed accepted by NewMaster.
	MinSeedLen = 16
	MaxSeedLen = 64

	// MnemonicSeedLen is the size of the seed derived from a mnemonic phrase.
	MnemonicSeedLen = 64

	mnemonicSaltPrefix = "mnemonic"
	mnemonicIterations = 2048
)

var masterKeyHMACKey = []byte("Bitcoin seed")

// Node is a private node of the derivation tree. Nodes are plain values:
// deriving a child never modifies its parent.
type Node struct {
	Depth             uint8
	ParentFingerprint [4]byte
	ChildNumber       uint32
	ChainCode         [32]byte
	PrivateKey        [32]byte
}

// NewMaster returns the master node for the given seed.
func NewMaster(seed []byte) (*Node, error) {
	if len(seed) < MinSeedLen || len(seed) > MaxSeedLen {
		return nil, errors.Wrapf(ErrKeyDecode, "seed length must be between %d and %d bytes but got %d",
			MinSeedLen, MaxSeedLen, len(seed))
	}

	mac := newHMACWriter(masterKeyHMACKey)
	mac.InfallibleWrite(seed)
	I := mac.Sum(nil)

	master := &Node{}
	copy(master.PrivateKey[:], I[:32])
	copy(master.ChainCode[:], I[32:])

	if err := validateScalar(&master.PrivateKey); err != nil {
		return nil, errors.Wrap(err, "master key")
	}

	return master, nil
}

// SeedFromMnemonic converts a mnemonic phrase into a 64-byte seed
// (PBKDF2-HMAC-SHA512, salt "mnemonic", 2048 iterations).
func SeedFromMnemonic(phrase string) [MnemonicSeedLen]byte {
	var seed [MnemonicSeedLen]byte
	copy(seed[:], pbkdf2.Key([]byte(phrase), []byte(mnemonicSaltPrefix), mnemonicIterations, MnemonicSeedLen, sha512.New))
	return seed
}

// NewMasterFromMnemonic returns the master node of the seed derived from phrase.
func NewMasterFromMnemonic(phrase string) (*Node, error) {
	seed := SeedFromMnemonic(phrase)
	return NewMaster(seed[:])
}

// PublicKey returns the 33-byte compressed public key of the node.
func (n *Node) PublicKey() ([33]byte, error) {
	var serialized [33]byte
	if err := validateScalar(&n.PrivateKey); err != nil {
		return serialized, err
	}

	_, publicKey := btcec.PrivKeyFromBytes(n.PrivateKey[:])
	copy(serialized[:], publicKey.SerializeCompressed())
	return serialized, nil
}

// Fingerprint returns the first 4 bytes of HASH160 of the node's public key,
// the value its children carry as ParentFingerprint.
func (n *Node) Fingerprint() ([4]byte, error) {
	var fingerprint [4]byte
	publicKey, err := n.PublicKey()
	if err != nil {
		return fingerprint, err
	}

	hash := hash160(publicKey[:])
	copy(fingerprint[:], hash[:4])
	return fingerprint, nil
}

// IsHardened reports whether the node was derived with a hardened index.
func (n *Node) IsHardened() bool {
	return n.ChildNumber >= HardenedKeyStart
}

func validateScalar(key *[32]byte) error {
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(key[:]); overflow {
		return errors.Wrap(ErrCurveOperation, "scalar is not below the curve order")
	}
	if scalar.IsZero() {
		return errors.Wrap(ErrCurveOperation, "scalar is zero")
	}
	return nil
}
