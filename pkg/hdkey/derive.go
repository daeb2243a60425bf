package hdkey

import (
	"encoding/binary"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// HardenedKeyStart is the first hardened child number (2^31).
const HardenedKeyStart = 0x80000000

// Scheme selects how the private key is fed into the hardened-derivation HMAC.
type Scheme int

const (
	// Standard writes the private key as exactly 32 zero-padded bytes (BIP32).
	Standard Scheme = iota

	// Legacy strips leading zero bytes from the private key first, like wallets
	// that serialized the key as a big integer. It only differs from Standard
	// when the key starts with 0x00.
	Legacy
)

func (s Scheme) String() string {
	switch s {
	case Standard:
		return "standard"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

func (s Scheme) privateKeyBytes(key *[32]byte) []byte {
	if s != Legacy {
		return key[:]
	}
	trimmed := key[:]
	for len(trimmed) > 0 && trimmed[0] == 0 {
		trimmed = trimmed[1:]
	}
	return trimmed
}

// Child derives the child at index with the Standard scheme. Index must be
// below 2^31; hardened selects the hardened child index|2^31.
func (n *Node) Child(index uint32, hardened bool) (*Node, error) {
	return n.ChildWithScheme(index, hardened, Standard)
}

// ChildWithScheme derives the child at index using the given scheme for
// hardened steps.
func (n *Node) ChildWithScheme(index uint32, hardened bool, scheme Scheme) (*Node, error) {
	if index >= HardenedKeyStart {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	if n.Depth == math.MaxUint8 {
		return nil, ErrDepthExceeded
	}

	publicKey, err := n.PublicKey()
	if err != nil {
		return nil, errors.Wrap(err, "parent key")
	}

	childNumber := index
	if hardened {
		childNumber |= HardenedKeyStart
	}

	mac := newHMACWriter(n.ChainCode[:])
	if hardened {
		mac.InfallibleWrite([]byte{0x00})
		mac.InfallibleWrite(scheme.privateKeyBytes(&n.PrivateKey))
	} else {
		mac.InfallibleWrite(publicKey[:])
	}
	mac.InfallibleWrite(serializeUint32(childNumber))
	I := mac.Sum(nil)

	var tweak, parentKey btcec.ModNScalar
	if overflow := tweak.SetByteSlice(I[:32]); overflow {
		return nil, errors.Wrapf(ErrInvalidChildKey, "IL is not below the curve order for child %d", childNumber)
	}
	parentKey.SetByteSlice(n.PrivateKey[:])
	tweak.Add(&parentKey)
	if tweak.IsZero() {
		return nil, errors.Wrapf(ErrInvalidChildKey, "child key %d is zero", childNumber)
	}

	fingerprint := hash160(publicKey[:])
	child := &Node{
		Depth:       n.Depth + 1,
		ChildNumber: childNumber,
		PrivateKey:  tweak.Bytes(),
	}
	copy(child.ParentFingerprint[:], fingerprint[:4])
	copy(child.ChainCode[:], I[32:])

	return child, nil
}

// DerivePath derives every step of path in order with the Standard scheme.
func (n *Node) DerivePath(path Path) (*Node, error) {
	return n.DerivePathWithScheme(path, Standard)
}

// DerivePathWithScheme derives every step of path in order. An empty path
// returns a copy of n.
func (n *Node) DerivePathWithScheme(path Path, scheme Scheme) (*Node, error) {
	descendant := *n
	node := &descendant
	for i, step := range path {
		child, err := node.ChildWithScheme(step.Index, step.Hardened, scheme)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i, step)
		}
		node = child
	}

	return node, nil
}

func serializeUint32(v uint32) []byte {
	serialized := make([]byte, 4)
	binary.BigEndian.PutUint32(serialized, v)
	return serialized
}
