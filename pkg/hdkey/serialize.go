package hdkey

import (
	"bytes"
	"encoding/binary"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// PrivateMainnetVersion is the version prefix of serialized keys ("xprv").
var PrivateMainnetVersion = [4]byte{0x04, 0x88, 0xad, 0xe4}

const (
	versionSerializationLen     = 4
	depthSerializationLen       = 1
	fingerprintSerializationLen = 4
	childNumberSerializationLen = 4
	chainCodeSerializationLen   = 32
	keySerializationLen         = 33
	checkSumLen                 = 4

	depthOffset       = versionSerializationLen
	fingerprintOffset = depthOffset + depthSerializationLen
	childNumberOffset = fingerprintOffset + fingerprintSerializationLen
	chainCodeOffset   = childNumberOffset + childNumberSerializationLen
	keyOffset         = chainCodeOffset + chainCodeSerializationLen
	checkSumOffset    = keyOffset + keySerializationLen
)

// SerializedLen is the size of a serialized node including its checksum.
const SerializedLen = checkSumOffset + checkSumLen

// Serialize returns the 82-byte BIP32 serialization of the node.
func (n *Node) Serialize() [SerializedLen]byte {
	var serialized [SerializedLen]byte
	copy(serialized[:depthOffset], PrivateMainnetVersion[:])
	serialized[depthOffset] = n.Depth
	copy(serialized[fingerprintOffset:childNumberOffset], n.ParentFingerprint[:])
	binary.BigEndian.PutUint32(serialized[childNumberOffset:chainCodeOffset], n.ChildNumber)
	copy(serialized[chainCodeOffset:keyOffset], n.ChainCode[:])
	serialized[keyOffset] = 0
	copy(serialized[keyOffset+1:checkSumOffset], n.PrivateKey[:])

	checkSum := doubleSha256(serialized[:checkSumOffset])
	copy(serialized[checkSumOffset:], checkSum[:checkSumLen])
	return serialized
}

// String returns the Base58 form of Serialize (xprv...).
func (n *Node) String() string {
	serialized := n.Serialize()
	return base58.Encode(serialized[:])
}

// Parse decodes a Base58 serialized node.
func Parse(extendedKey string) (*Node, error) {
	serialized, err := base58.Decode(extendedKey)
	if err != nil {
		return nil, errors.Wrapf(ErrKeyDecode, "base58: %s", err)
	}
	return Deserialize(serialized)
}

// Deserialize decodes an 82-byte serialized node, verifying its checksum.
func Deserialize(serialized []byte) (*Node, error) {
	if len(serialized) != SerializedLen {
		return nil, errors.Wrapf(ErrKeyDecode, "key length must be %d bytes but got %d", SerializedLen, len(serialized))
	}

	if err := validateChecksum(serialized); err != nil {
		return nil, err
	}

	if !bytes.Equal(serialized[:depthOffset], PrivateMainnetVersion[:]) {
		return nil, errors.Wrapf(ErrKeyDecode, "unsupported version %x", serialized[:depthOffset])
	}

	if padding := serialized[keyOffset]; padding != 0 {
		return nil, errors.Wrapf(ErrKeyDecode, "expected 0 padding for private key but got %d", padding)
	}

	node := &Node{
		Depth:       serialized[depthOffset],
		ChildNumber: binary.BigEndian.Uint32(serialized[childNumberOffset:chainCodeOffset]),
	}
	copy(node.ParentFingerprint[:], serialized[fingerprintOffset:childNumberOffset])
	copy(node.ChainCode[:], serialized[chainCodeOffset:keyOffset])
	copy(node.PrivateKey[:], serialized[keyOffset+1:checkSumOffset])

	if err := validateScalar(&node.PrivateKey); err != nil {
		return nil, err
	}

	return node, nil
}

func validateChecksum(serialized []byte) error {
	checksum := serialized[checkSumOffset:]
	expected := doubleSha256(serialized[:checkSumOffset])
	if !bytes.Equal(expected[:checkSumLen], checksum) {
		return errors.Wrapf(ErrChecksumMismatch, "expected checksum %x but got %x", expected[:checkSumLen], checksum)
	}
	return nil
}
