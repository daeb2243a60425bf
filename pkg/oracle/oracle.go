// Package oracle computes account ids from a public key and a contract template.
//
// An account id is the hash of the template image hash followed by the
// public key, rendered as 64 lowercase hex characters:
//
//	AccountID = hex(H(SHA256(image) || publicKey))
//
// H is selectable so the same template can mimic different chains.
package oracle

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// PublicKeySize is the only accepted public key length.
const PublicKeySize = 32

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrUnknownHash      = errors.New("unknown hash function")
)

// Hash selects the outer hash function of the account id.
type Hash string

const (
	SHA256    Hash = "sha256"
	SHA3256   Hash = "sha3-256"
	Keccak256 Hash = "keccak256"
)

// Hashes lists every supported Hash.
var Hashes = []Hash{SHA256, SHA3256, Keccak256}

// ParseHash accepts a hash name case-insensitively.
func ParseHash(name string) (Hash, error) {
	h := Hash(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Hashes {
		if h == known {
			return h, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownHash, "%q", name)
}

func (h Hash) sum(data []byte) ([32]byte, error) {
	switch h {
	case SHA256:
		return sha256.Sum256(data), nil
	case SHA3256:
		return sha3.Sum256(data), nil
	case Keccak256:
		var out [32]byte
		copy(out[:], crypto.Keccak256(data))
		return out, nil
	default:
		return [32]byte{}, errors.Wrapf(ErrUnknownHash, "%q", string(h))
	}
}

// Template is an immutable contract template. It is safe for concurrent use.
type Template struct {
	name      string
	hash      Hash
	imageHash [32]byte
}

// New builds a template from the raw contract image.
func New(name string, image []byte, hash Hash) (*Template, error) {
	if _, err := hash.sum(nil); err != nil {
		return nil, err
	}
	return &Template{
		name:      name,
		hash:      hash,
		imageHash: sha256.Sum256(image),
	}, nil
}

// Load reads the contract image at path.
func Load(path string, hash Hash) (*Template, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading contract template %s", path)
	}
	return New(filepath.Base(path), image, hash)
}

// Name is the template's file name.
func (t *Template) Name() string {
	return t.name
}

// Hash is the outer hash function in use.
func (t *Template) Hash() Hash {
	return t.hash
}

// ImageHash is SHA256 of the contract image.
func (t *Template) ImageHash() string {
	return hex.EncodeToString(t.imageHash[:])
}

// AccountID returns the 64 character lowercase hex account id of publicKey.
func (t *Template) AccountID(publicKey []byte) (string, error) {
	if len(publicKey) != PublicKeySize {
		return "", errors.Wrapf(ErrInvalidPublicKey, "expected %d bytes but got %d", PublicKeySize, len(publicKey))
	}

	var data [sha256.Size + PublicKeySize]byte
	copy(data[:], t.imageHash[:])
	copy(data[sha256.Size:], publicKey)

	sum, err := t.hash.sum(data[:])
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}
