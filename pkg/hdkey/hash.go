package hdkey

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/Amr-9/BeautyHunter/pkg/ripemd160"
	"github.com/pkg/errors"
)

func newHMACWriter(key []byte) hmacWriter {
	return hmacWriter{
		Hash: hmac.New(sha512.New, key),
	}
}

type hmacWriter struct {
	hash.Hash
}

func (hw hmacWriter) InfallibleWrite(p []byte) {
	_, err := hw.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "writing to hmac should never fail"))
	}
}

// hash160 is RIPEMD160(SHA256(data)).
func hash160(data []byte) [ripemd160.Size]byte {
	sha := sha256.Sum256(data)
	return ripemd160.Sum160(sha[:])
}

func doubleSha256(data []byte) [sha256.Size]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}
