package cpu

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

// rekeyAfter bounds the keystream produced under one key, far below the
// 256 GiB ChaCha20 counter limit.
const rekeyAfter = 1 << 30

// chachaReader is a worker-owned CSPRNG: a ChaCha20 keystream whose key and
// nonce are drawn from source, renewed every rekeyAfter bytes. It is not safe
// for concurrent use.
type chachaReader struct {
	source   io.Reader
	cipher   *chacha20.Cipher
	produced uint64
	limit    uint64
}

func newChaChaReader(source io.Reader) (*chachaReader, error) {
	r := &chachaReader{source: source, limit: rekeyAfter}
	if err := r.rekey(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *chachaReader) rekey() error {
	var seed [chacha20.KeySize + chacha20.NonceSize]byte
	if _, err := io.ReadFull(r.source, seed[:]); err != nil {
		return errors.Wrap(err, "seeding chacha20")
	}

	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:chacha20.KeySize], seed[chacha20.KeySize:])
	if err != nil {
		return errors.Wrap(err, "creating chacha20 cipher")
	}

	r.cipher = cipher
	r.produced = 0
	return nil
}

func (r *chachaReader) Read(p []byte) (int, error) {
	if r.produced+uint64(len(p)) > r.limit {
		if err := r.rekey(); err != nil {
			return 0, err
		}
	}

	clear(p)
	r.cipher.XORKeyStream(p, p)
	r.produced += uint64(len(p))
	return len(p), nil
}
