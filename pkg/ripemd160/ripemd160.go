// Package ripemd160 implements the RIPEMD-160 digest.
// It is used by the HD derivation code to fingerprint parent public keys
// (HASH160 = RIPEMD160(SHA256(pubkey))).
package ripemd160

import (
	"encoding/binary"
	"hash"
)

const (
	// Size is the size of a RIPEMD-160 checksum in bytes.
	Size = 20

	// BlockSize is the block size of RIPEMD-160 in bytes.
	BlockSize = 64
)

const (
	init0 = 0x67452301
	init1 = 0xefcdab89
	init2 = 0x98badcfe
	init3 = 0x10325476
	init4 = 0xc3d2e1f0
)

// digest is the streaming state: running hash, pending partial block and
// total number of bytes written.
type digest struct {
	s  [5]uint32
	x  [BlockSize]byte
	nx int
	tc uint64
}

// New returns a new hash.Hash computing the RIPEMD-160 checksum.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

// Sum160 returns the RIPEMD-160 checksum of data.
func Sum160(data []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

func (d *digest) Reset() {
	d.s = [5]uint32{init0, init1, init2, init3, init4}
	d.nx = 0
	d.tc = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

// Write buffers partial blocks and compresses every full block as soon as it
// is available. It never fails.
func (d *digest) Write(p []byte) (int, error) {
	nn := len(p)
	d.tc += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(d, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the current hash to in and returns the resulting slice.
// It does not change the underlying hash state.
func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	tc := d.tc

	// 0x80, zeros up to 56 mod 64, then the message length in bits (LE).
	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	padLen := 56 - int(tc%BlockSize)
	if padLen <= 0 {
		padLen += BlockSize
	}
	binary.LittleEndian.PutUint64(tmp[padLen:], tc<<3)
	d.Write(tmp[:padLen+8])

	if d.nx != 0 {
		panic("ripemd160: padding left a partial block")
	}

	var out [Size]byte
	for i, s := range d.s {
		binary.LittleEndian.PutUint32(out[i*4:], s)
	}
	return out
}
