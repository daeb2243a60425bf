package ripemd160

import (
	"encoding/binary"
	"math/bits"
)

// Message word selection for the left (r) and right (rh) lines.
var r = [80]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8,
	3, 10, 14, 4, 9, 15, 8, 1, 2, 7, 0, 6, 13, 11, 5, 12,
	1, 9, 11, 10, 0, 8, 12, 4, 13, 3, 7, 15, 14, 5, 6, 2,
	4, 0, 5, 9, 7, 12, 2, 10, 14, 1, 3, 8, 11, 6, 15, 13,
}

var rh = [80]uint8{
	5, 14, 7, 0, 9, 2, 11, 4, 13, 6, 15, 8, 1, 10, 3, 12,
	6, 11, 3, 7, 0, 13, 5, 10, 14, 15, 8, 12, 4, 9, 1, 2,
	15, 5, 1, 3, 7, 14, 6, 9, 11, 8, 12, 2, 10, 0, 4, 13,
	8, 6, 4, 1, 3, 11, 15, 0, 5, 12, 2, 13, 9, 7, 10, 14,
	12, 15, 10, 4, 1, 5, 8, 7, 6, 2, 13, 14, 0, 3, 9, 11,
}

// Left-rotation amounts for the left (s) and right (sh) lines.
var s = [80]uint8{
	11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8,
	7, 6, 8, 13, 11, 9, 7, 15, 7, 12, 15, 9, 11, 7, 13, 12,
	11, 13, 6, 7, 14, 9, 13, 15, 14, 8, 13, 6, 5, 12, 7, 5,
	11, 12, 14, 15, 14, 15, 9, 8, 9, 14, 5, 6, 8, 6, 5, 12,
	9, 15, 5, 11, 6, 8, 13, 12, 5, 12, 13, 14, 11, 8, 5, 6,
}

var sh = [80]uint8{
	8, 9, 9, 11, 13, 15, 15, 5, 7, 7, 8, 11, 14, 14, 12, 6,
	9, 13, 15, 7, 12, 8, 9, 11, 7, 7, 12, 7, 6, 15, 13, 11,
	9, 7, 15, 11, 8, 6, 6, 14, 12, 13, 5, 14, 13, 13, 7, 5,
	15, 5, 8, 11, 14, 14, 6, 14, 6, 9, 12, 9, 12, 5, 15, 8,
	8, 5, 12, 9, 12, 5, 14, 6, 8, 13, 6, 5, 15, 13, 11, 11,
}

// Round constants per 16-round segment.
var (
	k  = [5]uint32{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e}
	kh = [5]uint32{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x7a6d76e9, 0x00000000}
)

// f is the boolean function of round j; the right line runs them in reverse
// order, i.e. f(79-j).
func f(j int, x, y, z uint32) uint32 {
	switch j >> 4 {
	case 0:
		return x ^ y ^ z
	case 1:
		return (x & y) | (^x & z)
	case 2:
		return (x | ^y) ^ z
	case 3:
		return (x & z) | (y & ^z)
	default:
		return x ^ (y | ^z)
	}
}

// block compresses len(p)/BlockSize consecutive blocks into d.s.
func block(d *digest, p []byte) {
	var x [16]uint32
	for len(p) >= BlockSize {
		for i := range x {
			x[i] = binary.LittleEndian.Uint32(p[i*4:])
		}

		a, b, c, dd, e := d.s[0], d.s[1], d.s[2], d.s[3], d.s[4]
		ah, bh, ch, dh, eh := a, b, c, dd, e

		for j := 0; j < 80; j++ {
			t := bits.RotateLeft32(a+f(j, b, c, dd)+x[r[j]]+k[j>>4], int(s[j])) + e
			a, e, dd, c, b = e, dd, bits.RotateLeft32(c, 10), b, t

			t = bits.RotateLeft32(ah+f(79-j, bh, ch, dh)+x[rh[j]]+kh[j>>4], int(sh[j])) + eh
			ah, eh, dh, ch, bh = eh, dh, bits.RotateLeft32(ch, 10), bh, t
		}

		t := d.s[1] + c + dh
		d.s[1] = d.s[2] + dd + eh
		d.s[2] = d.s[3] + e + ah
		d.s[3] = d.s[4] + a + bh
		d.s[4] = d.s[0] + b + ch
		d.s[0] = t

		p = p[BlockSize:]
	}
}
