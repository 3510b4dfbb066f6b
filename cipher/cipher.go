// Package cipher implements the fixed 64-byte XOR mask applied to packet
// payloads.
//
// The transform is a pure positional XOR, dst[i] = src[i] ^ mask[i mod 64],
// and is therefore its own inverse: encrypting and decrypting are the same
// operation, exposed as Apply. It is a reversible masking obfuscation, not
// cryptography.
//
// The mask is applied in wider chunks when the CPU supports them; the
// strategy is chosen once at package init via capability detection and every
// strategy produces bit-identical output. See strategy.go.
package cipher

import (
	"github.com/cridata/utftable/endian"
)

// MaskSize is the period of the repeating mask.
const MaskSize = 64

// EncryptedGuard is the little-endian u32 a masked payload starts with: the
// first four mask bytes XORed with the ASCII magic "@UTF".
const EncryptedGuard uint32 = 0xF5F39E1F

var mask = [MaskSize]byte{
	0x5F, 0xCB, 0xA7, 0xB3, 0xAF, 0x5B, 0x77, 0xC3,
	0xFF, 0xEB, 0x47, 0xD3, 0x4F, 0x7B, 0x17, 0xE3,
	0x9F, 0x0B, 0xE7, 0xF3, 0xEF, 0x9B, 0xB7, 0x03,
	0x3F, 0x2B, 0x87, 0x13, 0x8F, 0xBB, 0x57, 0x23,
	0xDF, 0x4B, 0x27, 0x33, 0x2F, 0xDB, 0xF7, 0x43,
	0x7F, 0x6B, 0xC7, 0x53, 0xCF, 0xFB, 0x97, 0x63,
	0x1F, 0x8B, 0x67, 0x73, 0x6F, 0x1B, 0x37, 0x83,
	0xBF, 0xAB, 0x07, 0x93, 0x0F, 0x3B, 0xD7, 0xA3,
}

// CanDecrypt reports whether src starts with the guard value a masked table
// produces. Buffers shorter than four bytes report false.
func CanDecrypt(src []byte) bool {
	if len(src) < 4 {
		return false
	}

	return endian.GetLittleEndianEngine().Uint32(src[0:4]) == EncryptedGuard
}

// Apply XORs src against the repeating mask into dst and returns the number
// of bytes written, which is len(src). Calling it on masked input restores
// the plaintext.
//
// dst and src may overlap entirely (in-place) or not at all. Apply panics if
// dst is shorter than src.
func Apply(dst, src []byte) int {
	if len(dst) < len(src) {
		panic("cipher: output buffer smaller than input")
	}

	applyStrategy(dst, src)

	return len(src)
}

// ApplyInPlace XORs buf against the repeating mask in place.
func ApplyInPlace(buf []byte) {
	applyStrategy(buf, buf)
}
