package cipher

import (
	"github.com/cridata/utftable/endian"
	"github.com/klauspost/cpuid/v2"
)

// strategyFunc applies the whole mask transform from phase zero. Remainders
// shorter than the chunk width fall back to the scalar path, so any length
// is handled. Every strategy produces bit-identical output; width selection
// is purely a throughput decision.
type strategyFunc func(dst, src []byte)

// maskWords is the mask reinterpreted as eight 64-bit lanes. The byte order
// only has to match between loads and stores, so little-endian is used on
// every platform.
var maskWords = func() (w [8]uint64) {
	le := endian.GetLittleEndianEngine()
	for i := range w {
		w[i] = le.Uint64(mask[i*8:])
	}

	return w
}()

// applyStrategy is chosen once at init. Wider chunks need the wider loads
// and stores to be cheap, which tracks the same capability tiers the vector
// units define: 64-byte blocks on AVX2-class cores, 16-byte blocks on
// SSE2/NEON-class cores, single words otherwise.
var applyStrategy = selectStrategy()

func selectStrategy() strategyFunc {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX2):
		return applyBlock64
	case cpuid.CPU.Supports(cpuid.SSE2), cpuid.CPU.Supports(cpuid.ASIMD):
		return applyBlock16
	default:
		return applyWord
	}
}

// strategies names every implementation for equivalence tests.
var strategies = map[string]strategyFunc{
	"scalar":  func(dst, src []byte) { applyScalar(dst, src, 0) },
	"word":    applyWord,
	"block16": applyBlock16,
	"block64": applyBlock64,
}

// applyScalar XORs byte by byte starting at the given mask phase. It is the
// tail path of every wider strategy.
func applyScalar(dst, src []byte, phase int) {
	for i := range src {
		dst[i] = src[i] ^ mask[(phase+i)&(MaskSize-1)]
	}
}

// applyWord processes one 64-bit lane per iteration.
func applyWord(dst, src []byte) {
	le := endian.GetLittleEndianEngine()
	end := len(src) &^ 7

	w := 0
	for i := 0; i < end; i += 8 {
		le.PutUint64(dst[i:i+8], le.Uint64(src[i:i+8])^maskWords[w])
		w = (w + 1) & 7
	}

	applyScalar(dst[end:], src[end:], end)
}

// applyBlock16 processes two 64-bit lanes per iteration.
func applyBlock16(dst, src []byte) {
	le := endian.GetLittleEndianEngine()
	end := len(src) &^ 15

	w := 0
	for i := 0; i < end; i += 16 {
		le.PutUint64(dst[i:i+8], le.Uint64(src[i:i+8])^maskWords[w])
		le.PutUint64(dst[i+8:i+16], le.Uint64(src[i+8:i+16])^maskWords[w+1])
		w = (w + 2) & 7
	}

	applyScalar(dst[end:], src[end:], end)
}

// applyBlock64 processes one full mask period per iteration, so the lane
// index never wraps inside the loop body.
func applyBlock64(dst, src []byte) {
	le := endian.GetLittleEndianEngine()
	end := len(src) &^ 63

	for i := 0; i < end; i += 64 {
		s := src[i : i+64 : i+64]
		d := dst[i : i+64 : i+64]
		le.PutUint64(d[0:8], le.Uint64(s[0:8])^maskWords[0])
		le.PutUint64(d[8:16], le.Uint64(s[8:16])^maskWords[1])
		le.PutUint64(d[16:24], le.Uint64(s[16:24])^maskWords[2])
		le.PutUint64(d[24:32], le.Uint64(s[24:32])^maskWords[3])
		le.PutUint64(d[32:40], le.Uint64(s[32:40])^maskWords[4])
		le.PutUint64(d[40:48], le.Uint64(s[40:48])^maskWords[5])
		le.PutUint64(d[48:56], le.Uint64(s[48:56])^maskWords[6])
		le.PutUint64(d[56:64], le.Uint64(s[56:64])^maskWords[7])
	}

	applyScalar(dst[end:], src[end:], end)
}
