package table

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
)

// Primitive is a tagged union over the eleven storable value kinds. It is the
// dynamic counterpart of a typed cell: readers return primitives carrying the
// column's declared kind, writers accept primitives and derive the column
// flag from them.
//
// The zero Primitive is "absent". Optional columns read as absent yield it,
// and writing an absent primitive into an optional column emits zero storage.
type Primitive struct {
	kind    format.ValueKind
	present bool

	// num holds the zero-extended bit pattern for the numeric kinds,
	// including the IEEE 754 bits of a F32.
	num  uint64
	str  string
	blob []byte
}

// U8 returns a present primitive of kind U8.
func U8(v uint8) Primitive {
	return Primitive{kind: format.KindU8, present: true, num: uint64(v)}
}

// I8 returns a present primitive of kind I8.
func I8(v int8) Primitive {
	return Primitive{kind: format.KindI8, present: true, num: uint64(uint8(v))}
}

// U16 returns a present primitive of kind U16.
func U16(v uint16) Primitive {
	return Primitive{kind: format.KindU16, present: true, num: uint64(v)}
}

// I16 returns a present primitive of kind I16.
func I16(v int16) Primitive {
	return Primitive{kind: format.KindI16, present: true, num: uint64(uint16(v))}
}

// U32 returns a present primitive of kind U32.
func U32(v uint32) Primitive {
	return Primitive{kind: format.KindU32, present: true, num: uint64(v)}
}

// I32 returns a present primitive of kind I32.
func I32(v int32) Primitive {
	return Primitive{kind: format.KindI32, present: true, num: uint64(uint32(v))}
}

// U64 returns a present primitive of kind U64.
func U64(v uint64) Primitive {
	return Primitive{kind: format.KindU64, present: true, num: v}
}

// I64 returns a present primitive of kind I64.
func I64(v int64) Primitive {
	return Primitive{kind: format.KindI64, present: true, num: uint64(v)}
}

// F32 returns a present primitive of kind F32.
func F32(v float32) Primitive {
	return Primitive{kind: format.KindF32, present: true, num: uint64(math.Float32bits(v))}
}

// Str returns a present primitive of kind Str.
func Str(v string) Primitive {
	return Primitive{kind: format.KindStr, present: true, str: v}
}

// Blob returns a present primitive of kind Blob. The slice is stored as-is,
// not copied.
func Blob(v []byte) Primitive {
	return Primitive{kind: format.KindBlob, present: true, blob: v}
}

// Kind returns the value kind the primitive carries. Meaningless when the
// primitive is absent.
func (p Primitive) Kind() format.ValueKind {
	return p.kind
}

// Present reports whether the primitive carries a value.
func (p Primitive) Present() bool {
	return p.present
}

// AsU8 converts the primitive to a uint8.
func (p Primitive) AsU8() (uint8, error) { return toNative[uint8](p) }

// AsI8 converts the primitive to an int8.
func (p Primitive) AsI8() (int8, error) { return toNative[int8](p) }

// AsU16 converts the primitive to a uint16.
func (p Primitive) AsU16() (uint16, error) { return toNative[uint16](p) }

// AsI16 converts the primitive to an int16.
func (p Primitive) AsI16() (int16, error) { return toNative[int16](p) }

// AsU32 converts the primitive to a uint32.
func (p Primitive) AsU32() (uint32, error) { return toNative[uint32](p) }

// AsI32 converts the primitive to an int32.
func (p Primitive) AsI32() (int32, error) { return toNative[int32](p) }

// AsU64 converts the primitive to a uint64.
func (p Primitive) AsU64() (uint64, error) { return toNative[uint64](p) }

// AsI64 converts the primitive to an int64.
func (p Primitive) AsI64() (int64, error) { return toNative[int64](p) }

// AsF32 converts the primitive to a float32.
func (p Primitive) AsF32() (float32, error) { return toNative[float32](p) }

// AsStr converts the primitive to a string.
func (p Primitive) AsStr() (string, error) { return toNative[string](p) }

// AsBlob converts the primitive to a byte slice. The returned slice is the
// stored one, not a copy.
func (p Primitive) AsBlob() ([]byte, error) { return toNative[[]byte](p) }

// Equal reports whether two primitives carry the same kind and value. Two
// absent primitives are equal regardless of kind.
func (p Primitive) Equal(other Primitive) bool {
	if p.present != other.present {
		return false
	}
	if !p.present {
		return true
	}
	if p.kind != other.kind {
		return false
	}

	switch p.kind {
	case format.KindStr:
		return p.str == other.str
	case format.KindBlob:
		return bytes.Equal(p.blob, other.blob)
	default:
		return p.num == other.num
	}
}

// String renders the primitive for diagnostics, e.g. "U32(42)".
func (p Primitive) String() string {
	if !p.present {
		return "absent"
	}

	switch p.kind {
	case format.KindI8:
		return fmt.Sprintf("%s(%d)", p.kind, int8(p.num))
	case format.KindI16:
		return fmt.Sprintf("%s(%d)", p.kind, int16(p.num))
	case format.KindI32:
		return fmt.Sprintf("%s(%d)", p.kind, int32(p.num))
	case format.KindI64:
		return fmt.Sprintf("%s(%d)", p.kind, int64(p.num))
	case format.KindF32:
		return fmt.Sprintf("%s(%g)", p.kind, math.Float32frombits(uint32(p.num)))
	case format.KindStr:
		return fmt.Sprintf("%s(%q)", p.kind, p.str)
	case format.KindBlob:
		return fmt.Sprintf("%s(%d bytes)", p.kind, len(p.blob))
	default:
		return fmt.Sprintf("%s(%d)", p.kind, p.num)
	}
}

// decodePrimitive decodes one raw cell of the given kind. raw must hold at
// least kind.Size() bytes. String cells resolve their pool offset against
// strings, blob cells resolve their (offset, length) pair against blobs and
// copy the referenced bytes out.
//
// Returns:
//   - error: ErrStringNotFound if a string offset is not the start of a pool
//     entry, ErrBlobNotFound if a blob runs past the end of the blob pool
func decodePrimitive(kind format.ValueKind, raw []byte, strings map[uint32]string, blobs []byte) (Primitive, error) {
	engine := endian.GetBigEndianEngine()

	switch kind {
	case format.KindU8, format.KindI8:
		return Primitive{kind: kind, present: true, num: uint64(raw[0])}, nil
	case format.KindU16, format.KindI16:
		return Primitive{kind: kind, present: true, num: uint64(engine.Uint16(raw))}, nil
	case format.KindU32, format.KindI32, format.KindF32:
		return Primitive{kind: kind, present: true, num: uint64(engine.Uint32(raw))}, nil
	case format.KindU64, format.KindI64:
		return Primitive{kind: kind, present: true, num: engine.Uint64(raw)}, nil
	case format.KindStr:
		offset := engine.Uint32(raw)
		s, ok := strings[offset]
		if !ok {
			return Primitive{}, fmt.Errorf("%w: offset %d", errs.ErrStringNotFound, offset)
		}

		return Primitive{kind: kind, present: true, str: s}, nil
	case format.KindBlob:
		offset := engine.Uint32(raw[0:4])
		length := engine.Uint32(raw[4:8])
		if uint64(offset)+uint64(length) > uint64(len(blobs)) {
			return Primitive{}, fmt.Errorf("%w: offset %d length %d", errs.ErrBlobNotFound, offset, length)
		}

		data := make([]byte, length)
		copy(data, blobs[offset:uint64(offset)+uint64(length)])

		return Primitive{kind: kind, present: true, blob: data}, nil
	default:
		return Primitive{}, fmt.Errorf("%w: %#02x", errs.ErrInvalidColumnType, uint8(kind))
	}
}
