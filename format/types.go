// Package format defines the closed sets of value and storage kinds used by
// the UTF table binary format, together with their fixed on-disk tags and
// buffer widths.
package format

type (
	ValueKind   uint8
	StorageKind uint8
)

const (
	KindU8   ValueKind = 0x0 // KindU8 is an unsigned 8-bit integer.
	KindI8   ValueKind = 0x1 // KindI8 is a signed 8-bit integer.
	KindU16  ValueKind = 0x2 // KindU16 is an unsigned 16-bit integer.
	KindI16  ValueKind = 0x3 // KindI16 is a signed 16-bit integer.
	KindU32  ValueKind = 0x4 // KindU32 is an unsigned 32-bit integer.
	KindI32  ValueKind = 0x5 // KindI32 is a signed 32-bit integer.
	KindU64  ValueKind = 0x6 // KindU64 is an unsigned 64-bit integer.
	KindI64  ValueKind = 0x7 // KindI64 is a signed 64-bit integer.
	KindF32  ValueKind = 0x8 // KindF32 is a 32-bit IEEE 754 float.
	KindStr  ValueKind = 0xA // KindStr is a string-pool offset.
	KindBlob ValueKind = 0xB // KindBlob is a blob-pool (offset, length) pair.

	StorageZero     StorageKind = 0x1 // StorageZero declares a column with no stored data.
	StorageConstant StorageKind = 0x3 // StorageConstant stores one value for the whole table.
	StorageRowed    StorageKind = 0x5 // StorageRowed stores one value per row.
)

// IsValid reports whether k is one of the eleven value kinds the format
// defines. Tags 0x9 and 0xC-0xF are unassigned.
func (k ValueKind) IsValid() bool {
	return k <= KindF32 || k == KindStr || k == KindBlob
}

// Size returns the fixed on-disk width of one encoded value of kind k.
// Strings occupy 4 bytes (a string-pool offset) and blobs 8 bytes (an
// (offset, length) pair of big-endian u32). Invalid kinds return 0.
func (k ValueKind) Size() int {
	switch k {
	case KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32, KindStr:
		return 4
	case KindU64, KindI64, KindBlob:
		return 8
	default:
		return 0
	}
}

func (k ValueKind) String() string {
	switch k {
	case KindU8:
		return "U8"
	case KindI8:
		return "I8"
	case KindU16:
		return "U16"
	case KindI16:
		return "I16"
	case KindU32:
		return "U32"
	case KindI32:
		return "I32"
	case KindU64:
		return "U64"
	case KindI64:
		return "I64"
	case KindF32:
		return "F32"
	case KindStr:
		return "Str"
	case KindBlob:
		return "Blob"
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is one of the three storage kinds the format
// defines. All other nibble values are unassigned.
func (s StorageKind) IsValid() bool {
	return s == StorageZero || s == StorageConstant || s == StorageRowed
}

func (s StorageKind) String() string {
	switch s {
	case StorageZero:
		return "Zero"
	case StorageConstant:
		return "Constant"
	case StorageRowed:
		return "Rowed"
	default:
		return "Unknown"
	}
}
