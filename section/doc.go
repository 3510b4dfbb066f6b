// Package section defines the low-level binary structures and constants of
// the UTF table format.
//
// This package provides the foundational types that define the physical
// layout of a serialized table. It handles binary serialization and
// deserialization of the two fixed headers and the per-column flag byte,
// ensuring a consistent byte-level representation across platforms. All
// multi-byte integers are big-endian on the wire regardless of host order.
//
// # Table Structure
//
// A serialized table consists of two fixed headers followed by four
// variable-size regions:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Primary header (8 bytes, fixed)                         │
//	│  - Magic "@UTF" (4 bytes)                               │
//	│  - TableSize (4 bytes): length of everything below      │
//	├─────────────────────────────────────────────────────────┤
//	│ Table header (24 bytes, fixed)                          │
//	│  - Region offsets, table name ref, row geometry         │
//	├─────────────────────────────────────────────────────────┤
//	│ Column region (variable)                                │
//	│  - One descriptor per column: flag byte, name ref,      │
//	│    and the encoded value for Constant storage           │
//	├─────────────────────────────────────────────────────────┤
//	│ Row region (RowCount × RowSize bytes)                   │
//	│  - Rowed-storage values in declaration order            │
//	├─────────────────────────────────────────────────────────┤
//	│ String pool (variable)                                  │
//	│  - NUL-terminated UTF-8, "<NULL>\0" first               │
//	├─────────────────────────────────────────────────────────┤
//	│ Padding (1-8 bytes of zeros, to 8-byte alignment)       │
//	├─────────────────────────────────────────────────────────┤
//	│ Blob pool (variable)                                    │
//	│  - Raw bytes addressed by (offset, length) pairs        │
//	└─────────────────────────────────────────────────────────┘
//
// # Table Header Format
//
// All offsets are relative to the start of the table header's own 24-byte
// block, so the smallest legal offset is 24:
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|----------------------------------
//	0-3    | RowOffset    | uint32 | Byte offset of the row region
//	4-7    | StringOffset | uint32 | Byte offset of the string pool
//	8-11   | BlobOffset   | uint32 | Byte offset of the blob pool
//	12-15  | TableNameRef | uint32 | String pool offset of the table name
//	16-17  | FieldCount   | uint16 | Number of column descriptors
//	18-19  | RowSize      | uint16 | Byte width of one row record
//	20-23  | RowCount     | uint32 | Number of row records
//
// A header is accepted only when 24 <= RowOffset <= StringOffset <=
// BlobOffset <= TableSize and the row region holds exactly RowSize*RowCount
// bytes; see TableHeader.Validate.
//
// # Column Flag Format
//
// Each column descriptor opens with one packed flag byte:
//
//	Bits 4-7 (storage): 0x1=Zero, 0x3=Constant, 0x5=Rowed
//	Bits 0-3 (kind):    0x0-0x8 numeric kinds, 0xA=Str, 0xB=Blob
//
// Any other nibble value is a structural error. The flag is followed by a
// 4-byte string pool offset holding the column name and, for Constant
// storage only, by the constant's encoded value.
//
// # Integration with Other Packages
//
// The table package builds its Reader and Writer on these types; most users
// should interact with that package instead of using section directly.
package section
