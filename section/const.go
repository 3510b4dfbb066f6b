package section

import "math"

const (
	// Magic is the 4-byte ASCII tag that opens every serialized table.
	Magic = "@UTF"

	PrimaryHeaderSize = 8  // magic + big-endian u32 table size
	TableHeaderSize   = 24 // offsets, name ref, field count, row geometry
	ColumnFlagSize    = 1  // storage nibble << 4 | value kind nibble
	ColumnNameRefSize = 4  // big-endian u32 string pool offset
)

// string pool seeding and blob pool alignment
const (
	NullString      = "<NULL>" // always written first into a fresh string pool
	TableNameOffset = 7        // the table name follows "<NULL>\x00"
	BlobAlignment   = 8        // the blob pool starts at an 8-byte aligned offset
)

// header field limits
const (
	MaxFieldCount = math.MaxUint16 // field count is stored as u16
	MaxTableSize  = math.MaxUint32 // table size is stored as u32
)
