package section

import (
	"fmt"

	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
)

// TableHeader represents the 24-byte header that immediately follows the
// primary header. All offsets are measured from the start of this header's
// own block, so the smallest legal offset is 24.
type TableHeader struct {
	// RowOffset is the byte offset where the row region starts. Column
	// descriptors occupy the bytes between this header and RowOffset.
	RowOffset uint32 // byte offset 0-3
	// StringOffset is the byte offset where the string pool starts.
	StringOffset uint32 // byte offset 4-7
	// BlobOffset is the byte offset where the blob pool starts.
	BlobOffset uint32 // byte offset 8-11
	// TableNameRef is the string pool offset of the table name.
	TableNameRef uint32 // byte offset 12-15
	// FieldCount is the number of column descriptors.
	FieldCount uint16 // byte offset 16-17
	// RowSize is the byte width of one row record.
	RowSize uint16 // byte offset 18-19
	// RowCount is the number of row records.
	RowCount uint32 // byte offset 20-23
}

// Parse parses the table header from a byte slice.
//
// Returns:
//   - error: ErrEOF if data is shorter than 24 bytes
func (h *TableHeader) Parse(data []byte) error {
	if len(data) < TableHeaderSize {
		return fmt.Errorf("%w: @UTF header", errs.ErrEOF)
	}

	engine := endian.GetBigEndianEngine()

	h.RowOffset = engine.Uint32(data[0:4])
	h.StringOffset = engine.Uint32(data[4:8])
	h.BlobOffset = engine.Uint32(data[8:12])
	h.TableNameRef = engine.Uint32(data[12:16])
	h.FieldCount = engine.Uint16(data[16:18])
	h.RowSize = engine.Uint16(data[18:20])
	h.RowCount = engine.Uint32(data[20:24])

	return nil
}

// Bytes serializes the table header into a fresh 24-byte slice.
func (h *TableHeader) Bytes() []byte {
	b := make([]byte, TableHeaderSize)

	engine := endian.GetBigEndianEngine()

	engine.PutUint32(b[0:4], h.RowOffset)
	engine.PutUint32(b[4:8], h.StringOffset)
	engine.PutUint32(b[8:12], h.BlobOffset)
	engine.PutUint32(b[12:16], h.TableNameRef)
	engine.PutUint16(b[16:18], h.FieldCount)
	engine.PutUint16(b[18:20], h.RowSize)
	engine.PutUint32(b[20:24], h.RowCount)

	return b
}

// Validate checks the region layout invariants against the table size from
// the primary header: offsets must be ordered 24 <= row <= string <= blob
// <= tableSize, and the row region must hold exactly RowSize * RowCount
// bytes. Any violation is a single malformed header condition; the reader
// never attempts partial recovery.
func (h *TableHeader) Validate(tableSize uint32) error {
	if h.RowOffset < TableHeaderSize {
		return fmt.Errorf("%w: row offset %d overlaps table header", errs.ErrMalformedHeader, h.RowOffset)
	}
	if h.StringOffset < h.RowOffset {
		return fmt.Errorf("%w: string offset %d before row offset %d", errs.ErrMalformedHeader, h.StringOffset, h.RowOffset)
	}
	if h.BlobOffset < h.StringOffset {
		return fmt.Errorf("%w: blob offset %d before string offset %d", errs.ErrMalformedHeader, h.BlobOffset, h.StringOffset)
	}
	if tableSize < h.BlobOffset {
		return fmt.Errorf("%w: blob offset %d past table size %d", errs.ErrMalformedHeader, h.BlobOffset, tableSize)
	}

	if uint64(h.RowSize)*uint64(h.RowCount) != uint64(h.StringOffset-h.RowOffset) {
		return fmt.Errorf("%w: row region holds %d bytes, header declares %d x %d",
			errs.ErrMalformedHeader, h.StringOffset-h.RowOffset, h.RowSize, h.RowCount)
	}

	return nil
}

// ParseTableHeader parses and validates a TableHeader from the start of a
// table body of tableSize bytes.
func ParseTableHeader(data []byte, tableSize uint32) (TableHeader, error) {
	h := TableHeader{}
	if err := h.Parse(data); err != nil {
		return TableHeader{}, err
	}

	if err := h.Validate(tableSize); err != nil {
		return TableHeader{}, err
	}

	return h, nil
}
