package table

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
	"github.com/cridata/utftable/internal/pool"
	"github.com/cridata/utftable/section"
)

// Writer accumulates column descriptors, row values, strings and blobs in
// separate pooled buffers, then assembles and emits the finished table with
// End. Strings are interned across the whole table, blobs are appended
// verbatim in write order.
//
//	wr := table.NewWriter("ImportantTable")
//	if err := table.PushConstant(wr, "FileCount", uint64(5000)); err != nil {
//		return err
//	}
//	if err := wr.End(file, 0, 0); err != nil {
//		return err
//	}
type Writer struct {
	columnData *pool.ByteBuffer
	rowData    *pool.ByteBuffer
	stringData *pool.ByteBuffer
	blobs      *pool.ByteBuffer

	strings    map[string]uint32
	fieldCount int
}

// NewWriter creates a writer for a table named tableName. The string pool is
// seeded with the null sentinel and the table name, in that order, so the
// name always lives at its fixed offset.
func NewWriter(tableName string) *Writer {
	w := &Writer{
		columnData: pool.GetTableBuffer(),
		rowData:    pool.GetTableBuffer(),
		stringData: pool.GetTableBuffer(),
		blobs:      pool.GetTableBuffer(),
		strings:    make(map[string]uint32),
	}

	w.strings[section.NullString] = 0
	w.strings[tableName] = section.TableNameOffset
	w.stringData.MustWrite([]byte(section.NullString))
	w.stringData.MustWrite([]byte{0})
	w.stringData.MustWrite([]byte(tableName))
	w.stringData.MustWrite([]byte{0})

	return w
}

// PushConstantColumn appends a required constant column holding v. The
// column flag is derived from v's kind.
//
// Returns:
//   - error: ErrValueConversion if v is absent, ErrTooManyColumns if the
//     field count is exhausted
func (w *Writer) PushConstantColumn(name string, v Primitive) error {
	if !v.present {
		return fmt.Errorf("%w: absent value for constant column %s", errs.ErrValueConversion, name)
	}

	return w.pushColumn(name, section.NewColumnFlag(format.StorageConstant, v.kind), v)
}

// PushConstantColumnOpt appends an optional constant column of the given
// kind. An absent v emits zero storage and no value bytes.
func (w *Writer) PushConstantColumnOpt(name string, kind format.ValueKind, v Primitive) error {
	if !v.present {
		return w.pushColumn(name, section.NewColumnFlag(format.StorageZero, kind), Primitive{})
	}
	if v.kind != kind {
		return fmt.Errorf("%w: %s to %s", errs.ErrValueConversion, v.kind, kind)
	}

	return w.pushColumn(name, section.NewColumnFlag(format.StorageConstant, kind), v)
}

// PushRowedColumn appends a required rowed column of the given kind. The row
// values themselves are written later, one per row, with WriteRowValue.
func (w *Writer) PushRowedColumn(name string, kind format.ValueKind) error {
	return w.pushColumn(name, section.NewColumnFlag(format.StorageRowed, kind), Primitive{})
}

// PushRowedColumnOpt appends an optional rowed column of the given kind. An
// excluded column emits zero storage and must not receive row values.
func (w *Writer) PushRowedColumnOpt(name string, kind format.ValueKind, included bool) error {
	storage := format.StorageZero
	if included {
		storage = format.StorageRowed
	}

	return w.pushColumn(name, section.NewColumnFlag(storage, kind), Primitive{})
}

// PushZeroColumn appends a zero storage placeholder column of the given
// kind. A placeholder declares its name and kind but holds no data in any
// region.
func (w *Writer) PushZeroColumn(name string, kind format.ValueKind) error {
	return w.pushColumn(name, section.NewColumnFlag(format.StorageZero, kind), Primitive{})
}

// WriteRowValue appends v to the current row record. Callers write cells in
// column declaration order, skipping excluded optional columns.
func (w *Writer) WriteRowValue(v Primitive) error {
	if !v.present {
		return fmt.Errorf("%w: absent row value", errs.ErrValueConversion)
	}

	w.writePrimitive(true, v)

	return nil
}

// End validates the accumulated row data against the declared row geometry,
// then assembles the headers and regions and writes the finished table to
// wr. The blob pool is padded to its 8-byte alignment. On success the
// writer's buffers go back to the pool and the writer must not be reused.
//
// Returns:
//   - error: ErrRowDataSizeMismatch if the row buffer does not hold exactly
//     rowSize * rowCount bytes, ErrTableTooLarge if the finished table
//     overflows the 32-bit size field, or any write error from wr
func (w *Writer) End(wr io.Writer, rowSize uint16, rowCount uint32) error {
	if uint64(w.rowData.Len()) != uint64(rowSize)*uint64(rowCount) {
		return fmt.Errorf("%w: row data holds %d bytes, caller declared %d x %d",
			errs.ErrRowDataSizeMismatch, w.rowData.Len(), rowSize, rowCount)
	}

	rowOffset := uint64(section.TableHeaderSize) + uint64(w.columnData.Len())
	stringOffset := rowOffset + uint64(w.rowData.Len())
	blobOffset := stringOffset + uint64(w.stringData.Len())

	// A blob pool landing exactly on an alignment boundary still gets a
	// full 8-byte padding block.
	padding := int(section.BlobAlignment - (blobOffset & (section.BlobAlignment - 1)))
	blobOffset += uint64(padding)

	tableSize := blobOffset + uint64(w.blobs.Len())
	if tableSize > section.MaxTableSize {
		return fmt.Errorf("%w: %d bytes", errs.ErrTableTooLarge, tableSize)
	}

	primary := section.PrimaryHeader{TableSize: uint32(tableSize)}
	header := section.TableHeader{
		RowOffset:    uint32(rowOffset),
		StringOffset: uint32(stringOffset),
		BlobOffset:   uint32(blobOffset),
		TableNameRef: section.TableNameOffset,
		FieldCount:   uint16(w.fieldCount),
		RowSize:      rowSize,
		RowCount:     rowCount,
	}

	if _, err := wr.Write(primary.Bytes()); err != nil {
		return err
	}
	if _, err := wr.Write(header.Bytes()); err != nil {
		return err
	}
	if _, err := w.columnData.WriteTo(wr); err != nil {
		return err
	}
	if _, err := w.rowData.WriteTo(wr); err != nil {
		return err
	}
	if _, err := w.stringData.WriteTo(wr); err != nil {
		return err
	}

	var zeroes [section.BlobAlignment]byte
	if _, err := wr.Write(zeroes[:padding]); err != nil {
		return err
	}

	if _, err := w.blobs.WriteTo(wr); err != nil {
		return err
	}

	w.release()

	return nil
}

// Finish assembles the table like End and returns the serialized bytes,
// ready to seal in a packet.
func (w *Writer) Finish(rowSize uint16, rowCount uint32) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.End(&buf, rowSize, rowCount); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// pushColumn appends one column descriptor: the flag byte, the interned name
// ref, and for constants the value itself.
func (w *Writer) pushColumn(name string, flag section.ColumnFlag, v Primitive) error {
	if w.fieldCount >= section.MaxFieldCount {
		return fmt.Errorf("%w: limit is %d", errs.ErrTooManyColumns, section.MaxFieldCount)
	}

	w.columnData.MustWrite([]byte{uint8(flag)})
	w.writePrimitive(false, Str(name))
	if v.present {
		w.writePrimitive(false, v)
	}
	w.fieldCount++

	return nil
}

// writePrimitive encodes v into the column or row buffer. Strings are
// interned in the shared pool, blobs are appended to the blob pool and
// referenced by their (offset, length) pair.
func (w *Writer) writePrimitive(rowed bool, v Primitive) {
	dst := w.columnData
	if rowed {
		dst = w.rowData
	}

	engine := endian.GetBigEndianEngine()

	switch v.kind {
	case format.KindU8, format.KindI8:
		dst.MustWrite([]byte{uint8(v.num)})
	case format.KindU16, format.KindI16:
		dst.B = engine.AppendUint16(dst.B, uint16(v.num))
	case format.KindU32, format.KindI32, format.KindF32:
		dst.B = engine.AppendUint32(dst.B, uint32(v.num))
	case format.KindU64, format.KindI64:
		dst.B = engine.AppendUint64(dst.B, v.num)
	case format.KindStr:
		dst.B = engine.AppendUint32(dst.B, w.internString(v.str))
	case format.KindBlob:
		dst.B = engine.AppendUint32(dst.B, uint32(w.blobs.Len()))
		dst.B = engine.AppendUint32(dst.B, uint32(len(v.blob)))
		w.blobs.MustWrite(v.blob)
	}
}

// internString returns the pool offset for s, appending it on first use.
func (w *Writer) internString(s string) uint32 {
	if offset, ok := w.strings[s]; ok {
		return offset
	}

	offset := uint32(w.stringData.Len())
	w.strings[s] = offset
	w.stringData.MustWrite([]byte(s))
	w.stringData.MustWrite([]byte{0})

	return offset
}

func (w *Writer) release() {
	pool.PutTableBuffer(w.columnData)
	pool.PutTableBuffer(w.rowData)
	pool.PutTableBuffer(w.stringData)
	pool.PutTableBuffer(w.blobs)
	w.columnData, w.rowData, w.stringData, w.blobs = nil, nil, nil, nil
}
