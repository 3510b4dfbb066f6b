package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
	"github.com/cridata/utftable/internal/options"
	"github.com/cridata/utftable/section"
)

type readerConfig struct {
	expectedName       string
	checkName          bool
	expectedFieldCount uint16
	checkFieldCount    bool
}

// ReaderOption configures NewReader.
type ReaderOption = options.Option[*readerConfig]

// WithExpectedTableName makes NewReader fail with ErrWrongTableSchema when
// the parsed table is not named name.
func WithExpectedTableName(name string) ReaderOption {
	return options.NoError(func(cfg *readerConfig) {
		cfg.expectedName = name
		cfg.checkName = true
	})
}

// WithExpectedFieldCount makes NewReader fail with ErrWrongTableSchema when
// the parsed table does not have exactly count columns.
func WithExpectedFieldCount(count uint16) ReaderOption {
	return options.NoError(func(cfg *readerConfig) {
		cfg.expectedFieldCount = count
		cfg.checkFieldCount = true
	})
}

// Reader parses a serialized table and hands out its columns and row values
// in declaration order. Construction consumes exactly the table's bytes from
// the stream and materializes all four regions; the column and row cursors
// then advance independently as values are read.
//
//	rd, err := table.NewReader(file, table.WithExpectedTableName("Header"))
//	if err != nil {
//		return err
//	}
//	count, err := table.ReadConstant[uint64](rd, "FileCount")
type Reader struct {
	header    section.TableHeader
	tableName string

	columnData []byte
	columnPos  int
	rowData    []byte
	rowPos     int

	strings map[uint32]string
	blobs   []byte
}

// NewReader reads one table from r. Bytes following the table are left
// unread.
//
// Returns:
//   - error: ErrEOF naming the truncated region, ErrMalformedHeader if the
//     headers violate the layout invariants or the table name does not
//     resolve, ErrStringMalformed on invalid UTF-8 in the string pool,
//     ErrWrongTableSchema if an expectation option is not met
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	cfg := &readerConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	buf := make([]byte, section.TableHeaderSize)
	if err := readRegion(r, buf[:section.PrimaryHeaderSize], "@UTF header"); err != nil {
		return nil, err
	}

	var primary section.PrimaryHeader
	if err := primary.Parse(buf[:section.PrimaryHeaderSize]); err != nil {
		return nil, err
	}

	if err := readRegion(r, buf, "@UTF header"); err != nil {
		return nil, err
	}

	header, err := section.ParseTableHeader(buf, primary.TableSize)
	if err != nil {
		return nil, err
	}

	columnData := make([]byte, header.RowOffset-section.TableHeaderSize)
	if err := readRegion(r, columnData, "UTF column data"); err != nil {
		return nil, err
	}

	rowData := make([]byte, header.StringOffset-header.RowOffset)
	if err := readRegion(r, rowData, "UTF row data"); err != nil {
		return nil, err
	}

	stringData := make([]byte, header.BlobOffset-header.StringOffset)
	if err := readRegion(r, stringData, "UTF string data"); err != nil {
		return nil, err
	}

	strings, err := scanStringPool(stringData)
	if err != nil {
		return nil, err
	}

	tableName, ok := strings[header.TableNameRef]
	if !ok {
		return nil, fmt.Errorf("%w: table name ref %d not in string pool", errs.ErrMalformedHeader, header.TableNameRef)
	}

	blobs := make([]byte, primary.TableSize-header.BlobOffset)
	if err := readRegion(r, blobs, "UTF blob data"); err != nil {
		return nil, err
	}

	if cfg.checkName && tableName != cfg.expectedName {
		return nil, fmt.Errorf("%w: expected table %s, found %s", errs.ErrWrongTableSchema, cfg.expectedName, tableName)
	}
	if cfg.checkFieldCount && header.FieldCount != cfg.expectedFieldCount {
		return nil, fmt.Errorf("%w: expected %d columns, found %d", errs.ErrWrongTableSchema, cfg.expectedFieldCount, header.FieldCount)
	}

	return &Reader{
		header:     header,
		tableName:  tableName,
		columnData: columnData,
		rowData:    rowData,
		strings:    strings,
		blobs:      blobs,
	}, nil
}

// NewReaderBytes reads one table from data. Bytes following the table are
// ignored.
func NewReaderBytes(data []byte, opts ...ReaderOption) (*Reader, error) {
	return NewReader(bytes.NewReader(data), opts...)
}

// readRegion fills buf from r, mapping a short read to ErrEOF naming the
// region.
func readRegion(r io.Reader, buf []byte, region string) error {
	_, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", errs.ErrEOF, region)
	}

	return err
}

// scanStringPool splits the string region on NUL terminators and indexes
// each entry by its start offset. A trailing chunk without a terminator is
// dropped.
func scanStringPool(data []byte) (map[uint32]string, error) {
	strings := make(map[uint32]string)
	start := 0
	for index, b := range data {
		if b != 0 {
			continue
		}

		entry := data[start:index]
		if !utf8.Valid(entry) {
			return nil, fmt.Errorf("%w: entry at offset %d", errs.ErrStringMalformed, start)
		}

		strings[uint32(start)] = string(entry)
		start = index + 1
	}

	return strings, nil
}

// TableName returns the table's name.
func (r *Reader) TableName() string {
	return r.tableName
}

// FieldCount returns the number of column descriptors.
func (r *Reader) FieldCount() uint16 {
	return r.header.FieldCount
}

// RowSize returns the byte width of one row record.
func (r *Reader) RowSize() uint16 {
	return r.header.RowSize
}

// RowCount returns the number of row records.
func (r *Reader) RowCount() uint32 {
	return r.header.RowCount
}

// MoreColumnData reports whether unread bytes remain in the column region.
func (r *Reader) MoreColumnData() bool {
	return r.columnPos < len(r.columnData)
}

// MoreRowData reports whether unread bytes remain in the row region.
func (r *Reader) MoreRowData() bool {
	return r.rowPos < len(r.rowData)
}

// ReadConstantColumn reads the next column, which must be a required
// constant named name of the given kind, and returns its value.
//
// Returns:
//   - error: ErrWrongColumnName, ErrWrongColumnType or ErrWrongColumnStorage
//     on a schema mismatch, ErrInvalidColumnType or ErrInvalidColumnStorage
//     on an unassigned flag nibble, ErrEOF on a truncated descriptor or value
func (r *Reader) ReadConstantColumn(name string, kind format.ValueKind) (Primitive, error) {
	storage, err := r.readColumnHeader(name, kind)
	if err != nil {
		return Primitive{}, err
	}
	if storage != format.StorageConstant {
		return Primitive{}, wrongStorage(storage, format.StorageConstant)
	}

	return r.readRawValue(kind, false)
}

// ReadConstantColumnOpt reads the next column, which must be an optional
// constant named name of the given kind. Zero storage yields an absent
// primitive.
func (r *Reader) ReadConstantColumnOpt(name string, kind format.ValueKind) (Primitive, error) {
	storage, err := r.readColumnHeader(name, kind)
	if err != nil {
		return Primitive{}, err
	}

	switch storage {
	case format.StorageZero:
		return Primitive{}, nil
	case format.StorageConstant:
		return r.readRawValue(kind, false)
	default:
		return Primitive{}, wrongStorage(storage, format.StorageConstant)
	}
}

// ReadRowedColumn reads the next column, which must be a required rowed
// column named name of the given kind. The row values themselves are read
// later with ReadRowValue.
func (r *Reader) ReadRowedColumn(name string, kind format.ValueKind) error {
	storage, err := r.readColumnHeader(name, kind)
	if err != nil {
		return err
	}
	if storage != format.StorageRowed {
		return wrongStorage(storage, format.StorageRowed)
	}

	return nil
}

// ReadRowedColumnOpt reads the next column, which must be an optional rowed
// column named name of the given kind. The bool reports whether the column
// is included in the row records; an excluded column contributes no bytes.
func (r *Reader) ReadRowedColumnOpt(name string, kind format.ValueKind) (bool, error) {
	storage, err := r.readColumnHeader(name, kind)
	if err != nil {
		return false, err
	}

	switch storage {
	case format.StorageZero:
		return false, nil
	case format.StorageRowed:
		return true, nil
	default:
		return false, wrongStorage(storage, format.StorageRowed)
	}
}

// ReadZeroColumn reads the next column, which must be a zero storage
// placeholder named name of the given kind. A placeholder declares its name
// and kind but holds no data in any region.
func (r *Reader) ReadZeroColumn(name string, kind format.ValueKind) error {
	storage, err := r.readColumnHeader(name, kind)
	if err != nil {
		return err
	}
	if storage != format.StorageZero {
		return wrongStorage(storage, format.StorageZero)
	}

	return nil
}

// ReadRowValue reads the next cell of the current row as a primitive of the
// given kind. Callers read cells in column declaration order, skipping
// excluded optional columns, and advance to the next row once every included
// cell is read.
func (r *Reader) ReadRowValue(kind format.ValueKind) (Primitive, error) {
	return r.readRawValue(kind, true)
}

// readColumnHeader reads the flag byte and name ref that open a column
// descriptor, checks the name and the value kind, and returns the storage
// nibble for the caller to dispatch on. The kind check distinguishes a valid
// but unexpected tag from an unassigned one.
func (r *Reader) readColumnHeader(name string, kind format.ValueKind) (format.StorageKind, error) {
	flag, err := r.readRawValue(format.KindU8, false)
	if err != nil {
		return 0, err
	}

	columnName, err := r.readRawValue(format.KindStr, false)
	if err != nil {
		return 0, err
	}
	if columnName.str != name {
		return 0, fmt.Errorf("%w: found %s, expected %s", errs.ErrWrongColumnName, columnName.str, name)
	}

	cf := section.ColumnFlag(flag.num)
	if k := cf.ValueKind(); k != kind {
		if k.IsValid() {
			return 0, fmt.Errorf("%w: found %s, expected %s", errs.ErrWrongColumnType, k, kind)
		}

		return 0, fmt.Errorf("%w: %#02x", errs.ErrInvalidColumnType, uint8(k))
	}

	return cf.StorageKind(), nil
}

func wrongStorage(found, expected format.StorageKind) error {
	if found.IsValid() {
		return fmt.Errorf("%w: found %s, expected %s", errs.ErrWrongColumnStorage, found, expected)
	}

	return fmt.Errorf("%w: %#02x", errs.ErrInvalidColumnStorage, uint8(found))
}

// readRawValue reads one cell of the given kind from the column or row
// cursor.
func (r *Reader) readRawValue(kind format.ValueKind, rowed bool) (Primitive, error) {
	size := kind.Size()
	if size == 0 {
		return Primitive{}, fmt.Errorf("%w: %#02x", errs.ErrInvalidColumnType, uint8(kind))
	}

	data, pos := r.columnData, &r.columnPos
	if rowed {
		data, pos = r.rowData, &r.rowPos
	}

	if len(data)-*pos < size {
		return Primitive{}, fmt.Errorf("%w: reading %s value", errs.ErrEOF, kind)
	}

	raw := data[*pos : *pos+size]
	*pos += size

	return decodePrimitive(kind, raw, r.strings, r.blobs)
}
