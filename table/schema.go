package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
	"github.com/cridata/utftable/internal/hash"
	"github.com/cridata/utftable/section"
)

// SchemaColumn describes one column of an introspected table.
type SchemaColumn struct {
	Name    string
	Kind    format.ValueKind
	Storage format.StorageKind
}

// Schema is the introspected shape of a serialized table: its name, its
// column descriptors in declaration order, and its row geometry. Unlike the
// typed read path it works on any structurally valid table, which makes it
// the tool for probing files of unknown provenance.
type Schema struct {
	Name     string
	Columns  []SchemaColumn
	RowSize  uint16
	RowCount uint32
}

// ReadSchema reads one table from r and returns its schema. Constant column
// values are skipped over, not decoded.
func ReadSchema(r io.Reader) (*Schema, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	return rd.Schema()
}

// Schema walks the column region and returns the table's schema. The walk
// uses its own cursor, so interleaving with typed column reads is safe.
//
// Returns:
//   - error: ErrInvalidColumnType or ErrInvalidColumnStorage on an
//     unassigned flag nibble, ErrStringNotFound on a dangling name ref,
//     ErrEOF if a descriptor runs past the column region
func (r *Reader) Schema() (*Schema, error) {
	s := &Schema{
		Name:     r.tableName,
		Columns:  make([]SchemaColumn, 0, r.header.FieldCount),
		RowSize:  r.header.RowSize,
		RowCount: r.header.RowCount,
	}

	engine := endian.GetBigEndianEngine()
	data := r.columnData
	pos := 0

	for range r.header.FieldCount {
		if len(data)-pos < section.ColumnFlagSize {
			return nil, fmt.Errorf("%w: reading %s value", errs.ErrEOF, format.KindU8)
		}

		flag := section.ColumnFlag(data[pos])
		if err := flag.Validate(); err != nil {
			return nil, err
		}
		pos += section.ColumnFlagSize

		if len(data)-pos < section.ColumnNameRefSize {
			return nil, fmt.Errorf("%w: reading %s value", errs.ErrEOF, format.KindStr)
		}

		offset := engine.Uint32(data[pos : pos+section.ColumnNameRefSize])
		name, ok := r.strings[offset]
		if !ok {
			return nil, fmt.Errorf("%w: offset %d", errs.ErrStringNotFound, offset)
		}
		pos += section.ColumnNameRefSize

		if flag.StorageKind() == format.StorageConstant {
			size := flag.ValueKind().Size()
			if len(data)-pos < size {
				return nil, fmt.Errorf("%w: reading %s value", errs.ErrEOF, flag.ValueKind())
			}
			pos += size
		}

		s.Columns = append(s.Columns, SchemaColumn{
			Name:    name,
			Kind:    flag.ValueKind(),
			Storage: flag.StorageKind(),
		})
	}

	return s, nil
}

// HasColumn reports whether the schema contains a column named name.
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// Column returns the column named name.
func (s *Schema) Column(name string) (SchemaColumn, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}

	return SchemaColumn{}, false
}

// Fingerprint returns a stable 64-bit digest of the schema shape: the table
// name plus every column's name, kind and storage, in declaration order.
// Row geometry is not part of the digest, so tables with the same columns
// but different row counts fingerprint identically.
func (s *Schema) Fingerprint() uint64 {
	return hash.ID(s.canonical())
}

// canonical returns the fingerprint preimage. Equal canonical forms mean
// identical shapes even when two fingerprints collide.
func (s *Schema) canonical() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	for _, col := range s.Columns {
		sb.WriteByte(0)
		sb.WriteString(col.Name)
		sb.WriteByte(byte(section.NewColumnFlag(col.Storage, col.Kind)))
	}

	return sb.String()
}
