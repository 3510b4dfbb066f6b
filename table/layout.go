package table

import (
	"fmt"
	"io"
	"math"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
	"github.com/cridata/utftable/section"
)

// WriteContext records, per optional rowed column, whether the column was
// included when its table was read. It resolves the ambiguity of writing a
// table whose rows were all removed: with no rows left there is no cell to
// consult, so the context decides between rowed and zero storage.
type WriteContext map[string]bool

// NewWriteContext creates an empty write context.
func NewWriteContext() WriteContext {
	return make(WriteContext)
}

// IsIncluded reports the recorded inclusion state of the column. Columns
// never recorded default to included. Safe on a nil context.
func (c WriteContext) IsIncluded(columnName string) bool {
	included, ok := c[columnName]
	if !ok {
		return true
	}

	return included
}

// SetInclusionState records whether the column is written rowed (true) or
// zero (false).
func (c WriteContext) SetInclusionState(columnName string, included bool) {
	c[columnName] = included
}

// Column describes one column of a Layout.
type Column struct {
	Name string
	Kind format.ValueKind

	// Storage is StorageConstant or StorageRowed. Zero storage is not
	// declared; it is how an absent optional column serializes.
	Storage format.StorageKind

	// Optional allows the column to be absent. An absent constant decodes
	// as an absent primitive, an excluded rowed column contributes no
	// bytes to the row records.
	Optional bool

	// IncludeByDefault selects rowed storage for an optional rowed column
	// of a freshly created table, and a present zero value for an
	// optional constant.
	IncludeByDefault bool
}

// Layout is a runtime description of a table's schema. Decode checks a
// serialized table against it column by column, Encode writes a Table in its
// shape. It replaces per-table generated code: one Layout value per table
// type, typically a package-level variable.
//
//	var trackLayout = table.Layout{
//		Name: "Track",
//		Columns: []table.Column{
//			{Name: "Id", Kind: format.KindU32, Storage: format.StorageRowed},
//			{Name: "Title", Kind: format.KindStr, Storage: format.StorageRowed},
//		},
//	}
type Layout struct {
	Name    string
	Columns []Column
}

// Table holds the values of a decoded table: constants by column name, rows
// as cell slices ordered like the layout's rowed columns, and the write
// context preserving how optional rowed columns were stored.
type Table struct {
	Constants map[string]Primitive
	Rows      []Row
	Context   WriteContext
}

// Row holds one row's cells, one per rowed column in declaration order.
// Cells of excluded optional columns are absent primitives.
type Row []Primitive

// SetConstant sets the constant column's value and returns the table for
// chaining. Passing an absent primitive removes the constant, which is how
// an optional constant is switched to zero storage.
func (t *Table) SetConstant(columnName string, v Primitive) *Table {
	if t.Constants == nil {
		t.Constants = make(map[string]Primitive)
	}
	if !v.Present() {
		delete(t.Constants, columnName)
		return t
	}

	t.Constants[columnName] = v

	return t
}

// AppendRow appends a row of cells in rowed column declaration order and
// returns the table for chaining.
func (t *Table) AppendRow(cells ...Primitive) *Table {
	t.Rows = append(t.Rows, Row(cells))
	return t
}

// Validate checks the layout itself: every kind must be an assigned tag and
// every storage must be constant or rowed.
//
// Returns:
//   - error: ErrInvalidColumnType, ErrInvalidColumnStorage or
//     ErrTooManyColumns
func (l *Layout) Validate() error {
	if len(l.Columns) > section.MaxFieldCount {
		return fmt.Errorf("%w: %d, limit is %d", errs.ErrTooManyColumns, len(l.Columns), section.MaxFieldCount)
	}

	for _, col := range l.Columns {
		if !col.Kind.IsValid() {
			return fmt.Errorf("%w: column %s: %#02x", errs.ErrInvalidColumnType, col.Name, uint8(col.Kind))
		}
		if col.Storage != format.StorageConstant && col.Storage != format.StorageRowed {
			return fmt.Errorf("%w: column %s: %#02x", errs.ErrInvalidColumnStorage, col.Name, uint8(col.Storage))
		}
	}

	return nil
}

// Schema returns the schema of the layout's serialized form with every
// optional column included. Row geometry is zero.
func (l *Layout) Schema() *Schema {
	cols := make([]SchemaColumn, len(l.Columns))
	for i, col := range l.Columns {
		cols[i] = SchemaColumn{Name: col.Name, Kind: col.Kind, Storage: col.Storage}
	}

	return &Schema{Name: l.Name, Columns: cols}
}

// Fingerprint returns the fingerprint of the layout's fully included
// serialized form. A table with excluded optional columns fingerprints
// differently; use Matches for storage-aware comparison.
func (l *Layout) Fingerprint() uint64 {
	return l.Schema().Fingerprint()
}

// Matches reports whether a serialized table with the given schema decodes
// under this layout: same name, same columns in order, and each column
// stored as declared or, for optional columns, as zero storage.
func (l *Layout) Matches(s *Schema) bool {
	if s.Name != l.Name || len(s.Columns) != len(l.Columns) {
		return false
	}

	for i, col := range l.Columns {
		sc := s.Columns[i]
		if sc.Name != col.Name || sc.Kind != col.Kind {
			return false
		}
		if sc.Storage == col.Storage {
			continue
		}
		if !col.Optional || sc.Storage != format.StorageZero {
			return false
		}
	}

	return true
}

// New creates an empty table for the layout. Required constants start as
// present zero values of their kind, optional ones follow IncludeByDefault,
// and the context records each optional rowed column's default inclusion.
func (l *Layout) New() *Table {
	t := &Table{
		Constants: make(map[string]Primitive),
		Context:   NewWriteContext(),
	}

	for _, col := range l.Columns {
		switch col.Storage {
		case format.StorageConstant:
			if !col.Optional || col.IncludeByDefault {
				t.Constants[col.Name] = zeroPrimitive(col.Kind)
			}
		case format.StorageRowed:
			if col.Optional {
				t.Context.SetInclusionState(col.Name, col.IncludeByDefault)
			}
		}
	}

	return t
}

// Decode reads one table from r and checks it against the layout. The table
// name and field count must match exactly, then every column is read in
// declaration order with its declared name, kind and storage, and finally
// the row records are decoded until the row region is exhausted.
//
// Returns:
//   - error: a layout validation error, any NewReader error,
//     ErrWrongTableSchema if the name or field count differ, and the column
//     and row read errors of Reader
func (l *Layout) Decode(r io.Reader) (*Table, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	rd, err := NewReader(r,
		WithExpectedTableName(l.Name),
		WithExpectedFieldCount(uint16(len(l.Columns))),
	)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Constants: make(map[string]Primitive),
		Context:   NewWriteContext(),
	}
	included := make([]bool, len(l.Columns))
	rowedCount := 0

	for i, col := range l.Columns {
		switch col.Storage {
		case format.StorageConstant:
			var p Primitive
			if col.Optional {
				p, err = rd.ReadConstantColumnOpt(col.Name, col.Kind)
			} else {
				p, err = rd.ReadConstantColumn(col.Name, col.Kind)
			}
			if err != nil {
				return nil, err
			}

			if p.Present() {
				t.Constants[col.Name] = p
			}
		case format.StorageRowed:
			rowedCount++
			if col.Optional {
				inc, err := rd.ReadRowedColumnOpt(col.Name, col.Kind)
				if err != nil {
					return nil, err
				}

				included[i] = inc
				t.Context.SetInclusionState(col.Name, inc)
			} else {
				if err := rd.ReadRowedColumn(col.Name, col.Kind); err != nil {
					return nil, err
				}

				included[i] = true
			}
		}
	}

	// A non-empty row region that no included column consumes would never
	// drain.
	if l.rowWidth(included) == 0 && rd.MoreRowData() {
		return nil, fmt.Errorf("%w: row region holds bytes but no column consumes them", errs.ErrMalformedHeader)
	}

	for rd.MoreRowData() {
		row := make(Row, 0, rowedCount)
		for i, col := range l.Columns {
			if col.Storage != format.StorageRowed {
				continue
			}
			if !included[i] {
				row = append(row, Primitive{})
				continue
			}

			v, err := rd.ReadRowValue(col.Kind)
			if err != nil {
				return nil, err
			}

			row = append(row, v)
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Encode writes the table to w in the layout's shape. Optional constant
// storage follows each value's presence. Optional rowed inclusion is decided
// by the first row's cell, or by the table's context when there are no rows;
// every further row must agree with the decision.
//
// Returns:
//   - error: a layout validation error, ErrWrongTableSchema on a missing
//     required value, ErrValueConversion on a cell of the wrong kind,
//     ErrOptionalColumnConflict on mixed presence in an optional rowed
//     column, ErrTableTooLarge if the row size overflows its header field,
//     and the write errors of Writer.End
func (l *Layout) Encode(w io.Writer, t *Table) error {
	if err := l.Validate(); err != nil {
		return err
	}

	wr := NewWriter(l.Name)
	included := make([]bool, len(l.Columns))
	rowed := 0

	for i, col := range l.Columns {
		switch col.Storage {
		case format.StorageConstant:
			v := t.Constants[col.Name]
			if col.Optional {
				if err := wr.PushConstantColumnOpt(col.Name, col.Kind, v); err != nil {
					return err
				}
				continue
			}
			if !v.Present() {
				return fmt.Errorf("%w: missing constant column %s", errs.ErrWrongTableSchema, col.Name)
			}
			if v.Kind() != col.Kind {
				return fmt.Errorf("%w: %s to %s", errs.ErrValueConversion, v.Kind(), col.Kind)
			}
			if err := wr.PushConstantColumn(col.Name, v); err != nil {
				return err
			}
		case format.StorageRowed:
			inc := true
			if col.Optional {
				if len(t.Rows) == 0 {
					inc = t.Context.IsIncluded(col.Name)
				} else {
					inc = rowCell(t.Rows[0], rowed).Present()
				}
			}

			included[i] = inc
			rowed++
			if err := wr.PushRowedColumnOpt(col.Name, col.Kind, inc); err != nil {
				return err
			}
		}
	}

	rowSize := l.rowWidth(included)
	if rowSize > math.MaxUint16 {
		return fmt.Errorf("%w: row size %d bytes", errs.ErrTableTooLarge, rowSize)
	}

	for _, row := range t.Rows {
		j := 0
		for i, col := range l.Columns {
			if col.Storage != format.StorageRowed {
				continue
			}

			cell := rowCell(row, j)
			j++

			if col.Optional {
				if included[i] != cell.Present() {
					return fmt.Errorf("%w: column %s", errs.ErrOptionalColumnConflict, col.Name)
				}
				if !included[i] {
					continue
				}
			} else if !cell.Present() {
				return fmt.Errorf("%w: missing row value for column %s", errs.ErrWrongTableSchema, col.Name)
			}

			if cell.Kind() != col.Kind {
				return fmt.Errorf("%w: %s to %s", errs.ErrValueConversion, cell.Kind(), col.Kind)
			}
			if err := wr.WriteRowValue(cell); err != nil {
				return err
			}
		}
	}

	return wr.End(w, uint16(rowSize), uint32(len(t.Rows)))
}

// rowWidth sums the cell widths of the included rowed columns.
func (l *Layout) rowWidth(included []bool) int {
	width := 0
	for i, col := range l.Columns {
		if col.Storage == format.StorageRowed && included[i] {
			width += col.Kind.Size()
		}
	}

	return width
}

// rowCell returns the j-th cell of row, or an absent primitive when the row
// is too short.
func rowCell(row Row, j int) Primitive {
	if j < len(row) {
		return row[j]
	}

	return Primitive{}
}

// zeroPrimitive returns the present zero value of the kind.
func zeroPrimitive(kind format.ValueKind) Primitive {
	switch kind {
	case format.KindStr:
		return Str("")
	case format.KindBlob:
		return Blob(nil)
	default:
		return Primitive{kind: kind, present: true}
	}
}
