// Package table reads and writes UTF tables, the binary tabular format used
// by CRI Middleware container files.
//
// The package offers two levels of API. The low-level Reader and Writer walk
// a table column by column in declaration order, the way generated
// per-table code would; the caller supplies each column's expected name,
// kind and storage, and any disagreement with the serialized table surfaces
// as a distinct schema error. The high-level Layout drives the same walk
// from a runtime schema description and converts whole tables to and from
// the dynamic Table value.
//
// # Value Model
//
// Every cell is one of eleven value kinds: eight integer widths, float32,
// a string interned in the table's string pool, or a blob addressed into
// the table's blob pool. The Primitive union carries any of them; generic
// helpers such as ReadConstant and WriteRowValue bridge to native Go types.
//
// Each column stores its values one of three ways:
//
//	Constant: one value embedded in the column descriptor itself
//	Rowed:    one value per row in the row region
//	Zero:     no value anywhere; how an absent optional column serializes
//
// # Ordering Discipline
//
// A table is read the way it is declared: first every column descriptor in
// order, then the rows, each row visiting the included rowed columns in
// order. Writers mirror this: push every column, then write the row cells,
// then End. The reader and writer keep separate cursors for the column and
// row regions, so constants interleave freely with rowed declarations.
//
//	rd, err := table.NewReader(r, table.WithExpectedTableName("Track"))
//	if err != nil {
//		return err
//	}
//	album, err := table.ReadConstant[string](rd, "Album")
//	if err != nil {
//		return err
//	}
//	if err := table.ReadRowed[uint32](rd, "Id"); err != nil {
//		return err
//	}
//	for rd.MoreRowData() {
//		id, err := table.ReadRowValue[uint32](rd)
//		...
//	}
//
// The byte-level layout of headers, regions and flags lives in the section
// package; encrypted packet framing lives in the packet package.
package table
