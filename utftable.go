// Package utftable implements the CRI Middleware "UTF table" binary tabular
// format: schema-carrying tables of typed columns and rows with shared string
// and blob pools, plus the 16-byte packet envelope that optionally masks a
// serialized table with the fixed XOR cipher.
//
// # Core Features
//
//   - Byte-for-byte round trips: decoding a table and re-encoding it
//     reproduces the source buffer exactly
//   - Every offset is validated before use; hostile input fails with a
//     classified error, never a panic
//   - Eleven value kinds (U8..I64, F32, Str, Blob) with checked conversions
//   - Runtime Layout codec for schema-checked table decode/encode
//   - Schema introspection without decoding row content
//   - Packet envelope with the 64-byte XOR mask cipher, applied through
//     CPU-capability-selected wide paths
//
// # Basic Usage
//
// Describing, building and encoding a table:
//
//	import (
//	    "github.com/cridata/utftable"
//	    "github.com/cridata/utftable/format"
//	    "github.com/cridata/utftable/table"
//	)
//
//	var demoLayout = table.Layout{
//	    Name: "Demo",
//	    Columns: []table.Column{
//	        {Name: "Comment", Kind: format.KindStr, Storage: format.StorageConstant},
//	        {Name: "Id", Kind: format.KindU32, Storage: format.StorageRowed},
//	    },
//	}
//
//	tbl := demoLayout.New().
//	    SetConstant("Comment", table.Str("hi")).
//	    AppendRow(table.U32(1)).
//	    AppendRow(table.U32(2))
//
//	var buf bytes.Buffer
//	if err := demoLayout.Encode(&buf, tbl); err != nil {
//	    log.Fatal(err)
//	}
//
// Wrapping the table in an encrypted packet and reading it back:
//
//	pkt, _ := utftable.NewPacket([4]byte{'T', 'A', 'B', ' '}, buf.Bytes(),
//	    packet.WithEncrypted(true),
//	)
//	if err := pkt.Write(w); err != nil {
//	    log.Fatal(err)
//	}
//
//	pkt, err := utftable.ReadPacket(r, [4]byte{'T', 'A', 'B', ' '})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tbl, err := demoLayout.Decode(bytes.NewReader(pkt.Payload))
//
// Probing a table of unknown shape:
//
//	s, err := utftable.ReadSchema(bytes.NewReader(pkt.Payload))
//	if err == nil && s.HasColumn("Id") {
//	    // pick the matching layout by s.Fingerprint() or s.Name
//	}
//
// # Package Structure
//
// This package provides type aliases and top-level wrappers around the table
// and packet packages, simplifying the most common use cases. For
// fine-grained control use the inner packages directly: table for the
// low-level column/row reader and writer, packet for the envelope, cipher
// for the raw mask transform, section for the header and flag encodings,
// format for the kind and storage enumerations, and errs for the sentinel
// errors and their classes.
package utftable

import (
	"io"

	"github.com/cridata/utftable/packet"
	"github.com/cridata/utftable/table"
)

// Core types, aliased so common use needs only this package.
type (
	Reader       = table.Reader
	Writer       = table.Writer
	Schema       = table.Schema
	SchemaColumn = table.SchemaColumn
	Layout       = table.Layout
	Column       = table.Column
	Table        = table.Table
	Row          = table.Row
	WriteContext = table.WriteContext
	Primitive    = table.Primitive
	Value        = table.Value
	ByteArray    = table.ByteArray
	Registry     = table.Registry
	Packet       = packet.Packet
)

// NewReader creates a table reader over the serialized table in r.
//
// The reader validates the headers and region offsets up front and splits the
// stream into its column, row, string and blob regions. Columns are then
// consumed in declaration order with the Read*Column methods.
//
// Parameters:
//   - r: The byte source holding one serialized table
//   - opts: Optional expectations (see table.ReaderOption)
//
// Returns:
//   - *Reader: The created table reader.
//   - error: An error if the table is malformed, truncated or fails an
//     expectation.
//
// Available options:
//   - table.WithExpectedTableName(name)
//   - table.WithExpectedFieldCount(count)
//
// Example:
//
//	rd, err := utftable.NewReader(f, table.WithExpectedTableName("Track"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := rd.ReadRowedColumn("Id", format.KindU32); err != nil {
//	    log.Fatal(err)
//	}
//	for rd.MoreRowData() {
//	    id, _ := table.ReadRowValue[uint32](rd)
//	    fmt.Println(id)
//	}
func NewReader(r io.Reader, opts ...table.ReaderOption) (*Reader, error) {
	return table.NewReader(r, opts...)
}

// NewReaderBytes creates a table reader over the serialized table in data.
//
// It behaves exactly like NewReader; bytes following the table are ignored.
//
// Parameters:
//   - data: The buffer holding one serialized table
//   - opts: Optional expectations (see table.ReaderOption)
//
// Returns:
//   - *Reader: The created table reader.
//   - error: An error if the table is malformed, truncated or fails an
//     expectation.
func NewReaderBytes(data []byte, opts ...table.ReaderOption) (*Reader, error) {
	return table.NewReaderBytes(data, opts...)
}

// NewWriter creates a table writer for a table with the given name.
//
// Columns are pushed in declaration order, row values in row-major order, and
// End serializes the table. The writer interns strings in the shared pool and
// appends blobs to the blob pool as values arrive.
//
// Parameters:
//   - tableName: The table name, stored in the string pool
//
// Returns:
//   - *Writer: The created table writer.
//
// Example:
//
//	wr := utftable.NewWriter("Track")
//	_ = wr.PushRowedColumn("Id", format.KindU32)
//	_ = table.WriteRowValue(wr, uint32(7))
//	if err := wr.End(f, 4, 1); err != nil {
//	    log.Fatal(err)
//	}
func NewWriter(tableName string) *Writer {
	return table.NewWriter(tableName)
}

// ReadSchema reads one table from r and returns its schema: the table name
// and every column's name, kind and storage, without decoding row content.
//
// Use it to probe files of unknown provenance before committing to a layout.
//
// Parameters:
//   - r: The byte source holding one serialized table
//
// Returns:
//   - *Schema: The introspected schema.
//   - error: An error if the table is malformed or truncated.
//
// Example:
//
//	s, err := utftable.ReadSchema(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d columns, %d rows\n", s.Name, len(s.Columns), s.RowCount)
func ReadSchema(r io.Reader) (*Schema, error) {
	return table.ReadSchema(r)
}

// NewRegistry creates an empty layout registry.
//
// A registry resolves serialized tables to registered layouts by schema
// fingerprint, with a structural fallback for tables whose optional columns
// were excluded. Use it when one stream carries tables of several known
// shapes.
//
// Returns:
//   - *Registry: The created registry.
//
// Example:
//
//	reg := utftable.NewRegistry()
//	_ = reg.Register(&trackLayout)
//	_ = reg.Register(&albumLayout)
//
//	layout, tbl, err := reg.Decode(pkt.Payload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("decoded %s with %d rows\n", layout.Name, len(tbl.Rows))
func NewRegistry() *Registry {
	return table.NewRegistry()
}

// NewPacket creates a packet wrapping the given plaintext serialized table.
//
// Parameters:
//   - prefix: The 4-byte tag identifying the packet type
//   - payload: The plaintext serialized table, starting with "@UTF"
//   - opts: Optional configuration functions (see packet.Option)
//
// Returns:
//   - *Packet: The created packet.
//   - error: An error if an option fails.
//
// Available options:
//   - packet.WithEncrypted(true|false)
//   - packet.WithUnknown(value)
//
// Example:
//
//	pkt, _ := utftable.NewPacket([4]byte{'T', 'A', 'B', ' '}, tableBytes,
//	    packet.WithEncrypted(true),
//	)
//	if err := pkt.Write(f); err != nil {
//	    log.Fatal(err)
//	}
func NewPacket(prefix [4]byte, payload []byte, opts ...packet.Option) (*Packet, error) {
	return packet.New(prefix, payload, opts...)
}

// ReadPacket reads one packet from r, verifying its 4-byte prefix and
// unmasking the payload when it arrives masked. The returned packet holds
// the plaintext payload; its Encrypted field records what was on the wire.
//
// Parameters:
//   - r: The byte source holding one packet
//   - prefix: The expected 4-byte tag
//
// Returns:
//   - *Packet: The packet, with a plaintext payload.
//   - error: An error if the envelope is malformed, the prefix differs, or
//     the payload is neither a plaintext table nor a recognizable masked one.
//
// Example:
//
//	pkt, err := utftable.ReadPacket(f, [4]byte{'T', 'A', 'B', ' '})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rd, err := pkt.Table(table.WithExpectedTableName("Track"))
func ReadPacket(r io.Reader, prefix [4]byte) (*Packet, error) {
	return packet.Read(r, prefix)
}
