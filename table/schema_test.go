package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
)

func TestReadSchema_Demo(t *testing.T) {
	s, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)

	require.Equal(t, "Demo", s.Name)
	require.Equal(t, uint16(4), s.RowSize)
	require.Equal(t, uint32(3), s.RowCount)
	require.Equal(t, []SchemaColumn{
		{Name: "Comment", Kind: format.KindStr, Storage: format.StorageConstant},
		{Name: "Id", Kind: format.KindU32, Storage: format.StorageRowed},
	}, s.Columns)
}

func TestReadSchema_ZeroStorage(t *testing.T) {
	s, err := ReadSchema(bytes.NewReader(optTableBytes()))
	require.NoError(t, err)

	require.Equal(t, "Opt", s.Name)
	require.Equal(t, []SchemaColumn{
		{Name: "Crc", Kind: format.KindU32, Storage: format.StorageZero},
		{Name: "Id", Kind: format.KindU32, Storage: format.StorageZero},
	}, s.Columns)
}

func TestSchema_ColumnLookup(t *testing.T) {
	s, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)

	require.True(t, s.HasColumn("Id"))
	require.False(t, s.HasColumn("Crc"))

	col, ok := s.Column("Comment")
	require.True(t, ok)
	require.Equal(t, format.KindStr, col.Kind)
	require.Equal(t, format.StorageConstant, col.Storage)

	_, ok = s.Column("Crc")
	require.False(t, ok)
}

func TestReader_SchemaInterleavesWithReads(t *testing.T) {
	rd, err := NewReader(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)

	// Consuming a column through the typed path must not disturb the
	// schema walk, and vice versa.
	comment, err := ReadConstant[string](rd, "Comment")
	require.NoError(t, err)
	require.Equal(t, "hi", comment)

	s, err := rd.Schema()
	require.NoError(t, err)
	require.Len(t, s.Columns, 2)
	require.Equal(t, "Comment", s.Columns[0].Name)

	require.NoError(t, rd.ReadRowedColumn("Id", format.KindU32))
	id, err := ReadRowValue[uint32](rd)
	require.NoError(t, err)
	require.Equal(t, uint32(1), id)
}

func TestReader_SchemaInvalidFlag(t *testing.T) {
	data := demoTableBytes()
	data[32] = 0x39 // kind nibble 9 is unassigned

	rd, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = rd.Schema()
	require.ErrorIs(t, err, errs.ErrInvalidColumnType)

	data = demoTableBytes()
	data[32] = 0x2A // storage nibble 2 is unassigned

	rd, err = NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = rd.Schema()
	require.ErrorIs(t, err, errs.ErrInvalidColumnStorage)
}

func TestReader_SchemaDanglingNameRef(t *testing.T) {
	data := demoTableBytes()
	data[36] = 9 // "Comment" name ref now points mid-entry

	rd, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = rd.Schema()
	require.ErrorIs(t, err, errs.ErrStringNotFound)
	require.ErrorContains(t, err, "offset 9")
}

func TestReader_SchemaTruncatedDescriptor(t *testing.T) {
	// A field count larger than the column region supports: the walk runs
	// out of bytes on the missing descriptor's flag.
	data := demoTableBytes()
	data[25] = 3

	rd, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = rd.Schema()
	require.ErrorIs(t, err, errs.ErrEOF)
	require.ErrorContains(t, err, "reading U8 value")
}

func TestSchema_Fingerprint(t *testing.T) {
	s1, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)
	s2, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)

	require.Equal(t, s1.Fingerprint(), s2.Fingerprint())

	// Row geometry stays out of the digest.
	s2.RowCount = 99
	s2.RowSize = 16
	require.Equal(t, s1.Fingerprint(), s2.Fingerprint())

	// Any shape change lands in it.
	renamed := *s1
	renamed.Name = "Demo2"
	require.NotEqual(t, s1.Fingerprint(), renamed.Fingerprint())

	retyped, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)
	retyped.Columns[1].Kind = format.KindU16
	require.NotEqual(t, s1.Fingerprint(), retyped.Fingerprint())

	restored, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)
	restored.Columns[1].Storage = format.StorageZero
	require.NotEqual(t, s1.Fingerprint(), restored.Fingerprint())
}
