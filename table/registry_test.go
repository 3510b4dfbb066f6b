package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	require.NotNil(t, reg)
	require.Equal(t, 0, reg.Count())

	_, ok := reg.Match(&Schema{Name: "Demo"})
	require.False(t, ok)
}

func TestRegistry_RegisterAndMatch(t *testing.T) {
	reg := NewRegistry()

	demo := demoLayout()
	log := optionalRowedLayout()
	require.NoError(t, reg.Register(&demo))
	require.NoError(t, reg.Register(&log))
	require.Equal(t, 2, reg.Count())

	s, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)

	got, ok := reg.Match(s)
	require.True(t, ok)
	require.Same(t, &demo, got)
}

func TestRegistry_RegisterInvalidLayout(t *testing.T) {
	reg := NewRegistry()

	bad := demoLayout()
	bad.Columns[0].Kind = format.ValueKind(0x9)
	require.ErrorIs(t, reg.Register(&bad), errs.ErrInvalidColumnType)
	require.Equal(t, 0, reg.Count())
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	first := demoLayout()
	second := demoLayout()
	require.NoError(t, reg.Register(&first))

	err := reg.Register(&second)
	require.ErrorIs(t, err, errs.ErrLayoutAlreadyRegistered)
	require.ErrorContains(t, err, "Demo")
	require.Equal(t, 1, reg.Count())
}

func TestRegistry_SameNameDifferentShape(t *testing.T) {
	// Two versions of the same table may coexist; the column set tells
	// them apart.
	reg := NewRegistry()

	v1 := demoLayout()
	v2 := demoLayout()
	v2.Columns = append(v2.Columns, Column{Name: "Flags", Kind: format.KindU8, Storage: format.StorageRowed})
	require.NoError(t, reg.Register(&v1))
	require.NoError(t, reg.Register(&v2))

	s, err := ReadSchema(bytes.NewReader(demoTableBytes()))
	require.NoError(t, err)

	got, ok := reg.Match(s)
	require.True(t, ok)
	require.Same(t, &v1, got)

	var buf bytes.Buffer
	tbl := v2.New().SetConstant("Comment", Str("x")).AppendRow(U32(1), U8(2))
	require.NoError(t, v2.Encode(&buf, tbl))

	s, err = ReadSchema(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	got, ok = reg.Match(s)
	require.True(t, ok)
	require.Same(t, &v2, got)
}

func TestRegistry_MatchExcludedOptional(t *testing.T) {
	reg := NewRegistry()

	log := optionalRowedLayout()
	require.NoError(t, reg.Register(&log))

	// With Score excluded the wire form carries a zero-storage column, so
	// its fingerprint differs from the layout's.
	var buf bytes.Buffer
	tbl := &Table{Rows: []Row{{U32(1), {}}, {U32(2), {}}}}
	require.NoError(t, log.Encode(&buf, tbl))

	s, err := ReadSchema(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NotEqual(t, log.Fingerprint(), s.Fingerprint())

	got, ok := reg.Match(s)
	require.True(t, ok)
	require.Same(t, &log, got)
}

func TestRegistry_Decode(t *testing.T) {
	reg := NewRegistry()

	demo := demoLayout()
	require.NoError(t, reg.Register(&demo))

	l, tbl, err := reg.Decode(demoTableBytes())
	require.NoError(t, err)
	require.Same(t, &demo, l)
	require.Len(t, tbl.Rows, 3)
	require.True(t, tbl.Constants["Comment"].Equal(Str("hi")))
}

func TestRegistry_DecodeUnknownTable(t *testing.T) {
	reg := NewRegistry()

	demo := demoLayout()
	require.NoError(t, reg.Register(&demo))

	mystery := Layout{
		Name:    "Mystery",
		Columns: []Column{{Name: "X", Kind: format.KindU8, Storage: format.StorageRowed}},
	}

	var buf bytes.Buffer
	require.NoError(t, mystery.Encode(&buf, mystery.New().AppendRow(U8(1))))

	_, _, err := reg.Decode(buf.Bytes())
	require.ErrorIs(t, err, errs.ErrWrongTableSchema)
	require.ErrorContains(t, err, "no registered layout matches table Mystery")
}

func TestLayout_Matches(t *testing.T) {
	l := optionalRowedLayout()

	declared := l.Schema()
	require.True(t, l.Matches(declared))
	require.Equal(t, l.Fingerprint(), declared.Fingerprint())

	renamed := l.Schema()
	renamed.Name = "Audit"
	require.False(t, l.Matches(renamed))

	retyped := l.Schema()
	retyped.Columns[0].Kind = format.KindU16
	require.False(t, l.Matches(retyped))

	// Zero storage satisfies optional columns only.
	zeroOptional := l.Schema()
	zeroOptional.Columns[1].Storage = format.StorageZero
	require.True(t, l.Matches(zeroOptional))

	zeroRequired := l.Schema()
	zeroRequired.Columns[0].Storage = format.StorageZero
	require.False(t, l.Matches(zeroRequired))

	short := l.Schema()
	short.Columns = short.Columns[:1]
	require.False(t, l.Matches(short))
}
