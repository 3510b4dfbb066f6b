package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cridata/utftable/cipher"
	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
	"github.com/cridata/utftable/table"
)

var tabPrefix = [4]byte{'T', 'A', 'B', ' '}

// trackPayload builds a small serialized table: one rowed U32 column "Id"
// with rows 7 and 8.
func trackPayload(t *testing.T) []byte {
	t.Helper()

	wr := table.NewWriter("Track")
	require.NoError(t, wr.PushRowedColumn("Id", format.KindU32))
	require.NoError(t, table.WriteRowValue(wr, uint32(7)))
	require.NoError(t, table.WriteRowValue(wr, uint32(8)))

	var buf bytes.Buffer
	require.NoError(t, wr.End(&buf, 4, 2))

	return buf.Bytes()
}

func TestNew_Defaults(t *testing.T) {
	payload := trackPayload(t)

	p, err := New(tabPrefix, payload)
	require.NoError(t, err)
	require.Equal(t, tabPrefix, p.Prefix)
	require.False(t, p.Encrypted)
	require.Equal(t, uint32(0), p.Unknown)
	require.Equal(t, payload, p.Payload)
}

func TestNew_Options(t *testing.T) {
	p, err := New(tabPrefix, trackPayload(t),
		WithEncrypted(true),
		WithUnknown(0xDEADBEEF),
	)
	require.NoError(t, err)
	require.True(t, p.Encrypted)
	require.Equal(t, uint32(0xDEADBEEF), p.Unknown)
}

func TestPacket_PlaintextRoundTrip(t *testing.T) {
	payload := trackPayload(t)

	p, err := New(tabPrefix, payload, WithUnknown(3))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	wire := buf.Bytes()
	require.Len(t, wire, HeaderSize+len(payload))
	require.Equal(t, tabPrefix[:], wire[0:4])

	engine := endian.GetLittleEndianEngine()
	require.Equal(t, uint32(3), engine.Uint32(wire[4:8]))
	require.Equal(t, uint64(len(payload)), engine.Uint64(wire[8:16]))
	require.Equal(t, payload, wire[HeaderSize:])

	got, err := Read(&buf, tabPrefix)
	require.NoError(t, err)
	require.False(t, got.Encrypted)
	require.Equal(t, uint32(3), got.Unknown)
	require.Equal(t, payload, got.Payload)
}

func TestPacket_EncryptedRoundTrip(t *testing.T) {
	payload := trackPayload(t)

	p, err := New(tabPrefix, payload, WithEncrypted(true), WithUnknown(0xDEADBEEF))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	// The stored payload stays plaintext; only the wire form is masked.
	require.Equal(t, trackPayload(t), p.Payload)

	wire := buf.Bytes()
	body := wire[HeaderSize:]
	require.NotEqual(t, payload, body)
	require.True(t, cipher.CanDecrypt(body))

	got, err := Read(&buf, tabPrefix)
	require.NoError(t, err)
	require.True(t, got.Encrypted)
	require.Equal(t, uint32(0xDEADBEEF), got.Unknown)
	require.Equal(t, payload, got.Payload)
}

func TestPacket_EncryptedAndPlainCarrySameTable(t *testing.T) {
	payload := trackPayload(t)

	for _, encrypted := range []bool{false, true} {
		p, err := New(tabPrefix, payload, WithEncrypted(encrypted))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, p.Write(&buf))

		got, err := Read(&buf, tabPrefix)
		require.NoError(t, err)
		require.Equal(t, payload, got.Payload)

		rd, err := got.Table(table.WithExpectedTableName("Track"))
		require.NoError(t, err)
		require.NoError(t, rd.ReadRowedColumn("Id", format.KindU32))

		id, err := table.ReadRowValue[uint32](rd)
		require.NoError(t, err)
		require.Equal(t, uint32(7), id)
	}
}

func TestRead_WrongPrefix(t *testing.T) {
	p, err := New(tabPrefix, trackPayload(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	_, err = Read(&buf, [4]byte{'C', 'P', 'K', ' '})
	require.ErrorIs(t, err, errs.ErrWrongTableSchema)
	require.ErrorContains(t, err, `expected packet prefix "CPK ", found "TAB "`)
}

func TestRead_TruncatedHeader(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("TAB ")), tabPrefix)
	require.ErrorIs(t, err, errs.ErrEOF)
	require.ErrorContains(t, err, "UTF packet header")

	_, err = Read(bytes.NewReader(nil), tabPrefix)
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestRead_TruncatedPayload(t *testing.T) {
	p, err := New(tabPrefix, trackPayload(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	wire := buf.Bytes()
	_, err = Read(bytes.NewReader(wire[:len(wire)-1]), tabPrefix)
	require.ErrorIs(t, err, errs.ErrEOF)
	require.ErrorContains(t, err, "UTF table")
}

func TestRead_LengthBelowMinimum(t *testing.T) {
	var header [HeaderSize]byte
	copy(header[0:4], tabPrefix[:])
	endian.GetLittleEndianEngine().PutUint64(header[8:16], 31)

	_, err := Read(bytes.NewReader(header[:]), tabPrefix)
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
	require.ErrorContains(t, err, "payload length 31, minimum is 32")
}

func TestRead_LengthAboveLimit(t *testing.T) {
	var header [HeaderSize]byte
	copy(header[0:4], tabPrefix[:])
	endian.GetLittleEndianEngine().PutUint64(header[8:16], MaxPayloadSize+1)

	_, err := Read(bytes.NewReader(header[:]), tabPrefix)
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
	require.ErrorContains(t, err, "format limit")
}

func TestRead_UnrecognizablePayload(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(tabPrefix[:])
	buf.Write([]byte{0, 0, 0, 0})

	var length [8]byte
	endian.GetLittleEndianEngine().PutUint64(length[:], MinPayloadSize)
	buf.Write(length[:])
	buf.Write(bytes.Repeat([]byte{0xEE}, MinPayloadSize))

	_, err := Read(&buf, tabPrefix)
	require.ErrorIs(t, err, errs.ErrDecryptionFailed)
	require.ErrorContains(t, err, "neither the table magic nor the mask guard")
}

func TestWrite_RejectsShortPayload(t *testing.T) {
	p, err := New(tabPrefix, []byte("@UTF"))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = p.Write(&buf)
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
	require.ErrorContains(t, err, "payload holds 4 bytes, minimum is 32")
	require.Zero(t, buf.Len())
}

func TestWrite_RejectsWrongMagic(t *testing.T) {
	p, err := New(tabPrefix, bytes.Repeat([]byte{0xEE}, MinPayloadSize))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = p.Write(&buf)
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
	require.ErrorContains(t, err, "table magic")
}

func TestPacket_TableExpectations(t *testing.T) {
	p, err := New(tabPrefix, trackPayload(t))
	require.NoError(t, err)

	_, err = p.Table(table.WithExpectedTableName("Album"))
	require.ErrorIs(t, err, errs.ErrWrongTableSchema)

	rd, err := p.Table(table.WithExpectedFieldCount(1))
	require.NoError(t, err)
	require.Equal(t, "Track", rd.TableName())
}
