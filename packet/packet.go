// Package packet implements the 16-byte envelope wrapped around a serialized
// table: a caller-defined 4-byte prefix, a reserved field preserved verbatim,
// and the payload length, followed by the table itself, optionally masked
// with the cipher package's XOR transform.
//
// A Packet always holds the plaintext payload. Whether the payload travels
// masked is a property of the envelope, recorded in Encrypted and applied on
// the way in and out.
package packet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cridata/utftable/cipher"
	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/internal/options"
	"github.com/cridata/utftable/internal/pool"
	"github.com/cridata/utftable/section"
	"github.com/cridata/utftable/table"
)

const (
	// HeaderSize is the byte length of the envelope header.
	HeaderSize = 16

	// MinPayloadSize is the smallest payload the envelope accepts: both
	// fixed table headers.
	MinPayloadSize = section.PrimaryHeaderSize + section.TableHeaderSize

	// MaxPayloadSize caps the payload length a header may declare. A table
	// body cannot exceed its u32 size field plus the primary header.
	MaxPayloadSize = uint64(section.PrimaryHeaderSize) + section.MaxTableSize
)

// Packet is one enveloped table.
type Packet struct {
	// Prefix is the 4-byte tag identifying the packet type, "TAB " and the
	// like. It carries no structure; readers state the tag they expect.
	Prefix [4]byte

	// Unknown is the reserved header field, preserved verbatim.
	Unknown uint32

	// Encrypted selects whether Write masks the payload. Read sets it to
	// how the payload actually arrived.
	Encrypted bool

	// Payload is the plaintext serialized table, starting with "@UTF".
	Payload []byte
}

// Option configures a Packet under construction.
type Option = options.Option[*Packet]

// WithEncrypted selects whether the payload is masked on Write.
func WithEncrypted(encrypted bool) Option {
	return options.NoError(func(p *Packet) {
		p.Encrypted = encrypted
	})
}

// WithUnknown sets the reserved header field.
func WithUnknown(value uint32) Option {
	return options.NoError(func(p *Packet) {
		p.Unknown = value
	})
}

// New creates a packet wrapping the given plaintext payload. The payload is
// not validated until Write.
func New(prefix [4]byte, payload []byte, opts ...Option) (*Packet, error) {
	p := &Packet{
		Prefix:  prefix,
		Payload: payload,
	}

	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Read reads one packet from r, verifying that it carries the given prefix,
// and unmasks the payload when it arrives masked. The returned packet always
// holds plaintext; Encrypted records what was on the wire.
//
// Returns:
//   - error: ErrEOF if the header or payload is truncated,
//     ErrWrongTableSchema on a prefix mismatch, ErrMalformedHeader if the
//     declared length cannot hold a table or exceeds the format limit,
//     ErrDecryptionFailed if the payload is neither a plaintext table nor a
//     recognizable masked one
func Read(r io.Reader, prefix [4]byte) (*Packet, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: UTF packet header", errs.ErrEOF)
	}

	if !bytes.Equal(header[0:4], prefix[:]) {
		return nil, fmt.Errorf("%w: expected packet prefix %q, found %q", errs.ErrWrongTableSchema, prefix[:], header[0:4])
	}

	engine := endian.GetLittleEndianEngine()
	unknown := engine.Uint32(header[4:8])
	length := engine.Uint64(header[8:16])

	if length < MinPayloadSize {
		return nil, fmt.Errorf("%w: payload length %d, minimum is %d", errs.ErrMalformedHeader, length, MinPayloadSize)
	}
	if length > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload length %d exceeds the format limit", errs.ErrMalformedHeader, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: UTF table", errs.ErrEOF)
	}

	p := &Packet{
		Prefix:  prefix,
		Unknown: unknown,
		Payload: payload,
	}

	if string(payload[0:4]) == section.Magic {
		return p, nil
	}

	if !cipher.CanDecrypt(payload) {
		return nil, fmt.Errorf("%w: payload carries neither the table magic nor the mask guard", errs.ErrDecryptionFailed)
	}

	cipher.ApplyInPlace(payload)
	if string(payload[0:4]) != section.Magic {
		return nil, fmt.Errorf("%w: unmasked payload lacks the table magic", errs.ErrDecryptionFailed)
	}

	p.Encrypted = true

	return p, nil
}

// Write writes the packet to w, recomputing the length field from the
// payload and masking the payload when Encrypted is set. The stored payload
// stays plaintext; masking happens in pooled scratch.
//
// Returns:
//   - error: ErrMalformedHeader if the payload is too short to be a table or
//     does not start with the table magic, or any error of w
func (p *Packet) Write(w io.Writer) error {
	if len(p.Payload) < MinPayloadSize {
		return fmt.Errorf("%w: payload holds %d bytes, minimum is %d", errs.ErrMalformedHeader, len(p.Payload), MinPayloadSize)
	}
	if string(p.Payload[0:4]) != section.Magic {
		return fmt.Errorf("%w: payload does not start with the table magic", errs.ErrMalformedHeader)
	}

	var header [HeaderSize]byte
	copy(header[0:4], p.Prefix[:])

	engine := endian.GetLittleEndianEngine()
	engine.PutUint32(header[4:8], p.Unknown)
	engine.PutUint64(header[8:16], uint64(len(p.Payload)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	if !p.Encrypted {
		_, err := w.Write(p.Payload)
		return err
	}

	scratch := pool.GetTableBuffer()
	defer pool.PutTableBuffer(scratch)

	scratch.ExtendOrGrow(len(p.Payload))
	cipher.Apply(scratch.B, p.Payload)

	_, err := scratch.WriteTo(w)

	return err
}

// Table returns a table reader over the payload.
//
// Returns:
//   - error: the table reader's construction errors
func (p *Packet) Table(opts ...table.ReaderOption) (*table.Reader, error) {
	return table.NewReaderBytes(p.Payload, opts...)
}
