package section

import (
	"fmt"

	"github.com/cridata/utftable/endian"
	"github.com/cridata/utftable/errs"
)

// PrimaryHeader represents the fixed 8-byte header at the start of every
// serialized table: the ASCII magic "@UTF" followed by the big-endian total
// table size. The size counts everything after the primary header itself,
// i.e. the table header plus the four data regions.
type PrimaryHeader struct {
	// TableSize is the byte length of the table body following this header.
	TableSize uint32 // byte offset 4-7
}

// Parse parses the primary header from a byte slice.
//
// Returns:
//   - error: ErrEOF if data is shorter than 8 bytes or the declared size
//     cannot hold a table header, ErrMalformedHeader if the magic is wrong
func (h *PrimaryHeader) Parse(data []byte) error {
	if len(data) < PrimaryHeaderSize {
		return fmt.Errorf("%w: @UTF header", errs.ErrEOF)
	}

	if string(data[0:4]) != Magic {
		return fmt.Errorf("%w: missing @UTF magic", errs.ErrMalformedHeader)
	}

	h.TableSize = endian.GetBigEndianEngine().Uint32(data[4:8])

	// A table body always starts with the 24-byte table header.
	if h.TableSize < TableHeaderSize {
		return fmt.Errorf("%w: @UTF header", errs.ErrEOF)
	}

	return nil
}

// Bytes serializes the primary header into a fresh 8-byte slice.
func (h *PrimaryHeader) Bytes() []byte {
	b := make([]byte, PrimaryHeaderSize)
	copy(b[0:4], Magic)
	endian.GetBigEndianEngine().PutUint32(b[4:8], h.TableSize)

	return b
}
