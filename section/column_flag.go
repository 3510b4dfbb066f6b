package section

import (
	"fmt"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
)

// ColumnFlag is the packed flag byte that opens every column descriptor:
// the storage kind in the high nibble and the value kind in the low nibble.
type ColumnFlag uint8

// NewColumnFlag packs a storage kind and a value kind into a flag byte.
func NewColumnFlag(storage format.StorageKind, kind format.ValueKind) ColumnFlag {
	return ColumnFlag(uint8(storage)<<4 | uint8(kind))
}

// ValueKind returns the low nibble. The result may be invalid; callers that
// need a checked kind use Validate first.
func (f ColumnFlag) ValueKind() format.ValueKind {
	return format.ValueKind(f & 0x0F)
}

// StorageKind returns the high nibble. The result may be invalid; callers
// that need a checked storage use Validate first.
func (f ColumnFlag) StorageKind() format.StorageKind {
	return format.StorageKind(f >> 4)
}

// Validate checks both nibbles against the assigned tags, value kind first.
// An unassigned nibble is a structural error, distinct from a valid nibble
// that merely differs from a caller's expectation.
//
// Returns:
//   - error: ErrInvalidColumnType or ErrInvalidColumnStorage
func (f ColumnFlag) Validate() error {
	if !f.ValueKind().IsValid() {
		return fmt.Errorf("%w: %#02x", errs.ErrInvalidColumnType, uint8(f))
	}
	if !f.StorageKind().IsValid() {
		return fmt.Errorf("%w: %#02x", errs.ErrInvalidColumnStorage, uint8(f))
	}

	return nil
}
