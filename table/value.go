package table

import (
	"fmt"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
)

// Value converts a domain type to and from a primitive of a fixed kind.
// Native Go types do not need it; it exists for types with an extra
// validation step, like fixed-size blobs.
//
//	var digest table.ByteArray
//	digest.Size = 16
//	p, err := rd.ReadRowValue(format.KindBlob)
//	if err == nil {
//		err = digest.FromPrimitive(p)
//	}
type Value interface {
	// Kind returns the value kind the conversion targets.
	Kind() format.ValueKind

	// ToPrimitive converts the value into a present primitive of Kind.
	ToPrimitive() (Primitive, error)

	// FromPrimitive fills the value from a primitive of Kind.
	FromPrimitive(Primitive) error
}

// ByteArray is a blob value with a fixed byte length, for columns that store
// hashes, keys or other fixed-width records. Both conversion directions
// reject data of any other length.
type ByteArray struct {
	// Size is the required byte length.
	Size int
	// Data holds exactly Size bytes once filled.
	Data []byte
}

// Kind returns KindBlob.
func (a *ByteArray) Kind() format.ValueKind {
	return format.KindBlob
}

// ToPrimitive converts the array into a blob primitive.
//
// Returns:
//   - error: ErrWrongBlobSize if Data is not exactly Size bytes
func (a *ByteArray) ToPrimitive() (Primitive, error) {
	if len(a.Data) != a.Size {
		return Primitive{}, fmt.Errorf("%w: found %d, expected %d", errs.ErrWrongBlobSize, len(a.Data), a.Size)
	}

	return Blob(a.Data), nil
}

// FromPrimitive fills the array from a blob primitive.
//
// Returns:
//   - error: ErrValueConversion if p is not a present blob,
//     ErrWrongBlobSize if the blob is not exactly Size bytes
func (a *ByteArray) FromPrimitive(p Primitive) error {
	data, err := p.AsBlob()
	if err != nil {
		return err
	}
	if len(data) != a.Size {
		return fmt.Errorf("%w: found %d, expected %d", errs.ErrWrongBlobSize, len(data), a.Size)
	}

	a.Data = data

	return nil
}
