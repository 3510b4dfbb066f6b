package table

import (
	"fmt"
	"math"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/format"
)

// Native is the closed set of Go types with a direct value kind mapping.
// Types outside this set implement the Value interface instead.
type Native interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | string | []byte
}

// kindOf maps a native type to its value kind. The constraint is closed, so
// the switch is exhaustive.
func kindOf[T Native]() format.ValueKind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return format.KindU8
	case int8:
		return format.KindI8
	case uint16:
		return format.KindU16
	case int16:
		return format.KindI16
	case uint32:
		return format.KindU32
	case int32:
		return format.KindI32
	case uint64:
		return format.KindU64
	case int64:
		return format.KindI64
	case float32:
		return format.KindF32
	case string:
		return format.KindStr
	default:
		return format.KindBlob
	}
}

// fromNative wraps a native value in a present primitive of its kind.
func fromNative[T Native](v T) Primitive {
	switch v := any(v).(type) {
	case uint8:
		return U8(v)
	case int8:
		return I8(v)
	case uint16:
		return U16(v)
	case int16:
		return I16(v)
	case uint32:
		return U32(v)
	case int32:
		return I32(v)
	case uint64:
		return U64(v)
	case int64:
		return I64(v)
	case float32:
		return F32(v)
	case string:
		return Str(v)
	default:
		return Blob(v.([]byte))
	}
}

// toNative unwraps a primitive into a native value of the matching kind.
//
// Returns:
//   - error: ErrValueConversion if the primitive is absent or of a
//     different kind
func toNative[T Native](p Primitive) (T, error) {
	var zero T
	if !p.present {
		return zero, fmt.Errorf("%w: absent value to %s", errs.ErrValueConversion, kindOf[T]())
	}
	if p.kind != kindOf[T]() {
		return zero, fmt.Errorf("%w: %s to %s", errs.ErrValueConversion, p.kind, kindOf[T]())
	}

	switch dst := any(&zero).(type) {
	case *uint8:
		*dst = uint8(p.num)
	case *int8:
		*dst = int8(p.num)
	case *uint16:
		*dst = uint16(p.num)
	case *int16:
		*dst = int16(p.num)
	case *uint32:
		*dst = uint32(p.num)
	case *int32:
		*dst = int32(p.num)
	case *uint64:
		*dst = p.num
	case *int64:
		*dst = int64(p.num)
	case *float32:
		*dst = math.Float32frombits(uint32(p.num))
	case *string:
		*dst = p.str
	case *[]byte:
		*dst = p.blob
	}

	return zero, nil
}

// ReadConstant reads the next column as a required constant of T's kind.
//
//	count, err := table.ReadConstant[uint64](rd, "FileCount")
func ReadConstant[T Native](r *Reader, name string) (T, error) {
	p, err := r.ReadConstantColumn(name, kindOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}

	return toNative[T](p)
}

// ReadConstantOpt reads the next column as an optional constant of T's kind.
// The bool reports whether the column carried a value.
func ReadConstantOpt[T Native](r *Reader, name string) (T, bool, error) {
	var zero T
	p, err := r.ReadConstantColumnOpt(name, kindOf[T]())
	if err != nil {
		return zero, false, err
	}
	if !p.Present() {
		return zero, false, nil
	}

	v, err := toNative[T](p)
	if err != nil {
		return zero, false, err
	}

	return v, true, nil
}

// ReadRowed reads the next column as a required rowed column of T's kind.
// The row values themselves are read later, one per row, with ReadRowValue.
func ReadRowed[T Native](r *Reader, name string) error {
	return r.ReadRowedColumn(name, kindOf[T]())
}

// ReadRowedOpt reads the next column as an optional rowed column of T's
// kind. The bool reports whether the column is included in the row records.
func ReadRowedOpt[T Native](r *Reader, name string) (bool, error) {
	return r.ReadRowedColumnOpt(name, kindOf[T]())
}

// ReadZero reads the next column as a zero storage placeholder of T's kind.
func ReadZero[T Native](r *Reader, name string) error {
	return r.ReadZeroColumn(name, kindOf[T]())
}

// ReadRowValue reads the next cell of the current row as a T.
func ReadRowValue[T Native](r *Reader) (T, error) {
	p, err := r.ReadRowValue(kindOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}

	return toNative[T](p)
}

// PushConstant appends a required constant column holding v.
func PushConstant[T Native](w *Writer, name string, v T) error {
	return w.PushConstantColumn(name, fromNative(v))
}

// PushConstantOpt appends an optional constant column. A nil v emits zero
// storage, a non-nil v emits a constant.
func PushConstantOpt[T Native](w *Writer, name string, v *T) error {
	if v == nil {
		return w.PushConstantColumnOpt(name, kindOf[T](), Primitive{})
	}

	return w.PushConstantColumnOpt(name, kindOf[T](), fromNative(*v))
}

// PushRowed appends a required rowed column of T's kind.
func PushRowed[T Native](w *Writer, name string) error {
	return w.PushRowedColumn(name, kindOf[T]())
}

// PushRowedOpt appends an optional rowed column of T's kind. An excluded
// column emits zero storage and contributes no bytes to the row records.
func PushRowedOpt[T Native](w *Writer, name string, included bool) error {
	return w.PushRowedColumnOpt(name, kindOf[T](), included)
}

// PushZero appends a zero storage placeholder column of T's kind.
func PushZero[T Native](w *Writer, name string) error {
	return w.PushZeroColumn(name, kindOf[T]())
}

// WriteRowValue appends v to the current row record.
func WriteRowValue[T Native](w *Writer, v T) error {
	return w.WriteRowValue(fromNative(v))
}
