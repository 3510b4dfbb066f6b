package errs

import "errors"

// Class is the coarse error taxonomy. Every sentinel in this package belongs
// to exactly one class; ClassOf lets callers branch on the category without
// matching sentinel by sentinel.
type Class uint8

const (
	ClassUnknown          Class = iota // ClassUnknown is an error from outside this package.
	ClassStructural                    // ClassStructural: malformed header or invalid flag nibble.
	ClassTruncatedInput                // ClassTruncatedInput: end of data while reading a named field.
	ClassSchemaMismatch                // ClassSchemaMismatch: valid table, wrong shape.
	ClassDataIntegrity                 // ClassDataIntegrity: data disagrees with its own pools.
	ClassConversion                    // ClassConversion: value layer conversion failed.
	ClassCipher                        // ClassCipher: payload is neither plaintext nor ciphertext.
	ClassWriteConsistency              // ClassWriteConsistency: writer would emit a corrupt file.
)

func (c Class) String() string {
	switch c {
	case ClassStructural:
		return "Structural"
	case ClassTruncatedInput:
		return "TruncatedInput"
	case ClassSchemaMismatch:
		return "SchemaMismatch"
	case ClassDataIntegrity:
		return "DataIntegrity"
	case ClassConversion:
		return "Conversion"
	case ClassCipher:
		return "Cipher"
	case ClassWriteConsistency:
		return "WriteConsistency"
	default:
		return "Unknown"
	}
}

var classes = []struct {
	err   error
	class Class
}{
	{ErrMalformedHeader, ClassStructural},
	{ErrInvalidColumnType, ClassStructural},
	{ErrInvalidColumnStorage, ClassStructural},
	{ErrTableTooLarge, ClassStructural},
	{ErrEOF, ClassTruncatedInput},
	{ErrWrongColumnName, ClassSchemaMismatch},
	{ErrWrongColumnType, ClassSchemaMismatch},
	{ErrWrongColumnStorage, ClassSchemaMismatch},
	{ErrWrongTableSchema, ClassSchemaMismatch},
	{ErrLayoutAlreadyRegistered, ClassSchemaMismatch},
	{ErrStringNotFound, ClassDataIntegrity},
	{ErrStringMalformed, ClassDataIntegrity},
	{ErrBlobNotFound, ClassDataIntegrity},
	{ErrValueConversion, ClassConversion},
	{ErrWrongBlobSize, ClassConversion},
	{ErrDecryptionFailed, ClassCipher},
	{ErrRowDataSizeMismatch, ClassWriteConsistency},
	{ErrOptionalColumnConflict, ClassWriteConsistency},
	{ErrTooManyColumns, ClassWriteConsistency},
}

// ClassOf returns the class of err, unwrapping as needed. Errors that do not
// wrap one of this package's sentinels report ClassUnknown.
func ClassOf(err error) Class {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.class
		}
	}

	return ClassUnknown
}
