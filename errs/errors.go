// Package errs defines the sentinel errors shared across the utftable
// packages and groups them into the coarse classes callers use to decide
// between "wrong schema", "corrupt data" and "truncated input".
//
// Sentinels are wrapped at the failure site with fmt.Errorf("%w: detail", ...)
// so errors.Is keeps working while the message carries the specifics.
package errs

import "errors"

// Structural errors. The input is rejected wholesale, no recovery.
var (
	// ErrMalformedHeader reports a header whose fields violate the region
	// layout invariants, or a table name reference that does not resolve.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrInvalidColumnType reports a column flag whose low nibble is not an
	// assigned value kind tag.
	ErrInvalidColumnType = errors.New("invalid column type flag")

	// ErrInvalidColumnStorage reports a column flag whose high nibble is not
	// an assigned storage kind tag.
	ErrInvalidColumnStorage = errors.New("invalid column storage flag")

	// ErrTableTooLarge reports a finished table whose table size or row
	// size does not fit its header field.
	ErrTableTooLarge = errors.New("table too large")
)

// ErrEOF reports truncated input. Wrappers name the region or value that was
// being read, e.g. "unexpected end of data: UTF column data".
var ErrEOF = errors.New("unexpected end of data")

// Schema mismatch errors. The buffer is a structurally valid table that does
// not match the caller's expectation; callers may probe alternate schemas.
var (
	ErrWrongColumnName    = errors.New("wrong column name")
	ErrWrongColumnType    = errors.New("wrong column type")
	ErrWrongColumnStorage = errors.New("wrong column storage")
	ErrWrongTableSchema   = errors.New("wrong table schema")

	// ErrLayoutAlreadyRegistered reports a second registration of the same
	// layout shape in a registry.
	ErrLayoutAlreadyRegistered = errors.New("layout already registered")
)

// Data integrity errors. The table's row or column data disagrees with its
// own string or blob pool.
var (
	// ErrStringNotFound reports a string offset that is not the start of a
	// pool entry.
	ErrStringNotFound = errors.New("string not found in string pool")

	// ErrStringMalformed reports invalid UTF-8 inside the string pool.
	ErrStringMalformed = errors.New("string pool contains invalid UTF-8")

	// ErrBlobNotFound reports a blob (offset, length) pair that runs past
	// the end of the blob pool.
	ErrBlobNotFound = errors.New("blob not found in blob pool")
)

// Conversion errors. A value failed to convert to or from its primitive.
var (
	ErrValueConversion = errors.New("value conversion failed")

	// ErrWrongBlobSize reports a decoded blob whose length differs from the
	// fixed size a ByteArray value declares.
	ErrWrongBlobSize = errors.New("wrong blob size")
)

// ErrDecryptionFailed reports a packet payload that is neither a plaintext
// table nor a recognizable masked one.
var ErrDecryptionFailed = errors.New("decryption failed")

// Write consistency errors. The writer refuses to emit a corrupt table.
var (
	// ErrRowDataSizeMismatch reports a finished row buffer whose length does
	// not equal the declared row size times row count.
	ErrRowDataSizeMismatch = errors.New("row data size mismatch")

	// ErrOptionalColumnConflict reports an optional rowed column with a mix
	// of present and absent values across rows.
	ErrOptionalColumnConflict = errors.New("optional column has mixed present and absent values")

	// ErrTooManyColumns reports a writer that exceeded the 16-bit field
	// count of the table header.
	ErrTooManyColumns = errors.New("too many columns")
)
