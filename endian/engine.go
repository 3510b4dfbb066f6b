// Package endian provides byte order utilities for binary encoding and decoding.
//
// The UTF table format stores every multi-byte integer big-endian regardless
// of host byte order, while the packet envelope stores its unknown and length
// fields little-endian. Both call sites share the EndianEngine interface,
// which combines ByteOrder and AppendByteOrder from encoding/binary so the
// same engine value serves slice reads, slice writes and appends.
//
// # Usage
//
//	engine := endian.GetBigEndianEngine()
//	size := engine.Uint32(buf[4:8])
//	buf = engine.AppendUint32(buf, size)
//
// # Thread Safety
//
// The returned EndianEngine instances are immutable and stateless, safe for
// concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for convenient byte order
// operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine. All UTF table headers,
// column flags, offsets and values use this order on the wire.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine. The packet
// envelope's unknown and length fields and the cipher guard use this order.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
