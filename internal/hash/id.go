// Package hash provides the stable 64-bit string hash used for schema
// fingerprints.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. The result is stable across
// processes and platforms, so fingerprints may be persisted and compared.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
