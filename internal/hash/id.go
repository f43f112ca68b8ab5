// Package hash wraps xxHash64 for unit fingerprints and parse-cache keys.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Float64s computes the xxHash64 of the little-endian IEEE 754 bits of vals.
// Equal inputs always produce equal IDs, so -0 and +0 hash differently.
func Float64s(vals ...float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}

// Checksum32 returns the low 32 bits of the xxHash64 of data.
func Checksum32(data []byte) uint32 {
	return uint32(xxhash.Sum64(data))
}
