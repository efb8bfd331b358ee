package classification

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// Fingerprint computes a deterministic identity for a classification.
//
// Components are hashed in sorted dimension order; each name is
// length-prefixed and each weight is written as its IEEE-754 bit pattern, so
// map iteration order and float formatting cannot influence the result.
// Identical maps always produce identical fingerprints; any change to a name
// or weight produces a different one.
func (c Classification) Fingerprint() string {
	dims := make([]string, 0, len(c))
	for d := range c {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(dims)))
	h.Write(buf[:])
	for _, d := range dims {
		binary.BigEndian.PutUint64(buf[:], uint64(len(d)))
		h.Write(buf[:])
		h.Write([]byte(d))
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(c[d]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
