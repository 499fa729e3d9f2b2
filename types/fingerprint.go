package types

import (
	"encoding/hex"
	"fmt"
	"math/bits"
)

// Fingerprint is a packed bit vector, most significant bit first, row-major
type Fingerprint []byte

// NewFingerprint packs a slice of bits into a Fingerprint. Trailing bits of
// the final byte are zero padded.
func NewFingerprint(values []bool) Fingerprint {
	fp := make(Fingerprint, (len(values)+7)/8)
	for i, set := range values {
		if set {
			fp[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return fp
}

// ParseFingerprint decodes the hex form produced by String
func ParseFingerprint(s string) (Fingerprint, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	return Fingerprint(b), nil
}

// String returns the lowercase hex encoding
func (f Fingerprint) String() string {
	return hex.EncodeToString(f)
}

// Bits returns the number of bits held
func (f Fingerprint) Bits() int {
	return len(f) * 8
}

// Equal reports whether two fingerprints carry the same bits
func (f Fingerprint) Equal(other Fingerprint) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if f[i] != other[i] {
			return false
		}
	}
	return true
}

// HammingDistance counts the differing bits between two fingerprints.
// Bytes present in only one of them count as fully differing.
func HammingDistance(a, b Fingerprint) int {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}

	distance := 0
	for i := range short {
		distance += bits.OnesCount8(short[i] ^ long[i])
	}
	distance += (len(long) - len(short)) * 8
	return distance
}
