package allocation

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/rand"
)

// NewSeed generates an opaque shuffle seed from the system's secure
// random source.  The seed is generated exactly once, at run creation,
// and stored verbatim; from then on it is the run's only entropy source.
func NewSeed() (string, error) {
	buf := make([]byte, 16)
	if _, err := crand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// seedSource expands an opaque seed string into a 64-bit PRNG seed.
// Hashing first keeps the derivation independent of the seed's length
// and format.
func seedSource(seed string) int64 {
	sum := sha256.Sum256([]byte(seed))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Shuffle returns a new slice holding the students permuted by a
// Fisher–Yates shuffle driven by the seed.  The input is not modified.
// Identical (students, seed) always yields the identical permutation.
func Shuffle(students []Student, seed string) []Student {
	out := make([]Student, len(students))
	copy(out, students)
	rng := rand.New(rand.NewSource(seedSource(seed)))
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
