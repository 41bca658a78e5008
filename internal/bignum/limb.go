package bignum

import "math"

// Limb is one machine word of a multi-precision integer. Double-width
// intermediate results are produced with math/bits (Mul64, Add64, Sub64)
// and never stored.
type Limb = uint64

// BigSize counts limbs, bits and bit offsets.
type BigSize = int

// LimbSize is the width of a Limb in bits.
const LimbSize BigSize = 64

// LimbMax is the largest value a Limb holds.
const LimbMax Limb = math.MaxUint64

// DivUp returns n/d rounded up.
func DivUp(n, d BigSize) BigSize {
	return (n + d - 1) / d
}
