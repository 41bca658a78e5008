package bignum

import "fmt"

// Fermat is the value 2^N+1 as a Pod, without storage.
type Fermat struct {
	N BigSize
}

// Limbs returns DivUp(N+1, 64).
func (f Fermat) Limbs() BigSize {
	return DivUp(f.N+1, LimbSize)
}

// GetLimb returns limb i of 2^N+1.
func (f Fermat) GetLimb(i BigSize) Limb {
	if i < 0 || i >= f.Limbs() {
		panic(fmt.Sprintf("bignum: Fermat(%d) limb %d out of range", f.N, i))
	}
	var v Limb
	if i == 0 {
		v = 1
	}
	if i == f.N/LimbSize {
		v += 1 << uint(f.N%LimbSize)
	}
	return v
}

func (f Fermat) String() string { return ToHex(f) }

// ModFermat sets dest = src mod 2^N+1, with the result in [0, 2^N].
//
// src is cut into N-bit digits; since 2^N = -1 mod 2^N+1 the even digits
// are added and the odd ones subtracted, then corrections by f bring the
// value into range. Up to three digits need at most one correction, and
// each further pair of digits adds at most one more. dest needs room for
// that alternating sum and for 2^N itself.
func ModFermat(dest VastMut, src Pod, f Fermat) {
	n := f.N
	acc := SVast{V: dest}
	acc.Zero()
	srcBits := Bits(src)
	iters := DivUp(srcBits, n)
	for i := 0; i < iters; i++ {
		chunk := min(n, srcBits-n*i)
		if chunk <= 0 {
			break
		}
		digit := Chop(src, n*i, chunk)
		if i%2 == 0 {
			acc.AddAssign(digit)
		} else {
			acc.SubAssign(digit)
		}
	}
	for acc.IsNegative() {
		acc.AddAssign(f)
	}
	for PodCmp(dest, f) >= 0 {
		acc.SubAssign(f)
	}
}

// MulModFermat sets dest = a*b mod f, using work for the full product.
// work must not overlap dest, a or b.
func MulModFermat(dest VastMut, a, b Pod, f Fermat, work VastMut) {
	PodAssignMul(work, a, b)
	ModFermat(dest, work, f)
}

// MulModFermatAssign sets a = a*b mod f, using work for the full product.
func MulModFermatAssign(a VastMut, b Pod, f Fermat, work VastMut) {
	PodAssignMul(work, a, b)
	ModFermat(a, work, f)
}
