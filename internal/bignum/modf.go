package bignum

import "fmt"

// FermatBig materializes 2^n+1 in DivUp(n+1, 64) limbs.
func FermatBig(n BigSize) Big {
	b := NewBigOne(DivUp(n+1, LimbSize))
	b.ShlAssign(n)
	b.AddLimb(1)
	return b
}

// ModFermatBig returns x mod 2^n+1 in DivUp(n+1, 64) limbs, for x of any
// width.
func ModFermatBig(x Pod, n BigSize) Big {
	sz := DivUp(n+1, LimbSize)
	dest := NewBig(max(x.Limbs(), sz) + 1)
	ModFermat(dest.VastMut(), x, Fermat{N: n})
	return dest.Downsized(sz)
}

// MulModFermatBig returns a*b mod 2^n+1 in DivUp(n+1, 64) limbs.
func MulModFermatBig(a, b Pod, n BigSize) Big {
	return ModFermatBig(Mul(a, b), n)
}

// InvModFermat returns the inverse of a modulo 2^n+1 with the extended
// Euclidean algorithm. a must have exactly DivUp(n+1, 64) limbs. It panics
// if a shares a factor with the modulus.
func InvModFermat(a Big, n BigSize) Big {
	b := FermatBig(n)
	sz := b.Limbs()
	if a.Limbs() != sz {
		panic(fmt.Sprintf("bignum: inverse mod Fermat(%d) needs %d limbs, got %d", n, sz, a.Limbs()))
	}
	t, newT := NewSBig(sz), NewSBigOne(sz)
	r, newR := b.Clone(), a.Clone()
	for !newR.IsZero() {
		q := Div(r, newR)

		qt := newT.MulBig(q).Downsized(sz)
		t, newT = newT, t.Sub(qt)

		qr := Mul(q, newR).Downsized(sz)
		nextR := r.Clone()
		nextR.SubAssign(qr)
		r, newR = newR, nextR
	}
	if r.Cmp(NewBigOne(1)) > 0 {
		panic(fmt.Sprintf("bignum: %s is not invertible mod Fermat(%d)", a, n))
	}
	if t.IsNegative() {
		t = t.AddBig(b)
	}
	return t.Magnitude()
}
