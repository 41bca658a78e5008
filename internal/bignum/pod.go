package bignum

import (
	"fmt"
	"math/bits"
)

// Pod is anything that reads like a little-endian limb vector of fixed
// length.
type Pod interface {
	Limbs() BigSize
	GetLimb(i BigSize) Limb
}

// PodMut is a Pod whose limbs can be written.
type PodMut interface {
	Pod
	SetLimb(i BigSize, l Limb)
}

// limbAt returns limb i of p, or 0 past its end.
func limbAt(p Pod, i BigSize) Limb {
	if i < 0 || i >= p.Limbs() {
		return 0
	}
	return p.GetLimb(i)
}

// MinLimbs returns the number of limbs up to and including the most
// significant nonzero one. It is 0 for zero.
func MinLimbs(p Pod) BigSize {
	for i := p.Limbs() - 1; i >= 0; i-- {
		if p.GetLimb(i) != 0 {
			return i + 1
		}
	}
	return 0
}

// Bits returns the bit length of p. It is 0 for zero.
func Bits(p Pod) BigSize {
	m := MinLimbs(p)
	if m == 0 {
		return 0
	}
	return (m-1)*LimbSize + bits.Len64(p.GetLimb(m-1))
}

// IsZero reports whether every limb of p is zero.
func IsZero(p Pod) bool {
	return MinLimbs(p) == 0
}

// PodCmp compares the magnitudes of a and b, zero-extending the shorter
// one. It returns -1, 0 or +1.
func PodCmp(a, b Pod) int {
	n := max(a.Limbs(), b.Limbs())
	for i := n - 1; i >= 0; i-- {
		x, y := limbAt(a, i), limbAt(b, i)
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// PodEq reports whether a and b hold the same value.
func PodEq(a, b Pod) bool {
	return PodCmp(a, b) == 0
}

// PodZero clears every limb of dest.
func PodZero(dest PodMut) {
	if s, ok := limbsOf(dest); ok {
		clear(s)
		return
	}
	for i := range dest.Limbs() {
		dest.SetLimb(i, 0)
	}
}

// PodCopy assigns src to dest, zero-extending. It panics if src has
// significant limbs past the end of dest.
func PodCopy(dest PodMut, src Pod) {
	if m := MinLimbs(src); m > dest.Limbs() {
		panic(fmt.Sprintf("bignum: copy of %d significant limbs into %d", m, dest.Limbs()))
	}
	for i := range dest.Limbs() {
		dest.SetLimb(i, limbAt(src, i))
	}
}

// PodAddLimb adds a single limb to dest.
func PodAddLimb(dest PodMut, l Limb) {
	carry := l
	for i := 0; carry != 0; i++ {
		if i == dest.Limbs() {
			panic("bignum: add overflow")
		}
		var v Limb
		v, carry = bits.Add64(dest.GetLimb(i), carry, 0)
		dest.SetLimb(i, v)
	}
}

// PodAddAssign sets dest += a. It panics if the sum needs more limbs than
// dest has.
func PodAddAssign(dest PodMut, a Pod) {
	n, an := dest.Limbs(), a.Limbs()
	var carry Limb
	if d, ok := limbsOf(dest); ok {
		if s, ok := limbsOf(a); ok {
			i := 0
			for ; i < min(n, an); i++ {
				d[i], carry = bits.Add64(d[i], s[i], carry)
			}
			for ; carry != 0 && i < n; i++ {
				d[i], carry = bits.Add64(d[i], 0, carry)
			}
			checkAddTail(carry, a, n)
			return
		}
	}
	for i := 0; i < n; i++ {
		if i >= an && carry == 0 {
			break
		}
		var v Limb
		v, carry = bits.Add64(dest.GetLimb(i), limbAt(a, i), carry)
		dest.SetLimb(i, v)
	}
	checkAddTail(carry, a, n)
}

func checkAddTail(carry Limb, a Pod, n BigSize) {
	if carry != 0 {
		panic("bignum: add overflow")
	}
	for i := n; i < a.Limbs(); i++ {
		if a.GetLimb(i) != 0 {
			panic(fmt.Sprintf("bignum: addend limb %d beyond destination of %d limbs", i, n))
		}
	}
}

// PodSubAssign sets dest -= a. It panics on underflow.
func PodSubAssign(dest PodMut, a Pod) {
	n, an := dest.Limbs(), a.Limbs()
	for i := n; i < an; i++ {
		if a.GetLimb(i) != 0 {
			panic("bignum: subtract underflow")
		}
	}
	var borrow Limb
	if d, ok := limbsOf(dest); ok {
		if s, ok := limbsOf(a); ok {
			i := 0
			for ; i < min(n, an); i++ {
				d[i], borrow = bits.Sub64(d[i], s[i], borrow)
			}
			for ; borrow != 0 && i < n; i++ {
				d[i], borrow = bits.Sub64(d[i], 0, borrow)
			}
			if borrow != 0 {
				panic("bignum: subtract underflow")
			}
			return
		}
	}
	for i := 0; i < n; i++ {
		if i >= an && borrow == 0 {
			break
		}
		var v Limb
		v, borrow = bits.Sub64(dest.GetLimb(i), limbAt(a, i), borrow)
		dest.SetLimb(i, v)
	}
	if borrow != 0 {
		panic("bignum: subtract underflow")
	}
}

// PodBackwardsSubAssign sets dest = a - dest. It panics if the difference
// is negative or does not fit in dest.
func PodBackwardsSubAssign(dest PodMut, a Pod) {
	n := dest.Limbs()
	var borrow Limb
	for i := 0; i < n; i++ {
		var v Limb
		v, borrow = bits.Sub64(limbAt(a, i), dest.GetLimb(i), borrow)
		dest.SetLimb(i, v)
	}
	for i := n; i < a.Limbs(); i++ {
		var v Limb
		v, borrow = bits.Sub64(a.GetLimb(i), 0, borrow)
		if v != 0 {
			panic("bignum: difference does not fit in destination")
		}
	}
	if borrow != 0 {
		panic("bignum: subtract underflow")
	}
}

// PodAssignMul sets dest = a * b with schoolbook multiplication. dest must
// not share memory with either operand and must have at least
// MinLimbs(a)+MinLimbs(b) limbs.
func PodAssignMul(dest PodMut, a, b Pod) {
	ma, mb := MinLimbs(a), MinLimbs(b)
	if dest.Limbs() < ma+mb {
		panic(fmt.Sprintf("bignum: product of %d and %d limbs into %d", ma, mb, dest.Limbs()))
	}
	d, dok := limbsOf(dest)
	x, xok := limbsOf(a)
	y, yok := limbsOf(b)
	if xok {
		AssertDisjoint(d, x)
	}
	if yok {
		AssertDisjoint(d, y)
	}
	if dok && xok && yok {
		clear(d)
		for i := 0; i < ma; i++ {
			ai := x[i]
			if ai == 0 {
				continue
			}
			var carry Limb
			for j := 0; j < mb; j++ {
				hi, lo := bits.Mul64(ai, y[j])
				var c Limb
				lo, c = bits.Add64(lo, d[i+j], 0)
				hi += c
				lo, c = bits.Add64(lo, carry, 0)
				hi += c
				d[i+j] = lo
				carry = hi
			}
			d[i+mb] = carry
		}
		return
	}
	PodZero(dest)
	for i := 0; i < ma; i++ {
		ai := a.GetLimb(i)
		var carry Limb
		for j := 0; j < mb; j++ {
			hi, lo := bits.Mul64(ai, b.GetLimb(j))
			var c Limb
			lo, c = bits.Add64(lo, dest.GetLimb(i+j), 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			dest.SetLimb(i+j, lo)
			carry = hi
		}
		dest.SetLimb(i+mb, carry)
	}
}

// PodAssignDivQR sets q = n / d and r = n % d using binary long division.
// It panics if d is zero or a result does not fit.
func PodAssignDivQR(q, r PodMut, n, d Pod) {
	md := MinLimbs(d)
	if md == 0 {
		panic("bignum: division by zero")
	}
	div := make([]Limb, md)
	for i := range div {
		div[i] = d.GetLimb(i)
	}
	// rem < d holds between steps, so rem<<1|bit fits in one extra limb.
	rem := make([]Limb, md+1)
	quo := make([]Limb, max(MinLimbs(n), 1))
	for bit := Bits(n) - 1; bit >= 0; bit-- {
		in := (limbAt(n, bit/LimbSize) >> (bit % LimbSize)) & 1
		for i := range rem {
			top := rem[i] >> (LimbSize - 1)
			rem[i] = rem[i]<<1 | in
			in = top
		}
		if PodCmp(Vast(rem), Vast(div)) >= 0 {
			PodSubAssign(VastMut(rem), Vast(div))
			quo[bit/LimbSize] |= 1 << (bit % LimbSize)
		}
	}
	PodCopy(q, Vast(quo))
	PodCopy(r, Vast(rem))
}

// PodShlAssign shifts dest left by s bits. It panics if significant bits
// would be shifted out.
func PodShlAssign(dest PodMut, s BigSize) {
	checkShl(Bits(dest), s, dest.Limbs())
	if s == 0 {
		return
	}
	ls, bs := s/LimbSize, uint(s%LimbSize)
	if d, ok := limbsOf(dest); ok {
		for i := len(d) - 1; i >= 0; i-- {
			j := i - ls
			var v Limb
			if j >= 0 {
				v = d[j] << bs
				if bs != 0 && j > 0 {
					v |= d[j-1] >> (uint(LimbSize) - bs)
				}
			}
			d[i] = v
		}
		return
	}
	for i := dest.Limbs() - 1; i >= 0; i-- {
		dest.SetLimb(i, shlLimb(dest, i-ls, bs))
	}
}

// PodShrAssign shifts dest right by s bits, filling with zeros.
func PodShrAssign(dest PodMut, s BigSize) {
	if s == 0 {
		return
	}
	ls, bs := s/LimbSize, uint(s%LimbSize)
	for i := range dest.Limbs() {
		v := limbAt(dest, i+ls) >> bs
		if bs != 0 {
			v |= limbAt(dest, i+ls+1) << (uint(LimbSize) - bs)
		}
		dest.SetLimb(i, v)
	}
}

// PodAssignShl sets dest = src << s. dest must not share memory with src.
func PodAssignShl(dest PodMut, src Pod, s BigSize) {
	checkShl(Bits(src), s, dest.Limbs())
	ls, bs := s/LimbSize, uint(s%LimbSize)
	d, dok := limbsOf(dest)
	x, xok := limbsOf(src)
	if dok && xok {
		AssertDisjoint(d, x)
		clear(d[:min(ls, len(d))])
		for i := ls; i < len(d); i++ {
			j := i - ls
			var v Limb
			if j < len(x) {
				v = x[j] << bs
			}
			if bs != 0 && j > 0 && j-1 < len(x) {
				v |= x[j-1] >> (uint(LimbSize) - bs)
			}
			d[i] = v
		}
		return
	}
	for i := range dest.Limbs() {
		dest.SetLimb(i, shlLimb(src, i-ls, bs))
	}
}

// shlLimb returns the limb that lands on position j+ls after shifting p
// left by ls limbs and bs bits.
func shlLimb(p Pod, j BigSize, bs uint) Limb {
	v := limbAt(p, j) << bs
	if bs != 0 {
		v |= limbAt(p, j-1) >> (uint(LimbSize) - bs)
	}
	return v
}

func checkShl(bitLen, s, limbs BigSize) {
	if bitLen != 0 && bitLen+s > limbs*LimbSize {
		panic(fmt.Sprintf("bignum: shift of %d bits by %d exceeds %d limbs", bitLen, s, limbs))
	}
}
