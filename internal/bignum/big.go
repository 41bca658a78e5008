package bignum

import (
	"fmt"
	"math/big"
	"slices"
)

// Big is an owned unsigned integer with a fixed number of limbs. Copying a
// Big value shares the limbs; use Clone for an independent copy.
type Big struct {
	limbs []Limb
}

// NewBig returns a zero Big of sz limbs. sz must be positive.
func NewBig(sz BigSize) Big {
	if sz <= 0 {
		panic(fmt.Sprintf("bignum: NewBig(%d)", sz))
	}
	return Big{limbs: make([]Limb, sz)}
}

// NewBigOne returns the value 1 in sz limbs.
func NewBigOne(sz BigSize) Big {
	b := NewBig(sz)
	b.limbs[0] = 1
	return b
}

// NewBigFromLimbs takes ownership of limbs, least significant first.
func NewBigFromLimbs(limbs ...Limb) Big {
	if len(limbs) == 0 {
		panic("bignum: NewBigFromLimbs with no limbs")
	}
	return Big{limbs: limbs}
}

// ParseHex decodes s into a Big of DivUp(len(s), 16) limbs.
func ParseHex(s string) (Big, error) {
	b := Big{limbs: make([]Limb, max(DivUp(len(s), hexDigitsPerLimb), 1))}
	if err := PodAssignHex(b.VastMut(), s); err != nil {
		return Big{}, err
	}
	return b, nil
}

// MustFromHex is ParseHex for trusted constants; it panics on error.
func MustFromHex(s string) Big {
	b, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BigExtend returns a copy of x widened (or narrowed) to sz limbs.
// Narrowing panics if a dropped limb is nonzero.
func BigExtend(x Pod, sz BigSize) Big {
	b := NewBig(sz)
	PodCopy(b, x)
	return b
}

// FromBigInt converts a non-negative math/big value into sz limbs.
func FromBigInt(x *big.Int, sz BigSize) Big {
	if x.Sign() < 0 {
		panic("bignum: negative big.Int")
	}
	b := NewBig(sz)
	words := x.Bits()
	if MinLimbs(wordsPod(words)) > sz {
		panic(fmt.Sprintf("bignum: %d-bit value does not fit in %d limbs", x.BitLen(), sz))
	}
	for i := 0; i < len(words) && i < sz; i++ {
		b.limbs[i] = Limb(words[i])
	}
	return b
}

type wordsPod []big.Word

func (w wordsPod) Limbs() BigSize { return len(w) }
func (w wordsPod) GetLimb(i BigSize) Limb { return Limb(w[i]) }

// ToBigInt converts p to a math/big value.
func ToBigInt(p Pod) *big.Int {
	words := make([]big.Word, MinLimbs(p))
	for i := range words {
		words[i] = big.Word(p.GetLimb(i))
	}
	return new(big.Int).SetBits(words)
}

func (b Big) Limbs() BigSize { return len(b.limbs) }
func (b Big) GetLimb(i BigSize) Limb { return b.limbs[i] }
func (b Big) SetLimb(i BigSize, l Limb) { b.limbs[i] = l }
func (b Big) Vast() Vast { return Vast(b.limbs) }
func (b Big) VastMut() VastMut { return VastMut(b.limbs) }
func (b Big) IsZero() bool { return IsZero(b) }
func (b Big) Bits() BigSize { return Bits(b) }
func (b Big) BitCap() BigSize { return len(b.limbs) * LimbSize }
func (b Big) LeastSig() Limb { return b.limbs[0] }
func (b Big) Cmp(o Pod) int { return PodCmp(b, o) }
func (b Big) Equal(o Pod) bool { return PodEq(b, o) }
func (b Big) Zero() { clear(b.limbs) }
func (b Big) AddAssign(a Pod) { PodAddAssign(b, a) }
func (b Big) SubAssign(a Pod) { PodSubAssign(b, a) }
func (b Big) AddLimb(l Limb) { PodAddLimb(b, l) }
func (b Big) ShlAssign(s BigSize) { PodShlAssign(b, s) }
func (b Big) ShrAssign(s BigSize) { PodShrAssign(b, s) }
func (b Big) ToBigInt() *big.Int { return ToBigInt(b) }
func (b Big) Chop(start, l BigSize) Chopped { return Chop(b, start, l) }

// Clone returns an independent copy of b.
func (b Big) Clone() Big {
	return Big{limbs: slices.Clone(b.limbs)}
}

// Downsized returns a copy of b in sz limbs. It panics if any dropped limb
// is nonzero.
func (b Big) Downsized(sz BigSize) Big {
	for i := sz; i < len(b.limbs); i++ {
		if b.limbs[i] != 0 {
			panic(fmt.Sprintf("bignum: downsizing to %d limbs drops nonzero limb %d", sz, i))
		}
	}
	return BigExtend(b, sz)
}

// SliceBits copies bits [start, start+l) of b into a new Big.
func (b Big) SliceBits(start, l BigSize) Big {
	c := Chop(b, start, l)
	out := NewBig(max(c.Limbs(), 1))
	PodCopy(out, c)
	return out
}

// String returns the uppercase hexadecimal form.
func (b Big) String() string { return ToHex(b) }

// Format implements fmt.Formatter for %x, %X, %s and %v.
func (b Big) Format(f fmt.State, verb rune) {
	s := ToHex(b)
	switch verb {
	case 'x':
		s = toLowerHex(s)
	case 'X', 's', 'v':
	default:
		fmt.Fprintf(f, "%%!%c(bignum.Big=%s)", verb, s)
		return
	}
	if f.Flag('#') {
		if verb == 'X' {
			s = "0X" + s
		} else {
			s = "0x" + s
		}
	}
	_, _ = f.Write([]byte(s))
}

func toLowerHex(s string) string {
	out := []byte(s)
	for i, c := range out {
		if 'A' <= c && c <= 'F' {
			out[i] = c + ('a' - 'A')
		}
	}
	return string(out)
}

// Mul returns a*b in a.Limbs()+b.Limbs() limbs.
func Mul(a, b Pod) Big {
	p := NewBig(max(a.Limbs()+b.Limbs(), 1))
	PodAssignMul(p, a, b)
	return p
}

// DivMod returns n/d and n%d, each with as many limbs as n.
func DivMod(n, d Pod) (q, r Big) {
	q, r = NewBig(n.Limbs()), NewBig(n.Limbs())
	PodAssignDivQR(q, r, n, d)
	return q, r
}

// Div returns n/d with as many limbs as n.
func Div(n, d Pod) Big {
	q, _ := DivMod(n, d)
	return q
}
