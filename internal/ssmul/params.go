package ssmul

import (
	"math"
	"math/bits"

	"github.com/agbru/prothcalc/internal/bignum"
)

// DefaultThreshold is the product width, in bits, at or below which the
// schoolbook multiplier is used instead of a transform.
const DefaultThreshold bignum.BigSize = 512

// maxK bounds the transform length 2^k tried by PickNkn and PickModN.
const maxK = 16

// Params describes one transform level: operands are cut into 2^K pieces
// of N/2^K bits, multiplied modulo 2^N+1 through pointwise products modulo
// 2^SubN+1.
type Params struct {
	N    bignum.BigSize
	K    int
	SubN bignum.BigSize
}

// UsesTransform reports whether the level splits its operands at all.
func (p Params) UsesTransform() bool { return p.K != 0 }

// NextPowerOfTwo returns the smallest power of two strictly greater than x.
func NextPowerOfTwo(x bignum.BigSize) bignum.BigSize {
	return 1 << bits.Len(uint(x))
}

// FitInPowerOfTwo returns the smallest power of two that is >= x.
func FitInPowerOfTwo(x bignum.BigSize) bignum.BigSize {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}

// Divides reports whether n divides d.
func Divides(n, d bignum.BigSize) bool {
	return d%n == 0
}

// splitOrder is the transform order a modulus of about n bits is aligned
// for, roughly the square root of its width in limbs.
func splitOrder(n bignum.BigSize) int {
	return max(3, min(maxK, (bits.Len(uint(n))-5)/2))
}

// FitModulus rounds m up to a pointwise modulus exponent usable below a
// length-2^k transform. Above DefaultThreshold the result is also a
// multiple of 64*2^splitOrder(m), so the next level can split it into
// whole-limb pieces.
func FitModulus(m bignum.BigSize, k int) bignum.BigSize {
	grain := bignum.BigSize(1) << k
	if m > DefaultThreshold {
		grain = max(grain, bignum.BigSize(bignum.LimbSize)<<splitOrder(m))
	}
	return bignum.DivUp(m, grain) * grain
}

// PickKn computes the pointwise modulus exponent for splitting N bits into
// 2^k pieces. It returns false when the split is structurally impossible:
// 2^k must divide N and each piece must be a whole number of limbs.
//
// A coefficient of the negacyclic convolution lies strictly between
// -2^k*2^(2N/2^k) and 2^k*2^(2N/2^k), so n holds 2*(N/2^k)+k+1 bits and
// residues above 2^(n-1) read as negative.
func PickKn(N bignum.BigSize, k int) (bignum.BigSize, bool) {
	twok := bignum.BigSize(1) << k
	if !Divides(twok, N) || (N/twok)%bignum.LimbSize != 0 {
		return 0, false
	}
	return FitModulus(2*N/twok+bignum.BigSize(k)+1, k), true
}

// levelCost estimates the limb operations of one product through a level:
// three quadratic transforms of 2^k coefficients, the linear passes, and
// two products per coefficient in the level below.
func levelCost(p Params, memo map[bignum.BigSize]float64) float64 {
	twok := float64(int(1) << p.K)
	w := float64(bignum.DivUp(p.SubN+1, bignum.LimbSize))
	return 3*twok*twok*w + 8*twok*w + 2*twok*modNCost(p.SubN, memo)
}

func modNCost(n bignum.BigSize, memo map[bignum.BigSize]float64) float64 {
	if n <= DefaultThreshold {
		w := float64(bignum.DivUp(n+1, bignum.LimbSize))
		return 2 * w * w
	}
	if c, ok := memo[n]; ok {
		return c
	}
	c := math.Inf(1)
	if p := pickModN(n, memo); p.UsesTransform() {
		c = levelCost(p, memo)
	}
	memo[n] = c
	return c
}

// PickNkn chooses the transform for exact products of pBits bits. At or
// below DefaultThreshold it returns Params{N: pBits}, meaning no transform.
//
// Candidate lengths N run from pBits up to 2*pBits in steps that keep N a
// multiple of 512. A candidate is accepted when n <= N/2 and n < pBits, so
// the recursion shrinks. Among those the cheapest chain wins.
func PickNkn(pBits bignum.BigSize) Params {
	if pBits <= DefaultThreshold {
		return Params{N: pBits}
	}
	memo := make(map[bignum.BigSize]float64)
	var best Params
	bestCost := math.Inf(1)
	for N := pBits; N < 2*pBits; N = (N/512 + 1) * 512 {
		for k := 1; k <= maxK; k++ {
			twok := bignum.BigSize(1) << k
			if twok > pBits {
				break
			}
			n, ok := PickKn(N, k)
			if !ok {
				break
			}
			if n > N/2 || n >= pBits {
				continue
			}
			p := Params{N: N, K: k, SubN: n}
			if c := levelCost(p, memo); c < bestCost {
				best, bestCost = p, c
			}
		}
	}
	return best
}

// PickModN chooses the transform for products modulo 2^n+1. The level
// works over n itself, so the weighted transform yields the product mod
// 2^n+1 directly. It returns Params{N: n} when no split shrinks the
// modulus to at most n/2.
func PickModN(n bignum.BigSize) Params {
	return pickModN(n, make(map[bignum.BigSize]float64))
}

func pickModN(n bignum.BigSize, memo map[bignum.BigSize]float64) Params {
	best := Params{N: n}
	bestCost := math.Inf(1)
	for k := 1; k <= maxK; k++ {
		sub, ok := PickKn(n, k)
		if !ok {
			break
		}
		if sub > n/2 {
			continue
		}
		p := Params{N: n, K: k, SubN: sub}
		if c := levelCost(p, memo); c < bestCost {
			best, bestCost = p, c
		}
	}
	return best
}
