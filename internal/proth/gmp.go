//go:build gmp

// GMP-backed testers, compiled only with -tags=gmp. They need libgmp:
//   - Linux: sudo apt-get install libgmp-dev (Debian/Ubuntu)
//   - macOS: brew install gmp

package proth

import (
	"context"
	"math/big"
	"time"

	"github.com/ncw/gmp"
)

func init() {
	RegisterTester("gmp_simple", func() Tester { return GMPSimpleTester{} })
	RegisterTester("gmp_medium", func() Tester { return GMPMediumTester{} })
	RegisterTester("gmp_low", func() Tester { return GMPLowTester{} })
	RegisterTester("gmp_barrett", func() Tester { return GMPBarrettTester{} })
}

func toGMP(x *big.Int) *gmp.Int {
	return new(gmp.Int).SetBytes(x.Bytes())
}

func fromGMP(g *gmp.Int) *big.Int {
	return new(big.Int).SetBytes(g.Bytes())
}

// GMPSimpleTester calls mpz_powm through gmp.Int.Exp.
type GMPSimpleTester struct{}

func (GMPSimpleTester) Name() string { return "gmp_simple" }

func (GMPSimpleTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	rep := newStepReporter(progress, idx, 1)
	r := new(gmp.Int).Exp(gmp.NewInt(Base), toGMP(n.HalfExponent()), toGMP(n.Int()))
	rep.Done()
	return NewResult(n, fromGMP(r), time.Since(start)), nil
}

// gmpLoop runs right-to-left square-and-multiply over GMP integers. mulMod
// sets z = x*y mod N.
func gmpLoop(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int, mulMod func(z, x, y *gmp.Int)) (Result, error) {
	start := time.Now()
	exp := n.HalfExponent()
	bits := exp.BitLen()
	rep := newStepReporter(progress, idx, bits)

	rr := gmp.NewInt(1)
	ai, aj := gmp.NewInt(Base), gmp.NewInt(0)
	for i := 0; i < bits; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if exp.Bit(i) == 1 {
			mulMod(rr, rr, ai)
		}
		mulMod(aj, ai, ai)
		ai, aj = aj, ai
		rep.Step(i + 1)
	}
	rep.Done()
	return NewResult(n, fromGMP(rr), time.Since(start)), nil
}

// GMPMediumTester reduces with mpz_mod after each product.
type GMPMediumTester struct{}

func (GMPMediumTester) Name() string { return "gmp_medium" }

func (GMPMediumTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	modulus := toGMP(n.Int())
	return gmpLoop(ctx, n, progress, idx, func(z, x, y *gmp.Int) {
		z.Mul(x, y)
		z.Mod(z, modulus)
	})
}

// GMPLowTester keeps a quotient buffer and reduces with QuoRem.
type GMPLowTester struct{}

func (GMPLowTester) Name() string { return "gmp_low" }

func (GMPLowTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	modulus := toGMP(n.Int())
	prod, q := new(gmp.Int), new(gmp.Int)
	return gmpLoop(ctx, n, progress, idx, func(z, x, y *gmp.Int) {
		prod.Mul(x, y)
		q.QuoRem(prod, modulus, z)
	})
}

// GMPBarrettTester applies the Barrett reduction of BarrettTester to GMP
// integers.
type GMPBarrettTester struct{}

func (GMPBarrettTester) Name() string { return "gmp_barrett" }

func (GMPBarrettTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	modulus := n.Int()
	red := newBarrett(modulus)
	nG, mG := toGMP(modulus), toGMP(red.m)
	q := new(gmp.Int)
	return gmpLoop(ctx, n, progress, idx, func(z, x, y *gmp.Int) {
		z.Mul(x, y)
		q.Rsh(z, red.loShift)
		q.Mul(q, mG)
		q.Rsh(q, red.hiShift)
		q.Mul(q, nG)
		z.Sub(z, q)
		for z.Cmp(nG) >= 0 {
			z.Sub(z, nG)
		}
	})
}
