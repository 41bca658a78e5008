package proth

import (
	"context"
	"math/big"
	"time"
)

// cancelCheckInterval is how many loop iterations run between context
// checks.
const cancelCheckInterval = 64

// SimpleTester delegates the whole exponentiation to big.Int.Exp.
type SimpleTester struct{}

func (SimpleTester) Name() string { return "big_simple" }

func (SimpleTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	rep := newStepReporter(progress, idx, 1)
	residue := new(big.Int).Exp(big.NewInt(Base), n.HalfExponent(), n.Int())
	rep.Done()
	return NewResult(n, residue, time.Since(start)), nil
}

// MediumTester runs right-to-left square-and-multiply, reducing after
// every product with Mod.
type MediumTester struct{}

func (MediumTester) Name() string { return "big_medium" }

func (MediumTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	start := time.Now()
	modulus := n.Int()
	exp := n.HalfExponent()
	bits := exp.BitLen()
	rep := newStepReporter(progress, idx, bits)

	rr := big.NewInt(1)
	ai := big.NewInt(Base)
	for i := 0; i < bits; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if exp.Bit(i) == 1 {
			rr.Mul(rr, ai)
			rr.Mod(rr, modulus)
		}
		ai.Mul(ai, ai)
		ai.Mod(ai, modulus)
		rep.Step(i + 1)
	}
	rep.Done()
	return NewResult(n, rr, time.Since(start)), nil
}

// LowTester is MediumTester with every buffer allocated up front. The
// squares ping-pong between two buffers and QuoRem writes the remainder
// in place.
type LowTester struct{}

func (LowTester) Name() string { return "big_low" }

func (LowTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	start := time.Now()
	modulus := n.Int()
	exp := n.HalfExponent()
	bits := exp.BitLen()
	width := 2*modulus.BitLen() + 64
	rep := newStepReporter(progress, idx, bits)

	alloc := func() *big.Int {
		v := new(big.Int)
		v.SetBit(v, width, 1)
		return v.SetInt64(0)
	}
	rr, rrt, q := alloc(), alloc(), alloc()
	ai, aj := alloc(), alloc()
	rr.SetInt64(1)
	ai.SetInt64(Base)

	for i := 0; i < bits; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		ax, ay := ai, aj
		if i%2 == 1 {
			ax, ay = aj, ai
		}
		if exp.Bit(i) == 1 {
			rrt.Mul(rr, ax)
			q.QuoRem(rrt, modulus, rr)
		}
		rrt.Mul(ax, ax)
		q.QuoRem(rrt, modulus, ay)
		rep.Step(i + 1)
	}
	rep.Done()
	return NewResult(n, new(big.Int).Set(rr), time.Since(start)), nil
}

// BarrettTester replaces division by N with Barrett reduction, using
// m = floor(2^(128w) / N) where w is the word count of N.
type BarrettTester struct{}

func (BarrettTester) Name() string { return "big_barrett" }

// barrett reduces products of two residues modulo n.
type barrett struct {
	n       *big.Int
	m       *big.Int
	loShift uint
	hiShift uint
	q       *big.Int
}

func newBarrett(n *big.Int) *barrett {
	w := uint((n.BitLen() + 63) / 64)
	m := new(big.Int).Lsh(big.NewInt(1), 128*w)
	m.Quo(m, n)
	return &barrett{n: n, m: m, loShift: 64 * (w - 1), hiShift: 64 * (w + 1), q: new(big.Int)}
}

// reduce sets x = x mod n for 0 <= x < n^2. The quotient estimate is at
// most two short, so at most two corrections follow.
func (b *barrett) reduce(x *big.Int) {
	b.q.Rsh(x, b.loShift)
	b.q.Mul(b.q, b.m)
	b.q.Rsh(b.q, b.hiShift)
	b.q.Mul(b.q, b.n)
	x.Sub(x, b.q)
	for x.Cmp(b.n) >= 0 {
		x.Sub(x, b.n)
	}
}

func (BarrettTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	start := time.Now()
	modulus := n.Int()
	exp := n.HalfExponent()
	bits := exp.BitLen()
	red := newBarrett(modulus)
	rep := newStepReporter(progress, idx, bits)

	rr := big.NewInt(1)
	ai := big.NewInt(Base)
	for i := 0; i < bits; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if exp.Bit(i) == 1 {
			rr.Mul(rr, ai)
			red.reduce(rr)
		}
		ai.Mul(ai, ai)
		red.reduce(ai)
		rep.Step(i + 1)
	}
	rep.Done()
	return NewResult(n, rr, time.Since(start)), nil
}
