package ssmul

import (
	"fmt"

	"github.com/agbru/prothcalc/internal/bignum"
)

// SSRPlanner plans one Schönhage–Strassen level. The level multiplies
// modulo 2^N+1 through a weighted length-2^k transform over Z/(2^n+1). For
// a PBits goal N covers the whole product, so the result is exact; for a
// ModN goal N is the goal's own modulus.
type SSRPlanner struct {
	goal   Goal
	params Params
	modN   bool

	twok        int
	longSz      bignum.BigSize
	pieceSz     bignum.BigSize
	limbsEach   bignum.BigSize
	pieceWorkSz bignum.BigSize
	sumSz       bignum.BigSize
}

// NewSSRPlanner derives the transform parameters for goal.
func NewSSRPlanner(goal Goal) (*SSRPlanner, error) {
	var p Params
	switch goal.Kind {
	case GoalModN:
		p = PickModN(goal.Bits)
	case GoalPBits:
		p = PickNkn(goal.Bits)
	}
	if p.N == 0 || p.K == 0 || p.SubN == 0 {
		return nil, fmt.Errorf("ssmul: no transform parameters for %s", goal)
	}
	sp := &SSRPlanner{goal: goal, params: p, modN: goal.Kind == GoalModN, twok: 1 << p.K}
	sp.longSz = bignum.DivUp(p.N, bignum.LimbSize)
	if !Divides(bignum.BigSize(sp.twok), sp.longSz) {
		return nil, fmt.Errorf("ssmul: 2^%d does not divide %d limbs", p.K, sp.longSz)
	}
	sp.pieceSz = bignum.DivUp(p.SubN+1, bignum.LimbSize)
	sp.limbsEach = sp.longSz / bignum.BigSize(sp.twok)
	sp.pieceWorkSz = 4 * sp.pieceSz
	sp.sumSz = sp.longSz + sp.pieceSz
	return sp, nil
}

func (sp *SSRPlanner) Goal() Goal     { return sp.goal }
func (sp *SSRPlanner) NextGoal() Goal { return ModN(sp.params.SubN) }

// Plan lists, in order: the 2^k split pieces of a and of b, piece_work,
// the 2^k transformed pieces of a and of b, dft_work, the inverse of 2^k,
// the 2^k unweighting factors, the sums of the non-negative and of the
// negative coefficients, and the reduced negative sum.
func (sp *SSRPlanner) Plan() Plan {
	sizes := make([]bignum.BigSize, 0, 5*sp.twok+6)
	for range 2 * sp.twok {
		sizes = append(sizes, sp.pieceSz)
	}
	sizes = append(sizes, sp.pieceWorkSz)
	for range 2 * sp.twok {
		sizes = append(sizes, sp.pieceSz)
	}
	sizes = append(sizes, sp.pieceWorkSz, sp.pieceSz)
	for range sp.twok {
		sizes = append(sizes, sp.pieceSz)
	}
	sizes = append(sizes, sp.sumSz, sp.sumSz, sp.longSz+1)
	return Plan{RequiredSz: sizes}
}

func (sp *SSRPlanner) Describe() LevelInfo {
	plan := sp.Plan()
	return LevelInfo{Goal: sp.goal, Method: "ssr", Params: sp.params, Buffers: len(plan.RequiredSz), WorkLimbs: plan.TotalLimbs()}
}

// Setup binds the workspace and precomputes the transform matrices, the
// inverse of 2^k and the unweighting factors 2^-k * w^-j.
func (sp *SSRPlanner) Setup(ws []bignum.VastMut, next Multiplier) Multiplier {
	twok := sp.twok
	n := sp.params.SubN
	take := func(count int) []bignum.VastMut {
		out := ws[:count:count]
		ws = ws[count:]
		return out
	}
	s := &SSR{
		twok:      twok,
		n:         n,
		f:         bignum.Fermat{N: n},
		target:    bignum.Fermat{N: sp.params.N},
		modN:      sp.modN,
		longSz:    sp.longSz,
		limbsEach: sp.limbsEach,
		next:      next,
	}
	s.aSplit = take(twok)
	s.bSplit = take(twok)
	s.pieceWork = take(1)[0]
	s.aDFT = take(twok)
	s.bDFT = take(twok)
	s.dftWork = take(1)[0]
	s.itwok = take(1)[0]
	s.ci = take(twok)
	s.sum = take(1)[0]
	s.negSum = take(1)[0]
	s.negRes = take(1)[0]

	step := 2 * n / bignum.BigSize(twok)
	s.d = make([]bignum.BigSize, twok*twok)
	s.di = make([]bignum.BigSize, twok*twok)
	for i := range twok {
		for j := range twok {
			s.d[i*twok+j] = bignum.BigSize((i*j)%twok) * step
			s.di[i*twok+j] = bignum.BigSize(((twok-(i*j)%twok)%twok)) * step
		}
	}

	twokBig := bignum.BigExtend(bignum.NewBigFromLimbs(bignum.Limb(twok)), sp.pieceSz)
	itwok := bignum.InvModFermat(twokBig, n)
	if !bignum.MulModFermatBig(twokBig, itwok, n).Equal(bignum.NewBigOne(1)) {
		panic(fmt.Sprintf("ssmul: 2^%d has no inverse mod 2^%d+1", sp.params.K, n))
	}
	bignum.PodCopy(s.itwok, itwok)

	for j := range twok {
		w := bignum.NewBigOne(sp.pieceSz)
		w.ShlAssign(bignum.BigSize(j) * n / bignum.BigSize(twok))
		bignum.PodCopy(s.ci[j], bignum.MulModFermatBig(itwok, bignum.InvModFermat(w, n), n))
	}
	return s
}

// SSR multiplies through a weighted length-2^k transform. With weights
// w^j, w = 2^(n/2^k), the cyclic transform computes the negacyclic
// convolution of the pieces, which is the product modulo 2^N+1.
type SSR struct {
	twok      int
	n         bignum.BigSize
	f         bignum.Fermat
	target    bignum.Fermat
	modN      bool
	longSz    bignum.BigSize
	limbsEach bignum.BigSize
	next      Multiplier

	d, di     []bignum.BigSize
	aSplit    []bignum.VastMut
	bSplit    []bignum.VastMut
	aDFT      []bignum.VastMut
	bDFT      []bignum.VastMut
	ci        []bignum.VastMut
	pieceWork bignum.VastMut
	dftWork   bignum.VastMut
	itwok     bignum.VastMut
	sum       bignum.VastMut
	negSum    bignum.VastMut
	negRes    bignum.VastMut
}

func (s *SSR) X(a bignum.VastMut, b bignum.Vast) {
	if s.modN && s.minusOne(a, b) {
		return
	}
	twok := s.twok
	for j := range twok {
		s.split(s.aSplit[j], a.Vast(), j)
		s.split(s.bSplit[j], b, j)
	}

	for j := range twok {
		shift := bignum.BigSize(j) * s.n / bignum.BigSize(twok)
		s.weight(s.aSplit[j], shift)
		s.weight(s.bSplit[j], shift)
	}

	s.transform(s.aDFT, s.aSplit, s.d)
	s.transform(s.bDFT, s.bSplit, s.d)

	for i := range twok {
		s.next.X(s.aDFT[i], s.bDFT[i].Vast())
	}

	s.transform(s.aSplit, s.aDFT, s.di)

	for i := range twok {
		s.next.X(s.aSplit[i], s.ci[i].Vast())
	}

	s.recombine(a)
}

// minusOne handles residues equal to 2^N, which is -1 modulo 2^N+1 and the
// only value with a bit past the last piece. It reports whether it wrote
// the product.
func (s *SSR) minusOne(a bignum.VastMut, b bignum.Vast) bool {
	top := s.longSz
	aNeg := len(a) > top && a[top] != 0
	bNeg := len(b) > top && b[top] != 0
	switch {
	case aNeg && bNeg:
		clear(a)
		a[0] = 1
	case aNeg:
		if bignum.IsZero(b) {
			clear(a)
			break
		}
		bignum.PodCopy(a, s.target)
		bignum.PodSubAssign(a, b)
	case bNeg:
		if !bignum.IsZero(a) {
			bignum.PodBackwardsSubAssign(a, s.target)
		}
	default:
		return false
	}
	return true
}

// recombine evaluates sum c_i * 2^(i*pieceBits) mod 2^N+1 into a. A
// coefficient residue of n or more bits stands for the negative value
// c_i - (2^n+1); those are summed apart and subtracted at the end.
func (s *SSR) recombine(a bignum.VastMut) {
	pieceBits := bignum.LimbSize * s.limbsEach
	bignum.PodZero(s.sum)
	bignum.PodZero(s.negSum)
	for i := s.twok - 1; i >= 0; i-- {
		if i < s.twok-1 {
			bignum.PodShlAssign(s.sum, pieceBits)
			bignum.PodShlAssign(s.negSum, pieceBits)
		}
		c := s.aSplit[i]
		if bignum.Bits(c) >= s.n {
			bignum.PodBackwardsSubAssign(c, s.f)
			bignum.PodAddAssign(s.negSum, c)
		} else {
			bignum.PodAddAssign(s.sum, c)
		}
	}

	bignum.ModFermat(a, s.sum, s.target)
	if !s.modN {
		// An exact product has no wrapped terms, so negSum is zero.
		return
	}
	bignum.ModFermat(s.negRes, s.negSum, s.target)
	if bignum.PodCmp(a, s.negRes) < 0 {
		bignum.PodAddAssign(a, s.target)
	}
	bignum.PodSubAssign(a, s.negRes)
}

// split copies piece j of src, limbsEach limbs wide, into dst. Limbs past
// the end of src read as zero.
func (s *SSR) split(dst bignum.VastMut, src bignum.Vast, j int) {
	clear(dst)
	lo := bignum.BigSize(j) * s.limbsEach
	if lo >= len(src) {
		return
	}
	hi := min(lo+s.limbsEach, len(src))
	copy(dst, src[lo:hi])
}

// weight replaces piece with piece * 2^shift mod 2^n+1.
func (s *SSR) weight(piece bignum.VastMut, shift bignum.BigSize) {
	bignum.PodAssignShl(s.pieceWork, piece, shift)
	bignum.ModFermat(piece, s.pieceWork, s.f)
}

// transform evaluates out[i] = sum_j in[j] * 2^m[i,j] mod 2^n+1. Powers of
// two are the roots of unity, so every product is a shift.
func (s *SSR) transform(out, in []bignum.VastMut, m []bignum.BigSize) {
	twok := s.twok
	for i := range twok {
		bignum.PodZero(s.pieceWork)
		for j := range twok {
			bignum.PodAssignShl(s.dftWork, in[j], m[i+j*twok])
			bignum.PodAddAssign(s.pieceWork, s.dftWork)
		}
		bignum.ModFermat(out[i], s.pieceWork, s.f)
	}
}
