package ssmul

import "github.com/agbru/prothcalc/internal/bignum"

// LongPlanner plans a schoolbook level followed by one reduction.
type LongPlanner struct {
	goal   Goal
	f      bignum.Fermat
	workSz bignum.BigSize
}

// NewLongPlanner sizes the work buffer so the full product of two
// (n+1)-bit residues, or of two operands totalling b bits, always fits.
func NewLongPlanner(goal Goal) *LongPlanner {
	n := goal.Bits
	lp := &LongPlanner{goal: goal, f: bignum.Fermat{N: n}}
	if goal.Kind == GoalModN {
		lp.workSz = 2 * bignum.DivUp(n+1, bignum.LimbSize)
	} else {
		lp.workSz = bignum.DivUp(n, bignum.LimbSize) + 1
	}
	return lp
}

func (lp *LongPlanner) Goal() Goal     { return lp.goal }
func (lp *LongPlanner) NextGoal() Goal { return Done }

func (lp *LongPlanner) Plan() Plan {
	return Plan{RequiredSz: []bignum.BigSize{lp.workSz}}
}

func (lp *LongPlanner) Setup(ws []bignum.VastMut, _ Multiplier) Multiplier {
	return &Long{f: lp.f, work: ws[0]}
}

func (lp *LongPlanner) Describe() LevelInfo {
	return LevelInfo{Goal: lp.goal, Method: "long", Params: Params{N: lp.goal.Bits}, Buffers: 1, WorkLimbs: lp.workSz}
}

// Long multiplies by schoolbook and reduces modulo 2^n+1. For a PBits goal
// the product is below the modulus, so the reduction leaves it unchanged.
type Long struct {
	f    bignum.Fermat
	work bignum.VastMut
}

func (l *Long) X(a bignum.VastMut, b bignum.Vast) {
	bignum.PodAssignMul(l.work, a, b)
	bignum.ModFermat(a, l.work, l.f)
}
