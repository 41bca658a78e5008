//go:generate mockgen -source=planner.go -destination=mocks/mock_multiplier.go -package=mocks

package ssmul

import (
	"fmt"

	"github.com/agbru/prothcalc/internal/bignum"
)

// GoalKind says what a multiplier level must deliver.
type GoalKind int

const (
	// GoalDone ends a chain.
	GoalDone GoalKind = iota
	// GoalModN multiplies residues modulo 2^n+1.
	GoalModN
	// GoalPBits multiplies operands whose exact product fits in b bits.
	GoalPBits
)

// Goal is a requirement handed from one level to the next.
type Goal struct {
	Kind GoalKind
	Bits bignum.BigSize
}

// ModN is the goal of multiplying modulo 2^n+1.
func ModN(n bignum.BigSize) Goal { return Goal{Kind: GoalModN, Bits: n} }

// PBits is the goal of an exact product of at most b bits.
func PBits(b bignum.BigSize) Goal { return Goal{Kind: GoalPBits, Bits: b} }

// Done ends a chain.
var Done = Goal{}

func (g Goal) String() string {
	switch g.Kind {
	case GoalModN:
		return fmt.Sprintf("mod 2^%d+1", g.Bits)
	case GoalPBits:
		return fmt.Sprintf("%d-bit product", g.Bits)
	}
	return "done"
}

// Plan lists the scratch buffers, in limbs, a level needs. Buffers are
// handed back to Setup in the same order.
type Plan struct {
	RequiredSz []bignum.BigSize
}

// TotalLimbs sums the buffer sizes.
func (p Plan) TotalLimbs() bignum.BigSize {
	var total bignum.BigSize
	for _, sz := range p.RequiredSz {
		total += sz
	}
	return total
}

// Multiplier computes a = a*b for the goal it was planned for. a and b may
// be the same view.
type Multiplier interface {
	X(a bignum.VastMut, b bignum.Vast)
}

// Planner sizes one level of a chain and builds its Multiplier once the
// workspace exists.
type Planner interface {
	Goal() Goal
	NextGoal() Goal
	Plan() Plan
	Setup(ws []bignum.VastMut, next Multiplier) Multiplier
	Describe() LevelInfo
}

// LevelInfo summarizes a planned level for logs and metrics.
type LevelInfo struct {
	Goal      Goal
	Method    string
	Params    Params
	Buffers   int
	WorkLimbs bignum.BigSize
}

// PickMultiplier returns the planner for goal: the transform above
// threshold bits, schoolbook otherwise.
func PickMultiplier(goal Goal, threshold bignum.BigSize) (Planner, error) {
	bitsNeeded := goal.Bits
	if goal.Kind == GoalDone || bitsNeeded <= 0 {
		return nil, fmt.Errorf("ssmul: no multiplier for goal %s", goal)
	}
	if bitsNeeded > threshold {
		return NewSSRPlanner(goal)
	}
	return NewLongPlanner(goal), nil
}
