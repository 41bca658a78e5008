package ssmul

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agbru/prothcalc/internal/bignum"
	apperrors "github.com/agbru/prothcalc/internal/errors"
)

// maxLevels bounds chain depth. Each level at least halves the product
// width, so real chains stay far below this.
const maxLevels = 64

type options struct {
	threshold   bignum.BigSize
	logger      zerolog.Logger
	memoryLimit uint64
}

// Option configures RecursiveSetup.
type Option func(*options)

// WithThreshold sets the product width above which the transform is used.
// Values below DefaultThreshold are raised to it.
func WithThreshold(bits bignum.BigSize) Option {
	return func(o *options) { o.threshold = max(bits, DefaultThreshold) }
}

// WithLogger receives the chain plan at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMemoryLimit rejects chains whose workspace exceeds limit bytes.
// Zero disables the check.
func WithMemoryLimit(limit uint64) Option {
	return func(o *options) { o.memoryLimit = limit }
}

func newOptions(opts []Option) options {
	o := options{threshold: DefaultThreshold, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Chain is a ready-to-use multiplier for products of up to PBits bits, with
// its whole workspace allocated up front. A Chain is not safe for
// concurrent use; separate chains are independent.
type Chain struct {
	pBits  bignum.BigSize
	top    Multiplier
	levels []LevelInfo
	arena  *Arena
}

// RecursiveSetup plans levels top-down from PBits(pBits) until a level
// needs no further multiplier, allocates every level's buffers from one
// arena, then wires the multipliers bottom-up.
func RecursiveSetup(pBits bignum.BigSize, opts ...Option) (*Chain, error) {
	o := newOptions(opts)
	planners, plans, total, err := planChain(pBits, o)
	if err != nil {
		return nil, err
	}
	if o.memoryLimit > 0 {
		need := uint64(total) * 8
		if need > o.memoryLimit {
			return nil, apperrors.MemoryError{Requested: need, Available: o.memoryLimit, Limit: o.memoryLimit}
		}
	}

	c := &Chain{pBits: pBits, arena: NewArena(total), levels: make([]LevelInfo, len(planners))}
	var next Multiplier
	for i := len(planners) - 1; i >= 0; i-- {
		next = planners[i].Setup(c.arena.AllocPlan(plans[i]), next)
		c.levels[i] = planners[i].Describe()
	}
	c.top = next

	if e := o.logger.Debug(); e.Enabled() {
		e.Int("product_bits", pBits).
			Int("levels", len(c.levels)).
			Int("workspace_limbs", total).
			Str("chain", c.Describe()).
			Msg("multiplier chain ready")
	}
	return c, nil
}

func planChain(pBits bignum.BigSize, o options) ([]Planner, []Plan, bignum.BigSize, error) {
	if pBits <= 0 {
		return nil, nil, 0, fmt.Errorf("ssmul: product width must be positive, got %d", pBits)
	}
	var planners []Planner
	for goal := PBits(pBits); goal.Kind != GoalDone; {
		if len(planners) == maxLevels {
			return nil, nil, 0, fmt.Errorf("ssmul: chain for %d bits exceeds %d levels", pBits, maxLevels)
		}
		p, err := PickMultiplier(goal, o.threshold)
		if err != nil {
			return nil, nil, 0, err
		}
		planners = append(planners, p)
		goal = p.NextGoal()
	}

	plans := make([]Plan, len(planners))
	var total bignum.BigSize
	for i, p := range planners {
		plans[i] = p.Plan()
		total += plans[i].TotalLimbs()
	}
	return planners, plans, total, nil
}

// PlanChain returns the levels RecursiveSetup would build for pBits and
// the workspace they need, in limbs, without allocating it.
func PlanChain(pBits bignum.BigSize, opts ...Option) ([]LevelInfo, bignum.BigSize, error) {
	planners, _, total, err := planChain(pBits, newOptions(opts))
	if err != nil {
		return nil, 0, err
	}
	levels := make([]LevelInfo, len(planners))
	for i, p := range planners {
		levels[i] = p.Describe()
	}
	return levels, total, nil
}

// X sets a = a*b exactly. a must be wide enough for the product, and the
// product must fit the width the chain was built for.
func (c *Chain) X(a bignum.VastMut, b bignum.Vast) {
	p := bignum.Bits(a) + bignum.Bits(b)
	if p > c.pBits {
		panic(fmt.Sprintf("ssmul: %d-bit product exceeds chain width %d", p, c.pBits))
	}
	if p > len(a)*bignum.LimbSize {
		panic(fmt.Sprintf("ssmul: a not big enough for %d-bit product (%d limbs)", p, len(a)))
	}
	if bignum.IsZero(a) || bignum.IsZero(b) {
		clear(a)
		return
	}
	c.top.X(a, b)
}

// Square sets a = a*a.
func (c *Chain) Square(a bignum.VastMut) {
	c.X(a, a.Vast())
}

// PBits returns the widest product the chain accepts.
func (c *Chain) PBits() bignum.BigSize { return c.pBits }

// Levels returns the number of levels, the schoolbook one included.
func (c *Chain) Levels() int { return len(c.levels) }

// LevelInfo returns the summary of each level, top first.
func (c *Chain) LevelInfo() []LevelInfo { return c.levels }

// WorkspaceLimbs returns the number of limbs the chain reserved.
func (c *Chain) WorkspaceLimbs() int { return c.arena.UsedLimbs() }

// Describe renders the chain as "goal[method N/k/n] -> ...".
func (c *Chain) Describe() string {
	parts := make([]string, len(c.levels))
	for i, l := range c.levels {
		if l.Method == "ssr" {
			parts[i] = fmt.Sprintf("%s[ssr N=%d k=%d n=%d]", l.Goal, l.Params.N, l.Params.K, l.Params.SubN)
		} else {
			parts[i] = fmt.Sprintf("%s[long]", l.Goal)
		}
	}
	return strings.Join(parts, " -> ")
}

// Close returns the workspace to the pool. The chain must not be used
// afterwards.
func (c *Chain) Close() {
	c.arena.Release()
	c.top = nil
}

// RecursiveMultiply sets a = a*b with a chain sized for this product alone.
// It panics if a cannot hold the product.
func RecursiveMultiply(a bignum.VastMut, b bignum.Vast) {
	p := bignum.Bits(a) + bignum.Bits(b)
	if p > len(a)*bignum.LimbSize {
		panic(fmt.Sprintf("ssmul: a not big enough for %d-bit product (%d limbs)", p, len(a)))
	}
	if p == 0 || bignum.IsZero(a) || bignum.IsZero(b) {
		clear(a)
		return
	}
	c, err := RecursiveSetup(p)
	if err != nil {
		panic(err)
	}
	defer c.Close()
	c.X(a, b)
}
