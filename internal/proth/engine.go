package proth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/prothcalc/internal/bignum"
	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/memory"
	"github.com/agbru/prothcalc/internal/ssmul"
)

var tracer = otel.Tracer("github.com/agbru/prothcalc/internal/proth")

// DefaultMaxEngineBits bounds the modulus the engine tester accepts when no
// limit is configured.
const DefaultMaxEngineBits = 1 << 16

// EngineTester runs the test on the bignum engine: left-to-right
// square-and-multiply with Barrett reduction, every wide product going
// through one preallocated multiplier chain.
type EngineTester struct {
	threshold   int
	maxBits     int
	gcMode      string
	memoryLimit uint64
	logger      zerolog.Logger
	onChain     func(*ssmul.Chain)
}

// EngineOption configures an EngineTester.
type EngineOption func(*EngineTester)

// WithEngineThreshold sets the product width above which the chain uses the
// transform.
func WithEngineThreshold(bits int) EngineOption {
	return func(e *EngineTester) { e.threshold = bits }
}

// WithMaxEngineBits rejects moduli wider than bits. Zero removes the limit.
func WithMaxEngineBits(bits int) EngineOption {
	return func(e *EngineTester) { e.maxBits = bits }
}

// WithGCMode selects the collector policy during the exponentiation.
func WithGCMode(mode string) EngineOption {
	return func(e *EngineTester) { e.gcMode = mode }
}

// WithEngineMemoryLimit caps the multiplier workspace in bytes.
func WithEngineMemoryLimit(limit uint64) EngineOption {
	return func(e *EngineTester) { e.memoryLimit = limit }
}

// WithEngineLogger receives the chain plan and GC transitions.
func WithEngineLogger(l zerolog.Logger) EngineOption {
	return func(e *EngineTester) { e.logger = l }
}

// WithChainObserver is called with each chain once it is built.
func WithChainObserver(fn func(*ssmul.Chain)) EngineOption {
	return func(e *EngineTester) { e.onChain = fn }
}

// NewEngineTester returns an engine tester with the given options.
func NewEngineTester(opts ...EngineOption) *EngineTester {
	e := &EngineTester{
		threshold: ssmul.DefaultThreshold,
		maxBits:   DefaultMaxEngineBits,
		gcMode:    string(memory.GCModeAuto),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *EngineTester) Name() string { return "engine" }

func (e *EngineTester) Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	ctx, span := tracer.Start(ctx, "proth.engine.test")
	defer span.End()
	span.SetAttributes(
		attribute.String("proth.number", n.String()),
		attribute.Int("proth.bits", n.Bits()),
	)

	res, err := e.run(ctx, n, progress, idx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.Bool("proth.prime", res.Prime))
	return res, nil
}

func (e *EngineTester) run(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error) {
	bits := n.Bits()
	if e.maxBits > 0 && bits > e.maxBits {
		return Result{}, apperrors.ValidationError{
			Field:   "number",
			Message: fmt.Sprintf("%d-bit modulus exceeds the engine limit of %d bits", bits, e.maxBits),
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	st, err := e.newEngineState(ctx, n)
	if err != nil {
		return Result{}, err
	}
	defer st.chain.Close()

	gc := memory.NewGCController(e.gcMode, bits)
	gc.SetLogger(e.logger)
	gc.Begin()
	defer gc.End()

	exp := n.HalfExponent()
	top := exp.BitLen() - 1
	rep := newStepReporter(progress, idx, top)

	st.setSmall(Base)
	for i := top - 1; i >= 0; i-- {
		if (top-i)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		st.square()
		if exp.Bit(i) == 1 {
			st.mulSmall(Base)
		}
		rep.Step(top - i)
	}
	rep.Done()
	return NewResult(n, st.acc.ToBigInt(), time.Since(start)), nil
}

// engineState holds the modulus, the Barrett constant and every buffer
// the loop touches.
type engineState struct {
	w     int
	n     bignum.Big
	mu    bignum.Big
	acc   bignum.Big
	x     bignum.Big
	q     bignum.Big
	chain *ssmul.Chain
}

func (e *EngineTester) newEngineState(ctx context.Context, n Number) (*engineState, error) {
	_, span := tracer.Start(ctx, "proth.engine.setup")
	defer span.End()

	w := bignum.DivUp(n.Bits(), bignum.LimbSize)
	st := &engineState{
		w:   w,
		n:   bignum.FromBigInt(n.Int(), w),
		acc: bignum.NewBig(w),
		x:   bignum.NewBig(2*w + 2),
		q:   bignum.NewBig(2*w + 2),
	}

	// mu = floor(2^(128w) / N) fits in w+1 limbs because N >= 2^(64(w-1)).
	pow := bignum.NewBig(2*w + 1)
	pow.SetLimb(2*w, 1)
	st.mu = bignum.Div(pow, st.n).Downsized(w + 1)

	pBits := memory.EngineProductBits(n.Bits())
	chain, err := ssmul.RecursiveSetup(pBits,
		ssmul.WithThreshold(e.threshold),
		ssmul.WithLogger(e.logger),
		ssmul.WithMemoryLimit(e.memoryLimit),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	st.chain = chain
	span.SetAttributes(
		attribute.Int("ssmul.product_bits", pBits),
		attribute.Int("ssmul.levels", chain.Levels()),
		attribute.String("ssmul.chain", chain.Describe()),
	)
	if e.onChain != nil {
		e.onChain(chain)
	}
	return st, nil
}

// setSmall sets acc = v mod N.
func (st *engineState) setSmall(v bignum.Limb) {
	st.x.Zero()
	st.x.SetLimb(0, v)
	st.normalize()
}

// square sets acc = acc^2 mod N.
func (st *engineState) square() {
	st.x.Zero()
	bignum.PodCopy(st.x, st.acc)
	st.chain.Square(st.x.VastMut())
	st.reduce()
}

// mulSmall sets acc = acc*v mod N for a single-limb v.
func (st *engineState) mulSmall(v bignum.Limb) {
	bignum.PodAssignMul(st.x, st.acc, bignum.NewBigFromLimbs(v))
	st.normalize()
}

// reduce sets acc = x mod N for x < N^2 by Barrett reduction.
func (st *engineState) reduce() {
	w := st.w
	x, q := st.x.VastMut(), st.q.VastMut()

	clear(q)
	copy(q, x[w-1:])
	st.chain.X(q, st.mu.Vast())
	copy(q, q[w+1:])
	clear(q[w+1:])
	st.chain.X(q, st.n.Vast())
	bignum.PodSubAssign(x, q.Vast())
	st.normalize()
}

// normalize subtracts N from x until x < N, then stores it in acc. Callers
// guarantee x is only a few multiples of N.
func (st *engineState) normalize() {
	for st.x.Cmp(st.n) >= 0 {
		st.x.SubAssign(st.n)
	}
	bignum.PodCopy(st.acc, st.x)
}
