package proth

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/ssmul"
)

func allTesters() []Tester {
	return []Tester{
		SimpleTester{},
		MediumTester{},
		LowTester{},
		BarrettTester{},
		NewEngineTester(),
		NewEngineTester(WithEngineThreshold(1 << 20)),
	}
}

func TestTestersKnownNumbers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n     Number
		prime bool
	}{
		{Number{T: 1, E: 2}, true},
		{Number{T: 1, E: 4}, true},
		{Number{T: 5, E: 7}, true},
		{Number{T: 1, E: 8}, true},
		{Number{T: 1, E: 16}, true},
		{Number{T: 31, E: 60}, true},
		{Number{T: 205, E: 130}, true},
		{Number{T: 523, E: 300}, true},
		{Number{T: 133, E: 600}, true},
		{Number{T: 13, E: 5}, false},
		{Number{T: 7, E: 300}, false},
		// 13 is prime but 3 is a square modulo 13.
		{Number{T: 3, E: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.n.String(), func(t *testing.T) {
			t.Parallel()
			want := new(big.Int).Exp(big.NewInt(Base), tt.n.HalfExponent(), tt.n.Int())
			for _, tester := range allTesters() {
				res, err := tester.Test(context.Background(), tt.n, nil, 0)
				if err != nil {
					t.Fatalf("%s: %v", tester.Name(), err)
				}
				if res.Prime != tt.prime {
					t.Errorf("%s: Prime = %v, want %v", tester.Name(), res.Prime, tt.prime)
				}
				if res.Residue.Cmp(want) != 0 {
					t.Errorf("%s: residue %x, want %x", tester.Name(), res.Residue, want)
				}
			}
		})
	}
}

func TestResultFields(t *testing.T) {
	t.Parallel()
	res, err := MediumTester{}.Test(context.Background(), Number{T: 13, E: 5}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Residue.Int64() != 414 || res.ResidueMinusN.Int64() != -3 {
		t.Errorf("residue %s, residue-N %s; want 414, -3", res.Residue, res.ResidueMinusN)
	}
	res, err = MediumTester{}.Test(context.Background(), Number{T: 5, E: 7}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Residue.Int64() != 640 || res.ResidueMinusN.Int64() != -1 || !res.Prime {
		t.Errorf("641: %+v", res)
	}
}

func TestEngineLargePrime(t *testing.T) {
	if testing.Short() {
		t.Skip("1110-bit exponentiation on the engine")
	}
	t.Parallel()
	n := Number{T: 553, E: 1100}
	var chains []string
	e := NewEngineTester(WithChainObserver(func(c *ssmul.Chain) { chains = append(chains, c.Describe()) }))
	res, err := e.Test(context.Background(), n, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Prime {
		t.Errorf("%s reported composite", n)
	}
	if len(chains) != 1 {
		t.Errorf("observer saw %d chains", len(chains))
	}
}

func TestEngineAgreesWithBigInt_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)
	engine := NewEngineTester()
	properties.Property("engine residue == big.Int.Exp residue", prop.ForAll(
		func(t32 uint32, e uint32) bool {
			n := Number{T: t32 | 1, E: e}
			got, err := engine.Test(context.Background(), n, nil, 0)
			if err != nil {
				return false
			}
			want, _ := SimpleTester{}.Test(context.Background(), n, nil, 0)
			return got.Residue.Cmp(want.Residue) == 0 && got.Prime == want.Prime
		},
		gen.UInt32Range(1, 1<<20),
		gen.UInt32Range(1, 400),
	))
	properties.TestingRun(t)
}

func TestEngineMaxBits(t *testing.T) {
	t.Parallel()
	e := NewEngineTester(WithMaxEngineBits(64))
	_, err := e.Test(context.Background(), Number{T: 1, E: 64}, nil, 0)
	var ve apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEngineMemoryLimit(t *testing.T) {
	t.Parallel()
	e := NewEngineTester(WithEngineMemoryLimit(64))
	_, err := e.Test(context.Background(), Number{T: 133, E: 600}, nil, 0)
	var me apperrors.MemoryError
	if !errors.As(err, &me) {
		t.Fatalf("expected MemoryError, got %v", err)
	}
}

func TestTestersHonourCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, tester := range allTesters() {
		_, err := tester.Test(ctx, Number{T: 523, E: 300}, nil, 0)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: err = %v, want context.Canceled", tester.Name(), err)
		}
	}
}

func TestTestersReportProgress(t *testing.T) {
	t.Parallel()
	for _, tester := range allTesters() {
		ch := make(chan ProgressUpdate, 1000)
		if _, err := tester.Test(context.Background(), Number{T: 523, E: 300}, ch, 3); err != nil {
			t.Fatalf("%s: %v", tester.Name(), err)
		}
		close(ch)
		last := -1.0
		for u := range ch {
			if u.TesterIndex != 3 {
				t.Errorf("%s: update for tester %d", tester.Name(), u.TesterIndex)
			}
			if u.Value < last {
				t.Errorf("%s: progress went back from %f to %f", tester.Name(), last, u.Value)
			}
			last = u.Value
		}
		if last != 1.0 {
			t.Errorf("%s: final progress %f, want 1.0", tester.Name(), last)
		}
	}
}

func TestStepReporterThrottles(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 1000)
	r := newStepReporter(ch, 0, 10000)
	for i := 1; i <= 10000; i++ {
		r.Step(i)
	}
	close(ch)
	count := 0
	for range ch {
		count++
	}
	if count > 101 {
		t.Errorf("%d updates for 10000 steps, want at most 101", count)
	}
	var nilReporter *stepReporter
	nilReporter.Step(1)
	nilReporter.Done()
}

func TestDefaultFactory(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	names := f.List()
	if !sort.StringsAreSorted(names) {
		t.Errorf("List() not sorted: %v", names)
	}
	for _, want := range []string{"big_barrett", "big_low", "big_medium", "big_simple", "engine"} {
		tester, err := f.Get(want)
		if err != nil {
			t.Errorf("Get(%q): %v", want, err)
			continue
		}
		if tester.Name() != want {
			t.Errorf("Get(%q).Name() = %q", want, tester.Name())
		}
	}
	if len(f.GetAll()) != len(names) {
		t.Errorf("GetAll() has %d testers, List() %d", len(f.GetAll()), len(names))
	}

	_, err := f.Get("nope")
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("Get(unknown) = %v, want ConfigError", err)
	}
}
