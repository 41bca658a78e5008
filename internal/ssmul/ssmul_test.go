package ssmul

import (
	"bytes"
	"errors"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"github.com/agbru/prothcalc/internal/bignum"
	apperrors "github.com/agbru/prothcalc/internal/errors"
)

const (
	hex512A = "F99527E2862042DBB66313F44C4C47B6C0259E16F63F000194C4D5BBE3BB39075C068A34E30288DED00B063876877E9D68E100A50B479104B85497A9BA510638"
	hex512B = "D517B4B082CB3651E1CEE7FF12C1F985D94E89EF3FBA74A9314E05B5D1533B48AE9F0C710ED2A2C8885CAD9F5757B8FB27CC95B7B89BF33DDCE184822C1376C"
	hex512P = "CFC036BF050D730EA92C3A8E66BF44B94319958CC3C0E8FD8570CC61A7CD39CD66EFBE891948DD59F4AF2FCFC7CB63B8682B9660B3AC2142DF54E37DA1A4EDF3D0962A14463B0E5CDE726E2FD903B8FFA53AC9E2ECCCDB93B0D4078912B98887A54AA1782704F6E7AF894DA712689FDFCCDFCF33B91DB702A68AC4B22BCA7A0"

	hex2048A = "B954E7DFEE6CCE82F19BC30B53E6B6E15081CD494DD1652CEA6A30D134316E1452C5BB2012B0889BB5A148093ED8CA2DDA1FA3E09D4473C6EAA90FC7809247CFB7FE805D7095BD679653E016B74FFA844E7401BBE68BB7B25754B87F0D07AD072DBBEAB6F3E9B7C94ED93B8665FEBEE18091EB2BDFB021A5DA9DDC981F23E12"
	hex2048B = "45BAA2EE705DDC4BDB71C3B963B612EC2CFE3B14E836C9988D260410DC9CF4CB11C1E091B2EE874887BFBFBB5FD136859D2E887D96F43D0328C0FF3BAFDF67CE3C71874F014F0C076109C3112C9C051F88B60F929967758F58E5041728C98B50B099D03817A54400BB065726B0D5D8DB328957083535EF65229F3FC0C65F691"
	hex2048P = "327B00242CFAEE8DF0C4F7486CADB351CEABFBDCF340A119E34DC3BEFD209D6408553EA56FEC93DED68F3FFB9BABB60E3E0C03FF652DB955AACE4F055767963E8DA37B7C7FD5C35A29AE814656217397F562B3E5527F49DFAC585F32E8B905ADCB3C58F3C0F4D3511A1E02A357EBE095371FAEC2F1616595CBA68029323FF8916FB9E7792750B8309B1322E8A1B8038881CE87B99F241A1C475629ACF29077A8A06FED983FF02114C3E7D57CFF99EAB76323E2B356E24A0CC49618BE216A2AC97DB6185B92275311C91B2B337B38F6839960047A9971BFE776668CEB0802DC3E1F7310289C6E4AF589914E6FCAC46673D036908906B308CB301134B6F47432"
)

func TestRecursiveMultiplyVectors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		a, b, want string
		aLimbs     bignum.BigSize
	}{
		{"schoolbook range", "B85497A9BA510638", "68E100A50B479104", "4B84606D1682968773BEAB03EF51D0E0", 2},
		{"one transform level", hex512A, hex512B, hex512P, 16},
		{"transform over schoolbook", hex2048A, hex2048B, hex2048P, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := bignum.BigExtend(bignum.MustFromHex(tt.a), tt.aLimbs)
			b := bignum.MustFromHex(tt.b)
			RecursiveMultiply(a.VastMut(), b.Vast())
			if got := a.String(); got != tt.want {
				t.Errorf("product = %s\nwant      %s", got, tt.want)
			}
		})
	}
}

func TestRecursiveSetupChains(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pBits bignum.BigSize
		goals []Goal
	}{
		{200, []Goal{PBits(200)}},
		{1020, []Goal{PBits(1020), ModN(264)}},
		{2039, []Goal{PBits(2039), ModN(272)}},
		{16384, []Goal{PBits(16384), ModN(1536), ModN(392)}},
		{131200, []Goal{PBits(131200), ModN(3072), ModN(400)}},
	}
	for _, tt := range tests {
		c, err := RecursiveSetup(tt.pBits)
		if err != nil {
			t.Fatalf("RecursiveSetup(%d): %v", tt.pBits, err)
		}
		if c.Levels() != len(tt.goals) {
			t.Errorf("RecursiveSetup(%d): %d levels (%s), want %d", tt.pBits, c.Levels(), c.Describe(), len(tt.goals))
			c.Close()
			continue
		}
		for i, l := range c.LevelInfo() {
			if l.Goal != tt.goals[i] {
				t.Errorf("RecursiveSetup(%d) level %d goal = %s, want %s", tt.pBits, i, l.Goal, tt.goals[i])
			}
		}
		if last := c.LevelInfo()[c.Levels()-1]; last.Method != "long" {
			t.Errorf("RecursiveSetup(%d): bottom level is %s", tt.pBits, last.Method)
		}
		if c.WorkspaceLimbs() <= 0 {
			t.Errorf("RecursiveSetup(%d): empty workspace", tt.pBits)
		}
		c.Close()
	}

	if _, err := RecursiveSetup(0); err == nil {
		t.Error("RecursiveSetup(0) should fail")
	}
}

func TestRecursiveSetupMemoryLimit(t *testing.T) {
	t.Parallel()
	_, err := RecursiveSetup(4096, WithMemoryLimit(1024))
	var memErr apperrors.MemoryError
	if !errors.As(err, &memErr) {
		t.Fatalf("expected MemoryError, got %v", err)
	}
	if memErr.Requested <= 1024 {
		t.Errorf("requested %d bytes should exceed the limit", memErr.Requested)
	}
}

func TestRecursiveSetupLogsPlan(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	c, err := RecursiveSetup(2039, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	out := buf.String()
	for _, want := range []string{`"levels":2`, `"product_bits":2039`, "ssr N=2048 k=4 n=272", "multiplier chain ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestThresholdRaisesSchoolbookRange(t *testing.T) {
	t.Parallel()
	c, err := RecursiveSetup(1020, WithThreshold(2048))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Levels() != 1 {
		t.Errorf("expected schoolbook only, got %s", c.Describe())
	}
	a := bignum.BigExtend(bignum.MustFromHex(hex512A), 16)
	c.X(a.VastMut(), bignum.MustFromHex(hex512B).Vast())
	if a.String() != hex512P {
		t.Errorf("product = %s", a)
	}
}

func TestRecursiveMultiplyZeroAndBounds(t *testing.T) {
	t.Parallel()
	a := bignum.NewBigFromLimbs(5, 0)
	RecursiveMultiply(a.VastMut(), bignum.NewBig(3).Vast())
	if !a.IsZero() {
		t.Errorf("x*0 = %s", a)
	}

	z := bignum.NewBig(2)
	RecursiveMultiply(z.VastMut(), bignum.NewBigFromLimbs(7).Vast())
	if !z.IsZero() {
		t.Errorf("0*x = %s", z)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when a cannot hold the product")
		}
	}()
	small := bignum.NewBigFromLimbs(bignum.LimbMax)
	RecursiveMultiply(small.VastMut(), bignum.NewBigFromLimbs(2).Vast())
}

// TestChainReuse runs many products through one chain. Stale state in any
// scratch buffer would corrupt later results.
func TestChainReuse(t *testing.T) {
	t.Parallel()
	const bitsEach = 1500
	rng := rand.New(rand.NewPCG(7, 11))
	c, err := RecursiveSetup(2 * bitsEach)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	limbs := bignum.DivUp(2*bitsEach, bignum.LimbSize)
	for range 20 {
		x, y := randomBits(rng, bitsEach), randomBits(rng, bitsEach)
		a := bignum.FromBigInt(x, limbs)
		c.X(a.VastMut(), bignum.FromBigInt(y, limbs).Vast())
		if want := new(big.Int).Mul(x, y); a.ToBigInt().Cmp(want) != 0 {
			t.Fatalf("chain %s: %x * %x wrong", c.Describe(), x, y)
		}
	}

	// Squaring passes the same view as both operands.
	x := randomBits(rng, bitsEach)
	a := bignum.FromBigInt(x, limbs)
	c.Square(a.VastMut())
	if want := new(big.Int).Mul(x, x); a.ToBigInt().Cmp(want) != 0 {
		t.Fatal("square mismatch")
	}
}

func randomBits(rng *rand.Rand, n int) *big.Int {
	words := make([]big.Word, bignum.DivUp(n, bignum.LimbSize))
	for i := range words {
		words[i] = big.Word(rng.Uint64())
	}
	x := new(big.Int).SetBits(words)
	x.SetBit(x, n-1, 1)
	mask := new(big.Int).Lsh(big.NewInt(1), uint(n))
	mask.Sub(mask, big.NewInt(1))
	return x.And(x, mask)
}

// TestRecursiveMultiplyMatchesBigInt_PropertyBased compares products of
// random widths, spanning one to three levels, with math/big.
func TestRecursiveMultiplyMatchesBigInt_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)
	properties.Property("RecursiveMultiply == big.Int.Mul", prop.ForAll(
		func(aBits, bBits int, seed uint64) bool {
			rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
			x, y := randomBits(rng, aBits), randomBits(rng, bBits)
			limbs := bignum.DivUp(aBits+bBits, bignum.LimbSize)
			a := bignum.FromBigInt(x, limbs)
			b := bignum.FromBigInt(y, bignum.DivUp(bBits, bignum.LimbSize))
			RecursiveMultiply(a.VastMut(), b.Vast())
			return a.ToBigInt().Cmp(new(big.Int).Mul(x, y)) == 0
		},
		gen.IntRange(1, 3000),
		gen.IntRange(1, 3000),
		gen.UInt64(),
	))
	properties.TestingRun(t)
}

// TestTransformRoundTrip checks that the forward matrix, the inverse matrix
// and the scale by 2^-k compose to the identity modulo 2^n+1.
func TestTransformRoundTrip(t *testing.T) {
	t.Parallel()
	sp, err := NewSSRPlanner(PBits(1020))
	if err != nil {
		t.Fatal(err)
	}
	long := NewLongPlanner(ModN(sp.params.SubN))
	arena := NewArena(sp.Plan().TotalLimbs() + long.Plan().TotalLimbs())
	defer arena.Release()
	next := long.Setup(arena.AllocPlan(long.Plan()), nil)
	s := sp.Setup(arena.AllocPlan(sp.Plan()), next).(*SSR)

	rng := rand.New(rand.NewPCG(1, 2))
	want := make([]bignum.Big, s.twok)
	for j := range s.twok {
		for i := range s.aSplit[j] {
			s.aSplit[j][i] = rng.Uint64()
		}
		s.aSplit[j][len(s.aSplit[j])-1] = 0
		want[j] = bignum.BigExtend(s.aSplit[j], len(s.aSplit[j]))
	}
	s.transform(s.aDFT, s.aSplit, s.d)
	s.transform(s.aSplit, s.aDFT, s.di)
	for j := range s.twok {
		next.X(s.aSplit[j], s.itwok.Vast())
		if !bignum.PodEq(s.aSplit[j], want[j]) {
			t.Errorf("piece %d: got %s, want %s", j, s.aSplit[j], want[j])
		}
	}
}

func TestPlanChainMatchesSetup(t *testing.T) {
	t.Parallel()
	levels, total, err := PlanChain(2039)
	if err != nil {
		t.Fatal(err)
	}
	c, err := RecursiveSetup(2039)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if len(levels) != c.Levels() || total != c.WorkspaceLimbs() {
		t.Errorf("PlanChain: %d levels, %d limbs; chain has %d levels, %d limbs", len(levels), total, c.Levels(), c.WorkspaceLimbs())
	}
}

// TestModNLevel multiplies residues modulo 2^1536+1 through a transform
// level, including 2^1536 itself, which is -1.
func TestModNLevel(t *testing.T) {
	t.Parallel()
	const n = 1536
	sp, err := NewSSRPlanner(ModN(n))
	if err != nil {
		t.Fatal(err)
	}
	if sp.params.N != n || sp.params.SubN > n/2 {
		t.Fatalf("ModN(%d) planned %+v", n, sp.params)
	}
	long := NewLongPlanner(sp.NextGoal())
	arena := NewArena(sp.Plan().TotalLimbs() + long.Plan().TotalLimbs())
	defer arena.Release()
	m := sp.Setup(arena.AllocPlan(sp.Plan()), long.Setup(arena.AllocPlan(long.Plan()), nil))

	mod := new(big.Int).Lsh(big.NewInt(1), n)
	mod.Add(mod, big.NewInt(1))
	minusOne := new(big.Int).Lsh(big.NewInt(1), n)
	rng := rand.New(rand.NewPCG(3, 5))
	random := func() *big.Int { return randomBits(rng, n) }

	tests := []struct {
		name string
		x, y *big.Int
	}{
		{"random", random(), random()},
		{"random again", random(), random()},
		{"minus one squared", minusOne, minusOne},
		{"minus one times x", minusOne, random()},
		{"x times minus one", random(), minusOne},
		{"minus one times zero", minusOne, big.NewInt(0)},
		{"zero times minus one", big.NewInt(0), minusOne},
		{"two below minus one", new(big.Int).Sub(minusOne, big.NewInt(2)), new(big.Int).Sub(minusOne, big.NewInt(1))},
	}
	limbs := bignum.DivUp(n+1, bignum.LimbSize)
	for _, tt := range tests {
		a := bignum.FromBigInt(tt.x, limbs)
		m.X(a.VastMut(), bignum.FromBigInt(tt.y, limbs).Vast())
		want := new(big.Int).Mul(tt.x, tt.y)
		want.Mod(want, mod)
		if a.ToBigInt().Cmp(want) != 0 {
			t.Errorf("%s: got %x, want %x", tt.name, a.ToBigInt(), want)
		}
	}

	x := random()
	a := bignum.FromBigInt(x, limbs)
	m.X(a.VastMut(), a.Vast())
	want := new(big.Int).Mul(x, x)
	if a.ToBigInt().Cmp(want.Mod(want, mod)) != 0 {
		t.Error("square through the same view is wrong")
	}
}

// TestChainsShrink plans the widest products the engine accepts. Every
// level below the top must at least halve the modulus.
func TestChainsShrink(t *testing.T) {
	t.Parallel()
	for _, pBits := range []bignum.BigSize{4096, 16384, 65536, 131200, 131074} {
		levels, _, err := PlanChain(pBits)
		if err != nil {
			t.Fatalf("PlanChain(%d): %v", pBits, err)
		}
		if len(levels) > 4 {
			t.Errorf("PlanChain(%d): %d levels", pBits, len(levels))
		}
		for i := 1; i < len(levels); i++ {
			prev, cur := levels[i-1], levels[i]
			if cur.Goal.Kind != GoalModN || 2*cur.Goal.Bits > prev.Params.N {
				t.Errorf("PlanChain(%d) level %d: %s below N=%d", pBits, i, cur.Goal, prev.Params.N)
			}
		}
	}
}

// TestLargeProductWithinBound multiplies two 8192-bit operands, a product
// that needs a transform level above another one.
func TestLargeProductWithinBound(t *testing.T) {
	t.Parallel()
	const bitsEach = 8192
	rng := rand.New(rand.NewPCG(13, 17))
	x, y := randomBits(rng, bitsEach), randomBits(rng, bitsEach)
	limbs := bignum.DivUp(2*bitsEach, bignum.LimbSize)
	a := bignum.FromBigInt(x, limbs)

	start := time.Now()
	RecursiveMultiply(a.VastMut(), bignum.FromBigInt(y, limbs).Vast())
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("16384-bit product took %v", elapsed)
	}
	if a.ToBigInt().Cmp(new(big.Int).Mul(x, y)) != 0 {
		t.Error("16384-bit product is wrong")
	}
}
