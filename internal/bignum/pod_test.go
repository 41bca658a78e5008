package bignum

import (
	"testing"
)

func limbsEqual(t *testing.T, got Pod, want ...Limb) {
	t.Helper()
	if got.Limbs() != len(want) {
		t.Fatalf("got %d limbs (%s), want %d", got.Limbs(), ToHex(got), len(want))
	}
	for i, w := range want {
		if got.GetLimb(i) != w {
			t.Fatalf("limb %d = %#016x, want %#016x (value %s)", i, got.GetLimb(i), w, ToHex(got))
		}
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestMul(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b Big
		want []Limb
	}{
		{
			name: "32-bit square",
			a:    NewBigFromLimbs(0xFFFFFFFF),
			b:    NewBigFromLimbs(0xFFFFFFFF),
			want: []Limb{0xFFFFFFFE00000001, 0},
		},
		{
			name: "full limb square",
			a:    NewBigFromLimbs(LimbMax),
			b:    NewBigFromLimbs(LimbMax),
			want: []Limb{1, 0xFFFFFFFFFFFFFFFE},
		},
		{
			name: "carry across limbs",
			a:    NewBigFromLimbs(LimbMax, 0x00FFFFFFFFFFFFFF),
			b:    NewBigFromLimbs(0x10),
			want: []Limb{0xFFFFFFFFFFFFFFF0, 0x0FFFFFFFFFFFFFFF, 0},
		},
		{
			name: "near limb square",
			a:    NewBigFromLimbs(0xFFFFFFFC00000001),
			b:    NewBigFromLimbs(0xFFFFFFFC00000001),
			want: []Limb{0xFFFFFFF800000001, 0xFFFFFFF800000011},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			limbsEqual(t, Mul(tt.a, tt.b), tt.want...)
		})
	}
}

func TestMulHex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		a, b, p string
	}{
		{"short by nibble", "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFF", "10", "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFF0"},
		{"64-bit", "B85497A9BA510638", "68E100A50B479104", "4B84606D1682968773BEAB03EF51D0E0"},
		{
			"128-bit",
			"5C068A34E30288DED00B063876877E9D",
			"C0259E16F63F000194C4D5BBE3BB3907",
			"45126D6DEE4829175D96FEE6FAF7CA84D2CAD2D35BED3265C68E95DD1C946B4B",
		},
		{
			"256-bit",
			"B27CC95B7B89BF33DDCE184822C1376CF99527E2862042DBB66313F44C4C47B6",
			"5D94E89EF3FBA74A9314E05B5D1533B48AE9F0C710ED2A2C8885CAD9F5757B8F",
			"413F277A8E5F8CA21ECA155F55015643AD0E5FFD1FF5F3F566D0556C650D3C9278081C242052F867408AE0018570DE663FED010592A91E083666CAE3393E80AA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Mul(MustFromHex(tt.a), MustFromHex(tt.b))
			if got.String() != tt.p {
				t.Errorf("Mul = %s, want %s", got, tt.p)
			}
		})
	}
}

func TestAssignMulPreconditions(t *testing.T) {
	t.Parallel()
	a := NewBigFromLimbs(1, 1)
	mustPanic(t, "dest too small", func() {
		PodAssignMul(NewBig(3), a, a)
	})
	buf := make([]Limb, 4)
	mustPanic(t, "dest aliases operand", func() {
		PodAssignMul(VastMut(buf), Vast(buf[:1]), a)
	})
}

func TestShl(t *testing.T) {
	t.Parallel()
	x := NewBigFromLimbs(0xFF, 0)
	steps := []struct {
		shift BigSize
		want  []Limb
	}{
		{8, []Limb{0xFF00, 0}},
		{48, []Limb{0xFF00000000000000, 0}},
		{4, []Limb{0xF000000000000000, 0xF}},
		{4, []Limb{0, 0xFF}},
		{0, []Limb{0, 0xFF}},
	}
	for _, s := range steps {
		x.ShlAssign(s.shift)
		limbsEqual(t, x, s.want...)
	}

	y := NewBigFromLimbs(0xFF, 0)
	y.ShlAssign(64)
	limbsEqual(t, y, 0, 0xFF)

	mustPanic(t, "shift past capacity", func() { y.ShlAssign(57) })
}

func TestShr(t *testing.T) {
	t.Parallel()
	x := NewBigFromLimbs(0, 0xFF)
	steps := []struct {
		shift BigSize
		want  []Limb
	}{
		{4, []Limb{0xF000000000000000, 0xF}},
		{4, []Limb{0xFF00000000000000, 0}},
		{48, []Limb{0xFF00, 0}},
		{8, []Limb{0xFF, 0}},
		{0, []Limb{0xFF, 0}},
	}
	for _, s := range steps {
		x.ShrAssign(s.shift)
		limbsEqual(t, x, s.want...)
	}

	y := NewBigFromLimbs(0, 0xFF)
	y.ShrAssign(64)
	limbsEqual(t, y, 0xFF, 0)
}

func TestAssignShl(t *testing.T) {
	t.Parallel()
	src := NewBigFromLimbs(0x8000000000000001)
	dest := NewBig(3)
	PodAssignShl(dest, src, 65)
	limbsEqual(t, dest, 0, 2, 1)
}

func TestAddAssign(t *testing.T) {
	t.Parallel()
	x := NewBigFromLimbs(0x0FFFFFFFFFFFFFFF, 0)
	x.AddAssign(NewBigFromLimbs(0xF000000000000000))
	limbsEqual(t, x, LimbMax, 0)
	x.AddLimb(1)
	limbsEqual(t, x, 0, 1)

	mustPanic(t, "carry out", func() {
		y := NewBigFromLimbs(LimbMax)
		y.AddLimb(1)
	})
	mustPanic(t, "addend wider than destination", func() {
		NewBig(1).AddAssign(NewBigFromLimbs(0, 1))
	})
	// A wider addend whose extra limbs are zero is fine.
	z := NewBig(1)
	z.AddAssign(NewBigFromLimbs(5, 0, 0))
	limbsEqual(t, z, 5)
}

func TestSubAssign(t *testing.T) {
	t.Parallel()
	x := NewBigFromLimbs(0, 1)
	x.SubAssign(NewBigFromLimbs(1))
	limbsEqual(t, x, LimbMax, 0)

	mustPanic(t, "underflow", func() {
		NewBigFromLimbs(1).SubAssign(NewBigFromLimbs(2))
	})

	d := NewBigFromLimbs(3, 0)
	PodBackwardsSubAssign(d, NewBigFromLimbs(0, 1))
	limbsEqual(t, d, LimbMax-2, 0)

	mustPanic(t, "backwards underflow", func() {
		PodBackwardsSubAssign(NewBigFromLimbs(5), NewBigFromLimbs(4))
	})
}

func TestDivMod(t *testing.T) {
	t.Parallel()
	n := MustFromHex("68E100A50B479104")
	d := MustFromHex("D00B0638")
	q, r := DivMod(n, d)
	if q.String() != "810E1609" {
		t.Errorf("quotient = %s, want 810E1609", q)
	}
	back := Mul(q, d)
	back.AddAssign(r)
	if !back.Equal(n) {
		t.Errorf("q*d+r = %s, want %s", back, n)
	}
	if r.Cmp(d) >= 0 {
		t.Errorf("remainder %s not below divisor %s", r, d)
	}

	// Divisor using the top bit of its only limb.
	q, r = DivMod(NewBigFromLimbs(LimbMax), NewBigFromLimbs(0x8000000000000001))
	limbsEqual(t, q, 1)
	limbsEqual(t, r, 0x7FFFFFFFFFFFFFFE)

	mustPanic(t, "division by zero", func() { Div(n, NewBig(1)) })
}

func TestBits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		hex  string
		want BigSize
	}{
		{"0", 0},
		{"3", 2},
		{"FFFFFFFF", 32},
		{"FFFFFFFFFFFFFFFF", 64},
		{"1FFFFFFFFFFFFFFFF", 65},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			t.Parallel()
			if got := MustFromHex(tt.hex).Bits(); got != tt.want {
				t.Errorf("Bits(%s) = %d, want %d", tt.hex, got, tt.want)
			}
		})
	}
}

func TestCmp(t *testing.T) {
	t.Parallel()
	short := NewBigFromLimbs(7)
	long := NewBigFromLimbs(7, 0, 0)
	if !short.Equal(long) {
		t.Error("zero extension should make values equal")
	}
	if PodCmp(short, NewBigFromLimbs(0, 1)) != -1 {
		t.Error("expected 7 < 2^64")
	}
	if PodCmp(NewBigFromLimbs(0, 1), short) != 1 {
		t.Error("expected 2^64 > 7")
	}
}

func TestDownsized(t *testing.T) {
	t.Parallel()
	b := NewBigFromLimbs(9, 0, 0)
	limbsEqual(t, b.Downsized(1), 9)
	limbsEqual(t, BigExtend(b, 4), 9, 0, 0, 0)
	mustPanic(t, "nonzero limb dropped", func() {
		NewBigFromLimbs(9, 1).Downsized(1)
	})
	mustPanic(t, "zero size", func() { NewBig(0) })
}
