package bignum

// SVast is a signed-magnitude accumulator over a borrowed view. Zero is
// never negative once an operation has completed.
type SVast struct {
	V        VastMut
	Negative bool
}

// NewSVast wraps v as a non-negative accumulator.
func NewSVast(v VastMut) *SVast {
	return &SVast{V: v}
}

// IsNegative reports whether the value is strictly below zero.
func (s *SVast) IsNegative() bool {
	return s.Negative && !IsZero(s.V)
}

// Zero clears the magnitude and sign.
func (s *SVast) Zero() {
	clear(s.V)
	s.Negative = false
}

// AddAssign adds the unsigned value a.
func (s *SVast) AddAssign(a Pod) {
	if !s.Negative {
		PodAddAssign(s.V, a)
		return
	}
	s.towardZero(a)
}

// SubAssign subtracts the unsigned value a.
func (s *SVast) SubAssign(a Pod) {
	if s.Negative {
		PodAddAssign(s.V, a)
		return
	}
	s.towardZero(a)
}

// towardZero moves the value by |a| toward and possibly across zero.
func (s *SVast) towardZero(a Pod) {
	if PodCmp(s.V, a) >= 0 {
		PodSubAssign(s.V, a)
	} else {
		PodBackwardsSubAssign(s.V, a)
		s.Negative = !s.Negative
	}
	if IsZero(s.V) {
		s.Negative = false
	}
}

// Cmp compares the signed value against the unsigned a.
func (s *SVast) Cmp(a Pod) int {
	if s.IsNegative() {
		return -1
	}
	return PodCmp(s.V, a)
}

// SBig is a signed-magnitude integer over an owned Big.
type SBig struct {
	mag      Big
	negative bool
}

// NewSBig returns zero in sz limbs.
func NewSBig(sz BigSize) SBig {
	return SBig{mag: NewBig(sz)}
}

// NewSBigOne returns +1 in sz limbs.
func NewSBigOne(sz BigSize) SBig {
	return SBig{mag: NewBigOne(sz)}
}

// SBigFrom pairs a magnitude with a sign. The magnitude is not copied.
func SBigFrom(mag Big, negative bool) SBig {
	return SBig{mag: mag, negative: negative && !mag.IsZero()}
}

// Magnitude returns |s|.
func (s SBig) Magnitude() Big { return s.mag }

// IsNegative reports whether s < 0.
func (s SBig) IsNegative() bool { return s.negative && !s.mag.IsZero() }

// Limbs returns the width of the magnitude.
func (s SBig) Limbs() BigSize { return s.mag.Limbs() }

// Add returns s + o sized to the wider operand.
func (s SBig) Add(o SBig) SBig {
	sz := max(s.Limbs(), o.Limbs())
	if s.IsNegative() == o.IsNegative() {
		m := BigExtend(s.mag, sz)
		m.AddAssign(o.mag)
		return SBigFrom(m, s.IsNegative())
	}
	if PodCmp(s.mag, o.mag) >= 0 {
		m := BigExtend(s.mag, sz)
		m.SubAssign(o.mag)
		return SBigFrom(m, s.IsNegative())
	}
	m := BigExtend(o.mag, sz)
	m.SubAssign(s.mag)
	return SBigFrom(m, o.IsNegative())
}

// Sub returns s - o sized to the wider operand.
func (s SBig) Sub(o SBig) SBig {
	return s.Add(o.Neg())
}

// Neg returns -s sharing the magnitude.
func (s SBig) Neg() SBig {
	return SBigFrom(s.mag, !s.IsNegative())
}

// AddBig returns s + b for unsigned b.
func (s SBig) AddBig(b Big) SBig {
	return s.Add(SBig{mag: b})
}

// MulBig returns s * b for unsigned b, in s.Limbs()+b.Limbs() limbs.
func (s SBig) MulBig(b Big) SBig {
	return SBigFrom(Mul(s.mag, b), s.IsNegative())
}

// Downsized narrows the magnitude to sz limbs, panicking if that would
// drop significant limbs.
func (s SBig) Downsized(sz BigSize) SBig {
	return SBigFrom(s.mag.Downsized(sz), s.negative)
}

// Cmp orders signed values.
func (s SBig) Cmp(o SBig) int {
	sn, on := s.IsNegative(), o.IsNegative()
	switch {
	case sn && !on:
		return -1
	case !sn && on:
		return 1
	case sn:
		return PodCmp(o.mag, s.mag)
	default:
		return PodCmp(s.mag, o.mag)
	}
}

// Equal reports whether s and o hold the same signed value.
func (s SBig) Equal(o SBig) bool { return s.Cmp(o) == 0 }

func (s SBig) String() string {
	if s.IsNegative() {
		return "-" + ToHex(s.mag)
	}
	return ToHex(s.mag)
}
