package bignum

import (
	"fmt"
	"unsafe"
)

// Vast is a read-only view over limbs owned elsewhere, least significant
// limb first.
type Vast []Limb

// VastMut is a writable view over limbs owned elsewhere.
type VastMut []Limb

func (v Vast) Limbs() BigSize { return len(v) }
func (v Vast) GetLimb(i BigSize) Limb { return v[i] }
func (v VastMut) Limbs() BigSize { return len(v) }
func (v VastMut) GetLimb(i BigSize) Limb { return v[i] }

func (v VastMut) SetLimb(i BigSize, l Limb) { v[i] = l }

// Vast returns a read-only view of the same limbs.
func (v VastMut) Vast() Vast { return Vast(v) }

// String formats the view as uppercase hexadecimal.
func (v Vast) String() string { return ToHex(v) }

// String formats the view as uppercase hexadecimal.
func (v VastMut) String() string { return ToHex(v) }

// limbsOf returns the backing slice of memory-backed Pods.
func limbsOf(p Pod) ([]Limb, bool) {
	switch v := p.(type) {
	case Vast:
		return v, true
	case VastMut:
		return v, true
	case Big:
		return v.limbs, true
	case *Big:
		return v.limbs, true
	}
	return nil, false
}

// Overlaps reports whether two limb slices share any element.
func Overlaps(a, b []Limb) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	const w = unsafe.Sizeof(Limb(0))
	aLo := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bLo := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	aHi := aLo + uintptr(len(a))*w
	bHi := bLo + uintptr(len(b))*w
	return aLo < bHi && bLo < aHi
}

// AssertDisjoint panics if a and b overlap.
func AssertDisjoint(a, b []Limb) {
	if Overlaps(a, b) {
		panic(fmt.Sprintf("bignum: aliased operands (%d and %d limbs)", len(a), len(b)))
	}
}
