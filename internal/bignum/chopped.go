package bignum

import "fmt"

// Chopped is a read-only window of length bits of src, starting at bit
// start. It never copies; bits past the end of src read as zero.
type Chopped struct {
	src    Pod
	start  BigSize
	length BigSize
}

// Chop returns the window [start, start+length) of src.
func Chop(src Pod, start, length BigSize) Chopped {
	if start < 0 || length < 0 {
		panic(fmt.Sprintf("bignum: invalid window start=%d length=%d", start, length))
	}
	return Chopped{src: src, start: start, length: length}
}

// Limbs returns the number of limbs needed for length bits.
func (c Chopped) Limbs() BigSize {
	return DivUp(c.length, LimbSize)
}

// GetLimb returns limb i of the window.
func (c Chopped) GetLimb(i BigSize) Limb {
	sz := c.Limbs()
	if i < 0 || i >= sz {
		panic(fmt.Sprintf("bignum: window limb %d out of range [0,%d)", i, sz))
	}
	ls, bs := c.start/LimbSize, uint(c.start%LimbSize)
	v := limbAt(c.src, ls+i) >> bs
	if bs != 0 {
		v |= limbAt(c.src, ls+i+1) << (uint(LimbSize) - bs)
	}
	if i == sz-1 {
		if rem := c.length % LimbSize; rem != 0 {
			v &= 1<<uint(rem) - 1
		}
	}
	return v
}

// String formats the window as uppercase hexadecimal.
func (c Chopped) String() string { return ToHex(c) }
