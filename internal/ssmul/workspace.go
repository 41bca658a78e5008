package ssmul

import (
	"math/bits"
	"sync"

	"github.com/agbru/prothcalc/internal/bignum"
)

// ─────────────────────────────────────────────────────────────────────────────
// Limb Block Pools
// ─────────────────────────────────────────────────────────────────────────────

// limbBlockSizes are the pooled block sizes, powers of 4 from 4^3 = 64 limbs
// up to 16M limbs (128MB).
var limbBlockSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

var limbBlockPools [len(limbBlockSizes)]sync.Pool

func init() {
	for i, sz := range limbBlockSizes {
		limbBlockPools[i].New = func() any { return make([]bignum.Limb, sz) }
	}
}

// limbBlockPoolIndex returns the pool index for size, or -1 when size is
// too large to pool. Size class i holds 4^(i+3) limbs, so bits.Len maps
// straight to the index.
func limbBlockPoolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > limbBlockSizes[len(limbBlockSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// acquireLimbBlock returns a zeroed block of exactly size limbs. Release it
// with releaseLimbBlock.
func acquireLimbBlock(size int) []bignum.Limb {
	idx := limbBlockPoolIndex(size)
	if idx < 0 {
		return make([]bignum.Limb, size)
	}
	block := limbBlockPools[idx].Get().([]bignum.Limb)
	clear(block)
	return block[:size]
}

// releaseLimbBlock returns a block to its pool. Blocks that were allocated
// directly are left to the GC.
func releaseLimbBlock(block []bignum.Limb) {
	if block == nil {
		return
	}
	c := cap(block)
	idx := limbBlockPoolIndex(c)
	if idx >= 0 && limbBlockSizes[idx] == c {
		limbBlockPools[idx].Put(block[:c])
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Arena
// ─────────────────────────────────────────────────────────────────────────────

// Arena hands out every scratch buffer of a chain from one contiguous limb
// block with a bump pointer. Buffers are capped sub-slices, so appending to
// one can never spill into its neighbour.
type Arena struct {
	buf    []bignum.Limb
	offset int
}

// NewArena reserves total limbs.
func NewArena(total bignum.BigSize) *Arena {
	if total <= 0 {
		return &Arena{}
	}
	return &Arena{buf: acquireLimbBlock(total)}
}

// Alloc returns a zeroed buffer of sz limbs. When the block is exhausted it
// falls back to the heap.
func (a *Arena) Alloc(sz bignum.BigSize) bignum.VastMut {
	if a.buf == nil || a.offset+sz > len(a.buf) {
		return make(bignum.VastMut, sz)
	}
	out := a.buf[a.offset : a.offset+sz : a.offset+sz]
	a.offset += sz
	return bignum.VastMut(out)
}

// AllocPlan allocates every buffer of plan in order.
func (a *Arena) AllocPlan(plan Plan) []bignum.VastMut {
	ws := make([]bignum.VastMut, len(plan.RequiredSz))
	for i, sz := range plan.RequiredSz {
		ws[i] = a.Alloc(sz)
	}
	return ws
}

// Release returns the block to the pool. Buffers handed out earlier must
// not be used afterwards.
func (a *Arena) Release() {
	releaseLimbBlock(a.buf)
	a.buf = nil
	a.offset = 0
}

// UsedLimbs returns the number of limbs handed out so far.
func (a *Arena) UsedLimbs() int {
	return a.offset
}

// CapacityLimbs returns the size of the block.
func (a *Arena) CapacityLimbs() int {
	return len(a.buf)
}
