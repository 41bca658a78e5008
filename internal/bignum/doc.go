// Package bignum implements fixed-capacity unsigned integers for Proth
// testing: limb vectors whose length is chosen at construction and never
// changes, plus the arithmetic the Schönhage–Strassen multiplier needs.
//
// Everything that behaves like a limb vector satisfies Pod: the owned Big,
// the non-owning Vast and VastMut views, the Chopped bit window and the
// storage-free Fermat value 2^N+1. The generic Pod* routines work on any of
// them and take a slice fast path when both sides are backed by memory.
//
// Capacity is part of the contract. An operation whose result would not fit
// panics; nothing is truncated silently. Reduction modulo 2^N+1 (ModFermat)
// and the modular inverse (InvModFermat) live here as well because the
// multiplier's precomputation relies on them.
package bignum
