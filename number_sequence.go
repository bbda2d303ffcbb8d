package main

import "lfsrgen/lfsr"

// chooserTaps is x^32+x^22+x^2+x+1, a maximal-length set that is not the
// one in the published table.
var chooserTaps = lfsr.Positions{32, 22, 2, 1}

// NumberSequence is a generator of not-crypto-strong random numbers, used
// to decide block placement. It never halts.
type NumberSequence struct {
	reg *lfsr.Register
}

// NewNumberSequence creates a sequence from a nonzero 32-bit seed. Zero is
// replaced with 1.
func NewNumberSequence(seed uint32) *NumberSequence {
	if seed == 0 {
		seed = 1
	}

	reg, err := lfsr.New(32, uint64(seed), chooserTaps, false)
	if err != nil {
		// width, seed and taps are all fixed and valid
		panic(err)
	}

	return &NumberSequence{reg: reg}
}

// Next returns the next number in the sequence.
func (seq *NumberSequence) Next() uint64 {
	v, _ := seq.reg.Read()
	return v
}
