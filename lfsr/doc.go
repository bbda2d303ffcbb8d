// Package lfsr implements a Galois linear feedback shift register.
//
// A Register is built from a width, a nonzero seed and a tap set, and then
// stepped with Read. Peek returns the next value without consuming it, and
// StopAfterValue arms a one-shot marker after which the register halts.
//
// Output is not suitable for cryptographic use, no matter which taps are
// chosen. The built-in maximal-length tap table is well known, so New
// refuses to use it, or any mask equal to it, unless the caller opts in on
// that call.
//
//	r, err := lfsr.New(4, 1, lfsr.Positions{4, 1}, false)
//	if err != nil {
//		return err
//	}
//	for v, ok := r.Read(); ok; v, ok = r.Read() {
//		...
//	}
//
// A Register is not safe for concurrent use; give each consumer its own.
package lfsr
