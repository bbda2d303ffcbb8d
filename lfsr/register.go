package lfsr

import "fmt"

// Register is a Galois LFSR. The zero value is not usable; build one with
// New or Config.Build.
type Register struct {
	width uint
	taps  uint64
	value uint64

	halted bool

	stop    uint64
	stopSet bool
}

// New builds a register of the given width. Taps may be a Mask, Positions
// or nil. allowUnsafeDefaults opts this call in to the published tap table;
// see Config.
func New(width uint, seed uint64, taps Taps, allowUnsafeDefaults bool) (*Register, error) {
	return Config{
		Width:               width,
		Seed:                seed,
		Taps:                taps,
		AllowUnsafeDefaults: allowUnsafeDefaults,
	}.Build()
}

// step is the Galois transition. value and taps both fit width, so the
// result does too.
func (r *Register) step() uint64 {
	if r.value&1 == 1 {
		return (r.value >> 1) ^ r.taps
	}
	return r.value >> 1
}

// Peek returns the value the next Read will return, without consuming it.
// It returns false once the register has halted.
func (r *Register) Peek() (uint64, bool) {
	if r.halted {
		return 0, false
	}
	return r.step(), true
}

// Read advances the register and returns the new value. If that value is
// the armed stop value it is still returned, and the register halts.
// Every call after that returns false.
func (r *Register) Read() (uint64, bool) {
	if r.halted {
		return 0, false
	}

	next := r.step()
	if r.stopSet && next == r.stop {
		r.halted = true
	}
	r.value = next

	return next, true
}

// ReadInto reads values into dst until it is full or the register halts,
// and returns how many were read.
func (r *Register) ReadInto(dst []uint64) int {
	for i := range dst {
		v, ok := r.Read()
		if !ok {
			return i
		}
		dst[i] = v
	}
	return len(dst)
}

// StopAfterValue arms the register to halt after it emits v. It can be
// called once per register. Stopping after the seed yields one full cycle.
func (r *Register) StopAfterValue(v uint64) error {
	if r.stopSet {
		return fmt.Errorf("%w: already stopping after %d", ErrStopValueAlreadySet, r.stop)
	}

	if !fits(v, r.width) {
		return fmt.Errorf("%w: %d is larger than %d bits", ErrInvalidStopValue, v, r.width)
	}

	r.stop = v
	r.stopSet = true
	return nil
}

// StopValue returns the armed stop value, if any.
func (r *Register) StopValue() (uint64, bool) {
	return r.stop, r.stopSet
}

func (r *Register) Width() uint {
	return r.width
}

func (r *Register) Taps() Mask {
	return Mask(r.taps)
}

func (r *Register) Halted() bool {
	return r.halted
}

func (r *Register) String() string {
	if r.halted {
		return fmt.Sprintf("lfsr(%d bits, taps %#x, halted)", r.width, r.taps)
	}
	return fmt.Sprintf("lfsr(%d bits, taps %#x, value %#x)", r.width, r.taps, r.value)
}
