package lfsr

import "fmt"

// MaxWidth is the widest register supported. One bit of uint64 is left
// unused so every value also fits in an int64.
const MaxWidth = 63

// Config describes a register to build.
type Config struct {
	Width uint
	Seed  uint64

	// Taps may be nil, in which case the Table entry for Width is used.
	// That is only allowed when AllowUnsafeDefaults is set.
	Taps Taps

	// AllowUnsafeDefaults opts this construction in to the published tap
	// table, both for omitted Taps and for Taps that happen to equal it.
	AllowUnsafeDefaults bool

	// Table defaults to DefaultTable().
	Table TapTable
}

// Build validates the configuration and returns a register loaded with
// the seed.
func (c Config) Build() (*Register, error) {
	taps, err := c.resolve()
	if err != nil {
		return nil, err
	}

	return &Register{
		width: c.Width,
		taps:  taps,
		value: c.Seed,
	}, nil
}

func (c Config) resolve() (uint64, error) {
	if c.Width == 0 || c.Width > MaxWidth {
		return 0, fmt.Errorf("%w: %d bits is outside 1..%d", ErrInvalidWidth, c.Width, MaxWidth)
	}

	if c.Seed == 0 {
		return 0, fmt.Errorf("%w: seed must be greater than 0", ErrInvalidSeed)
	}

	if !fits(c.Seed, c.Width) {
		return 0, fmt.Errorf("%w: seed %d is larger than %d bits", ErrInvalidSeed, c.Seed, c.Width)
	}

	table := c.Table
	if table == nil {
		table = DefaultTable()
	}

	taps := c.Taps
	if taps == nil {
		if !c.AllowUnsafeDefaults {
			return 0, fmt.Errorf("%w: specify custom taps for %d bits", ErrUnsafeDefaultsNotEnabled, c.Width)
		}

		p, ok := table.Lookup(c.Width)
		if !ok {
			return 0, fmt.Errorf("%w: %d bits", ErrNoDefaultTaps, c.Width)
		}
		taps = p
	}

	mask, err := taps.mask(c.Width)
	if err != nil {
		return 0, err
	}

	if !c.AllowUnsafeDefaults {
		if p, ok := table.Lookup(c.Width); ok {
			if def, err := p.mask(c.Width); err == nil && def == mask {
				return 0, fmt.Errorf("%w: %#x is the published value for %d bits", ErrUnsafeTapsRejected, mask, c.Width)
			}
		}
	}

	return mask, nil
}

// Period returns the length of a maximal-length sequence for width, which
// is 2^width - 1. The width must be in 1..MaxWidth.
func Period(width uint) uint64 {
	return 1<<width - 1
}

func fits(v uint64, width uint) bool {
	return v>>width == 0
}
