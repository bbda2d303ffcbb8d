package lfsr

import (
	"fmt"
	"strconv"
	"strings"
)

// Taps selects which bits of a register feed back on each step. It is
// either a Mask or a list of Positions. A nil Taps means none were given.
type Taps interface {
	mask(width uint) (uint64, error)
}

// Mask is a tap set given as a bitmask: bit k set means bit position k+1
// takes part in feedback.
type Mask uint64

func (m Mask) mask(width uint) (uint64, error) {
	if m == 0 {
		return 0, fmt.Errorf("%w: mask is zero", ErrInvalidTaps)
	}

	if !fits(uint64(m), width) {
		return 0, fmt.Errorf("%w: mask %#x is larger than %d bits", ErrInvalidTaps, uint64(m), width)
	}

	return uint64(m), nil
}

func (m Mask) String() string {
	return fmt.Sprintf("%#x", uint64(m))
}

// Positions is a tap set given as 1-indexed bit positions, highest first by
// convention. Positions{4, 3} is the mask 0b1100.
type Positions []uint

func (p Positions) mask(width uint) (uint64, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: no tap positions", ErrInvalidTaps)
	}

	var m uint64
	for _, pos := range p {
		if pos == 0 || pos > width {
			return 0, fmt.Errorf("%w: tap position %d is outside 1..%d", ErrInvalidTaps, pos, width)
		}
		m |= 1 << (pos - 1)
	}

	return m, nil
}

func (p Positions) String() string {
	strs := make([]string, len(p))
	for i, pos := range p {
		strs[i] = strconv.FormatUint(uint64(pos), 10)
	}
	return strings.Join(strs, ",")
}

// ParseTaps reads a tap set from text. A comma separated list ("4,3") is
// read as Positions; a single number, decimal or with a 0x/0b/0o prefix,
// is read as a Mask. A bare leading zero ("012") is rejected rather than
// read as octal. An empty string yields a nil Taps.
func ParseTaps(s string) (Taps, error) {
	s = strings.TrimSpace(s)

	if len(s) == 0 {
		return nil, nil
	}

	if !strings.Contains(s, ",") {
		if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
			return nil, fmt.Errorf("%w: ambiguous leading zero in '%s'; use 0o for octal", ErrInvalidTaps, s)
		}

		m, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot parse '%s' as a mask", ErrInvalidTaps, s)
		}
		return Mask(m), nil
	}

	var p Positions
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if len(field) == 0 {
			continue
		}

		pos, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot parse '%s' as a tap position", ErrInvalidTaps, field)
		}
		p = append(p, uint(pos))
	}

	return p, nil
}
