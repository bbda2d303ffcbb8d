package lfsr

// TapTable maps a register width to a tap set known to give a
// maximal-length sequence.
type TapTable interface {
	Lookup(width uint) (Positions, bool)
}

type builtinTable struct{}

// DefaultTable returns the built-in table, covering widths 2 through 255.
// Its entries are published and must not be relied on for secrecy.
func DefaultTable() TapTable {
	return builtinTable{}
}

func (builtinTable) Lookup(width uint) (Positions, bool) {
	if width >= uint(len(wardMolteno)) || wardMolteno[width] == nil {
		return nil, false
	}

	row := wardMolteno[width]
	p := make(Positions, len(row))
	for i, pos := range row {
		p[i] = uint(pos)
	}

	return p, true
}
