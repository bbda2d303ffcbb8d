package main

import (
	"context"
	"fmt"
	"io"

	"lfsrgen/lfsr"
)

// PrintRunner writes register values to out, one per line. With peek set
// each line also shows the value that will come next.
type PrintRunner struct {
	reg     *lfsr.Register
	out     io.Writer
	count   int
	peek    bool
	errchan chan error
}

// NewPrintRunner prints count values, or runs until the register halts when
// count is 0.
func NewPrintRunner(reg *lfsr.Register, out io.Writer, count int, peek bool, errchan chan error) *PrintRunner {
	return &PrintRunner{
		reg:     reg,
		out:     out,
		count:   count,
		peek:    peek,
		errchan: errchan,
	}
}

func (p *PrintRunner) Run(ctx context.Context) {
	Logger().Infof("printing %s", p.reg)

	for i := 0; p.count == 0 || i < p.count; i++ {
		if ctx.Err() != nil {
			return
		}

		v, ok := p.reg.Read()
		if !ok {
			Logger().Infof("register halted after %d values", i)
			return
		}

		var err error
		if p.peek {
			if next, ok := p.reg.Peek(); ok {
				_, err = fmt.Fprintf(p.out, "%d\t(next %d)\n", v, next)
			} else {
				_, err = fmt.Fprintf(p.out, "%d\t(halted)\n", v)
			}
		} else {
			_, err = fmt.Fprintf(p.out, "%d\n", v)
		}

		if err != nil {
			select {
			case p.errchan <- fmt.Errorf("print: %s", err):
			default:
			}
			return
		}
	}
}
