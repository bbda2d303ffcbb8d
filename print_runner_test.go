package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfsrgen/lfsr"
)

func TestPrintRunner_UntilHalted(t *testing.T) {
	var out bytes.Buffer
	reg := newTestRegister(t, 4, 1, lfsr.Positions{4, 3}, 13)

	NewPrintRunner(reg, &out, 0, false, make(chan error, 1)).Run(context.Background())
	assert.Equal(t, "12\n6\n3\n13\n", out.String())
}

func TestPrintRunner_Count(t *testing.T) {
	var out bytes.Buffer
	reg := newTestRegister(t, 4, 1, lfsr.Positions{4, 3})

	NewPrintRunner(reg, &out, 2, true, make(chan error, 1)).Run(context.Background())
	assert.Equal(t, "12\t(next 6)\n6\t(next 3)\n", out.String())
}

func TestPrintRunner_PeekAtHalt(t *testing.T) {
	var out bytes.Buffer
	reg := newTestRegister(t, 4, 1, lfsr.Positions{4, 3}, 12)

	NewPrintRunner(reg, &out, 0, true, make(chan error, 1)).Run(context.Background())
	assert.Equal(t, "12\t(halted)\n", out.String())
}

func TestPrintRunner_Cancelled(t *testing.T) {
	var out bytes.Buffer
	reg := newTestRegister(t, 4, 1, lfsr.Positions{4, 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewPrintRunner(reg, &out, 0, false, make(chan error, 1)).Run(ctx)
	assert.Empty(t, out.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrintRunner_WriteError(t *testing.T) {
	errchan := make(chan error, 1)
	reg := newTestRegister(t, 4, 1, lfsr.Positions{4, 3})

	NewPrintRunner(reg, failingWriter{}, 0, false, errchan).Run(context.Background())

	require.Len(t, errchan, 1)
	assert.Contains(t, (<-errchan).Error(), "disk full")
}
