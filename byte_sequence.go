package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"lfsrgen/lfsr"
)

// ByteSequence is a stream of not-crypto-strong bytes taken from an LFSR.
// Each register value contributes width/8 bytes (rounded up), least
// significant first.
type ByteSequence struct {
	reg    *lfsr.Register
	stride int
	size   int64
	offset int64

	pending [8]byte
	pendOff int
	pendLen int
}

// NewByteSequence creates a sequence of the given size over reg.
func NewByteSequence(reg *lfsr.Register, size int64) *ByteSequence {
	return &ByteSequence{
		reg:    reg,
		stride: int(reg.Width()+7) / 8,
		size:   size,
	}
}

// Exhausted reports whether the register has halted and every byte of its
// last value has been handed out.
func (seq *ByteSequence) Exhausted() bool {
	return seq.reg.Halted() && seq.pendOff == seq.pendLen
}

// Read fills the buffer until the sequence's size is exhausted or the
// register halts, after which it returns io.EOF. Useful with io.Copy and
// other code that wants to treat the sequence like an io.Reader.
func (seq *ByteSequence) Read(buf []byte) (int, error) {
	if seq.offset >= seq.size {
		return 0, io.EOF
	}

	remaining := seq.size - seq.offset

	readSize := int64(len(buf))
	if readSize > remaining {
		readSize = remaining
	}

	n := seq.fill(buf[:readSize])
	seq.offset += int64(n)

	if n == 0 && len(buf) > 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Fill fills the buffer without paying attention to the sequence size. It
// returns fewer than len(buf) bytes only if the register halts.
func (seq *ByteSequence) Fill(buf []byte) int {
	return seq.fill(buf)
}

func (seq *ByteSequence) fill(buf []byte) int {
	n := 0

	for n < len(buf) {
		if seq.pendOff == seq.pendLen {
			v, ok := seq.reg.Read()
			if !ok {
				break
			}
			binary.LittleEndian.PutUint64(seq.pending[:], v)
			seq.pendOff = 0
			seq.pendLen = seq.stride
		}

		c := copy(buf[n:], seq.pending[seq.pendOff:seq.pendLen])
		seq.pendOff += c
		n += c
	}

	return n
}

const patternBlockSize = 65536

var patternBlock = func() []byte {
	blk := make([]byte, patternBlockSize)
	for i := range blk {
		blk[i] = 'A'
	}
	return blk
}()

// PatternFill fills buffer with a certain amount of compressibility,
// ranging from 0 (not compressible) to 100 (completely compressible). The
// chooser decides where the pattern blocks go. It returns the number of
// bytes filled, which is short of len(buf) only if the register halts.
func (seq *ByteSequence) PatternFill(buf []byte, compressibility int, chooser *NumberSequence) int {
	if len(buf) == 0 || seq.Exhausted() {
		return 0
	}

	if compressibility == 0 {
		return seq.fill(buf)
	}

	blocks := len(buf) / patternBlockSize
	leftover := len(buf) % patternBlockSize
	patternBlocks := int(float32(blocks) * float32(compressibility) / float32(100))
	randomBlocks := blocks - patternBlocks

	for i := 0; i < blocks; i++ {
		blk := buf[i*patternBlockSize : (i+1)*patternBlockSize]

		if randomBlocks == 0 || (patternBlocks > 0 && chooser.Next()&1 == 0) {
			copy(blk, patternBlock)
			patternBlocks--
			continue
		}

		if n := seq.fill(blk); n < len(blk) {
			return i*patternBlockSize + n
		}
		randomBlocks--
	}

	if leftover == 0 {
		return len(buf)
	}

	tail := buf[blocks*patternBlockSize:]
	if chooser.Next()%100 < uint64(compressibility) {
		copy(tail, patternBlock[:leftover])
		return len(buf)
	}

	return blocks*patternBlockSize + seq.fill(tail)
}

// Seek lets you rewind (or otherwise change position) when using this
// sequence as a stream. Seek only changes the position within the stream;
// the register keeps going, so reading the same offset twice yields
// different data.
func (seq *ByteSequence) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = seq.offset + offset
	case io.SeekEnd:
		newOffset = seq.size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("cannot seek to negative offset %d", newOffset)
	}

	if newOffset > seq.size {
		return 0, fmt.Errorf("cannot seek past end of sequence to offset %d (size %d)", newOffset, seq.size)
	}

	seq.offset = newOffset
	return seq.offset, nil
}

// Write just drops everything on the floor. Provided for compatibility
// with io.ReadWriter.
func (seq *ByteSequence) Write(buf []byte) (int, error) {
	return len(buf), nil
}

// Close sets any remaining sequence size to zero. Provided for compatibility
// with io.Closer.
func (seq *ByteSequence) Close() error {
	seq.size = 0
	return nil
}
