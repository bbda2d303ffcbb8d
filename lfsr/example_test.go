package lfsr_test

import (
	"errors"
	"fmt"

	"lfsrgen/lfsr"
)

func Example() {
	r, err := lfsr.New(4, 1, lfsr.Positions{4, 1}, false)
	if err != nil {
		panic(err)
	}

	// one full cycle, ending on the seed
	_ = r.StopAfterValue(1)

	var vals []uint64
	for v, ok := r.Read(); ok; v, ok = r.Read() {
		vals = append(vals, v)
	}
	fmt.Println(vals)
	// Output: [9 13 15 14 7 10 5 11 12 6 3 8 4 2 1]
}

func ExampleRegister_Peek() {
	r, _ := lfsr.New(4, 1, lfsr.Positions{4, 1}, false)

	next, _ := r.Peek()
	again, _ := r.Peek()
	read, _ := r.Read()
	fmt.Println(next, again, read)
	// Output: 9 9 9
}

func ExampleNew_unsafeDefaults() {
	_, err := lfsr.New(8, 1, nil, false)
	fmt.Println(errors.Is(err, lfsr.ErrUnsafeDefaultsNotEnabled))

	r, _ := lfsr.New(8, 1, nil, true)
	fmt.Println(r.Taps())
	// Output:
	// true
	// 0xb8
}
