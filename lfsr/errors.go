package lfsr

import "errors"

// Configuration errors. Returned errors wrap one of these with detail, so
// match them with errors.Is.
var (
	// ErrInvalidWidth is returned for a width of 0 or more than MaxWidth.
	ErrInvalidWidth = errors.New("lfsr: invalid width")

	// ErrInvalidSeed is returned for a zero seed or one that does not fit the width.
	ErrInvalidSeed = errors.New("lfsr: invalid seed")

	// ErrInvalidTaps is returned for a malformed or out of range tap set.
	ErrInvalidTaps = errors.New("lfsr: invalid taps")

	// ErrUnsafeDefaultsNotEnabled is returned when taps are omitted without
	// opting in to the default table.
	ErrUnsafeDefaultsNotEnabled = errors.New("lfsr: unsafe default taps not enabled")

	// ErrNoDefaultTaps is returned when the tap table has no entry for the width.
	ErrNoDefaultTaps = errors.New("lfsr: no default taps for width")

	// ErrUnsafeTapsRejected is returned when supplied taps equal the table
	// entry for the width and the caller has not opted in.
	ErrUnsafeTapsRejected = errors.New("lfsr: taps match the published default")

	ErrInvalidStopValue    = errors.New("lfsr: invalid stop value")
	ErrStopValueAlreadySet = errors.New("lfsr: stop value already set")
)
