package mem

import "errors"

// Every fatal condition the hierarchy can raise wraps one of these
// sentinels with %w, so callers can branch on category with errors.Is
// while the message carries the specifics.
var (
	// ErrInvalidArgs covers bad configuration: wrong arity, non-integer
	// arguments, levels outside {1,2}, or a block size that is not a
	// power of two.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrMalformedTrace covers trace lines missing required fields or
	// carrying unparseable hex.
	ErrMalformedTrace = errors.New("malformed trace")

	// ErrIOFailure covers missing/unreadable input files and
	// unwritable output files.
	ErrIOFailure = errors.New("io failure")

	// ErrContractViolation covers calls that violate the Level
	// contract: BlockSize or FlushIfNeeded invoked on MainMemory, or
	// Read/Write invoked on a level where IsPresent is false. These are
	// programmer errors, not user input errors.
	ErrContractViolation = errors.New("contract violation")

	// ErrAddressing covers addresses outside main memory bounds. No
	// alignment check is made anywhere in the hierarchy, so a
	// misaligned address never raises it.
	ErrAddressing = errors.New("addressing error")
)
