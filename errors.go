package thirdvm

import "fmt"

// Error kinds, named per the stable user-visible strings in the spec.
// Every kind below implements error and is returned by value so that
// errors.As can recover the offending address/token where one exists.

// IllegalAddressError reports an access outside the live image, or beyond
// the per-write grow margin (MaxExtend) when writing.
type IllegalAddressError struct{ Addr uint32 }

func (e IllegalAddressError) Error() string { return "illegal address" }

// UnalignedAccessError reports a 32-bit access whose address is not a
// multiple of 4.
type UnalignedAccessError struct{ Addr uint32 }

func (e UnalignedAccessError) Error() string { return "unaligned memory access" }

// UnknownOpcodeError reports a code-field byte that names no primitive.
type UnknownOpcodeError struct{ Opcode byte }

func (e UnknownOpcodeError) Error() string { return "unknown opcode" }

// DataStackUnderflowError reports a pop from an empty data stack.
type DataStackUnderflowError struct{}

func (e DataStackUnderflowError) Error() string { return "data stack underflow" }

// ReturnStackUnderflowError reports a pop from an empty return stack.
type ReturnStackUnderflowError struct{}

func (e ReturnStackUnderflowError) Error() string { return "return stack underflow" }

// IOError wraps a failure from the underlying byte source or sink.
type IOError struct{ Err error }

func (e IOError) Error() string { return "i/o error" }
func (e IOError) Unwrap() error { return e.Err }

// UnknownWordError reports a token that is neither a dictionary hit nor a
// well-formed number literal; it carries the offending token text.
type UnknownWordError struct{ Token string }

func (e UnknownWordError) Error() string { return fmt.Sprintf("unknown word %s", e.Token) }

// InputTerminatedError reports a clean end of the byte source (EOF); the
// step loop recovers from this by stopping, not by resetting pc.
type InputTerminatedError struct{}

func (e InputTerminatedError) Error() string { return "input terminated" }

// DivisionByZeroError reports an attempt to divide or take the remainder
// by zero. This is an expansion beyond spec.md's literal text (see
// SPEC_FULL.md §4.4): the spec defers the choice to the implementation,
// and a Go panic here would otherwise crash the whole host process.
type DivisionByZeroError struct{}

func (e DivisionByZeroError) Error() string { return "division by zero" }
