package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedProgram is returned when the slot stream ends before a
	// slot with the final flag set.
	ErrMalformedProgram = errors.New("program has no final instruction")

	// ErrInvalidOperandClass is returned when an operand mux selects
	// neither a temporary, an input, nor a constant register.
	ErrInvalidOperandClass = errors.New("invalid operand class")

	// ErrInvalidOpcode is returned when the MAC field holds one of the two
	// encodings past ARL.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrFieldRange reports a field descriptor whose bit window does not
	// fit in its word.
	ErrFieldRange = errors.New("field window exceeds 32 bits")

	// ErrTruncatedSlot is returned when the word stream does not divide
	// into whole slots.
	ErrTruncatedSlot = errors.New("word stream ends inside a slot")
)

// DecodeError carries the index of the slot that faulted.
type DecodeError struct {
	Slot int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vertex program slot %d: %v", e.Slot, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
