package core

import (
	"fmt"
	"strings"
)

// Instruction is a decoded slot: the opcodes of both units and the
// statements they emit, MAC statements first.
type Instruction struct {
	Slot   Slot
	MAC    MACOp
	ILU    ILUOp
	Writes []Write
}

// Final reports whether the instruction ends the program.
func (in Instruction) Final() bool {
	return in.Slot.IsFinal()
}

// String renders the statements of the instruction, one per line. A slot in
// which both units are idle renders as the empty string.
func (in Instruction) String() string {
	var b strings.Builder
	in.render(&b)

	return b.String()
}

func (in Instruction) render(b *strings.Builder) {
	for _, w := range in.Writes {
		w.render(b)
	}
}

// DecodeSlot decodes one slot into its statements. Operand C is decoded once
// and shared by both units.
func DecodeSlot(slot Slot) (Instruction, error) {
	in := Instruction{
		Slot: slot,
		MAC:  MACOp(slot.Field(FieldMAC)),
		ILU:  ILUOp(slot.Field(FieldILU)),
	}

	if in.MAC >= numMACOps {
		return Instruction{}, fmt.Errorf("MAC opcode %d: %w",
			uint8(in.MAC), ErrInvalidOpcode)
	}

	// C is on the read port both units share, so every slot decodes it.
	c, err := operandC(slot)
	if err != nil {
		return Instruction{}, err
	}

	usage := in.MAC.Usage()

	if in.MAC != MACNop {
		inputs, err := macInputs(slot, usage, c)
		if err != nil {
			return Instruction{}, err
		}

		in.Writes = append(in.Writes, emit(slot, UnitMAC,
			in.MAC.String(), in.MAC == MACArl,
			slot.Field(FieldOutMACMask), inputs)...)
	}

	if in.ILU != ILUNop {
		in.Writes = append(in.Writes, emit(slot, UnitILU,
			in.ILU.String(), false,
			slot.Field(FieldOutILUMask), []Operand{c})...)
	}

	return in, nil
}

func macInputs(slot Slot, usage OperandUsage, c Operand) ([]Operand, error) {
	inputs := make([]Operand, 0, 3)

	if usage.A {
		a, err := operandA(slot)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, a)
	}

	if usage.B {
		b, err := operandB(slot)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, b)
	}

	if usage.C {
		inputs = append(inputs, c)
	}

	return inputs, nil
}
