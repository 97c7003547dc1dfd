package core

import (
	"fmt"
	"strings"
)

// Unit names one of the two co-issued execution units. The values match the
// encoding of the output mux field.
type Unit uint8

const (
	UnitMAC Unit = iota
	UnitILU
)

func (u Unit) String() string {
	switch u {
	case UnitMAC:
		return "MAC"
	case UnitILU:
		return "ILU"
	default:
		return fmt.Sprintf("Unit(%d)", uint8(u))
	}
}

// DestKind is the register file a statement writes.
type DestKind uint8

const (
	// DestTemp is a temporary register R0..R15.
	DestTemp DestKind = iota
	// DestAddress is the integer address register written by ARL.
	DestAddress
	// DestConst is an entry of the constant array.
	DestConst
	// DestOutput is one of the named output registers.
	DestOutput
)

// Dest is the destination of one statement.
type Dest struct {
	Kind  DestKind
	Index int
}

func (d Dest) String() string {
	switch d.Kind {
	case DestAddress:
		return "A0"
	case DestConst:
		return fmt.Sprintf("c[%d]", d.Index)
	case DestOutput:
		return outRegNames[d.Index&0xF]
	default:
		return fmt.Sprintf("R%d", d.Index)
	}
}

// Write is one emitted statement: an opcode helper applied to its inputs and
// stored into the masked lanes of a destination.
type Write struct {
	Unit   Unit
	Opcode string
	Dest   Dest
	Mask   uint32
	Inputs []Operand
}

// String renders the statement as one indented line of the entry point.
func (w Write) String() string {
	var b strings.Builder
	w.render(&b)

	return b.String()
}

func (w Write) render(b *strings.Builder) {
	b.WriteString("  ")
	b.WriteString(w.Opcode)
	b.WriteByte('(')
	b.WriteString(w.Dest.String())
	if w.Dest.Kind != DestAddress {
		b.WriteString(maskSuffix[w.Mask&0xF])
	}
	for _, in := range w.Inputs {
		b.WriteString(", ")
		b.WriteString(in.String())
	}
	b.WriteString(");\n")
}

// emit resolves the statements one unit contributes to a slot. A unit writes
// its temporary register when its mask survives the pairing rules, and
// additionally feeds the output stage when the output mux selects it.
func emit(
	slot Slot,
	unit Unit,
	opcode string,
	addressLoad bool,
	mask uint32,
	inputs []Operand,
) []Write {
	var writes []Write

	reg := slot.Field(FieldOutR)

	switch {
	case unit == UnitMAC &&
		ILUOp(slot.Field(FieldILU)) != ILUNop &&
		reg == 1:
		// The paired ILU owns R1.
		mask = 0
	case unit == UnitILU &&
		MACOp(slot.Field(FieldMAC)) != MACNop:
		reg = 1
	}

	if mask != 0 {
		dest := Dest{Kind: DestTemp, Index: int(reg)}
		if addressLoad {
			dest = Dest{Kind: DestAddress}
		}

		writes = append(writes, Write{
			Unit:   unit,
			Opcode: opcode,
			Dest:   dest,
			Mask:   mask,
			Inputs: inputs,
		})
	}

	outMask := slot.Field(FieldOutOMask)
	if Unit(slot.Field(FieldOutMux)) == unit && outMask != 0 {
		addr := slot.Field(FieldOutAddress)

		dest := Dest{Kind: DestOutput, Index: int(addr & 0xF)}
		if slot.Field(FieldOutORB) == 0 {
			dest = Dest{Kind: DestConst, Index: RemapConst(addr)}
		}

		writes = append(writes, Write{
			Unit:   unit,
			Opcode: opcode,
			Dest:   dest,
			Mask:   outMask,
			Inputs: inputs,
		})
	}

	return writes
}
