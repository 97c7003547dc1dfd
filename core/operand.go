package core

import (
	"fmt"
	"strings"
)

// ParamClass is the register file an operand mux selects.
type ParamClass uint32

const (
	ParamUnknown ParamClass = iota
	ParamR
	ParamV
	ParamC
)

func (c ParamClass) String() string {
	switch c {
	case ParamR:
		return "R"
	case ParamV:
		return "V"
	case ParamC:
		return "C"
	default:
		return fmt.Sprintf("ParamClass(%d)", uint32(c))
	}
}

// Swizzle holds the source lane each destination lane reads, 0 = x to 3 = w.
type Swizzle [4]uint8

// IdentitySwizzle reads every lane from itself.
var IdentitySwizzle = Swizzle{0, 1, 2, 3}

const swizzleLetters = "xyzw"

// String renders the swizzle suffix of an operand. The identity swizzle is
// omitted and a broadcast collapses to one letter.
func (s Swizzle) String() string {
	switch {
	case s == IdentitySwizzle:
		return ""
	case s[0] == s[1] && s[1] == s[2] && s[2] == s[3]:
		return "." + string(swizzleLetters[s[0]])
	default:
		var b strings.Builder
		b.WriteByte('.')
		for _, lane := range s {
			b.WriteByte(swizzleLetters[lane])
		}

		return b.String()
	}
}

// ConstCorrection shifts the signed constant index range -96..95 onto the
// 192-entry constant array.
const ConstCorrection = 96

// NumConstants is the size of the constant array declared by the prologue.
const NumConstants = 192

// RemapConst converts a raw 8-bit constant address into an index of the
// constant array.
func RemapConst(raw uint32) int {
	bank := int(raw>>5) & 7
	offset := int(raw & 31)

	return (bank-3)*32 + offset + ConstCorrection
}

// Operand is one decoded source operand.
type Operand struct {
	Class    ParamClass
	Index    int
	Negate   bool
	Swizzle  Swizzle
	Relative bool
}

// String renders the operand the way it appears in a statement, e.g.
// -R3.xxyy, v0 or c[A0+17].w.
func (o Operand) String() string {
	var b strings.Builder

	if o.Negate {
		b.WriteByte('-')
	}

	switch o.Class {
	case ParamR:
		fmt.Fprintf(&b, "R%d", o.Index)
	case ParamV:
		fmt.Fprintf(&b, "v%d", o.Index)
	case ParamC:
		if o.Relative {
			fmt.Fprintf(&b, "c[A0+%d]", o.Index)
		} else {
			fmt.Fprintf(&b, "c[%d]", o.Index)
		}
	}

	b.WriteString(o.Swizzle.String())

	return b.String()
}

// DecodeOperand decodes the operand whose negate bit is negField. The four
// swizzle fields follow the negate field in the table. regNum is the
// temporary register index the caller read for this operand; it is only
// used when the operand selects the temporary file.
func DecodeOperand(
	slot Slot,
	class ParamClass,
	negField Field,
	regNum uint32,
) (Operand, error) {
	op := Operand{
		Class:  class,
		Negate: slot.Field(negField) != 0,
	}

	switch class {
	case ParamR:
		op.Index = int(regNum)
	case ParamV:
		op.Index = int(slot.Field(FieldV))
	case ParamC:
		op.Index = RemapConst(slot.Field(FieldConst))
		op.Relative = slot.Field(FieldA0X) != 0
	default:
		return Operand{}, fmt.Errorf("%s mux %d: %w",
			negField, uint32(class), ErrInvalidOperandClass)
	}

	op.Swizzle = decodeSwizzle(slot, negField+1)

	return op, nil
}

func decodeSwizzle(slot Slot, first Field) Swizzle {
	if first == FieldCSwzX && ILUOp(slot.Field(FieldILU)).ForcesScalar() {
		lane := uint8(slot.Field(first))
		return Swizzle{lane, lane, lane, lane}
	}

	var s Swizzle
	for i := range s {
		s[i] = uint8(slot.Field(first + Field(i)))
	}

	return s
}

// operandA, operandB and operandC decode the three source operands of a
// slot with their own mux and register fields.
func operandA(slot Slot) (Operand, error) {
	return DecodeOperand(slot,
		ParamClass(slot.Field(FieldAMux)), FieldANeg, slot.Field(FieldAR))
}

func operandB(slot Slot) (Operand, error) {
	return DecodeOperand(slot,
		ParamClass(slot.Field(FieldBMux)), FieldBNeg, slot.Field(FieldBR))
}

func operandC(slot Slot) (Operand, error) {
	reg := slot.Field(FieldCRHigh)<<2 | slot.Field(FieldCRLow)
	return DecodeOperand(slot,
		ParamClass(slot.Field(FieldCMux)), FieldCNeg, reg)
}
