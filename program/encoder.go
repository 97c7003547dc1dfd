package program

import "github.com/sarchlab/nv2avsh/core"

// Source describes an operand for the encoder.
type Source struct {
	Class    core.ParamClass
	Index    uint32
	Negate   bool
	Swizzle  core.Swizzle
	Relative bool
}

// R selects temporary register n.
func R(n uint32) Source {
	return Source{Class: core.ParamR, Index: n, Swizzle: core.IdentitySwizzle}
}

// V selects input attribute n.
func V(n uint32) Source {
	return Source{Class: core.ParamV, Index: n, Swizzle: core.IdentitySwizzle}
}

// C selects constant n, given as the raw 8-bit constant address.
func C(n uint32) Source {
	return Source{Class: core.ParamC, Index: n, Swizzle: core.IdentitySwizzle}
}

// Neg negates the source.
func (s Source) Neg() Source {
	s.Negate = true
	return s
}

// Swz sets the swizzle from lane letters, e.g. "xxyw". One letter
// broadcasts.
func (s Source) Swz(lanes string) Source {
	if len(lanes) == 1 {
		lanes = lanes + lanes + lanes + lanes
	}
	if len(lanes) != 4 {
		panic("swizzle must have one or four lanes")
	}

	for i := 0; i < 4; i++ {
		switch lanes[i] {
		case 'x':
			s.Swizzle[i] = 0
		case 'y':
			s.Swizzle[i] = 1
		case 'z':
			s.Swizzle[i] = 2
		case 'w':
			s.Swizzle[i] = 3
		default:
			panic("invalid swizzle lane " + string(lanes[i]))
		}
	}

	return s
}

// Rel addresses a constant relative to A0.
func (s Source) Rel() Source {
	s.Relative = true
	return s
}

// SlotBuilder encodes one slot field by field.
type SlotBuilder struct {
	slot core.Slot
}

// NewSlot starts an idle slot. Operand C reads v0 until WithC replaces it,
// since the decoder rejects a slot whose C mux selects no register file.
func NewSlot() SlotBuilder {
	return SlotBuilder{}.WithC(V(0))
}

func (b SlotBuilder) set(f core.Field, v uint32) SlotBuilder {
	b.slot = b.slot.WithField(f, v)
	return b
}

// WithMAC sets the MAC opcode and its temporary write mask.
func (b SlotBuilder) WithMAC(op core.MACOp, mask uint32) SlotBuilder {
	return b.set(core.FieldMAC, uint32(op)).
		set(core.FieldOutMACMask, mask)
}

// WithILU sets the ILU opcode and its temporary write mask.
func (b SlotBuilder) WithILU(op core.ILUOp, mask uint32) SlotBuilder {
	return b.set(core.FieldILU, uint32(op)).
		set(core.FieldOutILUMask, mask)
}

// WithDest sets the temporary register both units write.
func (b SlotBuilder) WithDest(reg uint32) SlotBuilder {
	return b.set(core.FieldOutR, reg)
}

// WithA sets operand A.
func (b SlotBuilder) WithA(s Source) SlotBuilder {
	b = b.source(s, core.FieldANeg, core.FieldAMux)
	if s.Class == core.ParamR {
		b = b.set(core.FieldAR, s.Index)
	}

	return b
}

// WithB sets operand B.
func (b SlotBuilder) WithB(s Source) SlotBuilder {
	b = b.source(s, core.FieldBNeg, core.FieldBMux)
	if s.Class == core.ParamR {
		b = b.set(core.FieldBR, s.Index)
	}

	return b
}

// WithC sets operand C.
func (b SlotBuilder) WithC(s Source) SlotBuilder {
	b = b.source(s, core.FieldCNeg, core.FieldCMux)
	if s.Class == core.ParamR {
		b = b.set(core.FieldCRHigh, s.Index>>2).
			set(core.FieldCRLow, s.Index&3)
	}

	return b
}

// source writes the fields an operand shares with the other operands. The
// input and constant indices live in one field per slot.
func (b SlotBuilder) source(s Source, neg, mux core.Field) SlotBuilder {
	b = b.set(mux, uint32(s.Class))

	if s.Negate {
		b = b.set(neg, 1)
	}

	for i, lane := range s.Swizzle {
		b = b.set(neg+1+core.Field(i), uint32(lane))
	}

	switch s.Class {
	case core.ParamV:
		b = b.set(core.FieldV, s.Index)
	case core.ParamC:
		b = b.set(core.FieldConst, s.Index)
		if s.Relative {
			b = b.set(core.FieldA0X, 1)
		}
	}

	return b
}

// WithOutput routes the result of unit into the named output register at
// address.
func (b SlotBuilder) WithOutput(unit core.Unit, address, mask uint32) SlotBuilder {
	return b.set(core.FieldOutMux, uint32(unit)).
		set(core.FieldOutORB, 1).
		set(core.FieldOutAddress, address).
		set(core.FieldOutOMask, mask)
}

// WithConstOutput routes the result of unit into a constant register.
func (b SlotBuilder) WithConstOutput(unit core.Unit, address, mask uint32) SlotBuilder {
	return b.set(core.FieldOutMux, uint32(unit)).
		set(core.FieldOutORB, 0).
		set(core.FieldOutAddress, address).
		set(core.FieldOutOMask, mask)
}

// Final marks the slot as the last of the program.
func (b SlotBuilder) Final() SlotBuilder {
	return b.set(core.FieldFinal, 1)
}

// Build returns the encoded slot.
func (b SlotBuilder) Build() core.Slot {
	return b.slot
}
