package core

import "fmt"

// Field names a bitfield of an instruction slot.
type Field int

const (
	FieldILU Field = iota
	FieldMAC
	FieldConst
	FieldV

	// Input A
	FieldANeg
	FieldASwzX
	FieldASwzY
	FieldASwzZ
	FieldASwzW
	FieldAR
	FieldAMux

	// Input B
	FieldBNeg
	FieldBSwzX
	FieldBSwzY
	FieldBSwzZ
	FieldBSwzW
	FieldBR
	FieldBMux

	// Input C
	FieldCNeg
	FieldCSwzX
	FieldCSwzY
	FieldCSwzZ
	FieldCSwzW
	FieldCRHigh
	FieldCRLow
	FieldCMux

	// Output
	FieldOutMACMask
	FieldOutR
	FieldOutILUMask
	FieldOutOMask
	FieldOutORB
	FieldOutAddress
	FieldOutMux

	// Relative addressing
	FieldA0X

	// Final instruction
	FieldFinal

	numFields
)

// FieldDescriptor locates a field inside the four words of a slot.
type FieldDescriptor struct {
	Field     Field
	Name      string
	Word      uint8
	StartBit  uint8
	BitLength uint8
}

var fieldTable = [numFields]FieldDescriptor{
	// Field                 Name            Word Start Length
	{FieldILU, "ILU", 1, 25, 3},
	{FieldMAC, "MAC", 1, 21, 4},
	{FieldConst, "CONST", 1, 13, 8},
	{FieldV, "V", 1, 9, 4},

	{FieldANeg, "A_NEG", 1, 8, 1},
	{FieldASwzX, "A_SWZ_X", 1, 6, 2},
	{FieldASwzY, "A_SWZ_Y", 1, 4, 2},
	{FieldASwzZ, "A_SWZ_Z", 1, 2, 2},
	{FieldASwzW, "A_SWZ_W", 1, 0, 2},
	{FieldAR, "A_R", 2, 28, 4},
	{FieldAMux, "A_MUX", 2, 26, 2},

	{FieldBNeg, "B_NEG", 2, 25, 1},
	{FieldBSwzX, "B_SWZ_X", 2, 23, 2},
	{FieldBSwzY, "B_SWZ_Y", 2, 21, 2},
	{FieldBSwzZ, "B_SWZ_Z", 2, 19, 2},
	{FieldBSwzW, "B_SWZ_W", 2, 17, 2},
	{FieldBR, "B_R", 2, 13, 4},
	{FieldBMux, "B_MUX", 2, 11, 2},

	{FieldCNeg, "C_NEG", 2, 10, 1},
	{FieldCSwzX, "C_SWZ_X", 2, 8, 2},
	{FieldCSwzY, "C_SWZ_Y", 2, 6, 2},
	{FieldCSwzZ, "C_SWZ_Z", 2, 4, 2},
	{FieldCSwzW, "C_SWZ_W", 2, 2, 2},
	{FieldCRHigh, "C_R_HIGH", 2, 0, 2},
	{FieldCRLow, "C_R_LOW", 3, 30, 2},
	{FieldCMux, "C_MUX", 3, 28, 2},

	{FieldOutMACMask, "OUT_MAC_MASK", 3, 24, 4},
	{FieldOutR, "OUT_R", 3, 20, 4},
	{FieldOutILUMask, "OUT_ILU_MASK", 3, 16, 4},
	{FieldOutOMask, "OUT_O_MASK", 3, 12, 4},
	{FieldOutORB, "OUT_ORB", 3, 11, 1},
	{FieldOutAddress, "OUT_ADDRESS", 3, 3, 8},
	{FieldOutMux, "OUT_MUX", 3, 2, 1},

	{FieldA0X, "A0X", 3, 1, 1},
	{FieldFinal, "FINAL", 3, 0, 1},
}

func init() {
	if err := validateFieldTable(fieldTable[:]); err != nil {
		panic(err)
	}
}

// validateFieldTable checks that every descriptor sits at its own index and
// that its bit window fits in one 32-bit word.
func validateFieldTable(table []FieldDescriptor) error {
	for i, d := range table {
		if int(d.Field) != i {
			return fmt.Errorf("field %s at index %d: %w", d.Name, i, ErrFieldRange)
		}
		if d.Word >= SlotWords {
			return fmt.Errorf("field %s in word %d: %w", d.Name, d.Word, ErrFieldRange)
		}
		if d.BitLength == 0 || int(d.StartBit)+int(d.BitLength) > 32 {
			return fmt.Errorf("field %s window %d+%d: %w",
				d.Name, d.StartBit, d.BitLength, ErrFieldRange)
		}
	}

	return nil
}

// Fields returns a copy of the field table.
func Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(fieldTable))
	copy(out, fieldTable[:])

	return out
}

// Descriptor returns the descriptor of f.
func (f Field) Descriptor() FieldDescriptor {
	return fieldTable[f]
}

// String returns the name of the field.
func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}

	return fieldTable[f].Name
}

// Extract reads an unsigned bitfield from a slot.
func Extract(slot Slot, word, startBit, bitLength uint8) uint32 {
	return (slot[word] >> startBit) & (uint32(1)<<bitLength - 1)
}

// Field reads the named field of the slot.
func (s Slot) Field(f Field) uint32 {
	d := fieldTable[f]
	return Extract(s, d.Word, d.StartBit, d.BitLength)
}

// WithField returns a copy of the slot with the named field set to v. Bits of
// v beyond the field width are dropped.
func (s Slot) WithField(f Field, v uint32) Slot {
	d := fieldTable[f]
	mask := uint32(1)<<d.BitLength - 1
	s[d.Word] &^= mask << d.StartBit
	s[d.Word] |= (v & mask) << d.StartBit

	return s
}
