package core

import "fmt"

// MACOp is an opcode of the multiply-accumulate unit.
type MACOp uint8

const (
	MACNop MACOp = iota
	MACMov
	MACMul
	MACAdd
	MACMad
	MACDp3
	MACDph
	MACDp4
	MACDst
	MACMin
	MACMax
	MACSlt
	MACSge
	MACArl

	numMACOps
)

// ILUOp is an opcode of the inverse/transcendental unit.
type ILUOp uint8

const (
	ILUNop ILUOp = iota
	ILUMov
	ILURcp
	ILURcc
	ILURsq
	ILUExp
	ILULog
	ILULit

	numILUOps
)

// OperandUsage tells which of the operand slots A, B and C an opcode reads.
type OperandUsage struct {
	A, B, C bool
}

// Opcode names double as the names of the helper macros in the prologue.
var macNames = [numMACOps]string{
	"NOP", "MOV", "MUL", "ADD", "MAD", "DP3", "DPH", "DP4",
	"DST", "MIN", "MAX", "SLT", "SGE", "ARL",
}

var iluNames = [numILUOps]string{
	"NOP", "MOV", "RCP", "RCC", "RSQ", "EXP", "LOG", "LIT",
}

var macUsage = [numMACOps]OperandUsage{
	MACNop: {},
	MACMov: {A: true},
	MACMul: {A: true, B: true},
	MACAdd: {A: true, C: true},
	MACMad: {A: true, B: true, C: true},
	MACDp3: {A: true, B: true},
	MACDph: {A: true, B: true},
	MACDp4: {A: true, B: true},
	MACDst: {A: true, B: true},
	MACMin: {A: true, B: true},
	MACMax: {A: true, B: true},
	MACSlt: {A: true, B: true},
	MACSge: {A: true, B: true},
	MACArl: {A: true},
}

var iluUsage = [numILUOps]OperandUsage{
	ILUNop: {},
	ILUMov: {C: true},
	ILURcp: {C: true},
	ILURcc: {C: true},
	ILURsq: {C: true},
	ILUExp: {C: true},
	ILULog: {C: true},
	ILULit: {C: true},
}

// ILU opcodes that read a single lane of operand C.
var iluForceScalar = [numILUOps]bool{
	ILURcp: true,
	ILURcc: true,
	ILURsq: true,
	ILUExp: true,
	ILULog: true,
}

func (op MACOp) String() string {
	if op >= numMACOps {
		return fmt.Sprintf("MAC(%d)", uint8(op))
	}

	return macNames[op]
}

// Usage returns the operands the opcode reads.
func (op MACOp) Usage() OperandUsage {
	if op >= numMACOps {
		return OperandUsage{}
	}

	return macUsage[op]
}

func (op ILUOp) String() string {
	if op >= numILUOps {
		return fmt.Sprintf("ILU(%d)", uint8(op))
	}

	return iluNames[op]
}

// Usage returns the operands the opcode reads.
func (op ILUOp) Usage() OperandUsage {
	if op >= numILUOps {
		return OperandUsage{}
	}

	return iluUsage[op]
}

// ForcesScalar reports whether the opcode broadcasts the first swizzle lane
// of operand C to all four lanes.
func (op ILUOp) ForcesScalar() bool {
	return op < numILUOps && iluForceScalar[op]
}

// Named output registers, indexed by the low four bits of the output
// address.
var outRegNames = [16]string{
	"oPos", "???", "???", "oD0", "oD1", "oFog", "oPts", "oB0",
	"oB1", "oT0", "oT1", "oT2", "oT3", "???", "???", "A0.x",
}

// Output register addresses.
const (
	OutPos uint32 = 0
	OutD0  uint32 = 3
	OutD1  uint32 = 4
	OutFog uint32 = 5
	OutPts uint32 = 6
	OutB0  uint32 = 7
	OutB1  uint32 = 8
	OutT0  uint32 = 9
	OutT1  uint32 = 10
	OutT2  uint32 = 11
	OutT3  uint32 = 12
	OutA0X uint32 = 15
)

// UnmappedOutput is the text of an output register index with no name.
const UnmappedOutput = "???"

// OutputRegisterName returns the name of the output register selected by an
// output address.
func OutputRegisterName(address uint32) string {
	return outRegNames[address&0xF]
}

// Write-mask suffixes, indexed by the 4-bit mask (bit 3 is x).
var maskSuffix = [16]string{
	"", ",w", ",z", ",zw", ",y", ",yw", ",yz", ",yzw",
	",x", ",xw", ",xz", ",xzw", ",xy", ",xyw", ",xyz", ",xyzw",
}

// MaskLanes returns the lane indices enabled by a 4-bit write mask, in lane
// order.
func MaskLanes(mask uint32) []int {
	var lanes []int
	for lane := 0; lane < 4; lane++ {
		if mask&(8>>lane) != 0 {
			lanes = append(lanes, lane)
		}
	}

	return lanes
}
