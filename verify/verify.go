// Package verify provides internal debugging tools for vertex program
// translation.
//
// This package implements two complementary verification stages:
//
// 1. Static Lint (lint.go): Fast structural and range checks
//   - STRUCT checks: final flag, slots that are never translated, decode faults
//   - RANGE checks: temporaries, constants and outputs the prologue does not declare
//   - HAZARD checks: statements whose generated code differs from what the
//     microcode asks for (dropped paired writes, shifted lanes, constant writes)
//
// 2. Functional Simulator (funcsim.go): Lightweight interpreter of the
//    generated code
//   - Executes the decoded statements in order on float32 vec4 state
//   - Applies the helper library semantics, including the lane packing of
//     masked writes, and the epilogue transform
//   - Useful for checking numeric results without a GLSL compiler
//
// # Statement Structure
//
// A program.Program is a list of 128-bit slots. Decoding a slot gives a
// core.Instruction:
//
//	core.Instruction
//	  ├── MAC opcode, ILU opcode
//	  └── Write (zero to four, MAC first)
//	      ├── Opcode (string: "MOV", "DP4", "RCP", etc.)
//	      ├── Dest   (R0..R15, A0, c[N] or a named output)
//	      ├── Mask   (4-bit lane enable, bit 3 = x)
//	      └── Inputs (Operand list in A, B, C order)
//
// Operands are either:
//   - Temporary: "R3.xxyy"
//   - Input: "v0"
//   - Constant: "c[96]" or "c[A0+96]"
//
// # Opcode Semantics
//
// Opcodes are implemented by the helper library in core/glsl.go. This
// package mirrors that library:
//
//   - MOV, MUL, ADD, MAD: Per-lane arithmetic
//   - DP3, DPH, DP4: Dot products broadcast to all lanes
//   - DST: Distance vector (1, a.y*b.y, a.z, b.w)
//   - MIN, MAX, SLT, SGE: Per-lane compare and select
//   - ARL: Address register load, truncating a.x
//   - RCP, RCC, RSQ, EXP, LOG: Scalar functions of a.x broadcast to all lanes
//   - LIT: Lighting coefficients
//
// # Usage Example
//
//	p, err := program.LoadProgramFile("transform.yaml")
//
//	// Stage 1: Lint checks
//	issues := verify.RunLint(p)
//	for _, issue := range issues {
//	    log.Printf("[%s] slot %d: %s", issue.Type, issue.Slot, issue.Message)
//	}
//
//	// Stage 2: Functional simulation
//	fs := verify.NewFunctionalSimulator(p)
//	fs.SetInput(0, verify.Vec4{1, 2, 3, 1})
//	fs.SetConstant(96, verify.Vec4{1, 0, 0, 0})
//	if err := fs.Run(); err != nil {
//	    panic(err)
//	}
//
//	// Query results
//	pos := fs.Outputs().Position
//	fmt.Printf("gl_Position = %v\n", pos)
//
// # Limitations
//
// - Floating-point: Uses Go float32 with no GPU-specific rounding
// - Statements run in the order the translator emits them, which is the
//   semantics of the generated code rather than of co-issued hardware
// - Constant writes update the simulated constant array; a GLSL compiler
//   rejects them
package verify

import (
	"fmt"

	"github.com/sarchlab/nv2avsh/core"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Program structure (final flag, decode faults)
	IssueRange  IssueType = "RANGE"  // Register, constant or output index outside the prologue
	IssueHazard IssueType = "HAZARD" // Generated code diverges from the microcode
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT, RANGE or HAZARD
	Slot    int                    // Slot index (-1 if not applicable)
	WriteID int                    // Statement index within the slot or -1
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

// Vec4 is one four-lane register value.
type Vec4 [4]float32

func (v Vec4) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", v[0], v[1], v[2], v[3])
}

// Splat returns a vector with all lanes set to f.
func Splat(f float32) Vec4 {
	return Vec4{f, f, f, f}
}

// Outputs is the set of values the epilogue hands to the fixed pipeline.
type Outputs struct {
	Position            Vec4
	FrontColor          Vec4
	FrontSecondaryColor Vec4
	BackColor           Vec4
	BackSecondaryColor  Vec4
	PointSize           float32
	FogFragCoord        float32
	TexCoord            [4]Vec4
}

const (
	numTemps      = 16
	declaredTemps = 13
	numInputs     = 16
	positionTemp  = 12

	viewportScale  = 58
	viewportOffset = 59
)

// VertexState captures the register state of one vertex during simulation.
type VertexState struct {
	Temps     [numTemps]Vec4
	A0        int32
	Inputs    [numInputs]Vec4
	Constants [core.NumConstants]Vec4
	Out       [16]Vec4 // Output registers by address; oPos lives in R12
}

// NewVertexState creates a state with every temporary and output at
// (0, 0, 0, 1), as the prologue declares them.
func NewVertexState() *VertexState {
	vs := &VertexState{}

	for i := range vs.Temps {
		vs.Temps[i] = Vec4{0, 0, 0, 1}
	}

	for i := range vs.Out {
		vs.Out[i] = Vec4{0, 0, 0, 1}
	}

	return vs
}

// outputAddress returns the address of a declared output register other
// than oPos.
func outputAddress(name string) (int, bool) {
	if name == "oPos" || name == core.UnmappedOutput || name == "A0.x" {
		return 0, false
	}

	for addr := uint32(0); addr < 16; addr++ {
		if core.OutputRegisterName(addr) == name {
			return int(addr), true
		}
	}

	return 0, false
}
