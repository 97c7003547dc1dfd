package verify

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
)

var (
	// ErrNotExecutable is returned for statements the generated shader
	// could not compile, such as writes to an unnamed output.
	ErrNotExecutable = errors.New("statement cannot execute")

	// ErrConstantRange is returned when a constant read or write falls
	// outside the constant array.
	ErrConstantRange = errors.New("constant index out of range")
)

// RCC clamps, as written in the helper library.
const (
	rccMax float32 = 1.884467e+19
	rccMin float32 = 5.42101e-20
)

// FunctionalSimulator executes a vertex program for one vertex without a GPU
type FunctionalSimulator struct {
	program *program.Program

	inputs    [numInputs]Vec4
	constants [core.NumConstants]Vec4

	state   *VertexState
	outputs Outputs

	TraceWritePre  func(slot int, w core.Write)
	TraceWritePost func(slot int, w core.Write, result Vec4)
}

// NewFunctionalSimulator creates a new functional simulator
func NewFunctionalSimulator(p *program.Program) *FunctionalSimulator {
	return &FunctionalSimulator{
		program: p,
		state:   NewVertexState(),
	}
}

// SetInput sets input attribute v{index}
func (fs *FunctionalSimulator) SetInput(index int, v Vec4) error {
	if index < 0 || index >= numInputs {
		return fmt.Errorf("invalid input v%d", index)
	}
	fs.inputs[index] = v
	return nil
}

// SetConstant sets constant c[index]
func (fs *FunctionalSimulator) SetConstant(index int, v Vec4) error {
	if index < 0 || index >= core.NumConstants {
		return fmt.Errorf("c[%d]: %w", index, ErrConstantRange)
	}
	fs.constants[index] = v
	return nil
}

// SetViewport sets the scale and offset constants the epilogue reads.
func (fs *FunctionalSimulator) SetViewport(scale, offset Vec4) {
	fs.constants[viewportScale] = scale
	fs.constants[viewportOffset] = offset
}

// GetRegister returns temporary R{index} after the last run
func (fs *FunctionalSimulator) GetRegister(index int) Vec4 {
	if index < 0 || index >= numTemps {
		return Vec4{}
	}
	return fs.state.Temps[index]
}

// GetConstant returns c[index] after the last run, including any writes
// the program made
func (fs *FunctionalSimulator) GetConstant(index int) Vec4 {
	if index < 0 || index >= core.NumConstants {
		return Vec4{}
	}
	return fs.state.Constants[index]
}

// GetOutput returns a named output register after the last run. oPos reads
// R12, which the epilogue transforms in place.
func (fs *FunctionalSimulator) GetOutput(name string) (Vec4, bool) {
	if name == "oPos" {
		return fs.state.Temps[positionTemp], true
	}
	addr, ok := outputAddress(name)
	if !ok {
		return Vec4{}, false
	}
	return fs.state.Out[addr], true
}

// A0 returns the address register after the last run
func (fs *FunctionalSimulator) A0() int32 {
	return fs.state.A0
}

// Outputs returns the values the epilogue wrote after the last run
func (fs *FunctionalSimulator) Outputs() Outputs {
	return fs.outputs
}

// Run executes the program from a fresh state.
// Returns an error if the program does not translate or a statement fails.
func (fs *FunctionalSimulator) Run() error {
	if fs.program == nil {
		return fmt.Errorf("FunctionalSimulator not properly initialized")
	}

	insts, err := core.DecodeProgram(fs.program.Slots)
	if err != nil {
		return err
	}

	fs.state = NewVertexState()
	fs.state.Inputs = fs.inputs
	fs.state.Constants = fs.constants

	for slot, in := range insts {
		for _, w := range in.Writes {
			if err := fs.executeWrite(slot, w); err != nil {
				return &core.DecodeError{Slot: slot, Err: err}
			}
		}
	}

	fs.runEpilogue()

	return nil
}

func (fs *FunctionalSimulator) executeWrite(slot int, w core.Write) error {
	if fs.TraceWritePre != nil {
		fs.TraceWritePre(slot, w)
	}

	srcs := make([]Vec4, len(w.Inputs))
	for i, op := range w.Inputs {
		v, err := fs.readOperand(op)
		if err != nil {
			return err
		}
		srcs[i] = v
	}

	if w.Dest.Kind == core.DestAddress {
		fs.state.A0 = int32(srcs[0][0])
		if fs.TraceWritePost != nil {
			fs.TraceWritePost(slot, w, Splat(float32(fs.state.A0)))
		}
		return nil
	}

	result, err := evaluate(w.Opcode, srcs)
	if err != nil {
		return err
	}

	dest, err := fs.destination(w.Dest)
	if err != nil {
		return err
	}

	// components() hands the masked lanes the leading lanes of the result.
	for k, lane := range core.MaskLanes(w.Mask) {
		dest[lane] = result[k]
	}

	if fs.TraceWritePost != nil {
		fs.TraceWritePost(slot, w, result)
	}

	return nil
}

func (fs *FunctionalSimulator) readOperand(op core.Operand) (Vec4, error) {
	var v Vec4

	switch op.Class {
	case core.ParamR:
		v = fs.state.Temps[op.Index]
	case core.ParamV:
		v = fs.state.Inputs[op.Index]
	case core.ParamC:
		idx := op.Index
		if op.Relative {
			idx += int(fs.state.A0)
		}
		if idx < 0 || idx >= core.NumConstants {
			return Vec4{}, fmt.Errorf("%s with A0=%d: %w",
				op, fs.state.A0, ErrConstantRange)
		}
		v = fs.state.Constants[idx]
	default:
		return Vec4{}, core.ErrInvalidOperandClass
	}

	var out Vec4
	for i, lane := range op.Swizzle {
		out[i] = v[lane]
		if op.Negate {
			out[i] = -out[i]
		}
	}

	return out, nil
}

func (fs *FunctionalSimulator) destination(d core.Dest) (*Vec4, error) {
	switch d.Kind {
	case core.DestTemp:
		return &fs.state.Temps[d.Index], nil
	case core.DestConst:
		if d.Index >= core.NumConstants {
			return nil, fmt.Errorf("c[%d]: %w", d.Index, ErrConstantRange)
		}
		return &fs.state.Constants[d.Index], nil
	case core.DestOutput:
		name := d.String()
		if name == "oPos" {
			return &fs.state.Temps[positionTemp], nil
		}
		addr, ok := outputAddress(name)
		if !ok {
			return nil, fmt.Errorf("output %s: %w", name, ErrNotExecutable)
		}
		return &fs.state.Out[addr], nil
	}

	return nil, fmt.Errorf("destination %s: %w", d, ErrNotExecutable)
}

// evaluate applies the helper function of an opcode to its sources.
func evaluate(opcode string, srcs []Vec4) (Vec4, error) {
	arg := func(i int) Vec4 {
		if i < len(srcs) {
			return srcs[i]
		}
		return Vec4{}
	}
	a, b, c := arg(0), arg(1), arg(2)

	switch opcode {
	case "MOV":
		return a, nil
	case "MUL":
		return perLane(a, b, func(x, y float32) float32 { return x * y }), nil
	case "ADD":
		return perLane(a, b, func(x, y float32) float32 { return x + y }), nil
	case "MAD":
		var r Vec4
		for i := range r {
			r[i] = a[i]*b[i] + c[i]
		}
		return r, nil
	case "DP3":
		return Splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2]), nil
	case "DPH":
		return Splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + b[3]), nil
	case "DP4":
		return Splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]), nil
	case "DST":
		return Vec4{1, a[1] * b[1], a[2], b[3]}, nil
	case "MIN":
		return perLane(a, b, glslMin), nil
	case "MAX":
		return perLane(a, b, glslMax), nil
	case "SLT":
		return perLane(a, b, func(x, y float32) float32 { return step(x < y) }), nil
	case "SGE":
		return perLane(a, b, func(x, y float32) float32 { return step(x >= y) }), nil
	case "RCP":
		return Splat(1 / a[0]), nil
	case "RCC":
		return Splat(rcc(a[0])), nil
	case "RSQ":
		return Splat(1 / float32(math.Sqrt(float64(a[0])))), nil
	case "EXP":
		return Splat(float32(math.Exp2(float64(a[0])))), nil
	case "LOG":
		return Splat(float32(math.Log2(float64(a[0])))), nil
	case "LIT":
		return lit(a), nil
	}

	return Vec4{}, fmt.Errorf("opcode %s: %w", opcode, ErrNotExecutable)
}

func perLane(a, b Vec4, f func(x, y float32) float32) Vec4 {
	var r Vec4
	for i := range r {
		r[i] = f(a[i], b[i])
	}
	return r
}

// glslMin and glslMax follow the GLSL definitions min(x, y) = y < x ? y : x
// and max(x, y) = x < y ? y : x.
func glslMin(x, y float32) float32 {
	if y < x {
		return y
	}
	return x
}

func glslMax(x, y float32) float32 {
	if x < y {
		return y
	}
	return x
}

func step(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func rcc(x float32) float32 {
	t := 1 / x
	if t > 0 {
		t = glslMin(t, rccMax)
		t = glslMax(t, rccMin)
	} else {
		t = glslMax(t, -rccMax)
		t = glslMin(t, -rccMin)
	}
	return t
}

func lit(src Vec4) Vec4 {
	t := Vec4{1, 0, 0, 1}
	power := src[3]
	if src[0] > 0 {
		t[1] = src[0]
		if src[1] > 0 {
			t[2] = float32(math.Pow(float64(src[1]), float64(power)))
		}
	}
	return t
}

// runEpilogue maps R12 out of screen space and wires the outputs.
func (fs *FunctionalSimulator) runEpilogue() {
	pos := &fs.state.Temps[positionTemp]
	scale := fs.state.Constants[viewportScale]
	offset := fs.state.Constants[viewportOffset]

	tmp := Vec4{1, 1, 1}
	for i := 0; i < 3; i++ {
		pos[i] -= offset[i]
		if scale[i] != 0 {
			tmp[i] /= scale[i]
		}
	}
	for i := 0; i < 3; i++ {
		pos[i] *= tmp[i]
	}
	for i := 0; i < 3; i++ {
		pos[i] *= pos[3]
	}

	out := func(addr uint32) Vec4 { return fs.state.Out[addr] }

	fs.outputs = Outputs{
		Position:            *pos,
		FrontColor:          out(core.OutD0),
		FrontSecondaryColor: out(core.OutD1),
		BackColor:           out(core.OutB0),
		BackSecondaryColor:  out(core.OutB1),
		PointSize:           out(core.OutPts)[0],
		FogFragCoord:        out(core.OutFog)[0],
		TexCoord: [4]Vec4{
			out(core.OutT0), out(core.OutT1), out(core.OutT2), out(core.OutT3),
		},
	}
}
