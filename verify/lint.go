package verify

import (
	"fmt"

	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
)

// Opcodes whose result is the same in every lane, so a write mask that skips
// lanes cannot shift the value into the wrong lane.
var broadcastOpcodes = map[string]bool{
	"DP3": true,
	"DPH": true,
	"DP4": true,
	"RCP": true,
	"RCC": true,
	"RSQ": true,
	"EXP": true,
	"LOG": true,
}

// RunLint performs static lint checks on a vertex program.
// It validates structure (STRUCT), declared ranges (RANGE) and statements
// whose generated code does not do what the microcode encodes (HAZARD).
// Returns a list of issues found, or empty list if no issues.
func RunLint(p *program.Program) []Issue {
	var issues []Issue

	final := p.FinalIndex()

	// STRUCT: the program must end
	if final < 0 {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Slot:    -1,
			WriteID: -1,
			Message: fmt.Sprintf("No final slot among %d slots", len(p.Slots)),
			Details: map[string]interface{}{"slots": len(p.Slots)},
		})
		final = len(p.Slots) - 1
	} else if final < len(p.Slots)-1 {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Slot:    final + 1,
			WriteID: -1,
			Message: fmt.Sprintf(
				"%d slots after the final slot %d are never translated",
				len(p.Slots)-final-1, final),
			Details: map[string]interface{}{
				"final":   final,
				"ignored": len(p.Slots) - final - 1,
			},
		})
	}

	for i := 0; i <= final; i++ {
		in, err := core.DecodeSlot(p.Slots[i])
		if err != nil {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Slot:    i,
				WriteID: -1,
				Message: fmt.Sprintf("Slot %d does not decode: %v", i, err),
				Details: map[string]interface{}{"words": p.Slots[i].String()},
			})

			// Translation stops at the first fault.
			break
		}

		issues = append(issues, lintInstruction(i, in)...)
	}

	return issues
}

func lintInstruction(slot int, in core.Instruction) []Issue {
	var issues []Issue

	issue := func(t IssueType, writeID int, details map[string]interface{},
		format string, args ...interface{}) {
		issues = append(issues, Issue{
			Type:    t,
			Slot:    slot,
			WriteID: writeID,
			Message: fmt.Sprintf(format, args...),
			Details: details,
		})
	}

	// HAZARD: the paired ILU owns R1, so the MAC write is dropped
	if in.MAC != core.MACNop && in.ILU != core.ILUNop &&
		in.Slot.Field(core.FieldOutR) == 1 &&
		in.Slot.Field(core.FieldOutMACMask) != 0 {
		issue(IssueHazard, -1,
			map[string]interface{}{"mac": in.MAC.String(), "ilu": in.ILU.String()},
			"Slot %d: %s write to R1 is dropped by the paired %s",
			slot, in.MAC, in.ILU)
	}

	for id, w := range in.Writes {
		for _, op := range w.Inputs {
			issues = append(issues, lintOperand(slot, id, op)...)
		}

		switch w.Dest.Kind {
		case core.DestTemp:
			if w.Dest.Index >= declaredTemps {
				issue(IssueRange, id,
					map[string]interface{}{"register": w.Dest.Index},
					"Slot %d: R%d is written but not declared",
					slot, w.Dest.Index)
			}
		case core.DestConst:
			if w.Dest.Index >= core.NumConstants {
				issue(IssueRange, id,
					map[string]interface{}{"constant": w.Dest.Index},
					"Slot %d: c[%d] is outside the constant array",
					slot, w.Dest.Index)
			}
			issue(IssueHazard, id,
				map[string]interface{}{"constant": w.Dest.Index},
				"Slot %d: %s writes constant c[%d]", slot, w.Opcode, w.Dest.Index)
		case core.DestOutput:
			name := w.Dest.String()
			if name == core.UnmappedOutput {
				issue(IssueRange, id,
					map[string]interface{}{"address": w.Dest.Index},
					"Slot %d: output address %d has no register",
					slot, w.Dest.Index)
			} else if w.Dest.Index == int(core.OutA0X) {
				issue(IssueHazard, id,
					map[string]interface{}{"address": w.Dest.Index},
					"Slot %d: %s writes the address register as an output",
					slot, w.Opcode)
			}
		}

		if w.Opcode == core.MACArl.String() && w.Dest.Kind != core.DestAddress {
			issue(IssueHazard, id,
				map[string]interface{}{"dest": w.Dest.String()},
				"Slot %d: ARL result routed to %s", slot, w.Dest)
		}

		if w.Dest.Kind != core.DestAddress &&
			!broadcastOpcodes[w.Opcode] && !leadingMask(w.Mask) {
			issue(IssueHazard, id,
				map[string]interface{}{"mask": w.Mask},
				"Slot %d: %s to %s%s takes its lanes from the front of the result",
				slot, w.Opcode, w.Dest, maskText(w.Mask))
		}
	}

	return issues
}

func lintOperand(slot, writeID int, op core.Operand) []Issue {
	switch {
	case op.Class == core.ParamR && op.Index >= declaredTemps:
		return []Issue{{
			Type:    IssueRange,
			Slot:    slot,
			WriteID: writeID,
			Message: fmt.Sprintf("Slot %d: R%d is read but not declared",
				slot, op.Index),
			Details: map[string]interface{}{"register": op.Index},
		}}
	case op.Class == core.ParamC && op.Index >= core.NumConstants:
		return []Issue{{
			Type:    IssueRange,
			Slot:    slot,
			WriteID: writeID,
			Message: fmt.Sprintf("Slot %d: %s is outside the constant array",
				slot, op),
			Details: map[string]interface{}{
				"constant": op.Index,
				"relative": op.Relative,
			},
		}}
	}

	return nil
}

// leadingMask reports whether the enabled lanes are x, xy, xyz or xyzw, the
// only masks for which components() keeps every lane in place.
func leadingMask(mask uint32) bool {
	switch mask & 0xF {
	case 0x8, 0xC, 0xE, 0xF:
		return true
	default:
		return false
	}
}

func maskText(mask uint32) string {
	s := "."
	for _, lane := range core.MaskLanes(mask) {
		s += string("xyzw"[lane])
	}

	return s
}
