package core

import (
	"fmt"
	"log/slog"
	"strings"
)

// Translator turns vertex programs into GLSL. A Translator holds only its
// configuration and can be shared between goroutines.
type Translator struct {
	glslVersion   int
	debugFeedback bool
}

type scanState int

const (
	scanning scanState = iota
	done
	fault
)

// Key identifies the output configuration of the translator. Translators
// with equal keys produce the same text for the same program.
func (t *Translator) Key() string {
	return fmt.Sprintf("glsl%d/debug=%t", t.glslVersion, t.debugFeedback)
}

// Translate translates a vertex program with the default configuration.
func Translate(version uint16, words []uint32) (string, error) {
	return NewBuilder().Build().Translate(version, words)
}

// Translate splits the word stream into slots and translates them.
func (t *Translator) Translate(version uint16, words []uint32) (string, error) {
	slots, err := SlotsFromWords(words)
	if err != nil {
		return "", err
	}

	return t.TranslateSlots(version, slots)
}

// TranslateSlots translates slots up to and including the first slot with
// the final flag set. Slots after it are ignored. Nothing is returned if any
// slot faults or the final slot is never reached.
func (t *Translator) TranslateSlots(
	version uint16,
	slots []Slot,
) (string, error) {
	var header, body strings.Builder

	slog.Debug("Translate",
		"Version", version,
		"Slots", len(slots),
		"DebugFeedback", t.debugFeedback,
	)

	writePrologue(&header, t.glslVersion)
	body.WriteString("\n")

	if t.debugFeedback {
		writeDebugPrologue(&header)
		writeDebugInput(&body)
	}

	state := scanning
	var err error

	for i := 0; state == scanning; i++ {
		if i >= len(slots) {
			err = &DecodeError{Slot: i, Err: ErrMalformedProgram}
			state = fault

			break
		}

		state, err = t.translateSlot(&header, &body, i, slots[i])
	}

	if state == fault {
		return "", err
	}

	if t.debugFeedback {
		writeDebugOutput(&body)
	}
	body.WriteString(epilogue)

	var out strings.Builder
	out.Grow(header.Len() + body.Len() + 32)
	out.WriteString(header.String())
	out.WriteString("\nvoid main(void)\n{\n")
	out.WriteString(body.String())
	out.WriteString("}\n")

	return out.String(), nil
}

func (t *Translator) translateSlot(
	header, body *strings.Builder,
	index int,
	slot Slot,
) (scanState, error) {
	Trace("Slot",
		"Index", index,
		"Words", slot,
	)

	in, err := DecodeSlot(slot)
	if err != nil {
		return fault, &DecodeError{Slot: index, Err: err}
	}

	PrintSlot(index, slot)
	LogInstruction(index, in)

	fmt.Fprintf(body, "  /* Slot %d: 0x%08X 0x%08X 0x%08X 0x%08X */\n",
		index, slot[0], slot[1], slot[2], slot[3])
	in.render(body)

	if t.debugFeedback {
		fmt.Fprintf(header, "DEBUG_VARYING(%d)\n", index)
		fmt.Fprintf(body, "  DEBUG(%d)\n", index)
	}

	body.WriteString("\n")

	if in.Final() {
		slog.Debug("Final slot", "Index", index)
		return done, nil
	}

	return scanning, nil
}

// DecodeProgram decodes slots up to the final slot without producing text.
// It stops at the first fault with the same errors TranslateSlots returns.
func DecodeProgram(slots []Slot) ([]Instruction, error) {
	var insts []Instruction

	for i, slot := range slots {
		in, err := DecodeSlot(slot)
		if err != nil {
			return nil, &DecodeError{Slot: i, Err: err}
		}

		insts = append(insts, in)

		if in.Final() {
			return insts, nil
		}
	}

	return nil, &DecodeError{Slot: len(slots), Err: ErrMalformedProgram}
}
