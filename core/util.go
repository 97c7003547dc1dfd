package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	PrintToggle            = false
	LevelTrace  slog.Level = slog.LevelDebug - 4
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// RenderSlot renders every field of a slot as a table.
func RenderSlot(index int, slot Slot) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Slot %d: %s", index, slot.String()))
	t.AppendHeader(table.Row{"Field", "Word", "Bits", "Value"})

	for _, d := range fieldTable {
		bits := fmt.Sprintf("%d", d.StartBit)
		if d.BitLength > 1 {
			bits = fmt.Sprintf("%d..%d", d.StartBit+d.BitLength-1, d.StartBit)
		}

		t.AppendRow(table.Row{
			d.Name,
			d.Word,
			bits,
			fmt.Sprintf("0x%X", slot.Field(d.Field)),
		})
	}

	return t.Render()
}

// PrintSlot prints the field table of a slot when PrintToggle is on.
func PrintSlot(index int, slot Slot) {
	if !PrintToggle {
		return
	}

	fmt.Println(RenderSlot(index, slot))
}

func LogInstruction(index int, in Instruction) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	writes := make([]string, 0, len(in.Writes))
	for _, w := range in.Writes {
		writes = append(writes, w.String())
	}

	slog.Debug("InstructionCheckpoint",
		"Index", index,
		"MAC", in.MAC.String(),
		"ILU", in.ILU.String(),
		"Final", in.Final(),
		"Writes", writes,
	)
}
