package core

import (
	"fmt"
	"log/slog"
)

// SlotWords is the number of 32-bit words in one instruction slot.
const SlotWords = 4

// Slot is one 128-bit vertex program instruction.
type Slot [SlotWords]uint32

// IsFinal reports whether the slot ends the program.
func (s Slot) IsFinal() bool {
	return s.Field(FieldFinal) != 0
}

func (s Slot) String() string {
	return fmt.Sprintf("0x%08X 0x%08X 0x%08X 0x%08X", s[0], s[1], s[2], s[3])
}

// LogValue formats the words only when a handler records the slot.
func (s Slot) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// SlotsFromWords splits a word stream into slots. The stream length must be
// a multiple of SlotWords.
func SlotsFromWords(words []uint32) ([]Slot, error) {
	if len(words)%SlotWords != 0 {
		return nil, &DecodeError{
			Slot: len(words) / SlotWords,
			Err:  ErrTruncatedSlot,
		}
	}

	slots := make([]Slot, len(words)/SlotWords)
	for i := range slots {
		copy(slots[i][:], words[i*SlotWords:(i+1)*SlotWords])
	}

	return slots, nil
}
