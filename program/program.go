// Package program holds vertex programs as slot lists and reads them from
// program files.
package program

import (
	"fmt"

	"github.com/sarchlab/nv2avsh/core"
)

// Program is a named vertex program.
type Program struct {
	Name    string
	Version uint16
	Slots   []core.Slot
}

// FromWords builds a program from a raw word stream.
func FromWords(name string, version uint16, words []uint32) (*Program, error) {
	slots, err := core.SlotsFromWords(words)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}

	return &Program{
		Name:    name,
		Version: version,
		Slots:   slots,
	}, nil
}

// Words flattens the slots back into a word stream.
func (p *Program) Words() []uint32 {
	words := make([]uint32, 0, len(p.Slots)*core.SlotWords)
	for _, s := range p.Slots {
		words = append(words, s[:]...)
	}

	return words
}

// FinalIndex returns the index of the first slot with the final flag set,
// or -1 if there is none.
func (p *Program) FinalIndex() int {
	for i, s := range p.Slots {
		if s.IsFinal() {
			return i
		}
	}

	return -1
}

// Translate translates the program with t.
func (p *Program) Translate(t *core.Translator) (string, error) {
	src, err := t.TranslateSlots(p.Version, p.Slots)
	if err != nil {
		return "", fmt.Errorf("program %s: %w", p.Name, err)
	}

	return src, nil
}
