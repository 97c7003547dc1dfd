package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nv2avsh/core"
)

var _ = Describe("Field extraction", func() {
	It("should read a window of one word", func() {
		slot := core.Slot{0, 0xF0F0_0000, 0, 0}

		Expect(core.Extract(slot, 1, 28, 4)).To(Equal(uint32(0xF)))
		Expect(core.Extract(slot, 1, 24, 4)).To(Equal(uint32(0x0)))
		Expect(core.Extract(slot, 1, 20, 4)).To(Equal(uint32(0xF)))
	})

	It("should read a full word", func() {
		slot := core.Slot{0, 0, 0, 0xDEADBEEF}

		Expect(core.Extract(slot, 3, 0, 32)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should decode the documented positions", func() {
		slot := core.Slot{0, 0, 0, 0}.
			WithField(core.FieldILU, 7).
			WithField(core.FieldFinal, 1)

		Expect(slot[1]).To(Equal(uint32(7) << 25))
		Expect(slot[3]).To(Equal(uint32(1)))
		Expect(slot.IsFinal()).To(BeTrue())
	})

	It("should round-trip the largest value of every field", func() {
		for _, d := range core.Fields() {
			top := uint32(1)<<d.BitLength - 1
			slot := core.Slot{}.WithField(d.Field, top)

			Expect(slot.Field(d.Field)).To(Equal(top), d.Name)

			for _, other := range core.Fields() {
				if other.Field == d.Field {
					continue
				}
				Expect(slot.Field(other.Field)).To(BeZero(),
					"%s leaks into %s", d.Name, other.Name)
			}
		}
	})

	It("should round-trip alternating bit patterns in every field", func() {
		ones := core.Slot{^uint32(0), ^uint32(0), ^uint32(0), ^uint32(0)}

		for _, pattern := range []uint32{0x55555555, 0xAAAAAAAA} {
			for _, d := range core.Fields() {
				window := uint32(1)<<d.BitLength - 1
				want := pattern & window

				slot := core.Slot{}.WithField(d.Field, want)
				Expect(slot.Field(d.Field)).To(Equal(want), d.Name)
				Expect(slot[d.Word]).To(Equal(want<<d.StartBit), d.Name)

				full := ones.WithField(d.Field, want)
				Expect(full.Field(d.Field)).To(Equal(want), d.Name)
				Expect(full[d.Word] | window<<d.StartBit).
					To(Equal(^uint32(0)), "%s clears bits outside its window", d.Name)
			}
		}
	})

	It("should drop bits beyond the field width", func() {
		slot := core.Slot{}.WithField(core.FieldOutR, 0x1F)

		Expect(slot.Field(core.FieldOutR)).To(Equal(uint32(0xF)))
		Expect(slot.Field(core.FieldOutMACMask)).To(BeZero())
	})

	It("should name fields", func() {
		Expect(core.FieldCRLow.String()).To(Equal("C_R_LOW"))
		Expect(core.FieldOutAddress.Descriptor().StartBit).To(Equal(uint8(3)))
	})
})

var _ = Describe("Slot stream", func() {
	It("should split words into slots", func() {
		slots, err := core.SlotsFromWords([]uint32{1, 2, 3, 4, 5, 6, 7, 8})

		Expect(err).NotTo(HaveOccurred())
		Expect(slots).To(Equal([]core.Slot{{1, 2, 3, 4}, {5, 6, 7, 8}}))
	})

	It("should reject a partial slot", func() {
		_, err := core.SlotsFromWords([]uint32{1, 2, 3, 4, 5})

		Expect(err).To(MatchError(core.ErrTruncatedSlot))

		var decodeErr *core.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Slot).To(Equal(1))
	})
})
