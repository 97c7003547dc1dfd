package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nv2avsh/core"
)

var _ = Describe("Constant remapping", func() {
	It("should map bank 3 offset 0 to the middle of the array", func() {
		Expect(core.RemapConst(3 << 5)).To(Equal(96))
	})

	It("should map the lower 192 codes one-to-one onto the array", func() {
		seen := make(map[int]bool)
		for raw := uint32(0); raw < core.NumConstants; raw++ {
			idx := core.RemapConst(raw)

			Expect(idx).To(BeNumerically(">=", 0))
			Expect(idx).To(BeNumerically("<", core.NumConstants))
			Expect(seen).NotTo(HaveKey(idx))
			seen[idx] = true
		}

		Expect(seen).To(HaveLen(core.NumConstants))
	})

	It("should place the viewport constants at 58 and 59", func() {
		Expect(core.RemapConst(58)).To(Equal(58))
		Expect(core.RemapConst(59)).To(Equal(59))
	})

	It("should leave codes above the array out of range", func() {
		Expect(core.RemapConst(0xFF)).To(BeNumerically(">=", core.NumConstants))
	})
})

var _ = Describe("Swizzle", func() {
	DescribeTable("text",
		func(s core.Swizzle, text string) {
			Expect(s.String()).To(Equal(text))
		},
		Entry("identity", core.Swizzle{0, 1, 2, 3}, ""),
		Entry("broadcast x", core.Swizzle{0, 0, 0, 0}, ".x"),
		Entry("broadcast w", core.Swizzle{3, 3, 3, 3}, ".w"),
		Entry("pairs are not collapsed", core.Swizzle{0, 0, 1, 1}, ".xxyy"),
		Entry("reverse", core.Swizzle{3, 2, 1, 0}, ".wzyx"),
		Entry("repeated tail", core.Swizzle{0, 1, 2, 2}, ".xyzz"),
	)
})

var _ = Describe("Operand decoding", func() {
	It("should decode a temporary with the caller's index", func() {
		slot := slotOf(fields{
			core.FieldANeg:  1,
			core.FieldASwzX: 2, core.FieldASwzY: 2,
			core.FieldASwzZ: 2, core.FieldASwzW: 2,
		})

		op, err := core.DecodeOperand(slot, core.ParamR, core.FieldANeg, 7)

		Expect(err).NotTo(HaveOccurred())
		Expect(op.Class).To(Equal(core.ParamR))
		Expect(op.Index).To(Equal(7))
		Expect(op.String()).To(Equal("-R7.z"))
	})

	It("should read the input index from the V field", func() {
		slot := slotOf(fields{core.FieldV: 9}).
			WithField(core.FieldBSwzY, 1).
			WithField(core.FieldBSwzZ, 2).
			WithField(core.FieldBSwzW, 3)

		op, err := core.DecodeOperand(slot, core.ParamV, core.FieldBNeg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(op.String()).To(Equal("v9"))
	})

	It("should address constants absolutely", func() {
		slot := slotOf(fields{core.FieldConst: 100}).
			WithField(core.FieldASwzY, 1).
			WithField(core.FieldASwzZ, 2).
			WithField(core.FieldASwzW, 3)

		op, err := core.DecodeOperand(slot, core.ParamC, core.FieldANeg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(op.Relative).To(BeFalse())
		Expect(op.String()).To(Equal("c[100]"))
	})

	It("should address constants relative to A0", func() {
		slot := slotOf(fields{
			core.FieldConst: 96,
			core.FieldA0X:   1,
			core.FieldASwzX: 3, core.FieldASwzY: 3,
			core.FieldASwzZ: 3, core.FieldASwzW: 3,
		})

		op, err := core.DecodeOperand(slot, core.ParamC, core.FieldANeg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(op.Relative).To(BeTrue())
		Expect(op.String()).To(Equal("c[A0+96].w"))
	})

	It("should ignore A0X for non-constant operands", func() {
		slot := slotOf(fields{core.FieldA0X: 1, core.FieldV: 3}).
			WithField(core.FieldASwzY, 1).
			WithField(core.FieldASwzZ, 2).
			WithField(core.FieldASwzW, 3)

		op, err := core.DecodeOperand(slot, core.ParamV, core.FieldANeg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(op.String()).To(Equal("v3"))
	})

	It("should broadcast the first C lane for scalar ILU opcodes", func() {
		for _, ilu := range []core.ILUOp{
			core.ILURcp, core.ILURcc, core.ILURsq, core.ILUExp, core.ILULog,
		} {
			slot := slotOf(fields{
				core.FieldILU:   uint32(ilu),
				core.FieldCSwzX: 1,
				core.FieldCSwzY: 2,
				core.FieldCSwzZ: 3,
				core.FieldCSwzW: 0,
			})

			op, err := core.DecodeOperand(slot, core.ParamR, core.FieldCNeg, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(op.Swizzle).To(Equal(core.Swizzle{1, 1, 1, 1}), ilu.String())
		}
	})

	It("should read all C lanes for MOV and LIT", func() {
		for _, ilu := range []core.ILUOp{core.ILUMov, core.ILULit} {
			slot := slotOf(fields{
				core.FieldILU:   uint32(ilu),
				core.FieldCSwzX: 1,
				core.FieldCSwzY: 2,
				core.FieldCSwzZ: 3,
				core.FieldCSwzW: 0,
			})

			op, err := core.DecodeOperand(slot, core.ParamR, core.FieldCNeg, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(op.Swizzle.String()).To(Equal(".yzwx"), ilu.String())
		}
	})

	It("should not broadcast A or B for scalar ILU opcodes", func() {
		slot := slotOf(fields{
			core.FieldILU:   uint32(core.ILURcp),
			core.FieldASwzX: 1,
			core.FieldASwzY: 2,
			core.FieldASwzZ: 3,
		})

		op, err := core.DecodeOperand(slot, core.ParamR, core.FieldANeg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(op.Swizzle).To(Equal(core.Swizzle{1, 2, 3, 0}))
	})

	It("should reject the unknown mux class", func() {
		_, err := core.DecodeOperand(core.Slot{}, core.ParamUnknown,
			core.FieldANeg, 0)

		Expect(err).To(MatchError(core.ErrInvalidOperandClass))
	})
})
