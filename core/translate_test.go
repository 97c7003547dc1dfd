package core_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nv2avsh/core"
)

func words(slots ...core.Slot) []uint32 {
	out := make([]uint32, 0, len(slots)*core.SlotWords)
	for _, s := range slots {
		out = append(out, s[:]...)
	}

	return out
}

func slotComment(index int, s core.Slot) string {
	return fmt.Sprintf("  /* Slot %d: 0x%08X 0x%08X 0x%08X 0x%08X */\n",
		index, s[0], s[1], s[2], s[3])
}

// passthrough writes v0 to oPos and ends the program.
func passthrough() core.Slot {
	return movV0(0, 0).
		WithField(core.FieldOutOMask, 0xF).
		WithField(core.FieldOutORB, 1).
		WithField(core.FieldFinal, 1)
}

var _ = Describe("Translator", func() {
	It("should wrap the statements in the prologue and epilogue", func() {
		final := passthrough()

		src, err := core.Translate(0x2078, words(final))

		Expect(err).NotTo(HaveOccurred())
		Expect(src).To(HavePrefix(
			"#version 110\n\nvec4 R0 = vec4(0.0,0.0,0.0,1.0);\n"))
		Expect(src).To(ContainSubstring("vec4 R12 = vec4(0.0,0.0,0.0,1.0);\n"))
		Expect(src).NotTo(ContainSubstring("vec4 R13"))
		Expect(src).To(ContainSubstring("\nint A0 = 0;\n"))
		Expect(src).To(ContainSubstring("attribute vec4 v15;\n"))
		Expect(src).To(ContainSubstring("#define oPos R12"))
		Expect(src).To(ContainSubstring("vec4 oT3 = vec4(0.0,0.0,0.0,1.0);\n"))
		Expect(src).To(ContainSubstring("uniform vec4 c[192];\n"))
		Expect(src).To(ContainSubstring("#define viewport_scale c[58]"))
		Expect(src).To(ContainSubstring("#define viewport_offset c[59]"))
		Expect(src).To(ContainSubstring("uniform vec2 cliprange;\n"))
		Expect(src).To(ContainSubstring(
			"vec3 components(vec3 l, vec4 r) { return r.xyz; }\n"))

		Expect(src).To(ContainSubstring(
			"\nvoid main(void)\n{\n\n" +
				slotComment(0, final) +
				"  MOV(oPos,xyzw, v0);\n" +
				"\n" +
				"  /* Un-screenspace transform */\n"))
		Expect(src).To(ContainSubstring("  vec3 tmp = vec3(1.0);\n"))
		Expect(src).To(ContainSubstring(
			"  if (viewport_scale.z != 0.0) { tmp.z /= viewport_scale.z; }\n"))
		Expect(src).To(ContainSubstring("  gl_PointSize = oPts.x;\n"))
		Expect(src).To(HaveSuffix("  gl_TexCoord[3] = oT3;\n\n}\n"))
	})

	It("should define a helper for every opcode", func() {
		src, err := core.Translate(0, words(passthrough()))
		Expect(err).NotTo(HaveOccurred())

		for op := core.MACMov; op <= core.MACArl; op++ {
			Expect(src).To(ContainSubstring("#define "+op.String()+"("),
				op.String())
		}
		for op := core.ILUMov; op <= core.ILULit; op++ {
			Expect(src).To(ContainSubstring("#define "+op.String()+"("),
				op.String())
		}
		Expect(src).To(ContainSubstring("#define ARL(dest, src) dest = _ARL(vec4(src).x)\n"))
		Expect(src).To(ContainSubstring("t = max(t, 5.42101e-020);"))
	})

	It("should stop at the final slot", func() {
		first := movV0(3, 0xF)
		final := passthrough()
		after := movV0(4, 0xF)

		src, err := core.Translate(0, words(first, final, after))

		Expect(err).NotTo(HaveOccurred())
		Expect(src).To(ContainSubstring(slotComment(0, first) +
			"  MOV(R3,xyzw, v0);\n\n" +
			slotComment(1, final)))
		Expect(src).NotTo(ContainSubstring("Slot 2"))
		Expect(src).NotTo(ContainSubstring("MOV(R4"))
	})

	It("should keep the comment for an idle slot", func() {
		src, err := core.Translate(0, words(idle(), passthrough()))

		Expect(err).NotTo(HaveOccurred())
		Expect(src).To(ContainSubstring(
			"  /* Slot 0: 0x00000000 0x00000000 0x00000000 0x20000000 */\n\n"))
	})

	It("should reject a program without a final slot", func() {
		src, err := core.Translate(0, words(movV0(0, 0xF), movV0(1, 0xF)))

		Expect(src).To(BeEmpty())
		Expect(err).To(MatchError(core.ErrMalformedProgram))

		var decodeErr *core.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Slot).To(Equal(2))
	})

	It("should reject an empty program", func() {
		src, err := core.Translate(0, nil)

		Expect(src).To(BeEmpty())
		Expect(err).To(MatchError(core.ErrMalformedProgram))
	})

	It("should reject a partial slot", func() {
		_, err := core.Translate(0, []uint32{0, 0, 0})

		Expect(err).To(MatchError(core.ErrTruncatedSlot))
	})

	It("should report the slot that faults", func() {
		bad := movV0(0, 0xF).WithField(core.FieldAMux, 0)

		src, err := core.Translate(0, words(movV0(1, 0xF), bad, passthrough()))

		Expect(src).To(BeEmpty())
		Expect(err).To(MatchError(core.ErrInvalidOperandClass))

		var decodeErr *core.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Slot).To(Equal(1))
	})

	It("should fail on the final slot when operand C has no class", func() {
		final := passthrough().WithField(core.FieldCMux, 0)

		src, err := core.Translate(0, words(movV0(2, 0xF), final))

		Expect(src).To(BeEmpty())
		Expect(err).To(MatchError(core.ErrInvalidOperandClass))

		var decodeErr *core.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Slot).To(Equal(1))
	})

	It("should not decode slots after the final slot", func() {
		bad := movV0(0, 0xF).WithField(core.FieldAMux, 0)

		_, err := core.Translate(0, words(passthrough(), bad))

		Expect(err).NotTo(HaveOccurred())
	})

	It("should produce the same text every time", func() {
		program := words(movV0(3, 0xF), withRcpR2Y(movV0(5, 0xF), 0x8),
			passthrough())

		first, err := core.Translate(1, program)
		Expect(err).NotTo(HaveOccurred())

		second, err := core.Translate(2, program)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})

	It("should translate concurrently with one translator", func() {
		t := core.NewBuilder().Build()
		program := words(movV0(3, 0xF), passthrough())
		want, err := t.Translate(0, program)
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = t.Translate(0, program)
			}(i)
		}
		wg.Wait()

		for _, got := range results {
			Expect(got).To(Equal(want))
		}
	})

	Context("with a builder", func() {
		It("should write the configured GLSL version", func() {
			t := core.NewBuilder().WithGLSLVersion(120).Build()

			src, err := t.Translate(0, words(passthrough()))

			Expect(err).NotTo(HaveOccurred())
			Expect(src).To(HavePrefix("#version 120\n"))
		})

		It("should panic on a non-positive version", func() {
			Expect(func() {
				core.NewBuilder().WithGLSLVersion(0)
			}).To(Panic())
		})

		It("should add debug feedback", func() {
			t := core.NewBuilder().WithDebugFeedback(true).Build()
			first := movV0(3, 0xF)

			src, err := t.Translate(0, words(first, passthrough()))
			Expect(err).NotTo(HaveOccurred())

			header, body, found := strings.Cut(src, "\nvoid main(void)\n")
			Expect(found).To(BeTrue())

			Expect(header).To(ContainSubstring("varying vec4 debug_v15;\n"))
			Expect(header).To(ContainSubstring("varying vec4 debug_oPos;\n"))
			Expect(header).To(ContainSubstring("  DEBUG_VAR(slot,R12)\n"))
			Expect(header).To(ContainSubstring("DEBUG_VARYING(0)\nDEBUG_VARYING(1)\n"))

			Expect(body).To(HavePrefix("{\n\n  /* Debug input */\n  debug_v0 = v0;\n"))
			Expect(body).To(ContainSubstring(
				"  MOV(R3,xyzw, v0);\n  DEBUG(0)\n\n"))
			Expect(body).To(ContainSubstring(
				"  /* Debug output */\n  debug_oPos = oPos;\n"))
			Expect(strings.Index(body, "/* Debug output */")).To(
				BeNumerically("<", strings.Index(body, "/* Un-screenspace")))
		})

		It("should key translators by their output configuration", func() {
			plain := core.NewBuilder().Build()

			Expect(core.NewBuilder().Build().Key()).To(Equal(plain.Key()))
			Expect(core.NewBuilder().WithGLSLVersion(120).Build().Key()).
				NotTo(Equal(plain.Key()))
			Expect(core.NewBuilder().WithDebugFeedback(true).Build().Key()).
				NotTo(Equal(plain.Key()))
		})

		It("should leave debug feedback out by default", func() {
			src, err := core.Translate(0, words(passthrough()))

			Expect(err).NotTo(HaveOccurred())
			Expect(src).NotTo(ContainSubstring("debug_"))
		})
	})

	It("should decode a program into instructions", func() {
		slots := []core.Slot{movV0(3, 0xF), passthrough(), movV0(4, 0xF)}

		insts, err := core.DecodeProgram(slots)

		Expect(err).NotTo(HaveOccurred())
		Expect(insts).To(HaveLen(2))
		Expect(insts[1].Final()).To(BeTrue())
	})

	It("should trace every slot with its words", func() {
		var buf bytes.Buffer
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&buf,
			&slog.HandlerOptions{Level: core.LevelTrace})))
		DeferCleanup(slog.SetDefault, previous)

		final := passthrough()
		_, err := core.Translate(0, words(final))

		Expect(err).NotTo(HaveOccurred())
		Expect(final.LogValue().String()).To(Equal(final.String()))
		Expect(buf.String()).To(ContainSubstring(
			`"msg":"Slot","Index":0,"Words":"` + final.String() + `"`))
	})

	It("should render a slot dump", func() {
		dump := core.RenderSlot(4, passthrough())

		Expect(dump).To(ContainSubstring("Slot 4"))
		Expect(dump).To(ContainSubstring("OUT_ADDRESS"))
		Expect(dump).To(ContainSubstring("FINAL"))
	})
})
