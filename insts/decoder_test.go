package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/slicesim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Decode", func() {
		// RAMF ADD DA -> src=5, fn=0, dst=3 -> 0b011_000_101
		It("should decode RAMF ADD DA", func() {
			inst := decoder.Decode(0b011_000_101)

			Expect(inst.Source).To(Equal(insts.SourceDA))
			Expect(inst.Function).To(Equal(insts.FuncADD))
			Expect(inst.Destination).To(Equal(insts.DestRAMF))
			Expect(inst.LinkMode).To(Equal(insts.LinkNone))
		})

		It("should decode the link mode from bits 9-10", func() {
			inst := decoder.Decode(0b10_100_001_001)

			Expect(inst.Source).To(Equal(insts.SourceAB))
			Expect(inst.Function).To(Equal(insts.FuncSUBR))
			Expect(inst.Destination).To(Equal(insts.DestRAMQD))
			Expect(inst.LinkMode).To(Equal(insts.LinkCross))
		})

		It("should ignore bits above the link mode", func() {
			Expect(decoder.Decode(0xF800)).To(Equal(insts.MicroInstruction{}))
		})

		It("should round-trip every field combination through Encode", func() {
			for word := uint16(0); word < 1<<11; word++ {
				Expect(decoder.Decode(word).Encode()).To(Equal(word))
			}
		})
	})

	Describe("Parse", func() {
		It("should parse mnemonics in SRC FN DST order", func() {
			inst, err := decoder.Parse("zq", "SubS", "RAMU")

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.MicroInstruction{
				Source:      insts.SourceZQ,
				Function:    insts.FuncSUBS,
				Destination: insts.DestRAMU,
			}))
		})

		It("should accept a link mode by name or number", func() {
			inst, err := decoder.Parse("AB", "OR", "RAMQU", "CROSS")
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.LinkMode).To(Equal(insts.LinkCross))

			inst, err = decoder.Parse("AB", "OR", "RAMQU", "3")
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.LinkMode).To(Equal(insts.LinkFeed))
		})

		It("should reject unknown mnemonics", func() {
			_, err := decoder.Parse("AX", "ADD", "NOP")

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, insts.ErrUnknownMnemonic)).To(BeTrue())
		})

		It("should reject a wrong field count", func() {
			_, err := decoder.Parse("AB", "ADD")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Field predicates", func() {
		It("should classify subtract functions", func() {
			Expect(insts.FuncSUBR.IsSubtract()).To(BeTrue())
			Expect(insts.FuncSUBS.IsSubtract()).To(BeTrue())
			Expect(insts.FuncADD.IsSubtract()).To(BeFalse())
			Expect(insts.FuncEXNOR.IsSubtract()).To(BeFalse())
		})

		DescribeTable("shift destinations",
			func(d insts.Destination, shifts, left, acc bool) {
				Expect(d.Shifts()).To(Equal(shifts))
				Expect(d.ShiftsLeft()).To(Equal(left))
				Expect(d.ShiftsAccumulator()).To(Equal(acc))
			},
			Entry("QREG", insts.DestQREG, false, false, false),
			Entry("NOP", insts.DestNOP, false, false, false),
			Entry("RAMA", insts.DestRAMA, false, false, false),
			Entry("RAMF", insts.DestRAMF, false, false, false),
			Entry("RAMQD", insts.DestRAMQD, true, false, true),
			Entry("RAMD", insts.DestRAMD, true, false, false),
			Entry("RAMQU", insts.DestRAMQU, true, true, true),
			Entry("RAMU", insts.DestRAMU, true, true, false),
		)

		It("should format instructions as DST FN SRC", func() {
			inst := insts.MicroInstruction{
				Source:      insts.SourceAB,
				Function:    insts.FuncEXOR,
				Destination: insts.DestRAMQD,
				LinkMode:    insts.LinkRot,
			}
			Expect(inst.String()).To(Equal("RAMQD EXOR AB ROT"))
		})
	})
})
