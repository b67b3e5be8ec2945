package core_test

import (
	"errors"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/insts"
	"github.com/sarchlab/slicesim/timing/core"
	"github.com/sarchlab/slicesim/timing/latency"
)

func step(src insts.Source, fn insts.Function, dst insts.Destination) insts.MicroInstruction {
	return insts.MicroInstruction{Source: src, Function: fn, Destination: dst}
}

var _ = Describe("Core", func() {
	var (
		c      *core.Core
		logger *logrus.Logger
	)

	BeforeEach(func() {
		logger = logrus.New()
		logger.SetOutput(io.Discard)

		var err error
		c, err = core.NewCore(emu.Slice8, 2, core.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewCore", func() {
		It("should chain the requested number of slices", func() {
			Expect(c.Slices()).To(HaveLen(2))
			Expect(c.Bits()).To(Equal(16))
			Expect(c.Engine()).NotTo(BeNil())
		})

		It("should reject slice counts that do not fit 64 bits", func() {
			_, err := core.NewCore(emu.Slice8, 9, core.WithLogger(logger))
			Expect(errors.Is(err, core.ErrBadSliceCount)).To(BeTrue())

			_, err = core.NewCore(emu.Slice4, 0, core.WithLogger(logger))
			Expect(errors.Is(err, core.ErrBadSliceCount)).To(BeTrue())
		})

		It("should reject unsupported widths", func() {
			_, err := core.NewCore(emu.Variant{Width: 2}, 1, core.WithLogger(logger))
			Expect(errors.Is(err, emu.ErrUnsupportedWidth)).To(BeTrue())
		})

		It("should warn when the chain is longer than the exact carry range", func() {
			quiet, hook := test.NewNullLogger()

			_, err := core.NewCore(emu.Slice4, core.ExactSlices, core.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())
			Expect(hook.AllEntries()).To(BeEmpty())

			_, err = core.NewCore(emu.Slice4, 4, core.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())
			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("slices", 4))
		})

		It("should reject a clock too fast for the carry ripple", func() {
			config := latency.DefaultTimingConfig()
			config.ClockPeriodPs = 4000
			_, err := core.NewCore(emu.Slice4, 16,
				core.WithLogger(logger),
				core.WithLatencyTable(latency.NewTableWithConfig(config)))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Execute", func() {
		It("should load a full-width register", func() {
			res, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestRAMF),
				B:           3,
				D:           0x1234,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0x1234)))
			Expect(c.Register(3)).To(Equal(uint64(0x1234)))
			Expect(res.Flags.Zero).To(BeFalse())
			Expect(c.Stats().Cycles).To(Equal(uint64(1)))
		})

		It("should ripple the carry into the upper slice", func() {
			_, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestQREG),
				D:           0x00FF,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Accumulator()).To(Equal(uint64(0x00FF)))

			res, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDQ, insts.FuncADD, insts.DestNOP),
				D:           0x0001,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0x0100)))
			Expect(res.Flags.Carry).To(BeFalse())
			Expect(res.Flags.Zero).To(BeFalse())
		})

		It("should borrow across slices when subtracting", func() {
			_, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestQREG),
				D:           0x0100,
			})
			Expect(err).NotTo(HaveOccurred())

			// SUBR computes S - R = Q - D.
			res, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDQ, insts.FuncSUBR, insts.DestQREG),
				D:           0x0001,
				C0:          true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0x00FF)))
			Expect(c.Accumulator()).To(Equal(uint64(0x00FF)))
			Expect(res.Flags.Overflow).To(BeFalse())
		})

		It("should report Zero only when every slice is zero", func() {
			res, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncAND, insts.DestNOP),
				D:           0xFF00,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Flags.Zero).To(BeTrue())

			res, err = c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncOR, insts.DestNOP),
				D:           0x0100,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Flags.Zero).To(BeFalse())
			Expect(res.Flags.Sign).To(BeFalse())
		})

		It("should shift every slice and publish its boundary pins", func() {
			_, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestRAMF),
				B:           3,
				D:           0x0180,
			})
			Expect(err).NotTo(HaveOccurred())

			inst := step(insts.SourceZA, insts.FuncADD, insts.DestRAMU)
			inst.LinkMode = insts.LinkRot
			res, err := c.Execute(core.Input{Instruction: inst, A: 3, B: 3})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0x0180)))
			Expect(c.Register(3)).To(Equal(uint64(0x0201)))
			Expect(res.Boundaries).To(Equal([]emu.Boundary{
				{RegLSB: true},
				{},
			}))
		})

		It("should shift each slice on its own", func() {
			_, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestRAMF),
				B:           3,
				D:           0x0100,
			})
			Expect(err).NotTo(HaveOccurred())

			res, err := c.Execute(core.Input{
				Instruction: step(insts.SourceZA, insts.FuncADD, insts.DestRAMD),
				A:           3,
				B:           3,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0x0100)))
			Expect(c.Register(3)).To(Equal(uint64(0x0000)))
			Expect(res.Boundaries).To(Equal([]emu.Boundary{{}, {}}))
		})

		It("should drop data bits above the datapath width", func() {
			res, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestQREG),
				D:           0xAB_1234,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0x1234)))
			Expect(c.Accumulator()).To(Equal(uint64(0x1234)))
		})

		It("should work with a chain of 4-bit slices", func() {
			c4, err := core.NewCore(emu.Slice4, 4, core.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			res, err := c4.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncEXOR, insts.DestRAMF),
				B:           15,
				D:           0xBEEF,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Y).To(Equal(uint64(0xBEEF)))
			Expect(res.Flags.Sign).To(BeTrue())
			Expect(res.Boundaries).To(BeEmpty())
			Expect(c4.Register(15)).To(Equal(uint64(0xBEEF)))
		})
	})

	Describe("Clear", func() {
		It("should zero every slice", func() {
			_, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestRAMF),
				B:           7,
				D:           0xABCD,
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestQREG),
				D:           0x1111,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Clear()).To(Succeed())

			Expect(c.Register(7)).To(Equal(uint64(0)))
			Expect(c.Accumulator()).To(Equal(uint64(0)))
			Expect(c.Stats().Clears).To(Equal(uint64(1)))
		})

		It("should reset the statistics", func() {
			_, err := c.Execute(core.Input{
				Instruction: step(insts.SourceDZ, insts.FuncADD, insts.DestQREG),
				D:           0x1111,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Reset()).To(Succeed())

			Expect(c.Stats()).To(Equal(core.Stats{}))
			Expect(c.Accumulator()).To(Equal(uint64(0)))
		})
	})
})
