package pins_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/slicesim/timing/pins"
)

var _ = Describe("Bank", func() {
	var bank *pins.Bank

	BeforeEach(func() {
		bank = pins.NewBank(pins.InputNames(8, true)...)
	})

	It("should start with every pin low", func() {
		for _, n := range bank.Names() {
			Expect(bank.IsHigh(n)).To(BeFalse(), n)
		}
	})

	It("should report level changes", func() {
		changed, err := bank.Set(pins.CLK, pins.High)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		changed, err = bank.Set(pins.CLK, pins.High)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		Expect(bank.Get(pins.CLK)).To(Equal(pins.High))
	})

	It("should reject unknown pins", func() {
		_, err := bank.Set("Y0", pins.High)
		Expect(errors.Is(err, pins.ErrUnknownPin)).To(BeTrue())

		_, err = bank.Get("NOPE")
		Expect(errors.Is(err, pins.ErrUnknownPin)).To(BeTrue())

		_, err = bank.Word(pins.Y, 8)
		Expect(errors.Is(err, pins.ErrUnknownPin)).To(BeTrue())
	})

	It("should convert buses LSB first", func() {
		Expect(bank.SetWord(pins.D, 8, 0b1000_0110)).To(Succeed())

		Expect(bank.IsHigh("D0")).To(BeFalse())
		Expect(bank.IsHigh("D1")).To(BeTrue())
		Expect(bank.IsHigh("D2")).To(BeTrue())
		Expect(bank.IsHigh("D7")).To(BeTrue())
		Expect(bank.Word(pins.D, 8)).To(Equal(uint16(0b1000_0110)))
	})

	It("should truncate values wider than the bus", func() {
		Expect(bank.SetWord(pins.A, pins.AddrWidth, 0x1F)).To(Succeed())
		Expect(bank.Word(pins.A, pins.AddrWidth)).To(Equal(uint16(0xF)))
	})
})

var _ = Describe("Pin names", func() {
	It("should name bus pins LSB first", func() {
		Expect(pins.BusNames(pins.Y, 4)).To(Equal([]string{"Y0", "Y1", "Y2", "Y3"}))
	})

	It("should split a word into bus levels LSB first", func() {
		Expect(pins.Split(pins.Y, 4, 0b0110)).To(Equal([]pins.Bit{
			{Name: "Y0", Level: pins.Low},
			{Name: "Y1", Level: pins.High},
			{Name: "Y2", Level: pins.High},
			{Name: "Y3", Level: pins.Low},
		}))
	})

	It("should drop bits above the bus width when splitting", func() {
		bits := pins.Split(pins.A, pins.AddrWidth, 0x1F)

		Expect(bits).To(HaveLen(pins.AddrWidth))
		for _, bit := range bits {
			Expect(bit.Level).To(Equal(pins.High), bit.Name)
		}
	})

	It("should only give the linked slice M and boundary pins", func() {
		Expect(pins.InputNames(4, false)).NotTo(ContainElement("M0"))
		Expect(pins.InputNames(8, true)).To(ContainElements("M0", "M1", "D7"))
		Expect(pins.OutputNames(4, false)).To(HaveLen(8))
		Expect(pins.OutputNames(8, true)).To(ContainElements(pins.RAML, pins.RAMH, pins.QL, pins.QH))
	})
})
