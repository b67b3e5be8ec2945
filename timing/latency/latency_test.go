package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/slicesim/timing/latency"
)

var _ = Describe("Latency", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.NewTable()
	})

	Describe("Default Timing Values", func() {
		It("should drive every output group after 500 ps", func() {
			for _, g := range []latency.Group{
				latency.GroupData, latency.GroupFlags, latency.GroupBoundary,
			} {
				Expect(float64(table.Delay(g))).To(BeNumerically("~", 500e-12, 1e-15))
			}
		})

		It("should have a 40 ns clock period", func() {
			Expect(float64(table.ClockPeriod())).To(BeNumerically("~", 40e-9, 1e-15))
		})

		It("should have a 1 ns ripple skew", func() {
			Expect(float64(table.RippleSkew())).To(BeNumerically("~", 1e-9, 1e-15))
		})
	})

	Describe("Custom Configuration", func() {
		It("should use per-group delays", func() {
			config := latency.DefaultTimingConfig()
			config.PropagationDelayPs = 300
			config.FlagDelayPs = 700
			config.BoundaryDelayPs = 900
			custom := latency.NewTableWithConfig(config)

			Expect(float64(custom.Delay(latency.GroupData))).To(BeNumerically("~", 300e-12, 1e-15))
			Expect(float64(custom.Delay(latency.GroupFlags))).To(BeNumerically("~", 700e-12, 1e-15))
			Expect(float64(custom.Delay(latency.GroupBoundary))).To(BeNumerically("~", 900e-12, 1e-15))
			Expect(float64(custom.MaxDelay())).To(BeNumerically("~", 900e-12, 1e-15))
			Expect(custom.Config()).To(BeIdenticalTo(config))
		})
	})

	It("should convert picoseconds to simulation seconds", func() {
		Expect(latency.PsToSec(2500)).To(BeNumerically("~", sim.VTimeInSec(2.5e-9), 1e-15))
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			config := latency.DefaultTimingConfig()
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject zero propagation delay", func() {
			config := latency.DefaultTimingConfig()
			config.PropagationDelayPs = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject zero flag delay", func() {
			config := latency.DefaultTimingConfig()
			config.FlagDelayPs = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject zero boundary delay", func() {
			config := latency.DefaultTimingConfig()
			config.BoundaryDelayPs = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a ripple skew shorter than the carry delay", func() {
			config := latency.DefaultTimingConfig()
			config.RippleSkewPs = config.FlagDelayPs
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a clock period the outputs cannot settle in", func() {
			config := latency.DefaultTimingConfig()
			config.ClockPeriodPs = 1000
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()

			clone.PropagationDelayPs = 100

			Expect(original.PropagationDelayPs).To(Equal(uint64(500)))
			Expect(clone.PropagationDelayPs).To(Equal(uint64(100)))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.PropagationDelayPs = 250
			original.ClockPeriodPs = 20000

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"flag_delay_ps": 800}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.FlagDelayPs).To(Equal(uint64(800)))
			Expect(loaded.PropagationDelayPs).To(Equal(uint64(500)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
