package geometry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gprpipe/internal/geometry"
	"github.com/san-kum/gprpipe/internal/gpr"
)

func straightPipe() geometry.Spec {
	return geometry.Spec{
		PipeDiameter:  0.225,
		WallThickness: 0.035,
		PipeLength:    1.5,
		BurialDepth:   0.8,
		SoilDepth:     0.5,
		AirDepth:      0.5,
		FillRatio:     0.5,
	}
}

func alongPipeOptions(mode geometry.Mode) geometry.Options {
	return geometry.Options{
		Step:     0.001,
		PMLCells: 20,
		Mode:     mode,
		Layout:   geometry.AlongPipe{},
		Placement: geometry.Placement{
			TxOffset:          gpr.Point{X: 0.1},
			RxOffset:          gpr.Point{X: 0.1},
			ObserverFractions: []float64{1.0 / 3, 2.0 / 3},
		},
	}
}

var _ = Describe("Build", func() {
	var (
		spec geometry.Spec
		opts geometry.Options
	)

	BeforeEach(func() {
		spec = straightPipe()
		opts = alongPipeOptions(geometry.Slice{})
	})

	Context("in the 2D slice mode", func() {
		It("pads X and Y but not Z", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			w := float64(opts.PMLCells) * opts.Step
			Expect(d.Padding).To(Equal(gpr.Point{X: w, Y: w, Z: 0}))
			Expect(d.Model.Z).To(Equal(0.001))
			Expect(d.PMLCommand).To(Equal("20 20 0 20 20 0"))
		})

		It("adds twice the padding to every model extent", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			cells := float64(opts.PMLCells)
			Expect(d.Extent.X).To(Equal(d.Model.X + 2*(cells*opts.Step)))
			Expect(d.Extent.Y).To(Equal(d.Model.Y + 2*(cells*opts.Step)))
			Expect(d.Extent.Z).To(Equal(d.Model.Z))
		})

		It("puts the pipe axis above soil, wall and half the bore", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			h := d.Padding.Y + spec.CentrelineHeight()
			Expect(d.PipeStart).To(Equal(gpr.Point{X: 0, Y: h, Z: 0}))
			Expect(d.PipeEnd).To(Equal(gpr.Point{X: d.Extent.X, Y: h, Z: 0}))
		})

		It("offsets the antennas from the end faces past the padding", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Transmitter.X).To(BeNumerically("~", 0.12, 1e-12))
			Expect(d.Receiver.X).To(BeNumerically("~", 1.42, 1e-12))
			Expect(d.Transmitter.Y).To(Equal(d.PipeStart.Y))
		})

		It("spaces observers along the transmitter-receiver span", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Observers).To(HaveLen(2))
			span := d.Receiver.X - d.Transmitter.X
			Expect(d.Observers[0].X).To(BeNumerically("~", d.Transmitter.X+span/3, 1e-12))
			Expect(d.Observers[1].X).To(BeNumerically("~", d.Transmitter.X+2*span/3, 1e-12))
			Expect(d.Observers[0].Y).To(Equal(d.Receiver.Y))
		})

		It("is reproducible from identical inputs", func() {
			a, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())
			b, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))
		})
	})

	Context("in the 3D mode", func() {
		BeforeEach(func() {
			opts = alongPipeOptions(geometry.Full{})
		})

		It("pads all three axes and centres the pipe in depth", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Padding.Z).To(Equal(float64(opts.PMLCells) * opts.Step))
			Expect(d.Model.Z).To(Equal(spec.OuterDiameter() + 2*spec.SoilDepth))
			Expect(d.PipeStart.Z).To(Equal(d.Extent.Z / 2))
			Expect(d.PMLCommand).To(Equal("20 20 20 20 20 20"))
		})
	})

	Context("with a modelled fill", func() {
		It("raises both antennas by half the fill depth", func() {
			opts.Placement.FillModeled = true
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.FillDepth).To(Equal(spec.PipeDiameter * spec.FillRatio))
			Expect(d.Transmitter.Y).To(Equal(d.PipeStart.Y + d.FillDepth/2))
			Expect(d.Receiver.Y).To(Equal(d.PipeEnd.Y + d.FillDepth/2))
		})

		It("has no depth when the ratio is zero", func() {
			spec.FillRatio = 0
			opts.Placement.FillModeled = true
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.FillDepth).To(BeZero())
		})
	})

	Context("with the above-ground layout", func() {
		BeforeEach(func() {
			spec = geometry.Spec{
				PipeDiameter:  0.225,
				WallThickness: 0.06,
				BurialDepth:   1.0,
				SoilDepth:     1.0,
				AirDepth:      0.5,
			}
			opts.Layout = geometry.AboveGround{}
			opts.Placement = geometry.Placement{}
		})

		It("puts the receiver in the air layer above the pipe", func() {
			d, err := geometry.Build(spec, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Model.X).To(Equal(spec.OuterDiameter() + 2*spec.SoilDepth))
			Expect(d.Transmitter.X).To(Equal(d.Extent.X / 2))
			Expect(d.Receiver.Y).To(BeNumerically(">", d.AirBoundary))
			Expect(d.Receiver.Y).To(BeNumerically("<", d.Region.Max.Y))
		})
	})

	Context("when a placement leaves the model region", func() {
		It("fails instead of clamping a transmitter on the padding edge", func() {
			opts.Placement.TxOffset = gpr.Point{}
			_, err := geometry.Build(spec, opts)

			var berr *gpr.BoundsError
			Expect(err).To(MatchError(gpr.ErrPositionOutOfBounds))
			Expect(err).To(BeAssignableToTypeOf(berr))
		})

		It("fails when the offsets cross past each other beyond the pipe", func() {
			opts.Placement.RxOffset = gpr.Point{X: 2.0}
			_, err := geometry.Build(spec, opts)
			Expect(err).To(MatchError(gpr.ErrPositionOutOfBounds))
		})

		It("fails for an antenna pushed out of the slice", func() {
			opts.Placement.TxOffset = gpr.Point{X: 0.1, Z: 0.01}
			_, err := geometry.Build(spec, opts)
			Expect(err).To(MatchError(gpr.ErrPositionOutOfBounds))
		})
	})

	DescribeTable("rejects invalid geometry",
		func(mutate func(*geometry.Spec)) {
			mutate(&spec)
			_, err := geometry.Build(spec, opts)
			Expect(err).To(MatchError(gpr.ErrConfiguration))
		},
		Entry("negative diameter", func(s *geometry.Spec) { s.PipeDiameter = -0.1 }),
		Entry("negative burial depth", func(s *geometry.Spec) { s.BurialDepth = -1 }),
		Entry("fill ratio above one", func(s *geometry.Spec) { s.FillRatio = 1.2 }),
		Entry("negative fill ratio", func(s *geometry.Spec) { s.FillRatio = -0.01 }),
	)

	It("rejects a non-positive step", func() {
		opts.Step = 0
		_, err := geometry.Build(spec, opts)
		Expect(err).To(MatchError(gpr.ErrConfiguration))
	})
})

var _ = Describe("ParseMode", func() {
	It("maps names to variants", func() {
		m, err := geometry.ParseMode("2d")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(geometry.Slice{}))

		m, err = geometry.ParseMode("3D")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(geometry.Full{}))

		_, err = geometry.ParseMode("4D")
		Expect(err).To(MatchError(gpr.ErrConfiguration))
	})
})
