package dielectric

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/gprpipe/internal/gpr"
)

func TestResolverSoilConductivityRoundTrip(t *testing.T) {
	g := NewWithT(t)
	r := NewResolver(nil, nil)

	for _, f := range []float64{0.5e9, 1e9, 2.45e9, 5.8e9} {
		spec := SoilSpec{Name: "sandy_loam", Temperature: 10, WaterContent: 0.15}
		m, err := r.Soil(f, spec)
		g.Expect(err).NotTo(HaveOccurred())

		eps, err := SoilPermittivity(SoilParams{
			Frequency:    f,
			Temperature:  spec.Temperature,
			WaterContent: spec.WaterContent,
			Composition:  mustSoil(t, r, spec.Name),
		})
		g.Expect(err).NotTo(HaveOccurred())

		g.Expect(m.LossFactor).To(Equal(-imag(eps)))
		want := 2 * math.Pi * f * gpr.VacuumPermittivity * m.LossFactor
		g.Expect(m.Conductivity).To(BeNumerically("~", want, 1e-12*want))
		g.Expect(LossFactor(f, m.Conductivity)).To(BeNumerically("~", m.LossFactor, 1e-9*m.LossFactor))
	}
}

func mustSoil(t *testing.T, r *Resolver, name string) SoilComposition {
	t.Helper()
	c, err := r.Soils().Get(name)
	if err != nil {
		t.Fatalf("soil %s: %v", name, err)
	}
	return c
}

func TestResolverFluids(t *testing.T) {
	g := NewWithT(t)
	r := NewResolver(nil, nil)

	fresh, err := r.Fluid(2.45e9, FluidSpec{Name: FreshWater, Temperature: 15})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fresh.Permittivity).To(BeNumerically("~", 80, 5))
	g.Expect(fresh.LossFactor).To(BeNumerically("~", 12, 4))

	sea, err := r.Fluid(2.45e9, FluidSpec{Name: SeaWaterFluid, Temperature: 15})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sea.Permittivity).To(BeNumerically("<", fresh.Permittivity))
	g.Expect(sea.Conductivity).To(BeNumerically(">", fresh.Conductivity))

	_, err = r.Fluid(2.45e9, FluidSpec{Name: "oil"})
	g.Expect(err).To(MatchError(gpr.ErrUnknownIdentifier))

	_, err = r.Fluid(2.45e9, FluidSpec{Name: SeaWaterFluid, Temperature: 15, Salinity: 60})
	g.Expect(err).To(MatchError(gpr.ErrModelRange))

	_, err = r.Fluid(2.45e9, FluidSpec{Name: FreshWater, Temperature: 60})
	g.Expect(err).To(MatchError(gpr.ErrModelRange))
}

func TestSeaWaterWithoutSaltMatchesPureWater(t *testing.T) {
	g := NewWithT(t)

	pure, err := PureWater(3e9, 20)
	g.Expect(err).NotTo(HaveOccurred())
	salt, err := SeaWater(3e9, 20, 0)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(real(salt)).To(BeNumerically("~", real(pure), 1e-12))
	g.Expect(imag(salt)).To(BeNumerically("~", imag(pure), 1e-12))
}

func TestResolverUnknownSoil(t *testing.T) {
	g := NewWithT(t)
	_, err := NewResolver(nil, nil).Soil(2.45e9, SoilSpec{Name: "moon_dust", Temperature: 15, WaterContent: 0.1})
	g.Expect(err).To(MatchError(gpr.ErrUnknownIdentifier))
}

func TestResolverSoilCurve(t *testing.T) {
	g := NewWithT(t)
	r := NewResolver(nil, nil)
	spec := SoilSpec{Name: "loam", Temperature: 20}

	curve, err := r.SoilCurve(1e9, spec, []float64{0.05, 0.15, 0.3})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(curve).To(HaveLen(3))
	g.Expect(curve[1].Permittivity).To(BeNumerically(">", curve[0].Permittivity))
	g.Expect(curve[2].Permittivity).To(BeNumerically(">", curve[1].Permittivity))

	_, err = r.SoilCurve(1e9, spec, []float64{0.1, 0.7})
	g.Expect(err).To(MatchError(gpr.ErrModelRange))
}
