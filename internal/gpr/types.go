package gpr

import (
	"fmt"
	"math"
)

// Point is a 3D coordinate or extent in metres.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Lerp returns the point at fraction t of the way from p to o.
func (p Point) Lerp(o Point, t float64) Point {
	return p.Add(o.Sub(p).Scale(t))
}

// Axes returns the components in X, Y, Z order.
func (p Point) Axes() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// Max returns the largest component.
func (p Point) Max() float64 {
	return math.Max(p.X, math.Max(p.Y, p.Z))
}

func (p Point) IsValid() bool {
	for _, v := range p.Axes() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Box is an axis-aligned region. Collapsed marks axes whose extent is a
// single cell; containment on those axes is inclusive.
type Box struct {
	Min       Point   `json:"min"`
	Max       Point   `json:"max"`
	Collapsed [3]bool `json:"collapsed"`
}

// Contains reports whether p is strictly inside b on every extended axis and
// within the closed interval on collapsed axes.
func (b Box) Contains(p Point) bool {
	lo, hi, v := b.Min.Axes(), b.Max.Axes(), p.Axes()
	for i := range v {
		if b.Collapsed[i] {
			if v[i] < lo[i] || v[i] > hi[i] {
				return false
			}
			continue
		}
		if v[i] <= lo[i] || v[i] >= hi[i] {
			return false
		}
	}
	return true
}

// Size returns the extent of b per axis.
func (b Box) Size() Point {
	return b.Max.Sub(b.Min)
}

func (b Box) String() string {
	return fmt.Sprintf("[%v, %v]", b.Min, b.Max)
}
