package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Curve plots values as an ASCII line graph.
func Curve(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return Subtle.Render("(no data)")
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
