package scenario

import (
	"strconv"
	"strings"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// GeometryFilename is the stem shared by every artefact of one scenario:
// base_fGHz_diameter_length_burial_soil_watercontent.
func GeometryFilename(base string, in Input) string {
	parts := []string{
		base,
		formatFloat(in.Frequency / gpr.GHz),
		formatFloat(in.Geometry.PipeDiameter),
		formatFloat(in.Geometry.PipeLength),
		formatFloat(in.Geometry.BurialDepth),
		in.Soil.Name,
		formatFloat(in.Soil.WaterContent),
	}
	return strings.Join(parts, "_")
}

// SnapshotFilename is the snapshot file stem for a geometry filename.
func SnapshotFilename(geometry string) string {
	return geometry + "_snapshot"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
