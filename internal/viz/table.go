package viz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/scenario"
)

// Table renders rows under headers with the package styles.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Title.Padding(0, 1)
			}
			if col == 0 {
				return MetricLabel.Padding(0, 1)
			}
			return MetricValue.Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// ParameterTable lists every canonical field of set, sorted by name.
func ParameterTable(set *scenario.ParameterSet) string {
	fields := set.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, FormatValue(fields[name])})
	}
	return Title.Render(set.GeometryFilename) + "\n" + Table([]string{"field", "value"}, rows)
}

// FormatValue prints a field value compactly.
func FormatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', 6, 64)
	case []float64:
		out := ""
		for i, f := range x {
			if i > 0 {
				out += " "
			}
			out += strconv.FormatFloat(f, 'g', 4, 64)
		}
		return out
	case gpr.Point:
		return fmt.Sprintf("%.4g %.4g %.4g", x.X, x.Y, x.Z)
	}
	return fmt.Sprint(v)
}
