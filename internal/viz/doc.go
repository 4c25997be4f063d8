// Package viz renders scenario data for the terminal.
//
//   - [ParameterTable] and [Table]: lipgloss tables of parameter sets and listings
//   - [Curve]: asciigraph line plot, used for permittivity against water content
//   - [Progress]: Bubble Tea model that follows a running sweep
//
// # Key Bindings
//
//	q, Ctrl+C - cancel the sweep and quit
package viz
