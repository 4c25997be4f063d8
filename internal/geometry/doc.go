// Package geometry builds the padded simulation domain and places the pipe,
// antennas and observers inside it.
//
// A [Domain] is derived from a [Spec] in four steps: the absorbing-boundary
// padding per axis, the model extent chosen by the [Layout] and [Mode], the
// total extent (model plus padding on both faces) and finally the
// placements. Every antenna and observer must fall strictly inside the
// non-padded model region or [Build] fails with a *gpr.BoundsError; nothing
// is clamped.
package geometry
