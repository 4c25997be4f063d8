// Package dielectric resolves the electromagnetic properties of the
// materials present in a buried-pipe scenario.
//
// Three families of model are supported:
//
//   - [MaterialDB]: engineered materials whose permittivity and conductivity
//     follow the power-law form ε' = a·f^b, σ = c·f^d (f in GHz)
//   - [SoilPermittivity]: a semi-empirical dielectric mixing model over
//     sand/clay/silt fractions, densities and volumetric water content
//   - [PureWater] and [SeaWater]: two-relaxation Debye models used for the
//     optional pipe fill
//
// Every model checks its validated input domain and returns a
// *gpr.RangeError instead of extrapolating. Lookup tables return a
// *gpr.UnknownError for unregistered names.
//
// Complex permittivities use the ε' − jε″ convention, so the loss factor is
// the negated imaginary part.
package dielectric
