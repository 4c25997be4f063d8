// Package gpr provides the shared primitives of the scenario pipeline.
//
// The package defines the values every derivation stage agrees on:
//
//   - [Point]: a position or extent in the simulation domain, in metres
//   - [Box]: an axis-aligned region of the domain
//   - physical constants ([SpeedOfLight], [VacuumPermittivity], [FreeSpaceImpedance])
//   - the error taxonomy ([ErrConfiguration], [ErrModelRange],
//     [ErrUnknownIdentifier], [ErrPositionOutOfBounds], [ErrIncompleteScenario])
//
// # Axes
//
// X is the horizontal axis (the pipe length for along-pipe layouts), Y is
// vertical and grows upward from the domain floor, Z is the depth axis that
// collapses to a single cell in the 2D slice mode.
//
// # Errors
//
// Every detailed error type unwraps to one of the sentinels, so callers can
// branch with errors.Is and inspect details with errors.As:
//
//	set, err := asm.Assemble(in)
//	var rerr *gpr.RangeError
//	if errors.As(err, &rerr) {
//	    log.Printf("%s outside [%g, %g]", rerr.Param, rerr.Min, rerr.Max)
//	}
package gpr
