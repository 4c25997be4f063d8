// Package scenario assembles one complete, self-consistent parameter set
// per buried-pipe scenario.
//
// An [Assembler] is built once per run from immutable [Settings] and a
// dielectric resolver. Each call to [Assembler.Assemble] takes one [Input]
// tuple and either returns a fully populated [ParameterSet] or an error;
// partial sets are never returned. Assemblers hold no mutable state, so a
// sweep may call Assemble from many goroutines at once.
//
//	asm, err := scenario.NewAssembler(settings, dielectric.NewResolver(nil, nil))
//	set, err := asm.Assemble(scenario.Input{Frequency: 2.45e9, Geometry: g, Soil: s})
//	fields := set.Fields() // canonical name -> value, for rendering
package scenario
