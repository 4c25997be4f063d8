package gpr

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for scenario derivation. They are deterministic functions
// of the input and are never worth retrying.
var (
	// ErrConfiguration indicates invalid geometry or settings.
	ErrConfiguration = errors.New("gpr: invalid configuration")

	// ErrModelRange indicates inputs outside a dielectric model's validated domain.
	ErrModelRange = errors.New("gpr: input outside model range")

	// ErrUnknownIdentifier indicates an unregistered material, soil or fluid name.
	ErrUnknownIdentifier = errors.New("gpr: unknown identifier")

	// ErrPositionOutOfBounds indicates a placement outside the non-padded model region.
	ErrPositionOutOfBounds = errors.New("gpr: position out of bounds")

	// ErrIncompleteScenario indicates an assembly stage did not complete.
	ErrIncompleteScenario = errors.New("gpr: incomplete scenario")
)

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// RangeError reports a model input outside its validated interval.
type RangeError struct {
	Model string
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %s: %s=%g not in [%g, %g]", ErrModelRange, e.Model, e.Param, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrModelRange }

// CheckRange returns a *RangeError when v is outside [min, max] or NaN.
func CheckRange(model, param string, v, min, max float64) error {
	if v >= min && v <= max {
		return nil
	}
	return &RangeError{Model: model, Param: param, Value: v, Min: min, Max: max}
}

// UnknownError reports a name missing from a lookup table.
type UnknownError struct {
	Kind      string
	Name      string
	Available []string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%v: %s %q (available: %s)", ErrUnknownIdentifier, e.Kind, e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownError) Unwrap() error { return ErrUnknownIdentifier }

// BoundsError reports a placement that is not strictly inside the model region.
type BoundsError struct {
	Name     string
	Position Point
	Region   Box
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: %s at %v outside model region %v", ErrPositionOutOfBounds, e.Name, e.Position, e.Region)
}

func (e *BoundsError) Unwrap() error { return ErrPositionOutOfBounds }

// IncompleteError lists the assembly stages that did not produce a result.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrIncompleteScenario, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrIncompleteScenario }
