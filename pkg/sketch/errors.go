// Package sketch lowers polygons and circles with optional corner
// fillets into fully-constrained 2D sketches: it solves tangent-arc
// geometry at filleted corners, extracts an ordered line/arc feature
// sequence, and emits a minimal, non-redundant constraint set against a
// kernel sketch object.
package sketch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies sketch construction failures.
type ErrorKind int

const (
	// InvalidGeometry: degenerate input such as a zero-length edge,
	// collinear corner triple, or empty point set.
	InvalidGeometry ErrorKind = iota

	// InfeasibleFillet: a requested fillet radius that cannot fit the
	// available edge length.
	InfeasibleFillet

	// UnsupportedInput: a malformed corner specification, rejected
	// before any geometry is computed.
	UnsupportedInput

	// StateError: a programming-contract violation such as reading the
	// origin index before production or double-assigning a feature
	// index.
	StateError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidGeometry:
		return "InvalidGeometry"
	case InfeasibleFillet:
		return "InfeasibleFillet"
	case UnsupportedInput:
		return "UnsupportedInput"
	case StateError:
		return "StateError"
	default:
		return "unknown"
	}
}

// GeometryError is a fatal sketch construction error. Polygon and
// Corner locate the failure for the designer; Corner is -1 when no
// single corner is at fault.
type GeometryError struct {
	Kind    ErrorKind
	Polygon string
	Corner  int
	Message string
}

func (e *GeometryError) Error() string {
	ctx := ""
	if e.Polygon != "" {
		ctx = fmt.Sprintf(" (polygon: %s)", e.Polygon)
		if e.Corner >= 0 {
			ctx = fmt.Sprintf(" (polygon: %s, corner: %d)", e.Polygon, e.Corner)
		}
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Message, ctx)
}

// geomErrf builds a GeometryError with formatted message.
func geomErrf(kind ErrorKind, polygon string, corner int, format string, args ...interface{}) *GeometryError {
	return &GeometryError{
		Kind:    kind,
		Polygon: polygon,
		Corner:  corner,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the ErrorKind from err if it is (or wraps) a
// GeometryError.
func KindOf(err error) (ErrorKind, bool) {
	var ge *GeometryError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}
