package plan

import (
	"fmt"

	"github.com/kpryor/burin/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(p *Plan) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateShapes(p)...)
	errs = append(errs, validateMountPlanes(p)...)
	errs = append(errs, validateDimensions(p)...)

	warnings = append(warnings, validateFilletHeadroom(p)...)

	return errs, warnings
}

// validateShapes runs the sketch layer's own constructors against every
// shape declaration, so corner count, radius sign, collinearity, and
// adjacent-fillet feasibility are all reported before any build starts.
func validateShapes(p *Plan) []ValidationError {
	var errs []ValidationError

	for _, node := range p.Shapes() {
		sd := node.Data.(ShapeData)
		var err error
		switch sd.Shape {
		case ShapePolygon:
			_, err = sketch.NewPolygon(node.Name, sd.Corners)
		case ShapeCircle:
			_, err = sketch.NewCircle(node.Name, sd.Center)
		default:
			err = fmt.Errorf("unknown shape kind %d", sd.Shape)
		}
		if err != nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateMountPlanes checks that every mount has a usable plane
// normal.
func validateMountPlanes(p *Plan) []ValidationError {
	var errs []ValidationError

	for _, node := range p.Mounts() {
		md := node.Data.(MountData)
		if md.Normal.Magnitude() == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "mount has a zero-length plane normal",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateDimensions checks that every operation's scalar dimensions
// are positive.
func validateDimensions(p *Plan) []ValidationError {
	var errs []ValidationError

	bad := func(id NodeID, field string, v float64) ValidationError {
		return ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf("%s is %.4f, must be positive", field, v),
			Severity: SeverityError,
		}
	}

	for _, node := range p.Operations() {
		switch d := node.Data.(type) {
		case PadData:
			if d.Length <= 0 {
				errs = append(errs, bad(node.ID, "pad length", d.Length))
			}
		case PocketData:
			if d.Depth <= 0 {
				errs = append(errs, bad(node.ID, "pocket depth", d.Depth))
			}
		case HoleData:
			if d.Diameter <= 0 {
				errs = append(errs, bad(node.ID, "hole diameter", d.Diameter))
			}
			if d.Depth <= 0 {
				errs = append(errs, bad(node.ID, "hole depth", d.Depth))
			}
		}
	}

	return errs
}

// validateFilletHeadroom warns when a corner radius exceeds half the
// length of an adjacent edge. Such a fillet is often still feasible,
// but it leaves little room and small dimension edits tend to tip it
// into an oversized-arc failure downstream.
func validateFilletHeadroom(p *Plan) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range p.Shapes() {
		sd := node.Data.(ShapeData)
		if sd.Shape != ShapePolygon {
			continue
		}
		n := len(sd.Corners)
		if n < 3 {
			continue // reported as an error by validateShapes
		}
		for i, c := range sd.Corners {
			if c.Radius <= 0 {
				continue
			}
			before := sd.Corners[(i+n-1)%n]
			after := sd.Corners[(i+1)%n]
			headroom := c.Distance(before)
			if d := c.Distance(after); d < headroom {
				headroom = d
			}
			if c.Radius > headroom/2 {
				warnings = append(warnings, ValidationWarning{
					NodeID: node.ID,
					Message: fmt.Sprintf(
						"corner %d radius %.1f exceeds half the shortest adjacent edge (%.1f); fillet headroom is tight",
						i, c.Radius, headroom,
					),
				})
			}
		}
	}

	return warnings
}
