package kernel

import (
	"fmt"
	"strings"
)

// Compile-time interface check.
var _ Sketch = (*Recorder)(nil)

// Recorder is an in-memory Sketch implementation. It records primitives
// and constraints in emission order and validates index references, so
// tests and reports can inspect exactly what the engine emitted. Output
// is deterministic: identical emission sequences produce byte-identical
// reports.
type Recorder struct {
	prims        []Primitive
	construction []bool
	constraints  []Constraint
	recomputed   int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AddGeometry records primitives and returns the index of the first one.
func (r *Recorder) AddGeometry(prims []Primitive, construction bool) int {
	first := len(r.prims)
	for _, p := range prims {
		r.prims = append(r.prims, p)
		r.construction = append(r.construction, construction)
	}
	return first
}

// AddConstraints records constraints, rejecting out-of-range primitive
// references.
func (r *Recorder) AddConstraints(cs []Constraint) error {
	for _, c := range cs {
		if c.First < 0 || c.First >= len(r.prims) {
			return fmt.Errorf("constraint %s references unknown primitive %d", c, c.First)
		}
		switch c.Kind {
		case Coincident, Tangent, DistanceX, DistanceY:
			if c.Second < 0 || c.Second >= len(r.prims) {
				return fmt.Errorf("constraint %s references unknown primitive %d", c, c.Second)
			}
		}
		r.constraints = append(r.constraints, c)
	}
	return nil
}

// Recompute counts solver passes; the recorder has nothing to solve.
func (r *Recorder) Recompute() error {
	r.recomputed++
	return nil
}

// Primitives returns the recorded primitives in insertion order.
func (r *Recorder) Primitives() []Primitive {
	return r.prims
}

// Profile returns the recorded non-construction primitives in insertion
// order; this is the closed boundary a Body consumes.
func (r *Recorder) Profile() []Primitive {
	var out []Primitive
	for i, p := range r.prims {
		if !r.construction[i] {
			out = append(out, p)
		}
	}
	return out
}

// Constraints returns the recorded constraints in emission order.
func (r *Recorder) Constraints() []Constraint {
	return r.constraints
}

// Recomputed returns how many times Recompute was called.
func (r *Recorder) Recomputed() int {
	return r.recomputed
}

// CountKind returns the number of recorded constraints of the given kind.
func (r *Recorder) CountKind(kind ConstraintKind) int {
	n := 0
	for _, c := range r.constraints {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Report renders everything recorded, one line per primitive and
// constraint, in emission order.
func (r *Recorder) Report() string {
	var b strings.Builder
	for i, p := range r.prims {
		flag := ""
		if r.construction[i] {
			flag = " construction"
		}
		fmt.Fprintf(&b, "g%d %s%s\n", i, p, flag)
	}
	for i, c := range r.constraints {
		fmt.Fprintf(&b, "c%d %s\n", i, c)
	}
	return b.String()
}
