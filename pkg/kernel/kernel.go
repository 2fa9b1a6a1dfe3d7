// Package kernel defines the abstract sketch and body interfaces of the
// geometry kernel. Implementations (sdfx, the in-memory recorder)
// consume the geometric primitives and constraints emitted by the
// sketch engine behind these interfaces, so backends can be swapped
// without changing the rest of the system.
package kernel

import "github.com/kpryor/burin/pkg/geom"

// Sketch is a 2D sketch under construction. Callers must follow a
// strict ordering: all geometry is added before any constraint, and
// Recompute is called last. A Sketch is a single mutable resource with
// no internal concurrency.
type Sketch interface {
	// AddGeometry appends primitives to the sketch and returns the
	// index of the first primitive added. Indices are assigned
	// consecutively in argument order. Construction geometry is
	// reference-only and not part of the profile.
	AddGeometry(prims []Primitive, construction bool) int

	// AddConstraints appends constraints referencing previously added
	// primitives. Referencing an unknown primitive index is an error.
	AddConstraints(cs []Constraint) error

	// Recompute asks the backend to solve/validate the sketch.
	Recompute() error
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Body builds solids from sketch profiles.
type Body interface {
	// Pad extrudes a closed profile by length along +Z (or -Z when
	// reversed).
	Pad(profile []Primitive, length float64, reversed bool) (Solid, error)

	// Pocket removes the extrusion of a closed profile from base,
	// cutting depth into it from the top face.
	Pocket(base Solid, profile []Primitive, depth float64) (Solid, error)

	// Hole drills a cylinder of the given diameter and depth into base
	// at center, along -Z from the top face.
	Hole(base Solid, center geom.Point, diameter, depth float64) (Solid, error)

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
